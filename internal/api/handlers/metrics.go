package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// MetricsHandler serves the Prometheus registry
type MetricsHandler struct {
	gatherer prometheus.Gatherer
	logger   *logrus.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(gatherer prometheus.Gatherer, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		gatherer: gatherer,
		logger:   logger,
	}
}

// GetMetrics handles metrics request
// @Summary Prometheus metrics
// @Description Runs, classified guides per group and upstream request counters in the Prometheus text format
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *MetricsHandler) GetMetrics() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{
		ErrorLog:      h.logger,
		ErrorHandling: promhttp.ContinueOnError,
	})
	return gin.WrapH(handler)
}
