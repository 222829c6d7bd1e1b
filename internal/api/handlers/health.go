package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/guias-opme/internal/api/middleware"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/sirupsen/logrus"
)

// isoTimestamp matches the millisecond UTC format clients expect
const isoTimestamp = "2006-01-02T15:04:05.000Z"

// HealthChecker reports the health of the service dependencies
type HealthChecker interface {
	Health() map[string]interface{}
}

// HealthHandler handles health check requests
type HealthHandler struct {
	services  HealthChecker
	logger    *logrus.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(services HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		services:  services,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetHealth handles general health check
// @Summary Health check
// @Description Reports that the service is up
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(isoTimestamp),
	})
}

// GetReadiness handles readiness probe
// @Summary Readiness check
// @Description Reports the state of upstream configuration and running aggregations
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	servicesHealth := h.services.Health()

	h.logger.WithField("request_id", c.GetString(middleware.RequestIDKey)).Debug("Readiness checked")

	c.JSON(http.StatusOK, gin.H{
		"ready":     true,
		"timestamp": time.Now().UTC().Format(isoTimestamp),
		"services":  servicesHealth,
	})
}

// GetLiveness handles liveness probe
// @Summary Liveness check
// @Description Check if the API is alive and responding
// @Tags Health
// @Produce json
// @Success 200 {object} models.LivenessResponse
// @Router /health/live [get]
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, models.LivenessResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}
