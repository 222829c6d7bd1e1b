package services

import (
	"time"

	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the aggregator.
//
// Metrics:
//   - guias_opme_runs_total{result} - runs by outcome (complete, error, canceled)
//   - guias_opme_runs_active - runs currently streaming
//   - guias_opme_run_duration_seconds - wall time of a run
//   - guias_opme_records_total{bucket} - classified records per bucket
//   - guias_opme_upstream_requests_total{endpoint,outcome} - outbound calls
//   - guias_opme_upstream_request_duration_seconds{endpoint} - outbound latency
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RunsActive       prometheus.Gauge
	RunDuration      prometheus.Histogram
	RecordsTotal     *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guias_opme_runs_total",
				Help: "Total number of aggregation runs by outcome",
			},
			[]string{"result"},
		),
		RunsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guias_opme_runs_active",
				Help: "Number of aggregation runs in progress",
			},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "guias_opme_run_duration_seconds",
				Help:    "Duration of aggregation runs in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guias_opme_records_total",
				Help: "Total number of classified OPME guides by bucket",
			},
			[]string{"bucket"},
		),
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guias_opme_upstream_requests_total",
				Help: "Total number of requests sent to the authorization API",
			},
			[]string{"endpoint", "outcome"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guias_opme_upstream_request_duration_seconds",
				Help:    "Latency of requests sent to the authorization API",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

func (m *Metrics) runStarted() {
	if m == nil {
		return
	}
	m.RunsActive.Inc()
}

func (m *Metrics) runFinished(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunsActive.Dec()
	m.RunsTotal.WithLabelValues(result).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) recordClassified(b models.Bucket) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(string(b)).Inc()
}

func (m *Metrics) upstreamCall(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
