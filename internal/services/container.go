package services

import (
	"fmt"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Container holds all service dependencies
type Container struct {
	config   *config.Config
	logger   *logrus.Logger
	registry *prometheus.Registry
	client   *UpstreamClient

	Metrics          *Metrics
	TokenService     TokenServiceInterface
	ListaService     ListaServiceInterface
	DetalheService   DetalheServiceInterface
	HistoricoService HistoricoServiceInterface
	Correlator       CorrelatorInterface
	Pipeline         PipelineInterface
}

// NewContainer creates a new service container
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	container := &Container{
		config: cfg,
		logger: logger,
	}

	container.initMetrics()

	if err := container.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initMetrics creates a dedicated registry with runtime collectors
func (c *Container) initMetrics() {
	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = NewMetrics(c.registry)
}

// initServices initializes all services
func (c *Container) initServices() error {
	upstream := c.config.Upstream

	c.client = NewUpstreamClient(upstream, c.Metrics, c.logger)

	c.TokenService = NewTokenService(upstream, c.client, c.logger)
	c.ListaService = NewListaService(upstream, c.config.Pipeline, c.client, c.logger)
	c.DetalheService = NewDetalheService(upstream, c.client, c.logger)

	var historico HistoricoServiceInterface
	if upstream.HistoryEnabled() {
		historico = NewHistoricoService(upstream, c.client, c.logger)
		c.HistoricoService = historico
		c.logger.WithField("events_base_url", upstream.EventsBaseURL).Info("Status history enabled")
	}

	c.Correlator = NewCorrelator(upstream, c.DetalheService, historico, c.logger)
	c.Pipeline = NewPipeline(c.config.Pipeline, c.TokenService, c.ListaService, c.Correlator, c.Metrics, c.logger)

	return nil
}

// Close closes all service connections
func (c *Container) Close() error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	return nil
}

// Health checks the health of all services
func (c *Container) Health() map[string]interface{} {
	health := make(map[string]interface{})

	health["upstream"] = map[string]interface{}{
		"status":   "configured",
		"base_url": c.config.Upstream.BaseURL,
	}

	if c.HistoricoService != nil {
		health["historico"] = map[string]interface{}{"status": "enabled"}
	} else {
		health["historico"] = map[string]interface{}{"status": "disabled"}
	}

	if c.Pipeline != nil {
		health["pipeline"] = c.Pipeline.Health()
	}

	return health
}

// Registry returns the Prometheus registry served on /metrics
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}
