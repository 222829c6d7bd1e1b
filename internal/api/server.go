package api

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/guias-opme/internal/api/handlers"
	"github.com/nexconsult/guias-opme/internal/api/middleware"
	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed static/index.html
var indexHTML []byte

// Dependencies are the services the HTTP layer needs
type Dependencies struct {
	Pipeline services.PipelineInterface
	Health   handlers.HealthChecker
	Gatherer prometheus.Gatherer
}

// DependenciesFrom extracts the HTTP dependencies from a service container
func DependenciesFrom(c *services.Container) Dependencies {
	return Dependencies{
		Pipeline: c.Pipeline,
		Health:   c,
		Gatherer: c.Registry(),
	}
}

// Server represents the HTTP server
type Server struct {
	Router      *gin.Engine
	config      *config.Config
	logger      *logrus.Logger
	deps        Dependencies
	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, logger *logrus.Logger, deps Dependencies) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter() {
	s.Router = gin.New()

	// Global middleware
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())

	// Static client page
	s.Router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})

	// Health check endpoints (no rate limiting)
	healthHandler := handlers.NewHealthHandler(s.deps.Health, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)

	// Metrics endpoint
	if s.deps.Gatherer != nil {
		s.Router.GET("/metrics", handlers.NewMetricsHandler(s.deps.Gatherer, s.logger).GetMetrics())
	}

	// Swagger documentation
	if s.config.Server.Environment != "production" {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Aggregation routes
	s.rateLimiter = middleware.NewRateLimiter(s.config.Security.RateLimit)
	guiasHandler := handlers.NewGuiasHandler(s.deps.Pipeline, s.logger)
	apiGroup := s.Router.Group("/api")
	apiGroup.Use(s.rateLimiter.Middleware())
	{
		apiGroup.GET("/guias-opme-progress", guiasHandler.StreamProgress)
		apiGroup.GET("/guias-opme", guiasHandler.GetGuias)
	}

	// 404 handler
	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not Found",
			"message":   "The requested resource was not found",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
		})
	})

	// 405 handler
	s.Router.HandleMethodNotAllowed = true
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":     "Method Not Allowed",
			"message":   "The requested method is not allowed for this resource",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		})
	})
}

// Close stops background work owned by the server
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
