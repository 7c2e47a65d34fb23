package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/audit"
	"github.com/onco-treatment-selector/internal/domain"
	"github.com/onco-treatment-selector/internal/middleware"
)

// MappingAdmin is the write surface for the mapping catalog.
type MappingAdmin interface {
	GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error)
	Create(ctx context.Context, m *domain.TreatmentMapping) error
	Update(ctx context.Context, m *domain.TreatmentMapping) error
	Deactivate(ctx context.Context, id string) error
}

// CriteriaAdmin is the write surface for the criteria catalog.
type CriteriaAdmin interface {
	domain.CriteriaCatalog
	Create(ctx context.Context, d *domain.CriterionDefinition) error
	Deactivate(ctx context.Context, category domain.CriterionCategory, value string) error
}

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	selector      domain.TreatmentSelector
	mappings      MappingAdmin
	criteria      CriteriaAdmin
	decisions     audit.Store
	healthChecks  map[string]func(ctx context.Context) error
	limiter       *middleware.RateLimiter
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. decisions may be nil when
// auditing is disabled; healthChecks maps dependency names to ping funcs.
func NewServer(
	configManager domain.ConfigManager,
	logger *logrus.Logger,
	selector domain.TreatmentSelector,
	mappings MappingAdmin,
	criteria CriteriaAdmin,
	decisions audit.Store,
	healthChecks map[string]func(ctx context.Context) error,
) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())
	router.Use(limiter.Middleware())

	server := &Server{
		configManager: configManager,
		logger:        logger,
		selector:      selector,
		mappings:      mappings,
		criteria:      criteria,
		decisions:     decisions,
		healthChecks:  healthChecks,
		limiter:       limiter,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", addr).Info("HTTP server started")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	s.limiter.Stop()
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/match", s.handleMatch)
		v1.GET("/criteria/:category", s.handleListCriteria)
		v1.POST("/criteria", s.handleCreateCriterion)
		v1.DELETE("/criteria/:category/:value", s.handleDeactivateCriterion)
		v1.GET("/mappings/:id", s.handleGetMapping)
		v1.POST("/mappings", s.handleCreateMapping)
		v1.PUT("/mappings/:id", s.handleUpdateMapping)
		v1.DELETE("/mappings/:id", s.handleDeactivateMapping)
		v1.GET("/decisions", s.handleListDecisions)
		v1.GET("/decisions/summary", s.handleDecisionSummary)
	}
}

// handleHealth reports service and dependency health.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range s.healthChecks {
		if err := check(ctx); err != nil {
			deps[name] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "healthy"
		}
	}

	c.JSON(status, gin.H{
		"status":       healthLabel(status),
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}

func healthLabel(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
