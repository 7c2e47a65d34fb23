// Package mcp exposes treatment selection to AI agents over the Model
// Context Protocol. The server runs standalone: it serves the built-in
// catalog and records decisions to a local SQLite file.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/audit"
	"github.com/onco-treatment-selector/internal/cache"
	"github.com/onco-treatment-selector/internal/config"
	"github.com/onco-treatment-selector/internal/datasource"
	"github.com/onco-treatment-selector/internal/domain"
	"github.com/onco-treatment-selector/internal/seed"
	"github.com/onco-treatment-selector/internal/service"
)

const (
	serverName    = "onco-treatment-selector"
	serverVersion = "v1.0.0"
)

// Server wires the selector behind MCP tools over stdio.
type Server struct {
	config    *config.LiteConfig
	mcpServer *mcp.Server
	selector  domain.TreatmentSelector
	source    domain.MappingSource
	catalog   domain.CriteriaCatalog
	decisions audit.Store
	logger    *logrus.Logger
}

// Option is a functional option for Server.
type Option func(*Server) error

// WithDecisionStore sets a custom decision store.
func WithDecisionStore(store audit.Store) Option {
	return func(s *Server) error {
		s.decisions = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a standalone MCP server instance backed by the built-in
// seed data.
func NewServer(cfg *config.LiteConfig, opts ...Option) (*Server, error) {
	server := &Server{
		config: cfg,
		logger: logrus.New(),
	}

	if cfg.LogFormat == "text" {
		server.logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		server.logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	server.logger.SetLevel(level)

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if server.decisions == nil {
		store, err := audit.NewSQLiteStore(cfg.DecisionDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create decision store: %w", err)
		}
		server.decisions = store
	}

	memSource := seed.NewMemorySource()
	snapshots := &memorySnapshots{
		cache: cache.NewSnapshotCache(cfg.CacheMaxItems, cfg.CacheTTL),
	}
	source, err := datasource.NewResilientSource(server.logger, memSource, memSource, snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}
	server.source = source
	server.catalog = source
	server.selector = service.NewSelectorService(server.logger, source, source, server.decisions)

	serverInfo := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	server.mcpServer = mcp.NewServer(serverInfo, nil)
	server.registerTools()

	server.logger.Info("MCP server initialized")
	return server, nil
}

// registerTools registers the selection tools with the MCP SDK.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(&mcp.Tool{
		Name: "select_treatment",
		Description: "Select ranked NCCN-aligned treatment protocols for a patient. " +
			"Requires cancer_type, histology, treatment_intent and line_of_treatment; " +
			"biomarkers, stage and performance_status narrow the match.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleSelectTreatment)

	s.mcpServer.AddTool(&mcp.Tool{
		Name: "list_criteria",
		Description: "List the accepted values for one criteria category " +
			"(cancer_type, histology, biomarker, pdl1_status, treatment_intent, " +
			"line_of_treatment, performance_status, stage, resistance_marker, " +
			"treatment_reason, molecular_subtype).",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleListCriteria)

	s.mcpServer.AddTool(&mcp.Tool{
		Name: "explain_recommendation",
		Description: "Explain one protocol mapping by ID: the clinical conditions " +
			"it was authored for, its evidence references and its preference tier.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleExplainRecommendation)

	s.logger.WithField("tool_count", 3).Info("Registered MCP tools")
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// memorySnapshots adapts the in-process snapshot cache to the data source
// cache interface. The TTL is fixed at construction; the per-call ttl is
// ignored.
type memorySnapshots struct {
	cache *cache.SnapshotCache
}

func (m *memorySnapshots) GetSnapshot(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, bool, error) {
	mappings, ok := m.cache.Get(cancerType, treatmentIntent)
	return mappings, ok, nil
}

func (m *memorySnapshots) SetSnapshot(ctx context.Context, cancerType, treatmentIntent string, mappings []domain.TreatmentMapping, ttl time.Duration) error {
	m.cache.Set(cancerType, treatmentIntent, mappings)
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.decisions != nil {
		if err := s.decisions.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close decision store")
			return err
		}
	}
	return nil
}
