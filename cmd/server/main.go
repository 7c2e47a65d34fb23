package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/api"
	"github.com/onco-treatment-selector/internal/audit"
	"github.com/onco-treatment-selector/internal/cache"
	"github.com/onco-treatment-selector/internal/config"
	"github.com/onco-treatment-selector/internal/database"
	"github.com/onco-treatment-selector/internal/datasource"
	"github.com/onco-treatment-selector/internal/repository"
	"github.com/onco-treatment-selector/internal/service"
)

func main() {
	migrationsPath := flag.String("migrations", "migrations", "path to SQL migration files")
	flag.Parse()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Database and migrations
	db, err := database.NewConnection(ctx, configManager.GetDatabaseConfig(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), *migrationsPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration runner")
	}
	if err := runner.Up(); err != nil {
		logger.WithError(err).Fatal("Failed to apply migrations")
	}
	runner.Close()

	mappingRepo := repository.NewMappingRepository(db.Pool, logger)
	criteriaRepo := repository.NewCriteriaRepository(db.Pool, logger)

	// Redis snapshot cache is optional: the server degrades to store-only
	// reads when Redis is unreachable at startup.
	var snapshots datasource.SnapshotCache
	protocolCache, err := cache.NewProtocolCache(configManager.GetCacheConfig())
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, running without snapshot cache")
	} else {
		snapshots = protocolCache
		defer protocolCache.Close()
	}

	source, err := datasource.NewResilientSource(logger, mappingRepo, criteriaRepo, snapshots)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create data source")
	}

	decisions, err := newDecisionStore(cfg.Audit.Backend, cfg.Audit.SQLitePath, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create decision store")
	}
	if decisions != nil {
		defer decisions.Close()
	}

	selector := service.NewSelectorService(logger, source, source, decisions)

	healthChecks := map[string]func(ctx context.Context) error{
		"database": db.Health,
	}
	if snapshots != nil {
		healthChecks["redis"] = protocolCache.Ping
	}

	server := api.NewServer(configManager, logger, selector, mappingRepo, criteriaRepo, decisions, healthChecks)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting treatment selector server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// newDecisionStore builds the audit backend named in the configuration.
// Returns nil when auditing is disabled.
func newDecisionStore(backend, sqlitePath string, configManager *config.Manager, logger *logrus.Logger) (audit.Store, error) {
	switch backend {
	case "postgres":
		return audit.NewPostgresStoreFromURL(configManager.GetDatabaseURL())
	case "sqlite":
		return audit.NewSQLiteStore(sqlitePath)
	default:
		logger.Info("Decision auditing disabled")
		return nil, nil
	}
}
