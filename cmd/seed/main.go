package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/config"
	"github.com/onco-treatment-selector/internal/database"
	"github.com/onco-treatment-selector/internal/repository"
	"github.com/onco-treatment-selector/internal/seed"
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

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), *migrationsPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration runner")
	}
	if err := runner.Up(); err != nil {
		logger.WithError(err).Fatal("Failed to apply migrations")
	}
	runner.Close()

	db, err := database.NewConnection(ctx, configManager.GetDatabaseConfig(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	seeder := seed.NewSeeder(
		repository.NewCriteriaRepository(db.Pool, logger),
		repository.NewMappingRepository(db.Pool, logger),
		logger,
	)

	if err := seeder.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}

	logger.Info("Seeding complete")
}
