package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/onco-treatment-selector/internal/database"
	"github.com/onco-treatment-selector/internal/domain"
)

// generateTestPassword creates a random password for test databases
func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

func setupTestDB(t *testing.T) (*database.DB, func()) {
	ctx := context.Background()

	testPassword := generateTestPassword()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cfg := &domain.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		Database:        "testdb",
		Username:        "testuser",
		Password:        testPassword,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}

	db, err := database.NewConnection(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}

	databaseURL := "postgres://testuser:" + testPassword + "@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	migrationRunner, err := database.NewMigrationRunner(databaseURL, "../../migrations", logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}

	if err := migrationRunner.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		migrationRunner.Close()
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}

	return db, cleanup
}

func psPtr(v int) *int { return &v }

func testMapping() *domain.TreatmentMapping {
	return &domain.TreatmentMapping{
		CancerType:            "Non-Small Cell Lung Cancer",
		Histology:             "Adenocarcinoma",
		Biomarkers:            []string{"EGFR Exon 19 Deletion"},
		ConflictingBiomarkers: []string{"ALK Fusion", "ROS1 Fusion"},
		TreatmentIntent:       "Palliative",
		LineOfTreatment:       "1st Line",
		RequiredStage:         []string{"Stage IV"},
		PerformanceStatusMin:  psPtr(0),
		PerformanceStatusMax:  psPtr(2),
		TreatmentProtocol:     "Osimertinib 80mg daily",
		EvidenceReference:     "FLAURA",
		NCCNReference:         "NSCL-20",
		ConfidenceScore:       0.95,
		PriorityTag:           domain.PriorityPreferred,
		ToxicityLevel:         "Moderate",
		IsActive:              true,
	}
}

func TestMappingRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewMappingRepository(db.Pool, logger)

	m := testMapping()
	require.NoError(t, repo.Create(context.Background(), m))
	require.NotEmpty(t, m.ID)

	got, err := repo.GetMapping(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.CancerType, got.CancerType)
	assert.Equal(t, m.Biomarkers, got.Biomarkers)
	assert.Equal(t, m.ConflictingBiomarkers, got.ConflictingBiomarkers)
	assert.Equal(t, domain.PriorityPreferred, got.PriorityTag)
	assert.InDelta(t, 0.95, got.ConfidenceScore, 1e-9)
	require.NotNil(t, got.PerformanceStatusMax)
	assert.Equal(t, 2, *got.PerformanceStatusMax)
}

func TestMappingRepository_GetMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewMappingRepository(db.Pool, logger)

	_, err := repo.GetMapping(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMappingRepository_ListActiveMappings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewMappingRepository(db.Pool, logger)
	ctx := context.Background()

	specific := testMapping()
	require.NoError(t, repo.Create(ctx, specific))

	generic := testMapping()
	generic.ID = ""
	generic.CancerType = domain.CancerTypeAny
	generic.Histology = domain.HistologyAny
	generic.Biomarkers = []string{"MSI-High"}
	generic.ConflictingBiomarkers = nil
	generic.LineOfTreatment = domain.LineAny
	generic.RequiredStage = []string{domain.StageAll}
	generic.TreatmentProtocol = "Pembrolizumab 200mg q3w"
	generic.PriorityTag = domain.PriorityFallback
	require.NoError(t, repo.Create(ctx, generic))

	other := testMapping()
	other.ID = ""
	other.CancerType = "Breast Cancer"
	require.NoError(t, repo.Create(ctx, other))

	inactive := testMapping()
	inactive.ID = ""
	inactive.IsActive = false
	require.NoError(t, repo.Create(ctx, inactive))

	mappings, err := repo.ListActiveMappings(ctx, "Non-Small Cell Lung Cancer", "Palliative")
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, m := range mappings {
		ids[m.ID] = true
		assert.True(t, m.IsActive)
	}
	// Narrowed to the cancer type plus the pan-tumor generic.
	assert.True(t, ids[specific.ID])
	assert.True(t, ids[generic.ID])
	assert.False(t, ids[other.ID])
	assert.False(t, ids[inactive.ID])
}

func TestMappingRepository_UpdateAndDeactivate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewMappingRepository(db.Pool, logger)
	ctx := context.Background()

	m := testMapping()
	require.NoError(t, repo.Create(ctx, m))

	m.ConfidenceScore = 0.9
	m.TreatmentProtocol = "Osimertinib 80mg daily + chemotherapy"
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetMapping(ctx, m.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.ConfidenceScore, 1e-9)
	assert.Equal(t, "Osimertinib 80mg daily + chemotherapy", got.TreatmentProtocol)

	require.NoError(t, repo.Deactivate(ctx, m.ID))
	got, err = repo.GetMapping(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	mappings, err := repo.ListActiveMappings(ctx, m.CancerType, m.TreatmentIntent)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestCriteriaRepository_CreateAndList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewCriteriaRepository(db.Pool, logger)
	ctx := context.Background()

	defs := []*domain.CriterionDefinition{
		{Category: domain.CategoryBiomarker, Value: "EGFR Exon 19 Deletion", IsCommon: true, SortOrder: 1, IsActive: true},
		{Category: domain.CategoryBiomarker, Value: "ALK Fusion", SortOrder: 2, IsActive: true},
		{Category: domain.CategoryCancerType, Value: "Non-Small Cell Lung Cancer", SortOrder: 1, IsActive: true},
	}
	for _, d := range defs {
		require.NoError(t, repo.Create(ctx, d))
		assert.NotZero(t, d.ID)
	}

	biomarkers, err := repo.ListCriteria(ctx, domain.CategoryBiomarker)
	require.NoError(t, err)
	require.Len(t, biomarkers, 2)
	assert.Equal(t, "EGFR Exon 19 Deletion", biomarkers[0].Value)
	assert.Equal(t, "ALK Fusion", biomarkers[1].Value)

	// Re-seeding the same value is an upsert, not a duplicate.
	require.NoError(t, repo.Create(ctx, defs[0]))
	biomarkers, err = repo.ListCriteria(ctx, domain.CategoryBiomarker)
	require.NoError(t, err)
	assert.Len(t, biomarkers, 2)
}

func TestCriteriaRepository_Deactivate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewCriteriaRepository(db.Pool, logger)
	ctx := context.Background()

	d := &domain.CriterionDefinition{Category: domain.CategoryStage, Value: "Stage IV", IsActive: true}
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.Deactivate(ctx, domain.CategoryStage, "Stage IV"))

	defs, err := repo.ListCriteria(ctx, domain.CategoryStage)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.False(t, defs[0].IsActive)

	err = repo.Deactivate(ctx, domain.CategoryStage, "Stage 99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
