package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/onco-treatment-selector/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL decision store.
// It expects the schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL decision store from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// RecordDecision stores one selection outcome.
func (s *PostgresStore) RecordDecision(ctx context.Context, record *domain.DecisionRecord) error {
	query := `
		INSERT INTO decision_log (
			id, request_id, cancer_type, histology, biomarkers,
			treatment_intent, line_of_treatment, stage, performance_score,
			status, top_protocol, top_score, match_count, fallback_used,
			processing_time_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.RequestID,
		record.CancerType,
		record.Histology,
		pq.Array(record.Biomarkers),
		record.TreatmentIntent,
		record.LineOfTreatment,
		record.Stage,
		record.PerformanceScore,
		record.Status,
		record.TopProtocol,
		record.TopScore,
		record.MatchCount,
		record.FallbackUsed,
		record.ProcessingTimeMs,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	return nil
}

// ListDecisions returns decision records newest first with pagination.
func (s *PostgresStore) ListDecisions(ctx context.Context, limit, offset int) ([]*domain.DecisionRecord, error) {
	query := `
		SELECT id, request_id, cancer_type, histology, biomarkers,
			treatment_intent, line_of_treatment, stage, performance_score,
			status, top_protocol, top_score, match_count, fallback_used,
			processing_time_ms, created_at
		FROM decision_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var records []*domain.DecisionRecord
	for rows.Next() {
		r := &domain.DecisionRecord{}
		var biomarkers pq.StringArray

		err := rows.Scan(
			&r.ID, &r.RequestID, &r.CancerType, &r.Histology, &biomarkers,
			&r.TreatmentIntent, &r.LineOfTreatment, &r.Stage, &r.PerformanceScore,
			&r.Status, &r.TopProtocol, &r.TopScore, &r.MatchCount, &r.FallbackUsed,
			&r.ProcessingTimeMs, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		r.Biomarkers = []string(biomarkers)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}

	return records, nil
}

// Summary aggregates decision outcomes.
func (s *PostgresStore) Summary(ctx context.Context) (*Summary, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'MATCHED'),
			COUNT(*) FILTER (WHERE status = 'NO_MATCH'),
			COUNT(*) FILTER (WHERE fallback_used),
			COALESCE(AVG(processing_time_ms), 0)
		FROM decision_log
	`

	summary := &Summary{}
	err := s.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalDecisions,
		&summary.Matched,
		&summary.NoMatch,
		&summary.FallbackUsed,
		&summary.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize decisions: %w", err)
	}

	return summary, nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
