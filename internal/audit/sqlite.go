package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/onco-treatment-selector/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite, for the
// standalone binary which runs without Postgres.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite decision store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS decision_log (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL DEFAULT '',
		cancer_type TEXT NOT NULL,
		histology TEXT NOT NULL,
		biomarkers TEXT NOT NULL DEFAULT '[]',
		treatment_intent TEXT NOT NULL,
		line_of_treatment TEXT NOT NULL,
		stage TEXT NOT NULL DEFAULT '',
		performance_score INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		top_protocol TEXT NOT NULL DEFAULT '',
		top_score REAL NOT NULL DEFAULT 0,
		match_count INTEGER NOT NULL DEFAULT 0,
		fallback_used INTEGER NOT NULL DEFAULT 0,
		processing_time_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_decision_created_at ON decision_log(created_at);
	CREATE INDEX IF NOT EXISTS idx_decision_cancer_type ON decision_log(cancer_type);
	`

	_, err := db.Exec(schema)
	return err
}

// RecordDecision stores one selection outcome.
func (s *SQLiteStore) RecordDecision(ctx context.Context, record *domain.DecisionRecord) error {
	biomarkers, err := json.Marshal(record.Biomarkers)
	if err != nil {
		return fmt.Errorf("failed to marshal biomarkers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decision_log (
			id, request_id, cancer_type, histology, biomarkers,
			treatment_intent, line_of_treatment, stage, performance_score,
			status, top_protocol, top_score, match_count, fallback_used,
			processing_time_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.RequestID,
		record.CancerType,
		record.Histology,
		string(biomarkers),
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
func (s *SQLiteStore) ListDecisions(ctx context.Context, limit, offset int) ([]*domain.DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, cancer_type, histology, biomarkers,
			treatment_intent, line_of_treatment, stage, performance_score,
			status, top_protocol, top_score, match_count, fallback_used,
			processing_time_ms, created_at
		FROM decision_log
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var records []*domain.DecisionRecord
	for rows.Next() {
		r := &domain.DecisionRecord{}
		var biomarkers string

		err := rows.Scan(
			&r.ID, &r.RequestID, &r.CancerType, &r.Histology, &biomarkers,
			&r.TreatmentIntent, &r.LineOfTreatment, &r.Stage, &r.PerformanceScore,
			&r.Status, &r.TopProtocol, &r.TopScore, &r.MatchCount, &r.FallbackUsed,
			&r.ProcessingTimeMs, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		if err := json.Unmarshal([]byte(biomarkers), &r.Biomarkers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal biomarkers: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}

	return records, nil
}

// Summary aggregates decision outcomes.
func (s *SQLiteStore) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'MATCHED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'NO_MATCH' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN fallback_used THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(processing_time_ms), 0)
		FROM decision_log`).Scan(
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
