// Package audit persists decision records: one row per selection call, kept
// so clinical recommendations stay reviewable after the fact.
package audit

import (
	"context"

	"github.com/onco-treatment-selector/internal/domain"
)

// Store is the decision audit backend. Two implementations exist: Postgres
// for the full deployment and SQLite for the standalone binary.
type Store interface {
	RecordDecision(ctx context.Context, record *domain.DecisionRecord) error
	ListDecisions(ctx context.Context, limit, offset int) ([]*domain.DecisionRecord, error)
	Summary(ctx context.Context) (*Summary, error)
	Close() error
}

// Summary aggregates decision outcomes for monitoring.
type Summary struct {
	TotalDecisions int64   `json:"total_decisions"`
	Matched        int64   `json:"matched"`
	NoMatch        int64   `json:"no_match"`
	FallbackUsed   int64   `json:"fallback_used"`
	AvgDurationMs  float64 `json:"avg_duration_ms"`
}
