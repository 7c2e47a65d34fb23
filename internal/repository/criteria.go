package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/domain"
)

// CriteriaRepository handles the criteria catalog persistence
type CriteriaRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewCriteriaRepository creates a new criteria repository
func NewCriteriaRepository(db *pgxpool.Pool, logger *logrus.Logger) *CriteriaRepository {
	return &CriteriaRepository{
		db:  db,
		log: logger,
	}
}

// ListCriteria returns the definitions for one category, display-ordered.
func (r *CriteriaRepository) ListCriteria(ctx context.Context, category domain.CriterionCategory) ([]domain.CriterionDefinition, error) {
	query := `
		SELECT id, category, value, description, evidence_level,
		       is_common, sort_order, is_active, created_at
		FROM treatment_criteria
		WHERE category = $1
		ORDER BY sort_order, value`

	rows, err := r.db.Query(ctx, query, category.String())
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"category": category,
			"error":    err,
		}).Error("Failed to list criteria")
		return nil, fmt.Errorf("listing criteria: %w", err)
	}
	defer rows.Close()

	var defs []domain.CriterionDefinition
	for rows.Next() {
		var d domain.CriterionDefinition
		err := rows.Scan(
			&d.ID,
			&d.Category,
			&d.Value,
			&d.Description,
			&d.EvidenceLevel,
			&d.IsCommon,
			&d.SortOrder,
			&d.IsActive,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning criterion row: %w", err)
		}
		defs = append(defs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating criterion rows: %w", err)
	}

	return defs, nil
}

// Create inserts a new criterion definition. (category, value) is unique;
// duplicates are upserted so seeding is idempotent.
func (r *CriteriaRepository) Create(ctx context.Context, d *domain.CriterionDefinition) error {
	query := `
		INSERT INTO treatment_criteria (category, value, description, evidence_level, is_common, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT treatment_criteria_category_value_key
		DO UPDATE SET description = EXCLUDED.description,
		              evidence_level = EXCLUDED.evidence_level,
		              is_common = EXCLUDED.is_common,
		              sort_order = EXCLUDED.sort_order,
		              is_active = EXCLUDED.is_active
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		d.Category.String(),
		d.Value,
		d.Description,
		d.EvidenceLevel,
		d.IsCommon,
		d.SortOrder,
		d.IsActive,
	).Scan(&d.ID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"category": d.Category,
			"value":    d.Value,
			"error":    err,
		}).Error("Failed to create criterion")
		return fmt.Errorf("creating criterion: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a criterion definition.
func (r *CriteriaRepository) Deactivate(ctx context.Context, category domain.CriterionCategory, value string) error {
	query := `UPDATE treatment_criteria SET is_active = FALSE WHERE category = $1 AND value = $2`

	result, err := r.db.Exec(ctx, query, category.String(), value)
	if err != nil {
		return fmt.Errorf("deactivating criterion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("criterion not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"category": category,
		"value":    value,
	}).Info("Criterion deactivated")

	return nil
}
