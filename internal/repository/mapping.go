package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/domain"
)

const mappingColumns = `
	id, cancer_type, histology, biomarkers, conflicting_biomarkers,
	treatment_intent, line_of_treatment, required_stage,
	performance_status_min, performance_status_max,
	treatment_protocol, evidence_reference, nccn_reference,
	confidence_score, priority_tag, toxicity_level, is_active,
	created_at, updated_at`

// MappingRepository handles treatment mapping persistence
type MappingRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *pgxpool.Pool, logger *logrus.Logger) *MappingRepository {
	return &MappingRepository{
		db:  db,
		log: logger,
	}
}

// ListActiveMappings returns the active mappings for a cancer type and
// intent, plus the pan-tumor generics so the relaxation pass always sees
// them. The engine re-checks every condition itself.
func (r *MappingRepository) ListActiveMappings(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, error) {
	query := `
		SELECT` + mappingColumns + `
		FROM treatment_mappings
		WHERE (cancer_type ILIKE $1 OR cancer_type = $2)
		  AND treatment_intent ILIKE $3
		  AND is_active
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, cancerType, domain.CancerTypeAny, treatmentIntent)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"cancer_type": cancerType,
			"intent":      treatmentIntent,
			"error":       err,
		}).Error("Failed to list active mappings")
		return nil, fmt.Errorf("listing active mappings: %w", err)
	}
	defer rows.Close()

	mappings, err := scanMappings(rows)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"cancer_type": cancerType,
		"intent":      treatmentIntent,
		"count":       len(mappings),
	}).Debug("Listed active mappings")

	return mappings, nil
}

// GetMapping retrieves a mapping by its ID
func (r *MappingRepository) GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error) {
	query := `
		SELECT` + mappingColumns + `
		FROM treatment_mappings
		WHERE id = $1`

	var m domain.TreatmentMapping
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.CancerType,
		&m.Histology,
		&m.Biomarkers,
		&m.ConflictingBiomarkers,
		&m.TreatmentIntent,
		&m.LineOfTreatment,
		&m.RequiredStage,
		&m.PerformanceStatusMin,
		&m.PerformanceStatusMax,
		&m.TreatmentProtocol,
		&m.EvidenceReference,
		&m.NCCNReference,
		&m.ConfidenceScore,
		&m.PriorityTag,
		&m.ToxicityLevel,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("mapping not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"mapping_id": id,
			"error":      err,
		}).Error("Failed to get mapping by ID")
		return nil, fmt.Errorf("getting mapping by ID: %w", err)
	}

	return &m, nil
}

// Create inserts a new mapping into the catalog
func (r *MappingRepository) Create(ctx context.Context, m *domain.TreatmentMapping) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO treatment_mappings (
			id, cancer_type, histology, biomarkers, conflicting_biomarkers,
			treatment_intent, line_of_treatment, required_stage,
			performance_status_min, performance_status_max,
			treatment_protocol, evidence_reference, nccn_reference,
			confidence_score, priority_tag, toxicity_level, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)`

	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.CancerType,
		m.Histology,
		m.Biomarkers,
		m.ConflictingBiomarkers,
		m.TreatmentIntent,
		m.LineOfTreatment,
		m.RequiredStage,
		m.PerformanceStatusMin,
		m.PerformanceStatusMax,
		m.TreatmentProtocol,
		m.EvidenceReference,
		m.NCCNReference,
		m.ConfidenceScore,
		m.PriorityTag,
		m.ToxicityLevel,
		m.IsActive,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"mapping_id": m.ID,
			"protocol":   m.TreatmentProtocol,
			"error":      err,
		}).Error("Failed to create mapping")
		return fmt.Errorf("creating mapping: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"mapping_id":  m.ID,
		"cancer_type": m.CancerType,
		"protocol":    m.TreatmentProtocol,
	}).Info("Mapping created successfully")

	return nil
}

// Update updates an existing mapping
func (r *MappingRepository) Update(ctx context.Context, m *domain.TreatmentMapping) error {
	query := `
		UPDATE treatment_mappings
		SET cancer_type = $2, histology = $3, biomarkers = $4,
			conflicting_biomarkers = $5, treatment_intent = $6,
			line_of_treatment = $7, required_stage = $8,
			performance_status_min = $9, performance_status_max = $10,
			treatment_protocol = $11, evidence_reference = $12,
			nccn_reference = $13, confidence_score = $14, priority_tag = $15,
			toxicity_level = $16, is_active = $17, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		m.ID,
		m.CancerType,
		m.Histology,
		m.Biomarkers,
		m.ConflictingBiomarkers,
		m.TreatmentIntent,
		m.LineOfTreatment,
		m.RequiredStage,
		m.PerformanceStatusMin,
		m.PerformanceStatusMax,
		m.TreatmentProtocol,
		m.EvidenceReference,
		m.NCCNReference,
		m.ConfidenceScore,
		m.PriorityTag,
		m.ToxicityLevel,
		m.IsActive,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"mapping_id": m.ID,
			"error":      err,
		}).Error("Failed to update mapping")
		return fmt.Errorf("updating mapping: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mapping not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("mapping_id", m.ID).Info("Mapping updated successfully")
	return nil
}

// Deactivate soft-deletes a mapping. Rows are never physically removed so
// past decisions stay explainable.
func (r *MappingRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE treatment_mappings SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"mapping_id": id,
			"error":      err,
		}).Error("Failed to deactivate mapping")
		return fmt.Errorf("deactivating mapping: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mapping not found: %w", domain.ErrNotFound)
	}

	r.log.WithField("mapping_id", id).Info("Mapping deactivated")
	return nil
}

func scanMappings(rows pgx.Rows) ([]domain.TreatmentMapping, error) {
	var mappings []domain.TreatmentMapping
	for rows.Next() {
		var m domain.TreatmentMapping
		err := rows.Scan(
			&m.ID,
			&m.CancerType,
			&m.Histology,
			&m.Biomarkers,
			&m.ConflictingBiomarkers,
			&m.TreatmentIntent,
			&m.LineOfTreatment,
			&m.RequiredStage,
			&m.PerformanceStatusMin,
			&m.PerformanceStatusMax,
			&m.TreatmentProtocol,
			&m.EvidenceReference,
			&m.NCCNReference,
			&m.ConfidenceScore,
			&m.PriorityTag,
			&m.ToxicityLevel,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mapping rows: %w", err)
	}

	return mappings, nil
}
