package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/onco-treatment-selector/internal/domain"
)

// MemorySource serves the built-in catalog and mappings without a database.
// It backs the standalone stdio server and applies the same candidate
// narrowing as the SQL store.
type MemorySource struct {
	mappings []domain.TreatmentMapping
	criteria []domain.CriterionDefinition
}

// NewMemorySource creates a source preloaded with the built-in data.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		mappings: Mappings(),
		criteria: Criteria(),
	}
}

// ListActiveMappings returns active mappings for the cancer type and intent,
// always including tumor-agnostic entries.
func (s *MemorySource) ListActiveMappings(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, error) {
	out := make([]domain.TreatmentMapping, 0, len(s.mappings))
	for _, m := range s.mappings {
		if !m.IsActive {
			continue
		}
		if !strings.EqualFold(m.CancerType, cancerType) && !strings.EqualFold(m.CancerType, domain.CancerTypeAny) {
			continue
		}
		if !strings.EqualFold(m.TreatmentIntent, treatmentIntent) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// GetMapping returns a single mapping by ID.
func (s *MemorySource) GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error) {
	for _, m := range s.mappings {
		if m.ID == id {
			mapping := m
			return &mapping, nil
		}
	}
	return nil, fmt.Errorf("mapping not found: %w", domain.ErrNotFound)
}

// ListCriteria returns the active catalog values for a category.
func (s *MemorySource) ListCriteria(ctx context.Context, category domain.CriterionCategory) ([]domain.CriterionDefinition, error) {
	out := make([]domain.CriterionDefinition, 0, 32)
	for _, d := range s.criteria {
		if d.Category == category && d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}
