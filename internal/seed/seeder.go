package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/repository"
)

// Seeder loads the built-in catalog and mappings into the database.
// Criteria inserts are idempotent upserts; mappings are skipped when an
// entry with the same ID already exists.
type Seeder struct {
	criteria *repository.CriteriaRepository
	mappings *repository.MappingRepository
	log      *logrus.Logger
}

func NewSeeder(criteria *repository.CriteriaRepository, mappings *repository.MappingRepository, logger *logrus.Logger) *Seeder {
	return &Seeder{
		criteria: criteria,
		mappings: mappings,
		log:      logger,
	}
}

// Run seeds criteria first so mapping values always have catalog backing.
func (s *Seeder) Run(ctx context.Context) error {
	defs := Criteria()
	for i := range defs {
		if err := s.criteria.Create(ctx, &defs[i]); err != nil {
			return fmt.Errorf("failed to seed criterion %s/%s: %w", defs[i].Category, defs[i].Value, err)
		}
	}
	s.log.WithField("count", len(defs)).Info("Seeded criteria catalog")

	maps := Mappings()
	seeded := 0
	for i := range maps {
		if _, err := s.mappings.GetMapping(ctx, maps[i].ID); err == nil {
			continue
		}
		if err := s.mappings.Create(ctx, &maps[i]); err != nil {
			return fmt.Errorf("failed to seed mapping %s: %w", maps[i].TreatmentProtocol, err)
		}
		seeded++
	}
	s.log.WithFields(logrus.Fields{
		"count":   seeded,
		"skipped": len(maps) - seeded,
	}).Info("Seeded treatment mappings")

	return nil
}
