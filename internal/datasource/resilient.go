package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/onco-treatment-selector/internal/cache"
	"github.com/onco-treatment-selector/internal/domain"
)

// SnapshotCache is the Redis tier in front of the mapping store. Optional;
// the standalone binary runs without it.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, bool, error)
	SetSnapshot(ctx context.Context, cancerType, treatmentIntent string, mappings []domain.TreatmentMapping, ttl time.Duration) error
}

// ResilientSource wraps the catalog stores with a circuit breaker and cache
// tiers. Store failures surface as DataUnavailable; the breaker keeps a
// struggling database from being hammered by every request.
type ResilientSource struct {
	logger   *logrus.Logger
	source   domain.MappingSource
	catalog  domain.CriteriaCatalog
	breaker  *gobreaker.CircuitBreaker
	redis    SnapshotCache
	criteria *cache.CriteriaCache
}

// NewResilientSource creates a resilient source over the given stores.
// redisCache may be nil when Redis is not deployed.
func NewResilientSource(
	logger *logrus.Logger,
	source domain.MappingSource,
	catalog domain.CriteriaCatalog,
	redisCache SnapshotCache,
) (*ResilientSource, error) {
	criteriaCache, err := cache.NewCriteriaCache(len(domain.AllCategories()) * 2)
	if err != nil {
		return nil, fmt.Errorf("creating criteria cache: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "catalog-store",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientSource{
		logger:   logger,
		source:   source,
		catalog:  catalog,
		breaker:  breaker,
		redis:    redisCache,
		criteria: criteriaCache,
	}, nil
}

// ListActiveMappings returns the candidate snapshot, preferring the cache.
func (r *ResilientSource) ListActiveMappings(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, error) {
	if r.redis != nil {
		if mappings, found, err := r.redis.GetSnapshot(ctx, cancerType, treatmentIntent); err == nil && found {
			r.logger.WithFields(logrus.Fields{
				"cancer_type": cancerType,
				"intent":      treatmentIntent,
				"count":       len(mappings),
			}).Debug("Snapshot cache hit")
			return mappings, nil
		}
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.source.ListActiveMappings(ctx, cancerType, treatmentIntent)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.NewDataUnavailableError("list active mappings", err)
		}
		return nil, err
	}

	mappings := result.([]domain.TreatmentMapping)

	if r.redis != nil {
		if cacheErr := r.redis.SetSnapshot(ctx, cancerType, treatmentIntent, mappings, 0); cacheErr != nil {
			r.logger.WithError(cacheErr).Warn("Failed to cache mapping snapshot")
		}
	}

	return mappings, nil
}

// GetMapping retrieves a single mapping through the breaker.
func (r *ResilientSource) GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.source.GetMapping(ctx, id)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.NewDataUnavailableError("get mapping", err)
		}
		return nil, err
	}
	return result.(*domain.TreatmentMapping), nil
}

// ListCriteria returns the catalog definitions for a category, preferring
// the in-process cache.
func (r *ResilientSource) ListCriteria(ctx context.Context, category domain.CriterionCategory) ([]domain.CriterionDefinition, error) {
	if defs, ok := r.criteria.Get(category); ok {
		return defs, nil
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.catalog.ListCriteria(ctx, category)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.NewDataUnavailableError("list criteria", err)
		}
		return nil, err
	}

	defs := result.([]domain.CriterionDefinition)
	r.criteria.Set(category, defs)

	return defs, nil
}

// InvalidateCriteria drops the in-process criteria cache after an admin
// write.
func (r *ResilientSource) InvalidateCriteria() {
	r.criteria.Purge()
}

// BreakerState returns the current circuit breaker state for health checks.
func (r *ResilientSource) BreakerState() gobreaker.State {
	return r.breaker.State()
}
