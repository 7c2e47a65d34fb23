package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onco-treatment-selector/internal/domain"
)

type stubSource struct {
	mappings []domain.TreatmentMapping
	err      error
	calls    int
}

func (s *stubSource) ListActiveMappings(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.mappings, nil
}

func (s *stubSource) GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.mappings) == 0 {
		return nil, domain.ErrNotFound
	}
	return &s.mappings[0], nil
}

type stubCatalog struct {
	defs  []domain.CriterionDefinition
	err   error
	calls int
}

func (s *stubCatalog) ListCriteria(ctx context.Context, category domain.CriterionCategory) ([]domain.CriterionDefinition, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.defs, nil
}

type stubSnapshotCache struct {
	snapshot []domain.TreatmentMapping
	found    bool
	sets     int
}

func (s *stubSnapshotCache) GetSnapshot(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, bool, error) {
	return s.snapshot, s.found, nil
}

func (s *stubSnapshotCache) SetSnapshot(ctx context.Context, cancerType, treatmentIntent string, mappings []domain.TreatmentMapping, ttl time.Duration) error {
	s.sets++
	s.snapshot = mappings
	s.found = true
	return nil
}

func newTestResilientSource(t *testing.T, source *stubSource, catalog *stubCatalog, redis SnapshotCache) *ResilientSource {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	rs, err := NewResilientSource(logger, source, catalog, redis)
	require.NoError(t, err)
	return rs
}

func TestResilientSource_ListActiveMappings_PassThrough(t *testing.T) {
	source := &stubSource{mappings: []domain.TreatmentMapping{{ID: "m1"}}}
	rs := newTestResilientSource(t, source, &stubCatalog{}, nil)

	mappings, err := rs.ListActiveMappings(context.Background(), "Non-Small Cell Lung Cancer", "Palliative")

	require.NoError(t, err)
	assert.Len(t, mappings, 1)
	assert.Equal(t, 1, source.calls)
}

func TestResilientSource_ListActiveMappings_CacheHitSkipsStore(t *testing.T) {
	source := &stubSource{}
	redis := &stubSnapshotCache{snapshot: []domain.TreatmentMapping{{ID: "cached"}}, found: true}
	rs := newTestResilientSource(t, source, &stubCatalog{}, redis)

	mappings, err := rs.ListActiveMappings(context.Background(), "Breast Cancer", "Adjuvant")

	require.NoError(t, err)
	assert.Equal(t, "cached", mappings[0].ID)
	assert.Zero(t, source.calls)
}

func TestResilientSource_ListActiveMappings_PopulatesCache(t *testing.T) {
	source := &stubSource{mappings: []domain.TreatmentMapping{{ID: "m1"}}}
	redis := &stubSnapshotCache{}
	rs := newTestResilientSource(t, source, &stubCatalog{}, redis)

	_, err := rs.ListActiveMappings(context.Background(), "Breast Cancer", "Adjuvant")

	require.NoError(t, err)
	assert.Equal(t, 1, redis.sets)
}

func TestResilientSource_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	rs := newTestResilientSource(t, source, &stubCatalog{}, nil)
	ctx := context.Background()

	// Drive the breaker open, then verify failures become DataUnavailable
	// without touching the store.
	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = rs.ListActiveMappings(ctx, "Breast Cancer", "Adjuvant")
		require.Error(t, lastErr)
	}

	callsWhenOpen := source.calls
	_, err := rs.ListActiveMappings(ctx, "Breast Cancer", "Adjuvant")
	require.Error(t, err)

	var unavailable *domain.DataUnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, callsWhenOpen, source.calls)
}

func TestResilientSource_ListCriteria_Caches(t *testing.T) {
	catalog := &stubCatalog{defs: []domain.CriterionDefinition{
		{Category: domain.CategoryBiomarker, Value: "MSI-High", IsActive: true},
	}}
	rs := newTestResilientSource(t, &stubSource{}, catalog, nil)
	ctx := context.Background()

	first, err := rs.ListCriteria(ctx, domain.CategoryBiomarker)
	require.NoError(t, err)
	second, err := rs.ListCriteria(ctx, domain.CategoryBiomarker)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.calls)

	rs.InvalidateCriteria()
	_, err = rs.ListCriteria(ctx, domain.CategoryBiomarker)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls)
}

func TestResilientSource_GetMapping_NotFoundPassesThrough(t *testing.T) {
	rs := newTestResilientSource(t, &stubSource{}, &stubCatalog{}, nil)

	_, err := rs.GetMapping(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
