package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onco-treatment-selector/internal/domain"
)

func TestCriteriaCache_SetGet(t *testing.T) {
	c, err := NewCriteriaCache(16)
	require.NoError(t, err)

	defs := []domain.CriterionDefinition{
		{Category: domain.CategoryBiomarker, Value: "MSI-High", IsActive: true},
	}
	c.Set(domain.CategoryBiomarker, defs)

	got, ok := c.Get(domain.CategoryBiomarker)
	require.True(t, ok)
	assert.Equal(t, defs, got)

	_, ok = c.Get(domain.CategoryStage)
	assert.False(t, ok)
}

func TestCriteriaCache_Purge(t *testing.T) {
	c, err := NewCriteriaCache(16)
	require.NoError(t, err)

	c.Set(domain.CategoryBiomarker, nil)
	c.Set(domain.CategoryStage, nil)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestSnapshotCache_SetGet(t *testing.T) {
	c := NewSnapshotCache(16, time.Minute)

	mappings := []domain.TreatmentMapping{
		{ID: "m1", CancerType: "Non-Small Cell Lung Cancer", TreatmentIntent: "Palliative"},
	}
	c.Set("Non-Small Cell Lung Cancer", "Palliative", mappings)

	got, ok := c.Get("non-small cell lung cancer", "palliative")
	require.True(t, ok)
	assert.Equal(t, mappings, got)

	_, ok = c.Get("Breast Cancer", "Palliative")
	assert.False(t, ok)
}

func TestSnapshotCache_Expiry(t *testing.T) {
	c := NewSnapshotCache(16, 20*time.Millisecond)

	c.Set("Colorectal Cancer", "Palliative", []domain.TreatmentMapping{{ID: "m1"}})
	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get("Colorectal Cancer", "Palliative")
	assert.False(t, ok)
}
