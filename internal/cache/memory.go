package cache

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/onco-treatment-selector/internal/domain"
)

// CriteriaCache is an in-process LRU over criteria catalog sets, keyed by
// category. The catalog is small and read-only at match time, so entries
// live until evicted or explicitly purged after an admin write.
type CriteriaCache struct {
	cache *lru.Cache
}

// NewCriteriaCache creates a new criteria cache
func NewCriteriaCache(size int) (*CriteriaCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating criteria cache: %w", err)
	}
	return &CriteriaCache{cache: c}, nil
}

// Get returns the cached definitions for a category
func (c *CriteriaCache) Get(category domain.CriterionCategory) ([]domain.CriterionDefinition, bool) {
	v, ok := c.cache.Get(category)
	if !ok {
		return nil, false
	}
	defs, ok := v.([]domain.CriterionDefinition)
	return defs, ok
}

// Set caches the definitions for a category
func (c *CriteriaCache) Set(category domain.CriterionCategory, defs []domain.CriterionDefinition) {
	c.cache.Add(category, defs)
}

// Purge drops every cached category.
func (c *CriteriaCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached categories
func (c *CriteriaCache) Len() int {
	return c.cache.Len()
}

// SnapshotCache is an expiring in-process cache of mapping snapshots, used
// by the standalone binary and as a local tier in front of Redis.
type SnapshotCache struct {
	cache *expirable.LRU[string, []domain.TreatmentMapping]
}

// NewSnapshotCache creates a new snapshot cache with the given TTL
func NewSnapshotCache(size int, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		cache: expirable.NewLRU[string, []domain.TreatmentMapping](size, nil, ttl),
	}
}

// Get returns the cached snapshot for a cancer type and intent
func (c *SnapshotCache) Get(cancerType, treatmentIntent string) ([]domain.TreatmentMapping, bool) {
	return c.cache.Get(memoryKey(cancerType, treatmentIntent))
}

// Set caches the snapshot for a cancer type and intent
func (c *SnapshotCache) Set(cancerType, treatmentIntent string, mappings []domain.TreatmentMapping) {
	c.cache.Add(memoryKey(cancerType, treatmentIntent), mappings)
}

// Purge drops every cached snapshot.
func (c *SnapshotCache) Purge() {
	c.cache.Purge()
}

func memoryKey(cancerType, treatmentIntent string) string {
	return strings.ToLower(cancerType) + "|" + strings.ToLower(treatmentIntent)
}
