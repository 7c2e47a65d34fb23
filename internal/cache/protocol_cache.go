package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onco-treatment-selector/internal/domain"
)

// ProtocolCache caches mapping snapshots in Redis, keyed by cancer type and
// intent. Snapshots are the input to the engine, never its output, so a
// stale snapshot can only ever surface mappings the catalog recently held.
type ProtocolCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewProtocolCache creates a new protocol cache
func NewProtocolCache(cfg *domain.CacheConfig) (*ProtocolCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ProtocolCache{
		redis:      client,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// CachedSnapshot wraps a mapping snapshot with cache metadata.
type CachedSnapshot struct {
	Mappings  []domain.TreatmentMapping `json:"mappings"`
	CachedAt  time.Time                 `json:"cached_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
	HitCount  int64                     `json:"hit_count"`
}

// GetSnapshot retrieves a cached mapping snapshot
func (c *ProtocolCache) GetSnapshot(ctx context.Context, cancerType, treatmentIntent string) ([]domain.TreatmentMapping, bool, error) {
	key := snapshotKey(cancerType, treatmentIntent)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil // Cache miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot cache: %w", err)
	}

	var cached CachedSnapshot
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	c.redis.HIncrBy(ctx, "protocol_cache:hits", key, 1)

	return cached.Mappings, true, nil
}

// SetSnapshot caches a mapping snapshot
func (c *ProtocolCache) SetSnapshot(ctx context.Context, cancerType, treatmentIntent string, mappings []domain.TreatmentMapping, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	key := snapshotKey(cancerType, treatmentIntent)

	cached := CachedSnapshot{
		Mappings:  mappings,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot cache data: %w", err)
	}

	return c.redis.Set(ctx, key, jsonData, ttl).Err()
}

// Invalidate removes the cached snapshot for one cancer type and intent.
// Called after every mapping write so admin edits take effect immediately.
func (c *ProtocolCache) Invalidate(ctx context.Context, cancerType, treatmentIntent string) error {
	return c.redis.Del(ctx, snapshotKey(cancerType, treatmentIntent)).Err()
}

// InvalidateAll removes every cached snapshot.
func (c *ProtocolCache) InvalidateAll(ctx context.Context) error {
	keys, err := c.redis.Keys(ctx, "protocol_cache:snapshot:*").Result()
	if err != nil {
		return fmt.Errorf("failed to list snapshot keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

// HitCounts returns per-key hit counts for monitoring.
func (c *ProtocolCache) HitCounts(ctx context.Context) (map[string]string, error) {
	counts, err := c.redis.HGetAll(ctx, "protocol_cache:hits").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hit counts: %w", err)
	}
	return counts, nil
}

// Ping checks if the Redis connection is alive
func (c *ProtocolCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *ProtocolCache) Close() error {
	return c.redis.Close()
}

func snapshotKey(cancerType, treatmentIntent string) string {
	return fmt.Sprintf("protocol_cache:snapshot:%s:%s",
		strings.ToLower(cancerType), strings.ToLower(treatmentIntent))
}
