package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ONCO_DATA_DIR", "/tmp/onco-test")
	t.Setenv("ONCO_CACHE_MAX_ITEMS", "50")
	t.Setenv("ONCO_CACHE_TTL", "1h")
	t.Setenv("ONCO_LOG_LEVEL", "debug")

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/onco-test", cfg.DataDir)
	assert.Equal(t, 50, cfg.CacheMaxItems)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadLiteConfig_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("ONCO_CACHE_MAX_ITEMS", "not-a-number")
	t.Setenv("ONCO_CACHE_TTL", "never")

	cfg := LoadLiteConfig()

	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
}

func TestLiteConfig_DecisionDBPath(t *testing.T) {
	cfg := &LiteConfig{DataDir: "/var/lib/onco"}
	assert.Equal(t, "/var/lib/onco/decisions.db", cfg.DecisionDBPath())
}
