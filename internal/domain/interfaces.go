package domain

import (
	"context"
)

// MappingSource provides the candidate mappings for a selection call. The
// source may narrow by cancer type and intent; the engine re-checks every
// condition, so over-fetching is safe and under-fetching is not.
type MappingSource interface {
	ListActiveMappings(ctx context.Context, cancerType, treatmentIntent string) ([]TreatmentMapping, error)
	GetMapping(ctx context.Context, id string) (*TreatmentMapping, error)
}

// CriteriaCatalog provides the valid values for each matching dimension.
type CriteriaCatalog interface {
	ListCriteria(ctx context.Context, category CriterionCategory) ([]CriterionDefinition, error)
}

// TreatmentSelector coordinates a full selection call: catalog validation,
// candidate fetch, matching and auditing.
type TreatmentSelector interface {
	Select(ctx context.Context, query *MatchQuery) (*MatchResult, error)
}

// DecisionRecorder persists the outcome of selection calls. Recording is
// best effort and never fails a selection.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, record *DecisionRecord) error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetCacheConfig() *CacheConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
