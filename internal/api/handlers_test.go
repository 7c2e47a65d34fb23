package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onco-treatment-selector/internal/domain"
)

type stubConfigManager struct {
	cfg *domain.Config
}

func (s *stubConfigManager) GetConfig() *domain.Config                 { return s.cfg }
func (s *stubConfigManager) GetServerConfig() *domain.ServerConfig     { return &s.cfg.Server }
func (s *stubConfigManager) GetDatabaseConfig() *domain.DatabaseConfig { return &s.cfg.Database }
func (s *stubConfigManager) GetCacheConfig() *domain.CacheConfig       { return &s.cfg.Cache }
func (s *stubConfigManager) Reload() error                             { return nil }
func (s *stubConfigManager) Validate() error                           { return nil }
func (s *stubConfigManager) GetDatabaseConnectionString() string       { return "" }
func (s *stubConfigManager) GetRedisConnectionString() string          { return "" }
func (s *stubConfigManager) IsProduction() bool                        { return false }
func (s *stubConfigManager) IsDevelopment() bool                       { return true }

type stubSelector struct {
	result *domain.MatchResult
	err    error
}

func (s *stubSelector) Select(ctx context.Context, query *domain.MatchQuery) (*domain.MatchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubMappingAdmin struct {
	mapping *domain.TreatmentMapping
	err     error
}

func (s *stubMappingAdmin) GetMapping(ctx context.Context, id string) (*domain.TreatmentMapping, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mapping, nil
}

func (s *stubMappingAdmin) Create(ctx context.Context, m *domain.TreatmentMapping) error {
	s.mapping = m
	return s.err
}

func (s *stubMappingAdmin) Update(ctx context.Context, m *domain.TreatmentMapping) error {
	s.mapping = m
	return s.err
}

func (s *stubMappingAdmin) Deactivate(ctx context.Context, id string) error {
	return s.err
}

type stubCriteriaAdmin struct {
	defs []domain.CriterionDefinition
	err  error
}

func (s *stubCriteriaAdmin) ListCriteria(ctx context.Context, category domain.CriterionCategory) ([]domain.CriterionDefinition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.defs, nil
}

func (s *stubCriteriaAdmin) Create(ctx context.Context, d *domain.CriterionDefinition) error {
	return s.err
}

func (s *stubCriteriaAdmin) Deactivate(ctx context.Context, category domain.CriterionCategory, value string) error {
	return s.err
}

func testConfig() *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
			RateLimit:    1000,
			RateBurst:    1000,
		},
		Logging: domain.LoggingConfig{Level: "error", Format: "json"},
	}
}

func newTestServer(selector *stubSelector, mappings *stubMappingAdmin, criteria *stubCriteriaAdmin) *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewServer(&stubConfigManager{cfg: testConfig()}, logger, selector, mappings, criteria, nil, nil)
}

func performJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleMatch_Success(t *testing.T) {
	selector := &stubSelector{result: &domain.MatchResult{
		Status: domain.StatusMatched,
		Recommendations: []domain.Recommendation{{
			Mapping:      domain.TreatmentMapping{ID: "m1", TreatmentProtocol: "Osimertinib 80mg daily"},
			Score:        0.975,
			MatchQuality: domain.MatchExact,
		}},
	}}
	server := newTestServer(selector, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/match", map[string]interface{}{
		"cancer_type":       "Non-Small Cell Lung Cancer",
		"histology":         "Adenocarcinoma",
		"biomarkers":        []string{"EGFR Exon 19 Deletion"},
		"treatment_intent":  "Palliative",
		"line_of_treatment": "1st Line",
		"stage":             "Stage IV",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.StatusMatched, result.Status)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Osimertinib 80mg daily", result.Recommendations[0].Mapping.TreatmentProtocol)
}

func TestHandleMatch_MissingRequiredField(t *testing.T) {
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/match", map[string]interface{}{
		"cancer_type": "Non-Small Cell Lung Cancer",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMatch_InvalidCriterion(t *testing.T) {
	selector := &stubSelector{err: domain.NewInvalidCriterionError(domain.CategoryHistology, "Sarcomatoid")}
	server := newTestServer(selector, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/match", map[string]interface{}{
		"cancer_type":       "Non-Small Cell Lung Cancer",
		"histology":         "Sarcomatoid",
		"treatment_intent":  "Palliative",
		"line_of_treatment": "1st Line",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrCodeInvalidCriterion, body["error"])
	assert.Equal(t, "histology", body["category"])
	assert.Equal(t, "Sarcomatoid", body["value"])
}

func TestHandleMatch_DataUnavailable(t *testing.T) {
	selector := &stubSelector{err: domain.NewDataUnavailableError("list active mappings", assert.AnError)}
	server := newTestServer(selector, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/match", map[string]interface{}{
		"cancer_type":       "Non-Small Cell Lung Cancer",
		"histology":         "Adenocarcinoma",
		"treatment_intent":  "Palliative",
		"line_of_treatment": "1st Line",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleListCriteria(t *testing.T) {
	criteria := &stubCriteriaAdmin{defs: []domain.CriterionDefinition{
		{Category: domain.CategoryBiomarker, Value: "MSI-High", IsActive: true},
	}}
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, criteria)

	w := performJSON(t, server.Handler(), http.MethodGet, "/api/v1/criteria/biomarker", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MSI-High")
}

func TestHandleListCriteria_UnknownCategory(t *testing.T) {
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodGet, "/api/v1/criteria/shoe_size", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetMapping_NotFound(t *testing.T) {
	mappings := &stubMappingAdmin{err: domain.ErrNotFound}
	server := newTestServer(&stubSelector{}, mappings, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodGet, "/api/v1/mappings/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCreateMapping_Valid(t *testing.T) {
	mappings := &stubMappingAdmin{}
	server := newTestServer(&stubSelector{}, mappings, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/mappings", map[string]interface{}{
		"cancer_type":        "Non-Small Cell Lung Cancer",
		"histology":          "Adenocarcinoma",
		"treatment_intent":   "Palliative",
		"line_of_treatment":  "1st Line",
		"treatment_protocol": "Osimertinib 80mg daily",
		"confidence_score":   0.95,
		"priority_tag":       "Preferred",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mappings.mapping)
	assert.True(t, mappings.mapping.IsActive)
}

func TestHandleCreateMapping_InvalidPriorityTag(t *testing.T) {
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodPost, "/api/v1/mappings", map[string]interface{}{
		"cancer_type":        "Non-Small Cell Lung Cancer",
		"histology":          "Adenocarcinoma",
		"treatment_intent":   "Palliative",
		"line_of_treatment":  "1st Line",
		"treatment_protocol": "Osimertinib 80mg daily",
		"confidence_score":   0.95,
		"priority_tag":       "BestChoice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandleListDecisions_DisabledAudit(t *testing.T) {
	server := newTestServer(&stubSelector{}, &stubMappingAdmin{}, &stubCriteriaAdmin{})

	w := performJSON(t, server.Handler(), http.MethodGet, "/api/v1/decisions", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
