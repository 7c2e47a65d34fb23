package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onco-treatment-selector/internal/config"
	"github.com/onco-treatment-selector/internal/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultLiteConfig()
	cfg.DataDir = t.TempDir()
	cfg.LogLevel = "error"

	server, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	return server
}

func callRequest(t *testing.T, args interface{}) *mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)

	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParams{Arguments: json.RawMessage(data)},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	server := newTestServer(t)

	assert.NotNil(t, server.mcpServer)
	assert.NotNil(t, server.selector)
	assert.NotNil(t, server.catalog)
	assert.NotNil(t, server.decisions)
	assert.NotNil(t, server.logger)
}

func TestSelectTreatment_ReturnsRankedProtocols(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{
		"cancer_type":       "Non-Small Cell Lung Cancer",
		"histology":         "Adenocarcinoma",
		"biomarkers":        []string{"EGFR Exon 19 Deletion"},
		"treatment_intent":  "Palliative",
		"line_of_treatment": "1st Line",
		"stage":             "Stage IV",
		"performance_status": 1,
	})

	result, err := server.handleSelectTreatment(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var matched domain.MatchResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &matched))
	assert.Equal(t, domain.StatusMatched, matched.Status)
	require.NotEmpty(t, matched.Recommendations)
	assert.Equal(t, "Osimertinib 80mg daily", matched.Recommendations[0].Mapping.TreatmentProtocol)
}

func TestSelectTreatment_AcceptsDecodedArguments(t *testing.T) {
	server := newTestServer(t)

	// Arguments arrive as a decoded map instead of raw JSON.
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParams{Arguments: map[string]interface{}{
			"cancer_type":        "Non-Small Cell Lung Cancer",
			"histology":          "Adenocarcinoma",
			"biomarkers":         []string{"EGFR Exon 19 Deletion"},
			"treatment_intent":   "Palliative",
			"line_of_treatment":  "1st Line",
			"stage":              "Stage IV",
			"performance_status": 1,
		}},
	}

	result, err := server.handleSelectTreatment(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var matched domain.MatchResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &matched))
	assert.Equal(t, domain.StatusMatched, matched.Status)
}

func TestSelectTreatment_MissingRequiredParameter(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{
		"cancer_type": "Non-Small Cell Lung Cancer",
	})

	result, err := server.handleSelectTreatment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "required")
}

func TestSelectTreatment_RejectsUnknownCriterion(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{
		"cancer_type":       "Non-Small Cell Lung Cancer",
		"histology":         "Sarcomatoid",
		"treatment_intent":  "Palliative",
		"line_of_treatment": "1st Line",
	})

	result, err := server.handleSelectTreatment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Sarcomatoid")
}

func TestListCriteria_ReturnsCatalogValues(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{"category": "biomarker"})

	result, err := server.handleListCriteria(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, textOf(t, result), "EGFR Exon 19 Deletion")
}

func TestExplainRecommendation_ReturnsConditions(t *testing.T) {
	server := newTestServer(t)

	// Built-in osimertinib mapping.
	req := callRequest(t, map[string]interface{}{
		"mapping_id": "9c7a3de1-20c4-4f6e-8a14-1f36b5a9d201",
	})

	result, err := server.handleExplainRecommendation(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := textOf(t, result)
	assert.Contains(t, text, "Osimertinib 80mg daily")
	assert.Contains(t, text, "EGFR Exon 19 Deletion")
	assert.Contains(t, text, "NSCL-B.1")
}

func TestExplainRecommendation_UnknownID(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{"mapping_id": "no-such-id"})

	result, err := server.handleExplainRecommendation(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListCriteria_UnknownCategory(t *testing.T) {
	server := newTestServer(t)

	req := callRequest(t, map[string]interface{}{"category": "shoe_size"})

	result, err := server.handleListCriteria(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
