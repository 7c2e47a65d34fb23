package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onco-treatment-selector/internal/domain"
)

// ListCriteriaParams defines parameters for the list_criteria tool.
type ListCriteriaParams struct {
	Category string `json:"category"`
}

// toolArguments extracts the raw JSON arguments from a tool call. The SDK
// types Arguments as any and delivers a json.RawMessage at runtime; already
// decoded values are re-encoded so both forms reach the same decoder.
func toolArguments(req *mcp.CallToolRequest) (json.RawMessage, error) {
	switch args := req.Params.Arguments.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		return args, nil
	default:
		return json.Marshal(args)
	}
}

// handleSelectTreatment handles the select_treatment tool invocation.
func (s *Server) handleSelectTreatment(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "select_treatment").Info("Tool invoked")

	args, err := toolArguments(req)
	if err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}
	var query domain.MatchQuery
	if err := json.Unmarshal(args, &query); err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}

	if query.CancerType == "" || query.Histology == "" ||
		query.TreatmentIntent == "" || query.LineOfTreatment == "" {
		return s.errorResult("Missing required parameter",
			fmt.Errorf("cancer_type, histology, treatment_intent and line_of_treatment are required")), nil
	}

	result, err := s.selector.Select(ctx, &query)
	if err != nil {
		var invalid *domain.InvalidCriterionError
		if errors.As(err, &invalid) {
			return s.errorResult("Query rejected by criteria catalog", invalid), nil
		}
		return s.errorResult("Selection failed", err), nil
	}

	return s.jsonResult(result)
}

// handleListCriteria handles the list_criteria tool invocation.
func (s *Server) handleListCriteria(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "list_criteria").Info("Tool invoked")

	args, err := toolArguments(req)
	if err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}
	var params ListCriteriaParams
	if err := json.Unmarshal(args, &params); err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}
	if params.Category == "" {
		return s.errorResult("Missing required parameter", fmt.Errorf("category is required")), nil
	}

	category := domain.CriterionCategory(params.Category)
	if !knownCategory(category) {
		return s.errorResult("Unknown category", fmt.Errorf("%q is not a criteria category", params.Category)), nil
	}

	defs, err := s.catalog.ListCriteria(ctx, category)
	if err != nil {
		return s.errorResult("Catalog lookup failed", err), nil
	}

	return s.jsonResult(map[string]interface{}{
		"category": category,
		"criteria": defs,
	})
}

// ExplainRecommendationParams defines parameters for the
// explain_recommendation tool.
type ExplainRecommendationParams struct {
	MappingID string `json:"mapping_id"`
}

// handleExplainRecommendation handles the explain_recommendation tool
// invocation.
func (s *Server) handleExplainRecommendation(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "explain_recommendation").Info("Tool invoked")

	args, err := toolArguments(req)
	if err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}
	var params ExplainRecommendationParams
	if err := json.Unmarshal(args, &params); err != nil {
		return s.errorResult("Invalid parameters", err), nil
	}
	if params.MappingID == "" {
		return s.errorResult("Missing required parameter", fmt.Errorf("mapping_id is required")), nil
	}

	mapping, err := s.source.GetMapping(ctx, params.MappingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.errorResult("Mapping not found", fmt.Errorf("no mapping with ID %q", params.MappingID)), nil
		}
		return s.errorResult("Lookup failed", err), nil
	}

	psMin, psMax := domain.ECOGMin, domain.ECOGMax
	if mapping.PerformanceStatusMin != nil {
		psMin = *mapping.PerformanceStatusMin
	}
	if mapping.PerformanceStatusMax != nil {
		psMax = *mapping.PerformanceStatusMax
	}

	return s.jsonResult(map[string]interface{}{
		"mapping": mapping,
		"conditions": map[string]interface{}{
			"cancer_type":             mapping.CancerType,
			"histology":               mapping.Histology,
			"treatment_intent":        mapping.TreatmentIntent,
			"line_of_treatment":       mapping.LineOfTreatment,
			"required_stage":          mapping.RequiredStage,
			"required_biomarkers":     mapping.Biomarkers,
			"conflicting_biomarkers":  mapping.ConflictingBiomarkers,
			"performance_status_min":  psMin,
			"performance_status_max":  psMax,
			"histology_agnostic":      mapping.HasWildcardHistology(),
			"line_agnostic":           mapping.HasWildcardLine(),
			"reachable_by_relaxation": mapping.IsAuthoredGeneric(),
		},
		"evidence": map[string]interface{}{
			"evidence_reference": mapping.EvidenceReference,
			"nccn_reference":     mapping.NCCNReference,
			"confidence_score":   mapping.ConfidenceScore,
			"priority_tag":       mapping.PriorityTag,
			"toxicity_level":     mapping.ToxicityLevel,
		},
	})
}

// jsonResult serializes a payload into a text content result.
func (s *Server) jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

// errorResult builds a tool-level error result.
func (s *Server) errorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}

func knownCategory(category domain.CriterionCategory) bool {
	for _, c := range domain.AllCategories() {
		if c == category {
			return true
		}
	}
	return false
}
