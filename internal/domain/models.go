package domain

import (
	"strings"
	"time"
)

// Core Enums and Types

// CriterionCategory identifies a matching dimension in the criteria catalog.
type CriterionCategory string

const (
	CategoryCancerType        CriterionCategory = "cancer_type"
	CategoryHistology         CriterionCategory = "histology"
	CategoryBiomarker         CriterionCategory = "biomarker"
	CategoryPDL1Status        CriterionCategory = "pdl1_status"
	CategoryTreatmentIntent   CriterionCategory = "treatment_intent"
	CategoryLineOfTreatment   CriterionCategory = "line_of_treatment"
	CategoryPerformanceStatus CriterionCategory = "performance_status"
	CategoryStage             CriterionCategory = "stage"
	CategoryResistanceMarker  CriterionCategory = "resistance_marker"
	CategoryTreatmentReason   CriterionCategory = "treatment_reason"
	CategoryMolecularSubtype  CriterionCategory = "molecular_subtype"
)

// String returns the string representation of the category.
func (c CriterionCategory) String() string {
	return string(c)
}

// AllCategories lists every catalog category in display order.
func AllCategories() []CriterionCategory {
	return []CriterionCategory{
		CategoryCancerType,
		CategoryHistology,
		CategoryBiomarker,
		CategoryPDL1Status,
		CategoryTreatmentIntent,
		CategoryLineOfTreatment,
		CategoryPerformanceStatus,
		CategoryStage,
		CategoryResistanceMarker,
		CategoryTreatmentReason,
		CategoryMolecularSubtype,
	}
}

// PriorityTag represents the guideline-assigned preference tier of a mapping.
type PriorityTag string

const (
	PriorityPreferred   PriorityTag = "Preferred"
	PriorityAlternative PriorityTag = "Alternative"
	PriorityFallback    PriorityTag = "Fallback"
)

// String returns the string representation of the priority tag.
func (p PriorityTag) String() string {
	return string(p)
}

// MatchQuality grades how closely a recommendation fits the query.
type MatchQuality string

const (
	MatchExact    MatchQuality = "EXACT"
	MatchPartial  MatchQuality = "PARTIAL"
	MatchFallback MatchQuality = "FALLBACK"
)

// String returns the string representation of the match quality.
func (q MatchQuality) String() string {
	return string(q)
}

// MatchStatus is the overall outcome of a selection call.
type MatchStatus string

const (
	StatusMatched MatchStatus = "MATCHED"
	StatusNoMatch MatchStatus = "NO_MATCH"
)

// String returns the string representation of the match status.
func (s MatchStatus) String() string {
	return string(s)
}

// Wildcard sentinels. Generic fallback mappings must be authored with these
// explicit values; an empty field never silently means "any".
const (
	CancerTypeAny = "Any Solid Tumor"
	HistologyAny  = "General"
	LineAny       = "Any Line"
	StageAll      = "all"
)

// ECOG performance status bounds. Mappings without an explicit constraint
// default to the full range so absence of a PS bound never excludes.
const (
	ECOGMin = 0
	ECOGMax = 4
)

// Catalog Models

// CriterionDefinition is a single valid value for one matching dimension.
// (category, value) pairs are unique; the catalog is read-only at match time.
type CriterionDefinition struct {
	ID            int64             `json:"id"`
	Category      CriterionCategory `json:"category"`
	Value         string            `json:"value"`
	Description   string            `json:"description,omitempty"`
	EvidenceLevel string            `json:"evidence_level,omitempty"`
	IsCommon      bool              `json:"is_common"`
	SortOrder     int               `json:"sort_order"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at,omitempty"`
}

// TreatmentMapping is the unit the engine filters, scores and ranks: one
// guideline-derived protocol plus the clinical conditions under which it
// applies. Mappings are immutable for the duration of a match call.
type TreatmentMapping struct {
	ID                    string      `json:"id"`
	CancerType            string      `json:"cancer_type"`
	Histology             string      `json:"histology"`
	Biomarkers            []string    `json:"biomarkers,omitempty"`
	ConflictingBiomarkers []string    `json:"conflicting_biomarkers,omitempty"`
	TreatmentIntent       string      `json:"treatment_intent"`
	LineOfTreatment       string      `json:"line_of_treatment"`
	RequiredStage         []string    `json:"required_stage,omitempty"`
	PerformanceStatusMin  *int        `json:"performance_status_min,omitempty"`
	PerformanceStatusMax  *int        `json:"performance_status_max,omitempty"`
	TreatmentProtocol     string      `json:"treatment_protocol"`
	EvidenceReference     string      `json:"evidence_reference,omitempty"`
	NCCNReference         string      `json:"nccn_reference,omitempty"`
	ConfidenceScore       float64     `json:"confidence_score"`
	PriorityTag           PriorityTag `json:"priority_tag"`
	ToxicityLevel         string      `json:"toxicity_level,omitempty"`
	IsActive              bool        `json:"is_active"`
	CreatedAt             time.Time   `json:"created_at,omitempty"`
	UpdatedAt             time.Time   `json:"updated_at,omitempty"`
}

// HasWildcardHistology reports whether the mapping was authored for any
// histology.
func (m *TreatmentMapping) HasWildcardHistology() bool {
	return strings.EqualFold(m.Histology, HistologyAny) || strings.EqualFold(m.Histology, "Any")
}

// HasWildcardLine reports whether the mapping applies to any treatment line.
func (m *TreatmentMapping) HasWildcardLine() bool {
	return strings.EqualFold(m.LineOfTreatment, LineAny)
}

// IsAuthoredGeneric reports whether the mapping was deliberately written as a
// pan-histology, line-agnostic fallback. Only such mappings participate in
// the relaxation pass.
func (m *TreatmentMapping) IsAuthoredGeneric() bool {
	return m.HasWildcardHistology() && m.HasWildcardLine()
}

// AllowsStage reports whether the mapping accepts the given stage label.
// An empty requiredStage set means no stage constraint.
func (m *TreatmentMapping) AllowsStage(stage string) bool {
	if len(m.RequiredStage) == 0 {
		return true
	}
	for _, s := range m.RequiredStage {
		if strings.EqualFold(s, StageAll) || strings.EqualFold(s, stage) {
			return true
		}
	}
	return false
}

// AllowsPerformanceStatus reports whether the given ECOG PS falls inside the
// mapping's inclusive bounds.
func (m *TreatmentMapping) AllowsPerformanceStatus(ps int) bool {
	lo, hi := ECOGMin, ECOGMax
	if m.PerformanceStatusMin != nil {
		lo = *m.PerformanceStatusMin
	}
	if m.PerformanceStatusMax != nil {
		hi = *m.PerformanceStatusMax
	}
	return ps >= lo && ps <= hi
}

// Query and Result Models

// MatchQuery carries the patient attributes for one selection call. It is
// constructed per request and never persisted.
type MatchQuery struct {
	CancerType        string   `json:"cancer_type" binding:"required"`
	Histology         string   `json:"histology" binding:"required"`
	Biomarkers        []string `json:"biomarkers,omitempty"`
	TreatmentIntent   string   `json:"treatment_intent" binding:"required"`
	LineOfTreatment   string   `json:"line_of_treatment" binding:"required"`
	Stage             string   `json:"stage,omitempty"`
	PerformanceStatus int      `json:"performance_status"`
}

// HasBiomarker reports whether the query carries the given biomarker value.
func (q *MatchQuery) HasBiomarker(value string) bool {
	for _, b := range q.Biomarkers {
		if strings.EqualFold(b, value) {
			return true
		}
	}
	return false
}

// Recommendation pairs a mapping with its derived score and match quality.
type Recommendation struct {
	Mapping      TreatmentMapping `json:"mapping"`
	Score        float64          `json:"score"`
	MatchQuality MatchQuality     `json:"match_quality"`
	Rationale    string           `json:"rationale,omitempty"`
}

// MatchResult is the ordered outcome of a selection call. Index 0 is the
// primary recommendation; the remainder are alternatives.
type MatchResult struct {
	Status          MatchStatus      `json:"status"`
	Recommendations []Recommendation `json:"recommendations"`
	FallbackUsed    bool             `json:"fallback_used"`
	FallbackNote    string           `json:"fallback_note,omitempty"`
}

// DecisionRecord is a stored trace of one selection call.
type DecisionRecord struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id,omitempty"`
	CancerType       string    `json:"cancer_type"`
	Histology        string    `json:"histology"`
	Biomarkers       []string  `json:"biomarkers,omitempty"`
	TreatmentIntent  string    `json:"treatment_intent"`
	LineOfTreatment  string    `json:"line_of_treatment"`
	Stage            string    `json:"stage,omitempty"`
	PerformanceScore int       `json:"performance_score"`
	Status           string    `json:"status"`
	TopProtocol      string    `json:"top_protocol,omitempty"`
	TopScore         float64   `json:"top_score,omitempty"`
	MatchCount       int       `json:"match_count"`
	FallbackUsed     bool      `json:"fallback_used"`
	ProcessingTimeMs int       `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
