package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/domain"
)

// Scoring weights. Confidence dominates, specificity rewards exact clinical
// context, priority weight encodes the guideline preference tier.
const (
	weightConfidence  = 0.5
	weightSpecificity = 0.3
	weightPriority    = 0.2
)

// Priority tier weights used in the composite score.
var priorityWeights = map[domain.PriorityTag]float64{
	domain.PriorityPreferred:   1.0,
	domain.PriorityAlternative: 0.7,
	domain.PriorityFallback:    0.4,
}

// MatchEngine filters, scores and ranks treatment mappings against a patient
// query. The engine is stateless and safe for concurrent use.
type MatchEngine struct {
	logger *logrus.Logger
}

// NewMatchEngine creates a new match engine
func NewMatchEngine(logger *logrus.Logger) *MatchEngine {
	return &MatchEngine{logger: logger}
}

// Match runs the full pipeline over the candidate set: strict eligibility
// filter, then scoring and ranking; if nothing survives, a single relaxation
// pass over authored-generic mappings. An empty outcome is a NoMatch result,
// never an error.
func (e *MatchEngine) Match(query *domain.MatchQuery, candidates []domain.TreatmentMapping) *domain.MatchResult {
	e.logger.WithFields(logrus.Fields{
		"cancer_type": query.CancerType,
		"histology":   query.Histology,
		"intent":      query.TreatmentIntent,
		"line":        query.LineOfTreatment,
		"candidates":  len(candidates),
	}).Debug("Starting mapping match")

	eligible := e.filterEligible(query, candidates)

	if len(eligible) > 0 {
		recs := e.scoreAndRank(query, eligible, false)
		e.logger.WithFields(logrus.Fields{
			"eligible": len(eligible),
			"top":      recs[0].Mapping.TreatmentProtocol,
		}).Info("Direct match found")
		return &domain.MatchResult{
			Status:          domain.StatusMatched,
			Recommendations: recs,
		}
	}

	generic := e.filterGeneric(query, candidates)
	if len(generic) > 0 {
		recs := e.scoreAndRank(query, generic, true)
		e.logger.WithFields(logrus.Fields{
			"generic": len(generic),
			"top":     recs[0].Mapping.TreatmentProtocol,
		}).Info("Fallback match found")
		return &domain.MatchResult{
			Status:          domain.StatusMatched,
			Recommendations: recs,
			FallbackUsed:    true,
			FallbackNote:    "no protocol matched the full clinical context; showing generic guideline options",
		}
	}

	e.logger.WithField("cancer_type", query.CancerType).Info("No matching protocol")
	return &domain.MatchResult{
		Status:          domain.StatusNoMatch,
		Recommendations: []domain.Recommendation{},
	}
}

// filterEligible applies every hard condition. A mapping must satisfy all of
// them; partial biomarker coverage and biomarker conflicts both disqualify.
func (e *MatchEngine) filterEligible(query *domain.MatchQuery, candidates []domain.TreatmentMapping) []domain.TreatmentMapping {
	eligible := make([]domain.TreatmentMapping, 0, len(candidates))
	for i := range candidates {
		m := &candidates[i]
		if !m.IsActive {
			continue
		}
		if !strings.EqualFold(m.CancerType, query.CancerType) {
			continue
		}
		if !m.HasWildcardHistology() && !strings.EqualFold(m.Histology, query.Histology) {
			continue
		}
		if !strings.EqualFold(m.TreatmentIntent, query.TreatmentIntent) {
			continue
		}
		if !m.HasWildcardLine() && !strings.EqualFold(m.LineOfTreatment, query.LineOfTreatment) {
			continue
		}
		if !m.AllowsStage(query.Stage) {
			continue
		}
		if !m.AllowsPerformanceStatus(query.PerformanceStatus) {
			continue
		}
		if hasConflict(query, m) {
			continue
		}
		if !coversBiomarkers(query, m) {
			continue
		}
		eligible = append(eligible, *m)
	}
	return eligible
}

// filterGeneric is the relaxation pass: only mappings deliberately authored
// as pan-histology, line-agnostic fallbacks qualify, and only when the
// remaining safety conditions still hold. Intent is never relaxed.
func (e *MatchEngine) filterGeneric(query *domain.MatchQuery, candidates []domain.TreatmentMapping) []domain.TreatmentMapping {
	generic := make([]domain.TreatmentMapping, 0)
	for i := range candidates {
		m := &candidates[i]
		if !m.IsActive || !m.IsAuthoredGeneric() {
			continue
		}
		if !strings.EqualFold(m.CancerType, query.CancerType) &&
			!strings.EqualFold(m.CancerType, domain.CancerTypeAny) {
			continue
		}
		if !strings.EqualFold(m.TreatmentIntent, query.TreatmentIntent) {
			continue
		}
		if !m.AllowsStage(query.Stage) {
			continue
		}
		if !m.AllowsPerformanceStatus(query.PerformanceStatus) {
			continue
		}
		if hasConflict(query, m) {
			continue
		}
		if !coversBiomarkers(query, m) {
			continue
		}
		generic = append(generic, *m)
	}
	return generic
}

// scoreAndRank derives score and match quality for each mapping and sorts
// deterministically.
func (e *MatchEngine) scoreAndRank(query *domain.MatchQuery, mappings []domain.TreatmentMapping, fallback bool) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(mappings))
	for i := range mappings {
		m := mappings[i]
		specificity := e.specificity(query, &m)
		score := weightConfidence*m.ConfidenceScore +
			weightSpecificity*specificity +
			weightPriority*priorityWeights[m.PriorityTag]

		quality := e.matchQuality(query, &m, specificity)
		if fallback {
			quality = domain.MatchFallback
		}

		recs = append(recs, domain.Recommendation{
			Mapping:      m,
			Score:        score,
			MatchQuality: quality,
			Rationale:    e.rationale(query, &m, quality),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := &recs[i], &recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ac, bc := stageCardinality(&a.Mapping), stageCardinality(&b.Mapping)
		if ac != bc {
			return ac < bc
		}
		if a.Mapping.NCCNReference != b.Mapping.NCCNReference {
			return a.Mapping.NCCNReference < b.Mapping.NCCNReference
		}
		return a.Mapping.ID < b.Mapping.ID
	})

	return recs
}

// specificity measures how exactly the mapping was authored for this query's
// histology, line and stage. Wildcards never count as exact.
func (e *MatchEngine) specificity(query *domain.MatchQuery, m *domain.TreatmentMapping) float64 {
	exact := 0
	if !m.HasWildcardHistology() && strings.EqualFold(m.Histology, query.Histology) {
		exact++
	}
	if !m.HasWildcardLine() && strings.EqualFold(m.LineOfTreatment, query.LineOfTreatment) {
		exact++
	}
	if stageExplicit(m, query.Stage) {
		exact++
	}
	return float64(exact) / 3.0
}

// matchQuality grades the recommendation. A mapping with no biomarker
// requirement is a fallback-grade answer for a biomarker-bearing query.
func (e *MatchEngine) matchQuality(query *domain.MatchQuery, m *domain.TreatmentMapping, specificity float64) domain.MatchQuality {
	if m.PriorityTag == domain.PriorityFallback {
		return domain.MatchFallback
	}
	if len(m.Biomarkers) == 0 && len(query.Biomarkers) > 0 {
		return domain.MatchFallback
	}
	if specificity == 1.0 && len(m.Biomarkers) > 0 {
		return domain.MatchExact
	}
	return domain.MatchPartial
}

func (e *MatchEngine) rationale(query *domain.MatchQuery, m *domain.TreatmentMapping, quality domain.MatchQuality) string {
	switch quality {
	case domain.MatchExact:
		return fmt.Sprintf("%s matched on histology, line, stage and biomarkers (%s)",
			m.TreatmentProtocol, strings.Join(m.Biomarkers, ", "))
	case domain.MatchFallback:
		if len(m.Biomarkers) == 0 && len(query.Biomarkers) > 0 {
			return fmt.Sprintf("%s carries no biomarker requirement; biomarker-directed options were exhausted", m.TreatmentProtocol)
		}
		return fmt.Sprintf("%s is a guideline fallback option for %s", m.TreatmentProtocol, m.CancerType)
	default:
		return fmt.Sprintf("%s is applicable but not authored for this exact clinical context", m.TreatmentProtocol)
	}
}

// hasConflict reports whether the query carries any biomarker the mapping
// declares incompatible. Conflicts exclude outright.
func hasConflict(query *domain.MatchQuery, m *domain.TreatmentMapping) bool {
	for _, c := range m.ConflictingBiomarkers {
		if query.HasBiomarker(c) {
			return true
		}
	}
	return false
}

// coversBiomarkers reports whether every biomarker the mapping requires is
// present in the query. Partial coverage is ineligibility, not a weak match.
func coversBiomarkers(query *domain.MatchQuery, m *domain.TreatmentMapping) bool {
	for _, b := range m.Biomarkers {
		if !query.HasBiomarker(b) {
			return false
		}
	}
	return true
}

// stageExplicit reports whether the query stage is an explicit member of the
// mapping's requiredStage set. The "all" sentinel and an unconstrained set
// admit the stage but are not exact.
func stageExplicit(m *domain.TreatmentMapping, stage string) bool {
	if stage == "" || len(m.RequiredStage) == 0 {
		return false
	}
	for _, s := range m.RequiredStage {
		if strings.EqualFold(s, stage) && !strings.EqualFold(s, domain.StageAll) {
			return true
		}
	}
	return false
}

// stageCardinality is the tie-break measure of stage constraint tightness.
// No constraint is the least specific.
func stageCardinality(m *domain.TreatmentMapping) int {
	if len(m.RequiredStage) == 0 {
		return math.MaxInt
	}
	for _, s := range m.RequiredStage {
		if strings.EqualFold(s, domain.StageAll) {
			return math.MaxInt
		}
	}
	return len(m.RequiredStage)
}
