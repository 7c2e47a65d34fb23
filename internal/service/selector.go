package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/domain"
)

// SelectorService implements the treatment selection workflow: catalog
// validation, candidate fetch, matching, and decision auditing.
type SelectorService struct {
	logger   *logrus.Logger
	source   domain.MappingSource
	catalog  domain.CriteriaCatalog
	recorder domain.DecisionRecorder
	engine   *MatchEngine
}

// NewSelectorService creates a new selector service. recorder may be nil
// when auditing is disabled.
func NewSelectorService(
	logger *logrus.Logger,
	source domain.MappingSource,
	catalog domain.CriteriaCatalog,
	recorder domain.DecisionRecorder,
) *SelectorService {
	return &SelectorService{
		logger:   logger,
		source:   source,
		catalog:  catalog,
		recorder: recorder,
		engine:   NewMatchEngine(logger),
	}
}

// Select performs a complete selection call for one patient query.
func (s *SelectorService) Select(ctx context.Context, query *domain.MatchQuery) (*domain.MatchResult, error) {
	startTime := time.Now()
	normalizeQuery(query)

	s.logger.WithFields(logrus.Fields{
		"cancer_type": query.CancerType,
		"histology":   query.Histology,
		"intent":      query.TreatmentIntent,
		"line":        query.LineOfTreatment,
		"stage":       query.Stage,
		"biomarkers":  len(query.Biomarkers),
	}).Info("Starting treatment selection")

	// Step 1: Every query value must exist in the criteria catalog before
	// any filtering happens.
	if err := s.validateQuery(ctx, query); err != nil {
		s.logger.WithError(err).Warn("Query failed criteria validation")
		return nil, err
	}

	// Step 2: Fetch the candidate mappings, narrowed by cancer type and
	// intent. A store failure propagates untouched as DataUnavailable.
	candidates, err := s.source.ListActiveMappings(ctx, query.CancerType, query.TreatmentIntent)
	if err != nil {
		s.logger.WithError(err).Error("Mapping store unavailable")
		return nil, domain.NewDataUnavailableError("list active mappings", err)
	}

	// Step 3: Filter, score, rank; relax once if nothing survives.
	result := s.engine.Match(query, candidates)

	// Step 4: Record the decision. Best effort; never fails the call.
	s.recordDecision(ctx, query, result, time.Since(startTime))

	s.logger.WithFields(logrus.Fields{
		"status":          result.Status.String(),
		"recommendations": len(result.Recommendations),
		"fallback_used":   result.FallbackUsed,
		"processing_time": time.Since(startTime),
	}).Info("Treatment selection completed")

	return result, nil
}

// validateQuery looks up every non-empty query field in the criteria catalog.
func (s *SelectorService) validateQuery(ctx context.Context, query *domain.MatchQuery) error {
	if err := s.validateValue(ctx, domain.CategoryCancerType, query.CancerType); err != nil {
		return err
	}
	if err := s.validateValue(ctx, domain.CategoryHistology, query.Histology); err != nil {
		return err
	}
	if err := s.validateValue(ctx, domain.CategoryTreatmentIntent, query.TreatmentIntent); err != nil {
		return err
	}
	if err := s.validateValue(ctx, domain.CategoryLineOfTreatment, query.LineOfTreatment); err != nil {
		return err
	}
	if query.Stage != "" {
		if err := s.validateValue(ctx, domain.CategoryStage, query.Stage); err != nil {
			return err
		}
	}
	if query.PerformanceStatus < domain.ECOGMin || query.PerformanceStatus > domain.ECOGMax {
		return domain.NewInvalidCriterionError(domain.CategoryPerformanceStatus,
			strconv.Itoa(query.PerformanceStatus))
	}
	for _, b := range query.Biomarkers {
		if err := s.validateBiomarker(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// validateBiomarker accepts values from either the biomarker or the PD-L1
// status dimension; callers submit both through the biomarkers field.
func (s *SelectorService) validateBiomarker(ctx context.Context, value string) error {
	ok, err := s.catalogContains(ctx, domain.CategoryBiomarker, value)
	if err != nil {
		return domain.NewDataUnavailableError("list criteria", err)
	}
	if ok {
		return nil
	}
	ok, err = s.catalogContains(ctx, domain.CategoryPDL1Status, value)
	if err != nil {
		return domain.NewDataUnavailableError("list criteria", err)
	}
	if ok {
		return nil
	}
	return domain.NewInvalidCriterionError(domain.CategoryBiomarker, value)
}

func (s *SelectorService) validateValue(ctx context.Context, category domain.CriterionCategory, value string) error {
	ok, err := s.catalogContains(ctx, category, value)
	if err != nil {
		return domain.NewDataUnavailableError("list criteria", err)
	}
	if !ok {
		return domain.NewInvalidCriterionError(category, value)
	}
	return nil
}

func (s *SelectorService) catalogContains(ctx context.Context, category domain.CriterionCategory, value string) (bool, error) {
	defs, err := s.catalog.ListCriteria(ctx, category)
	if err != nil {
		return false, err
	}
	for _, d := range defs {
		if d.IsActive && strings.EqualFold(d.Value, value) {
			return true, nil
		}
	}
	return false, nil
}

func (s *SelectorService) recordDecision(ctx context.Context, query *domain.MatchQuery, result *domain.MatchResult, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	record := &domain.DecisionRecord{
		ID:               uuid.New().String(),
		CancerType:       query.CancerType,
		Histology:        query.Histology,
		Biomarkers:       query.Biomarkers,
		TreatmentIntent:  query.TreatmentIntent,
		LineOfTreatment:  query.LineOfTreatment,
		Stage:            query.Stage,
		PerformanceScore: query.PerformanceStatus,
		Status:           result.Status.String(),
		MatchCount:       len(result.Recommendations),
		FallbackUsed:     result.FallbackUsed,
		ProcessingTimeMs: int(elapsed.Milliseconds()),
		CreatedAt:        time.Now().UTC(),
	}
	if len(result.Recommendations) > 0 {
		record.TopProtocol = result.Recommendations[0].Mapping.TreatmentProtocol
		record.TopScore = result.Recommendations[0].Score
	}

	if err := s.recorder.RecordDecision(ctx, record); err != nil {
		s.logger.WithError(err).Warn("Failed to record decision audit entry")
	}
}

// normalizeQuery trims whitespace on every textual field. Matching itself is
// case-insensitive, so case is left as submitted.
func normalizeQuery(query *domain.MatchQuery) {
	query.CancerType = strings.TrimSpace(query.CancerType)
	query.Histology = strings.TrimSpace(query.Histology)
	query.TreatmentIntent = strings.TrimSpace(query.TreatmentIntent)
	query.LineOfTreatment = strings.TrimSpace(query.LineOfTreatment)
	query.Stage = strings.TrimSpace(query.Stage)
	for i, b := range query.Biomarkers {
		query.Biomarkers[i] = strings.TrimSpace(b)
	}
}
