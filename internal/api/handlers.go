package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onco-treatment-selector/internal/domain"
)

// handleMatch runs a selection call for the posted patient query.
func (s *Server) handleMatch(c *gin.Context) {
	var query domain.MatchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}

	result, err := s.selector.Select(c.Request.Context(), &query)
	if err != nil {
		s.respondSelectError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleListCriteria returns the catalog values for one category.
func (s *Server) handleListCriteria(c *gin.Context) {
	category := domain.CriterionCategory(c.Param("category"))
	if !validCategory(category) {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation,
			"unknown criterion category: "+c.Param("category"))
		return
	}

	defs, err := s.criteria.ListCriteria(c.Request.Context(), category)
	if err != nil {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeDataUnavailable, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"criteria": defs,
	})
}

// handleCreateCriterion adds a catalog value.
func (s *Server) handleCreateCriterion(c *gin.Context) {
	var def domain.CriterionDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}
	if !validCategory(def.Category) || def.Value == "" {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation,
			"category and value are required")
		return
	}

	def.IsActive = true
	if err := s.criteria.Create(c.Request.Context(), &def); err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusCreated, def)
}

// handleDeactivateCriterion soft-deletes a catalog value.
func (s *Server) handleDeactivateCriterion(c *gin.Context) {
	category := domain.CriterionCategory(c.Param("category"))
	value := c.Param("value")

	err := s.criteria.Deactivate(c.Request.Context(), category, value)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "criterion not found")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// handleGetMapping returns a single mapping by ID.
func (s *Server) handleGetMapping(c *gin.Context) {
	mapping, err := s.mappings.GetMapping(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "mapping not found")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusOK, mapping)
}

// handleCreateMapping adds a protocol mapping.
func (s *Server) handleCreateMapping(c *gin.Context) {
	var mapping domain.TreatmentMapping
	if err := c.ShouldBindJSON(&mapping); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}
	if err := validateMapping(&mapping); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}

	mapping.IsActive = true
	if err := s.mappings.Create(c.Request.Context(), &mapping); err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusCreated, mapping)
}

// handleUpdateMapping replaces a protocol mapping.
func (s *Server) handleUpdateMapping(c *gin.Context) {
	var mapping domain.TreatmentMapping
	if err := c.ShouldBindJSON(&mapping); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}
	mapping.ID = c.Param("id")
	if err := validateMapping(&mapping); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeValidation, err.Error())
		return
	}

	if err := s.mappings.Update(c.Request.Context(), &mapping); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "mapping not found")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusOK, mapping)
}

// handleDeactivateMapping soft-deletes a protocol mapping.
func (s *Server) handleDeactivateMapping(c *gin.Context) {
	err := s.mappings.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "mapping not found")
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// handleListDecisions pages through the decision audit log.
func (s *Server) handleListDecisions(c *gin.Context) {
	if s.decisions == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "decision auditing is disabled")
		return
	}

	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)

	records, err := s.decisions.ListDecisions(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decisions": records,
		"limit":     limit,
		"offset":    offset,
	})
}

// handleDecisionSummary aggregates the decision audit log.
func (s *Server) handleDecisionSummary(c *gin.Context) {
	if s.decisions == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrCodeValidation, "decision auditing is disabled")
		return
	}

	summary, err := s.decisions.Summary(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// respondSelectError maps selector errors to HTTP statuses.
func (s *Server) respondSelectError(c *gin.Context, err error) {
	var invalid *domain.InvalidCriterionError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          domain.ErrCodeInvalidCriterion,
			"category":       invalid.Category,
			"value":          invalid.Value,
			"message":        invalid.Error(),
			"correlation_id": c.GetString("correlation_id"),
		})
		return
	}

	var unavailable *domain.DataUnavailableError
	if errors.As(err, &unavailable) {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrCodeDataUnavailable, unavailable.Error())
		return
	}

	s.logger.WithError(err).Error("Selection failed")
	s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternal, "internal error")
}

func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	s.logger.WithFields(logrus.Fields{
		"status":         status,
		"code":           code,
		"correlation_id": c.GetString("correlation_id"),
	}).Warn(message)

	c.JSON(status, gin.H{
		"error":          code,
		"message":        message,
		"correlation_id": c.GetString("correlation_id"),
	})
}

func validCategory(category domain.CriterionCategory) bool {
	for _, c := range domain.AllCategories() {
		if c == category {
			return true
		}
	}
	return false
}

func validateMapping(m *domain.TreatmentMapping) error {
	switch {
	case m.CancerType == "":
		return errors.New("cancer_type is required")
	case m.Histology == "":
		return errors.New("histology is required")
	case m.TreatmentIntent == "":
		return errors.New("treatment_intent is required")
	case m.LineOfTreatment == "":
		return errors.New("line_of_treatment is required")
	case m.TreatmentProtocol == "":
		return errors.New("treatment_protocol is required")
	case m.ConfidenceScore < 0 || m.ConfidenceScore > 1:
		return errors.New("confidence_score must be between 0 and 1")
	}

	switch m.PriorityTag {
	case domain.PriorityPreferred, domain.PriorityAlternative, domain.PriorityFallback:
	default:
		return errors.New("priority_tag must be Preferred, Alternative or Fallback")
	}

	return nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
