package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Error codes for different failure scenarios
const (
	ErrCodeInvalidCriterion = "INVALID_CRITERION"
	ErrCodeDataUnavailable  = "DATA_UNAVAILABLE"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDatabase         = "DATABASE_ERROR"
	ErrCodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_SERVER_ERROR"
)

// InvalidCriterionError reports a query value absent from the criteria
// catalog. It is raised before any filtering happens.
type InvalidCriterionError struct {
	Category CriterionCategory `json:"category"`
	Value    string            `json:"value"`
}

// Error implements the error interface
func (e *InvalidCriterionError) Error() string {
	return fmt.Sprintf("invalid criterion for %s: %q is not in the catalog", e.Category, e.Value)
}

// NewInvalidCriterionError creates a new InvalidCriterionError
func NewInvalidCriterionError(category CriterionCategory, value string) *InvalidCriterionError {
	return &InvalidCriterionError{Category: category, Value: value}
}

// DataUnavailableError wraps a mapping- or catalog-store failure. The engine
// never retries; callers decide whether the failure is retryable.
type DataUnavailableError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// NewDataUnavailableError creates a new DataUnavailableError
func NewDataUnavailableError(op string, err error) *DataUnavailableError {
	return &DataUnavailableError{Op: op, Err: err}
}

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
