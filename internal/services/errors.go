package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/item-analysis-service/internal/analysis"
	apperrors "github.com/SAP-F-2025/item-analysis-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Session specific errors
	ErrSessionNotFound    = errors.New("Session not found")
	ErrSessionNotAnalyzed = errors.New("session has no analysis results")

	// Analysis specific errors
	ErrNoStudents      = analysis.ErrNoStudents
	ErrNoSessions      = analysis.ErrNoSessions
	ErrMixedItemCounts = analysis.ErrMixedItemCounts
	ErrEmptyStudent    = analysis.ErrEmptyStudent

	// Report specific errors
	ErrReportFilterIncomplete = errors.New("select grade/subject/exam first")
	ErrNoMatchingSessions     = errors.New("no sessions match the selected grade, subject and exam")

	// Progress specific errors
	ErrProgressRecordExists   = errors.New("a progress record for this test already exists")
	ErrProgressRecordNotFound = errors.New("progress record not found")

	// Import specific errors
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrNoMatchingSessions) ||
		errors.Is(err, ErrProgressRecordNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrReportFilterIncomplete) ||
		errors.Is(err, ErrEmptyStudent) ||
		errors.Is(err, ErrUnsupportedFileFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	if errors.Is(err, ErrNoStudents) ||
		errors.Is(err, ErrNoSessions) ||
		errors.Is(err, ErrMixedItemCounts) ||
		errors.Is(err, ErrSessionNotAnalyzed) {
		return true
	}
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrProgressRecordExists)
}
