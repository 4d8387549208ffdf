package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", c.GetString("user_id"),
	}
	fields = append(fields, additionalFields...)

	utils.GetLoggerFromContext(c, h.logger).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", c.GetString("user_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	utils.GetLoggerFromContext(c, h.logger).LogError(err, message, fields...)
}

// requireUserID returns the authenticated user or writes a 401
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}

// handleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
			Code:    "validation_failed",
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: []services.ValidationError{*validationError},
			Code:    "validation_failed",
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: services.ErrSessionNotFound.Error(), Code: "session_not_found"})
	case errors.Is(err, services.ErrNoMatchingSessions):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: "no_matching_sessions"})
	case errors.Is(err, services.ErrProgressRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: "progress_record_not_found"})
	case errors.Is(err, services.ErrReportFilterIncomplete):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: "report_filter_incomplete"})
	case errors.Is(err, services.ErrEmptyStudent):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: "empty_student"})
	case errors.Is(err, services.ErrUnsupportedFileFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: "unsupported_file_format"})
	case errors.Is(err, services.ErrProgressRecordExists):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "progress_record_exists"})
	case errors.Is(err, services.ErrNoStudents):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: "Add at least one student before running the analysis", Code: "no_students"})
	case errors.Is(err, services.ErrMixedItemCounts):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error(), Code: "mixed_item_counts"})
	case errors.Is(err, services.ErrSessionNotAnalyzed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error(), Code: "session_not_analyzed"})
	case services.IsBusinessRule(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Resource not found"})
	case services.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
