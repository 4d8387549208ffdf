package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// AddProgressRecord appends a test result to a student's history
// @Summary Add progress record
// @Tags progress
// @Accept json
// @Produce json
// @Param student_id path string true "Student ID"
// @Param record body services.ProgressRecordRequest true "Progress record"
// @Success 201 {object} models.ProgressRecord
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/{student_id}/progress [post]
func (h *ProgressHandler) AddProgressRecord(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.ProgressRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	record, err := h.progressService.Add(c.Request.Context(), userID, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListProgressRecords returns a student's history in date order
// @Summary List progress records
// @Tags progress
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {array} models.ProgressRecord
// @Router /students/{student_id}/progress [get]
func (h *ProgressHandler) ListProgressRecords(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	records, err := h.progressService.ListByStudent(c.Request.Context(), userID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// DeleteProgressRecord removes one history entry
// @Summary Delete progress record
// @Tags progress
// @Param student_id path string true "Student ID"
// @Param record_id path string true "Record ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /students/{student_id}/progress/{record_id} [delete]
func (h *ProgressHandler) DeleteProgressRecord(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	recordID := ParseStringIDParam(c, "record_id")
	if recordID == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.progressService.Delete(c.Request.Context(), userID, studentID, recordID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordSessionProgress copies an analysed session's scores into student histories
// @Summary Record session progress
// @Description Adds one progress record per student of the session. Students already holding a record are reported as skipped.
// @Tags progress
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.RecordFromSessionResult
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/progress [post]
func (h *ProgressHandler) RecordSessionProgress(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	result, err := h.progressService.RecordFromSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
