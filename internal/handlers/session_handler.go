package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService      services.SessionService
	analysisService     services.AnalysisService
	importExportService services.ImportExportService
}

type SessionCreatedResponse struct {
	ID string `json:"id"`
}

func NewSessionHandler(
	sessionService services.SessionService,
	analysisService services.AnalysisService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:         NewBaseHandler(logger),
		sessionService:      sessionService,
		analysisService:     analysisService,
		importExportService: importExportService,
	}
}

// CreateSession stores a new analysis session
// @Summary Create session
// @Description Saves a new item analysis snapshot and returns its id
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body models.SessionData true "Session data"
// @Success 201 {object} SessionCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req models.SessionData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	id, err := h.sessionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SessionCreatedResponse{ID: id})
}

// ListSessions lists the caller's sessions
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} models.SessionInfo
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	infos, err := h.sessionService.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, infos)
}

// GetSession loads one session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionData
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	data, err := h.sessionService.Load(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// UpdateSession overwrites a session
// @Summary Update session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param session body models.SessionData true "Session data"
// @Success 200 {object} SessionCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req models.SessionData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	savedID, err := h.sessionService.Save(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionCreatedResponse{ID: savedID})
}

// DeleteSession removes a session
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting session", "session_id", id)

	if err := h.sessionService.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RestoreSession loads a session reconciled with the directory
// @Summary Restore session
// @Description Loads a session, re-resolves its school and class and rebuilds an empty roster. The body may carry the client's directory; without a body the stored directory is used.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param directory body services.DirectorySnapshot false "Directory snapshot"
// @Success 200 {object} services.WorkingState
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/restore [post]
func (h *SessionHandler) RestoreSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var directory *services.DirectorySnapshot
	if c.Request.ContentLength != 0 {
		directory = &services.DirectorySnapshot{}
		if err := c.ShouldBindJSON(directory); err != nil {
			if !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Message: "Invalid request payload",
					Details: err.Error(),
				})
				return
			}
			directory = nil
		}
	}

	state, err := h.sessionService.Restore(c.Request.Context(), userID, id, directory)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// AnalyzeSession recomputes and saves the item analysis of a session
// @Summary Analyze session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.AnalysisResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/analyze [post]
func (h *SessionHandler) AnalyzeSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.analysisService.AnalyzeSession(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportSession downloads the item analysis workbook
// @Summary Export session
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) ExportSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	data, err := h.importExportService.ExportSession(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, "item-analysis-"+fileSafe(id)+".xlsx", data)
}

// ImportScoreSheet parses an uploaded score sheet into students
// @Summary Import score sheet
// @Description Accepts .xlsx or .csv with header ID, Name, 1..N. Nothing is stored.
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Score sheet"
// @Param total_items formData int false "Number of items; defaults to the highest numbered column"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /sessions/import [post]
func (h *SessionHandler) ImportScoreSheet(c *gin.Context) {
	if _, ok := h.requireUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}

	totalItems := 0
	if raw := c.PostForm("total_items"); raw != "" {
		totalItems, err = strconv.Atoi(raw)
		if err != nil || totalItems < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid total_items",
				Details: "must be a non-negative integer",
			})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unable to read uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing score sheet", "filename", fileHeader.Filename, "size", fileHeader.Size)

	result, err := h.importExportService.ImportScoreSheet(c.Request.Context(), file, fileHeader.Filename, totalItems)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
