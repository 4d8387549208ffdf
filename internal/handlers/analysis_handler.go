package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	BaseHandler
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService, logger utils.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler:     NewBaseHandler(logger),
		analysisService: analysisService,
	}
}

// RunAnalysis scores an unsaved session
// @Summary Run item analysis
// @Description Scores every student against the answer key and returns per-item statistics. Nothing is stored.
// @Tags analysis
// @Accept json
// @Produce json
// @Param session body models.SessionData true "Metadata and students"
// @Success 200 {object} services.AnalysisResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /analysis [post]
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
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

	resp, err := h.analysisService.Run(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
