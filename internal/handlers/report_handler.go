package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	BaseHandler
	reportService       services.ReportService
	importExportService services.ImportExportService
}

func NewReportHandler(
	reportService services.ReportService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:         NewBaseHandler(logger),
		reportService:       reportService,
		importExportService: importExportService,
	}
}

// GetConsolidatedReport aggregates every session of one exam
// @Summary Consolidated report
// @Description Merges all sessions with the given grade, subject and exam title into one school-by-section report
// @Tags reports
// @Produce json
// @Param grade query string true "Grade level"
// @Param subject query string true "Subject"
// @Param exam query string true "Exam title"
// @Param format query string false "json (default) or xlsx"
// @Success 200 {object} models.ConsolidatedData
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/consolidated [get]
func (h *ReportHandler) GetConsolidatedReport(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var filter repositories.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid format",
			Details: "format must be json or xlsx",
		})
		return
	}

	report, err := h.reportService.Consolidate(c.Request.Context(), userID, filter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if format == "json" {
		c.JSON(http.StatusOK, report)
		return
	}

	data, err := h.importExportService.ExportConsolidated(c.Request.Context(), report)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	name := fileSafe(strings.Join([]string{report.GradeLevel, report.Subject, report.ExamTitle}, "_"))
	sendWorkbook(c, "consolidated-"+name+".xlsx", data)
}
