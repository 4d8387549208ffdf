package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	analysisHandler *AnalysisHandler
	reportHandler   *ReportHandler
	progressHandler *ProgressHandler
}

func NewHandlerManager(svc *services.Services, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler:  NewSessionHandler(svc.Session, svc.Analysis, svc.ImportExport, logger),
		analysisHandler: NewAnalysisHandler(svc.Analysis, logger),
		reportHandler:   NewReportHandler(svc.Report, svc.ImportExport, logger),
		progressHandler: NewProgressHandler(svc.Progress, logger),
	}
}

// SetupRoutes sets up all API routes. auth guards everything under /api/v1.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	if auth != nil {
		v1.Use(auth)
	}
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.POST("/import", hm.sessionHandler.ImportScoreSheet)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.PUT("/:id", hm.sessionHandler.UpdateSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)
			sessions.POST("/:id/restore", hm.sessionHandler.RestoreSession)
			sessions.POST("/:id/analyze", hm.sessionHandler.AnalyzeSession)
			sessions.GET("/:id/export", hm.sessionHandler.ExportSession)
			sessions.POST("/:id/progress", hm.progressHandler.RecordSessionProgress)
		}

		v1.POST("/analysis", hm.analysisHandler.RunAnalysis)

		reports := v1.Group("/reports")
		{
			reports.GET("/consolidated", hm.reportHandler.GetConsolidatedReport)
		}

		students := v1.Group("/students/:student_id")
		{
			students.POST("/progress", hm.progressHandler.AddProgressRecord)
			students.GET("/progress", hm.progressHandler.ListProgressRecords)
			students.DELETE("/progress/:record_id", hm.progressHandler.DeleteProgressRecord)
		}
	}
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "item-analysis-service",
	})
}
