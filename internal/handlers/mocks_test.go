package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, userID string, data *models.SessionData) (string, error) {
	args := m.Called(ctx, userID, data)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Save(ctx context.Context, userID, sessionID string, data *models.SessionData) (string, error) {
	args := m.Called(ctx, userID, sessionID, data)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionData), args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context, userID string) ([]models.SessionInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionInfo), args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, userID, sessionID string) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockSessionService) Restore(ctx context.Context, userID, sessionID string, directory *services.DirectorySnapshot) (*services.WorkingState, error) {
	args := m.Called(ctx, userID, sessionID, directory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WorkingState), args.Error(1)
}

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Run(ctx context.Context, userID string, data *models.SessionData) (*services.AnalysisResponse, error) {
	args := m.Called(ctx, userID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeSession(ctx context.Context, userID, sessionID string) (*services.AnalysisResponse, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResponse), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Consolidate(ctx context.Context, userID string, filter repositories.ReportFilter) (*models.ConsolidatedData, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsolidatedData), args.Error(1)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Add(ctx context.Context, ownerID, studentID string, req *services.ProgressRecordRequest) (*models.ProgressRecord, error) {
	args := m.Called(ctx, ownerID, studentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressService) ListByStudent(ctx context.Context, ownerID, studentID string) ([]*models.ProgressRecord, error) {
	args := m.Called(ctx, ownerID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressService) Delete(ctx context.Context, ownerID, studentID, recordID string) error {
	args := m.Called(ctx, ownerID, studentID, recordID)
	return args.Error(0)
}

func (m *MockProgressService) RecordFromSession(ctx context.Context, userID, sessionID string) (*services.RecordFromSessionResult, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecordFromSessionResult), args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportScoreSheet(ctx context.Context, reader io.Reader, filename string, totalItems int) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, filename, totalItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ImportScoreSheetFromCSV(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, totalItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ImportScoreSheetFromExcel(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, totalItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

func (m *MockImportExportService) ExportSession(ctx context.Context, userID, sessionID string) ([]byte, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImportExportService) ExportConsolidated(ctx context.Context, report *models.ConsolidatedData) ([]byte, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// ===== TEST ROUTER =====

type testServer struct {
	router       *gin.Engine
	session      *MockSessionService
	analysis     *MockAnalysisService
	report       *MockReportService
	progress     *MockProgressService
	importExport *MockImportExportService
}

func discardLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestServer mounts every route behind the dev-header middleware
func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		router:       gin.New(),
		session:      new(MockSessionService),
		analysis:     new(MockAnalysisService),
		report:       new(MockReportService),
		progress:     new(MockProgressService),
		importExport: new(MockImportExportService),
	}

	logger := discardLogger()
	hm := NewHandlerManager(&services.Services{
		Session:      ts.session,
		Analysis:     ts.analysis,
		Report:       ts.report,
		Progress:     ts.progress,
		ImportExport: ts.importExport,
	}, logger)
	hm.SetupRoutes(ts.router, AuthMiddleware(nil, logger))

	return ts
}
