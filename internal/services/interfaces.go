package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/cache"
	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
)

// ===== SERVICE INTERFACES =====

type SessionService interface {
	Create(ctx context.Context, userID string, data *models.SessionData) (string, error)
	// Save overwrites sessionID, or allocates a new id when sessionID is empty.
	Save(ctx context.Context, userID, sessionID string, data *models.SessionData) (string, error)
	Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error)
	List(ctx context.Context, userID string) ([]models.SessionInfo, error)
	Delete(ctx context.Context, userID, sessionID string) error

	// Restore loads a session and reconciles it with the live directory.
	// A nil directory is read from the directory store.
	Restore(ctx context.Context, userID, sessionID string, directory *DirectorySnapshot) (*WorkingState, error)
}

type AnalysisService interface {
	Run(ctx context.Context, userID string, data *models.SessionData) (*AnalysisResponse, error)
	AnalyzeSession(ctx context.Context, userID, sessionID string) (*AnalysisResponse, error)
}

type ReportService interface {
	Consolidate(ctx context.Context, userID string, filter repositories.ReportFilter) (*models.ConsolidatedData, error)
}

type ProgressService interface {
	Add(ctx context.Context, ownerID, studentID string, req *ProgressRecordRequest) (*models.ProgressRecord, error)
	ListByStudent(ctx context.Context, ownerID, studentID string) ([]*models.ProgressRecord, error)
	Delete(ctx context.Context, ownerID, studentID, recordID string) error
	RecordFromSession(ctx context.Context, userID, sessionID string) (*RecordFromSessionResult, error)
}

type ImportExportService interface {
	ImportScoreSheet(ctx context.Context, reader io.Reader, filename string, totalItems int) (*models.ImportResult, error)
	ImportScoreSheetFromCSV(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error)
	ImportScoreSheetFromExcel(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error)

	ExportSession(ctx context.Context, userID, sessionID string) ([]byte, error)
	ExportConsolidated(ctx context.Context, report *models.ConsolidatedData) ([]byte, error)
}

// ===== REQUEST / RESPONSE DTOS =====

// DirectorySnapshot is the caller's view of the school directory
type DirectorySnapshot struct {
	Schools  []models.School           `json:"schools"`
	Classes  []models.Class            `json:"classes"`
	Students []models.DirectoryStudent `json:"students"`
}

// Tabs the client opens a restored session on
const (
	TabSetup   = "setup"
	TabResults = "results"
)

// WorkingState is a restored session ready for editing
type WorkingState struct {
	SessionID       string              `json:"sessionId"`
	Session         *models.SessionData `json:"session"`
	SelectedClassID string              `json:"selectedClassId,omitempty"`
	RecoveredRoster bool                `json:"recoveredRoster"`
	ActiveTab       string              `json:"activeTab"`
}

type AnalysisResponse struct {
	SessionID string                      `json:"sessionId,omitempty"`
	Metadata  models.TestMetadata         `json:"metadata"`
	Students  []*models.Student           `json:"students"`
	Results   []models.ItemAnalysisResult `json:"analysisResults"`
	Summary   models.AnalysisSummary      `json:"summary"`
}

type ProgressRecordRequest struct {
	Date       *time.Time `json:"date"`
	TestName   string     `json:"testName" validate:"required,max=255"`
	Score      int        `json:"score" validate:"min=0"`
	TotalItems int        `json:"totalItems" validate:"min=0,max=500"`
}

type RecordFromSessionResult struct {
	Recorded []*models.ProgressRecord `json:"recorded"`
	Skipped  []string                 `json:"skipped"`
}

// ===== SERVICE MANAGER =====

type Dependencies struct {
	Repo           repositories.Repository
	Cache          cache.CacheService
	Publisher      events.EventPublisher
	Logger         *slog.Logger
	Validator      *validator.Validator
	ReportCacheTTL time.Duration
}

type Services struct {
	Session      SessionService
	Analysis     AnalysisService
	Report       ReportService
	Progress     ProgressService
	ImportExport ImportExportService
}

func NewServices(deps Dependencies) *Services {
	sessions := NewSessionService(deps.Repo, deps.Cache, deps.Publisher, deps.Logger, deps.Validator)
	return &Services{
		Session:      sessions,
		Analysis:     NewAnalysisService(sessions, deps.Publisher, deps.Logger, deps.Validator),
		Report:       NewReportService(deps.Repo, deps.Cache, deps.Publisher, deps.Logger, deps.ReportCacheTTL),
		Progress:     NewProgressService(deps.Repo, sessions, deps.Publisher, deps.Logger, deps.Validator),
		ImportExport: NewImportExportService(sessions, deps.Logger),
	}
}
