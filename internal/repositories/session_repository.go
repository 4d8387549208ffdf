package repositories

import (
	"context"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// SessionRepository persists analysis snapshots keyed by owning user.
// Load returns gorm.ErrRecordNotFound when the session does not exist or
// belongs to someone else.
type SessionRepository interface {
	Create(ctx context.Context, userID string, data *models.SessionData) (string, error)
	Save(ctx context.Context, userID, sessionID string, data *models.SessionData) error
	Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error)
	List(ctx context.Context, userID string) ([]models.SessionInfo, error)
	Delete(ctx context.Context, userID, sessionID string) error

	// Report lookups
	FindByExam(ctx context.Context, userID string, filter ReportFilter) ([]string, error)
}
