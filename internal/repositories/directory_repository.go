package repositories

import (
	"context"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// DirectoryRepository reads the school directory. This service never writes it.
type DirectoryRepository interface {
	ListSchools(ctx context.Context) ([]models.School, error)
	ListClasses(ctx context.Context, ownerID string) ([]models.Class, error)
	ListStudents(ctx context.Context, ownerID string) ([]models.DirectoryStudent, error)
}
