package repositories

import (
	"context"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// ProgressRepository stores per-student test history. Records are
// append/delete only; one record per (student, test name).
type ProgressRepository interface {
	Add(ctx context.Context, record *models.ProgressRecord) error
	ListByStudent(ctx context.Context, ownerID, studentID string, filters ProgressFilters) ([]*models.ProgressRecord, error)
	Delete(ctx context.Context, ownerID, studentID, recordID string) error
}
