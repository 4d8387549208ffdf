package postgres

import (
	"context"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) Add(ctx context.Context, record *models.ProgressRecord) error {
	return p.db.WithContext(ctx).Create(record).Error
}

func (p *ProgressPostgreSQL) ListByStudent(ctx context.Context, ownerID, studentID string, filters repositories.ProgressFilters) ([]*models.ProgressRecord, error) {
	var records []*models.ProgressRecord

	query := p.db.WithContext(ctx).
		Where("owner_id = ? AND student_id = ?", ownerID, studentID).
		Order("date ASC, created_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes one record. A record that does not exist for this owner
// and student yields gorm.ErrRecordNotFound.
func (p *ProgressPostgreSQL) Delete(ctx context.Context, ownerID, studentID, recordID string) error {
	result := p.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND student_id = ?", recordID, ownerID, studentID).
		Delete(&models.ProgressRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
