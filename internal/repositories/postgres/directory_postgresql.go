package postgres

import (
	"context"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"gorm.io/gorm"
)

type DirectoryPostgreSQL struct {
	db *gorm.DB
}

func NewDirectoryPostgreSQL(db *gorm.DB) repositories.DirectoryRepository {
	return &DirectoryPostgreSQL{db: db}
}

func (d *DirectoryPostgreSQL) ListSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := d.db.WithContext(ctx).Order("name ASC").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (d *DirectoryPostgreSQL) ListClasses(ctx context.Context, ownerID string) ([]models.Class, error) {
	var classes []models.Class
	if err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("grade_level ASC, section ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (d *DirectoryPostgreSQL) ListStudents(ctx context.Context, ownerID string) ([]models.DirectoryStudent, error) {
	var students []models.DirectoryStudent
	if err := d.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
