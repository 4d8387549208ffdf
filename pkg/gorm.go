package pkg

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/config"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates the tables owned by this service
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Session{},
		&models.School{},
		&models.Class{},
		&models.DirectoryStudent{},
		&models.ProgressRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Superseded by idx_progress_owner_student_test
	if m := db.Migrator(); m.HasIndex(&models.ProgressRecord{}, legacyProgressIndex) {
		if err := m.DropIndex(&models.ProgressRecord{}, legacyProgressIndex); err != nil {
			return fmt.Errorf("failed to drop %s: %w", legacyProgressIndex, err)
		}
	}
	return nil
}

const legacyProgressIndex = "idx_progress_student_test"
