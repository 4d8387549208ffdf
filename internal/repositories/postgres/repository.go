package postgres

import (
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"gorm.io/gorm"
)

type repositoryManager struct {
	session   repositories.SessionRepository
	directory repositories.DirectoryRepository
	progress  repositories.ProgressRepository
}

// NewRepository wires the gorm-backed stores
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repositoryManager{
		session:   NewSessionPostgreSQL(db),
		directory: NewDirectoryPostgreSQL(db),
		progress:  NewProgressPostgreSQL(db),
	}
}

func (r *repositoryManager) Session() repositories.SessionRepository {
	return r.session
}

func (r *repositoryManager) Directory() repositories.DirectoryRepository {
	return r.directory
}

func (r *repositoryManager) Progress() repositories.ProgressRepository {
	return r.progress
}
