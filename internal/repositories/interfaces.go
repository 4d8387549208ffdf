package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

// ReportFilter selects the sessions that make up one consolidated report
type ReportFilter struct {
	GradeLevel string `json:"grade_level" form:"grade"`
	Subject    string `json:"subject" form:"subject"`
	ExamTitle  string `json:"exam_title" form:"exam"`
}

// IsComplete reports whether all three selectors are set
func (f ReportFilter) IsComplete() bool {
	return strings.TrimSpace(f.GradeLevel) != "" &&
		strings.TrimSpace(f.Subject) != "" &&
		strings.TrimSpace(f.ExamTitle) != ""
}

// Normalized trims surrounding whitespace from every selector
func (f ReportFilter) Normalized() ReportFilter {
	return ReportFilter{
		GradeLevel: strings.TrimSpace(f.GradeLevel),
		Subject:    strings.TrimSpace(f.Subject),
		ExamTitle:  strings.TrimSpace(f.ExamTitle),
	}
}

type ProgressFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== REPOSITORY MANAGER =====

// Repository groups the stores used by the service layer
type Repository interface {
	Session() SessionRepository
	Directory() DirectoryRepository
	Progress() ProgressRepository
}

// IsNotFoundError reports whether err means the requested row does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique constraint violation
func IsDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "SQLSTATE 23505")
}
