package models

import "time"

// ProgressRecord is one entry of a student's test history. Records are
// appended or deleted, never updated. Student ids come from the caller, so
// uniqueness is scoped to the owning teacher.
type ProgressRecord struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	StudentID  string    `json:"studentId" gorm:"not null;size:255;uniqueIndex:idx_progress_owner_student_test,priority:2"`
	OwnerID    string    `json:"ownerId" gorm:"not null;size:255;index;uniqueIndex:idx_progress_owner_student_test,priority:1"`
	Date       time.Time `json:"date" gorm:"not null"`
	TestName   string    `json:"testName" gorm:"not null;size:255;uniqueIndex:idx_progress_owner_student_test,priority:3"`
	Score      int       `json:"score"`
	TotalItems int       `json:"totalItems"`
	CreatedAt  time.Time `json:"-"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// Percentage is Score relative to TotalItems, 0 when there are no items
func (r ProgressRecord) Percentage() float64 {
	if r.TotalItems <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalItems) * 100
}
