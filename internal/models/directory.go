package models

import (
	"time"

	"gorm.io/datatypes"
)

// School, Class and DirectoryStudent mirror the school directory. The analysis
// core only reads them to recover stale references when a session is restored.
type School struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null;size:255;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (School) TableName() string {
	return "schools"
}

type Class struct {
	ID         string                      `json:"id" gorm:"primaryKey;size:36"`
	Name       string                      `json:"name" gorm:"size:255"`
	StudentIDs datatypes.JSONSlice[string] `json:"studentIds" gorm:"type:jsonb"` // account-link ids
	SchoolID   string                      `json:"schoolId" gorm:"size:36;index"`
	GradeLevel string                      `json:"gradeLevel" gorm:"size:50;index:idx_classes_grade_section"`
	Section    string                      `json:"section" gorm:"size:100;index:idx_classes_grade_section"`
	SchoolYear string                      `json:"schoolYear" gorm:"size:20"`
	OwnerID    string                      `json:"ownerId" gorm:"size:255;index"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

func (Class) TableName() string {
	return "classes"
}

type DirectoryStudent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	AccountID string    `json:"accountId" gorm:"size:255;index"`
	OwnerID   string    `json:"ownerId" gorm:"size:255;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DirectoryStudent) TableName() string {
	return "students"
}

// LinkID is the id class rosters refer to: the account link when present, else the row id.
func (s DirectoryStudent) LinkID() string {
	if s.AccountID != "" {
		return s.AccountID
	}
	return s.ID
}
