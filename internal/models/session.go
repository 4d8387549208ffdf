package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type TestQuestion struct {
	ItemNumber    int      `json:"itemNumber"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Competency    string   `json:"competency,omitempty"`
}

// SessionData is the persisted snapshot of one item analysis.
// Optional fields that were absent are never written to the store; an
// explicit null is kept as null.
type SessionData struct {
	Metadata          TestMetadata         `json:"metadata"`
	Students          []*Student           `json:"students" validate:"dive"`
	TestQuestions     []TestQuestion       `json:"testQuestions"`
	AnalysisResults   []ItemAnalysisResult `json:"analysisResults"`
	LastModified      *time.Time           `json:"lastModified,omitempty"`
	SelectedTOSID     Optional[string]     `json:"selectedTOSId,omitzero"`
	SelectedBankID    Optional[string]     `json:"selectedBankId,omitzero"`
	AIAnalysisReport  Optional[string]     `json:"aiAnalysisReport,omitzero"`
	RemedialQuestions json.RawMessage      `json:"remedialQuestions,omitempty"`
	QuestionAnalysis  json.RawMessage      `json:"questionAnalysis,omitempty"`
}

// Title is the label shown in the session list
func (d *SessionData) Title() string {
	if t := strings.TrimSpace(d.Metadata.ExamTitle); t != "" {
		return t
	}
	label := strings.TrimSpace(fmt.Sprintf("%s %s", d.Metadata.Subject, d.Metadata.GradeLevel))
	if d.Metadata.Section != "" {
		label = fmt.Sprintf("%s - %s", label, d.Metadata.Section)
	}
	if label == "" {
		return "Untitled Session"
	}
	return label
}

// Session is the stored row. Payload holds the SessionData document; the
// other columns are denormalised from it for listing and report lookups.
type Session struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	UserID     string         `json:"user_id" gorm:"not null;index;size:255"`
	Title      string         `json:"title" gorm:"size:255"`
	Subject    string         `json:"subject" gorm:"size:100;index:idx_sessions_exam"`
	GradeLevel string         `json:"grade_level" gorm:"size:50;index:idx_sessions_exam"`
	ExamTitle  string         `json:"exam_title" gorm:"size:255;index:idx_sessions_exam"`
	Section    string         `json:"section" gorm:"size:100"`
	School     string         `json:"school" gorm:"size:255"`
	SchoolYear string         `json:"school_year" gorm:"size:20"`
	Payload    datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	LastModified time.Time `json:"last_modified" gorm:"autoUpdateTime"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "analysis_sessions"
}

// SessionInfo is the lightweight list entry for a stored session.
type SessionInfo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastModified time.Time `json:"lastModified"`
	Subject      string    `json:"subject"`
	GradeLevel   string    `json:"gradeLevel"`
	Section      string    `json:"section"`
	SchoolYear   string    `json:"schoolYear"`
}
