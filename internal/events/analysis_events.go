package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events this service emits
type EventType string

const (
	EventSessionSaved       EventType = "session.saved"
	EventSessionDeleted     EventType = "session.deleted"
	EventAnalysisCompleted  EventType = "analysis.completed"
	EventReportConsolidated EventType = "report.consolidated"
	EventProgressRecorded   EventType = "progress.recorded"
)

const (
	eventSource  = "item-analysis-service"
	eventVersion = "1.0"
)

// Event is the envelope for every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	UserID    string                 `json:"user_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps a payload in an envelope with a fresh id
func NewEvent(eventType EventType, userID string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		UserID:    userID,
		Data:      data,
	}
}

type SessionSavedEvent struct {
	SessionID  string `json:"session_id"`
	Title      string `json:"title"`
	GradeLevel string `json:"grade_level"`
	Subject    string `json:"subject"`
	Section    string `json:"section"`
	Created    bool   `json:"created"`
}

type SessionDeletedEvent struct {
	SessionID string `json:"session_id"`
}

type AnalysisCompletedEvent struct {
	SessionID     string  `json:"session_id,omitempty"`
	TotalItems    int     `json:"total_items"`
	TestTakers    int     `json:"test_takers"`
	MeanMPS       float64 `json:"mean_mps"`
	MasteredItems int     `json:"mastered_items"`
}

type ReportConsolidatedEvent struct {
	GradeLevel    string  `json:"grade_level"`
	Subject       string  `json:"subject"`
	ExamTitle     string  `json:"exam_title"`
	SessionCount  int     `json:"session_count"`
	TotalStudents int     `json:"total_students"`
	OverallMPS    float64 `json:"overall_mps"`
}

type ProgressRecordedEvent struct {
	StudentID string `json:"student_id"`
	RecordID  string `json:"record_id"`
	TestName  string `json:"test_name"`
	Score     int    `json:"score"`
}
