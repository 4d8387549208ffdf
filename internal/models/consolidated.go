package models

// ConsolidatedData is the rollup of many sessions for one grade, subject and exam.
// It is computed on demand and never persisted.
type ConsolidatedData struct {
	GradeLevel    string             `json:"gradeLevel"`
	Subject       string             `json:"subject"`
	ExamTitle     string             `json:"examTitle"`
	TotalStudents int                `json:"totalStudents"`
	TotalSections int                `json:"totalSections"`
	OverallMPS    float64            `json:"overallMPS"`
	Schools       []SchoolData       `json:"schools"`
	Competencies  []CompetencyRollup `json:"competencies"`
}

type SchoolData struct {
	Name          string        `json:"name"`
	TotalStudents int           `json:"totalStudents"`
	TotalSections int           `json:"totalSections"`
	MPS           float64       `json:"mps"`
	Sections      []SectionData `json:"sections"`
}

type SectionData struct {
	Name         string  `json:"name"`
	MPS          float64 `json:"mps"`
	StudentCount int     `json:"studentCount"`
}

type CompetencyRollup struct {
	ItemNumber     int            `json:"itemNumber"`
	Competency     string         `json:"competency"`
	TotalCorrect   int            `json:"totalCorrect"`
	TotalResponses int            `json:"totalResponses"`
	MPS            float64        `json:"mps"`
	Interpretation Interpretation `json:"interpretation"`
}
