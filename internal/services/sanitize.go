package services

import (
	"encoding/json"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// SanitizeForStore returns a copy of data that is safe to persist.
// Unset optional fields (absent Optionals, empty raw blobs) are dropped so
// they never reach the document, required collections are never null, and
// the client-supplied lastModified is cleared because the store assigns it.
// Explicit JSON null and empty strings are kept.
func SanitizeForStore(data *models.SessionData) *models.SessionData {
	if data == nil {
		return &models.SessionData{
			Students:        []*models.Student{},
			TestQuestions:   []models.TestQuestion{},
			AnalysisResults: []models.ItemAnalysisResult{},
			Metadata:        models.TestMetadata{AnswerKey: []string{}},
		}
	}

	out := *data
	out.LastModified = nil
	out.RemedialQuestions = sanitizeRaw(data.RemedialQuestions)
	out.QuestionAnalysis = sanitizeRaw(data.QuestionAnalysis)

	if out.Metadata.AnswerKey == nil {
		out.Metadata.AnswerKey = []string{}
	} else {
		out.Metadata.AnswerKey = append([]string{}, data.Metadata.AnswerKey...)
	}
	if data.Metadata.Competencies != nil {
		out.Metadata.Competencies = append([]string{}, data.Metadata.Competencies...)
	}

	out.Students = make([]*models.Student, 0, len(data.Students))
	for _, s := range data.Students {
		if s == nil {
			continue
		}
		out.Students = append(out.Students, sanitizeStudent(s))
	}

	if data.TestQuestions == nil {
		out.TestQuestions = []models.TestQuestion{}
	}
	if data.AnalysisResults == nil {
		out.AnalysisResults = []models.ItemAnalysisResult{}
	}

	return &out
}

func sanitizeStudent(s *models.Student) *models.Student {
	out := *s
	out.StudentAnswers = append(make([]string, 0, len(s.StudentAnswers)), s.StudentAnswers...)
	out.Responses = append(make([]int, 0, len(s.Responses)), s.Responses...)
	out.ProgressHistory = append(make([]models.ProgressRecord, 0, len(s.ProgressHistory)), s.ProgressHistory...)
	return &out
}

// sanitizeRaw drops blobs that carry no value at all. A literal null is a
// value the caller chose and survives.
func sanitizeRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
