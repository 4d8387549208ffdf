package validator

import (
	"strings"

	"github.com/SAP-F-2025/item-analysis-service/internal/errors"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

const MaxTotalItems = 500

// BusinessValidator checks rules that span fields and cannot be expressed as tags.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// Validate dispatches on the concrete type; unknown types have no business rules.
func (b *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch v := s.(type) {
	case *models.SessionData:
		return b.ValidateSession(v)
	case *models.TestMetadata:
		return b.ValidateMetadata(v)
	case *models.ProgressRecord:
		return b.ValidateProgressRecord(v)
	default:
		return nil
	}
}

func (b *BusinessValidator) ValidateMetadata(meta *models.TestMetadata) ValidationErrors {
	var errs ValidationErrors

	if meta.TotalItems < 0 || meta.TotalItems > MaxTotalItems {
		errs = append(errs, *errors.NewValidationErrorWithRule("totalItems", "must be between 0 and 500", "total_items", meta.TotalItems))
	}
	if len(meta.AnswerKey) != meta.TotalItems {
		errs = append(errs, *errors.NewValidationErrorWithRule("answerKey", "must have exactly one entry per item", "answer_key_length", len(meta.AnswerKey)))
	}
	if len(meta.Competencies) > meta.TotalItems {
		errs = append(errs, *errors.NewValidationErrorWithRule("competencies", "has more entries than items", "answer_key_length", len(meta.Competencies)))
	}

	return errs
}

func (b *BusinessValidator) ValidateSession(data *models.SessionData) ValidationErrors {
	errs := b.ValidateMetadata(&data.Metadata)

	errs = append(errs, b.ValidateStudents(data.Students)...)
	for _, s := range data.Students {
		if s == nil {
			continue
		}
		if len(s.StudentAnswers) > data.Metadata.TotalItems {
			errs = append(errs, *errors.NewValidationErrorWithRule("studentAnswers", "has more answers than items", "answer_key_length", s.ID))
		}
	}
	if len(data.AnalysisResults) > 0 && len(data.AnalysisResults) != data.Metadata.TotalItems {
		errs = append(errs, *errors.NewValidationError("analysisResults", "must have one row per item", len(data.AnalysisResults)))
	}

	return errs
}

// ValidateStudents rejects null roster entries
func (b *BusinessValidator) ValidateStudents(students []*models.Student) ValidationErrors {
	var errs ValidationErrors
	for i, s := range students {
		if s == nil {
			errs = append(errs, *errors.NewValidationError("students", "must not contain empty entries", i))
		}
	}
	return errs
}

func (b *BusinessValidator) ValidateProgressRecord(r *models.ProgressRecord) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(r.TestName) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule("testName", "is required", "required", r.TestName))
	}
	if r.TotalItems < 0 {
		errs = append(errs, *errors.NewValidationErrorWithRule("totalItems", "must be at least 0", "min", r.TotalItems))
	}
	if r.Score < 0 || (r.TotalItems > 0 && r.Score > r.TotalItems) {
		errs = append(errs, *errors.NewValidationError("score", "must be between 0 and totalItems", r.Score))
	}
	if r.Date.IsZero() {
		errs = append(errs, *errors.NewValidationErrorWithRule("date", "is required", "required", nil))
	}

	return errs
}
