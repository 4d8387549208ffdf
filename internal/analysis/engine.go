// Package analysis computes item statistics for one exam session and folds
// many sessions into a consolidated report. Everything here is pure: no I/O,
// and the only mutation is the documented rewrite of each student's
// correctness vector.
package analysis

import (
	"errors"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

const (
	MasteredThreshold      = 75.0
	LeastMasteredThreshold = 50.0
	EasyThreshold          = 75.0
	ModerateThreshold      = 35.0
)

var (
	ErrNoStudents      = errors.New("no students to analyze")
	ErrNoSessions      = errors.New("no sessions to aggregate")
	ErrMixedItemCounts = errors.New("sessions have different item counts")
	ErrEmptyStudent    = errors.New("students must not contain empty entries")
)

// Interpret maps an MPS onto the mastery scale.
func Interpret(mps float64) models.Interpretation {
	switch {
	case mps >= MasteredThreshold:
		return models.Mastered
	case mps >= LeastMasteredThreshold:
		return models.LeastMastered
	default:
		return models.NotMastered
	}
}

// ClassifyDifficulty maps an MPS onto the difficulty scale.
func ClassifyDifficulty(mps float64) models.Difficulty {
	switch {
	case mps >= EasyThreshold:
		return models.DifficultyEasy
	case mps >= ModerateThreshold:
		return models.DifficultyModerate
	default:
		return models.DifficultyDifficult
	}
}

// IsCorrect reports whether a submitted answer matches the key. Comparison is
// strict and an empty key never matches, so omitted answers always count as wrong.
func IsCorrect(submitted, key string) bool {
	return key != "" && submitted == key
}

// Analyze recomputes the item analysis for one class.
//
// Every student's StudentAnswers and Responses are resized to meta.TotalItems
// and Responses is overwritten in full. meta.TestTakers is set to the number
// of students. Running Analyze twice on unchanged input yields identical output.
func Analyze(meta *models.TestMetadata, students []*models.Student) ([]models.ItemAnalysisResult, error) {
	if len(students) == 0 {
		return nil, ErrNoStudents
	}
	for _, s := range students {
		if s == nil {
			return nil, ErrEmptyStudent
		}
	}

	meta.TestTakers = len(students)
	results := make([]models.ItemAnalysisResult, 0, meta.TotalItems)
	if meta.TotalItems <= 0 {
		return results, nil
	}

	for _, s := range students {
		s.ResizeAnswers(meta.TotalItems)
	}

	for _, item := range meta.Items() {
		correct := 0
		for _, s := range students {
			if IsCorrect(s.StudentAnswers[item.Index], item.Key) {
				s.Responses[item.Index] = 1
				correct++
			} else {
				s.Responses[item.Index] = 0
			}
		}

		mps := Percentage(correct, len(students))
		results = append(results, models.ItemAnalysisResult{
			ItemNumber:     item.Number(),
			TotalCorrect:   correct,
			MPS:            mps,
			Interpretation: Interpret(mps),
			Difficulty:     ClassifyDifficulty(mps),
			Competency:     item.Competency,
		})
	}

	return results, nil
}

// Percentage returns part/whole*100 with the divisor clamped to at least 1.
func Percentage(part, whole int) float64 {
	if whole < 1 {
		whole = 1
	}
	return float64(part) / float64(whole) * 100
}
