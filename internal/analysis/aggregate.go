package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

const UnknownSchool = "Unknown School"

type schoolAccumulator struct {
	data     models.SchoolData
	correct  int
	possible int
}

type itemAccumulator struct {
	correct   int
	responses int
}

// Aggregate folds sessions of the same grade, subject and exam into one report.
//
// Schools are grouped by display name, not id. All averages are weighted by
// population: a school's MPS is its total correct over its total possible,
// and OverallMPS is the sum of correct responses over all responses.
// Competency labels come from the first session only.
func Aggregate(sessions []*models.SessionData) (*models.ConsolidatedData, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	first := sessions[0]
	totalItems := first.Metadata.TotalItems
	for n, s := range sessions[1:] {
		if s.Metadata.TotalItems != totalItems {
			return nil, fmt.Errorf("%w: session %d has %d items, expected %d",
				ErrMixedItemCounts, n+2, s.Metadata.TotalItems, totalItems)
		}
	}

	report := &models.ConsolidatedData{
		GradeLevel:   first.Metadata.GradeLevel,
		Subject:      first.Metadata.Subject,
		ExamTitle:    first.Metadata.ExamTitle,
		Schools:      []models.SchoolData{},
		Competencies: make([]models.CompetencyRollup, 0, totalItems),
	}

	var order []string
	schools := make(map[string]*schoolAccumulator)
	items := make([]itemAccumulator, totalItems)

	for _, session := range sessions {
		name := strings.TrimSpace(session.Metadata.School)
		if name == "" {
			name = UnknownSchool
		}
		acc, ok := schools[name]
		if !ok {
			acc = &schoolAccumulator{data: models.SchoolData{Name: name, Sections: []models.SectionData{}}}
			schools[name] = acc
			order = append(order, name)
		}

		studentCount := 0
		sectionCorrect := 0
		for _, student := range session.Students {
			if student == nil {
				continue
			}
			studentCount++
			for i := 0; i < totalItems; i++ {
				items[i].responses++
				if i < len(student.Responses) && student.Responses[i] == 1 {
					items[i].correct++
					sectionCorrect++
				}
			}
		}
		sectionPossible := studentCount * totalItems

		acc.data.Sections = append(acc.data.Sections, models.SectionData{
			Name:         session.Metadata.Section,
			MPS:          ratio(sectionCorrect, sectionPossible),
			StudentCount: studentCount,
		})
		acc.data.TotalSections++
		acc.data.TotalStudents += studentCount
		acc.correct += sectionCorrect
		acc.possible += sectionPossible

		report.TotalSections++
		report.TotalStudents += studentCount
	}

	for _, name := range order {
		acc := schools[name]
		acc.data.MPS = ratio(acc.correct, acc.possible)
		report.Schools = append(report.Schools, acc.data)
	}
	sort.SliceStable(report.Schools, func(i, j int) bool {
		return report.Schools[i].MPS > report.Schools[j].MPS
	})

	var allCorrect, allResponses int
	for i, acc := range items {
		mps := ratio(acc.correct, acc.responses)
		report.Competencies = append(report.Competencies, models.CompetencyRollup{
			ItemNumber:     i + 1,
			Competency:     first.Metadata.ItemAt(i).Competency,
			TotalCorrect:   acc.correct,
			TotalResponses: acc.responses,
			MPS:            mps,
			Interpretation: Interpret(mps),
		})
		allCorrect += acc.correct
		allResponses += acc.responses
	}
	report.OverallMPS = ratio(allCorrect, allResponses)

	return report, nil
}

// ratio is part/whole*100, or 0 when whole is 0.
func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
