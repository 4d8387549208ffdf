package services

import (
	"sort"
	"strings"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// RestoreState reconciles a stored session with the live directory:
// it re-resolves a missing school id by name, selects the matching class,
// rebuilds an empty roster from that class and picks the tab to open on.
// data is modified in place and returned inside the working state.
func RestoreState(data *models.SessionData, classes []models.Class, schools []models.School, allStudents []models.DirectoryStudent) *WorkingState {
	state := &WorkingState{Session: data, ActiveTab: TabSetup}
	meta := &data.Metadata

	if meta.SchoolID == nil {
		if school, ok := findSchoolByName(schools, meta.School); ok {
			id := school.ID
			meta.SchoolID = &id
		}
	}

	class, ok := findClass(classes, meta)
	if ok {
		state.SelectedClassID = class.ID
		if len(data.Students) == 0 {
			data.Students = rosterFromClass(class, allStudents, meta.TotalItems)
			state.RecoveredRoster = len(data.Students) > 0
		}
	}

	if len(data.AnalysisResults) > 0 {
		state.ActiveTab = TabResults
	}
	return state
}

func findSchoolByName(schools []models.School, name string) (models.School, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.School{}, false
	}
	for _, school := range schools {
		if strings.EqualFold(strings.TrimSpace(school.Name), name) {
			return school, true
		}
	}
	return models.School{}, false
}

func findClass(classes []models.Class, meta *models.TestMetadata) (models.Class, bool) {
	for _, class := range classes {
		if !sameLabel(class.GradeLevel, meta.GradeLevel) || !sameLabel(class.Section, meta.Section) {
			continue
		}
		if meta.SchoolID != nil && *meta.SchoolID != "" && class.SchoolID != "" && class.SchoolID != *meta.SchoolID {
			continue
		}
		return class, true
	}
	return models.Class{}, false
}

func sameLabel(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// rosterFromClass builds blank students for every roster entry found in
// the directory, ordered by display name. Unknown ids are skipped.
func rosterFromClass(class models.Class, allStudents []models.DirectoryStudent, totalItems int) []*models.Student {
	byLink := make(map[string]models.DirectoryStudent, len(allStudents)*2)
	for _, ds := range allStudents {
		byLink[ds.ID] = ds
	}
	for _, ds := range allStudents {
		if ds.AccountID != "" {
			byLink[ds.AccountID] = ds
		}
	}

	seen := make(map[string]bool, len(class.StudentIDs))
	roster := make([]*models.Student, 0, len(class.StudentIDs))
	for _, linkID := range class.StudentIDs {
		ds, ok := byLink[linkID]
		if !ok || seen[ds.ID] {
			continue
		}
		seen[ds.ID] = true

		roster = append(roster, &models.Student{
			ID:              ds.ID,
			Name:            ds.Name,
			StudentAnswers:  make([]string, max(totalItems, 0)),
			Responses:       make([]int, max(totalItems, 0)),
			ProgressHistory: []models.ProgressRecord{},
		})
	}

	sort.SliceStable(roster, func(i, j int) bool {
		return strings.ToLower(roster[i].Name) < strings.ToLower(roster[j].Name)
	})
	return roster
}
