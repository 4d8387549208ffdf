package models

// Item is one exam item. Index is 0-based; the printed item number is Index+1.
type Item struct {
	Index      int    `json:"index"`
	Key        string `json:"key"`
	Competency string `json:"competency"`
}

// Number returns the 1-based item number used in reports
func (i Item) Number() int {
	return i.Index + 1
}

// TestMetadata identifies one assessment instance.
// AnswerKey and Competencies are positional: entry i belongs to item i.
type TestMetadata struct {
	SchoolID     *string  `json:"schoolId,omitempty"`
	School       string   `json:"school"`
	GradeLevel   string   `json:"gradeLevel" validate:"omitempty,grade_level"`
	Section      string   `json:"section"`
	Subject      string   `json:"subject"`
	ExamTitle    string   `json:"examTitle"`
	Quarter      string   `json:"quarter"`
	SchoolYear   string   `json:"schoolYear"`
	TotalItems   int      `json:"totalItems" validate:"min=0,max=500"`
	TestTakers   int      `json:"testTakers"`
	AnswerKey    []string `json:"answerKey" validate:"dive,answer_letter"`
	Competencies []string `json:"competencies,omitempty"`
}

// Resize sets TotalItems and pads or truncates AnswerKey and Competencies to match.
func (m *TestMetadata) Resize(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	m.TotalItems = totalItems
	m.AnswerKey = resizeStrings(m.AnswerKey, totalItems)
	if m.Competencies != nil {
		m.Competencies = resizeStrings(m.Competencies, totalItems)
	}
}

// Items joins the positional key and competency arrays into Item values.
func (m *TestMetadata) Items() []Item {
	items := make([]Item, m.TotalItems)
	for i := range items {
		items[i] = m.ItemAt(i)
	}
	return items
}

// ItemAt returns item i; missing key or competency entries read as "".
func (m *TestMetadata) ItemAt(i int) Item {
	item := Item{Index: i}
	if i < len(m.AnswerKey) {
		item.Key = m.AnswerKey[i]
	}
	if i < len(m.Competencies) {
		item.Competency = m.Competencies[i]
	}
	return item
}

// StudentResponse is one cell of the answer grid.
type StudentResponse struct {
	ItemIndex int    `json:"itemIndex"`
	Submitted string `json:"submitted"`
	Correct   bool   `json:"correct"`
}

func resizeStrings(values []string, n int) []string {
	if len(values) == n {
		return values
	}
	if len(values) > n {
		return values[:n:n]
	}
	out := make([]string, n)
	copy(out, values)
	return out
}

func resizeInts(values []int, n int) []int {
	if len(values) == n {
		return values
	}
	if len(values) > n {
		return values[:n:n]
	}
	out := make([]int, n)
	copy(out, values)
	return out
}
