package models

// Student is one test-taker within a session.
// Responses is derived by the analysis engine and must not be edited by hand.
type Student struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	StudentAnswers  []string         `json:"studentAnswers" validate:"dive,answer_letter"`
	Responses       []int            `json:"responses"`
	Feedback        string           `json:"feedback"`
	ProgressHistory []ProgressRecord `json:"progressHistory"`
}

// ResizeAnswers pads or truncates the answer and response vectors to n items.
func (s *Student) ResizeAnswers(n int) {
	if n < 0 {
		n = 0
	}
	s.StudentAnswers = resizeStrings(s.StudentAnswers, n)
	s.Responses = resizeInts(s.Responses, n)
}

// Score is the number of items currently marked correct
func (s *Student) Score() int {
	total := 0
	for _, r := range s.Responses {
		total += r
	}
	return total
}

// Grid returns the student's row of the answer grid for the given items.
func (s *Student) Grid(items []Item) []StudentResponse {
	grid := make([]StudentResponse, len(items))
	for n, item := range items {
		cell := StudentResponse{ItemIndex: item.Index}
		if item.Index < len(s.StudentAnswers) {
			cell.Submitted = s.StudentAnswers[item.Index]
		}
		if item.Index < len(s.Responses) {
			cell.Correct = s.Responses[item.Index] == 1
		}
		grid[n] = cell
	}
	return grid
}
