package models

type Interpretation string

const (
	Mastered      Interpretation = "Mastered"
	LeastMastered Interpretation = "Least Mastered"
	NotMastered   Interpretation = "Not Mastered"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "Easy"
	DifficultyModerate  Difficulty = "Moderate"
	DifficultyDifficult Difficulty = "Difficult"
)

// ItemAnalysisResult is one row of an item analysis, recomputed in full on every run.
type ItemAnalysisResult struct {
	ItemNumber     int            `json:"itemNumber"`
	TotalCorrect   int            `json:"totalCorrect"`
	MPS            float64        `json:"mps"`
	Interpretation Interpretation `json:"interpretation"`
	Difficulty     Difficulty     `json:"difficulty"`
	Competency     string         `json:"competency"`
}

type AnalysisSummary struct {
	TotalItems     int                    `json:"totalItems"`
	TestTakers     int                    `json:"testTakers"`
	MeanMPS        float64                `json:"meanMps"`
	Interpretation map[Interpretation]int `json:"interpretation"`
	Difficulty     map[Difficulty]int     `json:"difficulty"`
}
