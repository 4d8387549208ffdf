package analysis

import (
	"math"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
)

// Summarize counts items per mastery and difficulty band.
func Summarize(meta models.TestMetadata, results []models.ItemAnalysisResult) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		TotalItems:     len(results),
		TestTakers:     meta.TestTakers,
		Interpretation: map[models.Interpretation]int{models.Mastered: 0, models.LeastMastered: 0, models.NotMastered: 0},
		Difficulty:     map[models.Difficulty]int{models.DifficultyEasy: 0, models.DifficultyModerate: 0, models.DifficultyDifficult: 0},
	}
	if len(results) == 0 {
		return summary
	}

	var total float64
	for _, r := range results {
		total += r.MPS
		summary.Interpretation[r.Interpretation]++
		summary.Difficulty[r.Difficulty]++
	}
	summary.MeanMPS = total / float64(len(results))
	return summary
}

// RoundMPS rounds to two decimals for display. Stored values keep full precision.
func RoundMPS(v float64) float64 {
	return math.Round(v*100) / 100
}
