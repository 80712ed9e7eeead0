// Package scoring aggregates raw exam scores into question, component,
// cognitive-level and student statistics.
//
// Every function here is pure: the payload is read, never mutated, and
// divisions by zero resolve to 0.
package scoring

import (
	"github.com/okian/accredit/internal/domain/model"
)

// pctScale converts a ratio to a percentage.
const pctScale = 100

// SafeDiv returns num/den, or 0 when den is zero.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// NormalizePct scales a ratio in [0,1] to 0..100. Values above 1 are taken
// to be percentages already and returned unchanged.
func NormalizePct(x float64) float64 {
	if x <= 1 {
		return x * pctScale
	}
	return x
}

// Percent returns num/den as a percentage, guarded against den == 0.
func Percent(num, den float64) float64 {
	return NormalizePct(SafeDiv(num, den))
}

// Mean returns the arithmetic mean of vals, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Classify maps a measured percentage to its status.
func Classify(pct float64, th model.Thresholds) model.Status {
	switch {
	case pct >= th.Met:
		return model.StatusMet
	case pct >= th.Partially:
		return model.StatusPartial
	default:
		return model.StatusNotMet
	}
}

// ClassTotals returns the mean over students of each student's summed score
// on questions, and the summed max points of those questions.
func ClassTotals(questions []model.Question, students []model.Student, scores model.ScoreMatrix) (avgPoints, maxPoints float64) {
	for _, q := range questions {
		maxPoints += q.MaxPoints
	}
	if len(students) == 0 {
		return 0, maxPoints
	}
	var sum float64
	for _, s := range students {
		sum += StudentTotal(questions, s.ID, scores)
	}
	return sum / float64(len(students)), maxPoints
}

// StudentTotal sums one student's score across questions.
func StudentTotal(questions []model.Question, studentID string, scores model.ScoreMatrix) float64 {
	var total float64
	for _, q := range questions {
		total += scores.Score(studentID, q.ID)
	}
	return total
}
