package scoring

import (
	"github.com/okian/accredit/internal/domain/model"
)

// Questions computes the class average and success percentage of every
// question over the attending students.
func Questions(questions []model.Question, attending []model.Student, scores model.ScoreMatrix) map[string]model.QuestionStat {
	out := make(map[string]model.QuestionStat, len(questions))
	for _, q := range questions {
		vals := make([]float64, 0, len(attending))
		for _, s := range attending {
			vals = append(vals, scores.Score(s.ID, q.ID))
		}
		avg := Mean(vals)
		out[q.ID] = model.QuestionStat{
			ComponentID:    q.ComponentID,
			AvgPoints:      avg,
			MaxPoints:      q.MaxPoints,
			SuccessPct:     Percent(avg, q.MaxPoints),
			CourseOutcomes: q.Tags.Course,
			Cognitive:      q.Cognitive,
		}
	}
	return out
}

// ByComponent groups questions by component id, keeping ledger order.
func ByComponent(questions []model.Question) map[string][]model.Question {
	out := make(map[string][]model.Question)
	for _, q := range questions {
		out[q.ComponentID] = append(out[q.ComponentID], q)
	}
	return out
}

// Components computes point-weighted stats per assessment component: the
// class average of each student's component total over the component's
// summed max points. Longer questions weigh proportionally more.
func Components(components []model.AssessmentComponent, questions []model.Question, attending []model.Student, scores model.ScoreMatrix) map[string]model.ComponentStat {
	grouped := ByComponent(questions)
	out := make(map[string]model.ComponentStat, len(components))
	for _, c := range components {
		members := grouped[c.ID]
		avg, maxPts := ClassTotals(members, attending, scores)
		ids := make([]string, 0, len(members))
		for _, q := range members {
			ids = append(ids, q.ID)
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		out[c.ID] = model.ComponentStat{
			Name:       name,
			Weight:     c.Weight,
			AvgPoints:  avg,
			MaxPoints:  maxPts,
			SuccessPct: Percent(avg, maxPts),
			Questions:  ids,
		}
	}
	return out
}

// TotalWeight sums the component weights.
func TotalWeight(components []model.AssessmentComponent) float64 {
	var total float64
	for _, c := range components {
		total += c.Weight
	}
	return total
}

// Overall combines component success percentages by their normalized
// weights. A zero weight sum leaves the overall at 0.
func Overall(components []model.AssessmentComponent, stats map[string]model.ComponentStat) float64 {
	total := TotalWeight(components)
	if total == 0 {
		return 0
	}
	var overall float64
	for _, c := range components {
		overall += stats[c.ID].SuccessPct * (c.Weight / total)
	}
	return overall
}
