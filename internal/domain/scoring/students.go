package scoring

import (
	"sort"

	"github.com/okian/accredit/internal/domain/model"
)

// DefaultGradeBands is the letter scale used when neither the payload nor
// the configuration supplies one.
var DefaultGradeBands = []model.GradeBand{
	{Letter: "A", Cutoff: 90},
	{Letter: "B", Cutoff: 80},
	{Letter: "C", Cutoff: 70},
	{Letter: "D", Cutoff: 60},
	{Letter: "F", Cutoff: 0},
}

// Bander assigns letter grades from cutoffs.
type Bander struct {
	bands []model.GradeBand // sorted by cutoff desc
}

// NewBander copies and orders bands from the highest cutoff to the lowest.
func NewBander(bands []model.GradeBand) *Bander {
	sorted := make([]model.GradeBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cutoff > sorted[j].Cutoff
	})
	return &Bander{bands: sorted}
}

// Grade returns the first band whose cutoff pct meets, or the lowest band
// when none does. Without bands it returns "".
func (b *Bander) Grade(pct float64) string {
	if len(b.bands) == 0 {
		return ""
	}
	for _, band := range b.bands {
		if pct >= band.Cutoff {
			return band.Letter
		}
	}
	return b.bands[len(b.bands)-1].Letter
}

// Bands returns the ordered bands.
func (b *Bander) Bands() []model.GradeBand {
	return b.bands
}

// Weighted reports whether student totals can use component weights: some
// component must hold a positive share of the total weight and some
// question must belong to a known component.
func Weighted(components []model.AssessmentComponent, questions []model.Question) bool {
	total := TotalWeight(components)
	if total == 0 {
		return false
	}
	known := make(map[string]struct{}, len(components))
	positive := false
	for _, c := range components {
		known[c.ID] = struct{}{}
		if c.Weight/total > 0 {
			positive = true
		}
	}
	if !positive {
		return false
	}
	for _, q := range questions {
		if _, ok := known[q.ComponentID]; ok {
			return true
		}
	}
	return false
}

// StudentPct returns one student's course percentage, weighted by component
// when weighted is true and as a plain point ratio otherwise.
func StudentPct(studentID string, components []model.AssessmentComponent, grouped map[string][]model.Question, questions []model.Question, scores model.ScoreMatrix, weighted bool) float64 {
	if !weighted {
		var got, maxPts float64
		for _, q := range questions {
			got += scores.Score(studentID, q.ID)
			maxPts += q.MaxPoints
		}
		return Percent(got, maxPts)
	}
	total := TotalWeight(components)
	var pct float64
	for _, c := range components {
		var got, maxPts float64
		for _, q := range grouped[c.ID] {
			got += scores.Score(studentID, q.ID)
			maxPts += q.MaxPoints
		}
		pct += Percent(got, maxPts) * (c.Weight / total)
	}
	return pct
}

// Students scores the roster. Attending students are sorted by descending
// percentage and ranked; ties share the best rank. Absent students follow in
// roster order with the AbsentGrade marker and take no part in rank,
// percentile or class average.
func Students(p *model.Payload, bander *Bander) model.Roster {
	weighted := Weighted(p.Components, p.Questions)
	grouped := ByComponent(p.Questions)

	var maxScore float64
	for _, q := range p.Questions {
		maxScore += q.MaxPoints
	}

	attending := make([]model.StudentResult, 0, len(p.Students))
	absent := make([]model.StudentResult, 0)
	for _, s := range p.Students {
		r := model.StudentResult{
			ID:       s.ID,
			Name:     s.Name,
			MaxScore: maxScore,
			Absent:   s.Absent,
		}
		if s.Absent {
			r.Grade = model.AbsentGrade
			absent = append(absent, r)
			continue
		}
		r.TotalScore = StudentTotal(p.Questions, s.ID, p.Scores)
		r.Pct = StudentPct(s.ID, p.Components, grouped, p.Questions, p.Scores, weighted)
		r.Grade = bander.Grade(r.Pct)
		attending = append(attending, r)
	}

	sort.SliceStable(attending, func(i, j int) bool {
		if attending[i].Pct != attending[j].Pct {
			return attending[i].Pct > attending[j].Pct
		}
		return attending[i].ID < attending[j].ID
	})

	pcts := make([]float64, len(attending))
	for i, r := range attending {
		pcts[i] = r.Pct
	}
	classAvg := Mean(pcts)

	dist := make(map[string]int)
	n := float64(len(attending))
	for i := range attending {
		rank := i + 1
		if i > 0 && attending[i].Pct == attending[i-1].Pct {
			rank = attending[i-1].Rank
		}
		attending[i].Rank = rank
		attending[i].Percentile = pctScale - float64(rank)/n*pctScale
		attending[i].DiffFromClass = attending[i].Pct - classAvg
		if attending[i].Grade != "" {
			dist[attending[i].Grade]++
		}
	}

	return model.Roster{
		Results:           append(attending, absent...),
		GradeDistribution: dist,
		ClassAverage:      classAvg,
		Weighted:          weighted,
		Attending:         len(attending),
		Absent:            len(absent),
		Total:             len(p.Students),
	}
}
