// Package coverage counts how the question ledger spreads over outcome and
// cognitive tags, and classifies questions as passed or failed per student.
package coverage

import (
	"sort"
	"strings"

	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/scoring"
)

// DefaultFailRatio is the share of max points a student needs to pass a
// question when no ratio is configured.
const DefaultFailRatio = 0.5

// Compute counts, per tier and for cognitive tags, how many questions
// reference each id. Tags naming ids outside the catalog are counted as
// given. A tag repeated within one question counts once.
func Compute(questions []model.Question) model.Coverage {
	cov := model.Coverage{
		TotalQuestions: len(questions),
		Tiers:          make(map[model.Tier][]model.CoverageEntry, len(model.Tiers)),
	}
	for _, tier := range model.Tiers {
		counts := make(map[string]int)
		for _, q := range questions {
			for id := range unique(q.Tags.For(tier)) {
				counts[id]++
			}
		}
		cov.Tiers[tier] = entries(counts, len(questions))
	}
	counts := make(map[string]int)
	for _, q := range questions {
		for tag := range unique(q.Cognitive) {
			counts[tag]++
		}
	}
	cov.Cognitive = entries(counts, len(questions))
	return cov
}

// Diagnose classifies every question per attending student: a score at or
// above ratio*max passes. A ratio outside (0,1] falls back to
// DefaultFailRatio. Questions at least one student failed are pooled into a
// second coverage pass.
func Diagnose(questions []model.Question, attending []model.Student, scores model.ScoreMatrix, ratio float64) model.Diagnostics {
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultFailRatio
	}
	out := model.Diagnostics{
		FailRatio: ratio,
		Questions: make([]model.QuestionOutcome, 0, len(questions)),
	}
	failing := make([]model.Question, 0)
	n := float64(len(attending))
	for _, q := range questions {
		cutoff := ratio * q.MaxPoints
		qo := model.QuestionOutcome{QuestionID: q.ID, MaxPoints: q.MaxPoints}
		var sum float64
		for _, s := range attending {
			v := scores.Score(s.ID, q.ID)
			sum += v
			if v >= cutoff {
				qo.Passed++
			} else {
				qo.Failed++
			}
		}
		qo.PassPct = scoring.Percent(float64(qo.Passed), n)
		qo.FailPct = scoring.Percent(float64(qo.Failed), n)
		qo.AvgScore = scoring.SafeDiv(sum, n)
		out.Questions = append(out.Questions, qo)
		if qo.Failed > 0 {
			failing = append(failing, q)
		}
	}
	out.FailingCoverage = Compute(failing)
	return out
}

func unique(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// entries converts counts into entries sorted by count desc then id. Share
// renormalizes the counts so the category sums to 100.
func entries(counts map[string]int, total int) []model.CoverageEntry {
	var refs int
	for _, c := range counts {
		refs += c
	}
	out := make([]model.CoverageEntry, 0, len(counts))
	for id, c := range counts {
		out = append(out, model.CoverageEntry{
			ID:             id,
			Questions:      c,
			PctOfQuestions: scoring.Percent(float64(c), float64(total)),
			Share:          scoring.Percent(float64(c), float64(refs)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Questions != out[j].Questions {
			return out[i].Questions > out[j].Questions
		}
		return out[i].ID < out[j].ID
	})
	return out
}
