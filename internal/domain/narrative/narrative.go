// Package narrative turns finished tier stats into a short textual digest
// with canned remediation suggestions.
package narrative

import (
	"fmt"
	"sort"

	"github.com/okian/accredit/internal/domain/model"
)

const (
	defaultLimit = 2

	// DefaultLowTemplate is used for outcomes below the partially threshold.
	DefaultLowTemplate = "%s is low: add more higher-order activities and questions, and schedule worked-solution sessions."
	// DefaultPartialTemplate is used for outcomes at or above the partially threshold.
	DefaultPartialTemplate = "%s is partially achieved: add practice and reinforcement activities, and diversify the assessment instruments."
)

// Generator builds narratives.
type Generator struct {
	limit   int
	low     string
	partial string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLimit sets how many of the weakest outcomes get a suggestion.
func WithLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithTemplates replaces the suggestion templates. Each takes the outcome id
// as its single %s verb; empty templates keep the defaults.
func WithTemplates(low, partial string) Option {
	return func(g *Generator) {
		if low != "" {
			g.low = low
		}
		if partial != "" {
			g.partial = partial
		}
	}
}

// New returns a Generator with the default limit and templates.
func New(opts ...Option) *Generator {
	g := &Generator{
		limit:   defaultLimit,
		low:     DefaultLowTemplate,
		partial: DefaultPartialTemplate,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate summarizes measured course and program outcomes and suggests
// remediation for the weakest measured course outcomes.
func (g *Generator) Generate(overall model.OverallStat, course, program map[string]model.TierStat, th model.Thresholds) model.Narrative {
	n := model.Narrative{
		Overall:         overall,
		CourseOutcomes:  summarize(course),
		ProgramOutcomes: summarize(program),
		Suggestions:     []string{},
	}

	weakest := make([]model.OutcomeSummary, len(n.CourseOutcomes))
	copy(weakest, n.CourseOutcomes)
	sort.SliceStable(weakest, func(i, j int) bool {
		if weakest[i].Pct != weakest[j].Pct {
			return weakest[i].Pct < weakest[j].Pct
		}
		return weakest[i].ID < weakest[j].ID
	})
	if len(weakest) > g.limit {
		weakest = weakest[:g.limit]
	}
	n.Weakest = weakest

	for _, w := range weakest {
		tmpl := g.partial
		if w.Pct < th.Partially {
			tmpl = g.low
		}
		n.Suggestions = append(n.Suggestions, fmt.Sprintf(tmpl, w.ID))
	}
	return n
}

// summarize lists measured outcomes ordered by id.
func summarize(stats map[string]model.TierStat) []model.OutcomeSummary {
	out := make([]model.OutcomeSummary, 0, len(stats))
	for id, st := range stats {
		if !st.Measured {
			continue
		}
		out = append(out, model.OutcomeSummary{ID: id, Pct: st.AchievedPct, Status: st.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
