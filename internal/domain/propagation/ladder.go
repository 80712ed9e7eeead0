// Package propagation resolves the achievement of every outcome across the
// five tiers of the hierarchy.
//
// Each tier owns a Ladder: an ordered list of evidence strategies. The first
// strategy that yields evidence decides both the percentage and the source;
// when none does the outcome is reported as not measured. Only measured
// lower-tier outcomes ever feed an upper tier.
package propagation

import (
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/scoring"
)

// Evidence is what a strategy found for one outcome.
type Evidence struct {
	Pct           float64
	Source        model.EvidenceSource
	QuestionIDs   []string
	AvgPoints     float64
	MaxPoints     float64
	Contributions []model.Contribution
}

// Strategy resolves evidence for an outcome id. ok is false when the
// strategy has nothing to say about the id.
type Strategy interface {
	Resolve(id string) (ev Evidence, ok bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(id string) (Evidence, bool)

// Resolve calls f(id).
func (f StrategyFunc) Resolve(id string) (Evidence, bool) {
	return f(id)
}

// Ladder tries strategies in order and keeps the first hit.
type Ladder []Strategy

// Resolve implements Strategy.
func (l Ladder) Resolve(id string) (Evidence, bool) {
	for _, s := range l {
		if s == nil {
			continue
		}
		if ev, ok := s.Resolve(id); ok {
			return ev, true
		}
	}
	return Evidence{}, false
}

// Stat resolves def through the ladder and classifies the result.
func Stat(def model.OutcomeDefinition, ladder Ladder, th model.Thresholds) model.TierStat {
	ev, ok := ladder.Resolve(def.ID)
	if !ok {
		return model.TierStat{
			Text:   def.Text,
			Status: model.StatusNotMeasured,
			Source: model.SourceNone,
		}
	}
	return model.TierStat{
		Text:          def.Text,
		AchievedPct:   ev.Pct,
		Measured:      true,
		Status:        scoring.Classify(ev.Pct, th),
		Source:        ev.Source,
		QuestionIDs:   ev.QuestionIDs,
		AvgPoints:     ev.AvgPoints,
		MaxPoints:     ev.MaxPoints,
		Contributions: ev.Contributions,
	}
}
