// Package report orchestrates one outcome achievement computation: question
// and component aggregation, tier propagation, cognitive distribution,
// student scoring, coverage diagnostics and the narrative.
//
// The Engine is stateless between calls and safe for concurrent use as long
// as each call gets its own payload. It never mutates the payload and never
// fails: missing evidence shows up as unmeasured outcomes.
package report

import (
	"github.com/okian/accredit/internal/domain/coverage"
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/narrative"
	"github.com/okian/accredit/internal/domain/propagation"
	"github.com/okian/accredit/internal/domain/scoring"
)

// Default settings.
const (
	DefaultMet              = 70.0
	DefaultPartially        = 50.0
	DefaultUnspecifiedLabel = "unspecified"
)

// Engine computes results from payloads.
type Engine struct {
	thresholds  model.Thresholds
	bands       []model.GradeBand
	failRatio   float64
	unspecified string
	narrator    *narrative.Generator
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds sets the thresholds used when a payload carries none.
func WithThresholds(th model.Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = th
	}
}

// WithGradeBands sets the grade bands used when a payload carries none.
func WithGradeBands(bands []model.GradeBand) Option {
	return func(e *Engine) {
		if len(bands) > 0 {
			e.bands = bands
		}
	}
}

// WithFailRatio sets the pass cutoff, as a share of max points, used by the
// per-question diagnostics.
func WithFailRatio(ratio float64) Option {
	return func(e *Engine) {
		e.failRatio = ratio
	}
}

// WithUnspecifiedLabel sets the cognitive bucket for untagged questions. An
// empty label leaves untagged questions out of the distribution.
func WithUnspecifiedLabel(label string) Option {
	return func(e *Engine) {
		e.unspecified = label
	}
}

// WithNarrator replaces the narrative generator.
func WithNarrator(g *narrative.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.narrator = g
		}
	}
}

// New returns an Engine with default thresholds and grade bands.
func New(opts ...Option) *Engine {
	e := &Engine{
		thresholds:  model.Thresholds{Met: DefaultMet, Partially: DefaultPartially},
		bands:       scoring.DefaultGradeBands,
		failRatio:   coverage.DefaultFailRatio,
		unspecified: DefaultUnspecifiedLabel,
		narrator:    narrative.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the thresholds that apply to p.
func (e *Engine) Thresholds(p *model.Payload) model.Thresholds {
	if p != nil && p.Thresholds != nil {
		return *p.Thresholds
	}
	return e.thresholds
}

// Bands returns the grade bands that apply to p.
func (e *Engine) Bands(p *model.Payload) []model.GradeBand {
	if p != nil && len(p.GradeBands) > 0 {
		return p.GradeBands
	}
	return e.bands
}

// Compute runs the whole pipeline over p.
func (e *Engine) Compute(p *model.Payload) *model.Result {
	if p == nil {
		p = &model.Payload{}
	}
	in := Prepare(p)
	th := e.Thresholds(in)
	attending := in.Attending()

	qstats := scoring.Questions(in.Questions, attending, in.Scores)
	cstats := scoring.Components(in.Components, in.Questions, attending, in.Scores)
	overallPct := scoring.Overall(in.Components, cstats)
	overall := model.OverallStat{SuccessPct: overallPct, Status: scoring.Classify(overallPct, th)}

	tiers := propagation.Propagate(propagation.Input{
		Catalog:   in.Catalog,
		Relations: in.Relations,
		Questions: in.Questions,
		Attending: attending,
		Scores:    in.Scores,
	}, th)

	res := &model.Result{
		Course:      in.Course,
		Thresholds:  th,
		Questions:   qstats,
		Components:  cstats,
		Overall:     overall,
		Tiers:       tiers,
		Cognitive:   scoring.Cognitive(in.Questions, qstats, th, e.unspecified),
		Students:    scoring.Students(in, scoring.NewBander(e.Bands(in))),
		Coverage:    coverage.Compute(in.Questions),
		Diagnostics: coverage.Diagnose(in.Questions, attending, in.Scores, e.failRatio),
	}
	res.Narrative = e.narrator.Generate(overall, tiers[model.TierCourse], tiers[model.TierProgram], th)
	return res
}
