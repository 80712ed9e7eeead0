// Package model contains the payload and result records passed between layers.
//
// Every optional field has a documented zero value: empty tag slices mean
// "untagged at this tier", a nil Thresholds means "use the engine defaults",
// and an empty GradeBands slice means "use the engine default bands".
package model

// Tier names one level of the outcome hierarchy.
type Tier string

// Outcome tiers, leaf first.
const (
	TierCourse    Tier = "course_outcomes"
	TierProgram   Tier = "program_outcomes"
	TierObjective Tier = "objectives"
	TierNational  Tier = "national_framework"
	TierSector    Tier = "sector_standard"
)

// Tiers lists every tier in dependency order.
var Tiers = []Tier{TierCourse, TierProgram, TierObjective, TierNational, TierSector}

// CourseInfo identifies the course offering a report belongs to.
type CourseInfo struct {
	Code       string `json:"code,omitempty"`
	Name       string `json:"name,omitempty"`
	Program    string `json:"program,omitempty"`
	Term       string `json:"term,omitempty"`
	Instructor string `json:"instructor,omitempty"`
}

// OutcomeDefinition is one catalog entry at any tier.
type OutcomeDefinition struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Catalog holds the outcome definitions of all five tiers.
type Catalog struct {
	CourseOutcomes    []OutcomeDefinition `json:"course_outcomes"`
	ProgramOutcomes   []OutcomeDefinition `json:"program_outcomes"`
	Objectives        []OutcomeDefinition `json:"objectives"`
	NationalFramework []OutcomeDefinition `json:"national_framework"`
	SectorStandard    []OutcomeDefinition `json:"sector_standard"`
}

// Definitions returns the catalog entries of a tier.
func (c Catalog) Definitions(t Tier) []OutcomeDefinition {
	switch t {
	case TierCourse:
		return c.CourseOutcomes
	case TierProgram:
		return c.ProgramOutcomes
	case TierObjective:
		return c.Objectives
	case TierNational:
		return c.NationalFramework
	case TierSector:
		return c.SectorStandard
	}
	return nil
}

// WeightedEdge links a course outcome to a program outcome with an integer
// contribution weight. Edges with a non-positive weight carry no evidence.
type WeightedEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Edge is an unweighted link from a lower-tier outcome to an upper-tier one.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Relations holds every inter-tier relation map. Sources are always the
// lower tier; targets the upper tier.
type Relations struct {
	CourseToProgram    []WeightedEdge `json:"course_to_program"`
	CourseToObjective  []Edge         `json:"course_to_objective"`
	ProgramToObjective []Edge         `json:"program_to_objective"`
	CourseToNational   []Edge         `json:"course_to_national"`
	ProgramToNational  []Edge         `json:"program_to_national"`
	ObjectiveToSector  []Edge         `json:"objective_to_sector"`
	CourseToSector     []Edge         `json:"course_to_sector"`
}

// AssessmentComponent is a graded part of the course such as a midterm.
// Weights need not sum to one; they are renormalized by their sum.
type AssessmentComponent struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// OutcomeTags lists the outcome ids a question is tagged with, per tier.
type OutcomeTags struct {
	Course    []string `json:"course,omitempty"`
	Program   []string `json:"program,omitempty"`
	Objective []string `json:"objective,omitempty"`
	National  []string `json:"national,omitempty"`
	Sector    []string `json:"sector,omitempty"`
}

// For returns the tags at a tier.
func (t OutcomeTags) For(tier Tier) []string {
	switch tier {
	case TierCourse:
		return t.Course
	case TierProgram:
		return t.Program
	case TierObjective:
		return t.Objective
	case TierNational:
		return t.National
	case TierSector:
		return t.Sector
	}
	return nil
}

// Has reports whether the question is tagged with id at the tier.
func (t OutcomeTags) Has(tier Tier, id string) bool {
	for _, tag := range t.For(tier) {
		if tag == id {
			return true
		}
	}
	return false
}

// Question is one exam item.
type Question struct {
	ID          string      `json:"id"`
	ComponentID string      `json:"component_id"`
	Text        string      `json:"text,omitempty"`
	Tags        OutcomeTags `json:"tags"`
	Cognitive   []string    `json:"cognitive,omitempty"`
	MaxPoints   float64     `json:"max_points"`
}

// Student is one roster entry. Absent students did not sit the exam.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Absent bool   `json:"absent,omitempty"`
}

// ScoreMatrix maps student id -> question id -> earned points.
type ScoreMatrix map[string]map[string]float64

// Score returns the points a student earned on a question; missing is zero.
func (m ScoreMatrix) Score(studentID, questionID string) float64 {
	return m[studentID][questionID]
}

// Thresholds are the achievement percentages for Met and Partial.
type Thresholds struct {
	Met       float64 `json:"met"`
	Partially float64 `json:"partially"`
}

// GradeBand maps a letter grade to its lower cutoff percentage.
type GradeBand struct {
	Letter string  `json:"letter"`
	Cutoff float64 `json:"cutoff"`
}

// Payload is the structured input of one report computation.
type Payload struct {
	Course     CourseInfo            `json:"course"`
	Catalog    Catalog               `json:"catalog"`
	Relations  Relations             `json:"relations"`
	Components []AssessmentComponent `json:"components,omitempty"`
	Questions  []Question            `json:"questions"`
	Students   []Student             `json:"students"`
	Scores     ScoreMatrix           `json:"scores"`
	Thresholds *Thresholds           `json:"thresholds,omitempty"`
	GradeBands []GradeBand           `json:"grade_bands,omitempty"`
}

// Attending returns the students who sat the exam, in roster order.
func (p *Payload) Attending() []Student {
	out := make([]Student, 0, len(p.Students))
	for _, s := range p.Students {
		if !s.Absent {
			out = append(out, s)
		}
	}
	return out
}
