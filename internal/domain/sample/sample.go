// Package sample builds a deterministic demo payload: a data structures
// course with a midterm and a final, five questions and thirty students
// whose scores make the first course outcome strong, the second average and
// the third weak.
package sample

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/accredit/internal/domain/model"
)

// DefaultSeed reproduces the reference demo.
const DefaultSeed = 42

const (
	studentCount = 30
	midtermID    = "C1"
	finalID      = "C2"
)

// scoreRange is the inclusive band a question's demo scores are drawn from.
type scoreRange struct {
	min, max int
}

var questionRanges = []struct {
	id string
	r  scoreRange
}{
	{"Q1", scoreRange{7, 10}},
	{"Q2", scoreRange{6, 10}},
	{"Q3", scoreRange{10, 18}},
	{"Q4", scoreRange{6, 15}},
	{"Q5", scoreRange{3, 12}},
}

// Build returns the demo payload for seed. The same seed always yields the
// same payload.
func Build(seed uint64) *model.Payload {
	rng := rand.New(rand.NewPCG(seed, seed))

	p := &model.Payload{
		Course: model.CourseInfo{
			Code:       "CS203",
			Name:       "Data Structures",
			Program:    "Computer Engineering",
			Term:       "2024-2025 Fall",
			Instructor: "Sample Instructor",
		},
		Catalog: model.Catalog{
			CourseOutcomes: []model.OutcomeDefinition{
				{ID: "CO1", Text: "Explains the fundamental data structures."},
				{ID: "CO2", Text: "Applies algorithms on data structures."},
				{ID: "CO3", Text: "Analyzes algorithm efficiency."},
			},
			ProgramOutcomes: []model.OutcomeDefinition{
				{ID: "PO1", Text: "Fundamental engineering knowledge."},
				{ID: "PO2", Text: "Algorithmic problem solving."},
				{ID: "PO3", Text: "Analytical thinking."},
			},
			Objectives: []model.OutcomeDefinition{
				{ID: "PEO1", Text: "Graduates who take active roles in the software industry."},
				{ID: "PEO2", Text: "Engineers who think analytically."},
			},
		},
		Relations: model.Relations{
			CourseToProgram: []model.WeightedEdge{
				{Source: "CO1", Target: "PO1", Weight: 2},
				{Source: "CO1", Target: "PO2", Weight: 1},
				{Source: "CO2", Target: "PO2", Weight: 3},
				{Source: "CO2", Target: "PO3", Weight: 2},
				{Source: "CO3", Target: "PO2", Weight: 1},
				{Source: "CO3", Target: "PO3", Weight: 3},
			},
			ProgramToObjective: []model.Edge{
				{Source: "PO1", Target: "PEO1"},
				{Source: "PO2", Target: "PEO1"},
				{Source: "PO2", Target: "PEO2"},
				{Source: "PO3", Target: "PEO2"},
			},
		},
		Components: []model.AssessmentComponent{
			{ID: midtermID, Name: "Midterm", Weight: 0.4},
			{ID: finalID, Name: "Final", Weight: 0.6},
		},
		Questions: []model.Question{
			question("Q1", midtermID, "What is a stack? Explain briefly.", "CO1", "knowledge", 10),
			question("Q2", midtermID, "Give a use case for a queue.", "CO1", "comprehension", 10),
			question("Q3", finalID, "Implement insertion on a linked list.", "CO2", "application", 20),
			question("Q4", finalID, "Analyze hash collisions.", "CO2", "analysis", 20),
			question("Q5", finalID, "Compare and interpret algorithm complexities.", "CO3", "evaluation", 20),
		},
		Thresholds: &model.Thresholds{Met: 70, Partially: 50},
		GradeBands: []model.GradeBand{
			{Letter: "A", Cutoff: 90},
			{Letter: "B", Cutoff: 80},
			{Letter: "C", Cutoff: 70},
			{Letter: "D", Cutoff: 60},
			{Letter: "F", Cutoff: 0},
		},
		Scores: make(model.ScoreMatrix, studentCount),
	}

	for i := 1; i <= studentCount; i++ {
		id := fmt.Sprintf("S%02d", i)
		p.Students = append(p.Students, model.Student{ID: id, Name: fmt.Sprintf("Student %02d", i)})
		row := make(map[string]float64, len(questionRanges))
		for _, qr := range questionRanges {
			row[qr.id] = float64(qr.r.min + rng.IntN(qr.r.max-qr.r.min+1))
		}
		p.Scores[id] = row
	}
	return p
}

func question(id, component, text, outcome, cognitive string, maxPoints float64) model.Question {
	return model.Question{
		ID:          id,
		ComponentID: component,
		Text:        text,
		Tags:        model.OutcomeTags{Course: []string{outcome}},
		Cognitive:   []string{cognitive},
		MaxPoints:   maxPoints,
	}
}
