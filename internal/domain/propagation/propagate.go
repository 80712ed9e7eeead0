package propagation

import (
	"github.com/okian/accredit/internal/domain/model"
)

// Input is the part of a payload the propagation reads.
type Input struct {
	Catalog   model.Catalog
	Relations model.Relations
	Questions []model.Question
	Attending []model.Student
	Scores    model.ScoreMatrix
}

// Ladders returns the evidence ladder of a tier given the stats of the tiers
// already resolved.
//
//	course:    direct
//	program:   direct, weighted course
//	objective: direct, mean course, mean program
//	national:  pooled course + program
//	sector:    pooled objective + course
func Ladders(tier model.Tier, in Input, done map[model.Tier]map[string]model.TierStat) Ladder {
	direct := func() Strategy {
		return Direct(tier, in.Questions, in.Attending, in.Scores)
	}
	switch tier {
	case model.TierCourse:
		return Ladder{direct()}
	case model.TierProgram:
		return Ladder{
			direct(),
			Weighted(model.SourceCourse, model.TierCourse, done[model.TierCourse], in.Relations.CourseToProgram),
		}
	case model.TierObjective:
		return Ladder{
			direct(),
			Mean(model.SourceCourse, Link{From: model.TierCourse, Stats: done[model.TierCourse], Edges: in.Relations.CourseToObjective}),
			Mean(model.SourceProgram, Link{From: model.TierProgram, Stats: done[model.TierProgram], Edges: in.Relations.ProgramToObjective}),
		}
	case model.TierNational:
		return Ladder{
			Mean(model.SourcePooled,
				Link{From: model.TierCourse, Stats: done[model.TierCourse], Edges: in.Relations.CourseToNational},
				Link{From: model.TierProgram, Stats: done[model.TierProgram], Edges: in.Relations.ProgramToNational},
			),
		}
	case model.TierSector:
		return Ladder{
			Mean(model.SourcePooled,
				Link{From: model.TierObjective, Stats: done[model.TierObjective], Edges: in.Relations.ObjectiveToSector},
				Link{From: model.TierCourse, Stats: done[model.TierCourse], Edges: in.Relations.CourseToSector},
			),
		}
	}
	return nil
}

// Propagate resolves every catalog outcome of every tier in dependency
// order. Relation edges and tags naming ids outside the catalog contribute
// nothing. A repeated definition keeps its last text; empty ids are skipped.
func Propagate(in Input, th model.Thresholds) map[model.Tier]map[string]model.TierStat {
	out := make(map[model.Tier]map[string]model.TierStat, len(model.Tiers))
	for _, tier := range model.Tiers {
		ladder := Ladders(tier, in, out)
		stats := make(map[string]model.TierStat)
		for _, def := range in.Catalog.Definitions(tier) {
			if def.ID == "" {
				continue
			}
			stats[def.ID] = Stat(def, ladder, th)
		}
		out[tier] = stats
	}
	return out
}
