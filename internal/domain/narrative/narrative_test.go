package narrative_test

import (
	"testing"

	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	th := model.Thresholds{Met: 70, Partially: 50}
	overall := model.OverallStat{SuccessPct: 64, Status: model.StatusPartial}

	Convey("Given four course outcomes, one of them unmeasured", t, func() {
		course := map[string]model.TierStat{
			"D1": {AchievedPct: 82, Measured: true, Status: model.StatusMet},
			"D2": {AchievedPct: 41, Measured: true, Status: model.StatusNotMet},
			"D3": {AchievedPct: 0, Measured: false, Status: model.StatusNotMeasured},
			"D4": {AchievedPct: 55, Measured: true, Status: model.StatusPartial},
		}
		program := map[string]model.TierStat{
			"P1": {AchievedPct: 70, Measured: true, Status: model.StatusMet},
			"P2": {Status: model.StatusNotMeasured},
		}

		Convey("When generating with defaults", func() {
			n := narrative.New().Generate(overall, course, program, th)

			Convey("Then the two weakest measured outcomes should be picked", func() {
				So(n.Weakest, ShouldHaveLength, 2)
				So(n.Weakest[0].ID, ShouldEqual, "D2")
				So(n.Weakest[1].ID, ShouldEqual, "D4")
			})

			Convey("And the suggestion should depend on the partially threshold", func() {
				So(n.Suggestions, ShouldHaveLength, 2)
				So(n.Suggestions[0], ShouldStartWith, "D2 is low")
				So(n.Suggestions[1], ShouldStartWith, "D4 is partially achieved")
			})

			Convey("And summaries should list measured outcomes only", func() {
				So(n.CourseOutcomes, ShouldHaveLength, 3)
				So(n.CourseOutcomes[0].ID, ShouldEqual, "D1")
				So(n.ProgramOutcomes, ShouldHaveLength, 1)
				So(n.Overall, ShouldResemble, overall)
			})
		})

		Convey("When generating with a larger limit and custom templates", func() {
			g := narrative.New(narrative.WithLimit(5), narrative.WithTemplates("low %s", "mid %s"))
			n := g.Generate(overall, course, program, th)

			Convey("Then every measured outcome should get a suggestion", func() {
				So(n.Suggestions, ShouldResemble, []string{"low D2", "mid D4", "mid D1"})
			})
		})
	})

	Convey("Given no measured course outcome", t, func() {
		n := narrative.New().Generate(overall, map[string]model.TierStat{"D1": {}}, nil, th)

		Convey("Then there should be no suggestions", func() {
			So(n.Suggestions, ShouldBeEmpty)
			So(n.Weakest, ShouldBeEmpty)
		})
	})
}
