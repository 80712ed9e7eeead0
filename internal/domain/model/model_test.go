package model_test

import (
	"testing"

	model "github.com/okian/accredit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPayloadAccessors(t *testing.T) {
	convey.Convey("Given a payload", t, func() {
		p := &model.Payload{
			Catalog: model.Catalog{
				CourseOutcomes: []model.OutcomeDefinition{{ID: "CO1"}},
				SectorStandard: []model.OutcomeDefinition{{ID: "S1"}, {ID: "S2"}},
			},
			Students: []model.Student{{ID: "a"}, {ID: "b", Absent: true}, {ID: "c"}},
			Scores:   model.ScoreMatrix{"a": {"Q1": 4}},
		}

		convey.Convey("When reading catalog tiers", func() {
			convey.Convey("Then each tier should map to its own list", func() {
				convey.So(p.Catalog.Definitions(model.TierCourse), convey.ShouldHaveLength, 1)
				convey.So(p.Catalog.Definitions(model.TierSector), convey.ShouldHaveLength, 2)
				convey.So(p.Catalog.Definitions(model.TierNational), convey.ShouldBeEmpty)
				convey.So(p.Catalog.Definitions(model.Tier("bogus")), convey.ShouldBeNil)
			})
		})

		convey.Convey("When listing attending students", func() {
			attending := p.Attending()

			convey.Convey("Then absent students should be skipped in roster order", func() {
				convey.So(attending, convey.ShouldHaveLength, 2)
				convey.So(attending[0].ID, convey.ShouldEqual, "a")
				convey.So(attending[1].ID, convey.ShouldEqual, "c")
			})
		})

		convey.Convey("When reading scores", func() {
			convey.Convey("Then missing cells should read as zero", func() {
				convey.So(p.Scores.Score("a", "Q1"), convey.ShouldEqual, 4.0)
				convey.So(p.Scores.Score("a", "Q2"), convey.ShouldEqual, 0.0)
				convey.So(p.Scores.Score("z", "Q1"), convey.ShouldEqual, 0.0)
			})
		})
	})
}

func TestOutcomeTags(t *testing.T) {
	convey.Convey("Given question tags", t, func() {
		tags := model.OutcomeTags{Course: []string{"CO1", "CO2"}, National: []string{"N1"}}

		convey.Convey("Then lookups should be per tier", func() {
			convey.So(tags.Has(model.TierCourse, "CO2"), convey.ShouldBeTrue)
			convey.So(tags.Has(model.TierProgram, "CO2"), convey.ShouldBeFalse)
			convey.So(tags.For(model.TierNational), convey.ShouldResemble, []string{"N1"})
		})
	})
}

func TestResultAccessors(t *testing.T) {
	convey.Convey("Given a result", t, func() {
		r := &model.Result{Tiers: map[model.Tier]map[string]model.TierStat{
			model.TierCourse: {"CO1": {Source: model.SourceDirect, QuestionIDs: []string{"Q1"}}},
		}}

		convey.Convey("Then missing tiers should read as empty maps", func() {
			convey.So(r.Tier(model.TierSector), convey.ShouldNotBeNil)
			convey.So(r.Tier(model.TierSector), convey.ShouldBeEmpty)
		})

		convey.Convey("Then evidence sources should follow the stat source", func() {
			convey.So(r.Tier(model.TierCourse)["CO1"].EvidenceSources(), convey.ShouldResemble, []string{"Q1"})
			pooled := model.TierStat{
				Source:        model.SourcePooled,
				Contributions: []model.Contribution{{ID: "CO1"}, {ID: "PO2"}},
			}
			convey.So(pooled.EvidenceSources(), convey.ShouldResemble, []string{"CO1", "PO2"})
		})
	})
}
