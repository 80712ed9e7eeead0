package model

// Status classifies an achievement percentage against Thresholds.
type Status string

// Achievement statuses.
const (
	StatusMet         Status = "met"
	StatusPartial     Status = "partial"
	StatusNotMet      Status = "not_met"
	StatusNotMeasured Status = "not_measured"
)

// EvidenceSource names where a tier stat got its percentage from.
type EvidenceSource string

// Evidence sources, in the order the ladders may try them.
const (
	SourceDirect     EvidenceSource = "direct_questions"
	SourceCourse     EvidenceSource = "course_outcomes"
	SourceProgram    EvidenceSource = "program_outcomes"
	SourceObjectives EvidenceSource = "objectives"
	SourcePooled     EvidenceSource = "pooled"
	SourceNone       EvidenceSource = "none"
)

// Contribution records one lower-tier outcome that fed an upper-tier value.
type Contribution struct {
	ID     string  `json:"id"`
	Tier   Tier    `json:"tier"`
	Pct    float64 `json:"pct"`
	Weight float64 `json:"weight,omitempty"`
}

// TierStat is the achievement of one outcome. Measured=false with
// AchievedPct=0 means "no evidence"; it is never the same as a measured 0%.
type TierStat struct {
	Text          string         `json:"text"`
	AchievedPct   float64        `json:"achieved_pct"`
	Measured      bool           `json:"measured"`
	Status        Status         `json:"status"`
	Source        EvidenceSource `json:"source"`
	QuestionIDs   []string       `json:"question_ids,omitempty"`
	AvgPoints     float64        `json:"avg_points,omitempty"`
	MaxPoints     float64        `json:"max_points,omitempty"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// EvidenceSources lists the ids the stat's percentage was derived from:
// question ids for direct evidence, lower-tier outcome ids otherwise.
func (s TierStat) EvidenceSources() []string {
	if s.Source == SourceDirect {
		return s.QuestionIDs
	}
	ids := make([]string, 0, len(s.Contributions))
	for _, c := range s.Contributions {
		ids = append(ids, c.ID)
	}
	return ids
}

// QuestionStat aggregates the class result on one question.
type QuestionStat struct {
	ComponentID    string   `json:"component_id"`
	AvgPoints      float64  `json:"avg_points"`
	MaxPoints      float64  `json:"max_points"`
	SuccessPct     float64  `json:"success_pct"`
	CourseOutcomes []string `json:"course_outcomes,omitempty"`
	Cognitive      []string `json:"cognitive,omitempty"`
}

// ComponentStat aggregates the class result on one assessment component.
type ComponentStat struct {
	Name       string   `json:"name"`
	Weight     float64  `json:"weight"`
	AvgPoints  float64  `json:"avg_points"`
	MaxPoints  float64  `json:"max_points"`
	SuccessPct float64  `json:"success_pct"`
	Questions  []string `json:"questions,omitempty"`
}

// CognitiveStat aggregates the fractional points attributed to one
// cognitive-level tag.
type CognitiveStat struct {
	MaxPoints  float64 `json:"max_points"`
	AvgPoints  float64 `json:"avg_points"`
	Questions  int     `json:"questions"`
	SuccessPct float64 `json:"success_pct"`
	Status     Status  `json:"status"`
}

// OverallStat is the component-weighted course achievement.
type OverallStat struct {
	SuccessPct float64 `json:"success_pct"`
	Status     Status  `json:"status"`
}

// StudentResult is one roster row. Absent students carry AbsentGrade and
// zero Rank.
type StudentResult struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalScore    float64 `json:"total_score"`
	MaxScore      float64 `json:"max_score"`
	Pct           float64 `json:"pct"`
	Grade         string  `json:"grade"`
	Absent        bool    `json:"absent"`
	Rank          int     `json:"rank,omitempty"`
	Percentile    float64 `json:"percentile,omitempty"`
	DiffFromClass float64 `json:"diff_from_class,omitempty"`
}

// AbsentGrade is the grade marker of students who did not sit the exam.
const AbsentGrade = "GR"

// Roster is the student section of a result.
type Roster struct {
	Results           []StudentResult `json:"results"`
	GradeDistribution map[string]int  `json:"grade_distribution"`
	ClassAverage      float64         `json:"class_average"`
	Weighted          bool            `json:"weighted"`
	Attending         int             `json:"attending"`
	Absent            int             `json:"absent"`
	Total             int             `json:"total"`
}

// CoverageEntry is the question count of one tag within a category.
type CoverageEntry struct {
	ID             string  `json:"id"`
	Questions      int     `json:"questions"`
	PctOfQuestions float64 `json:"pct_of_questions"`
	Share          float64 `json:"share"`
}

// Coverage counts tag usage per tier and for cognitive tags.
type Coverage struct {
	TotalQuestions int                      `json:"total_questions"`
	Tiers          map[Tier][]CoverageEntry `json:"tiers"`
	Cognitive      []CoverageEntry          `json:"cognitive"`
}

// QuestionOutcome is the pass/fail split of the class on one question.
type QuestionOutcome struct {
	QuestionID string  `json:"question_id"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	PassPct    float64 `json:"pass_pct"`
	FailPct    float64 `json:"fail_pct"`
	AvgScore   float64 `json:"avg_score"`
	MaxPoints  float64 `json:"max_points"`
}

// Diagnostics groups per-question pass/fail outcomes with the coverage of
// the questions at least one student failed.
type Diagnostics struct {
	FailRatio       float64           `json:"fail_ratio"`
	Questions       []QuestionOutcome `json:"questions"`
	FailingCoverage Coverage          `json:"failing_coverage"`
}

// OutcomeSummary is one measured outcome in the narrative.
type OutcomeSummary struct {
	ID     string  `json:"id"`
	Pct    float64 `json:"pct"`
	Status Status  `json:"status"`
}

// Narrative is the canned textual digest of a result.
type Narrative struct {
	Overall         OverallStat      `json:"overall"`
	CourseOutcomes  []OutcomeSummary `json:"course_outcomes"`
	ProgramOutcomes []OutcomeSummary `json:"program_outcomes"`
	Weakest         []OutcomeSummary `json:"weakest"`
	Suggestions     []string         `json:"suggestions"`
}

// Result is the output of one report computation.
type Result struct {
	Course      CourseInfo                   `json:"course"`
	Thresholds  Thresholds                   `json:"thresholds"`
	Questions   map[string]QuestionStat      `json:"questions"`
	Components  map[string]ComponentStat     `json:"components"`
	Overall     OverallStat                  `json:"overall"`
	Tiers       map[Tier]map[string]TierStat `json:"tiers"`
	Cognitive   map[string]CognitiveStat     `json:"cognitive"`
	Students    Roster                       `json:"students"`
	Coverage    Coverage                     `json:"coverage"`
	Diagnostics Diagnostics                  `json:"diagnostics"`
	Narrative   Narrative                    `json:"narrative"`
}

// Tier returns the stats of one tier; never nil.
func (r *Result) Tier(t Tier) map[string]TierStat {
	if stats, ok := r.Tiers[t]; ok {
		return stats
	}
	return map[string]TierStat{}
}
