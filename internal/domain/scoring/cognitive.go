package scoring

import (
	"strings"

	"github.com/okian/accredit/internal/domain/model"
)

// CognitiveTags returns the trimmed, de-duplicated cognitive tags of q in
// their original order. A question without tags yields the unspecified
// label, or nothing when that label is empty.
func CognitiveTags(q model.Question, unspecified string) []string {
	seen := make(map[string]struct{}, len(q.Cognitive))
	tags := make([]string, 0, len(q.Cognitive))
	for _, t := range q.Cognitive {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	if len(tags) == 0 && unspecified != "" {
		tags = append(tags, unspecified)
	}
	return tags
}

// Cognitive attributes each question's max and average points to its
// cognitive tags. A question with N tags adds 1/N of its points to each, so
// the question is counted exactly once across the distribution.
func Cognitive(questions []model.Question, qstats map[string]model.QuestionStat, th model.Thresholds, unspecified string) map[string]model.CognitiveStat {
	out := make(map[string]model.CognitiveStat)
	for _, q := range questions {
		tags := CognitiveTags(q, unspecified)
		if len(tags) == 0 {
			continue
		}
		n := float64(len(tags))
		maxShare := q.MaxPoints / n
		avgShare := qstats[q.ID].AvgPoints / n
		for _, t := range tags {
			st := out[t]
			st.MaxPoints += maxShare
			st.AvgPoints += avgShare
			st.Questions++
			out[t] = st
		}
	}
	for t, st := range out {
		st.SuccessPct = Percent(st.AvgPoints, st.MaxPoints)
		st.Status = Classify(st.SuccessPct, th)
		out[t] = st
	}
	return out
}
