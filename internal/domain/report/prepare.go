package report

import (
	"strings"

	"github.com/okian/accredit/internal/domain/model"
)

// Prepare returns a normalized copy of p: questions, components and
// students with a blank id are dropped, repeated ids keep their first
// position and last value, and tags are trimmed and de-duplicated. Ids are
// compared exactly as given, matching the score matrix keys. p is left
// untouched.
func Prepare(p *model.Payload) *model.Payload {
	out := *p
	out.Components = dedupe(p.Components, func(c model.AssessmentComponent) string { return c.ID })
	out.Students = dedupe(p.Students, func(s model.Student) string { return s.ID })

	questions := dedupe(p.Questions, func(q model.Question) string { return q.ID })
	for i := range questions {
		q := &questions[i]
		q.Tags = model.OutcomeTags{
			Course:    cleanTags(q.Tags.Course),
			Program:   cleanTags(q.Tags.Program),
			Objective: cleanTags(q.Tags.Objective),
			National:  cleanTags(q.Tags.National),
			Sector:    cleanTags(q.Tags.Sector),
		}
		q.Cognitive = cleanTags(q.Cognitive)
	}
	out.Questions = questions
	return &out
}

func dedupe[T any](items []T, id func(T) string) []T {
	pos := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		key := id(it)
		if strings.TrimSpace(key) == "" {
			continue
		}
		if i, ok := pos[key]; ok {
			out[i] = it
			continue
		}
		pos[key] = len(out)
		out = append(out, it)
	}
	return out
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
