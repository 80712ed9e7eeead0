package propagation

import (
	"sort"

	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/scoring"
)

// Direct measures outcomes of a tier from the questions tagged with them:
// the class average of the summed tagged scores over the summed max points.
// An outcome with at least one tagged question is measured, even at 0%.
func Direct(tier model.Tier, questions []model.Question, attending []model.Student, scores model.ScoreMatrix) Strategy {
	tagged := make(map[string][]model.Question)
	for _, q := range questions {
		seen := make(map[string]struct{})
		for _, id := range q.Tags.For(tier) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			tagged[id] = append(tagged[id], q)
		}
	}
	return StrategyFunc(func(id string) (Evidence, bool) {
		qs := tagged[id]
		if len(qs) == 0 {
			return Evidence{}, false
		}
		avg, maxPts := scoring.ClassTotals(qs, attending, scores)
		ids := make([]string, 0, len(qs))
		for _, q := range qs {
			ids = append(ids, q.ID)
		}
		return Evidence{
			Pct:         scoring.Percent(avg, maxPts),
			Source:      model.SourceDirect,
			QuestionIDs: ids,
			AvgPoints:   avg,
			MaxPoints:   maxPts,
		}, true
	})
}

// Weighted averages measured lower-tier outcomes along weighted edges:
// sum(pct*w)/sum(w). Edges with w <= 0 and unmeasured sources are skipped;
// a repeated edge keeps its last weight.
func Weighted(source model.EvidenceSource, from model.Tier, stats map[string]model.TierStat, edges []model.WeightedEdge) Strategy {
	index := make(map[string]map[string]int)
	for _, e := range edges {
		if index[e.Target] == nil {
			index[e.Target] = make(map[string]int)
		}
		index[e.Target][e.Source] = e.Weight
	}
	return StrategyFunc(func(id string) (Evidence, bool) {
		links := index[id]
		var num, den float64
		var contribs []model.Contribution
		for _, src := range sortedKeys(links) {
			w := links[src]
			if w <= 0 {
				continue
			}
			st, ok := stats[src]
			if !ok || !st.Measured {
				continue
			}
			num += st.AchievedPct * float64(w)
			den += float64(w)
			contribs = append(contribs, model.Contribution{
				ID:     src,
				Tier:   from,
				Pct:    st.AchievedPct,
				Weight: float64(w),
			})
		}
		if den == 0 {
			return Evidence{}, false
		}
		return Evidence{
			Pct:           num / den,
			Source:        source,
			Contributions: contribs,
		}, true
	})
}

// Link is one unweighted relation feeding a pooled average.
type Link struct {
	From  model.Tier
	Stats map[string]model.TierStat
	Edges []model.Edge
}

// Mean pools measured lower-tier outcomes from every link into one simple
// average. Each linked outcome counts once no matter how many edges name it.
func Mean(source model.EvidenceSource, links ...Link) Strategy {
	indexes := make([]map[string][]string, len(links))
	for i, l := range links {
		indexes[i] = targets(l.Edges)
	}
	return StrategyFunc(func(id string) (Evidence, bool) {
		var sum float64
		var contribs []model.Contribution
		for i, l := range links {
			for _, src := range indexes[i][id] {
				st, ok := l.Stats[src]
				if !ok || !st.Measured {
					continue
				}
				sum += st.AchievedPct
				contribs = append(contribs, model.Contribution{
					ID:   src,
					Tier: l.From,
					Pct:  st.AchievedPct,
				})
			}
		}
		if len(contribs) == 0 {
			return Evidence{}, false
		}
		return Evidence{
			Pct:           sum / float64(len(contribs)),
			Source:        source,
			Contributions: contribs,
		}, true
	})
}

// targets indexes unweighted edges as target -> sorted unique sources.
func targets(edges []model.Edge) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, e := range edges {
		if sets[e.Target] == nil {
			sets[e.Target] = make(map[string]struct{})
		}
		sets[e.Target][e.Source] = struct{}{}
	}
	out := make(map[string][]string, len(sets))
	for t, set := range sets {
		out[t] = sortedKeys(set)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
