package memory

import (
	"encoding/json"
	"sort"
)

// #region constants

const (
	// similarityThreshold gates which non-exact patterns count as similar.
	similarityThreshold = 0.3

	// maxSimilar caps how many similar patterns feed the vote.
	maxSimilar = 10

	// sharedKeyEqualWeight / sharedKeyDifferWeight score one overlapping
	// context key depending on whether its canonical value also matches.
	sharedKeyEqualWeight  = 1.0
	sharedKeyDifferWeight = 0.4
)

// #endregion constants

// #region similarity

// Similarity computes weighted key/value overlap between two context
// maps, normalized by the union of keys. Identical maps score 1.0,
// disjoint maps 0.0. Values compare by canonical JSON so nested
// structures and numeric types behave consistently.
func Similarity(a, b map[string]any) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	union := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		union[k] = struct{}{}
	}
	for k := range b {
		union[k] = struct{}{}
	}

	var score float64
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			continue
		}
		if canonicalValue(av) == canonicalValue(bv) {
			score += sharedKeyEqualWeight
		} else {
			score += sharedKeyDifferWeight
		}
	}
	return score / float64(len(union))
}

func canonicalValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// #endregion similarity

// #region find-similar

// findSimilar returns patterns whose stored context scores above the
// threshold against ctx, most similar first, capped at maxSimilar.
// Sorting ties break by newest id so results are deterministic.
func findSimilar(patterns []DecisionPattern, ctx map[string]any) []DecisionPattern {
	type scored struct {
		score   float64
		pattern DecisionPattern
	}
	var candidates []scored
	for _, p := range patterns {
		s := Similarity(p.RawContext, ctx)
		if s > similarityThreshold {
			candidates = append(candidates, scored{s, p})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pattern.ID > candidates[j].pattern.ID
	})
	if len(candidates) > maxSimilar {
		candidates = candidates[:maxSimilar]
	}
	out := make([]DecisionPattern, len(candidates))
	for i, c := range candidates {
		out[i] = c.pattern
	}
	return out
}

// #endregion find-similar
