package figures

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// DuplicateThreshold is the name similarity at which two figures are
// considered probable duplicates.
const DuplicateThreshold = 0.85

// NameSimilarity returns 1 - distance/maxLen over the normalized names.
func NameSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" && nb == "" {
		return 1
	}
	la, lb := len([]rune(na)), len([]rune(nb))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(d)/float64(longest)
}

func rankSimilar(name string, candidates []Match, threshold float64) []Match {
	var out []Match
	for _, c := range candidates {
		score := NameSimilarity(name, c.Name)
		if score >= threshold {
			c.Similarity = score
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}
