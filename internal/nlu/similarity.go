package nlu

import (
	"github.com/adrg/strutil/metrics"
)

// A substitution costing two edits turns Levenshtein into the indel distance
// the ratio below is defined on.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Ratio is the normalized indel similarity of a and b on a 0-100 scale.
func Ratio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(indel.Distance(a, b))/float64(total))
}

// PartialRatio is the best Ratio of the shorter string against every
// same-length window of the longer one, including windows that hang off
// either end.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)
	s := string(short)

	best := 0.0
	try := func(w []rune) bool {
		if r := Ratio(s, string(w)); r > best {
			best = r
		}
		return best == 100
	}

	for i := 0; i+m <= n; i++ {
		if try(long[i : i+m]) {
			return best
		}
	}
	for k := 1; k < m; k++ {
		if try(long[:k]) || try(long[n-k:]) {
			return best
		}
	}
	return best
}

// BestPartialMatch scores text against each candidate and returns the first
// highest-scoring one.
func BestPartialMatch(text string, candidates []string) (string, float64, bool) {
	best, bestScore, found := "", -1.0, false
	for _, c := range candidates {
		score := PartialRatio(text, c)
		if score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, bestScore, found
}
