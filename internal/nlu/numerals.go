package nlu

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

// CountingUnits are the counter words a quantity must be followed by.
var CountingUnits = []string{"잔", "개", "병", "세트", "컵"}

// Numeral is one native Korean numeral spelling.
type Numeral struct {
	Word  string
	Value int
}

// Numerals lists the native numerals 1 to 20, attributive and standalone
// forms both.
var Numerals = []Numeral{
	{"한", 1}, {"하나", 1},
	{"두", 2}, {"둘", 2},
	{"세", 3}, {"셋", 3},
	{"네", 4}, {"넷", 4},
	{"다섯", 5},
	{"여섯", 6},
	{"일곱", 7},
	{"여덟", 8},
	{"아홉", 9},
	{"열", 10},
	{"열한", 11}, {"열하나", 11},
	{"열두", 12}, {"열둘", 12},
	{"열세", 13}, {"열셋", 13},
	{"열네", 14}, {"열넷", 14},
	{"열다섯", 15},
	{"열여섯", 16},
	{"열일곱", 17},
	{"열여덟", 18},
	{"열아홉", 19},
	{"스무", 20}, {"스물", 20},
}

type numeralPattern struct {
	re    *regexp.Regexp
	value int
}

var (
	unitAlt = `(?:` + alternation(CountingUnits) + `)`

	digitUnitRe = regexp.MustCompile(`(\d{1,3})\s*` + unitAlt)
	// standalone 1-3 digit token; letters, digits and marks all count as word characters
	bareDigitRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}\p{M}_])(\d{1,3})(?:$|[^\p{L}\p{N}\p{M}_])`)

	numeralPatterns = compileNumerals(Numerals)
)

// compileNumerals orders numerals longest first so 열다섯 is tried before 다섯
// and 열. Equal lengths keep table order.
func compileNumerals(table []Numeral) []numeralPattern {
	sorted := append([]Numeral(nil), table...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Word) > utf8.RuneCountInString(sorted[j].Word)
	})
	out := make([]numeralPattern, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, numeralPattern{
			re:    regexp.MustCompile(regexp.QuoteMeta(n.Word) + `\s*` + unitAlt),
			value: n.Value,
		})
	}
	return out
}
