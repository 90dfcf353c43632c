package nlu

import (
	"regexp"
	"strings"
)

// Conjunctions separate order clauses, together with commas.
var Conjunctions = []string{"그리고", "랑", "와", "및"}

var (
	delimiterRe  = regexp.MustCompile(`[\s,]*(?:` + alternation(Conjunctions) + `|,)[\s,]*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Segment splits an utterance into trimmed, non-empty clauses in order.
// Conjunctions are matched anywhere, including inside words.
func Segment(text string) []string {
	parts := delimiterRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeText trims and collapses runs of whitespace to one space.
func NormalizeText(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}
