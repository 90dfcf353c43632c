package nlu

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrNoIntentPattern = errors.New("NO_INTENT_PATTERN")

// IntentPattern compiles the order-intent regexp: the custom pattern when one
// is set, otherwise a disjunction of the keywords.
func IntentPattern(custom string, keywords []string) (*regexp.Regexp, error) {
	if custom != "" {
		re, err := regexp.Compile(custom)
		if err != nil {
			return nil, fmt.Errorf("compile intent pattern: %w", err)
		}
		return re, nil
	}
	var words []string
	for _, k := range keywords {
		if k != "" {
			words = append(words, k)
		}
	}
	if len(words) == 0 {
		return nil, ErrNoIntentPattern
	}
	return regexp.MustCompile(alternation(words)), nil
}
