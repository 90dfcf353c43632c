// Package nlu holds the rule-based entity detectors and the clause segmenter.
// Every function here is pure and safe for concurrent use.
package nlu

import (
	"strconv"
	"strings"

	"order-etl/internal/models"
)

// Temperature and size cue words.
var (
	IceCues    = []string{"아이스", "차가운", "아아"}
	HotCues    = []string{"뜨거운", "핫", "뜨아"}
	LargeCues  = []string{"라지", "벤티"}
	MediumCues = []string{"톨", "레귤러", "미디움"}
)

// DetectQuantity finds an order quantity: digits before a counting unit, then
// a native numeral before a counting unit, then a standalone 1-3 digit token.
func DetectQuantity(text string) (int, bool) {
	t := strings.TrimSpace(text)

	if m := digitUnitRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	for _, p := range numeralPatterns {
		if p.re.MatchString(t) {
			return p.value, true
		}
	}
	if m := bareDigitRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// DetectTemperature returns ICE or HOT. ICE cues win when both appear.
func DetectTemperature(text string) (string, bool) {
	if containsAny(text, IceCues) {
		return models.TempIce, true
	}
	if containsAny(text, HotCues) {
		return models.TempHot, true
	}
	return "", false
}

// DetectSize returns L or M from size cue words.
func DetectSize(text string) (string, bool) {
	if containsAny(text, LargeCues) {
		return models.SizeLarge, true
	}
	if containsAny(text, MediumCues) {
		return models.SizeMedium, true
	}
	return "", false
}

func containsAny(text string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// PhraseIndex is the read side of a knowledge base that product detection needs.
type PhraseIndex interface {
	Phrases() []string
	Lookup(phrase string) (string, bool)
}

// ProductMatch describes how a product was recognized.
type ProductMatch struct {
	SKU    string
	Phrase string
	Score  float64
	Fuzzy  bool
}

// MatchProduct tries an exact substring match over the phrases in index
// order, then the best partial-ratio phrase if it scores at least threshold.
func MatchProduct(text string, idx PhraseIndex, threshold float64) (ProductMatch, bool) {
	phrases := idx.Phrases()
	for _, ph := range phrases {
		if ph != "" && strings.Contains(text, ph) {
			sku, _ := idx.Lookup(ph)
			return ProductMatch{SKU: sku, Phrase: ph, Score: 100}, true
		}
	}

	ph, score, ok := BestPartialMatch(text, phrases)
	if !ok || score < threshold {
		return ProductMatch{}, false
	}
	sku, _ := idx.Lookup(ph)
	return ProductMatch{SKU: sku, Phrase: ph, Score: score, Fuzzy: true}, true
}

// DetectProduct returns the sku recognized in text, if any.
func DetectProduct(text string, idx PhraseIndex, threshold float64) (string, bool) {
	m, ok := MatchProduct(text, idx, threshold)
	return m.SKU, ok
}
