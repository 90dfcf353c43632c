// internal/knowledge/base.go
package knowledge

import (
	"strings"

	"order-etl/internal/common/logger"
	"order-etl/internal/models"
)

// Base is the queryable product knowledge: phrase->sku, sku->phrases, the
// capability profile of each product and the alias rules. Phrases iterate in
// registration order; a re-registered phrase keeps its first position.
type Base struct {
	phrases      []string
	phraseToSKU  map[string]string
	skuToPhrases map[string][]string
	products     map[string]ProductEntry
	aliases      []AliasRule
	conflicts    []models.AliasConflict
	log          logger.Logger
}

// Load reads the menu and alias definitions and builds a Base. The alias file
// is optional.
func Load(menuPath, aliasPath string, log logger.Logger) (*Base, error) {
	catalog, err := LoadCatalog(menuPath)
	if err != nil {
		return nil, err
	}
	rules, err := LoadAliases(aliasPath)
	if err != nil {
		return nil, err
	}
	return New(catalog, rules, log), nil
}

// New builds a Base from a decoded catalog and alias rules. Product phrases
// register first, then sku-bearing alias terms. Remapping a phrase to a
// different sku overwrites it and is recorded as a conflict.
func New(catalog *Catalog, rules []AliasRule, log logger.Logger) *Base {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	b := &Base{
		phraseToSKU:  make(map[string]string),
		skuToPhrases: make(map[string][]string),
		products:     make(map[string]ProductEntry),
		aliases:      rules,
		log:          log.WithFields(map[string]interface{}{"component": "knowledge"}),
	}

	if catalog != nil {
		for _, p := range catalog.Products {
			b.products[p.SKU] = p
			for _, ph := range p.Phrases() {
				b.register(ph, p.SKU)
			}
		}
	}

	for _, r := range rules {
		if !r.HasSKU() {
			continue
		}
		if r.Term == "" {
			continue
		}
		if _, ok := b.products[r.SKU]; !ok {
			b.log.Warn("alias references sku missing from the menu", map[string]interface{}{
				"term": r.Term,
				"sku":  r.SKU,
			})
		}
		b.register(r.Term, r.SKU)
	}
	return b
}

func (b *Base) register(phrase, sku string) {
	prev, exists := b.phraseToSKU[phrase]
	switch {
	case !exists:
		b.phrases = append(b.phrases, phrase)
	case prev == sku:
		return
	default:
		b.conflicts = append(b.conflicts, models.AliasConflict{Term: phrase, PreviousSKU: prev, NewSKU: sku})
		b.log.Warn("phrase remapped to a different sku", map[string]interface{}{
			"phrase":      phrase,
			"previousSku": prev,
			"newSku":      sku,
		})
		b.skuToPhrases[prev] = remove(b.skuToPhrases[prev], phrase)
	}
	b.phraseToSKU[phrase] = sku
	b.skuToPhrases[sku] = append(b.skuToPhrases[sku], phrase)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Phrases returns every registered phrase in iteration order.
func (b *Base) Phrases() []string {
	return append([]string(nil), b.phrases...)
}

// Lookup returns the sku a phrase is registered to.
func (b *Base) Lookup(phrase string) (string, bool) {
	sku, ok := b.phraseToSKU[phrase]
	return sku, ok
}

// PhrasesFor returns the phrases registered to sku.
func (b *Base) PhrasesFor(sku string) []string {
	return append([]string(nil), b.skuToPhrases[sku]...)
}

// ContainsPhrase reports whether any registered phrase occurs in text.
func (b *Base) ContainsPhrase(text string) bool {
	for _, ph := range b.phrases {
		if strings.Contains(text, ph) {
			return true
		}
	}
	return false
}

// Profile returns the capability profile for sku.
func (b *Base) Profile(sku string) (models.CapabilityProfile, bool) {
	p, ok := b.products[sku]
	return p.Profile, ok
}

// AliasesIn returns the rules whose term occurs in text, in definition order.
func (b *Base) AliasesIn(text string) []AliasRule {
	var out []AliasRule
	for _, r := range b.aliases {
		if r.Term != "" && strings.Contains(text, r.Term) {
			out = append(out, r)
		}
	}
	return out
}

// Conflicts returns every phrase remap seen while building the Base.
func (b *Base) Conflicts() []models.AliasConflict {
	return b.conflicts
}
