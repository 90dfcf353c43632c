// internal/knowledge/aliases.go
package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/validation"
	"order-etl/internal/models"
)

// AliasRule maps a shorthand term to an optional sku and raw option values.
// Options are canonicalized later by the normalizer.
type AliasRule struct {
	Term    string
	SKU     string
	Options map[string]interface{}
}

// HasSKU reports whether the rule registers its term as a product phrase.
func (r AliasRule) HasSKU() bool {
	return r.SKU != ""
}

type aliasApply struct {
	SKU     *string                `yaml:"sku"`
	Options map[string]interface{} `yaml:"options"`
}

type aliasEntry struct {
	Term  string     `yaml:"term"`
	Apply aliasApply `yaml:"apply"`
}

// LoadAliases reads an alias definition. A missing file yields an empty rule
// set and no error.
func LoadAliases(path string) ([]AliasRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewArtifactIOError(path, err)
	}
	rules, err := DecodeAliases(data)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(path, err.Error())
	}
	return rules, nil
}

// DecodeAliases accepts the list form and the legacy keyed-map form. Rules
// come back in file order; duplicate terms are all kept.
func DecodeAliases(data []byte) ([]AliasRule, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, fmt.Errorf("parse alias definition: %w", err)
	}
	if root == nil {
		return nil, nil
	}
	if err := checkShape(validation.ShapeAliasConfig, root); err != nil {
		return nil, err
	}

	node := lookup(root, "aliases")
	if isNull(node) {
		return nil, nil
	}
	if node.Kind == yaml.SequenceNode {
		return decodeAliasList(node)
	}
	return decodeAliasMap(node)
}

func decodeAliasList(node *yaml.Node) ([]AliasRule, error) {
	out := make([]AliasRule, 0, len(node.Content))
	for i, n := range node.Content {
		var e aliasEntry
		if err := deref(n).Decode(&e); err != nil {
			return nil, fmt.Errorf("aliases[%d]: %w", i, err)
		}
		out = append(out, newRule(e.Term, e.Apply))
	}
	return out, nil
}

// decodeAliasMap skips entries whose value is not a mapping.
func decodeAliasMap(node *yaml.Node) ([]AliasRule, error) {
	var out []AliasRule
	for _, kv := range pairs(node) {
		if kv.Value == nil || kv.Value.Kind != yaml.MappingNode {
			continue
		}
		var a aliasApply
		if err := kv.Value.Decode(&a); err != nil {
			return nil, fmt.Errorf("alias %s: %w", kv.Key, err)
		}
		out = append(out, newRule(kv.Key, a))
	}
	return out, nil
}

// newRule trims the term so registration, matching and conflict checks share one key.
func newRule(term string, a aliasApply) AliasRule {
	r := AliasRule{Term: strings.TrimSpace(term), Options: a.Options}
	if a.SKU != nil {
		r.SKU = *a.SKU
	}
	return r
}

// FindAliasConflicts reports every sku-bearing rule that remaps a term
// already bound to a different sku by an earlier rule.
func FindAliasConflicts(rules []AliasRule) []models.AliasConflict {
	bound := make(map[string]string)
	var out []models.AliasConflict
	for _, r := range rules {
		if !r.HasSKU() {
			continue
		}
		if prev, ok := bound[r.Term]; ok && prev != r.SKU {
			out = append(out, models.AliasConflict{Term: r.Term, PreviousSKU: prev, NewSKU: r.SKU})
		}
		bound[r.Term] = r.SKU
	}
	return out
}
