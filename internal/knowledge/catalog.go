// internal/knowledge/catalog.go
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/validation"
	"order-etl/internal/models"
	"order-etl/pkg/menu"
)

var (
	ErrEmptyDefinition = errors.New("EMPTY_DEFINITION")
	ErrShapeMismatch   = errors.New("SHAPE_MISMATCH")
	ErrDuplicateSKU    = errors.New("DUPLICATE_SKU")
)

// CatalogShape names the encoding a menu definition was written in.
type CatalogShape string

const (
	ShapeFlat   CatalogShape = "flat"   // items: [{sku, display, alt, ...}]
	ShapeLegacy CatalogShape = "legacy" // sku: {SKU: {display, synonyms}}
)

// Declared records which optional fields a menu item spelled out, so a
// compiled menu can carry exactly those.
type Declared struct {
	Temps        bool
	SizesEnabled bool
	AllowOptions bool
	BasePrice    bool
}

// ProductEntry is one menu product in canonical form.
type ProductEntry struct {
	SKU              string
	Display          string
	AlternatePhrases []string
	Profile          models.CapabilityProfile
	BasePrice        map[string]float64
	Declared         Declared
}

// Phrases returns the display phrase and alternates, trimmed, deduplicated
// and sorted.
func (p ProductEntry) Phrases() []string {
	seen := make(map[string]struct{}, len(p.AlternatePhrases)+1)
	out := make([]string, 0, len(p.AlternatePhrases)+1)
	for _, ph := range append([]string{p.Display}, p.AlternatePhrases...) {
		ph = strings.TrimSpace(ph)
		if ph == "" {
			continue
		}
		if _, dup := seen[ph]; dup {
			continue
		}
		seen[ph] = struct{}{}
		out = append(out, ph)
	}
	sort.Strings(out)
	return out
}

// Catalog is a decoded menu definition.
type Catalog struct {
	Version  string
	Shape    CatalogShape
	Products []ProductEntry
}

// LoadCatalog reads a menu definition. A missing file is ConfigMissing and
// an undecodable one is ConfigInvalid.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewConfigMissingError(path)
		}
		return nil, apperrors.NewArtifactIOError(path, err)
	}
	c, err := DecodeCatalog(data)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(path, err.Error())
	}
	return c, nil
}

// DecodeCatalog detects the catalog shape once and decodes either encoding
// into the same Catalog.
func DecodeCatalog(data []byte) (*Catalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, fmt.Errorf("parse menu definition: %w", err)
	}
	if root == nil {
		return nil, ErrEmptyDefinition
	}
	if err := checkShape(validation.ShapeMenuConfig, root); err != nil {
		return nil, err
	}

	c := &Catalog{Version: menu.DefaultVersion}
	if v := lookup(root, "version"); !isNull(v) && v.Kind == yaml.ScalarNode {
		c.Version = v.Value
	}

	var products []ProductEntry
	if items := lookup(root, "items"); !isNull(items) {
		c.Shape = ShapeFlat
		products, err = decodeFlat(items)
	} else {
		c.Shape = ShapeLegacy
		products, err = decodeLegacy(lookup(root, "sku"))
	}
	if err != nil {
		return nil, err
	}
	c.Products = products
	return c, nil
}

type flatItem struct {
	SKU          string             `yaml:"sku"`
	Display      string             `yaml:"display"`
	Alt          []string           `yaml:"alt"`
	Synonyms     []string           `yaml:"synonyms"`
	Temps        []string           `yaml:"temps"`
	SizesEnabled *bool              `yaml:"sizes_enabled"`
	AllowOptions []string           `yaml:"allow_options"`
	BasePrice    map[string]float64 `yaml:"base_price"`
}

func decodeFlat(items *yaml.Node) ([]ProductEntry, error) {
	if items.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: items must be a list", ErrShapeMismatch)
	}
	seen := make(map[string]bool, len(items.Content))
	out := make([]ProductEntry, 0, len(items.Content))
	for i, n := range items.Content {
		n = deref(n)
		var it flatItem
		if err := n.Decode(&it); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		if seen[it.SKU] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, it.SKU)
		}
		seen[it.SKU] = true

		p := ProductEntry{
			SKU:              it.SKU,
			Display:          it.Display,
			AlternatePhrases: append(it.Alt, it.Synonyms...),
			BasePrice:        it.BasePrice,
			Profile: models.CapabilityProfile{
				AllowedOptionKeys:     it.AllowOptions,
				SupportedTemperatures: it.Temps,
			},
			Declared: Declared{
				Temps:        declared(n, "temps"),
				SizesEnabled: declared(n, "sizes_enabled"),
				AllowOptions: declared(n, "allow_options"),
				BasePrice:    declared(n, "base_price"),
			},
		}
		if it.SizesEnabled != nil {
			p.Profile.SizingEnabled = *it.SizesEnabled
		}
		if p.Display == "" {
			p.Display = p.SKU
		}
		out = append(out, p)
	}
	return out, nil
}

type legacyMeta struct {
	Display  string   `yaml:"display"`
	Synonyms []string `yaml:"synonyms"`
}

// decodeLegacy keeps the first position of a sku when the map repeats it
// and the last definition's content.
func decodeLegacy(skus *yaml.Node) ([]ProductEntry, error) {
	if isNull(skus) {
		return nil, nil
	}
	index := make(map[string]int)
	var out []ProductEntry
	for _, kv := range pairs(skus) {
		var meta legacyMeta
		if !isNull(kv.Value) {
			if err := kv.Value.Decode(&meta); err != nil {
				return nil, fmt.Errorf("sku %s: %w", kv.Key, err)
			}
		}
		p := ProductEntry{SKU: kv.Key, Display: meta.Display, AlternatePhrases: meta.Synonyms}
		if p.Display == "" {
			p.Display = p.SKU
		}
		if i, ok := index[p.SKU]; ok {
			out[i] = p
			continue
		}
		index[p.SKU] = len(out)
		out = append(out, p)
	}
	return out, nil
}

// CatalogFromMenu rebuilds a catalog from a compiled menu artifact.
func CatalogFromMenu(m *menu.CompiledMenu) *Catalog {
	c := &Catalog{Version: m.Version, Shape: ShapeFlat}
	for _, it := range m.Items {
		c.Products = append(c.Products, ProductEntry{
			SKU:       it.SKU,
			Display:   it.Display,
			BasePrice: it.BasePrice,
			Profile: models.CapabilityProfile{
				AllowedOptionKeys:     it.AllowOptions,
				SupportedTemperatures: it.Temps,
				SizingEnabled:         it.SizingEnabled(),
			},
			Declared: Declared{
				Temps:        it.Temps != nil,
				SizesEnabled: it.SizesEnabled != nil,
				AllowOptions: it.AllowOptions != nil,
				BasePrice:    it.BasePrice != nil,
			},
		})
	}
	return c
}

func checkShape(shape string, root *yaml.Node) error {
	problems, err := validation.CheckShape(shape, toGeneric(root))
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		return nil
	}
	preview := validation.Preview(problems, 3)
	return fmt.Errorf("%w: %d problem(s): %s", ErrShapeMismatch, len(problems), strings.Join(preview, "; "))
}
