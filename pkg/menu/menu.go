// pkg/menu/menu.go
package menu

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultVersion is stamped on compiled menus whose catalog declares none.
const DefaultVersion = "0.1.0"

// Load reads a compiled menu artifact.
func Load(path string) (*CompiledMenu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a compiled menu and rejects items without a sku.
func Parse(data []byte) (*CompiledMenu, error) {
	var m CompiledMenu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode compiled menu: %w", err)
	}
	for i, it := range m.Items {
		if it.SKU == "" {
			return nil, fmt.Errorf("compiled menu item %d has no sku", i)
		}
	}
	return &m, nil
}

// Find returns the item with the given sku.
func (m *CompiledMenu) Find(sku string) (Item, bool) {
	for _, it := range m.Items {
		if it.SKU == sku {
			return it, true
		}
	}
	return Item{}, false
}

// SKUs lists item skus in menu order.
func (m *CompiledMenu) SKUs() []string {
	out := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it.SKU)
	}
	return out
}
