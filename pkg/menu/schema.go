// pkg/menu/schema.go
package menu

// CompiledMenu is the runtime-friendly menu artifact (outputs/<domain>/menu.json).
type CompiledMenu struct {
	Version string `json:"version"`
	Items   []Item `json:"items"`
}

// Item is one product of the compiled menu. Optional fields are only present
// when the source catalog declared them.
type Item struct {
	SKU          string             `json:"sku"`
	Display      string             `json:"display"`
	Temps        []string           `json:"temps,omitempty"`
	BasePrice    map[string]float64 `json:"base_price,omitempty"`
	SizesEnabled *bool              `json:"sizes_enabled,omitempty"`
	AllowOptions []string           `json:"allow_options,omitempty"`
}

// SizingEnabled treats an undeclared flag as false.
func (i Item) SizingEnabled() bool {
	return i.SizesEnabled != nil && *i.SizesEnabled
}
