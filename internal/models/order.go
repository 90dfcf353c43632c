// internal/models/order.go
package models

import "sort"

// Option keys. Only these survive normalization and filtering.
const (
	OptionSize  = "size"
	OptionTemp  = "temp"
	OptionShot  = "shot"
	OptionSyrup = "syrup"
	OptionIce   = "ice"
)

// OptionKeys is the fixed option enumeration, in canonical order.
var OptionKeys = []string{OptionSize, OptionTemp, OptionShot, OptionSyrup, OptionIce}

// Enumerated option values.
const (
	TempIce = "ICE"
	TempHot = "HOT"

	SizeSmall  = "S"
	SizeMedium = "M"
	SizeLarge  = "L"

	IceLess   = "less"
	IceNormal = "normal"
	IceMore   = "more"
)

var (
	Temperatures = []string{TempIce, TempHot}
	Sizes        = []string{SizeSmall, SizeMedium, SizeLarge}
	IceLevels    = []string{IceLess, IceNormal, IceMore}
)

// IsOptionKey reports whether key is part of the option enumeration.
func IsOptionKey(key string) bool {
	for _, k := range OptionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Contains is a small helper over the enumerations above.
func Contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Options maps option keys to their values.
type Options map[string]interface{}

// Clone returns a shallow copy; nil stays nil.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Keys returns the option keys in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OrderLineItem is one product line of an order draft.
type OrderLineItem struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Options  Options `json:"options,omitempty"`
}

// Clone returns a copy whose options can be mutated independently.
func (i OrderLineItem) Clone() OrderLineItem {
	i.Options = i.Options.Clone()
	return i
}

// Order wraps line items the way artifacts serialize them.
type Order struct {
	Items []OrderLineItem `json:"items"`
}

// OrderEnvelope is the {"order": {...}} wrapper used by few-shot targets and eval gold.
type OrderEnvelope struct {
	Order Order `json:"order"`
}

// OutcomeKind distinguishes the two extraction results.
type OutcomeKind string

const (
	OutcomeOrderDraft OutcomeKind = "ORDER_DRAFT"
	OutcomeAsk        OutcomeKind = "ASK"
)

// SlotSKU is the slot reported missing when no product is recognized.
const SlotSKU = "sku"

// Outcome is either an order draft (Items non-empty) or an ask for missing slots.
type Outcome struct {
	Kind         OutcomeKind     `json:"label"`
	Items        []OrderLineItem `json:"items,omitempty"`
	MissingSlots []string        `json:"missing_slots,omitempty"`
	Question     string          `json:"question,omitempty"`
}

// NewDraft builds an ORDER_DRAFT outcome.
func NewDraft(items []OrderLineItem) Outcome {
	return Outcome{Kind: OutcomeOrderDraft, Items: items}
}

// NewAsk builds an ASK outcome.
func NewAsk(missingSlots []string, question string) Outcome {
	return Outcome{Kind: OutcomeAsk, MissingSlots: missingSlots, Question: question}
}

// IsDraft reports whether the outcome carries line items.
func (o Outcome) IsDraft() bool {
	return o.Kind == OutcomeOrderDraft
}

// CapabilityProfile declares which options a product accepts.
// An empty SupportedTemperatures means any temperature is allowed.
type CapabilityProfile struct {
	AllowedOptionKeys     []string `json:"allow_options,omitempty"`
	SupportedTemperatures []string `json:"temps,omitempty"`
	SizingEnabled         bool     `json:"sizes_enabled"`
}
