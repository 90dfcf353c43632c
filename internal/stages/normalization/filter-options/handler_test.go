package filteroptions

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-etl/internal/common/logger"
	"order-etl/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type profileMap map[string]models.CapabilityProfile

func (p profileMap) Profile(sku string) (models.CapabilityProfile, bool) {
	profile, ok := p[sku]
	return profile, ok
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), profileMap{
		"AMERICANO": {},
		"LATTE": {
			AllowedOptionKeys:     []string{"size", "shot", "syrup"},
			SupportedTemperatures: []string{"HOT"},
			SizingEnabled:         true,
		},
		"MOCHA": {AllowedOptionKeys: []string{"size", "ice"}},
	}, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestApply(t *testing.T) {
	latte := models.CapabilityProfile{
		AllowedOptionKeys:     []string{"size", "shot"},
		SupportedTemperatures: []string{"HOT"},
		SizingEnabled:         true,
	}

	tests := []struct {
		name    string
		item    models.OrderLineItem
		profile models.CapabilityProfile
		want    models.OrderLineItem
		dropped int
	}{
		{
			name:    "temp is exempt from the allow-list",
			item:    models.OrderLineItem{SKU: "AMERICANO", Quantity: 2, Options: models.Options{"temp": "ICE"}},
			profile: models.CapabilityProfile{},
			want:    models.OrderLineItem{SKU: "AMERICANO", Quantity: 2, Options: models.Options{"temp": "ICE"}},
		},
		{
			name:    "size needs sizing enabled",
			item:    models.OrderLineItem{SKU: "A", Quantity: 1, Options: models.Options{"size": "L", "shot": 1}},
			profile: models.CapabilityProfile{AllowedOptionKeys: []string{"size", "shot"}},
			want:    models.OrderLineItem{SKU: "A", Quantity: 1, Options: models.Options{"shot": 1}},
			dropped: 1,
		},
		{
			name:    "unsupported temperature is removed",
			item:    models.OrderLineItem{SKU: "LATTE", Quantity: 1, Options: models.Options{"temp": "ICE", "size": "M"}},
			profile: latte,
			want:    models.OrderLineItem{SKU: "LATTE", Quantity: 1, Options: models.Options{"size": "M"}},
			dropped: 1,
		},
		{
			name:    "keys outside the enumeration and allow-list go",
			item:    models.OrderLineItem{SKU: "LATTE", Quantity: 1, Options: models.Options{"whip": true, "ice": "less", "shot": 2}},
			profile: latte,
			want:    models.OrderLineItem{SKU: "LATTE", Quantity: 1, Options: models.Options{"shot": 2}},
			dropped: 2,
		},
		{
			name:    "empty result omits options",
			item:    models.OrderLineItem{SKU: "A", Quantity: 3, Options: models.Options{"size": "L", "syrup": "바닐라"}},
			profile: models.CapabilityProfile{},
			want:    models.OrderLineItem{SKU: "A", Quantity: 3},
			dropped: 2,
		},
		{
			name:    "empty options map becomes nil",
			item:    models.OrderLineItem{SKU: "A", Quantity: 1, Options: models.Options{}},
			profile: latte,
			want:    models.OrderLineItem{SKU: "A", Quantity: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := Apply(tt.item, tt.profile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dropped, dropped)
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	item := models.OrderLineItem{SKU: "A", Quantity: 1, Options: models.Options{"size": "L"}}
	_, _ = Apply(item, models.CapabilityProfile{})
	assert.Equal(t, models.Options{"size": "L"}, item.Options)
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(&Input{Items: []models.OrderLineItem{
		{SKU: "AMERICANO", Quantity: 2, Options: models.Options{"temp": "ICE", "size": "L"}},
		{SKU: "UNKNOWN_ITEM", Quantity: 1},
		{SKU: "LATTE", Quantity: 1, Options: models.Options{"temp": "HOT", "size": "L", "shot": 1}},
		{SKU: "MOCHA", Quantity: 1, Options: models.Options{"size": "M"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []models.OrderLineItem{
		{SKU: "AMERICANO", Quantity: 2, Options: models.Options{"temp": "ICE"}},
		{SKU: "LATTE", Quantity: 1, Options: models.Options{"temp": "HOT", "size": "L", "shot": 1}},
		{SKU: "MOCHA", Quantity: 1},
	}, out.Items)
	assert.Equal(t, []string{"UNKNOWN_ITEM"}, out.Excluded)
	assert.Equal(t, 2, out.DroppedKeys)
}

// ==========================
// Property Tests
// ==========================

func genOptions() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(6, gen.Bool()),
		gen.OneConstOf("S", "M", "L"),
		gen.OneConstOf("ICE", "HOT"),
		gen.IntRange(0, 3),
		gen.OneConstOf("less", "normal", "more"),
	).Map(func(v []interface{}) models.Options {
		present := v[0].([]bool)
		candidates := []struct {
			key   string
			value interface{}
		}{
			{"size", v[1]},
			{"temp", v[2]},
			{"shot", v[3]},
			{"syrup", "바닐라"},
			{"ice", v[4]},
			{"whip", true},
		}
		out := models.Options{}
		for i, c := range candidates {
			if present[i] {
				out[c.key] = c.value
			}
		}
		return out
	})
}

func genProfile() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(4, gen.Bool()),
		gen.SliceOfN(2, gen.Bool()),
		gen.Bool(),
	).Map(func(v []interface{}) models.CapabilityProfile {
		return models.CapabilityProfile{
			AllowedOptionKeys:     pick([]string{"size", "shot", "syrup", "ice"}, v[0].([]bool)),
			SupportedTemperatures: pick([]string{"ICE", "HOT"}, v[1].([]bool)),
			SizingEnabled:         v[2].(bool),
		}
	})
}

func TestApply_Monotonic(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("filtering twice equals filtering once", prop.ForAll(
		func(opts models.Options, profile models.CapabilityProfile) bool {
			once, _ := Apply(models.OrderLineItem{SKU: "X", Quantity: 1, Options: opts}, profile)
			twice, dropped := Apply(once, profile)
			return dropped == 0 && assert.ObjectsAreEqual(once, twice)
		},
		genOptions(), genProfile(),
	))

	properties.Property("no key is added", prop.ForAll(
		func(opts models.Options, profile models.CapabilityProfile) bool {
			got, dropped := Apply(models.OrderLineItem{SKU: "X", Quantity: 1, Options: opts}, profile)
			for k := range got.Options {
				if _, ok := opts[k]; !ok {
					return false
				}
			}
			return len(got.Options)+dropped == len(opts)
		},
		genOptions(), genProfile(),
	))

	properties.TestingRun(t)
}

func pick(values []string, mask []bool) []string {
	var out []string
	for i, v := range values {
		if mask[i] {
			out = append(out, v)
		}
	}
	return out
}
