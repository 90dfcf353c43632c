package validateartifacts

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"order-etl/internal/models"
)

// CheckItem runs the semantic checks on one order item and returns one
// message per problem. An unknown sku stops the checks for that item.
func CheckItem(sku string, options map[string]interface{}, products Profiles) []string {
	profile, ok := products[sku]
	if !ok {
		return []string{fmt.Sprintf("unknown sku: %s", sku)}
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, k := range keys {
		v := options[k]
		if !models.IsOptionKey(k) {
			problems = append(problems, fmt.Sprintf("unknown option key: %s", k))
			continue
		}
		if k != models.OptionTemp && !models.Contains(profile.AllowedOptionKeys, k) {
			problems = append(problems, fmt.Sprintf("option %s not allowed for %s", k, sku))
		}
		switch k {
		case models.OptionSize:
			if !inEnum(v, models.Sizes) {
				problems = append(problems, fmt.Sprintf("invalid size: %v", v))
			}
		case models.OptionTemp:
			if !inEnum(v, models.Temperatures) {
				problems = append(problems, fmt.Sprintf("invalid temp: %v", v))
			} else if len(profile.SupportedTemperatures) > 0 && !inEnum(v, profile.SupportedTemperatures) {
				problems = append(problems, fmt.Sprintf("temp %v not supported by %s", v, sku))
			}
		case models.OptionIce:
			if !inEnum(v, models.IceLevels) {
				problems = append(problems, fmt.Sprintf("invalid ice: %v", v))
			}
		case models.OptionShot:
			if !isNonNegativeInt(v) {
				problems = append(problems, fmt.Sprintf("invalid shot: %v", v))
			}
		}
	}
	return problems
}

func inEnum(v interface{}, values []string) bool {
	s, ok := v.(string)
	return ok && models.Contains(values, s)
}

func isNonNegativeInt(v interface{}) bool {
	switch x := v.(type) {
	case int:
		return x >= 0
	case int64:
		return x >= 0
	case float64:
		return x >= 0 && x == math.Trunc(x)
	case json.Number:
		n, err := x.Int64()
		return err == nil && n >= 0
	}
	return false
}
