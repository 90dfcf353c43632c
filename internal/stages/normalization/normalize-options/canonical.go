package normalizeoptions

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"order-etl/internal/knowledge"
	"order-etl/internal/models"
)

var (
	shotRe      = regexp.MustCompile(`[-+]?\d+`)
	oversizedRe = regexp.MustCompile(`^(?:X+|\d+X)L$`)
)

var sizeWords = map[string]string{
	"S":      models.SizeSmall,
	"SMALL":  models.SizeSmall,
	"M":      models.SizeMedium,
	"MEDIUM": models.SizeMedium,
	"L":      models.SizeLarge,
	"LARGE":  models.SizeLarge,
}

var iceWords = map[string]string{
	"none":    models.IceLess,
	"less":    models.IceLess,
	"regular": models.IceNormal,
	"normal":  models.IceNormal,
	"more":    models.IceMore,
}

// CanonicalSize maps a size onto S, M or L. XL, XXL, 2XL and friends
// collapse to L. Anything else is rejected.
func CanonicalSize(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	u := strings.ToUpper(strings.TrimSpace(s))
	if c, ok := sizeWords[u]; ok {
		return c, true
	}
	if oversizedRe.MatchString(u) {
		return models.SizeLarge, true
	}
	return "", false
}

// CanonicalTemp accepts ICE or HOT in any case.
func CanonicalTemp(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	u := strings.ToUpper(strings.TrimSpace(s))
	if models.Contains(models.Temperatures, u) {
		return u, true
	}
	return "", false
}

// CanonicalIce maps NONE and LESS to less, REGULAR to normal, MORE to more.
func CanonicalIce(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	c, ok := iceWords[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// CanonicalShot extracts an integer shot count and clamps it at zero.
// Strings like "+1" use their first signed integer.
func CanonicalShot(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return clamp(int64(x)), true
	case int64:
		return clamp(x), true
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return clamp(int64(x)), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return clamp(n), true
	case string:
		m := shotRe.FindString(x)
		if m == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0, false
		}
		return clamp(n), true
	}
	return 0, false
}

func clamp(n int64) int {
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// canonicalValue canonicalizes one option value; ok is false when the key
// is outside the enumeration or the value has no canonical form.
func canonicalValue(key string, v interface{}) (interface{}, bool) {
	switch key {
	case models.OptionSize:
		return CanonicalSize(v)
	case models.OptionTemp:
		return CanonicalTemp(v)
	case models.OptionIce:
		return CanonicalIce(v)
	case models.OptionShot:
		return CanonicalShot(v)
	case models.OptionSyrup:
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}
	return nil, false
}

// NormalizeOptions keeps only enumerated keys with a canonical value and
// reports how many keys it dropped. An empty result is nil.
func NormalizeOptions(raw map[string]interface{}) (models.Options, int) {
	if len(raw) == 0 {
		return nil, 0
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := models.Options{}
	dropped := 0
	for _, k := range keys {
		v, ok := canonicalValue(k, raw[k])
		if !ok {
			dropped++
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil, dropped
	}
	return out, dropped
}

// NormalizeApply turns an alias rule into its artifact form: the optional
// sku plus its normalized options, flattened into one object.
func NormalizeApply(rule knowledge.AliasRule) (models.AliasApply, int) {
	out := models.AliasApply{}
	if rule.HasSKU() {
		out["sku"] = rule.SKU
	}
	opts, dropped := NormalizeOptions(rule.Options)
	for k, v := range opts {
		out[k] = v
	}
	return out, dropped
}
