package filteroptions

import (
	"time"

	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/models"
)

const StageName = "filter-options"

// ProfileSource resolves a sku to its capability profile.
type ProfileSource interface {
	Profile(sku string) (models.CapabilityProfile, bool)
}

type Handler struct {
	config   *Config
	profiles ProfileSource
	logger   logger.Logger
}

func NewHandler(config *Config, profiles ProfileSource, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		profiles: profiles,
		logger:   logger.ForStage(log, StageName),
	}
}

// Execute prunes each item's options against its product profile. Items
// whose sku has no profile are excluded; all others are kept in order even
// when no option survives.
func (h *Handler) Execute(input *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	out := &Output{Items: make([]models.OrderLineItem, 0, len(input.Items))}
	for _, item := range input.Items {
		profile, ok := h.profiles.Profile(item.SKU)
		if !ok {
			out.Excluded = append(out.Excluded, item.SKU)
			continue
		}
		kept, dropped := Apply(item, profile)
		out.DroppedKeys += dropped
		out.Items = append(out.Items, kept)
	}

	if out.DroppedKeys > 0 {
		metrics.OptionKeysDropped.WithLabelValues(StageName).Add(float64(out.DroppedKeys))
	}
	if len(out.Excluded) > 0 {
		h.logger.Warn("excluded items without a capability profile", map[string]interface{}{
			"skus": out.Excluded,
		})
	}
	return out, nil
}

// Apply returns a copy of item holding only the options profile supports,
// plus the number of keys removed. An empty result omits options entirely.
func Apply(item models.OrderLineItem, profile models.CapabilityProfile) (models.OrderLineItem, int) {
	out := item.Clone()
	if len(out.Options) == 0 {
		out.Options = nil
		return out, 0
	}

	dropped := 0
	for _, k := range out.Options.Keys() {
		if !allowed(k, out.Options[k], profile) {
			delete(out.Options, k)
			dropped++
		}
	}
	if len(out.Options) == 0 {
		out.Options = nil
	}
	return out, dropped
}

func allowed(key string, value interface{}, profile models.CapabilityProfile) bool {
	switch {
	case !models.IsOptionKey(key):
		return false
	case key == models.OptionSize:
		return profile.SizingEnabled && models.Contains(profile.AllowedOptionKeys, key)
	case key == models.OptionTemp:
		if len(profile.SupportedTemperatures) == 0 {
			return true
		}
		s, ok := value.(string)
		return ok && models.Contains(profile.SupportedTemperatures, s)
	default:
		return models.Contains(profile.AllowedOptionKeys, key)
	}
}
