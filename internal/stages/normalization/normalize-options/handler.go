package normalizeoptions

import (
	"errors"
	"time"

	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
)

const StageName = "normalize-options"

var ErrClauseMismatch = errors.New("CLAUSE_MISMATCH")

// AliasSource finds the alias rules whose term occurs in a text.
type AliasSource interface {
	AliasesIn(text string) []knowledge.AliasRule
}

type Handler struct {
	config  *Config
	aliases AliasSource
	logger  logger.Logger
}

func NewHandler(config *Config, aliases AliasSource, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		aliases: aliases,
		logger:  logger.ForStage(log, StageName),
	}
}

// Execute merges alias options into each item for keys the detectors left
// unset, then canonicalizes every option value. Item order is preserved.
func (h *Handler) Execute(input *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	if len(input.Clauses) > 0 && len(input.Clauses) != len(input.Items) {
		return nil, ErrClauseMismatch
	}

	out := &Output{Items: make([]models.OrderLineItem, 0, len(input.Items))}
	for i, item := range input.Items {
		merged := map[string]interface{}(item.Options.Clone())
		if merged == nil {
			merged = map[string]interface{}{}
		}
		if h.aliases != nil && i < len(input.Clauses) {
			for _, rule := range h.aliases.AliasesIn(input.Clauses[i]) {
				opts, dropped := NormalizeOptions(rule.Options)
				out.DroppedKeys += dropped
				for k, v := range opts {
					if _, set := merged[k]; !set {
						merged[k] = v
					}
				}
			}
		}

		opts, dropped := NormalizeOptions(merged)
		out.DroppedKeys += dropped

		next := item.Clone()
		next.Options = opts
		out.Items = append(out.Items, next)
	}

	if out.DroppedKeys > 0 {
		metrics.OptionKeysDropped.WithLabelValues(StageName).Add(float64(out.DroppedKeys))
		h.logger.Warn("dropped option keys outside the enumeration or without a canonical value", map[string]interface{}{
			"dropped": out.DroppedKeys,
			"items":   len(input.Items),
		})
	}
	return out, nil
}
