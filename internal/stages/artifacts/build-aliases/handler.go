package buildaliases

import (
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
	normalize "order-etl/internal/stages/normalization/normalize-options"
)

const StageName = "build-aliases"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: logger.ForStage(log, StageName),
	}
}

// Execute normalizes every alias rule into its artifact form and writes
// aliases.json. A missing alias file produces an empty artifact.
func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	rules, err := knowledge.LoadAliases(h.config.AliasFile)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		h.logger.Info("no alias rules, writing an empty artifact", map[string]interface{}{
			"path": h.config.AliasFile,
		})
	}

	out := Build(rules)
	out.OutputFile = h.config.OutputFile

	if out.DroppedKeys > 0 {
		metrics.OptionKeysDropped.WithLabelValues(StageName).Add(float64(out.DroppedKeys))
	}
	for _, c := range out.Conflicts {
		h.logger.Warn("alias term remapped to a different sku", map[string]interface{}{
			"errorCode":   string(apperrors.ErrCodeDataQualityWarning),
			"term":        c.Term,
			"previousSku": c.PreviousSKU,
			"newSku":      c.NewSKU,
		})
	}

	if err := fileio.WriteJSON(h.config.OutputFile, out.Aliases); err != nil {
		return nil, apperrors.NewArtifactIOError(h.config.OutputFile, err)
	}
	h.logger.Info("built aliases", map[string]interface{}{
		"rules":   len(rules),
		"aliases": len(out.Aliases),
		"skipped": len(out.Skipped),
		"output":  h.config.OutputFile,
	})
	return out, nil
}

// Build maps each term to its normalized apply object. Rules that normalize
// to nothing are skipped and a later rule for the same term replaces an
// earlier one.
func Build(rules []knowledge.AliasRule) *Output {
	out := &Output{
		Aliases:   models.AliasesArtifact{},
		Conflicts: knowledge.FindAliasConflicts(rules),
	}
	for _, r := range rules {
		apply, dropped := normalize.NormalizeApply(r)
		out.DroppedKeys += dropped
		if len(apply) == 0 {
			out.Skipped = append(out.Skipped, r.Term)
			continue
		}
		out.Aliases[r.Term] = apply
	}
	return out
}
