package buildevalset

import (
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/models"
	"order-etl/internal/stages/drafting"
)

const StageName = "build-evalset"

type Drafter interface {
	Draft(text string) (drafting.Result, error)
}

type Handler struct {
	config  *Config
	drafter Drafter
	logger  logger.Logger
}

func NewHandler(config *Config, drafter Drafter, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		drafter: drafter,
		logger:  logger.ForStage(log, StageName),
	}
}

// Execute samples N interim utterances. Only order drafts become gold
// records; asks have no items to grade against and are left out.
func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	texts, err := drafting.LoadUtterances(h.config.InterimFile)
	if err != nil {
		return nil, err
	}
	sample := drafting.Sample(texts, h.config.N, h.config.Seed)

	out := &Output{
		Records:    make([]models.EvalRecord, 0, len(sample)),
		Sampled:    len(sample),
		OutputFile: h.config.OutputFile,
	}
	for _, text := range sample {
		res, err := h.drafter.Draft(text)
		if err != nil {
			return nil, err
		}
		switch {
		case res.Excluded:
			out.Excluded++
		case !res.Outcome.IsDraft():
			out.Asks++
		default:
			out.Records = append(out.Records, models.EvalRecord{
				Input: text,
				Gold:  models.OrderEnvelope{Order: models.Order{Items: res.Outcome.Items}},
			})
		}
	}

	if err := fileio.WriteJSONL(h.config.OutputFile, out.Records); err != nil {
		return nil, apperrors.NewArtifactIOError(h.config.OutputFile, err)
	}
	h.logger.Info("built evaluation set", map[string]interface{}{
		"sampled":  out.Sampled,
		"excluded": out.Excluded,
		"asks":     out.Asks,
		"records":  len(out.Records),
		"output":   h.config.OutputFile,
	})
	return out, nil
}
