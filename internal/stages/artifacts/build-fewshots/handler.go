package buildfewshots

import (
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/models"
	"order-etl/internal/stages/drafting"
)

const StageName = "build-fewshots"

// Drafter produces the outcome for one utterance.
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

// Execute samples K interim utterances and writes one ORDER_DRAFT or ASK
// record for each one that passes the gate.
func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	texts, err := drafting.LoadUtterances(h.config.InterimFile)
	if err != nil {
		return nil, err
	}
	sample := drafting.Sample(texts, h.config.K, h.config.Seed)

	out := &Output{
		Records:    make([]models.FewShotRecord, 0, len(sample)),
		Sampled:    len(sample),
		OutputFile: h.config.OutputFile,
	}
	for _, text := range sample {
		res, err := h.drafter.Draft(text)
		if err != nil {
			return nil, err
		}
		if res.Excluded {
			out.Excluded++
			continue
		}
		out.Records = append(out.Records, models.FewShotFromOutcome(text, res.Outcome))
	}

	if err := fileio.WriteJSONL(h.config.OutputFile, out.Records); err != nil {
		return nil, apperrors.NewArtifactIOError(h.config.OutputFile, err)
	}
	h.logger.Info("built few-shot examples", map[string]interface{}{
		"sampled":  out.Sampled,
		"excluded": out.Excluded,
		"records":  len(out.Records),
		"output":   h.config.OutputFile,
	})
	return out, nil
}
