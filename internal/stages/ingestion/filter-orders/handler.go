package filterorders

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/nlu"
)

const StageName = "filter-orders"

var ErrInvalidIntentPattern = errors.New("INVALID_INTENT_PATTERN")

type Handler struct {
	config *Config
	intent *regexp.Regexp
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	intent, err := nlu.IntentPattern(config.IntentPattern, config.IntentKeywords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIntentPattern, err)
	}
	return &Handler{
		config: config,
		intent: intent,
		logger: logger.ForStage(log, StageName),
	}, nil
}

// Execute concatenates <raw>/<domain>_*.csv in name order, keeps customer
// question rows whose utterance matches the intent pattern and writes them
// to the interim file.
func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	pattern := filepath.Join(h.config.RawDir, h.config.Domain+"_*.csv")
	sources, err := filepath.Glob(pattern)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(pattern, err.Error())
	}
	if len(sources) == 0 {
		return nil, apperrors.NewConfigMissingError(pattern)
	}
	sort.Strings(sources)

	tables := make([]*fileio.Table, 0, len(sources))
	for _, src := range sources {
		t, err := fileio.ReadCSV(src)
		if err != nil {
			return nil, apperrors.NewArtifactIOError(src, err)
		}
		tables = append(tables, t)
	}
	all := fileio.Concat(tables...)
	kept := h.Filter(all)

	if err := fileio.WriteCSV(h.config.OutputFile, kept); err != nil {
		return nil, apperrors.NewArtifactIOError(h.config.OutputFile, err)
	}

	h.logger.Info("filtered order-like utterances", map[string]interface{}{
		"sources": len(sources),
		"rows":    len(all.Rows),
		"kept":    len(kept.Rows),
		"output":  h.config.OutputFile,
	})
	return &Output{
		Sources:    sources,
		TotalRows:  len(all.Rows),
		KeptRows:   len(kept.Rows),
		OutputFile: h.config.OutputFile,
	}, nil
}

// Filter keeps rows spoken by the customer, flagged as a question and
// matching the intent pattern. Row order is preserved.
func (h *Handler) Filter(t *fileio.Table) *fileio.Table {
	out := &fileio.Table{Header: t.Header}
	for _, row := range t.Rows {
		if row[ColumnSpeaker] != SpeakerCustomer || row[ColumnQA] != QAQuestion {
			continue
		}
		if !h.intent.MatchString(row[ColumnUtterance]) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
