// Package drafting chains the gate, extraction, normalization and filtering
// stages into one call per utterance.
package drafting

import (
	"math/rand"

	"order-etl/internal/common/config"
	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
	extract "order-etl/internal/stages/extraction/extract-order-items"
	filterorders "order-etl/internal/stages/ingestion/filter-orders"
	filter "order-etl/internal/stages/normalization/filter-options"
	normalize "order-etl/internal/stages/normalization/normalize-options"
)

// Result is the outcome for one utterance. Excluded utterances failed the
// gate and carry no outcome.
type Result struct {
	Input    string
	Excluded bool
	Outcome  models.Outcome
}

type Drafter struct {
	extractor  *extract.Handler
	normalizer *normalize.Handler
	filter     *filter.Handler
	logger     logger.Logger
}

func NewDrafter(cfg *config.Config, kb *knowledge.Base, log logger.Logger) (*Drafter, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	extractor, err := extract.NewHandler(extract.LoadConfig(cfg), kb, log)
	if err != nil {
		return nil, err
	}
	return &Drafter{
		extractor:  extractor,
		normalizer: normalize.NewHandler(normalize.LoadConfig(), kb, log),
		filter:     filter.NewHandler(filter.LoadConfig(), kb, log),
		logger:     log.WithFields(map[string]interface{}{"component": "drafter"}),
	}, nil
}

// Draft gates, extracts, normalizes and filters one utterance. When every
// extracted item is excluded by the filter the result falls back to an ask.
func (d *Drafter) Draft(text string) (Result, error) {
	res := Result{Input: text}
	if !d.extractor.Gate(text) {
		res.Excluded = true
		metrics.UtterancesProcessed.WithLabelValues(metrics.OutcomeExcluded).Inc()
		return res, nil
	}

	extracted, err := d.extractor.Execute(&extract.Input{Text: text})
	if err != nil {
		return res, err
	}
	res.Outcome = extracted.Outcome
	if !extracted.Outcome.IsDraft() {
		metrics.UtterancesProcessed.WithLabelValues(metrics.OutcomeAsk).Inc()
		return res, nil
	}

	normalized, err := d.normalizer.Execute(&normalize.Input{
		Items:   extracted.Outcome.Items,
		Clauses: extracted.Clauses,
	})
	if err != nil {
		return res, err
	}
	filtered, err := d.filter.Execute(&filter.Input{Items: normalized.Items})
	if err != nil {
		return res, err
	}

	if len(filtered.Items) == 0 {
		res.Outcome = models.NewAsk([]string{models.SlotSKU}, extract.AskQuestion)
		metrics.UtterancesProcessed.WithLabelValues(metrics.OutcomeAsk).Inc()
		return res, nil
	}
	res.Outcome = models.NewDraft(filtered.Items)
	metrics.UtterancesProcessed.WithLabelValues(metrics.OutcomeDraft).Inc()
	return res, nil
}

// DraftAll drafts every text in order.
func (d *Drafter) DraftAll(texts []string) ([]Result, error) {
	out := make([]Result, 0, len(texts))
	for _, t := range texts {
		r, err := d.Draft(t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	d.logger.Info("drafted utterances", map[string]interface{}{
		"total":    len(texts),
		"excluded": countExcluded(out),
	})
	return out, nil
}

func countExcluded(rs []Result) int {
	n := 0
	for _, r := range rs {
		if r.Excluded {
			n++
		}
	}
	return n
}

// Sample picks min(n, len(rows)) rows without replacement using a seeded
// permutation, so the same seed always yields the same rows in the same order.
func Sample(rows []string, n int, seed int64) []string {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	if n > len(rows) {
		n = len(rows)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(len(rows))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, rows[i])
	}
	return out
}

// LoadUtterances reads the utterance column of the interim CSV.
func LoadUtterances(path string) ([]string, error) {
	if !fileio.Exists(path) {
		return nil, apperrors.NewConfigMissingError(path)
	}
	t, err := fileio.ReadCSV(path)
	if err != nil {
		return nil, apperrors.NewArtifactIOError(path, err)
	}
	return t.Column(filterorders.ColumnUtterance), nil
}
