package extractorderitems

import (
	"errors"
	"fmt"
	"regexp"

	"order-etl/internal/common/logger"
	"order-etl/internal/models"
	"order-etl/internal/nlu"
)

const StageName = "extract-order-items"

// AskQuestion is the clarifying prompt returned when no product is recognized.
const AskQuestion = "메뉴와 (ICE/HOT), 사이즈(S/M/L)를 알려주세요."

const defaultQuantity = 1

var (
	ErrInvalidIntentPattern = errors.New("INVALID_INTENT_PATTERN")
	ErrNilInput             = errors.New("NIL_INPUT")
)

// KnowledgeBase is what extraction needs from the product knowledge.
type KnowledgeBase interface {
	nlu.PhraseIndex
	ContainsPhrase(text string) bool
}

type Handler struct {
	config *Config
	kb     KnowledgeBase
	intent *regexp.Regexp
	logger logger.Logger
}

func NewHandler(config *Config, kb KnowledgeBase, log logger.Logger) (*Handler, error) {
	intent, err := nlu.IntentPattern(config.IntentPattern, config.IntentKeywords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIntentPattern, err)
	}
	h := &Handler{
		config: config,
		kb:     kb,
		intent: intent,
		logger: logger.ForStage(log, StageName),
	}
	if config.Rules.Version != "" || len(config.Rules.Params) > 0 {
		h.logger.Debug("rule set attached", map[string]interface{}{
			"rulesVersion": config.Rules.Version,
			"ruleParams":   len(config.Rules.Params),
		})
	}
	return h, nil
}

// Gate reports whether an utterance mentions a known product phrase and
// matches the order-intent pattern. Utterances failing it are not extracted.
func (h *Handler) Gate(text string) bool {
	t := nlu.NormalizeText(text)
	return h.kb.ContainsPhrase(t) && h.intent.MatchString(t)
}

// Execute extracts one line item per clause with a recognized product, in
// clause order. No item at all yields an ask for the sku slot.
func (h *Handler) Execute(input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	text := nlu.NormalizeText(input.Text)

	var items []models.OrderLineItem
	var clauses []string
	for _, clause := range nlu.Segment(text) {
		match, ok := nlu.MatchProduct(clause, h.kb, h.config.FuzzyThreshold)
		if !ok {
			continue
		}
		if match.Fuzzy {
			h.logger.Debug("fuzzy product match", map[string]interface{}{
				"clause": clause,
				"phrase": match.Phrase,
				"score":  match.Score,
			})
		}
		items = append(items, buildItem(match.SKU, clause))
		clauses = append(clauses, clause)
	}

	if len(items) == 0 {
		return &Output{Outcome: models.NewAsk([]string{models.SlotSKU}, AskQuestion)}, nil
	}
	return &Output{Outcome: models.NewDraft(items), Clauses: clauses}, nil
}

func buildItem(sku, clause string) models.OrderLineItem {
	item := models.OrderLineItem{SKU: sku, Quantity: defaultQuantity}
	if q, ok := nlu.DetectQuantity(clause); ok && q > 0 {
		item.Quantity = q
	}
	opts := models.Options{}
	if temp, ok := nlu.DetectTemperature(clause); ok {
		opts[models.OptionTemp] = temp
	}
	if size, ok := nlu.DetectSize(clause); ok {
		opts[models.OptionSize] = size
	}
	if len(opts) > 0 {
		item.Options = opts
	}
	return item
}
