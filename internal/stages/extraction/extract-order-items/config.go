// internal/stages/extraction/extract-order-items/config.go
package extractorderitems

import "order-etl/internal/common/config"

type Config struct {
	FuzzyThreshold float64
	IntentPattern  string
	IntentKeywords []string
	// Rules is the reserved rule-set extension point. No rule reads it yet.
	Rules config.RulesConfig
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		FuzzyThreshold: cfg.Extraction.FuzzyThreshold,
		IntentPattern:  cfg.Extraction.IntentPattern,
		IntentKeywords: cfg.Extraction.IntentKeywords,
		Rules:          cfg.Rules,
	}
}
