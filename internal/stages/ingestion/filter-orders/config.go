package filterorders

import "order-etl/internal/common/config"

type Config struct {
	Domain         string
	RawDir         string
	OutputFile     string
	IntentPattern  string
	IntentKeywords []string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Domain:         cfg.Domain,
		RawDir:         cfg.Paths.Raw(),
		OutputFile:     cfg.Paths.InterimFile(cfg.Domain),
		IntentPattern:  cfg.Extraction.IntentPattern,
		IntentKeywords: cfg.Extraction.IntentKeywords,
	}
}
