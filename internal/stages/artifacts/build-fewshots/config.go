package buildfewshots

import (
	"path/filepath"

	"order-etl/internal/common/config"
)

const OutputName = "few_shots.jsonl"

type Config struct {
	InterimFile string
	OutputFile  string
	K           int
	Seed        int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		InterimFile: cfg.Paths.InterimFile(cfg.Domain),
		OutputFile:  filepath.Join(cfg.Paths.Outputs(cfg.Domain), OutputName),
		K:           cfg.Dataset.FewShotK,
		Seed:        cfg.Dataset.FewShotSeed,
	}
}
