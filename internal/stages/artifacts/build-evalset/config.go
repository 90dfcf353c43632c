package buildevalset

import (
	"path/filepath"

	"order-etl/internal/common/config"
)

const OutputName = "evalset.jsonl"

type Config struct {
	InterimFile string
	OutputFile  string
	N           int
	Seed        int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		InterimFile: cfg.Paths.InterimFile(cfg.Domain),
		OutputFile:  filepath.Join(cfg.Paths.Outputs(cfg.Domain), OutputName),
		N:           cfg.Dataset.EvalN,
		Seed:        cfg.Dataset.EvalSeed,
	}
}
