package buildaliases

import (
	"path/filepath"

	"order-etl/internal/common/config"
)

const OutputName = "aliases.json"

type Config struct {
	AliasFile  string
	OutputFile string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		AliasFile:  cfg.Paths.AliasFile(cfg.Domain),
		OutputFile: filepath.Join(cfg.Paths.Outputs(cfg.Domain), OutputName),
	}
}
