package compilemenu

import (
	"path/filepath"

	"order-etl/internal/common/config"
)

// OutputName is the compiled menu file inside the domain output directory.
const OutputName = "menu.json"

type Config struct {
	MenuFile   string
	OutputFile string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		MenuFile:   cfg.Paths.MenuFile(cfg.Domain),
		OutputFile: filepath.Join(cfg.Paths.Outputs(cfg.Domain), OutputName),
	}
}
