// internal/stages/normalization/normalize-options/config.go
package normalizeoptions

// No tunables yet; kept for the same constructor shape as the other stages.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
