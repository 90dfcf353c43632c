// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "order-etl/internal/common/errors"
)

// Load reads configs/config.yaml (plus config.<APP_ENVIRONMENT>.yaml) with env overrides.
// Relative paths resolve against the project root, the directory holding configs_dir.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.NewConfigInvalidError(v.ConfigFileUsed(), err.Error())
		}
	}

	base := v.ConfigFileUsed()

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	cfg, err := finish(v)
	if err != nil {
		if base == "" {
			return nil, apperrors.NewConfigMissingError(filepath.Join("configs", "config.yaml"))
		}
		return nil, apperrors.NewConfigInvalidError(base, err.Error())
	}
	if cfg.Paths.Root == "" && base != "" {
		cfg.Paths.Root = projectRoot(filepath.Dir(base), cfg.Paths.ConfigsDir)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
// A missing file is CONFIG_MISSING; unreadable or invalid content is CONFIG_INVALID.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewConfigMissingError(path)
		}
		return nil, apperrors.NewConfigInvalidError(path, err.Error())
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewConfigInvalidError(path, err.Error())
	}

	cfg, err := finish(v)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(path, err.Error())
	}
	if cfg.Paths.Root == "" {
		cfg.Paths.Root = projectRoot(filepath.Dir(path), cfg.Paths.ConfigsDir)
	}
	return cfg, nil
}

// projectRoot returns the directory from which configsDir reaches configDir.
// When configDir does not end in configsDir it is its own root.
func projectRoot(configDir, configsDir string) string {
	configDir = filepath.Clean(configDir)
	configsDir = filepath.Clean(configsDir)
	if configsDir == "." || filepath.IsAbs(configsDir) {
		return configDir
	}
	if configDir == configsDir {
		return "."
	}
	if suffix := string(filepath.Separator) + configsDir; strings.HasSuffix(configDir, suffix) {
		return strings.TrimSuffix(configDir, suffix)
	}
	return configDir
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ORDER_ETL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("domain")
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "order-etl"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Paths.RawDir == "" {
		cfg.Paths.RawDir = "data/raw"
	}
	if cfg.Paths.InterimDir == "" {
		cfg.Paths.InterimDir = "data/interim"
	}
	if cfg.Paths.OutputsDir == "" {
		cfg.Paths.OutputsDir = "outputs"
	}
	if cfg.Paths.ConfigsDir == "" {
		cfg.Paths.ConfigsDir = "configs"
	}

	if cfg.Extraction.FuzzyThreshold == 0 {
		cfg.Extraction.FuzzyThreshold = 88
	}
	if cfg.Extraction.IntentPattern == "" && len(cfg.Extraction.IntentKeywords) == 0 {
		cfg.Extraction.IntentKeywords = append([]string(nil), DefaultIntentKeywords...)
	}

	if cfg.Dataset.FewShotK == 0 {
		cfg.Dataset.FewShotK = 50
	}
	if cfg.Dataset.FewShotSeed == 0 {
		cfg.Dataset.FewShotSeed = 42
	}
	if cfg.Dataset.EvalN == 0 {
		cfg.Dataset.EvalN = 300
	}
	if cfg.Dataset.EvalSeed == 0 {
		cfg.Dataset.EvalSeed = 123
	}

	if cfg.Validation.PatternsVersion == "" {
		cfg.Validation.PatternsVersion = "2025-10-20"
	}
	if cfg.Validation.ArtifactVersion == "" {
		cfg.Validation.ArtifactVersion = "0.1.0"
	}
	if cfg.Validation.SchemaPreviewLimit == 0 {
		cfg.Validation.SchemaPreviewLimit = 3
	}
	if cfg.Validation.SemanticPreviewLimit == 0 {
		cfg.Validation.SemanticPreviewLimit = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if cfg.Extraction.FuzzyThreshold < 0 || cfg.Extraction.FuzzyThreshold > 100 {
		return fmt.Errorf("extraction.fuzzy_threshold must be within 0..100, got %v", cfg.Extraction.FuzzyThreshold)
	}
	if cfg.Dataset.FewShotK < 0 || cfg.Dataset.EvalN < 0 {
		return fmt.Errorf("dataset sizes must be non-negative")
	}
	return nil
}
