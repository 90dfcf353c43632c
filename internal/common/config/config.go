// internal/common/config/config.go
package config

import "path/filepath"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Domain     string           `mapstructure:"domain"`
	Paths      PathsConfig      `mapstructure:"paths"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Validation ValidationConfig `mapstructure:"validation"`
	Rules      RulesConfig      `mapstructure:"rules"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PathsConfig describes the on-disk layout. Relative paths resolve against Root.
type PathsConfig struct {
	Root       string `mapstructure:"root"`
	RawDir     string `mapstructure:"raw_dir"`
	InterimDir string `mapstructure:"interim_dir"`
	OutputsDir string `mapstructure:"outputs_dir"`
	ConfigsDir string `mapstructure:"configs_dir"`
	SchemasDir string `mapstructure:"schemas_dir"` // empty: use embedded schemas
}

func (p PathsConfig) resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Root, dir)
}

// Raw returns the directory holding raw utterance CSVs.
func (p PathsConfig) Raw() string { return p.resolve(p.RawDir) }

// Interim returns the directory holding filtered utterances.
func (p PathsConfig) Interim() string { return p.resolve(p.InterimDir) }

// Configs returns the directory holding menu/alias definitions.
func (p PathsConfig) Configs() string { return p.resolve(p.ConfigsDir) }

// Schemas returns the schema directory, or "" when embedded schemas should be used.
func (p PathsConfig) Schemas() string { return p.resolve(p.SchemasDir) }

// Outputs returns the per-domain artifact directory.
func (p PathsConfig) Outputs(domain string) string {
	return filepath.Join(p.resolve(p.OutputsDir), domain)
}

// MenuFile returns configs/menu.<domain>.yml.
func (p PathsConfig) MenuFile(domain string) string {
	return filepath.Join(p.Configs(), "menu."+domain+".yml")
}

// AliasFile returns configs/aliases.<domain>.yml.
func (p PathsConfig) AliasFile(domain string) string {
	return filepath.Join(p.Configs(), "aliases."+domain+".yml")
}

// InterimFile returns interim/<domain>_orders.csv.
func (p PathsConfig) InterimFile(domain string) string {
	return filepath.Join(p.Interim(), domain+"_orders.csv")
}

// ExtractionConfig controls product matching and the order-intent gate.
type ExtractionConfig struct {
	FuzzyThreshold float64  `mapstructure:"fuzzy_threshold"`
	IntentPattern  string   `mapstructure:"intent_pattern"`
	IntentKeywords []string `mapstructure:"intent_keywords"`
}

// DatasetConfig controls sampling for few-shot and evaluation artifacts.
type DatasetConfig struct {
	FewShotK    int   `mapstructure:"fewshot_k"`
	FewShotSeed int64 `mapstructure:"fewshot_seed"`
	EvalN       int   `mapstructure:"eval_n"`
	EvalSeed    int64 `mapstructure:"eval_seed"`
}

// ValidationConfig controls manifest stamping and error previews.
type ValidationConfig struct {
	PatternsVersion      string `mapstructure:"patterns_version"`
	ArtifactVersion      string `mapstructure:"artifact_version"`
	SchemaPreviewLimit   int    `mapstructure:"schema_preview_limit"`
	SemanticPreviewLimit int    `mapstructure:"semantic_preview_limit"`
}

// RulesConfig is reserved for future rule sets. It is read and passed to the
// extractor but no rule consumes it yet.
type RulesConfig struct {
	Version string                 `mapstructure:"version"`
	Params  map[string]interface{} `mapstructure:"params"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the textfile path metrics are flushed to after a run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// DefaultIntentKeywords is the order-intent vocabulary used when none is configured.
var DefaultIntentKeywords = []string{
	"주문", "추가", "빼", "변경", "포장", "테이크아웃", "사이즈", "샷", "시럽",
	"뜨거운", "차가운", "아이스", "핫", "수량", "개", "잔", "세트", "메뉴", "옵션",
}
