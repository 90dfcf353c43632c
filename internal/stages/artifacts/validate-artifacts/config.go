package validateartifacts

import "order-etl/internal/common/config"

// Artifact file names inside the domain output directory.
const (
	AliasesFile  = "aliases.json"
	FewShotsFile = "few_shots.jsonl"
	EvalsetFile  = "evalset.jsonl"
	MenuFile     = "menu.json"
	ManifestFile = "artifact_manifest.json"
)

type Config struct {
	Domain          string
	Version         string
	PatternsVersion string
	OutputDir       string
	// MenuFile is the catalog definition, used when no compiled menu exists.
	MenuFile string
	// AliasFile is the raw alias definition scanned for conflicts.
	AliasFile            string
	SchemaPreviewLimit   int
	SemanticPreviewLimit int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Domain:               cfg.Domain,
		Version:              cfg.Validation.ArtifactVersion,
		PatternsVersion:      cfg.Validation.PatternsVersion,
		OutputDir:            cfg.Paths.Outputs(cfg.Domain),
		MenuFile:             cfg.Paths.MenuFile(cfg.Domain),
		AliasFile:            cfg.Paths.AliasFile(cfg.Domain),
		SchemaPreviewLimit:   cfg.Validation.SchemaPreviewLimit,
		SemanticPreviewLimit: cfg.Validation.SemanticPreviewLimit,
	}
}
