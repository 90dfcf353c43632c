package buildaliases

import "order-etl/internal/models"

type Input struct{}

type Output struct {
	Aliases     models.AliasesArtifact `json:"aliases"`
	Skipped     []string               `json:"skipped,omitempty"`
	Conflicts   []models.AliasConflict `json:"conflicts,omitempty"`
	DroppedKeys int                    `json:"droppedKeys"`
	OutputFile  string                 `json:"outputFile"`
}
