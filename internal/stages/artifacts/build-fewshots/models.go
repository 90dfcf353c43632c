package buildfewshots

import "order-etl/internal/models"

type Input struct{}

type Output struct {
	Records    []models.FewShotRecord `json:"records"`
	Sampled    int                    `json:"sampled"`
	Excluded   int                    `json:"excluded"`
	OutputFile string                 `json:"outputFile"`
}
