package buildevalset

import "order-etl/internal/models"

type Input struct{}

type Output struct {
	Records    []models.EvalRecord `json:"records"`
	Sampled    int                 `json:"sampled"`
	Excluded   int                 `json:"excluded"`
	Asks       int                 `json:"asks"`
	OutputFile string              `json:"outputFile"`
}
