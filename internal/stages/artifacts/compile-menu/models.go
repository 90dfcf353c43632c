package compilemenu

import "order-etl/pkg/menu"

type Input struct{}

type Output struct {
	Menu       *menu.CompiledMenu `json:"menu"`
	OutputFile string             `json:"outputFile"`
}
