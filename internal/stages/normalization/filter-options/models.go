package filteroptions

import "order-etl/internal/models"

type Input struct {
	Items []models.OrderLineItem
}

type Output struct {
	Items       []models.OrderLineItem
	Excluded    []string // skus without a capability profile, in item order
	DroppedKeys int
}
