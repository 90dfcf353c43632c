// internal/stages/normalization/normalize-options/models.go
package normalizeoptions

import "order-etl/internal/models"

type Input struct {
	Items []models.OrderLineItem `json:"items"`
	// Clauses is parallel to Items. Alias terms are looked up in each item's clause.
	Clauses []string `json:"clauses,omitempty"`
}

type Output struct {
	Items       []models.OrderLineItem `json:"items"`
	DroppedKeys int                    `json:"droppedKeys"`
}
