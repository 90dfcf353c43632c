// internal/stages/extraction/extract-order-items/models.go
package extractorderitems

import "order-etl/internal/models"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Outcome models.Outcome `json:"outcome"`
	// Clauses holds, for each item, the clause it was extracted from.
	Clauses []string `json:"clauses,omitempty"`
}
