package validateartifacts

import "order-etl/internal/models"

type Input struct{}

// Output is returned alongside validation errors too, so callers can
// report the full findings.
type Output struct {
	Report       models.ValidationReport `json:"report"`
	Manifest     *models.Manifest        `json:"manifest,omitempty"`
	ManifestFile string                  `json:"manifestFile,omitempty"`
}

// Profiles maps each known sku to its capability profile.
type Profiles map[string]models.CapabilityProfile

type orderItem struct {
	SKU      string                 `json:"sku"`
	Quantity interface{}            `json:"quantity"`
	Options  map[string]interface{} `json:"options"`
}

type orderEnvelope struct {
	Order struct {
		Items []orderItem `json:"items"`
	} `json:"order"`
}

// itemCarrier covers both few-shot and evaluation lines.
type itemCarrier struct {
	Target *orderEnvelope `json:"target"`
	Gold   *orderEnvelope `json:"gold"`
}
