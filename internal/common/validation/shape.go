// internal/common/validation/shape.go
package validation

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"order-etl/internal/models"
)

// Shape names for hand-written configuration documents.
const (
	ShapeMenuConfig  = "menu_config"
	ShapeAliasConfig = "alias_config"
)

//go:embed shapes/*.json
var embeddedShapes embed.FS

// CheckShape validates a raw configuration document (as decoded from YAML)
// against one of the embedded shape schemas.
func CheckShape(shape string, doc interface{}) ([]models.SchemaError, error) {
	raw, err := embeddedShapes.ReadFile("shapes/" + shape + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, shape)
	}

	schemaLoader := gojsonschema.NewBytesLoader(raw)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("shape validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	out := make([]models.SchemaError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		out = append(out, models.SchemaError{Location: desc.Field(), Message: desc.Description()})
	}
	return out, nil
}
