package compilemenu

import (
	"fmt"
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/common/validation"
	"order-etl/internal/knowledge"
	"order-etl/pkg/menu"
)

const StageName = "compile-menu"

type Handler struct {
	config  *Config
	schemas *validation.Store
	logger  logger.Logger
}

// NewHandler builds the stage. schemas may be nil, which skips validating
// the compiled menu.
func NewHandler(config *Config, schemas *validation.Store, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		schemas: schemas,
		logger:  logger.ForStage(log, StageName),
	}
}

func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	catalog, err := knowledge.LoadCatalog(h.config.MenuFile)
	if err != nil {
		return nil, err
	}
	compiled := Compile(catalog)

	if h.schemas != nil && h.schemas.Has(validation.SchemaMenu) {
		problems, err := h.schemas.ValidateValue(validation.SchemaMenu, compiled)
		if err != nil {
			return nil, fmt.Errorf("validate compiled menu: %w", err)
		}
		if len(problems) > 0 {
			return nil, apperrors.NewSchemaViolationError(len(problems), validation.Preview(problems, 3))
		}
	}

	if err := fileio.WriteJSON(h.config.OutputFile, compiled); err != nil {
		return nil, apperrors.NewArtifactIOError(h.config.OutputFile, err)
	}
	h.logger.Info("compiled menu", map[string]interface{}{
		"version": compiled.Version,
		"items":   len(compiled.Items),
		"shape":   string(catalog.Shape),
		"output":  h.config.OutputFile,
	})
	return &Output{Menu: compiled, OutputFile: h.config.OutputFile}, nil
}

// Compile turns a catalog into the runtime menu. Optional fields appear
// only when the catalog declared them.
func Compile(c *knowledge.Catalog) *menu.CompiledMenu {
	out := &menu.CompiledMenu{Version: c.Version, Items: make([]menu.Item, 0, len(c.Products))}
	if out.Version == "" {
		out.Version = menu.DefaultVersion
	}
	for _, p := range c.Products {
		it := menu.Item{SKU: p.SKU, Display: p.Display}
		if p.Declared.Temps {
			it.Temps = p.Profile.SupportedTemperatures
		}
		if p.Declared.BasePrice {
			it.BasePrice = p.BasePrice
		}
		if p.Declared.SizesEnabled {
			enabled := p.Profile.SizingEnabled
			it.SizesEnabled = &enabled
		}
		if p.Declared.AllowOptions {
			it.AllowOptions = p.Profile.AllowedOptionKeys
		}
		out.Items = append(out.Items, it)
	}
	return out
}
