package validateartifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/common/validation"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
	"order-etl/pkg/menu"
)

const StageName = "validate-artifacts"

type Handler struct {
	config  *Config
	schemas *validation.Store
	logger  logger.Logger
	now     func() time.Time
}

func NewHandler(config *Config, schemas *validation.Store, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		schemas: schemas,
		logger:  logger.ForStage(log, StageName),
		now:     time.Now,
	}
}

// Execute runs the schema, semantic and manifest phases in order. Each
// phase only runs when the previous one found nothing.
func (h *Handler) Execute(_ *Input) (*Output, error) {
	start := time.Now()
	defer metrics.ObserveStage(StageName, start)

	for _, name := range []string{AliasesFile, FewShotsFile, EvalsetFile} {
		if p := h.path(name); !fileio.Exists(p) {
			return nil, apperrors.NewConfigMissingError(p)
		}
	}

	out := &Output{}

	aliases, schemaErrs, err := h.schemaPhase()
	if err != nil {
		return nil, err
	}
	out.Report.SchemaErrors = schemaErrs
	if len(schemaErrs) > 0 {
		metrics.ValidationProblems.WithLabelValues(metrics.PhaseSchema).Add(float64(len(schemaErrs)))
		return out, apperrors.NewSchemaViolationError(len(schemaErrs), validation.Preview(schemaErrs, h.config.SchemaPreviewLimit))
	}

	problems, err := h.semanticPhase()
	if err != nil {
		return nil, err
	}
	out.Report.SemanticProblems = problems
	if len(problems) > 0 {
		metrics.ValidationProblems.WithLabelValues(metrics.PhaseSemantic).Add(float64(len(problems)))
		return out, apperrors.NewSemanticViolationError(len(problems), validation.Preview(problems, h.config.SemanticPreviewLimit))
	}

	out.Report.AliasConflicts = h.scanAliasConflicts()

	manifest, err := h.buildManifest(len(aliases))
	if err != nil {
		return out, err
	}
	out.Manifest = manifest
	out.ManifestFile = h.path(ManifestFile)
	if err := fileio.WriteJSON(out.ManifestFile, manifest); err != nil {
		return out, apperrors.NewArtifactIOError(out.ManifestFile, err)
	}

	h.logger.Info("artifacts valid, manifest written", map[string]interface{}{
		"aliases":        manifest.Counts.Aliases,
		"fewShots":       manifest.Counts.FewShots,
		"evalset":        manifest.Counts.Evalset,
		"aliasConflicts": len(out.Report.AliasConflicts),
		"output":         out.ManifestFile,
	})
	return out, nil
}

func (h *Handler) path(name string) string {
	return filepath.Join(h.config.OutputDir, name)
}

// ==========================
// Phase 1: schema
// ==========================

// schemaPhase validates aliases.json and both JSON-lines artifacts. It
// returns the decoded alias table for the manifest counts.
func (h *Handler) schemaPhase() (map[string]interface{}, []models.SchemaError, error) {
	var errs []models.SchemaError

	aliasPath := h.path(AliasesFile)
	data, err := os.ReadFile(aliasPath)
	if err != nil {
		return nil, nil, apperrors.NewArtifactIOError(aliasPath, err)
	}
	doc, err := validation.DecodeDocument(data)
	if err != nil {
		errs = append(errs, models.SchemaError{Location: AliasesFile, Message: "invalid JSON: " + err.Error()})
	} else {
		found, err := h.schemas.Validate(validation.SchemaAliases, doc)
		if err != nil {
			return nil, nil, err
		}
		errs = append(errs, locate(AliasesFile, found)...)
	}
	aliases, _ := doc.(map[string]interface{})

	for _, a := range []struct{ file, schema string }{
		{FewShotsFile, validation.SchemaFewShots},
		{EvalsetFile, validation.SchemaEvalset},
	} {
		found, err := h.validateLines(a.file, a.schema)
		if err != nil {
			return nil, nil, err
		}
		errs = append(errs, found...)
	}
	return aliases, errs, nil
}

func (h *Handler) validateLines(file, schema string) ([]models.SchemaError, error) {
	p := h.path(file)
	lines, err := fileio.ReadLines(p)
	if err != nil {
		return nil, apperrors.NewArtifactIOError(p, err)
	}
	var errs []models.SchemaError
	for _, l := range lines {
		where := fmt.Sprintf("%s:%d", file, l.Number)
		doc, err := validation.DecodeDocument(l.Raw)
		if err != nil {
			errs = append(errs, models.SchemaError{Location: where, Message: "invalid JSON: " + err.Error()})
			continue
		}
		found, err := h.schemas.Validate(schema, doc)
		if err != nil {
			return nil, err
		}
		errs = append(errs, locate(where, found)...)
	}
	return errs, nil
}

func locate(prefix string, errs []models.SchemaError) []models.SchemaError {
	out := make([]models.SchemaError, 0, len(errs))
	for _, e := range errs {
		out = append(out, models.SchemaError{Location: prefix + ":" + e.Location, Message: e.Message})
	}
	return out
}

// ==========================
// Phase 2: semantic preflight
// ==========================

// semanticPhase checks every order item of both JSON-lines artifacts and
// collects all problems before returning.
func (h *Handler) semanticPhase() ([]models.SemanticProblem, error) {
	products, err := h.loadProfiles()
	if err != nil {
		return nil, err
	}

	var problems []models.SemanticProblem
	for _, file := range []string{FewShotsFile, EvalsetFile} {
		p := h.path(file)
		lines, err := fileio.ReadLines(p)
		if err != nil {
			return nil, apperrors.NewArtifactIOError(p, err)
		}
		for _, l := range lines {
			var rec itemCarrier
			dec := json.NewDecoder(bytes.NewReader(l.Raw))
			dec.UseNumber()
			if err := dec.Decode(&rec); err != nil {
				problems = append(problems, models.SemanticProblem{Source: file, LineNumber: l.Number, Message: err.Error()})
				continue
			}
			for _, env := range []*orderEnvelope{rec.Target, rec.Gold} {
				if env == nil {
					continue
				}
				for _, item := range env.Order.Items {
					for _, msg := range CheckItem(item.SKU, item.Options, products) {
						problems = append(problems, models.SemanticProblem{Source: file, LineNumber: l.Number, Message: msg})
					}
				}
			}
		}
	}
	return problems, nil
}

// loadProfiles prefers the compiled menu artifact and falls back to the
// catalog definition.
func (h *Handler) loadProfiles() (Profiles, error) {
	var catalog *knowledge.Catalog
	compiledPath := h.path(MenuFile)
	if fileio.Exists(compiledPath) {
		m, err := menu.Load(compiledPath)
		if err != nil {
			return nil, apperrors.NewConfigInvalidError(compiledPath, err.Error())
		}
		catalog = knowledge.CatalogFromMenu(m)
	} else {
		c, err := knowledge.LoadCatalog(h.config.MenuFile)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	out := make(Profiles, len(catalog.Products))
	for _, p := range catalog.Products {
		out[p.SKU] = p.Profile
	}
	return out, nil
}

// ==========================
// Phase 3: manifest
// ==========================

// scanAliasConflicts reports terms that duplicate alias entries bind to
// different skus. Findings are logged and never fail the run.
func (h *Handler) scanAliasConflicts() []models.AliasConflict {
	rules, err := knowledge.LoadAliases(h.config.AliasFile)
	if err != nil {
		h.logger.Warn("alias definition could not be scanned for conflicts", map[string]interface{}{
			"path":  h.config.AliasFile,
			"error": err,
		})
		return nil
	}
	conflicts := knowledge.FindAliasConflicts(rules)
	for _, c := range conflicts {
		metrics.AliasConflicts.Inc()
		h.logger.Warn("alias term remapped to a different sku", map[string]interface{}{
			"errorCode":   string(apperrors.ErrCodeDataQualityWarning),
			"term":        c.Term,
			"previousSku": c.PreviousSKU,
			"newSku":      c.NewSKU,
		})
	}
	return conflicts
}

func (h *Handler) buildManifest(aliasCount int) (*models.Manifest, error) {
	fewShots, err := fileio.CountRecords(h.path(FewShotsFile))
	if err != nil {
		return nil, apperrors.NewArtifactIOError(h.path(FewShotsFile), err)
	}
	evalset, err := fileio.CountRecords(h.path(EvalsetFile))
	if err != nil {
		return nil, apperrors.NewArtifactIOError(h.path(EvalsetFile), err)
	}
	hash, err := fileio.FileSHA256(h.path(AliasesFile))
	if err != nil {
		return nil, apperrors.NewArtifactIOError(h.path(AliasesFile), err)
	}

	m := &models.Manifest{
		Domain:      h.config.Domain,
		Version:     h.config.Version,
		GeneratedAt: h.now().UTC().Format(time.RFC3339),
		Counts: models.ManifestCounts{
			Aliases:  aliasCount,
			FewShots: fewShots,
			Evalset:  evalset,
		},
		SourceHash:      hash,
		PatternsVersion: h.config.PatternsVersion,
	}

	errs, err := h.schemas.ValidateValue(validation.SchemaManifest, m)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		errs = locate(ManifestFile, errs)
		return nil, apperrors.NewSchemaViolationError(len(errs), validation.Preview(errs, h.config.SchemaPreviewLimit))
	}
	return m, nil
}
