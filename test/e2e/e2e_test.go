// test/e2e/e2e_test.go
package e2e

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-etl/internal/common/config"
	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/common/validation"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
	buildaliases "order-etl/internal/stages/artifacts/build-aliases"
	buildevalset "order-etl/internal/stages/artifacts/build-evalset"
	buildfewshots "order-etl/internal/stages/artifacts/build-fewshots"
	compilemenu "order-etl/internal/stages/artifacts/compile-menu"
	validateartifacts "order-etl/internal/stages/artifacts/validate-artifacts"
	"order-etl/internal/stages/drafting"
	extract "order-etl/internal/stages/extraction/extract-order-items"
	filterorders "order-etl/internal/stages/ingestion/filter-orders"
)

// ==========================
// Workspace Fixtures
// ==========================

const menuYAML = `
version: 0.1.0
items:
  - sku: AMERICANO
    display: 아메리카노
    temps: [ICE, HOT]
    sizes_enabled: false
    allow_options: []
  - sku: LATTE
    display: 라떼
    alt: [카페라떼]
    temps: [HOT]
    sizes_enabled: true
    allow_options: [size, shot, syrup]
`

const aliasYAML = `
aliases:
  - term: 아아
    apply: {sku: AMERICANO, options: {temp: ICE}}
  - term: 샷추가
    apply: {options: {shot: "+1"}}
  - term: 아아
    apply: {sku: LATTE}
`

const rawPart1 = "\ufeff발화자,QA여부,발화문\n" +
	"c,q,아이스 아메리카노 두 잔 주세요\n" +
	"s,q,아메리카노 두 잔 주문 받았습니다\n" +
	"c,a,라떼 한 잔 주세요\n"

const rawPart2 = "발화자,QA여부,발화문\n" +
	"c,q,화장실 어디예요\n" +
	"c,q,물 한 잔 주세요\n" +
	"c,q,뜨거운 라떼 샷추가 한 잔\n"

type workspace struct {
	root string
	cfg  *config.Config
	log  logger.Logger
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"configs/menu.cafe.yml":    menuYAML,
		"configs/aliases.cafe.yml": aliasYAML,
		"data/raw/cafe_01.csv":     rawPart1,
		"data/raw/cafe_02.csv":     rawPart2,
		"data/raw/bakery_01.csv":   rawPart1,
		"configs/config.yaml": `
domain: cafe
paths:
  root: ` + root + `
logging:
  level: debug
`,
	}
	for name, body := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	cfg, err := config.LoadFromFile(filepath.Join(root, "configs", "config.yaml"))
	require.NoError(t, err)
	return &workspace{root: root, cfg: cfg, log: logger.NewTestLogger(t)}
}

func (w *workspace) output(name string) string {
	return filepath.Join(w.cfg.Paths.Outputs(w.cfg.Domain), name)
}

func (w *workspace) drafter(t *testing.T) *drafting.Drafter {
	t.Helper()
	kb, err := knowledge.Load(w.cfg.Paths.MenuFile(w.cfg.Domain), w.cfg.Paths.AliasFile(w.cfg.Domain), w.log)
	require.NoError(t, err)
	d, err := drafting.NewDrafter(w.cfg, kb, w.log)
	require.NoError(t, err)
	return d
}

func (w *workspace) validator(t *testing.T) *validateartifacts.Handler {
	t.Helper()
	store, err := validation.NewStore(w.cfg.Paths.Schemas())
	require.NoError(t, err)
	return validateartifacts.NewHandler(validateartifacts.LoadConfig(w.cfg), store, w.log)
}

// runPipeline runs every stage up to validation and returns its result.
func (w *workspace) runPipeline(t *testing.T) (*validateartifacts.Output, error) {
	t.Helper()

	fo, err := filterorders.NewHandler(filterorders.LoadConfig(w.cfg), w.log)
	require.NoError(t, err)
	_, err = fo.Execute(&filterorders.Input{})
	require.NoError(t, err)

	store, err := validation.NewStore(w.cfg.Paths.Schemas())
	require.NoError(t, err)
	_, err = compilemenu.NewHandler(compilemenu.LoadConfig(w.cfg), store, w.log).Execute(&compilemenu.Input{})
	require.NoError(t, err)

	_, err = buildaliases.NewHandler(buildaliases.LoadConfig(w.cfg), w.log).Execute(&buildaliases.Input{})
	require.NoError(t, err)

	d := w.drafter(t)
	_, err = buildfewshots.NewHandler(buildfewshots.LoadConfig(w.cfg), d, w.log).Execute(&buildfewshots.Input{})
	require.NoError(t, err)
	_, err = buildevalset.NewHandler(buildevalset.LoadConfig(w.cfg), d, w.log).Execute(&buildevalset.Input{})
	require.NoError(t, err)

	return w.validator(t).Execute(&validateartifacts.Input{})
}

func readJSONL(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		var v map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		out = append(out, v)
	}
	require.NoError(t, sc.Err())
	return out
}

// ==========================
// End-to-End Tests
// ==========================

func TestPipeline_ProducesValidatedArtifacts(t *testing.T) {
	w := newWorkspace(t)
	conflictsBefore := testutil.ToFloat64(metrics.AliasConflicts)

	out, err := w.runPipeline(t)
	require.NoError(t, err)

	// interim keeps customer questions with order intent, from cafe_* only
	interim, err := drafting.LoadUtterances(w.cfg.Paths.InterimFile(w.cfg.Domain))
	require.NoError(t, err)
	assert.Equal(t, []string{"아이스 아메리카노 두 잔 주세요", "물 한 잔 주세요", "뜨거운 라떼 샷추가 한 잔"}, interim)

	fewShots := readJSONL(t, w.output(validateartifacts.FewShotsFile))
	assert.Len(t, fewShots, 2, "the utterance without a known product is excluded by the gate")
	evalset := readJSONL(t, w.output(validateartifacts.EvalsetFile))
	assert.Len(t, evalset, 2)

	require.NotNil(t, out.Manifest)
	assert.Equal(t, "cafe", out.Manifest.Domain)
	assert.Equal(t, models.ManifestCounts{Aliases: 2, FewShots: 2, Evalset: 2}, out.Manifest.Counts)
	assert.FileExists(t, w.output(validateartifacts.ManifestFile))
	assert.FileExists(t, w.output(compilemenu.OutputName))

	assert.Equal(t, []models.AliasConflict{{Term: "아아", PreviousSKU: "AMERICANO", NewSKU: "LATTE"}}, out.Report.AliasConflicts)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.AliasConflicts)-conflictsBefore, float64(1))
}

func TestScenario_IcedAmericanoKeepsTemperature(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.drafter(t).Draft("아이스 아메리카노 두 잔 주세요")
	require.NoError(t, err)
	require.False(t, res.Excluded)
	require.True(t, res.Outcome.IsDraft())
	assert.Equal(t, []models.OrderLineItem{
		{SKU: "AMERICANO", Quantity: 2, Options: models.Options{"temp": "ICE"}},
	}, res.Outcome.Items)
}

func TestScenario_UnknownProductAsksForSKU(t *testing.T) {
	w := newWorkspace(t)
	kb, err := knowledge.Load(w.cfg.Paths.MenuFile(w.cfg.Domain), w.cfg.Paths.AliasFile(w.cfg.Domain), w.log)
	require.NoError(t, err)
	h, err := extract.NewHandler(extract.LoadConfig(w.cfg), kb, w.log)
	require.NoError(t, err)

	out, err := h.Execute(&extract.Input{Text: "물 한 잔 주세요"})
	require.NoError(t, err)
	assert.Equal(t, models.NewAsk([]string{"sku"}, "메뉴와 (ICE/HOT), 사이즈(S/M/L)를 알려주세요."), out.Outcome)
}

func TestScenario_UnknownSKUAbortsBeforeManifest(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.runPipeline(t)
	require.NoError(t, err)
	require.NoError(t, os.Remove(w.output(validateartifacts.ManifestFile)))

	f, err := os.OpenFile(w.output(validateartifacts.EvalsetFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"input":"그거 주세요","gold":{"order":{"items":[{"sku":"UNKNOWN_ITEM","quantity":1}]}}}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := w.validator(t).Execute(&validateartifacts.Input{})
	require.Error(t, err)
	assert.Equal(t, 4, apperrors.ExitCode(err))
	require.Len(t, out.Report.SemanticProblems, 1)
	assert.Equal(t, "unknown sku: UNKNOWN_ITEM", out.Report.SemanticProblems[0].Message)
	assert.Equal(t, 3, out.Report.SemanticProblems[0].LineNumber)
	assert.NoFileExists(t, w.output(validateartifacts.ManifestFile))
}

func TestShippedCafeConfig_LabelsLattes(t *testing.T) {
	cfg, err := config.LoadFromFile(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	cfg.Domain = "cafe"
	log := logger.NewTestLogger(t)

	kb, err := knowledge.Load(cfg.Paths.MenuFile(cfg.Domain), cfg.Paths.AliasFile(cfg.Domain), log)
	require.NoError(t, err)
	d, err := drafting.NewDrafter(cfg, kb, log)
	require.NoError(t, err)

	tests := []struct {
		text string
		sku  string
	}{
		{"바닐라 라떼 한 잔 주세요", "VANILLA_LATTE"},
		{"바닐라라떼 두 잔 주세요", "VANILLA_LATTE"},
		{"카페라떼 한 잔 주세요", "LATTE"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, err := d.Draft(tt.text)
			require.NoError(t, err)
			require.False(t, res.Excluded)
			require.True(t, res.Outcome.IsDraft())
			require.Len(t, res.Outcome.Items, 1)
			assert.Equal(t, tt.sku, res.Outcome.Items[0].SKU)
		})
	}
}

func TestScenario_MissingRawData(t *testing.T) {
	w := newWorkspace(t)
	w.cfg.Domain = "bar"

	fo, err := filterorders.NewHandler(filterorders.LoadConfig(w.cfg), w.log)
	require.NoError(t, err)
	_, err = fo.Execute(&filterorders.Input{})
	assert.Equal(t, 2, apperrors.ExitCode(err))
}
