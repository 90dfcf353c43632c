package buildevalset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
	"order-etl/internal/models"
	"order-etl/internal/stages/drafting"
)

type stubDrafter map[string]drafting.Result

func (s stubDrafter) Draft(text string) (drafting.Result, error) {
	if r, ok := s[text]; ok {
		return r, nil
	}
	return drafting.Result{Input: text, Excluded: true}, nil
}

func createTestConfig(t *testing.T, rows ...string) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &Config{
		InterimFile: filepath.Join(dir, "cafe_orders.csv"),
		OutputFile:  filepath.Join(dir, "outputs", OutputName),
		N:           300,
		Seed:        123,
	}
	if rows != nil {
		body := "발화문\n"
		for _, r := range rows {
			body += r + "\n"
		}
		require.NoError(t, os.WriteFile(cfg.InterimFile, []byte(body), 0o644))
	}
	return cfg
}

func TestHandler_Execute_KeepsDraftsOnly(t *testing.T) {
	items := []models.OrderLineItem{{SKU: "LATTE", Quantity: 1}}
	cfg := createTestConfig(t, "라떼 한 잔 주세요", "물 주세요", "안녕하세요")
	drafter := stubDrafter{
		"라떼 한 잔 주세요": {Outcome: models.NewDraft(items)},
		"물 주세요":      {Outcome: models.NewAsk([]string{"sku"}, "?")},
	}

	out, err := NewHandler(cfg, drafter, logger.NewTestLogger(t)).Execute(&Input{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Sampled)
	assert.Equal(t, 1, out.Asks)
	assert.Equal(t, 1, out.Excluded)
	assert.Equal(t, []models.EvalRecord{{
		Input: "라떼 한 잔 주세요",
		Gold:  models.OrderEnvelope{Order: models.Order{Items: items}},
	}}, out.Records)

	lines, err := fileio.ReadLines(cfg.OutputFile)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0].Raw, &rec))
	assert.Equal(t, "라떼 한 잔 주세요", rec["input"])
	assert.NotContains(t, string(lines[0].Raw), "options")
}

func TestHandler_Execute_EmptySampleWritesEmptyFile(t *testing.T) {
	cfg := createTestConfig(t, "x")
	cfg.N = 0
	out, err := NewHandler(cfg, stubDrafter{}, logger.NewNoOpLogger()).Execute(&Input{})
	require.NoError(t, err)
	assert.Empty(t, out.Records)

	n, err := fileio.CountRecords(cfg.OutputFile)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandler_Execute_MissingInterim(t *testing.T) {
	_, err := NewHandler(createTestConfig(t), stubDrafter{}, logger.NewNoOpLogger()).Execute(&Input{})
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeConfigMissing})
}
