package filterorders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-etl/internal/common/config"
	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/fileio"
	"order-etl/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

const header = "IDX,발화자,발화문,카테고리,QA번호,QA여부,인텐트\n"

func createTestConfig(t *testing.T) *Config {
	dir := t.TempDir()
	return &Config{
		Domain:         "cafe",
		RawDir:         filepath.Join(dir, "raw"),
		OutputFile:     filepath.Join(dir, "interim", "cafe_orders.csv"),
		IntentKeywords: config.DefaultIntentKeywords,
	}
}

func writeRaw(t *testing.T, cfg *Config, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.RawDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.RawDir, name), []byte(header+body), 0o644))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	cfg := createTestConfig(t)
	writeRaw(t, cfg, "cafe_2.csv", "3,c,라떼 두 잔 포장이요,주문,2,q,주문\n4,c,아이스 아메리카노 주세요,주문,2,a,주문\n")
	writeRaw(t, cfg, "cafe_1.csv", "1,c,아메리카노 한 잔 주세요,주문,1,q,주문\n2,s,네 아메리카노 한 잔이요,주문,1,q,주문\n5,c,화장실 어디예요,기타,3,q,문의\n")
	writeRaw(t, cfg, "bakery_1.csv", "1,c,빵 두 개 주세요,주문,1,q,주문\n")

	h, err := NewHandler(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)

	out, err := h.Execute(&Input{})
	require.NoError(t, err)
	assert.Len(t, out.Sources, 2)
	assert.Equal(t, 5, out.TotalRows)
	assert.Equal(t, 2, out.KeptRows)

	table, err := fileio.ReadCSV(out.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"아메리카노 한 잔 주세요", "라떼 두 잔 포장이요"}, table.Column(ColumnUtterance))
	assert.Equal(t, "IDX", table.Header[0])
}

func TestHandler_Execute_MissingRaw(t *testing.T) {
	h, err := NewHandler(createTestConfig(t), logger.NewTestLogger(t))
	require.NoError(t, err)

	_, err = h.Execute(&Input{})
	assert.ErrorIs(t, err, &apperrors.StandardError{Code: apperrors.ErrCodeConfigMissing})
	assert.Equal(t, 2, apperrors.ExitCode(err))
}

func TestHandler_Filter_CustomPattern(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.IntentPattern = `주세요$`
	h, err := NewHandler(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)

	kept := h.Filter(&fileio.Table{
		Header: []string{ColumnSpeaker, ColumnQA, ColumnUtterance},
		Rows: []map[string]string{
			{ColumnSpeaker: "c", ColumnQA: "q", ColumnUtterance: "라떼 주세요"},
			{ColumnSpeaker: "c", ColumnQA: "q", ColumnUtterance: "라떼 두 잔"},
			{ColumnSpeaker: "c", ColumnQA: "", ColumnUtterance: "모카 주세요"},
		},
	})
	require.Len(t, kept.Rows, 1)
	assert.Equal(t, "라떼 주세요", kept.Rows[0][ColumnUtterance])
}

func TestNewHandler_InvalidPattern(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.IntentPattern = "[a-"
	_, err := NewHandler(cfg, logger.NewNoOpLogger())
	assert.ErrorIs(t, err, ErrInvalidIntentPattern)
}
