package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(UtterancesProcessed.WithLabelValues(OutcomeAsk))
	UtterancesProcessed.WithLabelValues(OutcomeAsk).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(UtterancesProcessed.WithLabelValues(OutcomeAsk)))

	before = testutil.ToFloat64(AliasConflicts)
	AliasConflicts.Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(AliasConflicts))
}

func TestObserveStage(t *testing.T) {
	ObserveStage("unit-test", time.Now())
	assert.GreaterOrEqual(t, testutil.CollectAndCount(StageDuration), 1)
}

func TestWriteTextfile(t *testing.T) {
	require.NoError(t, WriteTextfile(""))

	OptionKeysDropped.WithLabelValues("unit-test").Inc()
	path := filepath.Join(t.TempDir(), "order_etl.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `order_etl_option_keys_dropped_total{stage="unit-test"}`)
	assert.NotContains(t, string(data), "go_goroutines")
}
