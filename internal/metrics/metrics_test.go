package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/metrics"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	rec.ObserveGeneration(metrics.OutcomeSuccess, 1, time.Second)
	rec.ObserveGeneration(metrics.OutcomeError, 1, 2*time.Second)
	rec.ObserveGeneration(metrics.OutcomeSuccess, 2, time.Second)
	rec.ObserveExport(true)

	for metric, exp := range map[string]int{
		"webgen_generations_total":           3,
		"webgen_generation_duration_seconds": 2,
		"webgen_exports_total":               1,
	} {
		got, err := testutil.GatherAndCount(reg, metric)
		require.NoError(t, err)
		assert.Equal(t, exp, got, metric)
	}

	// Registering twice on the same registry should fail.
	_, err = metrics.NewPrometheusRecorder(reg)
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheusRecorder(reg)
	require.NoError(t, err)
	rec.ObserveExport(false)

	path := filepath.Join(t.TempDir(), "webgen.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `webgen_exports_total{success="false"} 1`)
}
