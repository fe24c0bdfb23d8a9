package metrics_test

import (
	"testing"

	"github.com/traindiary/traindiary/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CountersRegistered(t *testing.T) {
	manager, registry := metrics.NewTestManagerAndRegistry()

	manager.CounterDiaryFetches.WithLabelValues("sessions", "ok").Inc()
	manager.CounterDiaryFetches.WithLabelValues("sessions", "ok").Inc()
	manager.CounterDiaryFetches.WithLabelValues("goals", "error").Inc()
	manager.CounterSessionsCacheHits.Inc()
	manager.CounterSessionsCacheMisses.Inc()
	manager.CounterSessionsCacheMisses.Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(
		manager.CounterDiaryFetches.WithLabelValues("sessions", "ok"),
	), 0.01)
	assert.InDelta(t, 1, testutil.ToFloat64(
		manager.CounterDiaryFetches.WithLabelValues("goals", "error"),
	), 0.01)
	assert.InDelta(t, 1, testutil.ToFloat64(manager.CounterSessionsCacheHits), 0.01)
	assert.InDelta(t, 2, testutil.ToFloat64(manager.CounterSessionsCacheMisses), 0.01)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, mf := range metricFamilies {
		found[mf.GetName()] = true
	}
	assert.True(t, found["backend_test_server_diary_fetches"])
	assert.True(t, found["backend_test_server_sessions_cache_hits"])
	assert.True(t, found["backend_test_server_sessions_cache_misses"])
}

func TestManager_ReconciledRowsHistogram(t *testing.T) {
	manager, registry := metrics.NewTestManagerAndRegistry()

	manager.HistReconciledRows.Observe(42)
	manager.HistReconciledRows.Observe(230)
	manager.HistReconciledRows.Observe(12000)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	var histFamily *dto.MetricFamily
	for _, mf := range metricFamilies {
		if mf.GetName() == "backend_test_server_reconciled_view_rows" {
			histFamily = mf
			break
		}
	}
	require.NotNil(t, histFamily)
	require.Len(t, histFamily.GetMetric(), 1)

	hist := histFamily.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(3), hist.GetSampleCount())
	assert.InDelta(t, 42+230+12000, hist.GetSampleSum(), 0.01)

	// 42 lands in the <=50 bucket, 230 in <=250, 12000 above all buckets
	for _, bucket := range hist.GetBucket() {
		switch bucket.GetUpperBound() {
		case 50:
			assert.Equal(t, uint64(1), bucket.GetCumulativeCount())
		case 250:
			assert.Equal(t, uint64(2), bucket.GetCumulativeCount())
		case 10000:
			assert.Equal(t, uint64(2), bucket.GetCumulativeCount())
		}
	}
}

func TestManager_RequestDuration(t *testing.T) {
	manager := metrics.NewTestManager()

	manager.HistogramRequestDuration.
		WithLabelValues("get-sessions", "GET", "200").
		Observe(0.042)
	manager.CounterRequests.WithLabelValues("GET", "200").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(
		manager.CounterRequests.WithLabelValues("GET", "200"),
	), 0.01)
}
