package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveRun("order_activation", 250*time.Millisecond, nil)
	m.ObserveRun("order_activation", 10*time.Millisecond, errors.New("db down"))
	m.ObserveRun("order_activation", 20*time.Millisecond, nil)
	m.CycleSkipped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("order_activation", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("order_activation", outcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
	assert.Greater(t, testutil.ToFloat64(m.lastSuccess.WithLabelValues("order_activation")), 0.0)

	expected := `
# HELP rasoi_cron_cycles_skipped_total Cycles skipped because the worker lock was held elsewhere.
# TYPE rasoi_cron_cycles_skipped_total counter
rasoi_cron_cycles_skipped_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rasoi_cron_cycles_skipped_total"))

	count, err := testutil.GatherAndCount(reg, "rasoi_cron_job_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCronJobMetricsWithoutRegistry(t *testing.T) {
	m := NewCronJobMetrics(nil)
	assert.NotPanics(t, func() {
		m.ObserveRun("", time.Second, nil)
		m.CycleSkipped()
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("unknown", outcomeSuccess)))

	var disabled *CronJobMetrics
	assert.NotPanics(t, func() {
		disabled.ObserveRun("job", time.Second, errors.New("x"))
		disabled.CycleSkipped()
	})
}
