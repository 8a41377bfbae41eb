package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// CronJobMetrics tracks the background worker: per-job runs and latency, the
// last time each job succeeded, and cycles skipped because another replica
// held the lock.
type CronJobMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	skipped     prometheus.Counter
}

// NewCronJobMetrics registers on reg. A nil reg yields working but
// unregistered collectors, which is what one-off CLI runs use.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	factory := promauto.With(reg)
	return &CronJobMetrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rasoi_cron_job_runs_total",
			Help: "Cron job executions by outcome.",
		}, []string{"job", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rasoi_cron_job_duration_seconds",
			Help:    "Cron job run time in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"job"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rasoi_cron_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "rasoi_cron_cycles_skipped_total",
			Help: "Cycles skipped because the worker lock was held elsewhere.",
		}),
	}
}

// ObserveRun records one finished job run.
func (c *CronJobMetrics) ObserveRun(job string, took time.Duration, err error) {
	if c == nil {
		return
	}
	job = normalizeLabel(job)
	c.duration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		c.runs.WithLabelValues(job, outcomeFailure).Inc()
		return
	}
	c.runs.WithLabelValues(job, outcomeSuccess).Inc()
	c.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func (c *CronJobMetrics) CycleSkipped() {
	if c == nil {
		return
	}
	c.skipped.Inc()
}

// normalizeLabel keeps label cardinality bounded to lowercase values.
func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
