// Package metrics exposes Prometheus collectors for the rate cache, the
// conversion engine and scheduled jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache outcomes recorded by RateLookups.
const (
	OutcomeHit     = "hit"
	OutcomeRefresh = "refresh"
	OutcomeFailure = "failure"
)

var (
	RateLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxrates_rate_lookups_total",
			Help: "Total number of rate lookups by cache outcome",
		},
		[]string{"outcome"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxrates_fetch_failures_total",
			Help: "Total number of failed rate lookups by failing step",
		},
		[]string{"op"},
	)

	RemoteFetchDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fxrates_remote_fetch_duration_seconds",
			Help:    "Duration of remote rate fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotCurrencies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxrates_snapshot_currencies",
			Help: "Number of currencies in the most recently resolved snapshot",
		},
	)

	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxrates_conversions_total",
			Help: "Total number of conversions by path",
		},
		[]string{"path"},
	)
)

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fxrates_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fxrates_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxrates_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

// ObserveFetch records one remote fetch and its duration.
func ObserveFetch(startedAt time.Time) {
	RemoteFetchDurationSeconds.Observe(time.Since(startedAt).Seconds())
}

// UpdateJobMetrics records the outcome of a scheduled job run.
func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
