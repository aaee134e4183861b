// Package metrics holds the Prometheus collectors kinetic exports on /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsEnqueued  = prometheus.NewCounter(prometheus.CounterOpts{Name: "kinetic_jobs_enqueued_total", Help: "Jobs accepted and queued"})
	JobsFinished  = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "kinetic_jobs_finished_total", Help: "Jobs that reached a terminal state"}, []string{"status"})
	JobsRecovered = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "kinetic_jobs_recovered_total", Help: "Jobs handled by startup recovery"}, []string{"action"})
	QueueDepth    = prometheus.NewGauge(prometheus.GaugeOpts{Name: "kinetic_queue_depth", Help: "Job identifiers waiting in the queue"})
	JobRunning    = prometheus.NewGauge(prometheus.GaugeOpts{Name: "kinetic_job_running", Help: "1 while the worker executes a job"})
	StageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "kinetic_stage_failures_total", Help: "Pipeline stage failures"}, []string{"stage"})
	CacheLookups  = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "kinetic_cache_lookups_total", Help: "Artifact cache lookups by class and result"}, []string{"class", "result"})

	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kinetic_stage_duration_seconds",
		Help:    "Wall time spent in each pipeline stage",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})
)

// Register adds the collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			JobsEnqueued,
			JobsFinished,
			JobsRecovered,
			QueueDepth,
			JobRunning,
			StageDuration,
			StageFailures,
			CacheLookups,
		)
	})
}

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
