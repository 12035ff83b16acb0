// Package metrics records what a provisioning run did as Prometheus metrics,
// for export in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/crdbcerts/internal/certtool"
)

const namespace = "crdbcerts"

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Recorder holds the metrics of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	toolInvocations *prometheus.CounterVec
	phaseDuration   *prometheus.HistogramVec
	runDuration     prometheus.Gauge
	runSuccess      prometheus.Gauge
	lastRun         prometheus.Gauge
	clusters        *prometheus.GaugeVec
}

var (
	_ certtool.Recorder = (*Recorder)(nil)
)

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tool",
				Name:      "invocations_total",
				Help:      "Total number of certificate tool invocations by operation and result",
			},
			[]string{"operation", "result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"phase", "result"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of the last run in seconds",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "success",
			Help:      "Whether the last run succeeded (1) or not (0)",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		clusters: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "clusters",
				Help:      "Number of clusters in the last run by role",
			},
			[]string{"role"},
		),
	}

	r.registry.MustRegister(
		r.toolInvocations,
		r.phaseDuration,
		r.runDuration,
		r.runSuccess,
		r.lastRun,
		r.clusters,
	)
	return r
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveToolInvocation implements certtool.Recorder.
func (r *Recorder) ObserveToolInvocation(op certtool.Operation, err error) {
	r.toolInvocations.WithLabelValues(string(op), result(err)).Inc()
}

// ObservePhase records the duration and outcome of a provisioning phase.
func (r *Recorder) ObservePhase(phase string, duration time.Duration, err error) {
	r.phaseDuration.WithLabelValues(phase, result(err)).Observe(duration.Seconds())
}

// ObserveRun records the outcome of a whole run.
func (r *Recorder) ObserveRun(created, joined int, duration time.Duration, err error) {
	r.clusters.WithLabelValues("create").Set(float64(created))
	r.clusters.WithLabelValues("join").Set(float64(joined))
	r.runDuration.Set(duration.Seconds())
	if err != nil {
		r.runSuccess.Set(0)
	} else {
		r.runSuccess.Set(1)
	}
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
