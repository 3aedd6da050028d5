package metrics

import "github.com/prometheus/client_golang/prometheus"

// External tool Prometheus metrics.
var (
	ToolRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tool_runs_total",
			Help:      "Total number of external tool runs by outcome",
		},
		[]string{"tool", "outcome"}, // "ok" / "exit_nonzero" / "timeout" / "unavailable" / "error"
	)

	ToolRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tool_run_duration_seconds",
			Help:      "External tool run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	ToolInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tool_in_flight",
			Help:      "External tool processes currently running",
		},
		[]string{"tool"},
	)

	ScratchFilesRemovedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scratch_files_removed_total",
			Help:      "Scratch files removed, by trigger",
		},
		[]string{"trigger", "result"}, // trigger: "request" / "sweep"; result: "ok" / "error"
	)
)

var toolMetricsRegistered bool

// RegisterToolMetrics registers Prometheus tool and scratch metrics. Must be called once from main.
func RegisterToolMetrics() {
	if toolMetricsRegistered {
		return
	}
	prometheus.MustRegister(ToolRunsTotal)
	prometheus.MustRegister(ToolRunDuration)
	prometheus.MustRegister(ToolInFlight)
	prometheus.MustRegister(ScratchFilesRemovedTotal)
	toolMetricsRegistered = true
}
