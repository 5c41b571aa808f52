// Package metrics exposes Prometheus collectors for the scanner.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handlescan_probes_total",
			Help: "Total number of probes executed, labeled by site, method, and outcome.",
		},
		[]string{"site", "method", "outcome"},
	)

	probeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handlescan_probe_duration_seconds",
			Help:    "Histogram of probe latencies, labeled by site and method.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"site", "method"},
	)

	pacingDelaySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handlescan_pacing_delay_seconds",
			Help:    "Histogram of pacing wait durations, labeled by target host.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"host"},
	)

	renderHintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handlescan_render_hints_total",
			Help: "Lightweight probes whose page looked JS-gated, labeled by site.",
		},
		[]string{"site"},
	)

	scansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "handlescan_scans_total",
			Help: "Total number of batch scans started.",
		},
	)

	activeRenderedSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "handlescan_active_rendered_sessions",
			Help: "Number of headless browser sessions currently open.",
		},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProbe records one finished probe.
func ObserveProbe(site, method, outcome string, duration time.Duration) {
	probesTotal.WithLabelValues(site, method, outcome).Inc()
	if duration > 0 {
		probeDurationSeconds.WithLabelValues(site, method).Observe(duration.Seconds())
	}
}

// ObservePacingDelay records the duration of a pacing wait.
func ObservePacingDelay(host string, duration time.Duration) {
	pacingDelaySeconds.WithLabelValues(host).Observe(duration.Seconds())
}

// ObserveRenderHint counts a lightweight probe that looked JS-gated.
func ObserveRenderHint(site string) {
	renderHintsTotal.WithLabelValues(site).Inc()
}

// ObserveScanStart counts a batch scan.
func ObserveScanStart() {
	scansTotal.Inc()
}

// IncRenderedSessions increments the open headless session gauge.
func IncRenderedSessions() {
	activeRenderedSessions.Inc()
}

// DecRenderedSessions decrements the open headless session gauge.
func DecRenderedSessions() {
	activeRenderedSessions.Dec()
}
