// Package metrics exposes Prometheus collectors for forecast runs and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes used as the status label of hw_runs_total.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder provides methods for recording metrics.
type Recorder struct {
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	observations    prometheus.Histogram
	forecastPeriods prometheus.Histogram
	numericErrors   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hw_runs_total",
			Help: "Total number of forecast runs by outcome.",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hw_run_duration_seconds",
			Help:    "Duration of forecast runs in seconds.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		observations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hw_observations",
			Help:    "Number of observations per forecast run.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		}),
		forecastPeriods: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hw_forecast_periods",
			Help:    "Number of forecast periods requested per run.",
			Buckets: []float64{0, 1, 4, 12, 24, 52, 104, 365},
		}),
		numericErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hw_numeric_errors_total",
			Help: "Total number of numeric degeneracies by component.",
		}, []string{"component"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// RecordRun records the outcome and duration of a forecast run.
func (r *Recorder) RecordRun(status string, duration time.Duration) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
}

// RecordInput records the size of a run's input and horizon.
func (r *Recorder) RecordInput(observations, periods int) {
	r.observations.Observe(float64(observations))
	r.forecastPeriods.Observe(float64(periods))
}

// RecordNumericError records a numeric degeneracy in component.
func (r *Recorder) RecordNumericError(component string) {
	r.numericErrors.WithLabelValues(component).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns an HTTP handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// NewTimer creates and starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
