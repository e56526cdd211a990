// Package telemetry exposes Prometheus metrics for the collector.
package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Per-listing result labels.
const (
	ResultWritten = "written"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

var (
	collectRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_collector_runs_total",
			Help: "Total number of per-location collection passes by outcome",
		},
		[]string{"status"},
	)

	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_collector_listings_total",
			Help: "Total number of listings handled by result",
		},
		[]string{"result"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurant_collector_fetch_duration_seconds",
			Help:    "Search API call latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_collector_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurant_collector_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// ObserveRun records the outcome of one per-location collection pass.
func ObserveRun(status string) {
	collectRunsTotal.WithLabelValues(status).Inc()
}

// ObserveListings records the per-listing results of one batch.
func ObserveListings(written, skipped, failed int) {
	listingsTotal.WithLabelValues(ResultWritten).Add(float64(written))
	listingsTotal.WithLabelValues(ResultSkipped).Add(float64(skipped))
	listingsTotal.WithLabelValues(ResultFailed).Add(float64(failed))
}

// ObserveFetch records one search API call.
func ObserveFetch(elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	fetchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Handler returns the metrics scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instruments an http.Handler with request counts and latency.
// The scrape endpoint itself is excluded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status for metric labels.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush passes streaming writes through to the underlying writer.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
