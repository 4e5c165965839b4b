package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cisaudit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cisaudit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cisaudit",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Audit metrics
	sessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cisaudit",
			Subsystem: "audit",
			Name:      "sessions_created_total",
			Help:      "Total number of audit sessions started",
		},
	)

	resultsUpdatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cisaudit",
			Subsystem: "audit",
			Name:      "results_updated_total",
			Help:      "Total number of check results recorded",
		},
		[]string{"status"},
	)

	sessionsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cisaudit",
			Subsystem: "audit",
			Name:      "sessions",
			Help:      "Number of audit sessions by status",
		},
		[]string{"status"},
	)

	// Report metrics
	reportsExportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cisaudit",
			Subsystem: "report",
			Name:      "exported_total",
			Help:      "Total number of workbooks exported",
		},
		[]string{"kind"},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cisaudit",
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Time spent building a workbook",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	// Catalog metrics
	catalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cisaudit",
			Subsystem: "catalog",
			Name:      "rows",
			Help:      "Number of catalog rows by kind",
		},
		[]string{"kind"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			routePattern = rctx.RoutePattern()
		}
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSessionCreated counts a new audit session
func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

// RecordResultUpdated counts a recorded check result
func RecordResultUpdated(status string) {
	resultsUpdatedTotal.WithLabelValues(status).Inc()
}

// RecordReportExport counts an exported workbook and how long it took to build
func RecordReportExport(kind string, duration time.Duration) {
	reportsExportedTotal.WithLabelValues(kind).Inc()
	reportDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetSessionsByStatus sets the gauge for sessions in one status
func SetSessionsByStatus(status string, count float64) {
	sessionsByStatus.WithLabelValues(status).Set(count)
}

// SetCatalogSize sets the gauge for one kind of catalog row
func SetCatalogSize(kind string, count float64) {
	catalogSize.WithLabelValues(kind).Set(count)
}
