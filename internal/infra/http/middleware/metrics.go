package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Total number of HTTP requests served by the console",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Duration of console HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_http_active_requests",
			Help: "Number of in-flight console HTTP requests",
		},
	)

	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_backend_requests_total",
			Help: "Total number of CRM backend calls",
		},
		[]string{"endpoint", "status"},
	)

	backendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_backend_request_duration_seconds",
			Help:    "Duration of CRM backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_login_attempts_total",
			Help: "Total number of sign-in attempts",
		},
		[]string{"result"},
	)

	reviewActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_prospect_actions_total",
			Help: "Total number of prospect review actions",
		},
		[]string{"action", "result"},
	)

	workspacesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_workspaces_expired_total",
			Help: "Total number of idle session workspaces dropped",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics labels requests by chi route pattern so ids do not explode the
// label space.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		route := routePattern(r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// RecordBackendCall matches crm.Observer. status 0 means no answer.
func RecordBackendCall(endpoint string, status int, elapsed time.Duration) {
	backendRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func RecordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func RecordReviewAction(action, result string) {
	reviewActions.WithLabelValues(action, result).Inc()
}

func RecordWorkspacesExpired(n int) {
	workspacesExpired.Add(float64(n))
}
