package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jira_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jira_auth_attempts_total",
			Help: "Total auth attempts by event and outcome",
		},
		[]string{"event", "success"},
	)
	tasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jira_tasks_created_total",
			Help: "Tasks created through the API",
		},
	)
	taskTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jira_task_transitions_total",
			Help: "Task status transitions by target status and outcome",
		},
		[]string{"to", "success"},
	)
	invitesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jira_invites_total",
			Help: "Organization invites by outcome",
		},
		[]string{"outcome"},
	)
)

// PrometheusMiddleware records request duration by chi route pattern, so
// path parameters do not explode label cardinality.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(duration)
	})
}

// RecordAuthAttempt records an auth event (signup, login, refresh, logout,
// accept_invite).
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

func RecordTaskCreated(n int) {
	tasksCreated.Add(float64(n))
}

func RecordTransition(to string, success bool) {
	taskTransitions.WithLabelValues(to, strconv.FormatBool(success)).Inc()
}

func RecordInvite(outcome string) {
	invitesIssued.WithLabelValues(outcome).Inc()
}
