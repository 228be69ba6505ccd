package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the auth counters.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// RequestsTotal counts handled HTTP requests by route and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskmanager_http_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// RequestDuration tracks HTTP request latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskmanager_http_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RegistrationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskmanager_registration_attempts_total",
		Help: "The total number of registration attempts",
	}, []string{"status"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskmanager_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskmanager_token_refresh_total",
		Help: "The total number of token refreshes",
	}, []string{"status"})

	LogoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskmanager_logouts_total",
		Help: "The total number of logouts",
	})

	// FeedConnections is the number of open task feed websockets.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "taskmanager_feed_connections",
		Help: "The number of open task feed connections",
	})
)

// Outcome returns the status label for err.
func Outcome(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
