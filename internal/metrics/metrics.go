package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the terminal.
type Metrics struct {
	BackendRequests *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec
	SessionActive   prometheus.Gauge
	LoginFailures   prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BackendRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transferhub_backend_requests_total",
			Help: "Total number of backend API calls, labeled by operation and status code",
		}, []string{"op", "code"}),
		BackendLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transferhub_backend_request_duration_seconds",
			Help:    "Latency of backend API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		SessionActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "transferhub_session_active",
			Help: "1 while a staff session is held, 0 otherwise",
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "transferhub_login_failures_total",
			Help: "Total number of rejected or failed logins",
		}),
	}
}

// ObserveBackendRequest records one backend call. A zero code means the call
// never produced a response.
func (m *Metrics) ObserveBackendRequest(op string, code int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code != 0 {
		label = strconv.Itoa(code)
	}
	m.BackendRequests.WithLabelValues(op, label).Inc()
	m.BackendLatency.WithLabelValues(op).Observe(d.Seconds())
}

// SetSessionActive tracks whether the terminal currently holds a session.
func (m *Metrics) SetSessionActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.SessionActive.Set(1)
	} else {
		m.SessionActive.Set(0)
	}
}

// IncLoginFailure counts a failed login attempt.
func (m *Metrics) IncLoginFailure() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}
