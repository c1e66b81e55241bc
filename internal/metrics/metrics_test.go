package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBackendRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBackendRequest("list", 200, 10*time.Millisecond)
	m.ObserveBackendRequest("list", 200, 20*time.Millisecond)
	m.ObserveBackendRequest("list", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("list", "error")))
}

func TestSessionActive(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetSessionActive(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionActive))

	m.SetSessionActive(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionActive))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBackendRequest("login", 401, time.Millisecond)
		m.SetSessionActive(true)
		m.IncLoginFailure()
	})
}
