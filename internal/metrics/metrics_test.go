package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_StreamLifecycle(t *testing.T) {
	m := NewMetrics()

	finish := m.StreamStarted("chat")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamsInFlight))

	m.RecordFragment("chat")
	m.RecordFragment("chat")
	finish(OutcomeDone)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.StreamsInFlight))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FragmentsTotal.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("chat", OutcomeDone)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StreamDuration))
}

func TestMetrics_RecordRejected(t *testing.T) {
	m := NewMetrics()
	m.RecordRejected("learn", OutcomeRejected)
	m.RecordRejected("learn", OutcomeNotConfigured)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("learn", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("learn", OutcomeNotConfigured)))
}

func TestMetrics_Handler(t *testing.T) {
	// Independent registries must not collide.
	m := NewMetrics()
	_ = NewMetrics()
	m.RecordRejected("chat", OutcomeRejected)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `portfolio_relay_requests_total{endpoint="chat",outcome="rejected"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
