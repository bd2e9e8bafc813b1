package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/customers/", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/customers/", http.StatusOK, 5*time.Millisecond)
	m.EmailOutcome("sent")
	m.EmailOutcome("failed")
	m.EmailOutcome("sent")
	m.AssignmentRecorded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/customers/", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Emails.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Emails.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Assignments))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.EmailOutcome("sent")
		m.AssignmentRecorded()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.EmailOutcome("skipped")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `headstone_emails_total{outcome="skipped"} 1`)
}
