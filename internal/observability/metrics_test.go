package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/requests", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/api/requests", "POST", 201, 7*time.Millisecond)
	m.RecordError("/api/requests", "POST", "VALIDATION_FAILED")
	m.RecordSubmission("Transcript")
	m.RecordStatusChange("approved")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/api/requests", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/api/requests", "POST", "VALIDATION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("Transcript")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("approved")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordSubmission("Transcript")
		m.RecordStatusChange("denied")
	})
	assert.Nil(t, m.Registry())
}
