package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.RecordDBQuery("select", time.Millisecond, errors.New("boom"))
		m.RecordTransition("draft", "submitted")
		m.RecordAvailabilityCheck("available")
		m.RecordLedgerConflict()
		m.RecordNotificationFailure("request.approved")
		m.RecordInvoiceStatus("paid")
	})
}

func TestRecordTransition(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "test")

	m.RecordTransition("submitted", "approved")
	m.RecordTransition("submitted", "approved")
	m.RecordLedgerConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("submitted", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerConflicts))
}
