package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value sums the samples of a counter or gauge family, keeping only samples
// that carry labelValue when it is set.
func value(t *testing.T, m *Metrics, name, labelValue string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, sample := range f.GetMetric() {
			if labelValue != "" {
				match := false
				for _, l := range sample.GetLabel() {
					if l.GetValue() == labelValue {
						match = true
					}
				}
				if !match {
					continue
				}
			}
			total += sample.GetCounter().GetValue() + sample.GetGauge().GetValue()
		}
	}
	return total
}

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveSweep("overdue", 20*time.Millisecond, 0)
	m.ObserveSweep("overdue", 10*time.Millisecond, 2)
	m.OverdueMarked.Add(3)
	m.ObserveBackup(time.Unix(1700000000, 0), nil)
	m.ObserveBackup(time.Now(), errors.New("disk full"))

	assert.Equal(t, 2.0, value(t, m, "horses_sweep_runs_total", "overdue"))
	assert.Equal(t, 2.0, value(t, m, "horses_sweep_unit_failures_total", "overdue"))
	assert.Equal(t, 3.0, value(t, m, "horses_installments_marked_overdue_total", ""))
	assert.Equal(t, 1.0, value(t, m, "horses_backups_total", "ok"))
	assert.Equal(t, 1.0, value(t, m, "horses_backups_total", "error"))
	assert.Equal(t, 1700000000.0, value(t, m, "horses_last_backup_timestamp_seconds", ""))
}

func TestAuditCounters(t *testing.T) {
	m := New()
	m.AuditEventsDropped.Inc()
	m.AuditEventsDropped.Inc()
	m.AuditSaveFailures.Inc()

	assert.Equal(t, 2.0, value(t, m, "horses_audit_events_dropped_total", ""))
	assert.Equal(t, 1.0, value(t, m, "horses_audit_save_failures_total", ""))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRPC("/horses.v1.HorseService/GetHorse", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "horses_rpc_duration_seconds_count")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
