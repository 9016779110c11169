package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("clinicbook", reg)

	m.IncAdmission(OutcomeAdmitted, "single")
	m.IncAdmission(OutcomeAdmitted, "single")
	m.IncAdmission(OutcomeConflict, "series")
	m.IncDeletion("by_id")
	m.ObserveAdmission(3 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AdmissionsTotal.WithLabelValues(OutcomeAdmitted, "single")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdmissionsTotal.WithLabelValues(OutcomeConflict, "series")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeletionsTotal.WithLabelValues("by_id")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "clinicbook_admission_duration_seconds")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.IncAdmission(OutcomeError, "single")
	m.IncDeletion("all")
	m.ObserveAdmission(time.Second)
}
