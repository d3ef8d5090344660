package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	require.NotNil(t, m.InstructionsProcessed)
	require.NotNil(t, m.AuditErrors)

	m.ObserveInstruction("successful", "AP00", "NGN", 500, time.Millisecond)

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveInstruction(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveInstruction("successful", "AP00", "USD", 30, time.Millisecond)
	m.ObserveInstruction("failed", "AC01", "USD", 30, time.Millisecond)
	m.ObserveInstruction("failed", "SY03", "", -1, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstructionsProcessed.WithLabelValues("successful", "AP00")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstructionsProcessed.WithLabelValues("failed", "AC01")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.InstructionAmount))
}

func TestObserveCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRejection()
	m.ObserveAuditError()
	m.ObserveAuditError()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsRejected))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuditErrors))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveInstruction("successful", "AP00", "NGN", 1, time.Millisecond)
		m.ObserveRejection()
		m.ObserveAuditError()
	})
}
