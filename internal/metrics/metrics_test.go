package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdstat-exporter/internal/mdstat"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.ExporterUp.Set(1)
	m.SourceUp.Set(1)
	m.UnusedDevices.Set(2)
	m.LastCollectTimestamp.SetToCurrentTime()
	m.CollectDuration.Observe(0.01)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{
		"mdstat_exporter_up",
		"mdstat_source_up",
		"mdstat_unused_devices",
		"mdstat_last_collect_timestamp_seconds",
		"mdstat_collect_duration_seconds",
	})

	// a second registration on the same registry must fail
	assert.Panics(t, func() { New(reg) })
}

func TestReportCountsDiagnostics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	mdstat.Parse("Personalities : [raid1]\ngarbage\nmore garbage\n", m)
	m.Report(mdstat.Diagnostic{Severity: mdstat.SeverityError, Message: "read source: boom"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ParseDiagnostics.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParseDiagnostics.WithLabelValues("error")))
}

func TestResetClearsPerArrayMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ArrayStatus.WithLabelValues("md0", "raid1", "clean").Set(1)
	m.DriveUp.WithLabelValues("md0", "sda1").Set(1)
	m.SourceUp.Set(1)
	require.Equal(t, 1, testutil.CollectAndCount(m.ArrayStatus))

	m.Reset()

	assert.Equal(t, 0, testutil.CollectAndCount(m.ArrayStatus))
	assert.Equal(t, 0, testutil.CollectAndCount(m.DriveUp))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceUp))
}
