package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mdstat-exporter/internal/mdstat"
)

const namespace = "mdstat"

// Metrics holds all Prometheus metrics
type Metrics struct {
	ArrayInfo            *prometheus.GaugeVec
	ArrayStatus          *prometheus.GaugeVec
	ArrayDrives          *prometheus.GaugeVec
	ArraySize            *prometheus.GaugeVec
	DriveUp              *prometheus.GaugeVec
	SyncProgress         *prometheus.GaugeVec
	PersonalityEnabled   *prometheus.GaugeVec
	UnusedDevices        prometheus.Gauge
	SourceUp             prometheus.Gauge
	ParseDiagnostics     *prometheus.CounterVec
	CollectDuration      prometheus.Histogram
	LastCollectTimestamp prometheus.Gauge
	ExporterUp           prometheus.Gauge
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ArrayInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "array_info",
				Help:      "Static information about an md array, always 1",
			},
			[]string{"device", "status", "raid_level", "usable_size"},
		),
		ArrayStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "array_status",
				Help:      "md array status (0=unknown, 1=ok, 2=degraded or syncing, 3=failed)",
			},
			[]string{"device", "raid_level", "state"},
		),
		ArrayDrives: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "array_drives",
				Help:      "Number of member slots of an md array by state (healthy, total)",
			},
			[]string{"device", "state"},
		),
		ArraySize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "array_size_bytes",
				Help:      "Usable size of an md array in bytes",
			},
			[]string{"device"},
		),
		DriveUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "drive_up",
				Help:      "Whether an md member drive is up (1) or down (0)",
			},
			[]string{"device", "drive"},
		),
		SyncProgress: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "array_sync_progress_ratio",
				Help:      "Completion ratio of a running recovery, resync or check",
			},
			[]string{"device", "operation"},
		),
		PersonalityEnabled: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "personality_enabled",
				Help:      "RAID personalities registered with the kernel",
			},
			[]string{"name"},
		),
		UnusedDevices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "unused_devices",
				Help:      "Number of devices listed as unused",
			},
		),
		SourceUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "source_up",
				Help:      "Whether the md status source could be read on the last collection",
			},
		),
		ParseDiagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_diagnostics_total",
				Help:      "Diagnostics reported while parsing the md status source",
			},
			[]string{"severity"},
		),
		CollectDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "collect_duration_seconds",
				Help:      "Time spent collecting md status",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		LastCollectTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_collect_timestamp_seconds",
				Help:      "Unix time of the last collection",
			},
		),
		ExporterUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mdstat_exporter_up",
				Help: "Whether the mdstat exporter is up and running",
			},
		),
	}

	// Register all metrics
	reg.MustRegister(
		m.ArrayInfo,
		m.ArrayStatus,
		m.ArrayDrives,
		m.ArraySize,
		m.DriveUp,
		m.SyncProgress,
		m.PersonalityEnabled,
		m.UnusedDevices,
		m.SourceUp,
		m.ParseDiagnostics,
		m.CollectDuration,
		m.LastCollectTimestamp,
		m.ExporterUp,
	)

	return m
}

// Reset clears all per-array metrics
func (m *Metrics) Reset() {
	m.ArrayInfo.Reset()
	m.ArrayStatus.Reset()
	m.ArrayDrives.Reset()
	m.ArraySize.Reset()
	m.DriveUp.Reset()
	m.SyncProgress.Reset()
	m.PersonalityEnabled.Reset()
}

// Report counts a parse diagnostic, so Metrics can be used as an mdstat.Sink.
func (m *Metrics) Report(d mdstat.Diagnostic) {
	m.ParseDiagnostics.WithLabelValues(d.Severity.String()).Inc()
}

var _ mdstat.Sink = (*Metrics)(nil)
