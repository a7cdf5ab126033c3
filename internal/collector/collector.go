package collector

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mdstat-exporter/internal/mdstat"
	"mdstat-exporter/internal/metrics"
	"mdstat-exporter/internal/utils"
)

// Result is the outcome of one collection.
type Result struct {
	ID          string
	Time        time.Time
	Snapshot    mdstat.Snapshot
	Views       mdstat.Views
	Diagnostics []mdstat.Diagnostic
	Err         error
}

// Collector handles metric collection
type Collector struct {
	metrics  *metrics.Metrics
	source   mdstat.Source
	interval time.Duration

	mu   sync.RWMutex
	last *Result
}

// New creates a new collector
func New(m *metrics.Metrics, source mdstat.Source, interval time.Duration) *Collector {
	return &Collector{
		metrics:  m,
		source:   source,
		interval: interval,
	}
}

// Start collects immediately and then on every tick until ctx is done.
func (c *Collector) Start(ctx context.Context) error {
	c.metrics.ExporterUp.Set(1)
	defer c.metrics.ExporterUp.Set(0)

	c.Collect(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("collector stopped")
			return nil
		case <-ticker.C:
			c.Collect(ctx)
		}
	}
}

// Collect reads and parses the source once, updates every metric and stores
// the result for Current.
func (c *Collector) Collect(ctx context.Context) *Result {
	start := time.Now()
	id := uuid.NewString()
	logger := slog.With("collection_id", id)
	logger.Debug("collecting md status")

	var recorder mdstat.Recorder
	sink := mdstat.MultiSink(c.metrics, mdstat.LogSink{Logger: logger}, &recorder)

	snap, err := mdstat.NewQuerier(c.source, sink).Snapshot(ctx)
	views := mdstat.Project(snap, sink)

	c.metrics.Reset()
	if err != nil {
		c.metrics.SourceUp.Set(0)
	} else {
		c.metrics.SourceUp.Set(1)
		c.updateMetrics(snap, views)
	}

	elapsed := time.Since(start)
	c.metrics.CollectDuration.Observe(elapsed.Seconds())
	c.metrics.LastCollectTimestamp.SetToCurrentTime()

	result := &Result{
		ID:          id,
		Time:        start,
		Snapshot:    snap,
		Views:       views,
		Diagnostics: recorder.Diagnostics(),
		Err:         err,
	}

	c.mu.Lock()
	c.last = result
	c.mu.Unlock()

	logger.Info("collected md status",
		"arrays", len(views.Arrays),
		"drives", len(views.Drives),
		"diagnostics", len(result.Diagnostics),
		"duration", elapsed)
	return result
}

// Current returns the latest result, or nil before the first collection.
func (c *Collector) Current() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// updateMetrics sets the per-array, per-drive and personality metrics
func (c *Collector) updateMetrics(snap mdstat.Snapshot, views mdstat.Views) {
	for _, a := range snap.Arrays {
		c.metrics.ArrayInfo.WithLabelValues(a.Name, a.Status, a.RaidLevel, a.UsableSize).Set(1)

		operation, progress := a.ActiveOperation()
		state := utils.ArrayState(a.Status, a.HealthyDrivesRatio, operation)
		c.metrics.ArrayStatus.WithLabelValues(a.Name, a.RaidLevel, state).Set(float64(utils.GetSoftwareRAIDStatusValue(state)))

		if total, working, ok := utils.ParseRatio(a.HealthyDrivesRatio); ok {
			c.metrics.ArrayDrives.WithLabelValues(a.Name, "total").Set(float64(total))
			c.metrics.ArrayDrives.WithLabelValues(a.Name, "healthy").Set(float64(working))
		}

		if size := utils.ParseSizeToBytes(a.UsableSize); size > 0 {
			c.metrics.ArraySize.WithLabelValues(a.Name).Set(float64(size))
		}

		if progress != nil {
			if ratio, ok := utils.ParsePercent(progress.Progress); ok {
				c.metrics.SyncProgress.WithLabelValues(a.Name, operation).Set(ratio)
			}
		}
	}

	for _, d := range views.Drives {
		if d.Status == "" {
			continue
		}
		up := 0.0
		if d.Status == "1" {
			up = 1
		}
		c.metrics.DriveUp.WithLabelValues(d.MDDeviceName, d.Device()).Set(up)
	}

	for _, p := range views.Personalities {
		c.metrics.PersonalityEnabled.WithLabelValues(p.Name).Set(1)
	}

	c.metrics.UnusedDevices.Set(float64(countUnused(snap.UnusedDevices)))
}

// countUnused counts the devices of an "unused devices:" trailer.
func countUnused(unused string) int {
	n := 0
	for _, f := range strings.Fields(unused) {
		if f != "<none>" {
			n++
		}
	}
	return n
}
