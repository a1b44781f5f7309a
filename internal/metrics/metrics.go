//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package metrics records stage outcomes for the node exporter textfile
// collector. A batch run has nothing to scrape, so the registry is written
// to a file once the stages finish.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shopinsights"

// Recorder collects metrics for the stages of one process.
type Recorder struct {
	path     string
	registry *prometheus.Registry

	duration *prometheus.GaugeVec
	success  *prometheus.GaugeVec
	rows     *prometheus.GaugeVec
	lastRun  *prometheus.GaugeVec
}

// New creates a recorder that writes to path. An empty path disables
// writing; recording still works.
func New(path string) *Recorder {
	r := &Recorder{
		path:     path,
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "duration_seconds",
			Help:      "Duration of the last run of each stage in seconds.",
		}, []string{"stage"}),
		success: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "success",
			Help:      "1 if the last run of the stage succeeded, 0 otherwise.",
		}, []string{"stage"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "rows",
			Help:      "Rows produced or loaded per table by the last run of the stage.",
		}, []string{"stage", "table"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the stage last finished.",
		}, []string{"stage"}),
	}
	r.registry.MustRegister(r.duration, r.success, r.rows, r.lastRun)
	return r
}

// Enabled reports whether Write produces a file.
func (r *Recorder) Enabled() bool {
	return r.path != ""
}

// Observe records the outcome of a stage that started at start.
func (r *Recorder) Observe(stage string, start time.Time, err error) {
	now := time.Now()
	r.duration.WithLabelValues(stage).Set(now.Sub(start).Seconds())
	ok := 1.0
	if err != nil {
		ok = 0
	}
	r.success.WithLabelValues(stage).Set(ok)
	r.lastRun.WithLabelValues(stage).Set(float64(now.Unix()))
}

// Rows records a per-table row count for a stage.
func (r *Recorder) Rows(stage, table string, n int) {
	r.rows.WithLabelValues(stage, table).Set(float64(n))
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Write stores the registry in Prometheus text format.
func (r *Recorder) Write() error {
	if !r.Enabled() {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
