/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vitals holds the dashboard core: an immutable dataset of
// timestamped readings, an inclusive date-range filter, and a safe-range
// annotator. All I/O (spreadsheet fetching, chart and table rendering)
// lives in collaborating packages; everything here is a pure transform.
package vitals

import "time"

// Canonical metric names used in Reading.Metrics and SafeRange tables.
const (
	MetricSystolic  = "Systolic"
	MetricDiastolic = "Diastolic"
	MetricPulse     = "Pulse"
)

// KnownMetrics returns the canonical metric names in display order.
func KnownMetrics() []string {
	return []string{MetricSystolic, MetricDiastolic, MetricPulse}
}

// Reading is one submitted measurement. A metric absent from Metrics means
// the reading did not report it, which is valid.
type Reading struct {
	Timestamp time.Time
	Metrics   map[string]float64
}

// Value returns the named metric value and whether the reading reported it.
func (r Reading) Value(metric string) (float64, bool) {
	v, ok := r.Metrics[metric]
	return v, ok
}

// Dataset is an ordered sequence of readings, sorted by timestamp
// ascending. It is constructed once per load cycle and never mutated;
// refreshes replace the whole value.
type Dataset []Reading

// Bounds returns the first and last timestamps of the dataset. ok is false
// when the dataset is empty.
func (d Dataset) Bounds() (first, last time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d[0].Timestamp, d[len(d)-1].Timestamp, true
}

// SafeRange is the inclusive [Low, High] bound considered non-emergency for
// a metric. Values strictly outside the bound are out of range.
type SafeRange struct {
	Low  float64
	High float64
}

// Contains reports whether v falls within the inclusive bound.
func (s SafeRange) Contains(v float64) bool {
	return v >= s.Low && v <= s.High
}

// Selection is ephemeral user intent: a date interval plus the metrics to
// show. It is rebuilt on every interaction and never persisted.
type Selection struct {
	Start   time.Time
	End     time.Time
	Metrics []string
}
