// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package vitals

import (
	"testing"
	"time"
)

func testRanges() map[string]SafeRange {
	return map[string]SafeRange{
		MetricSystolic:  {Low: 90, High: 129},
		MetricDiastolic: {Low: 60, High: 79},
		MetricPulse:     {Low: 60, High: 100},
	}
}

func TestAnnotateFlagsHighSystolic(t *testing.T) {
	t.Parallel()

	d := Dataset{reading(time.Date(2024, 1, 1, 8, 0, 0, 0, ist), 150, 70, 72)}

	got := Annotate(d, KnownMetrics(), testRanges())
	if len(got) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(got))
	}

	a := got[0]
	if !a.OutOfRange(MetricSystolic) {
		t.Fatal("expected Systolic=150 flagged against [90,129]")
	}
	if a.OutOfRange(MetricDiastolic) || a.OutOfRange(MetricPulse) {
		t.Fatal("expected Diastolic and Pulse unflagged")
	}
	if !a.AnyEmergency {
		t.Fatal("expected AnyEmergency=true when any metric is flagged")
	}
}

func TestAnnotateInclusiveBoundsNotFlagged(t *testing.T) {
	t.Parallel()

	// Values exactly at the bound are in range; only strictly outside flags.
	d := Dataset{
		reading(time.Date(2024, 1, 1, 8, 0, 0, 0, ist), 129, 60, 100),
		reading(time.Date(2024, 1, 1, 9, 0, 0, 0, ist), 130, 59, 101),
	}

	got := Annotate(d, KnownMetrics(), testRanges())

	if got[0].AnyEmergency {
		t.Fatalf("expected boundary values unflagged, got %v", got[0].Flags)
	}
	if !got[1].OutOfRange(MetricSystolic) || !got[1].OutOfRange(MetricDiastolic) || !got[1].OutOfRange(MetricPulse) {
		t.Fatalf("expected all one-past-bound values flagged, got %v", got[1].Flags)
	}
}

func TestAnnotateMissingValueSkipped(t *testing.T) {
	t.Parallel()

	d := Dataset{{
		Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, ist),
		Metrics: map[string]float64{
			MetricSystolic:  120,
			MetricDiastolic: 75,
			// Pulse not reported.
		},
	}}

	got := Annotate(d, []string{MetricPulse}, testRanges())
	if got[0].Evaluated(MetricPulse) {
		t.Fatal("expected no flag entry for a missing Pulse value")
	}
	if got[0].AnyEmergency {
		t.Fatal("expected AnyEmergency=false when nothing was evaluated")
	}
}

func TestAnnotateUnconfiguredMetricNeverFlagged(t *testing.T) {
	t.Parallel()

	d := Dataset{reading(time.Date(2024, 1, 1, 8, 0, 0, 0, ist), 150, 70, 72)}

	ranges := map[string]SafeRange{
		MetricSystolic: {Low: 90, High: 129},
	}

	got := Annotate(d, []string{MetricSystolic, MetricPulse}, ranges)
	if got[0].Evaluated(MetricPulse) {
		t.Fatal("expected Pulse skipped when it has no configured range")
	}
	if !got[0].OutOfRange(MetricSystolic) {
		t.Fatal("expected Systolic still evaluated and flagged")
	}
}

func TestAnnotateEmptyDataset(t *testing.T) {
	t.Parallel()

	if got := Annotate(nil, KnownMetrics(), testRanges()); len(got) != 0 {
		t.Fatalf("expected empty annotation sequence, got %d", len(got))
	}
}

func TestAnnotateAnyEmergencyIsORofFlags(t *testing.T) {
	t.Parallel()

	d := Dataset{
		reading(time.Date(2024, 1, 1, 8, 0, 0, 0, ist), 120, 75, 70),
		reading(time.Date(2024, 1, 2, 8, 0, 0, 0, ist), 120, 85, 70),
		reading(time.Date(2024, 1, 3, 8, 0, 0, 0, ist), 140, 85, 110),
	}

	got := Annotate(d, KnownMetrics(), testRanges())
	for i, a := range got {
		or := false
		for _, flagged := range a.Flags {
			or = or || flagged
		}
		if a.AnyEmergency != or {
			t.Fatalf("reading %d: AnyEmergency=%v but OR of flags=%v", i, a.AnyEmergency, or)
		}
	}
	if got[0].AnyEmergency || !got[1].AnyEmergency || !got[2].AnyEmergency {
		t.Fatalf("unexpected emergency pattern: %v %v %v",
			got[0].AnyEmergency, got[1].AnyEmergency, got[2].AnyEmergency)
	}
}

func TestAnnotateDeterministic(t *testing.T) {
	t.Parallel()

	d := fiveDays()
	first := Annotate(d, KnownMetrics(), testRanges())
	second := Annotate(d, KnownMetrics(), testRanges())

	if len(first) != len(second) {
		t.Fatalf("annotation lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].AnyEmergency != second[i].AnyEmergency {
			t.Fatalf("reading %d: non-deterministic AnyEmergency", i)
		}
		for metric, flagged := range first[i].Flags {
			if second[i].Flags[metric] != flagged {
				t.Fatalf("reading %d: non-deterministic flag for %s", i, metric)
			}
		}
	}
}
