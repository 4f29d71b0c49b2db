// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package vitals

import (
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func reading(ts time.Time, systolic, diastolic, pulse float64) Reading {
	return Reading{
		Timestamp: ts,
		Metrics: map[string]float64{
			MetricSystolic:  systolic,
			MetricDiastolic: diastolic,
			MetricPulse:     pulse,
		},
	}
}

// fiveDays spans 2024-01-01 through 2024-01-05, one reading per day.
func fiveDays() Dataset {
	var d Dataset
	for day := 1; day <= 5; day++ {
		ts := time.Date(2024, 1, day, 8, 30, 0, 0, ist)
		d = append(d, reading(ts, 120, 75, 70))
	}
	return d
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, ist)
}

func TestFilterByDateInclusiveWindow(t *testing.T) {
	t.Parallel()

	d := fiveDays()
	got := FilterByDate(d, date(2024, 1, 2), date(2024, 1, 3))
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
	if got[0].Timestamp.Day() != 2 || got[1].Timestamp.Day() != 3 {
		t.Fatalf("expected Jan 2 and Jan 3 in original order, got %v and %v",
			got[0].Timestamp, got[1].Timestamp)
	}
}

func TestFilterByDateFullRangeIsIdentity(t *testing.T) {
	t.Parallel()

	d := fiveDays()
	first, last, ok := d.Bounds()
	if !ok {
		t.Fatal("expected bounds for non-empty dataset")
	}

	got := FilterByDate(d, first, last)
	if len(got) != len(d) {
		t.Fatalf("expected all %d readings, got %d", len(d), len(got))
	}
	for i := range got {
		if !got[i].Timestamp.Equal(d[i].Timestamp) {
			t.Fatalf("reading %d out of order: %v vs %v", i, got[i].Timestamp, d[i].Timestamp)
		}
	}
}

func TestFilterByDateInvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()

	got := FilterByDate(fiveDays(), date(2024, 1, 4), date(2024, 1, 2))
	if len(got) != 0 {
		t.Fatalf("expected empty dataset for inverted range, got %d readings", len(got))
	}
}

func TestFilterByDateIdempotent(t *testing.T) {
	t.Parallel()

	start, end := date(2024, 1, 2), date(2024, 1, 4)
	once := FilterByDate(fiveDays(), start, end)
	twice := FilterByDate(once, start, end)

	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d readings", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Timestamp.Equal(twice[i].Timestamp) {
			t.Fatalf("reading %d differs after second filter", i)
		}
	}
}

func TestFilterByDateEmptyDataset(t *testing.T) {
	t.Parallel()

	if got := FilterByDate(nil, date(2024, 1, 1), date(2024, 1, 5)); len(got) != 0 {
		t.Fatalf("expected empty result for empty dataset, got %d", len(got))
	}
}

func TestFilterByDateNoReadingsInRange(t *testing.T) {
	t.Parallel()

	got := FilterByDate(fiveDays(), date(2024, 2, 1), date(2024, 2, 5))
	if len(got) != 0 {
		t.Fatalf("expected empty result for out-of-window range, got %d", len(got))
	}
}

func TestFilterByDateSharedDayKeepsAllReadings(t *testing.T) {
	t.Parallel()

	d := Dataset{
		reading(time.Date(2024, 3, 10, 7, 0, 0, 0, ist), 118, 72, 66),
		reading(time.Date(2024, 3, 10, 21, 45, 0, 0, ist), 131, 84, 78),
	}

	got := FilterByDate(d, date(2024, 3, 10), date(2024, 3, 10))
	if len(got) != 2 {
		t.Fatalf("expected both same-day readings, got %d", len(got))
	}
}

func TestFilterByInstantEndOfDayInclusive(t *testing.T) {
	t.Parallel()

	d := Dataset{
		reading(time.Date(2024, 1, 2, 0, 0, 0, 0, ist), 120, 75, 70),
		reading(time.Date(2024, 1, 3, 23, 59, 59, 0, ist), 121, 76, 71),
		reading(time.Date(2024, 1, 4, 0, 0, 0, 0, ist), 122, 77, 72),
	}

	got := FilterByInstant(d, date(2024, 1, 2), date(2024, 1, 3))
	if len(got) != 2 {
		t.Fatalf("expected 2 readings inside the instant window, got %d", len(got))
	}
	if got[1].Timestamp.Day() != 3 {
		t.Fatalf("expected 23:59:59 reading included, got %v", got[1].Timestamp)
	}
}

func TestFilterByInstantInvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()

	got := FilterByInstant(fiveDays(), date(2024, 1, 5), date(2024, 1, 1))
	if len(got) != 0 {
		t.Fatalf("expected empty dataset for inverted range, got %d readings", len(got))
	}
}

func TestFilterByInstantEmptyDataset(t *testing.T) {
	t.Parallel()

	if got := FilterByInstant(nil, date(2024, 1, 1), date(2024, 1, 2)); len(got) != 0 {
		t.Fatalf("expected empty result for empty dataset, got %d", len(got))
	}
}

func TestDatasetBoundsEmpty(t *testing.T) {
	t.Parallel()

	if _, _, ok := Dataset(nil).Bounds(); ok {
		t.Fatal("expected ok=false for empty dataset bounds")
	}
}
