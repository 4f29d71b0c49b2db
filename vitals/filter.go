/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "time"

// dateKey collapses a timestamp to a comparable calendar date in its own
// location. Datasets are normalized to a single timezone by the loader, so
// this is the dataset timezone.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// FilterByDate returns the readings whose calendar date falls within the
// inclusive [start, end] interval, preserving the dataset's original order.
// This is the default granularity: multiple readings commonly share a day.
// An inverted interval legitimately contains nothing and yields an empty
// dataset rather than an error.
func FilterByDate(d Dataset, start, end time.Time) Dataset {
	from := dateKey(start)
	to := dateKey(end)

	var filtered Dataset
	for _, r := range d {
		key := dateKey(r.Timestamp)
		if key >= from && key <= to {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// FilterByInstant returns the readings whose timestamp falls within
// [start 00:00:00, end 23:59:59.999] in the dataset's normalization
// timezone. Callers that need sub-day precision use this instead of
// FilterByDate; the two agree whenever readings carry no fractional-day
// spillover across the boundary dates.
func FilterByInstant(d Dataset, start, end time.Time) Dataset {
	if len(d) == 0 {
		return nil
	}

	loc := d[0].Timestamp.Location()
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), loc)

	var filtered Dataset
	for _, r := range d {
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered
}
