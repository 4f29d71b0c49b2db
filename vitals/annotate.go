/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

// Annotation records, for one reading, which evaluated metrics were out of
// their safe range. Flags only contains entries for metrics that were
// selected, configured, and present on the reading; a skipped metric has no
// entry at all, so consumers can distinguish "in range" from "not
// evaluated".
type Annotation struct {
	Flags        map[string]bool
	AnyEmergency bool
}

// OutOfRange reports whether the named metric was evaluated and found
// outside its safe range.
func (a Annotation) OutOfRange(metric string) bool {
	return a.Flags[metric]
}

// Evaluated reports whether the named metric was evaluated for this
// reading.
func (a Annotation) Evaluated(metric string) bool {
	_, ok := a.Flags[metric]
	return ok
}

// Annotate computes an out-of-range annotation for every reading in the
// dataset. A metric is evaluated only when it is selected, has a configured
// safe range, and the reading reports a value for it; unknown or
// unconfigured metrics degrade silently so a partial configuration never
// fails the whole computation. The result is a pure function of the
// inputs.
func Annotate(d Dataset, selected []string, ranges map[string]SafeRange) []Annotation {
	if len(d) == 0 {
		return nil
	}

	annotations := make([]Annotation, len(d))
	for i, r := range d {
		flags := make(map[string]bool, len(selected))
		emergency := false

		for _, metric := range selected {
			safe, ok := ranges[metric]
			if !ok {
				// No policy configured for this metric.
				continue
			}

			value, ok := r.Metrics[metric]
			if !ok {
				// Reading did not report this metric.
				continue
			}

			out := !safe.Contains(value)
			flags[metric] = out
			if out {
				emergency = true
			}
		}

		annotations[i] = Annotation{Flags: flags, AnyEmergency: emergency}
	}

	return annotations
}
