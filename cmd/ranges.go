/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/humaidq/vitalwave/vitals"
)

// defaultSafeRanges returns the built-in safe-range table. Published
// guidance disagrees on some bounds (the Diastolic upper limit is quoted as
// both 79 and 80), so every bound is overridable with --safe-range rather
// than baked in.
func defaultSafeRanges() map[string]vitals.SafeRange {
	return map[string]vitals.SafeRange{
		vitals.MetricSystolic:  {Low: 90, High: 129},
		vitals.MetricDiastolic: {Low: 60, High: 79},
		vitals.MetricPulse:     {Low: 60, High: 100},
	}
}

// parseSafeRange parses one "Metric=low:high" flag value.
func parseSafeRange(raw string) (string, vitals.SafeRange, error) {
	metric, bounds, found := strings.Cut(raw, "=")
	if !found {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: %q", errInvalidSafeRange, raw)
	}

	lowStr, highStr, found := strings.Cut(bounds, ":")
	if !found {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: %q", errInvalidSafeRange, raw)
	}

	metric = strings.TrimSpace(metric)
	if metric == "" {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: %q", errInvalidSafeRange, raw)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(lowStr), 64)
	if err != nil {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: invalid low bound in %q", errInvalidSafeRange, raw)
	}

	high, err := strconv.ParseFloat(strings.TrimSpace(highStr), 64)
	if err != nil {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: invalid high bound in %q", errInvalidSafeRange, raw)
	}

	if low > high {
		return "", vitals.SafeRange{}, fmt.Errorf("%w: low bound exceeds high bound in %q", errInvalidSafeRange, raw)
	}

	return metric, vitals.SafeRange{Low: low, High: high}, nil
}

// buildSafeRanges overlays --safe-range flag values on the defaults.
func buildSafeRanges(flags []string) (map[string]vitals.SafeRange, error) {
	ranges := defaultSafeRanges()

	for _, raw := range flags {
		metric, safe, err := parseSafeRange(raw)
		if err != nil {
			return nil, err
		}
		ranges[metric] = safe
	}

	return ranges, nil
}
