/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errSheetURLRequired = errors.New("sheet-url is required (set via --sheet-url or SHEET_URL env var)")
	errInvalidSafeRange = errors.New("safe-range must be formatted as Metric=low:high")
)
