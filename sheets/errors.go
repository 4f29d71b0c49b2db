/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package sheets

import "errors"

var (
	ErrNoTimestampColumn   = errors.New("spreadsheet has no Timestamp column")
	ErrWorkbookHasNoSheets = errors.New("workbook contains no sheets")
)
