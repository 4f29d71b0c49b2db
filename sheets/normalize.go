/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package sheets

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/humaidq/vitalwave/vitals"
)

// timestampColumn is the sheet header of the submission timestamp, as
// produced by Google Forms.
const timestampColumn = "Timestamp"

// columnMetrics maps spreadsheet column labels to canonical metric names.
// Canonical names are also accepted directly, so a pre-cleaned sheet works
// without the long-form labels.
var columnMetrics = map[string]string{
	"Systolic Pressure (mmHg)":  vitals.MetricSystolic,
	"Diastolic Pressure (mmHg)": vitals.MetricDiastolic,
	"Pulse (bpm)":               vitals.MetricPulse,
	vitals.MetricSystolic:       vitals.MetricSystolic,
	vitals.MetricDiastolic:      vitals.MetricDiastolic,
	vitals.MetricPulse:          vitals.MetricPulse,
}

// metricLabels maps canonical metric names back to display labels with
// units for chart and table headers.
var metricLabels = map[string]string{
	vitals.MetricSystolic:  "Systolic Pressure (mmHg)",
	vitals.MetricDiastolic: "Diastolic Pressure (mmHg)",
	vitals.MetricPulse:     "Pulse (bpm)",
}

// MetricLabel returns the display label (with unit) for a canonical metric
// name. Unknown metrics are returned as-is.
func MetricLabel(metric string) string {
	if label, ok := metricLabels[metric]; ok {
		return label
	}
	return metric
}

// timestampLayouts are the accepted timestamp formats, tried in order.
// Google Forms CSV exports use the first.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

// xlsxMagic is the ZIP local-file-header signature; XLSX workbooks are ZIP
// containers.
var xlsxMagic = []byte("PK\x03\x04")

// Parse normalizes raw spreadsheet bytes into a dataset. The format is
// sniffed: XLSX workbooks by their ZIP signature, anything else treated as
// CSV. Timestamps are interpreted in loc and the result is sorted by
// timestamp ascending.
func Parse(data []byte, loc *time.Location) (vitals.Dataset, error) {
	if bytes.HasPrefix(data, xlsxMagic) {
		return parseXLSX(data, loc)
	}
	return parseCSV(data, loc)
}

func parseCSV(data []byte, loc *time.Location) (vitals.Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return normalizeRows(rows, loc)
}

func parseXLSX(data []byte, loc *time.Location) (vitals.Dataset, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	sheetList := workbook.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrWorkbookHasNoSheets
	}

	rows, err := workbook.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetList[0], err)
	}

	return normalizeRows(rows, loc)
}

// normalizeRows maps a raw header+rows table to canonical readings. Header
// whitespace is trimmed before matching, mirroring how untidy the source
// sheet headers tend to be. Columns that map to no known metric are
// ignored.
func normalizeRows(rows [][]string, loc *time.Location) (vitals.Dataset, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	timestampIdx := -1
	metricIdx := make(map[int]string)

	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if strings.EqualFold(header, timestampColumn) {
			timestampIdx = i
			continue
		}
		if metric, ok := columnMetrics[header]; ok {
			metricIdx[i] = metric
		}
	}

	if timestampIdx == -1 {
		return nil, ErrNoTimestampColumn
	}

	var dataset vitals.Dataset
	for n, row := range rows[1:] {
		if timestampIdx >= len(row) {
			continue
		}

		raw := strings.TrimSpace(row[timestampIdx])
		if raw == "" {
			// Trailing blank rows are common in sheet exports.
			continue
		}

		ts, err := parseTimestamp(raw, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		metrics := make(map[string]float64, len(metricIdx))
		for idx, metric := range metricIdx {
			if idx >= len(row) {
				continue
			}
			value, ok, err := parseCell(row[idx])
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", n+2, metric, err)
			}
			if ok {
				metrics[metric] = value
			}
		}

		dataset = append(dataset, vitals.Reading{Timestamp: ts, Metrics: metrics})
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		return dataset[i].Timestamp.Before(dataset[j].Timestamp)
	})

	return dataset, nil
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// parseCell parses a loosely-typed numeric spreadsheet cell. A blank cell
// is a valid missing value, not an error.
func parseCell(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid numeric cell %q", raw)
	}

	return value, true, nil
}
