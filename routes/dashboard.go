/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"encoding/gob"
	htmltemplate "html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/vitalwave/logging"
	"github.com/humaidq/vitalwave/sheets"
	"github.com/humaidq/vitalwave/vitals"
)

var logger = logging.Logger(logging.SourceWeb)

const dateLayout = "2006-01-02"

// DatasetProvider supplies immutable dataset snapshots to the handlers.
// *sheets.Source satisfies it; tests substitute a fake.
type DatasetProvider interface {
	Dataset(ctx context.Context) (vitals.Dataset, error)
	Refresh(ctx context.Context) (vitals.Dataset, error)
}

// Config carries the caller-supplied dashboard policy: the safe-range table
// and the filtering granularity. Both are configuration, not constants;
// published sources disagree on bounds like the Diastolic upper limit, so
// the dashboard never hard-codes them.
type Config struct {
	SafeRanges map[string]vitals.SafeRange

	// InstantFilter selects the [start 00:00:00, end 23:59:59.999] instant
	// contract instead of the default calendar-date granularity.
	InstantFilter bool
}

// Dashboard holds the handlers for the vitals dashboard pages.
type Dashboard struct {
	source DatasetProvider
	config Config
}

// NewDashboard creates the dashboard handler set.
func NewDashboard(source DatasetProvider, config Config) *Dashboard {
	return &Dashboard{source: source, config: config}
}

// storedSelection is the session-persisted form of the filter selection, so
// the chosen window and metrics stick between visits.
type storedSelection struct {
	Start   string
	End     string
	Metrics []string
}

func init() {
	gob.Register(storedSelection{})
}

// Index renders the dashboard: filter form, vitals chart, and raw-data
// table. Filter inputs are user-adjustable and must never error the page;
// anything unusable falls back to defaults.
func (d *Dashboard) Index(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	data["PageTitle"] = "Vitalwave"
	data["Metrics"] = metricOptions()

	ctx := c.Request().Context()

	dataset, err := d.source.Dataset(ctx)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		data["Error"] = "Failed to load readings from the spreadsheet"
		t.HTML(http.StatusOK, "dashboard")
		return
	}

	first, last, hasReadings := dataset.Bounds()
	if hasReadings {
		data["MinDate"] = first.Format(dateLayout)
		data["MaxDate"] = last.Format(dateLayout)
	}

	selection := d.resolveSelection(c, s, dataset)
	data["StartDate"] = selection.Start.Format(dateLayout)
	data["EndDate"] = selection.End.Format(dateLayout)
	data["Selected"] = selectedSet(selection.Metrics)

	var filtered vitals.Dataset
	if d.config.InstantFilter {
		filtered = vitals.FilterByInstant(dataset, selection.Start, selection.End)
	} else {
		filtered = vitals.FilterByDate(dataset, selection.Start, selection.End)
	}

	switch {
	case !hasReadings:
		data["NoReadings"] = true
	case len(selection.Metrics) == 0:
		data["NoMetrics"] = true
	case len(filtered) == 0:
		data["NoData"] = true
	}

	annotations := vitals.Annotate(filtered, selection.Metrics, d.config.SafeRanges)

	if len(filtered) > 0 && len(selection.Metrics) > 0 {
		chart, err := generateVitalsChart(filtered, annotations, selection.Metrics, d.config.SafeRanges)
		if err != nil {
			logger.Error("Failed to generate chart", "error", err)
		} else if chart != "" {
			data["Chart"] = htmltemplate.HTML(chart)
		}

		data["Columns"] = tableColumns(selection.Metrics)
		data["Rows"] = tableRows(filtered, annotations, selection.Metrics)
	}

	t.HTML(http.StatusOK, "dashboard")
}

// Refresh discards the cached dataset and re-fetches the source.
func (d *Dashboard) Refresh(c flamego.Context, s session.Session) {
	dataset, err := d.source.Refresh(c.Request().Context())
	if err != nil {
		logger.Error("Failed to refresh dataset", "error", err)
		SetErrorFlash(s, "Failed to refresh readings")
	} else {
		SetSuccessFlash(s, "Loaded "+strconv.Itoa(len(dataset))+" readings")
	}

	c.Redirect("/", http.StatusSeeOther)
}

// resolveSelection builds the active selection from, in order: query
// parameters, the session-stored previous selection, and dataset-derived
// defaults (today when the sheet has readings today, otherwise the most
// recent reading's date, matching how the data is usually reviewed).
func (d *Dashboard) resolveSelection(c flamego.Context, s session.Session, dataset vitals.Dataset) vitals.Selection {
	selection, ok := d.selectionFromQuery(c, s, dataset)
	if !ok {
		selection, ok = selectionFromSession(s)
	}
	if !ok {
		selection = defaultSelection(dataset)
	}

	s.Set("selection", storedSelection{
		Start:   selection.Start.Format(dateLayout),
		End:     selection.End.Format(dateLayout),
		Metrics: selection.Metrics,
	})

	return selection
}

func (d *Dashboard) selectionFromQuery(c flamego.Context, s session.Session, dataset vitals.Dataset) (vitals.Selection, bool) {
	query := c.Request().URL.Query()
	rawStart := query.Get("start")
	rawEnd := query.Get("end")
	if rawStart == "" && rawEnd == "" && len(query["metric"]) == 0 {
		return vitals.Selection{}, false
	}

	// An absent date input is "keep the current window", not a parse
	// failure; only a present but malformed date warns and falls back.
	base, ok := selectionFromSession(s)
	if !ok {
		base = defaultSelection(dataset)
	}

	start, end := base.Start, base.End
	if rawStart != "" {
		parsed, err := time.Parse(dateLayout, rawStart)
		if err != nil {
			SetWarningFlash(s, "Invalid start date; showing the default range")
			return vitals.Selection{}, false
		}
		start = parsed
	}
	if rawEnd != "" {
		parsed, err := time.Parse(dateLayout, rawEnd)
		if err != nil {
			SetWarningFlash(s, "Invalid end date; showing the default range")
			return vitals.Selection{}, false
		}
		end = parsed
	}

	var metrics []string
	for _, metric := range query["metric"] {
		for _, known := range vitals.KnownMetrics() {
			if metric == known {
				metrics = append(metrics, metric)
				break
			}
		}
	}

	return vitals.Selection{Start: start, End: end, Metrics: metrics}, true
}

func selectionFromSession(s session.Session) (vitals.Selection, bool) {
	stored, ok := s.Get("selection").(storedSelection)
	if !ok {
		return vitals.Selection{}, false
	}

	start, err := time.Parse(dateLayout, stored.Start)
	if err != nil {
		return vitals.Selection{}, false
	}

	end, err := time.Parse(dateLayout, stored.End)
	if err != nil {
		return vitals.Selection{}, false
	}

	return vitals.Selection{Start: start, End: end, Metrics: stored.Metrics}, true
}

func defaultSelection(dataset vitals.Dataset) vitals.Selection {
	selection := vitals.Selection{Metrics: vitals.KnownMetrics()}

	_, last, ok := dataset.Bounds()
	if !ok {
		now := time.Now()
		selection.Start, selection.End = now, now
		return selection
	}

	day := last
	now := time.Now().In(last.Location())
	if sameDate(now, last) {
		day = now
	}

	selection.Start, selection.End = day, day

	return selection
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// metricOption is one metric checkbox in the filter form.
type metricOption struct {
	Name  string
	Label string
}

func metricOptions() []metricOption {
	options := make([]metricOption, 0, len(vitals.KnownMetrics()))
	for _, metric := range vitals.KnownMetrics() {
		options = append(options, metricOption{
			Name:  metric,
			Label: sheets.MetricLabel(metric),
		})
	}
	return options
}

func selectedSet(metrics []string) map[string]bool {
	set := make(map[string]bool, len(metrics))
	for _, metric := range metrics {
		set[metric] = true
	}
	return set
}

// tableCell is one metric value in the raw-data table.
type tableCell struct {
	Value      string
	Missing    bool
	OutOfRange bool
}

// tableRow is one reading in the raw-data table.
type tableRow struct {
	Time      string
	Cells     []tableCell
	Emergency bool
}

func tableColumns(selected []string) []string {
	columns := make([]string, 0, len(selected))
	for _, metric := range selected {
		columns = append(columns, sheets.MetricLabel(metric))
	}
	return columns
}

func tableRows(dataset vitals.Dataset, annotations []vitals.Annotation, selected []string) []tableRow {
	rows := make([]tableRow, 0, len(dataset))

	for i, r := range dataset {
		row := tableRow{
			Time:      r.Timestamp.Format("2 Jan 2006, 3:04 PM"),
			Emergency: annotations[i].AnyEmergency,
		}

		for _, metric := range selected {
			value, ok := r.Value(metric)
			if !ok {
				row.Cells = append(row.Cells, tableCell{Value: "—", Missing: true})
				continue
			}

			row.Cells = append(row.Cells, tableCell{
				Value:      strconv.FormatFloat(value, 'f', -1, 64),
				OutOfRange: annotations[i].OutOfRange(metric),
			})
		}

		rows = append(rows, row)
	}

	return rows
}
