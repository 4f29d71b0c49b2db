/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/vitalwave/sheets"
	"github.com/humaidq/vitalwave/vitals"
)

// seriesColors matches the colors the metrics have always been plotted
// with, so the chart reads the same as the old spreadsheet graphs.
var seriesColors = map[string]string{
	vitals.MetricSystolic:  "#d62728",
	vitals.MetricDiastolic: "#1f77b4",
	vitals.MetricPulse:     "#2ca02c",
}

const emergencyColor = "#ff2d2d"

// generateVitalsChart creates a line chart of the selected metrics over the
// filtered window. Out-of-range readings are overlaid as red scatter
// markers, and each metric's safe-range bounds are drawn as dashed gray
// mark lines.
func generateVitalsChart(dataset vitals.Dataset, annotations []vitals.Annotation, selected []string, ranges map[string]vitals.SafeRange) (string, error) {
	if len(dataset) == 0 || len(selected) == 0 {
		return "", nil
	}

	xAxis := make([]string, 0, len(dataset))
	for _, r := range dataset {
		xAxis = append(xAxis, r.Timestamp.Format("2 Jan, 3:04 PM"))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Vitals Over Time",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Measurement",
		}),
	)

	scatter := charts.NewScatter()
	hasEmergencies := false

	for _, metric := range selected {
		yData := make([]opts.LineData, 0, len(dataset))
		emergencyData := make([]opts.ScatterData, 0, len(dataset))
		metricEmergencies := false

		for i, r := range dataset {
			value, ok := r.Value(metric)
			if !ok {
				// echarts treats "-" as a gap in the series.
				yData = append(yData, opts.LineData{Value: "-"})
				emergencyData = append(emergencyData, opts.ScatterData{Value: "-"})
				continue
			}

			yData = append(yData, opts.LineData{Value: value})

			if annotations[i].OutOfRange(metric) {
				emergencyData = append(emergencyData, opts.ScatterData{
					Value:      value,
					Symbol:     "circle",
					SymbolSize: 14,
				})
				metricEmergencies = true
			} else {
				emergencyData = append(emergencyData, opts.ScatterData{Value: "-"})
			}
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: seriesColors[metric],
			}),
		}

		if safe, ok := ranges[metric]; ok {
			seriesOpts = append(seriesOpts, safeRangeMarkLines(metric, safe))
		}

		line.AddSeries(sheets.MetricLabel(metric), yData, seriesOpts...)

		if metricEmergencies {
			scatter.AddSeries(sheets.MetricLabel(metric)+" (emergency)", emergencyData,
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: emergencyColor,
				}),
			)
			hasEmergencies = true
		}
	}

	line.SetXAxis(xAxis)

	if hasEmergencies {
		line.Overlap(scatter)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// safeRangeMarkLines draws dashed gray bound lines for a metric's safe
// range (no arrows on either end).
func safeRangeMarkLines(metric string, safe vitals.SafeRange) charts.SeriesOpts {
	items := []interface{}{
		opts.MarkLineNameYAxisItem{
			Name:  metric + " low",
			YAxis: safe.Low,
		},
		opts.MarkLineNameYAxisItem{
			Name:  metric + " high",
			YAxis: safe.High,
		},
	}

	return func(s *charts.SingleSeries) {
		s.MarkLines = &opts.MarkLines{
			Data: items,
			MarkLineStyle: opts.MarkLineStyle{
				Symbol: []string{"none", "none"},
				LineStyle: &opts.LineStyle{
					Color: "rgba(128, 128, 128, 0.6)",
					Type:  "dashed",
					Width: 1.5,
				},
			},
		}
	}
}
