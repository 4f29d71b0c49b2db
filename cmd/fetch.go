/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/vitalwave/sheets"
	"github.com/humaidq/vitalwave/vitals"
)

var CmdFetch = &cli.Command{
	Name:  "fetch",
	Usage: "Fetch the spreadsheet once and print the readings",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "start date (YYYY-MM-DD), defaults to the first reading",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "end date (YYYY-MM-DD), defaults to the last reading",
		},
	}, sourceFlags...),
	Action: fetch,
}

func fetch(ctx context.Context, cmd *cli.Command) error {
	source, err := newSource(cmd, 0)
	if err != nil {
		return err
	}

	safeRanges, err := buildSafeRanges(cmd.StringSlice("safe-range"))
	if err != nil {
		return err
	}

	dataset, err := source.Dataset(ctx)
	if err != nil {
		return err
	}

	first, last, ok := dataset.Bounds()
	if !ok {
		fmt.Println("No readings in the spreadsheet.")
		return nil
	}

	start, end := first, last
	if raw := cmd.String("start"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if raw := cmd.String("end"); raw != "" {
		end, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}

	filtered := vitals.FilterByDate(dataset, start, end)
	annotations := vitals.Annotate(filtered, vitals.KnownMetrics(), safeRanges)

	if len(filtered) == 0 {
		fmt.Println("No readings in the selected range.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "Timestamp")
	for _, metric := range vitals.KnownMetrics() {
		fmt.Fprintf(w, "\t%s", sheets.MetricLabel(metric))
	}
	fmt.Fprintln(w)

	for i, r := range filtered {
		fmt.Fprint(w, r.Timestamp.Format("2006-01-02 15:04:05"))
		for _, metric := range vitals.KnownMetrics() {
			value, ok := r.Value(metric)
			switch {
			case !ok:
				fmt.Fprint(w, "\t-")
			case annotations[i].OutOfRange(metric):
				// Mark out-of-range values the way lab reports do.
				fmt.Fprintf(w, "\t%g !", value)
			default:
				fmt.Fprintf(w, "\t%g", value)
			}
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
