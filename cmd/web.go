/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/vitalwave/routes"
	"github.com/humaidq/vitalwave/sheets"
	"github.com/humaidq/vitalwave/static"
	"github.com/humaidq/vitalwave/templates"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   sheets.DefaultCacheTTL,
			Sources: cli.EnvVars("SHEET_CACHE_TTL"),
			Usage:   "how long a fetched dataset is reused before re-fetching",
		},
		&cli.BoolFlag{
			Name:  "instant-filter",
			Usage: "filter by full end-of-day-inclusive instants instead of calendar dates",
		},
	}, sourceFlags...),
	Action: start,
}

// sourceFlags are shared by the start and fetch commands.
var sourceFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "sheet-url",
		Sources: cli.EnvVars("SHEET_URL"),
		Usage:   "spreadsheet export URL (Google Sheets CSV export or XLSX)",
	},
	&cli.StringFlag{
		Name:    "timezone",
		Value:   "Asia/Kolkata",
		Sources: cli.EnvVars("SHEET_TIMEZONE"),
		Usage:   "IANA timezone the sheet's timestamps are recorded in",
	},
	&cli.StringSliceFlag{
		Name:  "safe-range",
		Usage: "override a metric's safe range, e.g. \"Diastolic=60:80\" (repeatable)",
	},
}

// newSource builds a sheet source from the shared flags.
func newSource(cmd *cli.Command, ttl time.Duration) (*sheets.Source, error) {
	sheetURL := cmd.String("sheet-url")
	if sheetURL == "" {
		return nil, errSheetURLRequired
	}

	loc, err := time.LoadLocation(cmd.String("timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	return sheets.NewSource(sheetURL, loc, ttl), nil
}

func start(_ context.Context, cmd *cli.Command) error {
	source, err := newSource(cmd, cmd.Duration("cache-ttl"))
	if err != nil {
		return err
	}

	safeRanges, err := buildSafeRanges(cmd.StringSlice("safe-range"))
	if err != nil {
		return err
	}

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer())
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())

	dash := routes.NewDashboard(source, routes.Config{
		SafeRanges:    safeRanges,
		InstantFilter: cmd.Bool("instant-filter"),
	})

	f.Get("/", dash.Index)
	f.Post("/refresh", csrf.Validate, dash.Refresh)

	port := cmd.String("port")
	appLogger.Info("Starting web server", "port", port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("web server failed: %w", err)
	}

	return nil
}
