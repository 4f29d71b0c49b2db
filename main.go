/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/vitalwave/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "vitalwave",
		Usage: "Vitalwave - Personal Vitals Dashboard",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdFetch,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
