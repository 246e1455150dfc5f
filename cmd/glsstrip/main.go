// Package main provides the CLI entrypoint for the glsstrip strip-packing
// optimizer (spec.md §6: instance path, wall-clock budget, output directory,
// optional seed and warm-start solution path).
//
// optimise.go runs the full construct -> GLS -> compress pipeline on an
// instance and writes the best solution found.
//
// render.go renders an instance plus an optional solution file to SVG.
//
// view.go prints a summary table for one or more solutions.
//
// bench.go runs several independent optimisations and reports aggregate stats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

const defaultMaxTime = 15 * time.Minute

func main() {
	app := &cli.App{
		Name:  "glsstrip",
		Usage: "Irregular strip packing via Guided Local Search",
		Commands: []*cli.Command{
			optimiseCommand,
			renderCommand,
			viewCommand,
			benchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
