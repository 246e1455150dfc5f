package main

import "github.com/urfave/cli/v2"

// appFlagsMap centralizes flag definitions so each subcommand can select only
// the ones it needs (keycraft's cmd/main/main.go flagsSlice/appFlagsMap
// pattern).
var appFlagsMap = map[string]cli.Flag{
	"out-dir": &cli.StringFlag{
		Name:    "out-dir",
		Aliases: []string{"o"},
		Usage:   "directory to write solution.json and solution.svg into",
		Value:   ".",
	},
	"max-time": &cli.DurationFlag{
		Name:    "max-time",
		Aliases: []string{"t"},
		Usage:   "total wall-clock optimisation budget, e.g. 5m or 30s",
		Value:   defaultMaxTime,
	},
	"seed": &cli.Int64Flag{
		Name:  "seed",
		Usage: "PRNG seed; 0 picks a random seed",
	},
	"warm-start": &cli.StringFlag{
		Name:    "warm-start",
		Aliases: []string{"w"},
		Usage:   "solution JSON file to restore as the starting layout instead of constructing one",
	},
	"log-file": &cli.StringFlag{
		Name:  "log-file",
		Usage: "JSONL progress log path; empty disables file logging",
	},
	"quiet": &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "suppress console progress output",
	},
	"out": &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output SVG file path",
		Value:   "layout.svg",
	},
	"runs": &cli.IntFlag{
		Name:    "runs",
		Aliases: []string{"n"},
		Usage:   "number of independent optimisation runs to benchmark",
		Value:   3,
	},
}

// flagsSlice converts selected flag keys to a slice, in order.
func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
