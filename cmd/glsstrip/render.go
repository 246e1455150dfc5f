package main

import (
	"fmt"
	"os"

	"github.com/rbscholtus/glsstrip/internal/instanceio"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/svgrender"
	"github.com/urfave/cli/v2"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Aliases:   []string{"r"},
	Usage:     "Render an instance, optionally with a solution applied, to SVG",
	ArgsUsage: "<instance.json> [solution.json]",
	Flags:     flagsSlice("out"),
	Action:    renderAction,
}

func renderAction(c *cli.Context) error {
	if c.Args().Len() < 1 || c.Args().Len() > 2 {
		return fmt.Errorf("expected 1 or 2 arguments (instance and optional solution), got %d", c.Args().Len())
	}

	inst, err := instanceio.Load(c.Args().Get(0))
	if err != nil {
		return err
	}

	width := maxItemWidthGuess(inst.Items)
	prob := problem.NewProblem(inst.Items, problem.NewContainer(width, inst.ContainerHeight))

	title := inst.Name
	if c.Args().Len() == 2 {
		sol, err := instanceio.LoadSolution(c.Args().Get(1))
		if err != nil {
			return err
		}
		prob = rebuildProblem(inst.Items, sol, inst.ContainerHeight)
		title = fmt.Sprintf("%s (width %.3f)", inst.Name, sol.Width)
	}

	svg := svgrender.Render(prob, title, svgrender.DefaultOptions())
	outPath := c.String("out")
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// maxItemWidthGuess sizes an unplaced-instance render's container wide
// enough to be a sensible viewBox even though nothing has been packed yet.
func maxItemWidthGuess(items []problem.Item) float64 {
	var total float64
	for _, it := range items {
		total += it.BBox().Width() * float64(it.Demand)
	}
	if total <= 0 {
		return 1
	}
	return total
}
