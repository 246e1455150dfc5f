package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rbscholtus/glsstrip/internal/instanceio"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/urfave/cli/v2"
)

var viewCommand = &cli.Command{
	Name:      "view",
	Aliases:   []string{"v"},
	Usage:     "Print a summary table for one or more solutions against an instance",
	ArgsUsage: "<instance.json> <solution1.json> [solution2.json ...]",
	Action:    viewAction,
}

func viewAction(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("need an instance and at least 1 solution, got %d args", c.Args().Len())
	}

	inst, err := instanceio.Load(c.Args().Get(0))
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Solution", "Width", "Usage %", "Items Placed"})
	for _, path := range c.Args().Slice()[1:] {
		sol, err := instanceio.LoadSolution(path)
		if err != nil {
			return err
		}
		prob := rebuildProblem(inst.Items, sol, inst.ContainerHeight)
		tw.AppendRow(table.Row{path, fmt.Sprintf("%.3f", sol.Width), fmt.Sprintf("%.2f", prob.Usage()*100), placementCount(prob)})
	}

	fmt.Println(tw.Render())
	return nil
}

func placementCount(prob *problem.Problem) int {
	return len(prob.Layout.Placed)
}
