package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rbscholtus/glsstrip/internal/applog"
	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/construct"
	"github.com/rbscholtus/glsstrip/internal/glsutil"
	"github.com/rbscholtus/glsstrip/internal/instanceio"
	"github.com/rbscholtus/glsstrip/internal/orchestrator"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/svgrender"
	"github.com/urfave/cli/v2"
)

var optimiseCommand = &cli.Command{
	Name:      "optimise",
	Aliases:   []string{"o"},
	Usage:     "Pack an instance via constructive placement + Guided Local Search",
	ArgsUsage: "<instance.json>",
	Flags:     flagsSlice("out-dir", "max-time", "seed", "warm-start", "log-file", "quiet"),
	Action:    optimiseAction,
}

func optimiseAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly 1 instance file, got %d", c.Args().Len())
	}
	instancePath := c.Args().First()

	inst, err := instanceio.Load(instancePath)
	if err != nil {
		return err
	}

	params := config.DefaultParams(len(inst.Items), runtime.NumCPU())
	params.MaxTime = c.Duration("max-time")
	params.Seed = c.Int64("seed")
	if params.Seed == 0 {
		params.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(params.Seed))

	container := problem.NewContainer(1, inst.ContainerHeight)
	prob := problem.NewProblem(inst.Items, container)

	if warmStart := c.String("warm-start"); warmStart != "" {
		sol, err := instanceio.LoadSolution(warmStart)
		if err != nil {
			return err
		}
		prob.RestoreToSolution(sol)
	} else {
		construct.Initial(prob, params, rng)
	}

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	var consoleOut io.Writer
	if !c.Bool("quiet") {
		consoleOut = os.Stdout
	}
	var fileOut io.Writer
	if logPath := c.String("log-file"); logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("creating log file %s: %w", logPath, err)
		}
		defer glsutil.LogClose(f)
		fileOut = f
	}
	logger := applog.New(consoleOut, fileOut)

	listener := newCLIListener(logger, outDir, inst.Items, inst.ContainerHeight)

	term := orchestrator.NewTerminator(params.MaxTime)
	defer term.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigCh; ok {
			logger.Infof("cancelling: received interrupt")
			term.Cancel()
		}
	}()
	defer signal.Stop(sigCh)

	logger.Infof("loaded instance %q with %d item types, %d total copies", inst.Name, len(inst.Items), totalDemand(inst.Items))

	sol := orchestrator.Optimize(prob, params, listener, term)

	finalProb := rebuildProblem(inst.Items, sol, inst.ContainerHeight)
	logger.Infof("final width %.3f, usage %.3f%%", sol.Width, finalProb.Usage()*100)
	return nil
}

func totalDemand(items []problem.Item) int {
	n := 0
	for _, it := range items {
		n += it.Demand
	}
	return n
}

func rebuildProblem(items []problem.Item, sol problem.Solution, containerHeight float64) *problem.Problem {
	prob := problem.NewProblem(items, problem.NewContainer(sol.Width, containerHeight))
	prob.RestoreToSolution(sol)
	return prob
}

// cliListener persists progress to disk and the structured logger, adapting
// orchestrator.SolutionListener to the CLI's output directory (spec.md §6's
// SolutionListener collaborator).
type cliListener struct {
	logger          *applog.Logger
	outDir          string
	items           []problem.Item
	containerHeight float64
}

func newCLIListener(logger *applog.Logger, outDir string, items []problem.Item, containerHeight float64) *cliListener {
	return &cliListener{logger: logger, outDir: outDir, items: items, containerHeight: containerHeight}
}

func (l *cliListener) Init(prob *problem.Problem) {
	l.logger.Infof("starting from width %.3f", prob.StripWidth())
}

func (l *cliListener) Feasible(sol problem.Solution, width float64) {
	l.logger.Log(applog.Event{Event: "feasible", Width: &width, Message: fmt.Sprintf("new best width %.3f", width)})
	l.writeSnapshot(sol, "solution")
}

func (l *cliListener) Intermediate(event string, overlap float64, width float64) {
	l.logger.Log(applog.Event{Event: event, Overlap: &overlap, Width: &width})
}

func (l *cliListener) Final(sol problem.Solution, width float64) {
	l.logger.Log(applog.Event{Event: "final", Width: &width, Message: fmt.Sprintf("final width %.3f", width)})
	l.writeSnapshot(sol, "solution")
}

func (l *cliListener) writeSnapshot(sol problem.Solution, name string) {
	jsonPath := filepath.Join(l.outDir, name+".json")
	if err := instanceio.SaveSolution(jsonPath, sol); err != nil {
		l.logger.Infof("failed to save %s: %v", jsonPath, err)
		return
	}
	prob := rebuildProblem(l.items, sol, l.containerHeight)
	svgPath := filepath.Join(l.outDir, name+".svg")
	if err := os.WriteFile(svgPath, []byte(svgrender.Render(prob, name, svgrender.DefaultOptions())), 0o644); err != nil {
		l.logger.Infof("failed to save %s: %v", svgPath, err)
	}
}
