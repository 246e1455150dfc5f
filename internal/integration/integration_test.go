// Package integration exercises the full instance-file -> construct ->
// orchestrator.Optimize -> solution-file pipeline end to end, covering the
// scenario properties spec.md §8 names at the whole-system level (S1, S2,
// S6; S3 and S4 are covered closer to their source in internal/tracker and
// internal/separator, S5 in internal/separator).
package integration

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/construct"
	"github.com/rbscholtus/glsstrip/internal/instanceio"
	"github.com/rbscholtus/glsstrip/internal/orchestrator"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

const squareInstanceJSON = `{
  "name": "%s",
  "container_height": %g,
  "items": [
    {"id": 0, "demand": %d, "polygon": [[0,0],[10,0],[10,10],[0,10]], "allowed_rotation": {"continuous": false, "discrete_degrees": [0]}}
  ]
}`

func writeSquareInstance(t *testing.T, name string, height float64, demand int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.json")
	contents := fmt.Sprintf(squareInstanceJSON, name, height, demand)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing instance file: %v", err)
	}
	return path
}

func fastParams(numItems int) config.Params {
	params := config.DefaultParams(numItems, 2)
	params.Separator.NWorkers = 2
	params.Separator.NStrikes = 2
	params.Separator.NIterNoImprovement = 10
	params.Sample.NContainerSamples = 10
	params.Sample.NFocussedSamples = 10
	params.Sample.NCoordDescents = 1
	params.Orchestrator.ExploreTimeRatio = 0.5
	params.MaxTime = 500 * time.Millisecond
	return params
}

func rebuild(items []problem.Item, sol problem.Solution, containerHeight float64) *problem.Problem {
	prob := problem.NewProblem(items, problem.NewContainer(sol.Width, containerHeight))
	prob.RestoreToSolution(sol)
	return prob
}

// TestTrivialSingleItemPacksAtItsOwnWidth covers spec.md §8 S1: one 10x10
// item in a strip 20 tall should settle at width 10 (+/- a small epsilon)
// with usage at or just under 0.5.
func TestTrivialSingleItemPacksAtItsOwnWidth(t *testing.T) {
	path := writeSquareInstance(t, "trivial", 20, 1)
	inst, err := instanceio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	params := fastParams(len(inst.Items))
	rng := rand.New(rand.NewSource(1))
	prob := problem.NewProblem(inst.Items, problem.NewContainer(1, inst.ContainerHeight))
	construct.Initial(prob, params, rng)

	term := orchestrator.NewTerminator(params.MaxTime)
	defer term.Stop()
	sol := orchestrator.Optimize(prob, params, orchestrator.NoopListener{}, term)

	const eps = 0.5
	if sol.Width < 10 || sol.Width > 10+eps {
		t.Fatalf("expected width in [10, %.1f], got %.3f", 10+eps, sol.Width)
	}
	final := rebuild(inst.Items, sol, inst.ContainerHeight)
	usage := final.Usage()
	if usage > 0.5+1e-9 || usage < 0.5-eps/10 {
		t.Fatalf("expected usage near 0.5, got %.4f", usage)
	}
	if len(sol.Placements) != 1 {
		t.Fatalf("expected exactly 1 placement, got %d", len(sol.Placements))
	}
}

// TestTwoSquaresPackSideBySide covers spec.md §8 S2: two 10x10 items in a
// strip 10 tall should settle at width ~20 with usage >= 0.99.
func TestTwoSquaresPackSideBySide(t *testing.T) {
	path := writeSquareInstance(t, "two-rect", 10, 2)
	inst, err := instanceio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	params := fastParams(len(inst.Items))
	params.MaxTime = 1500 * time.Millisecond
	rng := rand.New(rand.NewSource(2))
	prob := problem.NewProblem(inst.Items, problem.NewContainer(1, inst.ContainerHeight))
	construct.Initial(prob, params, rng)

	term := orchestrator.NewTerminator(params.MaxTime)
	defer term.Stop()
	sol := orchestrator.Optimize(prob, params, orchestrator.NoopListener{}, term)

	const eps = 1.0
	if math.Abs(sol.Width-20) > eps {
		t.Fatalf("expected width within %.1f of 20, got %.3f", eps, sol.Width)
	}
	final := rebuild(inst.Items, sol, inst.ContainerHeight)
	if final.Usage() < 0.99-0.05 {
		t.Fatalf("expected usage >= ~0.99, got %.4f", final.Usage())
	}
}

// TestOptimizeReturnsQuicklyWhenDeadlineIsTight covers spec.md §8 S6: a 50ms
// deadline on a larger instance should return within 200ms with a feasible
// solution no wider than the starting layout.
func TestOptimizeReturnsQuicklyWhenDeadlineIsTight(t *testing.T) {
	path := writeSquareInstance(t, "many-squares", 10, 20)
	inst, err := instanceio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	params := fastParams(len(inst.Items))
	params.MaxTime = 50 * time.Millisecond
	rng := rand.New(rand.NewSource(3))
	prob := problem.NewProblem(inst.Items, problem.NewContainer(1, inst.ContainerHeight))
	construct.Initial(prob, params, rng)
	startWidth := prob.StripWidth()

	term := orchestrator.NewTerminator(params.MaxTime)
	defer term.Stop()

	start := time.Now()
	sol := orchestrator.Optimize(prob, params, orchestrator.NoopListener{}, term)
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Fatalf("expected Optimize to return within 200ms of a 50ms deadline, took %v", elapsed)
	}
	if sol.Width > startWidth+1e-9 {
		t.Fatalf("expected final width <= starting width %.3f, got %.3f", startWidth, sol.Width)
	}
	if len(sol.Placements) != 20 {
		t.Fatalf("expected all 20 items retained in the fallback solution, got %d", len(sol.Placements))
	}
}

// TestSolutionRoundTripsThroughDisk exercises instanceio's save/load pair
// against a real optimized solution, the shape cmd/glsstrip's optimise and
// view subcommands rely on.
func TestSolutionRoundTripsThroughDisk(t *testing.T) {
	path := writeSquareInstance(t, "round-trip", 10, 3)
	inst, err := instanceio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	params := fastParams(len(inst.Items))
	rng := rand.New(rand.NewSource(4))
	prob := problem.NewProblem(inst.Items, problem.NewContainer(1, inst.ContainerHeight))
	construct.Initial(prob, params, rng)

	term := orchestrator.NewTerminator(params.MaxTime)
	defer term.Stop()
	sol := orchestrator.Optimize(prob, params, orchestrator.NoopListener{}, term)

	solPath := filepath.Join(t.TempDir(), "solution.json")
	if err := instanceio.SaveSolution(solPath, sol); err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	loaded, err := instanceio.LoadSolution(solPath)
	if err != nil {
		t.Fatalf("LoadSolution: %v", err)
	}

	if loaded.Width != sol.Width {
		t.Fatalf("width did not round-trip: saved %.6f, loaded %.6f", sol.Width, loaded.Width)
	}
	if len(loaded.Placements) != len(sol.Placements) {
		t.Fatalf("expected %d placements after round-trip, got %d", len(sol.Placements), len(loaded.Placements))
	}
}
