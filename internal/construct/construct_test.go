package construct

import (
	"math/rand"
	"testing"

	"github.com/rbscholtus/glsstrip/internal/cde"
	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

func rectItem(id problem.ItemID, w, h float64, demand int) problem.Item {
	shape := geo.NewPolygon([]geo.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}})
	return problem.NewItem(id, shape, geo.RotationRange{Discrete: []float64{0}}, demand, 8, 0.8)
}

func TestBuildPlacesEveryItemWithoutOverlap(t *testing.T) {
	items := []problem.Item{rectItem(0, 10, 10, 3), rectItem(1, 5, 20, 2)}
	container := problem.NewContainer(200, 20)
	prob := problem.NewProblem(items, container)
	order := expandOrder(items)
	res := ResolutionFor(container, config.ConstructParams{XStepRatio: 0.05, YStepRatio: 0.05})

	Build(prob, order, res, rand.New(rand.NewSource(1)))

	if len(prob.Layout.Placed) != len(order) {
		t.Fatalf("expected %d placements, got %d", len(order), len(prob.Layout.Placed))
	}
	for pk, pi := range prob.Layout.Placed {
		var col cde.ExistenceCollector
		excluded := []cde.HazardID{{Kind: cde.HazardItem, PK: pk}}
		prob.Layout.CDE().CollectPolyCollisions(pi.Shape(), excluded, &col)
		if col.Found {
			t.Fatalf("placement %v collides after construction", pk)
		}
	}
}

func TestBuildGrowsContainerWhenTooNarrow(t *testing.T) {
	items := []problem.Item{rectItem(0, 10, 10, 5)}
	container := problem.NewContainer(8, 10) // narrower than a single item
	prob := problem.NewProblem(items, container)
	order := expandOrder(items)
	res := ResolutionFor(container, config.ConstructParams{XStepRatio: 0.1, YStepRatio: 0.1})

	Build(prob, order, res, rand.New(rand.NewSource(2)))

	if len(prob.Layout.Placed) != 5 {
		t.Fatalf("expected all 5 items placed, got %d", len(prob.Layout.Placed))
	}
	if prob.Layout.Container.Width < 10 {
		t.Fatalf("expected the container to have grown past item width, got %f", prob.Layout.Container.Width)
	}
}

func TestInitialProducesAFeasibleLayoutOfEveryItemCopy(t *testing.T) {
	items := []problem.Item{rectItem(0, 10, 10, 4), rectItem(1, 20, 10, 2)}
	prob := problem.NewProblem(items, problem.NewContainer(1, 10))
	params := config.DefaultParams(6, 2)
	params.Construct.Generations = 5

	Initial(prob, params, rand.New(rand.NewSource(3)))

	if len(prob.Layout.Placed) != 6 {
		t.Fatalf("expected 6 placements, got %d", len(prob.Layout.Placed))
	}
	if prob.Layout.Container.Width <= 0 {
		t.Fatalf("expected a positive occupied width, got %f", prob.Layout.Container.Width)
	}
	for pk, pi := range prob.Layout.Placed {
		var col cde.ExistenceCollector
		excluded := []cde.HazardID{{Kind: cde.HazardItem, PK: pk}}
		prob.Layout.CDE().CollectPolyCollisions(pi.Shape(), excluded, &col)
		if col.Found {
			t.Fatalf("placement %v collides after Initial", pk)
		}
	}
}

func TestRefineOrderReturnsAPermutationOfTheBaseOrder(t *testing.T) {
	items := []problem.Item{rectItem(0, 10, 10, 3), rectItem(1, 5, 5, 2)}
	container := problem.NewContainer(100, 10)
	res := ResolutionFor(container, config.ConstructParams{XStepRatio: 0.1, YStepRatio: 0.1})
	base := expandOrder(items)

	best := refineOrder(items, container, res, base, config.ConstructParams{Generations: 3, AcceptWorse: "drop-slow"}, rand.New(rand.NewSource(4)))

	if len(best) != len(base) {
		t.Fatalf("expected a permutation of length %d, got %d", len(base), len(best))
	}
	counts := map[problem.ItemID]int{}
	for _, id := range best {
		counts[id]++
	}
	for _, id := range base {
		counts[id]--
	}
	for id, c := range counts {
		if c != 0 {
			t.Fatalf("item %v count changed by refinement, diff %d", id, c)
		}
	}
}
