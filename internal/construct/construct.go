package construct

import (
	"math"
	"math/rand"
	"sort"

	"github.com/MaxHalford/eaopt"
	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/glsutil"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// Initial replaces prob's layout with a constructive starting placement of
// every item copy: a bottom-left-fill pass over an insertion order refined
// by a short simulated-annealing search (config.ConstructParams), followed
// by shrinking the strip to the order's occupied width. This is the entry
// point cmd/glsstrip calls before handing prob to orchestrator.Optimize.
func Initial(prob *problem.Problem, params config.Params, rng *rand.Rand) {
	items := make([]problem.Item, 0, len(prob.Items))
	for _, it := range prob.Items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	baseOrder := expandOrder(items)
	container := widestGuess(items, baseOrder, prob.Layout.Container)
	res := ResolutionFor(container, params.Construct)

	best := refineOrder(items, container, res, baseOrder, params.Construct, rng)

	prob.Layout = problem.NewLayout(container)
	Build(prob, best, res, rng)
	prob.ChangeStripWidth(prob.OccupiedWidth())
}

// expandOrder lists each item's ID once per unit of Demand, in catalogue order.
func expandOrder(items []problem.Item) []problem.ItemID {
	var order []problem.ItemID
	for _, it := range items {
		for i := 0; i < it.Demand; i++ {
			order = append(order, it.ID)
		}
	}
	return order
}

// widestGuess sizes a scratch container generously enough that BLF rarely
// needs to grow it while placing order, keeping construction's quadtree
// rebuild count low.
func widestGuess(items []problem.Item, order []problem.ItemID, original problem.Container) problem.Container {
	byID := make(map[problem.ItemID]problem.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	var totalWidth float64
	for _, id := range order {
		totalWidth += byID[id].BBox().Width()
	}
	return problem.NewContainer(totalWidth+1, original.Height)
}

// refineOrder runs a short simulated-annealing search over insertion
// permutations, minimizing the BLF layout's occupied width (spec.md
// SUPPLEMENTED FEATURES; grounded on keycraft's Optimise/SplitLayout).
func refineOrder(items []problem.Item, container problem.Container, res Resolution, baseOrder []problem.ItemID, params config.ConstructParams, rng *rand.Rand) []problem.ItemID {
	if len(baseOrder) < 2 || params.Generations == 0 {
		return baseOrder
	}

	cfg := eaopt.NewDefaultGAConfig()
	cfg.NGenerations = params.Generations
	cfg.Model = eaopt.ModSimulatedAnnealing{Accept: acceptFunc(params.AcceptWorse)}

	ga := glsutil.Must(cfg.NewGA())

	newGenome := func(grng *rand.Rand) eaopt.Genome {
		order := make([]problem.ItemID, len(baseOrder))
		copy(order, baseOrder)
		grng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		return newOrderGenome(items, container, res, order)
	}
	glsutil.Must0(ga.Minimize(newGenome))

	best := ga.HallOfFame[0].Genome.(*orderGenome)
	return best.order
}

// acceptFunc returns a simulated-annealing acceptance function for the named
// policy (ported from keycraft's getAcceptFunc).
func acceptFunc(policy string) func(g, ng uint, e0, e1 float64) float64 {
	switch policy {
	case "always":
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 }
	case "never":
		return func(g, ng uint, e0, e1 float64) float64 { return 0.0 }
	case "linear":
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 - float64(g)/float64(ng) }
	case "drop-fast":
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return math.Exp(-3.0 * (1 - t))
		}
	default: // "drop-slow"
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return (math.Cos(t*math.Pi) + 1.0) / 2.0
		}
	}
}
