package construct

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// orderGenome is an eaopt.Genome over permutations of item copies: Evaluate
// constructs a bottom-left-fill layout in that insertion order and scores it
// by the resulting occupied width, lower is better. Grounded on keycraft's
// SplitLayout genome (Clone/Mutate/Crossover no-op/Evaluate over a
// permutation, minimized via eaopt.ModSimulatedAnnealing).
type orderGenome struct {
	order     []problem.ItemID
	items     []problem.Item
	container problem.Container
	res       Resolution
}

func newOrderGenome(items []problem.Item, container problem.Container, res Resolution, order []problem.ItemID) *orderGenome {
	return &orderGenome{order: order, items: items, container: container, res: res}
}

// Evaluate runs BLF on a scratch problem built from g.order and returns the
// resulting occupied width.
func (g *orderGenome) Evaluate() (float64, error) {
	prob := problem.NewProblem(g.items, g.container)
	Build(prob, g.order, g.res, nil)
	return prob.OccupiedWidth(), nil
}

// Mutate swaps two randomly chosen positions in the insertion order.
func (g *orderGenome) Mutate(rng *rand.Rand) {
	if len(g.order) < 2 {
		return
	}
	i := rng.Intn(len(g.order))
	j := rng.Intn(len(g.order))
	for j == i {
		j = rng.Intn(len(g.order))
	}
	g.order[i], g.order[j] = g.order[j], g.order[i]
}

// Crossover does nothing. Defined only so *orderGenome implements eaopt.Genome.
func (g *orderGenome) Crossover(_ eaopt.Genome, _ *rand.Rand) {}

// Clone returns a deep copy of the genome's order.
func (g *orderGenome) Clone() eaopt.Genome {
	cc := &orderGenome{
		order:     make([]problem.ItemID, len(g.order)),
		items:     g.items,
		container: g.container,
		res:       g.res,
	}
	copy(cc.order, g.order)
	return cc
}
