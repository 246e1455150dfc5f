// Package separator implements the GLS strike loop (spec.md §4.6): a pool
// of workers independently attempting to resolve overlap from the same
// starting layout, with the best result adopted by the master each round.
package separator

import (
	"math/rand"
	"sort"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/eval"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/sample"
	"github.com/rbscholtus/glsstrip/internal/tracker"
)

// Worker holds one independent copy of the problem and its overlap tracker,
// used to explore one candidate separation of the current layout in
// parallel with its siblings (spec.md §4.6, GLSWorker).
type Worker struct {
	prob          *problem.Problem
	tr            *tracker.Tracker
	rng           *rand.Rand
	chAreaCutoff  float64
	sampleParams  config.SampleParams
	trackerParams config.TrackerParams
}

// NewWorker builds a worker over its own problem clone.
func NewWorker(prob *problem.Problem, trackerParams config.TrackerParams, sampleParams config.SampleParams, chAreaCutoff float64, rng *rand.Rand) *Worker {
	return &Worker{
		prob:          prob,
		tr:            tracker.New(prob, trackerParams),
		rng:           rng,
		chAreaCutoff:  chAreaCutoff,
		sampleParams:  sampleParams,
		trackerParams: trackerParams,
	}
}

// Load resets the worker to the master's current solution and tracker state.
func (w *Worker) Load(sol problem.Solution, trSnap tracker.Snapshot) {
	w.prob.RestoreToSolution(sol)
	w.tr.Restore(trSnap)
}

// Tracker exposes the worker's tracker for the master to compare and adopt.
func (w *Worker) Tracker() *tracker.Tracker { return w.tr }

// Problem exposes the worker's problem for the master to adopt.
func (w *Worker) Problem() *problem.Problem { return w.prob }

// Separate attempts to relocate every item currently in overlap, in random
// order, one item at a time (spec.md §4.6): each move uses placement search
// to find the least-penalized nearby spot, never worsening total weighted
// overlap across the whole pass. Returns the number of items moved.
func (w *Worker) Separate() int {
	candidates := make([]problem.PK, 0, len(w.prob.Layout.Placed))
	for pk := range w.prob.Layout.Placed {
		if w.tr.GetOverlap(pk) > 0 {
			candidates = append(candidates, pk)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return lessPK(candidates[i], candidates[j]) })
	w.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	moved := 0
	for _, pk := range candidates {
		if w.tr.GetOverlap(pk) <= 0 {
			continue
		}
		pi, ok := w.prob.Layout.Placed[pk]
		if !ok {
			continue
		}
		item := w.prob.Items[pi.ItemID]

		evaluator := eval.NewSeparationEvaluator(w.prob.Layout, item, pk, w.tr)
		params := searchParamsFor(w.tr, pk, w.sampleParams)
		cfg := sample.SampleConfigFromParams(params)
		refPK := pk
		result, _ := sample.SearchPlacement(w.prob.Layout, item, &refPK, evaluator, cfg, params, w.rng)
		if result == nil {
			continue
		}

		w.moveItem(pk, result.DT)
		moved++
	}
	return moved
}

// searchParamsFor moves the whole container-wide sampling budget into focused
// sampling while an item is on jump cooldown, so a recently-jumped item is
// resettled near where it landed rather than thrown across the container
// again (spec.md §4.6, generate_search_config).
func searchParamsFor(tr *tracker.Tracker, pk problem.PK, base config.SampleParams) config.SampleParams {
	if !tr.IsOnJumpCooldown(pk) {
		return base
	}
	cfg := base
	cfg.NFocussedSamples = base.NContainerSamples + base.NFocussedSamples
	cfg.NContainerSamples = 0
	return cfg
}

func (w *Worker) moveItem(pk problem.PK, dt geo.Transformation) problem.PK {
	pi := w.prob.Layout.Placed[pk]
	oldBBox := pi.BBox()
	item := w.prob.Items[pi.ItemID]

	w.prob.RemoveItem(pk)
	newPK := w.prob.PlaceItem(item.ID, dt)
	w.tr.RegisterItemMove(pk, newPK)

	newBBox := w.prob.Layout.Placed[newPK].BBox()
	jumped := oldBBox.Disjoint(newBBox)
	if jumped && item.Surrogate.ConvexHullArea > w.chAreaCutoff {
		w.tr.RegisterJump(newPK)
	}
	return newPK
}

func lessPK(a, b problem.PK) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
