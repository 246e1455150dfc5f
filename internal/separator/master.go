package separator

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/tracker"
)

// Master drives the GLS strike loop (spec.md §4.6): a pool of workers race
// to separate the current layout, the least-overlapping result is adopted,
// and pair weights grow after every round until the layout is resolved or
// the strike budget runs out.
type Master struct {
	prob   *problem.Problem
	tr     *tracker.Tracker
	rng    *rand.Rand
	params config.SeparatorParams

	workers      []*Worker
	chAreaCutoff float64
}

// NewMaster builds a master over prob, spinning up params.NWorkers workers
// each seeded from rng.
func NewMaster(prob *problem.Problem, params config.Params, rng *rand.Rand) *Master {
	chAreaCutoff := largestHullArea(prob) * params.Separator.LargeItemAreaCutoff

	workers := make([]*Worker, params.Separator.NWorkers)
	for i := range workers {
		workerProb := cloneProblem(prob)
		workers[i] = NewWorker(workerProb, params.Tracker, params.Sample, chAreaCutoff, rand.New(rand.NewSource(rng.Int63())))
	}

	return &Master{
		prob:         prob,
		tr:           tracker.New(prob, params.Tracker),
		rng:          rng,
		params:       params.Separator,
		workers:      workers,
		chAreaCutoff: chAreaCutoff,
	}
}

func largestHullArea(prob *problem.Problem) float64 {
	var max float64
	for _, it := range prob.Items {
		if a := it.Surrogate.ConvexHullArea; a > max {
			max = a
		}
	}
	return max
}

func cloneProblem(prob *problem.Problem) *problem.Problem {
	items := make([]problem.Item, 0, len(prob.Items))
	for _, it := range prob.Items {
		items = append(items, it)
	}
	clone := problem.NewProblem(items, prob.Layout.Container)
	clone.RestoreToSolution(prob.CreateSolution())
	return clone
}

// Tracker exposes the master's tracker (e.g. for progress reporting).
func (m *Master) Tracker() *tracker.Tracker { return m.tr }

// Problem exposes the master's problem.
func (m *Master) Problem() *problem.Problem { return m.prob }

// Modify runs one parallel round: every worker loads the master's current
// solution, independently tries to separate it, and the worker with the
// lowest total weighted overlap is adopted by the master (spec.md §4.6,
// GLSOrchestrator::modify). Returns the number of item moves the adopted
// worker made.
func (m *Master) Modify(ctx context.Context) (int, error) {
	sol := m.prob.CreateSolution()
	trSnap := m.tr.CreateSnapshot()

	moves := make([]int, len(m.workers))
	g, _ := errgroup.WithContext(ctx)
	for i, w := range m.workers {
		i, w := i, w
		g.Go(func() error {
			w.Load(sol, trSnap)
			moves[i] = w.Separate()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	bestIdx := 0
	bestOverlap := m.workers[0].Tracker().GetTotalWeightedOverlap()
	for i := 1; i < len(m.workers); i++ {
		if ovl := m.workers[i].Tracker().GetTotalWeightedOverlap(); ovl < bestOverlap {
			bestOverlap = ovl
			bestIdx = i
		}
	}

	best := m.workers[bestIdx]
	m.prob.RestoreToSolution(best.Problem().CreateSolution())
	m.tr.Restore(best.Tracker().CreateSnapshot())

	return moves[bestIdx], nil
}

// StrikeResult is one separation attempt's outcome.
type StrikeResult struct {
	Solution     problem.Solution
	TrackerSnap  tracker.Snapshot
	TotalOverlap float64
	ItemsMoved   int
}

// SeparateLayout runs the strike loop until the layout is fully separated,
// the strike budget is exhausted, or ctx is cancelled (spec.md §4.6,
// GLSOrchestrator::separate_layout). It always returns the best (lowest
// total overlap) solution seen.
func (m *Master) SeparateLayout(ctx context.Context) (StrikeResult, error) {
	best := StrikeResult{
		Solution:     m.prob.CreateSolution(),
		TrackerSnap:  m.tr.CreateSnapshot(),
		TotalOverlap: m.tr.GetTotalOverlap(),
	}
	haveBest := false

	strikes := 0
	totalMoved := 0

	for strikes < m.params.NStrikes && ctx.Err() == nil {
		if haveBest {
			m.Rollback(best.Solution, &best.TrackerSnap)
		}
		initialStrikeOverlap := m.tr.GetTotalOverlap()

		noImprovement := 0
		for noImprovement < m.params.NIterNoImprovement && ctx.Err() == nil {
			nMoves, err := m.Modify(ctx)
			if err != nil {
				return best, err
			}
			totalMoved += nMoves
			overlap := m.tr.GetTotalOverlap()

			switch {
			case overlap == 0:
				return StrikeResult{
					Solution:     m.prob.CreateSolution(),
					TrackerSnap:  m.tr.CreateSnapshot(),
					TotalOverlap: 0,
					ItemsMoved:   totalMoved,
				}, nil
			case !haveBest || overlap < best.TotalOverlap:
				best = StrikeResult{
					Solution:     m.prob.CreateSolution(),
					TrackerSnap:  m.tr.CreateSnapshot(),
					TotalOverlap: overlap,
					ItemsMoved:   totalMoved,
				}
				haveBest = true
				noImprovement = 0
			default:
				noImprovement++
			}

			m.tr.IncrementWeights()
		}

		if initialStrikeOverlap*m.params.ExcessiveStrikeRatio < best.TotalOverlap {
			strikes++
		} else {
			strikes = 0
		}
	}

	return best, nil
}

// Rollback restores the master to solution, either from the given tracker
// snapshot (keeping its learned weights) or, if trSnap is nil, by rebuilding
// the tracker from scratch (spec.md §4.6, GLSOrchestrator::rollback).
func (m *Master) Rollback(sol problem.Solution, trSnap *tracker.Snapshot) {
	m.prob.RestoreToSolution(sol)
	if trSnap != nil {
		m.tr.RestoreButKeepWeights(*trSnap)
	} else {
		m.tr = tracker.New(m.prob, m.params2Tracker())
	}
}

func (m *Master) params2Tracker() config.TrackerParams {
	if len(m.workers) == 0 {
		return config.TrackerParams{}
	}
	return m.workers[0].trackerParams
}

// MoveItem relocates pk to transform dt, registering the move with the
// master's tracker and flagging a jump for large items that land far from
// where they started (spec.md §4.6, GLSOrchestrator::move_item).
func (m *Master) MoveItem(pk problem.PK, dt geo.Transformation) problem.PK {
	pi := m.prob.Layout.Placed[pk]
	oldBBox := pi.BBox()
	item := m.prob.Items[pi.ItemID]

	m.prob.RemoveItem(pk)
	newPK := m.prob.PlaceItem(item.ID, dt)
	m.tr.RegisterItemMove(pk, newPK)

	newBBox := m.prob.Layout.Placed[newPK].BBox()
	if oldBBox.Disjoint(newBBox) && item.Surrogate.ConvexHullArea > m.chAreaCutoff {
		m.tr.RegisterJump(newPK)
	}
	return newPK
}

// widthChangeEpsilon is the small positive tolerance change_strip_width
// adds to the shift applied to items right of the split, so a centroid
// sitting exactly at the new boundary still clears it (spec.md §4.6:
// "shift every placed item whose centroid is right of split by (delta +
// ε, 0)").
const widthChangeEpsilon = 1e-9

// ChangeStripWidth resizes the container to newWidth, shifting every item
// whose centroid lies right of splitPosition by the width delta (spec.md
// §4.6, GLSOrchestrator::change_strip_width). An item centered exactly on
// the split line is left untranslated. The tracker and every worker are
// rebuilt from scratch afterward: the reference orchestrator discards
// learned weights on a width change rather than carrying them through a
// resize, so moves made during the shift itself are not worth preserving.
func (m *Master) ChangeStripWidth(newWidth, splitPosition float64) {
	delta := newWidth - m.prob.StripWidth() + widthChangeEpsilon

	type shift struct {
		pk problem.PK
		dt geo.Transformation
	}
	var toShift []shift
	for pk, pi := range m.prob.Layout.Placed {
		if pi.Shape().Centroid().X > splitPosition {
			dt := pi.Transform
			dt.Tx += delta
			toShift = append(toShift, shift{pk, dt})
		}
	}

	m.prob.ChangeStripWidth(newWidth)
	for _, s := range toShift {
		m.prob.MoveItem(s.pk, s.dt)
	}

	m.tr = tracker.New(m.prob, m.params2Tracker())
	for _, w := range m.workers {
		workerProb := cloneProblem(m.prob)
		w.prob = workerProb
		w.tr = tracker.New(workerProb, w.trackerParams)
	}
}

// SwapLargePairOfItems swaps the transforms of two distinct large items
// (convex hull area above the cutoff), a diversification move used when a
// strike's local search stalls (spec.md §4.6,
// GLSOrchestrator::swap_large_pair_of_items).
func (m *Master) SwapLargePairOfItems() bool {
	var large []problem.PK
	for pk, pi := range m.prob.Layout.Placed {
		if m.prob.Items[pi.ItemID].Surrogate.ConvexHullArea > m.chAreaCutoff {
			large = append(large, pk)
		}
	}
	if len(large) < 2 {
		return false
	}
	m.rng.Shuffle(len(large), func(i, j int) { large[i], large[j] = large[j], large[i] })

	pk1, pk2 := large[0], large[1]
	for i := 1; i < len(large); i++ {
		if m.prob.Layout.Placed[large[i]].ItemID != m.prob.Layout.Placed[pk1].ItemID {
			pk2 = large[i]
			break
		}
	}

	dt1 := m.prob.Layout.Placed[pk1].Transform
	dt2 := m.prob.Layout.Placed[pk2].Transform
	m.MoveItem(pk1, dt2)
	m.MoveItem(pk2, dt1)
	return true
}
