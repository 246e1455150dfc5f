package orchestrator

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/separator"
)

// Optimize runs the full GLS strip-packing search on prob: Explore
// (repeatedly separate the layout and shrink the strip on success,
// diversify via a folded-normal reselection from the local-bests pool on
// failure) for ExploreTimeRatio of the time budget, then Compress (keep
// trying narrower widths with a shrink step that eases off as the deadline
// nears) for the remainder (spec.md §4.7, gls_orchestrator.rs::solve).
func Optimize(prob *problem.Problem, params config.Params, listener SolutionListener, term *Terminator) problem.Solution {
	if listener == nil {
		listener = NoopListener{}
	}
	rng := rand.New(rand.NewSource(params.Seed))
	master := separator.NewMaster(prob, params, rng)

	listener.Init(prob)

	startTime := time.Now()
	exploreEnd := startTime.Add(time.Duration(float64(params.MaxTime) * params.Orchestrator.ExploreTimeRatio))
	compressEnd := startTime.Add(params.MaxTime)

	currentWidth := prob.OccupiedWidth()
	bestSol := prob.CreateSolution()
	bestWidth := currentWidth

	var localBests []separator.StrikeResult

	for time.Now().Before(exploreEnd) && !term.Done() {
		result, err := master.SeparateLayout(term.Context())
		if err != nil {
			break
		}

		if result.TotalOverlap == 0 {
			separatedSol := master.Problem().CreateSolution()
			if currentWidth < bestWidth {
				bestWidth = currentWidth
				bestSol = separatedSol
				listener.Feasible(bestSol, bestWidth)
			}

			nextWidth := bestWidth * (1 - params.Orchestrator.RShrink)
			master.ChangeStripWidth(nextWidth, nextWidth/2)
			currentWidth = nextWidth
			localBests = localBests[:0]
		} else {
			listener.Intermediate("strike-exhausted", result.TotalOverlap, currentWidth)
			localBests = insertByOverlap(localBests, result)

			selected := selectFoldedNormal(localBests, rng, params.Orchestrator.StddevSpread)
			master.Rollback(selected.Solution, &selected.TrackerSnap)
			master.SwapLargePairOfItems()
		}
	}

	if !term.Done() {
		bestSol, bestWidth = compress(master, bestSol, bestWidth, term, exploreEnd, compressEnd, params.Orchestrator, listener, rng)
	}

	listener.Final(bestSol, bestWidth)
	return bestSol
}

// compress spends the time between compressStart and compressEnd trying
// progressively narrower widths, with the shrink ratio interpolated from
// CompressShrinkMax down to CompressShrinkMin as the deadline approaches
// (spec.md §4.7 Compression: "apply change_strip_width(best_width * (1 -
// step), split = uniform random in [0, best_width])"; Open Question 3:
// sampled over the strip's *current* width rather than the original).
func compress(master *separator.Master, bestSol problem.Solution, bestWidth float64, term *Terminator, compressStart, compressEnd time.Time, params config.OrchestratorParams, listener SolutionListener, rng *rand.Rand) (problem.Solution, float64) {
	span := compressEnd.Sub(compressStart).Seconds()
	if span <= 0 {
		return bestSol, bestWidth
	}

	for time.Now().Before(compressEnd) && !term.Done() {
		elapsedRatio := time.Since(compressStart).Seconds() / span
		shrink := params.CompressShrinkMax - elapsedRatio*(params.CompressShrinkMax-params.CompressShrinkMin)
		if shrink < params.CompressShrinkMin {
			shrink = params.CompressShrinkMin
		}

		trialWidth := bestWidth * (1 - shrink)
		master.Rollback(bestSol, nil)
		master.ChangeStripWidth(trialWidth, rng.Float64()*bestWidth)

		result, err := master.SeparateLayout(term.Context())
		if err != nil {
			break
		}

		if result.TotalOverlap == 0 {
			bestSol = master.Problem().CreateSolution()
			bestWidth = trialWidth
			listener.Feasible(bestSol, bestWidth)
		} else {
			master.Rollback(bestSol, nil)
		}
	}
	return bestSol, bestWidth
}

// insertByOverlap inserts r into bests, kept sorted ascending by TotalOverlap.
func insertByOverlap(bests []separator.StrikeResult, r separator.StrikeResult) []separator.StrikeResult {
	idx := sort.Search(len(bests), func(i int) bool { return bests[i].TotalOverlap >= r.TotalOverlap })
	bests = append(bests, separator.StrikeResult{})
	copy(bests[idx+1:], bests[idx:])
	bests[idx] = r
	return bests
}

// selectFoldedNormal draws from bests favoring lower indices (better
// solutions), using |N(0, len(bests)/stddevSpread)| folded onto [0,
// len(bests)) (spec.md §4.7, gls_orchestrator.rs::solve's Normal-distributed
// reselection from the local-bests pool).
func selectFoldedNormal(bests []separator.StrikeResult, rng *rand.Rand, stddevSpread float64) separator.StrikeResult {
	if len(bests) == 1 {
		return bests[0]
	}
	stddev := float64(len(bests)) / stddevSpread
	sample := math.Abs(rng.NormFloat64() * stddev)
	idx := int(math.Floor(sample))
	if idx >= len(bests) {
		idx = len(bests) - 1
	}
	return bests[idx]
}
