// Package sample implements placement search (spec.md §4.4): uniform
// bbox sampling, top-k distinct retention, and two-stage coordinate-descent
// refinement.
package sample

import (
	"math"

	"github.com/rbscholtus/glsstrip/internal/eval"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

// Result pairs a candidate transform with its score.
type Result struct {
	DT   geo.Transformation
	Eval eval.SampleEval
}

// BestSamples retains the top-k distinct samples seen so far, sorted best
// first, evicting on report the way spec.md §4.4 describes.
type BestSamples struct {
	uniqueThresh float64
	entries      []Result
}

// NewBestSamples builds a retainer holding up to size samples, treating two
// transforms within uniqueThresh translation and rotation as the same
// sample (spec.md §4.4: "distinct" means not within unique_thresh).
func NewBestSamples(size int, uniqueThresh float64) *BestSamples {
	entries := make([]Result, size)
	for i := range entries {
		entries[i] = Result{DT: geo.Transformation{}, Eval: eval.Invalid()}
	}
	return &BestSamples{uniqueThresh: uniqueThresh, entries: entries}
}

// Report offers a candidate; returns whether it was accepted into the set.
func (b *BestSamples) Report(dt geo.Transformation, e eval.SampleEval) bool {
	worst := b.entries[len(b.entries)-1].Eval
	if !e.Less(worst) {
		return false
	}

	similarIdx := -1
	for i, ent := range b.entries {
		if similar(ent.DT, dt, b.uniqueThresh) {
			similarIdx = i
			break
		}
	}

	accepted := false
	switch {
	case similarIdx < 0:
		b.entries[len(b.entries)-1] = Result{DT: dt, Eval: e}
		accepted = true
	case e.Less(b.entries[similarIdx].Eval):
		b.entries[similarIdx] = Result{DT: dt, Eval: e}
		accepted = true
	}

	if accepted {
		sortEntries(b.entries)
	}
	return accepted
}

func sortEntries(entries []Result) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Eval.Less(entries[j-1].Eval); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func similar(a, b geo.Transformation, thresh float64) bool {
	dtx, dty := a.Tx-b.Tx, a.Ty-b.Ty
	distSq := dtx*dtx + dty*dty
	return distSq <= thresh*thresh && angleWithin(a.Theta-b.Theta, thresh)
}

func angleWithin(dtheta, thresh float64) bool {
	for dtheta > math.Pi {
		dtheta -= 2 * math.Pi
	}
	for dtheta < -math.Pi {
		dtheta += 2 * math.Pi
	}
	return math.Abs(dtheta) <= thresh
}

// Best returns the best-scoring retained sample.
func (b *BestSamples) Best() Result { return b.entries[0] }

// Worst returns the worst-scoring retained sample (the current eviction floor).
func (b *BestSamples) Worst() Result { return b.entries[len(b.entries)-1] }

// UpperBound returns the worst retained eval, used as the evaluator's next
// early-termination bound (spec.md §4.4).
func (b *BestSamples) UpperBound() eval.SampleEval { return b.Worst().Eval }

// Snapshot returns a copy of every retained (transform, eval) pair, used to
// seed the coordinate-descent refinement stage.
func (b *BestSamples) Snapshot() []Result {
	out := make([]Result, len(b.entries))
	copy(out, b.entries)
	return out
}
