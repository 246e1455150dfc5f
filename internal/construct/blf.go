// Package construct builds the initial layout a GLS run starts from: a
// bottom-left-fill placement of every item copy, in an order chosen by a
// short simulated-annealing search over insertion permutations (SUPPLEMENTED
// FEATURE: jagua-rs's ConstructiveBuilder, referenced but not retained in
// original_source, is opaque beyond its call shape in main.rs; the BLF
// algorithm itself follows the classic bottom-left heuristic, and its
// insertion-order refinement is grounded on keycraft's Optimise/SplitLayout
// eaopt genome).
package construct

import (
	"math"
	"math/rand"

	"github.com/rbscholtus/glsstrip/internal/cde"
	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// Resolution derives the BLF candidate grid spacing from a container.
type Resolution struct {
	XStep, YStep float64
}

// ResolutionFor builds a Resolution scaled to the container's height, per
// config.ConstructParams.
func ResolutionFor(container problem.Container, params config.ConstructParams) Resolution {
	return Resolution{
		XStep: math.Max(container.Height*params.XStepRatio, 1e-6),
		YStep: math.Max(container.Height*params.YStepRatio, 1e-6),
	}
}

// Build places every item named in order into prob's layout, each at the
// lowest-then-leftmost position that clears the CDE, widening the strip
// whenever nothing fits at the current width. Order may repeat an ItemID up
// to its Demand; prob should start with an empty layout.
func Build(prob *problem.Problem, order []problem.ItemID, res Resolution, rng *rand.Rand) {
	for _, id := range order {
		item := prob.Items[id]
		t, ok := findSpot(prob.Layout, item, res)
		for attempts := 0; !ok && attempts < 32; attempts++ {
			growWidth(prob, item)
			t, ok = findSpot(prob.Layout, item, res)
		}
		if !ok {
			t = fallbackSpot(prob, item)
		}
		prob.PlaceItem(id, t)
	}
	_ = rng // order is expected to already be shuffled/annealed by the caller
}

// growWidth widens the container enough to plausibly fit item, then rebuilds
// the CDE's quadtree over the new bounds.
func growWidth(prob *problem.Problem, item problem.Item) {
	bbox := item.BBox()
	margin := math.Max(bbox.Width(), bbox.Height()) + 1
	prob.ChangeStripWidth(prob.Layout.Container.Width + margin)
}

// fallbackSpot places item just past the rightmost occupied point, at y=0,
// unrotated. Reached only if growWidth's retry budget is exhausted; it
// guarantees Build always makes progress instead of discarding an item.
func fallbackSpot(prob *problem.Problem, item problem.Item) geo.Transformation {
	bbox := item.BBox()
	x := prob.Layout.OccupiedWidth() - bbox.XMin
	if prob.Layout.Container.Width < x+bbox.Width() {
		prob.ChangeStripWidth(x + bbox.Width())
	}
	return geo.Transformation{Tx: x, Ty: -bbox.YMin}
}

// findSpot scans every allowed rotation and a grid of x candidates for the
// lowest-then-leftmost feasible placement of item in layout.
func findSpot(layout *problem.Layout, item problem.Item, res Resolution) (geo.Transformation, bool) {
	container := layout.Container.Rect()

	var best geo.Transformation
	bestY, bestX := math.Inf(1), math.Inf(1)
	found := false

	for _, theta := range rotationCandidates(item.AllowedRotation) {
		rotated := item.Shape.Transform(geo.Transformation{Theta: theta}).BBox()
		w, h := rotated.Width(), rotated.Height()
		if h > container.Height()+1e-9 || w > container.Width()+1e-9 {
			continue
		}
		for x := 0.0; x+w <= container.Width()+1e-9; x += res.XStep {
			y, ok := lowestFeasibleY(layout, item, theta, x, rotated, container, res)
			if !ok {
				continue
			}
			if y < bestY-1e-9 || (math.Abs(y-bestY) < 1e-9 && x < bestX) {
				bestY, bestX = y, x
				best = geo.Transformation{Tx: x - rotated.XMin, Ty: y - rotated.YMin, Theta: theta}
				found = true
			}
		}
	}
	return best, found
}

// lowestFeasibleY scans y from the container floor upward, returning the
// first height at which item (rotated by theta, left edge at x) collides
// with nothing already placed.
func lowestFeasibleY(layout *problem.Layout, item problem.Item, theta, x float64, rotated, container geo.AARectangle, res Resolution) (float64, bool) {
	h := rotated.Height()
	for y := 0.0; y+h <= container.Height()+1e-9; y += res.YStep {
		t := geo.Transformation{Tx: x - rotated.XMin, Ty: y - rotated.YMin, Theta: theta}
		shape := item.Shape.Transform(t)
		var col cde.ExistenceCollector
		layout.CDE().CollectPolyCollisions(shape, nil, &col)
		if !col.Found {
			return y, true
		}
	}
	return 0, false
}

// rotationCandidates expands a RotationRange into a fixed, deterministic
// sample: its discrete set as-is, or four axis-aligned angles if continuous
// (a constructive placement pass has no need for the full continuous range;
// GLS's own sampling explores the rest during separation).
func rotationCandidates(r geo.RotationRange) []float64 {
	if !r.Continuous {
		if len(r.Discrete) == 0 {
			return []float64{0}
		}
		return r.Discrete
	}
	return []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
}
