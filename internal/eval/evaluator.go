package eval

import (
	"github.com/rbscholtus/glsstrip/internal/cde"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/overlap"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/rbscholtus/glsstrip/internal/tracker"
)

// SeparationEvaluator scores candidate transforms for relocating one
// already-placed item against the layout's other placements, early
// terminating once the running weighted loss exceeds the caller's upper
// bound (spec.md §4.3).
type SeparationEvaluator struct {
	layout    *problem.Layout
	item      problem.Item
	currentPK problem.PK
	tr        *tracker.Tracker

	shapeBuf geo.Polygon
	nEvals   int
}

// NewSeparationEvaluator builds an evaluator for relocating currentPK
// (already present in layout, excluded from its own collision query).
func NewSeparationEvaluator(layout *problem.Layout, item problem.Item, currentPK problem.PK, tr *tracker.Tracker) *SeparationEvaluator {
	return &SeparationEvaluator{
		layout:    layout,
		item:      item,
		currentPK: currentPK,
		tr:        tr,
		shapeBuf:  item.Shape.Clone(),
	}
}

// NEvals returns how many candidates have been scored so far.
func (e *SeparationEvaluator) NEvals() int { return e.nEvals }

// Eval scores dt, optionally bounded by the caller's current best-so-far
// (spec.md §4.3).
func (e *SeparationEvaluator) Eval(dt geo.Transformation, bestSoFar *SampleEval) SampleEval {
	e.nEvals++
	bound := UpperBound(bestSoFar)

	e.item.Shape.TransformInto(dt, &e.shapeBuf)
	candidateBBox := e.shapeBuf.BBox()
	candidateSurrogate := transformSurrogate(e.item.Surrogate, dt)
	itemID := e.item.ID

	collector := &boundedCollector{
		layout:        e.layout,
		bound:         bound,
		candidate:     candidateSurrogate,
		candidateBBox: candidateBBox,
		candidateItem: itemID,
		tr:            e.tr,
	}
	excluded := []cde.HazardID{{Kind: cde.HazardItem, PK: e.currentPK}}
	e.layout.CDE().CollectPolyCollisions(e.shapeBuf, excluded, collector)

	if collector.earlyTerminated {
		return Invalid()
	}
	if collector.total == 0 {
		return Clear()
	}
	return Collision(collector.total)
}

func transformSurrogate(s geo.Surrogate, t geo.Transformation) geo.Surrogate {
	poles := make([]geo.Pole, len(s.Poles))
	for i, p := range s.Poles {
		poles[i] = geo.Pole{Center: t.Apply(p.Center), Radius: p.Radius}
	}
	return geo.Surrogate{Poles: poles, ConvexHullArea: s.ConvexHullArea}
}

// boundedCollector accumulates weighted loss between a candidate placement
// and every hazard the CDE reports, stopping as soon as the running total
// exceeds bound (spec.md §4.3's early-terminating specialized collector).
type boundedCollector struct {
	layout        *problem.Layout
	tr            *tracker.Tracker
	bound         float64
	candidate     geo.Surrogate
	candidateBBox geo.AARectangle
	candidateItem problem.ItemID

	total           float64
	earlyTerminated bool
}

func (c *boundedCollector) Collect(id cde.HazardID, _ geo.Polygon) bool {
	var loss float64
	switch id.Kind {
	case cde.HazardBinExterior:
		container := c.layout.Container.Rect()
		raw := overlap.PolyContainer(c.candidate, c.candidateBBox, container, c.tr.EpsilonDiamRatio())
		loss = raw * c.tr.WeightForBin(c.candidateItem)
	default:
		other, ok := c.layout.Placed[id.PK]
		if !ok {
			return true
		}
		raw := overlap.PolyPoly(c.candidate, other.Surrogate(), c.candidateBBox, other.BBox(), c.tr.EpsilonDiamRatio(), other.PoleSOA())
		loss = raw * c.tr.WeightForItems(c.candidateItem, c.tr.ItemOf(id.PK))
	}

	c.total += loss
	if c.total > c.bound {
		c.earlyTerminated = true
		return false
	}
	return true
}
