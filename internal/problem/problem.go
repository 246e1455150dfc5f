package problem

import "github.com/rbscholtus/glsstrip/internal/geo"

// Problem bundles the immutable item catalogue with the mutable current
// layout being optimized (spec.md §3).
type Problem struct {
	Items  map[ItemID]Item
	Layout *Layout
}

// NewProblem builds a problem instance with an empty layout over container.
func NewProblem(items []Item, container Container) *Problem {
	idx := make(map[ItemID]Item, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return &Problem{Items: idx, Layout: NewLayout(container)}
}

// PlacementSnapshot is one placed item's state, independent of live
// PlacedItem caches, suitable for storage in a Solution.
type PlacementSnapshot struct {
	PK        PK
	ItemID    ItemID
	Transform geo.Transformation
}

// Solution is an immutable snapshot of a layout: enough to fully restore it
// (spec.md §3, GLOSSARY "Solution" / "create_solution", "restore_to_solution").
type Solution struct {
	Width      float64
	Placements []PlacementSnapshot
}

// CreateSolution snapshots the problem's current layout.
func (p *Problem) CreateSolution() Solution {
	placements := make([]PlacementSnapshot, 0, len(p.Layout.Placed))
	for pk, pi := range p.Layout.Placed {
		placements = append(placements, PlacementSnapshot{PK: pk, ItemID: pi.ItemID, Transform: pi.Transform})
	}
	return Solution{Width: p.Layout.Container.Width, Placements: placements}
}

// RestoreToSolution replaces the current layout with the one captured in s.
func (p *Problem) RestoreToSolution(s Solution) {
	container := p.Layout.Container
	container.Width = s.Width
	p.Layout = NewLayout(container)
	for _, snap := range s.Placements {
		item, ok := p.Items[snap.ItemID]
		if !ok {
			continue
		}
		p.Layout.Place(snap.PK, item, snap.Transform)
	}
}

// PlaceItem places a new copy of itemID at transform t, returning its key.
func (p *Problem) PlaceItem(itemID ItemID, t geo.Transformation) PK {
	item := p.Items[itemID]
	pk := NewPK()
	p.Layout.Place(pk, item, t)
	return pk
}

// RemoveItem drops the placement at pk.
func (p *Problem) RemoveItem(pk PK) {
	p.Layout.Remove(pk)
}

// MoveItem updates pk's transform in place.
func (p *Problem) MoveItem(pk PK, t geo.Transformation) {
	pi, ok := p.Layout.Placed[pk]
	if !ok {
		return
	}
	item := p.Items[pi.ItemID]
	p.Layout.Move(pk, item, t)
}

// ChangeStripWidth resizes the container (spec.md §4.6's change_strip_width
// operates on the layout directly; this wrapper exists for callers that only
// hold a Problem).
func (p *Problem) ChangeStripWidth(width float64) {
	p.Layout.ChangeWidth(width)
}

// OccupiedWidth returns the rightmost occupied x-coordinate in the layout.
func (p *Problem) OccupiedWidth() float64 { return p.Layout.OccupiedWidth() }

// StripWidth returns the container's current width.
func (p *Problem) StripWidth() float64 { return p.Layout.Container.Width }

// Usage returns the layout's area-usage fraction.
func (p *Problem) Usage() float64 { return p.Layout.Usage() }
