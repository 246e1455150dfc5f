package problem

import (
	"github.com/rbscholtus/glsstrip/internal/cde"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

// quadtreeDepth bounds the CDE's quadtree subdivision. A strip instance
// rarely holds more than a few hundred items, so this is generous without
// risking pathological recursion.
const quadtreeDepth = 10

// Layout is the current placement of every item copy in the container, plus
// the collision-detection engine kept in sync with it (spec.md §3,
// GLOSSARY "Layout").
type Layout struct {
	Container Container
	Placed    map[PK]PlacedItem
	cde       *cde.Engine
}

// NewLayout builds an empty layout over the given container.
func NewLayout(container Container) *Layout {
	return &Layout{
		Container: container,
		Placed:    make(map[PK]PlacedItem),
		cde:       cde.NewEngine(container.Rect(), quadtreeDepth),
	}
}

// CDE exposes the layout's collision engine for hazard queries.
func (l *Layout) CDE() *cde.Engine { return l.cde }

// Place inserts item at transform t under key pk, indexing it in the CDE.
func (l *Layout) Place(pk PK, item Item, t geo.Transformation) {
	pi := newPlacedItem(item, t)
	l.Placed[pk] = pi
	l.cde.AddItem(pk, pi.shape)
}

// Remove drops the placement at pk.
func (l *Layout) Remove(pk PK) {
	delete(l.Placed, pk)
	l.cde.RemoveItem(pk)
}

// Move updates pk's transform in place, keeping the CDE in sync.
func (l *Layout) Move(pk PK, item Item, t geo.Transformation) {
	pi := newPlacedItem(item, t)
	l.Placed[pk] = pi
	l.cde.RemoveItem(pk)
	l.cde.AddItem(pk, pi.shape)
}

// ChangeWidth resizes the container and rebuilds the CDE's spatial index
// (the quadtree's bounds are derived from the container at construction
// time, so a width change invalidates it; spec.md §4.6 change_strip_width).
func (l *Layout) ChangeWidth(width float64) {
	l.Container.Width = width
	l.cde.Rebuild(l.Container.Rect())
}

// OccupiedWidth returns the x-coordinate of the rightmost occupied point
// across all placements, i.e. the minimal width the strip could shrink to
// without creating new container overlap.
func (l *Layout) OccupiedWidth() float64 {
	var maxX float64
	for _, pi := range l.Placed {
		if b := pi.BBox(); b.XMax > maxX {
			maxX = b.XMax
		}
	}
	return maxX
}

// Usage returns the fraction of the container's area covered by placed
// items: total item polygon area over strip area (spec.md §3).
func (l *Layout) Usage() float64 {
	area := l.Container.Rect().Area()
	if area <= 0 {
		return 0
	}
	var occupied float64
	for _, pi := range l.Placed {
		occupied += pi.Shape().Area()
	}
	return occupied / area
}

// Clone deep-copies the layout, including a freshly rebuilt CDE (placements
// are value types, but the CDE holds its own internal index state).
func (l *Layout) Clone() *Layout {
	out := NewLayout(l.Container)
	for pk, pi := range l.Placed {
		out.Placed[pk] = pi
		out.cde.AddItem(pk, pi.shape)
	}
	return out
}
