// Package problem holds the strip-packing data model (spec.md §3): items,
// the container, placements, layouts, and the mutable problem instance that
// tracks them across the optimization run.
package problem

import "github.com/rbscholtus/glsstrip/internal/geo"

// ItemID identifies an item within an instance. Items are never created or
// destroyed once loaded, so a plain integer index is sufficient (unlike
// placements, which churn and need the richer PK type).
type ItemID int

// Item is an immutable piece to be packed: its shape at the origin, the
// derived pole surrogate used by the overlap proxy, and the rotations it may
// take (spec.md §3, GLOSSARY "Item").
type Item struct {
	ID              ItemID
	Shape           geo.Polygon
	Surrogate       geo.Surrogate
	AllowedRotation geo.RotationRange
	Demand          int // number of copies requested by the instance
}

// BBox returns the item's shape bounding box at the origin.
func (it Item) BBox() geo.AARectangle { return it.Shape.BBox() }

// NewItem builds an Item, deriving its pole surrogate from shape.
func NewItem(id ItemID, shape geo.Polygon, rotation geo.RotationRange, demand int, maxPoles int, coverageGoal float64) Item {
	return Item{
		ID:              id,
		Shape:           shape,
		Surrogate:       geo.BuildSurrogate(shape, maxPoles, coverageGoal),
		AllowedRotation: rotation,
		Demand:          demand,
	}
}
