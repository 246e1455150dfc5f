package problem

import (
	"github.com/google/uuid"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

// PK (placement key) identifies one placed copy of an item, independent of
// the item it was created from; it survives across RemoveItem/PlaceItem
// cycles only as long as the caller keeps reusing the same key (spec.md §3,
// GLOSSARY "PK"). Using a UUID rather than a small integer means stale PKs
// from a previous layout can never collide with a freshly generated one.
type PK = uuid.UUID

// NewPK mints a fresh placement key.
func NewPK() PK { return uuid.New() }

// PlacedItem is one item instance placed in the layout at a given transform,
// with its transformed shape and surrogate cached so repeated collision and
// overlap queries don't re-apply the transform.
type PlacedItem struct {
	ItemID    ItemID
	Transform geo.Transformation

	shape     geo.Polygon
	bbox      geo.AARectangle
	soa       geo.PoleSOA
	hullArea  float64
	poleCount int
}

// newPlacedItem materializes a PlacedItem's cached transformed geometry.
func newPlacedItem(item Item, t geo.Transformation) PlacedItem {
	pi := PlacedItem{ItemID: item.ID, Transform: t}
	pi.recompute(item)
	return pi
}

func (pi *PlacedItem) recompute(item Item) {
	pi.shape = item.Shape.Transform(pi.Transform)
	pi.bbox = pi.shape.BBox()
	pi.hullArea = item.Surrogate.ConvexHullArea
	pi.poleCount = len(item.Surrogate.Poles)

	poles := make([]geo.Pole, pi.poleCount)
	for i, p := range item.Surrogate.Poles {
		poles[i] = geo.Pole{Center: pi.Transform.Apply(p.Center), Radius: p.Radius}
	}
	pi.soa = geo.NewPoleSOA(poles)
}

// Shape returns the item's polygon transformed into the layout.
func (pi PlacedItem) Shape() geo.Polygon { return pi.shape }

// BBox returns the transformed shape's bounding box.
func (pi PlacedItem) BBox() geo.AARectangle { return pi.bbox }

// Surrogate reconstructs the transformed pole surrogate (poles in
// layout-space, convex hull area unchanged by rigid transform).
func (pi PlacedItem) Surrogate() geo.Surrogate {
	poles := make([]geo.Pole, pi.soa.Len())
	for i := range poles {
		poles[i] = geo.Pole{
			Center: geo.Point{X: float64(pi.soa.X[i]), Y: float64(pi.soa.Y[i])},
			Radius: float64(pi.soa.R[i]),
		}
	}
	return geo.Surrogate{Poles: poles, ConvexHullArea: pi.hullArea}
}

// PoleSOA returns the transformed poles in struct-of-arrays form, ready for
// the SIMD overlap kernel.
func (pi PlacedItem) PoleSOA() geo.PoleSOA { return pi.soa }
