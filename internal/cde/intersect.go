package cde

import "github.com/rbscholtus/glsstrip/internal/geo"

// PolygonsIntersect is the CDE's exact narrow-phase test: two simple polygons
// collide if any pair of their edges cross, or if one is fully contained in
// the other (spec.md §7: "touching exactly at an edge ... narrow phase must
// classify consistently"; containment without edge crossing still counts as
// a collision). Polygons that merely touch along a shared edge or vertex,
// with no interior overlap, are treated as non-colliding: segment crossing
// requires a proper intersection, not a shared endpoint.
func PolygonsIntersect(a, b geo.Polygon) bool {
	if a.BBox().Disjoint(b.BBox()) {
		return false
	}

	for i := 0; i < len(a.Points); i++ {
		a1 := a.Points[i]
		a2 := a.Points[(i+1)%len(a.Points)]
		for j := 0; j < len(b.Points); j++ {
			b1 := b.Points[j]
			b2 := b.Points[(j+1)%len(b.Points)]
			if segmentsProperlyIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}

	if len(b.Points) > 0 && geo.PointInPolygon(b.Points[0], a) {
		return true
	}
	if len(a.Points) > 0 && geo.PointInPolygon(a.Points[0], b) {
		return true
	}
	return false
}

func segmentsProperlyIntersect(p1, p2, p3, p4 geo.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross(o, a, b geo.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
