package geo

import "math"

// AARectangle is an axis-aligned rectangle, used both for item/container
// bounding boxes and for the strip's outer polygon.
type AARectangle struct {
	XMin, YMin, XMax, YMax float64
}

// NewAARectangle builds a rectangle from its corners.
func NewAARectangle(xMin, yMin, xMax, yMax float64) AARectangle {
	return AARectangle{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
}

// Width returns x_max - x_min.
func (r AARectangle) Width() float64 { return r.XMax - r.XMin }

// Height returns y_max - y_min.
func (r AARectangle) Height() float64 { return r.YMax - r.YMin }

// Area returns the rectangle's area.
func (r AARectangle) Area() float64 { return r.Width() * r.Height() }

// Centroid returns the rectangle's center point.
func (r AARectangle) Centroid() Point {
	return Point{(r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2}
}

// Translate shifts the rectangle by (dx, dy).
func (r AARectangle) Translate(dx, dy float64) AARectangle {
	return AARectangle{r.XMin + dx, r.YMin + dy, r.XMax + dx, r.YMax + dy}
}

// Union returns the smallest rectangle containing both r and o.
func (r AARectangle) Union(o AARectangle) AARectangle {
	return AARectangle{
		XMin: min(r.XMin, o.XMin),
		YMin: min(r.YMin, o.YMin),
		XMax: max(r.XMax, o.XMax),
		YMax: max(r.YMax, o.YMax),
	}
}

// Intersects reports whether r and o overlap (touching counts as intersecting).
func (r AARectangle) Intersects(o AARectangle) bool {
	return r.XMin <= o.XMax && r.XMax >= o.XMin && r.YMin <= o.YMax && r.YMax >= o.YMin
}

// Disjoint reports whether r and o share no area, not even a boundary.
func (r AARectangle) Disjoint(o AARectangle) bool {
	return r.XMax < o.XMin || r.XMin > o.XMax || r.YMax < o.YMin || r.YMin > o.YMax
}

// Diameter returns the length of the rectangle's diagonal, used as the
// smoothing-epsilon scale reference in the overlap proxy.
func (r AARectangle) Diameter() float64 {
	w, h := r.Width(), r.Height()
	return math.Sqrt(w*w + h*h)
}

// Contains reports whether o lies entirely within r (boundary inclusive).
func (r AARectangle) Contains(o AARectangle) bool {
	return o.XMin >= r.XMin && o.XMax <= r.XMax && o.YMin >= r.YMin && o.YMax <= r.YMax
}

// Clip returns the intersection of r and bound, or the zero rectangle and
// false if they do not overlap.
func (r AARectangle) Clip(bound AARectangle) (AARectangle, bool) {
	if !r.Intersects(bound) {
		return AARectangle{}, false
	}
	return AARectangle{
		XMin: max(r.XMin, bound.XMin),
		YMin: max(r.YMin, bound.YMin),
		XMax: min(r.XMax, bound.XMax),
		YMax: min(r.YMax, bound.YMax),
	}, true
}
