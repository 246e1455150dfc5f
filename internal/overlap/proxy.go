// Package overlap implements the smooth, scale-aware overlap proxy between
// polygon surrogates (spec.md §4.1): a dense inner loop over pole pairs with
// a SIMD-accelerated hot path and a portable scalar fallback.
package overlap

import (
	"math"

	"github.com/rbscholtus/glsstrip/internal/geo"
)

// simdPoleLanes is the SIMD lane width the hot path is organised around
// (spec.md §4.1: "SIMD lanes of width 4 (float32) are required").
const simdPoleLanes = 4

// poleOverlapProxy dispatches to the platform's fastest available kernel.
// Set at init time by the amd64/generic build-tagged files.
var poleOverlapProxy = poleOverlapProxyScalar

// PolyPoly computes the overlap proxy between two polygon surrogates
// (spec.md §4.1): sqrt(P * sqrt(A1*A2)), where P is the total pole-pair
// penetration-depth contribution and Ai is each surrogate's convex hull area.
func PolyPoly(s1, s2 geo.Surrogate, bbox1, bbox2 geo.AARectangle, epsRatio float64, soa2 geo.PoleSOA) float64 {
	epsilon := math.Max(bbox1.Diameter(), bbox2.Diameter()) * epsRatio
	p := poleOverlapProxy(s1.Poles, epsilon, soa2)

	penalty := math.Sqrt(s1.ConvexHullArea * s2.ConvexHullArea)
	result := math.Sqrt(p * penalty)

	if math.IsNaN(result) || math.IsInf(result, 0) {
		// degenerate inputs (near-zero area / radius): spec.md requires a
		// finite, normal result for non-degenerate inputs only.
		return 0
	}
	return result
}

// PolyContainer computes the overlap proxy between an item's surrogate and
// the four edges of the strip's bounding rectangle (spec.md §4.1: "the
// polygon/container case uses each item pole against the four strip edges
// with the same decay form"). Only called when the item's bbox crosses a
// strip boundary.
func PolyContainer(s geo.Surrogate, bbox geo.AARectangle, container geo.AARectangle, epsRatio float64) float64 {
	if !crossesBoundary(bbox, container) {
		return 0
	}
	epsilon := math.Max(bbox.Diameter(), container.Diameter()) * epsRatio

	var total float64
	for _, pole := range s.Poles {
		total += edgePenalty(pole, container.XMin, true, epsilon)  // left edge: x >= xmin
		total += edgePenalty(pole, container.XMax, false, epsilon) // right edge: x <= xmax
		total += edgePenaltyY(pole, container.YMin, true, epsilon)
		total += edgePenaltyY(pole, container.YMax, false, epsilon)
	}

	penalty := math.Sqrt(s.ConvexHullArea * container.Area())
	result := math.Sqrt(total * penalty)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

func crossesBoundary(bbox, container geo.AARectangle) bool {
	return bbox.XMin < container.XMin || bbox.XMax > container.XMax ||
		bbox.YMin < container.YMin || bbox.YMax > container.YMax
}

// edgePenalty computes the penetration-depth contribution of a pole against
// a vertical boundary at x=edge (inward=true: interior is x>=edge, the left
// edge). decay() is applied unconditionally, matching the poly/poly kernel:
// it stays smoothly positive even for non-colliding poles and decays to zero
// only asymptotically (spec.md §4.1).
func edgePenalty(pole geo.Pole, edge float64, inward bool, epsilon float64) float64 {
	var pd float64
	if inward {
		pd = pole.Radius - (pole.Center.X - edge)
	} else {
		pd = pole.Radius - (edge - pole.Center.X)
	}
	return decay(pd, epsilon) * pole.Radius
}

func edgePenaltyY(pole geo.Pole, edge float64, inward bool, epsilon float64) float64 {
	var pd float64
	if inward {
		pd = pole.Radius - (pole.Center.Y - edge)
	} else {
		pd = pole.Radius - (edge - pole.Center.Y)
	}
	return decay(pd, epsilon) * pole.Radius
}

// decay implements the smoothed penetration depth (spec.md §4.1):
// pd if pd >= epsilon, else epsilon^2 / (2*epsilon - pd).
func decay(pd, epsilon float64) float64 {
	if pd >= epsilon {
		return pd
	}
	return (epsilon * epsilon) / (2*epsilon - pd)
}

// poleOverlapProxyScalar is the portable reference implementation: for every
// pole pair, accumulate decay(pd) * min(r1, r2). Pole accumulation order is
// fixed by index (spec.md §4.1: "ordering ... is fixed by pole indices"); the
// SIMD path differs from it only by float32 rounding and summation order,
// within the documented 0.1% tolerance.
func poleOverlapProxyScalar(poles1 []geo.Pole, epsilon float64, soa2 geo.PoleSOA) float64 {
	var total float64
	for _, p1 := range poles1 {
		for j := 0; j < soa2.Len(); j++ {
			x2, y2, r2 := float64(soa2.X[j]), float64(soa2.Y[j]), float64(soa2.R[j])
			dx, dy := p1.Center.X-x2, p1.Center.Y-y2
			pd := p1.Radius + r2 - math.Sqrt(dx*dx+dy*dy)
			minR := p1.Radius
			if r2 < minR {
				minR = r2
			}
			total += decay(pd, epsilon) * minR
		}
	}
	return total
}
