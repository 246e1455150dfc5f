package geo

import "math"

// Pole is an inscribed circle approximating part of a polygon's interior,
// used both for collision pre-filtering and for the smoothed overlap proxy
// (spec.md §4.1, GLOSSARY "Pole / surrogate").
type Pole struct {
	Center Point
	Radius float64
}

// Surrogate is the precomputed pole decomposition of a polygon, plus its
// convex-hull area (used as the overlap-proxy scale penalty). Poles are
// sorted descending by radius so the largest (most containment-relevant)
// poles are considered first by callers that truncate the list.
type Surrogate struct {
	Poles          []Pole
	ConvexHullArea float64
}

// PoleSOA is the struct-of-arrays layout of a Surrogate's poles, required by
// the SIMD overlap kernel (spec.md §4.1: "second surrogate stores its poles
// in struct-of-arrays form to enable aligned lane loads").
type PoleSOA struct {
	X, Y, R []float32
}

// NewPoleSOA converts a pole slice to struct-of-arrays form.
func NewPoleSOA(poles []Pole) PoleSOA {
	soa := PoleSOA{
		X: make([]float32, len(poles)),
		Y: make([]float32, len(poles)),
		R: make([]float32, len(poles)),
	}
	for i, p := range poles {
		soa.X[i] = float32(p.Center.X)
		soa.Y[i] = float32(p.Center.Y)
		soa.R[i] = float32(p.Radius)
	}
	return soa
}

// Len returns the number of poles in the SoA buffer.
func (s PoleSOA) Len() int { return len(s.X) }

// BuildSurrogate computes a pole decomposition for a polygon. Poles are
// generated by a uniform grid of candidate centers clipped to the polygon's
// bounding box, each pole's radius set to the candidate's distance to the
// nearest edge (the largest inscribable circle at that center); candidates
// are taken largest-first, skipping any that lies entirely inside an already
// kept pole, until either maxPoles is reached or coverageGoal fraction of the
// polygon's area is covered by the kept poles.
//
// This is a from-scratch approximation of the pole-decomposition external
// collaborator named in spec.md §1 (no Rust source for jagua-rs's own
// generator was retrieved); accuracy here only needs to be good enough to
// drive the smoothed overlap proxy and CDE pre-filtering, not exact.
func BuildSurrogate(p Polygon, maxPoles int, coverageGoal float64) Surrogate {
	bbox := p.BBox()
	hullArea := p.ConvexHullArea()

	const gridN = 12
	dx := bbox.Width() / gridN
	dy := bbox.Height() / gridN
	if dx <= 0 || dy <= 0 {
		return Surrogate{ConvexHullArea: hullArea}
	}

	type candidate struct {
		pole Pole
	}
	var candidates []candidate
	for i := 0; i < gridN; i++ {
		for j := 0; j < gridN; j++ {
			c := Point{bbox.XMin + (float64(i)+0.5)*dx, bbox.YMin + (float64(j)+0.5)*dy}
			if !PointInPolygon(c, p) {
				continue
			}
			r := distanceToEdges(c, p)
			if r <= 0 {
				continue
			}
			candidates = append(candidates, candidate{Pole{c, r}})
		}
	}

	// largest-first greedy selection, pruning poles mostly covered already
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].pole.Radius > candidates[i].pole.Radius {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	var poles []Pole
	var covered float64
	area := p.Area()
	for _, c := range candidates {
		if len(poles) >= maxPoles {
			break
		}
		redundant := false
		for _, kept := range poles {
			d := c.pole.Center.Distance(kept.Center)
			if d+c.pole.Radius <= kept.Radius {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}
		poles = append(poles, c.pole)
		covered += math.Pi * c.pole.Radius * c.pole.Radius
		if area > 0 && covered/area >= coverageGoal {
			break
		}
	}

	if len(poles) == 0 {
		// degenerate polygon (e.g. a sliver): fall back to a single pole at
		// the centroid sized to half the smaller bbox dimension.
		c := p.Centroid()
		poles = []Pole{{c, math.Min(bbox.Width(), bbox.Height()) / 2}}
	}

	return Surrogate{Poles: poles, ConvexHullArea: hullArea}
}

// distanceToEdges returns the distance from p to the nearest edge of poly.
func distanceToEdges(p Point, poly Polygon) float64 {
	n := len(poly.Points)
	if n < 2 {
		return 0
	}
	best := math.Inf(1)
	for i := range n {
		a := poly.Points[i]
		b := poly.Points[(i+1)%n]
		d := distancePointSegment(p, a, b)
		if d < best {
			best = d
		}
	}
	return best
}

func distancePointSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	denom := ab.X*ab.X + ab.Y*ab.Y
	if denom == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / denom
	t = math.Max(0, math.Min(1, t))
	proj := Point{a.X + t*ab.X, a.Y + t*ab.Y}
	return p.Distance(proj)
}

// PointInPolygon reports whether p lies inside poly using the standard
// ray-casting parity test.
func PointInPolygon(p Point, poly Polygon) bool {
	n := len(poly.Points)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly.Points[i], poly.Points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
