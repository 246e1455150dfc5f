package cde

import "github.com/rbscholtus/glsstrip/internal/geo"

// quadtree is a simple bounding-box spatial index used to broad-phase filter
// hazard candidates before exact polygon intersection tests (spec.md
// GLOSSARY: "CDE ... backed by a quadtree"). Nodes split once they hold more
// than bucketCap entries and haven't reached maxDepth.
type quadtree struct {
	bounds   geo.AARectangle
	depth    int
	maxDepth int
	bucketCap int

	entries  []qtEntry
	children *[4]*quadtree // nil until split
}

type qtEntry struct {
	id   HazardID
	bbox geo.AARectangle
}

func newQuadtree(bounds geo.AARectangle, maxDepth int) *quadtree {
	return &quadtree{bounds: bounds, maxDepth: maxDepth, bucketCap: 8}
}

func (q *quadtree) insert(id HazardID, bbox geo.AARectangle) {
	if q.children != nil {
		for _, c := range q.children {
			if c.bounds.Intersects(bbox) {
				c.insert(id, bbox)
			}
		}
		return
	}

	q.entries = append(q.entries, qtEntry{id, bbox})

	if len(q.entries) > q.bucketCap && q.depth < q.maxDepth {
		q.split()
	}
}

func (q *quadtree) split() {
	cx := (q.bounds.XMin + q.bounds.XMax) / 2
	cy := (q.bounds.YMin + q.bounds.YMax) / 2

	quads := [4]geo.AARectangle{
		geo.NewAARectangle(q.bounds.XMin, q.bounds.YMin, cx, cy),
		geo.NewAARectangle(cx, q.bounds.YMin, q.bounds.XMax, cy),
		geo.NewAARectangle(q.bounds.XMin, cy, cx, q.bounds.YMax),
		geo.NewAARectangle(cx, cy, q.bounds.XMax, q.bounds.YMax),
	}

	var children [4]*quadtree
	for i, qb := range quads {
		children[i] = newQuadtree(qb, q.maxDepth)
		children[i].depth = q.depth + 1
		children[i].bucketCap = q.bucketCap
	}

	entries := q.entries
	q.entries = nil
	q.children = &children

	for _, e := range entries {
		q.insert(e.id, e.bbox)
	}
}

// query appends every entry whose bbox intersects `bbox` to dst, possibly
// with duplicates across quadrant boundaries (caller de-duplicates).
func (q *quadtree) query(bbox geo.AARectangle, dst []qtEntry) []qtEntry {
	if !q.bounds.Intersects(bbox) && q.depth > 0 {
		return dst
	}
	if q.children != nil {
		for _, c := range q.children {
			if c.bounds.Intersects(bbox) {
				dst = c.query(bbox, dst)
			}
		}
		return dst
	}
	for _, e := range q.entries {
		if e.bbox.Intersects(bbox) {
			dst = append(dst, e)
		}
	}
	return dst
}
