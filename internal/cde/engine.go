// Package cde implements the collision detection engine: the external
// collaborator named in spec.md §6 (`CDE::collect_poly_collisions`), backed
// by a quadtree broad-phase index over hazard bounding boxes. Hazards are
// either placed items or the bin exterior (spec.md §3, GLOSSARY "Hazard").
package cde

import (
	"github.com/google/uuid"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

// HazardKind distinguishes a placed-item hazard from the bin-exterior hazard.
type HazardKind uint8

const (
	HazardItem HazardKind = iota
	HazardBinExterior
)

// HazardID identifies one hazard: a placement key for item hazards, or the
// zero PK (ignored) for the single bin-exterior hazard.
type HazardID struct {
	Kind HazardKind
	PK   uuid.UUID
}

// BinExteriorID is the singleton hazard ID representing the strip's exterior.
var BinExteriorID = HazardID{Kind: HazardBinExterior}

// Collector receives hazards encountered during a collision query and may
// request early termination (spec.md §4.3: "a specialized collector that
// ... can early-terminate"). Concrete collectors (the sample evaluator's
// upper-bound-aware collector, or a simple existence check) live in their
// own packages and implement this interface.
type Collector interface {
	// Collect is invoked once per encountered, non-excluded item hazard whose
	// shape exactly intersects the query shape (the engine has already run
	// the exact test; the hazard's shape is passed for reference), and for
	// the bin exterior whenever the query's bbox is not inside the container.
	Collect(id HazardID, shape geo.Polygon) (shouldContinue bool)
}

type hazardEntry struct {
	shape geo.Polygon
	bbox  geo.AARectangle
}

// Engine indexes the current set of placed-item hazards plus the bin
// exterior, and answers "which hazards does polygon P collide with?"
// queries (spec.md §6).
type Engine struct {
	container geo.AARectangle
	tree      *quadtree
	hazards   map[HazardID]hazardEntry
	maxDepth  int
}

// NewEngine builds an empty engine for the given container rectangle.
func NewEngine(container geo.AARectangle, quadtreeDepth int) *Engine {
	return &Engine{
		container: container,
		tree:      newQuadtree(container, quadtreeDepth),
		hazards:   make(map[HazardID]hazardEntry),
		maxDepth:  quadtreeDepth,
	}
}

// Container returns the engine's container rectangle.
func (e *Engine) Container() geo.AARectangle { return e.container }

// AddItem registers a placed item's shape as a hazard.
func (e *Engine) AddItem(pk uuid.UUID, shape geo.Polygon) {
	id := HazardID{Kind: HazardItem, PK: pk}
	bbox := shape.BBox()
	e.hazards[id] = hazardEntry{shape: shape, bbox: bbox}
	e.tree.insert(id, bbox)
}

// RemoveItem un-registers a placed item's hazard. The quadtree is not
// compacted on removal (stale entries are filtered by the `hazards` map
// lookup at query time); Rebuild() is called after bulk removals (e.g. on
// strip-width change) to reclaim space.
func (e *Engine) RemoveItem(pk uuid.UUID) {
	delete(e.hazards, HazardID{Kind: HazardItem, PK: pk})
}

// Rebuild reconstructs the quadtree from the current hazard set, discarding
// stale entries left behind by RemoveItem. Called after bulk layout changes.
func (e *Engine) Rebuild(container geo.AARectangle) {
	e.container = container
	e.tree = newQuadtree(container, e.maxDepth)
	for id, h := range e.hazards {
		e.tree.insert(id, h.bbox)
	}
}

// CollectPolyCollisions enumerates hazards that intersect shape, excluding
// any hazard in excluded, feeding each to collector until collector returns
// false or all candidates are exhausted (spec.md §6).
func (e *Engine) CollectPolyCollisions(shape geo.Polygon, excluded []HazardID, collector Collector) {
	bbox := shape.BBox()

	if !e.container.Contains(bbox) {
		if !collector.Collect(BinExteriorID, boundaryPolygon(e.container)) {
			return
		}
	}

	seen := make(map[HazardID]bool, 8)
	candidates := e.tree.query(bbox, nil)
	for _, c := range candidates {
		if seen[c.id] {
			continue
		}
		seen[c.id] = true
		if isExcluded(c.id, excluded) {
			continue
		}
		h, ok := e.hazards[c.id]
		if !ok {
			continue // stale quadtree entry, removed since insertion
		}
		if !PolygonsIntersect(shape, h.shape) {
			continue
		}
		if !collector.Collect(c.id, h.shape) {
			return
		}
	}
}

func isExcluded(id HazardID, excluded []HazardID) bool {
	for _, e := range excluded {
		if e == id {
			return true
		}
	}
	return false
}

// boundaryPolygon returns a minimal representation of the container outline,
// used only to hand the collector something to report against; callers
// needing the bin-exterior loss compute it directly against the container
// rectangle rather than this polygon.
func boundaryPolygon(container geo.AARectangle) geo.Polygon {
	return geo.NewPolygon([]geo.Point{
		{X: container.XMin, Y: container.YMin},
		{X: container.XMax, Y: container.YMin},
		{X: container.XMax, Y: container.YMax},
		{X: container.XMin, Y: container.YMax},
	})
}
