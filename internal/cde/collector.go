package cde

import "github.com/rbscholtus/glsstrip/internal/geo"

// ExistenceCollector is the simplest Collector: it records whether any
// collision occurred and stops at the first one. Used by callers that only
// need a boolean "does this placement collide with anything" answer
// (constructive placement, §5), as opposed to the weighted-loss evaluator in
// internal/eval which needs every hazard.
type ExistenceCollector struct {
	Found bool
	First HazardID
}

func (c *ExistenceCollector) Collect(id HazardID, _ geo.Polygon) bool {
	c.Found = true
	c.First = id
	return false
}

// AllCollector gathers every colliding hazard without early termination.
// Used by tests and diagnostics that need the full collision set.
type AllCollector struct {
	Hazards []HazardID
}

func (c *AllCollector) Collect(id HazardID, _ geo.Polygon) bool {
	c.Hazards = append(c.Hazards, id)
	return true
}
