package cde

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

func square(x, y, side float64) geo.Polygon {
	return geo.NewPolygon([]geo.Point{
		{X: x, Y: y},
		{X: x + side, Y: y},
		{X: x + side, Y: y + side},
		{X: x, Y: y + side},
	})
}

func TestEngineDetectsOverlappingItem(t *testing.T) {
	container := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(container, 6)

	pkA := uuid.New()
	e.AddItem(pkA, square(0, 0, 10))

	overlapping := square(5, 5, 10)
	var coll ExistenceCollector
	e.CollectPolyCollisions(overlapping, nil, &coll)
	if !coll.Found {
		t.Fatal("expected overlap with item A")
	}

	disjoint := square(50, 50, 10)
	var coll2 ExistenceCollector
	e.CollectPolyCollisions(disjoint, nil, &coll2)
	if coll2.Found {
		t.Fatal("expected no overlap for disjoint placement")
	}
}

func TestEngineExcludesSelf(t *testing.T) {
	container := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(container, 6)

	pkA := uuid.New()
	shapeA := square(0, 0, 10)
	e.AddItem(pkA, shapeA)

	var coll ExistenceCollector
	e.CollectPolyCollisions(shapeA, []HazardID{{Kind: HazardItem, PK: pkA}}, &coll)
	if coll.Found {
		t.Fatal("expected self-exclusion to suppress the item's own hazard")
	}
}

func TestEngineBinExteriorHazard(t *testing.T) {
	container := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(container, 6)

	inside := square(10, 10, 10)
	var collInside ExistenceCollector
	e.CollectPolyCollisions(inside, nil, &collInside)
	if collInside.Found {
		t.Fatal("fully contained shape should not trigger the bin-exterior hazard")
	}

	crossing := square(-5, 10, 10)
	var collCrossing ExistenceCollector
	e.CollectPolyCollisions(crossing, nil, &collCrossing)
	if !collCrossing.Found || collCrossing.First.Kind != HazardBinExterior {
		t.Fatal("boundary-crossing shape should trigger the bin-exterior hazard")
	}
}

func TestEngineRemoveAndRebuild(t *testing.T) {
	container := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(container, 6)

	pk := uuid.New()
	e.AddItem(pk, square(0, 0, 10))
	e.RemoveItem(pk)
	e.Rebuild(container)

	var coll ExistenceCollector
	e.CollectPolyCollisions(square(0, 0, 10), nil, &coll)
	if coll.Found {
		t.Fatal("removed item should no longer be a hazard after rebuild")
	}
}

func TestPolygonsIntersectSharedEdgeNoOverlap(t *testing.T) {
	a := square(0, 0, 10)
	b := square(10, 0, 10)
	if PolygonsIntersect(a, b) {
		t.Fatal("edge-adjacent squares should not be reported as intersecting")
	}
}

func TestPolygonsIntersectContainment(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(2, 2, 3)
	if !PolygonsIntersect(outer, inner) {
		t.Fatal("fully contained polygon should intersect")
	}
}

func TestManyItemsStressesQuadtreeSplit(t *testing.T) {
	container := geo.NewAARectangle(0, 0, 1000, 1000)
	e := NewEngine(container, 8)

	for i := 0; i < 200; i++ {
		x := float64(i%20) * 10
		y := float64(i/20) * 10
		e.AddItem(uuid.New(), square(x, y, 5))
	}

	var coll AllCollector
	e.CollectPolyCollisions(square(0, 0, 5), nil, &coll)
	if len(coll.Hazards) == 0 {
		t.Fatal("expected at least the exact-match item to be collected")
	}
}
