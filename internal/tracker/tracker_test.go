package tracker

import (
	"testing"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
	"github.com/stretchr/testify/assert"
)

func rectItem(id problem.ItemID, w, h float64) problem.Item {
	shape := geo.NewPolygon([]geo.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}})
	return problem.NewItem(id, shape, geo.RotationRange{Discrete: []float64{0}}, 1, 8, 0.8)
}

func defaultTrackerParams() config.TrackerParams {
	return config.TrackerParams{MinIncrease: 1.2, MaxIncrease: 2.0, Decay: 0.95, JumpCooldown: 5}
}

func newOverlappingProblem() (*problem.Problem, problem.PK, problem.PK) {
	item := rectItem(0, 10, 10)
	p := problem.NewProblem([]problem.Item{item}, problem.NewContainer(100, 100))
	a := p.PlaceItem(0, geo.Transformation{Tx: 0, Ty: 0})
	b := p.PlaceItem(0, geo.Transformation{Tx: 5, Ty: 5})
	return p, a, b
}

func TestOverlapSymmetric(t *testing.T) {
	p, a, b := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())

	assert.Equal(t, tr.computePairLoss(a, b), tr.computePairLoss(b, a), "overlap proxy must be symmetric")
	assert.Greater(t, tr.GetOverlap(a), 0.0)
	assert.Greater(t, tr.GetOverlap(b), 0.0)
}

func TestLossAgreesWithCDE(t *testing.T) {
	p, a, _ := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())

	if tr.GetTotalOverlap() <= 0 {
		t.Fatal("expected positive total overlap for overlapping placements")
	}
	_ = a
}

func TestZeroOverlapForDisjointPlacements(t *testing.T) {
	item := rectItem(0, 10, 10)
	p := problem.NewProblem([]problem.Item{item}, problem.NewContainer(100, 100))
	p.PlaceItem(0, geo.Transformation{Tx: 0, Ty: 0})
	p.PlaceItem(0, geo.Transformation{Tx: 50, Ty: 50})
	tr := New(p, defaultTrackerParams())

	if tr.GetTotalOverlap() != 0 {
		t.Fatalf("expected zero total overlap for disjoint placements, got %v", tr.GetTotalOverlap())
	}
}

func TestIncrementWeightsGrowsOverlappingItemPair(t *testing.T) {
	p, a, b := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())

	ip := canonicalItemPair(tr.itemOf(a), tr.itemOf(b))
	before := tr.weightOf(ip)
	tr.IncrementWeights()
	after := tr.weightOf(ip)
	if after <= before {
		t.Fatalf("expected weight to grow: before=%v after=%v", before, after)
	}
}

func TestWeightPersistsAcrossItemMoveUnderIdentity(t *testing.T) {
	// Scenario S4: two copies of the same item type overlap, weight grows,
	// then one copy is moved far away (keeping its PK) and a third copy of
	// the same item type is placed under a fresh PK into an overlapping
	// position. Because
	// weight is keyed on item identity, the new overlapping pair should
	// start from the already-grown weight, not from the unweighted default.
	item := rectItem(0, 10, 10)
	p := problem.NewProblem([]problem.Item{item}, problem.NewContainer(100, 100))
	a := p.PlaceItem(0, geo.Transformation{Tx: 0, Ty: 0})
	b := p.PlaceItem(0, geo.Transformation{Tx: 5, Ty: 5})
	tr := New(p, defaultTrackerParams())
	tr.IncrementWeights()
	tr.IncrementWeights()

	grownWeight := tr.weightOf(canonicalItemPair(tr.itemOf(a), tr.itemOf(b)))
	if grownWeight <= 1 {
		t.Fatalf("expected weight to have grown above 1, got %v", grownWeight)
	}

	p.MoveItem(b, geo.Transformation{Tx: 80, Ty: 80})
	tr.RegisterItemMove(b, b)

	c := p.PlaceItem(0, geo.Transformation{Tx: 3, Ty: 3})
	tr.RegisterItemMove(c, c)

	newPairWeight := tr.weightOf(canonicalItemPair(tr.itemOf(a), tr.itemOf(c)))
	if newPairWeight != grownWeight {
		t.Fatalf("expected fresh overlapping pair of the same item identity to inherit grown weight %v, got %v", grownWeight, newPairWeight)
	}
}

func TestWeightNeverDecaysBelowOne(t *testing.T) {
	p, a, b := newOverlappingProblem()
	params := defaultTrackerParams()
	params.Decay = 0.5
	tr := New(p, params)

	ip := canonicalItemPair(tr.itemOf(a), tr.itemOf(b))
	tr.weight[ip] = 1.01
	for i := 0; i < 50; i++ {
		tr.IncrementWeights()
	}
	if tr.weightOf(ip) < 1 {
		t.Fatalf("weight fell below floor: %v", tr.weightOf(ip))
	}
}

func TestJumpCooldownDecaysOnIncrement(t *testing.T) {
	p, a, _ := newOverlappingProblem()
	params := defaultTrackerParams()
	params.JumpCooldown = 2
	tr := New(p, params)

	tr.RegisterJump(a)
	if !tr.IsOnJumpCooldown(a) {
		t.Fatal("expected cooldown immediately after RegisterJump")
	}
	tr.IncrementWeights()
	if !tr.IsOnJumpCooldown(a) {
		t.Fatal("expected cooldown to persist after one decrement")
	}
	tr.IncrementWeights()
	if tr.IsOnJumpCooldown(a) {
		t.Fatal("expected cooldown to expire after JumpCooldown increments")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	p, a, b := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())
	tr.IncrementWeights()

	snap := tr.CreateSnapshot()
	ip := canonicalItemPair(tr.itemOf(a), tr.itemOf(b))
	w := tr.weightOf(ip)

	tr.IncrementWeights()
	tr.IncrementWeights()
	assert.NotEqual(t, w, tr.weightOf(ip), "expected weight to change after further increments")

	tr.Restore(snap)
	assert.Equal(t, w, tr.weightOf(ip), "expected restore to bring weight back to its snapshot value")
}

func TestRestoreButKeepWeightsPreservesWeight(t *testing.T) {
	p, a, b := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())
	tr.IncrementWeights()
	tr.IncrementWeights()

	ip := canonicalItemPair(tr.itemOf(a), tr.itemOf(b))
	snap := tr.CreateSnapshot()

	tr.IncrementWeights() // grows the weight further, past what snap captured
	furtherGrown := tr.weightOf(ip)

	tr.RestoreButKeepWeights(snap)
	if tr.weightOf(ip) != furtherGrown {
		t.Fatalf("expected RestoreButKeepWeights to leave weights untouched, got %v want %v", tr.weightOf(ip), furtherGrown)
	}
}

func TestTotalWeightedOverlapAtLeastRaw(t *testing.T) {
	p, _, _ := newOverlappingProblem()
	tr := New(p, defaultTrackerParams())
	tr.IncrementWeights()

	raw := tr.GetTotalOverlap()
	weighted := tr.GetTotalWeightedOverlap()
	assert.GreaterOrEqual(t, weighted, raw, "weighted overlap should be >= raw overlap once weights exceed 1")
}
