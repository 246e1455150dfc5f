// Package tracker maintains the GLS guidance state described in spec.md
// §4.2: a symmetric, incrementally-updated per-pair overlap-loss cache and
// a matching weight table. Loss is keyed by placement (PK) pairs — it is a
// property of the current geometry. Weight is keyed by *item identity*
// pairs (spec.md §4.2, register_item_move: "weights are attached to the
// pair of item identities, not to PKs"), so a learned penalty survives an
// item being removed and re-placed under a fresh PK.
package tracker

import (
	"bytes"

	"github.com/rbscholtus/glsstrip/internal/cde"
	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/overlap"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// PairKey is an unordered pair of placement keys.
type PairKey struct {
	A, B problem.PK
}

func canonicalPair(a, b problem.PK) PairKey {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return PairKey{a, b}
	}
	return PairKey{b, a}
}

// itemPairKey is an unordered pair of item identities, the index space
// weights actually live in.
type itemPairKey struct {
	A, B problem.ItemID
}

func canonicalItemPair(a, b problem.ItemID) itemPairKey {
	if a <= b {
		return itemPairKey{a, b}
	}
	return itemPairKey{b, a}
}

// Tracker caches loss(i,j)/bin_loss(i) for the current layout and maintains
// weight(itemA,itemB)/bin_weight(item) across the run.
type Tracker struct {
	prob   *problem.Problem
	params config.TrackerParams

	loss    map[PairKey]float64
	binLoss map[problem.PK]float64

	weight    map[itemPairKey]float64
	binWeight map[problem.ItemID]float64

	cooldown map[problem.PK]int
}

// New builds a tracker by querying the CDE for every currently placed
// item's collisions (spec.md §4.2: "new(layout): rebuild from scratch").
func New(p *problem.Problem, params config.TrackerParams) *Tracker {
	t := &Tracker{
		prob:      p,
		params:    params,
		weight:    make(map[itemPairKey]float64),
		binWeight: make(map[problem.ItemID]float64),
		cooldown:  make(map[problem.PK]int),
	}
	t.rebuild()
	return t
}

// defaultEpsRatio is used only when params.EpsilonDiamRatio is left at its
// zero value (e.g. a TrackerParams literal built by hand in a test).
const defaultEpsRatio = 0.01

// EpsilonDiamRatio returns the configured overlap-smoothing ratio (spec.md
// §4.1), exposed so internal/eval's SeparationEvaluator can reuse the same
// value the tracker itself computes loss with.
func (t *Tracker) EpsilonDiamRatio() float64 {
	if t.params.EpsilonDiamRatio > 0 {
		return t.params.EpsilonDiamRatio
	}
	return defaultEpsRatio
}

func (t *Tracker) rebuild() {
	t.loss = make(map[PairKey]float64)
	t.binLoss = make(map[problem.PK]float64)
	for pk := range t.prob.Layout.Placed {
		t.rescanPlacement(pk)
	}
}

// rescanPlacement recomputes every loss/bin_loss entry involving pk against
// the layout's current CDE state, without touching other placements' entries.
func (t *Tracker) rescanPlacement(pk problem.PK) {
	pi, ok := t.prob.Layout.Placed[pk]
	if !ok {
		return
	}
	var coll cde.AllCollector
	excluded := []cde.HazardID{{Kind: cde.HazardItem, PK: pk}}
	t.prob.Layout.CDE().CollectPolyCollisions(pi.Shape(), excluded, &coll)

	for _, h := range coll.Hazards {
		if h.Kind == cde.HazardBinExterior {
			t.binLoss[pk] = t.computeContainerLoss(pk)
			continue
		}
		key := canonicalPair(pk, h.PK)
		t.loss[key] = t.computePairLoss(pk, h.PK)
	}
}

func (t *Tracker) computePairLoss(a, b problem.PK) float64 {
	pa, okA := t.prob.Layout.Placed[a]
	pb, okB := t.prob.Layout.Placed[b]
	if !okA || !okB {
		return 0
	}
	return overlap.PolyPoly(pa.Surrogate(), pb.Surrogate(), pa.BBox(), pb.BBox(), t.EpsilonDiamRatio(), pb.PoleSOA())
}

func (t *Tracker) computeContainerLoss(pk problem.PK) float64 {
	pi, ok := t.prob.Layout.Placed[pk]
	if !ok {
		return 0
	}
	return overlap.PolyContainer(pi.Surrogate(), pi.BBox(), t.prob.Layout.Container.Rect(), t.EpsilonDiamRatio())
}

// clearPlacement drops pk's loss/bin_loss entries. Jump cooldown is left
// untouched: it is reset only by RegisterJump and ticks down only via
// IncrementWeights, independent of ordinary moves.
func (t *Tracker) clearPlacement(pk problem.PK) {
	for key := range t.loss {
		if key.A == pk || key.B == pk {
			delete(t.loss, key)
		}
	}
	delete(t.binLoss, pk)
}

// RegisterItemMove drops every cache entry touching oldPK, then recomputes
// entries for newPK from the CDE's current view of it (spec.md §4.2). The
// separator's moves remove the placement and place it again, so oldPK and
// newPK differ there. Passing the same key for both (after an in-place
// internal/problem.Layout.Move, which keeps the PK) refreshes that
// placement's entries against its new geometry.
func (t *Tracker) RegisterItemMove(oldPK, newPK problem.PK) {
	t.clearPlacement(oldPK)
	t.rescanPlacement(newPK)
}

func (t *Tracker) weightOf(k itemPairKey) float64 {
	if w, ok := t.weight[k]; ok {
		return w
	}
	return 1
}

func (t *Tracker) binWeightOf(id problem.ItemID) float64 {
	if w, ok := t.binWeight[id]; ok {
		return w
	}
	return 1
}

func (t *Tracker) itemOf(pk problem.PK) problem.ItemID {
	return t.prob.Layout.Placed[pk].ItemID
}

// ItemOf returns the item identity behind a currently placed key.
func (t *Tracker) ItemOf(pk problem.PK) problem.ItemID { return t.itemOf(pk) }

// WeightForItems returns the current weight for a pair of item identities,
// the same weight GetWeightedOverlap applies internally. Exposed for
// evaluators that need to weight a *candidate* overlap (one not yet
// reflected in the tracker's placement cache).
func (t *Tracker) WeightForItems(a, b problem.ItemID) float64 {
	return t.weightOf(canonicalItemPair(a, b))
}

// WeightForBin returns the current bin (container) weight for an item identity.
func (t *Tracker) WeightForBin(id problem.ItemID) float64 {
	return t.binWeightOf(id)
}

// GetOverlap returns Σ_j loss(pk, j) + bin_loss(pk) (spec.md §4.2).
func (t *Tracker) GetOverlap(pk problem.PK) float64 {
	var total float64
	for key, l := range t.loss {
		if key.A == pk || key.B == pk {
			total += l
		}
	}
	return total + t.binLoss[pk]
}

// GetWeightedOverlap is GetOverlap's weighted counterpart.
func (t *Tracker) GetWeightedOverlap(pk problem.PK) float64 {
	var total float64
	itemPK := t.itemOf(pk)
	for key, l := range t.loss {
		if key.A != pk && key.B != pk {
			continue
		}
		other := key.A
		if other == pk {
			other = key.B
		}
		w := t.weightOf(canonicalItemPair(itemPK, t.itemOf(other)))
		total += l * w
	}
	return total + t.binLoss[pk]*t.binWeightOf(itemPK)
}

// GetTotalOverlap sums every cached loss value once (spec.md §4.2:
// "sum over all keys / 2 for off-diagonal" — the underlying map already
// stores each unordered pair once).
func (t *Tracker) GetTotalOverlap() float64 {
	var total float64
	for _, l := range t.loss {
		total += l
	}
	for _, b := range t.binLoss {
		total += b
	}
	return total
}

// GetTotalWeightedOverlap is GetTotalOverlap's weighted counterpart.
func (t *Tracker) GetTotalWeightedOverlap() float64 {
	var total float64
	for key, l := range t.loss {
		w := t.weightOf(canonicalItemPair(t.itemOf(key.A), t.itemOf(key.B)))
		total += l * w
	}
	for pk, b := range t.binLoss {
		total += b * t.binWeightOf(t.itemOf(pk))
	}
	return total
}

// IncrementWeights grows the weight of every currently overlapping item
// pair (and bin weight) by a factor in [MinIncrease, MaxIncrease]
// proportional to its worst current loss relative to the round's worst
// overall loss, decays every other known weight by Decay floored at 1, and
// ticks every jump cooldown down by one (spec.md §4.2; cooldown decays on
// every increment_weights call).
func (t *Tracker) IncrementWeights() {
	pairWorst := make(map[itemPairKey]float64)
	var worst float64
	for key, l := range t.loss {
		if l <= 0 {
			continue
		}
		if l > worst {
			worst = l
		}
		ip := canonicalItemPair(t.itemOf(key.A), t.itemOf(key.B))
		if l > pairWorst[ip] {
			pairWorst[ip] = l
		}
	}
	binWorstByItem := make(map[problem.ItemID]float64)
	var binWorst float64
	for pk, b := range t.binLoss {
		if b <= 0 {
			continue
		}
		if b > binWorst {
			binWorst = b
		}
		id := t.itemOf(pk)
		if b > binWorstByItem[id] {
			binWorstByItem[id] = b
		}
	}

	for ip, l := range pairWorst {
		t.weight[ip] = t.weightOf(ip) * t.growthFactor(l, worst)
	}
	for ip := range t.weight {
		if _, touched := pairWorst[ip]; !touched {
			t.weight[ip] = decayed(t.weightOf(ip), t.params.Decay)
		}
	}

	for id, b := range binWorstByItem {
		t.binWeight[id] = t.binWeightOf(id) * t.growthFactor(b, binWorst)
	}
	for id := range t.binWeight {
		if _, touched := binWorstByItem[id]; !touched {
			t.binWeight[id] = decayed(t.binWeightOf(id), t.params.Decay)
		}
	}

	for pk, remaining := range t.cooldown {
		if remaining <= 1 {
			delete(t.cooldown, pk)
			continue
		}
		t.cooldown[pk] = remaining - 1
	}
}

func (t *Tracker) growthFactor(loss, worst float64) float64 {
	if worst <= 0 {
		return t.params.MinIncrease
	}
	frac := loss / worst
	return t.params.MinIncrease + frac*(t.params.MaxIncrease-t.params.MinIncrease)
}

func decayed(w, decay float64) float64 {
	w *= decay
	if w < 1 {
		return 1
	}
	return w
}

// RegisterJump marks pk as having just been relocated by a large, disjoint
// jump move, excluding it from container-wide sampling for JumpCooldown
// subsequent increment rounds (spec.md §4.6).
func (t *Tracker) RegisterJump(pk problem.PK) {
	t.cooldown[pk] = t.params.JumpCooldown
}

// IsOnJumpCooldown reports whether pk is still excluded from container-wide
// sampling.
func (t *Tracker) IsOnJumpCooldown(pk problem.PK) bool {
	return t.cooldown[pk] > 0
}

// Snapshot is a restorable copy of the tracker's full state.
type Snapshot struct {
	loss      map[PairKey]float64
	binLoss   map[problem.PK]float64
	weight    map[itemPairKey]float64
	binWeight map[problem.ItemID]float64
	cooldown  map[problem.PK]int
}

// CreateSnapshot copies the tracker's full state (spec.md §4.2).
func (t *Tracker) CreateSnapshot() Snapshot {
	return Snapshot{
		loss:      cloneFloatMap(t.loss),
		binLoss:   clonePKFloatMap(t.binLoss),
		weight:    cloneItemWeightMap(t.weight),
		binWeight: cloneItemFloatMap(t.binWeight),
		cooldown:  clonePKIntMap(t.cooldown),
	}
}

// Restore replaces loss, bin_loss, weight, bin_weight, and cooldowns with
// the snapshot's (spec.md §4.2: "restore").
func (t *Tracker) Restore(s Snapshot) {
	t.loss = cloneFloatMap(s.loss)
	t.binLoss = clonePKFloatMap(s.binLoss)
	t.weight = cloneItemWeightMap(s.weight)
	t.binWeight = cloneItemFloatMap(s.binWeight)
	t.cooldown = clonePKIntMap(s.cooldown)
}

// RestoreButKeepWeights replaces loss/bin_loss (i.e. rebuilds the
// tracker's view of the layout) and the jump cooldowns with the snapshot's,
// while leaving the current weight tables untouched (spec.md §4.2, §4.6 rollback: "restore tracker losses AND keep
// current weights"). Used when a GLS strike rolls the layout back but the
// learned penalties from that strike should still bias the next attempt.
func (t *Tracker) RestoreButKeepWeights(s Snapshot) {
	t.loss = cloneFloatMap(s.loss)
	t.binLoss = clonePKFloatMap(s.binLoss)
	t.cooldown = clonePKIntMap(s.cooldown)
}

func cloneFloatMap(m map[PairKey]float64) map[PairKey]float64 {
	out := make(map[PairKey]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePKFloatMap(m map[problem.PK]float64) map[problem.PK]float64 {
	out := make(map[problem.PK]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePKIntMap(m map[problem.PK]int) map[problem.PK]int {
	out := make(map[problem.PK]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneItemWeightMap(m map[itemPairKey]float64) map[itemPairKey]float64 {
	out := make(map[itemPairKey]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneItemFloatMap(m map[problem.ItemID]float64) map[problem.ItemID]float64 {
	out := make(map[problem.ItemID]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
