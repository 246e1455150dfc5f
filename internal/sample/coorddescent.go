package sample

import (
	"math/rand"

	"github.com/rbscholtus/glsstrip/internal/eval"
	"github.com/rbscholtus/glsstrip/internal/geo"
)

// Evaluator is the narrow interface coordinate descent and placement
// search need from a sample scorer (satisfied by *eval.SeparationEvaluator).
type Evaluator interface {
	Eval(dt geo.Transformation, bestSoFar *eval.SampleEval) eval.SampleEval
}

// CDConfig parameterizes one coordinate-descent refinement pass (spec.md
// §4.4): translation and rotation step sizes, each halved on a
// non-improving trial until below its limit.
type CDConfig struct {
	TStepInit, TStepLimit float64
	RStepInit, RStepLimit float64
	Wiggle                bool // true iff the item's rotation is continuous
}

// RefineCoordDescent walks start toward a local minimum of ev: every
// iteration it tries ±t along x, ±t along y, and (if Wiggle) ±r in
// rotation, accepting the first strictly improving trial per axis and
// halving the step when none of an axis's trials improve; x and y share
// one translation step, rotation has its own (spec.md §4.4). Terminates
// once every active step has fallen below its limit.
func RefineCoordDescent(start Result, ev Evaluator, cfg CDConfig, rng *rand.Rand) Result {
	current := start
	tStep := cfg.TStepInit
	rStep := cfg.RStepInit

	for tStep >= cfg.TStepLimit || (cfg.Wiggle && rStep >= cfg.RStepLimit) {
		if tStep >= cfg.TStepLimit {
			current, tStep = stepAxis(current, ev, tStep, axisX)
			current, tStep = stepAxis(current, ev, tStep, axisY)
		}
		if cfg.Wiggle && rStep >= cfg.RStepLimit {
			current, rStep = stepAxis(current, ev, rStep, axisTheta)
		}
	}
	_ = rng // reserved: deterministic descent today, kept for a future randomized tie-break
	return current
}

type axis int

const (
	axisX axis = iota
	axisY
	axisTheta
)

// stepAxis tries +step and -step along one axis, accepting the first
// strict improvement; if neither improves, the step is halved for next time.
func stepAxis(current Result, ev Evaluator, step float64, a axis) (Result, float64) {
	if better, ok := perturb(current, ev, step, a); ok {
		return better, step
	}
	if better, ok := perturb(current, ev, -step, a); ok {
		return better, step
	}
	return current, step / 2
}

func perturb(current Result, ev Evaluator, delta float64, a axis) (Result, bool) {
	dt := current.DT
	switch a {
	case axisX:
		dt.Tx += delta
	case axisY:
		dt.Ty += delta
	case axisTheta:
		dt.Theta += delta
	}
	e := ev.Eval(dt, &current.Eval)
	if e.Less(current.Eval) {
		return Result{DT: dt, Eval: e}, true
	}
	return current, false
}
