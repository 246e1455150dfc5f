package sample

import (
	"math"
	"math/rand"

	"github.com/rbscholtus/glsstrip/internal/config"
	"github.com/rbscholtus/glsstrip/internal/eval"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// SampleConfig controls how much sampling SearchPlacement performs
// (spec.md §4.4).
type SampleConfig struct {
	NContainerSamples int
	NFocussedSamples  int
	NCoordDescents    int
	UniqueThreshRatio float64
}

// SampleConfigFromParams adapts config.SampleParams into the subset
// SearchPlacement needs.
func SampleConfigFromParams(p config.SampleParams) SampleConfig {
	return SampleConfig{
		NContainerSamples: p.NContainerSamples,
		NFocussedSamples:  p.NFocussedSamples,
		NCoordDescents:    p.NCoordDescents,
		UniqueThreshRatio: p.UniqueThreshRatio,
	}
}

// SearchPlacement implements Algorithm 6 (spec.md §4.4): seed from an
// optional reference placement, draw focussed and container-wide uniform
// samples, then refine the retained best samples with two coordinate-descent
// passes of increasing precision. Returns the best transform found and the
// number of evaluator calls spent. The transform may still collide; it is
// nil only when every retained sample evaluated as Invalid.
func SearchPlacement(layout *problem.Layout, item problem.Item, refPK *problem.PK, ev *eval.SeparationEvaluator, cfg SampleConfig, params config.SampleParams, rng *rand.Rand) (*Result, int) {
	bbox := item.BBox()
	minDim := math.Min(bbox.Width(), bbox.Height())
	containerRect := layout.Container.Rect()

	best := NewBestSamples(cfg.NCoordDescents, minDim*cfg.UniqueThreshRatio)

	var focussedSampler *UniformBBoxSampler
	if refPK != nil {
		pi, ok := layout.Placed[*refPK]
		if ok {
			dt := pi.Transform
			e := ev.Eval(dt, upperBoundPtr(best))
			best.Report(dt, e)

			if s, ok := NewUniformBBoxSampler(pi.BBox(), item.AllowedRotation, containerRect); ok {
				focussedSampler = s
			}
		}
	}
	containerSampler, hasContainer := NewUniformBBoxSampler(containerRect, item.AllowedRotation, containerRect)

	if focussedSampler != nil {
		for i := 0; i < cfg.NFocussedSamples; i++ {
			dt := focussedSampler.Sample(rng)
			e := ev.Eval(dt, upperBoundPtr(best))
			best.Report(dt, e)
		}
	}
	if hasContainer {
		for i := 0; i < cfg.NContainerSamples; i++ {
			dt := containerSampler.Sample(rng)
			e := ev.Eval(dt, upperBoundPtr(best))
			best.Report(dt, e)
		}
	}

	preCfg := preRefineConfig(minDim, item.AllowedRotation.Continuous, params)
	for _, start := range best.Snapshot() {
		descended := RefineCoordDescent(start, ev, preCfg, rng)
		best.Report(descended.DT, descended.Eval)
	}

	if best.Best().Eval.Kind == eval.KindInvalid {
		return nil, ev.NEvals()
	}

	finalCfg := finalRefineConfig(minDim, item.AllowedRotation.Continuous, params)
	final := RefineCoordDescent(best.Best(), ev, finalCfg, rng)
	return &final, ev.NEvals()
}

func upperBoundPtr(b *BestSamples) *eval.SampleEval {
	e := b.UpperBound()
	return &e
}

func preRefineConfig(minDim float64, wiggle bool, p config.SampleParams) CDConfig {
	return CDConfig{
		TStepInit:  minDim * p.PreRefineTStepInitRatio,
		TStepLimit: minDim * p.PreRefineTStepLimitRatio,
		RStepInit:  p.PreRefineRStepInit,
		RStepLimit: p.PreRefineRStepLimit,
		Wiggle:     wiggle,
	}
}

func finalRefineConfig(minDim float64, wiggle bool, p config.SampleParams) CDConfig {
	return CDConfig{
		TStepInit:  minDim * p.FinalRefineTStepInitRatio,
		TStepLimit: minDim * p.FinalRefineTStepLimitRatio,
		RStepInit:  p.FinalRefineRStepInit,
		RStepLimit: p.FinalRefineRStepLimit,
		Wiggle:     wiggle,
	}
}
