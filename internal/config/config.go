// Package config centralizes the tuning constants the GLS metaheuristic
// exposes as configuration (spec.md §9, Open Question 1), following the
// teacher's BLSParams/DefaultBLSParams(numFreeKeys) pattern.
package config

import "time"

// TrackerParams configures GLS weight growth/decay (spec.md §4.2) and the
// overlap proxy's smoothing behaviour (spec.md §4.1), since every loss
// computation the tracker makes flows through that smoothing.
type TrackerParams struct {
	MinIncrease  float64 // OT_MIN_INCREASE
	MaxIncrease  float64 // OT_MAX_INCREASE
	Decay        float64 // OT_DECAY, applied to non-overlapping pairs each increment
	JumpCooldown int     // iterations a jumped item is excluded from wide sampling

	// EpsilonDiamRatio scales the smoothing epsilon by max(diam(s1), diam(s2)).
	EpsilonDiamRatio float64
}

// SampleParams configures placement search (spec.md §4.4).
type SampleParams struct {
	NContainerSamples int
	NFocussedSamples  int
	NCoordDescents    int
	UniqueThreshRatio float64 // fraction of item min-dim defining "distinct" samples

	PreRefineTStepInitRatio  float64
	PreRefineTStepLimitRatio float64
	PreRefineRStepInit       float64
	PreRefineRStepLimit      float64

	FinalRefineTStepInitRatio  float64
	FinalRefineTStepLimitRatio float64
	FinalRefineRStepInit       float64
	FinalRefineRStepLimit      float64
}

// SeparatorParams configures the GLS strike loop (spec.md §4.6).
type SeparatorParams struct {
	NWorkers             int
	NStrikes             int
	NIterNoImprovement   int
	LargeItemAreaCutoff  float64 // fraction of the largest item's hull area
	ExcessiveStrikeRatio float64 // min_overlap > ratio * initial_strike_overlap => strike
}

// OrchestratorParams configures Explore/Compress (spec.md §4.7).
type OrchestratorParams struct {
	ExploreTimeRatio  float64
	RShrink           float64
	StddevSpread      float64
	CompressShrinkMin float64
	CompressShrinkMax float64
}

// ConstructParams configures the constructive initial placer: bottom-left-fill
// candidate resolution, plus the simulated-annealing refinement of item
// insertion order that runs on top of it (SUPPLEMENTED FEATURE, grounded on
// jagua-rs's ConstructiveBuilder and keycraft's Optimise/SplitLayout genome).
type ConstructParams struct {
	XStepRatio  float64 // horizontal candidate spacing, as a fraction of container height
	YStepRatio  float64 // vertical scan spacing, as a fraction of container height
	Generations uint
	AcceptWorse string // "always", "never", "drop-slow", "linear", "drop-fast"
}

// Params bundles every tuning knob used by one optimization run.
type Params struct {
	Tracker      TrackerParams
	Sample       SampleParams
	Separator    SeparatorParams
	Orchestrator OrchestratorParams
	Construct    ConstructParams
	MaxTime      time.Duration
	Seed         int64
}

// DefaultParams returns recommended parameters for an instance holding
// numItems items, scaling worker count to the host's parallelism.
func DefaultParams(numItems int, parallelism int) Params {
	if parallelism <= 0 {
		parallelism = 2
	}
	return Params{
		Tracker: TrackerParams{
			MinIncrease:      1.2,
			MaxIncrease:      2.0,
			Decay:            0.95,
			JumpCooldown:     5,
			EpsilonDiamRatio: 0.01,
		},
		Sample: SampleParams{
			NContainerSamples: 50,
			NFocussedSamples:  50,
			NCoordDescents:    2,
			UniqueThreshRatio: 0.01,

			PreRefineTStepInitRatio:  0.1,
			PreRefineTStepLimitRatio: 0.001,
			PreRefineRStepInit:       0.2,
			PreRefineRStepLimit:      0.002,

			FinalRefineTStepInitRatio:  0.02,
			FinalRefineTStepLimitRatio: 0.0001,
			FinalRefineRStepInit:       0.02,
			FinalRefineRStepLimit:      0.0002,
		},
		Separator: SeparatorParams{
			NWorkers:             min(parallelism, 4),
			NStrikes:             5,
			NIterNoImprovement:   50,
			LargeItemAreaCutoff:  0.5,
			ExcessiveStrikeRatio: 0.98,
		},
		Orchestrator: OrchestratorParams{
			ExploreTimeRatio:  0.85,
			RShrink:           0.005,
			StddevSpread:      4.0,
			CompressShrinkMin: 0.0005,
			CompressShrinkMax: 0.01,
		},
		Construct: ConstructParams{
			XStepRatio:  0.02,
			YStepRatio:  0.02,
			Generations: 30,
			AcceptWorse: "drop-slow",
		},
		MaxTime: 15 * time.Minute,
		Seed:    0,
	}
}
