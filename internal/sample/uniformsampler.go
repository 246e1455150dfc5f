package sample

import (
	"math/rand"

	"github.com/rbscholtus/glsstrip/internal/geo"
)

// UniformBBoxSampler draws uniformly random translations within a bounding
// box (clipped to the container), paired with a rotation drawn from the
// item's allowed range (spec.md §4.4).
type UniformBBoxSampler struct {
	bbox     geo.AARectangle
	rotation geo.RotationRange
}

// NewUniformBBoxSampler builds a sampler over bbox clipped to container. ok
// is false if bbox and container do not overlap at all (nothing to sample).
func NewUniformBBoxSampler(bbox geo.AARectangle, rotation geo.RotationRange, container geo.AARectangle) (*UniformBBoxSampler, bool) {
	clipped, ok := bbox.Clip(container)
	if !ok {
		return nil, false
	}
	return &UniformBBoxSampler{bbox: clipped, rotation: rotation}, true
}

// Sample draws a random transform: position uniform within the sampler's
// bbox, rotation from the item's allowed range (spec.md §4.4).
func (s *UniformBBoxSampler) Sample(rng *rand.Rand) geo.Transformation {
	tx := s.bbox.XMin + rng.Float64()*s.bbox.Width()
	ty := s.bbox.YMin + rng.Float64()*s.bbox.Height()
	theta := s.rotation.Sample(rng)
	return geo.Transformation{Tx: tx, Ty: ty, Theta: theta}
}
