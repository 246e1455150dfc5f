package geo

import (
	"math"
	"math/rand"
)

// DTransformation is the decomposed form of a rigid transform: a translation
// (Tx, Ty) and a rotation Theta (radians), applied rotation-then-translation.
type DTransformation struct {
	Tx, Ty, Theta float64
}

// EmptyDTransformation is the identity transform.
func EmptyDTransformation() DTransformation { return DTransformation{} }

// Compose builds the equivalent Transformation.
func (d DTransformation) Compose() Transformation {
	return Transformation{Tx: d.Tx, Ty: d.Ty, Theta: d.Theta}
}

// Translate returns a copy translated by (dx, dy).
func (d DTransformation) Translate(dx, dy float64) DTransformation {
	return DTransformation{Tx: d.Tx + dx, Ty: d.Ty + dy, Theta: d.Theta}
}

// Transformation is a rotation followed by a translation, the form applied to
// polygon vertices.
type Transformation struct {
	Tx, Ty, Theta float64
}

// Decompose returns the DTransformation form.
func (t Transformation) Decompose() DTransformation {
	return DTransformation{Tx: t.Tx, Ty: t.Ty, Theta: t.Theta}
}

// Apply transforms a point: rotate around the origin, then translate.
func (t Transformation) Apply(p Point) Point {
	rotated := p.Rotate(t.Theta)
	return Point{rotated.X + t.Tx, rotated.Y + t.Ty}
}

// RotationRange describes which rotations an item may take.
type RotationRange struct {
	Continuous bool
	Discrete   []float64 // radians, used when Continuous is false
}

// Sample returns a rotation from the allowed range using rng.
func (r RotationRange) Sample(rng *rand.Rand) float64 {
	if r.Continuous {
		return rng.Float64() * 2 * math.Pi
	}
	if len(r.Discrete) == 0 {
		return 0
	}
	return r.Discrete[rng.Intn(len(r.Discrete))]
}
