package overlap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/stretchr/testify/assert"
)

func randSurrogate(rng *rand.Rand, n int) geo.Surrogate {
	poles := make([]geo.Pole, n)
	for i := range poles {
		poles[i] = geo.Pole{
			Center: geo.Point{X: rng.Float64() * 20, Y: rng.Float64() * 20},
			Radius: 0.5 + rng.Float64()*3,
		}
	}
	return geo.Surrogate{Poles: poles, ConvexHullArea: 50 + rng.Float64()*50}
}

func TestSIMDScalarEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		s1 := randSurrogate(rng, 1+rng.Intn(9))
		s2 := randSurrogate(rng, 1+rng.Intn(9))
		soa2 := geo.NewPoleSOA(s2.Poles)

		scalar := poleOverlapProxyScalar(s1.Poles, 0.1, soa2)
		lanes := poleOverlapProxyLanes4(s1.Poles, 0.1, soa2)

		if scalar == 0 && lanes == 0 {
			continue
		}
		rel := math.Abs(scalar-lanes) / math.Max(math.Abs(scalar), 1e-9)
		assert.LessOrEqualf(t, rel, 1e-3, "trial %d: scalar=%v lanes=%v", trial, scalar, lanes)
	}
}

func TestDecaySmoothAndPositive(t *testing.T) {
	eps := 1.0
	for _, pd := range []float64{5, 1, 0.5, 0, -1, -10, -1000} {
		v := decay(pd, eps)
		assert.Greaterf(t, v, 0.0, "decay(%v)", pd)
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "decay(%v) = %v, want finite", pd, v)
	}
}

func TestPolyPolyNonNegativeFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		s1 := randSurrogate(rng, 1+rng.Intn(5))
		s2 := randSurrogate(rng, 1+rng.Intn(5))
		bbox1 := geo.NewAARectangle(0, 0, 10, 10)
		bbox2 := geo.NewAARectangle(0, 0, 10, 10)
		soa2 := geo.NewPoleSOA(s2.Poles)

		v := PolyPoly(s1, s2, bbox1, bbox2, 0.01, soa2)
		assert.GreaterOrEqualf(t, v, 0.0, "trial %d", trial)
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "trial %d: PolyPoly = %v", trial, v)
	}
}

func TestPolyContainerOnlyWhenCrossingBoundary(t *testing.T) {
	s := geo.Surrogate{
		Poles:          []geo.Pole{{Center: geo.Point{X: 5, Y: 5}, Radius: 1}},
		ConvexHullArea: 10,
	}
	container := geo.NewAARectangle(0, 0, 100, 100)

	inside := geo.NewAARectangle(2, 2, 8, 8)
	assert.Zero(t, PolyContainer(s, inside, container, 0.01), "expected 0 for fully-inside bbox")

	crossing := geo.NewAARectangle(-1, 2, 8, 8)
	assert.Greater(t, PolyContainer(s, crossing, container, 0.01), 0.0, "expected positive proxy for boundary-crossing bbox")
}
