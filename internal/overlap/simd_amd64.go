//go:build amd64 && !noasm

package overlap

import (
	"math"

	"github.com/rbscholtus/glsstrip/internal/geo"
	"golang.org/x/sys/cpu"
)

func init() {
	// Go has no portable SIMD intrinsic type, so the 4-wide float32 lane
	// loop is expressed as a manually 4-at-a-time unrolled loop over the
	// struct-of-arrays pole buffer, selected at startup the same way
	// fastpfor-go dispatches its assembly kernels behind a cpu-feature
	// check (Akron-fastpfor-go/simdpack.go: initSIMDSelection).
	if cpu.X86.HasSSE2 {
		poleOverlapProxy = poleOverlapProxyLanes4
	}
}

// poleOverlapProxyLanes4 processes poles2 in complete chunks of
// simdPoleLanes, with scalar fall-through for the 0-3 remaining poles, per
// spec.md §4.1. The chunked lanes compute in float32 while
// poleOverlapProxyScalar computes in float64, so the two differ by rounding
// as well as by summation order; see the TestSIMDScalarEquivalence property
// test for the tolerance they are held to.
func poleOverlapProxyLanes4(poles1 []geo.Pole, epsilon float64, soa2 geo.PoleSOA) float64 {
	var total float64
	n := soa2.Len()
	chunks := n / simdPoleLanes

	for _, p1 := range poles1 {
		x1, y1, r1 := float32(p1.Center.X), float32(p1.Center.Y), float32(p1.Radius)
		eps := float32(epsilon)
		twoEps := float32(2 * epsilon)
		epsSq := eps * eps

		for c := 0; c < chunks; c++ {
			idx := c * simdPoleLanes
			var lane [simdPoleLanes]float32
			for k := 0; k < simdPoleLanes; k++ {
				x2 := soa2.X[idx+k]
				y2 := soa2.Y[idx+k]
				r2 := soa2.R[idx+k]

				dx := x1 - x2
				dy := y1 - y2
				dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
				pd := r1 + r2 - dist

				var pdDecay float32
				if pd >= eps {
					pdDecay = pd
				} else {
					pdDecay = epsSq / (twoEps - pd)
				}

				minR := r1
				if r2 < minR {
					minR = r2
				}
				lane[k] = pdDecay * minR
			}
			total += float64(lane[0] + lane[1] + lane[2] + lane[3])
		}

		for j := chunks * simdPoleLanes; j < n; j++ {
			x2, y2, r2 := float64(soa2.X[j]), float64(soa2.Y[j]), float64(soa2.R[j])
			dx, dy := p1.Center.X-x2, p1.Center.Y-y2
			pd := p1.Radius + r2 - math.Sqrt(dx*dx+dy*dy)
			minR := p1.Radius
			if r2 < minR {
				minR = r2
			}
			total += decay(pd, epsilon) * minR
		}
	}
	return total
}
