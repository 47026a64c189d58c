package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// separatingAxisGap projects both boxes onto axis and returns the gap between the two projections.
// A positive gap means axis separates the boxes.
func separatingAxisGap(centerDist, axis r3.Vector, a, b *OBB) float64 {
	return math.Abs(centerDist.Dot(axis)) -
		projectedRadius(axis, a.axes, a.halfSize) -
		projectedRadius(axis, b.axes, b.halfSize)
}

// satSeparated runs the 15 axis separating axis test: the face axes of both boxes and the 9 pairwise
// edge cross products. Cross products shorter than satAxisEpsilon come from near parallel edges and are
// already covered by a face axis, so they are skipped.
func satSeparated(a, b *OBB) bool {
	centerDist := b.center.Sub(a.center)
	for i := 0; i < 3; i++ {
		if separatingAxisGap(centerDist, a.axes[i], a, b) > floatEpsilon {
			return true
		}
		if separatingAxisGap(centerDist, b.axes[i], a, b) > floatEpsilon {
			return true
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := a.axes[i].Cross(b.axes[j])
			l := axis.Norm()
			if l < satAxisEpsilon {
				continue
			}
			if separatingAxisGap(centerDist, axis.Mul(1/l), a, b) > floatEpsilon {
				return true
			}
		}
	}
	return false
}

// satMaxGap returns the largest projection gap across all 15 SAT axes using Ericson's relative rotation
// formulation ("Real-Time Collision Detection" 4.4.1). Positive values are a lower bound on the
// Euclidean separation; negative values are a penetration depth.
func satMaxGap(a, b *OBB) float64 {
	const eps = 1e-10

	centerDist := b.center.Sub(a.center)
	hA := [3]float64{a.halfSize.X, a.halfSize.Y, a.halfSize.Z}
	hB := [3]float64{b.halfSize.X, b.halfSize.Y, b.halfSize.Z}

	// t is the center offset in A's frame, r the rotation of B relative to A.
	var t [3]float64
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		t[i] = a.axes[i].Dot(centerDist)
		for j := 0; j < 3; j++ {
			r[i][j] = a.axes[i].Dot(b.axes[j])
			absR[i][j] = math.Abs(r[i][j]) + eps
		}
	}

	best := math.Inf(-1)
	keep := func(g float64) {
		if g > best {
			best = g
		}
	}

	// face axes of A
	for i := 0; i < 3; i++ {
		keep(math.Abs(t[i]) - hA[i] - (hB[0]*absR[i][0] + hB[1]*absR[i][1] + hB[2]*absR[i][2]))
	}
	// face axes of B
	for j := 0; j < 3; j++ {
		tb := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		keep(math.Abs(tb) - hB[j] - (hA[0]*absR[0][j] + hA[1]*absR[1][j] + hA[2]*absR[2][j]))
	}
	// edge axes a_i x b_j, normalized by sqrt(1 - r_ij^2)
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			l2 := 1 - r[i][j]*r[i][j]
			if l2 <= eps {
				continue
			}
			j1, j2 := (j+1)%3, (j+2)%3
			raw := math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) -
				(hA[i1]*absR[i2][j] + hA[i2]*absR[i1][j]) -
				(hB[j1]*absR[i][j2] + hB[j2]*absR[i][j1])
			keep(raw / math.Sqrt(l2))
		}
	}
	return best
}
