// Package spatialmath provides bounding volumes (AABB, OBB, bounding sphere), view frustums and the
// intersection, containment and distance queries between them.
//
// All volumes are plain values. The zero value of each volume type is its empty state, and every
// mutator recomputes the derived state (centers, face planes) before returning. Nothing in this
// package blocks, allocates goroutines or returns errors; degenerate input has a defined fallback
// documented on each operation.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	// floatEpsilon is the general tolerance for degenerate vectors.
	floatEpsilon = 1e-8

	// satAxisEpsilon is the minimum cross product length for a SAT edge axis to be tested.
	satAxisEpsilon = 1e-6

	// rayAxisEpsilon is the smallest ray direction component an AABB slab divides by.
	rayAxisEpsilon = 1e-8

	// obbRayAxisEpsilon is the smallest ray direction projection an OBB slab divides by.
	obbRayAxisEpsilon = 1e-6

	// planeEpsilon is the thickness used when classifying a point against a plane.
	planeEpsilon = 1e-4
)

// Plane is a half-space boundary. Normal has unit length and Distance(p) = Normal·p - Offset, so points
// with positive distance lie in front of the plane (on the side the normal points to).
type Plane struct {
	Normal r3.Vector
	Offset float64
}

// NewPlane returns the plane through point with the given normal. The normal is normalized; a zero
// normal produces a plane whose Distance is always -Offset, which callers must avoid.
func NewPlane(point, normal r3.Vector) Plane {
	n := normal
	if l := n.Norm(); l > 0 {
		n = n.Mul(1 / l)
	}
	return Plane{Normal: n, Offset: n.Dot(point)}
}

// NewPlaneFromCoefficients returns the plane a*x + b*y + c*z + d = 0, normalized by the length of (a, b, c).
// If that length is zero the coefficients are kept unscaled.
func NewPlaneFromCoefficients(a, b, c, d float64) Plane {
	n := r3.Vector{X: a, Y: b, Z: c}
	l := n.Norm()
	if l == 0 {
		return Plane{Normal: n, Offset: -d}
	}
	return Plane{Normal: n.Mul(1 / l), Offset: -d / l}
}

// Distance returns the signed distance from the plane to p.
func (p Plane) Distance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) - p.Offset
}

// ClosestPoint returns the projection of pt onto the plane.
func (p Plane) ClosestPoint(pt r3.Vector) r3.Vector {
	return pt.Sub(p.Normal.Mul(p.Distance(pt)))
}

// Classify returns +1 if pt is in front of the plane, -1 if behind and 0 if it lies on the plane.
func (p Plane) Classify(pt r3.Vector) int {
	d := p.Distance(pt)
	switch {
	case d > planeEpsilon:
		return 1
	case d < -planeEpsilon:
		return -1
	default:
		return 0
	}
}

// Flipped returns the same plane facing the opposite direction.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Offset: -p.Offset}
}

// classifyExtent compares the signed distance d of a volume center against its radius r along the
// plane normal: +1 fully in front, -1 fully behind, 0 straddling.
func classifyExtent(d, r float64) int {
	switch {
	case d > r:
		return 1
	case d < -r:
		return -1
	default:
		return 0
	}
}

// projectedRadius returns the extent of a box with the given axes and half sizes along normal.
func projectedRadius(normal r3.Vector, axes [3]r3.Vector, halfSize r3.Vector) float64 {
	return halfSize.X*math.Abs(normal.Dot(axes[0])) +
		halfSize.Y*math.Abs(normal.Dot(axes[1])) +
		halfSize.Z*math.Abs(normal.Dot(axes[2]))
}
