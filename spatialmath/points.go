package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// PointsFromBuffer reads count points out of a strided float buffer, taking the first three components
// of every stride-sized record. A nil buffer or a zero count returns nil. The buffer must hold at least
// (count-1)*stride+3 values; shorter buffers panic like any out of range slice access.
func PointsFromBuffer(points []float64, count, stride int) []r3.Vector {
	if points == nil || count <= 0 {
		return nil
	}
	if stride < 3 {
		stride = 3
	}
	out := make([]r3.Vector, count)
	for i := range out {
		p := points[i*stride : i*stride+3]
		out[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

// PointsToBuffer flattens points into a tightly packed buffer with stride 3.
func PointsToBuffer(points []r3.Vector) []float64 {
	buf := make([]float64, 0, 3*len(points))
	for _, p := range points {
		buf = append(buf, p.X, p.Y, p.Z)
	}
	return buf
}

// minMaxOf returns the componentwise minimum and maximum of a non-empty point set.
func minMaxOf(points []r3.Vector) (r3.Vector, r3.Vector) {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = minVector(lo, p)
		hi = maxVector(hi, p)
	}
	return lo, hi
}

func minVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func nearlyZeroVector(v r3.Vector) bool {
	return math.Abs(v.X) <= floatEpsilon && math.Abs(v.Y) <= floatEpsilon && math.Abs(v.Z) <= floatEpsilon
}

// TransformPoint applies the 4x4 transform m to p as a position (w = 1).
func TransformPoint(m mgl64.Mat4, p r3.Vector) r3.Vector {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// TransformDirection applies only the linear part of m to d.
func TransformDirection(m mgl64.Mat4, d r3.Vector) r3.Vector {
	v := m.Mat3().Mul3x1(mgl64.Vec3{d.X, d.Y, d.Z})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// R3VectorAlmostEqual compares two vectors componentwise within epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon && math.Abs(a.Z-b.Z) <= epsilon
}
