// Package utils contains small numeric helpers shared by the geometry packages.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Float64NearlyZero reports whether |v| is within epsilon of zero.
func Float64NearlyZero(v, epsilon float64) bool {
	return math.Abs(v) <= epsilon
}

// Clamp limits v to the closed range [lo, hi]. If lo > hi the result is unspecified.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Square returns n*n.
// Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// AngleSteps returns the signed offsets k*step for every integer k with |k*step| <= halfRange.
// A non-positive step yields only the zero offset.
func AngleSteps(halfRange, step float64) []float64 {
	if step <= 0 || halfRange <= 0 {
		return []float64{0}
	}
	n := int(math.Floor(halfRange/step + 1e-9))
	steps := make([]float64, 0, 2*n+1)
	for k := -n; k <= n; k++ {
		steps = append(steps, float64(k)*step)
	}
	return steps
}
