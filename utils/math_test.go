package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90.)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1+1e-9, 1e-8), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-8), test.ShouldBeFalse)
	test.That(t, Float64NearlyZero(-1e-7, 1e-6), test.ShouldBeTrue)
	test.That(t, Float64NearlyZero(1e-3, 1e-6), test.ShouldBeFalse)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(-3, -1, 1), test.ShouldEqual, -1.)
	test.That(t, Clamp(3, -1, 1), test.ShouldEqual, 1.)
	test.That(t, Clamp(0.25, -1, 1), test.ShouldEqual, 0.25)
}

func TestAngleSteps(t *testing.T) {
	test.That(t, AngleSteps(45, 15), test.ShouldResemble, []float64{-45, -30, -15, 0, 15, 30, 45})
	test.That(t, AngleSteps(3, 0.5), test.ShouldHaveLength, 13)
	test.That(t, AngleSteps(10, 0), test.ShouldResemble, []float64{0})
	test.That(t, AngleSteps(0, 3), test.ShouldResemble, []float64{0})
	// a step that does not divide the range stops short of it
	test.That(t, AngleSteps(10, 4), test.ShouldResemble, []float64{-8, -4, 0, 4, 8})
}
