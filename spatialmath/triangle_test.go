package spatialmath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBasicTriangleFunctions(t *testing.T) {
	expectedPts := [3]r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}}
	tri := NewTriangle(expectedPts[0], expectedPts[1], expectedPts[2])

	t.Run("constructor", func(t *testing.T) {
		test.That(t, tri.Points(), test.ShouldResemble, expectedPts)
		test.That(t, tri.Normal(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
	})

	t.Run("area", func(t *testing.T) {
		test.That(t, tri.Area(), test.ShouldEqual, 4.5)
	})

	t.Run("centroid", func(t *testing.T) {
		test.That(t, tri.Centroid(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
	})

	t.Run("transform", func(t *testing.T) {
		tri2 := tri.Transformed(mgl64.Translate3D(1, 1, 1))
		for i, p := range tri2.Points() {
			test.That(t, p, test.ShouldResemble, expectedPts[i].Add(r3.Vector{X: 1, Y: 1, Z: 1}))
		}
	})

	t.Run("degenerate normal", func(t *testing.T) {
		line := NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2})
		test.That(t, line.Normal(), test.ShouldResemble, r3.Vector{})
	})

	t.Run("plane", func(t *testing.T) {
		test.That(t, tri.IntersectsPlane(NewPlane(r3.Vector{X: 1}, r3.Vector{X: 1})), test.ShouldBeTrue)
		test.That(t, tri.IntersectsPlane(NewPlane(r3.Vector{Z: 1}, r3.Vector{Z: 1})), test.ShouldBeFalse)
		test.That(t, tri.IntersectsPlane(tri.Plane()), test.ShouldBeTrue)
	})
}

func TestClosestTrianglePoint(t *testing.T) {
	tri := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 3, Y: 0, Z: 0}, r3.Vector{X: 0, Y: 3, Z: 0})
	cases := []struct {
		name     string
		pt       r3.Vector
		expected r3.Vector
	}{
		{"above interior", r3.Vector{X: 1, Y: 1, Z: 5}, r3.Vector{X: 1, Y: 1, Z: 0}},
		{"past hypotenuse", r3.Vector{X: 3, Y: 3, Z: 0}, r3.Vector{X: 1.5, Y: 1.5, Z: 0}},
		{"past vertex", r3.Vector{X: -1, Y: -1, Z: 2}, r3.Vector{X: 0, Y: 0, Z: 0}},
		{"beside edge", r3.Vector{X: 1, Y: -2, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := tri.ClosestPointToPoint(c.pt)
			test.That(t, R3VectorAlmostEqual(got, c.expected, 1e-9), test.ShouldBeTrue)
		})
	}
}

func TestClosestPointSegmentPoint(t *testing.T) {
	start, end := r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 0, Z: 0}
	test.That(t, ClosestPointSegmentPoint(start, end, r3.Vector{X: 1, Y: 5, Z: 0}), test.ShouldResemble, r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, ClosestPointSegmentPoint(start, end, r3.Vector{X: -3, Y: 1, Z: 0}), test.ShouldResemble, start)
	test.That(t, ClosestPointSegmentPoint(start, end, r3.Vector{X: 9, Y: 1, Z: 0}), test.ShouldResemble, end)

	// degenerate segments collapse to their start
	test.That(t, ClosestPointSegmentPoint(end, end, r3.Vector{X: 1, Y: 1, Z: 1}), test.ShouldResemble, end)
}
