package spatialmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// countingCascade wraps every stage of the cascade so the test can see which ones ran and in what order.
func countingCascade() ([]intersectionStage, *[]string) {
	var calls []string
	stages := make([]intersectionStage, 0, len(intersectionCascade))
	for _, s := range intersectionCascade {
		s := s
		stages = append(stages, intersectionStage{
			name: s.name,
			test: func(a, b *BoundingVolumes) bool {
				calls = append(calls, s.name)
				return s.test(a, b)
			},
		})
	}
	return stages, &calls
}

func segmentVolumes(a, b r3.Vector) BoundingVolumes {
	return NewBoundingVolumesFromPoints([]r3.Vector{a, b})
}

func TestBoundingVolumesCascadeOrder(t *testing.T) {
	cube := func(center r3.Vector) BoundingVolumes {
		return NewBoundingVolumesFromAABB(NewAABB(center.Sub(r3.Vector{X: 1, Y: 1, Z: 1}), center.Add(r3.Vector{X: 1, Y: 1, Z: 1})))
	}
	cases := []struct {
		name     string
		a, b     BoundingVolumes
		expected bool
		calls    []string
	}{
		{
			"spheres apart",
			cube(r3.Vector{}),
			cube(r3.Vector{X: 10, Y: 0, Z: 0}),
			false,
			[]string{"sphere"},
		},
		{
			"spheres overlap, boxes apart",
			cube(r3.Vector{}),
			cube(r3.Vector{X: 2.5, Y: 0, Z: 0}),
			false,
			[]string{"sphere", "aabb"},
		},
		{
			"parallel diagonal segments",
			segmentVolumes(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 4, Y: 4, Z: 0}),
			segmentVolumes(r3.Vector{X: 1, Y: -1, Z: 0}, r3.Vector{X: 5, Y: 3, Z: 0}),
			false,
			[]string{"sphere", "aabb", "obb"},
		},
		{
			"overlapping",
			cube(r3.Vector{}),
			cube(r3.Vector{X: 1, Y: 1, Z: 0}),
			true,
			[]string{"sphere", "aabb", "obb"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stages, calls := countingCascade()
			ok, _ := runCascade(&c.a, &c.b, stages)
			test.That(t, ok, test.ShouldEqual, c.expected)
			test.That(t, *calls, test.ShouldResemble, c.calls)
			test.That(t, c.a.Intersects(c.b), test.ShouldEqual, c.expected)
		})
	}

	t.Run("rejecting stage is reported", func(t *testing.T) {
		ok, stage := cube(r3.Vector{}).IntersectsStage(cube(r3.Vector{X: 2.5, Y: 0, Z: 0}))
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, stage, test.ShouldEqual, "aabb")

		ok, stage = cube(r3.Vector{}).IntersectsStage(cube(r3.Vector{}))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, stage, test.ShouldEqual, "")
	})
}

func TestBoundingVolumesEmpty(t *testing.T) {
	full := NewBoundingVolumesFromAABB(NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1}))
	cleared := full
	cleared.Clear()

	for name, bv := range map[string]BoundingVolumes{"zero": {}, "cleared": cleared} {
		t.Run(name, func(t *testing.T) {
			test.That(t, bv.IsEmpty(), test.ShouldBeTrue)

			stages, calls := countingCascade()
			ok, stage := runCascade(&bv, &full, stages)
			test.That(t, ok, test.ShouldBeFalse)
			test.That(t, stage, test.ShouldEqual, "empty")
			test.That(t, *calls, test.ShouldBeEmpty)

			test.That(t, bv.Intersects(full), test.ShouldBeFalse)
			test.That(t, full.Intersects(bv), test.ShouldBeFalse)
			test.That(t, bv.Intersects(bv), test.ShouldBeFalse)
			test.That(t, bv.IntersectsFast(full), test.ShouldBeFalse)
			test.That(t, bv.IntersectsAABB(full), test.ShouldBeFalse)
			test.That(t, bv.IntersectsOBB(full), test.ShouldBeFalse)
			test.That(t, bv.Contains(full), test.ShouldBeFalse)
			test.That(t, full.Contains(bv), test.ShouldBeFalse)
			test.That(t, bv.ContainsPoint(r3.Vector{}), test.ShouldBeFalse)
			test.That(t, bv.IntersectsPlane(NewPlane(r3.Vector{}, r3.Vector{Z: 1})), test.ShouldBeFalse)
			// a plane well away from the origin must not see a phantom box there
			below := NewPlane(r3.Vector{Z: -5}, r3.Vector{Z: 1})
			test.That(t, bv.ClassifyPlane(below), test.ShouldEqual, 0)
			test.That(t, bv.AABB().ClassifyPlane(below), test.ShouldEqual, 0)
			test.That(t, bv.OBB().ClassifyPlane(below), test.ShouldEqual, 0)
			test.That(t, bv.Sphere().ClassifyPlane(below), test.ShouldEqual, 0)
			test.That(t, bv.IntersectsPlane(below), test.ShouldBeFalse)
			test.That(t, bv.IntersectsRayFast(NewRay(r3.Vector{}, r3.Vector{X: 1})), test.ShouldBeFalse)
			_, ok = bv.IntersectsRay(NewRay(r3.Vector{}, r3.Vector{X: 1}))
			test.That(t, ok, test.ShouldBeFalse)
		})
	}

	var bv BoundingVolumes
	test.That(t, bv.SetFromPoints(nil, 0, 3), test.ShouldBeFalse)
	test.That(t, bv.IsEmpty(), test.ShouldBeTrue)
	bv.SetFromAABB(AABB{})
	test.That(t, bv.IsEmpty(), test.ShouldBeTrue)
}

func TestBoundingVolumesContains(t *testing.T) {
	// a long box lying along the XY diagonal
	outerCorners := rotatedBoxCorners(r3.Vector{X: 3, Y: 0.5, Z: 0.5}, mgl64.HomogRotate3DZ(math.Pi/4))
	outer := NewBoundingVolumesFromPoints(outerCorners)

	// inside the outer AABB and sphere but away from the diagonal, so outside the outer OBB
	offDiagonal := NewBoundingVolumesFromAABB(NewAABB(r3.Vector{X: 1.4, Y: -1.6, Z: -0.1}, r3.Vector{X: 1.6, Y: -1.4, Z: 0.1}))
	test.That(t, outer.Contains(offDiagonal), test.ShouldBeTrue)
	test.That(t, outer.ContainsExact(offDiagonal), test.ShouldBeFalse)

	// on the diagonal both interpretations agree
	onDiagonal := NewBoundingVolumesFromAABB(NewAABB(r3.Vector{X: 0.9, Y: 0.9, Z: -0.1}, r3.Vector{X: 1.1, Y: 1.1, Z: 0.1}))
	test.That(t, outer.Contains(onDiagonal), test.ShouldBeTrue)
	test.That(t, outer.ContainsExact(onDiagonal), test.ShouldBeTrue)

	test.That(t, outer.Contains(outer), test.ShouldBeTrue)
	test.That(t, outer.ContainsExact(outer), test.ShouldBeTrue)
	test.That(t, onDiagonal.Contains(outer), test.ShouldBeFalse)
}

func TestBoundingVolumesFromPoints(t *testing.T) {
	corners := rotatedBoxCorners(r3.Vector{X: 1, Y: 2, Z: 3}, mgl64.HomogRotate3DZ(mgl64.DegToRad(30)))
	buf := PointsToBuffer(corners)

	var bv BoundingVolumes
	test.That(t, bv.SetFromPoints(buf, len(corners), 3), test.ShouldBeTrue)
	test.That(t, bv.IsEmpty(), test.ShouldBeFalse)
	test.That(t, bv.OBB().Volume(), test.ShouldAlmostEqual, 48., 1e-6)
	test.That(t, bv.OBB().Volume(), test.ShouldBeLessThanOrEqualTo, bv.AABB().Volume())
	test.That(t, bv.MaxRadius(), test.ShouldAlmostEqual, math.Sqrt(14))
	test.That(t, R3VectorAlmostEqual(bv.Center(), r3.Vector{}, 1e-9), test.ShouldBeTrue)

	for _, c := range corners {
		test.That(t, bv.AABB().ContainsPoint(c), test.ShouldBeTrue)
		test.That(t, bv.OBB().DistanceToPoint(c), test.ShouldBeLessThan, 1e-6)
		test.That(t, bv.Sphere().DistanceToPoint(c), test.ShouldBeLessThan, 1e-9)
	}
}

func TestBoundingVolumesConversions(t *testing.T) {
	unit := NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})

	t.Run("obb to aabb", func(t *testing.T) {
		o := makeOBB(r3.Vector{X: 1, Y: 0, Z: 0}, mgl64.HomogRotate3DZ(math.Pi/4), r3.Vector{X: 1, Y: 1, Z: 1})
		b := AABBFromOBB(o)
		test.That(t, R3VectorAlmostEqual(b.Max(), r3.Vector{X: 1 + math.Sqrt2, Y: math.Sqrt2, Z: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, AABBFromOBB(OBB{}).IsEmpty(), test.ShouldBeTrue)
	})

	t.Run("aabb to obb", func(t *testing.T) {
		o := OBBFromAABB(NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 4, Z: 6}))
		test.That(t, o.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, o.HalfSize(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, o.Axes(), test.ShouldResemble, worldAxes)
	})

	t.Run("aabb under a transform", func(t *testing.T) {
		m := mgl64.Translate3D(5, 0, 0).Mul4(mgl64.HomogRotate3DZ(math.Pi / 4)).Mul4(mgl64.Scale3D(2, 1, 1))
		o := OBBFromAABBTransform(unit, m)
		test.That(t, R3VectorAlmostEqual(o.Center(), r3.Vector{X: 5, Y: 0, Z: 0}, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(o.HalfSize(), r3.Vector{X: 2, Y: 1, Z: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(o.Axis(0), r3.Vector{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2, Z: 0}, 1e-9), test.ShouldBeTrue)

		var bv BoundingVolumes
		bv.SetFromAABBTransform(unit, m)
		e := 1.5 * math.Sqrt2
		test.That(t, R3VectorAlmostEqual(bv.AABB().Max(), r3.Vector{X: 5 + e, Y: e, Z: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, bv.MaxRadius(), test.ShouldAlmostEqual, math.Sqrt(6))
		test.That(t, bv.AABB().Contains(AABBFromOBB(bv.OBB())), test.ShouldBeTrue)
	})

	t.Run("sphere from aabb", func(t *testing.T) {
		s := SphereFromAABB(NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 2, Z: 2}))
		test.That(t, s.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, s.Radius(), test.ShouldAlmostEqual, math.Sqrt(3))
	})
}

func TestBoundingVolumesQueries(t *testing.T) {
	bv := NewBoundingVolumesFromAABB(NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1}))

	d, ok := bv.IntersectsRay(NewRay(r3.Vector{X: -5, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d, test.ShouldAlmostEqual, 4.)

	// hits the sphere but passes beside the box
	_, ok = bv.IntersectsRay(NewRay(r3.Vector{X: -5, Y: 1.5, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}))
	test.That(t, bv.IntersectsRayFast(NewRay(r3.Vector{X: -5, Y: 1.5, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0})), test.ShouldBeTrue)
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, bv.ContainsPoint(r3.Vector{X: 1.2, Y: 1.2, Z: 0}), test.ShouldBeTrue)
	test.That(t, bv.DistanceToPoint(r3.Vector{X: 4, Y: 0, Z: 0}), test.ShouldEqual, 3.)
	test.That(t, R3VectorAlmostEqual(bv.ClosestPoint(r3.Vector{X: 4, Y: 0, Z: 0}), r3.Vector{X: math.Sqrt(3), Y: 0, Z: 0}, 1e-9), test.ShouldBeTrue)

	test.That(t, bv.ClassifyPlane(NewPlane(r3.Vector{Z: -5}, r3.Vector{Z: 1})), test.ShouldEqual, 1)
	test.That(t, bv.IntersectsPlane(NewPlane(r3.Vector{Z: 1.5}, r3.Vector{Z: 1})), test.ShouldBeTrue)
	test.That(t, bv.IntersectsPlane(NewPlane(r3.Vector{Z: 2}, r3.Vector{Z: 1})), test.ShouldBeFalse)

	t.Run("merge", func(t *testing.T) {
		merged := bv
		merged.Merge(NewBoundingVolumesFromAABB(NewAABB(r3.Vector{X: 4, Y: 4, Z: 4}, r3.Vector{X: 5, Y: 5, Z: 5})))
		test.That(t, merged.AABB().Max(), test.ShouldResemble, r3.Vector{X: 5, Y: 5, Z: 5})
		test.That(t, merged.Contains(bv), test.ShouldBeTrue)
		test.That(t, merged.OBB().ContainsPoint(r3.Vector{X: 5, Y: 5, Z: 5}), test.ShouldBeTrue)
	})

	t.Run("expand", func(t *testing.T) {
		grown := bv
		grown.ExpandToInclude(r3.Vector{X: 0, Y: 0, Z: 7})
		test.That(t, grown.AABB().ContainsPoint(r3.Vector{X: 0, Y: 0, Z: 7}), test.ShouldBeTrue)
		test.That(t, grown.OBB().ContainsPoint(r3.Vector{X: 0, Y: 0, Z: 7}), test.ShouldBeTrue)
		test.That(t, grown.Sphere().ContainsPoint(r3.Vector{X: 0, Y: 0, Z: 7}), test.ShouldBeTrue)
	})

	t.Run("transformed", func(t *testing.T) {
		moved := bv.Transformed(mgl64.Translate3D(10, 0, 0))
		test.That(t, moved.Center(), test.ShouldResemble, r3.Vector{X: 10, Y: 0, Z: 0})
		test.That(t, moved.OBB().Center(), test.ShouldResemble, r3.Vector{X: 10, Y: 0, Z: 0})
		test.That(t, moved.Sphere().Center(), test.ShouldResemble, r3.Vector{X: 10, Y: 0, Z: 0})
		test.That(t, moved.Intersects(bv), test.ShouldBeFalse)
		test.That(t, BoundingVolumes{}.Transformed(mgl64.Ident4()).IsEmpty(), test.ShouldBeTrue)
	})
}
