package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// AABBFromOBB returns the smallest axis aligned box enclosing o.
func AABBFromOBB(o OBB) AABB {
	if o.IsEmpty() {
		return AABB{}
	}
	abs := func(v r3.Vector) r3.Vector { return r3.Vector{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)} }
	e := abs(o.axes[0]).Mul(o.halfSize.X).
		Add(abs(o.axes[1]).Mul(o.halfSize.Y)).
		Add(abs(o.axes[2]).Mul(o.halfSize.Z))
	return NewAABB(o.center.Sub(e), o.center.Add(e))
}

// OBBFromAABB returns the OBB with world axes covering the same region as b.
func OBBFromAABB(b AABB) OBB {
	if b.IsEmpty() {
		return OBB{}
	}
	return NewOBB(b.center, b.HalfExtents())
}

// OBBFromAABBTransform returns b moved by m as an OBB. The columns of the linear part of m give the axes
// and their lengths scale the half sizes; a zero length column falls back to the world axis.
func OBBFromAABBTransform(b AABB, m mgl64.Mat4) OBB {
	if b.IsEmpty() {
		return OBB{}
	}
	var axes [3]r3.Vector
	var scale [3]float64
	for i := range axes {
		col := m.Col(i)
		v := r3.Vector{X: col[0], Y: col[1], Z: col[2]}
		scale[i] = v.Norm()
		if scale[i] > 0 {
			axes[i] = v.Mul(1 / scale[i])
		} else {
			axes[i] = worldAxes[i]
		}
	}
	h := b.HalfExtents()
	half := r3.Vector{X: h.X * scale[0], Y: h.Y * scale[1], Z: h.Z * scale[2]}
	return NewOBBWithAxes(TransformPoint(m, b.center), axes[0], axes[1], axes[2], half)
}

// SphereFromAABB returns the sphere through the corners of b.
func SphereFromAABB(b AABB) BoundingSphere {
	if b.IsEmpty() {
		return BoundingSphere{}
	}
	return NewBoundingSphere(b.center, b.maxPt.Sub(b.center).Norm())
}

// sphereFromOBB returns the sphere through the corners of o.
func sphereFromOBB(o OBB) BoundingSphere {
	if o.IsEmpty() {
		return BoundingSphere{}
	}
	return NewBoundingSphere(o.center, o.halfSize.Norm())
}

// BoundingVolumes holds an AABB, an OBB and a sphere describing the same object in the same frame. Every
// setter rebuilds all three together. The zero value is empty.
type BoundingVolumes struct {
	aabb   AABB
	obb    OBB
	sphere BoundingSphere
}

// NewBoundingVolumesFromAABB returns volumes derived from an axis aligned box.
func NewBoundingVolumesFromAABB(b AABB) BoundingVolumes {
	var bv BoundingVolumes
	bv.SetFromAABB(b)
	return bv
}

// NewBoundingVolumesFromPoints fits all three volumes to points with DefaultFitSchedule.
func NewBoundingVolumesFromPoints(points []r3.Vector) BoundingVolumes {
	var bv BoundingVolumes
	bv.SetFromVectors(points, DefaultFitSchedule)
	return bv
}

// Clear resets all three volumes to empty.
func (bv *BoundingVolumes) Clear() {
	*bv = BoundingVolumes{}
}

// IsEmpty reports whether no volume has been set.
func (bv BoundingVolumes) IsEmpty() bool {
	return bv.aabb.IsEmpty() && bv.obb.IsEmpty() && bv.sphere.IsEmpty()
}

// AABB returns the axis aligned box.
func (bv BoundingVolumes) AABB() AABB { return bv.aabb }

// OBB returns the oriented box.
func (bv BoundingVolumes) OBB() OBB { return bv.obb }

// Sphere returns the bounding sphere.
func (bv BoundingVolumes) Sphere() BoundingSphere { return bv.sphere }

// SetFromAABB derives the OBB and sphere from b.
func (bv *BoundingVolumes) SetFromAABB(b AABB) {
	if b.IsEmpty() {
		bv.Clear()
		return
	}
	bv.aabb = b
	bv.obb = OBBFromAABB(b)
	bv.sphere = SphereFromAABB(b)
}

// SetFromMinMax is SetFromAABB for the box spanning minPt to maxPt.
func (bv *BoundingVolumes) SetFromMinMax(minPt, maxPt r3.Vector) {
	bv.SetFromAABB(NewAABB(minPt, maxPt))
}

// SetFromAABBTransform places b under transform m: the OBB follows m exactly and the AABB and sphere are
// fitted around it.
func (bv *BoundingVolumes) SetFromAABBTransform(b AABB, m mgl64.Mat4) {
	if b.IsEmpty() {
		bv.Clear()
		return
	}
	bv.obb = OBBFromAABBTransform(b, m)
	bv.aabb = AABBFromOBB(bv.obb)
	bv.sphere = sphereFromOBB(bv.obb)
}

// SetFromPoints fits all three volumes to count points of a strided buffer. A nil buffer or a zero count
// clears the volumes and returns false.
func (bv *BoundingVolumes) SetFromPoints(points []float64, count, stride int) bool {
	return bv.SetFromPointsWithSchedule(points, count, stride, DefaultFitSchedule)
}

// SetFromPointsWithSchedule is SetFromPoints with explicit OBB search step sizes.
func (bv *BoundingVolumes) SetFromPointsWithSchedule(points []float64, count, stride int, schedule FitSchedule) bool {
	return bv.SetFromVectors(PointsFromBuffer(points, count, stride), schedule)
}

// SetFromVectors fits all three volumes to points.
func (bv *BoundingVolumes) SetFromVectors(points []r3.Vector, schedule FitSchedule) bool {
	if len(points) == 0 {
		bv.Clear()
		return false
	}
	bv.aabb.SetFromVectors(points)
	bv.obb.SetFromVectors(points, schedule)
	bv.sphere.SetFromVectors(points)
	return true
}

// intersectionStage is one step of the rejection cascade.
type intersectionStage struct {
	name string
	test func(a, b *BoundingVolumes) bool
}

// intersectionCascade orders the stages cheapest first. Callers rely on the sphere and box tests running
// before the separating axis test.
var intersectionCascade = []intersectionStage{
	{name: "sphere", test: func(a, b *BoundingVolumes) bool { return a.sphere.Intersects(b.sphere) }},
	{name: "aabb", test: func(a, b *BoundingVolumes) bool { return a.aabb.Intersects(b.aabb) }},
	{name: "obb", test: func(a, b *BoundingVolumes) bool { return a.obb.Intersects(b.obb) }},
}

// runCascade evaluates stages in order and stops at the first one that proves separation, returning its
// name.
func runCascade(a, b *BoundingVolumes, stages []intersectionStage) (bool, string) {
	if a.IsEmpty() || b.IsEmpty() {
		return false, "empty"
	}
	for _, s := range stages {
		if !s.test(a, b) {
			return false, s.name
		}
	}
	return true, ""
}

// Intersects runs the sphere, AABB, OBB cascade and returns false at the first stage that separates the
// two objects.
func (bv BoundingVolumes) Intersects(other BoundingVolumes) bool {
	ok, _ := runCascade(&bv, &other, intersectionCascade)
	return ok
}

// IntersectsStage is Intersects that also names the stage that rejected the pair: "sphere", "aabb",
// "obb", or "empty" when either side is empty. The name is "" when the objects intersect.
func (bv BoundingVolumes) IntersectsStage(other BoundingVolumes) (bool, string) {
	return runCascade(&bv, &other, intersectionCascade)
}

// IntersectsFast tests the spheres only.
func (bv BoundingVolumes) IntersectsFast(other BoundingVolumes) bool {
	return bv.sphere.Intersects(other.sphere)
}

// IntersectsAABB tests the axis aligned boxes only.
func (bv BoundingVolumes) IntersectsAABB(other BoundingVolumes) bool {
	return bv.aabb.Intersects(other.aabb)
}

// IntersectsOBB tests the oriented boxes only.
func (bv BoundingVolumes) IntersectsOBB(other BoundingVolumes) bool {
	return bv.obb.Intersects(other.obb)
}

// Contains requires AABB and sphere containment. The OBBs are not compared; see ContainsExact.
func (bv BoundingVolumes) Contains(other BoundingVolumes) bool {
	return bv.aabb.Contains(other.aabb) && bv.sphere.Contains(other.sphere)
}

// ContainsExact is Contains that also requires other's OBB to lie inside bv's OBB.
func (bv BoundingVolumes) ContainsExact(other BoundingVolumes) bool {
	return bv.Contains(other) && bv.obb.Contains(other.obb)
}

// ContainsPoint reports whether pt lies in any of the three volumes.
func (bv BoundingVolumes) ContainsPoint(pt r3.Vector) bool {
	return bv.aabb.ContainsPoint(pt) || bv.obb.ContainsPoint(pt) || bv.sphere.ContainsPoint(pt)
}

// ClosestPoint returns the closest point on the sphere.
func (bv BoundingVolumes) ClosestPoint(pt r3.Vector) r3.Vector {
	return bv.sphere.ClosestPoint(pt)
}

// DistanceToPoint returns the distance from pt to the AABB.
func (bv BoundingVolumes) DistanceToPoint(pt r3.Vector) float64 {
	return bv.aabb.DistanceToPoint(pt)
}

// Merge grows all three volumes to also enclose other. The OBB merge is approximate.
func (bv *BoundingVolumes) Merge(other BoundingVolumes) {
	bv.aabb.Merge(other.aabb)
	bv.obb.MergeApprox(other.obb)
	bv.sphere.Merge(other.sphere)
}

// ExpandToInclude grows all three volumes to contain pt.
func (bv *BoundingVolumes) ExpandToInclude(pt r3.Vector) {
	bv.aabb.ExpandToInclude(pt)
	bv.obb.ExpandToInclude(pt)
	bv.sphere.ExpandToInclude(pt)
}

// IntersectsRayFast tests the sphere only.
func (bv BoundingVolumes) IntersectsRayFast(ray Ray) bool {
	_, ok := bv.sphere.IntersectsRay(ray)
	return ok
}

// IntersectsRay tests the sphere and then the AABB, returning the distance to the AABB.
func (bv BoundingVolumes) IntersectsRay(ray Ray) (float64, bool) {
	if !bv.IntersectsRayFast(ray) {
		return 0, false
	}
	return bv.aabb.RayDistance(ray)
}

// ClassifyPlane classifies the AABB against the plane. Empty volumes return 0.
func (bv BoundingVolumes) ClassifyPlane(p Plane) int {
	return bv.aabb.ClassifyPlane(p)
}

// IntersectsPlane reports whether the plane crosses the AABB or the sphere.
func (bv BoundingVolumes) IntersectsPlane(p Plane) bool {
	return bv.aabb.IntersectsPlane(p) || bv.sphere.IntersectsPlane(p)
}

// MaxRadius returns the sphere radius.
func (bv BoundingVolumes) MaxRadius() float64 {
	return bv.sphere.radius
}

// Center returns the center of the AABB.
func (bv BoundingVolumes) Center() r3.Vector {
	return bv.aabb.center
}

// Transformed moves all three volumes by m.
func (bv BoundingVolumes) Transformed(m mgl64.Mat4) BoundingVolumes {
	return BoundingVolumes{
		aabb:   bv.aabb.Transformed(m),
		obb:    bv.obb.Transformed(m),
		sphere: bv.sphere.Transformed(m),
	}
}

// String returns a human readable string that represents the volumes.
func (bv BoundingVolumes) String() string {
	if bv.IsEmpty() {
		return "Type: BoundingVolumes | Empty"
	}
	return fmt.Sprintf("%v\n%v\n%v", bv.aabb, bv.obb, bv.sphere)
}
