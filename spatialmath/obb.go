package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// OBB is an oriented bounding box: a center, three orthonormal axes and the half size along each axis.
// The zero value is an empty box. Orthonormality of the axes is a caller precondition that is not
// checked.
type OBB struct {
	center   r3.Vector
	axes     [3]r3.Vector
	halfSize r3.Vector
	defined  bool

	planes [6]Plane
}

// NewOBB returns an axis aligned OBB.
func NewOBB(center, halfSize r3.Vector) OBB {
	var o OBB
	o.Set(center, halfSize)
	return o
}

// NewOBBWithAxes returns an OBB with the given orientation.
func NewOBBWithAxes(center, axis0, axis1, axis2, halfSize r3.Vector) OBB {
	var o OBB
	o.SetWithAxes(center, axis0, axis1, axis2, halfSize)
	return o
}

// Set defines an axis aligned box.
func (o *OBB) Set(center, halfSize r3.Vector) {
	o.SetWithAxes(center, worldAxes[0], worldAxes[1], worldAxes[2], halfSize)
}

// SetWithAxes defines the box with an explicit basis.
func (o *OBB) SetWithAxes(center, axis0, axis1, axis2, halfSize r3.Vector) {
	o.center = center
	o.axes = [3]r3.Vector{axis0, axis1, axis2}
	o.halfSize = halfSize
	o.defined = true
	o.update()
}

// SetFromPoints fits a minimum volume box to count points of a strided buffer with DefaultFitSchedule.
// A nil buffer or a zero count clears the box.
func (o *OBB) SetFromPoints(points []float64, count, stride int) {
	o.SetFromPointsWithSchedule(points, count, stride, DefaultFitSchedule)
}

// SetFromPointsWithSchedule is SetFromPoints with explicit search step sizes.
func (o *OBB) SetFromPointsWithSchedule(points []float64, count, stride int, schedule FitSchedule) {
	o.SetFromVectors(PointsFromBuffer(points, count, stride), schedule)
}

// SetFromVectors fits a minimum volume box to points, clearing the box if there are none.
func (o *OBB) SetFromVectors(points []r3.Vector, schedule FitSchedule) {
	if len(points) == 0 {
		o.Clear()
		return
	}
	fit := SearchMinVolume(points, schedule)
	o.SetWithAxes(fit.Center, fit.Axes[0], fit.Axes[1], fit.Axes[2], fit.HalfSize)
}

// Clear resets the box to the empty state.
func (o *OBB) Clear() {
	*o = OBB{}
}

// IsEmpty reports whether the box has not been defined.
func (o OBB) IsEmpty() bool {
	return !o.defined
}

// update recomputes the outward face planes, ordered +axis0, -axis0, +axis1, -axis1, +axis2, -axis2.
func (o *OBB) update() {
	h := [3]float64{o.halfSize.X, o.halfSize.Y, o.halfSize.Z}
	for i, axis := range o.axes {
		o.planes[2*i] = NewPlane(o.center.Add(axis.Mul(h[i])), axis)
		o.planes[2*i+1] = NewPlane(o.center.Sub(axis.Mul(h[i])), axis.Mul(-1))
	}
}

// Center returns the center of the box.
func (o OBB) Center() r3.Vector { return o.center }

// Axis returns axis i (0, 1 or 2) of the box.
func (o OBB) Axis(i int) r3.Vector { return o.axes[i] }

// Axes returns the box basis.
func (o OBB) Axes() [3]r3.Vector { return o.axes }

// HalfSize returns the half size of the box along each of its axes.
func (o OBB) HalfSize() r3.Vector { return o.halfSize }

// FacePlane returns outward face plane i, ordered +axis0, -axis0, +axis1, -axis1, +axis2, -axis2.
func (o OBB) FacePlane(i int) Plane { return o.planes[i] }

// Volume returns the volume of the box.
func (o OBB) Volume() float64 {
	return 8 * o.halfSize.X * o.halfSize.Y * o.halfSize.Z
}

// SurfaceArea returns the surface area of the box.
func (o OBB) SurfaceArea() float64 {
	h := o.halfSize
	return 8 * (h.X*h.Y + h.Y*h.Z + h.Z*h.X)
}

// Corners returns the 8 corners with the x offset varying fastest, then y, then z.
func (o OBB) Corners() [8]r3.Vector {
	ex := o.axes[0].Mul(o.halfSize.X)
	ey := o.axes[1].Mul(o.halfSize.Y)
	ez := o.axes[2].Mul(o.halfSize.Z)
	c := o.center
	return [8]r3.Vector{
		c.Sub(ex).Sub(ey).Sub(ez),
		c.Add(ex).Sub(ey).Sub(ez),
		c.Sub(ex).Add(ey).Sub(ez),
		c.Add(ex).Add(ey).Sub(ez),
		c.Sub(ex).Sub(ey).Add(ez),
		c.Add(ex).Sub(ey).Add(ez),
		c.Sub(ex).Add(ey).Add(ez),
		c.Add(ex).Add(ey).Add(ez),
	}
}

// Matrix returns the transform that maps the cube from -0.5 to 0.5 onto the box when cubeSize is 1. The
// axis columns scale linearly with cubeSize.
func (o OBB) Matrix(cubeSize float64) mgl64.Mat4 {
	scale := cubeSize / 0.5
	ax := o.axes[0].Mul(o.halfSize.X * scale)
	ay := o.axes[1].Mul(o.halfSize.Y * scale)
	az := o.axes[2].Mul(o.halfSize.Z * scale)
	return mgl64.Mat4FromCols(
		mgl64.Vec4{ax.X, ax.Y, ax.Z, 0},
		mgl64.Vec4{ay.X, ay.Y, ay.Z, 0},
		mgl64.Vec4{az.X, az.Y, az.Z, 0},
		mgl64.Vec4{o.center.X, o.center.Y, o.center.Z, 1},
	)
}

// local returns the coordinates of pt in the box frame.
func (o OBB) local(pt r3.Vector) r3.Vector {
	d := pt.Sub(o.center)
	return r3.Vector{X: d.Dot(o.axes[0]), Y: d.Dot(o.axes[1]), Z: d.Dot(o.axes[2])}
}

// ContainsPoint reports whether pt lies inside or on the box.
func (o OBB) ContainsPoint(pt r3.Vector) bool {
	if o.IsEmpty() {
		return false
	}
	l := o.local(pt)
	return math.Abs(l.X) <= o.halfSize.X+floatEpsilon &&
		math.Abs(l.Y) <= o.halfSize.Y+floatEpsilon &&
		math.Abs(l.Z) <= o.halfSize.Z+floatEpsilon
}

// ClosestPoint returns the point of the box closest to pt. An empty box returns pt unchanged.
func (o OBB) ClosestPoint(pt r3.Vector) r3.Vector {
	if o.IsEmpty() {
		return pt
	}
	result := o.center
	l := o.local(pt)
	h := [3]float64{o.halfSize.X, o.halfSize.Y, o.halfSize.Z}
	proj := [3]float64{l.X, l.Y, l.Z}
	for i, axis := range o.axes {
		distance := math.Max(-h[i], math.Min(proj[i], h[i]))
		result = result.Add(axis.Mul(distance))
	}
	return result
}

// DistanceToPointSquared returns the squared distance from pt to the box.
func (o OBB) DistanceToPointSquared(pt r3.Vector) float64 {
	if o.IsEmpty() {
		return math.Inf(1)
	}
	return pt.Sub(o.ClosestPoint(pt)).Norm2()
}

// DistanceToPoint returns the distance from pt to the box, 0 inside.
func (o OBB) DistanceToPoint(pt r3.Vector) float64 {
	return math.Sqrt(o.DistanceToPointSquared(pt))
}

// Intersects runs the full 15 axis separating axis test. Touching boxes intersect.
func (o OBB) Intersects(other OBB) bool {
	if o.IsEmpty() || other.IsEmpty() {
		return false
	}
	return !satSeparated(&o, &other)
}

// Contains reports whether every corner of other lies inside o.
func (o OBB) Contains(other OBB) bool {
	if o.IsEmpty() || other.IsEmpty() {
		return false
	}
	for _, c := range other.Corners() {
		if !o.ContainsPoint(c) {
			return false
		}
	}
	return true
}

// Distance returns the largest separating gap over the 15 SAT axes, which is a lower bound on the
// Euclidean distance between the boxes, or 0 if they intersect.
func (o OBB) Distance(other OBB) float64 {
	if o.IsEmpty() || other.IsEmpty() {
		return math.Inf(1)
	}
	return math.Max(0, satMaxGap(&o, &other))
}

// IntersectsAABBApprox tests only the 3 box axes and the 3 world axes. The 9 edge axes are skipped, so
// some separated pairs in edge-to-edge configurations are reported as intersecting.
func (o OBB) IntersectsAABBApprox(box AABB) bool {
	if o.IsEmpty() || box.IsEmpty() {
		return false
	}
	other := OBBFromAABB(box)
	centerDist := other.center.Sub(o.center)
	for i := 0; i < 3; i++ {
		if separatingAxisGap(centerDist, o.axes[i], &o, &other) > floatEpsilon {
			return false
		}
		if separatingAxisGap(centerDist, worldAxes[i], &o, &other) > floatEpsilon {
			return false
		}
	}
	return true
}

// IntersectsAABB is the exact 15 axis test against an axis aligned box.
func (o OBB) IntersectsAABB(box AABB) bool {
	if box.IsEmpty() {
		return false
	}
	return o.Intersects(OBBFromAABB(box))
}

// IntersectsSphere reports whether the box and the sphere overlap.
func (o OBB) IntersectsSphere(s BoundingSphere) bool {
	if o.IsEmpty() || s.IsEmpty() {
		return false
	}
	return o.DistanceToPointSquared(s.center) <= s.radius*s.radius
}

// IntersectsRay runs the slab test in the box frame and returns the parameter window inside the box,
// clipped to t >= 0.
func (o OBB) IntersectsRay(ray Ray) (tMin, tMax float64, ok bool) {
	if o.IsEmpty() {
		return 0, 0, false
	}
	d := ray.Origin.Sub(o.center)
	h := [3]float64{o.halfSize.X, o.halfSize.Y, o.halfSize.Z}

	tMin, tMax = 0, math.Inf(1)
	for i, axis := range o.axes {
		e := axis.Dot(d)
		f := axis.Dot(ray.Direction)
		if math.Abs(f) <= obbRayAxisEpsilon {
			if -e-h[i] > 0 || -e+h[i] < 0 {
				return tMin, tMax, false
			}
			continue
		}
		t1 := (-e - h[i]) / f
		t2 := (-e + h[i]) / f
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return tMin, tMax, false
		}
	}
	return tMin, tMax, tMax >= 0
}

// RayDistance returns the distance along the ray to the box, 0 if the origin is inside.
func (o OBB) RayDistance(ray Ray) (float64, bool) {
	tMin, _, ok := o.IntersectsRay(ray)
	if !ok {
		return 0, false
	}
	return tMin, true
}

// ClassifyPlane returns +1 if the box is entirely in front of the plane, -1 if entirely behind and 0 if it
// straddles it. An empty box returns 0.
func (o OBB) ClassifyPlane(p Plane) int {
	if o.IsEmpty() {
		return 0
	}
	return classifyExtent(p.Distance(o.center), projectedRadius(p.Normal, o.axes, o.halfSize))
}

// IntersectsPlane reports whether the plane passes through the box.
func (o OBB) IntersectsPlane(p Plane) bool {
	return !o.IsEmpty() && o.ClassifyPlane(p) == 0
}

// IntersectsTriangleApprox reports whether any vertex of the triangle lies inside the box. Triangles
// crossing the box without a vertex inside are reported as misses.
func (o OBB) IntersectsTriangleApprox(tri Triangle) bool {
	return o.ContainsPoint(tri.p0) || o.ContainsPoint(tri.p1) || o.ContainsPoint(tri.p2)
}

// support returns the corner farthest along dir.
func (o OBB) support(dir r3.Vector) r3.Vector {
	res := o.center
	h := [3]float64{o.halfSize.X, o.halfSize.Y, o.halfSize.Z}
	for i, axis := range o.axes {
		if axis.Dot(dir) >= 0 {
			res = res.Add(axis.Mul(h[i]))
		} else {
			res = res.Sub(axis.Mul(h[i]))
		}
	}
	return res
}

// ExpandToInclude grows the half sizes, keeping the center and axes, until pt is inside.
// An empty box becomes an axis aligned box around the single point pt.
func (o *OBB) ExpandToInclude(pt r3.Vector) {
	if o.IsEmpty() {
		o.Set(pt, r3.Vector{})
		return
	}
	l := o.local(pt)
	o.halfSize = r3.Vector{
		X: math.Max(o.halfSize.X, math.Abs(l.X)),
		Y: math.Max(o.halfSize.Y, math.Abs(l.Y)),
		Z: math.Max(o.halfSize.Z, math.Abs(l.Z)),
	}
	o.update()
}

// MergeApprox replaces the box with the axis aligned box around the corners of both boxes. The result
// encloses both but loses their orientation and is generally far from minimal.
func (o *OBB) MergeApprox(other OBB) {
	if other.IsEmpty() {
		return
	}
	if o.IsEmpty() {
		*o = other
		return
	}
	a, b := o.Corners(), other.Corners()
	corners := append(a[:], b[:]...)
	lo, hi := minMaxOf(corners)
	o.Set(lo.Add(hi).Mul(0.5), hi.Sub(lo).Mul(0.5))
}

// Transformed returns the box moved by m. Axes are renormalized after the linear part of m is applied
// and their lengths scale the half sizes; an axis that collapses to zero keeps its previous direction.
func (o OBB) Transformed(m mgl64.Mat4) OBB {
	if o.IsEmpty() {
		return o
	}
	var axes [3]r3.Vector
	scale := [3]float64{1, 1, 1}
	for i, axis := range o.axes {
		t := TransformDirection(m, axis)
		l := t.Norm()
		if l < satAxisEpsilon {
			axes[i] = axis
			continue
		}
		axes[i] = t.Mul(1 / l)
		scale[i] = l
	}
	half := r3.Vector{X: o.halfSize.X * scale[0], Y: o.halfSize.Y * scale[1], Z: o.halfSize.Z * scale[2]}
	return NewOBBWithAxes(TransformPoint(m, o.center), axes[0], axes[1], axes[2], half)
}

// String returns a human readable string that represents the box.
func (o OBB) String() string {
	if o.IsEmpty() {
		return "Type: OBB | Empty"
	}
	return fmt.Sprintf("Type: OBB | Center: X:%.3f, Y:%.3f, Z:%.3f | Half Size: X:%.3f, Y:%.3f, Z:%.3f",
		o.center.X, o.center.Y, o.center.Z, o.halfSize.X, o.halfSize.Y, o.halfSize.Z)
}
