package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Outward face normals of an AABB, in FacePlane index order.
var aabbFaceNormals = [6]r3.Vector{
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
}

// worldAxes is the identity basis.
var worldAxes = [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

// AABB is an axis aligned bounding box given by its minimum and maximum corners.
// The zero value is an empty box. Min <= Max componentwise is a caller precondition that is not checked.
type AABB struct {
	minPt   r3.Vector
	maxPt   r3.Vector
	center  r3.Vector
	length  r3.Vector
	defined bool

	faceCenters [6]r3.Vector
	planes      [6]Plane
}

// NewAABB returns the box spanning min to max.
func NewAABB(minPt, maxPt r3.Vector) AABB {
	var b AABB
	b.SetMinMax(minPt, maxPt)
	return b
}

// NewAABBFromPoints returns the smallest box containing every point; no points gives an empty box.
func NewAABBFromPoints(points []r3.Vector) AABB {
	var b AABB
	b.SetFromVectors(points)
	return b
}

// SetMinMax defines the box by its corners.
func (b *AABB) SetMinMax(minPt, maxPt r3.Vector) {
	b.minPt = minPt
	b.maxPt = maxPt
	b.defined = true
	b.update()
}

// SetCornerLength defines the box by its minimum corner and its size along each axis.
func (b *AABB) SetCornerLength(corner, length r3.Vector) {
	b.SetMinMax(corner, corner.Add(length))
}

// SetFromPoints fits the box to count points read from a strided buffer. A nil buffer or a zero count
// clears the box.
func (b *AABB) SetFromPoints(points []float64, count, stride int) {
	b.SetFromVectors(PointsFromBuffer(points, count, stride))
}

// SetFromVectors fits the box to the given points, clearing it if there are none.
func (b *AABB) SetFromVectors(points []r3.Vector) {
	if len(points) == 0 {
		b.Clear()
		return
	}
	b.SetMinMax(minMaxOf(points))
}

// Clear resets the box to the empty state.
func (b *AABB) Clear() {
	*b = AABB{}
}

// IsEmpty reports whether the box has not been defined.
func (b AABB) IsEmpty() bool {
	return !b.defined
}

// update recomputes every derived field; all mutators end here.
func (b *AABB) update() {
	b.length = b.maxPt.Sub(b.minPt)
	b.center = b.minPt.Add(b.maxPt).Mul(0.5)

	c := b.center
	b.faceCenters = [6]r3.Vector{
		{X: b.minPt.X, Y: c.Y, Z: c.Z},
		{X: b.maxPt.X, Y: c.Y, Z: c.Z},
		{X: c.X, Y: b.minPt.Y, Z: c.Z},
		{X: c.X, Y: b.maxPt.Y, Z: c.Z},
		{X: c.X, Y: c.Y, Z: b.minPt.Z},
		{X: c.X, Y: c.Y, Z: b.maxPt.Z},
	}
	for i := range b.planes {
		b.planes[i] = NewPlane(b.faceCenters[i], aabbFaceNormals[i])
	}
}

// Min returns the minimum corner.
func (b AABB) Min() r3.Vector { return b.minPt }

// Max returns the maximum corner.
func (b AABB) Max() r3.Vector { return b.maxPt }

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector { return b.center }

// Length returns the size of the box along each axis.
func (b AABB) Length() r3.Vector { return b.length }

// HalfExtents returns half the size of the box along each axis.
func (b AABB) HalfExtents() r3.Vector { return b.length.Mul(0.5) }

// FacePlane returns the outward facing plane of face i, ordered -X, +X, -Y, +Y, -Z, +Z.
// i outside [0, 5] panics.
func (b AABB) FacePlane(i int) Plane { return b.planes[i] }

// FaceCenter returns the center point of face i, in FacePlane order.
func (b AABB) FaceCenter(i int) r3.Vector { return b.faceCenters[i] }

// VertexP returns the corner farthest along normal.
func (b AABB) VertexP(normal r3.Vector) r3.Vector {
	res := b.minPt
	if normal.X > 0 {
		res.X += b.length.X
	}
	if normal.Y > 0 {
		res.Y += b.length.Y
	}
	if normal.Z > 0 {
		res.Z += b.length.Z
	}
	return res
}

// VertexN returns the corner nearest along normal.
func (b AABB) VertexN(normal r3.Vector) r3.Vector {
	res := b.minPt
	if normal.X < 0 {
		res.X += b.length.X
	}
	if normal.Y < 0 {
		res.Y += b.length.Y
	}
	if normal.Z < 0 {
		res.Z += b.length.Z
	}
	return res
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]r3.Vector {
	lo, hi := b.minPt, b.maxPt
	return [8]r3.Vector{
		lo,
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		hi,
	}
}

// Volume returns the volume of the box.
func (b AABB) Volume() float64 {
	return b.length.X * b.length.Y * b.length.Z
}

// SurfaceArea returns the surface area of the box.
func (b AABB) SurfaceArea() float64 {
	l := b.length
	return 2 * (l.X*l.Y + l.Y*l.Z + l.Z*l.X)
}

// Merge grows the box to also enclose other. Merging an empty box is a no-op; merging into an empty
// box copies other.
func (b *AABB) Merge(other AABB) {
	if other.IsEmpty() {
		return
	}
	if b.IsEmpty() {
		*b = other
		return
	}
	b.SetMinMax(minVector(b.minPt, other.minPt), maxVector(b.maxPt, other.maxPt))
}

// ExpandToInclude grows the box to contain pt. An empty box becomes the single point pt.
func (b *AABB) ExpandToInclude(pt r3.Vector) {
	if b.IsEmpty() {
		b.SetMinMax(pt, pt)
		return
	}
	b.SetMinMax(minVector(b.minPt, pt), maxVector(b.maxPt, pt))
}

// ContainsPoint reports whether pt lies inside or on the box.
func (b AABB) ContainsPoint(pt r3.Vector) bool {
	if b.IsEmpty() {
		return false
	}
	return pt.X >= b.minPt.X && pt.X <= b.maxPt.X &&
		pt.Y >= b.minPt.Y && pt.Y <= b.maxPt.Y &&
		pt.Z >= b.minPt.Z && pt.Z <= b.maxPt.Z
}

// Contains reports whether other lies entirely inside b; shared faces count as contained.
func (b AABB) Contains(other AABB) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.minPt.X >= b.minPt.X && other.maxPt.X <= b.maxPt.X &&
		other.minPt.Y >= b.minPt.Y && other.maxPt.Y <= b.maxPt.Y &&
		other.minPt.Z >= b.minPt.Z && other.maxPt.Z <= b.maxPt.Z
}

// Intersects reports whether the two boxes overlap; touching boxes intersect.
func (b AABB) Intersects(other AABB) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.minPt.X <= other.maxPt.X && b.maxPt.X >= other.minPt.X &&
		b.minPt.Y <= other.maxPt.Y && b.maxPt.Y >= other.minPt.Y &&
		b.minPt.Z <= other.maxPt.Z && b.maxPt.Z >= other.minPt.Z
}

// ClosestPoint clamps pt into the box. An empty box returns pt unchanged.
func (b AABB) ClosestPoint(pt r3.Vector) r3.Vector {
	if b.IsEmpty() {
		return pt
	}
	return r3.Vector{
		X: math.Max(b.minPt.X, math.Min(pt.X, b.maxPt.X)),
		Y: math.Max(b.minPt.Y, math.Min(pt.Y, b.maxPt.Y)),
		Z: math.Max(b.minPt.Z, math.Min(pt.Z, b.maxPt.Z)),
	}
}

// DistanceToPoint returns the distance from pt to the box, 0 inside. An empty box is infinitely far.
func (b AABB) DistanceToPoint(pt r3.Vector) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	return pt.Sub(b.ClosestPoint(pt)).Norm()
}

// Distance returns the Euclidean distance between the boxes, 0 if they intersect.
func (b AABB) Distance(other AABB) float64 {
	if b.IsEmpty() || other.IsEmpty() {
		return math.Inf(1)
	}
	gap := func(aMin, aMax, bMin, bMax float64) float64 {
		switch {
		case aMax < bMin:
			return bMin - aMax
		case bMax < aMin:
			return aMin - bMax
		default:
			return 0
		}
	}
	return r3.Vector{
		X: gap(b.minPt.X, b.maxPt.X, other.minPt.X, other.maxPt.X),
		Y: gap(b.minPt.Y, b.maxPt.Y, other.minPt.Y, other.maxPt.Y),
		Z: gap(b.minPt.Z, b.maxPt.Z, other.minPt.Z, other.maxPt.Z),
	}.Norm()
}

// IntersectsRay runs the slab test and returns the parameter window [tMin, tMax] where the ray's line is
// inside the box. ok is false if the line misses the box or the box lies entirely behind the origin.
func (b AABB) IntersectsRay(ray Ray) (tMin, tMax float64, ok bool) {
	if b.IsEmpty() {
		return 0, 0, false
	}
	tMin, tMax = math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		o := component(ray.Origin, i)
		d := component(ray.Direction, i)
		lo := component(b.minPt, i)
		hi := component(b.maxPt, i)

		if math.Abs(d) < rayAxisEpsilon {
			// parallel to this slab: a miss unless the origin is already between the planes
			if o < lo || o > hi {
				return tMin, tMax, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
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

// RayDistance returns the distance along the ray to the first point inside the box, 0 if the origin is
// already inside.
func (b AABB) RayDistance(ray Ray) (float64, bool) {
	tMin, tMax, ok := b.IntersectsRay(ray)
	if !ok {
		return 0, false
	}
	if tMin >= 0 {
		return tMin, true
	}
	if b.ContainsPoint(ray.Origin) {
		return 0, true
	}
	return tMax, true
}

// ClassifyPlane returns +1 if the box is entirely in front of the plane, -1 if entirely behind and 0 if it
// straddles it. An empty box is on neither side and returns 0, which IntersectsPlane does not count as a
// crossing.
func (b AABB) ClassifyPlane(p Plane) int {
	if b.IsEmpty() {
		return 0
	}
	r := projectedRadius(p.Normal, worldAxes, b.HalfExtents())
	return classifyExtent(p.Distance(b.center), r)
}

// IntersectsPlane reports whether the plane passes through the box.
func (b AABB) IntersectsPlane(p Plane) bool {
	return !b.IsEmpty() && b.ClassifyPlane(p) == 0
}

// IntersectsSphere reports whether the box and the sphere overlap.
func (b AABB) IntersectsSphere(s BoundingSphere) bool {
	if b.IsEmpty() || s.IsEmpty() {
		return false
	}
	return b.ClosestPoint(s.center).Sub(s.center).Norm2() <= s.radius*s.radius
}

// IntersectsTriangleApprox reports whether any vertex of the triangle lies inside the box. It is not a
// separating axis test: triangles that cross the box without a vertex inside are reported as misses.
func (b AABB) IntersectsTriangleApprox(tri Triangle) bool {
	return b.ContainsPoint(tri.p0) || b.ContainsPoint(tri.p1) || b.ContainsPoint(tri.p2)
}

// Transformed returns the box fitted around the 8 transformed corners. Rotations generally grow the box.
func (b AABB) Transformed(m mgl64.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	corners := b.Corners()
	transformed := make([]r3.Vector, 0, len(corners))
	for _, c := range corners {
		transformed = append(transformed, TransformPoint(m, c))
	}
	return NewAABBFromPoints(transformed)
}

// String returns a human readable string that represents the box.
func (b AABB) String() string {
	if b.IsEmpty() {
		return "Type: AABB | Empty"
	}
	return fmt.Sprintf("Type: AABB | Min: X:%.3f, Y:%.3f, Z:%.3f | Max: X:%.3f, Y:%.3f, Z:%.3f",
		b.minPt.X, b.minPt.Y, b.minPt.Z, b.maxPt.X, b.maxPt.Y, b.maxPt.Z)
}
