package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// BoundingSphere is a center and a radius. The zero value is empty; a defined sphere of radius 0 is a
// valid point sphere.
type BoundingSphere struct {
	center  r3.Vector
	radius  float64
	defined bool
}

// NewBoundingSphere returns the sphere with the given center and radius.
func NewBoundingSphere(center r3.Vector, radius float64) BoundingSphere {
	var s BoundingSphere
	s.Set(center, radius)
	return s
}

// Set defines the sphere.
func (s *BoundingSphere) Set(center r3.Vector, radius float64) {
	s.center = center
	s.radius = radius
	s.defined = true
}

// SetFromPoints fits a sphere to count points of a strided buffer. A nil buffer or a zero count clears it.
func (s *BoundingSphere) SetFromPoints(points []float64, count, stride int) {
	s.SetFromVectors(PointsFromBuffer(points, count, stride))
}

// SetFromVectors centers the sphere on the mean of the points with the radius reaching the farthest one.
// This is not the minimum enclosing sphere: skewed point sets come out noticeably larger.
func (s *BoundingSphere) SetFromVectors(points []r3.Vector) {
	if len(points) == 0 {
		s.Clear()
		return
	}
	var c r3.Vector
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(len(points)))

	r2 := 0.
	for _, p := range points {
		r2 = math.Max(r2, p.Sub(c).Norm2())
	}
	s.Set(c, math.Sqrt(r2))
}

// Clear resets the sphere to the empty state.
func (s *BoundingSphere) Clear() {
	*s = BoundingSphere{}
}

// IsEmpty reports whether the sphere has not been defined.
func (s BoundingSphere) IsEmpty() bool {
	return !s.defined
}

// Center returns the center of the sphere.
func (s BoundingSphere) Center() r3.Vector { return s.center }

// Radius returns the radius of the sphere.
func (s BoundingSphere) Radius() float64 { return s.radius }

// Volume returns the volume of the sphere.
func (s BoundingSphere) Volume() float64 {
	return 4. / 3. * math.Pi * s.radius * s.radius * s.radius
}

// SurfaceArea returns the surface area of the sphere.
func (s BoundingSphere) SurfaceArea() float64 {
	return 4 * math.Pi * s.radius * s.radius
}

// Merge grows s into the smallest sphere enclosing both spheres.
func (s *BoundingSphere) Merge(other BoundingSphere) {
	if other.IsEmpty() {
		return
	}
	if s.IsEmpty() {
		*s = other
		return
	}
	d := other.center.Sub(s.center)
	dist := d.Norm()
	if dist+other.radius <= s.radius {
		return
	}
	if dist+s.radius <= other.radius {
		*s = other
		return
	}
	r := (dist + s.radius + other.radius) / 2
	s.center = s.center.Add(d.Mul((r - s.radius) / dist))
	s.radius = r
}

// ExpandToInclude grows the radius, keeping the center, until pt is inside. An empty sphere becomes the
// point sphere at pt.
func (s *BoundingSphere) ExpandToInclude(pt r3.Vector) {
	if s.IsEmpty() {
		s.Set(pt, 0)
		return
	}
	s.radius = math.Max(s.radius, pt.Sub(s.center).Norm())
}

// ContainsPoint reports whether pt lies inside or on the sphere.
func (s BoundingSphere) ContainsPoint(pt r3.Vector) bool {
	if s.IsEmpty() {
		return false
	}
	return pt.Sub(s.center).Norm2() <= s.radius*s.radius+floatEpsilon
}

// Contains reports whether other lies entirely inside s.
func (s BoundingSphere) Contains(other BoundingSphere) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.center.Sub(s.center).Norm()+other.radius <= s.radius+floatEpsilon
}

// Intersects reports whether the spheres overlap; touching spheres intersect.
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	r := s.radius + other.radius
	return other.center.Sub(s.center).Norm2() <= r*r
}

// ClosestPoint returns the point of the sphere closest to pt; points inside are returned unchanged.
func (s BoundingSphere) ClosestPoint(pt r3.Vector) r3.Vector {
	if s.IsEmpty() {
		return pt
	}
	d := pt.Sub(s.center)
	l := d.Norm()
	if l <= s.radius {
		return pt
	}
	return s.center.Add(d.Mul(s.radius / l))
}

// DistanceToPoint returns the distance from pt to the sphere surface, 0 inside.
func (s BoundingSphere) DistanceToPoint(pt r3.Vector) float64 {
	if s.IsEmpty() {
		return math.Inf(1)
	}
	return math.Max(0, pt.Sub(s.center).Norm()-s.radius)
}

// Distance returns the gap between the sphere surfaces, 0 if they intersect.
func (s BoundingSphere) Distance(other BoundingSphere) float64 {
	if s.IsEmpty() || other.IsEmpty() {
		return math.Inf(1)
	}
	return math.Max(0, other.center.Sub(s.center).Norm()-s.radius-other.radius)
}

// IntersectsRay returns the distance along the ray to the first hit, 0 when the origin is inside.
func (s BoundingSphere) IntersectsRay(ray Ray) (float64, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	m := ray.Origin.Sub(s.center)
	a := ray.Direction.Norm2()
	b := m.Dot(ray.Direction)
	c := m.Norm2() - s.radius*s.radius

	// origin outside and pointing away
	if c > 0 && b > 0 {
		return 0, false
	}
	if a < floatEpsilon {
		return 0, c <= 0
	}
	discr := b*b - a*c
	if discr < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(discr)) / a
	if t < 0 {
		t = 0
	}
	return t, true
}

// ClassifyPlane returns +1 if the sphere is entirely in front of the plane, -1 if entirely behind and 0
// if it straddles it. An empty sphere returns 0.
func (s BoundingSphere) ClassifyPlane(p Plane) int {
	if s.IsEmpty() {
		return 0
	}
	return classifyExtent(p.Distance(s.center), s.radius)
}

// IntersectsPlane reports whether the plane passes through the sphere.
func (s BoundingSphere) IntersectsPlane(p Plane) bool {
	return !s.IsEmpty() && s.ClassifyPlane(p) == 0
}

// Transformed moves the center by m and scales the radius by the largest axis scale of m.
func (s BoundingSphere) Transformed(m mgl64.Mat4) BoundingSphere {
	if s.IsEmpty() {
		return s
	}
	scale := 0.
	for _, axis := range worldAxes {
		scale = math.Max(scale, TransformDirection(m, axis).Norm())
	}
	return NewBoundingSphere(TransformPoint(m, s.center), s.radius*scale)
}

// String returns a human readable string that represents the sphere.
func (s BoundingSphere) String() string {
	if s.IsEmpty() {
		return "Type: BoundingSphere | Empty"
	}
	return fmt.Sprintf("Type: BoundingSphere | Center: X:%.3f, Y:%.3f, Z:%.3f | Radius: %.3f",
		s.center.X, s.center.Y, s.center.Z, s.radius)
}
