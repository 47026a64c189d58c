package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Triangle is three points in space with a precomputed unit normal (zero for degenerate triangles).
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle instantiates a new Triangle. The normal follows the right hand rule over p0, p1, p2.
func NewTriangle(p0, p1, p2 r3.Vector) Triangle {
	return Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// PlaneNormal returns the unit normal of the plane through three points, or the zero vector if the
// points are collinear.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Norm(); l > floatEpsilon {
		return n.Mul(1 / l)
	}
	return r3.Vector{}
}

// Points returns the three vertices.
func (t Triangle) Points() [3]r3.Vector {
	return [3]r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal.
func (t Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Transformed returns the triangle with every vertex transformed by m.
func (t Triangle) Transformed(m mgl64.Mat4) Triangle {
	return NewTriangle(TransformPoint(m, t.p0), TransformPoint(m, t.p1), TransformPoint(m, t.p2))
}

// Plane returns the plane the triangle lies in.
func (t Triangle) Plane() Plane {
	return Plane{Normal: t.normal, Offset: t.normal.Dot(t.p0)}
}

// IntersectsPlane determines if the triangle intersects with, or lies on, the plane.
func (t Triangle) IntersectsPlane(p Plane) bool {
	d0 := p.Distance(t.p0)
	d1 := p.Distance(t.p1)
	d2 := p.Distance(t.p2)

	// all vertices strictly on one side
	if (d0 > floatEpsilon && d1 > floatEpsilon && d2 > floatEpsilon) ||
		(d0 < -floatEpsilon && d1 < -floatEpsilon && d2 < -floatEpsilon) {
		return false
	}
	return true
}

// ClosestPointToPoint returns the closest point on the triangle to the given point.
func (t Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	if closestPtInside, inside := t.closestInsidePoint(point); inside {
		return closestPtInside
	}

	// If the closest point is outside the triangle, it must be on an edge.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}

// closestInsidePoint returns the projection of point onto the triangle plane and whether that
// projection lands inside the triangle.
func (t Triangle) closestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Q = p0 + u * e0 + v * e1 is inside when 0 <= u, 0 <= v and u + v <= 1.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	det := a*c - b*b
	if math.Abs(det) < floatEpsilon {
		return point, false
	}
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// ClosestPointSegmentPoint returns the point on segment [start, end] closest to pt.
// A degenerate segment returns its start point.
func ClosestPointSegmentPoint(start, end, pt r3.Vector) r3.Vector {
	dir := end.Sub(start)
	l2 := dir.Norm2()
	if l2 < floatEpsilon*floatEpsilon {
		return start
	}
	tt := pt.Sub(start).Dot(dir) / l2
	switch {
	case tt <= 0:
		return start
	case tt >= 1:
		return end
	default:
		return start.Add(dir.Mul(tt))
	}
}
