package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Side indexes the six planes of a Frustum.
type Side int

// Frustum sides, in plane index order.
const (
	SideLeft Side = iota
	SideRight
	SideNear
	SideFar
	SideTop
	SideBottom

	SideFront = SideNear
	SideBack  = SideFar
)

var sideNames = [...]string{"left", "right", "near", "far", "top", "bottom"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "unknown"
	}
	return sideNames[s]
}

// Scope is the result of classifying a volume against a Frustum.
type Scope int

// Classification results.
const (
	ScopeOutside Scope = iota
	ScopeIntersect
	ScopeInside
)

func (s Scope) String() string {
	switch s {
	case ScopeOutside:
		return "outside"
	case ScopeIntersect:
		return "intersect"
	case ScopeInside:
		return "inside"
	default:
		return "unknown"
	}
}

// DepthRange is the clip space depth convention of a projection matrix.
type DepthRange int

const (
	// DepthNegativeOneToOne is the OpenGL convention, -w <= z <= w.
	DepthNegativeOneToOne DepthRange = iota
	// DepthZeroToOne is the Vulkan and Direct3D convention, 0 <= z <= w.
	DepthZeroToOne
)

// ExtractFrustumPlanes pulls the six clip planes out of a projection*view(*model) matrix with the
// Gribb-Hartmann row combination. Plane normals point into the visible region and are normalized.
func ExtractFrustumPlanes(mvp mgl64.Mat4, depth DepthRange) [6]Plane {
	r0, r1, r2, w := mvp.Row(0), mvp.Row(1), mvp.Row(2), mvp.Row(3)

	near := w.Add(r2)
	if depth == DepthZeroToOne {
		near = r2
	}
	rows := [6]mgl64.Vec4{
		SideLeft:   w.Add(r0),
		SideRight:  w.Sub(r0),
		SideNear:   near,
		SideFar:    w.Sub(r2),
		SideTop:    w.Sub(r1),
		SideBottom: w.Add(r1),
	}
	var planes [6]Plane
	for i, r := range rows {
		planes[i] = NewPlaneFromCoefficients(r[0], r[1], r[2], r[3])
	}
	return planes
}

// Frustum is the visible region of a camera, bounded by six inward facing planes. Build one with SetMatrix;
// the zero value has degenerate planes and classifies everything as inside.
type Frustum struct {
	planes [6]Plane
}

// NewFrustum returns the frustum of an OpenGL style projection*view matrix.
func NewFrustum(mvp mgl64.Mat4) Frustum {
	var f Frustum
	f.SetMatrix(mvp)
	return f
}

// SetMatrix rebuilds every plane from an OpenGL style (depth -1..1) projection*view matrix.
func (f *Frustum) SetMatrix(mvp mgl64.Mat4) {
	f.SetMatrixDepth(mvp, DepthNegativeOneToOne)
}

// SetMatrixDepth rebuilds every plane from a projection*view matrix with the given depth convention.
func (f *Frustum) SetMatrixDepth(mvp mgl64.Mat4, depth DepthRange) {
	f.planes = ExtractFrustumPlanes(mvp, depth)
}

// Plane returns the plane of one side. Sides outside the six defined ones panic.
func (f Frustum) Plane(side Side) Plane {
	return f.planes[side]
}

// PointIn returns ScopeInside or ScopeOutside; points never intersect.
func (f Frustum) PointIn(p r3.Vector) Scope {
	for _, pl := range f.planes {
		if pl.Distance(p) < 0 {
			return ScopeOutside
		}
	}
	return ScopeInside
}

// SphereIn classifies a sphere. An empty sphere is outside.
func (f Frustum) SphereIn(s BoundingSphere) Scope {
	if s.IsEmpty() {
		return ScopeOutside
	}
	return f.sphereIn(s.center, s.radius)
}

func (f Frustum) sphereIn(center r3.Vector, radius float64) Scope {
	result := ScopeInside
	for _, pl := range f.planes {
		d := pl.Distance(center)
		if d < -radius {
			return ScopeOutside
		}
		if d < radius {
			// a later plane can still reject the sphere
			result = ScopeIntersect
		}
	}
	return result
}

// BoxIn classifies an axis aligned box by testing its positive and negative vertex against each plane.
func (f Frustum) BoxIn(b AABB) Scope {
	if b.IsEmpty() {
		return ScopeOutside
	}
	return f.boxIn(b.VertexP, b.VertexN)
}

// OBBIn classifies an oriented box with the same vertex test, using the box support points.
func (f Frustum) OBBIn(o OBB) Scope {
	if o.IsEmpty() {
		return ScopeOutside
	}
	return f.boxIn(o.support, func(n r3.Vector) r3.Vector { return o.support(n.Mul(-1)) })
}

func (f Frustum) boxIn(vertexP, vertexN func(r3.Vector) r3.Vector) Scope {
	result := ScopeInside
	for _, pl := range f.planes {
		if pl.Distance(vertexP(pl.Normal)) < 0 {
			return ScopeOutside
		}
		if pl.Distance(vertexN(pl.Normal)) < 0 {
			result = ScopeIntersect
		}
	}
	return result
}

// VolumesIn classifies a composite volume: the sphere decides unless it straddles a plane, in which case
// the box refines the answer.
func (f Frustum) VolumesIn(bv BoundingVolumes) Scope {
	if bv.IsEmpty() {
		return ScopeOutside
	}
	if s := f.SphereIn(bv.sphere); s != ScopeIntersect {
		return s
	}
	return f.BoxIn(bv.aabb)
}
