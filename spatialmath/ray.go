package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Ray is a half-line starting at Origin and extending along Direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay returns a ray with a normalized direction. A zero direction is kept as is; every
// intersection test treats it as parallel to all slabs.
func NewRay(origin, direction r3.Vector) Ray {
	if l := direction.Norm(); l > 0 {
		direction = direction.Mul(1 / l)
	}
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// String returns a human readable string that represents the ray.
func (r Ray) String() string {
	return fmt.Sprintf("Ray | Origin: X:%.3f, Y:%.3f, Z:%.3f | Direction: X:%.3f, Y:%.3f, Z:%.3f",
		r.Origin.X, r.Origin.Y, r.Origin.Z, r.Direction.X, r.Direction.Y, r.Direction.Z)
}
