package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane. The normal is normalized here so that
// intersections can return it unchanged.
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray, tMax float64) core.Intersection {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) <= core.PlaneEpsilon {
		return core.Miss(tMax)
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < core.PlaneEpsilon || t >= tMax {
		return core.Miss(tMax)
	}

	return core.Intersection{
		T:        t,
		Hit:      true,
		Normal:   p.Normal,
		Position: ray.At(t),
	}
}

// GetMaterial returns the plane's material
func (p *Plane) GetMaterial() material.Material {
	return p.Material
}

// Validate checks that the plane normal is a usable direction
func (p *Plane) Validate() error {
	if !p.Normal.IsFinite() || p.Normal.IsZero() {
		return fmt.Errorf("%w: plane normal %v is degenerate", ErrInvalidGeometry, p.Normal)
	}
	if !p.Point.IsFinite() {
		return fmt.Errorf("%w: plane point %v is not finite", ErrInvalidGeometry, p.Point)
	}
	return p.Material.Validate()
}
