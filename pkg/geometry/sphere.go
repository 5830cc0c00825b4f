package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidGeometry is returned by Validate for degenerate primitives
var ErrInvalidGeometry = errors.New("invalid geometry")

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, tMax float64) core.Intersection {
	// Vector from ray origin to sphere center
	dist := s.Center.Subtract(ray.Origin)
	b := ray.Direction.Dot(dist)
	d := b*b - dist.Dot(dist) + s.Radius*s.Radius

	if d < 0 {
		return core.Miss(tMax)
	}

	sqrtD := math.Sqrt(d)
	t0 := b - sqrtD
	t1 := b + sqrtD

	// Both roots are tested in order against a shrinking bound, so t1 only
	// wins when t0 is behind the bias.
	t := tMax
	hit := false
	if t0 > core.Epsilon && t0 < t {
		t = t0
		hit = true
	}
	if t1 > core.Epsilon && t1 < t {
		t = t1
		hit = true
	}

	if !hit {
		return core.Miss(tMax)
	}

	position := ray.At(t)
	return core.Intersection{
		T:        t,
		Hit:      true,
		Normal:   position.Subtract(s.Center).Normalize(),
		Position: position,
	}
}

// GetMaterial returns the sphere's material
func (s *Sphere) GetMaterial() material.Material {
	return s.Material
}

// Validate checks that the sphere has a positive finite radius
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: sphere radius %g must be positive", ErrInvalidGeometry, s.Radius)
	}
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: sphere center %v is not finite", ErrInvalidGeometry, s.Center)
	}
	return s.Material.Validate()
}
