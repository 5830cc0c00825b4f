package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive is a surface that can be hit by rays.
// Intersect reports the closest hit with a ray parameter in (epsilon, tMax);
// epsilon is core.Epsilon for spheres and core.PlaneEpsilon for planes.
type Primitive interface {
	Intersect(ray core.Ray, tMax float64) core.Intersection
	GetMaterial() material.Material
}

// Validator is implemented by primitives that can check their own geometry
type Validator interface {
	Validate() error
}
