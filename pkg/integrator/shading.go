package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Lambert adds the diffuse contribution of light to pixel. lightRay points
// from the surface toward the light. The cosine is clamped at zero so a light
// behind the surface contributes nothing even if the caller did not filter it.
func Lambert(pixel *core.Color, lightRay core.Ray, light lights.PointLight, normal core.Vec3, mat material.Material, coef float64) {
	l := math.Max(lightRay.Direction.Dot(normal), 0) * coef
	*pixel = pixel.Add(light.Color.MultiplyColor(mat.Diffuse).Multiply(l))
}

// Phong adds the specular highlight of light to pixel. The highlight takes
// the light's color; materials do not tint it.
func Phong(pixel *core.Color, viewRay, lightRay core.Ray, light lights.PointLight, normal core.Vec3, mat material.Material, coef float64) {
	reflected := lightRay.Direction.Reflect(normal)
	term := math.Pow(math.Max(reflected.Dot(viewRay.Direction), 0), mat.Power) * coef
	*pixel = pixel.Add(light.Color.Multiply(term))
}
