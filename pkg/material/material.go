package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned by Validate for out-of-range parameters
var ErrInvalidMaterial = errors.New("invalid material")

// Material describes how a surface responds to point lights and how much
// energy it hands on to the reflected ray.
type Material struct {
	Diffuse    core.Color // Lambertian color, multiplied by the light color
	Reflection float64    // Fraction of energy carried by the reflected ray, in [0,1]
	Power      float64    // Phong shininess exponent, > 0
}

// NewMaterial creates a new material
func NewMaterial(diffuse core.Color, reflection, power float64) Material {
	return Material{
		Diffuse:    diffuse,
		Reflection: reflection,
		Power:      power,
	}
}

// NewMatte creates a non-reflective material with the default shininess
func NewMatte(diffuse core.Color) Material {
	return NewMaterial(diffuse, 0, DefaultPower)
}

// DefaultPower is the shininess used by the built-in scenes
const DefaultPower = 60.0

// IsReflective reports whether a reflected ray would carry any energy
func (m Material) IsReflective() bool {
	return m.Reflection > 0
}

// Validate checks the material parameters
func (m Material) Validate() error {
	if m.Reflection < 0 || m.Reflection > 1 {
		return fmt.Errorf("%w: reflection %g outside [0,1]", ErrInvalidMaterial, m.Reflection)
	}
	if !(m.Power > 0) {
		return fmt.Errorf("%w: power %g must be positive", ErrInvalidMaterial, m.Power)
	}
	if m.Diffuse.R < 0 || m.Diffuse.G < 0 || m.Diffuse.B < 0 {
		return fmt.Errorf("%w: negative diffuse color %v", ErrInvalidMaterial, m.Diffuse)
	}
	return nil
}
