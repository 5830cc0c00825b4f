package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(
		math.Max(0, math.Min(1, r)),
		math.Max(0, math.Min(1, g)),
		math.Max(0, math.Min(1, blue)),
	)
}

// NewSphereGridScene creates a grid of glossy spheres on a floor, hue varying
// across x and chroma across z
func NewSphereGridScene() *Scene {
	s := NewScene("sphere-grid", core.NewVec3(0, 220, 420), 150)
	s.Hint = RenderHint{Width: 640, Height: 360}

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		material.NewMaterial(core.NewColor(0.5, 0.5, 0.5), 0.25, material.DefaultPower))

	gridSize := 6
	spacing := 70.0
	radius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.7
	minChroma := 0.05
	maxChroma := 0.25

	offset := spacing * float64(gridSize-1) / 2.0
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - offset
			z := float64(j)*spacing - offset - 100
			center := core.NewVec3(x, radius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			// Alternate between polished and dull spheres
			reflection := 0.2 + 0.3*float64((i+j)%3)/2.0
			mat := material.NewMaterial(oklchToRGB(lightness, chroma, hue), reflection, 40+20*float64(j))

			s.AddSphere(center, radius, mat)
		}
	}

	s.AddLight(core.NewVec3(300, 600, 400), core.NewColor(0.7, 0.68, 0.62))
	s.AddLight(core.NewVec3(-400, 300, 200), core.NewColor(0.2, 0.22, 0.3))

	return s
}
