package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const shadingTolerance = 1e-9

func colorsClose(a, b core.Color) bool {
	return math.Abs(a.R-b.R) < shadingTolerance &&
		math.Abs(a.G-b.G) < shadingTolerance &&
		math.Abs(a.B-b.B) < shadingTolerance
}

func TestLambert(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	mat := material.NewMatte(core.NewColor(1, 0.5, 0))
	light := lights.NewPointLight(core.NewVec3(0, 100, 0), core.NewColor(1, 1, 1))

	tests := []struct {
		name     string
		lightDir core.Vec3
		coef     float64
		start    core.Color
		expected core.Color
	}{
		{
			name:     "Overhead",
			lightDir: core.NewVec3(0, 1, 0),
			coef:     1,
			expected: core.NewColor(1, 0.5, 0),
		},
		{
			name:     "SixtyDegreesHalfCoef",
			lightDir: core.NewVec3(math.Sqrt(3)/2, 0.5, 0),
			coef:     0.5,
			expected: core.NewColor(0.25, 0.125, 0),
		},
		{
			name:     "Accumulates",
			lightDir: core.NewVec3(0, 1, 0),
			coef:     0.5,
			start:    core.NewColor(0.1, 0.2, 0.3),
			expected: core.NewColor(0.6, 0.45, 0.3),
		},
		{
			name:     "BehindSurfaceClamped",
			lightDir: core.NewVec3(0, -1, 0),
			coef:     1,
			start:    core.NewColor(0.1, 0.1, 0.1),
			expected: core.NewColor(0.1, 0.1, 0.1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixel := tt.start
			lightRay := core.NewRay(core.NewVec3(0, 0, 0), tt.lightDir)
			Lambert(&pixel, lightRay, light, normal, mat, tt.coef)
			if !colorsClose(pixel, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, pixel)
			}
		})
	}
}

func TestPhong(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	light := lights.NewPointLight(core.NewVec3(0, 100, 0), core.NewColor(0.5, 0.25, 1))
	lightRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name     string
		viewDir  core.Vec3
		power    float64
		coef     float64
		expected core.Color
	}{
		{
			// Reflected light direction lines up with the incoming view ray
			name:     "MirrorAligned",
			viewDir:  core.NewVec3(0, -1, 0),
			power:    60,
			coef:     1,
			expected: core.NewColor(0.5, 0.25, 1),
		},
		{
			name:     "HalfCosineSquared",
			viewDir:  core.NewVec3(math.Sqrt(3)/2, -0.5, 0),
			power:    2,
			coef:     1,
			expected: core.NewColor(0.125, 0.0625, 0.25),
		},
		{
			name:     "ScaledByCoef",
			viewDir:  core.NewVec3(0, -1, 0),
			power:    10,
			coef:     0.2,
			expected: core.NewColor(0.1, 0.05, 0.2),
		},
		{
			name:     "FacingAwayAddsNothing",
			viewDir:  core.NewVec3(0, 1, 0),
			power:    60,
			coef:     1,
			expected: core.Black,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixel := core.Black
			mat := material.NewMaterial(core.NewColor(1, 1, 1), 0, tt.power)
			viewRay := core.NewRay(core.NewVec3(0, 10, 0), tt.viewDir)
			Phong(&pixel, viewRay, lightRay, light, normal, mat, tt.coef)
			if !colorsClose(pixel, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, pixel)
			}
		})
	}
}
