package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the default scene: three spheres in a grey room
// open toward the camera, lit by a strong overhead light and a weak fill light.
func NewDefaultScene() *Scene {
	s := NewScene("default", core.NewVec3(0, 100, 180), 10)
	s.Hint = RenderHint{Width: 500, Height: 500}

	// Create materials
	blue := material.NewMaterial(core.NewColor(0, 0, 1), 0.5, material.DefaultPower)
	red := material.NewMaterial(core.NewColor(1, 0, 0), 0.5, material.DefaultPower)
	yellow := material.NewMaterial(core.NewColor(1, 1, 0), 0.5, material.DefaultPower)
	grey := core.NewColor(0.5, 0.5, 0.5)

	// Spheres, right to left
	s.AddSphere(core.NewVec3(100, 0, 0), 50, blue)
	s.AddSphere(core.NewVec3(0, 0, -20), 50, red)
	s.AddSphere(core.NewVec3(-100, 0, 0), 50, yellow)

	// Bottom
	s.AddPlane(core.NewVec3(0, -40, 0), core.NewVec3(0, 1, 0),
		material.NewMaterial(grey, 0.3, material.DefaultPower))
	// Right
	s.AddPlane(core.NewVec3(180, 0, 0), core.NewVec3(-1, 0, 0),
		material.NewMaterial(grey, 0.3, material.DefaultPower))
	// Left
	s.AddPlane(core.NewVec3(-180, 0, 0), core.NewVec3(1, 0, 0),
		material.NewMaterial(grey, 0.1, material.DefaultPower))

	s.AddLight(core.NewVec3(0, 500, 0), core.NewColor(0.6, 0.6, 0.6))
	s.AddLight(core.NewVec3(200, 300, 300), core.NewColor(0.2, 0.2, 0.2))

	return s
}
