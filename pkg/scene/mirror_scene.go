package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorScene creates two strongly reflective spheres between a floor and
// a back wall. Rays bounce between the spheres until the depth limit cuts
// them off.
func NewMirrorScene() *Scene {
	s := NewScene("mirror", core.NewVec3(0, 60, 300), 50)
	s.Hint = RenderHint{Width: 400, Height: 300}

	chrome := material.NewMaterial(core.NewColor(0.1, 0.1, 0.1), 0.95, 200)
	gold := material.NewMaterial(core.NewColor(0.3, 0.25, 0.05), 0.9, 120)

	s.AddSphere(core.NewVec3(-60, 20, -40), 60, chrome)
	s.AddSphere(core.NewVec3(70, 10, -20), 50, gold)

	s.AddPlane(core.NewVec3(0, -40, 0), core.NewVec3(0, 1, 0),
		material.NewMaterial(core.NewColor(0.2, 0.4, 0.3), 0.2, material.DefaultPower))
	s.AddPlane(core.NewVec3(0, 0, -300), core.NewVec3(0, 0, 1),
		material.NewMaterial(core.NewColor(0.4, 0.3, 0.5), 0.0, material.DefaultPower))

	s.AddLight(core.NewVec3(-200, 400, 200), core.NewColor(0.7, 0.7, 0.7))
	s.AddLight(core.NewVec3(300, 150, 100), core.NewColor(0.3, 0.25, 0.2))

	return s
}
