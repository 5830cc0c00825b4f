package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewSingleSphereScene creates a matte white sphere of radius 50 on the
// camera axis with one light above and in front of it. Every ray that misses
// the sphere stays black.
func NewSingleSphereScene() *Scene {
	s := NewScene("single-sphere", core.NewVec3(0, 0, 200), 0)
	s.Hint = RenderHint{Width: 200, Height: 200}

	s.AddSphere(core.NewVec3(0, 0, 0), 50, material.NewMatte(core.NewColor(1, 1, 1)))
	s.AddLight(core.NewVec3(0, 200, 200), core.NewColor(1, 1, 1))

	return s
}
