package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidScene is returned by Validate
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering. It is built once and
// must not be modified while a render is running.
type Scene struct {
	Name    string
	Objects []geometry.Primitive // Objects in the scene, in hit tie-break order
	Lights  []lights.PointLight  // Lights in the scene
	Eye     core.Vec3            // Camera position
	Plane   float64              // z coordinate of the projection plane
	Hint    RenderHint           // Recommended output size
}

// RenderHint is the image size a scene was composed for
type RenderHint struct {
	Width  int
	Height int
}

// DefaultRenderHint is used by scenes that do not specify a size
var DefaultRenderHint = RenderHint{Width: 500, Height: 500}

// NewScene creates an empty scene
func NewScene(name string, eye core.Vec3, plane float64) *Scene {
	return &Scene{
		Name:    name,
		Objects: make([]geometry.Primitive, 0),
		Lights:  make([]lights.PointLight, 0),
		Eye:     eye,
		Plane:   plane,
		Hint:    DefaultRenderHint,
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.Objects = append(s.Objects, sphere)
	return sphere
}

// AddPlane appends a plane to the scene
func (s *Scene) AddPlane(point, normal core.Vec3, mat material.Material) *geometry.Plane {
	plane := geometry.NewPlane(point, normal, mat)
	s.Objects = append(s.Objects, plane)
	return plane
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(position core.Vec3, color core.Color) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color))
}

// Validate checks that every object is well formed and that no primary ray
// can be degenerate.
func (s *Scene) Validate() error {
	if !s.Eye.IsFinite() {
		return fmt.Errorf("%w: eye %v is not finite", ErrInvalidScene, s.Eye)
	}
	// A primary ray toward the eye itself would have zero length
	if s.Eye.Z == s.Plane {
		return fmt.Errorf("%w: projection plane z=%g passes through the eye", ErrInvalidScene, s.Plane)
	}
	for i, obj := range s.Objects {
		if obj == nil {
			return fmt.Errorf("%w: object %d is nil", ErrInvalidScene, i)
		}
		if v, ok := obj.(geometry.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%w: object %d: %w", ErrInvalidScene, i, err)
			}
		}
	}
	for i, light := range s.Lights {
		if !light.Position.IsFinite() {
			return fmt.Errorf("%w: light %d position %v is not finite", ErrInvalidScene, i, light.Position)
		}
	}
	return nil
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
