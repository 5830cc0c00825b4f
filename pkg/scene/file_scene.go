package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewFileScene loads a JSON scene file and converts it into a validated scene
func NewFileScene(filename string) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}
	return FromSceneFile(sf)
}

// FromSceneFile converts a parsed scene file into a scene
func FromSceneFile(sf *loaders.SceneFile) (*Scene, error) {
	s := NewScene(sf.Name, vec3(sf.Eye), sf.Plane)
	if sf.Width > 0 && sf.Height > 0 {
		s.Hint = RenderHint{Width: sf.Width, Height: sf.Height}
	}

	for i, obj := range sf.Objects {
		mat := toMaterial(obj.Material)
		switch obj.Type {
		case loaders.ObjectSphere:
			s.AddSphere(vec3(obj.Position), obj.Radius, mat)
		case loaders.ObjectPlane:
			s.AddPlane(vec3(obj.Position), vec3(obj.Normal), mat)
		default:
			return nil, fmt.Errorf("%w: object %d has unknown type %q", ErrInvalidScene, i, obj.Type)
		}
	}

	for _, light := range sf.Lights {
		s.AddLight(vec3(light.Position), color(light.Color))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ToSceneFile converts a scene into its file form. Only spheres and planes
// can be written.
func ToSceneFile(s *Scene) (*loaders.SceneFile, error) {
	sf := &loaders.SceneFile{
		Name:   s.Name,
		Eye:    array3(s.Eye),
		Plane:  s.Plane,
		Width:  s.Hint.Width,
		Height: s.Hint.Height,
	}

	for i, obj := range s.Objects {
		switch p := obj.(type) {
		case *geometry.Sphere:
			sf.Objects = append(sf.Objects, loaders.ObjectSpec{
				Type:     loaders.ObjectSphere,
				Position: array3(p.Center),
				Radius:   p.Radius,
				Material: toMaterialSpec(p.Material),
			})
		case *geometry.Plane:
			sf.Objects = append(sf.Objects, loaders.ObjectSpec{
				Type:     loaders.ObjectPlane,
				Position: array3(p.Point),
				Normal:   array3(p.Normal),
				Material: toMaterialSpec(p.Material),
			})
		default:
			return nil, fmt.Errorf("object %d: cannot write %T to a scene file", i, obj)
		}
	}

	for _, light := range s.Lights {
		sf.Lights = append(sf.Lights, loaders.LightSpec{
			Position: array3(light.Position),
			Color:    loaders.ColorValue{light.Color.R, light.Color.G, light.Color.B},
		})
	}

	return sf, nil
}

func toMaterial(spec loaders.MaterialSpec) material.Material {
	power := spec.Power
	if power == 0 {
		power = material.DefaultPower
	}
	return material.NewMaterial(color(spec.Diffuse), spec.Reflection, power)
}

func toMaterialSpec(m material.Material) loaders.MaterialSpec {
	return loaders.MaterialSpec{
		Diffuse:    loaders.ColorValue{m.Diffuse.R, m.Diffuse.G, m.Diffuse.B},
		Reflection: m.Reflection,
		Power:      m.Power,
	}
}

func vec3(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func array3(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func color(c loaders.ColorValue) core.Color {
	return core.NewColor(c[0], c[1], c[2])
}
