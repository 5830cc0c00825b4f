package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an infinitely small light. Its intensity does not fall off
// with distance.
type PointLight struct {
	Position core.Vec3
	Color    core.Color
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, color core.Color) PointLight {
	return PointLight{Position: position, Color: color}
}

// LightSample describes the segment from a surface point to a light
type LightSample struct {
	Direction core.Vec3 // Unit direction from the surface point to the light
	Distance  float64   // Distance to the light
}

// Sample returns the direction and distance from point to the light.
// ok is false when the light sits on the back side of the surface with the
// given normal, or exactly at the point.
func (l PointLight) Sample(point, normal core.Vec3) (LightSample, bool) {
	dist := l.Position.Subtract(point)
	if normal.Dot(dist) <= 0 {
		return LightSample{}, false
	}

	t := dist.Length()
	if t <= 0 {
		return LightSample{}, false
	}

	return LightSample{
		Direction: dist.Multiply(1.0 / t),
		Distance:  t,
	}, true
}
