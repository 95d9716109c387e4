package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidScene is wrapped by every scene construction failure
var ErrInvalidScene = errors.New("invalid scene")

// Validator is implemented by shapes that can check their own parameters
type Validator interface {
	Validate() error
}

// Scene holds the shapes, lights and plane texture of a render.
// It is read-only once built and safe to share between goroutines.
type Scene struct {
	shapes  []core.Shape
	lights  []core.Light
	texture core.Texture // Optional; applied to plane hits only
}

// NewScene validates and copies its inputs into a new scene.
// texture may be nil.
func NewScene(shapes []core.Shape, lights []core.Light, texture core.Texture) (*Scene, error) {
	for i, shape := range shapes {
		if shape == nil {
			return nil, fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		}
		if validator, ok := shape.(Validator); ok {
			if err := validator.Validate(); err != nil {
				return nil, fmt.Errorf("%w: shape %d: %v", ErrInvalidScene, i, err)
			}
		}
	}

	for i, light := range lights {
		if !isFiniteVec(light.Position) || !isFiniteVec(light.Color) {
			return nil, fmt.Errorf("%w: light %d has non-finite position or color", ErrInvalidScene, i)
		}
	}

	if texture != nil && (texture.Width() <= 0 || texture.Height() <= 0) {
		return nil, fmt.Errorf("%w: texture must have positive size, got %dx%d",
			ErrInvalidScene, texture.Width(), texture.Height())
	}

	return &Scene{
		shapes:  append([]core.Shape(nil), shapes...),
		lights:  append([]core.Light(nil), lights...),
		texture: texture,
	}, nil
}

// Hit returns the nearest hit along ray across all shapes.
// Shapes are scanned linearly in insertion order.
func (s *Scene) Hit(ray core.Ray) (*core.Hit, bool) {
	var closest *core.Hit
	bestTravel := math.Inf(1)

	for _, shape := range s.shapes {
		if hit, ok := shape.Hit(ray); ok && hit.Travel < bestTravel {
			bestTravel = hit.Travel
			closest = hit
		}
	}

	return closest, closest != nil
}

// Shapes returns a copy of the scene's shapes
func (s *Scene) Shapes() []core.Shape {
	return append([]core.Shape(nil), s.shapes...)
}

// Lights returns the scene's lights. Callers must not modify the slice.
func (s *Scene) Lights() []core.Light {
	return s.lights
}

// Texture returns the plane texture, or nil
func (s *Scene) Texture() core.Texture {
	return s.texture
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.shapes)
}

func isFiniteVec(v core.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
