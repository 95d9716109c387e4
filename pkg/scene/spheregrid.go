package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SphereGridSceneID names the built-in sphere grid scene
const SphereGridSceneID = "sphere-grid"

// NewSphereGridScene creates a gridSize x gridSize grid of spheres resting
// on the ground plane in front of the default camera. texture may be nil.
func NewSphereGridScene(gridSize int, texture core.Texture) (*Scene, error) {
	if gridSize < 1 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidScene, gridSize)
	}

	// Fit the grid into a 4x4 area starting just in front of the camera's focus
	targetArea := 4.0
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}

	// Scale sphere radius based on spacing, but keep reasonable minimum/maximum
	sphereRadius := spacing * 0.35
	sphereRadius = math.Max(0.02, math.Min(0.5, sphereRadius))

	mirror := material.NewMaterial("mirror")
	shapes := make([]core.Shape, 0, gridSize*gridSize+1)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2
			y := float64(j)*spacing + 0.5
			center := core.NewVec3(x, y, sphereRadius) // Sphere sits on ground plane
			shapes = append(shapes, geometry.NewSphere(center, sphereRadius, mirror))
		}
	}
	shapes = append(shapes, geometry.NewPlane(core.NewVec3(0, 0, 1), 0, material.NewMaterial("ground")))

	lights := []core.Light{
		core.NewLight(core.NewVec3(-3, -2, 4), core.NewVec3(6, 6, 6)),
		core.NewLight(core.NewVec3(4, 2, 3), core.NewVec3(2, 2, 2.5)),
	}

	return NewScene(shapes, lights, texture)
}
