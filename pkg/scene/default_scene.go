package scene

import (
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Checkerboard used on the ground when no texture file is given.
// At 100 texels per world unit one check spans half a unit.
const (
	defaultTextureSize = 200
	defaultCheckSize   = 50
)

var (
	checkLight = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	checkDark  = color.RGBA{R: 90, G: 90, B: 110, A: 255}
)

// NewDefaultScene creates the default scene: one sphere resting above a
// ground plane, lit by a single bright point light. A nil texture is
// replaced by a procedural checkerboard.
func NewDefaultScene(texture core.Texture) (*Scene, error) {
	if texture == nil {
		texture = NewDefaultTexture()
	}

	ground := material.NewMaterial("ground")

	shapes := []core.Shape{
		geometry.NewSphere(core.NewVec3(0, 0.4, 1.0), 0.8, ground),
		geometry.NewPlane(core.NewVec3(0, 0, 1), 0, ground),
	}
	lights := []core.Light{
		core.NewLight(core.NewVec3(-2, -2, 3), core.NewVec3(5, 5, 5)),
	}

	return NewScene(shapes, lights, texture)
}

// NewDefaultTexture returns the procedural ground checkerboard
func NewDefaultTexture() core.Texture {
	return material.NewCheckerboardTexture(defaultTextureSize, defaultTextureSize, defaultCheckSize, checkLight, checkDark)
}
