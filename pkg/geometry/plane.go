package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// normalTolerance bounds how far a plane normal may stray from unit length
const normalTolerance = 1e-6

// Plane is the boundary of the half-space normal·p >= Height.
// Only rays starting on the visible side can hit it.
type Plane struct {
	Normal   core.Vec3 // Unit normal pointing into the visible side
	Height   float64
	Material *material.Material
}

// NewPlane creates a new plane. The normal is stored as given; call
// Validate to check it is unit length.
func NewPlane(normal core.Vec3, height float64, mat *material.Material) *Plane {
	return &Plane{
		Normal:   normal,
		Height:   height,
		Material: mat,
	}
}

// Validate rejects planes whose normal is not unit length
func (p *Plane) Validate() error {
	if math.Abs(p.Normal.Length()-1) > normalTolerance {
		return fmt.Errorf("plane normal %v must have unit length, got %g", p.Normal, p.Normal.Length())
	}
	if math.IsNaN(p.Height) || math.IsInf(p.Height, 0) {
		return fmt.Errorf("plane height must be finite, got %g", p.Height)
	}
	return nil
}

// Hit tests if a ray intersects with the plane. No surface bias is
// applied to the hit point.
func (p *Plane) Hit(ray core.Ray) (*core.Hit, bool) {
	originHeight := p.Normal.Dot(ray.Origin) - p.Height
	if originHeight < 0 {
		return nil, false
	}

	// Parallel or diverging rays never reach the plane
	rate := -p.Normal.Dot(ray.Direction)
	if rate <= 0 {
		return nil, false
	}

	travel := originHeight / rate
	hit, err := core.NewHit(ray.At(travel), ray.Direction, p.Normal, travel, p)
	if err != nil {
		return nil, false
	}
	return hit, true
}
