package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SurfaceBias is how far a sphere hit point is pulled back along the ray
// so rays leaving the surface do not re-hit it.
const SurfaceBias = 1e-2

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Validate rejects spheres that cannot be intersected meaningfully
func (s *Sphere) Validate() error {
	for _, c := range []float64{s.Center.X, s.Center.Y, s.Center.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("sphere center must be finite, got %v", s.Center)
		}
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere radius must be positive and finite, got %g", s.Radius)
	}
	return nil
}

// Hit tests if a ray intersects with the sphere.
//
// Only the near root is considered, so a ray starting inside the sphere
// misses it.
func (s *Sphere) Hit(ray core.Ray) (*core.Hit, bool) {
	offset := s.Center.Subtract(ray.Origin)
	baseD := ray.Direction.Dot(offset)
	discriminant := baseD*baseD - offset.LengthSquared() + s.Radius*s.Radius

	if discriminant < 0 {
		return nil, false
	}

	travel := baseD - math.Sqrt(discriminant)
	if travel < 0 {
		return nil, false
	}

	point := ray.At(travel - SurfaceBias)
	normal, err := point.Subtract(s.Center).Normalize()
	if err != nil {
		return nil, false
	}

	hit, err := core.NewHit(point, ray.Direction, normal, travel, s)
	if err != nil {
		return nil, false
	}
	return hit, true
}
