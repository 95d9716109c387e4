package integrator

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// SpecularExponent sharpens the Phong highlight
	SpecularExponent = 15.0
	// Reflectivity scales the mirror bounce for every surface
	Reflectivity = 0.8
	// TextureScale is texels per world unit on the textured plane
	TextureScale = 100.0
)

// WhittedIntegrator shades hits with point-light direct lighting, a Phong
// highlight and a single mirror bounce per level of recursion.
// It holds no state and is safe for concurrent use.
type WhittedIntegrator struct{}

// NewWhittedIntegrator creates a new Whitted-style integrator
func NewWhittedIntegrator() *WhittedIntegrator {
	return &WhittedIntegrator{}
}

// RayColor computes the radiance for a single ray.
//
// Lights whose direction cannot be formed (a light sitting on the hit
// point) are skipped and reported in the returned error.
func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene, depth int) (core.Vec3, error) {
	hit, isHit := s.Hit(ray)
	if !isHit {
		return core.Vec3{}, nil
	}

	var errs []error
	energy := core.Vec3{}

	for i, light := range s.Lights() {
		contribution, err := w.directLight(s, hit, light)
		if err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
			continue
		}
		energy = energy.Add(contribution)
	}

	if depth > 0 {
		reflected, err := w.reflectedLight(s, hit, depth)
		if err != nil {
			errs = append(errs, err)
		}
		energy = energy.Add(reflected)
	}

	if _, isPlane := hit.Shape.(*geometry.Plane); isPlane && s.Texture() != nil {
		energy = energy.MultiplyVec(TexelColor(s.Texture(), hit.Point))
	}

	return energy, errors.Join(errs...)
}

// directLight returns the contribution of one light at hit, or zero when
// the light is occluded. The Lambertian term is not clamped.
func (w *WhittedIntegrator) directLight(s *scene.Scene, hit *core.Hit, light core.Light) (core.Vec3, error) {
	shadow, distance, visible, err := LightVisibility(s, hit.Point, light)
	if err != nil || !visible {
		return core.Vec3{}, err
	}

	rawEnergy := light.Color.Multiply(1.0 / (distance * distance))
	lambertian := hit.Normal.Dot(shadow.Direction)
	phong := math.Pow(math.Max(0, hit.Reflection.Dot(shadow.Direction)), SpecularExponent)

	return rawEnergy.Multiply(lambertian + phong), nil
}

// reflectedLight follows the mirror direction one level deeper
func (w *WhittedIntegrator) reflectedLight(s *scene.Scene, hit *core.Hit, depth int) (core.Vec3, error) {
	reflected, err := core.NewRay(hit.Point, hit.Reflection)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("reflection: %w", err)
	}

	color, err := w.RayColor(reflected, s, depth-1)
	return color.Multiply(Reflectivity), err
}

// LightVisibility casts a shadow ray from point toward light. The light is
// visible when nothing is hit, or the first hit lies beyond the light.
func LightVisibility(s *scene.Scene, point core.Vec3, light core.Light) (shadow core.Ray, distance float64, visible bool, err error) {
	toLight := light.Position.Subtract(point)
	shadow, err = core.NewRay(point, toLight)
	if err != nil {
		return core.Ray{}, 0, false, err
	}

	distance = toLight.Length()
	shadowHit, blocked := s.Hit(shadow)
	return shadow, distance, !blocked || shadowHit.Travel > distance, nil
}

// TexelColor samples texture under the world-space point, scaling x and y
// by TextureScale around the texture's midpoint. The result is in [0, 1].
func TexelColor(texture core.Texture, point core.Vec3) core.Vec3 {
	u := texelIndex(point.X, texture.Width())
	v := texelIndex(point.Y, texture.Height())
	c := texture.At(u, v)
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// texelIndex maps a world coordinate to a texel in [0, size)
func texelIndex(coord float64, size int) int {
	n := float64(size)
	i := math.Mod(math.Floor(coord*TextureScale+n/2), n)
	if math.IsNaN(i) {
		return 0
	}
	if i < 0 {
		i += n
	}
	return int(i)
}
