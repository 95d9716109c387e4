package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance arriving along ray, recursing at most
	// depth times. A non-nil error reports contributions that were skipped;
	// the returned radiance is still usable.
	RayColor(ray core.Ray, scene *scene.Scene, depth int) (core.Vec3, error)
}
