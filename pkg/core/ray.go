package core

// Ray represents a ray with an origin and a unit-length direction.
// Construct rays with NewRay; the zero value is not a valid ray.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing direction.
// It fails with a DegenerateVectorError when direction has no length.
func NewRay(origin, direction Vec3) (Ray, error) {
	unit, err := direction.Normalize()
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: origin, Direction: unit}, nil
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
