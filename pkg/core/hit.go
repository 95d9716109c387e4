package core

// Hit describes where a ray met a shape.
//
// Normal and Reflection are unit length. Travel is the ray parameter of
// the intersection, never negative. Shape identifies what was hit so the
// shading step can look up material and texture.
type Hit struct {
	Point      Vec3
	Incoming   Vec3
	Normal     Vec3
	Reflection Vec3
	Travel     float64
	Shape      Shape
}

// NewHit builds a hit for a ray with unit direction incoming striking a
// surface with unit normal. The reflection is computed from the two.
func NewHit(point, incoming, normal Vec3, travel float64, shape Shape) (*Hit, error) {
	reflection, err := incoming.Reflect(normal).Normalize()
	if err != nil {
		return nil, err
	}
	return &Hit{
		Point:      point,
		Incoming:   incoming,
		Normal:     normal,
		Reflection: reflection,
		Travel:     travel,
		Shape:      shape,
	}, nil
}
