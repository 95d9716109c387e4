package core

// Light is a point light. Color is a radiant intensity per channel and
// may exceed 1 for bright sources.
type Light struct {
	Position Vec3
	Color    Vec3
}

// NewLight creates a new point light
func NewLight(position, color Vec3) Light {
	return Light{Position: position, Color: color}
}
