package material

// Material is attached to every shape. It holds no shading parameters
// yet; reflectivity and the specular exponent are fixed by the integrator.
type Material struct {
	Name string
}

// NewMaterial creates a new named material
func NewMaterial(name string) *Material {
	return &Material{Name: name}
}
