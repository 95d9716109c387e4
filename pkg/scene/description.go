package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Vec3Cfg is a vector in a scene description
type Vec3Cfg [3]float64

// Vec converts the description vector to a core.Vec3
func (v Vec3Cfg) Vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SphereCfg describes a sphere. Shapes naming the same material share it;
// an empty name gets a material of its own.
type SphereCfg struct {
	Material string  `json:"material,omitempty"`
	Center   Vec3Cfg `json:"center"`
	Radius   float64 `json:"radius"`
}

// PlaneCfg describes a plane, visible from the side Normal points to.
// Normal must be a unit vector.
type PlaneCfg struct {
	Material string  `json:"material,omitempty"`
	Normal   Vec3Cfg `json:"normal"`
	Height   float64 `json:"height"`
}

// LightCfg describes a point light with a per-channel color
type LightCfg struct {
	Position Vec3Cfg `json:"position"`
	Color    Vec3Cfg `json:"color"`
}

// Description is the literal form of a scene, as read from JSON
type Description struct {
	Name    string      `json:"name,omitempty"`
	Texture string      `json:"texture,omitempty"` // Image path for the plane texture
	Spheres []SphereCfg `json:"spheres,omitempty"`
	Planes  []PlaneCfg  `json:"planes,omitempty"`
	Lights  []LightCfg  `json:"lights,omitempty"`
}

// Build turns the description into a validated scene. Shapes with the
// same material name share one Material. Spheres come before planes in
// scan order.
func (d *Description) Build(texture core.Texture) (*Scene, error) {
	materials := make(map[string]*material.Material)
	lookup := func(name string) *material.Material {
		if name == "" {
			name = "default"
		}
		if m, ok := materials[name]; ok {
			return m
		}
		m := material.NewMaterial(name)
		materials[name] = m
		return m
	}

	shapes := make([]core.Shape, 0, len(d.Spheres)+len(d.Planes))
	for _, s := range d.Spheres {
		shapes = append(shapes, geometry.NewSphere(s.Center.Vec(), s.Radius, lookup(s.Material)))
	}
	for _, p := range d.Planes {
		shapes = append(shapes, geometry.NewPlane(p.Normal.Vec(), p.Height, lookup(p.Material)))
	}

	lights := make([]core.Light, 0, len(d.Lights))
	for _, l := range d.Lights {
		lights = append(lights, core.NewLight(l.Position.Vec(), l.Color.Vec()))
	}

	s, err := NewScene(shapes, lights, texture)
	if err != nil {
		if d.Name != "" {
			return nil, fmt.Errorf("scene %q: %w", d.Name, err)
		}
		return nil, err
	}
	return s, nil
}
