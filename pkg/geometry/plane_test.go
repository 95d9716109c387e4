package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 1), 0, nil)

	tests := []struct {
		name           string
		origin         core.Vec3
		direction      core.Vec3
		expectedTravel float64
		expectedPoint  core.Vec3
	}{
		{
			name:           "straight down",
			origin:         core.NewVec3(0, 0, 2),
			direction:      core.NewVec3(0, 0, -1),
			expectedTravel: 2,
			expectedPoint:  core.NewVec3(0, 0, 0),
		},
		{
			name:           "oblique",
			origin:         core.NewVec3(0, 0, 1),
			direction:      core.NewVec3(1, 0, -1),
			expectedTravel: math.Sqrt2,
			expectedPoint:  core.NewVec3(1, 0, 0),
		},
		{
			name:           "origin on plane",
			origin:         core.NewVec3(3, 4, 0),
			direction:      core.NewVec3(0, 1, -1),
			expectedTravel: 0,
			expectedPoint:  core.NewVec3(3, 4, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(mustRay(t, tt.origin, tt.direction))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.Travel-tt.expectedTravel) > 1e-9 {
				t.Errorf("Expected travel %f, got %f", tt.expectedTravel, hit.Travel)
			}
			if !hit.Point.Equals(tt.expectedPoint, 1e-9) {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if hit.Normal != plane.Normal {
				t.Errorf("Expected fixed normal %v, got %v", plane.Normal, hit.Normal)
			}
			if math.Abs(hit.Reflection.Length()-1) > 1e-6 {
				t.Errorf("Reflection not unit length: %v", hit.Reflection)
			}
			if hit.Reflection.Z < 0 {
				t.Errorf("Reflection should leave the plane, got %v", hit.Reflection)
			}
		})
	}
}

func TestPlane_Hit_Miss(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 1), 0.5, nil)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"parallel above", core.NewVec3(0, 0, 2), core.NewVec3(1, 0, 0)},
		{"parallel below", core.NewVec3(0, 0, -2), core.NewVec3(0, 1, 0)},
		{"parallel in plane", core.NewVec3(0, 0, 0.5), core.NewVec3(1, 1, 0)},
		{"diverging", core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1)},
		{"origin on hidden side", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
		{"hidden side pointing away", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, isHit := plane.Hit(mustRay(t, tt.origin, tt.direction)); isHit {
				t.Errorf("Expected miss, got hit at t=%f", hit.Travel)
			}
		})
	}
}

func TestPlane_Validate(t *testing.T) {
	tests := []struct {
		name    string
		normal  core.Vec3
		height  float64
		wantErr bool
	}{
		{"unit up", core.NewVec3(0, 0, 1), 0, false},
		{"unit diagonal", core.NewVec3(math.Sqrt2/2, 0, math.Sqrt2/2), 1, false},
		{"too long", core.NewVec3(0, 0, 2), 0, true},
		{"zero", core.NewVec3(0, 0, 0), 0, true},
		{"infinite height", core.NewVec3(0, 0, 1), math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPlane(tt.normal, tt.height, nil).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
