package dotsim

import (
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

func TestReflect(t *testing.T) {
	unit := geometry.Bounds{MinLng: 0, MinLat: 0, MaxLng: 1, MaxLat: 1}

	tests := []struct {
		name    string
		pos     geometry.Vector2D
		vel     geometry.Vector2D
		wantPos geometry.Vector2D
		wantVel geometry.Vector2D
	}{
		{
			"Free flight",
			geometry.Vector2D{X: 0.5, Y: 0.5}, geometry.Vector2D{X: 0.01, Y: -0.02},
			geometry.Vector2D{X: 0.51, Y: 0.48}, geometry.Vector2D{X: 0.01, Y: -0.02},
		},
		{
			"Bounce off max lng",
			geometry.Vector2D{X: 0.999, Y: 0.5}, geometry.Vector2D{X: 0.01, Y: 0},
			geometry.Vector2D{X: 1.0, Y: 0.5}, geometry.Vector2D{X: -0.01, Y: 0},
		},
		{
			"Bounce off min lat",
			geometry.Vector2D{X: 0.5, Y: 0.004}, geometry.Vector2D{X: 0, Y: -0.01},
			geometry.Vector2D{X: 0.5, Y: 0.0}, geometry.Vector2D{X: 0, Y: 0.01},
		},
		{
			"Corner hit flips both",
			geometry.Vector2D{X: 0.999, Y: 0.001}, geometry.Vector2D{X: 0.01, Y: -0.01},
			geometry.Vector2D{X: 1.0, Y: 0.0}, geometry.Vector2D{X: -0.01, Y: 0.01},
		},
		{
			"Landing exactly on edge reflects",
			geometry.Vector2D{X: 0.99, Y: 0.5}, geometry.Vector2D{X: 0.01, Y: 0},
			geometry.Vector2D{X: 1.0, Y: 0.5}, geometry.Vector2D{X: -0.01, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPos, gotVel := Reflect(tt.pos, tt.vel, unit)
			if !gotPos.Eq(tt.wantPos) {
				t.Errorf("Reflect pos = %v; want %v", gotPos, tt.wantPos)
			}
			if !gotVel.Eq(tt.wantVel) {
				t.Errorf("Reflect vel = %v; want %v", gotVel, tt.wantVel)
			}
		})
	}
}

// Whatever the starting state, a reflected dot never leaves the bound and
// its speed per axis never changes magnitude.
func TestReflect_Containment(t *testing.T) {
	bound := geometry.Bounds{MinLng: -10, MinLat: -5, MaxLng: 10, MaxLat: 5}
	rng := rand.New(rand.NewPCG(7, 13))

	for n := 0; n < 1000; n++ {
		pos := geometry.Vector2D{X: bound.MinLng + rng.Float64()*bound.Width(), Y: bound.MinLat + rng.Float64()*bound.Height()}

		vel := geometry.Vector2D{X: (rng.Float64()*2 - 1) * 0.5, Y: (rng.Float64()*2 - 1) * 0.5}

		for step := 0; step < 50; step++ {
			var newVel geometry.Vector2D
			pos, newVel = Reflect(pos, vel, bound)
			if !bound.Contains(pos) {
				t.Fatalf("dot escaped to %v after step %d", pos, step)
			}
			if abs(newVel.X) != abs(vel.X) || abs(newVel.Y) != abs(vel.Y) {
				t.Fatalf("reflection changed speed: %v -> %v", vel, newVel)
			}
			vel = newVel
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		name     string
		vel      geometry.Vector2D
		maxSpeed float64
		want     geometry.Vector2D
	}{
		{"Within limit", geometry.Vector2D{X: 0.001, Y: -0.001}, 0.002, geometry.Vector2D{X: 0.001, Y: -0.001}},
		{"Positive overspeed", geometry.Vector2D{X: 0.5, Y: 0.001}, 0.002, geometry.Vector2D{X: 0.002, Y: 0.001}},
		{"Negative overspeed", geometry.Vector2D{X: 0.001, Y: -0.5}, 0.002, geometry.Vector2D{X: 0.001, Y: -0.002}},
		{"Disabled when zero", geometry.Vector2D{X: 0.5, Y: -0.5}, 0, geometry.Vector2D{X: 0.5, Y: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampSpeed(tt.vel, tt.maxSpeed); !got.Eq(tt.want) {
				t.Errorf("clampSpeed(%v, %v) = %v; want %v", tt.vel, tt.maxSpeed, got, tt.want)
			}
		})
	}
}
