// Package dotsim implements the dot-field simulation and spatial-culling
// engine: a fixed-capacity structure-of-arrays buffer of moving dots,
// boundary-reflecting motion with bounded position trails, and on-demand
// viewport culling producing renderer-ready extracts.
package dotsim

import (
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// Reflect advances pos by vel and applies elastic reflection against bound.
// Each axis is handled independently, so a corner hit flips both velocity
// components in the same step. The tentative position is clamped back into
// the bound on any axis it crossed.
//
// A dot faster than the bound is wide can still tunnel through within one
// step. maxSpeed is tiny relative to world size in any sane configuration,
// so this stays a documented property of the rule rather than something to
// solve with continuous-time collision.
func Reflect(pos, vel geometry.Vector2D, bound geometry.Bounds) (geometry.Vector2D, geometry.Vector2D) {
	next := pos.Add(vel)

	if next.X <= bound.MinLng || next.X >= bound.MaxLng {
		vel.X = -vel.X
		if next.X < bound.MinLng {
			next.X = bound.MinLng
		} else if next.X > bound.MaxLng {
			next.X = bound.MaxLng
		}
	}

	if next.Y <= bound.MinLat || next.Y >= bound.MaxLat {
		vel.Y = -vel.Y
		if next.Y < bound.MinLat {
			next.Y = bound.MinLat
		} else if next.Y > bound.MaxLat {
			next.Y = bound.MaxLat
		}
	}

	return next, vel
}

// clampSpeed limits each velocity component to [-maxSpeed, maxSpeed].
// Velocity only ever changes sign in this engine, so this is an invariant
// guard against bad row data rather than a physics feature.
func clampSpeed(vel geometry.Vector2D, maxSpeed float64) geometry.Vector2D {
	if maxSpeed <= 0 {
		return vel
	}
	if vel.X > maxSpeed {
		vel.X = maxSpeed
	} else if vel.X < -maxSpeed {
		vel.X = -maxSpeed
	}
	if vel.Y > maxSpeed {
		vel.Y = maxSpeed
	} else if vel.Y < -maxSpeed {
		vel.Y = -maxSpeed
	}
	return vel
}
