// SPDX-FileCopyrightText : © 2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package loco

import "github.com/galvanized/loco/math/lin"

// config.go reduces the New API footprint using functional options.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis
//      https://commandcenter.blogspot.ca/2014/01/self-referential-functions-and-design.html

// Config holds every tunable in the configuration surface (spec.md §6)
// that a host can set before starting the engine.
type Config struct {
	updateFrequency float64 // ticks per second

	rayGravity      float64 // gravity applied to parabolic raycasts
	gravity         float64 // gravity applied to player integration
	jumpHeight      float64
	jumpCooldown    float64
	maxDropDistance float64

	capsuleRadius     float64
	capsuleHalfHeight float64
	floatHeight       float64
	slopeMaxAngle     float64 // radians
	up                lin.V3

	rayMinY float64
}

// configDefaults matches spec.md §6's configuration surface table exactly.
var configDefaults = Config{
	updateFrequency:   60,
	rayGravity:        -0.4,
	gravity:           -9.8,
	jumpHeight:        1.5,
	jumpCooldown:      0.1,
	maxDropDistance:   5.0,
	capsuleRadius:     0.25,
	capsuleHalfHeight: 0.9,
	floatHeight:       0.5,
	slopeMaxAngle:     lin.Rad(50),
	up:                lin.V3{X: 0, Y: 1, Z: 0},
	rayMinY:           0,
}

// Option configures an Engine at construction time.
//
//	eng := loco.New(
//	   loco.WithUpdateFrequency(90),
//	   loco.WithGravity(-9.8),
//	   loco.WithCapsuleSize(0.3, 1.0),
//	)
type Option func(*Config)

// WithUpdateFrequency sets ticks per second. Values at or below zero are
// ignored, matching the defensive clamping style of the teacher's Size().
func WithUpdateFrequency(hz float64) Option {
	return func(c *Config) {
		if hz > 0 {
			c.updateFrequency = hz
		}
	}
}

// WithGravity sets the gravity applied to player integration, in m/s².
// Conventionally negative.
func WithGravity(g float64) Option {
	return func(c *Config) { c.gravity = g }
}

// WithRayGravity sets the gravity applied to parabolic teleport-arc
// raycasts, independent of player gravity.
func WithRayGravity(g float64) Option {
	return func(c *Config) { c.rayGravity = g }
}

// WithJumpHeight sets the meters used to compute the jump's upward
// velocity impulse.
func WithJumpHeight(h float64) Option {
	return func(c *Config) {
		if h > 0 {
			c.jumpHeight = h
		}
	}
}

// WithJumpCooldown sets the seconds between jumps.
func WithJumpCooldown(s float64) Option {
	return func(c *Config) {
		if s >= 0 {
			c.jumpCooldown = s
		}
	}
}

// WithMaxDropDistance bounds unassisted falls, in meters.
func WithMaxDropDistance(d float64) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDropDistance = d
		}
	}
}

// WithCapsuleSize sets the player capsule's radius and half-height.
func WithCapsuleSize(radius, halfHeight float64) Option {
	return func(c *Config) {
		if radius > 0 {
			c.capsuleRadius = radius
		}
		if halfHeight > 0 {
			c.capsuleHalfHeight = halfHeight
		}
	}
}

// WithFloatHeight sets the target hover distance above ground contact.
func WithFloatHeight(h float64) Option {
	return func(c *Config) {
		if h >= 0 {
			c.floatHeight = h
		}
	}
}

// WithSlopeMaxAngle sets the floor/wall contact threshold, in degrees.
func WithSlopeMaxAngle(degrees float64) Option {
	return func(c *Config) { c.slopeMaxAngle = lin.Rad(degrees) }
}

// WithUp sets the world's up axis. Defaults to +Y.
func WithUp(up lin.V3) Option {
	return func(c *Config) { c.up = up }
}

// WithRayMinY sets the lower Y bound the parabolic raycast solves down to.
// spec.md names minY as a Trajectory Sampler input but never exposes it on
// the configuration surface table; this is the escape hatch for hosts that
// need something other than ground level (0).
func WithRayMinY(y float64) Option {
	return func(c *Config) { c.rayMinY = y }
}
