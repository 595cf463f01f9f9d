// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package locomotion holds the player's capsule state and the per-tick
// integrator that advances it against a geometry registry: gravity,
// floating ground force, slide/teleport/jump commands, and depenetration.
package locomotion

import (
	"log/slog"
	"math"

	"github.com/galvanized/loco/collision"
	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
	"github.com/galvanized/loco/trajectory"
)

var logger = slog.Default()

// JumpState is the player's position in the jump state machine.
type JumpState int

const (
	Grounded JumpState = iota
	Ascending
	Falling
)

// playerMass is used to scale the floating-ground spring-damper force into
// an acceleration. The config surface has no host-facing mass knob, so this
// is fixed rather than exposed.
const playerMass = 1.0

// Params are the tunables the per-tick integrator reads every Step; they
// mirror the configuration surface's locomotion-related options.
type Params struct {
	Dt                float64 // 1/updateFrequency
	Gravity           float64 // applied to player integration, negative
	RayGravity        float64 // applied to parabolic raycasts, negative
	JumpHeight        float64
	JumpCooldown      float64
	MaxDropDistance   float64
	CapsuleRadius     float64
	CapsuleHalfHeight float64
	FloatHeight       float64
	SlopeMaxAngle     float64 // radians
	Up                lin.V3
	RayMinY           float64 // lower bound the raycast solves down to
}

// springK and dampC tune the floating-ground spring-damper. They are not
// host-configurable; float_height is, and the grounding threshold in Step
// is derived from it.
const (
	springK  = 60.0
	dampC    = 12.0
	maxForce = 40.0
)

// Player is the locomotion body's state. Position is the capsule center.
type Player struct {
	Position     lin.V3
	Velocity     lin.V3
	Grounded     bool
	Updating     bool
	JumpCooldown float64
	JumpState    JumpState
	GroundHandle int
	fallDistance float64
}

type pendingCommands struct {
	slide    *lin.V3
	teleport *lin.V3
	jump     bool
}

// Core is the per-tick integrator: player state, the pending command
// inbox, and the registry it probes and depenetrates against.
type Core struct {
	Params   Params
	Player   Player
	Registry *geometry.Registry

	pending pendingCommands

	prevGrounded     bool
	prevGroundHandle int
}

// NewCore returns a Core with the given params and registry, player at the
// origin and at rest.
func NewCore(params Params, registry *geometry.Registry) *Core {
	return &Core{Params: params, Registry: registry}
}

// Slide sets the pending horizontal target velocity for the next tick; the
// vertical component of v is ignored. A later call within the same tick
// overwrites an earlier one.
func (c *Core) Slide(v lin.V3) {
	if !finite3(v) {
		return
	}
	v.Y = 0
	c.pending.slide = &v
}

// Teleport moves the player instantly on the next tick, clearing velocity
// and grounded state.
func (c *Core) Teleport(p lin.V3) {
	if !finite3(p) {
		return
	}
	c.pending.teleport = &p
}

// Jump requests a jump on the next tick; it is silently ignored unless the
// player is grounded with a zero cooldown when the tick applies it.
func (c *Core) Jump() {
	c.pending.jump = true
}

// ParabolicRaycast delegates to the trajectory sampler using rayGravity and
// runs synchronously (it does not go through the pending-command inbox).
func (c *Core) ParabolicRaycast(origin, direction lin.V3) trajectory.Result {
	return trajectory.Cast(c.Registry, origin, direction, c.Params.RayGravity, c.Params.RayMinY)
}

// Step advances the player by one tick of Params.Dt and returns whether an
// update should be emitted (matching spec semantics for "updating").
func (c *Core) Step() bool {
	p := &c.Player
	if !finite3(p.Position) || !finite3(p.Velocity) {
		logger.Error("locomotion: numerically invalid player state, skipping tick")
		return false
	}

	cmds := c.pending
	c.pending = pendingCommands{}

	if cmds.teleport != nil {
		p.Position = *cmds.teleport
		p.Velocity = lin.V3{}
		p.Grounded = false
		p.fallDistance = 0
		p.Updating = true
		c.prevGrounded, c.prevGroundHandle = false, 0
		return true
	}

	// kinematic platform follow: ride the environment we were grounded on
	// last tick.
	if c.prevGrounded {
		if delta, ok := c.Registry.KinematicDelta(c.prevGroundHandle); ok {
			p.Position.Add(&p.Position, &delta)
		}
	}

	inputActive := false
	if cmds.slide != nil {
		p.Velocity.X, p.Velocity.Z = cmds.slide.X, cmds.slide.Z
		inputActive = cmds.slide.X != 0 || cmds.slide.Z != 0
	}
	if cmds.jump && p.JumpState == Grounded && p.JumpCooldown <= 0 {
		p.Velocity.Y = math.Sqrt(2 * math.Abs(c.Params.Gravity) * c.Params.JumpHeight)
		p.JumpCooldown = c.Params.JumpCooldown
		p.JumpState = Ascending
	}
	if p.JumpCooldown > 0 {
		p.JumpCooldown -= c.Params.Dt
		if p.JumpCooldown < 0 {
			p.JumpCooldown = 0
		}
	}

	if p.fallDistance < c.Params.MaxDropDistance {
		p.Velocity.Y += c.Params.Gravity * c.Params.Dt
	}

	capsule := collision.Capsule{Center: p.Position, Radius: c.Params.CapsuleRadius, HalfHeight: c.Params.CapsuleHalfHeight}
	hit, hitOK := collision.GroundProbe(c.Registry, capsule)
	groundDistance := collision.GroundDistance(hit, hitOK, p.Position.Y, c.Params.CapsuleHalfHeight)

	groundingThreshold := c.Params.FloatHeight + c.Params.CapsuleRadius + 0.15
	grounded := false
	groundHandle := 0
	// The floating-ground spring is skipped for as long as JumpState is
	// Ascending (from the tick the jump takes effect until the rise ends):
	// the player starts within grounding range, and the spring would
	// otherwise cancel the jump impulse it was just given.
	if groundDistance < groundingThreshold && p.JumpState != Ascending {
		targetY := hit.Point.Y + c.Params.CapsuleHalfHeight + c.Params.FloatHeight
		displacement := targetY - p.Position.Y
		force := springK*displacement - dampC*p.Velocity.Y
		if force > maxForce {
			force = maxForce
		} else if force < -maxForce {
			force = -maxForce
		}
		p.Velocity.Y += (force / playerMass) * c.Params.Dt
		grounded = true
		groundHandle = hit.Handle
	}

	p.Position.X += p.Velocity.X * c.Params.Dt
	p.Position.Z += p.Velocity.Z * c.Params.Dt
	p.Position.Y += p.Velocity.Y * c.Params.Dt
	if grounded {
		p.fallDistance = 0
	} else if p.Velocity.Y < 0 {
		p.fallDistance += -p.Velocity.Y * c.Params.Dt
	}

	capsule.Center = p.Position
	result := collision.Depenetrate(c.Registry, capsule, c.Params.Up, c.Params.SlopeMaxAngle)
	p.Position = result.Center
	if result.Grounded {
		grounded = true
	}
	for _, contact := range result.Contacts {
		switch contact.Kind {
		case collision.Floor:
			if p.Velocity.Y < 0 {
				p.Velocity.Y = 0
			}
		case collision.Ceiling:
			if p.Velocity.Y > 0 {
				p.Velocity.Y = 0
			}
		}
	}

	p.Grounded = grounded
	p.GroundHandle = groundHandle
	c.prevGrounded, c.prevGroundHandle = grounded, groundHandle

	switch {
	case grounded:
		if p.JumpState != Grounded {
			p.Velocity.Y = 0
		}
		p.JumpState = Grounded
	case p.Velocity.Y > 0:
		p.JumpState = Ascending
	default:
		p.JumpState = Falling
	}

	atRest := lin.AeqZ(p.Velocity.X) && lin.AeqZ(p.Velocity.Y) && lin.AeqZ(p.Velocity.Z)
	p.Updating = inputActive || !grounded || p.JumpCooldown > 0 || !atRest
	return p.Updating
}

func finite3(v lin.V3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
