// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package locomotion

import (
	"math"
	"testing"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
)

func flatFloor() []lin.V3 {
	return []lin.V3{
		{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: 10},
		{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: 10}, {X: -10, Y: 0, Z: 10},
	}
}

func defaultParams() Params {
	return Params{
		Dt:                1.0 / 60,
		Gravity:           -9.8,
		RayGravity:        -0.4,
		JumpHeight:        1.5,
		JumpCooldown:      0.1,
		MaxDropDistance:   5.0,
		CapsuleRadius:     0.25,
		CapsuleHalfHeight: 0.9,
		FloatHeight:       0.5,
		SlopeMaxAngle:     lin.Rad(50),
		Up:                lin.V3{X: 0, Y: 1, Z: 0},
	}
}

func newCoreOnFloor(start lin.V3) *Core {
	reg := geometry.NewRegistry()
	reg.Add(1, flatFloor(), nil, geometry.Static, lin.M4I)
	core := NewCore(defaultParams(), reg)
	core.Player.Position = start
	return core
}

func TestSlideMakesPositionGrowMonotonically(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: 2, Z: 0})
	core.Slide(lin.V3{X: 1, Y: 0, Z: 0})
	lastX := core.Player.Position.X
	for i := 0; i < 180; i++ {
		core.Slide(lin.V3{X: 1, Y: 0, Z: 0})
		core.Step()
		if core.Player.Position.X < lastX-1e-9 {
			t.Fatalf("position.x decreased at tick %d: %v -> %v", i, lastX, core.Player.Position.X)
		}
		lastX = core.Player.Position.X
	}
	if !core.Player.Grounded {
		t.Error("expected grounded in steady state after sliding on a flat floor")
	}
	if math.Abs(core.Player.Position.Y-defaultParams().FloatHeight) > 0.3 {
		t.Errorf("expected position.y near floatHeight, got %v", core.Player.Position.Y)
	}
}

func TestTeleportSnapsPositionAndClearsVelocity(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: 2, Z: 0})
	core.Player.Velocity = lin.V3{X: 3, Y: -4, Z: 1}
	core.Teleport(lin.V3{X: 5, Y: 5, Z: 5})
	updated := core.Step()
	if !updated {
		t.Error("expected teleport to emit an update")
	}
	if !lin.Aeq(core.Player.Position.X, 5) || !lin.Aeq(core.Player.Position.Y, 5) || !lin.Aeq(core.Player.Position.Z, 5) {
		t.Errorf("expected position (5,5,5), got %+v", core.Player.Position)
	}
	if core.Player.Velocity.X != 0 || core.Player.Velocity.Y != 0 || core.Player.Velocity.Z != 0 {
		t.Errorf("expected zero velocity after teleport, got %+v", core.Player.Velocity)
	}
	if core.Player.Grounded {
		t.Error("expected grounded=false immediately after teleport")
	}
}

func TestJumpCooldownBlocksSecondJump(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: defaultParams().FloatHeight, Z: 0})
	// settle onto the floor first so JumpState is Grounded.
	for i := 0; i < 30; i++ {
		core.Step()
	}
	if core.Player.JumpState != Grounded {
		t.Fatalf("expected Grounded before jumping, got %v", core.Player.JumpState)
	}
	core.Jump()
	core.Step()
	firstVelocity := core.Player.Velocity.Y
	if firstVelocity <= 0 {
		t.Fatalf("expected an upward jump velocity, got %v", firstVelocity)
	}
	core.Jump()
	core.Step()
	if core.Player.Velocity.Y > firstVelocity {
		t.Error("expected the second jump within cooldown to be ignored")
	}
}

func TestJumpStateMachineTransitions(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: defaultParams().FloatHeight, Z: 0})
	for i := 0; i < 30; i++ {
		core.Step()
	}
	core.Jump()
	core.Step()
	if core.Player.JumpState != Ascending {
		t.Fatalf("expected Ascending right after a jump, got %v", core.Player.JumpState)
	}
	sawFalling := false
	for i := 0; i < 200; i++ {
		core.Step()
		if core.Player.JumpState == Falling {
			sawFalling = true
		}
		if core.Player.JumpState == Grounded && sawFalling {
			return
		}
	}
	t.Error("expected the jump to pass through Ascending -> Falling -> Grounded")
}

func TestNumericallyInvalidInputDropsTick(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: 2, Z: 0})
	core.Player.Velocity = lin.V3{X: math.Inf(1), Y: 0, Z: 0}
	updated := core.Step()
	if updated {
		t.Error("expected no update emitted for a numerically invalid tick")
	}
}

func TestKinematicPlatformFollowAppliesDelta(t *testing.T) {
	reg := geometry.NewRegistry()
	reg.Add(1, flatFloor(), nil, geometry.Kinematic, lin.M4I)
	core := NewCore(defaultParams(), reg)
	core.Player.Position = lin.V3{X: 0, Y: defaultParams().FloatHeight, Z: 0}
	for i := 0; i < 30; i++ {
		core.Step()
	}
	if !core.Player.Grounded {
		t.Fatal("expected grounded on the kinematic floor")
	}
	moved := &lin.M4{}
	moved.Set(lin.M4I)
	moved.Wx = 1
	reg.UpdateTransform(1, moved)
	before := core.Player.Position.X
	core.Step()
	if core.Player.Position.X <= before {
		t.Errorf("expected platform follow to carry the player along +X, got %v -> %v", before, core.Player.Position.X)
	}
}

func TestParabolicRaycastDelegatesToTrajectory(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: 2, Z: 0})
	core.Params.RayGravity = -10
	result := core.ParabolicRaycast(lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 2, Y: 2, Z: 0})
	if !result.Hit {
		t.Fatal("expected a raycast hit on the floor")
	}
}

func TestSlideIgnoresNonFiniteInput(t *testing.T) {
	core := newCoreOnFloor(lin.V3{X: 0, Y: 2, Z: 0})
	core.Slide(lin.V3{X: math.NaN(), Y: 0, Z: 0})
	if core.pending.slide != nil {
		t.Error("expected a NaN slide command to be dropped")
	}
}
