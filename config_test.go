// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package loco

import (
	"testing"

	"github.com/galvanized/loco/math/lin"
)

func TestDefaultsMatchConfigurationSurface(t *testing.T) {
	c := configDefaults
	if c.updateFrequency != 60 {
		t.Errorf("updateFrequency default = %v, want 60", c.updateFrequency)
	}
	if c.gravity != -9.8 {
		t.Errorf("gravity default = %v, want -9.8", c.gravity)
	}
	if c.jumpCooldown != 0.1 {
		t.Errorf("jumpCooldown default = %v, want 0.1", c.jumpCooldown)
	}
}

func TestWithUpdateFrequencyIgnoresNonPositive(t *testing.T) {
	c := configDefaults
	WithUpdateFrequency(-5)(&c)
	if c.updateFrequency != configDefaults.updateFrequency {
		t.Error("expected a non-positive update frequency to be ignored")
	}
	WithUpdateFrequency(90)(&c)
	if c.updateFrequency != 90 {
		t.Errorf("expected update frequency to be set to 90, got %v", c.updateFrequency)
	}
}

func TestWithCapsuleSizeSetsBothFields(t *testing.T) {
	c := configDefaults
	WithCapsuleSize(0.3, 1.1)(&c)
	if c.capsuleRadius != 0.3 || c.capsuleHalfHeight != 1.1 {
		t.Errorf("unexpected capsule size %v/%v", c.capsuleRadius, c.capsuleHalfHeight)
	}
}

func TestWithSlopeMaxAngleConvertsDegreesToRadians(t *testing.T) {
	c := configDefaults
	WithSlopeMaxAngle(90)(&c)
	if !lin.Aeq(c.slopeMaxAngle, lin.Rad(90)) {
		t.Errorf("expected 90 degrees in radians, got %v", c.slopeMaxAngle)
	}
}

func TestToParamsCarriesEveryTunable(t *testing.T) {
	c := configDefaults
	WithGravity(-20)(&c)
	WithJumpHeight(3)(&c)
	p := c.toParams()
	if p.Gravity != -20 || p.JumpHeight != 3 {
		t.Errorf("unexpected params %+v", p)
	}
	if !lin.Aeq(p.Dt, 1.0/60) {
		t.Errorf("expected Dt derived from default update frequency, got %v", p.Dt)
	}
}
