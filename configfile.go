// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package loco

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config's tunables as pointer fields so LoadConfig can
// tell "absent from the document" apart from "explicitly zero."
type fileConfig struct {
	UpdateFrequency   *float64 `yaml:"updateFrequency"`
	RayGravity        *float64 `yaml:"rayGravity"`
	Gravity           *float64 `yaml:"gravity"`
	JumpHeight        *float64 `yaml:"jumpHeight"`
	JumpCooldown      *float64 `yaml:"jumpCooldown"`
	MaxDropDistance   *float64 `yaml:"maxDropDistance"`
	CapsuleRadius     *float64 `yaml:"capsuleRadius"`
	CapsuleHalfHeight *float64 `yaml:"capsuleHalfHeight"`
	FloatHeight       *float64 `yaml:"floatHeight"`
	SlopeMaxAngle     *float64 `yaml:"slopeMaxAngleDegrees"`
}

// LoadConfig reads a YAML document of tunables from path and returns the
// Options needed to apply them, for hosts that want to externalize tuning
// data rather than hardcode New(...) calls. Fields absent from the
// document leave the corresponding default untouched.
func LoadConfig(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loco: read config %q: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("loco: parse config %q: %w", path, err)
	}
	return fc.options(), nil
}

func (fc fileConfig) options() []Option {
	var opts []Option
	if fc.UpdateFrequency != nil {
		opts = append(opts, WithUpdateFrequency(*fc.UpdateFrequency))
	}
	if fc.RayGravity != nil {
		opts = append(opts, WithRayGravity(*fc.RayGravity))
	}
	if fc.Gravity != nil {
		opts = append(opts, WithGravity(*fc.Gravity))
	}
	if fc.JumpHeight != nil {
		opts = append(opts, WithJumpHeight(*fc.JumpHeight))
	}
	if fc.JumpCooldown != nil {
		opts = append(opts, WithJumpCooldown(*fc.JumpCooldown))
	}
	if fc.MaxDropDistance != nil {
		opts = append(opts, WithMaxDropDistance(*fc.MaxDropDistance))
	}
	if fc.CapsuleRadius != nil || fc.CapsuleHalfHeight != nil {
		radius, halfHeight := configDefaults.capsuleRadius, configDefaults.capsuleHalfHeight
		if fc.CapsuleRadius != nil {
			radius = *fc.CapsuleRadius
		}
		if fc.CapsuleHalfHeight != nil {
			halfHeight = *fc.CapsuleHalfHeight
		}
		opts = append(opts, WithCapsuleSize(radius, halfHeight))
	}
	if fc.FloatHeight != nil {
		opts = append(opts, WithFloatHeight(*fc.FloatHeight))
	}
	if fc.SlopeMaxAngle != nil {
		opts = append(opts, WithSlopeMaxAngle(*fc.SlopeMaxAngle))
	}
	return opts
}
