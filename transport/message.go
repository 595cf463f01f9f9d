// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package transport

import (
	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
)

// Message is the two-field structured record {kind, payload} for anything
// that doesn't fit the fixed hot-path layout: Init, Config,
// AddEnvironment, and RemoveEnvironment.
type Message struct {
	Kind    Kind
	Payload any
}

// InitPayload carries the worker's starting position.
type InitPayload struct {
	Position lin.V3
}

// ConfigPayload updates any subset of the live-reloadable tunables; a nil
// field leaves that tunable unchanged. UpdateFrequency, if set, reschedules
// the tick ticker without restarting the worker.
type ConfigPayload struct {
	RayGravity      *float64
	MaxDropDistance *float64
	JumpHeight      *float64
	JumpCooldown    *float64
	UpdateFrequency *float64
}

// AddEnvironmentPayload registers a new environment's geometry, kind, and
// initial world transform.
type AddEnvironmentPayload struct {
	Handle   int
	Vertices []lin.V3
	Indices  []int
	EnvKind  geometry.Kind
	Matrix   lin.M4
}

// RemoveEnvironmentPayload unregisters a previously added environment.
type RemoveEnvironmentPayload struct {
	Handle int
}
