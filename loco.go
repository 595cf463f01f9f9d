// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package loco, locomotion, provides the host-facing wiring for a VR/AR
// locomotion worker: a Geometry Registry, a Locomotion Core, and a Worker
// Transport bundled behind functional-option configuration. It wraps the
// lower packages (geometry, collision, trajectory, locomotion, transport)
// to provide:
//   - A single constructor that builds a consistent Core/Registry/Worker
//     triple from a Config.
//   - A cooperative Run loop matching the Worker's scheduling model.
//   - A hot-path-free Snapshot for host introspection and tests.
//
// Refer to cmd/locod for a standalone worker process built on this package.
package loco

import (
	"context"
	"time"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/locomotion"
	"github.com/galvanized/loco/transport"
)

// Engine bundles a Registry, a locomotion Core, and the Worker that drives
// them against a host's message channels.
type Engine struct {
	registry *geometry.Registry
	core     *locomotion.Core
	worker   *transport.Worker
	config   Config
}

// New builds an Engine from the given options, falling back to
// configDefaults (spec.md §6) for anything unset.
func New(opts ...Option) *Engine {
	cfg := configDefaults
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := geometry.NewRegistry()
	core := locomotion.NewCore(cfg.toParams(), registry)
	period := time.Duration(float64(time.Second) / cfg.updateFrequency)
	worker := transport.NewWorker(core, registry, period)

	return &Engine{registry: registry, core: core, worker: worker, config: cfg}
}

// toParams maps the host-facing Config onto locomotion.Params.
func (c Config) toParams() locomotion.Params {
	return locomotion.Params{
		Dt:                1.0 / c.updateFrequency,
		Gravity:           c.gravity,
		RayGravity:        c.rayGravity,
		JumpHeight:        c.jumpHeight,
		JumpCooldown:      c.jumpCooldown,
		MaxDropDistance:   c.maxDropDistance,
		CapsuleRadius:     c.capsuleRadius,
		CapsuleHalfHeight: c.capsuleHalfHeight,
		FloatHeight:       c.floatHeight,
		SlopeMaxAngle:     c.slopeMaxAngle,
		Up:                c.up,
		RayMinY:           c.rayMinY,
	}
}

// Worker returns the worker transport a host posts messages to and drains
// updates from.
func (e *Engine) Worker() *transport.Worker {
	return e.worker
}

// Registry returns the geometry registry, for hosts or tests that want to
// add environments directly rather than through the worker's structured
// message queue.
func (e *Engine) Registry() *geometry.Registry {
	return e.registry
}

// Run drives the worker's cooperative tick loop until ctx is cancelled. It
// does not return before then; the caller typically runs it in its own
// goroutine, the same way a host starts a worker isolate.
func (e *Engine) Run(ctx context.Context) {
	e.worker.Run(ctx)
}
