// Copyright © 2015-2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package loco

// snapshot.go - consolidate engine state for host introspection, the same
// role profile.go's Profile played for render/update timings: a read-only,
// hot-path-free copy the host can poll without going through the worker's
// message queue.

import (
	"fmt"

	"github.com/galvanized/loco/locomotion"
	"github.com/galvanized/loco/math/lin"
)

// Snapshot is a read-only copy of the current player state and the set of
// registered environment handles. It is meant for host debugging and
// tests, not for the per-tick hot path — it reads Engine's internal state
// directly rather than going through the Worker's channels, so it is only
// safe to call from the same goroutine that owns the Engine, or after
// Run's context has been cancelled.
type Snapshot struct {
	Position  lin.V3
	Grounded  bool
	JumpState locomotion.JumpState
	Handles   []int
}

// Snapshot returns the Engine's current player state and registered
// environment handles.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Position:  e.core.Player.Position,
		Grounded:  e.core.Player.Grounded,
		JumpState: e.core.Player.JumpState,
		Handles:   e.registry.Handles(),
	}
}

// Dump prints the snapshot in a single line, for development debugging.
func (s Snapshot) Dump() {
	fmt.Printf("pos:%+v grounded:%v jump:%v envs:%d\n", s.Position, s.Grounded, s.JumpState, len(s.Handles))
}
