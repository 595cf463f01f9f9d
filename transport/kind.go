// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package transport is the Worker Transport: a cooperative tick loop that
// drains host messages between ticks and runs the locomotion Core against a
// geometry Registry, communicating with the host exclusively over channels
// of flat, copyable values. There is no shared mutable state across the
// boundary.
package transport

import "log/slog"

var logger = slog.Default()

// Kind tags every message crossing the worker boundary, hot-path or
// structured.
type Kind int

const (
	KindInit Kind = iota
	KindConfig
	KindAddEnvironment
	KindRemoveEnvironment
	KindUpdateKinematicEnvironment
	KindSlide
	KindTeleport
	KindJump
	KindParabolicRaycast
	KindPositionUpdate
	KindRaycastUpdate
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "Init"
	case KindConfig:
		return "Config"
	case KindAddEnvironment:
		return "AddEnvironment"
	case KindRemoveEnvironment:
		return "RemoveEnvironment"
	case KindUpdateKinematicEnvironment:
		return "UpdateKinematicEnvironment"
	case KindSlide:
		return "Slide"
	case KindTeleport:
		return "Teleport"
	case KindJump:
		return "Jump"
	case KindParabolicRaycast:
		return "ParabolicRaycast"
	case KindPositionUpdate:
		return "PositionUpdate"
	case KindRaycastUpdate:
		return "RaycastUpdate"
	default:
		return "Unknown"
	}
}
