// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package transport

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/locomotion"
)

// defaultQueueDepth bounds the inbound queues so a stalled host can't grow
// the worker's memory without limit; PostHot/PostStructured drop and log
// rather than block, matching the "no backpressure" wire contract.
const defaultQueueDepth = 64

// Worker is the cooperative loop described in spec.md §4.5: it wakes on
// either a scheduled tick deadline or an incoming message, whichever comes
// first, and never yields mid-integration. The host and worker share no
// mutable state; everything here crosses channels as flat, copyable values.
type Worker struct {
	core     *locomotion.Core
	registry *geometry.Registry

	hot        chan []float64
	structured chan Message
	updates    chan []float64

	period        time.Duration
	pendingPeriod time.Duration
	initialized   bool
}

// NewWorker returns a Worker driving core against registry. period is the
// initial tick interval (1/updateFrequency); it can be changed later by a
// Config message.
func NewWorker(core *locomotion.Core, registry *geometry.Registry, period time.Duration) *Worker {
	return &Worker{
		core:       core,
		registry:   registry,
		hot:        make(chan []float64, defaultQueueDepth),
		structured: make(chan Message, defaultQueueDepth),
		updates:    make(chan []float64, defaultQueueDepth),
		period:     period,
	}
}

// PostHot enqueues an inbound hot-path message. It never blocks; a full
// queue drops the message and logs a warning.
func (w *Worker) PostHot(msg []float64) {
	select {
	case w.hot <- msg:
	default:
		logger.Warn("transport: hot-path queue full, dropping message")
	}
}

// PostStructured enqueues an inbound structured message. It never blocks.
func (w *Worker) PostStructured(msg Message) {
	select {
	case w.structured <- msg:
	default:
		logger.Warn("transport: structured queue full, dropping message", "kind", msg.Kind)
	}
}

// Updates returns the channel of outbound hot-path messages (PositionUpdate,
// RaycastUpdate) the host should drain.
func (w *Worker) Updates() <-chan []float64 {
	return w.updates
}

// Run drives the worker loop until ctx is cancelled. It does not return
// until then; callers typically run it in its own goroutine. No cleanup is
// required beyond what ctx cancellation triggers: the Core holds no
// resources besides the Registry it was given.
func (w *Worker) Run(ctx context.Context) {
	done := ctx.Done()
	period := w.period
	if period <= 0 {
		period = time.Second / 60
	}
	ticker := channerics.NewTicker(done, period)
	hot := channerics.OrDone(done, w.hot)
	structured := channerics.OrDone(done, w.structured)

	for {
		select {
		case <-done:
			return
		case msg, ok := <-hot:
			if !ok {
				return
			}
			w.handleHot(msg)
		case msg, ok := <-structured:
			if !ok {
				return
			}
			w.handleStructured(msg)
			if w.pendingPeriod > 0 && w.pendingPeriod != period {
				period = w.pendingPeriod
				ticker = channerics.NewTicker(done, period)
			}
			w.pendingPeriod = 0
		case <-ticker:
			w.tick()
		}
	}
}

func (w *Worker) handleHot(msg []float64) {
	if len(msg) == 0 {
		return
	}
	kind := Kind(msg[0])
	if !w.initialized {
		logger.Warn("transport: command before init, ignoring", "kind", kind)
		return
	}
	switch kind {
	case KindSlide:
		if v, ok := DecodeSlide(msg); ok {
			w.core.Slide(v)
		}
	case KindTeleport:
		if p, ok := DecodeTeleport(msg); ok {
			w.core.Teleport(p)
		}
	case KindJump:
		if DecodeJump(msg) {
			w.core.Jump()
		}
	case KindParabolicRaycast:
		if origin, direction, ok := DecodeParabolicRaycast(msg); ok {
			result := w.core.ParabolicRaycast(origin, direction)
			w.emit(EncodeRaycastUpdate(result))
		}
	case KindUpdateKinematicEnvironment:
		handle, matrix, ok := DecodeUpdateKinematicEnvironment(msg)
		if !ok {
			return
		}
		if err := w.registry.UpdateTransform(handle, matrix); err != nil {
			logger.Warn("transport: update_kinematic_environment rejected", "handle", handle, "err", err)
		}
	default:
		logger.Warn("transport: unrecognized hot-path kind", "kind", kind)
	}
}

func (w *Worker) handleStructured(msg Message) {
	switch msg.Kind {
	case KindInit:
		p, ok := msg.Payload.(InitPayload)
		if !ok {
			logger.Error("transport: malformed init payload")
			return
		}
		w.core.Player.Position = p.Position
		w.initialized = true
	case KindConfig:
		p, ok := msg.Payload.(ConfigPayload)
		if !ok {
			logger.Error("transport: malformed config payload")
			return
		}
		w.applyConfig(p)
	case KindAddEnvironment:
		if !w.initialized {
			logger.Warn("transport: add_environment before init, ignoring")
			return
		}
		p, ok := msg.Payload.(AddEnvironmentPayload)
		if !ok {
			logger.Error("transport: malformed add_environment payload")
			return
		}
		matrix := p.Matrix
		if err := w.registry.Add(p.Handle, p.Vertices, p.Indices, p.EnvKind, &matrix); err != nil {
			logger.Warn("transport: add_environment rejected", "handle", p.Handle, "err", err)
		}
	case KindRemoveEnvironment:
		if !w.initialized {
			return
		}
		p, ok := msg.Payload.(RemoveEnvironmentPayload)
		if !ok {
			logger.Error("transport: malformed remove_environment payload")
			return
		}
		w.registry.Remove(p.Handle)
	default:
		logger.Warn("transport: unrecognized structured kind", "kind", msg.Kind)
	}
}

// applyConfig updates only the tunables the host actually set, per the
// supplemented "Config may update a subset of fields" semantics. A live
// updateFrequency change is picked up by Run right after this Config
// message is handled: Run starts a new ticker at the new period, so the
// next tick comes one new period after the Config message.
func (w *Worker) applyConfig(p ConfigPayload) {
	if p.RayGravity != nil {
		w.core.Params.RayGravity = *p.RayGravity
	}
	if p.MaxDropDistance != nil {
		w.core.Params.MaxDropDistance = *p.MaxDropDistance
	}
	if p.JumpHeight != nil {
		w.core.Params.JumpHeight = *p.JumpHeight
	}
	if p.JumpCooldown != nil {
		w.core.Params.JumpCooldown = *p.JumpCooldown
	}
	if p.UpdateFrequency != nil && *p.UpdateFrequency > 0 {
		w.core.Params.Dt = 1.0 / *p.UpdateFrequency
		w.pendingPeriod = time.Duration(float64(time.Second) / *p.UpdateFrequency)
	}
}

// tick runs one integration step and emits a PositionUpdate if the Core
// reports it changed enough to be worth telling the host about. A tick
// before Init is a no-op: there is no player state yet to integrate.
func (w *Worker) tick() {
	if !w.initialized {
		return
	}
	if w.core.Step() {
		w.emit(EncodePositionUpdate(w.core.Player.Position, w.core.Player.Grounded))
	}
}

// emit is the backpressure-free outbound path: a host that isn't draining
// Updates() fast enough loses the update rather than stalling the tick
// loop.
func (w *Worker) emit(msg []float64) {
	select {
	case w.updates <- msg:
	default:
		logger.Warn("transport: dropping outbound update, host not draining", "kind", Kind(msg[0]))
	}
}
