// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package transport

import (
	"math"

	"github.com/galvanized/loco/math/lin"
	"github.com/galvanized/loco/trajectory"
)

// Hot-path messages are flat []float64 arrays: index 0 is the kind tag,
// the rest is payload. They cover Slide, Teleport, Jump,
// ParabolicRaycast, and UpdateKinematicEnvironment inbound, and
// PositionUpdate and RaycastUpdate outbound. Everything else travels as a
// structured Message.

// EncodeSlide lays out a desired horizontal velocity as a hot-path message.
func EncodeSlide(v lin.V3) []float64 {
	return []float64{float64(KindSlide), v.X, v.Y, v.Z}
}

// DecodeSlide reads back a Slide message. ok is false if msg is malformed.
func DecodeSlide(msg []float64) (v lin.V3, ok bool) {
	if len(msg) < 4 || Kind(msg[0]) != KindSlide {
		return lin.V3{}, false
	}
	return lin.V3{X: msg[1], Y: msg[2], Z: msg[3]}, true
}

// EncodeTeleport lays out a target position as a hot-path message.
func EncodeTeleport(p lin.V3) []float64 {
	return []float64{float64(KindTeleport), p.X, p.Y, p.Z}
}

// DecodeTeleport reads back a Teleport message.
func DecodeTeleport(msg []float64) (p lin.V3, ok bool) {
	if len(msg) < 4 || Kind(msg[0]) != KindTeleport {
		return lin.V3{}, false
	}
	return lin.V3{X: msg[1], Y: msg[2], Z: msg[3]}, true
}

// EncodeJump lays out a jump request. It carries no payload beyond the tag.
func EncodeJump() []float64 {
	return []float64{float64(KindJump)}
}

// DecodeJump reports whether msg is a well-formed Jump message.
func DecodeJump(msg []float64) bool {
	return len(msg) >= 1 && Kind(msg[0]) == KindJump
}

// EncodeParabolicRaycast lays out a teleport-arc preview request: origin,
// then direction already scaled by the desired throw speed.
func EncodeParabolicRaycast(origin, direction lin.V3) []float64 {
	return []float64{
		float64(KindParabolicRaycast),
		origin.X, origin.Y, origin.Z,
		direction.X, direction.Y, direction.Z,
	}
}

// DecodeParabolicRaycast reads back a ParabolicRaycast message.
func DecodeParabolicRaycast(msg []float64) (origin, direction lin.V3, ok bool) {
	if len(msg) < 7 || Kind(msg[0]) != KindParabolicRaycast {
		return lin.V3{}, lin.V3{}, false
	}
	origin = lin.V3{X: msg[1], Y: msg[2], Z: msg[3]}
	direction = lin.V3{X: msg[4], Y: msg[5], Z: msg[6]}
	return origin, direction, true
}

// EncodeUpdateKinematicEnvironment lays out a handle and its new world
// matrix as a hot-path message.
func EncodeUpdateKinematicEnvironment(handle int, worldMatrix *lin.M4) []float64 {
	msg := make([]float64, 0, 18)
	msg = append(msg, float64(KindUpdateKinematicEnvironment), float64(handle))
	return appendMatrix(msg, worldMatrix)
}

// DecodeUpdateKinematicEnvironment reads back an UpdateKinematicEnvironment
// message.
func DecodeUpdateKinematicEnvironment(msg []float64) (handle int, worldMatrix *lin.M4, ok bool) {
	if len(msg) < 18 || Kind(msg[0]) != KindUpdateKinematicEnvironment {
		return 0, nil, false
	}
	return int(msg[1]), readMatrix(msg[2:18]), true
}

// EncodePositionUpdate lays out the outbound per-tick player state.
func EncodePositionUpdate(p lin.V3, grounded bool) []float64 {
	g := 0.0
	if grounded {
		g = 1
	}
	return []float64{float64(KindPositionUpdate), p.X, p.Y, p.Z, g}
}

// DecodePositionUpdate reads back a PositionUpdate message, for hosts or
// tests consuming the worker's outbound channel.
func DecodePositionUpdate(msg []float64) (p lin.V3, grounded bool, ok bool) {
	if len(msg) < 5 || Kind(msg[0]) != KindPositionUpdate {
		return lin.V3{}, false, false
	}
	return lin.V3{X: msg[1], Y: msg[2], Z: msg[3]}, msg[4] != 0, true
}

// EncodeRaycastUpdate lays out a parabolic raycast response. A miss is
// signaled by NaN in every payload slot, per spec: the only response
// shape, never a separate error channel.
func EncodeRaycastUpdate(r trajectory.Result) []float64 {
	if !r.Hit {
		nan := math.NaN()
		return []float64{float64(KindRaycastUpdate), nan, nan, nan, nan, nan, nan}
	}
	return []float64{
		float64(KindRaycastUpdate),
		r.Point.X, r.Point.Y, r.Point.Z,
		r.Normal.X, r.Normal.Y, r.Normal.Z,
	}
}

// DecodeRaycastUpdate reads back a RaycastUpdate message. hit is false
// when the payload is the NaN-filled miss sentinel.
func DecodeRaycastUpdate(msg []float64) (point, normal lin.V3, hit bool, ok bool) {
	if len(msg) < 7 || Kind(msg[0]) != KindRaycastUpdate {
		return lin.V3{}, lin.V3{}, false, false
	}
	if math.IsNaN(msg[1]) {
		return lin.V3{}, lin.V3{}, false, true
	}
	point = lin.V3{X: msg[1], Y: msg[2], Z: msg[3]}
	normal = lin.V3{X: msg[4], Y: msg[5], Z: msg[6]}
	return point, normal, true, true
}

// appendMatrix flattens a world matrix in the wire's 16-element column-major
// affine layout. M4's fields are already declared in that order (three axis
// rows, then the translation row at Wx/Wy/Wz/Ww), so this is a direct field
// read, not a transpose.
func appendMatrix(msg []float64, m *lin.M4) []float64 {
	return append(msg,
		m.Xx, m.Xy, m.Xz, m.Xw,
		m.Yx, m.Yy, m.Yz, m.Yw,
		m.Zx, m.Zy, m.Zz, m.Zw,
		m.Wx, m.Wy, m.Wz, m.Ww,
	)
}

func readMatrix(a []float64) *lin.M4 {
	return &lin.M4{
		Xx: a[0], Xy: a[1], Xz: a[2], Xw: a[3],
		Yx: a[4], Yy: a[5], Yz: a[6], Yw: a[7],
		Zx: a[8], Zy: a[9], Zz: a[10], Zw: a[11],
		Wx: a[12], Wy: a[13], Wz: a[14], Ww: a[15],
	}
}
