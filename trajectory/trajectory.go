// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package trajectory samples a parabolic arc (the teleport preview ray)
// against the geometry registry and reports the first hit along it.
package trajectory

import (
	"math"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
)

// segments is the number of uniform line segments the arc is approximated
// by between t=0 and t_end.
const segments = 30

// Result is the outcome of a Cast: either a hit (Point, Normal, Handle, T
// all meaningful) or a no-hit sentinel (Hit == false).
type Result struct {
	Hit    bool
	Point  lin.V3
	Normal lin.V3
	Handle int
	T      float64
}

// noHit is the sentinel returned when the arc never intersects any
// registered environment; its T is NaN so a host can detect it without
// relying on the Hit flag alone.
var noHit = Result{T: math.NaN()}

// Cast samples the arc starting at origin with initial velocity v (direction
// times speed), under gravity g (applied along -Y, so g is typically
// negative), down to the lower bound minY. It returns the earliest-t
// intersection with any registered environment, or the no-hit sentinel.
func Cast(reg *geometry.Registry, origin, v lin.V3, g, minY float64) Result {
	tEnd, ok := endTime(origin.Y, v.Y, g, minY)
	if !ok {
		return noHit
	}

	peak := origin
	if v.Y > 0 {
		peak.Y = origin.Y + (v.Y*v.Y)/(2*math.Abs(g))
	}
	end := sample(origin, v, g, tEnd)

	box := boundingBox(origin, peak, end)
	candidates := filterEnvironments(reg, box)
	if len(candidates) == 0 {
		return noHit
	}

	prev := origin
	dt := tEnd / segments
	for i := 1; i <= segments; i++ {
		t := dt * float64(i)
		cur := sample(origin, v, g, t)
		hit, ok := reg.QuerySegmentIn(candidates, prev, cur)
		if ok {
			segStart := dt * float64(i-1)
			return Result{Hit: true, Point: hit.Point, Normal: hit.Normal, Handle: hit.Handle, T: segStart + hit.T*dt}
		}
		prev = cur
	}
	return noHit
}

// sample returns the position along the arc at time t.
func sample(origin, v lin.V3, g, t float64) lin.V3 {
	return lin.V3{
		X: origin.X + v.X*t,
		Y: origin.Y + v.Y*t + 0.5*g*t*t,
		Z: origin.Z + v.Z*t,
	}
}

// endTime solves (1/2)g*t^2 + vy*t + (py - minY) = 0 for the positive root
// at which the arc reaches minY. ok is false if the arc never reaches minY
// (e.g. g == 0 and the ray is moving away from the floor).
func endTime(py, vy, g, minY float64) (t float64, ok bool) {
	c := py - minY
	if lin.AeqZ(g) {
		if lin.AeqZ(vy) {
			return 0, false
		}
		t = -c / vy
		return t, t > 0
	}
	a := 0.5 * g
	disc := vy*vy - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-vy + sq) / (2 * a)
	t2 := (-vy - sq) / (2 * a)
	switch {
	case t1 > 0 && t2 > 0:
		t = math.Min(t1, t2)
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return 0, false
	}
	return t, true
}

func boundingBox(pts ...lin.V3) geometry.Bounds {
	b := geometry.Bounds{Sx: pts[0].X, Sy: pts[0].Y, Sz: pts[0].Z, Lx: pts[0].X, Ly: pts[0].Y, Lz: pts[0].Z}
	for _, p := range pts[1:] {
		if p.X < b.Sx {
			b.Sx = p.X
		}
		if p.Y < b.Sy {
			b.Sy = p.Y
		}
		if p.Z < b.Sz {
			b.Sz = p.Z
		}
		if p.X > b.Lx {
			b.Lx = p.X
		}
		if p.Y > b.Ly {
			b.Ly = p.Y
		}
		if p.Z > b.Lz {
			b.Lz = p.Z
		}
	}
	return b
}

// filterEnvironments returns the handles of every registered environment
// whose world-space bounds overlap box.
func filterEnvironments(reg *geometry.Registry, box geometry.Bounds) []int {
	var out []int
	for _, h := range reg.Handles() {
		wb, ok := reg.WorldBounds(h)
		if ok && wb.Overlaps(&box) {
			out = append(out, h)
		}
	}
	return out
}
