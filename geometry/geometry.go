// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geometry stores the walkable environments the locomotion engine
// collides against: per-handle triangle soup, an immutable BVH built over
// that soup at insertion time, and the current world transform used to map
// queries between world and local space.
package geometry

import (
	"log/slog"
	"math"

	"github.com/galvanized/loco/math/lin"
)

// Kind distinguishes environments whose vertices never move in local space
// but whose world transform may (kinematic) from ones that never move at
// all once added (static). Neither kind is ever remeshed; only Kinematic's
// transform is expected to change between ticks.
type Kind int

const (
	Static Kind = iota
	Kinematic
)

// Triangle is one face of an environment's local-space triangle soup, with
// its local-space normal precomputed at build time.
type Triangle struct {
	V0, V1, V2 lin.V3
	Normal     lin.V3
}

// Bounds is an axis-aligned bounding box. It mirrors physics.Abox's field
// names and Overlaps method — same broad-phase idiom, independent type
// so this package never needs to import the legacy physics package.
type Bounds struct {
	Sx, Sy, Sz float64
	Lx, Ly, Lz float64
}

// Overlaps returns true if bounds a and b intersect on all three axes.
// Touching along a point, edge, or face counts as overlap, so the
// zero-thickness bounds of a flat floor overlap a box that reaches its plane.
func (a *Bounds) Overlaps(b *Bounds) bool {
	return a.Lx >= b.Sx && a.Sx <= b.Lx &&
		a.Ly >= b.Sy && a.Sy <= b.Ly &&
		a.Lz >= b.Sz && a.Sz <= b.Lz
}

// union grows a to include b. a is returned.
func (a *Bounds) union(b *Bounds) *Bounds {
	a.Sx, a.Sy, a.Sz = math.Min(a.Sx, b.Sx), math.Min(a.Sy, b.Sy), math.Min(a.Sz, b.Sz)
	a.Lx, a.Ly, a.Lz = math.Max(a.Lx, b.Lx), math.Max(a.Ly, b.Ly), math.Max(a.Lz, b.Lz)
	return a
}

// expandPoint grows a to include point p. a is returned.
func (a *Bounds) expandPoint(p *lin.V3) *Bounds {
	a.Sx, a.Sy, a.Sz = math.Min(a.Sx, p.X), math.Min(a.Sy, p.Y), math.Min(a.Sz, p.Z)
	a.Lx, a.Ly, a.Lz = math.Max(a.Lx, p.X), math.Max(a.Ly, p.Y), math.Max(a.Lz, p.Z)
	return a
}

func triangleBounds(tri *Triangle) Bounds {
	b := Bounds{Sx: tri.V0.X, Sy: tri.V0.Y, Sz: tri.V0.Z, Lx: tri.V0.X, Ly: tri.V0.Y, Lz: tri.V0.Z}
	b.expandPoint(&tri.V1)
	b.expandPoint(&tri.V2)
	return b
}

func triangleCentroid(tri *Triangle) lin.V3 {
	return lin.V3{
		X: (tri.V0.X + tri.V1.X + tri.V2.X) / 3,
		Y: (tri.V0.Y + tri.V1.Y + tri.V2.Y) / 3,
		Z: (tri.V0.Z + tri.V1.Z + tri.V2.Z) / 3,
	}
}

// degenerate reports whether a triangle's area is close enough to zero to
// skip, per the "degenerate triangles are skipped" rule.
func degenerate(tri *Triangle) bool {
	e0 := lin.V3{X: tri.V1.X - tri.V0.X, Y: tri.V1.Y - tri.V0.Y, Z: tri.V1.Z - tri.V0.Z}
	e1 := lin.V3{X: tri.V2.X - tri.V0.X, Y: tri.V2.Y - tri.V0.Y, Z: tri.V2.Z - tri.V0.Z}
	cross := lin.V3{}
	cross.Cross(&e0, &e1)
	return cross.LenSqr() < lin.Epsilon*lin.Epsilon
}

var logger = slog.Default()
