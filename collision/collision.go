// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package collision resolves the player's capsule against the geometry
// registry: a per-tick ground probe and a capsule depenetration resolver
// that classifies each contact as floor, wall, or ceiling.
package collision

import (
	"log/slog"
	"math"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
)

var logger = slog.Default()

// Capsule is the player's collision body: a vertical swept sphere of
// radius R centered at Center, with the cylindrical section spanning
// Center.Y ± HalfHeight.
type Capsule struct {
	Center     lin.V3
	Radius     float64
	HalfHeight float64
}

// probeDepth is how far below the capsule's lower sphere the ground probe
// casts looking for a contact.
const probeDepth = 1.0

// GroundProbe casts a short downward segment from the capsule's lower
// sphere center and returns the closest intersection across every
// registered environment. ok is false when nothing is found within
// probeDepth.
func GroundProbe(reg *geometry.Registry, capsule Capsule) (geometry.Hit, bool) {
	bottom := lin.V3{X: capsule.Center.X, Y: capsule.Center.Y - capsule.HalfHeight, Z: capsule.Center.Z}
	below := lin.V3{X: bottom.X, Y: bottom.Y - probeDepth, Z: bottom.Z}
	return reg.QuerySegment(bottom, below)
}

// GroundDistance returns |hit.Point.Y - (playerY - H)|, or +Inf if there
// was no hit.
func GroundDistance(hit geometry.Hit, ok bool, playerY, halfHeight float64) float64 {
	if !ok {
		return math.Inf(1)
	}
	return math.Abs(hit.Point.Y - (playerY - halfHeight))
}

// ContactKind classifies a depenetration contact by the angle between its
// triangle normal and the up-axis.
type ContactKind int

const (
	Floor ContactKind = iota
	Wall
	Ceiling
)

// Contact is one resolved (or unresolved, if Converged is false) capsule
// penetration against a single triangle.
type Contact struct {
	Kind      ContactKind
	Handle    int
	Depth     float64
	Normal    lin.V3
	Converged bool
}

// maxDepenetrationPasses bounds the resolver to a fixed iteration budget;
// contacts left over after this many passes are reported unconverged and
// not retried within the tick.
const maxDepenetrationPasses = 4

// penetrationEpsilon is the depth below which a contact is treated as
// already resolved and skipped.
const penetrationEpsilon = 1e-6

// DepenetrationResult reports what the resolver did this tick, including
// the iteration-budget counters a host or test can use to assert the "at
// most ~4 passes" invariant directly.
type DepenetrationResult struct {
	Center      lin.V3
	Grounded    bool
	Contacts    []Contact
	Passes      int
	Resolved    int
	Unconverged int
}

// Depenetrate resolves capsule against every triangle the registry's
// capsule query returns near it, classifying each by the angle between the
// triangle normal and up (slopeMax radians splits floor/wall, and
// π-slopeMax splits wall/ceiling). Within each pass triangles are processed
// deepest penetration first, so the deepest correction is applied first and
// the shallower ones follow it.
func Depenetrate(reg *geometry.Registry, capsule Capsule, up lin.V3, slopeMax float64) DepenetrationResult {
	center := capsule.Center
	groundedFromFloor := false
	var contacts []Contact
	passesUsed := 0

	for pass := 0; pass < maxDepenetrationPasses; pass++ {
		passesUsed = pass + 1
		tris := reg.QueryCapsule(center, capsule.Radius, capsule.HalfHeight)
		type penetration struct {
			tri   *geometry.WorldTriangle
			depth float64
			push  lin.V3
		}
		var pending []penetration
		for i := range tris {
			tri := &tris[i]
			spherePos := closestSpherePos(&center, capsule.HalfHeight, tri)
			closest := geometry.ClosestPointOnTriangle(&spherePos, tri)
			diff := lin.V3{X: spherePos.X - closest.X, Y: spherePos.Y - closest.Y, Z: spherePos.Z - closest.Z}
			dist := diff.Len()
			depth := capsule.Radius - dist
			if depth <= penetrationEpsilon {
				continue
			}
			var push lin.V3
			if dist > 1e-9 {
				push = diff
				push.Scale(&push, 1/dist)
			} else {
				push = tri.Normal
			}
			pending = append(pending, penetration{tri: tri, depth: depth, push: push})
		}
		if len(pending) == 0 {
			break
		}

		// insertion sort by descending depth: the deepest correction is
		// applied first, smaller penetration depths after it.
		for i := 1; i < len(pending); i++ {
			v, j := pending[i], i-1
			for j >= 0 && pending[j].depth < v.depth {
				pending[j+1] = pending[j]
				j--
			}
			pending[j+1] = v
		}

		for _, p := range pending {
			angle := vectorAngle(&p.tri.Normal, &up)
			kind := classify(angle, slopeMax)
			switch kind {
			case Floor:
				center.Y += p.depth * up.Y
				groundedFromFloor = true
			case Ceiling:
				center.Y -= p.depth * up.Y
			case Wall:
				horiz := p.push
				horiz.Y = 0
				if l := horiz.Len(); l > 1e-9 {
					horiz.Scale(&horiz, p.depth/l)
					center.Add(&center, &horiz)
				}
			}
			contacts = append(contacts, Contact{Kind: kind, Handle: p.tri.Handle, Depth: p.depth, Normal: p.tri.Normal, Converged: true})
		}
	}

	unconverged := 0
	if tris := reg.QueryCapsule(center, capsule.Radius, capsule.HalfHeight); len(tris) > 0 {
		for i := range tris {
			spherePos := closestSpherePos(&center, capsule.HalfHeight, &tris[i])
			closest := geometry.ClosestPointOnTriangle(&spherePos, &tris[i])
			diff := lin.V3{X: spherePos.X - closest.X, Y: spherePos.Y - closest.Y, Z: spherePos.Z - closest.Z}
			if capsule.Radius-diff.Len() > penetrationEpsilon {
				logger.Warn("collision: depenetration did not converge within iteration budget", "handle", tris[i].Handle)
				contacts = append(contacts, Contact{Kind: classify(vectorAngle(&tris[i].Normal, &up), slopeMax), Handle: tris[i].Handle, Converged: false})
				unconverged++
			}
		}
	}

	return DepenetrationResult{
		Center:      center,
		Grounded:    groundedFromFloor,
		Contacts:    contacts,
		Passes:      passesUsed,
		Resolved:    len(contacts) - unconverged,
		Unconverged: unconverged,
	}
}

// closestSpherePos approximates the point on the capsule's vertical axis
// (center.Y ± halfHeight) nearest to tri by clamping the triangle's
// closest point to center into that range. A capsule is two hemispheres
// and a cylinder; treating it as a single sphere swept along its axis and
// snapping to the nearest axis point keeps depenetration cheap while
// still distinguishing a low wall hit from a floor hit under the feet.
func closestSpherePos(center *lin.V3, halfHeight float64, tri *geometry.WorldTriangle) lin.V3 {
	probe := geometry.ClosestPointOnTriangle(center, tri)
	y := probe.Y
	if y < center.Y-halfHeight {
		y = center.Y - halfHeight
	} else if y > center.Y+halfHeight {
		y = center.Y + halfHeight
	}
	return lin.V3{X: center.X, Y: y, Z: center.Z}
}

func classify(angle, slopeMax float64) ContactKind {
	switch {
	case angle <= slopeMax:
		return Floor
	case angle > math.Pi-slopeMax:
		return Ceiling
	default:
		return Wall
	}
}

func vectorAngle(a, b *lin.V3) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
