// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geometry

import (
	"fmt"
	"math"

	"github.com/galvanized/loco/math/lin"
)

// environment is one registered mesh: its local-space triangle soup, the
// BVH built over that soup once at insertion, and the world transform
// (plus its cached inverse and normal matrix) used to move queries and
// hits between world and local space.
type environment struct {
	handle int
	kind   Kind

	triangles []Triangle
	root      *bvhNode

	transform    lin.M4
	inverse      lin.M4
	normalMatrix lin.M3
	prevTransform lin.M4
}

// Registry stores every environment the engine currently collides against,
// keyed by the host-chosen integer handle.
type Registry struct {
	envs map[int]*environment
}

// NewRegistry returns an empty registry ready for Add.
func NewRegistry() *Registry {
	return &Registry{envs: make(map[int]*environment)}
}

// Hit is a single query result: a world-space point and the world-space
// surface normal of the triangle that produced it.
type Hit struct {
	Point   lin.V3
	Normal  lin.V3
	Handle  int
	T       float64 // parametric position along the query segment, [0,1]
}

// WorldTriangle is a candidate triangle returned to the collision package
// for capsule depenetration, already placed in world space.
type WorldTriangle struct {
	V0, V1, V2 lin.V3
	Normal     lin.V3
	Handle     int
}

// Add inserts a new environment. vertices is a flat triangle soup (3
// vertices per triangle) unless indices is non-empty, in which case
// indices selects vertices 3-at-a-time from vertices. Add fails with an
// error if handle is already present, the geometry is malformed (fewer
// than 3 vertices, indices not a multiple of 3, or an out-of-range
// index), or worldMatrix is not a valid affine transform.
func (r *Registry) Add(handle int, vertices []lin.V3, indices []int, kind Kind, worldMatrix *lin.M4) error {
	if _, exists := r.envs[handle]; exists {
		logger.Warn("geometry: duplicate handle on add, ignoring", "handle", handle)
		return fmt.Errorf("geometry: handle %d already registered", handle)
	}
	triangles, err := buildTriangles(vertices, indices)
	if err != nil {
		return fmt.Errorf("geometry: invalid geometry for handle %d: %w", handle, err)
	}

	env := &environment{handle: handle, kind: kind, triangles: triangles}
	if !env.inverse.Invert(worldMatrix) {
		return fmt.Errorf("geometry: invalid world matrix for handle %d", handle)
	}
	env.transform = *worldMatrix
	env.prevTransform = *worldMatrix
	env.normalMatrix.NormalMatrix(worldMatrix)
	env.root = buildBVH(triangles)

	r.envs[handle] = env
	return nil
}

// Remove deletes handle's environment. An absent handle is a no-op.
func (r *Registry) Remove(handle int) {
	delete(r.envs, handle)
}

// UpdateTransform replaces handle's world transform, first archiving the
// current transform as its "previous" for kinematic delta tracking. An
// unknown handle or a non-affine/singular matrix is rejected and the
// previous transform is retained.
func (r *Registry) UpdateTransform(handle int, worldMatrix *lin.M4) error {
	env, ok := r.envs[handle]
	if !ok {
		logger.Warn("geometry: update_transform on unknown handle, ignoring", "handle", handle)
		return fmt.Errorf("geometry: unknown handle %d", handle)
	}
	var inverse lin.M4
	if !inverse.Invert(worldMatrix) {
		logger.Warn("geometry: invalid world matrix, keeping previous transform", "handle", handle)
		return fmt.Errorf("geometry: invalid world matrix for handle %d", handle)
	}
	env.prevTransform = env.transform
	env.transform = *worldMatrix
	env.inverse = inverse
	env.normalMatrix.NormalMatrix(worldMatrix)
	return nil
}

// KinematicDelta returns the world-space translation of handle's
// environment since the previous tick boundary. ok is false for an
// unknown handle.
func (r *Registry) KinematicDelta(handle int) (delta lin.V3, ok bool) {
	env, found := r.envs[handle]
	if !found {
		return lin.V3{}, false
	}
	delta.X = env.transform.Wx - env.prevTransform.Wx
	delta.Y = env.transform.Wy - env.prevTransform.Wy
	delta.Z = env.transform.Wz - env.prevTransform.Wz
	return delta, true
}

// Has reports whether handle is currently registered.
func (r *Registry) Has(handle int) bool {
	_, ok := r.envs[handle]
	return ok
}

// buildTriangles turns a flat vertex (and optional index) array into
// local-space triangles, skipping degenerate ones, validating shape.
func buildTriangles(vertices []lin.V3, indices []int) ([]Triangle, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("fewer than 3 vertices")
	}
	faceCount := len(vertices) / 3
	get := func(i int) (lin.V3, error) {
		if i < 0 || i >= len(vertices) {
			return lin.V3{}, fmt.Errorf("index %d out of range", i)
		}
		return vertices[i], nil
	}
	if len(indices) > 0 {
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("index count %d not a multiple of 3", len(indices))
		}
		faceCount = len(indices) / 3
		get = func(slot int) (lin.V3, error) {
			if slot < 0 || slot >= len(indices) {
				return lin.V3{}, fmt.Errorf("index slot %d out of range", slot)
			}
			vi := indices[slot]
			if vi < 0 || vi >= len(vertices) {
				return lin.V3{}, fmt.Errorf("vertex index %d out of range", vi)
			}
			return vertices[vi], nil
		}
	} else if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("vertex count %d not a multiple of 3", len(vertices))
	}

	triangles := make([]Triangle, 0, faceCount)
	for f := 0; f < faceCount; f++ {
		v0, err := get(f * 3)
		if err != nil {
			return nil, err
		}
		v1, err := get(f*3 + 1)
		if err != nil {
			return nil, err
		}
		v2, err := get(f*3 + 2)
		if err != nil {
			return nil, err
		}
		tri := Triangle{V0: v0, V1: v1, V2: v2}
		e0 := lin.V3{X: v1.X - v0.X, Y: v1.Y - v0.Y, Z: v1.Z - v0.Z}
		e1 := lin.V3{X: v2.X - v0.X, Y: v2.Y - v0.Y, Z: v2.Z - v0.Z}
		// the normal points to the side from which V0, V1, V2 appear clockwise
		tri.Normal.Cross(&e1, &e0)
		if degenerate(&tri) {
			continue
		}
		tri.Normal.Unit()
		triangles = append(triangles, tri)
	}
	return triangles, nil
}

// QuerySegment finds the closest intersection of the world-space segment
// p0->p1 against every registered environment. It transforms the segment
// into each environment's local space using the cached inverse, traverses
// that environment's BVH nearest-child-first, and returns the earliest-t
// hit translated back to world space with the hit triangle's world-space
// normal (via the cached inverse-transpose normal matrix).
func (r *Registry) QuerySegment(p0, p1 lin.V3) (Hit, bool) {
	best := Hit{T: math.Inf(1)}
	found := false
	for _, env := range r.envs {
		hit, ok := env.querySegment(p0, p1)
		if !ok || (found && hit.T >= best.T) {
			continue
		}
		best, found = hit, true
	}
	return best, found
}

// QuerySegmentIn is QuerySegment restricted to the given handles, for
// callers (the trajectory sampler) that have already prefiltered the
// registry by a world-space bounding box.
func (r *Registry) QuerySegmentIn(handles []int, p0, p1 lin.V3) (Hit, bool) {
	best := Hit{T: math.Inf(1)}
	found := false
	for _, h := range handles {
		env, ok := r.envs[h]
		if !ok {
			continue
		}
		hit, ok := env.querySegment(p0, p1)
		if !ok || (found && hit.T >= best.T) {
			continue
		}
		best, found = hit, true
	}
	return best, found
}

func (env *environment) querySegment(p0, p1 lin.V3) (Hit, bool) {
	var lp0, lp1 lin.V3
	env.inverse.TransformPoint(&lp0, &p0)
	env.inverse.TransformPoint(&lp1, &p1)
	localBounds := segmentBounds(&lp0, &lp1)

	var envT float64
	var envIdx int
	var envFound bool
	env.root.traverseSegment(&lp0, &lp1, &localBounds, env.triangles, &envT, &envIdx, &envFound)
	if !envFound {
		return Hit{}, false
	}
	tri := &env.triangles[envIdx]
	_, localPoint, _ := segmentTriangleIntersect(&lp0, &lp1, tri)
	var worldPoint, worldNormal lin.V3
	env.transform.TransformPoint(&worldPoint, &localPoint)
	worldNormal.MultvM(&tri.Normal, &env.normalMatrix)
	worldNormal.Unit()
	return Hit{Point: worldPoint, Normal: worldNormal, Handle: env.handle, T: envT}, true
}

// Handles returns every currently registered environment handle, in no
// particular order.
func (r *Registry) Handles() []int {
	out := make([]int, 0, len(r.envs))
	for h := range r.envs {
		out = append(out, h)
	}
	return out
}

// WorldBounds returns handle's environment bounds (the BVH root's bounds,
// which cover every triangle) transformed into world space. Used by the
// trajectory sampler's AABB prefilter.
func (r *Registry) WorldBounds(handle int) (Bounds, bool) {
	env, ok := r.envs[handle]
	if !ok {
		return Bounds{}, false
	}
	return localBoundsToWorld(&env.root.bounds, &env.transform), true
}

// localBoundsToWorld is the forward counterpart to worldBoundsToLocal: it
// transforms all 8 corners of a local-space AABB into world space and
// takes the bounds of the result, exact for any affine transform.
func localBoundsToWorld(b *Bounds, transform *lin.M4) Bounds {
	corners := [8]lin.V3{
		{X: b.Sx, Y: b.Sy, Z: b.Sz}, {X: b.Sx, Y: b.Sy, Z: b.Lz},
		{X: b.Sx, Y: b.Ly, Z: b.Sz}, {X: b.Sx, Y: b.Ly, Z: b.Lz},
		{X: b.Lx, Y: b.Sy, Z: b.Sz}, {X: b.Lx, Y: b.Sy, Z: b.Lz},
		{X: b.Lx, Y: b.Ly, Z: b.Sz}, {X: b.Lx, Y: b.Ly, Z: b.Lz},
	}
	var first lin.V3
	transform.TransformPoint(&first, &corners[0])
	out := Bounds{Sx: first.X, Sy: first.Y, Sz: first.Z, Lx: first.X, Ly: first.Y, Lz: first.Z}
	for _, c := range corners[1:] {
		var p lin.V3
		transform.TransformPoint(&p, &c)
		out.expandPoint(&p)
	}
	return out
}

// QueryCapsule returns every world-space triangle whose local-space BVH
// leaf bounds overlap an AABB around the given world-space capsule
// (a vertical segment of length 2*halfHeight centered at center, expanded
// by radius). Used by the depenetration resolver.
func (r *Registry) QueryCapsule(center lin.V3, radius, halfHeight float64) []WorldTriangle {
	var out []WorldTriangle
	top := lin.V3{X: center.X, Y: center.Y + halfHeight, Z: center.Z}
	bottom := lin.V3{X: center.X, Y: center.Y - halfHeight, Z: center.Z}
	worldBounds := segmentBounds(&top, &bottom)
	worldBounds.Sx -= radius
	worldBounds.Sy -= radius
	worldBounds.Sz -= radius
	worldBounds.Lx += radius
	worldBounds.Ly += radius
	worldBounds.Lz += radius

	for _, env := range r.envs {
		localBounds := worldBoundsToLocal(&worldBounds, &env.inverse)
		candidates := env.root.queryBounds(&localBounds, nil)
		for _, idx := range candidates {
			tri := &env.triangles[idx]
			wt := WorldTriangle{Handle: env.handle}
			env.transform.TransformPoint(&wt.V0, &tri.V0)
			env.transform.TransformPoint(&wt.V1, &tri.V1)
			env.transform.TransformPoint(&wt.V2, &tri.V2)
			wt.Normal.MultvM(&tri.Normal, &env.normalMatrix)
			wt.Normal.Unit()
			out = append(out, wt)
		}
	}
	return out
}

func segmentBounds(p0, p1 *lin.V3) Bounds {
	b := Bounds{
		Sx: math.Min(p0.X, p1.X), Sy: math.Min(p0.Y, p1.Y), Sz: math.Min(p0.Z, p1.Z),
		Lx: math.Max(p0.X, p1.X), Ly: math.Max(p0.Y, p1.Y), Lz: math.Max(p0.Z, p1.Z),
	}
	return b
}

// worldBoundsToLocal conservatively transforms a world-space AABB into an
// environment's local space by transforming all 8 corners and taking
// their bounds — exact for affine transforms including rotation.
func worldBoundsToLocal(b *Bounds, inverse *lin.M4) Bounds {
	corners := [8]lin.V3{
		{X: b.Sx, Y: b.Sy, Z: b.Sz}, {X: b.Sx, Y: b.Sy, Z: b.Lz},
		{X: b.Sx, Y: b.Ly, Z: b.Sz}, {X: b.Sx, Y: b.Ly, Z: b.Lz},
		{X: b.Lx, Y: b.Sy, Z: b.Sz}, {X: b.Lx, Y: b.Sy, Z: b.Lz},
		{X: b.Lx, Y: b.Ly, Z: b.Sz}, {X: b.Lx, Y: b.Ly, Z: b.Lz},
	}
	var first lin.V3
	inverse.TransformPoint(&first, &corners[0])
	out := Bounds{Sx: first.X, Sy: first.Y, Sz: first.Z, Lx: first.X, Ly: first.Y, Lz: first.Z}
	for _, c := range corners[1:] {
		var p lin.V3
		inverse.TransformPoint(&p, &c)
		out.expandPoint(&p)
	}
	return out
}
