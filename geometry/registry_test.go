// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geometry

import (
	"testing"

	"github.com/galvanized/loco/math/lin"
)

func flatFloor() []lin.V3 {
	return []lin.V3{
		{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: 10},
		{X: -10, Y: 0, Z: -10}, {X: 10, Y: 0, Z: 10}, {X: -10, Y: 0, Z: 10},
	}
}

func TestAddRejectsDuplicateHandle(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(1, flatFloor(), nil, Static, lin.M4I); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := r.Add(1, flatFloor(), nil, Static, lin.M4I); err == nil {
		t.Error("expected duplicate handle to be rejected")
	}
	if !r.Has(1) {
		t.Error("prior environment should remain after a rejected duplicate add")
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(5, flatFloor(), nil, Static, lin.M4I); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	r.Remove(5)
	if r.Has(5) {
		t.Error("handle should be gone after remove")
	}
	r.Remove(5) // removing an absent handle is a no-op
}

func TestAddRejectsTooFewVertices(t *testing.T) {
	r := NewRegistry()
	err := r.Add(1, []lin.V3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, nil, Static, lin.M4I)
	if err == nil {
		t.Error("expected rejection of fewer than 3 vertices")
	}
}

func TestAddRejectsNonAffineMatrix(t *testing.T) {
	r := NewRegistry()
	bad := &lin.M4{Xx: 1, Xw: 1, Yy: 1, Zz: 1, Ww: 1} // Xw != 0
	if err := r.Add(1, flatFloor(), nil, Static, bad); err == nil {
		t.Error("expected rejection of non-affine matrix")
	}
}

func TestUpdateTransformUnknownHandle(t *testing.T) {
	r := NewRegistry()
	if err := r.UpdateTransform(99, lin.M4I); err == nil {
		t.Error("expected unknown handle to be rejected")
	}
}

func TestUpdateTransformKeepsPreviousOnInvalidMatrix(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Kinematic, lin.M4I)
	bad := &lin.M4{}
	if err := r.UpdateTransform(1, bad); err == nil {
		t.Error("expected rejection of singular matrix")
	}
	delta, ok := r.KinematicDelta(1)
	if !ok || delta.X != 0 || delta.Y != 0 || delta.Z != 0 {
		t.Error("transform should be unchanged after a rejected update")
	}
}

func TestKinematicDeltaTracksTranslation(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Kinematic, lin.M4I)
	moved := &lin.M4{}
	moved.Set(lin.M4I)
	moved.Wx = 0.01
	if err := r.UpdateTransform(1, moved); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	delta, ok := r.KinematicDelta(1)
	if !ok {
		t.Fatal("expected known handle")
	}
	if !lin.Aeq(delta.X, 0.01) || delta.Y != 0 || delta.Z != 0 {
		t.Errorf("unexpected delta %+v", delta)
	}
}

func TestQuerySegmentHitsFloor(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	hit, ok := r.QuerySegment(lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 0, Y: -2, Z: 0})
	if !ok {
		t.Fatal("expected a hit on the floor")
	}
	if !lin.Aeq(hit.Point.Y, 0) {
		t.Errorf("expected hit at y=0, got %+v", hit.Point)
	}
	if hit.Normal.Y <= 0 {
		t.Errorf("expected an upward-facing normal, got %+v", hit.Normal)
	}
}

func TestQuerySegmentNoHitAboveFloorGoingUp(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	_, ok := r.QuerySegment(lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 0, Y: 5, Z: 0})
	if ok {
		t.Error("expected no hit going away from the floor")
	}
}

func TestQuerySegmentOutsideFloorExtentMisses(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	_, ok := r.QuerySegment(lin.V3{X: 100, Y: 2, Z: 100}, lin.V3{X: 100, Y: -2, Z: 100})
	if ok {
		t.Error("expected no hit outside the floor's extent")
	}
}

func TestQuerySegmentRespectsWorldTransform(t *testing.T) {
	r := NewRegistry()
	raised := &lin.M4{}
	raised.Set(lin.M4I)
	raised.Wy = 5
	r.Add(1, flatFloor(), nil, Static, raised)
	hit, ok := r.QuerySegment(lin.V3{X: 0, Y: 7, Z: 0}, lin.V3{X: 0, Y: 3, Z: 0})
	if !ok {
		t.Fatal("expected hit on the raised floor")
	}
	if !lin.Aeq(hit.Point.Y, 5) {
		t.Errorf("expected hit at y=5, got %+v", hit.Point)
	}
}

func TestQueryCapsuleReturnsNearbyTriangles(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	tris := r.QueryCapsule(lin.V3{X: 0, Y: 0.5, Z: 0}, 0.25, 0.9)
	if len(tris) == 0 {
		t.Error("expected candidate triangles near the floor")
	}
	far := r.QueryCapsule(lin.V3{X: 1000, Y: 0.5, Z: 0}, 0.25, 0.9)
	if len(far) != 0 {
		t.Error("expected no candidates far from the floor")
	}
}

func TestDegenerateTrianglesSkipped(t *testing.T) {
	r := NewRegistry()
	verts := append(flatFloor(), lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 0, Y: 0, Z: 0}, lin.V3{X: 0, Y: 0, Z: 0})
	if err := r.Add(1, verts, nil, Static, lin.M4I); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	env := r.envs[1]
	if len(env.triangles) != 2 {
		t.Errorf("expected the degenerate triangle to be filtered, got %d triangles", len(env.triangles))
	}
}

func TestNoHitSentinelWhenEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	_, ok := r.QuerySegment(lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 0, Y: -2, Z: 0})
	if ok {
		t.Error("expected no hit on an empty registry")
	}
}

func TestWorldBoundsCoversTransformedGeometry(t *testing.T) {
	r := NewRegistry()
	raised := &lin.M4{}
	raised.Set(lin.M4I)
	raised.Wy = 5
	r.Add(1, flatFloor(), nil, Static, raised)
	b, ok := r.WorldBounds(1)
	if !ok {
		t.Fatal("expected bounds for a registered handle")
	}
	if !lin.Aeq(b.Sy, 5) || !lin.Aeq(b.Ly, 5) {
		t.Errorf("expected bounds to follow the +5 Y offset, got %+v", b)
	}
	if _, ok := r.WorldBounds(99); ok {
		t.Error("expected no bounds for an unknown handle")
	}
}

func TestHandlesListsRegisteredEnvironments(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	r.Add(2, flatFloor(), nil, Static, lin.M4I)
	handles := r.Handles()
	if len(handles) != 2 {
		t.Errorf("expected 2 handles, got %v", handles)
	}
}

func TestQuerySegmentInRestrictsToGivenHandles(t *testing.T) {
	r := NewRegistry()
	r.Add(1, flatFloor(), nil, Static, lin.M4I)
	raisedFar := &lin.M4{}
	raisedFar.Set(lin.M4I)
	raisedFar.Wy = 50
	r.Add(2, flatFloor(), nil, Static, raisedFar)

	_, ok := r.QuerySegmentIn([]int{2}, lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 0, Y: -2, Z: 0})
	if ok {
		t.Error("expected no hit when the only allowed handle is far away")
	}
	hit, ok := r.QuerySegmentIn([]int{1, 2}, lin.V3{X: 0, Y: 2, Z: 0}, lin.V3{X: 0, Y: -2, Z: 0})
	if !ok || hit.Handle != 1 {
		t.Errorf("expected a hit on handle 1, got %+v ok=%v", hit, ok)
	}
}
