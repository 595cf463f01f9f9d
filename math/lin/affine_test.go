// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestInvertRoundTrip(t *testing.T) {
	a := &M4{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 1, 0,
		5, -2, 9, 1,
	}
	inv := &M4{}
	if !inv.Invert(a) {
		t.Fatal("expected invertible matrix")
	}
	p := &V3{X: 1, Y: 1, Z: 1}
	world, back := &V3{}, &V3{}
	a.TransformPoint(world, p)
	inv.TransformPoint(back, world)
	if !back.Aeq(p) {
		t.Errorf(format, back.Dump(), p.Dump())
	}
}

func TestInvertRejectsNonAffine(t *testing.T) {
	a := &M4{
		1, 0, 0, 1, // Xw != 0: not affine
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	inv := &M4{}
	if inv.Invert(a) {
		t.Error("expected Invert to reject a non-affine matrix")
	}
}

func TestInvertRejectsSingular(t *testing.T) {
	a := &M4{
		0, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	inv := &M4{}
	if inv.Invert(a) {
		t.Error("expected Invert to reject a singular matrix")
	}
}

func TestNormalMatrixUniformScaleMatchesLinear(t *testing.T) {
	a := &M4{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	nm := &M3{}
	if !nm.NormalMatrix(a) {
		t.Fatal("expected invertible linear part")
	}
	n := &V3{X: 0, Y: 1, Z: 0}
	transformed := &V3{}
	transformed.MultvM(n, nm)
	if transformed.X != 0 || transformed.Z != 0 || transformed.Y <= 0 {
		t.Errorf("expected normal to stay aligned with Y, got %s", transformed.Dump())
	}
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	a := &M4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		100, 200, 300, 1,
	}
	d := &V3{X: 1, Y: 0, Z: 0}
	out := &V3{}
	a.TransformDir(out, d)
	if !eqV3(out, d) {
		t.Errorf(format, out.Dump(), d.Dump())
	}
}
