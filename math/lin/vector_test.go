// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

import (
	"testing"
)

// While the functions below are not complicated, they are foundational such that it is
// better to test each one of them then have the bugs discovered later from other code.
// Where applicable, check that the output vector can also be used as one or both
// of the input vectors.

func TestSetV3(t *testing.T) {
	v, a := &V3{}, &V3{1, 2, 3}
	if !eqV3(v.Set(a), a) {
		t.Errorf("%s is not the same as %s", v.Dump(), a.Dump())
	}
}

func TestAddV3(t *testing.T) {
	v, want := &V3{1, 2, 3}, &V3{2, 4, 6}
	if !eqV3(v.Add(v, v), want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestScaleV3(t *testing.T) {
	v, want := &V3{1, 2, 3}, &V3{2, 4, 6}
	if !eqV3(v.Scale(v, 2), want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestDotV3(t *testing.T) {
	v, a := &V3{1, 2, 3}, &V3{2, 4, 8}
	if v.Dot(a) != 34 || v.Dot(v) != 14 {
		t.Error("Invalid dot product")
	}
}

func TestLengthV3(t *testing.T) {
	v := &V3{9, 2, 6}
	if v.Len() != 11 {
		t.Error("Invalid length", v.Len())
	}
	if v.LenSqr() != 121 {
		t.Error("Invalid length squared", v.LenSqr())
	}
}

func TestNormalizeV3(t *testing.T) {
	v, want := &V3{0, 0, 0}, &V3{0, 0, 0}
	if !eqV3(v.Unit(), want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
	v = &V3{5, 6, 7}
	if !Aeq(v.Unit().Len(), 1) {
		t.Error("Normalized vectors should have length one")
	}
}

func TestCrossV3(t *testing.T) {
	v, b, want := &V3{3, -3, 1}, &V3{4, 9, 2}, &V3{-15, -2, 39}
	if !eqV3(v.Cross(v, b), want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestMultvMV3(t *testing.T) {
	v, m, want := &V3{1, 2, 3},
		&M3{1, 2, 3,
			1, 2, 3,
			1, 2, 3}, &V3{6, 12, 18}
	if !eqV3(v.MultvM(v, m), want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestAeqV3(t *testing.T) {
	v, a := &V3{1, 2, 3}, &V3{1.0000001, 2, 3}
	if !v.Aeq(a) {
		t.Errorf("expected %s to almost-equal %s", v.Dump(), a.Dump())
	}
}

func TestAeqZV3(t *testing.T) {
	v := &V3{0.0000001, 0, 0}
	if !v.AeqZ() {
		t.Error("expected a near-zero vector to report AeqZ")
	}
}
