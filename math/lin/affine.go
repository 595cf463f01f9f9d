// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Affine helpers for M4 matrices that carry a rotation/scale plus a
// translation (the row-vector convention documented in matrix.go, with
// the translation row Wx,Wy,Wz and Ww == 1). These are on top of the
// stock matrix primitives above and are used to move points and
// directions between world space and the local space of a geometry
// instance, and to keep a cached inverse/normal matrix in step with a
// transform that changes over time.

// TransformPoint updates v to be point p transformed by m, treating p as a
// row vector with an implicit w of 1. The input point p is unchanged; v may
// be the same vector as p. The updated vector v is returned.
func (m *M4) TransformPoint(v, p *V3) *V3 {
	x := p.X*m.Xx + p.Y*m.Yx + p.Z*m.Zx + m.Wx
	y := p.X*m.Xy + p.Y*m.Yy + p.Z*m.Zy + m.Wy
	z := p.X*m.Xz + p.Y*m.Yz + p.Z*m.Zz + m.Wz
	v.X, v.Y, v.Z = x, y, z
	return v
}

// TransformDir updates v to be direction d transformed by m, treating d as
// a row vector with an implicit w of 0 so the translation row is ignored.
// The input direction d is unchanged; v may be the same vector as d.
func (m *M4) TransformDir(v, d *V3) *V3 {
	x := d.X*m.Xx + d.Y*m.Yx + d.Z*m.Zx
	y := d.X*m.Xy + d.Y*m.Yy + d.Z*m.Zy
	z := d.X*m.Xz + d.Y*m.Yz + d.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Invert updates m to be the affine inverse of a, where a is expected to be
// a rigid/scaled transform: top-left 3x3 linear part plus a translation row
// (Wx,Wy,Wz) and Ww == 1, Xw == Yw == Zw == 0. Returns false, leaving m
// unchanged, if a's linear part is singular or a is not affine.
//
// For p' = p*a (row-vector convention), the inverse satisfies
// p = p'*inv where:
//
//	inv.linear      = a.linear^-1
//	inv.translation = -a.translation * a.linear^-1
func (m *M4) Invert(a *M4) bool {
	if !AeqZ(a.Xw) || !AeqZ(a.Yw) || !AeqZ(a.Zw) || !Aeq(a.Ww, 1) {
		return false
	}
	lin, inv := &M3{}, &M3{}
	lin.SetM4(a)
	if AeqZ(lin.Det()) {
		return false
	}
	inv.Inv(lin)

	translation := &V3{X: a.Wx, Y: a.Wy, Z: a.Wz}
	it := &V3{}
	it.MultvM(translation, inv)

	m.Xx, m.Xy, m.Xz, m.Xw = inv.Xx, inv.Xy, inv.Xz, 0
	m.Yx, m.Yy, m.Yz, m.Yw = inv.Yx, inv.Yy, inv.Yz, 0
	m.Zx, m.Zy, m.Zz, m.Zw = inv.Zx, inv.Zy, inv.Zz, 0
	m.Wx, m.Wy, m.Wz, m.Ww = -it.X, -it.Y, -it.Z, 1
	return true
}

// NormalMatrix updates m to be the 3x3 inverse-transpose of the linear part
// of a, the matrix needed to correctly transform surface normals under a
// transform that includes non-uniform scale. Callers that only ever use
// uniform scale or pure rigid transforms can use a's linear part directly,
// but this is cheap enough to always be correct. Returns false, leaving m
// unchanged, if the linear part is singular.
func (m *M3) NormalMatrix(a *M4) bool {
	lin := &M3{}
	lin.SetM4(a)
	if AeqZ(lin.Det()) {
		return false
	}
	inv := &M3{}
	inv.Inv(lin)
	m.Transpose(inv)
	return true
}
