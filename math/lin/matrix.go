// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Matrix functions deal with the 3x3 and 4x4 matrices this module needs
// for environment transforms: set, invert, and transpose the affine
// transforms supplied as flat 4x4 matrices. Camera-projection and
// quaternion-conversion methods have no place here, since nothing in
// this module renders or orients a body by quaternion.
//
// Row or Column Major order? No matter the convention, the end result of a
// vector point (x, y, z, 1) multiplied with a transform matrix must be:
//
//	x' = x*Xx + y*Yx + z*Zx + Tx
//	y' = x*Xy + y*Yy + z*Zy + Ty
//	z' = x*Xz + y*Yz + z*Zz + Tz
//
// Where x, y, z is the original vector and X, Y, Z are the three axes of the
// coordinate system. Note that expectations can differ per implementation, eg:
//
//	"For programming purposes, OpenGL matrices are 16-value arrays with base
//	 vectors laid out contiguously in memory. The translation components occupy
//	 the 13th, 14th, and 15th elements of the 16-element matrix, where indices
//	 are numbered from 1 to 16"
//
// This means the memory layout expected by OpenGL is:
//
//	Xx, Xy, Xz, Xw, Yx, Yy, Yz, Yw, Zx, Zy, Zz, Zw, Wx, Wy, Wz, Ww
//
// with the translation values Tx, Ty, Tz at Wx, Wy, Wz. Note that OpenGL
// GLSL shaders interpret each base vector as a column (Column-Major)
// although it appears as Row-Major when viewed from Golang. Note that
// DirectX HLSL shaders interpret the same memory layout as Row-Major.
// In either case, consistency is key, especially for transforms where it
// is always apply Scale first, then Rotate, then Translate.
//
// Conforming to the above memory layout, this matrix implementation uses
// explicitly indexed, Row-Major, matrix members as follows:
//
//	        3x3 M3          4x4 M4
//	     [Xx, Xy, Xz]  [Xx, Xy, Xz, Xw]  X-Axis
//	     [Yx, Yy, Yz]  [Yx, Yy, Yz, Yw]  Y-Axis
//	     [Zx, Zy, Zz]  [Zx, Zy, Zz, Zw]  Z-Axis
//	                   [Wx, Wy, Wz, Ww]  Translation vector, Ww == 1.
//
// See appendix G of OpenGL Red Book for matrix algorithms. Also see:
// http://steve.hollasch.net/cgindex/math/matrix/column-vec.html
// http://www.scratchapixel.com/lessons/3d-basic-lessons/lesson-4-geometry/conventions-again-row-major-vs-column-major-vector/

// M3 is a 3x3 matrix where the matrix elements are individually addressable.
type M3 struct {
	Xx, Xy, Xz float64 // indices 0, 1, 2  [00, 01, 02]  X-Axis
	Yx, Yy, Yz float64 // indices 3, 4, 5  [10, 11, 12]  Y-Axis
	Zx, Zy, Zz float64 // indices 6, 7, 8  [20, 21, 22]  Z-Axis
}

// M4 is a 4x4 matrix where the matrix elements are individually addressable.
type M4 struct {
	Xx, Xy, Xz, Xw float64 // indices 0, 1, 2, 3  [00, 01, 02, 03] X-Axis
	Yx, Yy, Yz, Yw float64 // indices 4, 5, 6, 7  [10, 11, 12, 13] Y-Axis
	Zx, Zy, Zz, Zw float64 // indices 8, 9, a, b  [20, 21, 22, 23] Z-Axis
	Wx, Wy, Wz, Ww float64 // indices c, d, e, f  [30, 31, 32, 33]
}

// M4I provides a reference identity matrix that can be used
// in calculations. It should never be changed.
var M4I = &M4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1}

// Set (=) assigns all the elements values from matrix a to the
// corresponding element values in matrix m. The source matrix a is unchanged.
// The updated matrix m is returned.
func (m *M4) Set(a *M4) *M4 {
	m.Xx, m.Xy, m.Xz, m.Xw = a.Xx, a.Xy, a.Xz, a.Xw
	m.Yx, m.Yy, m.Yz, m.Yw = a.Yx, a.Yy, a.Yz, a.Yw
	m.Zx, m.Zy, m.Zz, m.Zw = a.Zx, a.Zy, a.Zz, a.Zw
	m.Wx, m.Wy, m.Wz, m.Ww = a.Wx, a.Wy, a.Wz, a.Ww
	return m
}

// SetM4 (=) updates calling matrix m to be the 3x3 matrix from the top left
// corner of the given 4x4 matrix a. The source matrix a is unchanged.
// The updated matrix m is returned.
//
//	[ Xx Xy Xz Xw ]    [ Xx Xy Xz ]
//	[ Yx Yy Yz Yw ] => [ Yx Yy Yz ]
//	[ Zx Zy Zz Zw ]    [ Zx Zy Zz ]
//	[ Wx Wy Wz Ww ]
func (m *M3) SetM4(a *M4) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Xy, a.Xz
	m.Yx, m.Yy, m.Yz = a.Yx, a.Yy, a.Yz
	m.Zx, m.Zy, m.Zz = a.Zx, a.Zy, a.Zz
	return m
}

// Transpose updates m to be the reflection of matrix a over its diagonal.
// This essentially changes row-major order to column-major order
// or vice-versa.
//
//	[ Xx Xy Xz ]    [ Xx Yx Zx ]
//	[ Yx Yy Yz ] => [ Xy Yy Zy ]
//	[ Zx Zy Zz ]    [ Xz Yz Zz ]
//
// The input matrix a is not changed. Matrix m may be used as the input parameter.
// The updated matrix m is returned.
func (m *M3) Transpose(a *M3) *M3 {
	t_Xy, t_Xz, t_Yz := a.Xy, a.Xz, a.Yz
	m.Xx, m.Xy, m.Xz = a.Xx, a.Yx, a.Zx
	m.Yx, m.Yy, m.Yz = t_Xy, a.Yy, a.Zy
	m.Zx, m.Zy, m.Zz = t_Xz, t_Yz, a.Zz
	return m
}

// Det returns the determinant of matrix m. Determinants are helpful
// when calculating the inverse of transform matrices. Wikipedia states:
//
//	"The determinant provides important information about [..] a matrix that
//	 corresponds to a linear transformation of a vector space [..] the transformation
//	 has an inverse operation exactly when the determinant is nonzero."
func (m *M3) Det() float64 {
	return m.Xx*(m.Yy*m.Zz-m.Yz*m.Zy) + m.Xy*(m.Yz*m.Zx-m.Yx*m.Zz) + m.Xz*(m.Yx*m.Zy-m.Yy*m.Zx)
}

// Cof returns one of the possible cofactors of a 3x3 matrix given the
// input minor (the row and column removed from the calculation).
// Wikipedia states:
//
//	"cofactors [...] are useful for computing both the determinant
//	 and inverse of square matrices".
func (m *M3) Cof(row, col int) float64 {
	minor := row*10 + col // minor given by the removed row and column.
	switch minor {
	case 00:
		return m.Yy*m.Zz - m.Yz*m.Zy
	case 01:
		return m.Yz*m.Zx - m.Yx*m.Zz // flip to negate.
	case 02:
		return m.Yx*m.Zy - m.Yy*m.Zx
	case 10:
		return m.Xz*m.Zy - m.Xy*m.Zz // flip to negate.
	case 11:
		return m.Xx*m.Zz - m.Xz*m.Zx
	case 12:
		return m.Xy*m.Zx - m.Xx*m.Zy // flip to negate.
	case 20:
		return m.Xy*m.Yz - m.Xz*m.Yy
	case 21:
		return m.Xz*m.Yx - m.Xx*m.Yz // flip to negate.
	case 22:
		return m.Xx*m.Yy - m.Xy*m.Yx
	}
	return 0
}

// Inv updates m to be the inverse of matrix a. The updated matrix m is returned.
// Matrix m is not updated if the matrix has no inverse.
func (m *M3) Inv(a *M3) *M3 {
	det := a.Det()
	if det != 0 {
		s := 1 / det
		xx, xy, xz := a.Cof(0, 0)*s, a.Cof(1, 0)*s, a.Cof(2, 0)*s
		yx, yy, yz := a.Cof(0, 1)*s, a.Cof(1, 1)*s, a.Cof(2, 1)*s
		zx, zy, zz := a.Cof(0, 2)*s, a.Cof(1, 2)*s, a.Cof(2, 2)*s
		m.Xx, m.Xy, m.Xz = xx, xy, xz
		m.Yx, m.Yy, m.Yz = yx, yy, yz
		m.Zx, m.Zy, m.Zz = zx, zy, zz
	}
	return m
}
