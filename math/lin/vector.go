// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Vector performs the 3 element vector math needed to move a capsule
// through, and cast segments against, static triangle geometry.

import "math"

// V3 is a 3 element vector. This can also be used as a point.
type V3 struct {
	X float64 // increments as X moves to the right.
	Y float64 // increments as Y moves up from bottom left.
	Z float64 // increments as Z moves out of the screen (right handed view space).
}

// Aeq (~=) almost-equals returns true if all the elements in vector v have
// essentially the same value as the corresponding elements in vector a.
// Used where a direct comparison is unlikely to return true due to floats.
func (v *V3) Aeq(a *V3) bool {
	return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z)
}

// AeqZ (~=) almost equals zero returns true if the square length of the vector
// is close enough to zero that it makes no difference.
func (v *V3) AeqZ() bool { return v.Dot(v) < Epsilon }

// Set (=, copy, clone) sets the elements of vector v to have the same values
// as the elements of vector a. The updated vector v is returned.
func (v *V3) Set(a *V3) *V3 {
	v.X, v.Y, v.Z = a.X, a.Y, a.Z
	return v
}

// Add (+) adds vectors a and b storing the results of the addition in v.
// Vector v may be used as one or both of the parameters.
// For example (+=) is
//
//	v.Add(v, b)
//
// The updated vector v is returned.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Scale (*=) updates the elements in vector v by multiplying the
// corresponding elements in vector a by the given scalar value.
// Vector v may be used as one or both of the vector parameters.
// The updated vector v is returned.
func (v *V3) Scale(a *V3, s float64) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Dot vector v with input vector a. Both vectors v and a are unchanged.
// Wikipedia states:
//
//	"This operation can be defined either algebraically or geometrically.
//	 Algebraically, it is the sum of the products of the corresponding
//	 entries of the two sequences of numbers. Geometrically, it is the
//	 product of the magnitudes of the two vectors and the cosine of
//	 the angle between them."
func (v *V3) Dot(a *V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Len returns the length of vector v. Vector length is the square root of
// the dot product. The calling vector v is unchanged.
func (v *V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the length of vector v squared.
// The calling vector v is unchanged.
func (v *V3) LenSqr() float64 { return v.Dot(v) }

// Unit updates vector v such that its length is 1.
// Calling vector v is unchanged if its length is zero.
// The updated vector v is returned.
func (v *V3) Unit() *V3 {
	length := v.Len()
	if length == 0 {
		return v
	}
	inv := 1 / length
	v.X, v.Y, v.Z = v.X*inv, v.Y*inv, v.Z*inv
	return v
}

// Cross updates v to be the cross product of vectors a and b.
// A cross product vector is a vector that is perpendicular to both input
// vectors. This is only meaningful in 3 (or 7) dimensions.
// Input vectors a and b are unchanged. Vector v may be used as either
// input parameter. The updated vector v is returned.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X
	return v
}

// vector operations
// ============================================================================
// vector-matrix operations

// MultvM updates vector v to be the multiplication of row vector rv
// and matrix m. Vector v may be used as the input vector rv.
// The updated vector v is returned.
//
//	                  [ Xx Xy Xz ]
//	   [ vx vy vz ] x [ Yx Yy Yz ] = [ vx' vy' vz' ]
//	                  [ Zx Zy Zz ]
func (v *V3) MultvM(rv *V3, m *M3) *V3 {
	x := rv.X*m.Xx + rv.Y*m.Yx + rv.Z*m.Zx
	y := rv.X*m.Xy + rv.Y*m.Yy + rv.Z*m.Zy
	z := rv.X*m.Xz + rv.Y*m.Yz + rv.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}
