// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin provides the vector and matrix math this module needs to
// move a capsule through, and cast segments against, static triangle
// geometry. Linear math operations are useful for describing and
// transforming geometry as well as simulating physics.
package lin

// Design Notes:
//
// 1) This is a CPU based 3D math library. It is most often called from
//    tick loops where performance is key. Some general guidelines,
//    verified with benchmarks, can be seen throughout the library.
//     - avoid instantiating new structures
//     - use pointers to structures
//     - prefer multiply over divide
//
// 2) Wikipedia states: "In linear algebra, real numbers are called scalars...".
//    Currently the default scalar size is float64 since the underlying go math
//    package uses this size.

import "math"

// Various linear math constants.
const (
	// DegRad converts degrees to radians: X degrees * DegRad = Y radians.
	DegRad float64 = math.Pi * 2 / 360.0

	// Epsilon is used to distinguish when a float is close enough to a number.
	Epsilon float64 = 0.000001
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * DegRad }

// AeqZ (~=) almost-equals returns true if the difference between x and zero
// is so small that it doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if the difference between a and b is
// so small that it doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }
