// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geometry

import (
	"math"

	"github.com/galvanized/loco/math/lin"
)

// segTriEpsilon bounds how close to parallel a segment and triangle plane
// can be before the intersection is rejected as numerically unreliable.
const segTriEpsilon = 1e-9

// segmentTriangleIntersect tests the local-space segment p0->p1 against
// triangle tri using the Möller-Trumbore algorithm, restricted to t in
// [0,1], so an intersection anywhere on the segment, endpoints included,
// counts. Returns
// the parametric position t, the local-space hit point, and whether a hit
// occurred.
func segmentTriangleIntersect(p0, p1 *lin.V3, tri *Triangle) (t float64, point lin.V3, ok bool) {
	dir := lin.V3{X: p1.X - p0.X, Y: p1.Y - p0.Y, Z: p1.Z - p0.Z}
	edge1 := lin.V3{X: tri.V1.X - tri.V0.X, Y: tri.V1.Y - tri.V0.Y, Z: tri.V1.Z - tri.V0.Z}
	edge2 := lin.V3{X: tri.V2.X - tri.V0.X, Y: tri.V2.Y - tri.V0.Y, Z: tri.V2.Z - tri.V0.Z}

	pvec := lin.V3{}
	pvec.Cross(&dir, &edge2)
	det := edge1.Dot(&pvec)
	if math.Abs(det) < segTriEpsilon {
		return 0, lin.V3{}, false
	}
	invDet := 1 / det

	tvec := lin.V3{X: p0.X - tri.V0.X, Y: p0.Y - tri.V0.Y, Z: p0.Z - tri.V0.Z}
	u := tvec.Dot(&pvec) * invDet
	if u < 0 || u > 1 {
		return 0, lin.V3{}, false
	}

	qvec := lin.V3{}
	qvec.Cross(&tvec, &edge1)
	v := dir.Dot(&qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, lin.V3{}, false
	}

	t = edge2.Dot(&qvec) * invDet
	if t < 0 || t > 1 {
		return 0, lin.V3{}, false
	}

	point = lin.V3{X: p0.X + dir.X*t, Y: p0.Y + dir.Y*t, Z: p0.Z + dir.Z*t}
	return t, point, true
}

// closestPointOnTriangle returns the point on triangle tri (in whatever
// space tri's vertices are expressed) closest to p, using the standard
// barycentric-region method (Ericson, Real-Time Collision Detection §5.1.5).
func closestPointOnTriangle(p, a, b, c *lin.V3) lin.V3 {
	ab := lin.V3{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z}
	ac := lin.V3{X: c.X - a.X, Y: c.Y - a.Y, Z: c.Z - a.Z}
	ap := lin.V3{X: p.X - a.X, Y: p.Y - a.Y, Z: p.Z - a.Z}

	d1 := ab.Dot(&ap)
	d2 := ac.Dot(&ap)
	if d1 <= 0 && d2 <= 0 {
		return *a
	}

	bp := lin.V3{X: p.X - b.X, Y: p.Y - b.Y, Z: p.Z - b.Z}
	d3 := ab.Dot(&bp)
	d4 := ac.Dot(&bp)
	if d3 >= 0 && d4 <= d3 {
		return *b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return lin.V3{X: a.X + v*ab.X, Y: a.Y + v*ab.Y, Z: a.Z + v*ab.Z}
	}

	cp := lin.V3{X: p.X - c.X, Y: p.Y - c.Y, Z: p.Z - c.Z}
	d5 := ab.Dot(&cp)
	d6 := ac.Dot(&cp)
	if d6 >= 0 && d5 <= d6 {
		return *c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return lin.V3{X: a.X + w*ac.X, Y: a.Y + w*ac.Y, Z: a.Z + w*ac.Z}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return lin.V3{X: b.X + w*(c.X-b.X), Y: b.Y + w*(c.Y-b.Y), Z: b.Z + w*(c.Z-b.Z)}
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return lin.V3{X: a.X + ab.X*v + ac.X*w, Y: a.Y + ab.Y*v + ac.Y*w, Z: a.Z + ab.Z*v + ac.Z*w}
}

// ClosestPointOnTriangle exposes closestPointOnTriangle to the collision
// package, which needs it in world space for capsule depenetration.
func ClosestPointOnTriangle(p *lin.V3, tri *WorldTriangle) lin.V3 {
	return closestPointOnTriangle(p, &tri.V0, &tri.V1, &tri.V2)
}
