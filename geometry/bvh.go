// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geometry

import (
	"math"

	"github.com/galvanized/loco/math/lin"
)

// bvhLeafSize and bvhMaxDepth bound the recursive split: stop subdividing
// once a node holds few enough triangles or the tree has gone deep enough
// that further splitting would not pay for itself.
const (
	bvhLeafSize = 4
	bvhMaxDepth = 20
)

// bvhNode is one node of the local-space acceleration structure built once
// over an environment's triangle soup. Interior nodes carry no triangle
// indices; leaves carry no children.
type bvhNode struct {
	bounds   Bounds
	left     *bvhNode
	right    *bvhNode
	triangle []int // indices into the owning environment's Triangles, leaves only
}

func (n *bvhNode) isLeaf() bool { return n.left == nil && n.right == nil }

// buildBVH constructs the tree over the given triangles. Degenerate
// triangles were already filtered out by the caller, so every index here
// is load-bearing geometry.
func buildBVH(triangles []Triangle) *bvhNode {
	indices := make([]int, len(triangles))
	for i := range indices {
		indices[i] = i
	}
	if len(indices) == 0 {
		return &bvhNode{}
	}
	return buildBVHNode(triangles, indices, 0)
}

func buildBVHNode(triangles []Triangle, indices []int, depth int) *bvhNode {
	bounds := triangleBounds(&triangles[indices[0]])
	for _, i := range indices[1:] {
		tb := triangleBounds(&triangles[i])
		bounds.union(&tb)
	}

	if len(indices) <= bvhLeafSize || depth >= bvhMaxDepth {
		return &bvhNode{bounds: bounds, triangle: indices}
	}

	axis := longestAxis(&bounds)
	leftIdx, rightIdx := partitionTriangles(triangles, indices, axis)
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		// degenerate split (all centroids coincide on this axis): stop here.
		return &bvhNode{bounds: bounds, triangle: indices}
	}

	return &bvhNode{
		bounds: bounds,
		left:   buildBVHNode(triangles, leftIdx, depth+1),
		right:  buildBVHNode(triangles, rightIdx, depth+1),
	}
}

// longestAxis returns 0, 1, or 2 for the X, Y, or Z axis along which bounds
// b is largest.
func longestAxis(b *Bounds) int {
	sx, sy, sz := b.Lx-b.Sx, b.Ly-b.Sy, b.Lz-b.Sz
	switch {
	case sx >= sy && sx >= sz:
		return 0
	case sy >= sz:
		return 1
	default:
		return 2
	}
}

// partitionTriangles splits indices into two halves by the median centroid
// position along axis.
func partitionTriangles(triangles []Triangle, indices []int, axis int) (left, right []int) {
	centroid := func(i int) float64 {
		c := triangleCentroid(&triangles[i])
		switch axis {
		case 0:
			return c.X
		case 1:
			return c.Y
		default:
			return c.Z
		}
	}

	sorted := append([]int(nil), indices...)
	// insertion sort on a copy of the index list; the root call sorts every
	// triangle of the mesh, and each level below sorts half as many.
	for i := 1; i < len(sorted); i++ {
		v, j := sorted[i], i-1
		for j >= 0 && centroid(sorted[j]) > centroid(v) {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = v
	}
	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

// queryBounds recursively collects the leaf triangle indices whose node
// bounds overlap the query bounds q, appending onto out.
func (n *bvhNode) queryBounds(q *Bounds, out []int) []int {
	if n == nil || !n.bounds.Overlaps(q) {
		return out
	}
	if n.isLeaf() {
		return append(out, n.triangle...)
	}
	out = n.left.queryBounds(q, out)
	out = n.right.queryBounds(q, out)
	return out
}

// traverseSegment walks the tree for the closest segment/triangle hit,
// visiting the child nearer to p0 first (per the "nearer child first"
// traversal-order requirement) so that a hit found in the near child can
// prune the far child: the far child is tested against the bounds of the
// segment shortened to end at that hit.
func (n *bvhNode) traverseSegment(p0, p1 *lin.V3, segBounds *Bounds, triangles []Triangle, bestT *float64, bestIdx *int, found *bool) {
	if n == nil || !n.bounds.Overlaps(segBounds) {
		return
	}
	if n.isLeaf() {
		for _, idx := range n.triangle {
			t, _, ok := segmentTriangleIntersect(p0, p1, &triangles[idx])
			if ok && (!*found || t < *bestT) {
				*bestT = t
				*bestIdx = idx
				*found = true
			}
		}
		return
	}
	first, second := n.nearestChildFirst(p0.X, p0.Y, p0.Z)
	first.traverseSegment(p0, p1, segBounds, triangles, bestT, bestIdx, found)
	if *found {
		t := *bestT
		hitPoint := lin.V3{X: p0.X + (p1.X-p0.X)*t, Y: p0.Y + (p1.Y-p0.Y)*t, Z: p0.Z + (p1.Z-p0.Z)*t}
		shortened := segmentBounds(p0, &hitPoint)
		segBounds = &shortened
	}
	second.traverseSegment(p0, p1, segBounds, triangles, bestT, bestIdx, found)
}

// nearestChildFirst returns n's children ordered so that the child whose
// bounds center is closer to p is visited first, per the "nearer child
// first" traversal-order requirement for closest-hit queries.
func (n *bvhNode) nearestChildFirst(px, py, pz float64) (first, second *bvhNode) {
	lc, rc := n.left.centerDistSqr(px, py, pz), n.right.centerDistSqr(px, py, pz)
	if lc <= rc {
		return n.left, n.right
	}
	return n.right, n.left
}

func (n *bvhNode) centerDistSqr(px, py, pz float64) float64 {
	if n == nil {
		return math.MaxFloat64
	}
	cx := (n.bounds.Sx + n.bounds.Lx) / 2
	cy := (n.bounds.Sy + n.bounds.Ly) / 2
	cz := (n.bounds.Sz + n.bounds.Lz) / 2
	dx, dy, dz := px-cx, py-cy, pz-cz
	return dx*dx + dy*dy + dz*dz
}
