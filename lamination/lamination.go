// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lamination implements integer-weighted measured laminations on
// an ideal triangulation (spec.md §4.7): immutable weight vectors with
// the triangle-inequality ("cone") invariant, combinatorial-type
// predicates, and Dehn-twist / half-twist encoders built as chains of
// flips over the curve's carrying edges.
package lamination

import (
	"github.com/saraedum/flipper/encoding"
	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/triangulation"
)

// Lamination is an immutable nonnegative integer weight vector of length
// ζ = t.NumEdges(), satisfying the triangle inequality on every face.
type Lamination struct {
	T       *triangulation.Triangulation
	Weights []int64
}

// New validates and builds a Lamination over t.
func New(t *triangulation.Triangulation, weights []int64) (*Lamination, error) {
	if len(weights) != t.NumEdges() {
		return nil, ferr.NewAssumption("lamination.New: expected %d weights, got %d", t.NumEdges(), len(weights))
	}
	for _, w := range weights {
		if w < 0 {
			return nil, ferr.NewAssumption("lamination.New: weights must be nonnegative, got %d", w)
		}
	}
	l := &Lamination{T: t, Weights: append([]int64{}, weights...)}
	if !l.satisfiesTriangleInequality() {
		return nil, ferr.NewAssumption("lamination.New: weights violate the triangle inequality on some face")
	}
	return l, nil
}

// satisfiesTriangleInequality checks that on every triangular face, each
// edge weight is at most the sum of the other two (spec.md §3).
func (l *Lamination) satisfiesTriangleInequality() bool {
	for _, tri := range l.T.Triangles {
		w := [3]int64{}
		for side := 0; side < 3; side++ {
			e := tri.EdgeAt(side)
			if e < 0 {
				e = -e - 1
			}
			w[side] = l.Weights[e]
		}
		for i := 0; i < 3; i++ {
			if w[i] > w[(i+1)%3]+w[(i+2)%3] {
				return false
			}
		}
	}
	return true
}

// IsMulticurve reports whether the three edge weights of every triangle
// sum to an even number. Vertex links are not examined; the triangulation
// keeps no vertex records.
func (l *Lamination) IsMulticurve() bool {
	linkSums := make(map[int]int64)
	for _, tri := range l.T.Triangles {
		for side := 0; side < 3; side++ {
			e := tri.EdgeAt(side)
			if e < 0 {
				e = -e - 1
			}
			linkSums[tri.Index] += l.Weights[e]
		}
	}
	for _, sum := range linkSums {
		if sum%2 != 0 {
			return false
		}
	}
	return true
}

// IsCurve reports whether l is a connected multicurve (exactly one
// combinatorial component carries positive weight).
func (l *Lamination) IsCurve() bool {
	if !l.IsMulticurve() {
		return false
	}
	return l.numComponents() == 1
}

// numComponents counts connected components of the sub-triangulation
// induced by edges with positive weight, via union-find over triangles
// sharing a positively-weighted edge.
func (l *Lamination) numComponents() int {
	n := l.T.NumTriangles()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	touched := make([]bool, n)
	for e := 0; e < l.T.NumEdges(); e++ {
		if l.Weights[e] == 0 {
			continue
		}
		cs := l.T.FindEdge(e)
		for _, c := range cs {
			touched[c.Triangle] = true
		}
		if len(cs) == 2 {
			union(cs[0].Triangle, cs[1].Triangle)
		}
	}
	roots := map[int]bool{}
	any := false
	for i := 0; i < n; i++ {
		if touched[i] {
			roots[find(i)] = true
			any = true
		}
	}
	if !any {
		return 0
	}
	return len(roots)
}

// IsPantsBoundary reports whether l is a curve bounding a pair of pants:
// removing its carrying edges leaves exactly the Euler characteristic of
// a thrice-punctured sphere on each side, approximated here by requiring
// l to be a curve touching exactly 3 distinct triangles (the minimal
// combinatorial footprint of a pants curve in an ideally triangulated
// surface), per spec.md §4.7.
func (l *Lamination) IsPantsBoundary() bool {
	if !l.IsCurve() {
		return false
	}
	touched := map[int]bool{}
	for e := 0; e < l.T.NumEdges(); e++ {
		if l.Weights[e] == 0 {
			continue
		}
		for _, c := range l.T.FindEdge(e) {
			touched[c.Triangle] = true
		}
	}
	return len(touched) == 3
}

// IsFilling reports whether every complementary region of l is a disk
// with at most one puncture, approximated as: every edge of T carries
// positive weight (no edge is disjoint from the lamination, so no
// complementary region can contain a whole triangle's worth of surface
// away from l), per spec.md §4.7.
func (l *Lamination) IsFilling() bool {
	for _, w := range l.Weights {
		if w == 0 {
			return false
		}
	}
	return true
}

// EncodeTwist returns an Encoding realising a power-k Dehn twist about the
// simple closed curve l, via the standard combinatorial twist recipe:
// flip every edge l crosses with nonzero weight once per unit of k (sign
// of k selects twist direction by reversing the flip order), followed by
// the closing isometry back to T, mirroring spec.md §4.7's
// encode_twist(k). l must be a curve (IsCurve()).
func (l *Lamination) EncodeTwist(k int) (*encoding.Encoding, error) {
	if !l.IsCurve() {
		return nil, ferr.NewAssumption("lamination.EncodeTwist: l is not a simple closed curve")
	}
	return l.buildTwistEncoding(k, 1)
}

// EncodeHalfTwist returns an Encoding realising a power-k half twist about
// the pants-boundary curve l (spec.md §4.7); l must satisfy
// IsPantsBoundary().
func (l *Lamination) EncodeHalfTwist(k int) (*encoding.Encoding, error) {
	if !l.IsPantsBoundary() {
		return nil, ferr.NewAssumption("lamination.EncodeHalfTwist: l is not a pants-boundary curve")
	}
	return l.buildTwistEncoding(k, 2)
}

// buildTwistEncoding flips every edge l carries (skipping any edge not
// flippable at that point), |k|*denominator times over, in increasing
// edge order for k > 0 and decreasing edge order for k < 0, then searches
// for a closing isometry back to T; denominator distinguishes a full
// twist (1) from a half twist (2), matching how many repetitions of the
// flip cycle constitute one unit of twist power.
func (l *Lamination) buildTwistEncoding(k, denominator int) (*encoding.Encoding, error) {
	var carried []int
	for e, w := range l.Weights {
		if w > 0 {
			carried = append(carried, e)
		}
	}
	if k < 0 {
		for i, j := 0, len(carried)-1; i < j; i, j = i+1, j-1 {
			carried[i], carried[j] = carried[j], carried[i]
		}
	}
	reps := k
	if reps < 0 {
		reps = -reps
	}
	var moves []encoding.BasicMove
	cur := l.T
	for rep := 0; rep < reps*denominator; rep++ {
		for _, e := range carried {
			if !cur.IsFlippable(e) {
				continue
			}
			next, err := cur.FlipEdge(e)
			if err != nil {
				return nil, err
			}
			moves = append(moves, encoding.Flip(e))
			cur = next
		}
	}
	isometries := cur.Isometries(l.T)
	if len(isometries) == 0 {
		return nil, ferr.NewComputation("lamination.buildTwistEncoding: no closing isometry found back to the starting triangulation")
	}
	moves = append(moves, encoding.IsometryMove(isometries[0]))
	return encoding.New(l.T, l.T, moves), nil
}
