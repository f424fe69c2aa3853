// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triangulation implements an ideal surface triangulation as an
// index arena (spec.md §9 Design Notes): triangles reference edges by
// stable integer index so that flips and isometry search never need to
// walk pointer cycles, mirroring the way gofem's mesh types key cells by
// vertex/edge index rather than by pointer.
package triangulation

import (
	"github.com/cpmech/gosl/chk"

	"github.com/saraedum/flipper/ferr"
)

// Triangle is a triple of signed edge indices in a fixed cyclic order
// (spec.md §3): Edges[i] >= 0 means the edge is traversed in its
// canonical orientation from this triangle's corner i, negative the
// reverse. A Corner names one such (triangle, side) incidence.
type Triangle struct {
	Index int
	Edges [3]int
}

// edgeIndex returns the unsigned edge index at corner i.
func (t *Triangle) edgeIndex(i int) int {
	e := t.Edges[i]
	if e < 0 {
		return -e - 1
	}
	return e
}

// EdgeAt returns the (possibly sign-flipped) edge index stored at side i.
func (t *Triangle) EdgeAt(i int) int { return t.Edges[i] }

// Corner identifies one of a triangle's three (triangle,side) incidences.
type Corner struct {
	Triangle int
	Side     int
}

// corner is an internal alias kept so existing call sites in this file
// read naturally; it is identical to the exported Corner.
type corner = Corner

// Triangulation is a finite ideal triangulation: a set of triangles glued
// along edges, stable edge indices in [0,NumEdges), every edge either
// internal (two corners) or a self-glued boundary identification.
type Triangulation struct {
	Triangles []*Triangle

	// corners[e] holds the one or two (triangle,side) incidences of edge e.
	corners [][]corner
}

// New builds a triangulation from triangles already indexed (Edges entries
// already assigned, each unsigned edge value appearing in exactly the
// corners its topology requires). Used by file-format loaders and tests
// that construct a closed combinatorial model directly.
func New(triangles []*Triangle, numEdges int) *Triangulation {
	t := &Triangulation{Triangles: triangles, corners: make([][]corner, numEdges)}
	for _, tri := range triangles {
		for side := 0; side < 3; side++ {
			e := tri.edgeIndex(side)
			t.corners[e] = append(t.corners[e], corner{Triangle: tri.Index, Side: side})
		}
	}
	return t
}

// NumEdges returns ζ, the number of stable edge indices.
func (t *Triangulation) NumEdges() int { return len(t.corners) }

// NumTriangles returns |F|.
func (t *Triangulation) NumTriangles() int { return len(t.Triangles) }

// FindEdge returns the one or two (triangle,side) incidences of edge e.
func (t *Triangulation) FindEdge(e int) []corner {
	return append([]corner{}, t.corners[e]...)
}

// IsInternal reports whether edge e has two corners, as opposed to an
// unglued boundary edge with one corner. The two corners may sit on the
// same triangle (a self-folded edge); IsFlippable is the check that
// requires distinct triangles.
func (t *Triangulation) IsInternal(e int) bool {
	return len(t.corners[e]) == 2
}

// triangleByIndex returns the triangle with the given stable Index.
func (t *Triangulation) triangleByIndex(idx int) *Triangle {
	for _, tri := range t.Triangles {
		if tri.Index == idx {
			return tri
		}
	}
	chk.Panic("triangulation: no triangle with index %d", idx)
	return nil
}

// TriangleAt returns the triangle with the given stable Index.
func (t *Triangulation) TriangleAt(idx int) *Triangle { return t.triangleByIndex(idx) }

// IsFlippable reports whether edge e is interior and its two corners sit
// on distinct triangle records (spec.md §4.6): flipping a self-glued
// edge, where both corners belong to the very same triangle, would
// collapse that triangle onto itself. Two distinct triangles may
// otherwise legitimately share more than one edge (e.g. the canonical
// two-triangle ideal triangulation of the once-punctured torus, whose
// two triangles share all three edges), and every edge of such a
// triangulation is flippable.
func (t *Triangulation) IsFlippable(e int) bool {
	cs := t.corners[e]
	if len(cs) != 2 {
		return false
	}
	a, b := t.triangleByIndex(cs[0].Triangle), t.triangleByIndex(cs[1].Triangle)
	return a != b
}

func unsigned(e int) int {
	if e < 0 {
		return -e - 1
	}
	return e
}

// Clone returns a deep copy of t, so that FlipEdge can be applied
// non-destructively by callers that need to keep the original (e.g. the
// involution property test in §8).
func (t *Triangulation) Clone() *Triangulation {
	triangles := make([]*Triangle, len(t.Triangles))
	for i, tri := range t.Triangles {
		c := *tri
		triangles[i] = &c
	}
	return New(triangles, t.NumEdges())
}

// FlipEdge replaces the two triangles ABD, BCD sharing e=BD (e must be
// flippable) with ABC, ACD sharing the new edge AC, reusing e's index for
// AC; all other edge indices are preserved, mirroring spec.md §4.6.
//
// Corner convention: in triangle ABD, Edges are ordered (AB, BD, DA)
// opposite vertices D, A, B respectively: side 0 opposite D is AB, side 1
// opposite A is BD, side 2 opposite B is DA. Symmetrically for BCD.
// FlipEdge locates e by scanning for the side holding it in each of its
// two triangles and reassembles the quadrilateral accordingly.
func (t *Triangulation) FlipEdge(e int) (*Triangulation, error) {
	if !t.IsFlippable(e) {
		return nil, newNotFlippable(e)
	}
	cs := t.corners[e]
	tri1 := t.triangleByIndex(cs[0].Triangle)
	tri2 := t.triangleByIndex(cs[1].Triangle)
	side1, side2 := cs[0].Side, cs[1].Side

	// In tri1's cyclic order DA follows e and AB precedes it; in tri2's
	// cyclic order BC follows e and CD precedes it.
	ab := tri1.Edges[(side1+2)%3]
	da := tri1.Edges[(side1+1)%3]
	bc := tri2.Edges[(side2+1)%3]
	cd := tri2.Edges[(side2+2)%3]

	out := t.Clone()
	newTri1 := out.triangleByIndex(tri1.Index) // becomes ABC
	newTri2 := out.triangleByIndex(tri2.Index) // becomes ACD

	newTri1.Edges = [3]int{bc, e, ab}
	newTri2.Edges = [3]int{cd, da, e}

	out.corners = make([][]corner, t.NumEdges())
	for _, tri := range out.Triangles {
		for side := 0; side < 3; side++ {
			edge := tri.edgeIndex(side)
			out.corners[edge] = append(out.corners[edge], corner{Triangle: tri.Index, Side: side})
		}
	}
	return out, nil
}

func newNotFlippable(e int) error {
	return ferr.NewAssumption("triangulation.FlipEdge: edge %d is not flippable", e)
}
