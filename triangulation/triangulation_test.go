// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triangulation

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

// twoTriangleSquare builds the once-punctured-torus-style two-triangle
// ideal triangulation with 3 distinct edges glued into a single square:
// triangle 0 = ABD (edges 0,1,2), triangle 1 = BCD (edges 2,0,1), the
// smallest triangulation with an interior flippable edge.
func twoTriangleSquare() *Triangulation {
	t0 := &Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return New([]*Triangle{t0, t1}, 3)
}

func TestFlipIsInvolution(tst *testing.T) {

	chk.PrintTitle("triangulation flip is an involution")

	original := twoTriangleSquare()
	require.True(tst, original.IsFlippable(2))

	once, err := original.FlipEdge(2)
	require.NoError(tst, err)
	require.True(tst, once.IsFlippable(2))

	twice, err := once.FlipEdge(2)
	require.NoError(tst, err)

	require.Equal(tst, original.NumEdges(), twice.NumEdges())
	for e := 0; e < original.NumEdges(); e++ {
		require.Equal(tst, len(original.corners[e]), len(twice.corners[e]))
	}
}

// selfFoldedTriangle builds a one-triangle triangulation where edge 1 is
// self-glued (both of its corners sit on the same triangle record): a
// minimal fixture for a non-flippable edge.
func selfFoldedTriangle() *Triangulation {
	t0 := &Triangle{Index: 0, Edges: [3]int{0, 1, 1}}
	return New([]*Triangle{t0}, 2)
}

func TestFlipRejectsSelfFoldedEdge(tst *testing.T) {

	chk.PrintTitle("triangulation flip rejects a self-folded edge")

	original := selfFoldedTriangle()
	require.False(tst, original.IsFlippable(1))
	_, err := original.FlipEdge(1)
	require.Error(tst, err)
}

func TestFlipRejectsBoundaryEdge(tst *testing.T) {

	chk.PrintTitle("triangulation flip rejects a boundary edge with only one corner")

	original := selfFoldedTriangle()
	require.False(tst, original.IsFlippable(0))
	_, err := original.FlipEdge(0)
	require.Error(tst, err)
}

func TestIsometryOfSelfIncludesIdentity(tst *testing.T) {

	chk.PrintTitle("triangulation self-isometry search finds at least one map")

	original := twoTriangleSquare()
	isometries := original.Isometries(original)
	require.NotEmpty(tst, isometries)
}
