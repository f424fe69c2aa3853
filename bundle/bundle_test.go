// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/triangulation"
)

// twoTriangleSquare is the once-punctured-torus ideal triangulation used
// throughout the other packages' test suites.
func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

func TestPermutationMulInverseRoundTrips(tst *testing.T) {

	chk.PrintTitle("bundle permutation multiply-by-inverse is the identity")

	p := Permutation{2, 3, 1, 0}
	require.Equal(tst, Identity4, p.Mul(p.Inverse()))
}

func TestNewLayeredTriangulationGluesLowerToUpper(tst *testing.T) {

	chk.PrintTitle("bundle New glues every lower tetrahedron to its upper partner")

	surface := twoTriangleSquare()
	lt := New(surface)
	require.Len(tst, lt.Core.Tetrahedra, 4)
	for i := 0; i < 2; i++ {
		g := lt.Core.Tetrahedra[i].Glued[3]
		require.NotNil(tst, g)
		require.Equal(tst, lt.Core.Tetrahedra[2+i], g.Neighbor)
	}
}

func TestFlipPreservesGluedFaceInvariant(tst *testing.T) {

	chk.PrintTitle("bundle Flip keeps every existing gluing's reciprocal intact")

	surface := twoTriangleSquare()
	lt := New(surface)
	require.True(tst, lt.Upper.IsFlippable(2))
	require.NoError(tst, lt.Flip(2))

	// The flip added exactly one tetrahedron.
	require.Len(tst, lt.Core.Tetrahedra, 5)
	newTet := lt.Core.Tetrahedra[4]
	for side := 0; side < 4; side++ {
		g := newTet.Glued[side]
		require.NotNil(tst, g)
		back := g.Neighbor.Glued[g.Perm.At(side)]
		require.NotNil(tst, back)
		require.Equal(tst, newTet, back.Neighbor)
	}
}

func TestCloseProducesClosedTriangulationWithCusps(tst *testing.T) {

	chk.PrintTitle("bundle Close produces a closed triangulation with at least one cusp")

	surface := twoTriangleSquare()
	lt := New(surface)
	require.NoError(tst, lt.Flip(2))

	isos := lt.Upper.Isometries(surface)
	require.NotEmpty(tst, isos, "the once-punctured-torus triangulation should admit a closing isometry after one flip")

	closed, slopes, err := lt.Close(isos[0])
	require.NoError(tst, err)
	require.Empty(tst, slopes)
	require.True(tst, closed.IsClosed())
	require.Greater(tst, closed.NumCusps, 0)

	s, err := closed.ManifoldString()
	require.NoError(tst, err)
	require.Contains(tst, s, "Flipper_triangulation")
}
