// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classify

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/encoding"
	"github.com/saraedum/flipper/matrix"
	"github.com/saraedum/flipper/polynomial"
	"github.com/saraedum/flipper/triangulation"
)

func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

func TestRealRootsAbove1DescendingOnGoldenPolynomial(tst *testing.T) {

	chk.PrintTitle("classify finds the golden ratio squared as the leading root of x^2-3x+1")

	p := polynomial.New([]int64{1, -3, 1})
	roots := realRootsAbove1Descending(p, 4)
	require.Len(tst, roots, 1)
	f, _ := roots[0].Float64()
	require.InDelta(tst, 2.618, f, 0.01)
}

func TestTripleInequalityRowsCoversEveryFace(tst *testing.T) {

	chk.PrintTitle("classify builds one triangle-inequality row set per triangle")

	t := twoTriangleSquare()
	rows := tripleInequalityRows(t)
	require.Len(tst, rows, 3*t.NumTriangles())
}

func TestDominantEigenvalueApproxMatchesGoldenRatioSquared(tst *testing.T) {

	chk.PrintTitle("classify DominantEigenvalueApprox cross-checks the golden-ratio action matrix")

	// [[2,1],[1,1]] has characteristic polynomial x^2-3x+1, the same
	// dilatation family as the aB generator word on S_{1,1} (spec.md §8
	// scenario 1).
	m := matrix.IntegerFromInt64([][]int64{{2, 1}, {1, 1}})
	got, err := DominantEigenvalueApprox(m)
	require.NoError(tst, err)
	require.InDelta(tst, 2.618, got, 0.01)
}

func TestDominantEigenvalueApproxRejectsNonSquare(tst *testing.T) {

	chk.PrintTitle("classify DominantEigenvalueApprox rejects a non-square matrix")

	m := matrix.IntegerFromInt64([][]int64{{1, 2, 3}, {4, 5, 6}})
	_, err := DominantEigenvalueApprox(m)
	require.Error(tst, err)
}

func TestPowerIterationEstimateMatchesGoldenRatioSquared(tst *testing.T) {

	chk.PrintTitle("classify powerIterationEstimate converges to the dilatation (3+sqrt5)/2")

	m := matrix.IntegerFromInt64([][]int64{{2, 1}, {1, 1}})
	got := powerIterationEstimate(m, 25)
	require.InDelta(tst, 2.618, got, 0.01)
}

func TestRealRootsAbove1DescendingFuzzFindsThePlantedRoot(tst *testing.T) {

	chk.PrintTitle("classify realRootsAbove1Descending finds a randomly planted dominant root")

	rnd.Init(0)
	for trial := 0; trial < 20; trial++ {
		r := rnd.Int(2, 9)     // planted dominant root, always > 1
		s := rnd.Int(-5, 1)    // companion root, always <= 1
		// (x-r)(x-s) = x^2 - (r+s)x + r*s, constant term first.
		p := polynomial.New([]int64{int64(r * s), int64(-(r + s)), 1})
		roots := realRootsAbove1Descending(p, 4)
		require.Len(tst, roots, 1, "trial %d: r=%d s=%d", trial, r, s)
		f, _ := roots[0].Float64()
		require.InDelta(tst, float64(r), f, 0.01, "trial %d: r=%d s=%d", trial, r, s)
	}
}

func TestInvariantLaminationRejectsNonSelfMap(tst *testing.T) {

	chk.PrintTitle("classify InvariantLamination rejects an encoding that is not a self-map")

	t := twoTriangleSquare()
	other := t.Clone()
	e := encoding.New(t, other, []encoding.BasicMove{encoding.Identity()})
	_, _, err := InvariantLamination(e, nil)
	require.Error(tst, err)
}
