// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splitting

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/triangulation"
)

func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

func TestProportionalDetectsPositiveScalarMultiple(tst *testing.T) {

	chk.PrintTitle("splitting proportional detects a positive rational scalar multiple")

	ratio, ok := proportional([]int64{2, 4, 6}, []int64{1, 2, 3})
	require.True(tst, ok)
	require.Equal(tst, "2", ratio.RatString())
}

func TestProportionalRejectsNonMultiple(tst *testing.T) {

	chk.PrintTitle("splitting proportional rejects a non-proportional vector")

	_, ok := proportional([]int64{2, 4, 7}, []int64{1, 2, 3})
	require.False(tst, ok)
}

func TestHeaviestFlippableEdgeBreaksTiesByIndex(tst *testing.T) {

	chk.PrintTitle("splitting heaviestFlippableEdge breaks ties by lowest edge index")

	t := twoTriangleSquare()
	e, err := heaviestFlippableEdge(t, []int64{3, 3, 0})
	require.NoError(tst, err)
	require.Equal(tst, 0, e)
}

func TestFlipInvolutionFuzzOverRandomEdges(tst *testing.T) {

	chk.PrintTitle("splitting fuzz: flipping a random edge twice is the identity")

	rnd.Init(0)
	for trial := 0; trial < 20; trial++ {
		original := twoTriangleSquare()
		e := rnd.Int(0, original.NumEdges()-1)
		require.True(tst, original.IsFlippable(e), "trial %d: edge %d", trial, e)

		once, err := original.FlipEdge(e)
		require.NoError(tst, err)
		twice, err := once.FlipEdge(e)
		require.NoError(tst, err)

		require.Equal(tst, original.NumEdges(), twice.NumEdges(), "trial %d: edge %d", trial, e)
		require.Equal(tst, original.NumTriangles(), twice.NumTriangles(), "trial %d: edge %d", trial, e)
	}
}

func TestSplitFindsPeriodicClosureOnSquare(tst *testing.T) {

	chk.PrintTitle("splitting Split finds a periodic closure on a two-triangle square")

	t := twoTriangleSquare()
	seq, err := Split(t, []int64{2, 1, 1}, nil)
	require.NoError(tst, err)
	require.GreaterOrEqual(tst, seq.PeriodLength, 1)
}
