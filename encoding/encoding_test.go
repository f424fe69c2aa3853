// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoding

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/saraedum/flipper/triangulation"
	"github.com/stretchr/testify/require"
)

func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

// TestActionMatrixMatchesDirectApplication checks spec.md §8's "M(E)*l
// equals E(l)" property for a single flip.
func TestActionMatrixMatchesDirectApplication(tst *testing.T) {

	chk.PrintTitle("encoding action matrix matches direct application")

	t := twoTriangleSquare()
	e := New(t, nil, []BasicMove{Flip(2)})
	weights := []int64{3, 2, 5}

	mat, err := e.ActionMatrix(weights)
	require.NoError(tst, err)

	applied, _, err := e.Apply(weights)
	require.NoError(tst, err)

	got := fromBigVec(mat.MulVec(toBigVec(weights)))
	require.Equal(tst, applied, got)
}

func TestIdentityEncodingIsOrderOne(tst *testing.T) {

	chk.PrintTitle("encoding identity has order 1")

	t := twoTriangleSquare()
	e := New(t, t, []BasicMove{Identity()})
	order, err := e.Order([]int64{1, 1, 1}, 8)
	require.NoError(tst, err)
	require.Equal(tst, 1, order)
}
