// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lamination

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/triangulation"
)

func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

func TestNewRejectsTriangleInequalityViolation(tst *testing.T) {

	chk.PrintTitle("lamination New rejects a weight violating the triangle inequality")

	t := twoTriangleSquare()
	_, err := New(t, []int64{5, 1, 1})
	require.Error(tst, err)
}

func TestNewRejectsWrongLength(tst *testing.T) {

	chk.PrintTitle("lamination New rejects a mismatched weight vector length")

	t := twoTriangleSquare()
	_, err := New(t, []int64{1, 1})
	require.Error(tst, err)
}

func TestIsMulticurveOnEvenWeights(tst *testing.T) {

	chk.PrintTitle("lamination IsMulticurve accepts a lamination with even weight sums on every triangle")

	t := twoTriangleSquare()
	l, err := New(t, []int64{2, 2, 2})
	require.NoError(tst, err)
	require.True(tst, l.IsMulticurve())
}

func TestIsFillingRequiresEveryEdgePositive(tst *testing.T) {

	chk.PrintTitle("lamination IsFilling requires every edge to carry weight")

	t := twoTriangleSquare()
	partial, err := New(t, []int64{0, 2, 2})
	require.NoError(tst, err)
	require.False(tst, partial.IsFilling())

	full, err := New(t, []int64{2, 2, 2})
	require.NoError(tst, err)
	require.True(tst, full.IsFilling())
}

func TestEncodeTwistRejectsNonCurve(tst *testing.T) {

	chk.PrintTitle("lamination EncodeTwist rejects a lamination that is not a simple closed curve")

	t := twoTriangleSquare()
	l, err := New(t, []int64{0, 0, 0})
	require.NoError(tst, err)
	_, err = l.EncodeTwist(1)
	require.Error(tst, err)
}
