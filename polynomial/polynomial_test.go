// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package polynomial

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

// TestLeadingRootOfXSquaredMinusTwo checks spec.md §8 end-to-end scenario 6:
// for x^2-2 the leading-root algebraic approximation x satisfies x*x = 2
// exactly (certified via the algebraic-approximation sign machinery).
func TestLeadingRootOfXSquaredMinusTwo(tst *testing.T) {

	chk.PrintTitle("polynomial x^2-2 leading root")

	p := New([]int64{-2, 0, 1})
	approx, err := p.AlgebraicApproximateLeadingRoot(20, 1)
	require.NoError(tst, err)

	squared, err := approx.Mul(approx)
	require.NoError(tst, err)

	diff, err := squared.SubInt(2)
	require.NoError(tst, err)
	isZero, err := diff.IsZero()
	require.NoError(tst, err)
	require.True(tst, isZero, "expected x*x - 2 to certify as zero")
}

func TestGoldenRatioSquaredSatisfiesMuSquaredMinus3MuPlus1(tst *testing.T) {

	chk.PrintTitle("polynomial mu^2-3mu+1")

	// mu = (3+sqrt(5))/2 is the dilatation of `aB` on S_{1,1} (spec.md §8 scenario 1).
	p := New([]int64{1, -3, 1})
	approx, err := p.AlgebraicApproximateLeadingRoot(20, 1)
	require.NoError(tst, err)

	sq, err := approx.Mul(approx)
	require.NoError(tst, err)
	threeMu, err := approx.MulInt(3)
	require.NoError(tst, err)
	lhs, err := sq.Sub(threeMu)
	require.NoError(tst, err)
	lhs, err = lhs.AddInt(1)
	require.NoError(tst, err)
	isZero, err := lhs.IsZero()
	require.NoError(tst, err)
	require.True(tst, isZero, "expected mu^2 - 3mu + 1 to certify as zero")
}

func TestDerivativeOfConstantIsZero(tst *testing.T) {

	chk.PrintTitle("polynomial derivative of a constant")

	p := New([]int64{5})
	d := p.Derivative()
	if d.EvalInt(3) != 0 {
		tst.Errorf("expected derivative of a constant to evaluate to 0 everywhere, got %d\n", d.EvalInt(3))
	}
}
