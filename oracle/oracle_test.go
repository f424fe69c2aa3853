// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/matrix"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/polynomial"
)

func TestDefaultOracleRealRootsOfGoldenPolynomial(tst *testing.T) {

	chk.PrintTitle("oracle DefaultOracle real roots above 1")

	// mu^2 - 3mu + 1 has roots (3+sqrt5)/2 ~ 2.618 and (3-sqrt5)/2 ~ 0.382;
	// only the first is above 1 (spec.md §8 scenario 1's dilatation).
	p := polynomial.New([]int64{1, -3, 1})
	roots, err := DefaultOracle{}.RealRoots(p)
	require.NoError(tst, err)
	require.Len(tst, roots, 1)
	f, _ := roots[0].Float64()
	require.InDelta(tst, 2.618, f, 0.01)
}

func TestDefaultOracleRealRootsRespectsMaxRoots(tst *testing.T) {

	chk.PrintTitle("oracle DefaultOracle MaxRoots bounds the search")

	p := polynomial.New([]int64{1, -3, 1})
	roots, err := DefaultOracle{MaxRoots: 0}.RealRoots(p)
	require.NoError(tst, err)
	require.Len(tst, roots, 1, "MaxRoots zero should default to 8, not stop early")
}

func TestDefaultOracleKernelBasisOfShiftedCompanionMatrix(tst *testing.T) {

	chk.PrintTitle("oracle DefaultOracle kernel basis")

	p := polynomial.New([]int64{-2, 0, 1}) // x^2 - 2
	f := numfield.New(p)
	lambda := f.Generator()

	companion := matrix.NewAlgebraic(f, 2, 2)
	companion.Data[0][0] = f.Element(nil)
	companion.Data[0][1] = f.Element([]int64{2})
	companion.Data[1][0] = f.Element([]int64{1})
	companion.Data[1][1] = f.Element(nil)

	d00 := mustSub(tst, companion.Data[0][0], lambda)
	d11 := mustSub(tst, companion.Data[1][1], lambda)
	shifted := &matrix.Algebraic{Rows: 2, Cols: 2, Field: f, Data: [][]*numfield.Element{
		{d00, companion.Data[0][1]},
		{companion.Data[1][0], d11},
	}}

	basis, err := DefaultOracle{}.KernelBasis(shifted)
	require.NoError(tst, err)
	require.Len(tst, basis, 1)

	for i := 0; i < 2; i++ {
		sum := f.Element(nil)
		for j := 0; j < 2; j++ {
			term, err := shifted.Data[i][j].Mul(basis[0][j])
			require.NoError(tst, err)
			sum, err = sum.Add(term)
			require.NoError(tst, err)
		}
		isZero, err := sum.IsZero()
		require.NoError(tst, err)
		require.True(tst, isZero, "expected row %d of (A - lambda*I)*v to certify as zero", i)
	}
}

func mustSub(tst *testing.T, a, b *numfield.Element) *numfield.Element {
	d, err := a.Sub(b)
	require.NoError(tst, err)
	return d
}
