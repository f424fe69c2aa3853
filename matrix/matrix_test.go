// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"math/big"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/polynomial"
	"github.com/stretchr/testify/require"
)

func TestIntegerMulAndPow(tst *testing.T) {

	chk.PrintTitle("matrix integer mul and pow")

	a := IntegerFromInt64([][]int64{{1, 1}, {0, 1}})
	b := IntegerFromInt64([][]int64{{1, 0}, {1, 1}})

	prod := a.Mul(b)
	require.Equal(tst, int64(2), prod.Data[0][0].Int64())
	require.Equal(tst, int64(1), prod.Data[0][1].Int64())
	require.Equal(tst, int64(1), prod.Data[1][0].Int64())
	require.Equal(tst, int64(1), prod.Data[1][1].Int64())

	square := a.Pow(2)
	require.Equal(tst, int64(1), square.Data[0][0].Int64())
	require.Equal(tst, int64(2), square.Data[0][1].Int64())
}

// TestIntegerKernelOfSingularMatrix checks the rank-1 nullspace of a matrix
// whose rows are proportional, e.g. the action matrix fixing a lamination
// ray for a reducible mapping class (spec.md §4.5).
func TestIntegerKernelOfSingularMatrix(tst *testing.T) {

	chk.PrintTitle("matrix integer kernel")

	a := IntegerFromInt64([][]int64{{1, -2}, {2, -4}})
	require.Equal(tst, 1, a.Rank())

	basis := a.Kernel()
	require.Len(tst, basis, 1)

	image := a.MulVec(basis[0])
	for _, x := range image {
		require.Equal(tst, int64(0), x.Int64())
	}
}

// TestCharacteristicPolynomialOfGoldenMatrix checks that the classic Anosov
// matrix [[2,1],[1,1]] has characteristic polynomial x^2 - 3x + 1, the same
// dilatation-defining polynomial as spec.md §8 scenario 1.
func TestCharacteristicPolynomialOfGoldenMatrix(tst *testing.T) {

	chk.PrintTitle("matrix characteristic polynomial")

	a := IntegerFromInt64([][]int64{{2, 1}, {1, 1}})
	p := a.CharacteristicPolynomial()

	require.Equal(tst, int64(1), p.Coefficients[0])
	require.Equal(tst, int64(-3), p.Coefficients[1])
	require.Equal(tst, int64(1), p.Coefficients[2])
}

func TestNonnegativeImage(tst *testing.T) {

	chk.PrintTitle("matrix nonnegative image")

	a := IntegerFromInt64([][]int64{{1, 1}, {1, -1}})
	require.True(tst, a.NonnegativeImage([]*big.Int{big.NewInt(3), big.NewInt(2)}))
	require.False(tst, a.NonnegativeImage([]*big.Int{big.NewInt(1), big.NewInt(5)}))
}

// TestAlgebraicKernelOfShiftedCompanionMatrix checks that (A - lambda*I) has
// a nontrivial kernel when A is the companion matrix of lambda's own minimal
// polynomial, i.e. lambda is genuinely an eigenvalue of its own companion
// matrix (the construction classify.go uses to find the Perron-Frobenius
// eigenvector, spec.md §4.9).
func TestAlgebraicKernelOfShiftedCompanionMatrix(tst *testing.T) {

	chk.PrintTitle("matrix algebraic kernel")

	p := polynomial.New([]int64{-2, 0, 1}) // x^2 - 2
	f := numfield.New(p)
	lambda := f.Generator()

	// Companion matrix of x^2-2 on basis (1, lambda): lambda*1 = lambda,
	// lambda*lambda = 2.
	companion := NewAlgebraic(f, 2, 2)
	companion.Data[0][0] = f.Element(nil)
	companion.Data[0][1] = f.Element([]int64{2})
	companion.Data[1][0] = f.Element([]int64{1})
	companion.Data[1][1] = f.Element(nil)

	shifted := &Algebraic{Rows: 2, Cols: 2, Field: f, Data: [][]*numfield.Element{
		{mustSub(tst, companion.Data[0][0], lambda), companion.Data[0][1]},
		{companion.Data[1][0], mustSub(tst, companion.Data[1][1], lambda)},
	}}

	basis, err := shifted.Kernel()
	require.NoError(tst, err)
	require.Len(tst, basis, 1)

	// The kernel vector v must satisfy shifted*v == 0 exactly.
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
