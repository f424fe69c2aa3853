// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numfield

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/saraedum/flipper/polynomial"
	"github.com/stretchr/testify/require"
)

// TestGeneratorTimesInverseIsOne checks spec.md §8's number-field property:
// for every x != 0, (x * x^-1 - 1).is_zero() holds.
func TestGeneratorTimesInverseIsOne(tst *testing.T) {

	chk.PrintTitle("numfield x * x^-1 == 1")

	p := polynomial.New([]int64{-2, 0, 1}) // x^2 - 2, generator ~ sqrt(2)
	f := New(p)
	lambda := f.Generator()

	inv, err := f.One().Div(lambda)
	require.NoError(tst, err)

	lambdaApprox, err := lambda.Approximation(0)
	require.NoError(tst, err)
	invApprox, err := inv.Approximation(0)
	require.NoError(tst, err)
	product, err := lambdaApprox.Mul(invApprox)
	require.NoError(tst, err)
	diff, err := product.SubInt(1)
	require.NoError(tst, err)
	isZero, err := diff.IsZero()
	require.NoError(tst, err)
	require.True(tst, isZero, "expected lambda * lambda^-1 - 1 to certify as zero")
}

func TestElementArithmeticMatchesMinimalPolynomial(tst *testing.T) {

	chk.PrintTitle("numfield lambda^2 == 2")

	p := polynomial.New([]int64{-2, 0, 1})
	f := New(p)
	lambda := f.Generator()

	sq, err := lambda.Mul(lambda)
	require.NoError(tst, err)
	diff := sq.AddInt(-2)
	isZero, err := diff.IsZero()
	require.NoError(tst, err)
	require.True(tst, isZero, "expected lambda^2 - 2 to certify as zero")
}
