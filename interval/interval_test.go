// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interval

import (
	"math/big"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

func TestFromString(tst *testing.T) {

	chk.PrintTitle("interval FromString")

	iv, err := FromString("3.14159")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if iv.Precision != 5 {
		tst.Errorf("expected precision 5, got %d\n", iv.Precision)
	}
	if iv.Accuracy() < 1 {
		tst.Errorf("expected positive accuracy, got %d\n", iv.Accuracy())
	}
	if iv.ContainsInt(4) {
		tst.Errorf("interval around 3.14159 should not contain 4\n")
	}
}

func TestAddAccuracyBound(tst *testing.T) {

	chk.PrintTitle("interval accuracy bounds")

	a, err := FromString("1.41421")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	b, err := FromString("2.71828")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	m := a.Accuracy()
	if b.Accuracy() < m {
		m = b.Accuracy()
	}
	sum := a.Add(b)
	if sum.Accuracy() < m-1 {
		tst.Errorf("acc(I+J)=%d violates bound m-1=%d\n", sum.Accuracy(), m-1)
	}
}

// TestSqrtTwoByMultiplication checks that an interval approximation of
// sqrt(2) satisfies x*x == 2, the end-to-end scenario in spec.md §8 item 6
// (driven here purely at the interval layer: a tight enough interval around
// sqrt(2) squares into an interval containing the integer 2).
func TestSqrtTwoByMultiplication(tst *testing.T) {

	chk.PrintTitle("interval sqrt(2)")

	x, err := FromString("1.4142135623730951")
	require.NoError(tst, err)

	sq := x.Mul(x)
	require.True(tst, sq.ContainsInt(2), "expected x*x to contain 2, got %s", sq)
}

func TestDivByZeroInterval(tst *testing.T) {

	chk.PrintTitle("interval division by zero-containing interval")

	numerator := FromInt(1, 10)
	zeroish := MustNew(big.NewInt(-1), big.NewInt(1), 10)
	_, err := numerator.Div(zeroish)
	if err == nil {
		tst.Errorf("expected division by a zero-containing interval to fail\n")
	}
}

func TestChangeDenominatorRoundTrip(tst *testing.T) {

	chk.PrintTitle("interval change_denominator round trip")

	x := FromInt(42, 5)
	y := x.ChangeDenominator(10).ChangeDenominator(5)
	require.True(tst, y.Lower.Cmp(x.Lower) <= 0 && x.Upper.Cmp(y.Upper) <= 0, "expected the round trip %v to enclose %v", y, x)
}
