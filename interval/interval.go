// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interval implements intervals of decimal rationals with tracked
// accuracy, used as the certified-exact numeric substrate for the rest of
// the classification engine (see flipperkernel). An Interval represents the
// half-open-at-neither-end range (lower/10^precision, upper/10^precision);
// every arithmetic operation below returns a new Interval that is guaranteed
// to contain the true value of the operation whenever its operands did.
package interval

import (
	"math/big"

	"github.com/saraedum/flipper/ferr"
)

// Interval is (lower, upper, precision) with lower/10^precision < upper/10^precision.
type Interval struct {
	Lower, Upper *big.Int
	Precision    int
}

var (
	ten = big.NewInt(10)
)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// log10Floor returns floor(log10(|x|)) for a nonzero x, and 0 for x == 0.
func log10Floor(x *big.Int) int {
	a := new(big.Int).Abs(x)
	if a.Sign() == 0 {
		return 0
	}
	return len(a.String()) - 1
}

// New builds the interval (lower/10^precision, upper/10^precision). It
// matches flipper's Interval.__init__: lower must be strictly less than
// upper, otherwise the true value cannot be isolated and an Approximation
// error is raised (the source raises on lower == upper after widening by
// one; we simply reject the degenerate input up front).
func New(lower, upper *big.Int, precision int) (*Interval, error) {
	if lower.Cmp(upper) >= 0 {
		return nil, ferr.NewApproximation("interval.New: lower (%v) must be < upper (%v)", lower, upper)
	}
	return &Interval{Lower: lower, Upper: upper, Precision: precision}, nil
}

// MustNew is New but panics on error; used for internal call sites that
// construct intervals from already-validated data.
func MustNew(lower, upper *big.Int, precision int) *Interval {
	i, err := New(lower, upper, precision)
	if err != nil {
		panic(err)
	}
	return i
}

// FromInt returns an interval isolating the integer n to the given accuracy,
// mirroring interval_from_int.
func FromInt(n int64, accuracy int) *Interval {
	x := new(big.Int).Mul(big.NewInt(n), pow10(accuracy))
	one := big.NewInt(1)
	return MustNew(new(big.Int).Sub(x, one), new(big.Int).Add(x, one), accuracy)
}

// FromFraction returns an interval isolating numerator/denominator to the
// given accuracy, mirroring interval_from_fraction (uses Euclidean/floor
// division as Python's // does).
func FromFraction(numerator, denominator *big.Int, accuracy int) *Interval {
	num := new(big.Int).Mul(numerator, pow10(accuracy))
	x := floorDiv(num, denominator)
	one := big.NewInt(1)
	return MustNew(new(big.Int).Sub(x, one), new(big.Int).Add(x, one), accuracy)
}

// FromString parses a decimal literal such as "3.14159" into an interval
// isolating that rational to the precision implied by its number of decimal
// digits, mirroring interval_from_string.
func FromString(s string) (*Interval, error) {
	intPart, fracPart := s, ""
	for i, c := range s {
		if c == '.' {
			intPart, fracPart = s[:i], s[i+1:]
			break
		}
	}
	digits := intPart + fracPart
	x, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, ferr.NewApproximation("interval.FromString: cannot parse %q", s)
	}
	one := big.NewInt(1)
	return New(new(big.Int).Sub(x, one), new(big.Int).Add(x, one), len(fracPart))
}

func floorDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.DivMod(a, b, r)
	// big.Int.DivMod already implements Euclidean division with r >= 0,
	// which coincides with Python's // on the signs we ever construct here
	// because b (the denominator or 10^k) is taken positive at every call site.
	return q
}

// Accuracy returns acc(I) := precision - floor(log10(upper-lower)).
func (iv *Interval) Accuracy() int {
	width := new(big.Int).Sub(iv.Upper, iv.Lower)
	return iv.Precision - log10Floor(width)
}

// logPlus returns log+(x) := log10(max(|x|,1)).
func logPlus(x *big.Int) int {
	a := new(big.Int).Abs(x)
	if a.Cmp(big.NewInt(1)) <= 0 {
		return 0
	}
	return log10Floor(a)
}

// LogPlus returns log+(I) as used to bound accuracy of division, mirroring
// Interval.log_plus.
func (iv *Interval) LogPlus() int {
	a := logPlus(iv.Lower) - iv.Precision
	b := logPlus(iv.Upper) - iv.Precision
	m := 1
	if a > m {
		m = a
	}
	if b > m {
		m = b
	}
	return m + 1
}

// ChangeDenominator returns an interval over the same value at a new
// precision, truncating toward the lower bound and widening the upper
// bound by one unit when shortening, mirroring Interval.change_denominator.
func (iv *Interval) ChangeDenominator(newPrecision int) *Interval {
	d := newPrecision - iv.Precision
	switch {
	case d > 0:
		scale := pow10(d)
		return MustNew(new(big.Int).Mul(iv.Lower, scale), new(big.Int).Mul(iv.Upper, scale), newPrecision)
	case d == 0:
		return iv
	default:
		scale := pow10(-d)
		lower := floorDiv(iv.Lower, scale)
		upper := new(big.Int).Add(floorDiv(iv.Upper, scale), big.NewInt(1))
		return MustNew(lower, upper, newPrecision)
	}
}

// Simplify rounds the interval to accuracy q while preserving containment
// of the true value (widens rather than narrows when necessary).
func (iv *Interval) Simplify(q int) *Interval {
	if iv.Accuracy() <= q {
		return iv
	}
	return iv.ChangeDenominator(iv.Precision - (iv.Accuracy() - q))
}

// Contains reports whether other's range lies strictly inside iv's range,
// after matching precisions.
func (iv *Interval) Contains(other *Interval) bool {
	p := iv.Precision
	if other.Precision > p {
		p = other.Precision
	}
	a, b := iv.ChangeDenominator(p), other.ChangeDenominator(p)
	return a.Lower.Cmp(b.Lower) < 0 && b.Upper.Cmp(a.Upper) < 0
}

// ContainsInt reports whether the integer n lies strictly inside iv's range.
func (iv *Interval) ContainsInt(n int64) bool {
	x := new(big.Int).Mul(big.NewInt(n), pow10(iv.Precision))
	return iv.Lower.Cmp(x) < 0 && x.Cmp(iv.Upper) < 0
}

// Neg returns -iv.
func (iv *Interval) Neg() *Interval {
	return MustNew(new(big.Int).Neg(iv.Upper), new(big.Int).Neg(iv.Lower), iv.Precision)
}

// Add returns iv + other, with acc(iv+other) >= min(acc(iv), acc(other)) - 1.
func (iv *Interval) Add(other *Interval) *Interval {
	p := iv.Precision
	if other.Precision > p {
		p = other.Precision
	}
	a, b := iv.ChangeDenominator(p), other.ChangeDenominator(p)
	return MustNew(new(big.Int).Add(a.Lower, b.Lower), new(big.Int).Add(a.Upper, b.Upper), p)
}

// AddInt returns iv + n.
func (iv *Interval) AddInt(n int64) *Interval {
	shift := new(big.Int).Mul(big.NewInt(n), pow10(iv.Precision))
	return MustNew(new(big.Int).Add(iv.Lower, shift), new(big.Int).Add(iv.Upper, shift), iv.Precision)
}

// Sub returns iv - other.
func (iv *Interval) Sub(other *Interval) *Interval {
	return iv.Add(other.Neg())
}

// SubInt returns iv - n.
func (iv *Interval) SubInt(n int64) *Interval {
	return iv.AddInt(-n)
}

// Mul returns iv * other, evaluating all four corner products and taking the
// enclosing range, mirroring Interval.__mul__.
func (iv *Interval) Mul(other *Interval) *Interval {
	p := iv.Precision
	if other.Precision > p {
		p = other.Precision
	}
	a, b := iv.ChangeDenominator(p), other.ChangeDenominator(p)
	vals := []*big.Int{
		new(big.Int).Mul(a.Lower, b.Lower),
		new(big.Int).Mul(a.Upper, b.Lower),
		new(big.Int).Mul(a.Lower, b.Upper),
		new(big.Int).Mul(a.Upper, b.Upper),
	}
	lo, hi := minMax(vals)
	return MustNew(lo, hi, 2*p)
}

// MulInt returns iv * n (n == 0 is rejected: the result would not be an
// open interval any more, mirroring the source's special case).
func (iv *Interval) MulInt(n int64) (*Interval, error) {
	if n == 0 {
		return nil, ferr.NewApproximation("interval.MulInt: multiplication by 0 is not representable as an open interval")
	}
	nb := big.NewInt(n)
	vals := []*big.Int{new(big.Int).Mul(iv.Lower, nb), new(big.Int).Mul(iv.Upper, nb)}
	lo, hi := minMax(vals)
	return MustNew(lo, hi, iv.Precision), nil
}

// Div returns iv / other. Fails with an Approximation error if other's range
// straddles zero.
func (iv *Interval) Div(other *Interval) (*Interval, error) {
	zero := big.NewInt(0)
	if other.Lower.Cmp(zero) < 0 && zero.Cmp(other.Upper) < 0 {
		return nil, ferr.NewApproximation("interval.Div: denominator contains 0")
	}
	p := iv.Precision
	if other.Precision > p {
		p = other.Precision
	}
	p += other.LogPlus()
	a, b := iv.ChangeDenominator(p), other.ChangeDenominator(p)
	scale := pow10(p)
	vals := []*big.Int{
		floorDiv(new(big.Int).Mul(a.Lower, scale), b.Lower),
		floorDiv(new(big.Int).Mul(a.Upper, scale), b.Lower),
		floorDiv(new(big.Int).Mul(a.Lower, scale), b.Upper),
		floorDiv(new(big.Int).Mul(a.Upper, scale), b.Upper),
	}
	lo, hi := minMax(vals)
	return MustNew(lo, hi, p), nil
}

// DivInt returns iv / n.
func (iv *Interval) DivInt(n int64) *Interval {
	nb := big.NewInt(n)
	vals := []*big.Int{floorDiv(iv.Lower, nb), floorDiv(iv.Upper, nb)}
	lo, hi := minMax(vals)
	return MustNew(lo, hi, iv.Precision)
}

func minMax(vals []*big.Int) (*big.Int, *big.Int) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v.Cmp(lo) < 0 {
			lo = v
		}
		if v.Cmp(hi) > 0 {
			hi = v
		}
	}
	return lo, hi
}

// Epsilon returns an interval representing +-10^-(haveAccuracy-accuracyNeeded)
// used by algebraic's sign comparisons to decide how much slack remains.
func Epsilon(accuracyNeeded, haveAccuracy int) *Interval {
	slack := haveAccuracy - accuracyNeeded
	if slack < 0 {
		slack = 0
	}
	return FromFraction(big.NewInt(1), pow10(slack), haveAccuracy)
}

// Float64 returns the midpoint of the interval as a float64, for display
// purposes only; never used on a certified decision path.
func (iv *Interval) Float64() float64 {
	sum := new(big.Int).Add(iv.Lower, iv.Upper)
	f := new(big.Float).SetInt(sum)
	denom := new(big.Float).SetInt(new(big.Int).Mul(big.NewInt(2), pow10(iv.Precision)))
	result, _ := new(big.Float).Quo(f, denom).Float64()
	return result
}

// String renders the interval to its full known accuracy.
func (iv *Interval) String() string {
	return iv.ApproximateString(iv.Accuracy() - 1)
}

// ApproximateString renders the interval's lower bound to the requested number
// of decimal places (capped at the interval's known accuracy), with a
// trailing '?' to mark the truncation, mirroring approximate_string.
func (iv *Interval) ApproximateString(accuracy int) string {
	if accuracy > iv.Accuracy()-1 {
		accuracy = iv.Accuracy() - 1
	}
	if accuracy < 0 {
		accuracy = 0
	}
	s := zeroPad(iv.Lower, iv.Precision)
	cut := len(s) - iv.Precision
	if cut < 0 {
		cut = 0
	}
	end := cut + accuracy
	if end > len(s) {
		end = len(s)
	}
	return s[:cut] + "." + s[cut:end] + "?"
}

func zeroPad(x *big.Int, precision int) string {
	neg := x.Sign() < 0
	s := new(big.Int).Abs(x).String()
	width := precision
	if neg {
		width++
	}
	for len(s) < width+1 {
		s = "0" + s
	}
	if neg {
		return "-" + s
	}
	return s
}
