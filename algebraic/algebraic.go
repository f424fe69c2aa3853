// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package algebraic implements Algebraic_Approximation: an interval paired
// with a (log-degree, height) certificate guaranteeing that the interval is
// tight enough to uniquely determine one algebraic number. See
// Kernel/AlgebraicApproximation.py in the flipper original for the bounds
// this package reproduces.
package algebraic

import (
	"math"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/interval"
)

// log2 is used for the height(x +/- y) <= height(x) + height(y) + log(2) bound.
var log2 = math.Log10(2)

// Approximation is (interval, degree, height) with
// acc(interval) >= ceil(log_degree) + ceil(height) + 2.
type Approximation struct {
	Interval *interval.Interval

	// Degree is an upper bound on the degree of the minimal polynomial of
	// the algebraic number this approximation certifies.
	Degree int

	// LogHeight is an upper bound on log10(height) of that minimal
	// polynomial's coefficients.
	LogHeight float64

	accuracyNeeded int
}

// New builds an Approximation, failing with an Approximation error if iv is
// not accurate enough to uniquely determine a degree-Degree, height-10^LogHeight
// algebraic number.
func New(iv *interval.Interval, degree int, logHeight float64) (*Approximation, error) {
	// Round logHeight up slightly, matching the Python round(...,5)+epsilon hack
	// that guards against floating point round-down hiding a true height.
	lh := math.Round(logHeight*1e5) / 1e5
	lh += 0.00001
	needed := int(math.Ceil(math.Log10(float64(degree)))) + int(math.Ceil(lh)) + 2
	if iv.Accuracy() < needed {
		return nil, ferr.NewApproximation("%v may not define a unique algebraic number with degree at most %d and height at most %g", iv, degree, lh)
	}
	return &Approximation{Interval: iv, Degree: degree, LogHeight: lh, accuracyNeeded: needed}, nil
}

// MustNew is New but panics on error.
func MustNew(iv *interval.Interval, degree int, logHeight float64) *Approximation {
	a, err := New(iv, degree, logHeight)
	if err != nil {
		panic(err)
	}
	return a
}

// FromFraction builds an Approximation of numerator/10^precision, at the
// given degree and logHeight, mirroring algebraic_approximation_from_fraction.
func FromFraction(numeratorOffsetEncoded *interval.Interval, degree int, logHeight float64) (*Approximation, error) {
	return New(numeratorOffsetEncoded, degree, logHeight)
}

// FromInt builds a rational Approximation of n, accurate to the given
// number of decimal places.
func FromInt(n int64, accuracy, degree int, logHeight float64) (*Approximation, error) {
	return New(interval.FromInt(n, accuracy), degree, logHeight)
}

// AccuracyNeeded returns the minimum interval accuracy this approximation
// must retain to remain well defined.
func (a *Approximation) AccuracyNeeded() int { return a.accuracyNeeded }

// ChangeDenominator re-bases the underlying interval to a new precision.
func (a *Approximation) ChangeDenominator(q int) *Approximation {
	return &Approximation{Interval: a.Interval.ChangeDenominator(q), Degree: a.Degree, LogHeight: a.LogHeight, accuracyNeeded: a.accuracyNeeded}
}

// Neg returns -a.
func (a *Approximation) Neg() *Approximation {
	return &Approximation{Interval: a.Interval.Neg(), Degree: a.Degree, LogHeight: a.LogHeight, accuracyNeeded: a.accuracyNeeded}
}

// Add returns a+b, using height(a+b) <= height(a)+height(b)+log(2) (Waldschmidt).
func (a *Approximation) Add(b *Approximation) (*Approximation, error) {
	return New(a.Interval.Add(b.Interval), maxInt(a.Degree, b.Degree), a.LogHeight+b.LogHeight+log2)
}

// AddInt returns a+n.
func (a *Approximation) AddInt(n int64) (*Approximation, error) {
	return New(a.Interval.AddInt(n), a.Degree, a.LogHeight+logHeightInt(n)+log2)
}

// Sub returns a-b.
func (a *Approximation) Sub(b *Approximation) (*Approximation, error) {
	return New(a.Interval.Sub(b.Interval), maxInt(a.Degree, b.Degree), a.LogHeight+b.LogHeight+log2)
}

// SubInt returns a-n.
func (a *Approximation) SubInt(n int64) (*Approximation, error) {
	return New(a.Interval.SubInt(n), a.Degree, a.LogHeight+logHeightInt(n)+log2)
}

// Mul returns a*b, using height(a*b) <= height(a)+height(b).
func (a *Approximation) Mul(b *Approximation) (*Approximation, error) {
	return New(a.Interval.Mul(b.Interval), maxInt(a.Degree, b.Degree), a.LogHeight+b.LogHeight)
}

// MulInt returns a*n.
func (a *Approximation) MulInt(n int64) (*Approximation, error) {
	if n == 0 {
		return nil, ferr.NewApproximation("algebraic.MulInt: multiplication by 0 is not representable")
	}
	iv, err := a.Interval.MulInt(n)
	if err != nil {
		return nil, err
	}
	return New(iv, a.Degree, a.LogHeight+logHeightInt(n))
}

// Div returns a/b, using height(1/x) = height(x).
func (a *Approximation) Div(b *Approximation) (*Approximation, error) {
	iv, err := a.Interval.Div(b.Interval)
	if err != nil {
		return nil, err
	}
	return New(iv, maxInt(a.Degree, b.Degree), a.LogHeight+b.LogHeight)
}

// IsPositive reports whether a certifiably represents a strictly positive
// number, failing with an Approximation error if the current interval is
// not tight enough to decide.
func (a *Approximation) IsPositive() (bool, error) {
	if a.Interval.Accuracy() < a.accuracyNeeded {
		return false, ferr.NewApproximation("algebraic.IsPositive: insufficient accuracy (%d < %d)", a.Interval.Accuracy(), a.accuracyNeeded)
	}
	eps := interval.Epsilon(a.accuracyNeeded, a.Interval.Accuracy())
	return diffAboveEpsilon(a.Interval, eps), nil
}

// IsNegative reports whether a certifiably represents a strictly negative number.
func (a *Approximation) IsNegative() (bool, error) {
	neg, err := a.Neg().IsPositive()
	return neg, err
}

// IsZero reports whether a certifiably represents zero (neither certifiably
// positive nor certifiably negative).
func (a *Approximation) IsZero() (bool, error) {
	pos, err := a.IsPositive()
	if err != nil {
		return false, err
	}
	if pos {
		return false, nil
	}
	neg, err := a.IsNegative()
	if err != nil {
		return false, err
	}
	return !neg, nil
}

// Compare returns -1, 0, or 1 according to whether a < b, a == b, or a > b,
// by forming a-b and testing its sign, mirroring NumberFieldElement's
// comparison operators.
func (a *Approximation) Compare(b *Approximation) (int, error) {
	d, err := a.Sub(b)
	if err != nil {
		return 0, err
	}
	pos, err := d.IsPositive()
	if err != nil {
		return 0, err
	}
	if pos {
		return 1, nil
	}
	neg, err := d.IsNegative()
	if err != nil {
		return 0, err
	}
	if neg {
		return -1, nil
	}
	return 0, nil
}

func diffAboveEpsilon(iv, eps *interval.Interval) bool {
	p := iv.Precision
	if eps.Precision > p {
		p = eps.Precision
	}
	a, b := iv.ChangeDenominator(p), eps.ChangeDenominator(p)
	return a.Lower.Cmp(b.Upper) > 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logHeightInt(n int64) float64 {
	if n < 0 {
		n = -n
	}
	if n < 1 {
		n = 1
	}
	return math.Log10(float64(n))
}
