// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numfield implements Q(lambda): a number field generated by a
// single algebraic integer lambda (the leading root of an irreducible
// polynomial) together with its elements, represented as integer linear
// combinations of 1, lambda, ..., lambda^(d-1). Multiplication is carried
// out via the companion-matrix representation of lambda, following
// kernel/numberfield.py in the flipper original.
package numfield

import (
	"math/big"

	"github.com/saraedum/flipper/algebraic"
	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/polynomial"
)

// Field is Q(lambda) where lambda is the leading (largest) real root of an
// irreducible integer polynomial.
type Field struct {
	Polynomial *polynomial.Polynomial
	Degree     int

	// companion holds M_0..M_{d-1}, the dxd integer matrices representing
	// multiplication by lambda^i on the basis (1, lambda, ..., lambda^{d-1}).
	companion [][][]int64

	currentAccuracy int
	powers          []*algebraic.Approximation // approximations of lambda^0 .. lambda^(d-1)
}

// New builds the number field generated by the leading root of p, which
// must be irreducible over Q (this is a caller precondition, as in the
// source: NumberField never checks it itself).
func New(p *polynomial.Polynomial) *Field {
	f := &Field{Polynomial: p, Degree: p.Degree()}
	f.companion = buildCompanionPowers(p)
	f.currentAccuracy = -1
	f.IncreaseAccuracy(100)
	return f
}

// buildCompanionPowers returns M_0 = I, M_1 = companion matrix of p, and
// M_i = M_1^i for i up to degree-1, where the companion matrix represents
// multiplication by lambda on the basis (1, lambda, ..., lambda^{d-1}):
// column j of M_1 is the coordinate vector of lambda * lambda^j = lambda^(j+1),
// using lambda^d = -a_0 - a_1 lambda - ... - a_{d-1} lambda^{d-1} (p monic
// in its leading coefficient is not assumed; we normalise by the leading
// coefficient being +-1, matching minimal polynomials of algebraic integers
// as produced by this engine's root isolation).
func buildCompanionPowers(p *polynomial.Polynomial) [][][]int64 {
	d := p.Degree()
	m1 := make([][]int64, d)
	for i := range m1 {
		m1[i] = make([]int64, d)
	}
	for j := 0; j < d-1; j++ {
		m1[j+1][j] = 1
	}
	lead := p.Coefficients[d]
	for i := 0; i < d; i++ {
		m1[i][d-1] = -p.Coefficients[i] / lead
	}
	powers := make([][][]int64, d)
	powers[0] = identity(d)
	if d > 1 {
		powers[1] = m1
	}
	for i := 2; i < d; i++ {
		powers[i] = matMul(powers[i-1], m1)
	}
	return powers
}

func identity(d int) [][]int64 {
	m := make([][]int64, d)
	for i := range m {
		m[i] = make([]int64, d)
		m[i][i] = 1
	}
	return m
}

func matMul(a, b [][]int64) [][]int64 {
	n := len(a)
	out := make([][]int64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			var sum int64
			for k := 0; k < n; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func matVec(m [][]int64, v []int64) []int64 {
	n := len(m)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		var sum int64
		for j := 0; j < n; j++ {
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

// IncreaseAccuracy ensures the cached approximations of lambda^0..lambda^(d-1)
// are known to at least the given accuracy, working to double what was
// requested to amortise the cost of re-derivation, mirroring
// NumberField.increase_accuracy.
func (f *Field) IncreaseAccuracy(accuracy int) {
	if f.currentAccuracy >= accuracy {
		return
	}
	f.currentAccuracy = 2 * accuracy
	f.powers = make([]*algebraic.Approximation, f.Degree)
	for i := 0; i < f.Degree; i++ {
		a, err := f.Polynomial.AlgebraicApproximateLeadingRoot(f.currentAccuracy, i)
		if err != nil {
			// Retry once at a visibly larger working accuracy; per spec.md §7
			// precision failures inside C3/C4 are retried before surfacing.
			a, err = f.Polynomial.AlgebraicApproximateLeadingRoot(2*f.currentAccuracy, i)
			if err != nil {
				panic(err)
			}
		}
		f.powers[i] = a
	}
}

// Vector is a kernel basis vector over Q(lambda), the shape
// matrix.Algebraic.Kernel and package oracle's KernelBasis both return.
type Vector = []*Element

// Element is a member of Q(lambda): integer coordinates on the basis
// (1, lambda, ..., lambda^{d-1}).
type Element struct {
	Field        *Field
	Coefficients []int64

	approx         *algebraic.Approximation
	approxAccuracy int
}

// Element builds the field element sum(coefficients[i] * lambda^i),
// zero-padding or rejecting an over-long combination as in
// NumberFieldElement.__init__.
func (f *Field) Element(coefficients []int64) *Element {
	if len(coefficients) > f.Degree {
		panic(ferr.NewAssumption("numfield.Element: %d coefficients exceed the field degree %d", len(coefficients), f.Degree))
	}
	c := make([]int64, f.Degree)
	copy(c, coefficients)
	return &Element{Field: f, Coefficients: c, approxAccuracy: -1}
}

// One returns the multiplicative identity of f.
func (f *Field) One() *Element { return f.Element([]int64{1}) }

// Generator returns lambda itself.
func (f *Field) Generator() *Element {
	if f.Degree == 1 {
		// lambda is the rational root -a0/a1 of the linear polynomial.
		return f.Element([]int64{-f.Polynomial.Coefficients[0] / f.Polynomial.Coefficients[1]})
	}
	return f.Element([]int64{0, 1})
}

func (e *Element) sameField(o *Element) error {
	if e.Field != o.Field {
		return ferr.NewAssumption("numfield: cannot combine elements of different number fields")
	}
	return nil
}

// Add returns e+o.
func (e *Element) Add(o *Element) (*Element, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	out := make([]int64, e.Field.Degree)
	for i := range out {
		out[i] = e.Coefficients[i] + o.Coefficients[i]
	}
	return e.Field.Element(out), nil
}

// AddInt returns e+n.
func (e *Element) AddInt(n int64) *Element {
	out := append([]int64{}, e.Coefficients...)
	out[0] += n
	return e.Field.Element(out)
}

// Sub returns e-o.
func (e *Element) Sub(o *Element) (*Element, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	out := make([]int64, e.Field.Degree)
	for i := range out {
		out[i] = e.Coefficients[i] - o.Coefficients[i]
	}
	return e.Field.Element(out), nil
}

// Neg returns -e.
func (e *Element) Neg() *Element {
	out := make([]int64, e.Field.Degree)
	for i, c := range e.Coefficients {
		out[i] = -c
	}
	return e.Field.Element(out)
}

// Mul returns e*o, computed via the companion-matrix representation:
// sum(e_i * M_i) applied to o's coordinate vector, mirroring
// NumberFieldElement.__mul__.
func (e *Element) Mul(o *Element) (*Element, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	d := e.Field.Degree
	acc := make([][]int64, d)
	for i := range acc {
		acc[i] = make([]int64, d)
	}
	for i, coeff := range e.Coefficients {
		if coeff == 0 {
			continue
		}
		m := e.Field.companion[i]
		for r := 0; r < d; r++ {
			for c := 0; c < d; c++ {
				acc[r][c] += coeff * m[r][c]
			}
		}
	}
	return e.Field.Element(matVec(acc, o.Coefficients)), nil
}

// MulInt returns e*n.
func (e *Element) MulInt(n int64) *Element {
	out := make([]int64, e.Field.Degree)
	for i, c := range e.Coefficients {
		out[i] = c * n
	}
	return e.Field.Element(out)
}

// Invert returns e^-1. Because the field's defining polynomial is
// irreducible, Q(lambda) is a genuine field, so unlike the bare escape to
// AlgebraicApproximation that the original Python source used (kernel/numberfield.py's
// NumberFieldElement.__div__), the inverse can be produced exactly: extended
// Euclidean division of the minimal polynomial against e's representative
// polynomial (deg < d, gcd == nonzero constant) yields Bezout coefficients
// whose "v" term, reduced by that constant, is e^-1 as an element of N.
func (e *Element) Invert() (*Element, error) {
	zero, err := e.IsZero()
	if err != nil {
		return nil, err
	}
	if zero {
		return nil, ferr.NewAssumption("numfield: cannot invert zero element")
	}
	v := extendedEuclideanInverse(e.Field.Polynomial.Coefficients, e.Coefficients)
	out := make([]int64, e.Field.Degree)
	for i, r := range v {
		if i >= len(out) {
			break
		}
		if !r.IsInt() {
			return nil, ferr.NewComputation("numfield: inverse coefficient %s is not an integer; generator is not an algebraic integer", r)
		}
		out[i] = r.Num().Int64()
	}
	return e.Field.Element(out), nil
}

// Div returns e/o. Exact within Q(lambda): computes o^-1 via Invert and
// multiplies, avoiding the approximation-layer escape of the original
// Python source (see Invert's comment for why this is possible here).
func (e *Element) Div(o *Element) (*Element, error) {
	if err := e.sameField(o); err != nil {
		return nil, err
	}
	inv, err := o.Invert()
	if err != nil {
		return nil, err
	}
	return e.Mul(inv)
}

// ratPoly is a minimal-footprint rational-coefficient polynomial,
// constant term first, used only by extendedEuclideanInverse.
type ratPoly []*big.Rat

func newRatPoly(ints []int64) ratPoly {
	out := make(ratPoly, len(ints))
	for i, c := range ints {
		out[i] = new(big.Rat).SetInt64(c)
	}
	return trimRatPoly(out)
}

func trimRatPoly(p ratPoly) ratPoly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func (p ratPoly) degree() int { return len(p) - 1 }

func ratPolyDivMod(a, b ratPoly) (q, r ratPoly) {
	a, b = trimRatPoly(append(ratPoly{}, a...)), trimRatPoly(append(ratPoly{}, b...))
	rem := append(ratPoly{}, a...)
	degB := b.degree()
	var quot ratPoly
	for len(rem) > 0 && rem.degree() >= degB {
		rem = trimRatPoly(rem)
		if rem.degree() < degB {
			break
		}
		lead := new(big.Rat).Quo(rem[len(rem)-1], b[degB])
		shift := rem.degree() - degB
		for len(quot) < shift+1 {
			quot = append(quot, new(big.Rat))
		}
		quot[shift] = lead
		for i, bc := range b {
			rem[i+shift] = new(big.Rat).Sub(rem[i+shift], new(big.Rat).Mul(lead, bc))
		}
		rem = trimRatPoly(rem)
	}
	return quot, rem
}

func ratPolySub(a, b ratPoly) ratPoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Sub(out[i], b[i])
		}
	}
	return trimRatPoly(out)
}

func ratPolyMul(a, b ratPoly) ratPoly {
	if len(a) == 0 || len(b) == 0 {
		return ratPoly{}
	}
	out := make(ratPoly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for i, ac := range a {
		if ac.Sign() == 0 {
			continue
		}
		for j, bc := range b {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(ac, bc))
		}
	}
	return trimRatPoly(out)
}

// extendedEuclideanInverse returns v such that u*minPoly + v*elem = c for
// some nonzero scalar c, then returns v/c: the inverse of elem modulo minPoly.
func extendedEuclideanInverse(minPoly []int64, elemCoeffs []int64) ratPoly {
	r0, r1 := newRatPoly(minPoly), newRatPoly(elemCoeffs)
	t0, t1 := ratPoly{}, ratPoly{new(big.Rat).SetInt64(1)}
	for len(trimRatPoly(r1)) > 0 {
		q, r := ratPolyDivMod(r0, r1)
		r0, r1 = r1, r
		t0, t1 = t1, ratPolySub(t0, ratPolyMul(q, t1))
	}
	// r0 is now the (nonzero, constant) gcd; t0 satisfies
	// (implicit u)*minPoly + t0*elem = r0.
	c := r0[0]
	out := make(ratPoly, len(t0))
	for i, v := range t0 {
		out[i] = new(big.Rat).Quo(v, c)
	}
	return out
}

// Approximation returns an algebraic.Approximation of e, accurate enough to
// uniquely determine the algebraic number it represents (or to the
// requested accuracy if larger), mirroring
// NumberFieldElement.algebraic_approximation.
func (e *Element) Approximation(accuracy int) (*algebraic.Approximation, error) {
	d := e.Field.Degree
	needed := 0
	for _, c := range e.Coefficients {
		needed += logHeightIntApprox(c)
	}
	needed += int(float64(d*d) * e.Field.Polynomial.LogHeight())
	needed += logIntApprox(d) + 2*d
	if accuracy > needed {
		needed = accuracy
	}
	if e.approx != nil && e.approxAccuracy >= needed {
		return e.approx, nil
	}
	e.Field.IncreaseAccuracy(needed)

	allZero := true
	for _, c := range e.Coefficients {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		a, err := algebraic.FromInt(0, 2*needed, d, 1)
		if err != nil {
			return nil, err
		}
		e.approx, e.approxAccuracy = a, a.Interval.Accuracy()
		return e.approx, nil
	}

	var sum *algebraic.Approximation
	for i, c := range e.Coefficients {
		if c == 0 {
			continue
		}
		term, err := e.Field.powers[i].MulInt(c)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = term
		} else {
			sum, err = sum.Add(term)
			if err != nil {
				return nil, err
			}
		}
	}
	e.approx, e.approxAccuracy = sum, sum.Interval.Accuracy()
	return e.approx, nil
}

// IsZero reports whether e is certifiably zero.
func (e *Element) IsZero() (bool, error) {
	a, err := e.Approximation(0)
	if err != nil {
		return false, err
	}
	return a.IsZero()
}

// IsPositive reports whether e is certifiably strictly positive.
func (e *Element) IsPositive() (bool, error) {
	a, err := e.Approximation(0)
	if err != nil {
		return false, err
	}
	return a.IsPositive()
}

// IsNegative reports whether e is certifiably strictly negative.
func (e *Element) IsNegative() (bool, error) {
	a, err := e.Approximation(0)
	if err != nil {
		return false, err
	}
	return a.IsNegative()
}

// Compare returns -1, 0, 1 for e<o, e==o, e>o.
func (e *Element) Compare(o *Element) (int, error) {
	d, err := e.Sub(o)
	if err != nil {
		return 0, err
	}
	return cmpViaSign(d)
}

func cmpViaSign(e *Element) (int, error) {
	pos, err := e.IsPositive()
	if err != nil {
		return 0, err
	}
	if pos {
		return 1, nil
	}
	neg, err := e.IsNegative()
	if err != nil {
		return 0, err
	}
	if neg {
		return -1, nil
	}
	return 0, nil
}

func logHeightIntApprox(n int64) int {
	if n < 0 {
		n = -n
	}
	if n < 1 {
		return 0
	}
	count := 0
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

func logIntApprox(n int) int {
	return logHeightIntApprox(int64(n))
}
