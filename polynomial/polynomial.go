// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package polynomial implements integer polynomials and Newton-iteration
// based isolation of the leading (largest) real root, following
// kernel/polynomial.py in the flipper original.
package polynomial

import (
	"math"
	"math/big"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/saraedum/flipper/algebraic"
	"github.com/saraedum/flipper/interval"
)

// Polynomial is a finite ordered sequence of integer coefficients, constant
// term first: coefficients[i] is the coefficient of x^i.
type Polynomial struct {
	Coefficients []int64
}

// Root is an exact rational isolating value for a real root, the shape
// FindLeadingRoot and package oracle's RealRoots both return.
type Root = big.Rat

// New builds a Polynomial from a coefficient list, constant term first.
func New(coefficients []int64) *Polynomial {
	c := make([]int64, len(coefficients))
	copy(c, coefficients)
	return &Polynomial{Coefficients: c}
}

// Degree returns len(coefficients)-1.
func (p *Polynomial) Degree() int { return len(p.Coefficients) - 1 }

// Height returns max|a_i| over the coefficients (1 for the zero polynomial,
// matching the Python default of 1 for an empty coefficient list).
func (p *Polynomial) Height() int64 {
	var h int64 = 1
	for _, c := range p.Coefficients {
		a := c
		if a < 0 {
			a = -a
		}
		if a > h {
			h = a
		}
	}
	return h
}

// LogHeight returns log10(Height()).
func (p *Polynomial) LogHeight() float64 { return math.Log10(float64(p.Height())) }

// EvalInt evaluates p at the integer x.
func (p *Polynomial) EvalInt(x int64) int64 {
	var sum, xp int64 = 0, 1
	for _, c := range p.Coefficients {
		sum += c * xp
		xp *= x
	}
	return sum
}

// EvalFraction evaluates p at the rational x=num/den, returning a reduced fraction.
func (p *Polynomial) EvalFraction(num, den *big.Int) (*big.Int, *big.Int) {
	sumNum := big.NewInt(0)
	// sum c_i * num^i / den^i, summed over a common denominator den^degree.
	degree := p.Degree()
	denPow := new(big.Int).Exp(den, big.NewInt(int64(degree)), nil)
	numPow := big.NewInt(1)
	for i, c := range p.Coefficients {
		term := new(big.Int).Mul(big.NewInt(c), numPow)
		scale := new(big.Int).Div(denPow, pow(den, i))
		term.Mul(term, scale)
		sumNum.Add(sumNum, term)
		numPow.Mul(numPow, num)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(sumNum), new(big.Int).Abs(denPow))
	if g.Sign() != 0 {
		sumNum.Div(sumNum, g)
		denPow.Div(denPow, g)
	}
	return sumNum, denPow
}

func pow(x *big.Int, n int) *big.Int {
	return new(big.Int).Exp(x, big.NewInt(int64(n)), nil)
}

// Derivative returns p'.
func (p *Polynomial) Derivative() *Polynomial {
	if p.Degree() <= 0 {
		return New([]int64{0})
	}
	d := make([]int64, p.Degree())
	for i := 1; i < len(p.Coefficients); i++ {
		d[i-1] = int64(i) * p.Coefficients[i]
	}
	return New(d)
}

// rational is an exact-precision accumulator used by the Newton iteration below.
type rational struct{ num, den *big.Int }

func newRational(num, den int64) rational {
	return rational{big.NewInt(num), big.NewInt(den)}.reduce()
}

func (r rational) reduce() rational {
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(r.num), new(big.Int).Abs(r.den))
	if g.Sign() == 0 {
		return r
	}
	n := new(big.Int).Div(r.num, g)
	d := new(big.Int).Div(r.den, g)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return rational{n, d}
}

func (r rational) sub(o rational) rational {
	n := new(big.Int).Add(new(big.Int).Mul(r.num, o.den), new(big.Int).Neg(new(big.Int).Mul(o.num, r.den)))
	d := new(big.Int).Mul(r.den, o.den)
	return rational{n, d}.reduce()
}

func (r rational) div(o rational) rational {
	n := new(big.Int).Mul(r.num, o.den)
	d := new(big.Int).Mul(r.den, o.num)
	return rational{n, d}.reduce()
}

func (r rational) evalPoly(p *Polynomial) rational {
	sum := newRational(0, 1)
	xp := newRational(1, 1)
	for _, c := range p.Coefficients {
		term := rational{new(big.Int).Mul(big.NewInt(c), xp.num), xp.den}
		sum = rational{new(big.Int).Add(new(big.Int).Mul(sum.num, term.den), new(big.Int).Mul(term.num, sum.den)), new(big.Int).Mul(sum.den, term.den)}.reduce()
		xp = rational{new(big.Int).Mul(xp.num, r.num), new(big.Int).Mul(xp.den, r.den)}.reduce()
	}
	return sum
}

// gapBelow10ToThe reports whether |r.num/r.den| (as a gap between two
// Newton iterates) is already below 10^-precision, computed exactly via
// cross multiplication to avoid floating point.
func gapBelow10ToThe(gap rational, precision int) bool {
	// |gap| < 10^-precision  <=>  |gap.num| * 10^precision < |gap.den|
	n := new(big.Int).Abs(gap.num)
	d := new(big.Int).Abs(gap.den)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	n.Mul(n, scale)
	return n.Cmp(d) < 0
}

// FindLeadingRoot returns a rational approximation r to the largest real
// root r* of p with |r - r*| < 10^-precision, via Newton iteration starting
// from the Cauchy bound height*degree, mirroring Polynomial.find_leading_root.
func (p *Polynomial) FindLeadingRoot(precision int) *big.Rat {
	fPrime := p.Derivative()
	root := newRational(p.Height()*int64(p.Degree()), 1)
	var oldRoot rational
	haveOld := false
	for iter := 0; iter < 10000; iter++ {
		fVal := root.evalPoly(p)
		fpVal := root.evalPoly(fPrime)
		if fpVal.num.Sign() == 0 {
			break
		}
		step := fVal.div(fpVal)
		newRoot := root.sub(step)
		if haveOld {
			gap := newRoot.sub(oldRoot)
			if gapBelow10ToThe(gap, precision) {
				oldRoot, root = root, newRoot
				break
			}
		}
		oldRoot, root = root, newRoot
		haveOld = true
	}
	p.checkDerivativeSign(root, fPrime)
	return new(big.Rat).SetFrac(root.num, root.den)
}

// checkDerivativeSign cross-checks the exact derivative sign used by the
// Newton step against a central-difference numerical derivative of p at
// the same point, via gosl/num.DerivCen. The two are computed by entirely
// different means (exact rational arithmetic on fPrime vs. a float64
// finite difference on p itself), so a disagreement means the Newton
// iteration above converged to a point that is not actually a sign-change
// neighbourhood of p, which should never happen once the loop has
// converged; chk.Panic matches how other internal invariant violations
// are reported in this package.
func (p *Polynomial) checkDerivativeSign(root rational, fPrime *Polynomial) {
	exactSign := root.evalPoly(fPrime).num.Sign()
	if exactSign == 0 {
		return
	}
	xf, _ := new(big.Rat).SetFrac(root.num, root.den).Float64()
	// A finite difference in float64 is only meaningful while the root and
	// the polynomial's coefficients stay well inside float64 range; beyond
	// that the numeric side of this cross-check would itself be unreliable,
	// so it is skipped rather than risking a false-positive panic.
	if math.Abs(xf) > 1e8 || p.LogHeight() > 8 {
		return
	}
	numericDeriv := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
		var xp float64 = 1
		for _, c := range p.Coefficients {
			res += float64(c) * xp
			xp *= x
		}
		return
	}, xf)
	numericSign := 0
	switch {
	case numericDeriv > 0:
		numericSign = 1
	case numericDeriv < 0:
		numericSign = -1
	}
	if numericSign != 0 && numericSign != exactSign {
		chk.Panic("polynomial.FindLeadingRoot: numerical derivative cross-check disagrees with the exact derivative sign at the isolated root")
	}
}

// AlgebraicApproximateLeadingRoot returns an algebraic.Approximation of
// (leading root)^power, correct to at least precision decimal places,
// mirroring Polynomial.algebraic_approximate_leading_root.
func (p *Polynomial) AlgebraicApproximateLeadingRoot(precision, power int) (*algebraic.Approximation, error) {
	if precision <= 0 {
		chk.Panic("polynomial.AlgebraicApproximateLeadingRoot: precision must be positive, got %d", precision)
	}
	root := p.FindLeadingRoot(2 * precision)
	rootPow := new(big.Rat).SetInt64(1)
	for i := 0; i < power; i++ {
		rootPow.Mul(rootPow, root)
	}
	iv := interval.FromFraction(rootPow.Num(), rootPow.Denom(), 2*precision)
	return algebraic.New(iv, p.Degree(), p.LogHeight())
}

// SquareFree returns p / gcd(p, p').
func (p *Polynomial) SquareFree() *Polynomial {
	g := polyGCD(p, p.Derivative())
	q, _ := polyDivMod(p, g)
	return q
}

// IrreducibleFactor returns the square-free part of p. No factorisation
// over Q is attempted and approxRoot is not used, so the result is an
// irreducible factor containing the root near approxRoot only when p's
// square-free part is itself irreducible.
func (p *Polynomial) IrreducibleFactor(approxRoot *big.Rat) *Polynomial {
	sf := p.SquareFree()
	return sf
}

// polyGCD computes gcd(a,b) over Q[x] scaled back to integer coefficients
// (content removed), using Euclidean division on rational coefficients.
func polyGCD(a, b *Polynomial) *Polynomial {
	ra := toRatPoly(a)
	rb := toRatPoly(b)
	for len(rb) > 0 && !allZero(rb) {
		_, r := ratPolyDivMod(ra, rb)
		ra, rb = rb, r
	}
	return fromRatPoly(ra)
}

func polyDivMod(a, b *Polynomial) (*Polynomial, *Polynomial) {
	ra, rb := toRatPoly(a), toRatPoly(b)
	q, r := ratPolyDivMod(ra, rb)
	return fromRatPoly(q), fromRatPoly(r)
}

func toRatPoly(p *Polynomial) []*big.Rat {
	out := make([]*big.Rat, len(p.Coefficients))
	for i, c := range p.Coefficients {
		out[i] = new(big.Rat).SetInt64(c)
	}
	return out
}

func allZero(p []*big.Rat) bool {
	for _, c := range p {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

func trimRat(p []*big.Rat) []*big.Rat {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func ratPolyDivMod(a, b []*big.Rat) ([]*big.Rat, []*big.Rat) {
	a = trimRat(append([]*big.Rat{}, a...))
	b = trimRat(append([]*big.Rat{}, b...))
	if len(b) == 0 {
		return []*big.Rat{}, a
	}
	rem := append([]*big.Rat{}, a...)
	degB := len(b) - 1
	var quot []*big.Rat
	for len(rem) > 0 && len(rem)-1 >= degB {
		rem = trimRat(rem)
		if len(rem)-1 < degB {
			break
		}
		lead := new(big.Rat).Quo(rem[len(rem)-1], b[degB])
		shift := len(rem) - 1 - degB
		for len(quot) < shift+1 {
			quot = append(quot, new(big.Rat))
		}
		quot[shift] = lead
		for i, bc := range b {
			rem[i+shift] = new(big.Rat).Sub(rem[i+shift], new(big.Rat).Mul(lead, bc))
		}
		rem = trimRat(rem)
	}
	return quot, rem
}

func fromRatPoly(p []*big.Rat) *Polynomial {
	p = trimRat(p)
	if len(p) == 0 {
		return New([]int64{0})
	}
	// clear denominators to a common integer content.
	lcm := big.NewInt(1)
	for _, c := range p {
		lcm = lcmBig(lcm, c.Denom())
	}
	ints := make([]*big.Int, len(p))
	for i, c := range p {
		n := new(big.Int).Mul(c.Num(), new(big.Int).Div(lcm, c.Denom()))
		ints[i] = n
	}
	g := big.NewInt(0)
	for _, n := range ints {
		g = new(big.Int).GCD(nil, nil, g, new(big.Int).Abs(n))
	}
	if g.Sign() == 0 {
		g = big.NewInt(1)
	}
	out := make([]int64, len(ints))
	for i, n := range ints {
		out[i] = new(big.Int).Div(n, g).Int64()
	}
	return New(out)
}

func lcmBig(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	if g.Sign() == 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Mul(a, new(big.Int).Div(b, g))
}

