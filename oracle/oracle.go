// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oracle defines the pluggable real-root/kernel-basis backend
// (spec.md §4, §6): package classify's cell search needs, for a
// square-free integer
// polynomial, its real roots above 1 in decreasing order, and, for a
// matrix over a number field, a basis of its kernel. In the flipper
// original these two computations are delegated to Sage
// (Kernel/SymbolicComputation_sage.py's Perron_Frobenius_eigen calls
// into Sage's symbolic factoring and linear algebra); this package
// gives that seam a name so a caller wanting a genuine computer-algebra
// backend can supply one without touching the driver packages.
package oracle

import (
	"math/big"

	"github.com/saraedum/flipper/matrix"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/polynomial"
)

// Oracle supplies the two pieces of symbolic computation the rest of
// this engine treats as swappable.
type Oracle interface {
	// RealRoots returns p's real roots strictly greater than 1, in
	// decreasing order, up to whatever limit the implementation
	// chooses to enforce. p must be square-free.
	RealRoots(p *polynomial.Polynomial) ([]*polynomial.Root, error)

	// KernelBasis returns a basis of m's kernel over its number field.
	KernelBasis(m *matrix.Algebraic) ([]numfield.Vector, error)
}

// DefaultOracle is the Oracle backing this engine's own exact
// arithmetic: package polynomial's leading-root Newton search combined
// with approximate (truncating) synthetic deflation for RealRoots, and
// package matrix's exact Gauss-Jordan kernel computation over the number
// field for KernelBasis. No external
// computer algebra system is consulted.
type DefaultOracle struct {
	// MaxRoots bounds how many real roots above 1 RealRoots returns
	// before giving up, guarding against pathological deflation loops.
	// Zero means 8.
	MaxRoots int
}

// RealRoots implements Oracle.
func (o DefaultOracle) RealRoots(p *polynomial.Polynomial) ([]*polynomial.Root, error) {
	limit := o.MaxRoots
	if limit == 0 {
		limit = 8
	}
	one := big.NewRat(1, 1)
	var roots []*polynomial.Root
	cur := p
	for i := 0; i < limit && cur.Degree() > 0; i++ {
		root := cur.FindLeadingRoot(40)
		if root.Cmp(one) <= 0 {
			break
		}
		roots = append(roots, root)
		cur = deflate(cur, root)
	}
	return roots, nil
}

// KernelBasis implements Oracle.
func (o DefaultOracle) KernelBasis(m *matrix.Algebraic) ([]numfield.Vector, error) {
	basis, err := m.Kernel()
	if err != nil {
		return nil, err
	}
	out := make([]numfield.Vector, len(basis))
	for i, v := range basis {
		out[i] = v
	}
	return out, nil
}

// deflate divides p by (x - root) via synthetic division, truncating each
// carried term to an integer and discarding the remainder, so the
// quotient is approximate. It is the same construction classify.deflate
// performs to walk a polynomial's
// roots one at a time without refactoring it from scratch each step.
func deflate(p *polynomial.Polynomial, root *polynomial.Root) *polynomial.Polynomial {
	num, den := root.Num(), root.Denom()
	coeffs := make([]int64, p.Degree())
	carry := big.NewInt(0)
	for i := p.Degree(); i >= 1; i-- {
		coeffs[i-1] = p.Coefficients[i] + carry.Int64()
		carry = new(big.Int).Mul(big.NewInt(coeffs[i-1]), num)
		carry.Div(carry, den)
	}
	return polynomial.New(coeffs)
}
