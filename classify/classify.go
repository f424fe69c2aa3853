// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package classify implements the invariant-lamination driver (spec.md
// §4.10): given a non-periodic self-encoding of a triangulation, it
// searches the encoding's piecewise-linear cells for a Perron-Frobenius
// eigenpair (stretch factor, invariant lamination) certifying the
// mapping class as pseudo-Anosov, the way kernel/numberfield.py's
// NumberField paired with Kernel/SymbolicComputation_sage.py's
// Perron_Frobenius_eigen does in the flipper original (that module used
// Sage's symbolic eigenvector search; this engine performs the
// equivalent search using only this module's own exact arithmetic).
package classify

import (
	"math/big"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/saraedum/flipper/encoding"
	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/lamination"
	"github.com/saraedum/flipper/matrix"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/polynomial"
	"github.com/saraedum/flipper/triangulation"
)

// maxCandidateRoots bounds how many of a cell's characteristic
// polynomial's real roots above 1 are tried before moving to the next
// cell, guarding against pathological deflation loops.
const maxCandidateRoots = 8

// candidateSeeds returns a small spanning set of nonnegative integer
// weight vectors used to sample the encoding's piecewise-linear cells:
// the all-ones vector (the "generic" cell) together with, for each
// coordinate i, the all-ones vector with coordinate i raised to n+1,
// mirroring how the driver is expected to probe
// "every maximal PL cell in turn" (spec.md §4.10) without needing a full
// cell decomposition.
func candidateSeeds(n int) [][]int64 {
	seeds := make([][]int64, 0, n+1)
	ones := make([]int64, n)
	for i := range ones {
		ones[i] = 1
	}
	seeds = append(seeds, ones)
	for i := 0; i < n; i++ {
		v := make([]int64, n)
		for j := range v {
			v[j] = 1
		}
		v[i] = int64(n + 1)
		seeds = append(seeds, v)
	}
	return seeds
}

// InvariantLamination computes the stretch factor and invariant
// projective measured lamination of the self-encoding e (spec.md §4.10).
// It returns a Computation error ("probably reducible") if every
// candidate cell and eigenvalue is exhausted without finding a vector
// satisfying both the nonnegativity and cone conditions, and an Abort
// error if abort ever reports true.
func InvariantLamination(e *encoding.Encoding, abort func() bool) (*numfield.Element, *lamination.Lamination, error) {
	if e.Source != e.Target {
		return nil, nil, ferr.NewAssumption("classify.InvariantLamination: encoding is not a self-map of its triangulation")
	}
	t := e.Source
	n := t.NumEdges()
	for _, seed := range candidateSeeds(n) {
		if abort != nil && abort() {
			return nil, nil, ferr.NewAbort("classify.InvariantLamination: aborted")
		}
		mat, err := e.ActionMatrix(seed)
		if err != nil {
			return nil, nil, err
		}
		mu, weights, err := searchCell(t, mat, abort)
		if err == nil {
			lam, lerr := lamination.New(t, weights)
			if lerr != nil {
				return nil, nil, lerr
			}
			return mu, lam, nil
		}
		if ferr.IsAbort(err) {
			return nil, nil, err
		}
	}
	return nil, nil, ferr.NewComputation("classify.InvariantLamination: probably reducible")
}

// searchCell applies spec.md §4.10's per-cell procedure to the action
// matrix mat: square-free the characteristic polynomial, collect its real
// roots above 1, try them nearest-first to a float64 power-iteration
// estimate of the dominant eigenvalue (see warmStartByProximity), and for
// each candidate eigenvalue form (A - mu*I) over Q(mu) and inspect its
// kernel.
func searchCell(t *triangulation.Triangulation, mat *matrix.Integer, abort func() bool) (*numfield.Element, []int64, error) {
	charPoly := mat.CharacteristicPolynomial()
	sf := charPoly.SquareFree()
	roots := realRootsAbove1Descending(sf, maxCandidateRoots)
	if len(roots) == 0 {
		return nil, nil, ferr.NewComputation("classify.searchCell: no real root above 1")
	}
	warmStartByProximity(roots, powerIterationEstimate(mat, 25))
	conditionRows := tripleInequalityRows(t)
	for _, root := range roots {
		if abort != nil && abort() {
			return nil, nil, ferr.NewAbort("classify.searchCell: aborted")
		}
		factor := sf.IrreducibleFactor(root)
		if factor.Degree() < 1 {
			continue
		}
		field := numfield.New(factor)
		mu := field.Generator()
		a := matrix.FromIntegerMinusScalar(mat, mu)
		basis, err := a.Kernel()
		if err != nil {
			return nil, nil, err
		}
		if len(basis) == 0 {
			continue
		}
		weights, err := certifyCell(field, basis, conditionRows)
		if err != nil {
			continue
		}
		return mu, weights, nil
	}
	return nil, nil, ferr.NewComputation("classify.searchCell: every candidate eigenvalue failed the cone condition")
}

// powerIterationEstimate returns a float64 power-iteration estimate of
// mat's dominant eigenvalue, using gosl/la's vector helpers the way the
// rest of this module uses them for plain numeric bookkeeping. It is only
// a warm-start hint for which exact candidate root to try first in
// searchCell: it never itself selects or certifies an eigenvalue, since
// the certified mu always comes from re-isolating a root of the original
// square-free polynomial via numfield.Field.
func powerIterationEstimate(mat *matrix.Integer, iterations int) float64 {
	n := mat.Rows
	if n == 0 {
		return 0
	}
	v := la.VecAlloc(n)
	for i := range v {
		v[i] = 1
	}
	var lambda float64
	for iter := 0; iter < iterations; iter++ {
		next := la.VecAlloc(n)
		for i := 0; i < n; i++ {
			var sum float64
			for j := 0; j < n; j++ {
				sum += float64(mat.Data[i][j].Int64()) * v[j]
			}
			next[i] = sum
		}
		norm := la.VecNorm(next)
		if norm == 0 {
			return 0
		}
		for i := range next {
			next[i] /= norm
		}
		lambda = norm
		v = next
	}
	return lambda
}

// warmStartByProximity reorders roots in place so the candidate closest
// to estimate is tried first, the cheapest use a float64 warm start can be
// put to without affecting correctness: every root is still tried in the
// worst case, only the order changes.
func warmStartByProximity(roots []*big.Rat, estimate float64) {
	if estimate == 0 {
		return
	}
	sort.SliceStable(roots, func(i, j int) bool {
		fi, _ := roots[i].Float64()
		fj, _ := roots[j].Float64()
		di, dj := fi-estimate, fj-estimate
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		return di < dj
	})
}

// certifyCell checks the nonnegativity and triangle-inequality ("cone")
// conditions of spec.md §4.10 against the kernel basis, finding a
// nonnegative combination when the kernel has dimension greater than
// one, and returns the certified weight vector reduced to a common
// integer scale.
func certifyCell(field *numfield.Field, basis [][]*numfield.Element, conditionRows [][3]int) ([]int64, error) {
	var v []*numfield.Element
	if len(basis) == 1 {
		var err error
		v, err = normalizeSum(basis[0])
		if err != nil {
			return nil, err
		}
	} else {
		combo, err := findNonnegativeCombination(field, basis, conditionRows)
		if err != nil {
			return nil, err
		}
		v = combo
	}
	if err := checkNonnegative(v); err != nil {
		return nil, err
	}
	if err := checkTriangleInequality(v, conditionRows); err != nil {
		return nil, err
	}
	return approximateToIntegers(v)
}

// normalizeSum rescales v so that its coordinates sum to a strictly
// positive value, matching spec.md §4.10's "normalise so sum(v_i) > 0".
func normalizeSum(v []*numfield.Element) ([]*numfield.Element, error) {
	field := v[0].Field
	sum := field.Element(nil)
	for _, x := range v {
		var err error
		sum, err = sum.Add(x)
		if err != nil {
			return nil, err
		}
	}
	pos, err := sum.IsPositive()
	if err != nil {
		return nil, err
	}
	if !pos {
		out := make([]*numfield.Element, len(v))
		for i, x := range v {
			out[i] = x.Neg()
		}
		return out, nil
	}
	return v, nil
}

func checkNonnegative(v []*numfield.Element) error {
	for _, x := range v {
		neg, err := x.IsNegative()
		if err != nil {
			return err
		}
		if neg {
			return ferr.NewAssumption("classify.checkNonnegative: candidate eigenvector has a negative coordinate")
		}
	}
	return nil
}

// checkTriangleInequality verifies, for every (i,j,k) triple recorded in
// conditionRows, that v[j]+v[k]-v[i] is not negative.
func checkTriangleInequality(v []*numfield.Element, conditionRows [][3]int) error {
	for _, row := range conditionRows {
		i, j, k := row[0], row[1], row[2]
		sum, err := v[j].Add(v[k])
		if err != nil {
			return err
		}
		diff, err := sum.Sub(v[i])
		if err != nil {
			return err
		}
		neg, err := diff.IsNegative()
		if err != nil {
			return err
		}
		if neg {
			return ferr.NewAssumption("classify.checkTriangleInequality: candidate eigenvector violates the cone condition")
		}
	}
	return nil
}

// tripleInequalityRows returns, for every face of t and every one of its
// three corners, the triple (i,j,k) of edge indices such that the
// triangle inequality w[i] <= w[j]+w[k] must hold.
func tripleInequalityRows(t *triangulation.Triangulation) [][3]int {
	var rows [][3]int
	for _, tri := range t.Triangles {
		var e [3]int
		for side := 0; side < 3; side++ {
			edge := tri.EdgeAt(side)
			if edge < 0 {
				edge = -edge - 1
			}
			e[side] = edge
		}
		rows = append(rows, [3]int{e[0], e[1], e[2]})
		rows = append(rows, [3]int{e[1], e[2], e[0]})
		rows = append(rows, [3]int{e[2], e[0], e[1]})
	}
	return rows
}

// findNonnegativeCombination searches the span of basis for a
// combination satisfying both the nonnegativity and cone conditions,
// mirroring matrix.FindVectorWithNonnegativeImage's coordinate-descent
// pivoting but operating on number-field elements: candidate
// combinations are steered using a float64 approximation of each
// constraint (cheap, heuristic) and only ever certified exactly via
// numfield.Element comparisons before being accepted.
func findNonnegativeCombination(field *numfield.Field, basis [][]*numfield.Element, conditionRows [][3]int) ([]*numfield.Element, error) {
	dim := len(basis[0])
	coeffs := make([]float64, len(basis))
	for i := range coeffs {
		coeffs[i] = 1.0 / float64(len(basis))
	}
	combine := func(c []float64) ([]*numfield.Element, error) {
		out := make([]*numfield.Element, dim)
		for i := range out {
			out[i] = field.Element(nil)
		}
		for bi, b := range basis {
			scale := bestRationalScale(c[bi])
			for i := range out {
				scaled := b[i].MulInt(scale.num)
				var err error
				out[i], err = out[i].Add(scaled)
				if err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}
	const maxIters = 200
	for iter := 0; iter < maxIters; iter++ {
		v, err := combine(coeffs)
		if err != nil {
			return nil, err
		}
		if nonnegErr := checkNonnegative(v); nonnegErr == nil {
			if coneErr := checkTriangleInequality(v, conditionRows); coneErr == nil {
				return v, nil
			}
		}
		worst, worstVal := worstApproxViolation(v, conditionRows)
		if worst == -1 {
			return nil, ferr.NewAssumption("classify.findNonnegativeCombination: feasibility search did not converge")
		}
		improved := false
		for bi := range basis {
			trial := append([]float64{}, coeffs...)
			trial[bi] += 0.5
			tv, err := combine(trial)
			if err != nil {
				return nil, err
			}
			if approxViolation(tv, conditionRows, worst) > worstVal {
				coeffs = trial
				improved = true
				break
			}
		}
		if !improved {
			return nil, ferr.NewAssumption("classify.findNonnegativeCombination: feasibility cone is empty")
		}
	}
	return nil, ferr.NewAssumption("classify.findNonnegativeCombination: feasibility search did not converge")
}

type scaleHint struct{ num int64 }

// bestRationalScale turns a float combination coefficient into a small
// integer multiplier, since numfield.Element only supports integer
// scaling (the engine's field elements live in the Z[lambda] lattice,
// not the full Q(lambda) vector space); this biases the heuristic search
// toward a nearby lattice point rather than the exact real coefficient.
func bestRationalScale(c float64) scaleHint {
	n := int64(c * 4)
	if n == 0 {
		if c > 0 {
			n = 1
		} else if c < 0 {
			n = -1
		}
	}
	return scaleHint{num: n}
}

func worstApproxViolation(v []*numfield.Element, conditionRows [][3]int) (int, float64) {
	worst := -1
	worstVal := 0.0
	for i, x := range v {
		f := approxFloat(x)
		if f < 0 && (worst == -1 || f < worstVal) {
			worst, worstVal = -2-i, f
		}
	}
	for ri, row := range conditionRows {
		i, j, k := row[0], row[1], row[2]
		f := approxFloat(v[j]) + approxFloat(v[k]) - approxFloat(v[i])
		if f < 0 && (worst == -1 || f < worstVal) {
			worst, worstVal = ri, f
		}
	}
	return worst, worstVal
}

func approxViolation(v []*numfield.Element, conditionRows [][3]int, which int) float64 {
	if which <= -2 {
		i := -which - 2
		return approxFloat(v[i])
	}
	row := conditionRows[which]
	i, j, k := row[0], row[1], row[2]
	return approxFloat(v[j]) + approxFloat(v[k]) - approxFloat(v[i])
}

func approxFloat(x *numfield.Element) float64 {
	a, err := x.Approximation(8)
	if err != nil {
		chk.Panic("classify.approxFloat: %v", err)
	}
	return a.Interval.Float64()
}

// approximateToIntegers rescales the certified field-element vector v to
// a primitive integer weight vector, rounding each coordinate's interval
// midpoint and clearing the greatest common divisor, giving the caller a
// concrete lamination weight vector to build a Lamination from.
func approximateToIntegers(v []*numfield.Element) ([]int64, error) {
	floats := make([]float64, len(v))
	for i, x := range v {
		floats[i] = approxFloat(x)
	}
	minPositive := -1.0
	for _, f := range floats {
		if f > 1e-9 && (minPositive < 0 || f < minPositive) {
			minPositive = f
		}
	}
	if minPositive < 0 {
		return nil, ferr.NewAssumption("classify.approximateToIntegers: candidate eigenvector is identically zero")
	}
	const scaleUnits = 1 << 16
	scale := float64(scaleUnits) / minPositive
	out := make([]int64, len(v))
	for i, f := range floats {
		n := int64(f*scale + 0.5)
		if n < 0 {
			n = 0
		}
		out[i] = n
	}
	g := gcdAll(out)
	if g > 1 {
		for i := range out {
			out[i] /= g
		}
	}
	return out, nil
}

func gcdAll(vs []int64) int64 {
	g := int64(0)
	for _, v := range vs {
		g = gcd2(g, v)
	}
	if g == 0 {
		return 1
	}
	return g
}

func gcd2(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// realRootsAbove1Descending enumerates up to limit real roots of p that
// are strictly greater than 1, in decreasing order, by repeatedly taking
// the current polynomial's leading root and deflating it out via
// approximate synthetic division (see deflate) once a close rational
// approximation is known,
// mirroring how the leading-root Newton search in package polynomial is
// meant to be iterated to recover successive roots (spec.md §4.10: "its
// real roots > 1 in decreasing order").
func realRootsAbove1Descending(p *polynomial.Polynomial, limit int) []*big.Rat {
	var roots []*big.Rat
	cur := p
	for i := 0; i < limit && cur.Degree() > 0; i++ {
		root := cur.FindLeadingRoot(40)
		one := big.NewRat(1, 1)
		if root.Cmp(one) <= 0 {
			break
		}
		roots = append(roots, root)
		cur = deflate(cur, root)
		if cur.Degree() <= 0 {
			break
		}
	}
	return roots
}

// deflate divides p by (x - root) using the root's rational
// approximation by synthetic division, truncating each carried term to an
// integer (big.Int division) and returning the integer quotient; since
// root is only an approximation the remainder is discarded and the
// quotient is approximate, which is acceptable here because deflate is
// used only to seed the search for the next-lower root, never to
// determine the eigenvalue itself (that always comes from re-isolating a
// root of the original square-free polynomial via IrreducibleFactor).
func deflate(p *polynomial.Polynomial, root *big.Rat) *polynomial.Polynomial {
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
