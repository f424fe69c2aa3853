// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix implements dense integer and number-field-valued matrices:
// addition, multiplication, integer powers, Bareiss fraction-free row
// echelon reduction, integer nullspace bases, Faddeev-LeVerrier
// characteristic polynomials, and the small linear-feasibility search used
// by the invariant-lamination driver to find a nonnegative-image ray in a
// cone (spec.md §4.5).
package matrix

import (
	"math/big"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/polynomial"
)

// Integer is a dense matrix with exact integer entries.
type Integer struct {
	Rows, Cols int
	Data       [][]*big.Int
}

// NewInteger builds a rows x cols zero matrix.
func NewInteger(rows, cols int) *Integer {
	d := make([][]*big.Int, rows)
	for i := range d {
		d[i] = make([]*big.Int, cols)
		for j := range d[i] {
			d[i][j] = big.NewInt(0)
		}
	}
	return &Integer{Rows: rows, Cols: cols, Data: d}
}

// IntegerFromInt64 builds an Integer matrix from a row-major int64 grid.
func IntegerFromInt64(rows [][]int64) *Integer {
	m := NewInteger(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			m.Data[i][j] = big.NewInt(v)
		}
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Integer {
	m := NewInteger(n, n)
	for i := 0; i < n; i++ {
		m.Data[i][i] = big.NewInt(1)
	}
	return m
}

// Add returns a+b.
func (a *Integer) Add(b *Integer) *Integer {
	out := NewInteger(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i][j] = new(big.Int).Add(a.Data[i][j], b.Data[i][j])
		}
	}
	return out
}

// Sub returns a-b.
func (a *Integer) Sub(b *Integer) *Integer {
	out := NewInteger(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i][j] = new(big.Int).Sub(a.Data[i][j], b.Data[i][j])
		}
	}
	return out
}

// Mul returns a*b.
func (a *Integer) Mul(b *Integer) *Integer {
	out := NewInteger(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		for k := 0; k < a.Cols; k++ {
			if a.Data[i][k].Sign() == 0 {
				continue
			}
			for j := 0; j < b.Cols; j++ {
				out.Data[i][j].Add(out.Data[i][j], new(big.Int).Mul(a.Data[i][k], b.Data[k][j]))
			}
		}
	}
	return out
}

// MulVec returns a*v.
func (a *Integer) MulVec(v []*big.Int) []*big.Int {
	out := make([]*big.Int, a.Rows)
	for i := 0; i < a.Rows; i++ {
		sum := big.NewInt(0)
		for j := 0; j < a.Cols; j++ {
			sum.Add(sum, new(big.Int).Mul(a.Data[i][j], v[j]))
		}
		out[i] = sum
	}
	return out
}

// Pow returns a^n for n >= 0 via exponentiation by squaring.
func (a *Integer) Pow(n int) *Integer {
	result := Identity(a.Rows)
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// Transpose returns a^T.
func (a *Integer) Transpose() *Integer {
	out := NewInteger(a.Cols, a.Rows)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[j][i] = a.Data[i][j]
		}
	}
	return out
}

// Clone returns a deep copy of a.
func (a *Integer) Clone() *Integer {
	out := NewInteger(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i][j] = new(big.Int).Set(a.Data[i][j])
		}
	}
	return out
}

// bareissRowEchelon runs fraction-free Bareiss elimination on a copy of m,
// returning the row echelon form and its rank (the number of pivot rows).
func bareissRowEchelon(m *Integer) (*Integer, int) {
	a := m.Clone()
	rows, cols := a.Rows, a.Cols
	prevPivot := big.NewInt(1)
	pivotRow := 0
	for col := 0; col < cols && pivotRow < rows; col++ {
		pivot := -1
		for r := pivotRow; r < rows; r++ {
			if a.Data[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		if pivot != pivotRow {
			a.Data[pivot], a.Data[pivotRow] = a.Data[pivotRow], a.Data[pivot]
		}
		for r := pivotRow + 1; r < rows; r++ {
			for c := col; c < cols; c++ {
				t := new(big.Int).Mul(a.Data[r][c], a.Data[pivotRow][col])
				t.Sub(t, new(big.Int).Mul(a.Data[pivotRow][c], a.Data[r][col]))
				t.Div(t, prevPivot)
				a.Data[r][c] = t
			}
		}
		prevPivot = a.Data[pivotRow][col]
		pivotRow++
	}
	return a, pivotRow
}

// Rank returns the rank of a (number of nonzero rows in its Bareiss row
// echelon form).
func (a *Integer) Rank() int {
	_, rank := bareissRowEchelon(a)
	return rank
}

// Kernel returns a basis of the integer nullspace of a (the solution set of
// a*v = 0), via Bareiss elimination followed by back substitution over
// rationals, cleared back to primitive integer vectors.
func (a *Integer) Kernel() [][]*big.Int {
	echelon, rank := bareissRowEchelon(a)
	cols := a.Cols
	pivotCols := make([]int, 0, rank)
	row := 0
	for col := 0; col < cols && row < rank; col++ {
		if echelon.Data[row][col].Sign() != 0 {
			pivotCols = append(pivotCols, col)
			row++
		}
	}
	isPivot := make([]bool, cols)
	for _, c := range pivotCols {
		isPivot[c] = true
	}
	var basis [][]*big.Int
	for freeCol := 0; freeCol < cols; freeCol++ {
		if isPivot[freeCol] {
			continue
		}
		vec := make([]*big.Rat, cols)
		for i := range vec {
			vec[i] = new(big.Rat)
		}
		vec[freeCol].SetInt64(1)
		for r := len(pivotCols) - 1; r >= 0; r-- {
			pc := pivotCols[r]
			sum := new(big.Rat)
			for c := pc + 1; c < cols; c++ {
				if echelon.Data[r][c].Sign() == 0 {
					continue
				}
				term := new(big.Rat).SetInt(echelon.Data[r][c])
				term.Mul(term, vec[c])
				sum.Add(sum, term)
			}
			sum.Neg(sum)
			sum.Quo(sum, new(big.Rat).SetInt(echelon.Data[r][pc]))
			vec[pc] = sum
		}
		basis = append(basis, clearDenominators(vec))
	}
	return basis
}

func clearDenominators(vec []*big.Rat) []*big.Int {
	lcm := big.NewInt(1)
	for _, r := range vec {
		g := new(big.Int).GCD(nil, nil, lcm, r.Denom())
		if g.Sign() == 0 {
			g = big.NewInt(1)
		}
		lcm = new(big.Int).Mul(lcm, new(big.Int).Div(r.Denom(), g))
	}
	out := make([]*big.Int, len(vec))
	for i, r := range vec {
		n := new(big.Int).Mul(r.Num(), new(big.Int).Div(lcm, r.Denom()))
		out[i] = n
	}
	g := big.NewInt(0)
	for _, n := range out {
		g = new(big.Int).GCD(nil, nil, g, new(big.Int).Abs(n))
	}
	if g.Sign() > 0 {
		for i, n := range out {
			out[i] = new(big.Int).Div(n, g)
		}
	}
	return out
}

// CharacteristicPolynomial computes det(xI - a) via the Faddeev-LeVerrier
// recursion, returning coefficients constant-term first.
func (a *Integer) CharacteristicPolynomial() *polynomial.Polynomial {
	n := a.Rows
	coeffs := make([]int64, n+1)
	coeffs[n] = 1
	mCur := Identity(n)
	for k := 1; k <= n; k++ {
		am := a.Mul(mCur)
		trace := big.NewInt(0)
		for i := 0; i < n; i++ {
			trace.Add(trace, am.Data[i][i])
		}
		ck := new(big.Int).Neg(new(big.Int).Div(trace, big.NewInt(int64(k))))
		coeffs[n-k] = ck.Int64()
		mCur = am.Add(scalarMul(Identity(n), ck))
	}
	return polynomial.New(coeffs)
}

func scalarMul(m *Integer, s *big.Int) *Integer {
	out := NewInteger(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Data[i][j] = new(big.Int).Mul(m.Data[i][j], s)
		}
	}
	return out
}

// NonnegativeImage reports whether a*v has every entry >= 0.
func (a *Integer) NonnegativeImage(v []*big.Int) bool {
	image := a.MulVec(v)
	for _, x := range image {
		if x.Sign() < 0 {
			return false
		}
	}
	return true
}

// FindVectorWithNonnegativeImage searches the span of basis for a rational
// combination v such that a*v has every entry >= 0 and, optionally, every
// entry of cone*v is also >= 0 (the triangle-inequality "cone condition" of
// spec.md §4.10), returning the combination's coefficients. It starts from
// the uniform combination (every coefficient 1/len(basis)) and, while a
// constraint is violated, adds 1/2 to the first basis coefficient that
// reduces the most violated constraint (coordinate descent). Returns an
// Assumption error, reported as an empty cone, when no such step exists
// or after 2000 steps without success.
func FindVectorWithNonnegativeImage(a *Integer, cone *Integer, basis [][]*big.Int) ([]*big.Rat, error) {
	if len(basis) == 0 {
		return nil, ferr.NewAssumption("matrix.FindVectorWithNonnegativeImage: empty basis spans no cone")
	}
	dim := len(basis[0])
	coeffs := make([]*big.Rat, len(basis))
	for i := range coeffs {
		coeffs[i] = big.NewRat(1, int64(len(basis)))
	}
	combine := func(c []*big.Rat) []*big.Rat {
		v := make([]*big.Rat, dim)
		for i := range v {
			v[i] = new(big.Rat)
		}
		for bi, b := range basis {
			for i := 0; i < dim; i++ {
				term := new(big.Rat).SetInt(b[i])
				term.Mul(term, c[bi])
				v[i].Add(v[i], term)
			}
		}
		return v
	}
	constraintRows := func() [][]*big.Int {
		rows := append([][]*big.Int{}, a.Data...)
		if cone != nil {
			rows = append(rows, cone.Data...)
		}
		return rows
	}
	rows := constraintRows()
	const maxIters = 2000
	for iter := 0; iter < maxIters; iter++ {
		v := combine(coeffs)
		worst := -1
		var worstVal *big.Rat
		for ri, row := range rows {
			val := dotRat(row, v)
			if val.Sign() < 0 {
				if worst == -1 || val.Cmp(worstVal) < 0 {
					worst = ri
					worstVal = val
				}
			}
		}
		if worst == -1 {
			return coeffs, nil
		}
		// Move coeffs toward whichever single basis vector most reduces the
		// worst violation (a coordinate descent pivot).
		improved := false
		for bi := range basis {
			trial := append([]*big.Rat{}, coeffs...)
			trial[bi] = new(big.Rat).Add(trial[bi], big.NewRat(1, 2))
			tv := combine(trial)
			if dotRat(rows[worst], tv).Cmp(worstVal) > 0 {
				coeffs = trial
				improved = true
				break
			}
		}
		if !improved {
			return nil, ferr.NewAssumption("matrix.FindVectorWithNonnegativeImage: feasibility cone is empty")
		}
	}
	return nil, ferr.NewAssumption("matrix.FindVectorWithNonnegativeImage: feasibility search did not converge")
}

func dotRat(row []*big.Int, v []*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for i, a := range row {
		term := new(big.Rat).SetInt(a)
		term.Mul(term, v[i])
		sum.Add(sum, term)
	}
	return sum
}

// Algebraic is a dense matrix with entries in a fixed numfield.Field.
type Algebraic struct {
	Rows, Cols int
	Field      *numfield.Field
	Data       [][]*numfield.Element
}

// NewAlgebraic builds a rows x cols zero matrix over field.
func NewAlgebraic(field *numfield.Field, rows, cols int) *Algebraic {
	d := make([][]*numfield.Element, rows)
	zero := field.Element(nil)
	for i := range d {
		d[i] = make([]*numfield.Element, cols)
		for j := range d[i] {
			d[i][j] = zero
		}
	}
	return &Algebraic{Rows: rows, Cols: cols, Field: field, Data: d}
}

// FromIntegerMinusScalar returns (m - s*I) with entries lifted into field,
// the operation classify uses to form (A - mu*I) before taking a kernel.
func FromIntegerMinusScalar(m *Integer, s *numfield.Element) *Algebraic {
	out := NewAlgebraic(s.Field, m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			entry := s.Field.Element([]int64{m.Data[i][j].Int64()})
			if i == j {
				diff, _ := entry.Sub(s)
				out.Data[i][j] = diff
			} else {
				out.Data[i][j] = entry
			}
		}
	}
	return out
}

// Kernel computes a basis of the nullspace of the algebraic matrix via
// Gauss-Jordan elimination using exact numfield arithmetic (spec.md §4.5):
// every pivot division is an exact field division (numfield.Element.Div),
// since Q(lambda) is a field.
func (m *Algebraic) Kernel() ([][]*numfield.Element, error) {
	rows, cols := m.Rows, m.Cols
	field := m.Field
	a := make([][]*numfield.Element, rows)
	for i := range a {
		a[i] = append([]*numfield.Element{}, m.Data[i]...)
	}
	var pivotCols []int
	pivotRow := 0
	for col := 0; col < cols && pivotRow < rows; col++ {
		sel := -1
		for r := pivotRow; r < rows; r++ {
			zero, err := a[r][col].IsZero()
			if err != nil {
				return nil, err
			}
			if !zero {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		a[sel], a[pivotRow] = a[pivotRow], a[sel]
		pivot := a[pivotRow][col]
		for c := col; c < cols; c++ {
			scaled, err := a[pivotRow][c].Div(pivot)
			if err != nil {
				return nil, err
			}
			a[pivotRow][c] = scaled
		}
		for r := 0; r < rows; r++ {
			if r == pivotRow {
				continue
			}
			factor := a[r][col]
			zero, err := factor.IsZero()
			if err != nil {
				return nil, err
			}
			if zero {
				continue
			}
			for c := col; c < cols; c++ {
				term, err := factor.Mul(a[pivotRow][c])
				if err != nil {
					return nil, err
				}
				diff, err := a[r][c].Sub(term)
				if err != nil {
					return nil, err
				}
				a[r][c] = diff
			}
		}
		pivotCols = append(pivotCols, col)
		pivotRow++
	}
	isPivot := make([]bool, cols)
	for _, c := range pivotCols {
		isPivot[c] = true
	}
	var basis [][]*numfield.Element
	for freeCol := 0; freeCol < cols; freeCol++ {
		if isPivot[freeCol] {
			continue
		}
		vec := make([]*numfield.Element, cols)
		for i := range vec {
			vec[i] = field.Element(nil)
		}
		vec[freeCol] = field.One()
		for r, pc := range pivotCols {
			vec[pc] = a[r][freeCol].Neg()
		}
		basis = append(basis, vec)
	}
	return basis, nil
}
