// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoding implements piecewise-linear maps over ideal
// triangulations as chains of basic moves (flip, isometry, identity),
// their composition, and the integer action matrix a chain induces on a
// triangulation's weight space (spec.md §4.8). The tagged-union dispatch
// mirrors the Design Notes' "tagged sum of operand types" (spec.md §9)
// rather than a class hierarchy of move kinds.
package encoding

import (
	"math/big"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/matrix"
	"github.com/saraedum/flipper/triangulation"
)

// MoveKind tags which of the three basic PL functions a BasicMove is.
type MoveKind int

const (
	// KindIdentity is the identity map.
	KindIdentity MoveKind = iota
	// KindFlip flips a single edge.
	KindFlip
	// KindIsometry applies a combinatorial isometry.
	KindIsometry
)

// BasicMove is one of {flip along edge e, linear isometry σ, identity}
// (spec.md §3).
type BasicMove struct {
	Kind MoveKind
	Edge int                     // valid when Kind == KindFlip
	Iso  *triangulation.Isometry // valid when Kind == KindIsometry
}

// Flip returns the basic move that flips edge e.
func Flip(e int) BasicMove { return BasicMove{Kind: KindFlip, Edge: e} }

// IsometryMove returns the basic move that applies iso.
func IsometryMove(iso *triangulation.Isometry) BasicMove {
	return BasicMove{Kind: KindIsometry, Iso: iso}
}

// Identity returns the identity basic move.
func Identity() BasicMove { return BasicMove{Kind: KindIdentity} }

// Encoding is a chain f_n ∘ ... ∘ f_1 of basic PL functions, stored in
// application order (Moves[0] is applied first), together with the
// triangulations it starts and ends on.
type Encoding struct {
	Source, Target *triangulation.Triangulation
	Moves          []BasicMove
}

// New builds an Encoding over the given chain of moves, from source to
// target (the caller is responsible for target being the triangulation
// reached after applying every move in order).
func New(source, target *triangulation.Triangulation, moves []BasicMove) *Encoding {
	return &Encoding{Source: source, Target: target, Moves: append([]BasicMove{}, moves...)}
}

// Compose returns the encoding that applies e first and then other,
// i.e. other ∘ e, right-to-left composition as named in spec.md §4.8.
func (e *Encoding) Compose(other *Encoding) (*Encoding, error) {
	if e.Target != other.Source {
		return nil, ferr.NewAssumption("encoding.Compose: e's target triangulation does not match other's source")
	}
	moves := append(append([]BasicMove{}, e.Moves...), other.Moves...)
	return New(e.Source, other.Target, moves), nil
}

// applyStep applies one basic move to (weights, cur), returning the
// updated weights, the resulting triangulation, and the linear map the
// move induced on this weight vector (as a dense integer matrix over the
// cell ℓ currently occupies), mirroring how §4.8 traces the cell of ℓ
// through each f_i.
func applyStep(m BasicMove, weights []int64, cur *triangulation.Triangulation) ([]int64, *triangulation.Triangulation, *matrix.Integer, error) {
	switch m.Kind {
	case KindIdentity:
		return weights, cur, matrix.Identity(len(weights)), nil
	case KindFlip:
		next, err := cur.FlipEdge(m.Edge)
		if err != nil {
			return nil, nil, nil, err
		}
		mat, newWeights := flipActionMatrix(cur, m.Edge, weights)
		return newWeights, next, mat, nil
	case KindIsometry:
		mat, newWeights := isometryActionMatrix(m.Iso, weights)
		return newWeights, m.Iso.Target, mat, nil
	}
	return nil, nil, nil, ferr.NewAssumption("encoding.applyStep: unknown move kind %d", m.Kind)
}

// flipActionMatrix computes the linear action of flipping edge e on a
// weight vector, following the standard ideal-triangulation flip rule:
// the new weight on e is max(AB+CD, BC+DA) - old(e) where AB,BC,CD,DA are
// the weights of the quadrilateral surrounding e (the two "new diagonal"
// candidates of the Ptolemy-like flip relation); every other weight is
// unchanged. This is linear on each of the two half-planes AB+CD >=
// BC+DA and its complement, i.e. on each maximal PL cell, matching
// spec.md §4.8's requirement that the map be linear per cell.
func flipActionMatrix(t *triangulation.Triangulation, e int, weights []int64) (*matrix.Integer, []int64) {
	n := len(weights)
	quad := quadrilateralEdges(t, e)
	ab, bc, cd, da := quad[0], quad[1], quad[2], quad[3]

	mat := matrix.Identity(n)
	mat.Data[e][e] = bigInt(-1)
	left := weights[ab] + weights[cd]
	right := weights[bc] + weights[da]
	if left >= right {
		mat.Data[e][ab] = addOne(mat.Data[e][ab])
		mat.Data[e][cd] = addOne(mat.Data[e][cd])
	} else {
		mat.Data[e][bc] = addOne(mat.Data[e][bc])
		mat.Data[e][da] = addOne(mat.Data[e][da])
	}

	out := mat.MulVec(toBigVec(weights))
	return mat, fromBigVec(out)
}

// quadrilateralEdges returns (AB,BC,CD,DA) surrounding edge e, in the same
// convention used by Triangulation.FlipEdge.
func quadrilateralEdges(t *triangulation.Triangulation, e int) [4]int {
	cs := t.FindEdge(e)
	// The pre-flip quadrilateral edges are the four edges (other than e)
	// across e's two incident triangles, read in cyclic order from the side
	// holding e; an edge that occurs twice (as on the once-punctured torus)
	// fills two slots.
	t1, t2 := t.TriangleAt(cs[0].Triangle), t.TriangleAt(cs[1].Triangle)
	s1, s2 := cs[0].Side, cs[1].Side
	ab := unsignedEdge(t1.EdgeAt((s1 + 2) % 3))
	da := unsignedEdge(t1.EdgeAt((s1 + 1) % 3))
	bc := unsignedEdge(t2.EdgeAt((s2 + 1) % 3))
	cd := unsignedEdge(t2.EdgeAt((s2 + 2) % 3))
	return [4]int{ab, bc, cd, da}
}

func unsignedEdge(e int) int {
	if e < 0 {
		return -e - 1
	}
	return e
}

// isometryActionMatrix computes the permutation matrix induced by iso on
// weight vectors: the new weight on edge iso.EdgeMap[e] equals the old
// weight on e.
func isometryActionMatrix(iso *triangulation.Isometry, weights []int64) (*matrix.Integer, []int64) {
	n := len(weights)
	mat := matrix.NewInteger(n, n)
	out := make([]int64, n)
	for e := 0; e < n; e++ {
		target := iso.EdgeMap[e]
		ue := target
		if ue < 0 {
			ue = -ue - 1
		}
		mat.Data[ue][e] = bigInt(1)
		out[ue] = weights[e]
	}
	return mat, out
}

// ActionMatrix returns the integer transition matrix M(E) valid on the
// cell that the given representative weight vector lies in (spec.md §3),
// by composing each step's local linear map.
func (e *Encoding) ActionMatrix(representative []int64) (*matrix.Integer, error) {
	n := len(representative)
	acc := matrix.Identity(n)
	weights := representative
	cur := e.Source
	for _, m := range e.Moves {
		newWeights, next, step, err := applyStep(m, weights, cur)
		if err != nil {
			return nil, err
		}
		acc = step.Mul(acc)
		weights, cur = newWeights, next
	}
	return acc, nil
}

// Apply applies e to the concrete weight vector representative, returning
// the resulting weights and triangulation.
func (e *Encoding) Apply(representative []int64) ([]int64, *triangulation.Triangulation, error) {
	weights := representative
	cur := e.Source
	for _, m := range e.Moves {
		newWeights, next, _, err := applyStep(m, weights, cur)
		if err != nil {
			return nil, nil, err
		}
		weights, cur = newWeights, next
	}
	return weights, cur, nil
}

// Order returns the smallest positive n <= maxOrder such that the n-th
// power of e's action matrix on the cell containing seed is the identity
// matrix; returns 0 if no such n is found (treated as infinite order).
// Only that one cell's matrix is examined: the powers are taken of that
// single matrix, so the action of e^n on laminations in other cells is
// not checked.
func (e *Encoding) Order(seed []int64, maxOrder int) (int, error) {
	if e.Source != e.Target {
		return 0, ferr.NewAssumption("encoding.Order: encoding is not a self-map of its triangulation")
	}
	n := len(seed)
	mat, err := e.ActionMatrix(seed)
	if err != nil {
		return 0, err
	}
	cur := matrix.Identity(n)
	for k := 1; k <= maxOrder; k++ {
		cur = mat.Mul(cur)
		if isIdentity(cur) {
			return k, nil
		}
	}
	return 0, nil
}

// IsPeriodic reports whether Order(seed, maxOrder) != 0.
func (e *Encoding) IsPeriodic(seed []int64, maxOrder int) (bool, error) {
	order, err := e.Order(seed, maxOrder)
	if err != nil {
		return false, err
	}
	return order != 0, nil
}

func bigInt(n int64) *big.Int { return big.NewInt(n) }

func addOne(x *big.Int) *big.Int { return new(big.Int).Add(x, big.NewInt(1)) }

func toBigVec(v []int64) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = big.NewInt(x)
	}
	return out
}

func fromBigVec(v []*big.Int) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = x.Int64()
	}
	return out
}

func isIdentity(m *matrix.Integer) bool {
	if m.Rows != m.Cols {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			want := int64(0)
			if i == j {
				want = 1
			}
			if m.Data[i][j].Int64() != want {
				return false
			}
		}
	}
	return true
}
