// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splitting implements the splitting sequence of a measured
// lamination (spec.md §4.11): the sequence of triangulations obtained by
// repeatedly flipping the lamination's heaviest edge, searched after
// every step for a combinatorial isometry back onto an earlier
// triangulation carrying a positive scalar multiple of the current
// lamination — the preperiodic/periodic decomposition the bundle builder
// (C12) consumes.
package splitting

import (
	"math/big"

	"github.com/saraedum/flipper/encoding"
	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/triangulation"
)

// maxSteps bounds the splitting search so a malformed or non-essential
// lamination cannot spin forever; a genuine invariant lamination of a
// pseudo-Anosov class always closes up well before this, per spec.md
// §4.11's finiteness guarantee.
const maxSteps = 5000

// Sequence is the result of splitting a starting lamination down to
// periodicity: the triangulations and rescaled weight vectors visited,
// the lengths of the preperiodic and periodic segments, the algebraic
// dilatation (the ratio of the periodic weight vectors), and the
// isometry that closes the period back onto its start.
type Sequence struct {
	Triangulations  []*triangulation.Triangulation
	Weights         [][]int64
	Edges           []int
	PreperiodLength int
	PeriodLength    int
	Dilatation      *big.Rat
	ClosingIsometry *triangulation.Isometry
}

// PeriodicEdges returns the edge indices flipped across the periodic part
// of the sequence, in order, starting from Triangulations[PreperiodLength]
// (spec.md §4.11/§4.12): this is exactly the flip sequence
// Layered_Triangulation.flips() must replay to build the mapping torus.
func (s *Sequence) PeriodicEdges() []int {
	return append([]int{}, s.Edges[s.PreperiodLength:s.PreperiodLength+s.PeriodLength]...)
}

// Split repeatedly flips t's heaviest-weighted edge (ties broken by
// lowest edge index) starting from weights, stopping as soon as some
// step's triangulation admits an isometry back to an earlier one in the
// sequence carrying a positive scalar multiple of the current lamination
// (spec.md §4.11).
func Split(t *triangulation.Triangulation, weights []int64, abort func() bool) (*Sequence, error) {
	triangulations := []*triangulation.Triangulation{t}
	weightsList := [][]int64{append([]int64{}, weights...)}
	var edges []int

	for step := 0; step < maxSteps; step++ {
		if abort != nil && abort() {
			return nil, ferr.NewAbort("splitting.Split: aborted")
		}
		cur := triangulations[len(triangulations)-1]
		curWeights := weightsList[len(weightsList)-1]

		e, err := heaviestFlippableEdge(cur, curWeights)
		if err != nil {
			return nil, err
		}
		next, err := cur.FlipEdge(e)
		if err != nil {
			return nil, err
		}
		flip := encoding.New(cur, next, []encoding.BasicMove{encoding.Flip(e)})
		newWeights, _, err := flip.Apply(curWeights)
		if err != nil {
			return nil, err
		}
		triangulations = append(triangulations, next)
		weightsList = append(weightsList, newWeights)
		edges = append(edges, e)

		for j := 0; j < len(triangulations)-1; j++ {
			isos := next.Isometries(triangulations[j])
			for _, iso := range isos {
				mapped := applyIsometryToWeights(iso, newWeights)
				ratio, ok := proportional(mapped, weightsList[j])
				if !ok {
					continue
				}
				return &Sequence{
					Triangulations:  triangulations,
					Weights:         weightsList,
					Edges:           edges,
					PreperiodLength: j,
					PeriodLength:    len(triangulations) - 1 - j,
					Dilatation:      ratio,
					ClosingIsometry: iso,
				}, nil
			}
		}
	}
	return nil, ferr.NewComputation("splitting.Split: no periodic closure found within the step budget")
}

// heaviestFlippableEdge returns the flippable edge of greatest weight,
// breaking ties by the lowest edge index (spec.md §4.11).
func heaviestFlippableEdge(t *triangulation.Triangulation, weights []int64) (int, error) {
	best := -1
	var bestWeight int64 = -1
	for e := 0; e < t.NumEdges(); e++ {
		if !t.IsFlippable(e) {
			continue
		}
		if weights[e] > bestWeight {
			best = e
			bestWeight = weights[e]
		}
	}
	if best == -1 {
		return 0, ferr.NewAssumption("splitting.heaviestFlippableEdge: no flippable edge remains")
	}
	return best, nil
}

// applyIsometryToWeights carries a weight vector on iso.Source forward to
// iso.Target, mirroring the permutation action used by the encoding
// package's own isometry move.
func applyIsometryToWeights(iso *triangulation.Isometry, weights []int64) []int64 {
	out := make([]int64, len(weights))
	for e, w := range weights {
		target := iso.EdgeMap[e]
		if target < 0 {
			target = -target - 1
		}
		out[target] = w
	}
	return out
}

// proportional reports whether a is a positive scalar multiple of b,
// checked exactly via cross-multiplication, returning that scalar as a
// reduced rational when it is.
func proportional(a, b []int64) (*big.Rat, bool) {
	idx := -1
	for i, v := range b {
		if v != 0 {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}
	if a[idx] == 0 {
		return nil, false
	}
	num, den := a[idx], b[idx]
	for i := range a {
		if a[i]*den != b[i]*num {
			return nil, false
		}
	}
	ratio := big.NewRat(num, den)
	if ratio.Sign() <= 0 {
		return nil, false
	}
	return ratio, true
}
