// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bundle builds the layered 3D triangulation of a mapping torus
// from a splitting sequence's periodic part (spec.md §4.12), following
// Source/LayeredTriangulation.py in the flipper original: a stack of
// tetrahedra glued face-to-face, veering-labelled by the left/right turn
// each edge flip induces, closed up along a combinatorial isometry and
// annotated with cusp indices, meridians and longitudes.
package bundle

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Permutation is a bijection of the four tetrahedron vertices {0,1,2,3}.
type Permutation [4]int

// Identity4 is the identity permutation of {0,1,2,3}.
var Identity4 = Permutation{0, 1, 2, 3}

// At returns p(i).
func (p Permutation) At(i int) int { return p[i] }

// Mul returns p . o, i.e. the permutation x -> p[o[x]].
func (p Permutation) Mul(o Permutation) Permutation {
	var out Permutation
	for i := 0; i < 4; i++ {
		out[i] = p[o[i]]
	}
	return out
}

// Inverse returns p^-1.
func (p Permutation) Inverse() Permutation {
	var out Permutation
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if p[j] == i {
				out[i] = j
			}
		}
	}
	return out
}

// IsEven reports whether p is an even permutation.
func (p Permutation) IsEven() bool {
	even := true
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if p[i] > p[j] {
				even = !even
			}
		}
	}
	return even
}

// String renders p as the 4-digit string the manifold output format uses
// for gluing permutations (spec.md §6).
func (p Permutation) String() string {
	return io.Sf("%d%d%d%d", p[0], p[1], p[2], p[3])
}

var allPermutations = buildAllPermutations()

func buildAllPermutations() []Permutation {
	var out []Permutation
	var perm [4]int
	used := [4]bool{}
	var rec func(depth int)
	rec = func(depth int) {
		if depth == 4 {
			out = append(out, Permutation(perm))
			return
		}
		for v := 0; v < 4; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			perm[depth] = v
			rec(depth + 1)
			used[v] = false
		}
	}
	rec(0)
	return out
}

// permutationFromMapping returns the unique permutation of the given
// parity sending i to iImage and j to jImage, mirroring
// permutation_from_mapping in the flipper original.
func permutationFromMapping(i, iImage, j, jImage int, even bool) Permutation {
	for _, p := range allPermutations {
		if p.IsEven() == even && p[i] == iImage && p[j] == jImage {
			return p
		}
	}
	chk.Panic("bundle: no permutation of parity even=%v sends %d->%d and %d->%d", even, i, iImage, j, jImage)
	return Permutation{}
}
