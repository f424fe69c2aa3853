// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/triangulation"
)

// mapEntry records, for one 2D triangle of the upper or lower boundary
// surface, which tetrahedron currently sits above/below it and the
// permutation identifying that tetrahedron's vertices with the
// triangle's corners.
type mapEntry struct {
	Tet  *Tetrahedron
	Perm Permutation
}

// LayeredTriangulation is the stack of tetrahedra built from a surface
// triangulation by repeated edge flips (spec.md §3/§4.12): two boundary
// copies of the surface (lower, upper) and a 3D core triangulation
// between them, closed up into a mapping torus by Close once (almost)
// every edge has been flipped.
type LayeredTriangulation struct {
	Lower, Upper *triangulation.Triangulation
	Core         *Triangulation3D
	lowerMap     map[int]mapEntry
	upperMap     map[int]mapEntry
}

// New builds the initial layered triangulation over surface: two
// boundary copies of surface, and one tetrahedron per triangle on each
// side, glued face-3-to-face-3 across the permutation (0,2,1,3)
// (spec.md §3's LayeredTriangulation invariant).
func New(surface *triangulation.Triangulation) *LayeredTriangulation {
	n := surface.NumTriangles()
	indices := make([]int, n)
	for i, tri := range surface.Triangles {
		indices[i] = tri.Index
	}
	// The arena invariant is Index == position, so indices must already
	// read 0..n-1 in order; utl.IntRange builds the expected sequence.
	want := utl.IntRange(n)
	for i := range want {
		if indices[i] != want[i] {
			chk.Panic("bundle.New: surface triangulation indices are not a 0..n-1 arena (got %v)", indices)
		}
	}

	lower := surface.Clone()
	upper := surface.Clone()
	core := NewTriangulation3D(2 * n)
	lowerTets := core.Tetrahedra[:n]
	upperTets := core.Tetrahedra[n:]

	downPerm := Permutation{0, 2, 1, 3}
	for i := 0; i < n; i++ {
		if err := lowerTets[i].Glue(3, upperTets[i], downPerm); err != nil {
			chk.Panic("bundle.New: initial gluing failed: %v", err)
		}
	}

	lowerMap := make(map[int]mapEntry, n)
	upperMap := make(map[int]mapEntry, n)
	for i, tri := range lower.Triangles {
		lowerMap[tri.Index] = mapEntry{Tet: lowerTets[i], Perm: Identity4}
	}
	for i, tri := range upper.Triangles {
		upperMap[tri.Index] = mapEntry{Tet: upperTets[i], Perm: downPerm}
	}

	return &LayeredTriangulation{Lower: lower, Upper: upper, Core: core, lowerMap: lowerMap, upperMap: upperMap}
}

// Flip inserts one new tetrahedron over edgeIndex of the upper
// triangulation and replaces that triangulation with its flip
// (spec.md §4.12). edgeIndex must be flippable in the current upper
// triangulation.
func (l *LayeredTriangulation) Flip(edgeIndex int) error {
	if !l.Upper.IsFlippable(edgeIndex) {
		return ferr.NewAssumption("bundle.Flip: edge %d is not flippable in the upper triangulation", edgeIndex)
	}

	newTet := l.Core.CreateTetrahedron()
	newTet.EdgeVeering[edgeLabelIndex(0, 1)] = Right
	newTet.EdgeVeering[edgeLabelIndex(1, 2)] = Left
	newTet.EdgeVeering[edgeLabelIndex(2, 3)] = Right
	newTet.EdgeVeering[edgeLabelIndex(0, 3)] = Left

	corners := l.Upper.FindEdge(edgeIndex)
	if len(corners) != 2 {
		return ferr.NewAssumption("bundle.Flip: edge %d is not interior", edgeIndex)
	}
	cA, cB := corners[0], corners[1]
	entryA := l.upperMap[cA.Triangle]
	entryB := l.upperMap[cB.Triangle]
	objA, permA := entryA.Tet, entryA.Perm
	objB, permB := entryB.Tet, entryB.Perm

	belowAGlue := objA.Glued[3]
	belowBGlue := objB.Glued[3]
	if belowAGlue == nil || belowBGlue == nil {
		return ferr.NewAssumption("bundle.Flip: upper tetrahedra above edge %d are not glued downward", edgeIndex)
	}
	belowA, downPermA := belowAGlue.Neighbor, belowAGlue.Perm
	belowB, downPermB := belowBGlue.Neighbor, belowBGlue.Perm

	objA.Unglue(3)
	objB.Unglue(3)

	newGluePermA := permutationFromMapping(0, downPermA.At(permA.At(cA.Side)), 2, downPermA.At(3), false)
	newGluePermB := permutationFromMapping(2, downPermB.At(permB.At(cB.Side)), 0, downPermB.At(3), false)

	if err := newTet.Glue(2, belowA, newGluePermA); err != nil {
		return err
	}
	if err := newTet.Glue(0, belowB, newGluePermB); err != nil {
		return err
	}
	if err := newTet.Glue(1, objA, Permutation{2, 3, 1, 0}); err != nil {
		return err
	}
	if err := newTet.Glue(3, objB, Permutation{1, 0, 2, 3}); err != nil {
		return err
	}

	newUpper, err := l.Upper.FlipEdge(edgeIndex)
	if err != nil {
		return err
	}

	// The two triangles that changed keep their Index (FlipEdge reuses the
	// index of each modified triangle), so the map only needs updating at
	// those two keys; every other triangle's entry is untouched, mirroring
	// how the flipper original only rebinds new_A/new_B in its upper_map.
	downPerm := Permutation{0, 2, 1, 3}
	l.upperMap[cA.Triangle] = mapEntry{Tet: objA, Perm: downPerm}
	l.upperMap[cB.Triangle] = mapEntry{Tet: objB, Perm: downPerm}
	l.Upper = newUpper
	return nil
}

// Flips applies Flip along each edge of sequence in order.
func (l *LayeredTriangulation) Flips(sequence []int) error {
	for _, e := range sequence {
		if err := l.Flip(e); err != nil {
			return err
		}
	}
	return nil
}

// degeneracySlopes is always empty: the flipper original never computes
// this (Source/LayeredTriangulation.py's close() leaves
// `degeneracy_slopes = []` as a standing placeholder), so this engine
// mirrors that rather than inventing a computation no upstream version
// performs.
func degeneracySlopes() []int { return nil }

// Close glues upper to lower along iso (a combinatorial isometry from the
// current upper triangulation back onto the lower triangulation),
// duplicating the core, discarding the two boundary layers, installing
// cusp indices and meridian/longitude peripheral curves, and returns the
// resulting closed 3-manifold triangulation together with its (always
// empty, see degeneracySlopes) degeneracy slope list (spec.md §4.12).
func (l *LayeredTriangulation) Close(iso *triangulation.Isometry) (*Triangulation3D, []int, error) {
	if l.Upper.NumTriangles() != l.Lower.NumTriangles() || len(iso.TriangleMap) != l.Upper.NumTriangles() {
		return nil, nil, ferr.NewAssumption("bundle.Close: isometry is not compatible with the upper/lower triangulations")
	}

	closed, forward := l.Core.Copy()

	fibreSurface := make(map[Vertex]bool)
	for _, tri := range l.Upper.Triangles {
		g := l.upperMap[tri.Index].Tet.Glued[3]
		fibreSurface[Vertex{forward[g.Neighbor], g.Perm.At(3)}] = true
	}
	for _, tri := range l.Lower.Triangles {
		g := l.lowerMap[tri.Index].Tet.Glued[3]
		fibreSurface[Vertex{forward[g.Neighbor], g.Perm.At(3)}] = true
	}

	for _, tri := range l.Upper.Triangles {
		closed.DestroyTetrahedron(forward[l.upperMap[tri.Index].Tet])
	}
	for _, tri := range l.Lower.Triangles {
		closed.DestroyTetrahedron(forward[l.lowerMap[tri.Index].Tet])
	}

	for _, tri := range l.Upper.Triangles {
		matchIdx := iso.TriangleMap[tri.Index]
		rot := iso.Rotation[tri.Index]
		perm := Permutation{rot, (rot + 1) % 3, (rot + 2) % 3, 3}

		entryA := l.upperMap[tri.Index]
		entryB := l.lowerMap[matchIdx]
		gA := entryA.Tet.Glued[3]
		gB := entryB.Tet.Glued[3]
		belowA, downPermA := forward[gA.Neighbor], gA.Perm
		belowB, downPermB := forward[gB.Neighbor], gB.Perm

		composed := downPermB.Mul(entryB.Perm).Mul(perm).Mul(entryA.Perm.Inverse()).Mul(downPermA.Inverse())
		if err := belowA.Glue(downPermA.At(3), belowB, composed); err != nil {
			return nil, nil, err
		}
	}

	cusps := closed.AssignCuspIndices()
	installPeripheralCurves(cusps, fibreSurface)

	return closed, degeneracySlopes(), nil
}
