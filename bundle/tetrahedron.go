// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

import "github.com/saraedum/flipper/ferr"

// Veering tags an edge of a tetrahedron LEFT or RIGHT according to which
// way the edge flip that created the tetrahedron turned (spec.md §3,
// GLOSSARY "Veering label"); Unknown means the edge has not been glued to
// a tetrahedron that fixes its veer yet.
type Veering int

const (
	Unknown Veering = iota
	Left
	Right
)

// verticesMeeting[v] lists, for vertex v, the three other vertices; these
// are both "the vertices of the face opposite v" (face v) and "the faces
// incident to vertex v" (face indices equal the opposite vertex's index),
// exactly as Source/LayeredTriangulation.py's vertices_meeting table is
// used for both purposes.
var verticesMeeting = [4][3]int{
	{1, 2, 3},
	{0, 2, 3},
	{0, 1, 3},
	{0, 1, 2},
}

// edgeLabelIndex maps an unordered pair of distinct vertices to one of the
// six slots of Tetrahedron.EdgeVeering.
func edgeLabelIndex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == 0 && b == 1:
		return 0
	case a == 0 && b == 2:
		return 1
	case a == 0 && b == 3:
		return 2
	case a == 1 && b == 2:
		return 3
	case a == 1 && b == 3:
		return 4
	case a == 2 && b == 3:
		return 5
	}
	panic("bundle: invalid edge")
}

// gluing records one face gluing: the neighbouring tetrahedron and the
// vertex permutation carrying this tetrahedron's vertex labels to the
// neighbour's.
type gluing struct {
	Neighbor *Tetrahedron
	Perm     Permutation
}

// Tetrahedron is one ideal tetrahedron of a layered triangulation
// (spec.md §3 LayeredTriangulation): four face gluings, four cusp
// indices (one per vertex), a meridian and longitude coefficient vector
// per vertex, six edge veering labels, and four vertex labels reserved
// for diagnostic annotation.
type Tetrahedron struct {
	Index        int
	Glued        [4]*gluing
	CuspIndices  [4]int
	Meridians    [4][4]int
	Longitudes   [4][4]int
	EdgeVeering  [6]Veering
	VertexLabels [4]int
}

func newTetrahedron(index int) *Tetrahedron {
	t := &Tetrahedron{Index: index}
	for i := range t.CuspIndices {
		t.CuspIndices[i] = -1
	}
	for i := range t.VertexLabels {
		t.VertexLabels[i] = -1
	}
	return t
}

// Glue joins side of t to neighbour's side perm.At(side) via the vertex
// permutation perm, requiring perm to be odd (spec.md §3's "gluing
// permutations are odd" invariant) and propagating known veering labels
// across the shared face onto whichever side does not know them yet,
// erroring if both sides know a veering label and they disagree
// (spec.md §3's "veering labels agree across glued faces" invariant).
func (t *Tetrahedron) Glue(side int, target *Tetrahedron, perm Permutation) error {
	if t.Glued[side] != nil {
		existing := t.Glued[side]
		if existing.Neighbor != target || existing.Perm != perm {
			return ferr.NewAssumption("bundle.Glue: side %d of tetrahedron %d is already glued to a different target", side, t.Index)
		}
		return nil
	}
	if perm.IsEven() {
		return ferr.NewAssumption("bundle.Glue: gluing permutation %s must be odd", perm)
	}
	otherSide := perm.At(side)
	if target.Glued[otherSide] != nil {
		return ferr.NewAssumption("bundle.Glue: side %d of tetrahedron %d is already glued", otherSide, target.Index)
	}

	t.Glued[side] = &gluing{Neighbor: target, Perm: perm}
	target.Glued[otherSide] = &gluing{Neighbor: t, Perm: perm.Inverse()}

	face := verticesMeeting[side]
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			a, b := face[i], face[j]
			x, y := perm.At(a), perm.At(b)
			mine := t.EdgeVeering[edgeLabelIndex(a, b)]
			his := target.EdgeVeering[edgeLabelIndex(x, y)]
			switch {
			case mine == Unknown && his != Unknown:
				t.EdgeVeering[edgeLabelIndex(a, b)] = his
			case mine != Unknown && his == Unknown:
				target.EdgeVeering[edgeLabelIndex(x, y)] = mine
			case mine != Unknown && his != Unknown && mine != his:
				return ferr.NewAssumption("bundle.Glue: veering labels disagree across glued faces of tetrahedra %d/%d", t.Index, target.Index)
			}
		}
	}
	return nil
}

// Unglue removes the gluing on side, and the reciprocal gluing on the
// neighbour, if any.
func (t *Tetrahedron) Unglue(side int) {
	g := t.Glued[side]
	if g == nil {
		return
	}
	g.Neighbor.Glued[g.Perm.At(side)] = nil
	t.Glued[side] = nil
}
