// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

import (
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/saraedum/flipper/ferr"
)

// Triangulation3D is an index arena of tetrahedra (spec.md §9 Design
// Notes): every cross-tetrahedron reference is a face gluing stored on
// the Tetrahedron itself, and Tetrahedra is the owning slice, mirroring
// the 2D triangulation package's arena-of-triangles convention.
type Triangulation3D struct {
	Tetrahedra []*Tetrahedron
	NumCusps   int
}

// NewTriangulation3D allocates n freshly indexed, completely unglued
// tetrahedra.
func NewTriangulation3D(n int) *Triangulation3D {
	tr := &Triangulation3D{}
	for i := 0; i < n; i++ {
		tr.Tetrahedra = append(tr.Tetrahedra, newTetrahedron(i))
	}
	return tr
}

// CreateTetrahedron appends and returns one new, unglued tetrahedron.
func (tr *Triangulation3D) CreateTetrahedron() *Tetrahedron {
	t := newTetrahedron(len(tr.Tetrahedra))
	tr.Tetrahedra = append(tr.Tetrahedra, t)
	return t
}

// DestroyTetrahedron unglues and removes t from tr.
func (tr *Triangulation3D) DestroyTetrahedron(t *Tetrahedron) {
	for side := 0; side < 4; side++ {
		t.Unglue(side)
	}
	for i, u := range tr.Tetrahedra {
		if u == t {
			tr.Tetrahedra = append(tr.Tetrahedra[:i], tr.Tetrahedra[i+1:]...)
			return
		}
	}
}

// Reindex renumbers Tetrahedra[i].Index = i, used before writing the
// manifold text output so neighbour references are position-stable.
func (tr *Triangulation3D) Reindex() {
	for i, t := range tr.Tetrahedra {
		t.Index = i
	}
}

// IsClosed reports whether every face of every tetrahedron is glued.
func (tr *Triangulation3D) IsClosed() bool {
	for _, t := range tr.Tetrahedra {
		for side := 0; side < 4; side++ {
			if t.Glued[side] == nil {
				return false
			}
		}
	}
	return true
}

// Copy returns a deep copy of tr together with the forward map from its
// old tetrahedra to the copy's, mirroring Triangulation.copy in the
// flipper original (used by Close to duplicate the core before removing
// the boundary layers).
func (tr *Triangulation3D) Copy() (*Triangulation3D, map[*Tetrahedron]*Tetrahedron) {
	out := &Triangulation3D{NumCusps: tr.NumCusps}
	forward := make(map[*Tetrahedron]*Tetrahedron, len(tr.Tetrahedra))
	for _, t := range tr.Tetrahedra {
		nt := newTetrahedron(t.Index)
		nt.CuspIndices = t.CuspIndices
		nt.Meridians = t.Meridians
		nt.Longitudes = t.Longitudes
		nt.EdgeVeering = t.EdgeVeering
		nt.VertexLabels = t.VertexLabels
		out.Tetrahedra = append(out.Tetrahedra, nt)
		forward[t] = nt
	}
	for _, t := range tr.Tetrahedra {
		nt := forward[t]
		for side := 0; side < 4; side++ {
			if g := t.Glued[side]; g != nil {
				nt.Glued[side] = &gluing{Neighbor: forward[g.Neighbor], Perm: g.Perm}
			}
		}
	}
	return out, forward
}

// Vertex identifies one of a tetrahedron's four corners, used as the
// cusp-assignment BFS node (spec.md §4.12's "vertex classes").
type Vertex struct {
	Tet  *Tetrahedron
	Side int
}

// AssignCuspIndices computes vertex classes in tr by breadth-first search
// over face gluings restricted to a fixed vertex (spec.md §4.12) and
// stamps each class's index into the visited tetrahedra's CuspIndices.
// It returns the vertex classes in assignment order.
func (tr *Triangulation3D) AssignCuspIndices() [][]Vertex {
	remaining := make(map[Vertex]bool)
	for _, t := range tr.Tetrahedra {
		for v := 0; v < 4; v++ {
			remaining[Vertex{t, v}] = true
		}
	}

	var classes [][]Vertex
	for len(remaining) > 0 {
		var start Vertex
		for v := range remaining {
			start = v
			break
		}
		delete(remaining, start)
		class := []Vertex{start}
		queue := []Vertex{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, face := range verticesMeeting[cur.Side] {
				g := cur.Tet.Glued[face]
				if g == nil {
					continue
				}
				nv := Vertex{g.Neighbor, g.Perm.At(cur.Side)}
				if remaining[nv] {
					delete(remaining, nv)
					class = append(class, nv)
					queue = append(queue, nv)
				}
			}
		}
		classes = append(classes, class)
	}

	for idx, class := range classes {
		for _, v := range class {
			v.Tet.CuspIndices[v.Side] = idx
		}
	}
	tr.NumCusps = len(classes)
	return classes
}

// ManifoldString renders tr in the SnapPy-readable manifold text format:
// header lines, a torus line per cusp, a tetrahedron count, then per
// tetrahedron the neighbour indices, gluing permutations, cusp indices,
// meridian/longitude coefficient rows (each followed by a row of
// sixteen zeroes, an unused "alternate basis" slot) and a
// floating-point shape placeholder. tr must be closed.
func (tr *Triangulation3D) ManifoldString() (string, error) {
	if !tr.IsClosed() {
		return "", ferr.NewAssumption("bundle.ManifoldString: triangulation is not closed")
	}
	tr.Reindex()

	var b strings.Builder
	b.WriteString("% Triangulation\n")
	b.WriteString("Flipper_triangulation\n")
	b.WriteString("not_attempted  0.0\n")
	b.WriteString("oriented_manifold\n")
	b.WriteString("CS_unknown\n\n")
	b.WriteString(io.Sf("%d 0\n", tr.NumCusps))
	for i := 0; i < tr.NumCusps; i++ {
		b.WriteString("    torus   0.000000000000   0.000000000000\n")
	}
	b.WriteString("\n")
	b.WriteString(io.Sf("%d\n", len(tr.Tetrahedra)))
	for _, t := range tr.Tetrahedra {
		b.WriteString(t.manifoldString())
		b.WriteString("\n")
	}
	return b.String(), nil
}

// manifoldString renders one tetrahedron's block of the manifold text
// format. The trailing "0 0" shape slot is sourced from la.VecAlloc: this
// engine never computes hyperbolic shapes, so the slot is always the
// zero vector, allocated the way a placeholder result vector is
// allocated before a solve.
func (t *Tetrahedron) manifoldString() string {
	var b strings.Builder
	var neigh [4]int
	var perms [4]string
	for side := 0; side < 4; side++ {
		g := t.Glued[side]
		neigh[side] = g.Neighbor.Index
		perms[side] = g.Perm.String()
	}
	b.WriteString(io.Sf("%4d %4d %4d %4d \n", neigh[0], neigh[1], neigh[2], neigh[3]))
	b.WriteString(io.Sf(" %s %s %s %s\n", perms[0], perms[1], perms[2], perms[3]))
	b.WriteString(io.Sf("%4d %4d %4d %4d \n", t.CuspIndices[0], t.CuspIndices[1], t.CuspIndices[2], t.CuspIndices[3]))
	b.WriteString(sixteenInts(flatten4x4(t.Meridians)))
	b.WriteString(strings.Repeat("  0", 16) + "\n")
	b.WriteString(sixteenInts(flatten4x4(t.Longitudes)))
	b.WriteString(strings.Repeat("  0", 16) + "\n")
	shape := la.VecAlloc(2)
	b.WriteString(io.Sf("  %.12f   %.12f\n", shape[0], shape[1]))
	return b.String()
}

func flatten4x4(rows [4][4]int) []int {
	out := make([]int, 0, 16)
	for _, row := range rows {
		out = append(out, row[:]...)
	}
	return out
}

func sixteenInts(vals []int) string {
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(io.Sf(" %2d", v))
	}
	b.WriteString("\n")
	return b.String()
}
