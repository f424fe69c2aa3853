// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triangulation

// Isometry is a combinatorial isomorphism between two triangulations: a
// bijection on triangles together with, implicitly, the induced bijection
// on edges, respecting face-edge incidence (spec.md §4.9).
type Isometry struct {
	Source, Target *Triangulation

	// TriangleMap[i] is the index of Target's triangle that Source's
	// triangle i maps to; Rotation[i] in [0,3) records which corner of
	// that target triangle Source's corner 0 lands on.
	TriangleMap []int
	Rotation    []int

	// EdgeMap[e] is the (possibly sign-flipped) edge of Target that
	// Source's edge e maps to, signed the same way Triangle.Edges is.
	EdgeMap []int
}

// Isometries enumerates every isometry from t to other by attempting each
// mapping of a seed triangle (with each of its 3 rotations and, since
// triangles are unoriented 2-simplices, both traversal senses aren't
// distinguished further here) and propagating the assignment across the
// dual graph of triangle adjacency, mirroring spec.md §4.9's seed +
// propagation enumeration.
func (t *Triangulation) Isometries(other *Triangulation) []*Isometry {
	if t.NumTriangles() != other.NumTriangles() || t.NumEdges() != other.NumEdges() {
		return nil
	}
	var found []*Isometry
	seed := t.Triangles[0]
	for _, target := range other.Triangles {
		for rot := 0; rot < 3; rot++ {
			iso := t.tryPropagate(other, seed, target, rot)
			if iso != nil {
				found = append(found, iso)
			}
		}
	}
	return found
}

// tryPropagate attempts to build a full isometry from the seed assignment
// (seed -> target, rotated by rot) by breadth-first propagation across
// shared edges; returns nil if any inconsistency is found.
func (t *Triangulation) tryPropagate(other *Triangulation, seed, target *Triangle, rot int) *Isometry {
	n := len(t.Triangles)
	triangleMap := make([]int, n)
	rotation := make([]int, n)
	for i := range triangleMap {
		triangleMap[i] = -1
	}
	edgeMap := make([]int, t.NumEdges())
	for i := range edgeMap {
		edgeMap[i] = -1
	}

	indexOf := func(triangles []*Triangle, idx int) int {
		for i, tr := range triangles {
			if tr.Index == idx {
				return i
			}
		}
		return -1
	}

	seedPos := indexOf(t.Triangles, seed.Index)
	triangleMap[seedPos] = target.Index
	rotation[seedPos] = rot

	queue := []*Triangle{seed}
	visited := map[int]bool{seed.Index: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curPos := indexOf(t.Triangles, cur.Index)
		r := rotation[curPos]
		tgt := other.triangleByIndex(triangleMap[curPos])

		for side := 0; side < 3; side++ {
			srcEdgeSigned := cur.Edges[side]
			srcEdge := unsigned(srcEdgeSigned)
			tgtSide := (side + r) % 3
			tgtEdgeSigned := tgt.Edges[tgtSide]

			if existing := edgeMap[srcEdge]; existing != -1 {
				if unsigned(existing) != unsigned(tgtEdgeSigned) {
					return nil
				}
			} else {
				edgeMap[srcEdge] = tgtEdgeSigned
			}

			if !t.IsInternal(srcEdge) {
				continue
			}
			neighPos := otherCorner(t, srcEdge, cur.Index)
			if neighPos == nil {
				continue
			}
			neigh := t.triangleByIndex(neighPos.Triangle)
			if visited[neigh.Index] {
				continue
			}
			if !other.IsInternal(unsigned(tgtEdgeSigned)) {
				return nil
			}
			tgtNeighCorner := otherCorner(other, unsigned(tgtEdgeSigned), tgt.Index)
			if tgtNeighCorner == nil {
				return nil
			}
			neighPosIdx := indexOf(t.Triangles, neigh.Index)
			// The neighbour's rotation is fixed by requiring its side
			// holding srcEdge to map onto the target neighbour's side
			// holding tgtEdgeSigned.
			neighRot := (tgtNeighCorner.Side - neighPos.Side + 3) % 3
			triangleMap[neighPosIdx] = other.triangleByIndex(tgtNeighCorner.Triangle).Index
			rotation[neighPosIdx] = neighRot
			visited[neigh.Index] = true
			queue = append(queue, neigh)
		}
	}

	for _, v := range triangleMap {
		if v == -1 {
			return nil
		}
	}
	for _, v := range edgeMap {
		if v == -1 {
			return nil
		}
	}
	return &Isometry{Source: t, Target: other, TriangleMap: triangleMap, Rotation: rotation, EdgeMap: edgeMap}
}

// otherCorner returns the corner of edge e that is not on triangle
// triangleIdx, or nil if e is not internal.
func otherCorner(t *Triangulation, e, triangleIdx int) *corner {
	cs := t.corners[e]
	if len(cs) != 2 {
		return nil
	}
	if cs[0].Triangle == triangleIdx {
		return &cs[1]
	}
	return &cs[0]
}
