// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

// exitCuspLeft and exitCuspRight give, for a cusp-vertex walk currently
// sitting on a tetrahedron's side=vertex having just arrived through
// face=arrive, which face to leave through next when turning left
// (respectively right) around the cusp (spec.md §4.12). exitCuspLeft is
// given verbatim in spec.md §4.12; exitCuspRight is not printed anywhere
// in spec.md (an explicitly flagged Open Question) but survives intact in
// original_source/Source/LayeredTriangulation.py, confirming it is the
// orientation-reversed companion of exitCuspLeft (DESIGN.md records this
// resolution).
var exitCuspLeft = map[[2]int]int{
	{0, 1}: 3, {0, 2}: 1, {0, 3}: 2,
	{1, 0}: 2, {1, 2}: 3, {1, 3}: 0,
	{2, 0}: 3, {2, 1}: 0, {2, 3}: 1,
	{3, 0}: 1, {3, 1}: 2, {3, 2}: 0,
}

var exitCuspRight = map[[2]int]int{
	{0, 1}: 2, {0, 2}: 3, {0, 3}: 1,
	{1, 0}: 3, {1, 2}: 0, {1, 3}: 2,
	{2, 0}: 1, {2, 1}: 3, {2, 3}: 0,
	{3, 0}: 2, {3, 1}: 0, {3, 2}: 1,
}

// installPeripheralCurves installs a meridian and longitude on each cusp
// of a freshly closed triangulation (spec.md §4.12), given the vertex
// classes (from Triangulation3D.AssignCuspIndices) and the set of
// (tetrahedron, side) pairs marking where the original fibre surface
// sits in the closed triangulation.
func installPeripheralCurves(cusps [][]Vertex, fibreSurface map[Vertex]bool) {
	for _, cusp := range cusps {
		for _, start := range cusp {
			if !isGoodMeridianStart(start, fibreSurface) {
				continue
			}
			installMeridian(start, fibreSurface)
			installLongitude(start)
			break
		}
	}
}

// isGoodMeridianStart mirrors the flipper original's search for "just the
// right starting spot": one where stepping left once does not immediately
// cross the fibre surface.
func isGoodMeridianStart(v Vertex, fibreSurface map[Vertex]bool) bool {
	if v.Side == 0 && fibreSurface[Vertex{v.Tet, 2}] {
		return true
	}
	if v.Side == 2 && fibreSurface[Vertex{v.Tet, 0}] {
		return true
	}
	return false
}

// firstStepFace returns the face to leave through for the initial "one
// step to the right" move of both the meridian and longitude walks.
func firstStepFace(startSide int) int {
	if startSide == 0 {
		return 1
	}
	return 3
}

func installMeridian(start Vertex, fibreSurface map[Vertex]bool) {
	cur, curSide := start.Tet, start.Side

	leave := firstStepFace(curSide)
	cur.Meridians[curSide][leave] = -1
	g := cur.Glued[leave]
	next, perm := g.Neighbor, g.Perm
	newSide := perm.At(curSide)
	arrive := perm.At(leave)
	next.Meridians[newSide][arrive] = 1
	cur, curSide = next, newSide

	turnLeft := true
	for cur != start.Tet || curSide != start.Side {
		table := exitCuspLeft
		if !turnLeft {
			table = exitCuspRight
		}
		leave = table[[2]int{curSide, arrive}]
		if fibreSurface[Vertex{cur, leave}] {
			turnLeft = !turnLeft
		}
		cur.Meridians[curSide][leave] = -1
		g = cur.Glued[leave]
		next, perm = g.Neighbor, g.Perm
		newSide = perm.At(curSide)
		arrive = perm.At(leave)
		next.Meridians[newSide][arrive] = 1
		cur, curSide = next, newSide
	}
}

func installLongitude(start Vertex) {
	cur, curSide := start.Tet, start.Side

	leave := firstStepFace(curSide)
	cur.Longitudes[curSide][leave] = -1
	g := cur.Glued[leave]
	next, perm := g.Neighbor, g.Perm
	newSide := perm.At(curSide)
	arrive := perm.At(leave)
	next.Longitudes[newSide][arrive] = 1
	cur, curSide = next, newSide

	// Walk purely upward (face 1) until the current cusp vertex carries a
	// meridian entry.
	for isZeroMeridianRow(cur.Meridians[curSide]) {
		const up = 1
		cur.Longitudes[curSide][up] = -1
		g = cur.Glued[up]
		next, perm = g.Neighbor, g.Perm
		newSide = perm.At(curSide)
		arrive = perm.At(up)
		next.Longitudes[newSide][arrive] = 1
		cur, curSide = next, newSide
	}

	// Then follow whatever side the meridian leaves through until the
	// walk returns to the starting cusp vertex.
	for cur != start.Tet || curSide != start.Side {
		leave = meridianExitFace(cur.Meridians[curSide])
		cur.Longitudes[curSide][leave] = -1
		g = cur.Glued[leave]
		next, perm = g.Neighbor, g.Perm
		newSide = perm.At(curSide)
		arrive = perm.At(leave)
		next.Longitudes[newSide][arrive] = 1
		cur, curSide = next, newSide
	}
}

func isZeroMeridianRow(row [4]int) bool {
	return row == [4]int{0, 0, 0, 0}
}

func meridianExitFace(row [4]int) int {
	for side, v := range row {
		if v == -1 {
			return side
		}
	}
	panic("bundle: cusp vertex carries no meridian exit")
}
