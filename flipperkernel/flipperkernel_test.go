// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flipperkernel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"

	"github.com/saraedum/flipper/triangulation"
)

func twoTriangleSquare() *triangulation.Triangulation {
	t0 := &triangulation.Triangle{Index: 0, Edges: [3]int{0, 1, 2}}
	t1 := &triangulation.Triangle{Index: 1, Edges: [3]int{2, 0, 1}}
	return triangulation.New([]*triangulation.Triangle{t0, t1}, 3)
}

func TestParseBuildsLaminationsAndReportsUnknownCurve(tst *testing.T) {

	chk.PrintTitle("flipperkernel Parse rejects a mapping class referencing an undefined curve")

	data := []byte(`{
		"num_edges": 3,
		"faces": [[0,1,2],[2,0,1]],
		"laminations": {"a": [0,2,2], "b": [2,0,2]},
		"mapping_classes": [
			{"name": "twist_a", "kind": "twist", "curve": "a", "power": 1},
			{"name": "twist_missing", "kind": "twist", "curve": "nope", "power": 1}
		]
	}`)
	_, err := Parse(data)
	require.Error(tst, err, "a mapping class referencing an undefined curve should fail")
}

func TestParseRejectsUnknownMappingClassKind(tst *testing.T) {

	chk.PrintTitle("flipperkernel Parse rejects an unrecognised mapping class kind")

	data := []byte(`{
		"num_edges": 3,
		"faces": [[0,1,2],[2,0,1]],
		"laminations": {"a": [0,2,2]},
		"mapping_classes": [{"name": "x", "kind": "bogus"}]
	}`)
	_, err := Parse(data)
	require.Error(tst, err)
}

func TestTwistRejectsUndefinedCurve(tst *testing.T) {

	chk.PrintTitle("flipperkernel Twist rejects a curve name that was never defined")

	e := New(twoTriangleSquare())
	require.Error(tst, e.Twist("t", "nonexistent", 1))
}

func TestHalfTwistRejectsNonPantsBoundary(tst *testing.T) {

	chk.PrintTitle("flipperkernel HalfTwist propagates the non-pants-boundary rejection")

	e := New(twoTriangleSquare())
	require.NoError(tst, e.AddLamination("a", []int64{0, 2, 2}))
	require.Error(tst, e.HalfTwist("h", "a", 1))
}

func TestIsometryNamesTheIdentityAndInvertsToItself(tst *testing.T) {

	chk.PrintTitle("flipperkernel Isometry names the identity self-map and inverts to itself")

	e := New(twoTriangleSquare())
	require.NoError(tst, e.Isometry("i", []int{0, 1, 2}))

	weights := []int64{1, 2, 3}
	out, err := e.Apply("i", weights)
	require.NoError(tst, err)
	require.Equal(tst, weights, out)

	require.NoError(tst, e.Compose("invid", "I"))
	out, err = e.Apply("invid", weights)
	require.NoError(tst, err)
	require.Equal(tst, weights, out)
}

func TestComposeRejectsUnknownToken(tst *testing.T) {

	chk.PrintTitle("flipperkernel Compose rejects a word referencing an unknown name")

	e := New(twoTriangleSquare())
	require.NoError(tst, e.Isometry("id", []int{0, 1, 2}))
	require.Error(tst, e.Compose("bad", "id.zzz"))
}

func TestSplitWordHandlesDotAndLetterForms(tst *testing.T) {

	chk.PrintTitle("flipperkernel splitWord tokenises both word notations")

	require.Equal(tst, []string{"a", "B", "c"}, splitWord("a.B.c"))
	require.Equal(tst, []string{"a", "B", "C"}, splitWord("aBC"))
}

func TestSwapCaseInvertsLetters(tst *testing.T) {

	chk.PrintTitle("flipperkernel swapCase inverts the case of every letter")

	require.Equal(tst, "AbC", swapCase("aBc"))
}

func TestNameObjectsProducesDistinctDefaultNames(tst *testing.T) {

	chk.PrintTitle("flipperkernel NameObjects produces distinct default names")

	names := NameObjects(30)
	require.Len(tst, names, 30)
	require.Equal(tst, "a", names[0])
	require.Equal(tst, "z", names[25])
	require.Equal(tst, "a1", names[26])
	seen := make(map[string]bool)
	for _, n := range names {
		require.False(tst, seen[n], "name %q repeated", n)
		seen[n] = true
	}
}

func TestMappingClassTypeString(tst *testing.T) {

	chk.PrintTitle("flipperkernel MappingClassType stringifies every kind")

	require.Equal(tst, "periodic", Periodic.String())
	require.Equal(tst, "reducible", Reducible.String())
	require.Equal(tst, "pseudo-Anosov", PseudoAnosov.String())
	require.Equal(tst, "unknown", Unknown.String())
}
