// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flipperkernel

import (
	"encoding/json"

	"github.com/cpmech/gosl/io"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/triangulation"
)

// fileRecord is the on-disk shape of the triangulation file format
// (spec.md §6): face records, named laminations, and named mapping
// classes, read the way inp.ReadSim/inp.ReadMat read a JSON
// configuration file rather than a bespoke line grammar.
type fileRecord struct {
	NumEdges       int                  `json:"num_edges"`
	Faces          [][3]int             `json:"faces"`
	Laminations    map[string][]int64   `json:"laminations"`
	MappingClasses []mappingClassRecord `json:"mapping_classes"`
}

// mappingClassRecord names one mapping class as one of the four kinds
// spec.md §6 allows: a power of a twist or half twist about a named
// curve, an edge-index permutation isometry, or a word over previously
// named mapping classes.
type mappingClassRecord struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // "twist", "halftwist", "isometry", "compose"
	Curve   string `json:"curve,omitempty"`
	Power   int    `json:"power,omitempty"`
	EdgeMap []int  `json:"edge_map,omitempty"`
	Word    string `json:"word,omitempty"`
}

// Load reads path as the triangulation file format and builds its
// EquippedTriangulation, applying the named laminations and mapping
// classes in file order (a "compose" record may reference any name
// defined earlier in the same file).
func Load(path string) (*EquippedTriangulation, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, ferr.NewAssumption("flipperkernel.Load: %v", err)
	}
	return Parse(b)
}

// Parse builds an EquippedTriangulation from the JSON bytes of the
// triangulation file format (spec.md §6).
func Parse(data []byte) (*EquippedTriangulation, error) {
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, ferr.NewAssumption("flipperkernel.Parse: %v", err)
	}
	return build(&rec)
}

func build(rec *fileRecord) (*EquippedTriangulation, error) {
	triangles := make([]*triangulation.Triangle, len(rec.Faces))
	for i, f := range rec.Faces {
		triangles[i] = &triangulation.Triangle{Index: i, Edges: [3]int{f[0], f[1], f[2]}}
	}
	t := triangulation.New(triangles, rec.NumEdges)
	e := New(t)

	for name, weights := range rec.Laminations {
		if err := e.AddLamination(name, weights); err != nil {
			return nil, err
		}
	}

	for _, mc := range rec.MappingClasses {
		var err error
		switch mc.Kind {
		case "twist":
			err = e.Twist(mc.Name, mc.Curve, mc.Power)
		case "halftwist":
			err = e.HalfTwist(mc.Name, mc.Curve, mc.Power)
		case "isometry":
			err = e.Isometry(mc.Name, mc.EdgeMap)
		case "compose":
			err = e.Compose(mc.Name, mc.Word)
		default:
			err = ferr.NewAssumption("flipperkernel.build: unknown mapping class kind %q", mc.Kind)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// NameObjects assigns default names to count otherwise-unlabelled
// objects: a, b, ..., z, a1, b1, ..., the way the flipper original's
// kernel utilities name curves and mapping classes a caller never gave
// an explicit name.
func NameObjects(count int) []string {
	names := make([]string, count)
	for i := 0; i < count; i++ {
		letter := rune('a' + i%26)
		suffix := i / 26
		if suffix == 0 {
			names[i] = string(letter)
		} else {
			names[i] = io.Sf("%c%d", letter, suffix)
		}
	}
	return names
}
