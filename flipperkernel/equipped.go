// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flipperkernel implements the typed command surface: an
// EquippedTriangulation carries named laminations and named mapping
// classes as an explicit context threaded through every call, rather
// than as process-wide named-object registries.
package flipperkernel

import (
	"github.com/saraedum/flipper/bundle"
	"github.com/saraedum/flipper/classify"
	"github.com/saraedum/flipper/encoding"
	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/lamination"
	"github.com/saraedum/flipper/numfield"
	"github.com/saraedum/flipper/splitting"
	"github.com/saraedum/flipper/triangulation"
)

// MappingClassType is the Nielsen-Thurston classification of a mapping
// class (spec.md §2).
type MappingClassType int

const (
	Unknown MappingClassType = iota
	Periodic
	Reducible
	PseudoAnosov
)

func (k MappingClassType) String() string {
	switch k {
	case Periodic:
		return "periodic"
	case Reducible:
		return "reducible"
	case PseudoAnosov:
		return "pseudo-Anosov"
	default:
		return "unknown"
	}
}

// EquippedTriangulation is a surface triangulation together with named
// laminations and named mapping classes (spec.md §6's "Triangulation
// file format"). Names are ordinary identifiers; a mapping class's
// swapcase name denotes its inverse (spec.md §6), resolved by Compose
// and Apply rather than stored as a second map entry.
type EquippedTriangulation struct {
	T              *triangulation.Triangulation
	Laminations    map[string]*lamination.Lamination
	MappingClasses map[string]*encoding.Encoding
}

// New builds an EquippedTriangulation with no named objects yet.
func New(t *triangulation.Triangulation) *EquippedTriangulation {
	return &EquippedTriangulation{
		T:              t,
		Laminations:    make(map[string]*lamination.Lamination),
		MappingClasses: make(map[string]*encoding.Encoding),
	}
}

// AddLamination names a lamination built from weights over e.T.
func (e *EquippedTriangulation) AddLamination(name string, weights []int64) error {
	l, err := lamination.New(e.T, weights)
	if err != nil {
		return err
	}
	e.Laminations[name] = l
	return nil
}

// Twist names a mapping class realising power k of a Dehn twist about
// the named curve (spec.md §4.7 encode_twist, §6's "power of a twist
// about a named curve").
func (e *EquippedTriangulation) Twist(name, curve string, k int) error {
	l, ok := e.Laminations[curve]
	if !ok {
		return ferr.NewAssumption("flipperkernel.Twist: no lamination named %q", curve)
	}
	enc, err := l.EncodeTwist(k)
	if err != nil {
		return err
	}
	e.MappingClasses[name] = enc
	return nil
}

// HalfTwist names a mapping class realising power k of a half twist
// about the named pants-boundary curve (spec.md §4.7 encode_halftwist).
func (e *EquippedTriangulation) HalfTwist(name, curve string, k int) error {
	l, ok := e.Laminations[curve]
	if !ok {
		return ferr.NewAssumption("flipperkernel.HalfTwist: no lamination named %q", curve)
	}
	enc, err := l.EncodeHalfTwist(k)
	if err != nil {
		return err
	}
	e.MappingClasses[name] = enc
	return nil
}

// Isometry names a mapping class realising the unique combinatorial
// self-isometry of e.T whose signed edge map equals edgeMap exactly
// (spec.md §6's "an edge-index permutation isometry").
func (e *EquippedTriangulation) Isometry(name string, edgeMap []int) error {
	candidates := e.T.Isometries(e.T)
	for _, iso := range candidates {
		if edgeMapsEqual(iso.EdgeMap, edgeMap) {
			e.MappingClasses[name] = encoding.New(e.T, e.T, []encoding.BasicMove{encoding.IsometryMove(iso)})
			return nil
		}
	}
	return ferr.NewAssumption("flipperkernel.Isometry: no self-isometry of the triangulation has edge map %v", edgeMap)
}

func edgeMapsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compose names a mapping class as the dot-separated or letter-by-letter
// word over already-named mapping classes (spec.md §6): each token is
// either an exact name (apply that class) or its swapcase (apply its
// inverse), applied left to right in the order the word is written,
// mirroring encoding.Encoding.Compose's "e then other" convention.
func (e *EquippedTriangulation) Compose(name, word string) error {
	enc, err := e.resolveWord(word)
	if err != nil {
		return err
	}
	e.MappingClasses[name] = enc
	return nil
}

func (e *EquippedTriangulation) resolveWord(word string) (*encoding.Encoding, error) {
	tokens := splitWord(word)
	if len(tokens) == 0 {
		return nil, ferr.NewAssumption("flipperkernel.Compose: empty word")
	}
	var result *encoding.Encoding
	for _, tok := range tokens {
		step, err := e.resolveToken(tok)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = step
			continue
		}
		result, err = result.Compose(step)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *EquippedTriangulation) resolveToken(tok string) (*encoding.Encoding, error) {
	if enc, ok := e.MappingClasses[tok]; ok {
		return enc, nil
	}
	if enc, ok := e.MappingClasses[swapCase(tok)]; ok {
		return invertEncoding(enc)
	}
	return nil, ferr.NewAssumption("flipperkernel.Compose: no mapping class named %q", tok)
}

// invertEncoding builds the inverse of enc by replaying its moves in
// reverse: each flip undoes itself (flip is its own inverse applied at
// the same edge index, spec.md §8's involution property), and each
// isometry move is replaced by its two-sided inverse isometry, found by
// searching the candidate isometries back from its target.
func invertEncoding(enc *encoding.Encoding) (*encoding.Encoding, error) {
	moves := make([]encoding.BasicMove, 0, len(enc.Moves))
	for i := len(enc.Moves) - 1; i >= 0; i-- {
		m := enc.Moves[i]
		switch m.Kind {
		case encoding.KindFlip:
			moves = append(moves, encoding.Flip(m.Edge))
		case encoding.KindIsometry:
			inv, err := inverseIsometry(m.Iso)
			if err != nil {
				return nil, err
			}
			moves = append(moves, encoding.IsometryMove(inv))
		default:
			moves = append(moves, m)
		}
	}
	return encoding.New(enc.Target, enc.Source, moves), nil
}

// inverseIsometry finds the two-sided inverse of iso among the
// isometries from iso.Target back to iso.Source: the one whose
// TriangleMap undoes iso's, relying on the triangulation package's
// invariant that a Triangle's Index equals its position in the owning
// Triangulation.Triangles slice.
func inverseIsometry(iso *triangulation.Isometry) (*triangulation.Isometry, error) {
	candidates := iso.Target.Isometries(iso.Source)
	for _, cand := range candidates {
		if isTwoSidedInverse(iso, cand) {
			return cand, nil
		}
	}
	return nil, ferr.NewComputation("flipperkernel.inverseIsometry: no inverse isometry found")
}

func isTwoSidedInverse(iso, cand *triangulation.Isometry) bool {
	for i, target := range iso.TriangleMap {
		if cand.TriangleMap[target] != i {
			return false
		}
	}
	return true
}

// splitWord tokenises a mapping-class word: dot-separated if it contains
// a '.', otherwise one token per rune (spec.md §8's concise generator
// words like "aB", "aBC").
func splitWord(word string) []string {
	hasDot := false
	for _, r := range word {
		if r == '.' {
			hasDot = true
			break
		}
	}
	if hasDot {
		var tokens []string
		start := 0
		runes := []rune(word)
		for i, r := range runes {
			if r == '.' {
				tokens = append(tokens, string(runes[start:i]))
				start = i + 1
			}
		}
		tokens = append(tokens, string(runes[start:]))
		return tokens
	}
	var tokens []string
	for _, r := range word {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func swapCase(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[i] = r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			out[i] = r - 'A' + 'a'
		}
	}
	return string(out)
}

// Apply applies the named mapping class to a weight vector (spec.md §6's
// "apply" verb).
func (e *EquippedTriangulation) Apply(name string, weights []int64) ([]int64, error) {
	enc, err := e.resolveToken(name)
	if err != nil {
		return nil, err
	}
	out, _, err := enc.Apply(weights)
	return out, err
}

// Order returns the named mapping class's order, 0 for infinite order
// (spec.md §4.8, §6's "order" verb); seed is any weight vector with
// full support, used to probe the action.
func (e *EquippedTriangulation) Order(name string, seed []int64, maxOrder int) (int, error) {
	enc, err := e.resolveToken(name)
	if err != nil {
		return 0, err
	}
	return enc.Order(seed, maxOrder)
}

// Classify determines the Nielsen-Thurston type of the named mapping
// class (spec.md §2): periodic if encoding.Order finds a finite order,
// otherwise pseudo-Anosov if classify.InvariantLamination succeeds,
// otherwise reducible.
func (e *EquippedTriangulation) Classify(name string, seed []int64, maxOrder int, abort func() bool) (MappingClassType, *numfield.Element, *lamination.Lamination, error) {
	enc, err := e.resolveToken(name)
	if err != nil {
		return Unknown, nil, nil, err
	}
	order, err := enc.Order(seed, maxOrder)
	if err != nil {
		return Unknown, nil, nil, err
	}
	if order != 0 {
		return Periodic, nil, nil, nil
	}
	mu, lam, err := classify.InvariantLamination(enc, abort)
	if err != nil {
		if ferr.IsComputation(err) {
			return Reducible, nil, nil, nil
		}
		return Unknown, nil, nil, err
	}
	return PseudoAnosov, mu, lam, nil
}

// InvariantLamination is the direct, untyped form of Classify's
// pseudo-Anosov search (spec.md §4.10, §6's "invariant_lamination"
// verb): it does not itself distinguish periodic/reducible, it simply
// runs the driver and reports its outcome.
func (e *EquippedTriangulation) InvariantLamination(name string, abort func() bool) (*numfield.Element, *lamination.Lamination, error) {
	enc, err := e.resolveToken(name)
	if err != nil {
		return nil, nil, err
	}
	return classify.InvariantLamination(enc, abort)
}

// Split runs the splitting sequence (spec.md §4.11, §6's "split" verb)
// starting from the named pseudo-Anosov mapping class's invariant
// lamination.
func (e *EquippedTriangulation) Split(name string, abort func() bool) (*splitting.Sequence, error) {
	_, lam, err := e.InvariantLamination(name, abort)
	if err != nil {
		return nil, err
	}
	return splitting.Split(lam.T, lam.Weights, abort)
}

// Bundle builds the mapping torus of the named pseudo-Anosov mapping
// class (spec.md §4.12, §6's "bundle" verb): split to periodicity, lay a
// tetrahedron over e.T, replay the periodic segment's flips, and close
// along the splitting sequence's closing isometry.
//
// Building the bundle over a splitting sequence with a nontrivial
// preperiodic prefix would require laying the initial tetrahedra over
// the triangulation at the start of the period rather than over e.T;
// that case is not yet supported and is reported as an Assumption error.
func (e *EquippedTriangulation) Bundle(name string, abort func() bool) (*bundle.Triangulation3D, error) {
	seq, err := e.Split(name, abort)
	if err != nil {
		return nil, err
	}
	if seq.PreperiodLength != 0 {
		return nil, ferr.NewAssumption("flipperkernel.Bundle: splitting sequence has a %d-step preperiodic prefix, which this engine does not yet bundle", seq.PreperiodLength)
	}
	lt := bundle.New(e.T)
	if err := lt.Flips(seq.PeriodicEdges()); err != nil {
		return nil, err
	}
	closed, _, err := lt.Close(seq.ClosingIsometry)
	if err != nil {
		return nil, err
	}
	return closed, nil
}
