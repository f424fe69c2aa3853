// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command flipper is the CLI entrypoint: it reads a triangulation file,
// dispatches one typed verb to flipperkernel.EquippedTriangulation, and
// prints the result, exiting with ferr.ExitCode(err) rather than a bare
// nonzero status.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/flipperkernel"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 2 {
		io.PfRed("usage: flipper <file> <verb> [args...]\n")
		io.Pf("verbs: lamination twist halftwist isometry compose apply order type invariant_lamination split bundle\n")
		os.Exit(1)
	}

	fnamepath, verb := args[0], args[1]
	rest := args[2:]

	equipped, err := flipperkernel.Load(fnamepath)
	if err != nil {
		fail(err)
	}

	abort := func() bool { return false }

	if err := dispatch(equipped, verb, rest, abort); err != nil {
		fail(err)
	}
}

func fail(err error) {
	io.PfRed("ERROR: %v\n", err)
	os.Exit(ferr.ExitCode(err))
}

func dispatch(e *flipperkernel.EquippedTriangulation, verb string, args []string, abort func() bool) error {
	switch verb {

	case "lamination":
		if len(args) != 2 {
			return ferr.NewAssumption("lamination: expected <name> <w0,w1,...>")
		}
		weights, err := parseInt64List(args[1])
		if err != nil {
			return err
		}
		if err := e.AddLamination(args[0], weights); err != nil {
			return err
		}
		io.Pf("lamination %s defined\n", args[0])
		return nil

	case "twist":
		if len(args) != 3 {
			return ferr.NewAssumption("twist: expected <name> <curve> <power>")
		}
		k, err := strconv.Atoi(args[2])
		if err != nil {
			return ferr.NewAssumption("twist: invalid power %q", args[2])
		}
		if err := e.Twist(args[0], args[1], k); err != nil {
			return err
		}
		io.Pf("mapping class %s defined\n", args[0])
		return nil

	case "halftwist":
		if len(args) != 3 {
			return ferr.NewAssumption("halftwist: expected <name> <curve> <power>")
		}
		k, err := strconv.Atoi(args[2])
		if err != nil {
			return ferr.NewAssumption("halftwist: invalid power %q", args[2])
		}
		if err := e.HalfTwist(args[0], args[1], k); err != nil {
			return err
		}
		io.Pf("mapping class %s defined\n", args[0])
		return nil

	case "isometry":
		if len(args) != 2 {
			return ferr.NewAssumption("isometry: expected <name> <edge0,edge1,...>")
		}
		edgeMap, err := parseIntList(args[1])
		if err != nil {
			return err
		}
		if err := e.Isometry(args[0], edgeMap); err != nil {
			return err
		}
		io.Pf("mapping class %s defined\n", args[0])
		return nil

	case "compose":
		if len(args) != 2 {
			return ferr.NewAssumption("compose: expected <name> <word>")
		}
		if err := e.Compose(args[0], args[1]); err != nil {
			return err
		}
		io.Pf("mapping class %s defined\n", args[0])
		return nil

	case "apply":
		if len(args) != 2 {
			return ferr.NewAssumption("apply: expected <name> <w0,w1,...>")
		}
		weights, err := parseInt64List(args[1])
		if err != nil {
			return err
		}
		out, err := e.Apply(args[0], weights)
		if err != nil {
			return err
		}
		io.Pf("%v\n", out)
		return nil

	case "order":
		if len(args) != 3 {
			return ferr.NewAssumption("order: expected <name> <seed w0,w1,...> <max_order>")
		}
		seed, err := parseInt64List(args[1])
		if err != nil {
			return err
		}
		maxOrder, err := strconv.Atoi(args[2])
		if err != nil {
			return ferr.NewAssumption("order: invalid max_order %q", args[2])
		}
		order, err := e.Order(args[0], seed, maxOrder)
		if err != nil {
			return err
		}
		io.Pf("order %d\n", order)
		return nil

	case "type":
		if len(args) != 3 {
			return ferr.NewAssumption("type: expected <name> <seed w0,w1,...> <max_order>")
		}
		seed, err := parseInt64List(args[1])
		if err != nil {
			return err
		}
		maxOrder, err := strconv.Atoi(args[2])
		if err != nil {
			return ferr.NewAssumption("type: invalid max_order %q", args[2])
		}
		kind, _, _, err := e.Classify(args[0], seed, maxOrder, abort)
		if err != nil {
			return err
		}
		io.Pf("%s\n", kind)
		return nil

	case "invariant_lamination":
		if len(args) != 1 {
			return ferr.NewAssumption("invariant_lamination: expected <name>")
		}
		mu, lam, err := e.InvariantLamination(args[0], abort)
		if err != nil {
			return err
		}
		io.Pf("dilatation %v\n", mu)
		io.Pf("weights %v\n", lam.Weights)
		return nil

	case "split":
		if len(args) != 1 {
			return ferr.NewAssumption("split: expected <name>")
		}
		seq, err := e.Split(args[0], abort)
		if err != nil {
			return err
		}
		io.Pf("preperiod %d period %d dilatation %v\n", seq.PreperiodLength, seq.PeriodLength, seq.Dilatation)
		return nil

	case "bundle":
		if len(args) != 1 {
			return ferr.NewAssumption("bundle: expected <name>")
		}
		closed, err := e.Bundle(args[0], abort)
		if err != nil {
			return err
		}
		manifold, err := closed.ManifoldString()
		if err != nil {
			return err
		}
		io.Pf("%s", manifold)
		return nil

	default:
		return ferr.NewAssumption("unknown verb %q", verb)
	}
}

func parseInt64List(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, ferr.NewAssumption("invalid integer %q in weight list", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, ferr.NewAssumption("invalid integer %q in edge map", p)
		}
		out[i] = v
	}
	return out, nil
}
