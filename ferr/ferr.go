// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ferr defines the typed error kinds raised by the classification
// and bundle-construction engine.
package ferr

import (
	"github.com/cpmech/gosl/io"
)

// Approximation is raised when an interval or algebraic approximation does
// not carry enough accuracy to answer the question asked of it, or when a
// division would be by an interval containing zero. Recoverable: the caller
// may retry the same computation at higher precision.
type Approximation struct{ msg string }

func (e *Approximation) Error() string { return e.msg }

// NewApproximation builds an Approximation error with a gosl/io-formatted message.
func NewApproximation(msg string, args ...interface{}) *Approximation {
	return &Approximation{msg: io.Sf(msg, args...)}
}

// Assumption is raised when a precondition on the inputs is violated: a
// non-flippable edge, a non-essential lamination, a non-Perron-Frobenius
// candidate, an empty feasibility cone, or a reducible mapping class where
// pseudo-Anosov was assumed.
type Assumption struct{ msg string }

func (e *Assumption) Error() string { return e.msg }

// NewAssumption builds an Assumption error with a gosl/io-formatted message.
func NewAssumption(msg string, args ...interface{}) *Assumption {
	return &Assumption{msg: io.Sf(msg, args...)}
}

// Computation is raised when a finite search is exhausted without an answer,
// e.g. no invariant lamination was found in any cell.
type Computation struct{ msg string }

func (e *Computation) Error() string { return e.msg }

// NewComputation builds a Computation error with a gosl/io-formatted message.
func NewComputation(msg string, args ...interface{}) *Computation {
	return &Computation{msg: io.Sf(msg, args...)}
}

// Abort is raised when the caller's should_abort predicate returns true.
type Abort struct{ msg string }

func (e *Abort) Error() string { return e.msg }

// NewAbort builds an Abort error.
func NewAbort(msg string, args ...interface{}) *Abort {
	return &Abort{msg: io.Sf(msg, args...)}
}

// IsApproximation reports whether err is an Approximation error (a direct
// type check; wrapped errors are not unwrapped).
func IsApproximation(err error) bool { _, ok := err.(*Approximation); return ok }

// IsAssumption reports whether err is an Assumption error (a direct type
// check; wrapped errors are not unwrapped).
func IsAssumption(err error) bool { _, ok := err.(*Assumption); return ok }

// IsComputation reports whether err is a Computation error (a direct type
// check; wrapped errors are not unwrapped).
func IsComputation(err error) bool { _, ok := err.(*Computation); return ok }

// IsAbort reports whether err is an Abort error (a direct type check;
// wrapped errors are not unwrapped).
func IsAbort(err error) bool { _, ok := err.(*Abort); return ok }

// ExitCode maps an error from this package to the CLI exit codes of spec.md §6:
// 0 success, 1 user error, 2 computation failure, 3 abort.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsAbort(err):
		return 3
	case IsComputation(err), IsApproximation(err):
		return 2
	case IsAssumption(err):
		return 1
	default:
		return 1
	}
}
