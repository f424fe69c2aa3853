// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classify

import (
	"gonum.org/v1/gonum/mat"

	"github.com/saraedum/flipper/ferr"
	"github.com/saraedum/flipper/matrix"
)

// DominantEigenvalueApprox returns a float64 approximation of m's largest
// real eigenvalue, computed by gonum's general eigendecomposition. This
// never certifies a dilatation by itself — InvariantLamination always
// re-derives the exact value from numfield.Field — but it is a fast,
// independent cross-check of the exact Faddeev-LeVerrier/root-isolation
// pipeline in searchCell, the way a benchmark or a property test spot
// checks a certified result against a float64 library routine.
func DominantEigenvalueApprox(m *matrix.Integer) (float64, error) {
	n := m.Rows
	if n != m.Cols {
		return 0, ferr.NewAssumption("classify.DominantEigenvalueApprox: matrix is not square (%dx%d)", m.Rows, m.Cols)
	}
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = float64(m.Data[i][j].Int64())
		}
	}
	dense := mat.NewDense(n, n, data)

	var eig mat.Eigen
	if ok := eig.Factorize(dense, false, false); !ok {
		return 0, ferr.NewComputation("classify.DominantEigenvalueApprox: gonum eigendecomposition did not converge")
	}
	values := eig.Values(nil)

	best := 0.0
	found := false
	for _, v := range values {
		if v.Imag() != 0 {
			continue
		}
		if !found || v.Real() > best {
			best = v.Real()
			found = true
		}
	}
	if !found {
		return 0, ferr.NewComputation("classify.DominantEigenvalueApprox: no real eigenvalue found")
	}
	return best, nil
}
