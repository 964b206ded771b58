// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// KinshipMethod selects the estimator used by GRM. All three converge
// to the same relatedness matrix in expectation (diagonal near 1 for
// non-inbred samples); they differ in how marker columns are weighted.
type KinshipMethod int

const (
	// MethodGRM is the classical genetic relationship matrix: each
	// marker contributes the outer product of its standardized dosage
	// vector, and the sum is divided by the number of markers used.
	MethodGRM KinshipMethod = iota
	// MethodMoM is the method-of-moments estimator built from shifted
	// dosages, with a closed-form affine correction in place of
	// per-marker standardization.
	MethodMoM
	// MethodRobust standardizes by the sum of per-marker variances
	// instead of each variance separately, so rare markers cannot
	// dominate the estimate.
	MethodRobust
)

func (m KinshipMethod) String() string {
	switch m {
	case MethodGRM:
		return "grm"
	case MethodMoM:
		return "mom"
	case MethodRobust:
		return "robust"
	}
	return "invalid"
}

// ParseKinshipMethod returns the KinshipMethod named by its String
// form.
func ParseKinshipMethod(name string) (KinshipMethod, error) {
	for _, m := range []KinshipMethod{MethodGRM, MethodMoM, MethodRobust} {
		if name == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown kinship method %q", name)
}

// DefaultMinMAF is the marker frequency screen applied when
// GRMOptions.MinMAF is zero.
const DefaultMinMAF = 0.01

// GRMOptions controls marker selection and the estimator used by GRM.
type GRMOptions struct {
	Method KinshipMethod
	// Markers with minor allele frequency <= MinMAF are excluded.
	// Zero means DefaultMinMAF; a negative value disables the screen
	// entirely (all-missing markers are still excluded). Ignored when
	// Cols is set.
	MinMAF float64
	// Cols selects marker columns explicitly, bypassing the frequency
	// screen. Without a screen, degenerate columns (zero variance, all
	// missing) propagate NaN or Inf into the result instead of being
	// dropped.
	Cols []int
}

// GRM estimates the pairwise relatedness of all samples in src. Marker
// columns are streamed as rank-one updates, so memory stays
// O(samples^2) no matter how many markers the table has. Missing
// genotypes are imputed to the column mean dosage, a zero contribution
// after centering, and the normalizing count is the global number of
// markers used.
func GRM(ctx context.Context, src Source, opts GRMOptions) (*mat.SymDense, error) {
	if opts.Method < MethodGRM || opts.Method > MethodRobust {
		return nil, fmt.Errorf("unknown kinship method %d", int(opts.Method))
	}
	m, n := src.Dims()
	if m == 0 {
		return nil, fmt.Errorf("kinship of 0 samples: %w", ErrDimension)
	}
	sel := opts.Cols
	if sel == nil {
		minmaf := opts.MinMAF
		if minmaf == 0 {
			minmaf = DefaultMinMAF
		}
		for j := 0; j < n; j++ {
			if src.ColCounts(j).MAF() > minmaf {
				sel = append(sel, j)
			}
		}
	} else if err := checkIndices(sel, n, "marker"); err != nil {
		return nil, err
	}
	if len(sel) == 0 {
		return nil, fmt.Errorf("no markers selected for kinship: %w", ErrDimension)
	}
	log.Printf("kinship %v: using %d of %d markers", opts.Method, len(sel), n)

	k := float64(len(sel))
	phi := mat.NewSymDense(m, nil)
	z := make([]float64, m)
	zvec := mat.NewVecDense(m, z)
	colbuf := make([]GenotypeCode, m)
	var sumvar float64 // Robust: sum of 2p(1-p)
	var sumsq float64  // MoM: sum of p^2 + (1-p)^2
	for _, j := range sel {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := src.ColCounts(j).AlleleFreq()
		src.Col(j, colbuf)
		switch opts.Method {
		case MethodGRM:
			sd := math.Sqrt(2 * p * (1 - p))
			for i, g := range colbuf {
				d := modelValues[Additive][g]
				if g == Missing {
					d = 2 * p
				}
				z[i] = (d - 2*p) / sd
			}
		case MethodMoM:
			for i, g := range colbuf {
				d := modelValues[Additive][g]
				if g == Missing {
					d = 2 * p
				}
				z[i] = d - 1
			}
			sumsq += p*p + (1-p)*(1-p)
		case MethodRobust:
			for i, g := range colbuf {
				d := modelValues[Additive][g]
				if g == Missing {
					d = 2 * p
				}
				z[i] = d - 2*p
			}
			sumvar += 2 * p * (1 - p)
		}
		phi.SymRankOne(phi, 1, zvec)
	}
	switch opts.Method {
	case MethodGRM:
		phi.ScaleSym(1/k, phi)
	case MethodMoM:
		// phi = 2 * (S/2 + k/2 - c) / (k - c), S the accumulated
		// outer products, c the accumulated p^2+(1-p)^2
		shift := k/2 - sumsq
		scale := 1 / (k - sumsq)
		raw := phi.RawSymmetric()
		for i := 0; i < raw.N; i++ {
			for j := i; j < raw.N; j++ {
				idx := i*raw.Stride + j
				raw.Data[idx] = (raw.Data[idx]/2 + shift) * scale * 2
			}
		}
	case MethodRobust:
		phi.ScaleSym(1/sumvar, phi)
	}
	return phi, nil
}
