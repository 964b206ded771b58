// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BitMatrix is a matrix-free linear operator over the packed genotype
// codes of a Source. It behaves exactly like the dense matrix Convert
// would produce with the same options, but never materializes it:
// vector products decode the packed bytes on the fly and apply
// centering and scaling algebraically, so memory stays O(samples +
// markers). Rows are samples, columns are markers. BitMatrix also
// implements gonum's mat.Matrix for use with generic routines, though
// element access through At decodes one genotype at a time.
//
// The source must have no missing genotypes; NewBitMatrix fails with
// ErrMissingData otherwise. ConvertOptions.Impute is therefore
// meaningless here and ignored.
type BitMatrix struct {
	src  Source
	vals [4]float64 // model decode table; Missing slot unused
	off  []float64  // per-column centering offset
	mul  []float64  // per-column scale multiplier
	m, n int
}

// NewBitMatrix wraps src as a linear operator. Every column's tally is
// checked for missing genotypes, and the per-column offsets and
// multipliers implied by opts are precomputed from those tallies. A
// zero-variance column under Scale gets an infinite multiplier; it
// propagates non-finite values through products like the dense
// rendering does, though the algebraic evaluation order can yield Inf
// where the dense computation yields NaN.
func NewBitMatrix(src Source, opts ConvertOptions) (*BitMatrix, error) {
	if !opts.Model.valid() {
		return nil, fmt.Errorf("unknown genotype model %d", int(opts.Model))
	}
	m, n := src.Dims()
	x := &BitMatrix{
		src:  src,
		vals: modelValues[opts.Model],
		off:  make([]float64, n),
		mul:  make([]float64, n),
		m:    m,
		n:    n,
	}
	for j := 0; j < n; j++ {
		c := src.ColCounts(j)
		if c[Missing] > 0 {
			return nil, fmt.Errorf("marker %d has %d missing genotypes: %w", j, c[Missing], ErrMissingData)
		}
		mean, stddev := c.moments(opts.Model)
		if opts.Center {
			x.off[j] = mean
		}
		x.mul[j] = 1
		if opts.Scale {
			x.mul[j] = 1 / stddev
		}
	}
	return x, nil
}

// Dims returns the operator's dimensions.
func (x *BitMatrix) Dims() (r, c int) { return x.m, x.n }

// At returns the dense element the operator implies at i, j.
func (x *BitMatrix) At(i, j int) float64 {
	return (x.vals[x.src.Code(i, j)] - x.off[j]) * x.mul[j]
}

// T returns the transpose as a gonum virtual view.
func (x *BitMatrix) T() mat.Matrix { return mat.Transpose{Matrix: x} }

// MulVec sets dst to X*v, one element per sample, and returns it. A
// nil dst is allocated. v must have one element per marker.
func (x *BitMatrix) MulVec(dst, v []float64) ([]float64, error) {
	if len(v) != x.n {
		return nil, fmt.Errorf("vector length %d for %d markers: %w", len(v), x.n, ErrDimension)
	}
	if dst == nil {
		dst = make([]float64, x.m)
	} else if len(dst) != x.m {
		return nil, fmt.Errorf("destination length %d for %d samples: %w", len(dst), x.m, ErrDimension)
	}
	for i := range dst {
		dst[i] = 0
	}
	// X*v = G*w - shift*1 for w_j = mul_j*v_j and
	// shift = sum_j off_j*w_j, where G is the raw decoded matrix
	var shift float64
	colbuf := make([]GenotypeCode, x.m)
	for j := 0; j < x.n; j++ {
		w := v[j] * x.mul[j]
		shift += x.off[j] * w
		if w == 0 {
			continue
		}
		x.src.Col(j, colbuf)
		for i, g := range colbuf {
			dst[i] += x.vals[g] * w
		}
	}
	if shift != 0 {
		for i := range dst {
			dst[i] -= shift
		}
	}
	return dst, nil
}

// TransMulVec sets dst to transpose(X)*v, one element per marker, and
// returns it. A nil dst is allocated. v must have one element per
// sample.
func (x *BitMatrix) TransMulVec(dst, v []float64) ([]float64, error) {
	if len(v) != x.m {
		return nil, fmt.Errorf("vector length %d for %d samples: %w", len(v), x.m, ErrDimension)
	}
	if dst == nil {
		dst = make([]float64, x.n)
	} else if len(dst) != x.n {
		return nil, fmt.Errorf("destination length %d for %d markers: %w", len(dst), x.n, ErrDimension)
	}
	var vsum float64
	for _, vi := range v {
		vsum += vi
	}
	colbuf := make([]GenotypeCode, x.m)
	for j := 0; j < x.n; j++ {
		x.src.Col(j, colbuf)
		var dot float64
		for i, g := range colbuf {
			dot += x.vals[g] * v[i]
		}
		dst[j] = (dot - x.off[j]*vsum) * x.mul[j]
	}
	return dst, nil
}
