// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConvertOptions controls how genotype codes become float64s.
//
// Missing genotypes decode to NaN unless Impute replaces them with the
// column mean. The mean and standard deviation of a column are always
// computed over its non-missing genotypes only (population standard
// deviation, same denominator as the mean), so an imputed value is a
// zero contribution after centering. Centering subtracts the column
// mean; scaling then divides by the column standard deviation. A
// zero-variance column scales to Inf or NaN rather than erroring.
type ConvertOptions struct {
	Model  Model
	Center bool
	Scale  bool
	Impute bool
}

// Convert returns a dense float64 rendering of src, samples in rows
// and markers in columns. Both dimensions must be nonzero (gonum
// matrices cannot be empty); ConvertTo has no such restriction.
func Convert(src Source, opts ConvertOptions) (*mat.Dense, error) {
	m, n := src.Dims()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("cannot convert %d x %d matrix: %w", m, n, ErrDimension)
	}
	out := make([]float64, m*n)
	if err := ConvertTo(out, src, opts); err != nil {
		return nil, err
	}
	return mat.NewDense(m, n, out), nil
}

// ConvertTo fills dst, a row-major samples x markers block, with the
// float64 rendering of src.
func ConvertTo(dst []float64, src Source, opts ConvertOptions) error {
	if !opts.Model.valid() {
		return fmt.Errorf("unknown genotype model %d", int(opts.Model))
	}
	m, n := src.Dims()
	if len(dst) != m*n {
		return fmt.Errorf("destination length %d for %d x %d matrix: %w", len(dst), m, n, ErrDimension)
	}
	colbuf := make([]GenotypeCode, m)
	for j := 0; j < n; j++ {
		convertCol(dst[j:], n, src, j, opts, colbuf)
	}
	return nil
}

// ConvertCol returns marker column j of src as float64s. A nil dst is
// allocated; otherwise dst must have one element per sample.
func ConvertCol(dst []float64, src Source, j int, opts ConvertOptions) ([]float64, error) {
	if !opts.Model.valid() {
		return nil, fmt.Errorf("unknown genotype model %d", int(opts.Model))
	}
	m, _ := src.Dims()
	if dst == nil {
		dst = make([]float64, m)
	} else if len(dst) != m {
		panic("snptable: wrong destination length")
	}
	convertCol(dst, 1, src, j, opts, nil)
	return dst, nil
}

// convertCol writes column j of src into dst at the given stride.
// colbuf, when non-nil, is scratch with one element per sample.
func convertCol(dst []float64, stride int, src Source, j int, opts ConvertOptions, colbuf []GenotypeCode) {
	colbuf = src.Col(j, colbuf)
	mean, stddev := src.ColCounts(j).moments(opts.Model)
	vals := modelValues[opts.Model]
	if opts.Impute {
		vals[Missing] = mean
	}
	off := 0.0
	if opts.Center {
		off = mean
	}
	mul := 1.0
	if opts.Scale {
		mul = 1 / stddev
	}
	for k, code := range colbuf {
		dst[k*stride] = (vals[code] - off) * mul
	}
}
