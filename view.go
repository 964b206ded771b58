// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import "fmt"

// View is a rectangular selection of a Source, defined by row and
// column index lists. It copies no genotype data: every access
// translates indices and reads through to the underlying source, so a
// view stays valid only as long as its source does. Index lists may
// reorder and repeat.
type View struct {
	src  Source
	rows []int
	cols []int
}

// NewView returns a view of the given rows and columns of src, in the
// given order. A nil rows or cols selects the whole axis. The index
// slices are retained, not copied.
func NewView(src Source, rows, cols []int) (*View, error) {
	m, n := src.Dims()
	if rows == nil {
		rows = iota0(m)
	}
	if cols == nil {
		cols = iota0(n)
	}
	if err := checkIndices(rows, m, "sample"); err != nil {
		return nil, err
	}
	if err := checkIndices(cols, n, "marker"); err != nil {
		return nil, err
	}
	return &View{src: src, rows: rows, cols: cols}, nil
}

// RowView returns a one-sample view of row i of src.
func RowView(src Source, i int) (*View, error) {
	return NewView(src, []int{i}, nil)
}

// ColView returns a one-marker view of column j of src.
func ColView(src Source, j int) (*View, error) {
	return NewView(src, nil, []int{j})
}

func iota0(n int) []int {
	ix := make([]int, n)
	for i := range ix {
		ix[i] = i
	}
	return ix
}

func checkIndices(ix []int, lim int, what string) error {
	for k, i := range ix {
		if i < 0 || i >= lim {
			return fmt.Errorf("%s index %d at position %d not in [0,%d): %w", what, i, k, lim, ErrIndex)
		}
	}
	return nil
}

// Dims returns the view's number of samples and markers.
func (v *View) Dims() (samples, markers int) { return len(v.rows), len(v.cols) }

// Code returns the genotype at view position i, j.
func (v *View) Code(i, j int) GenotypeCode {
	if i < 0 || i >= len(v.rows) {
		panic("snptable: sample index out of range")
	}
	if j < 0 || j >= len(v.cols) {
		panic("snptable: marker index out of range")
	}
	return v.src.Code(v.rows[i], v.cols[j])
}

// Col copies view column j into dst, one code per selected sample.
func (v *View) Col(j int, dst []GenotypeCode) []GenotypeCode {
	if j < 0 || j >= len(v.cols) {
		panic("snptable: marker index out of range")
	}
	if dst == nil {
		dst = make([]GenotypeCode, len(v.rows))
	} else if len(dst) != len(v.rows) {
		panic("snptable: wrong destination length")
	}
	sj := v.cols[j]
	for k, i := range v.rows {
		dst[k] = v.src.Code(i, sj)
	}
	return dst
}

// ColCounts tallies view column j. Unlike Bed, a view computes tallies
// on the fly and caches nothing.
func (v *View) ColCounts(j int) Counts {
	if j < 0 || j >= len(v.cols) {
		panic("snptable: marker index out of range")
	}
	var c Counts
	sj := v.cols[j]
	for _, i := range v.rows {
		c[v.src.Code(i, sj)]++
	}
	return c
}

// RowCounts tallies view row i.
func (v *View) RowCounts(i int) Counts {
	if i < 0 || i >= len(v.rows) {
		panic("snptable: sample index out of range")
	}
	var c Counts
	si := v.rows[i]
	for _, j := range v.cols {
		c[v.src.Code(si, j)]++
	}
	return c
}
