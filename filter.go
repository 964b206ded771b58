// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Filter writes the selected rows and columns of t, in the given index
// order, as a new table at destPrefix.bed/.bim/.fam. Index lists may
// reorder and repeat; a nil rows or cols keeps the whole axis in
// original order. Unless overwrite is true, existing destination files
// are an error.
func Filter(t *Table, rows, cols []int, destPrefix string, overwrite bool) error {
	m, n := t.Dims()
	if rows == nil {
		rows = iota0(m)
	}
	if cols == nil {
		cols = iota0(n)
	}
	if err := checkIndices(rows, m, "sample"); err != nil {
		return err
	}
	if err := checkIndices(cols, n, "marker"); err != nil {
		return err
	}
	if !overwrite {
		for _, ext := range []string{".bed", ".bim", ".fam"} {
			if _, err := os.Stat(destPrefix + ext); err == nil {
				return fmt.Errorf("%s%s: %w", destPrefix, ext, os.ErrExist)
			}
		}
	}
	log.Printf("filter: writing %d x %d table to %s", len(rows), len(cols), destPrefix)
	people := make([]Person, len(rows))
	for k, i := range rows {
		people[k] = t.Persons[i]
	}
	if err := WriteFam(destPrefix+".fam", people); err != nil {
		return err
	}
	variants := make([]Variant, len(cols))
	for k, j := range cols {
		variants[k] = t.Variants[j]
	}
	if err := WriteBim(destPrefix+".bim", variants); err != nil {
		return err
	}
	f, err := createFile(destPrefix+".bed", overwrite)
	if err != nil {
		return err
	}
	if err := writeBed(f, t.Bed, rows, cols); err != nil {
		f.Close()
		return fmt.Errorf("%s.bed: %w", destPrefix, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s.bed: %w", destPrefix, err)
	}
	return nil
}

// FilterMasks is Filter with boolean retention masks in place of index
// lists. Mask length must match its axis; a nil mask keeps the whole
// axis.
func FilterMasks(t *Table, rowMask, colMask []bool, destPrefix string, overwrite bool) error {
	m, n := t.Dims()
	rows, err := maskIndices(rowMask, m, "sample")
	if err != nil {
		return err
	}
	cols, err := maskIndices(colMask, n, "marker")
	if err != nil {
		return err
	}
	return Filter(t, rows, cols, destPrefix, overwrite)
}

func maskIndices(mask []bool, lim int, what string) ([]int, error) {
	if mask == nil {
		return nil, nil
	}
	if len(mask) != lim {
		return nil, fmt.Errorf("%s mask length %d for axis length %d: %w", what, len(mask), lim, ErrDimension)
	}
	// non-nil even when empty: an all-false mask selects nothing,
	// not everything
	ix := make([]int, 0, lim)
	for i, keep := range mask {
		if keep {
			ix = append(ix, i)
		}
	}
	return ix, nil
}
