// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// WriteNpy writes m as a 2-dimensional float64 numpy array. Dense
// gonum matrices use their raw row-major backing directly; other
// implementations (including mat.SymDense and BitMatrix) are read
// element by element.
func WriteNpy(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	var out []float64
	if d, ok := m.(*mat.Dense); ok && d.RawMatrix().Stride == cols {
		out = d.RawMatrix().Data
	} else {
		out = make([]float64, rows*cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				out[i*cols+j] = m.At(i, j)
			}
		}
	}
	bufw := bufio.NewWriter(w)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return fmt.Errorf("numpy writer: %w", err)
	}
	npw.Shape = []int{rows, cols}
	if err := npw.WriteFloat64(out); err != nil {
		return fmt.Errorf("numpy write: %w", err)
	}
	return bufw.Flush()
}

// WriteNpyFile writes m as a .npy (or .npy.gz) file, replacing any
// existing file.
func WriteNpyFile(path string, m mat.Matrix) error {
	f, err := createFile(path, true)
	if err != nil {
		return err
	}
	if err := WriteNpy(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
