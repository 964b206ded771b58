// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import "errors"

// Sentinel errors returned (wrapped) by functions in this package. Use
// errors.Is to test for them.
//
// Out-of-range arguments to single-element accessors like Bed.Code are
// programming errors and panic instead, following the convention of
// gonum's mat package.
var (
	// ErrFormat indicates malformed file content: a bad magic number,
	// a file size inconsistent with the declared dimensions, or an
	// unparseable sidecar line.
	ErrFormat = errors.New("invalid genotype file format")

	// ErrDimension indicates inputs whose shapes disagree, e.g. a mask
	// of the wrong length or merge inputs with different sample sets.
	ErrDimension = errors.New("dimension mismatch")

	// ErrIndex indicates a caller-supplied row or column index list
	// containing an out-of-range entry.
	ErrIndex = errors.New("index out of range")

	// ErrMissingData indicates missing genotypes in an operation that
	// requires fully observed data.
	ErrMissingData = errors.New("missing genotypes not allowed here")
)
