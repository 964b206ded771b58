// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// openFile opens path for reading, decompressing transparently if the
// name ends in ".gz".
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %s: %w", path, err, ErrFormat)
	}
	return &zipReader{zr, f}, nil
}

type zipReader struct {
	*pgzip.Reader
	f *os.File
}

func (z *zipReader) Close() error {
	err := z.Reader.Close()
	if cerr := z.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// createFile creates path for writing, compressing transparently if the
// name ends in ".gz". Unless overwrite is true, an existing file is an
// error.
func createFile(path string, overwrite bool) (io.WriteCloser, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0777)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &zipWriter{pgzip.NewWriter(f), f}, nil
}

type zipWriter struct {
	*pgzip.Writer
	f *os.File
}

func (z *zipWriter) Close() error {
	err := z.Writer.Close()
	if cerr := z.f.Close(); err == nil {
		err = cerr
	}
	return err
}
