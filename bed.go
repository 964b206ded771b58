// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Package snptable reads, summarizes, filters, and transforms PLINK
// .bed/.bim/.fam genotype tables. The packed 2-bit genotype matrix is
// memory-mapped and decoded lazily, so tables much larger than memory
// are cheap to open and scan.
package snptable

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	mmap "github.com/shenwei356/mmap-go"
)

// bed files start with two magic bytes and a layout byte (1 means one
// column of packed bytes per marker).
var bedMagic = [3]byte{0x6c, 0x1b, 0x01}

// A Source is a read-only genotype matrix: a Bed, or a View of one.
// Implementations are safe for concurrent readers.
type Source interface {
	// Dims returns the number of rows (samples) and columns (markers).
	Dims() (samples, markers int)
	// Code returns the genotype at row i, column j. It panics when
	// either index is out of range.
	Code(i, j int) GenotypeCode
	// Col copies column j into dst, which must have one element per
	// row, and returns it. A nil dst is allocated.
	Col(j int, dst []GenotypeCode) []GenotypeCode
	// ColCounts tallies the genotype codes in column j.
	ColCounts(j int) Counts
	// RowCounts tallies the genotype codes in row i.
	RowCounts(i int) Counts
}

// Bed is a read-only packed genotype matrix backed by a .bed file.
// Rows are samples, columns are markers. Each column is stored as
// ceil(samples/4) bytes, four 2-bit codes per byte, lowest bit pair
// first; trailing pad bits in the last byte of a column are zero.
type Bed struct {
	data []byte // packed columns, header stripped
	m, n int    // samples, markers
	bpc  int    // bytes per column

	mapped mmap.MMap // non-nil when data is a live mapping
	f      *os.File

	mtx       sync.Mutex
	colCounts []Counts
	colDone   []bool
	rowCounts []Counts
}

// OpenBed opens a .bed (or .bed.gz) file with the given dimensions,
// normally taken from the row counts of the .fam and .bim sidecars.
// Plain files are memory-mapped; compressed files are read into memory.
// Close the returned Bed to release the mapping.
func OpenBed(path string, samples, markers int) (*Bed, error) {
	if samples < 0 || markers < 0 {
		return nil, fmt.Errorf("open %s: negative dimensions %d x %d: %w", path, samples, markers, ErrDimension)
	}
	bpc := (samples + 3) / 4
	want := int64(3) + int64(bpc)*int64(markers)
	t := &Bed{m: samples, n: markers, bpc: bpc}
	if strings.HasSuffix(path, ".gz") {
		f, err := openFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err := ioutil.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if int64(len(buf)) != want {
			return nil, fmt.Errorf("%s: size %d, but %d samples x %d markers needs %d: %w", path, len(buf), samples, markers, want, ErrFormat)
		}
		if err := checkBedHeader(path, buf); err != nil {
			return nil, err
		}
		t.data = buf[3:]
		return t, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() != want {
		f.Close()
		return nil, fmt.Errorf("%s: size %d, but %d samples x %d markers needs %d: %w", path, fi.Size(), samples, markers, want, ErrFormat)
	}
	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	if err := checkBedHeader(path, mapped); err != nil {
		mapped.Unmap()
		f.Close()
		return nil, err
	}
	t.data = mapped[3:]
	t.mapped = mapped
	t.f = f
	return t, nil
}

func checkBedHeader(path string, buf []byte) error {
	if buf[0] != bedMagic[0] || buf[1] != bedMagic[1] {
		return fmt.Errorf("%s: bad magic number %#02x %#02x: %w", path, buf[0], buf[1], ErrFormat)
	}
	if buf[2] != bedMagic[2] {
		return fmt.Errorf("%s: sample-major layout (header byte %#02x) not supported: %w", path, buf[2], ErrFormat)
	}
	return nil
}

// Close releases the file mapping, if any. The Bed must not be used
// afterwards.
func (t *Bed) Close() error {
	var err error
	if t.mapped != nil {
		err = t.mapped.Unmap()
		t.mapped = nil
	}
	if t.f != nil {
		if cerr := t.f.Close(); err == nil {
			err = cerr
		}
		t.f = nil
	}
	t.data = nil
	return err
}

// Dims returns the number of samples (rows) and markers (columns).
func (t *Bed) Dims() (samples, markers int) { return t.m, t.n }

func (t *Bed) colBytes(j int) []byte {
	return t.data[j*t.bpc : (j+1)*t.bpc]
}

// Code returns the genotype of sample i at marker j.
func (t *Bed) Code(i, j int) GenotypeCode {
	if i < 0 || i >= t.m {
		panic("snptable: sample index out of range")
	}
	if j < 0 || j >= t.n {
		panic("snptable: marker index out of range")
	}
	b := t.data[j*t.bpc+i>>2]
	return GenotypeCode(b >> ((uint(i) & 3) * 2) & 3)
}

// Col copies marker column j into dst, one code per sample.
func (t *Bed) Col(j int, dst []GenotypeCode) []GenotypeCode {
	if j < 0 || j >= t.n {
		panic("snptable: marker index out of range")
	}
	if dst == nil {
		dst = make([]GenotypeCode, t.m)
	} else if len(dst) != t.m {
		panic("snptable: wrong destination length")
	}
	col := t.colBytes(j)
	for k, i := 0, 0; k < len(col); k, i = k+1, i+4 {
		cc := byteCodes[col[k]]
		copy(dst[i:], cc[:])
	}
	return dst
}

// ColCounts tallies column j. Tallies are computed on first use and
// cached per column.
func (t *Bed) ColCounts(j int) Counts {
	if j < 0 || j >= t.n {
		panic("snptable: marker index out of range")
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.colCounts == nil {
		t.colCounts = make([]Counts, t.n)
		t.colDone = make([]bool, t.n)
	}
	if !t.colDone[j] {
		t.colCounts[j] = t.countCol(j)
		t.colDone[j] = true
	}
	return t.colCounts[j]
}

func (t *Bed) countCol(j int) Counts {
	var c Counts
	col := t.colBytes(j)
	whole := col
	if t.m%4 != 0 {
		whole = col[:len(col)-1]
	}
	for _, b := range whole {
		c.addByte(b)
	}
	if t.m%4 != 0 {
		// last byte: real genotypes plus zero padding
		cc := byteCodes[col[len(col)-1]]
		for s := 0; s < t.m%4; s++ {
			c[cc[s]]++
		}
	}
	return c
}

// RowCounts tallies row i. One byte per column covers a row, so the
// first call tallies every row in a single scan and caches the result.
func (t *Bed) RowCounts(i int) Counts {
	if i < 0 || i >= t.m {
		panic("snptable: sample index out of range")
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.rowCounts == nil {
		rc := make([]Counts, t.m)
		for j := 0; j < t.n; j++ {
			col := t.colBytes(j)
			for k, b := range col {
				cc := byteCodes[b]
				lim := t.m - k*4
				if lim > 4 {
					lim = 4
				}
				for s := 0; s < lim; s++ {
					rc[k*4+s][cc[s]]++
				}
			}
		}
		t.rowCounts = rc
	}
	return t.rowCounts[i]
}

// SuccessMasks returns sample and marker retention masks. A sample is
// retained when the fraction of its genotypes that are called is at
// least minRowRate, and likewise for markers. The masks are computed
// independently from the full table, not iteratively. A rate of zero
// (or less) retains everything on that axis.
func (t *Bed) SuccessMasks(minRowRate, minColRate float64) (rows, cols []bool) {
	rows = make([]bool, t.m)
	for i := range rows {
		c := t.RowCounts(i)
		rows[i] = minRowRate <= 0 || rate(c) >= minRowRate
	}
	cols = make([]bool, t.n)
	for j := range cols {
		c := t.ColCounts(j)
		cols[j] = minColRate <= 0 || rate(c) >= minColRate
	}
	return rows, cols
}

func rate(c Counts) float64 {
	return float64(c.NonMissing()) / float64(c.Total())
}

// writeBed writes a bed header followed by the packed genotypes of the
// selected rows and columns of src, in the given index order.
func writeBed(w io.Writer, src Source, rows, cols []int) error {
	m, _ := src.Dims()
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.Write(bedMagic[:]); err != nil {
		return err
	}
	if whole := len(rows) == m; whole {
		for k, i := range rows {
			if i != k {
				whole = false
				break
			}
		}
		if t, ok := src.(*Bed); ok && whole {
			// row set is the identity, so packed column bytes
			// can be copied verbatim
			for _, j := range cols {
				if _, err := bw.Write(t.colBytes(j)); err != nil {
					return err
				}
			}
			return bw.Flush()
		}
	}
	colbuf := make([]GenotypeCode, m)
	buf := make([]byte, (len(rows)+3)/4)
	for _, j := range cols {
		src.Col(j, colbuf)
		for k := range buf {
			buf[k] = 0
		}
		for k, i := range rows {
			buf[k>>2] |= byte(colbuf[i]) << ((uint(k) & 3) * 2)
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Table is a genotype matrix together with its sample and marker
// sidecars. Persons[i] describes matrix row i and Variants[j] describes
// matrix column j.
type Table struct {
	*Bed
	Persons  []Person
	Variants []Variant
}

// Open opens the table stored at prefix.bed, prefix.bim, and
// prefix.fam (or their .gz variants). The genotype matrix dimensions
// are taken from the sidecars and checked against the .bed file size.
func Open(prefix string) (*Table, error) {
	return OpenFiles(sidecarPath(prefix, ".bed"), sidecarPath(prefix, ".fam"), sidecarPath(prefix, ".bim"))
}

// OpenFiles opens a table whose three files do not share a common
// prefix.
func OpenFiles(bedPath, famPath, bimPath string) (*Table, error) {
	people, err := ReadFam(famPath)
	if err != nil {
		return nil, err
	}
	variants, err := ReadBim(bimPath)
	if err != nil {
		return nil, err
	}
	bed, err := OpenBed(bedPath, len(people), len(variants))
	if err != nil {
		return nil, err
	}
	return &Table{Bed: bed, Persons: people, Variants: variants}, nil
}

// sidecarPath returns prefix+ext, or its .gz variant when only that
// exists.
func sidecarPath(prefix, ext string) string {
	p := prefix + ext
	if _, err := os.Stat(p); err == nil {
		return p
	}
	if _, err := os.Stat(p + ".gz"); err == nil {
		return p + ".gz"
	}
	return p
}
