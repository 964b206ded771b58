// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"
)

// SplitByChromosome writes one table per chromosome, each at
// destPrefix.<chromosome>.bed/.bim/.fam, and returns the chromosomes
// in order of first appearance. Merge on the returned keys is the
// inverse operation.
func SplitByChromosome(t *Table, destPrefix string, overwrite bool) ([]string, error) {
	return Split(t, func(v Variant) string { return v.Chromosome }, destPrefix, overwrite)
}

// Split groups marker columns by key(variant), preserving column order
// within each group, and writes each group as a table at
// destPrefix.<key>.bed/.bim/.fam with the full sample set. Group
// tables are written concurrently. The keys are returned in order of
// first appearance.
func Split(t *Table, key func(Variant) string, destPrefix string, overwrite bool) ([]string, error) {
	groups := map[string][]int{}
	var keys []string
	for j, v := range t.Variants {
		k := key(v)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], j)
	}
	log.Printf("split: %d markers into %d groups", len(t.Variants), len(keys))
	th := throttle{Max: runtime.NumCPU()}
	for _, k := range keys {
		k := k
		th.Acquire()
		go func() {
			defer th.Release()
			th.Report(Filter(t, nil, groups[k], destPrefix+"."+k, overwrite))
		}()
	}
	if err := th.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Merge concatenates the marker columns of the tables at srcPrefixes,
// in the given order, into one table at destPrefix.bed/.bim/.fam.
// Every input must list the identical samples in identical order.
// Unless overwrite is true, existing destination files are an error.
func Merge(destPrefix string, srcPrefixes []string, overwrite bool) error {
	if len(srcPrefixes) == 0 {
		return fmt.Errorf("merge with no inputs: %w", ErrDimension)
	}
	if !overwrite {
		for _, ext := range []string{".bed", ".bim", ".fam"} {
			if _, err := os.Stat(destPrefix + ext); err == nil {
				return fmt.Errorf("%s%s: %w", destPrefix, ext, os.ErrExist)
			}
		}
	}
	tables := make([]*Table, len(srcPrefixes))
	defer func() {
		for _, tb := range tables {
			if tb != nil {
				tb.Close()
			}
		}
	}()
	var variants []Variant
	for i, prefix := range srcPrefixes {
		tb, err := Open(prefix)
		if err != nil {
			return err
		}
		tables[i] = tb
		if !samePersons(tables[0].Persons, tb.Persons) {
			return fmt.Errorf("%s and %s list different samples: %w", srcPrefixes[0], prefix, ErrDimension)
		}
		variants = append(variants, tb.Variants...)
	}
	m := len(tables[0].Persons)
	log.Printf("merge: %d tables, %d samples, %d markers -> %s", len(tables), m, len(variants), destPrefix)
	if err := WriteFam(destPrefix+".fam", tables[0].Persons); err != nil {
		return err
	}
	if err := WriteBim(destPrefix+".bim", variants); err != nil {
		return err
	}
	f, err := createFile(destPrefix+".bed", overwrite)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	if _, err := bw.Write(bedMagic[:]); err != nil {
		f.Close()
		return fmt.Errorf("%s.bed: %w", destPrefix, err)
	}
	// all inputs share the sample count, so packed column bytes can
	// be copied verbatim
	for _, tb := range tables {
		_, n := tb.Dims()
		for j := 0; j < n; j++ {
			if _, err := bw.Write(tb.colBytes(j)); err != nil {
				f.Close()
				return fmt.Errorf("%s.bed: %w", destPrefix, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%s.bed: %w", destPrefix, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s.bed: %w", destPrefix, err)
	}
	return nil
}

func samePersons(a, b []Person) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
