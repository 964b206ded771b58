// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Variant is one marker line from a .bim file. Allele1 is the allele
// whose dosage the 2-bit codes refer to ("a1"), conventionally the
// minor allele. Morgans is kept as the verbatim input token so files
// with "0" placeholders or odd precision survive a rewrite unchanged.
type Variant struct {
	Chromosome string
	ID         string
	Morgans    string
	Position   int
	Allele1    string
	Allele2    string
}

// ReadBim reads a .bim (or .bim.gz) marker file. Row order defines
// column order in the genotype matrix.
func ReadBim(path string) ([]Variant, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var variants []Variant
	scanner := bufio.NewScanner(f)
	for ln := 1; scanner.Scan(); ln++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s line %d: 6 fields expected, found %d: %w", path, ln, len(fields), ErrFormat)
		}
		pos, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad position %q: %w", path, ln, fields[3], ErrFormat)
		}
		variants = append(variants, Variant{
			Chromosome: fields[0],
			ID:         fields[1],
			Morgans:    fields[2],
			Position:   pos,
			Allele1:    fields[4],
			Allele2:    fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return variants, nil
}

// WriteBim writes variants to a tab-separated .bim (or .bim.gz) file,
// replacing any existing file.
func WriteBim(path string, variants []Variant) error {
	f, err := createFile(path, true)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, v := range variants {
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", v.Chromosome, v.ID, v.Morgans, v.Position, v.Allele1, v.Allele2)
		if err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if err = w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
