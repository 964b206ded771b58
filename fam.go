// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"bufio"
	"fmt"
	"strings"
)

// Person is one sample line from a .fam file. All fields are kept
// verbatim so rewritten files reproduce their inputs exactly.
type Person struct {
	FamilyID   string
	SampleID   string
	PaternalID string
	MaternalID string
	Sex        string
	Phenotype  string
}

// ReadFam reads a .fam (or .fam.gz) sample file. Row order defines row
// order in the genotype matrix.
func ReadFam(path string) ([]Person, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var people []Person
	scanner := bufio.NewScanner(f)
	for ln := 1; scanner.Scan(); ln++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s line %d: 6 fields expected, found %d: %w", path, ln, len(fields), ErrFormat)
		}
		people = append(people, Person{
			FamilyID:   fields[0],
			SampleID:   fields[1],
			PaternalID: fields[2],
			MaternalID: fields[3],
			Sex:        fields[4],
			Phenotype:  fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return people, nil
}

// WriteFam writes people to a tab-separated .fam (or .fam.gz) file,
// replacing any existing file.
func WriteFam(path string, people []Person) error {
	f, err := createFile(path, true)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, p := range people {
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.FamilyID, p.SampleID, p.PaternalID, p.MaternalID, p.Sex, p.Phenotype)
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
