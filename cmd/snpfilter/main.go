// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpfilter copies a genotype table, keeping only the samples
// and markers selected by ID lists, chromosome, position range, and
// genotyping success rate. Success rates are computed on the full
// input table, before any other selection is applied.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/snptable/snptable"
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		log.StandardLogger().Formatter = &log.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputPrefix := flags.String("i", "", "input table `prefix`")
	outputPrefix := flags.String("o", "", "output table `prefix`")
	overwrite := flags.Bool("overwrite", false, "replace existing output files")
	sampleFile := flags.String("samples", "", "keep samples listed in `file` (one \"ID\" or \"FID ID\" per line)")
	markerFile := flags.String("markers", "", "keep markers listed in `file` (one ID per line)")
	chrList := flags.String("chr", "", "keep markers on these `chromosomes` (comma separated)")
	fromBP := flags.Int("from-bp", -1, "keep markers at `position` or above")
	toBP := flags.Int("to-bp", -1, "keep markers at `position` or below")
	minSampleRate := flags.Float64("min-sample-rate", 0, "drop samples whose genotyping success rate is below `rate`")
	minMarkerRate := flags.Float64("min-marker-rate", 0, "drop markers whose genotyping success rate is below `rate`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *inputPrefix == "" || *outputPrefix == "" {
		err = errors.New("-i and -o table prefixes are required")
		return 2
	}

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()

	var rows []int
	if *sampleFile != "" {
		rows, err = selectSamples(t, *sampleFile)
		if err != nil {
			return 1
		}
	}
	var cols []int
	if *markerFile != "" || *chrList != "" || *fromBP >= 0 || *toBP >= 0 {
		cols, err = selectMarkers(t, *markerFile, *chrList, *fromBP, *toBP)
		if err != nil {
			return 1
		}
	}
	if *minSampleRate > 0 || *minMarkerRate > 0 {
		rowMask, colMask := t.SuccessMasks(*minSampleRate, *minMarkerRate)
		rows = maskIndices(rows, rowMask)
		cols = maskIndices(cols, colMask)
		log.Printf("success-rate screen keeps %d samples, %d markers", len(rows), len(cols))
	}

	err = snptable.Filter(t, rows, cols, *outputPrefix, *overwrite)
	if err != nil {
		return 1
	}
	fmt.Fprintln(stdout, *outputPrefix)
	return 0
}

// maskIndices keeps the selected indices whose mask entry is true. A
// nil selection means every index.
func maskIndices(sel []int, mask []bool) []int {
	out := []int{}
	if sel == nil {
		for i, ok := range mask {
			if ok {
				out = append(out, i)
			}
		}
		return out
	}
	for _, i := range sel {
		if mask[i] {
			out = append(out, i)
		}
	}
	return out
}

// readIDList loads one ID per line; multiple fields on a line are
// joined with a tab, matching how selectSamples builds its keys.
func readIDList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ids := map[string]bool{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		ids[strings.Join(fields, "\t")] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ids, nil
}

func selectSamples(t *snptable.Table, path string) ([]int, error) {
	want, err := readIDList(path)
	if err != nil {
		return nil, err
	}
	rows := []int{}
	matched := map[string]bool{}
	for i, p := range t.Persons {
		if want[p.SampleID] {
			rows = append(rows, i)
			matched[p.SampleID] = true
		} else if key := p.FamilyID + "\t" + p.SampleID; want[key] {
			rows = append(rows, i)
			matched[key] = true
		}
	}
	if len(matched) < len(want) {
		return nil, fmt.Errorf("%d of %d sample IDs in %s not present in the table", len(want)-len(matched), len(want), path)
	}
	log.Printf("keeping %d of %d samples", len(rows), len(t.Persons))
	return rows, nil
}

func selectMarkers(t *snptable.Table, path, chrList string, fromBP, toBP int) ([]int, error) {
	var want map[string]bool
	if path != "" {
		var err error
		want, err = readIDList(path)
		if err != nil {
			return nil, err
		}
	}
	var chroms map[string]bool
	if chrList != "" {
		chroms = map[string]bool{}
		for _, chr := range strings.Split(chrList, ",") {
			chroms[chr] = true
		}
	}
	cols := []int{}
	matched := map[string]bool{}
	for j, v := range t.Variants {
		if want != nil {
			if !want[v.ID] {
				continue
			}
			matched[v.ID] = true
		}
		if chroms != nil && !chroms[v.Chromosome] {
			continue
		}
		if fromBP >= 0 && v.Position < fromBP {
			continue
		}
		if toBP >= 0 && v.Position > toBP {
			continue
		}
		cols = append(cols, j)
	}
	if want != nil && len(matched) < len(want) {
		return nil, fmt.Errorf("%d of %d marker IDs in %s not present in the table", len(want)-len(matched), len(want), path)
	}
	log.Printf("keeping %d of %d markers", len(cols), len(t.Variants))
	return cols, nil
}
