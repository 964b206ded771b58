// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snppca projects the samples of a genotype table onto their
// leading principal components and writes the projection as a numpy
// array, one row per sample. Genotypes are centered, scaled, and
// mean-imputed by default; markers with zero variance propagate NaN
// through the projection, so screen them out first.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/james-bowman/nlp"
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
	outputFilename := flags.String("o", "-", "output `file` (.npy or .npy.gz)")
	components := flags.Int("components", 4, "number of components")
	modelName := flags.String("model", "additive", "genotype `model`: additive, dominant or recessive")
	center := flags.Bool("center", true, "subtract each marker's mean dosage")
	scale := flags.Bool("scale", true, "divide each marker by its dosage standard deviation")
	impute := flags.Bool("impute", true, "replace missing calls with the marker mean")
	idFilename := flags.String("ids", "", "also write sample IDs, one \"FID SID\" per line, to `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *inputPrefix == "" {
		err = errors.New("-i table prefix is required")
		return 2
	}
	model, err := snptable.ParseModel(*modelName)
	if err != nil {
		return 2
	}

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()
	m, n := t.Dims()
	log.Printf("converting %d samples x %d markers", m, n)
	dense, err := snptable.Convert(t, snptable.ConvertOptions{
		Model:  model,
		Center: *center,
		Scale:  *scale,
		Impute: *impute,
	})
	if err != nil {
		return 1
	}

	// nlp treats columns as data points, so feed it markers x samples
	mtx := dense.T()
	log.Print("fitting")
	transformer := nlp.NewPCA(*components)
	transformer.Fit(mtx)
	log.Print("transforming")
	out, err := transformer.Transform(mtx)
	if err != nil {
		return 1
	}
	proj := out.T()

	if *idFilename != "" {
		err = writeIDs(*idFilename, t.Persons)
		if err != nil {
			return 1
		}
	}
	rows, cols := proj.Dims()
	log.Printf("writing numpy: %d rows, %d cols", rows, cols)
	if *outputFilename == "-" {
		err = snptable.WriteNpy(stdout, proj)
	} else {
		err = snptable.WriteNpyFile(*outputFilename, proj)
	}
	if err != nil {
		return 1
	}
	log.Print("done")
	return 0
}

func writeIDs(path string, people []snptable.Person) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0777)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, p := range people {
		fmt.Fprintf(w, "%s\t%s\n", p.FamilyID, p.SampleID)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
