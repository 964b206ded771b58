// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpkin estimates the pairwise relatedness matrix of all
// samples in a genotype table and writes it as a numpy array.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

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
	methodName := flags.String("method", "grm", "`estimator`: grm, mom or robust")
	minMAF := flags.Float64("min-maf", snptable.DefaultMinMAF, "exclude markers with minor allele frequency at or below `F` (negative to disable)")
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
	method, err := snptable.ParseKinshipMethod(*methodName)
	if err != nil {
		return 2
	}

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()
	phi, err := snptable.GRM(context.Background(), t, snptable.GRMOptions{
		Method: method,
		MinMAF: *minMAF,
	})
	if err != nil {
		return 1
	}

	if *idFilename != "" {
		err = writeIDs(*idFilename, t.Persons)
		if err != nil {
			return 1
		}
	}
	m, _ := phi.Dims()
	log.Printf("writing numpy: %d x %d", m, m)
	if *outputFilename == "-" {
		err = snptable.WriteNpy(stdout, phi)
	} else {
		err = snptable.WriteNpyFile(*outputFilename, phi)
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
