// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpmerge concatenates the markers of genotype tables that
// share a sample list, such as the per-chromosome tables snpsplit
// writes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/snptable/snptable"
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
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
	outputPrefix := flags.String("o", "", "output table `prefix`")
	overwrite := flags.Bool("overwrite", false, "replace existing output files")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *outputPrefix == "" {
		err = errors.New("-o table prefix is required")
		return 2
	}
	if flags.NArg() == 0 {
		err = errors.New("input table prefixes are required as arguments")
		return 2
	}

	err = snptable.Merge(*outputPrefix, flags.Args(), *overwrite)
	if err != nil {
		return 1
	}
	fmt.Fprintln(stdout, *outputPrefix)
	return 0
}
