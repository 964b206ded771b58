// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpsplit writes one genotype table per chromosome and prints
// the prefix of each table written.
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
	inputPrefix := flags.String("i", "", "input table `prefix`")
	outputPrefix := flags.String("o", "", "output `prefix` (writes prefix.<chromosome>.bed etc; default input prefix)")
	overwrite := flags.Bool("overwrite", false, "replace existing output files")
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
	if *outputPrefix == "" {
		*outputPrefix = *inputPrefix
	}

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()
	keys, err := snptable.SplitByChromosome(t, *outputPrefix, *overwrite)
	if err != nil {
		return 1
	}
	for _, key := range keys {
		fmt.Fprintf(stdout, "%s.%s\n", *outputPrefix, key)
	}
	return 0
}
