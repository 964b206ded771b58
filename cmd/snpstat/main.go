// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpstat summarizes a genotype table as JSON: table shape,
// call rate, and the spread of per-marker and per-sample statistics.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/montanaflynn/stats"
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
	inputPrefix := flags.String("i", "", "input table `prefix` (reads prefix.bed, prefix.bim, prefix.fam)")
	outputFilename := flags.String("o", "-", "output `file`")
	hweThresh := flags.Float64("hwe", 1e-6, "report markers with an equilibrium `p`-value below this")
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

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()

	var output io.Writer = stdout
	if *outputFilename != "-" {
		var f *os.File
		f, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0777)
		if err != nil {
			return 1
		}
		defer f.Close()
		output = f
	}
	err = doStats(t, *hweThresh, output)
	if err != nil {
		return 1
	}
	return 0
}

func doStats(t *snptable.Table, hweThresh float64, output io.Writer) error {
	var ret struct {
		Samples            int
		Markers            int
		MissingGenotypes   int
		CallRate           float64
		MonomorphicMarkers int
		HWEFailures        int
		MAF                fivenum
		MarkerMissing      fivenum
		SampleMissing      fivenum
		SampleHet          fivenum
	}
	m, n := t.Dims()
	ret.Samples = m
	ret.Markers = n

	mafs := snptable.MAFs(t)
	for _, maf := range mafs {
		if maf == 0 {
			ret.MonomorphicMarkers++
		}
	}
	for _, p := range snptable.HWEPValues(t) {
		if p < hweThresh {
			ret.HWEFailures++
		}
	}
	for j := 0; j < n; j++ {
		ret.MissingGenotypes += t.ColCounts(j)[snptable.Missing]
	}
	if m*n > 0 {
		ret.CallRate = 1 - float64(ret.MissingGenotypes)/float64(m*n)
	}
	ret.MAF = summarize(mafs)
	ret.MarkerMissing = summarize(snptable.ColMissingRates(t))
	ret.SampleMissing = summarize(snptable.RowMissingRates(t))
	ret.SampleHet = summarize(snptable.HetRates(t))

	return json.NewEncoder(output).Encode(ret)
}

type fivenum struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// summarize ignores NaN entries; an all-NaN or empty slice yields the
// zero fivenum, keeping the result encodable as JSON.
func summarize(xs []float64) fivenum {
	var kept []float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			kept = append(kept, x)
		}
	}
	var f fivenum
	if len(kept) == 0 {
		return f
	}
	f.Min, _ = stats.Min(kept)
	f.Q1, _ = stats.Percentile(kept, 25)
	f.Median, _ = stats.Median(kept)
	f.Q3, _ = stats.Percentile(kept, 75)
	f.Max, _ = stats.Max(kept)
	return f
}
