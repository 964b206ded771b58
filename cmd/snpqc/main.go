// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Command snpqc applies standard quality-control screens to a genotype
// table, writes the table that survives, and reports what each screen
// dropped as JSON.
//
// Thresholds come from a TOML config file:
//
//	imiss_ub = 0.1   # drop samples missing more than this fraction of calls
//	het_lb = 0.2     # drop samples with heterozygosity outside these bounds
//	het_ub = 0.35
//	gmiss = 0.05     # drop markers missing more than this fraction of calls
//	maf_lb = 0.01    # drop markers with minor allele frequency below this
//	hwe_ub = 28.374  # drop markers with equilibrium chi-square above this
//
// Omitted keys leave that screen disabled. Marker screens run first,
// then sample screens on the markers that survived.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/snptable/snptable"
)

type qcConfig struct {
	ImissUB float64 `toml:"imiss_ub"`
	HetLB   float64 `toml:"het_lb"`
	HetUB   float64 `toml:"het_ub"`
	Gmiss   float64 `toml:"gmiss"`
	MafLB   float64 `toml:"maf_lb"`
	HweUB   float64 `toml:"hwe_ub"`
}

func loadConfig(path string) (qcConfig, error) {
	conf := qcConfig{
		ImissUB: 1,
		HetLB:   0,
		HetUB:   1,
		Gmiss:   1,
		MafLB:   0,
		HweUB:   math.Inf(1),
	}
	if path == "" {
		return conf, nil
	}
	_, err := toml.DecodeFile(path, &conf)
	return conf, err
}

// markerDrop names the screen that rejects a marker tally, or returns
// "" to keep it. Markers with no calls at all fail the frequency
// screen.
func (conf qcConfig) markerDrop(c snptable.Counts) string {
	if c.MissingRate() > conf.Gmiss {
		return "missing"
	}
	if !(c.MAF() >= conf.MafLB) {
		return "maf"
	}
	if chi2, _ := c.HWE(); chi2 > conf.HweUB {
		return "hwe"
	}
	return ""
}

// sampleDrop names the screen that rejects a sample tally, or returns
// "" to keep it.
func (conf qcConfig) sampleDrop(c snptable.Counts) string {
	if c.MissingRate() > conf.ImissUB {
		return "missing"
	}
	if het := c.HetRate(); !(het >= conf.HetLB && het <= conf.HetUB) {
		return "het"
	}
	return ""
}

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
	configFile := flags.String("config", "", "TOML `file` with screen thresholds")
	reportFilename := flags.String("report", "-", "write the JSON screen report to `file`")
	overwrite := flags.Bool("overwrite", false, "replace existing output files")
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
	conf, err := loadConfig(*configFile)
	if err != nil {
		return 1
	}

	t, err := snptable.Open(*inputPrefix)
	if err != nil {
		return 1
	}
	defer t.Close()

	var ret struct {
		Samples               int
		SamplesKept           int
		Markers               int
		MarkersKept           int
		MarkersDroppedMissing int
		MarkersDroppedMAF     int
		MarkersDroppedHWE     int
		SamplesDroppedMissing int
		SamplesDroppedHet     int
	}
	m, n := t.Dims()
	ret.Samples = m
	ret.Markers = n

	cols := []int{}
	for j := 0; j < n; j++ {
		switch conf.markerDrop(t.ColCounts(j)) {
		case "":
			cols = append(cols, j)
		case "missing":
			ret.MarkersDroppedMissing++
		case "maf":
			ret.MarkersDroppedMAF++
		case "hwe":
			ret.MarkersDroppedHWE++
		}
	}
	ret.MarkersKept = len(cols)
	log.Printf("marker screens: %d of %d kept", len(cols), n)

	view, err := snptable.NewView(t, nil, cols)
	if err != nil {
		return 1
	}
	rows := []int{}
	for i := 0; i < m; i++ {
		switch conf.sampleDrop(view.RowCounts(i)) {
		case "":
			rows = append(rows, i)
		case "missing":
			ret.SamplesDroppedMissing++
		case "het":
			ret.SamplesDroppedHet++
		}
	}
	ret.SamplesKept = len(rows)
	log.Printf("sample screens: %d of %d kept", len(rows), m)

	err = snptable.Filter(t, rows, cols, *outputPrefix, *overwrite)
	if err != nil {
		return 1
	}

	var report io.Writer = stdout
	if *reportFilename != "-" {
		var f *os.File
		f, err = os.OpenFile(*reportFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0777)
		if err != nil {
			return 1
		}
		defer f.Close()
		report = f
	}
	err = json.NewEncoder(report).Encode(ret)
	if err != nil {
		return 1
	}
	return 0
}
