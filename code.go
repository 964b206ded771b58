// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"fmt"
	"math"
)

// GenotypeCode is a 2-bit genotype call. The numeric values are the raw
// 2-bit codes stored in .bed files, so packed bytes can be used directly
// without recoding.
type GenotypeCode uint8

const (
	HomA1   GenotypeCode = 0 // two copies of allele 1
	Missing GenotypeCode = 1 // no call
	Het     GenotypeCode = 2 // one copy of each allele
	HomA2   GenotypeCode = 3 // two copies of allele 2
)

func (g GenotypeCode) String() string {
	switch g {
	case HomA1:
		return "hom-a1"
	case Missing:
		return "missing"
	case Het:
		return "het"
	case HomA2:
		return "hom-a2"
	}
	return "invalid"
}

// Model maps genotype codes to numeric dosage values.
type Model int

const (
	Additive  Model = iota // copies of allele 2: 0, 1, 2
	Dominant               // at least one copy of allele 2: 0, 1, 1
	Recessive              // two copies of allele 2: 0, 0, 1
)

func (m Model) String() string {
	switch m {
	case Additive:
		return "additive"
	case Dominant:
		return "dominant"
	case Recessive:
		return "recessive"
	}
	return "invalid"
}

func (m Model) valid() bool { return m >= Additive && m <= Recessive }

// ParseModel returns the Model named by its String form.
func ParseModel(name string) (Model, error) {
	for _, m := range []Model{Additive, Dominant, Recessive} {
		if name == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown genotype model %q", name)
}

// modelValues[model][code] is the numeric value of code under model.
// Missing decodes to NaN.
var modelValues = func() [3][4]float64 {
	nan := math.NaN()
	var v [3][4]float64
	v[Additive] = [4]float64{0, nan, 1, 2}
	v[Dominant] = [4]float64{0, nan, 1, 1}
	v[Recessive] = [4]float64{0, nan, 0, 1}
	return v
}()

// Value returns the numeric value of g under m, NaN for Missing.
func (m Model) Value(g GenotypeCode) float64 {
	return modelValues[m][g]
}

// byteCodes[b] is the four genotype codes packed in byte b, lowest bit
// pair first (sample order within the byte).
var byteCodes = func() (tab [256][4]GenotypeCode) {
	for b := 0; b < 256; b++ {
		for s := 0; s < 4; s++ {
			tab[b][s] = GenotypeCode(b >> (2 * s) & 3)
		}
	}
	return
}()

// byteCounts[b][g] is how many of the four codes packed in byte b equal
// g. One table lookup tallies four genotypes at once.
var byteCounts = func() (tab [256][4]uint8) {
	for b := 0; b < 256; b++ {
		for s := 0; s < 4; s++ {
			tab[b][b>>(2*s)&3]++
		}
	}
	return
}()

// Counts tallies genotype codes in one row or column, indexed by
// GenotypeCode.
type Counts [4]int

// Total is the number of genotypes tallied, including missing.
func (c Counts) Total() int {
	return c[HomA1] + c[Missing] + c[Het] + c[HomA2]
}

// NonMissing is the number of called genotypes.
func (c Counts) NonMissing() int {
	return c[HomA1] + c[Het] + c[HomA2]
}

func (c *Counts) addByte(b byte) {
	n := byteCounts[b]
	c[0] += int(n[0])
	c[1] += int(n[1])
	c[2] += int(n[2])
	c[3] += int(n[3])
}

// moments returns the mean and population standard deviation of the
// tallied non-missing genotypes under model. Both are NaN when every
// genotype is missing.
func (c Counts) moments(model Model) (mean, stddev float64) {
	nn := c.NonMissing()
	if nn == 0 {
		return math.NaN(), math.NaN()
	}
	v := &modelValues[model]
	mean = (v[HomA1]*float64(c[HomA1]) + v[Het]*float64(c[Het]) + v[HomA2]*float64(c[HomA2])) / float64(nn)
	variance := (float64(c[HomA1])*(v[HomA1]-mean)*(v[HomA1]-mean) +
		float64(c[Het])*(v[Het]-mean)*(v[Het]-mean) +
		float64(c[HomA2])*(v[HomA2]-mean)*(v[HomA2]-mean)) / float64(nn)
	return mean, math.Sqrt(variance)
}
