// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// AlleleFreq returns the frequency of allele 2 among called alleles,
// NaN when every genotype is missing.
func (c Counts) AlleleFreq() float64 {
	called := c.NonMissing()
	if called == 0 {
		return math.NaN()
	}
	return float64(c[Het]+2*c[HomA2]) / float64(2*called)
}

// MAF returns the minor allele frequency, min(p, 1-p) for allele 2
// frequency p. NaN when every genotype is missing.
func (c Counts) MAF() float64 {
	p := c.AlleleFreq()
	return math.Min(p, 1-p)
}

// MinorAlleleCount returns the number of copies of the rarer allele
// among called genotypes.
func (c Counts) MinorAlleleCount() int {
	a1 := 2*c[HomA1] + c[Het]
	a2 := c[Het] + 2*c[HomA2]
	if a1 < a2 {
		return a1
	}
	return a2
}

// MissingRate returns the fraction of genotypes that are missing, NaN
// for an empty tally.
func (c Counts) MissingRate() float64 {
	t := c.Total()
	if t == 0 {
		return math.NaN()
	}
	return float64(c[Missing]) / float64(t)
}

// HetRate returns the fraction of called genotypes that are
// heterozygous, NaN when every genotype is missing.
func (c Counts) HetRate() float64 {
	called := c.NonMissing()
	if called == 0 {
		return math.NaN()
	}
	return float64(c[Het]) / float64(called)
}

var chisquared = distuv.ChiSquared{K: 1}

// HWE tests the tally against Hardy-Weinberg equilibrium and returns
// the chi-square statistic and its upper tail probability (1 degree of
// freedom). Monomorphic tallies fit equilibrium exactly and return
// (0, 1); an empty tally returns NaNs.
func (c Counts) HWE() (chi2, p float64) {
	obs11, obs12, obs22 := float64(c[HomA1]), float64(c[Het]), float64(c[HomA2])
	n := obs11 + obs12 + obs22
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	a1 := 2*obs11 + obs12
	a2 := 2*obs22 + obs12
	if a1 == 0 || a2 == 0 {
		return 0, 1
	}
	p1 := a1 / (2 * n)
	p2 := a2 / (2 * n)
	exp11 := p1 * p1 * n
	exp12 := 2 * p1 * p2 * n
	exp22 := p2 * p2 * n
	chi2 = (obs11-exp11)*(obs11-exp11)/exp11 +
		(obs12-exp12)*(obs12-exp12)/exp12 +
		(obs22-exp22)*(obs22-exp22)/exp22
	return chi2, chisquared.Survival(chi2)
}

// MAFs returns the minor allele frequency of every marker.
func MAFs(src Source) []float64 {
	_, n := src.Dims()
	out := make([]float64, n)
	for j := range out {
		out[j] = src.ColCounts(j).MAF()
	}
	return out
}

// AlleleFreqs returns the allele 2 frequency of every marker.
func AlleleFreqs(src Source) []float64 {
	_, n := src.Dims()
	out := make([]float64, n)
	for j := range out {
		out[j] = src.ColCounts(j).AlleleFreq()
	}
	return out
}

// MinorAlleleCounts returns the minor allele count of every marker.
func MinorAlleleCounts(src Source) []int {
	_, n := src.Dims()
	out := make([]int, n)
	for j := range out {
		out[j] = src.ColCounts(j).MinorAlleleCount()
	}
	return out
}

// ColMissingRates returns the fraction of samples missing at every
// marker.
func ColMissingRates(src Source) []float64 {
	_, n := src.Dims()
	out := make([]float64, n)
	for j := range out {
		out[j] = src.ColCounts(j).MissingRate()
	}
	return out
}

// RowMissingRates returns the fraction of markers missing for every
// sample.
func RowMissingRates(src Source) []float64 {
	m, _ := src.Dims()
	out := make([]float64, m)
	for i := range out {
		out[i] = src.RowCounts(i).MissingRate()
	}
	return out
}

// HetRates returns the heterozygosity rate of every sample.
func HetRates(src Source) []float64 {
	m, _ := src.Dims()
	out := make([]float64, m)
	for i := range out {
		out[i] = src.RowCounts(i).HetRate()
	}
	return out
}

// HWEPValues returns the Hardy-Weinberg equilibrium tail probability
// of every marker.
func HWEPValues(src Source) []float64 {
	_, n := src.Dims()
	out := make([]float64, n)
	for j := range out {
		_, out[j] = src.ColCounts(j).HWE()
	}
	return out
}
