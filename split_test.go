// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"errors"
	"io/ioutil"
	"os"

	"gopkg.in/check.v1"
)

type splitSuite struct{}

var _ = check.Suite(&splitSuite{})

var splitChroms = []string{"1", "1", "2", "X", "2", "1", "X", "X", "1"}

func (s *splitSuite) TestSplitByChromosome(c *check.C) {
	grid := randomGrid(7, 9, 5, 50)
	t := openTable(c, grid, splitChroms)
	defer t.Close()
	destPrefix := c.MkDir() + "/part"
	keys, err := SplitByChromosome(t, destPrefix, false)
	c.Assert(err, check.IsNil)
	c.Check(keys, check.DeepEquals, []string{"1", "2", "X"})

	groups := map[string][]int{
		"1": {0, 1, 5, 8},
		"2": {2, 4},
		"X": {3, 6, 7},
	}
	for _, key := range keys {
		part, err := Open(destPrefix + "." + key)
		c.Assert(err, check.IsNil)
		m, n := part.Dims()
		c.Check(m, check.Equals, 7)
		c.Assert(n, check.Equals, len(groups[key]))
		c.Check(part.Persons, check.DeepEquals, t.Persons)
		for j, sj := range groups[key] {
			c.Check(part.Variants[j], check.DeepEquals, t.Variants[sj])
			for i := 0; i < m; i++ {
				c.Check(part.Code(i, j), check.Equals, grid[i][sj])
			}
		}
		part.Close()
	}
}

func (s *splitSuite) TestMergeInvertsSplit(c *check.C) {
	grid := randomGrid(6, 9, 4, 51)
	t := openTable(c, grid, splitChroms)
	defer t.Close()
	dir := c.MkDir()
	keys, err := SplitByChromosome(t, dir+"/part", false)
	c.Assert(err, check.IsNil)

	prefixes := make([]string, len(keys))
	for i, key := range keys {
		prefixes[i] = dir + "/part." + key
	}
	c.Assert(Merge(dir+"/merged", prefixes, false), check.IsNil)

	merged, err := Open(dir + "/merged")
	c.Assert(err, check.IsNil)
	defer merged.Close()

	// merged column order is the split groups concatenated
	perm := []int{0, 1, 5, 8, 2, 4, 3, 6, 7}
	m, n := merged.Dims()
	c.Check(m, check.Equals, 6)
	c.Assert(n, check.Equals, 9)
	c.Check(merged.Persons, check.DeepEquals, t.Persons)
	for j, sj := range perm {
		c.Check(merged.Variants[j], check.DeepEquals, t.Variants[sj])
		for i := 0; i < m; i++ {
			c.Check(merged.Code(i, j), check.Equals, grid[i][sj])
		}
	}
}

func (s *splitSuite) TestMergeSampleMismatch(c *check.C) {
	dir := c.MkDir()
	a := writeTable(c, dir, tinyGrid, nil)
	bdir := c.MkDir()
	b := writeTable(c, bdir, tinyGrid, nil)
	people, err := ReadFam(b + ".fam")
	c.Assert(err, check.IsNil)
	people[2].SampleID = "someone-else"
	c.Assert(WriteFam(b+".fam", people), check.IsNil)

	err = Merge(dir+"/merged", []string{a, b}, false)
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*different samples.*`)
}

func (s *splitSuite) TestMergeNoInputs(c *check.C) {
	err := Merge(c.MkDir()+"/merged", nil, false)
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
}

func (s *splitSuite) TestRefuseOverwrite(c *check.C) {
	grid := randomGrid(5, 4, 0, 52)
	t := openTable(c, grid, []string{"1", "2", "1", "2"})
	defer t.Close()
	dir := c.MkDir()

	err := ioutil.WriteFile(dir+"/part.2.bed", []byte("x"), 0666)
	c.Assert(err, check.IsNil)
	_, err = SplitByChromosome(t, dir+"/part", false)
	c.Check(errors.Is(err, os.ErrExist), check.Equals, true)

	keys, err := SplitByChromosome(t, dir+"/part", true)
	c.Assert(err, check.IsNil)
	c.Check(keys, check.DeepEquals, []string{"1", "2"})

	prefixes := []string{dir + "/part.1", dir + "/part.2"}
	c.Assert(Merge(dir+"/merged", prefixes, false), check.IsNil)
	err = Merge(dir+"/merged", prefixes, false)
	c.Check(errors.Is(err, os.ErrExist), check.Equals, true)
}
