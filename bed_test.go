// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"errors"
	"io/ioutil"
	"math"
	"os"

	"gopkg.in/check.v1"
)

type bedSuite struct{}

var _ = check.Suite(&bedSuite{})

func (s *bedSuite) TestCodeTables(c *check.C) {
	for b := 0; b < 256; b++ {
		n := byteCounts[b]
		c.Assert(int(n[0])+int(n[1])+int(n[2])+int(n[3]), check.Equals, 4)
		var repacked byte
		for pos, code := range byteCodes[b] {
			repacked |= byte(code) << (2 * pos)
		}
		c.Assert(repacked, check.Equals, byte(b))
	}
	for _, model := range []Model{Additive, Dominant, Recessive} {
		c.Check(math.IsNaN(model.Value(Missing)), check.Equals, true)
	}
	c.Check(Additive.Value(HomA1), check.Equals, 0.0)
	c.Check(Additive.Value(Het), check.Equals, 1.0)
	c.Check(Additive.Value(HomA2), check.Equals, 2.0)
	c.Check(Dominant.Value(HomA2), check.Equals, 1.0)
	c.Check(Recessive.Value(Het), check.Equals, 0.0)
	c.Check(Recessive.Value(HomA2), check.Equals, 1.0)
}

func (s *bedSuite) TestOpenTable(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	m, n := t.Dims()
	c.Check(m, check.Equals, 4)
	c.Check(n, check.Equals, 2)
	c.Check(t.Persons, check.HasLen, 4)
	c.Check(t.Variants, check.HasLen, 2)
	c.Check(t.Persons[2].SampleID, check.Equals, "s2")
	c.Check(t.Variants[1].ID, check.Equals, "rs1")
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			c.Check(t.Code(i, j), check.Equals, tinyGrid[i][j])
		}
	}
}

func (s *bedSuite) TestHeaderErrors(c *check.C) {
	dir := c.MkDir()
	write := func(name string, data []byte) string {
		err := ioutil.WriteFile(dir+"/"+name, data, 0666)
		c.Assert(err, check.IsNil)
		return dir + "/" + name
	}

	path := write("badmagic.bed", []byte{0x6c, 0x00, 0x01, 0xff, 0xff})
	_, err := OpenBed(path, 4, 2)
	c.Check(errors.Is(err, ErrFormat), check.Equals, true, check.Commentf("%v", err))

	path = write("rowmajor.bed", []byte{0x6c, 0x1b, 0x00, 0xff, 0xff})
	_, err = OpenBed(path, 4, 2)
	c.Check(errors.Is(err, ErrFormat), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*sample-major.*`)

	path = write("short.bed", []byte{0x6c, 0x1b, 0x01, 0xff})
	_, err = OpenBed(path, 4, 2)
	c.Check(errors.Is(err, ErrFormat), check.Equals, true)

	_, err = OpenBed(dir+"/nosuch.bed", 4, 2)
	c.Check(os.IsNotExist(err), check.Equals, true)

	_, err = OpenBed(write("neg.bed", nil), -1, 2)
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
}

func (s *bedSuite) TestIndexPanics(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	c.Check(func() { t.Code(4, 0) }, check.PanicMatches, `snptable: sample index out of range`)
	c.Check(func() { t.Code(0, 2) }, check.PanicMatches, `snptable: marker index out of range`)
	c.Check(func() { t.Code(-1, 0) }, check.PanicMatches, `snptable: sample index out of range`)
	c.Check(func() { t.ColCounts(2) }, check.PanicMatches, `snptable: marker index out of range`)
	c.Check(func() { t.RowCounts(-1) }, check.PanicMatches, `snptable: sample index out of range`)
}

func (s *bedSuite) TestCounts(c *check.C) {
	grid := randomGrid(13, 7, 4, 1)
	t := openTable(c, grid, nil)
	defer t.Close()
	for j := 0; j < 7; j++ {
		c.Check(t.ColCounts(j), check.DeepEquals, grid.ColCounts(j))
		// cached path returns the same tally
		c.Check(t.ColCounts(j), check.DeepEquals, grid.ColCounts(j))
	}
	for i := 0; i < 13; i++ {
		c.Check(t.RowCounts(i), check.DeepEquals, grid.RowCounts(i))
	}

	tiny := openTable(c, tinyGrid, nil)
	defer tiny.Close()
	c.Check(tiny.ColCounts(0), check.Equals, Counts{1, 1, 1, 1})
}

func (s *bedSuite) TestColumnPadding(c *check.C) {
	// trailing pad bits are hom-a1 shaped and must not be counted
	allHom := make(gridSource, 5)
	allMiss := make(gridSource, 6)
	for i := range allHom {
		allHom[i] = []GenotypeCode{HomA2}
	}
	for i := range allMiss {
		allMiss[i] = []GenotypeCode{Missing}
	}
	t := openTable(c, allHom, nil)
	defer t.Close()
	c.Check(t.ColCounts(0), check.Equals, Counts{0, 0, 0, 5})

	t2 := openTable(c, allMiss, nil)
	defer t2.Close()
	c.Check(t2.ColCounts(0), check.Equals, Counts{0, 6, 0, 0})
	c.Check(t2.RowCounts(5), check.Equals, Counts{0, 1, 0, 0})
}

func (s *bedSuite) TestColMatchesCode(c *check.C) {
	grid := randomGrid(9, 4, 5, 2)
	t := openTable(c, grid, nil)
	defer t.Close()
	for j := 0; j < 4; j++ {
		col := t.Col(j, nil)
		c.Assert(col, check.HasLen, 9)
		for i, g := range col {
			c.Check(g, check.Equals, grid[i][j])
		}
	}
}

func (s *bedSuite) TestGzTable(c *check.C) {
	grid := randomGrid(10, 5, 6, 3)
	prefix := writeTable(c, c.MkDir(), grid, nil)
	for _, ext := range []string{".bed", ".bim", ".fam"} {
		buf, err := ioutil.ReadFile(prefix + ext)
		c.Assert(err, check.IsNil)
		w, err := createFile(prefix+ext+".gz", false)
		c.Assert(err, check.IsNil)
		_, err = w.Write(buf)
		c.Assert(err, check.IsNil)
		c.Assert(w.Close(), check.IsNil)
		c.Assert(os.Remove(prefix+ext), check.IsNil)
	}
	t, err := Open(prefix)
	c.Assert(err, check.IsNil)
	defer t.Close()
	m, n := t.Dims()
	c.Check(m, check.Equals, 10)
	c.Check(n, check.Equals, 5)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			c.Check(t.Code(i, j), check.Equals, grid[i][j])
		}
	}
}

func (s *bedSuite) TestSuccessMasks(c *check.C) {
	grid := gridSource{
		{Het, Het, Het, Het},
		{Missing, Missing, Het, Het},
		{Missing, Missing, Missing, Missing},
		{HomA2, Het, HomA1, Het},
	}
	t := openTable(c, grid, nil)
	defer t.Close()
	rows, cols := t.SuccessMasks(0.75, 0.6)
	c.Check(rows, check.DeepEquals, []bool{true, false, false, true})
	c.Check(cols, check.DeepEquals, []bool{false, false, true, true})

	rows, cols = t.SuccessMasks(0, 0)
	c.Check(rows, check.DeepEquals, []bool{true, true, true, true})
	c.Check(cols, check.DeepEquals, []bool{true, true, true, true})
}

func (s *bedSuite) TestClose(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	c.Check(t.Close(), check.IsNil)
	c.Check(t.Close(), check.IsNil)
}
