// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"errors"
	"os"

	"gopkg.in/check.v1"
)

type filterSuite struct{}

var _ = check.Suite(&filterSuite{})

func (s *filterSuite) TestIndexRoundTrip(c *check.C) {
	grid := randomGrid(11, 6, 4, 40)
	t := openTable(c, grid, nil)
	defer t.Close()
	rows := []int{0, 2, 3, 5, 10}
	cols := []int{5, 0, 3} // order preserved, not sorted
	dest := c.MkDir() + "/out"
	c.Assert(Filter(t, rows, cols, dest, false), check.IsNil)

	sub, err := Open(dest)
	c.Assert(err, check.IsNil)
	defer sub.Close()
	m, n := sub.Dims()
	c.Check(m, check.Equals, 5)
	c.Check(n, check.Equals, 3)
	for i, si := range rows {
		c.Check(sub.Persons[i], check.Equals, t.Persons[si])
		for j, sj := range cols {
			c.Check(sub.Code(i, j), check.Equals, grid[si][sj])
		}
	}
	c.Check(sub.Variants[0].ID, check.Equals, "rs5")
	c.Check(sub.Variants[1].ID, check.Equals, "rs0")
	c.Check(sub.Variants[2].ID, check.Equals, "rs3")
}

func (s *filterSuite) TestRepeatedIndices(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	dest := c.MkDir() + "/out"
	c.Assert(Filter(t, []int{1, 1}, []int{0, 0, 1}, dest, false), check.IsNil)
	sub, err := Open(dest)
	c.Assert(err, check.IsNil)
	defer sub.Close()
	m, n := sub.Dims()
	c.Check(m, check.Equals, 2)
	c.Check(n, check.Equals, 3)
	c.Check(sub.Persons[0], check.Equals, sub.Persons[1])
	c.Check(sub.Code(0, 0), check.Equals, tinyGrid[1][0])
	c.Check(sub.Code(1, 1), check.Equals, tinyGrid[1][0])
	c.Check(sub.Code(0, 2), check.Equals, tinyGrid[1][1])
}

func (s *filterSuite) TestMasks(c *check.C) {
	grid := randomGrid(6, 4, 0, 41)
	t := openTable(c, grid, nil)
	defer t.Close()
	rowMask := []bool{true, false, true, true, false, true}
	colMask := []bool{false, true, true, false}
	dest := c.MkDir() + "/out"
	c.Assert(FilterMasks(t, rowMask, colMask, dest, false), check.IsNil)
	sub, err := Open(dest)
	c.Assert(err, check.IsNil)
	defer sub.Close()
	m, n := sub.Dims()
	c.Check(m, check.Equals, 4)
	c.Check(n, check.Equals, 2)
	c.Check(sub.Code(1, 0), check.Equals, grid[2][1])
	c.Check(sub.Code(3, 1), check.Equals, grid[5][2])
}

func (s *filterSuite) TestEmptySelection(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	dest := c.MkDir() + "/out"
	rowMask := []bool{false, false, false, false}
	c.Assert(FilterMasks(t, rowMask, nil, dest, false), check.IsNil)
	sub, err := Open(dest)
	c.Assert(err, check.IsNil)
	defer sub.Close()
	m, n := sub.Dims()
	c.Check(m, check.Equals, 0)
	c.Check(n, check.Equals, 2)
	c.Check(sub.Variants, check.HasLen, 2)
}

func (s *filterSuite) TestArgumentErrors(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	dest := c.MkDir() + "/out"

	err := FilterMasks(t, []bool{true}, nil, dest, false)
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)

	err = Filter(t, []int{0, 7}, nil, dest, false)
	c.Check(errors.Is(err, ErrIndex), check.Equals, true)

	err = Filter(t, nil, []int{-2}, dest, false)
	c.Check(errors.Is(err, ErrIndex), check.Equals, true)
}

func (s *filterSuite) TestRefuseOverwrite(c *check.C) {
	t := openTable(c, tinyGrid, nil)
	defer t.Close()
	dest := c.MkDir() + "/out"
	c.Assert(Filter(t, nil, nil, dest, false), check.IsNil)

	err := Filter(t, nil, nil, dest, false)
	c.Check(errors.Is(err, os.ErrExist), check.Equals, true)

	c.Assert(Filter(t, nil, []int{1}, dest, true), check.IsNil)
	sub, err := Open(dest)
	c.Assert(err, check.IsNil)
	defer sub.Close()
	_, n := sub.Dims()
	c.Check(n, check.Equals, 1)
	c.Check(sub.Variants[0].ID, check.Equals, "rs1")
}
