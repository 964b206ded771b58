// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"errors"
	"io/ioutil"

	"gopkg.in/check.v1"
)

type famSuite struct{}

var _ = check.Suite(&famSuite{})

func (s *famSuite) TestRoundTrip(c *check.C) {
	people := []Person{
		{"f1", "ind1", "0", "0", "1", "-9"},
		{"f1", "ind2", "ind1", "0", "2", "2.35"},
		{"f2", "ind3", "0", "0", "0", "1"},
	}
	path := c.MkDir() + "/x.fam"
	c.Assert(WriteFam(path, people), check.IsNil)
	got, err := ReadFam(path)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, people)
}

func (s *famSuite) TestGzRoundTrip(c *check.C) {
	people := []Person{{"f1", "ind1", "0", "0", "1", "-9"}}
	path := c.MkDir() + "/x.fam.gz"
	c.Assert(WriteFam(path, people), check.IsNil)
	got, err := ReadFam(path)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, people)
}

func (s *famSuite) TestSpaceSeparated(c *check.C) {
	path := c.MkDir() + "/x.fam"
	err := ioutil.WriteFile(path, []byte("f1 ind1 0 0 1 -9\n\nf1   ind2\t0 0 2 0.5\n"), 0666)
	c.Assert(err, check.IsNil)
	got, err := ReadFam(path)
	c.Assert(err, check.IsNil)
	c.Assert(got, check.HasLen, 2)
	c.Check(got[1].SampleID, check.Equals, "ind2")
	c.Check(got[1].Phenotype, check.Equals, "0.5")
}

func (s *famSuite) TestBadLine(c *check.C) {
	path := c.MkDir() + "/x.fam"
	err := ioutil.WriteFile(path, []byte("f1 ind1 0 0 1 -9\nf1 ind2 0 0 1\n"), 0666)
	c.Assert(err, check.IsNil)
	_, err = ReadFam(path)
	c.Check(errors.Is(err, ErrFormat), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*line 2.*`)
}
