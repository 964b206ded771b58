// Copyright (C) The snptable Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package snptable

import (
	"errors"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/check.v1"
)

type implicitSuite struct{}

var _ = check.Suite(&implicitSuite{})

// operatorGrid has no missing calls and, with HomA1 and HomA2 forced
// into every column, nonzero variance under every model.
func operatorGrid(m, n int, seed int64) gridSource {
	g := randomGrid(m, n, 0, seed)
	for j := 0; j < n; j++ {
		g[0][j] = HomA1
		g[1][j] = HomA2
	}
	return g
}

func (s *implicitSuite) TestProductsMatchDense(c *check.C) {
	grid := operatorGrid(9, 6, 60)
	m, n := grid.Dims()
	rnd := rand.New(rand.NewSource(61))
	v := make([]float64, n)
	for j := range v {
		v[j] = rnd.NormFloat64()
	}
	v[2] = 0
	u := make([]float64, m)
	for i := range u {
		u[i] = rnd.NormFloat64()
	}

	for _, opts := range []ConvertOptions{
		{},
		{Center: true},
		{Center: true, Scale: true},
		{Model: Dominant, Scale: true},
		{Model: Recessive, Center: true},
		{Model: Recessive, Center: true, Scale: true},
	} {
		cm := check.Commentf("opts=%+v", opts)
		x, err := NewBitMatrix(grid, opts)
		c.Assert(err, check.IsNil, cm)
		dense, err := Convert(grid, opts)
		c.Assert(err, check.IsNil, cm)

		var want mat.VecDense
		want.MulVec(dense, mat.NewVecDense(n, v))
		got, err := x.MulVec(nil, v)
		c.Assert(err, check.IsNil, cm)
		checkClose(c, got, want.RawVector().Data, 1e-9)

		var wantT mat.VecDense
		wantT.MulVec(dense.T(), mat.NewVecDense(m, u))
		got, err = x.TransMulVec(nil, u)
		c.Assert(err, check.IsNil, cm)
		checkClose(c, got, wantT.RawVector().Data, 1e-9)
	}
}

func (s *implicitSuite) TestAtMatchesDense(c *check.C) {
	grid := operatorGrid(7, 5, 62)
	opts := ConvertOptions{Center: true, Scale: true}
	x, err := NewBitMatrix(grid, opts)
	c.Assert(err, check.IsNil)
	dense, err := Convert(grid, opts)
	c.Assert(err, check.IsNil)

	m, n := x.Dims()
	c.Check(m, check.Equals, 7)
	c.Check(n, check.Equals, 5)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			c.Check(x.At(i, j), check.Equals, dense.At(i, j), check.Commentf("i=%d j=%d", i, j))
		}
	}

	tr := x.T()
	tm, tn := tr.Dims()
	c.Check(tm, check.Equals, n)
	c.Check(tn, check.Equals, m)
	c.Check(tr.At(3, 6), check.Equals, x.At(6, 3))
}

func (s *implicitSuite) TestDestinationReuse(c *check.C) {
	grid := operatorGrid(6, 4, 63)
	x, err := NewBitMatrix(grid, ConvertOptions{Center: true})
	c.Assert(err, check.IsNil)
	v := []float64{1, -2, 0.5, 3}

	dst := make([]float64, 6)
	got, err := x.MulVec(dst, v)
	c.Assert(err, check.IsNil)
	c.Check(&got[0], check.Equals, &dst[0])

	fresh, err := x.MulVec(nil, v)
	c.Assert(err, check.IsNil)
	c.Check(fresh, check.DeepEquals, dst)
}

func (s *implicitSuite) TestRejectsMissing(c *check.C) {
	grid := randomGrid(8, 3, 0, 64)
	grid[4][1] = Missing
	_, err := NewBitMatrix(grid, ConvertOptions{})
	c.Check(errors.Is(err, ErrMissingData), check.Equals, true)
	c.Check(err, check.ErrorMatches, `marker 1 has 1 missing genotypes.*`)
}

func (s *implicitSuite) TestArgumentErrors(c *check.C) {
	grid := operatorGrid(5, 3, 65)
	_, err := NewBitMatrix(grid, ConvertOptions{Model: Model(9)})
	c.Check(err, check.NotNil)

	x, err := NewBitMatrix(grid, ConvertOptions{})
	c.Assert(err, check.IsNil)
	_, err = x.MulVec(nil, make([]float64, 2))
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
	_, err = x.MulVec(make([]float64, 4), make([]float64, 3))
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
	_, err = x.TransMulVec(nil, make([]float64, 3))
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
	_, err = x.TransMulVec(make([]float64, 5), make([]float64, 5))
	c.Check(errors.Is(err, ErrDimension), check.Equals, true)
}
