package exhaustive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/dpx/problem"
	"github.com/crillab/dpx/px"
)

func TestRecombine(t *testing.T) {
	tbl := problem.NewTable(4)
	require.NoError(t, tbl.Add([]int{0, 1}, []float64{0, 3, 3, 0}))
	require.NoError(t, tbl.Add([]int{2, 3}, []float64{5, 0, 0, 5}))
	best, offs, err := Recombine(tbl, make([]bool, 4), []bool{true, true, true, true}, 0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, best)
	assert.Equal(t, [][]bool{
		{false, true, false, false},
		{false, true, true, true},
		{true, false, false, false},
		{true, false, true, true},
	}, offs)
}

func TestRecombineIdentical(t *testing.T) {
	tbl := problem.NewTable(2)
	require.NoError(t, tbl.Add([]int{0, 1}, []float64{1, 2, 3, 4}))
	p := []bool{true, false}
	best, offs, err := Recombine(tbl, p, p, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, best)
	assert.Equal(t, [][]bool{p}, offs)
}

func TestRecombineLimit(t *testing.T) {
	tbl := problem.NewTable(3)
	_, _, err := Recombine(tbl, make([]bool, 3), []bool{true, true, true}, 2)
	assert.True(t, errors.Is(err, ErrTooManyVars))
	_, _, err = Recombine(tbl, make([]bool, 3), make([]bool, 2), 2)
	assert.True(t, errors.Is(err, px.ErrInvalidInput))
}
