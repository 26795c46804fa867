package px

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/dpx/problem"
)

// newInstance returns an objective over 5 vars:
// f0(x0, x1) = 3 if x0 != x1, f1(x2, x3) = 5 if x2 == x3, f2(x4) = 7 * x4, f3(x1, x4, x3) = x1 + x4 + x3.
func newInstance(t *testing.T) *problem.Table {
	tbl := problem.NewTable(5)
	require.NoError(t, tbl.Add([]int{0, 1}, []float64{0, 3, 3, 0}))
	require.NoError(t, tbl.Add([]int{2, 3}, []float64{5, 0, 0, 5}))
	require.NoError(t, tbl.Add([]int{4}, []float64{0, 7}))
	require.NoError(t, tbl.Add([]int{1, 4, 3}, []float64{0, 1, 1, 2, 1, 2, 2, 3}))
	return tbl
}

func TestReduction(t *testing.T) {
	inst := newInstance(t)
	p1 := []bool{false, false, true, false, true}
	p2 := []bool{true, false, true, true, true}
	r, err := New(p1, p2, inst)
	require.NoError(t, err)

	assert.Equal(t, 2, r.NbVars())
	assert.Equal(t, []int{0, 3}, r.DiffVars())
	assert.Equal(t, []int{0, -1, -1, 1, -1}, r.VarsMap())
	// f2 only depends on x4, on which both parents agree: it is dropped.
	assert.Equal(t, [][]int{{0}, {1}, {1}}, r.SubFunctions())
	assert.Equal(t, 0, r.Original(0))
	assert.Equal(t, 3, r.Original(2))

	// Costs are negated objective values.
	assert.Equal(t, 0.0, r.Cost(0, []bool{false}), "x0 = x1 = 0")
	assert.Equal(t, -3.0, r.Cost(0, []bool{true}), "x0 = 1, x1 = 0")
	assert.Equal(t, 0.0, r.Cost(1, []bool{false}), "x2 = 1, x3 = 0")
	assert.Equal(t, -5.0, r.Cost(1, []bool{true}), "x2 = x3 = 1")
	assert.Equal(t, -1.0, r.Cost(2, []bool{false}), "x1 = 0, x4 = 1, x3 = 0")
	assert.Equal(t, -2.0, r.Cost(2, []bool{true}), "x1 = 0, x4 = 1, x3 = 1")

	off := r.Offspring([]bool{true, true})
	assert.Equal(t, []bool{true, false, true, true, true}, off)
	cost := r.Cost(0, []bool{true}) + r.Cost(1, []bool{true}) + r.Cost(2, []bool{true})
	assert.Equal(t, problem.Evaluate(inst, off), r.Fitness(cost))

	off = r.Offspring([]bool{false, false})
	assert.Equal(t, p1, off)
}

func TestReductionIdentical(t *testing.T) {
	inst := newInstance(t)
	p := []bool{true, false, true, true, false}
	r, err := New(p, p, inst)
	require.NoError(t, err)
	assert.Equal(t, 0, r.NbVars())
	assert.Empty(t, r.SubFunctions())
	assert.Equal(t, problem.Evaluate(inst, p), r.Fitness(0))
	assert.Equal(t, p, r.Offspring(nil))
}

func TestReductionInvalid(t *testing.T) {
	inst := newInstance(t)
	_, err := New(make([]bool, 5), make([]bool, 4), inst)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = New(make([]bool, 4), make([]bool, 4), inst)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

type badInstance struct{}

func (badInstance) NbVars() int { return 2 }
func (badInstance) SubFunctions() []problem.SubFunction {
	return []problem.SubFunction{{Vars: []int{0, 2}, Weight: 1}}
}
func (badInstance) Evaluate(i int, t []bool) float64 { return 0 }

func TestReductionOutOfRange(t *testing.T) {
	_, err := New([]bool{false, true}, []bool{true, true}, badInstance{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
