package problem

import (
	"fmt"
	"math/rand"
	"sort"
)

// A Table is an objective whose sub-functions are given as explicit lookup tables.
type Table struct {
	nbVars int
	sfs    []SubFunction
	values [][]float64 // For each sub-function, its value for each binding of its vars, first var being the MSB.
}

// NewTable returns an empty objective over nbVars variables.
func NewTable(nbVars int) *Table {
	return &Table{nbVars: nbVars}
}

// maxArity is the largest number of vars of a lookup table sub-function.
const maxArity = 30

// Add adds a sub-function depending on vars. values must have exactly 2^len(vars) entries.
func (tbl *Table) Add(vars []int, values []float64) error {
	if len(vars) > maxArity {
		return fmt.Errorf("sub-function over %d vars, at most %d allowed", len(vars), maxArity)
	}
	if len(values) != 1<<len(vars) {
		return fmt.Errorf("sub-function over %d vars needs %d values, got %d", len(vars), 1<<len(vars), len(values))
	}
	seen := make(map[int]bool, len(vars))
	for _, v := range vars {
		if v < 0 || v >= tbl.nbVars {
			return fmt.Errorf("variable %d out of range [0, %d)", v, tbl.nbVars)
		}
		if seen[v] {
			return fmt.Errorf("variable %d appears twice in sub-function", v)
		}
		seen[v] = true
	}
	tbl.sfs = append(tbl.sfs, SubFunction{Vars: append([]int(nil), vars...), Weight: 1})
	tbl.values = append(tbl.values, append([]float64(nil), values...))
	return nil
}

// NbVars returns the number of variables of the problem.
func (tbl *Table) NbVars() int { return tbl.nbVars }

// SubFunctions returns the sub-functions in the order they were added.
func (tbl *Table) SubFunctions() []SubFunction { return tbl.sfs }

// Evaluate looks up the value of sub-function i for the binding t.
func (tbl *Table) Evaluate(i int, t []bool) float64 {
	return tbl.values[i][index(t)]
}

// Values returns the lookup table of sub-function i.
func (tbl *Table) Values(i int) []float64 { return tbl.values[i] }

// Bounds for the values of NK sub-functions.
const (
	nkMinValue = 5
	nkMaxValue = 50
)

// NewNK generates a random NK landscape with m sub-functions of exactly k variables over n variables.
// Each variable is used by at least one sub-function, and each sub-function associates a random
// integer in [5, 50] with each binding of its vars. The landscape only depends on rng's state.
func NewNK(m, k, n int, rng *rand.Rand) (*Table, error) {
	switch {
	case m <= 0 || k <= 0 || n <= 0:
		return nil, fmt.Errorf("invalid NK parameters m=%d k=%d n=%d: all must be positive", m, k, n)
	case m > n:
		return nil, fmt.Errorf("the number of sub-functions (%d) cannot be greater than the number of variables (%d)", m, n)
	case n > m*k:
		return nil, fmt.Errorf("the number of variables (%d) exceeds the number of variables in the sub-functions (%d)", n, m*k)
	case k > n:
		return nil, fmt.Errorf("sub-functions of %d vars cannot be built over %d vars", k, n)
	}
	members := make([]map[int]bool, m)
	for i := range members {
		members[i] = make(map[int]bool, k)
	}
	// Spread every var over the sub-functions, so that each var is used at least once.
	for i, v := range rng.Perm(n) {
		members[i%m][v] = true
	}
	// Complete each sub-function until it has k vars.
	for i := range members {
		for _, v := range rng.Perm(n) {
			if len(members[i]) == k {
				break
			}
			members[i][v] = true
		}
	}
	tbl := NewTable(n)
	for i := range members {
		vars := make([]int, 0, k)
		for v := range members[i] {
			vars = append(vars, v)
		}
		sort.Ints(vars)
		values := make([]float64, 1<<k)
		for j := range values {
			values[j] = float64(nkMinValue + rng.Intn(nkMaxValue-nkMinValue+1))
		}
		if err := tbl.Add(vars, values); err != nil {
			return nil, fmt.Errorf("could not build sub-function %d: %v", i, err)
		}
	}
	return tbl, nil
}
