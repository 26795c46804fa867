package problem

import "fmt"

// A SubFunction is a weighted term of a decomposed objective.
type SubFunction struct {
	Vars   []int   // Variables the term depends on, in evaluation order. No variable appears twice.
	Weight float64 // Informative weight of the term. Lookup tables use 1.
}

// Instance is a pseudo-boolean objective, decomposed into sub-functions, to be maximized.
// Implementations must be safe for concurrent read-only use.
type Instance interface {
	// NbVars returns the number of variables of the problem.
	NbVars() int
	// SubFunctions returns the ordered list of sub-functions. The caller must not modify it.
	SubFunctions() []SubFunction
	// Evaluate returns the value of sub-function i given a binding for each of its variables,
	// in the order of SubFunction.Vars.
	Evaluate(i int, t []bool) float64
}

// Evaluate returns the objective value of the full solution x.
func Evaluate(inst Instance, x []bool) float64 {
	var (
		total float64
		t     []bool
	)
	for i, sf := range inst.SubFunctions() {
		t = t[:0]
		for _, v := range sf.Vars {
			t = append(t, x[v])
		}
		total += inst.Evaluate(i, t)
	}
	return total
}

// Check verifies the number of variables is not negative and all variables of all sub-functions are in range and not repeated.
func Check(inst Instance) error {
	n := inst.NbVars()
	if n < 0 {
		return fmt.Errorf("invalid number of variables %d", n)
	}
	seen := make(map[int]bool)
	for i, sf := range inst.SubFunctions() {
		for k := range seen {
			delete(seen, k)
		}
		for _, v := range sf.Vars {
			if v < 0 || v >= n {
				return fmt.Errorf("sub-function %d: variable %d out of range [0, %d)", i, v, n)
			}
			if seen[v] {
				return fmt.Errorf("sub-function %d: variable %d appears twice", i, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// index converts a binding to the integer it represents, t[0] being the most significant bit.
func index(t []bool) int {
	idx := 0
	for _, b := range t {
		idx <<= 1
		if b {
			idx |= 1
		}
	}
	return idx
}
