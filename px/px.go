// Package px restricts a decomposed objective to the variables on which two parent solutions differ.
//
// The resulting reduction is what the recombination engine works on: variables are renumbered
// 0..d-1, sub-functions only keep their differing variables (those fully resolved by the common
// variables are dropped), and a binding of a differing variable is a choice between the two
// parents: false takes the value of the first parent, true the value of the second one.
//
// The engine minimizes. The reduction therefore exposes costs, i.e negated objective values,
// and converts the cost of a full choice back to an objective value in Fitness. Both
// conversions are done in sign.go and nowhere else.
package px

import (
	"github.com/pkg/errors"

	"github.com/crillab/dpx/problem"
)

// ErrInvalidInput is the cause of every error due to a caller breaking the input contract:
// parents of different lengths, parents that do not match the instance, variables out of range.
var ErrInvalidInput = errors.New("invalid input")

// A Reduction is the restriction of an instance to the variables on which two parents differ.
// It is not safe for concurrent use.
type Reduction struct {
	inst       problem.Instance
	p1, p2     []bool
	diffVars   []int   // For each differing var, its original index (varsMapInv).
	varsMap    []int   // For each original var, its differing index, or -1 if both parents agree on it.
	commonVars []int   // Vars on which both parents agree.
	sfs        [][]int // Reduced sub-functions, over differing vars.
	sfOrig     []int   // For each reduced sub-function, the index of the original one.
	sfPos      [][]int // For each reduced sub-function, for each original var, its position in the reduced tuple or -1.
	constant   float64 // Objective value of the dropped sub-functions.
	buf        []bool
}

// New returns the reduction of inst with respect to parents p1 and p2.
func New(p1, p2 []bool, inst problem.Instance) (*Reduction, error) {
	n := inst.NbVars()
	if len(p1) != len(p2) {
		return nil, errors.Wrapf(ErrInvalidInput, "parents have different lengths %d and %d", len(p1), len(p2))
	}
	if len(p1) != n {
		return nil, errors.Wrapf(ErrInvalidInput, "parents have %d vars, instance has %d", len(p1), n)
	}
	r := &Reduction{
		inst:    inst,
		p1:      p1,
		p2:      p2,
		varsMap: make([]int, n),
	}
	for v := range p1 {
		if p1[v] != p2[v] {
			r.varsMap[v] = len(r.diffVars)
			r.diffVars = append(r.diffVars, v)
		} else {
			r.varsMap[v] = -1
			r.commonVars = append(r.commonVars, v)
		}
	}
	maxArity := 0
	for i, sf := range inst.SubFunctions() {
		var (
			nsf []int
			pos = make([]int, len(sf.Vars))
		)
		for j, v := range sf.Vars {
			if v < 0 || v >= n {
				return nil, errors.Wrapf(ErrInvalidInput, "sub-function %d: variable %d out of range [0, %d)", i, v, n)
			}
			if r.varsMap[v] == -1 {
				pos[j] = -1
			} else {
				pos[j] = len(nsf)
				nsf = append(nsf, r.varsMap[v])
			}
		}
		if len(sf.Vars) > maxArity {
			maxArity = len(sf.Vars)
		}
		if len(nsf) == 0 {
			t := make([]bool, len(sf.Vars))
			for j, v := range sf.Vars {
				t[j] = p1[v]
			}
			r.constant += inst.Evaluate(i, t)
			continue
		}
		r.sfs = append(r.sfs, nsf)
		r.sfOrig = append(r.sfOrig, i)
		r.sfPos = append(r.sfPos, pos)
	}
	r.buf = make([]bool, maxArity)
	return r, nil
}

// NbVars returns the number of differing variables.
func (r *Reduction) NbVars() int { return len(r.diffVars) }

// DiffVars returns, for each differing variable, its index in the original problem.
func (r *Reduction) DiffVars() []int { return r.diffVars }

// VarsMap returns, for each original variable, its index as a differing variable, or -1.
func (r *Reduction) VarsMap() []int { return r.varsMap }

// SubFunctions returns the reduced sub-functions, over differing variables.
func (r *Reduction) SubFunctions() [][]int { return r.sfs }

// Original returns the index, in the original instance, of reduced sub-function i.
func (r *Reduction) Original(i int) int { return r.sfOrig[i] }

// Cost returns the cost of reduced sub-function i given a choice for each of its vars.
// A false choice takes the value of the first parent, a true one the value of the second parent.
func (r *Reduction) Cost(i int, choices []bool) float64 {
	orig := r.sfOrig[i]
	vars := r.inst.SubFunctions()[orig].Vars
	t := r.buf[:len(vars)]
	for j, v := range vars {
		if p := r.sfPos[i][j]; p >= 0 && choices[p] {
			t[j] = r.p2[v]
		} else {
			t[j] = r.p1[v]
		}
	}
	return toCost(r.inst.Evaluate(orig, t))
}

// Offspring builds the full solution associated with a choice for each differing variable.
func (r *Reduction) Offspring(choices []bool) []bool {
	off := make([]bool, len(r.p1))
	for _, v := range r.commonVars {
		off[v] = r.p1[v]
	}
	for i, v := range r.diffVars {
		if choices[i] {
			off[v] = r.p2[v]
		} else {
			off[v] = r.p1[v]
		}
	}
	return off
}
