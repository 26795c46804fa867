// Package exhaustive recombines two parents by enumerating every possible offspring.
// It is exponential in the number of differing variables and is meant to check the optimal
// recombination engine on small instances.
package exhaustive

import (
	"github.com/pkg/errors"

	"github.com/crillab/dpx/problem"
	"github.com/crillab/dpx/px"
)

// MaxDiffVars is the largest number of differing variables Recombine accepts.
const MaxDiffVars = 24

// ErrTooManyVars is returned when the parents differ on more than the allowed number of variables.
var ErrTooManyVars = errors.New("too many differing variables")

// Recombine returns the best objective value among all offspring of p1 and p2, and all the
// offspring reaching it, in increasing order of their choices, the first differing var being
// the most significant bit.
// limit bounds the number of differing variables; values <= 0 or above MaxDiffVars mean MaxDiffVars.
func Recombine(inst problem.Instance, p1, p2 []bool, limit int) (float64, [][]bool, error) {
	red, err := px.New(p1, p2, inst)
	if err != nil {
		return 0, nil, err
	}
	if limit <= 0 || limit > MaxDiffVars {
		limit = MaxDiffVars
	}
	d := red.NbVars()
	if d > limit {
		return 0, nil, errors.Wrapf(ErrTooManyVars, "%d differing vars, at most %d allowed", d, limit)
	}
	var (
		best    float64
		offs    [][]bool
		choices = make([]bool, d)
	)
	for x := uint64(0); x < 1<<uint(d); x++ {
		for i := range choices {
			choices[i] = (x>>uint(d-1-i))&1 == 1
		}
		off := red.Offspring(choices)
		val := problem.Evaluate(inst, off)
		switch {
		case offs == nil || val > best:
			best = val
			offs = [][]bool{off}
		case val == best:
			offs = append(offs, off)
		}
	}
	return best, offs, nil
}
