package recomb

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/crillab/dpx/problem"
	"github.com/crillab/dpx/px"
)

// Stats are statistics about a recombination.
// They are provided for information purpose only.
type Stats struct {
	NbDiffVars     int // How many vars the parents differ on
	NbSubFuncs     int // How many sub-functions are left after the reduction
	NbCliques      int // How many nodes in the junction tree
	Treewidth      int // Size of the largest clique minus one, -1 if parents are identical
	NbFillEdges    int // How many edges were added by the triangulation
	NbTableEntries int // Total size of the cluster tables
	NbEvals        int // How many times a sub-function was evaluated
}

// A Result is the outcome of a recombination.
type Result struct {
	Offspring []bool  // The best offspring.
	Choices   []bool  // For each differing var, false if it was taken from the first parent, true otherwise.
	Value     float64 // Objective value of the offspring.
	Stats     Stats
}

// An Engine recombines pairs of solutions of a given instance.
// The engine does not modify its instance, so Recombine can be called concurrently
// as long as the instance is safe for concurrent reads.
type Engine struct {
	inst          problem.Instance
	Logger        logrus.FieldLogger // Where debug information about each recombination goes.
	MaxCliqueSize int                // Largest clique the DP accepts. 0 means DefaultMaxCliqueSize; values above 62 mean 62.
}

// New returns an engine for the given instance. It logs nothing by default.
func New(inst problem.Instance) *Engine {
	logger := logrus.New()
	logger.Out = io.Discard
	return &Engine{inst: inst, Logger: logger}
}

// Instance returns the instance the engine works on.
func (e *Engine) Instance() problem.Instance { return e.inst }

// DefaultMaxCliqueSize is the largest clique accepted when Engine.MaxCliqueSize is not set.
// The DP table of such a clique has 2^30 entries.
const DefaultMaxCliqueSize = 30

func (e *Engine) maxCliqueSize() int {
	switch {
	case e.MaxCliqueSize <= 0:
		return DefaultMaxCliqueSize
	case e.MaxCliqueSize > maxWidth:
		return maxWidth
	default:
		return e.MaxCliqueSize
	}
}

// Recombine returns the best offspring of p1 and p2, i.e the best solution whose value for each var
// is taken from one of the parents.
// If the parents are identical, the offspring is a copy of p1.
func (e *Engine) Recombine(p1, p2 []bool) (Result, error) {
	red, err := px.New(p1, p2, e.inst)
	if err != nil {
		return Result{}, err
	}
	d := red.NbVars()
	if d == 0 {
		return Result{
			Offspring: red.Offspring(nil),
			Choices:   []bool{},
			Value:     red.Fitness(0),
			Stats:     Stats{Treewidth: -1},
		}, nil
	}
	sfs := red.SubFunctions()
	t, err := e.decompose(d, sfs)
	if err != nil {
		return Result{}, err
	}
	tables, nbEvals := t.solve(sfs, red)
	choices, cost, err := t.reconstruct(d, tables)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Offspring: red.Offspring(choices),
		Choices:   choices,
		Value:     red.Fitness(cost),
		Stats: Stats{
			NbDiffVars:  d,
			NbSubFuncs:  len(sfs),
			NbCliques:   len(t.Nodes),
			Treewidth:   t.Width(),
			NbFillEdges: t.NbFill,
			NbEvals:     nbEvals,
		},
	}
	for _, tbl := range tables {
		res.Stats.NbTableEntries += len(tbl.value)
	}
	e.Logger.WithFields(logrus.Fields{
		"diff_vars": d,
		"cliques":   len(t.Nodes),
		"treewidth": res.Stats.Treewidth,
		"evals":     nbEvals,
		"value":     res.Value,
	}).Debug("recombined")
	return res, nil
}

func (e *Engine) decompose(nbVars int, sfs [][]int) (*Tree, error) {
	t, err := Decompose(nbVars, sfs)
	if err != nil {
		return nil, err
	}
	limit := e.maxCliqueSize()
	for i := range t.Nodes {
		if size := len(t.Nodes[i].Clique); size > limit {
			return nil, errors.Wrapf(ErrTooWide, "clique %d has %d vars, at most %d allowed", i, size, limit)
		}
	}
	e.Logger.WithFields(logrus.Fields{
		"cliques":    len(t.Nodes),
		"fill_edges": t.NbFill,
		"treewidth":  t.Width(),
	}).Debug("decomposed")
	return t, nil
}

// Decompose builds the junction tree of the given sub-functions over vars 0..nbVars-1,
// and assigns each sub-function to a node.
// Vars that appear in no sub-function get a clique of their own.
func Decompose(nbVars int, sfs [][]int) (*Tree, error) {
	for i, sf := range sfs {
		for _, v := range sf {
			if v < 0 || v >= nbVars {
				return nil, errors.Wrapf(ErrInvalidInput, "sub-function %d: variable %d out of range [0, %d)", i, v, nbVars)
			}
		}
	}
	g := newRecombinationGraph(nbVars, sfs)
	h, ord, fill := triangulate(g)
	t := buildTree(nbVars, maximalCliques(h, ord), ord)
	t.NbFill = fill
	if err := t.assign(sfs); err != nil {
		return nil, err
	}
	return t, nil
}
