package recomb

import "math"

// A Coster gives the cost of a sub-function given a choice for each of its vars, in order.
// *px.Reduction is a Coster.
type Coster interface {
	Cost(i int, choices []bool) float64
}

// A clusterTable stores, for each assignment of the separator of a node,
// the best cost of the subtree rooted at the node and the residue assignment reaching it.
type clusterTable struct {
	value   []float64
	residue []uint64
}

func newClusterTable(sepSize int) clusterTable {
	size := 1 << uint(sepSize)
	tbl := clusterTable{value: make([]float64, size), residue: make([]uint64, size)}
	for i := range tbl.value {
		tbl.value[i] = math.Inf(1)
	}
	return tbl
}

// solve fills a table for each node of t, children first, and returns the tables indexed by node id.
// nbEvals is the number of calls made to c.
func (t *Tree) solve(sfs [][]int, c Coster) (tables []clusterTable, nbEvals int) {
	tables = make([]clusterTable, len(t.Nodes))
	var buf []bool
	for _, sf := range sfs {
		if len(sf) > len(buf) {
			buf = make([]bool, len(sf))
		}
	}
	for _, id := range t.PostOrder {
		n := &t.Nodes[id]
		ns, nr := uint(len(n.Separator)), uint(len(n.Residue))
		shifts := make([][]uint, len(n.SubFuncs))
		for i, sf := range n.SubFuncs {
			shifts[i] = make([]uint, len(sfs[sf]))
			for j, v := range sfs[sf] {
				shifts[i][j] = n.shift(v)
			}
		}
		tbl := newClusterTable(int(ns))
		for xs := uint64(0); xs < 1<<ns; xs++ {
			for xr := uint64(0); xr < 1<<nr; xr++ {
				full := xs<<nr | xr
				cand := 0.0
				for i, sf := range n.SubFuncs {
					choices := buf[:len(shifts[i])]
					for j, s := range shifts[i] {
						choices[j] = (full>>s)&1 == 1
					}
					cand += c.Cost(sf, choices)
					nbEvals++
				}
				for _, child := range n.Children {
					cand += tables[child].value[project(full, t.Nodes[child].parentShifts)]
				}
				if cand < tbl.value[xs] {
					tbl.value[xs] = cand
					tbl.residue[xs] = xr
				}
			}
		}
		tables[id] = tbl
	}
	return tables, nbEvals
}

// reconstruct walks the tree breadth first from the root and decides each var from the residue
// stored for the separator assignment induced by the parent.
// It returns the choice for each of the nbVars vars and the optimal cost.
func (t *Tree) reconstruct(nbVars int, tables []clusterTable) ([]bool, float64, error) {
	choices := make([]bool, nbVars)
	decided := make([]bool, nbVars)
	if len(t.Nodes) == 0 {
		if nbVars != 0 {
			return nil, 0, inconsistent("empty tree for %d vars", nbVars)
		}
		return choices, 0, nil
	}
	fulls := make([]uint64, len(t.Nodes))
	visited := make([]bool, len(t.Nodes))
	queue := []int{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			return nil, 0, inconsistent("node %d reached twice", id)
		}
		visited[id] = true
		n := &t.Nodes[id]
		var xs uint64
		if n.Parent != -1 {
			xs = project(fulls[n.Parent], n.parentShifts)
		}
		if math.IsInf(tables[id].value[xs], 1) {
			return nil, 0, inconsistent("no residue for separator assignment %d of node %d", xs, id)
		}
		nr := uint(len(n.Residue))
		xr := tables[id].residue[xs]
		fulls[id] = xs<<nr | xr
		for i, v := range n.Residue {
			if decided[v] {
				return nil, 0, inconsistent("var %d decided twice", v)
			}
			decided[v] = true
			choices[v] = (xr>>(nr-1-uint(i)))&1 == 1
		}
		queue = append(queue, n.Children...)
	}
	for v, ok := range decided {
		if !ok {
			return nil, 0, inconsistent("var %d never decided", v)
		}
	}
	return choices, tables[0].value[0], nil
}
