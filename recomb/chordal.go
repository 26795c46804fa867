package recomb

import (
	"sort"

	"github.com/samber/lo"
)

// An ordering is an elimination ordering of the vertices of a graph.
type ordering struct {
	alpha    []int // For each vertex, its rank in the elimination ordering.
	alphaInv []int // For each rank, the associated vertex.
}

// mcs runs a maximum cardinality search on g.
// Vertices are numbered from n-1 down to 0: at each step, the unnumbered vertex with the most
// numbered neighbors gets the highest free number. Ties go to the smallest vertex.
// The resulting ordering is a perfect elimination ordering whenever g is chordal.
func mcs(g *graph) ordering {
	n := g.len()
	ord := ordering{alpha: make([]int, n), alphaInv: make([]int, n)}
	card := make([]int, n)
	q := newQueue(card)
	numbered := make([]bool, n)
	for i := n - 1; i >= 0; i-- {
		v := q.removeMin()
		numbered[v] = true
		ord.alpha[v] = i
		ord.alphaInv[i] = v
		for u := range g.adj[v] {
			if !numbered[u] {
				q.bump(u)
			}
		}
	}
	return ord
}

// triangulate returns a chordal supergraph of g, the elimination ordering it was built from,
// and the number of fill edges that were added.
// Vertices are eliminated following the MCS ordering: when a vertex is eliminated,
// all its neighbors that are not eliminated yet are made pairwise adjacent.
func triangulate(g *graph) (*graph, ordering, int) {
	ord := mcs(g)
	h := g.clone()
	fill := 0
	for _, v := range ord.alphaInv {
		later := ord.later(h, v)
		for i := 0; i < len(later)-1; i++ {
			for j := i + 1; j < len(later); j++ {
				if h.addEdge(later[i], later[j]) {
					fill++
				}
			}
		}
	}
	return h, ord, fill
}

// later returns the neighbors of v in h that come after v in the ordering, sorted by rank.
func (ord ordering) later(h *graph, v int) []int {
	res := lo.Filter(h.neighbors(v), func(u int, _ int) bool { return ord.alpha[u] > ord.alpha[v] })
	ord.sortByRank(res)
	return res
}

func (ord ordering) sortByRank(vars []int) {
	sort.Slice(vars, func(i, j int) bool { return ord.alpha[vars[i]] < ord.alpha[vars[j]] })
}

// isPerfect is true iff ord is a perfect elimination ordering of h,
// i.e iff the later neighbors of each vertex are pairwise adjacent.
func (ord ordering) isPerfect(h *graph) bool {
	for v := range h.adj {
		later := ord.later(h, v)
		for i := 0; i < len(later)-1; i++ {
			for j := i + 1; j < len(later); j++ {
				if !h.hasEdge(later[i], later[j]) {
					return false
				}
			}
		}
	}
	return true
}

// maximalCliques lists the maximal cliques of the chordal graph h, given a perfect elimination ordering.
// The candidate clique of v is v followed by its later neighbors; it is not maximal iff some vertex u
// whose first later neighbor is v has exactly one more later neighbor than v.
// Vars of each clique are sorted by rank, and cliques are sorted by decreasing size; cliques of the same
// size keep the elimination order of their first var.
func maximalCliques(h *graph, ord ordering) [][]int {
	n := h.len()
	madj := make([][]int, n)
	for v := 0; v < n; v++ {
		madj[v] = ord.later(h, v)
	}
	nonMax := make([]bool, n)
	for u := 0; u < n; u++ {
		if len(madj[u]) == 0 {
			continue
		}
		if f := madj[u][0]; len(madj[u]) == len(madj[f])+1 {
			nonMax[f] = true
		}
	}
	var cliques [][]int
	for _, v := range ord.alphaInv {
		if !nonMax[v] {
			clique := make([]int, 0, len(madj[v])+1)
			clique = append(clique, v)
			cliques = append(cliques, append(clique, madj[v]...))
		}
	}
	sort.SliceStable(cliques, func(i, j int) bool { return len(cliques[i]) > len(cliques[j]) })
	return cliques
}
