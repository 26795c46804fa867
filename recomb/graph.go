package recomb

import "sort"

// A graph is a simple undirected graph over the vertices 0..n-1.
type graph struct {
	adj     []map[int]struct{}
	nbEdges int
}

func newGraph(n int) *graph {
	g := &graph{adj: make([]map[int]struct{}, n)}
	for v := range g.adj {
		g.adj[v] = make(map[int]struct{})
	}
	return g
}

// newRecombinationGraph returns the interaction graph of the given sub-functions over nbVars vars:
// two vars are adjacent iff they appear together in a sub-function.
// Every var is a vertex, including vars that appear in no sub-function.
func newRecombinationGraph(nbVars int, sfs [][]int) *graph {
	g := newGraph(nbVars)
	for _, sf := range sfs {
		for i := 0; i < len(sf)-1; i++ {
			for j := i + 1; j < len(sf); j++ {
				g.addEdge(sf[i], sf[j])
			}
		}
	}
	return g
}

func (g *graph) len() int { return len(g.adj) }

// addEdge adds the edge u-v, unless u == v or the edge already exists.
// It returns true iff an edge was added.
func (g *graph) addEdge(u, v int) bool {
	if u == v {
		return false
	}
	if _, ok := g.adj[u][v]; ok {
		return false
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	g.nbEdges++
	return true
}

func (g *graph) hasEdge(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

func (g *graph) degree(v int) int { return len(g.adj[v]) }

// neighbors returns the neighbors of v, sorted.
func (g *graph) neighbors(v int) []int {
	res := make([]int, 0, len(g.adj[v]))
	for u := range g.adj[v] {
		res = append(res, u)
	}
	sort.Ints(res)
	return res
}

func (g *graph) clone() *graph {
	h := newGraph(g.len())
	for v := range g.adj {
		for u := range g.adj[v] {
			h.adj[v][u] = struct{}{}
		}
	}
	h.nbEdges = g.nbEdges
	return h
}
