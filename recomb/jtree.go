package recomb

import (
	"sort"

	"github.com/samber/lo"
)

// A Node is a cluster of a junction tree.
// Nodes are stored in a dense slice and refer to each other through their ids.
type Node struct {
	ID        int   // Index of the node in Tree.Nodes, in DFS preorder from the root.
	Clique    []int // Vars of the cluster, sorted by elimination rank.
	Separator []int // Vars shared with the parent, in clique order. Empty for the root.
	Residue   []int // Vars of the clique that are not in the separator, in clique order.
	Parent    int   // Id of the parent, or -1 for the root.
	Children  []int // Ids of the children, sorted.
	SubFuncs  []int // Indices of the sub-functions assigned to this node.

	pos          map[int]int // Position of each var in Separator followed by Residue.
	parentShifts []uint      // For each separator var, its bit shift in the parent's full assignment.
}

// Vars returns the vars of the node in DP order: separator first, then residue.
func (n *Node) Vars() []int {
	res := make([]int, 0, len(n.Separator)+len(n.Residue))
	res = append(res, n.Separator...)
	return append(res, n.Residue...)
}

// Contains returns true iff v belongs to the clique of n.
func (n *Node) Contains(v int) bool {
	_, ok := n.pos[v]
	return ok
}

func (n *Node) containsAll(vars []int) bool {
	for _, v := range vars {
		if !n.Contains(v) {
			return false
		}
	}
	return true
}

// shift returns the bit shift of v in a full assignment of n.
// The first var of Separator++Residue is the most significant bit.
func (n *Node) shift(v int) uint {
	return uint(len(n.pos) - 1 - n.pos[v])
}

// A Tree is a rooted junction tree. Its root is Nodes[0].
type Tree struct {
	Nodes     []Node
	PostOrder []int // Ids of the nodes, children before parents.
	NbFill    int   // Number of edges added by the triangulation.
	alpha     []int // Elimination rank of each var.
}

// Width returns the treewidth of the decomposition, i.e the size of its largest clique minus one.
// It returns -1 for an empty tree.
func (t *Tree) Width() int {
	w := -1
	for i := range t.Nodes {
		if s := len(t.Nodes[i].Clique) - 1; s > w {
			w = s
		}
	}
	return w
}

// Root returns the root of the tree, or nil if the tree is empty.
func (t *Tree) Root() *Node {
	if len(t.Nodes) == 0 {
		return nil
	}
	return &t.Nodes[0]
}

// Rank returns the elimination rank of var v.
func (t *Tree) Rank(v int) int { return t.alpha[v] }

// A unionFind is a disjoint set forest with path halving.
type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (uf unionFind) find(i int) int {
	for uf[i] != i {
		uf[i] = uf[uf[i]]
		i = uf[i]
	}
	return i
}

// union merges the sets of i and j and returns false iff they were already the same.
func (uf unionFind) union(i, j int) bool {
	ri, rj := uf.find(i), uf.find(j)
	if ri == rj {
		return false
	}
	if ri < rj {
		uf[rj] = ri
	} else {
		uf[ri] = rj
	}
	return true
}

// A sepEdge is an edge of the clique intersection graph.
type sepEdge struct {
	i, j   int // Clique indices, i < j.
	weight int // Size of the intersection.
}

// intersections returns the edges of the clique intersection graph of cliques over nbVars vars,
// sorted by decreasing weight, then by increasing i, then by increasing j.
func intersections(nbVars int, cliques [][]int) []sepEdge {
	member := make([][]int, nbVars)
	for c, clique := range cliques {
		for _, v := range clique {
			member[v] = append(member[v], c)
		}
	}
	counts := make(map[[2]int]int)
	for _, cs := range member {
		for a := 0; a < len(cs)-1; a++ {
			for b := a + 1; b < len(cs); b++ {
				counts[[2]int{cs[a], cs[b]}]++
			}
		}
	}
	edges := make([]sepEdge, 0, len(counts))
	for k, w := range counts {
		edges = append(edges, sepEdge{i: k[0], j: k[1], weight: w})
	}
	sort.Slice(edges, func(a, b int) bool {
		ea, eb := edges[a], edges[b]
		if ea.weight != eb.weight {
			return ea.weight > eb.weight
		}
		if ea.i != eb.i {
			return ea.i < eb.i
		}
		return ea.j < eb.j
	})
	return edges
}

// spanningTree returns the adjacency lists of a maximum weight spanning tree of the clique
// intersection graph, computed with Kruskal's algorithm.
// Cliques that are still disconnected afterwards are attached to clique 0 with an empty separator.
func spanningTree(nbVars int, cliques [][]int) [][]int {
	uf := newUnionFind(len(cliques))
	adj := make([][]int, len(cliques))
	link := func(i, j int) {
		adj[i] = append(adj[i], j)
		adj[j] = append(adj[j], i)
	}
	for _, e := range intersections(nbVars, cliques) {
		if uf.union(e.i, e.j) {
			link(e.i, e.j)
		}
	}
	for c := 1; c < len(cliques); c++ {
		if uf.union(0, c) {
			link(0, c)
		}
	}
	for i := range adj {
		sort.Ints(adj[i])
	}
	return adj
}

// buildTree builds the junction tree of the given maximal cliques.
// The tree is rooted at clique 0 and ids are given in DFS preorder, smaller neighbors first.
func buildTree(nbVars int, cliques [][]int, ord ordering) *Tree {
	t := &Tree{alpha: ord.alpha}
	if len(cliques) == 0 {
		return t
	}
	adj := spanningTree(nbVars, cliques)
	type frame struct{ clique, parent int } // parent is a node id.
	ids := make([]int, len(cliques))
	for i := range ids {
		ids[i] = -1
	}
	stack := []frame{{clique: 0, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ids[f.clique] != -1 {
			continue
		}
		id := len(t.Nodes)
		ids[f.clique] = id
		t.Nodes = append(t.Nodes, newNode(id, cliques[f.clique], f.parent, t.Nodes))
		if f.parent != -1 {
			t.Nodes[f.parent].Children = append(t.Nodes[f.parent].Children, id)
		}
		for i := len(adj[f.clique]) - 1; i >= 0; i-- {
			if c := adj[f.clique][i]; ids[c] == -1 {
				stack = append(stack, frame{clique: c, parent: id})
			}
		}
	}
	t.PostOrder = postOrder(t.Nodes)
	return t
}

// newNode builds the node of the given clique; the parent, if any, must already be in nodes.
func newNode(id int, clique []int, parent int, nodes []Node) Node {
	n := Node{ID: id, Clique: clique, Parent: parent}
	if parent == -1 {
		n.Separator = []int{}
		n.Residue = clique
	} else {
		p := &nodes[parent]
		n.Separator = lo.Filter(clique, func(v int, _ int) bool { return p.Contains(v) })
		n.Residue = lo.Filter(clique, func(v int, _ int) bool { return !p.Contains(v) })
		n.parentShifts = make([]uint, len(n.Separator))
		for i, v := range n.Separator {
			n.parentShifts[i] = p.shift(v)
		}
	}
	n.pos = make(map[int]int, len(clique))
	for i, v := range n.Vars() {
		n.pos[v] = i
	}
	return n
}

// postOrder lists the ids of nodes so that each node comes after all its children,
// children being visited in increasing id order.
func postOrder(nodes []Node) []int {
	res := make([]int, 0, len(nodes))
	stack := []int{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, id)
		stack = append(stack, nodes[id].Children...)
	}
	return lo.Reverse(res)
}

// project extracts, from a full assignment, the assignment of the vars at the given shifts.
// The first shift gives the most significant bit of the result.
func project(full uint64, shifts []uint) uint64 {
	var x uint64
	for _, s := range shifts {
		x = x<<1 | (full>>s)&1
	}
	return x
}
