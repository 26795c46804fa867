package recomb

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSubFunctions returns m random sub-functions of at most k distinct vars over n vars.
func randomSubFunctions(rng *rand.Rand, m, k, n int) [][]int {
	sfs := make([][]int, m)
	for i := range sfs {
		sfs[i] = rng.Perm(n)[:1+rng.Intn(k)]
	}
	return sfs
}

// path returns the ids of the nodes on the tree path from a to b.
func (t *Tree) path(a, b int) []int {
	var up []int
	depth := func(id int) int {
		d := 0
		for ; t.Nodes[id].Parent != -1; id = t.Nodes[id].Parent {
			d++
		}
		return d
	}
	var down []int
	for da, db := depth(a), depth(b); da > db; da-- {
		up = append(up, a)
		a = t.Nodes[a].Parent
	}
	for da, db := depth(a), depth(b); db > da; db-- {
		down = append(down, b)
		b = t.Nodes[b].Parent
	}
	for a != b {
		up = append(up, a)
		down = append(down, b)
		a, b = t.Nodes[a].Parent, t.Nodes[b].Parent
	}
	up = append(up, a)
	for i := len(down) - 1; i >= 0; i-- {
		up = append(up, down[i])
	}
	return up
}

// checkTree verifies the structural properties of a decomposition of sfs over nbVars vars.
func checkTree(t *testing.T, tree *Tree, nbVars int, sfs [][]int) {
	t.Helper()
	require.NotEmpty(t, tree.Nodes)
	root := tree.Root()
	assert.Equal(t, -1, root.Parent)
	assert.Empty(t, root.Separator)
	assert.Equal(t, root.Clique, root.Residue)

	inResidue := make([]int, nbVars)
	for id := range tree.Nodes {
		n := &tree.Nodes[id]
		assert.Equal(t, id, n.ID)
		if id > 0 {
			assert.Less(t, n.Parent, id, "ids are not a preorder")
			assert.Contains(t, tree.Nodes[n.Parent].Children, id)
		}
		assert.ElementsMatch(t, n.Clique, n.Vars(), "node %d: separator and residue do not partition the clique", id)
		for _, v := range n.Separator {
			assert.NotContains(t, n.Residue, v)
			assert.True(t, tree.Nodes[n.Parent].Contains(v), "node %d: separator var %d not in parent", id, v)
		}
		for _, v := range n.Residue {
			inResidue[v]++
			if n.Parent != -1 {
				assert.False(t, tree.Nodes[n.Parent].Contains(v), "node %d: residue var %d in parent", id, v)
			}
		}
		for i, v := range n.Separator {
			p := &tree.Nodes[n.Parent]
			assert.Equal(t, p.shift(v), n.parentShifts[i])
		}
		for _, sf := range n.SubFuncs {
			assert.True(t, n.containsAll(sfs[sf]), "node %d: sub-function %d not included", id, sf)
		}
	}
	for v, nb := range inResidue {
		assert.Equal(t, 1, nb, "var %d is in %d residues", v, nb)
	}

	// Running intersection.
	for a := range tree.Nodes {
		for b := a + 1; b < len(tree.Nodes); b++ {
			for _, v := range tree.Nodes[a].Clique {
				if !tree.Nodes[b].Contains(v) {
					continue
				}
				for _, id := range tree.path(a, b) {
					assert.True(t, tree.Nodes[id].Contains(v), "var %d in nodes %d and %d but not in %d", v, a, b, id)
				}
			}
		}
	}

	// Post order and assignment.
	require.Len(t, tree.PostOrder, len(tree.Nodes))
	rank := make([]int, len(tree.Nodes))
	for i, id := range tree.PostOrder {
		rank[id] = i
	}
	assert.Equal(t, 0, tree.PostOrder[len(tree.PostOrder)-1], "root must come last")
	assigned := make([]int, len(sfs))
	for i := range assigned {
		assigned[i] = -1
	}
	for id := range tree.Nodes {
		for _, c := range tree.Nodes[id].Children {
			assert.Less(t, rank[c], rank[id], "child %d after parent %d", c, id)
		}
		for _, sf := range tree.Nodes[id].SubFuncs {
			assert.Equal(t, -1, assigned[sf], "sub-function %d assigned twice", sf)
			assigned[sf] = id
		}
	}
	for sf, id := range assigned {
		require.NotEqual(t, -1, id, "sub-function %d not assigned", sf)
		for _, other := range tree.PostOrder[:rank[id]] {
			assert.False(t, tree.Nodes[other].containsAll(sfs[sf]), "sub-function %d fits in earlier node %d", sf, other)
		}
	}
}

func TestDecomposeScenario(t *testing.T) {
	sfs := [][]int{{0, 1}, {2, 3}}
	tree, err := Decompose(4, sfs)
	require.NoError(t, err)
	checkTree(t, tree, 4, sfs)
	require.Len(t, tree.Nodes, 2)
	assert.Equal(t, []int{3, 2}, tree.Nodes[0].Clique)
	assert.Equal(t, []int{1, 0}, tree.Nodes[1].Clique)
	assert.Empty(t, tree.Nodes[1].Separator, "disconnected components share nothing")
	assert.Equal(t, []int{1}, tree.Nodes[0].SubFuncs)
	assert.Equal(t, []int{0}, tree.Nodes[1].SubFuncs)
	assert.Equal(t, []int{1, 0}, tree.PostOrder)
	assert.Equal(t, 1, tree.Width())
	assert.Equal(t, 0, tree.NbFill)
}

func TestDecomposeCycle(t *testing.T) {
	sfs := [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	tree, err := Decompose(4, sfs)
	require.NoError(t, err)
	checkTree(t, tree, 4, sfs)
	require.Len(t, tree.Nodes, 2)
	assert.Equal(t, []int{3, 2, 0}, tree.Nodes[0].Clique)
	assert.Equal(t, []int{2, 0}, tree.Nodes[1].Separator)
	assert.Equal(t, []int{1}, tree.Nodes[1].Residue)
	assert.Equal(t, 2, tree.Width())
	assert.Equal(t, 1, tree.NbFill)
	assert.Equal(t, 0, tree.Rank(3))
}

func TestDecomposeIsolated(t *testing.T) {
	// Var 2 is in no sub-function, vars 0 and 1 only in unary ones.
	sfs := [][]int{{0}, {1}, {1}}
	tree, err := Decompose(3, sfs)
	require.NoError(t, err)
	checkTree(t, tree, 3, sfs)
	assert.Len(t, tree.Nodes, 3)
	assert.Equal(t, 0, tree.Width())
	for _, n := range tree.Nodes[1:] {
		assert.Equal(t, 0, n.Parent, "singletons hang from the root")
	}
}

func TestDecomposeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		n := 1 + rng.Intn(25)
		sfs := randomSubFunctions(rng, 1+rng.Intn(n), min(n, 4), n)
		tree, err := Decompose(n, sfs)
		require.NoError(t, err, "instance #%d", i)
		checkTree(t, tree, n, sfs)
	}
}

func TestDecomposeInvalid(t *testing.T) {
	_, err := Decompose(3, [][]int{{0, 3}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = Decompose(3, [][]int{{-1}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAssignInconsistent(t *testing.T) {
	tree, err := Decompose(4, [][]int{{0, 1}, {2, 3}})
	require.NoError(t, err)
	err = tree.assign([][]int{{0, 2}})
	assert.True(t, errors.Is(err, ErrInconsistent))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestProject(t *testing.T) {
	// Full assignment 0b10110 over 5 vars; extract bits at shifts 4, 0, 2.
	assert.Equal(t, uint64(0b101), project(0b10110, []uint{4, 0, 2}))
	assert.Equal(t, uint64(0), project(0b10110, nil))
}
