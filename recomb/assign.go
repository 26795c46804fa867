package recomb

// assign gives each sub-function to the first node, in post-order, whose clique contains all its vars.
func (t *Tree) assign(sfs [][]int) error {
	for i := range t.Nodes {
		t.Nodes[i].SubFuncs = nil
	}
	for i, sf := range sfs {
		found := false
		for _, id := range t.PostOrder {
			if n := &t.Nodes[id]; n.containsAll(sf) {
				n.SubFuncs = append(n.SubFuncs, i)
				found = true
				break
			}
		}
		if !found {
			return inconsistent("sub-function %d %v is in no clique", i, sf)
		}
	}
	return nil
}
