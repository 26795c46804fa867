/*
Package recomb implements an optimal partition crossover for decomposable pseudo-boolean functions.

Given two parents, the engine looks for the best offspring that takes, for each variable,
the value of one of the parents. Only the variables on which the parents differ matter:
the problem is first reduced to them (see package px), then their interaction graph is built,
two variables being adjacent when they appear in the same sub-function.

That graph is triangulated with a maximum cardinality search and its maximal cliques are
organised in a junction tree. Each sub-function is assigned to a node containing all its
variables, and a dynamic programming pass, from the leaves to the root, computes for each
assignment of the variables a node shares with its parent the best assignment of the other
variables of the node. The optimum is then rebuilt from the root. The cost is exponential in
the treewidth of the decomposition only, not in the number of differing variables.

Using the engine

    pb, err := problem.ParseWCNF(f)
    if err != nil {
        // ...
    }
    e := recomb.New(pb)
    res, err := e.Recombine(p1, p2)
    if err != nil {
        // ...
    }
    fmt.Println(res.Value, res.Offspring)

The value of res.Offspring is at least the value of both parents.
Errors caused by invalid parents are caused by ErrInvalidInput; ErrInconsistent denotes a bug.

Determinism

Ties are always broken the same way: the maximum cardinality search picks the smallest vertex
among those with the most numbered neighbors, the spanning tree prefers heavier separators,
then smaller clique indices, and the DP keeps the first best residue assignment it meets.
Two calls with the same input thus return the same offspring.
*/
package recomb
