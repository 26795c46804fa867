/*
Package problem describes pseudo-boolean objectives decomposed into sub-functions.

An objective over n binary variables is the sum of several sub-functions, each of
them depending on a small, ordered subset of the variables:

    f(x) = f_0(x_{v00}, x_{v01}, ...) + f_1(x_{v10}, ...) + ...

The objective is to be maximized. Any type implementing Instance can be handed to
the recombination engine; this package provides three of them.

1. weighted MAXSAT problems, parsed from a DIMACS WCNF (or CNF) stream:

    p wcnf 3 3 10
    10 1 2 0
    3 -1 3 0
    5 -2 -3 0

the programmer can create the instance by doing:

    inst, err := problem.ParseWCNF(f)

Every clause is a sub-function worth its weight when satisfied, 0 otherwise.

2. arbitrary lookup tables, built programmatically:

    tbl := problem.NewTable(4)
    err := tbl.Add([]int{0, 1}, []float64{0, 3, 3, 0})

The values are indexed by the assignment of the sub-function variables, the first
variable being the most significant bit.

3. random NK landscapes:

    inst, err := problem.NewNK(m, k, n, rand.New(rand.NewSource(seed)))
*/
package problem
