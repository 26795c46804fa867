package problem

import (
	"fmt"
	"strings"
)

// A Clause is a weighted disjunction of literals.
type Clause struct {
	Lits   []Lit
	Weight int // Value of the clause when it is satisfied.
}

func (c Clause) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", c.Weight)
	for _, lit := range c.Lits {
		fmt.Fprintf(&sb, " %d", lit.Int())
	}
	sb.WriteString(" 0")
	return sb.String()
}

// A MaxSAT is a weighted MAXSAT problem seen as a decomposed objective:
// each clause is a sub-function worth its weight when satisfied, 0 otherwise.
// Maximizing the objective amounts to maximizing the total weight of satisfied clauses.
type MaxSAT struct {
	nbVars  int
	clauses []Clause
	sfs     []SubFunction
	pos     [][]int // For each clause, for each of its lits, the position of its var in the sub-function.
	top     int     // Weight of hard clauses, if any. 0 means there is no hard clause.
}

// NewMaxSAT returns a MAXSAT instance over nbVars variables.
// Clauses are not copied and must not be modified afterwards.
func NewMaxSAT(nbVars int, clauses []Clause) (*MaxSAT, error) {
	if nbVars < 0 {
		return nil, fmt.Errorf("invalid number of vars %d", nbVars)
	}
	pb := &MaxSAT{
		nbVars:  nbVars,
		clauses: clauses,
		sfs:     make([]SubFunction, len(clauses)),
		pos:     make([][]int, len(clauses)),
	}
	for i, c := range clauses {
		if len(c.Lits) == 0 {
			return nil, fmt.Errorf("clause %d is empty", i)
		}
		vars := make([]int, 0, len(c.Lits))
		pos := make([]int, len(c.Lits))
		for j, lit := range c.Lits {
			v := int(lit.Var())
			if v < 0 || v >= nbVars {
				return nil, fmt.Errorf("invalid literal %d for problem with %d vars only", lit.Int(), nbVars)
			}
			pos[j] = -1
			for k, w := range vars {
				if w == v {
					pos[j] = k
					break
				}
			}
			if pos[j] == -1 { // First occurrence of the var in the clause
				pos[j] = len(vars)
				vars = append(vars, v)
			}
		}
		pb.sfs[i] = SubFunction{Vars: vars, Weight: float64(c.Weight)}
		pb.pos[i] = pos
	}
	return pb, nil
}

// NbVars returns the number of variables of the problem.
func (pb *MaxSAT) NbVars() int { return pb.nbVars }

// SubFunctions returns one sub-function per clause, in the order the clauses were given.
func (pb *MaxSAT) SubFunctions() []SubFunction { return pb.sfs }

// Clauses returns the clauses of the problem.
func (pb *MaxSAT) Clauses() []Clause { return pb.clauses }

// TopWeight returns the weight above which clauses are considered hard, or 0.
func (pb *MaxSAT) TopWeight() int { return pb.top }

// Evaluate returns the weight of clause i if it is satisfied by t, 0 otherwise.
func (pb *MaxSAT) Evaluate(i int, t []bool) float64 {
	c := pb.clauses[i]
	for j, lit := range c.Lits {
		if lit.Satisfied(t[pb.pos[i][j]]) {
			return float64(c.Weight)
		}
	}
	return 0
}

// WCNF returns a DIMACS WCNF representation of the problem.
func (pb *MaxSAT) WCNF() string {
	var sb strings.Builder
	if pb.top != 0 {
		fmt.Fprintf(&sb, "p wcnf %d %d %d\n", pb.nbVars, len(pb.clauses), pb.top)
	} else {
		fmt.Fprintf(&sb, "p wcnf %d %d\n", pb.nbVars, len(pb.clauses))
	}
	for _, c := range pb.clauses {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
