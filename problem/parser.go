package problem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxPrealloc bounds the number of clauses allocated ahead from the header, which is not trusted.
const maxPrealloc = 1 << 16

// ParseWCNF parses a DIMACS WCNF file and returns the corresponding MAXSAT instance.
// A plain DIMACS CNF file is accepted too, each of its clauses being given a weight of 1.
// Hard clauses, i.e clauses whose weight is at least the optional top weight, are kept
// as clauses with that weight.
func ParseWCNF(f io.Reader) (*MaxSAT, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var (
		nbVars    int
		nbClauses int
		topWeight int // weight of hard clauses
		weighted  bool
		header    bool
		clauses   []Clause
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' || line[0] == '%' {
			continue
		}
		if line[0] == 'p' {
			fields := strings.Fields(line)
			if len(fields) < 4 || (fields[1] != "wcnf" && fields[1] != "cnf") {
				return nil, fmt.Errorf("invalid syntax %q in WCNF file", line)
			}
			weighted = fields[1] == "wcnf"
			var err error
			nbVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("nbvars not an int: %q", fields[2])
			}
			if nbVars < 0 {
				return nil, fmt.Errorf("invalid number of vars %d", nbVars)
			}
			nbClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("nbClauses not an int: %q", fields[3])
			}
			if nbClauses < 0 {
				return nil, fmt.Errorf("invalid number of clauses %d", nbClauses)
			}
			clauses = make([]Clause, 0, min(nbClauses, maxPrealloc))
			if len(fields) == 5 && weighted {
				topWeight, err = strconv.Atoi(fields[4])
				if err != nil {
					return nil, fmt.Errorf("top weight not an int: %q", fields[4])
				}
			}
			header = true
			continue
		}
		if !header {
			return nil, fmt.Errorf("clause %q found before header", line)
		}
		clause, err := parseWCNFClause(line, weighted, nbVars)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read WCNF file: %v", err)
	}
	if !header {
		return nil, fmt.Errorf("no header found in WCNF file")
	}
	pb, err := NewMaxSAT(nbVars, clauses)
	if err != nil {
		return nil, err
	}
	pb.top = topWeight
	return pb, nil
}

// Parses a WCNF line containing a clause and returns the clause and its weight.
// In an unweighted file, the weight is always 1.
func parseWCNFClause(line string, weighted bool, nbVars int) (Clause, error) {
	fields := strings.Fields(line)
	if fields[len(fields)-1] != "0" {
		return Clause{}, fmt.Errorf("clause %q is not terminated by 0", line)
	}
	fields = fields[:len(fields)-1] // Last field is clause terminator 0
	clause := Clause{Weight: 1}
	if weighted {
		if len(fields) == 0 {
			return Clause{}, fmt.Errorf("missing weight in WCNF clause %q", line)
		}
		w, err := strconv.Atoi(fields[0])
		if err != nil {
			return Clause{}, fmt.Errorf("invalid weight %q in WCNF clause %q", fields[0], line)
		}
		clause.Weight = w
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return Clause{}, fmt.Errorf("empty clause %q", line)
	}
	clause.Lits = make([]Lit, len(fields))
	for i, field := range fields {
		val, err := strconv.Atoi(field)
		if err != nil {
			return Clause{}, fmt.Errorf("invalid integer %q in WCNF clause %q", field, line)
		}
		if val == 0 {
			return Clause{}, fmt.Errorf("null literal in clause %q", line)
		}
		if val > nbVars || -val > nbVars {
			return Clause{}, fmt.Errorf("invalid literal %d for problem with %d vars only", val, nbVars)
		}
		clause.Lits[i] = IntToLit(val)
	}
	return clause, nil
}
