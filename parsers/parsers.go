// Package parsers loads DIMACS CNF instances into a SAT solver and reads
// solver solution files back.
package parsers

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rhartert/dimacs"

	"github.com/melpulomas/cdcl/sat"
)

// SATSolver is the sink interface for DIMACS instances. Variables are
// declared first, then clauses of 1-based signed literals.
type SATSolver interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Load parses a DIMACS CNF formula from r and loads it in the given solver.
func Load(r io.Reader, solver SATSolver) error {
	b := &builder{solver: solver}
	return dimacs.ReadBuilder(r, b)
}

// LoadDIMACS parses the DIMACS CNF file and loads its CNF formula in the
// given SAT solver.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	reader, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer reader.Close()

	return Load(reader, solver)
}

// builder wraps the solver to implement dimacs.Builder.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		b.solver.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		clause[i] = sat.Literal(l)
	}
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// ReadSolution reads a solution file written by the solver CLI: the word
// SATISFIABLE followed by one signed literal per variable and a terminating
// 0. It returns nil if the file reports anything else than SATISFIABLE.
func ReadSolution(filename string) ([]sat.Literal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty solution file %q", filename)
	}
	if scanner.Text() != "SATISFIABLE" {
		return nil, nil
	}

	model := []sat.Literal{}
	for scanner.Scan() {
		l, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("error parsing literal %q: %w", scanner.Text(), err)
		}
		if l == 0 {
			break
		}
		model = append(model, sat.Literal(l))
	}
	return model, scanner.Err()
}
