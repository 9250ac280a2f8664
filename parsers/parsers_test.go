package parsers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/melpulomas/cdcl/sat"
)

// instance collects the parsed formula to implement SATSolver.
type instance struct {
	Variables int
	Clauses   [][]sat.Literal
}

func (i *instance) AddVariable() int {
	i.Variables++
	return i.Variables
}

func (i *instance) AddClause(tmpClause []sat.Literal) error {
	clause := make([]sat.Literal, len(tmpClause))
	copy(clause, tmpClause)
	i.Clauses = append(i.Clauses, clause)
	return nil
}

const testInstance = `c a small test instance
p cnf 3 4
1 2 3 0
-1 2 0
c a comment between clauses
-2 3 0
-3 0
`

func TestLoad(t *testing.T) {
	got := instance{}
	if err := Load(strings.NewReader(testInstance), &got); err != nil {
		t.Fatalf("Load(): %s", err)
	}

	want := instance{
		Variables: 3,
		Clauses: [][]sat.Literal{
			{1, 2, 3},
			{-1, 2},
			{-2, 3},
			{-3},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want, +got):\n%s", diff)
	}
}

func TestLoadDIMACSNoFile(t *testing.T) {
	got := instance{}
	if err := LoadDIMACS("", false, &got); err == nil {
		t.Error("LoadDIMACS(): want error, got none")
	}
}

func TestReadSolution(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sol.txt")
	content := "SATISFIABLE 1 -2 3 0\n"
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSolution(filename)
	if err != nil {
		t.Fatalf("ReadSolution(): %s", err)
	}
	want := []sat.Literal{1, -2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSolution() mismatch (-want, +got):\n%s", diff)
	}
}

func TestReadSolutionUnsatisfiable(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sol.txt")
	if err := os.WriteFile(filename, []byte("UNSATISFIABLE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSolution(filename)
	if err != nil {
		t.Fatalf("ReadSolution(): %s", err)
	}
	if got != nil {
		t.Errorf("ReadSolution(): got %v, want nil", got)
	}
}
