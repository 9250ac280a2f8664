package proof

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/melpulomas/cdcl/sat"
)

func solveUnsat(t *testing.T, nVars int, clauses [][]int) *sat.Solver {
	t.Helper()
	s, err := sat.NewSolver(sat.Options{GenerateProof: true})
	if err != nil {
		t.Fatalf("NewSolver(): %s", err)
	}
	for i := 0; i < nVars; i++ {
		s.AddVariable()
	}
	for _, c := range clauses {
		lits := make([]sat.Literal, len(c))
		for i, l := range c {
			lits[i] = sat.Literal(l)
		}
		if err := s.AddClause(lits); err != nil {
			t.Fatalf("AddClause(%v): %s", c, err)
		}
	}
	if s.Solve() {
		t.Fatal("Solve(): got SAT, want UNSAT")
	}
	return s
}

func TestExtractDirectContradiction(t *testing.T) {
	s := solveUnsat(t, 1, [][]int{{1}, {-1}})

	ref, err := Extract(s.Clauses(), s.Parents())
	if err != nil {
		t.Fatalf("Extract(): %s", err)
	}

	wantClauses := []sat.Clause{{1}, {-1}}
	if diff := cmp.Diff(wantClauses, ref.Clauses); diff != "" {
		t.Errorf("clauses mismatch (-want, +got):\n%s", diff)
	}
	wantParents := map[int][]int{EmptyClauseID: {1, 2}}
	if diff := cmp.Diff(wantParents, ref.Parents); diff != "" {
		t.Errorf("parents mismatch (-want, +got):\n%s", diff)
	}

	sb := strings.Builder{}
	if err := ref.Write(&sb); err != nil {
		t.Fatalf("Write(): %s", err)
	}
	want := "v 2\n1\n-1\n1 2 -1\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("rendered proof mismatch (-want, +got):\n%s", diff)
	}
}

// checkRefutation verifies that every derivation has exactly two parents,
// that each derived clause is the resolvent of its parents, and that the
// empty clause's parents resolve to nothing.
func checkRefutation(t *testing.T, ref *Refutation) {
	t.Helper()
	for id, parents := range ref.Parents {
		if len(parents) != 2 {
			t.Fatalf("clause %d has %d parents, want 2", id, len(parents))
		}
		for _, p := range parents {
			if p < 1 || p > len(ref.Clauses) {
				t.Fatalf("clause %d has out-of-range parent %d", id, p)
			}
		}

		got := resolve(ref.Clauses[parents[0]-1], ref.Clauses[parents[1]-1])
		if id == EmptyClauseID {
			if len(got) != 0 {
				t.Fatalf("the empty clause's parents resolve to %v", got)
			}
			continue
		}
		want := append(sat.Clause(nil), ref.Clauses[id-1]...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("clause %d is not the resolvent of its parents (-want, +got):\n%s", id, diff)
		}
	}
}

func TestExtractImplicationChain(t *testing.T) {
	s := solveUnsat(t, 3, [][]int{{-1, 2}, {-2, 3}, {1}, {-3}})

	ref, err := Extract(s.Clauses(), s.Parents())
	if err != nil {
		t.Fatalf("Extract(): %s", err)
	}
	if _, ok := ref.Parents[EmptyClauseID]; !ok {
		t.Fatal("refutation has no derivation of the empty clause")
	}
	checkRefutation(t, ref)
}

func TestExtractPigeonhole(t *testing.T) {
	s := solveUnsat(t, 2, [][]int{{1, 2}, {-1, -2}, {1, -2}, {-1, 2}})

	ref, err := Extract(s.Clauses(), s.Parents())
	if err != nil {
		t.Fatalf("Extract(): %s", err)
	}
	checkRefutation(t, ref)
}

func TestExtractRejectsDatabaseWithoutEmptyClause(t *testing.T) {
	if _, err := Extract([]sat.Clause{{1}}, map[int][]int{}); err == nil {
		t.Fatal("Extract(): want error, got none")
	}
}
