package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRestartAndForget(t *testing.T) {
	s := newTestSolver(t, Options{Heuristic: HeuristicOrdered, RandomRestart: true}, 2, [][]int{{1, 2}})
	s.history = [][]Literal{{}}

	// Install four learned clauses by hand and pin the literal activities so
	// the scores are fully determined. Clause 4 has the lowest score but is
	// locked: it is the antecedent of a level-0 assignment.
	for _, c := range []Clause{{-1, 2}, {1, -2}, {-1, -2}, {2}} {
		s.formula = append(s.formula, c)
		s.learnedSet[canonicalKey(c)] = struct{}{}
	}
	s.activity[Literal(1).index()] = 8
	s.activity[Literal(-1).index()] = 4
	s.activity[Literal(2).index()] = 0
	s.activity[Literal(-2).index()] = 2
	s.learnedLimit = 4
	s.assign(2, 4, 0)

	s.restartAndForget()

	// Scores: clause 1 -> 2, clause 2 -> 5, clause 3 -> 3, clause 4 -> 0.
	// The two lowest-scoring unlocked clauses (1 and 3) are discarded.
	wantFormula := []Clause{{1, 2}, {1, -2}, {2}}
	if diff := cmp.Diff(wantFormula, s.Clauses()); diff != "" {
		t.Errorf("formula mismatch (-want, +got):\n%s", diff)
	}
	if len(s.learnedSet) != 2 {
		t.Errorf("learnedSet size: got %d, want 2", len(s.learnedSet))
	}
	if got := s.antecedent[2]; got != 2 {
		t.Errorf("antecedent of variable 2: got %d, want remapped id 2", got)
	}
	if s.learnedLimit != 6 {
		t.Errorf("learnedLimit: got %f, want 6", s.learnedLimit)
	}
	if s.value[2] != True {
		t.Errorf("level-0 assignment of variable 2 was cleared by the restart")
	}
}

func TestSolvePigeonholeWithRestarts(t *testing.T) {
	// Three pigeons, two holes: variable 2i-2+j means pigeon i sits in hole j.
	clauses := [][]int{
		{1, 2}, {3, 4}, {5, 6},
		{-1, -3}, {-1, -5}, {-3, -5},
		{-2, -4}, {-2, -6}, {-4, -6},
	}
	s := newTestSolver(t, Options{Heuristic: HeuristicVSIDS, RandomRestart: true, Seed: 11}, 6, clauses)
	if s.Solve() {
		t.Fatal("Solve(): got SAT, want UNSAT")
	}
}
