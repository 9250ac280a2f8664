package sat

import "testing"

func TestClauseStatus(t *testing.T) {
	// Formula fixes 1 true and 2 false; 3 stays unassigned.
	s := newTestSolver(t, DefaultOptions, 3, [][]int{{1}, {-2}})
	s.history = [][]Literal{{}}
	if got := s.propagate(0); got != noConflict {
		t.Fatalf("propagate(): got conflict %d, want none", got)
	}

	for _, tt := range []struct {
		name     string
		clause   []int
		want     clauseStatus
		wantUnit Literal
	}{
		{"satisfied by a true literal", []int{1, 2, 3}, statusSatisfied, 0},
		{"satisfied dominates false literals", []int{2, 1}, statusSatisfied, 0},
		{"conflicting", []int{-1, 2}, statusConflicting, 0},
		{"unit", []int{2, 3}, statusUnit, 3},
		{"unit on a negative literal", []int{-1, -3}, statusUnit, -3},
		{"undetermined", []int{2, 3, -3}, statusUndetermined, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			st, unit := s.status(Clause(lits(tt.clause)))
			if st != tt.want || unit != tt.wantUnit {
				t.Errorf("status(%v): got (%d, %d), want (%d, %d)", tt.clause, st, unit, tt.want, tt.wantUnit)
			}
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	a := Clause(lits([]int{3, -1, 2}))
	b := Clause(lits([]int{2, 3, -1}))
	c := Clause(lits([]int{3, 1, 2}))

	if canonicalKey(a) != canonicalKey(b) {
		t.Errorf("keys of %v and %v differ", a, b)
	}
	if canonicalKey(a) == canonicalKey(c) {
		t.Errorf("keys of %v and %v collide", a, c)
	}
}

func TestValidate(t *testing.T) {
	formula := []Clause{{1, 2}, {-1, 3}}
	if !Validate(formula, []Literal{1, -2, 3}) {
		t.Error("Validate(): want true for a satisfying assignment")
	}
	if Validate(formula, []Literal{1, -2, -3}) {
		t.Error("Validate(): want false for a falsifying assignment")
	}
}
