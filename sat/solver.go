// Package sat implements a conflict-driven clause-learning (CDCL) solver for
// propositional formulas in conjunctive normal form. The solver decides
// satisfiability, produces a total assignment on SAT and, when proof
// generation is enabled, records for every learned clause the ordered list of
// parent clauses whose iterated resolution yields it so that a refutation can
// be rendered on UNSAT.
package sat

import (
	"fmt"
	"math/rand"

	"github.com/rhartert/yagh"
)

// Heuristic selects the branching rule used to pick decision literals.
type Heuristic uint8

const (
	// HeuristicOrdered picks the smallest-indexed unassigned variable with a
	// random polarity.
	HeuristicOrdered Heuristic = iota

	// HeuristicRandom picks a uniformly random unassigned variable with a
	// random polarity.
	HeuristicRandom

	// HeuristicTwoClause picks the unassigned variable occurring in the most
	// binary clauses, falling back to random selection when no unassigned
	// variable occurs in any.
	HeuristicTwoClause

	// HeuristicVSIDS picks the unassigned literal with the highest activity,
	// skipping the previous decision literal.
	HeuristicVSIDS
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicOrdered:
		return "ordered"
	case HeuristicRandom:
		return "random"
	case HeuristicTwoClause:
		return "two_clause"
	case HeuristicVSIDS:
		return "vsids"
	default:
		return fmt.Sprintf("heuristic(%d)", uint8(h))
	}
}

// ParseHeuristic returns the Heuristic named by s.
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "ordered":
		return HeuristicOrdered, nil
	case "random":
		return HeuristicRandom, nil
	case "two_clause", "twoclause":
		return HeuristicTwoClause, nil
	case "vsids":
		return HeuristicVSIDS, nil
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

type Options struct {
	// Heuristic is the branching rule used to pick decisions.
	Heuristic Heuristic

	// GenerateProof enables parent-list tracking for learned clauses so that
	// a resolution refutation can be extracted on UNSAT. Incompatible with
	// RandomRestart: forgetting a learned ancestor would break the
	// refutation DAG.
	GenerateProof bool

	// PureLiterals enables pure-literal elimination before search. Literals
	// whose negation does not occur in the formula are assigned at a
	// permanent level that no backtrack ever clears.
	PureLiterals bool

	// RandomRestart enables restarts with activity-based clause forgetting
	// once the number of learned clauses exceeds a growing limit.
	RandomRestart bool

	// Seed seeds the solver's random source. All randomness (polarities,
	// random selection, activity boosts) flows from this single source, so
	// two runs with the same options and formula are identical.
	Seed int64
}

var DefaultOptions = Options{
	Heuristic: HeuristicVSIDS,
}

// Sentinel values for variable records.
const (
	// noAntecedent marks a variable assigned by a decision or by pure-literal
	// elimination rather than by unit propagation.
	noAntecedent = -1

	// levelNone is the level of an unassigned variable.
	levelNone = -1

	// levelPure is the permanent level of pure literals. It is never
	// backtracked to: every backtrack target is >= 0.
	levelPure = -999

	// noConflict is returned by propagation when a fixpoint is reached
	// without conflict.
	noConflict = -1
)

// Stats exposes the search statistics of a run.
type Stats struct {
	Decisions    int64
	Conflicts    int64
	Propagations int64
	PureLiterals int64
	Restarts     int64
	Learned      int64
}

// pendingUnit is a literal forced by a unit clause, queued until it is
// assigned by the propagation loop.
type pendingUnit struct {
	lit    Literal
	reason int // id of the clause that became unit on lit
}

type Solver struct {
	options Options
	rng     *rand.Rand

	// Clause database. Ids are indices into formula; originalSet and
	// learnedSet hold canonical keys used to reject duplicate additions.
	// numOriginal is the number of clauses loaded via AddClause; learned
	// clauses occupy the tail of formula.
	formula     []Clause
	numOriginal int
	originalSet map[string]struct{}
	learnedSet  map[string]struct{}

	// parents maps a learned clause id to the ordered list of clause ids
	// whose iterated resolution yields it. Nil unless GenerateProof.
	parents map[int][]int

	// Per-variable records, 1-based (index 0 unused).
	value       []LBool
	antecedent  []int
	level       []int
	numVars     int
	numAssigned int

	// history[l] lists the literals assigned at decision level l, decision
	// first (for l > 0) followed by the propagated literals in the order
	// propagation assigned them. Truncated on backtrack.
	history [][]Literal

	// Stack of pending units discovered by propagation scans, with a
	// per-literal dedup mark.
	pending   []pendingUnit
	inPending []bool

	// Heuristic state. activity is indexed by Literal.index. The order heap
	// is only maintained for HeuristicVSIDS.
	activity       []float64
	twoClauseCount []int
	order          *yagh.IntMap[float64]
	prevDecision   Literal

	// Restart policy: forget is triggered when the number of learned
	// clauses exceeds learnedLimit.
	learnedLimit float64

	// Scratch set used by pure-literal elimination, sized to 2*numVars.
	seenLits *ResetSet

	// Model holds the satisfying assignment after a SAT verdict: entry v-1
	// is +v if variable v is true and -v otherwise.
	Model []Literal

	Stats      Stats
	learntSize EMA
}

// NewSolver returns a solver configured with the given options. The only
// rejected configuration is RandomRestart combined with GenerateProof.
func NewSolver(ops Options) (*Solver, error) {
	if ops.RandomRestart && ops.GenerateProof {
		return nil, fmt.Errorf("random restart cannot be combined with proof generation")
	}

	s := &Solver{
		options:        ops,
		rng:            rand.New(rand.NewSource(ops.Seed)),
		originalSet:    map[string]struct{}{},
		learnedSet:     map[string]struct{}{},
		value:          []LBool{Unknown},
		twoClauseCount: []int{0},
		antecedent:     []int{noAntecedent},
		level:          []int{levelNone},
		seenLits:       &ResetSet{},
		learntSize:     NewEMA(0.95),
	}
	if ops.GenerateProof {
		s.parents = map[int][]int{}
	}
	return s, nil
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	s, err := NewSolver(DefaultOptions)
	if err != nil {
		panic(err)
	}
	return s
}

// AddVariable declares a new variable and returns its 1-based index.
func (s *Solver) AddVariable() int {
	s.numVars++
	s.value = append(s.value, Unknown)
	s.antecedent = append(s.antecedent, noAntecedent)
	s.level = append(s.level, levelNone)
	s.activity = append(s.activity, 0, 0)
	s.twoClauseCount = append(s.twoClauseCount, 0)
	s.inPending = append(s.inPending, false, false)
	s.seenLits.Expand()
	s.seenLits.Expand()
	return s.numVars
}

// AddClause appends a clause to the formula. Clauses must be added before
// Solve is called. The clause id of the n-th added clause is n-1; these ids
// are stable and are the ones referenced by antecedents and proof parents.
//
// A clause is rejected as malformed if it is empty, contains the reserved
// literal 0, contains both polarities of a variable, or references a variable
// that was not declared with AddVariable. Repeated literals are dropped.
func (s *Solver) AddClause(lits []Literal) error {
	clause := make(Clause, 0, len(lits))
	seen := map[Literal]struct{}{}
	for _, l := range lits {
		if l == 0 {
			return fmt.Errorf("malformed clause %v: literal 0 is reserved", lits)
		}
		if l.Var() > s.numVars {
			return fmt.Errorf("malformed clause %v: variable %d was not declared", lits, l.Var())
		}
		if _, ok := seen[l.Opposite()]; ok {
			return fmt.Errorf("malformed clause %v: both polarities of variable %d", lits, l.Var())
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		clause = append(clause, l)
	}
	if len(clause) == 0 {
		return fmt.Errorf("malformed clause: empty")
	}

	s.formula = append(s.formula, clause)
	s.numOriginal++
	s.originalSet[canonicalKey(clause)] = struct{}{}

	// Heuristic pre-initialization: activity per literal occurrence for
	// VSIDS, binary-clause counts per variable for two-clause.
	switch s.options.Heuristic {
	case HeuristicVSIDS:
		for _, l := range clause {
			s.activity[l.index()]++
		}
	case HeuristicTwoClause:
		if len(clause) == 2 {
			for _, l := range clause {
				s.twoClauseCount[l.Var()]++
			}
		}
	}
	return nil
}

// NumVariables returns the number of declared variables.
func (s *Solver) NumVariables() int { return s.numVars }

// NumOriginalClauses returns the number of clauses loaded with AddClause.
// Clauses at ids >= NumOriginalClauses are learned.
func (s *Solver) NumOriginalClauses() int { return s.numOriginal }

// NumLearned returns the number of learned clauses currently in the database.
func (s *Solver) NumLearned() int { return len(s.learnedSet) }

// Clauses returns the clause database: the original clauses followed by the
// learned ones and, on UNSAT with proofs enabled, the empty clause [0]. The
// returned slice is owned by the solver.
func (s *Solver) Clauses() []Clause { return s.formula }

// Parents returns the proof accounting map from learned clause ids to their
// ordered parent ids, or nil if proof generation is disabled.
func (s *Solver) Parents() map[int][]int { return s.parents }

// AssignmentHistory returns the per-level assignment history as it stood when
// the search ended. The returned slice is owned by the solver.
func (s *Solver) AssignmentHistory() [][]Literal { return s.history }

func (s *Solver) litValue(l Literal) LBool {
	v := s.value[l.Var()]
	if l < 0 {
		return v.Opposite()
	}
	return v
}

// assign records the assignment making l true. Assignments are never
// overwritten: backtrack is the only way to clear them.
func (s *Solver) assign(l Literal, antecedentID, level int) {
	v := l.Var()
	if s.value[v] != Unknown {
		panic(fmt.Sprintf("reassignment of variable %d", v))
	}
	s.value[v] = Lift(l > 0)
	s.antecedent[v] = antecedentID
	s.level[v] = level
	s.numAssigned++
}

// backtrack clears every variable assigned at a level strictly greater than
// target and truncates the assignment history accordingly. Level-0 and
// pure-literal assignments always survive.
func (s *Solver) backtrack(target int) {
	for v := 1; v <= s.numVars; v++ {
		if s.level[v] <= target {
			continue
		}
		s.value[v] = Unknown
		s.antecedent[v] = noAntecedent
		s.level[v] = levelNone
		s.numAssigned--
		if s.order != nil {
			pos := PositiveLiteral(v)
			s.order.Put(pos.index(), -s.activity[pos.index()])
			neg := pos.Opposite()
			s.order.Put(neg.index(), -s.activity[neg.index()])
		}
	}
	if len(s.history) > target+1 {
		s.history = s.history[:target+1]
	}
}

// eliminatePureLiterals assigns every literal whose negation is absent from
// the formula. Pure literals live at a permanent sentinel level and are
// immune to backtracking and forgetting.
func (s *Solver) eliminatePureLiterals() {
	s.seenLits.Clear()
	for _, c := range s.formula {
		for _, l := range c {
			s.seenLits.Add(l.index())
		}
	}

	for v := 1; v <= s.numVars; v++ {
		pos := PositiveLiteral(v)
		neg := pos.Opposite()
		hasPos := s.seenLits.Contains(pos.index())
		hasNeg := s.seenLits.Contains(neg.index())
		switch {
		case hasPos && !hasNeg:
			s.assign(pos, noAntecedent, levelPure)
			s.Stats.PureLiterals++
		case hasNeg && !hasPos:
			s.assign(neg, noAntecedent, levelPure)
			s.Stats.PureLiterals++
		}
	}
}

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(-v)
}

// Solve runs the CDCL search to completion and reports satisfiability. On
// SAT the model is stored in s.Model; on UNSAT with proofs enabled the
// clause database ends with the empty clause and Parents holds the
// refutation DAG.
func (s *Solver) Solve() bool {
	s.history = append(s.history[:0], []Literal{})
	s.learnedLimit = float64(s.numOriginal / 5)
	if s.options.Heuristic == HeuristicVSIDS {
		s.initOrder()
	}
	if s.options.PureLiterals {
		s.eliminatePureLiterals()
	}

	level := 0
	for {
		if s.options.RandomRestart && float64(len(s.learnedSet)) > s.learnedLimit {
			s.restartAndForget()
			level = 0
			s.Stats.Restarts++
		}

		if conflictID := s.propagate(level); conflictID != noConflict {
			s.Stats.Conflicts++
			backtrackLevel := s.analyze(conflictID, level)
			if backtrackLevel < 0 {
				return false
			}
			s.backtrack(backtrackLevel)
			level = backtrackLevel
			continue
		}

		if s.numAssigned == s.numVars {
			break
		}

		level++
		decision := s.pick()
		s.prevDecision = decision
		s.Stats.Decisions++
		s.history = append(s.history, []Literal{decision})
		s.assign(decision, noAntecedent, level)
		s.bumpActivity(decision)
	}

	s.saveModel()
	return true
}

func (s *Solver) saveModel() {
	s.Model = make([]Literal, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		switch s.value[v] {
		case True:
			s.Model[v-1] = PositiveLiteral(v)
		case False:
			s.Model[v-1] = NegativeLiteral(v)
		default:
			panic("not a model")
		}
	}
}

// AvgLearntSize returns an exponential moving average of the size of the
// clauses learned so far.
func (s *Solver) AvgLearntSize() float64 {
	return s.learntSize.Val()
}
