package sat

import "github.com/rhartert/yagh"

// pick selects the literal to assert at the next decision level. Only
// unassigned variables are candidates. The polarity is random for the
// ordered, random and two-clause rules; the VSIDS rule chooses it itself.
func (s *Solver) pick() Literal {
	switch s.options.Heuristic {
	case HeuristicOrdered:
		return s.pickOrdered()
	case HeuristicTwoClause:
		return s.pickTwoClause()
	case HeuristicVSIDS:
		return s.pickVSIDS()
	default:
		return s.pickRandom()
	}
}

func (s *Solver) randomPolarity(v int) Literal {
	if s.rng.Intn(2) == 0 {
		return PositiveLiteral(v)
	}
	return NegativeLiteral(v)
}

func (s *Solver) pickOrdered() Literal {
	for v := 1; v <= s.numVars; v++ {
		if s.value[v] == Unknown {
			return s.randomPolarity(v)
		}
	}
	panic("pick with all variables assigned")
}

func (s *Solver) pickRandom() Literal {
	unassigned := make([]int, 0, s.numVars-s.numAssigned)
	for v := 1; v <= s.numVars; v++ {
		if s.value[v] == Unknown {
			unassigned = append(unassigned, v)
		}
	}
	if len(unassigned) == 0 {
		panic("pick with all variables assigned")
	}
	return s.randomPolarity(unassigned[s.rng.Intn(len(unassigned))])
}

// pickTwoClause selects the unassigned variable with the highest binary
// clause count, random selection when no unassigned variable occurs in a
// binary clause.
func (s *Solver) pickTwoClause() Literal {
	best, bestCount := 0, 0
	for v := 1; v <= s.numVars; v++ {
		if s.value[v] != Unknown {
			continue
		}
		if c := s.twoClauseCount[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	if best == 0 {
		return s.pickRandom()
	}
	return s.randomPolarity(best)
}

// initOrder builds the VSIDS ordering heap over all 2N literals, keyed by
// Literal.index with negated activities (the heap pops its minimum).
func (s *Solver) initOrder() {
	s.order = yagh.New[float64](0)
	s.order.GrowBy(2 * s.numVars)
	for i := range s.activity {
		s.order.Put(i, -s.activity[i])
	}
}

// pickVSIDS pops the highest-activity literal of an unassigned variable. The
// previous decision literal is never chosen twice in a row: it is skipped
// and reinserted once another candidate is found. Literals of assigned
// variables encountered on the way are dropped; backtrack reinserts them
// when their variable is cleared. An exhausted heap falls back to random
// selection.
func (s *Solver) pickVSIDS() Literal {
	skipped := Literal(0)
	for {
		next, ok := s.order.Pop()
		if !ok {
			break
		}
		l := literalFromIndex(next.Elem)
		if s.value[l.Var()] != Unknown {
			continue
		}
		if l == s.prevDecision && skipped == 0 {
			skipped = l
			continue
		}
		if skipped != 0 {
			s.order.Put(skipped.index(), -s.activity[skipped.index()])
		}
		return l
	}
	if skipped != 0 {
		s.order.Put(skipped.index(), -s.activity[skipped.index()])
	}
	return s.pickRandom()
}

// bumpActivity applies the activity dynamics to literal l: an additive bump
// followed by a multiplicative boost by 1+r with r drawn uniformly from
// [0, 1). There is no global decay sweep; the multiplicative growth of
// recent participants implicitly decays the rest. Every literal of a learned
// clause and every decision literal is bumped, whatever the branching rule:
// the restart policy scores clauses with these activities too.
func (s *Solver) bumpActivity(l Literal) {
	i := l.index()
	s.activity[i]++
	s.activity[i] *= 1 + s.rng.Float64()
	if s.order != nil && s.order.Contains(i) {
		s.order.Put(i, -s.activity[i])
	}
	if s.activity[i] > 1e100 {
		s.rescaleActivities()
	}
}

func (s *Solver) rescaleActivities() {
	for i := range s.activity {
		s.activity[i] *= 1e-100 // important to keep proportions
		if s.order != nil && s.order.Contains(i) {
			s.order.Put(i, -s.activity[i])
		}
	}
}
