package sat

// propagate repeatedly assigns literals forced by unit clauses at the given
// decision level until a conflict is found or no clause is unit. It returns
// the id of the conflicting clause, or noConflict at fixpoint.
//
// Each round linearly scans the whole formula: a falsified clause stops the
// scan immediately, a unit clause pushes its unassigned literal with the
// discovering clause as antecedent. The most recent pending literal is then
// assigned and the formula is rescanned. Duplicates are suppressed with the
// inPending marks; a pending literal whose variable got assigned in the
// meantime is dropped since its discovering clause is no longer unit.
func (s *Solver) propagate(level int) int {
	for {
		conflictID := noConflict
	scan:
		for id, c := range s.formula {
			switch st, unit := s.status(c); st {
			case statusConflicting:
				conflictID = id
				break scan
			case statusUnit:
				if !s.inPending[unit.index()] {
					s.inPending[unit.index()] = true
					s.pending = append(s.pending, pendingUnit{lit: unit, reason: id})
				}
			}
		}
		if conflictID != noConflict {
			s.clearPending()
			return conflictID
		}
		if len(s.pending) == 0 {
			return noConflict
		}

		p := s.pending[len(s.pending)-1]
		s.pending = s.pending[:len(s.pending)-1]
		s.inPending[p.lit.index()] = false
		if s.value[p.lit.Var()] != Unknown {
			continue
		}
		s.assign(p.lit, p.reason, level)
		s.history[level] = append(s.history[level], p.lit)
		s.Stats.Propagations++
	}
}

func (s *Solver) clearPending() {
	for _, p := range s.pending {
		s.inPending[p.lit.index()] = false
	}
	s.pending = s.pending[:0]
}
