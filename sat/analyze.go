package sat

import "sort"

// analyze derives a learned clause from the conflict at the given decision
// level using the First-UIP cut, adds it to the database, and returns the
// backtrack level. A negative return value signals that the formula is
// unsatisfiable: the cut resolved down to the empty clause. When proofs are
// enabled the ordered list of clauses resolved along the way is recorded as
// the learned clause's parents.
func (s *Solver) analyze(conflictID, level int) int {
	cut := map[Literal]struct{}{}
	for _, l := range s.formula[conflictID] {
		cut[l] = struct{}{}
	}
	parents := []int{conflictID}

	// Resolve backward along the assignment history of the conflict level
	// until a single literal of that level remains. At level 0 there is no
	// decision to stop at: resolution continues until the history holds
	// nothing to resolve on, which drives the cut to the empty clause.
	for {
		nCurrentLevel := 0
		for l := range cut {
			if s.level[l.Var()] == level {
				nCurrentLevel++
			}
		}

		p := s.latestPropagated(cut, level)
		if p == 0 {
			break
		}
		if nCurrentLevel == 1 && level != 0 {
			break
		}

		antecedentID := s.antecedent[p.Var()]
		s.resolveOn(cut, s.formula[antecedentID], p)
		parents = append(parents, antecedentID)
	}

	if len(cut) == 0 {
		if s.parents != nil {
			s.formula = append(s.formula, Clause{0})
			s.parents[len(s.formula)-1] = parents
		}
		return -1
	}

	learned := make(Clause, 0, len(cut))
	for l := range cut {
		learned = append(learned, l)
	}
	// Canonical order keeps the database deterministic: the activity boosts
	// below each draw from the random source, so the bump order matters for
	// reproducibility.
	sort.Slice(learned, func(i, j int) bool { return learned[i] < learned[j] })

	key := canonicalKey(learned)
	_, inOriginal := s.originalSet[key]
	_, inLearned := s.learnedSet[key]
	if !inOriginal && !inLearned {
		s.formula = append(s.formula, learned)
		s.learnedSet[key] = struct{}{}
		s.Stats.Learned++
		s.learntSize.Add(float64(len(learned)))
		if s.parents != nil {
			s.parents[len(s.formula)-1] = parents
		}
		if s.options.Heuristic == HeuristicTwoClause && len(learned) == 2 {
			for _, l := range learned {
				s.twoClauseCount[l.Var()]++
			}
		}
		for _, l := range learned {
			s.bumpActivity(l)
		}
	}

	// Backtrack to the deepest level below the conflict level that appears
	// in the learned clause; 0 when the clause is unit at the conflict
	// level. Sentinel levels never win: the floor is 0.
	backtrackLevel := 0
	for _, l := range learned {
		if lv := s.level[l.Var()]; lv < level && lv > backtrackLevel {
			backtrackLevel = lv
		}
	}
	return backtrackLevel
}

// latestPropagated walks the assignment history of the given level from most
// recent to oldest and returns the latest propagated literal (one with a real
// antecedent) whose variable occurs in the cut, or 0 if there is none.
func (s *Solver) latestPropagated(cut map[Literal]struct{}, level int) Literal {
	hist := s.history[level]
	for i := len(hist) - 1; i >= 0; i-- {
		l := hist[i]
		if s.antecedent[l.Var()] == noAntecedent {
			continue
		}
		if _, ok := cut[l]; ok {
			return l
		}
		if _, ok := cut[l.Opposite()]; ok {
			return l
		}
	}
	return 0
}

// resolveOn replaces the cut with its resolvent against clause c on the
// pivot literal p: the union of both minus the complementary pair on p. The
// cut holds only falsified literals, so it contains the opposite of p (which
// is currently true) and c, p's antecedent, contains p itself.
func (s *Solver) resolveOn(cut map[Literal]struct{}, c Clause, p Literal) {
	delete(cut, p.Opposite())
	for _, l := range c {
		if l != p {
			cut[l] = struct{}{}
		}
	}
}
