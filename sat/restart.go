package sat

import "sort"

// restartAndForget resets the search to level 0 and discards the
// lowest-scoring half of the learned clauses, where a clause's score is the
// mean activity of its literals. The limit that triggered the forget grows by
// half so restarts become rarer as the run progresses.
//
// Learned clauses that serve as the antecedent of a variable still assigned
// after the backtrack (a unit learned clause propagated at level 0) are never
// discarded. Surviving clauses are compacted to fresh ids and every
// antecedent is remapped so clause references stay valid.
func (s *Solver) restartAndForget() {
	s.learnedLimit *= 1.5
	s.backtrack(0)

	locked := map[int]struct{}{}
	for v := 1; v <= s.numVars; v++ {
		if s.value[v] != Unknown && s.antecedent[v] != noAntecedent {
			locked[s.antecedent[v]] = struct{}{}
		}
	}

	type scoredClause struct {
		id    int
		score float64
	}
	learned := make([]scoredClause, 0, len(s.formula)-s.numOriginal)
	for id := s.numOriginal; id < len(s.formula); id++ {
		c := s.formula[id]
		sum := 0.0
		for _, l := range c {
			sum += s.activity[l.index()]
		}
		learned = append(learned, scoredClause{id: id, score: sum / float64(len(c))})
	}
	sort.SliceStable(learned, func(i, j int) bool {
		return learned[i].score < learned[j].score
	})

	// Discard the lower-scoring floor(k/2) clauses, skipping locked ones.
	discard := map[int]struct{}{}
	nDiscard := len(learned) / 2
	for _, sc := range learned {
		if len(discard) == nDiscard {
			break
		}
		if _, ok := locked[sc.id]; ok {
			continue
		}
		discard[sc.id] = struct{}{}
	}

	// Compact the formula and remap clause ids.
	remap := make(map[int]int, len(s.formula)-len(discard))
	compacted := s.formula[:s.numOriginal]
	for id := 0; id < s.numOriginal; id++ {
		remap[id] = id
	}
	s.learnedSet = map[string]struct{}{}
	for id := s.numOriginal; id < len(s.formula); id++ {
		if _, ok := discard[id]; ok {
			continue
		}
		remap[id] = len(compacted)
		compacted = append(compacted, s.formula[id])
		s.learnedSet[canonicalKey(s.formula[id])] = struct{}{}
	}
	s.formula = compacted

	for v := 1; v <= s.numVars; v++ {
		if s.value[v] != Unknown && s.antecedent[v] != noAntecedent {
			s.antecedent[v] = remap[s.antecedent[v]]
		}
	}
}
