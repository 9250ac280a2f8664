package sat

// Validate reports whether the given total assignment satisfies every clause
// of the formula. The assignment uses the solver's model representation:
// entry v-1 is +v if variable v is true and -v otherwise.
func Validate(formula []Clause, model []Literal) bool {
	assigned := map[Literal]struct{}{}
	for _, l := range model {
		assigned[l] = struct{}{}
	}

clauses:
	for _, c := range formula {
		for _, l := range c {
			if _, ok := assigned[l]; ok {
				continue clauses
			}
		}
		return false
	}
	return true
}
