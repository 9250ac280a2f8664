// Package proof turns the clause database and parent lists produced by an
// unsatisfiable solver run into a resolution refutation: a compact list of
// clauses in which every derived clause is the resolvent of exactly two
// other clauses of the list and the last derivation yields the empty clause.
package proof

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/melpulomas/cdcl/sat"
)

// EmptyClauseID keys the empty clause in a refutation's parent map. Every
// other clause id is a 1-based index into Clauses.
const EmptyClauseID = -1

// Refutation is a renumbered resolution proof. Parents maps each derived
// clause id to its exactly two parent ids; original clauses have no entry.
type Refutation struct {
	Clauses []sat.Clause
	Parents map[int][]int
}

// Extract builds a refutation from a solver's final clause database and
// parents map. The database must end with the empty clause [0], which is the
// case after Solve returned false with proof generation enabled.
//
// Clauses that do not contribute to the empty clause are dropped, n-ary
// resolution chains are expanded into binary resolutions (introducing
// intermediate clauses), and the surviving clauses are renumbered compactly.
func Extract(formula []sat.Clause, parents map[int][]int) (*Refutation, error) {
	if len(formula) == 0 || !formula[len(formula)-1].IsEmpty() {
		return nil, fmt.Errorf("clause database does not end with the empty clause")
	}
	emptyID := len(formula) - 1
	if len(parents[emptyID]) == 0 {
		return nil, fmt.Errorf("empty clause has no recorded parents")
	}

	// Work on copies: binary expansion rewrites parent lists and appends
	// intermediate clauses.
	db := make([]sat.Clause, len(formula))
	copy(db, formula)
	parentsOf := make(map[int][]int, len(parents))
	for id, ps := range parents {
		parentsOf[id] = append([]int(nil), ps...)
	}

	needed := neededClauses(emptyID, parentsOf)
	givenSize := len(db)

	// Expand every n-ary resolution into a left-to-right chain of binary
	// ones. The last parent is kept aside so the final binary step derives
	// the original clause id.
	for _, id := range needed {
		ps := parentsOf[id]
		if len(ps) <= 2 {
			continue
		}
		last := ps[len(ps)-1]
		chain := ps[:len(ps)-1]

		prev := chain[0]
		current := db[chain[0]]
		for _, next := range chain[1:] {
			current = resolve(current, db[next])
			db = append(db, current)
			parentsOf[len(db)-1] = []int{prev, next}
			prev = len(db) - 1
		}
		parentsOf[id] = []int{prev, last}
	}

	// Renumber: keep the needed clauses and every expansion intermediate,
	// drop the empty-clause marker and everything else.
	neededSet := map[int]struct{}{}
	for _, id := range needed {
		neededSet[id] = struct{}{}
	}

	ref := &Refutation{Parents: map[int][]int{}}
	newID := map[int]int{}
	kept := []int{}
	for id, c := range db {
		if c.IsEmpty() {
			continue
		}
		if _, ok := neededSet[id]; !ok && id < givenSize {
			continue
		}
		ref.Clauses = append(ref.Clauses, c)
		newID[id] = len(ref.Clauses) // 1-based
		kept = append(kept, id)
	}

	for _, id := range kept {
		ps, ok := parentsOf[id]
		if !ok {
			continue // original clause
		}
		ref.Parents[newID[id]] = renumber(ps, newID)
	}
	ref.Parents[EmptyClauseID] = renumber(parentsOf[emptyID], newID)

	return ref, nil
}

// neededClauses walks the parent lists backward from the empty clause and
// returns, in ascending order, the empty clause's own id and the ids of every
// clause contributing to it.
func neededClauses(emptyID int, parentsOf map[int][]int) []int {
	visited := map[int]struct{}{emptyID: {}}
	queue := sat.NewQueue[int](len(parentsOf))
	for _, p := range parentsOf[emptyID] {
		queue.Push(p)
	}
	for !queue.IsEmpty() {
		id := queue.Pop()
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		for _, p := range parentsOf[id] {
			if _, ok := visited[p]; !ok {
				queue.Push(p)
			}
		}
	}

	needed := make([]int, 0, len(visited))
	for id := range visited {
		needed = append(needed, id)
	}
	sort.Ints(needed)
	return needed
}

func renumber(ps []int, newID map[int]int) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = newID[p]
	}
	sort.Ints(out)
	return out
}

// resolve returns the resolvent of the two clauses: their union minus every
// complementary pair.
func resolve(a, b sat.Clause) sat.Clause {
	lits := map[sat.Literal]struct{}{}
	for _, l := range a {
		lits[l] = struct{}{}
	}
	for _, l := range b {
		if _, ok := lits[l.Opposite()]; ok {
			delete(lits, l.Opposite())
		} else {
			lits[l] = struct{}{}
		}
	}

	out := make(sat.Clause, 0, len(lits))
	for l := range lits {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Write renders the refutation: a "v <count>" header, one clause per line,
// then one "<parent> <parent> <id>" line per derivation ending with the
// empty clause's line.
func (r *Refutation) Write(w io.Writer) error {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "v %d\n", len(r.Clauses))
	for _, c := range r.Clauses {
		for i, l := range c {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(l.String())
		}
		sb.WriteByte('\n')
	}

	ids := make([]int, 0, len(r.Parents))
	for id := range r.Parents {
		if id != EmptyClauseID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	ids = append(ids, EmptyClauseID)

	for _, id := range ids {
		for _, p := range r.Parents[id] {
			fmt.Fprintf(sb, "%d ", p)
		}
		fmt.Fprintf(sb, "%d\n", id)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
