package sat

// attachClause installs a clause of 2 or more literals into the solver's
// watch structures, choosing the implicit Bin/Tri representation for sizes
// 2 and 3 and an arena-backed Long clause otherwise (§3 "Implicit clauses").
// lits must already be simplified (no duplicates, no complementary pair,
// nothing false at level 0 removed) by the caller. For learnt clauses the
// first literal must be the asserting (UIP) literal; attachClause chooses
// the second watch as the literal with the highest decision level, per
// §4.4 "the analyzer returns a handle ... the search driver enqueues its
// UIP literal".
//
// Returns RefUndef unless a Long clause was allocated.
func (s *Solver) attachClause(lits []Lit, redundant bool, glue uint32) ClauseRef {
	switch len(lits) {
	case 2:
		s.watch(lits[0].Not(), binWatch(lits[1], redundant))
		s.watch(lits[1].Not(), binWatch(lits[0], redundant))
		return RefUndef
	case 3:
		s.watch(lits[0].Not(), triWatch(lits[1], lits[2], redundant))
		s.watch(lits[1].Not(), triWatch(lits[0], lits[2], redundant))
		s.watch(lits[2].Not(), triWatch(lits[0], lits[1], redundant))
		return RefUndef
	default:
		ordered := lits
		if redundant {
			ordered = append([]Lit(nil), lits...)
			maxLevel := int32(-1)
			wl := 1
			for i := 1; i < len(ordered); i++ {
				if lvl := s.vars[ordered[i].Var()].level; lvl > maxLevel {
					maxLevel = lvl
					wl = i
				}
			}
			ordered[1], ordered[wl] = ordered[wl], ordered[1]
		}
		ref := s.arena.Alloc(ordered, redundant)
		c := s.arena.Get(ref)
		c.glue = glue
		if glue == 0 || glue > uint32(len(ordered)) {
			c.glue = uint32(len(ordered))
		}
		s.watch(ordered[0].Not(), longWatch(ref, ordered[1]))
		s.watch(ordered[1].Not(), longWatch(ref, ordered[0]))
		if redundant {
			s.learnts = append(s.learnts, ref)
		} else {
			s.constraints = append(s.constraints, ref)
		}
		return ref
	}
}

// detachLong removes every watch entry referring to the clause at ref
// (a Long clause) and frees it from the arena. It does not remove ref from
// s.constraints/s.learnts; callers filter those slices separately.
func (s *Solver) detachLong(ref ClauseRef) {
	c := s.arena.Get(ref)
	if len(c.lits) >= 2 {
		s.unwatchLong(c.lits[0].Not(), ref)
		s.unwatchLong(c.lits[1].Not(), ref)
	}
	s.arena.Free(ref)
}

// detachBin removes both watch entries of an implicit binary clause.
func (s *Solver) detachBin(a, b Lit) {
	s.unwatchBin(a.Not(), b)
	s.unwatchBin(b.Not(), a)
}

// detachTri removes all three watch entries of an implicit ternary clause.
func (s *Solver) detachTri(a, b, c Lit) {
	s.unwatchTri(a.Not(), b, c)
	s.unwatchTri(b.Not(), a, c)
	s.unwatchTri(c.Not(), a, b)
}

// simplifyNewClause normalizes a candidate clause against the current
// (level-0) assignment: drops duplicate literals, detects tautologies, and
// removes literals already false. Mirrors the teacher's NewClause
// preprocessing loop. Returns tautology=true if the clause is a tautology
// (should be dropped silently, §8 "add_clause with a tautological clause
// is a no-op").
func (s *Solver) simplifyNewClause(lits []Lit) (out []Lit, tautology bool) {
	seen := make(map[Lit]bool, len(lits))
	out = lits[:0]
	for _, l := range lits {
		if seen[l.Not()] {
			return nil, true
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		switch s.LitValue(l) {
		case True:
			return nil, true
		case False:
			continue
		}
		out = append(out, l)
	}
	return out, false
}
