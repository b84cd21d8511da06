package sat

// VivifyResult summarizes one vivification pass (§4.10).
type VivifyResult struct {
	Shortened int
	Removed   int
}

// RunVivification strengthens and removes long clauses by enqueueing the
// negation of their literals one at a time at a fresh decision level: if
// propagation conflicts before every literal is enqueued, the clause can be
// shortened to the prefix that was pushed. A cache-based fast path uses the binary-
// implication cache (§3, cache.go) to detect the same without propagating.
// Must run at decision level 0.
func (s *Solver) RunVivification(budget int64) VivifyResult {
	var result VivifyResult
	if s.decisionLevel() != 0 || s.unsat {
		return result
	}

	for _, ref := range append([]ClauseRef(nil), s.constraints...) {
		if budget <= 0 || s.shouldStop() {
			break
		}
		budget -= s.vivifyOne(ref, &result)
	}
	for _, ref := range append([]ClauseRef(nil), s.learnts...) {
		if budget <= 0 || s.shouldStop() {
			break
		}
		budget -= s.vivifyOne(ref, &result)
	}
	return result
}

// vivifyOne vivifies a single clause and returns the bogo-prop budget spent.
func (s *Solver) vivifyOne(ref ClauseRef, result *VivifyResult) int64 {
	c := s.arena.Get(ref)
	if c.freed || c.Len() < 3 {
		return 0
	}
	lits := append([]Lit(nil), c.lits...)
	redundant := c.redundant

	if kept, shrunk := s.vivifyCacheFastPath(lits); shrunk {
		s.applyVivifiedClause(ref, redundant, lits, kept, result)
		return int64(len(lits))
	}

	kept := s.vivifyByPropagation(lits)
	if len(kept) < len(lits) {
		s.applyVivifiedClause(ref, redundant, lits, kept, result)
	}
	return int64(len(lits))
}

// vivifyCacheFastPath detects, without propagating, that a later literal l
// is implied false by the disjunction of the earlier kept literals: if some
// earlier kept literal l0 has ¬l0 -> ¬l in the binary-implication cache, l
// is redundant and is dropped. No other cache-based check is made.
func (s *Solver) vivifyCacheFastPath(lits []Lit) (kept []Lit, shrunk bool) {
	if s.cache == nil {
		return nil, false
	}
	kept = make([]Lit, 0, len(lits))
	for _, l := range lits {
		redundant := false
		for j := 0; j < len(kept); j++ {
			if s.cacheImplies(kept[j], l.Not()) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, l)
		}
	}
	return kept, len(kept) < len(lits)
}

// vivifyByPropagation enqueues ¬lits[0], ¬lits[1], ... at successive fresh
// decision levels and propagates after each; if propagation ever conflicts,
// the negations enqueued so far formed an unsatisfiable set under the
// current formula, so the clause can be shortened to just the literals
// vivified so far. Always restores decision level 0 before returning.
func (s *Solver) vivifyByPropagation(lits []Lit) []Lit {
	kept := make([]Lit, 0, len(lits))
	for _, l := range lits {
		switch s.LitValue(l) {
		case True:
			kept = append(kept, l)
			s.cancelUntil(0)
			return dedupLits(kept)
		case False:
			continue // already falsified by an earlier forced literal
		}

		if !s.assume(l.Not()) {
			s.cancelUntil(0)
			return dedupLits(kept)
		}
		kept = append(kept, l)

		if conflict := s.Propagate(); conflict.ok {
			s.cancelUntil(0)
			return dedupLits(kept)
		}
	}
	s.cancelUntil(0)
	return lits
}

func dedupLits(lits []Lit) []Lit {
	seen := make(map[Lit]bool, len(lits))
	out := lits[:0]
	for _, l := range lits {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// applyVivifiedClause replaces ref's clause with the shortened kept literal
// set, detaching/reattaching (or unit-propagating / marking UNSAT) as the
// new size requires.
func (s *Solver) applyVivifiedClause(ref ClauseRef, redundant bool, original, kept []Lit, result *VivifyResult) {
	h := clauseHandle{kind: watchLong, ref: ref}
	s.removeHandle(h)

	simplified, tautology := s.simplifyNewClause(kept)
	if tautology {
		result.Removed++
		return
	}
	switch len(simplified) {
	case 0:
		s.unsat = true
	case 1:
		if !s.enqueue(simplified[0], noReason) {
			s.unsat = true
		}
		result.Removed++
	default:
		s.attachClause(simplified, redundant, uint32(len(simplified)))
		result.Shortened++
	}
}
