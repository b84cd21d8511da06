package sat

import "sort"

// clauseHandle normalizes access to a clause regardless of storage
// representation (implicit Bin/Tri vs. arena Long), since the Variable
// Eliminator must treat every clause mentioning a literal uniformly (§4.9).
type clauseHandle struct {
	kind    watchKind
	ref     ClauseRef
	a, b, c Lit
}

func (s *Solver) handleLits(h clauseHandle) []Lit {
	switch h.kind {
	case watchBin:
		return []Lit{h.a, h.b}
	case watchTri:
		return []Lit{h.a, h.b, h.c}
	default:
		return append([]Lit(nil), s.arena.Get(h.ref).lits...)
	}
}

// detachHandle removes h from the watch structures (and, for Long clauses,
// frees its arena slot). It does not remove a Long ref from
// s.constraints/s.learnts; use removeHandle for that.
func (s *Solver) detachHandle(h clauseHandle) {
	switch h.kind {
	case watchBin:
		s.detachBin(h.a, h.b)
	case watchTri:
		s.detachTri(h.a, h.b, h.c)
	default:
		s.detachLong(h.ref)
	}
}

func (s *Solver) removeHandle(h clauseHandle) {
	s.detachHandle(h)
	if h.kind != watchLong {
		return
	}
	for i, ref := range s.constraints {
		if ref == h.ref {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			break
		}
	}
	for i, ref := range s.learnts {
		if ref == h.ref {
			s.learnts = append(s.learnts[:i], s.learnts[i+1:]...)
			break
		}
	}
}

// occurrencesOf returns every clause, in whichever representation it is
// stored, containing lit as one of its literals. Binary/ternary occurrences
// are read off the watchlist of lit.Not() (§4.2/propagate.go convention:
// a clause containing literal lit registers its watch entry at lit.Not(),
// triggered once lit itself is falsified).
func (s *Solver) occurrencesOf(lit Lit) []clauseHandle {
	var out []clauseHandle
	for _, w := range s.watches[lit.Not()] {
		switch w.kind {
		case watchBin:
			out = append(out, clauseHandle{kind: watchBin, a: lit, b: w.other})
		case watchTri:
			out = append(out, clauseHandle{kind: watchTri, a: lit, b: w.other, c: w.other2})
		}
	}
	for _, refs := range [][]ClauseRef{s.constraints, s.learnts} {
		for _, ref := range refs {
			for _, l := range s.arena.Get(ref).lits {
				if l == lit {
					out = append(out, clauseHandle{kind: watchLong, ref: ref})
					break
				}
			}
		}
	}
	return out
}

// resolveOn resolves pl and nl on variable v (pl containing v positively,
// nl containing v negatively, by convention), dropping v's own literal from
// both sides and detecting tautology (a literal and its negation both
// present). This implements both the elimination resolvent test and the
// blocked-clause / aggressive-tautology checks of §4.9, which are the same
// resolution test applied to different clause pairings.
func (s *Solver) resolveOn(v Var, pl, nl []Lit) ([]Lit, bool) {
	seen := make(map[Lit]bool, len(pl)+len(nl))
	out := make([]Lit, 0, len(pl)+len(nl))
	for _, l := range pl {
		if l.Var() == v {
			continue
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range nl {
		if l.Var() == v {
			continue
		}
		if seen[l.Not()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, false
}

// logElim records that h's clause was removed on behalf of blockedOn, for
// the Solution Extender (§4.12) to replay in reverse.
func (s *Solver) logElim(h clauseHandle, blockedOn Lit) {
	s.extendLog = append(s.extendLog, extendEntry{
		kind:      extendClause,
		lits:      s.handleLits(h),
		blockedOn: blockedOn,
	})
}

// ElimResult summarizes one variable-elimination pass (§4.9).
type ElimResult struct {
	Eliminated int
	BudgetLeft int64
}

// RunVariableElimination attempts bounded-resolution elimination of every
// still-eligible variable, cheapest first, within a bogo-prop budget.
func (s *Solver) RunVariableElimination(budget int64) ElimResult {
	var result ElimResult
	if s.decisionLevel() != 0 || s.unsat {
		return result
	}

	for _, v := range s.elimCandidates() {
		if budget <= 0 || s.shouldStop() || result.Eliminated >= s.cfg.ElimVarLimit {
			break
		}
		if s.vars[v].assign != Unknown || s.vars[v].removed != removedNone {
			continue
		}
		budget -= s.tryEliminate(v)
		if s.unsat {
			break
		}
		if s.vars[v].removed == removedEliminated {
			result.Eliminated++
		}
	}
	result.BudgetLeft = budget
	return result
}

func (s *Solver) elimCandidates() []Var {
	vars := make([]Var, 0, len(s.vars))
	for v := range s.vars {
		vv := Var(v)
		if s.vars[vv].assign == Unknown && s.vars[vv].removed == removedNone {
			vars = append(vars, vv)
		}
	}
	sort.Slice(vars, func(i, j int) bool {
		return s.elimCost(vars[i]) < s.elimCost(vars[j])
	})
	return vars
}

// elimCost is the cheapness heuristic of §4.9: product of occurrence counts
// plus a small-clause penalty (approximated here as the sum of counts,
// which favors variables with few total occurrences regardless of product).
func (s *Solver) elimCost(v Var) int {
	p := len(s.occurrencesOf(PositiveLit(v)))
	n := len(s.occurrencesOf(NegativeLit(v)))
	return p*n + p + n
}

// tryEliminate runs the Test/Execute steps of §4.9 for v and returns the
// bogo-prop budget consumed.
func (s *Solver) tryEliminate(v Var) int64 {
	pos := s.occurrencesOf(PositiveLit(v))
	neg := s.occurrencesOf(NegativeLit(v))
	cost := int64(len(pos)*len(neg) + 1)

	if len(pos) == 0 && len(neg) == 0 {
		return cost
	}

	var resolvents [][]Lit
	for _, ph := range pos {
		pl := s.handleLits(ph)
		for _, nh := range neg {
			nl := s.handleLits(nh)
			merged, tautology := s.resolveOn(v, pl, nl)
			if tautology {
				continue
			}
			resolvents = append(resolvents, merged)
		}
	}

	if len(resolvents) > len(pos)+len(neg) {
		return cost // rejected: would grow the formula (§4.9 "Test")
	}

	for _, h := range pos {
		s.logElim(h, PositiveLit(v))
		s.removeHandle(h)
	}
	for _, h := range neg {
		s.logElim(h, NegativeLit(v))
		s.removeHandle(h)
	}
	s.vars[v].removed = removedEliminated

	for _, r := range resolvents {
		simplified, tautology := s.simplifyNewClause(append([]Lit(nil), r...))
		if tautology {
			continue
		}
		switch len(simplified) {
		case 0:
			s.unsat = true
			return cost
		case 1:
			if !s.enqueue(simplified[0], noReason) {
				s.unsat = true
			}
		default:
			s.attachClause(simplified, false, uint32(len(simplified)))
		}
	}
	s.stats.ElimVars++
	return cost
}

// RunBlockedClauseElimination removes clauses blocked on one of their
// literals: C is blocked on l if every resolvent of C with a clause
// containing ¬l is tautological (§4.9). Independent of variable
// elimination, and reconstructible the same way via extendLog.
func (s *Solver) RunBlockedClauseElimination(budget int64) int {
	removed := 0
	if s.decisionLevel() != 0 || s.unsat {
		return 0
	}
	for _, ref := range append([]ClauseRef(nil), s.constraints...) {
		if budget <= 0 {
			break
		}
		c := s.arena.Get(ref)
		if c.freed {
			continue
		}
		lits := append([]Lit(nil), c.lits...)
		budget -= int64(len(lits))

		for _, l := range lits {
			if s.vars[l.Var()].removed != removedNone {
				continue
			}
			others := s.occurrencesOf(l.Not())
			blocked := true
			for _, oh := range others {
				if _, tautology := s.resolveOn(l.Var(), lits, s.handleLits(oh)); !tautology {
					blocked = false
					break
				}
			}
			if blocked {
				h := clauseHandle{kind: watchLong, ref: ref}
				s.logElim(h, l)
				s.removeHandle(h)
				removed++
				break
			}
		}
	}
	return removed
}

// RunSelfSubsumption performs one pass of subsume1 strengthening (§4.9): for
// clauses C, D and literal l, if C with l flipped to ¬l is a subset of D,
// D is strengthened by removing ¬l.
func (s *Solver) RunSelfSubsumption(budget int64) int {
	strengthened := 0
	if s.decisionLevel() != 0 || s.unsat {
		return 0
	}
	for v := range s.vars {
		if budget <= 0 {
			break
		}
		vv := Var(v)
		if s.vars[vv].assign != Unknown || s.vars[vv].removed != removedNone {
			continue
		}
		pos := s.occurrencesOf(PositiveLit(vv))
		neg := s.occurrencesOf(NegativeLit(vv))
		budget -= int64(len(pos)*len(neg) + 1)

		for _, ph := range pos {
			pl := s.handleLits(ph)
			for _, nh := range neg {
				nl := s.handleLits(nh)
				if subsetFlipped(pl, vv, nl) && s.strengthenHandle(nh, NegativeLit(vv)) {
					strengthened++
				} else if subsetFlipped(nl, vv, pl) && s.strengthenHandle(ph, PositiveLit(vv)) {
					strengthened++
				}
			}
		}
	}
	return strengthened
}

// subsetFlipped reports whether c, with its literal of variable v replaced
// by its negation, is a (non-strict) subset of d.
func subsetFlipped(c []Lit, v Var, d []Lit) bool {
	if len(c) > len(d) {
		return false
	}
	dset := make(map[Lit]bool, len(d))
	for _, l := range d {
		dset[l] = true
	}
	for _, l := range c {
		cl := l
		if l.Var() == v {
			cl = l.Not()
		}
		if !dset[cl] {
			return false
		}
	}
	return true
}

// strengthenHandle removes removeLit from h's clause and re-attaches the
// shortened clause, possibly changing its storage representation
// (Long/Tri/Bin). Returns false if removeLit was not present.
func (s *Solver) strengthenHandle(h clauseHandle, removeLit Lit) bool {
	lits := s.handleLits(h)
	newLits := make([]Lit, 0, len(lits)-1)
	found := false
	for _, l := range lits {
		if l == removeLit && !found {
			found = true
			continue
		}
		newLits = append(newLits, l)
	}
	if !found {
		return false
	}

	redundant := false
	if h.kind == watchLong {
		redundant = s.arena.Get(h.ref).IsRedundant()
	}
	s.removeHandle(h)

	simplified, tautology := s.simplifyNewClause(newLits)
	if tautology {
		return true
	}
	switch len(simplified) {
	case 0:
		s.unsat = true
	case 1:
		if !s.enqueue(simplified[0], noReason) {
			s.unsat = true
		}
	default:
		s.attachClause(simplified, redundant, uint32(len(simplified)))
	}
	return true
}
