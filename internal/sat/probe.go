package sat

import "sort"

// ProbeResult summarizes one failed-literal probing pass (§4.7).
type ProbeResult struct {
	UnitsFound    int
	Contradiction bool
}

// RunProbing performs one pass of level-1 exhaustive BFS probing, bounded by
// a bogo-prop budget, over candidate literals ranked by watchlist degree.
// Must be called at decision level 0.
func (s *Solver) RunProbing(budget int64) ProbeResult {
	var result ProbeResult
	if s.decisionLevel() != 0 || s.unsat {
		return result
	}

	candidates := s.probeCandidates()
	triedVar := make(map[Var]bool, len(candidates))

	for _, p := range candidates {
		if budget <= 0 || s.shouldStop() {
			break
		}
		v := p.Var()
		if triedVar[v] || s.vars[v].assign != Unknown || s.vars[v].removed != removedNone {
			continue
		}
		triedVar[v] = true
		budget -= int64(len(s.watches[p]) + len(s.watches[p.Not()]))

		if s.probeOneUnit(p, &result) {
			if s.unsat {
				result.Contradiction = true
				return result
			}
			continue
		}
	}
	return result
}

// probeOneUnit tries both polarities of p and returns true if it made
// progress (a unit derived, or the contradiction flag was set on s.unsat).
func (s *Solver) probeOneUnit(p Lit, result *ProbeResult) bool {
	okPos, assignedPos, conflictedPos := s.probeLiteral(p)
	if conflictedPos {
		s.forceUnit(p.Not(), result)
		return true
	}

	okNeg, assignedNeg, conflictedNeg := s.probeLiteral(p.Not())
	if conflictedNeg {
		s.forceUnit(p, result)
		return true
	}

	if !okPos || !okNeg {
		return false
	}

	progressed := false
	for v, val := range assignedPos {
		if val2, ok := assignedNeg[v]; ok && val == val2 && s.vars[v].assign == Unknown {
			lit := PositiveLit(v)
			if val == False {
				lit = NegativeLit(v)
			}
			if !s.enqueue(lit, noReason) {
				s.unsat = true
				return true
			}
			result.UnitsFound++
			progressed = true
		}
	}
	if progressed {
		if cf := s.Propagate(); cf.ok {
			s.unsat = true
		}
		s.attachPendingHyperBins()
	}
	return progressed
}

// forceUnit enqueues l at level 0 (a literal whose negation's probe trial
// contradicted itself) and propagates to fixpoint.
func (s *Solver) forceUnit(l Lit, result *ProbeResult) {
	if !s.enqueue(l, noReason) {
		s.unsat = true
		return
	}
	s.emitProof(ProofUnitDerived, []Lit{l})
	if cf := s.Propagate(); cf.ok {
		s.unsat = true
		return
	}
	s.attachPendingHyperBins()
	result.UnitsFound++
}

// probeLiteral pushes p as a level-1 decision, propagates, and reports the
// resulting level-1 assignment (keyed by variable, since the "bothprop"
// comparison needs to align on variable identity regardless of polarity).
// Always restores decision level 0 before returning.
func (s *Solver) probeLiteral(p Lit) (ok bool, assigned map[Var]LBool, conflicted bool) {
	if !s.assume(p) {
		s.cancelUntil(0)
		return false, nil, true
	}
	conflict := s.Propagate()
	if conflict.ok {
		s.cancelUntil(0)
		return false, nil, true
	}

	floor := s.trailLim[0]
	assigned = make(map[Var]LBool, len(s.trail)-floor)
	for _, l := range s.trail[floor:] {
		assigned[l.Var()] = s.LitValue(PositiveLit(l.Var()))
	}
	s.cancelUntil(0)
	return true, assigned, false
}

// probeCandidates orders every unassigned literal by watchlist degree
// (descending), a cheap proxy for "high-degree literals" (§4.7): the more
// binary/ternary clauses mention a literal, the more likely probing it
// yields forced consequences.
func (s *Solver) probeCandidates() []Lit {
	lits := make([]Lit, 0, len(s.watches))
	for l := range s.watches {
		lit := Lit(l)
		if s.vars[lit.Var()].assign == Unknown && s.vars[lit.Var()].removed == removedNone {
			lits = append(lits, lit)
		}
	}
	sort.Slice(lits, func(i, j int) bool {
		return len(s.watches[lits[i]]) > len(s.watches[lits[j]])
	})
	return lits
}
