package sat

// ExtendModel extends s.model (populated by extractModel over the still-live
// variables) into a full satisfying assignment by replaying extendLog in
// reverse insertion order (§4.12). Clause-removal and equivalence-merge
// steps share one chronological log: a later round can eliminate or merge
// variables referenced by an earlier round's logged clause, so only a
// single reverse walk guarantees every variable a step needs is already
// fixed by the time that step runs (whatever removed/merged it logged
// later, hence replays earlier).
//
// For a clause-removal step, if the clause is already satisfied under the
// partial model built so far it is left alone; otherwise the variable on
// whose literal the clause was blocked/eliminated is flipped to make that
// literal true. For an equivalence-merge step, the replaced variable's
// value is copied from its representative, with the appropriate sign.
func (s *Solver) ExtendModel() {
	if s.model == nil {
		s.model = make([]bool, len(s.vars))
	}

	for i := len(s.extendLog) - 1; i >= 0; i-- {
		entry := s.extendLog[i]
		switch entry.kind {
		case extendClause:
			if s.modelSatisfies(entry.lits) {
				continue
			}
			s.model[entry.blockedOn.Var()] = entry.blockedOn.IsPositive()
		case extendEquiv:
			val := s.model[entry.equivRep.Var()]
			if !entry.equivRep.IsPositive() {
				val = !val
			}
			s.model[entry.equivVar] = val
		}
	}
}

// modelSatisfies reports whether s.model (as built so far) already makes at
// least one literal of lits true.
func (s *Solver) modelSatisfies(lits []Lit) bool {
	for _, l := range lits {
		val := s.model[l.Var()]
		if !l.IsPositive() {
			val = !val
		}
		if val {
			return true
		}
	}
	return false
}
