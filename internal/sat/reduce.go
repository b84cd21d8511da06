package sat

import "sort"

// keepPropConflThreshold is the fixed props+confl activity floor below which
// a clause is eligible for removal at all, a bogo-prop-style heuristic cutoff
// loosely in the spirit of cryptominisat's per-clause usage stats.
const keepPropConflThreshold = 10

// MaybeReduceDB triggers the Learnt DB Manager's reduction pass (§4.6) when
// the learnt pool has grown past next_clean_limit, and after each reduction
// grows that limit geometrically; below the limit nothing changes.
func (s *Solver) MaybeReduceDB() {
	if int64(len(s.learnts)) <= s.nextCleanLimit {
		return
	}
	s.reduceDB()
	s.nextCleanLimit = int64(float64(s.nextCleanLimit) * s.cleanInc)

	if s.arena.ShouldCompact() {
		s.compactArena()
	}
}

// locked reports whether the clause at ref is currently the reason for some
// assignment, and therefore must survive this reduction pass regardless of
// rank: a clause serving as a reason always has its asserting literal at
// position 0 (§4.4 "attachClause... the first literal must be the
// asserting literal").
func (s *Solver) locked(ref ClauseRef) bool {
	c := s.arena.Get(ref)
	if len(c.lits) == 0 {
		return false
	}
	v := c.lits[0].Var()
	r := s.vars[v].reason
	return s.vars[v].assign != Unknown && r.kind == reasonLong && r.ref == ref
}

// reduceDB implements §4.6's keep/discard rule: keep clauses with glue <= 2,
// clauses whose usage exceeds keepPropConflThreshold, and locked clauses
// unconditionally; of the remainder keep the best-ranked half and discard
// the rest.
func (s *Solver) reduceDB() {
	type candidate struct {
		ref  ClauseRef
		rank float64
	}

	kept := make([]ClauseRef, 0, len(s.learnts))
	var candidates []candidate

	for _, ref := range s.learnts {
		c := s.arena.Get(ref)
		switch {
		case c.protected, c.glue <= 2, c.props+c.confls > keepPropConflThreshold, s.locked(ref):
			kept = append(kept, ref)
		default:
			var rank float64
			switch s.cfg.CleanType {
			case CleanSize:
				rank = float64(c.Len())
			case CleanPropConfl:
				rank = -float64(c.props + c.confls)
			default: // CleanGlue
				rank = float64(c.glue)
			}
			candidates = append(candidates, candidate{ref, rank})
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rank < candidates[j].rank })

	half := len(candidates) / 2
	for i, cd := range candidates {
		if i < half {
			kept = append(kept, cd.ref)
			continue
		}
		c := s.arena.Get(cd.ref)
		deletedLits := append([]Lit(nil), c.lits...)
		s.detachLong(cd.ref)
		s.emitProof(ProofClauseDeleted, deletedLits)
	}

	s.learnts = kept
}

// compactArena runs Arena.Compact() and rewrites every ClauseRef the solver
// holds outside the arena itself: watchlists, constraints, learnts, and the
// Long reasons of assigned variables (§4.1, §8 property 6).
func (s *Solver) compactArena() {
	remap := s.arena.Compact()

	for l := range s.watches {
		ws := s.watches[l]
		for i := range ws {
			if ws[i].kind == watchLong {
				if nr, ok := remap[ws[i].ref]; ok {
					ws[i].ref = nr
				}
			}
		}
	}
	for i, ref := range s.constraints {
		if nr, ok := remap[ref]; ok {
			s.constraints[i] = nr
		}
	}
	for i, ref := range s.learnts {
		if nr, ok := remap[ref]; ok {
			s.learnts[i] = nr
		}
	}
	for v := range s.vars {
		if r := &s.vars[v].reason; r.kind == reasonLong {
			if nr, ok := remap[r.ref]; ok {
				r.ref = nr
			}
		}
	}
}
