package sat

// AnalyzeResult is everything the search driver needs to install a learnt
// clause and resume (§4.4).
type AnalyzeResult struct {
	Learnt       []Lit
	BackjumpLevel int
	Glue         uint32
}

// otfShrinkEntry records a clause scheduled for in-place shrinking by
// on-the-fly subsumption (§4.4 "applied after analysis completes, before
// re-attachment").
type otfShrinkEntry struct {
	ref     ClauseRef
	newLits []Lit
}

// reasonLits returns the antecedent literals of r: the clause literals other
// than the one being explained, which are themselves the correct polarity to
// enter a learnt clause directly (they are false under the current
// assignment, exactly like any other conflict-clause literal). Uses
// s.tmpReason as scratch, valid until the next call.
func (s *Solver) reasonLits(r Reason) []Lit {
	switch r.kind {
	case reasonBin:
		s.tmpReason = append(s.tmpReason[:0], r.other)
	case reasonTri:
		s.tmpReason = append(s.tmpReason[:0], r.other, r.other2)
	case reasonLong:
		c := s.arena.Get(r.ref)
		s.tmpReason = append(s.tmpReason[:0], c.lits[1:]...)
	default:
		s.tmpReason = s.tmpReason[:0]
	}
	return s.tmpReason
}

// conflictLits returns every literal of the falsified clause identified by
// c, all of which are false under the current assignment.
func (s *Solver) conflictLits(c Conflict) []Lit {
	switch c.kind {
	case reasonBin:
		return []Lit{c.trigger, c.other}
	case reasonTri:
		return []Lit{c.trigger, c.other, c.other2}
	case reasonLong:
		return append([]Lit(nil), s.arena.Get(c.ref).lits...)
	default:
		return nil
	}
}

// Analyze implements first-UIP conflict analysis (§4.4): trail-backwards
// resolution down to a single literal at the conflict's decision level,
// recursive minimization, and scheduling of on-the-fly subsumption. No
// binary-implication or cache-based minimization is done. conflict must come from the Propagate() call that just
// failed, at decisionLevel() > 0.
func (s *Solver) Analyze(conflict Conflict) AnalyzeResult {
	d := s.decisionLevel()
	s.seen.Clear()
	s.analyzeToClear = s.analyzeToClear[:0]
	s.resolvedLongRefs = s.resolvedLongRefs[:0]

	learnt := s.tmpLearnts[:0]
	learnt = append(learnt, LitUndef) // placeholder for the UIP literal

	pathC := 0
	trailIdx := len(s.trail) - 1
	var p Lit = LitUndef

	resolveLits := s.conflictLits(conflict)
	if conflict.kind == reasonLong {
		s.resolvedLongRefs = append(s.resolvedLongRefs, conflict.ref)
	}

	for {
		for _, q := range resolveLits {
			v := q.Var()
			if s.seen.Contains(int(v)) {
				continue
			}
			if s.vars[v].level == 0 {
				continue
			}
			s.seen.Add(int(v))
			s.analyzeToClear = append(s.analyzeToClear, v)
			s.order.BumpActivity(v)
			if int(s.vars[v].level) == d {
				pathC++
			} else {
				learnt = append(learnt, q)
			}
		}

		for !s.seen.Contains(int(s.trail[trailIdx].Var())) {
			trailIdx--
		}
		p = s.trail[trailIdx]
		pathC--
		trailIdx--
		if pathC == 0 {
			break
		}

		r := s.vars[p.Var()].reason
		if r.kind == reasonLong {
			s.resolvedLongRefs = append(s.resolvedLongRefs, r.ref)
		}
		resolveLits = s.reasonLits(r)
	}

	learnt[0] = p.Not()
	learnt = s.minimize(learnt)
	s.tmpLearnts = learnt

	backjump, glue := s.backjumpLevelAndGlue(learnt)
	s.scheduleOTFSubsumption(learnt)

	out := append([]Lit(nil), learnt...)
	return AnalyzeResult{Learnt: out, BackjumpLevel: backjump, Glue: glue}
}

// minimize applies recursive minimization (§4.4): drop any non-asserting
// literal whose reason chain is entirely covered by already-seen variables.
func (s *Solver) minimize(learnt []Lit) []Lit {
	out := learnt[:1]
	for _, l := range learnt[1:] {
		r := s.vars[l.Var()].reason
		if r.kind == reasonNone || !s.litRedundant(l) {
			out = append(out, l)
		}
	}
	return out
}

// litRedundant reports whether l's assignment is implied entirely by other
// literals already in the learnt clause (marked in s.seen) or by literals
// that are themselves redundant by the same test, i.e. l can be dropped
// from the learnt clause without weakening it.
func (s *Solver) litRedundant(l Lit) bool {
	r := s.vars[l.Var()].reason
	if r.kind == reasonNone {
		return false
	}
	for _, o := range s.reasonLitsCopy(r) {
		ov := o.Var()
		if ov == l.Var() {
			continue
		}
		if s.vars[ov].level == 0 || s.seen.Contains(int(ov)) {
			continue
		}
		rr := s.vars[ov].reason
		if rr.kind == reasonNone {
			return false
		}
		if !s.litRedundant(o) {
			return false
		}
		s.seen.Add(int(ov))
		s.analyzeToClear = append(s.analyzeToClear, ov)
	}
	return true
}

// reasonLitsCopy is reasonLits but safe to call while s.tmpReason is already
// in use by an outer call (litRedundant recurses), returning a fresh slice.
func (s *Solver) reasonLitsCopy(r Reason) []Lit {
	return append([]Lit(nil), s.reasonLits(r)...)
}

// backjumpLevelAndGlue computes the second-highest decision level among
// learnt's literals (0 for a unit clause) and the clause's glue: the count
// of distinct decision levels among its literals (§8 property 4).
func (s *Solver) backjumpLevelAndGlue(learnt []Lit) (int, uint32) {
	if len(learnt) == 1 {
		return 0, 1
	}
	levels := make(map[int32]bool, len(learnt))
	maxLvl, maxIdx := int32(-1), 1
	for i := 1; i < len(learnt); i++ {
		lvl := s.vars[learnt[i].Var()].level
		levels[lvl] = true
		if lvl > maxLvl {
			maxLvl = lvl
			maxIdx = i
		}
	}
	levels[s.vars[learnt[0].Var()].level] = true
	learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	return int(maxLvl), uint32(len(levels))
}

// scheduleOTFSubsumption implements §4.4's on-the-fly subsumption: any Long
// clause resolved into this conflict's learning that turns out to strictly
// contain the final learnt clause is scheduled for in-place shrinking.
func (s *Solver) scheduleOTFSubsumption(learnt []Lit) {
	s.otfShrink = s.otfShrink[:0]
	s.otfSubsumeOnThisConflict = false

	if len(s.resolvedLongRefs) == 0 {
		return
	}
	for _, ref := range s.resolvedLongRefs {
		c := s.arena.Get(ref)
		if len(c.lits) <= len(learnt) {
			continue
		}
		set := make(map[Lit]bool, len(c.lits))
		for _, cl := range c.lits {
			set[cl] = true
		}
		subset := true
		for _, l := range learnt {
			if !set[l] {
				subset = false
				break
			}
		}
		if subset {
			s.otfShrink = append(s.otfShrink, otfShrinkEntry{ref: ref, newLits: append([]Lit(nil), learnt...)})
			s.otfSubsumeOnThisConflict = true
		}
	}
}

// ApplyOTFSubsumption installs the shrinks scheduled by the last Analyze()
// call. Must run before the new learnt clause itself is attached, per §4.4.
func (s *Solver) ApplyOTFSubsumption() {
	for _, e := range s.otfShrink {
		c := s.arena.Get(e.ref)
		redundant := c.redundant
		s.detachLong(e.ref)
		for i, ref := range s.constraints {
			if ref == e.ref {
				s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
				break
			}
		}
		for i, ref := range s.learnts {
			if ref == e.ref {
				s.learnts = append(s.learnts[:i], s.learnts[i+1:]...)
				break
			}
		}
		s.attachClause(e.newLits, redundant, uint32(len(e.newLits)))
	}
	s.otfShrink = s.otfShrink[:0]
}

// AnalyzeFinal computes the subset of assumptions responsible for
// unsatisfiability (§4.5, §6 "Unsat: ... a subset of them sufficient for
// unsatisfiability"). falseAssumption is the assumption literal (in the
// exact polarity the caller originally passed to Solve) that was found
// already false. Every assumption literal that fed the contradiction is
// returned in that same original polarity, since assume() always pushes an
// assumption onto the trail as-is (§4.5 "consumed as the first decisions").
func (s *Solver) AnalyzeFinal(falseAssumption Lit) []Lit {
	s.seen.Clear()
	out := []Lit{falseAssumption}
	s.seen.Add(int(falseAssumption.Var()))

	if s.decisionLevel() == 0 {
		return out
	}
	floor := s.trailLim[0]
	for i := len(s.trail) - 1; i >= floor; i-- {
		l := s.trail[i]
		v := l.Var()
		if !s.seen.Contains(int(v)) {
			continue
		}
		r := s.vars[v].reason
		if r.kind == reasonNone {
			if s.vars[v].level > 0 {
				out = append(out, l)
			}
			continue
		}
		for _, q := range s.reasonLitsCopy(r) {
			if s.vars[q.Var()].level > 0 {
				s.seen.Add(int(q.Var()))
			}
		}
	}
	return out
}
