package sat

// Conflict identifies the falsified clause found by Propagate, in the same
// tagged shape as Reason so that Analyze can treat "the conflict" and "a
// trail literal's reason" uniformly.
type Conflict struct {
	ok      bool // false means "no conflict" (propagation reached fixpoint)
	kind    reasonKind
	trigger Lit // Bin/Tri: the clause literal whose falsity triggered this watch entry
	other   Lit
	other2  Lit
	ref     ClauseRef
}

var noConflict = Conflict{ok: false}

// Propagate drives unit propagation to a fixpoint using the two-watched-
// literal scheme of §4.3, starting from s.qhead. It returns the conflicting
// clause, if any; on conflict s.qhead is left pointing at the first
// untried trail position so a subsequent Propagate call (after backjump)
// starts clean.
func (s *Solver) Propagate() Conflict {
	for s.qhead < len(s.trail) {
		l := s.trail[s.qhead]
		s.qhead++
		s.stats.Propagations++

		ws := s.watches[l]
		s.watches[l] = ws[:0]

		for i := 0; i < len(ws); i++ {
			w := ws[i]

			switch w.kind {
			case watchBin:
				if s.propagateBin(l, w, &ws, i) {
					continue
				}
				s.watches[l] = append(s.watches[l], ws[i:]...)
				return Conflict{ok: true, kind: reasonBin, trigger: l.Not(), other: w.other}

			case watchTri:
				keep, conflict := s.propagateTri(l, w)
				if keep {
					s.watches[l] = append(s.watches[l], w)
				}
				if conflict.ok {
					s.watches[l] = append(s.watches[l], ws[i+1:]...)
					return conflict
				}

			case watchLong:
				satisfied, removed, conflict := s.propagateLong(l, w)
				if satisfied && !removed {
					s.watches[l] = append(s.watches[l], w)
					continue
				}
				if conflict.ok {
					s.watches[l] = append(s.watches[l], ws[i+1:]...)
					return conflict
				}
				// Watch moved to a different literal; do not re-append here.
			}
		}
	}
	return noConflict
}

// propagateBin handles a Bin watch entry. Tri clauses always keep all three
// of their watch-list registrations (they are never moved), so unlike Long
// clauses there is nothing to "detach"; a Bin entry is likewise permanent:
// propagateBin re-appends it itself when there is no conflict, and on a
// conflict the caller keeps it together with the entries not yet visited.
func (s *Solver) propagateBin(l Lit, w WatchEntry, ws *[]WatchEntry, i int) bool {
	switch s.LitValue(w.other) {
	case True:
		s.watches[l] = append(s.watches[l], w)
		return true
	case False:
		return false
	default:
		s.watches[l] = append(s.watches[l], w)
		s.enqueue(w.other, binReason(l.Not()))
		return true
	}
}

// propagateTri handles a Tri watch entry. Returns keep=true if the entry
// should remain on l's watchlist (always true for Tri, which is never
// rewatched) together with a conflict if one was found.
func (s *Solver) propagateTri(l Lit, w WatchEntry) (keep bool, conflict Conflict) {
	v1, v2 := s.LitValue(w.other), s.LitValue(w.other2)
	if v1 == True || v2 == True {
		return true, noConflict
	}
	if v1 == False && v2 == False {
		return true, Conflict{ok: true, kind: reasonTri, trigger: l.Not(), other: w.other, other2: w.other2}
	}
	if v1 == False {
		reason := triReason(l.Not(), w.other)
		if hb, ok := s.maybeLHBR([]Lit{w.other2, l.Not(), w.other}, w.other2); ok {
			reason = hb
		}
		s.enqueue(w.other2, reason)
	} else if v2 == False {
		reason := triReason(l.Not(), w.other2)
		if hb, ok := s.maybeLHBR([]Lit{w.other, l.Not(), w.other2}, w.other); ok {
			reason = hb
		}
		s.enqueue(w.other, reason)
	}
	// both unknown never happens: one of other/other2 must be l.Not()'s
	// clause partner already assigned via symmetric registration, except at
	// the very first propagation of this clause which every watch entry
	// handles independently and safely (a spurious "both unknown" case
	// means nothing to propagate yet).
	return true, noConflict
}

// propagateLong handles a Long watch entry, implementing the position-1/
// position-0 juggling of §4.3. satisfied reports the clause is already true
// (blocker fast path or position-0 true); removed reports whether this
// watch entry should no longer sit on l's watchlist because it migrated to
// another literal's watchlist (in which case the caller must not re-append
// it here).
func (s *Solver) propagateLong(l Lit, w WatchEntry) (satisfied bool, removed bool, conflict Conflict) {
	if s.LitValue(w.blocker) == True {
		return true, false, noConflict
	}

	c := s.arena.Get(w.ref)
	lits := c.lits

	opp := l.Not()
	if lits[0] == opp {
		lits[0], lits[1] = lits[1], lits[0]
	}

	if s.LitValue(lits[0]) == True {
		s.watch(l, longWatch(w.ref, lits[0]))
		return true, true, noConflict
	}

	if c.prevScan < 2 || c.prevScan >= len(lits) {
		c.prevScan = 2
	}
	for i := c.prevScan; i < len(lits); i++ {
		if s.LitValue(lits[i]) != False {
			lits[1], lits[i] = lits[i], lits[1]
			c.prevScan = i
			s.watch(lits[1].Not(), longWatch(w.ref, lits[0]))
			return false, true, noConflict
		}
	}
	for i := 2; i < c.prevScan; i++ {
		if s.LitValue(lits[i]) != False {
			lits[1], lits[i] = lits[i], lits[1]
			c.prevScan = i
			s.watch(lits[1].Not(), longWatch(w.ref, lits[0]))
			return false, true, noConflict
		}
	}

	// No replacement found: lits[0] is the candidate propagation.
	s.watch(l, longWatch(w.ref, lits[0]))
	c.props++

	if s.LitValue(lits[0]) == False {
		c.confls++
		return false, true, Conflict{ok: true, kind: reasonLong, ref: w.ref}
	}
	reason := longReason(w.ref)
	if hb, ok := s.maybeLHBR(lits, lits[0]); ok {
		reason = hb
	}
	s.enqueue(lits[0], reason)
	return false, true, noConflict
}

// attachPendingHyperBins installs the redundant binaries discovered by LHBR
// during the last Propagate() call. Called by the search driver once
// propagation reaches a fixpoint or conflicts, never mid-scan.
func (s *Solver) attachPendingHyperBins() {
	for _, ab := range s.pendingHyperBins {
		s.attachClause([]Lit{ab[0], ab[1]}, true, 2)
	}
	s.pendingHyperBins = s.pendingHyperBins[:0]
}

// maybeLHBR implements lazy hyper-binary resolution (§4.3): if every literal
// of the clause other than the one about to propagate has a Bin reason with
// the *same* antecedent a, the clause is virtually replaced by (a, l) for
// this step. Returns the shorter Bin(a) reason (a is false, like every
// antecedent a Reason carries) to use instead of the clause's own, and records the new redundant binary for attachment once
// Propagate() reaches a stable point.
func (s *Solver) maybeLHBR(lits []Lit, propagated Lit) (Reason, bool) {
	if s.otfSubsumeOnThisConflict {
		return Reason{}, false // SPEC_FULL.md: LHBR disabled while OTF subsumption is live
	}
	var ancestor Lit = LitUndef
	for _, o := range lits[1:] {
		r := s.vars[o.Var()].reason
		if r.kind != reasonBin {
			return Reason{}, false
		}
		a := r.other
		if ancestor == LitUndef {
			ancestor = a
		} else if ancestor != a {
			return Reason{}, false
		}
	}
	if ancestor == LitUndef || ancestor == propagated {
		return Reason{}, false
	}
	s.pendingHyperBins = append(s.pendingHyperBins, [2]Lit{ancestor, propagated})
	s.stats.ProbeHyperBin++
	return binReason(ancestor), true
}
