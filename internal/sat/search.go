package sat

// SearchOutcome tags the result of one search episode (§4.5).
type SearchOutcome uint8

const (
	SearchUnknown SearchOutcome = iota
	SearchSat
	SearchUnsat
)

// RunSearchEpisode runs the Decide/Propagate/Analyze/Check/Sat state
// machine of §4.5 until the formula is decided, the episode's conflict
// budget is exhausted, or the solver is interrupted. maxConflicts < 0 means
// unbounded.
func (s *Solver) RunSearchEpisode(maxConflicts int64) SearchOutcome {
	episodeConflicts := int64(0)

	for {
		if s.shouldStop() {
			return SearchUnknown
		}

		conflict := s.Propagate()
		if conflict.ok {
			s.stats.Conflicts++
			episodeConflicts++
			s.restart.onConflict()

			if s.decisionLevel() == 0 {
				s.unsat = true
				return SearchUnsat
			}

			outcome := s.learnFromConflict(conflict)
			s.order.DecayActivity()
			s.MaybeReduceDB()

			if maxConflicts >= 0 && episodeConflicts >= maxConflicts {
				s.cancelUntil(s.assumptionFloor())
				return SearchUnknown
			}
			_ = outcome
			continue
		}

		s.attachPendingHyperBins()

		if s.decisionLevel() > s.assumptionFloor() && s.restart.shouldRestart() {
			s.cancelUntil(s.assumptionFloor())
			s.restart.onRestart()
			continue
		}

		if s.assumptionPos < len(s.assumptions) {
			a := s.assumptions[s.assumptionPos]
			switch s.LitValue(a) {
			case False:
				s.finalConflict = s.AnalyzeFinal(a)
				return SearchUnsat
			case True:
				s.assumptionPos++
				continue
			default:
				s.assumptionPos++
				s.assume(a)
				continue
			}
		}

		v, ok := s.nextDecisionVar()
		if !ok {
			s.extractModel()
			return SearchSat
		}
		polarity := s.decidePolarity(v)
		s.assume(MkLit(v, !polarity))
		s.stats.Decisions++
	}
}

// learnFromConflict runs Analyze, applies scheduled OTF subsumption,
// backjumps, and installs the new clause, enqueuing its asserting literal.
func (s *Solver) learnFromConflict(conflict Conflict) AnalyzeResult {
	result := s.Analyze(conflict)
	s.ApplyOTFSubsumption()
	s.cancelUntil(result.BackjumpLevel)
	s.attachPendingHyperBins()
	s.restart.onLearn(result.Glue)

	var reason Reason
	var ref ClauseRef
	switch len(result.Learnt) {
	case 1:
		reason = noReason
	case 2:
		ref = s.attachClause(result.Learnt, true, result.Glue)
		reason = binReason(result.Learnt[1])
	case 3:
		ref = s.attachClause(result.Learnt, true, result.Glue)
		reason = triReason(result.Learnt[1], result.Learnt[2])
	default:
		ref = s.attachClause(result.Learnt, true, result.Glue)
		reason = longReason(ref)
	}

	s.emitProof(ProofClauseLearnt, result.Learnt)
	if len(result.Learnt) == 1 {
		s.emitProof(ProofUnitDerived, result.Learnt)
	}
	s.enqueue(result.Learnt[0], reason)
	return result
}

// assumptionFloor is the decision level below which assumption literals
// live; restarts and conflict-budget unwinds never backjump past it, so a
// fresh search episode can resume consuming assumptions rather than
// re-deciding them.
func (s *Solver) assumptionFloor() int {
	if s.assumptionPos == 0 {
		return 0
	}
	if s.assumptionPos > len(s.trailLim) {
		return len(s.trailLim)
	}
	return s.assumptionPos
}

// nextDecisionVar pops the highest-activity variable that is still
// unassigned and eligible for decision, discarding stale heap entries for
// variables that became assigned or were removed by simplification.
func (s *Solver) nextDecisionVar() (Var, bool) {
	for {
		v, ok := s.order.Pop()
		if !ok {
			return 0, false
		}
		if s.vars[v].assign == Unknown && s.vars[v].removed == removedNone {
			return v, true
		}
	}
}

// decidePolarity picks true/false for a fresh decision on v, honoring a
// uniformly random override per random_var_freq (§4.5).
func (s *Solver) decidePolarity(v Var) bool {
	if s.order.ShouldDecideRandomly() {
		return s.rng.Intn(2) == 0
	}
	return s.order.Polarity(v)
}

// extractModel snapshots the current full assignment into s.model, indexed
// by Var, ready for the Solution Extender (§4.12) to post-process.
func (s *Solver) extractModel() {
	s.model = make([]bool, len(s.vars))
	for v := range s.vars {
		s.model[v] = s.vars[v].assign == True
	}
}
