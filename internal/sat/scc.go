package sat

// SCCResult summarizes one equivalent-literal substitution pass (§4.8).
type SCCResult struct {
	Merges int
}

// RunSCC builds the binary-implication digraph (vertices = literals, edges
// ¬a -> b for every binary clause (a ∨ b)), finds its strongly connected
// components via Tarjan's algorithm, and installs an equivalence map for
// any component containing more than one literal. Must run at decision
// level 0. Sets s.unsat if any component contains both a literal and its
// negation.
func (s *Solver) RunSCC() SCCResult {
	var result SCCResult
	if s.decisionLevel() != 0 || s.unsat {
		return result
	}

	n := len(s.watches)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	counter := 0
	var sccOf = make([]int, n)
	for i := range sccOf {
		sccOf[i] = -1
	}
	sccCount := 0

	var sccLits [][]Lit

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range s.watches[v] {
			if w.kind != watchBin {
				continue
			}
			// Edge Lit(v) -> w.other is registered at watches[Lit(v)]
			// itself (§4.2/propagate.go convention): watches[l] holds the
			// consequences of l becoming true, which is exactly the edge
			// l -> other for the implication digraph.
			dst := int(w.other)
			if index[dst] == -1 {
				strongconnect(dst)
				if lowlink[dst] < lowlink[v] {
					lowlink[v] = lowlink[dst]
				}
			} else if onStack[dst] {
				if index[dst] < lowlink[v] {
					lowlink[v] = index[dst]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []Lit
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				sccOf[w] = sccCount
				comp = append(comp, Lit(w))
				if w == v {
					break
				}
			}
			sccLits = append(sccLits, comp)
			sccCount++
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}

	for _, comp := range sccLits {
		if len(comp) < 2 {
			continue
		}
		seen := make(map[Lit]bool, len(comp))
		for _, l := range comp {
			seen[l] = true
		}
		for _, l := range comp {
			if seen[l.Not()] {
				s.unsat = true
				return result
			}
		}
		rep := comp[0]
		for _, l := range comp {
			if l.Var() == rep.Var() {
				continue
			}
			// equivRepr maps var(l) to the literal equivalent to var(l)'s
			// positive literal (i.e. equivRepr[l.Var()] is true exactly
			// when l.Var() is true).
			if s.equivRepr[l.Var()] != LitUndef {
				continue
			}
			var repLit Lit
			if l.IsPositive() {
				repLit = rep
			} else {
				repLit = rep.Not()
			}
			s.equivRepr[l.Var()] = repLit
			s.extendLog = append(s.extendLog, extendEntry{
				kind:     extendEquiv,
				equivVar: l.Var(),
				equivRep: repLit,
			})
			result.Merges++
		}
	}

	if result.Merges > 0 {
		s.stats.SCCMerges += int64(result.Merges)
		s.rewriteWithEquivalences()
	}
	return result
}

// rewriteWithEquivalences substitutes every variable with a non-trivial
// equivRepr entry by its representative across all original and learnt
// Long (arena) clauses, attaching the rewritten clause and detaching the old
// one. Implicit Bin and Tri clauses are not rewritten and keep their
// original variables. Runs at decision level 0.
func (s *Solver) rewriteWithEquivalences() {
	rewrite := func(refs []ClauseRef) []ClauseRef {
		out := refs[:0]
		for _, ref := range refs {
			c := s.arena.Get(ref)
			changed := false
			newLits := make([]Lit, 0, len(c.lits))
			for _, l := range c.lits {
				rl := s.representative(l)
				if rl != l {
					changed = true
				}
				newLits = append(newLits, rl)
			}
			if !changed {
				out = append(out, ref)
				continue
			}
			redundant := c.redundant
			s.detachLong(ref)
			simplified, tautology := s.simplifyNewClause(newLits)
			if tautology {
				continue
			}
			switch len(simplified) {
			case 0:
				s.unsat = true
				return out
			case 1:
				if !s.enqueue(simplified[0], noReason) {
					s.unsat = true
				}
			default:
				nref := s.attachClause(simplified, redundant, uint32(len(simplified)))
				out = append(out, nref)
			}
		}
		return out
	}
	s.constraints = rewrite(append([]ClauseRef(nil), s.constraints...))
	s.learnts = rewrite(append([]ClauseRef(nil), s.learnts...))

	if !s.unsat {
		if cf := s.Propagate(); cf.ok {
			s.unsat = true
		}
	}
}

// representative follows l's equivalence entry to its representative
// literal, or returns l unchanged if it has none.
func (s *Solver) representative(l Lit) Lit {
	r := s.equivRepr[l.Var()]
	if r == LitUndef {
		return l
	}
	if l.IsPositive() {
		return r
	}
	return r.Not()
}
