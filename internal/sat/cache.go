package sat

// binCache holds, for one literal, every literal reachable through a chain
// of binary clauses (§3 "Binary-implication cache (optional)"), tagged by
// whether the chain used only non-redundant (original) binaries. Used by
// vivification (§4.10) as a propagation-free fast path; conflict analysis
// does not consult it.
type binCache struct {
	reach    map[Lit]bool
	nonRedundantOnly map[Lit]bool
}

// BuildBinCache (re)computes the binary-implication cache for every
// literal by bounded BFS over the watch lists' Bin entries, gated by
// cfg.CacheCutoff (§6 "cache_on, cache_cutoff"). Ternary and long clauses
// never contribute edges: the cache is defined purely over the binary
// sub-formula.
func (s *Solver) BuildBinCache() {
	if !s.cfg.CacheOn {
		return
	}
	if s.cache == nil {
		s.cache = make([]binCache, len(s.watches))
	}
	for l := range s.watches {
		s.cache[l] = s.bfsCache(Lit(l))
	}
	s.cacheValid = true
}

func (s *Solver) bfsCache(root Lit) binCache {
	reach := map[Lit]bool{}
	nonRedundantOnly := map[Lit]bool{}

	type frame struct {
		lit          Lit
		viaRedundant bool
	}
	queue := []frame{{root, false}}
	visited := map[Lit]bool{root: true}

	for len(queue) > 0 && len(reach) < s.cfg.CacheCutoff {
		f := queue[0]
		queue = queue[1:]

		for _, w := range s.watches[f.lit] {
			if w.kind != watchBin {
				continue
			}
			dst := w.other
			viaRedundant := f.viaRedundant || w.redundant
			if dst == root {
				continue
			}
			if !reach[dst] {
				reach[dst] = true
			}
			if !viaRedundant {
				nonRedundantOnly[dst] = true
			}
			if !visited[dst] {
				visited[dst] = true
				queue = append(queue, frame{dst, viaRedundant})
			}
		}
	}
	return binCache{reach: reach, nonRedundantOnly: nonRedundantOnly}
}

// cacheImplies reports whether a ∨ b is entailed by the binary sub-formula, i.e.
// ¬a reaches b in the implication digraph.
func (s *Solver) cacheImplies(a, b Lit) bool {
	if s.cache == nil {
		return false
	}
	return s.cache[a.Not()].reach[b]
}
