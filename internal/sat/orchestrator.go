package sat

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Result is the outcome of a top-level Solve call.
type Result uint8

const (
	ResultUnknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// cleanupInterval is the number of conflicts a search episode runs for
// before control returns to the Orchestrator for a simplification episode,
// mirroring the teacher's fixed-cadence main loop.
const cleanupInterval = 10_000

// Solve runs the Orchestrator loop of §4.11: alternate simplification
// episodes (SCC, probing, elimination, vivification, each under its own
// decrementing budget) with search episodes, until an answer is produced or
// the solver is interrupted. assumptions, if non-empty, are pushed as
// decisions before any free decision and drive UnsatCore() on failure.
func (s *Solver) Solve(assumptions []Lit) Result {
	if s.unsat {
		return Unsat
	}
	s.startTime = time.Now()
	s.assumptions = assumptions
	s.assumptionPos = 0
	s.finalConflict = nil

	first := true
	round := 0
	for {
		if s.unsat {
			return Unsat
		}
		if s.shouldStop() {
			return ResultUnknown
		}

		round++
		actBackup := s.order.BackupActivities()
		polBackup := s.order.BackupPolarities()
		if diag := s.runSimplificationEpisode(first); diag != nil {
			s.log.Debug("simplification episode", "round", round, "notes", diag.Error())
		}
		if !first {
			// The first episode seeds default polarities; those are kept.
			s.order.RestoreActivities(actBackup)
			s.order.RestorePolarities(polBackup)
		}
		first = false
		if s.unsat {
			return Unsat
		}
		if s.shouldStop() {
			return ResultUnknown
		}

		s.log.Debug("search episode", "round", round, "conflicts", s.stats.Conflicts)
		outcome := s.RunSearchEpisode(cleanupInterval)

		switch outcome {
		case SearchSat:
			s.ExtendModel()
			return Sat
		case SearchUnsat:
			return Unsat
		}
	}
}

// runSimplificationEpisode runs SCC, probing, elimination and vivification
// in that order, each gated by its own config flag and bogo-prop budget
// (§4.11 step 2). Simplification only ever runs at decision level 0; the
// caller must have backtracked fully before calling this. On the very first
// call it also seeds default polarities (§6 "Calc default polarities").
// Returns a combined diagnostic describing what each pass did, or nil if
// every pass was a no-op (nothing worth logging) — per §4.13, no
// simplification pass is fatal on its own, so these are notes, not errors.
func (s *Solver) runSimplificationEpisode(first bool) *multierror.Error {
	if s.decisionLevel() != 0 {
		s.cancelUntil(0)
	}
	if s.unsat {
		return nil
	}
	if first {
		s.order.SeedDefaultPolarities(s.computeDefaultPolarities())
	}

	var diag *multierror.Error

	if s.cfg.DoSCC {
		r := s.RunSCC()
		if r.Merges > 0 {
			diag = multierror.Append(diag, fmt.Errorf("scc: merged %d literals", r.Merges))
		}
		if s.unsat {
			return diag
		}
	}
	if s.cfg.DoProbe {
		s.BuildBinCache()
		r := s.RunProbing(s.cfg.ProbeBudget)
		if r.UnitsFound > 0 {
			diag = multierror.Append(diag, fmt.Errorf("probe: derived %d units", r.UnitsFound))
		}
		if s.unsat {
			return diag
		}
	}
	if s.cfg.DoElim {
		r := s.RunVariableElimination(s.cfg.ElimBudget)
		if r.Eliminated > 0 {
			diag = multierror.Append(diag, fmt.Errorf("elim: removed %d variables", r.Eliminated))
		}
		if s.unsat {
			return diag
		}
		if n := s.RunBlockedClauseElimination(s.cfg.ElimBudget); n > 0 {
			diag = multierror.Append(diag, fmt.Errorf("elim: removed %d blocked clauses", n))
		}
		if s.unsat {
			return diag
		}
		if n := s.RunSelfSubsumption(s.cfg.ElimBudget); n > 0 {
			diag = multierror.Append(diag, fmt.Errorf("elim: strengthened %d clauses via subsume1", n))
		}
		if s.unsat {
			return diag
		}
	}
	if s.cfg.DoVivify {
		s.BuildBinCache()
		r := s.RunVivification(s.cfg.VivifyBudget)
		if r.Shortened > 0 || r.Removed > 0 {
			s.stats.VivifyShrunk += int64(r.Shortened)
			diag = multierror.Append(diag, fmt.Errorf("vivify: shortened %d, removed %d", r.Shortened, r.Removed))
		}
	}

	s.sortWatchlists()
	return diag
}

// computeDefaultPolarities applies the Jeroslow-Wang heuristic over the
// original clauses: literal weight is the sum of 2^-|C| over every clause C
// containing it, and a variable's default polarity is whichever of its two
// literals carries more weight (ties favor true).
func (s *Solver) computeDefaultPolarities() []bool {
	weight := make([]float64, 2*len(s.vars))
	add := func(lits []Lit) {
		w := 1.0
		for i := 0; i < len(lits); i++ {
			w /= 2
		}
		for _, l := range lits {
			weight[l] += w
		}
	}
	for l := range s.watches {
		for _, w := range s.watches[l] {
			switch w.kind {
			case watchBin:
				if Lit(l).Not() < w.other {
					add([]Lit{Lit(l).Not(), w.other})
				}
			case watchTri:
				if Lit(l).Not() < w.other && Lit(l).Not() < w.other2 {
					add([]Lit{Lit(l).Not(), w.other, w.other2})
				}
			}
		}
	}
	for _, ref := range s.constraints {
		add(s.arena.Get(ref).lits)
	}

	positives := make([]bool, len(s.vars))
	for v := range s.vars {
		pos := weight[PositiveLit(Var(v))]
		neg := weight[NegativeLit(Var(v))]
		positives[v] = pos >= neg
	}
	return positives
}
