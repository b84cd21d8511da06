// Package sat implements a conflict-driven clause-learning SAT solver with
// inprocessing simplification: watched-literal propagation, first-UIP
// conflict analysis, non-chronological backjumping, restarts, failed-literal
// probing with hyper-binary resolution, SCC-based equivalent-literal
// substitution, bounded-resolution variable elimination, and vivification.
package sat

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrMalformed is wrapped by AddClause errors caused by out-of-range
// variables (§7).
var ErrMalformed = errors.New("malformed input")

// ErrAlreadyUnsat is returned by AddClause once the solver has
// established top-level unsatisfiability; adding clauses is a no-op at
// that point (§7).
var ErrAlreadyUnsat = errors.New("solver already unsat")

// Stats accumulates search statistics across the lifetime of the solver.
type Stats struct {
	Conflicts  int64
	Restarts   int64
	Decisions  int64
	Propagations int64
	Iterations int64

	ProbeUnits    int64
	ProbeHyperBin int64
	SCCMerges     int64
	ElimVars      int64
	VivifyShrunk  int64
}

// Solver is the single context object owning every piece of mutable search
// state (§9 "Global mutable state -> context object"). All sub-components
// operate on it through methods defined in their own files.
type Solver struct {
	cfg Config
	log hclog.Logger

	vars []varInfo

	trail    []Lit
	trailLim []int
	qhead    int

	watches [][]WatchEntry

	arena       *Arena
	constraints []ClauseRef
	learnts     []ClauseRef

	cache       []binCache // indexed by Lit; nil if !cfg.CacheOn or not yet built
	cacheValid  bool

	order     *VarOrder
	clauseInc float64

	restart *restartState

	seen *ResetSet

	// Scratch buffers reused across calls to avoid per-call allocation.
	tmpLearnts []Lit
	tmpReason  []Lit
	tmpStack   []Lit

	// analyze() scratch, reused across calls.
	analyzeToClear  []Var
	resolvedLongRefs []ClauseRef
	otfShrink        []otfShrinkEntry

	probeQueue *Queue[Lit]

	unsat bool

	assumptions   []Lit
	assumptionPos int
	finalConflict []Lit

	extendLog []extendEntry
	equivRepr []Lit // representative literal per var, LitUndef if none

	// Learnt DB Manager state (§4.6).
	nextCleanLimit int64
	cleanInc       float64

	stats Stats

	model []bool

	startTime     time.Time
	hasStopCond   bool
	maxConflicts  int64
	timeout       time.Duration

	needInterrupt bool

	rng *rand.Rand

	// otfSubsumeOnThisConflict is set by analyze() when on-the-fly
	// subsumption fired during the current conflict's resolution; propagate()
	// consults it to decide whether LHBR is safe to apply on the very next
	// call, per the SPEC_FULL.md Open Question decision.
	otfSubsumeOnThisConflict bool

	// pendingHyperBins accumulates binaries derived by LHBR during the
	// current Propagate() call; the search driver attaches them to the
	// watch lists once propagation reaches a fixpoint or conflicts, since
	// attaching mid-scan would disturb the watchlist being iterated.
	pendingHyperBins [][2]Lit

	proofSink func(ProofEvent)
}

// ProofEventKind tags the three points at which the optional proof sink is
// invoked (§6 Output).
type ProofEventKind uint8

const (
	ProofClauseLearnt ProofEventKind = iota
	ProofUnitDerived
	ProofClauseDeleted
)

// ProofEvent is the pure-data payload passed to a proof-logging callback.
// The engine does no proof checking itself.
type ProofEvent struct {
	Kind ProofEventKind
	Lits []Lit
}

// New returns a solver configured with cfg.
func New(cfg Config) *Solver {
	s := &Solver{
		cfg:        cfg,
		log:        hclog.NewNullLogger(),
		arena:      NewArena(),
		clauseInc:  1,
		seen:       &ResetSet{},
		probeQueue: NewQueue[Lit](128),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
	s.order = NewVarOrder(cfg.VarInc, cfg.VarDecay, cfg.PolarityMode, cfg.RandomVarFreq, s.rng)
	s.restart = newRestartState(cfg)
	s.nextCleanLimit = 4000
	s.cleanInc = 1.3
	s.maxConflicts = -1
	s.timeout = -1

	if cfg.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflicts = cfg.MaxConflicts
	}
	if cfg.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = cfg.Timeout
	}
	if cfg.CacheOn {
		s.cache = nil // built by BuildBinCache before probing and vivification
	}
	return s
}

// NewDefaultSolver returns a solver configured with DefaultConfig.
func NewDefaultSolver() *Solver {
	return New(DefaultConfig)
}

// SetLogger installs a structured logger used for progress narration. Pass
// hclog.NewNullLogger() (the default) to silence it entirely.
func (s *Solver) SetLogger(l hclog.Logger) {
	s.log = l
}

// SetProofSink installs a callback invoked at conflict-clause installation,
// 0-level unit derivation, and clause deletion (§6 Output).
func (s *Solver) SetProofSink(fn func(ProofEvent)) {
	s.proofSink = fn
}

func (s *Solver) emitProof(kind ProofEventKind, lits []Lit) {
	if s.proofSink == nil {
		return
	}
	cp := append([]Lit(nil), lits...)
	s.proofSink(ProofEvent{Kind: kind, Lits: cp})
}

// Interrupt requests that the solver unwind to the top level and return
// Unknown as soon as it reaches a stable point (§5 Cancellation). Safe to
// call from another goroutine.
func (s *Solver) Interrupt() {
	s.needInterrupt = true
}

func (s *Solver) shouldStop() bool {
	if s.needInterrupt {
		return true
	}
	if !s.hasStopCond {
		return false
	}
	if s.maxConflicts >= 0 && s.stats.Conflicts >= s.maxConflicts {
		return true
	}
	if s.timeout >= 0 && time.Since(s.startTime) >= s.timeout {
		return true
	}
	return false
}

// NumVariables returns the number of declared variables.
func (s *Solver) NumVariables() int { return len(s.vars) }

// NumAssigns returns the number of currently assigned variables.
func (s *Solver) NumAssigns() int { return len(s.trail) }

// NumConstraints returns the number of original (non-learnt) long clauses.
func (s *Solver) NumConstraints() int { return len(s.constraints) }

// NumLearnts returns the number of learnt long clauses.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// VarValue returns the current assignment of variable v.
func (s *Solver) VarValue(v Var) LBool {
	return s.vars[v].assign
}

// LitValue returns the current value of literal l, accounting for its sign.
func (s *Solver) LitValue(l Lit) LBool {
	v := s.vars[l.Var()].assign
	if l.IsPositive() {
		return v
	}
	return v.Opposite()
}

// AddVariable creates a fresh variable and returns its identifier.
func (s *Solver) AddVariable() Var {
	v := Var(len(s.vars))
	s.vars = append(s.vars, varInfo{level: -1})
	s.watches = append(s.watches, nil, nil) // positive, negative literal
	s.seen.Expand()
	s.order.NewVar()
	s.equivRepr = append(s.equivRepr, LitUndef)
	if s.cache != nil {
		s.cache = append(s.cache, binCache{}, binCache{})
	}
	return v
}

// AddClause adds an original (non-learnt) clause to the problem. It is only
// valid to call while at decision level 0. Adding a clause once the solver
// has established Unsat is a no-op returning ErrAlreadyUnsat, per §7.
func (s *Solver) AddClause(lits []Lit) error {
	if s.unsat {
		return ErrAlreadyUnsat
	}
	if s.decisionLevel() != 0 {
		return fmt.Errorf("AddClause: can only add clauses at decision level 0")
	}
	for _, l := range lits {
		if int(l.Var()) < 0 || int(l.Var()) >= len(s.vars) {
			return fmt.Errorf("%w: variable %d out of range [0, %d)", ErrMalformed, l.Var(), len(s.vars))
		}
	}

	buf := append([]Lit(nil), lits...)
	simplified, tautology := s.simplifyNewClause(buf)
	if tautology {
		return nil // §8 "add_clause with a tautological clause is a no-op"
	}

	switch len(simplified) {
	case 0:
		s.unsat = true
		return nil
	case 1:
		if !s.enqueue(simplified[0], noReason) {
			s.unsat = true
		}
	default:
		s.attachClause(simplified, false, 0)
	}
	return nil
}

// enqueue records that literal l is now true because of `from`. Returns
// false if l was already false (a conflict), true otherwise (including when
// l was already true).
func (s *Solver) enqueue(l Lit, from Reason) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		v := l.Var()
		wasPolarity := s.vars[v].polarity
		nowPolarity := l.IsPositive()
		s.vars[v].assign = Lift(l.IsPositive())
		s.vars[v].level = int32(s.decisionLevel())
		s.vars[v].reason = from
		s.vars[v].polarity = nowPolarity
		s.trail = append(s.trail, l)
		s.restart.onEnqueue(wasPolarity != nowPolarity)
		return true
	}
}

// undoOne reverts the most recent trail entry.
func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.Var()

	val := s.vars[v].assign
	s.order.Reinsert(v, val)

	s.vars[v].assign = Unknown
	s.vars[v].reason = noReason
	s.vars[v].level = -1

	s.trail = s.trail[:len(s.trail)-1]
	if s.qhead > len(s.trail) {
		s.qhead = len(s.trail)
	}
}

// assume pushes a new decision level and enqueues l as a decision.
func (s *Solver) assume(l Lit) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, noReason)
}

// cancel pops the most recent decision level.
func (s *Solver) cancel() {
	target := s.trailLim[len(s.trailLim)-1]
	for len(s.trail) > target {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil pops decision levels until decisionLevel() == level.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}

// Model returns the satisfying assignment from the most recent Solve() call
// that returned Sat. Indexed by Var.
func (s *Solver) Model() []bool {
	return s.model
}

// UnsatCore returns the subset of the last Solve() call's assumptions
// sufficient to derive Unsat, or nil if the formula is unconditionally
// unsatisfiable (§6 Output).
func (s *Solver) UnsatCore() []Lit {
	return s.finalConflict
}

// OriginalClauses returns a snapshot of every current original
// (non-learnt) clause as a literal slice, regardless of storage
// representation (implicit Bin/Tri or arena Long). Exists for components
// that consume the same variable/literal vocabulary without owning any
// solver state directly (internal/gauss's XOR reasoning, §1 "beside the
// core") — they read clauses through this method and feed derived facts
// back only through AddClause, never by touching the arena or watchlists.
func (s *Solver) OriginalClauses() [][]Lit {
	out := make([][]Lit, 0, len(s.constraints))
	for l := range s.watches {
		lit := Lit(l)
		for _, w := range s.watches[lit.Not()] {
			if w.redundant {
				continue
			}
			switch w.kind {
			case watchBin:
				if lit < w.other {
					out = append(out, []Lit{lit, w.other})
				}
			case watchTri:
				if lit < w.other && lit < w.other2 {
					out = append(out, []Lit{lit, w.other, w.other2})
				}
			}
		}
	}
	for _, ref := range s.constraints {
		out = append(out, append([]Lit(nil), s.arena.Get(ref).lits...))
	}
	return out
}
