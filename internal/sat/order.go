package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// polarityMode selects how a variable's initial/decision polarity is chosen.
type polarityMode uint8

const (
	PolarityAuto polarityMode = iota
	PolarityTrue
	PolarityFalse
	PolarityRandom
	PolaritySaved
)

// VarOrder maintains the VSIDS activity heap used by the Search Driver to
// pick the next decision variable (§4.5). Kept from the teacher's
// internal/sat/ordering.go, with default-polarity seeding added (see
// computeDefaultPolarities).
type VarOrder struct {
	heap *yagh.IntMap[float64]

	activities []float64
	varInc     float64
	varDecay   float64

	phases  []LBool
	mode    polarityMode
	rng     *rand.Rand
	randFreq float64
}

// NewVarOrder returns an empty VarOrder.
func NewVarOrder(varInc, decay float64, mode polarityMode, randFreq float64, rng *rand.Rand) *VarOrder {
	return &VarOrder{
		heap:     yagh.New[float64](0),
		varInc:   varInc,
		varDecay: decay,
		mode:     mode,
		rng:      rng,
		randFreq: randFreq,
	}
}

// NewVar registers a new variable with initial activity 0 and polarity
// depending on the configured mode.
func (vo *VarOrder) NewVar() Var {
	v := Var(len(vo.activities))
	vo.activities = append(vo.activities, 0)
	vo.phases = append(vo.phases, vo.initialPolarity())
	vo.heap.GrowBy(1)
	vo.heap.Put(int(v), 0)
	return v
}

func (vo *VarOrder) initialPolarity() LBool {
	switch vo.mode {
	case PolarityTrue:
		return True
	case PolarityFalse:
		return False
	case PolarityRandom:
		return Lift(vo.rng.Intn(2) == 0)
	default:
		return Unknown // filled in lazily at decision time
	}
}

// SeedDefaultPolarities overrides every variable's saved polarity with a
// precomputed per-variable default, used once before the first search
// episode when polarity_mode=auto (§6, "Calc default polarities" in
// SPEC_FULL.md). positives[v] is the default truth value for v.
func (vo *VarOrder) SeedDefaultPolarities(positives []bool) {
	if vo.mode != PolarityAuto {
		return
	}
	for v, p := range positives {
		vo.phases[v] = Lift(p)
	}
}

// Reinsert adds v back to the candidate set, storing its last value for
// phase saving. Called on backtrack/undo.
func (vo *VarOrder) Reinsert(v Var, val LBool) {
	if vo.mode == PolaritySaved || vo.mode == PolarityAuto {
		if val != Unknown {
			vo.phases[v] = val
		}
	}
	vo.heap.Put(int(v), -vo.activities[v])
}

// Contains reports whether v is currently a decision candidate.
func (vo *VarOrder) Contains(v Var) bool {
	return vo.heap.Contains(int(v))
}

// DecayActivity implements VSIDS decay by bumping the increment instead of
// scaling every score down (§4.5).
func (vo *VarOrder) DecayActivity() {
	vo.varInc /= vo.varDecay
	if vo.varInc > 1e100 {
		vo.rescale()
	}
}

// BumpActivity increases v's activity by the current increment, rescaling
// all activities if the value would overflow.
func (vo *VarOrder) BumpActivity(v Var) {
	vo.activities[v] += vo.varInc
	if vo.heap.Contains(int(v)) {
		vo.heap.Put(int(v), -vo.activities[v])
	}
	if vo.activities[v] > 1e100 {
		vo.rescale()
	}
}

func (vo *VarOrder) rescale() {
	vo.varInc *= 1e-100
	for v, a := range vo.activities {
		na := a * 1e-100
		vo.activities[v] = na
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -na)
		}
	}
}

// Activity returns v's current VSIDS score.
func (vo *VarOrder) Activity(v Var) float64 {
	return vo.activities[v]
}

// Pop removes and returns the highest-activity remaining candidate. The
// caller is responsible for checking the variable is still unassigned.
func (vo *VarOrder) Pop() (Var, bool) {
	next, ok := vo.heap.Pop()
	if !ok {
		return 0, false
	}
	return Var(next.Elem), true
}

// Polarity returns the phase that should be used for v's next decision.
func (vo *VarOrder) Polarity(v Var) bool {
	switch vo.phases[v] {
	case True:
		return true
	case False:
		return false
	default:
		if vo.mode == PolarityRandom {
			return vo.rng.Intn(2) == 0
		}
		return true
	}
}

// ShouldDecideRandomly reports whether the next decision should be a
// uniformly random unassigned variable, per random_var_freq (§6).
func (vo *VarOrder) ShouldDecideRandomly() bool {
	return vo.randFreq > 0 && vo.rng.Float64() < vo.randFreq
}

// BackupActivities snapshots every variable's VSIDS score, so the
// Orchestrator (§4.11) can restore it if a simplification episode ever
// needs to probe with perturbed scores.
func (vo *VarOrder) BackupActivities() []float64 {
	return append([]float64(nil), vo.activities...)
}

// RestoreActivities installs a snapshot taken by BackupActivities.
func (vo *VarOrder) RestoreActivities(snapshot []float64) {
	copy(vo.activities, snapshot)
}

// BackupPolarities snapshots every variable's saved phase.
func (vo *VarOrder) BackupPolarities() []LBool {
	return append([]LBool(nil), vo.phases...)
}

// RestorePolarities installs a snapshot taken by BackupPolarities.
func (vo *VarOrder) RestorePolarities(snapshot []LBool) {
	copy(vo.phases, snapshot)
}
