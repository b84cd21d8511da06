package sat

// removedStatus tags why a variable is no longer decided on, mirroring
// cryptominisat's varData.elimed (ELIMED_NONE/VARELIM/VARREPLACER/
// DECOMPOSE/QUEUED_REPLACER).
type removedStatus uint8

const (
	removedNone removedStatus = iota
	removedEliminated         // removed by bounded-resolution elimination, §4.9
	removedEquivalent         // replaced by its SCC representative, §4.8
	removedDecomposed         // decomposed away (blocked-clause elimination), §4.9
	removedQueued             // queued for replacement, not yet substituted
)

// reasonKind tags the shape of a Reason.
type reasonKind uint8

const (
	reasonNone reasonKind = iota
	reasonBin
	reasonTri
	reasonLong
)

// Reason explains why a literal was assigned: a decision or top-level fact
// (reasonNone), a binary/ternary implicit clause, or a long clause in the
// arena. The ancestor, viaRedundant and hasAncestor fields are not set
// anywhere: probing (§4.7) records plain Bin/Tri/Long reasons like search
// does, so these fields are always zero.
type Reason struct {
	kind          reasonKind
	other         Lit // reasonBin, reasonTri: first antecedent literal
	other2        Lit // reasonTri: second antecedent literal
	ref           ClauseRef
	ancestor      Lit  // probing only: parent literal in the implication chain
	viaRedundant  bool // probing only: chain used a redundant binary somewhere
	hasAncestor   bool
}

var noReason = Reason{kind: reasonNone}

func binReason(other Lit) Reason {
	return Reason{kind: reasonBin, other: other}
}

func triReason(o1, o2 Lit) Reason {
	return Reason{kind: reasonTri, other: o1, other2: o2}
}

func longReason(ref ClauseRef) Reason {
	return Reason{kind: reasonLong, ref: ref}
}

// extendKind tags the two kinds of step the Solution Extender (§4.12)
// replays in reverse insertion order.
type extendKind uint8

const (
	// extendClause: a clause was removed by the Variable Eliminator or
	// Blocked-Clause Eliminator (§4.9). If lits is unsatisfied by the
	// partial model built so far, blockedOn's variable is flipped to make
	// blockedOn true.
	extendClause extendKind = iota
	// extendEquiv: a variable was replaced by its SCC representative
	// (§4.8). Unconditionally copy the representative's current value to
	// the replaced variable, with the appropriate sign.
	extendEquiv
)

// extendEntry is one step of the single chronological log the Solution
// Extender replays in reverse. Clause removals and equivalence merges share
// one log (rather than two separate passes) because later simplification
// rounds can eliminate or merge variables that appear in earlier logged
// clauses; only a single reverse-chronological walk guarantees every
// variable referenced by a step already has a correct value by the time
// that step runs.
type extendEntry struct {
	kind extendKind

	lits      []Lit // extendClause
	blockedOn Lit   // extendClause

	equivVar Var // extendEquiv: the replaced variable
	equivRep Lit // extendEquiv: its representative literal (same truth value)
}

// varInfo is the per-variable state of §3: assignment, level, reason,
// activity, preferred polarity and removed-status tag.
type varInfo struct {
	assign   LBool // value of the *positive* literal; Unknown until assigned
	level    int32
	reason   Reason
	activity float64
	polarity bool // true = last/preferred value is "true"
	removed  removedStatus
}
