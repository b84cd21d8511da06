package gauss

import (
	"testing"

	"github.com/satforge/cdcl/internal/sat"
)

func lit(v int, negated bool) sat.Lit {
	return sat.MkLit(sat.Var(v), negated)
}

// xorClauses returns the Tseitin CNF encoding of XOR(v0,v1,v2) = rhs.
func xorClauses(v0, v1, v2 int, rhs bool) [][]sat.Lit {
	var out [][]sat.Lit
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				parity := (a + b + c) % 2
				assignmentSatisfies := (parity == 1) == rhs
				if assignmentSatisfies {
					continue // only forbidden assignments produce a blocking clause
				}
				out = append(out, []sat.Lit{
					lit(v0, a == 1),
					lit(v1, b == 1),
					lit(v2, c == 1),
				})
			}
		}
	}
	return out
}

func TestFindGatesDetectsXorTrue(t *testing.T) {
	clauses := xorClauses(0, 1, 2, true)
	gates := FindGates(clauses)
	if len(gates) != 1 {
		t.Fatalf("FindGates() found %d gates, want 1 (clauses=%v)", len(gates), clauses)
	}
	if !gates[0].Rhs {
		t.Errorf("FindGates()[0].Rhs = false, want true")
	}
	if len(gates[0].Vars) != 3 {
		t.Errorf("FindGates()[0].Vars = %v, want 3 variables", gates[0].Vars)
	}
}

func TestFindGatesDetectsXorFalse(t *testing.T) {
	clauses := xorClauses(0, 1, 2, false)
	gates := FindGates(clauses)
	if len(gates) != 1 {
		t.Fatalf("FindGates() found %d gates, want 1", len(gates))
	}
	if gates[0].Rhs {
		t.Errorf("FindGates()[0].Rhs = true, want false")
	}
}

func TestFindGatesIgnoresOrdinaryClauses(t *testing.T) {
	clauses := [][]sat.Lit{
		{lit(0, false), lit(1, false), lit(2, false)},
		{lit(0, true), lit(1, false)},
	}
	if gates := FindGates(clauses); len(gates) != 0 {
		t.Errorf("FindGates() = %v, want none for a partial/ordinary clause set", gates)
	}
}

// fakeSolver is a minimal solverView used to test RunXorReasoning without the
// full sat.Solver.
type fakeSolver struct {
	clauses [][]sat.Lit
	added   [][]sat.Lit
}

func (f *fakeSolver) OriginalClauses() [][]sat.Lit { return f.clauses }

func (f *fakeSolver) AddClause(lits []sat.Lit) error {
	f.added = append(f.added, append([]sat.Lit(nil), lits...))
	return nil
}

func TestRunXorReasoningDerivesUnit(t *testing.T) {
	// XOR(0,1,2)=true and XOR(0,1,3)=true force x2=x3; adding XOR(2,3,4)=true
	// then pins x4=1.
	gates := []Gate{
		{Vars: []sat.Var{0, 1, 2}, Rhs: true},
		{Vars: []sat.Var{0, 1, 3}, Rhs: true},
		{Vars: []sat.Var{2, 3, 4}, Rhs: true},
	}

	f := &fakeSolver{}
	result := reasonOverGates(gates, f)

	if result.Unsat {
		t.Fatalf("reasonOverGates().Unsat = true, want false")
	}
	if result.UnitsFound != 1 {
		t.Fatalf("reasonOverGates().UnitsFound = %d, want 1", result.UnitsFound)
	}
	if len(f.added) != 1 || f.added[0][0] != lit(4, false) {
		t.Errorf("AddClause calls = %v, want a single unit clause asserting x4=true", f.added)
	}
}

func TestRunXorReasoningDetectsConflict(t *testing.T) {
	// XOR(0,1,2)=true and XOR(0,1,3)=true force x2+x3=0; asserting
	// XOR(2,3,4) as both true and false over that same relation is
	// directly contradictory once combined.
	gates := []Gate{
		{Vars: []sat.Var{0, 1, 2}, Rhs: true},
		{Vars: []sat.Var{0, 1, 3}, Rhs: true},
		{Vars: []sat.Var{2, 3, 4}, Rhs: false},
		{Vars: []sat.Var{2, 3, 4}, Rhs: true},
	}

	f := &fakeSolver{}
	result := reasonOverGates(gates, f)

	if !result.Unsat {
		t.Fatalf("reasonOverGates().Unsat = false, want true for contradictory XOR gates")
	}
	if len(f.added) != 2 {
		t.Errorf("reasonOverGates() called AddClause %d times, want 2 complementary units", len(f.added))
	}
}
