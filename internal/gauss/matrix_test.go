package gauss

import "testing"

func TestMatrixEliminateSolvesTriangularSystem(t *testing.T) {
	// x0 ⊕ x1 = 1, x1 ⊕ x2 = 0, x2 = 1  =>  x2=1, x1=1, x0=0.
	m := NewMatrix(3)
	m.AddEquation([]int{0, 1}, true)
	m.AddEquation([]int{1, 2}, false)
	m.AddEquation([]int{2}, true)

	got := m.Eliminate()
	if got.Conflict {
		t.Fatalf("Eliminate() reported a conflict for a satisfiable system")
	}

	want := map[int]bool{0: false, 1: true, 2: true}
	if len(got.Units) != len(want) {
		t.Fatalf("Eliminate() found %d units, want %d (%+v)", len(got.Units), len(want), got.Units)
	}
	for _, u := range got.Units {
		if wv, ok := want[u.Var]; !ok || wv != u.Value {
			t.Errorf("Eliminate() unit %+v does not match expected %v", u, want)
		}
	}
}

func TestMatrixEliminateDetectsConflict(t *testing.T) {
	// x0 = 1, x0 = 0: unsatisfiable.
	m := NewMatrix(1)
	m.AddEquation([]int{0}, true)
	m.AddEquation([]int{0}, false)

	got := m.Eliminate()
	if !got.Conflict {
		t.Fatalf("Eliminate() = %+v, want Conflict = true", got)
	}
}

func TestMatrixAddEquationCancelsRepeatedVariable(t *testing.T) {
	// x0 ⊕ x0 ⊕ x1 = 1 reduces to x1 = 1.
	m := NewMatrix(2)
	m.AddEquation([]int{0, 0, 1}, true)

	got := m.Eliminate()
	if got.Conflict {
		t.Fatalf("Eliminate() reported a conflict for a satisfiable system")
	}
	if len(got.Units) != 1 || got.Units[0].Var != 1 || !got.Units[0].Value {
		t.Errorf("Eliminate() = %+v, want a single unit {Var:1 Value:true}", got.Units)
	}
}

func TestMatrixEliminateUnderdeterminedYieldsNoUnits(t *testing.T) {
	// x0 ⊕ x1 = 1 alone pins no individual variable.
	m := NewMatrix(2)
	m.AddEquation([]int{0, 1}, true)

	got := m.Eliminate()
	if got.Conflict {
		t.Fatalf("Eliminate() reported a conflict for a satisfiable system")
	}
	if len(got.Units) != 0 {
		t.Errorf("Eliminate() = %+v, want no units", got.Units)
	}
}
