package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// solveAll returns every model of s by repeatedly solving and then blocking
// the model just found with a clause forbidding it.
func solveAll(s *Solver) [][]bool {
	var models [][]bool
	for s.Solve(nil) == Sat {
		model := append([]bool(nil), s.Model()...)
		models = append(models, model)

		block := make([]Lit, len(model))
		for i, b := range model {
			// Literals are flipped: !(a ^ b ^ c) = (!a v !b v !c).
			block[i] = MkLit(Var(i), b)
		}
		s.cancelUntil(0)
		if err := s.AddClause(block); err != nil {
			panic(err)
		}
	}
	return models
}

func toBinaryString(model []bool) string {
	b := make([]byte, len(model))
	for i, v := range model {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func toModelSet(models [][]bool) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[toBinaryString(m)] = struct{}{}
	}
	return set
}

func TestSolveAllEnumeratesEveryModel(t *testing.T) {
	// (x0 v x1) with x2 free: models are every assignment except x0=x1=false,
	// six models over three variables.
	clauses := [][]int{{1, 2}}
	s := buildSolver(DefaultConfig, 3, clauses)

	got := solveAll(s)

	want := [][]bool{
		{true, false, false}, {true, false, true},
		{false, true, false}, {false, true, true},
		{true, true, false}, {true, true, true},
	}
	if len(got) != len(want) {
		t.Fatalf("solveAll() found %d models, want %d", len(got), len(want))
	}
	if diff := cmp.Diff(toModelSet(want), toModelSet(got)); diff != "" {
		t.Errorf("solveAll() model set mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveAllOnUnsatInstanceFindsNone(t *testing.T) {
	clauses := [][]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	s := buildSolver(DefaultConfig, 2, clauses)

	if got := solveAll(s); len(got) != 0 {
		t.Errorf("solveAll() = %v, want no models", got)
	}
}
