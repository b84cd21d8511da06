package sat

import "testing"

// buildSolver constructs a solver over numVars variables and loads clauses,
// given as signed 1-indexed literals terminated implicitly by end-of-slice
// (one []int per clause), the same convention as DIMACS.
func buildSolver(cfg Config, numVars int, clauses [][]int) *Solver {
	s := New(cfg)
	vars := make([]Var, numVars)
	for i := range vars {
		vars[i] = s.AddVariable()
	}
	for _, c := range clauses {
		lits := make([]Lit, len(c))
		for i, n := range c {
			if n < 0 {
				lits[i] = NegativeLit(vars[-n-1])
			} else {
				lits[i] = PositiveLit(vars[n-1])
			}
		}
		if err := s.AddClause(lits); err != nil {
			panic(err)
		}
	}
	return s
}

func litTrue(s *Solver, v Var) bool {
	return s.Model()[v]
}

// checkModel reports whether every clause (signed 1-indexed literals) is
// satisfied by s.Model().
func checkModel(s *Solver, clauses [][]int) bool {
	for _, c := range clauses {
		sat := false
		for _, n := range c {
			v := Var(abs(n) - 1)
			val := litTrue(s, v)
			if n < 0 {
				val = !val
			}
			if val {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestSolveSatisfiableWithFullSimplification(t *testing.T) {
	// A small satisfiable instance with an equivalence (1 <-> 2), a pure
	// literal (4), and a blocked clause candidate, exercised through the
	// full simplification pipeline.
	clauses := [][]int{
		{1, -2}, {-1, 2}, // 1 <-> 2
		{2, 3},
		{-3, 4},
		{4},
	}
	s := buildSolver(DefaultConfig, 4, clauses)

	result := s.Solve(nil)
	if result != Sat {
		t.Fatalf("Solve() = %v, want Sat", result)
	}
	if !checkModel(s, clauses) {
		t.Errorf("Model() = %v does not satisfy all clauses", s.Model())
	}
}

func TestSolveUnsatisfiable(t *testing.T) {
	clauses := [][]int{
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	s := buildSolver(DefaultConfig, 2, clauses)

	if result := s.Solve(nil); result != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", result)
	}
}

func TestSolveWithSimplificationDisabledAgrees(t *testing.T) {
	clauses := [][]int{
		{1, -2}, {-1, 2},
		{2, 3},
		{-3, 4},
		{4},
	}
	cfg := DefaultConfig
	cfg.DoProbe = false
	cfg.DoElim = false
	cfg.DoVivify = false
	cfg.DoSCC = false

	s := buildSolver(cfg, 4, clauses)
	result := s.Solve(nil)
	if result != Sat {
		t.Fatalf("Solve() = %v, want Sat", result)
	}
	if !checkModel(s, clauses) {
		t.Errorf("Model() = %v does not satisfy all clauses", s.Model())
	}
}

func TestSolveUnsatWhenEveryAssignmentForbidden(t *testing.T) {
	// All four combinations of two variables are forbidden: unsatisfiable
	// regardless of which simplification pass (if any) catches it first.
	clauses := [][]int{
		{1, 2}, {-1, -2}, {1, -2}, {-1, 2},
	}
	s := buildSolver(DefaultConfig, 2, clauses)
	if result := s.Solve(nil); result != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", result)
	}
}
