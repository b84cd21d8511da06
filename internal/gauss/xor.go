package gauss

import (
	"sort"
	"strconv"
	"strings"

	"github.com/satforge/cdcl/internal/sat"
)

// Gate is one detected XOR constraint XOR(vars) = rhs.
type Gate struct {
	Vars []sat.Var
	Rhs  bool
}

// FindGates groups clauses by their variable set and recognizes any group
// that fully encodes an XOR constraint: 2^(k-1) distinct clauses over the
// same k variables, all sharing the same negative-literal parity, is
// exactly the Tseitin CNF encoding of XOR(vars) = rhs for a single common
// rhs (rhs = the complement of that shared parity). Groups of size < 3 are
// skipped: a 2-variable group is indistinguishable from an ordinary
// biimplication and would fire on almost every binary-clause pair,
// swamping real gates with noise. Groups above 12 variables are skipped too
// since 2^(k-1) clauses would need to be present simultaneously for the
// count check to pass, which doesn't happen by accident at that width.
// Grounded on cryptominisat's XorFinder.h grouping-by-variable-signature
// approach, simplified to operate over a clause snapshot rather than
// incrementally inside propagation.
func FindGates(clauses [][]sat.Lit) []Gate {
	type group struct {
		vars   []sat.Var
		parity map[bool]int
		total  int
	}
	groups := map[string]*group{}

	for _, c := range clauses {
		if len(c) < 3 || len(c) > 12 {
			continue
		}
		vars := make([]sat.Var, len(c))
		for i, l := range c {
			vars[i] = l.Var()
		}
		sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
		if hasDuplicateVar(vars) {
			continue
		}
		key := varsKey(vars)
		g, ok := groups[key]
		if !ok {
			g = &group{vars: vars, parity: map[bool]int{}}
			groups[key] = g
		}
		g.parity[clauseParity(c)]++
		g.total++
	}

	var gates []Gate
	for _, g := range groups {
		want := 1 << uint(len(g.vars)-1)
		for parity, count := range g.parity {
			if count == want && g.total == want {
				gates = append(gates, Gate{Vars: g.vars, Rhs: !parity})
			}
		}
	}
	return gates
}

func hasDuplicateVar(vars []sat.Var) bool {
	for i := 1; i < len(vars); i++ {
		if vars[i] == vars[i-1] {
			return true
		}
	}
	return false
}

func varsKey(vars []sat.Var) string {
	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(strconv.Itoa(int(v)))
		sb.WriteByte(',')
	}
	return sb.String()
}

// clauseParity reports whether an odd number of c's literals are negative.
func clauseParity(c []sat.Lit) bool {
	odd := false
	for _, l := range c {
		if !l.IsPositive() {
			odd = !odd
		}
	}
	return odd
}

// component is one connected set of gates sharing variables, found by
// union-find over the variables the gates mention.
type component struct {
	gates []Gate
	vars  map[sat.Var]int // global Var -> local dense index
}

func connectedComponents(gates []Gate) []component {
	parent := map[sat.Var]sat.Var{}
	var find func(v sat.Var) sat.Var
	find = func(v sat.Var) sat.Var {
		p, ok := parent[v]
		if !ok {
			parent[v] = v
			return v
		}
		if p != v {
			parent[v] = find(p)
		}
		return parent[v]
	}
	union := func(a, b sat.Var) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, g := range gates {
		for i := 1; i < len(g.Vars); i++ {
			union(g.Vars[0], g.Vars[i])
		}
		if len(g.Vars) == 0 {
			continue
		}
		find(g.Vars[0])
	}

	byRoot := map[sat.Var]*component{}
	for _, g := range gates {
		if len(g.Vars) == 0 {
			continue
		}
		root := find(g.Vars[0])
		c, ok := byRoot[root]
		if !ok {
			c = &component{vars: map[sat.Var]int{}}
			byRoot[root] = c
		}
		c.gates = append(c.gates, g)
		for _, v := range g.Vars {
			if _, ok := c.vars[v]; !ok {
				c.vars[v] = len(c.vars)
			}
		}
	}

	out := make([]component, 0, len(byRoot))
	for _, c := range byRoot {
		out = append(out, *c)
	}
	return out
}

// Result summarizes one XOR-reasoning pass.
type Result struct {
	GatesFound int
	UnitsFound int
	Unsat      bool
}

// solverView is the subset of *sat.Solver RunXorReasoning needs, kept as an
// interface so the component never touches solver state it doesn't own.
type solverView interface {
	OriginalClauses() [][]sat.Lit
	AddClause(lits []sat.Lit) error
}

// RunXorReasoning extracts XOR gates from s's original clauses, solves each
// connected component's GF(2) system by Gaussian elimination, and feeds
// derived units (and, on conflict, a pair of complementary unit clauses
// that drive the solver to the same UNSAT state through its ordinary
// add_clause path) back through s.AddClause. Must be called at decision
// level 0, before Solve. Never touches the arena or watchlists: the single-
// owner rule of §5 is preserved by only ever going through AddClause.
func RunXorReasoning(s solverView) Result {
	gates := FindGates(s.OriginalClauses())
	return reasonOverGates(gates, s)
}

// reasonOverGates is RunXorReasoning's logic minus CNF gate recognition,
// split out so the Gaussian-elimination/feedback path can be exercised
// directly against hand-built gates in tests.
func reasonOverGates(gates []Gate, s solverView) Result {
	var result Result
	result.GatesFound = len(gates)
	if len(gates) == 0 {
		return result
	}

	for _, comp := range connectedComponents(gates) {
		localOf := comp.vars
		globalOf := make([]sat.Var, len(localOf))
		for v, idx := range localOf {
			globalOf[idx] = v
		}

		m := NewMatrix(len(localOf))
		for _, g := range comp.gates {
			localVars := make([]int, len(g.Vars))
			for i, v := range g.Vars {
				localVars[i] = localOf[v]
			}
			m.AddEquation(localVars, g.Rhs)
		}

		elim := m.Eliminate()
		if elim.Conflict {
			result.Unsat = true
			v := globalOf[0]
			_ = s.AddClause([]sat.Lit{sat.PositiveLit(v)})
			_ = s.AddClause([]sat.Lit{sat.NegativeLit(v)})
			return result
		}
		for _, u := range elim.Units {
			gv := globalOf[u.Var]
			if u.Value {
				_ = s.AddClause([]sat.Lit{sat.PositiveLit(gv)})
			} else {
				_ = s.AddClause([]sat.Lit{sat.NegativeLit(gv)})
			}
			result.UnitsFound++
		}
	}

	return result
}
