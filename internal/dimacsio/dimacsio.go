// Package dimacsio reads and writes the DIMACS CNF and model text formats
// used by the solver's front end. Grounded on the teacher's root-level
// parsers/parsers.go, which wraps the same rhartert/dimacs library; this
// version targets the sat package's Var/Lit types instead of the teacher's
// own sat.Literal.
package dimacsio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/satforge/cdcl/internal/sat"
)

// ClauseAdder is the subset of *sat.Solver's surface Load/LoadFile need, kept
// as an interface so tests can instantiate a fake.
type ClauseAdder interface {
	AddVariable() sat.Var
	AddClause(lits []sat.Lit) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// LoadFile parses a DIMACS CNF file (optionally gzip-compressed) and loads
// its formula into solver via AddVariable/AddClause.
func LoadFile(filename string, gzipped bool, solver ClauseAdder) (numVars, numClauses int, err error) {
	r, err := open(filename, gzipped)
	if err != nil {
		return 0, 0, fmt.Errorf("dimacsio: opening %q: %w", filename, err)
	}
	defer r.Close()
	return Load(r, solver)
}

// Load parses a DIMACS CNF stream and loads its formula into solver.
func Load(r io.Reader, solver ClauseAdder) (numVars, numClauses int, err error) {
	b := &builder{solver: solver}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return 0, 0, fmt.Errorf("dimacsio: parsing CNF: %w", err)
	}
	return b.numVars, b.numClauses, nil
}

// builder adapts a ClauseAdder to dimacs.Builder.
type builder struct {
	solver     ClauseAdder
	vars       []sat.Var
	numVars    int
	numClauses int
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("unsupported problem type %q (only cnf is supported)", problem)
	}
	b.numVars = nVars
	b.vars = make([]sat.Var, nVars)
	for i := 0; i < nVars; i++ {
		b.vars[i] = b.solver.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmp []int) error {
	lits := make([]sat.Lit, len(tmp))
	for i, l := range tmp {
		idx, negated := dimacsIndex(l)
		if idx >= len(b.vars) {
			return fmt.Errorf("literal %d references variable %d, but only %d were declared", l, idx+1, len(b.vars))
		}
		lits[i] = sat.MkLit(b.vars[idx], negated)
	}
	if err := b.solver.AddClause(lits); err != nil {
		return fmt.Errorf("clause %d: %w", b.numClauses+1, err)
	}
	b.numClauses++
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil
}

func dimacsIndex(l int) (idx int, negated bool) {
	if l < 0 {
		return -l - 1, true
	}
	return l - 1, false
}

// WriteFile writes lits (one original clause per line) in DIMACS CNF format,
// 1-indexed and terminated by " 0", to filename.
func WriteFile(filename string, numVars int, clauses [][]sat.Lit) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, numVars, clauses)
}

// Write writes clauses in DIMACS CNF format to w.
func Write(w io.Writer, numVars int, clauses [][]sat.Lit) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", numVars, len(clauses)); err != nil {
		return err
	}
	for _, c := range clauses {
		for _, l := range c {
			sign := 1
			if !l.IsPositive() {
				sign = -1
			}
			if _, err := fmt.Fprintf(bw, "%d ", sign*(int(l.Var())+1)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadModels parses a file of models, one per line, as produced by
// WriteModel: space-separated signed 1-indexed literals terminated by 0.
// Used by test fixtures to check a solver's model against an expected set.
func ReadModels(filename string) ([][]bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var models [][]bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		model := make([]bool, 0, len(fields))
		for _, fld := range fields {
			v, err := strconv.Atoi(fld)
			if err != nil {
				return nil, fmt.Errorf("dimacsio: parsing model literal %q: %w", fld, err)
			}
			if v == 0 {
				continue
			}
			model = append(model, v > 0)
		}
		models = append(models, model)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// WriteModel writes model (indexed by Var) as a single DIMACS-style line of
// signed 1-indexed literals terminated by 0.
func WriteModel(w io.Writer, model []bool) error {
	bw := bufio.NewWriter(w)
	for i, val := range model {
		sign := 1
		if !val {
			sign = -1
		}
		if _, err := fmt.Fprintf(bw, "%d ", sign*(i+1)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("0\n"); err != nil {
		return err
	}
	return bw.Flush()
}
