// Command cdclsolve reads a DIMACS CNF instance and reports its
// satisfiability, in the same spirit as the teacher's root-level main.go.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/satforge/cdcl/internal/dimacsio"
	"github.com/satforge/cdcl/internal/sat"
)

var (
	flagCPUProfile = flag.Bool("cpuprof", false, "save pprof CPU profile to cpuprof")
	flagMemProfile = flag.Bool("memprof", false, "save pprof memory profile to memprof")
	flagGzip       = flag.Bool("gzip", false, "the instance file is gzip-compressed")
	flagVerbose    = flag.Bool("v", false, "log simplification/search episode progress")
	flagTimeout    = flag.Duration("timeout", 0, "wall-clock solve timeout, 0 for none")
	flagAssume     = flag.String("assume", "", "comma-separated signed 1-indexed assumption literals")
	flagConfig     = flag.String("set", "", "comma-separated key=value configuration overrides")
)

type cliConfig struct {
	instanceFile string
	gzipped      bool
	cpuProfile   bool
	memProfile   bool
	verbose      bool
	timeout      time.Duration
	assumeLits   []int
	overrides    map[string]string
}

func parseArgs() (*cliConfig, error) {
	flag.Parse()
	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	cfg := &cliConfig{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzip,
		cpuProfile:   *flagCPUProfile,
		memProfile:   *flagMemProfile,
		verbose:      *flagVerbose,
		timeout:      *flagTimeout,
		overrides:    map[string]string{},
	}

	if *flagAssume != "" {
		for _, tok := range strings.Split(*flagAssume, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				return nil, fmt.Errorf("invalid assumption literal %q: %w", tok, err)
			}
			cfg.assumeLits = append(cfg.assumeLits, n)
		}
	}

	if *flagConfig != "" {
		for _, tok := range strings.Split(*flagConfig, ",") {
			kv := strings.SplitN(tok, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid -set entry %q, want key=value", tok)
			}
			cfg.overrides[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return cfg, nil
}

func run(cliCfg *cliConfig) error {
	solverCfg := sat.DefaultConfig
	for k, v := range cliCfg.overrides {
		if err := solverCfg.Set(k, parseConfigValue(k, v)); err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
	}
	if cliCfg.timeout > 0 {
		solverCfg.Timeout = cliCfg.timeout
	}

	s := sat.New(solverCfg)
	if cliCfg.verbose {
		s.SetLogger(hclog.New(&hclog.LoggerOptions{Name: "cdclsolve", Level: hclog.Debug}))
	}

	numVars, numClauses, err := dimacsio.LoadFile(cliCfg.instanceFile, cliCfg.gzipped, s)
	if err != nil {
		return fmt.Errorf("could not load instance: %w", err)
	}
	fmt.Printf("c variables:  %d\n", numVars)
	fmt.Printf("c clauses:    %d\n", numClauses)

	assumptions, err := resolveAssumptions(s, numVars, cliCfg.assumeLits)
	if err != nil {
		return err
	}

	start := time.Now()
	result := s.Solve(assumptions)
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("s %s\n", competitionStatus(result))

	switch result {
	case sat.Sat:
		printModel(s.Model())
	case sat.Unsat:
		if core := s.UnsatCore(); len(core) > 0 {
			printCore(core)
		}
	}

	return nil
}

func resolveAssumptions(s *sat.Solver, numVars int, signed []int) ([]sat.Lit, error) {
	lits := make([]sat.Lit, 0, len(signed))
	for _, n := range signed {
		if n == 0 {
			return nil, fmt.Errorf("assumption literal must be non-zero")
		}
		idx := n
		negated := n < 0
		if negated {
			idx = -n
		}
		if idx > numVars {
			return nil, fmt.Errorf("assumption literal %d references undeclared variable", n)
		}
		lits = append(lits, sat.MkLit(sat.Var(idx-1), negated))
	}
	return lits, nil
}

func competitionStatus(r sat.Result) string {
	switch r {
	case sat.Sat:
		return "SATISFIABLE"
	case sat.Unsat:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

func printModel(model []bool) {
	var sb strings.Builder
	sb.WriteString("v")
	for i, val := range model {
		if val {
			fmt.Fprintf(&sb, " %d", i+1)
		} else {
			fmt.Fprintf(&sb, " -%d", i+1)
		}
	}
	sb.WriteString(" 0")
	fmt.Println(sb.String())
}

func printCore(core []sat.Lit) {
	var sb strings.Builder
	sb.WriteString("c unsat core:")
	for _, l := range core {
		if l.IsPositive() {
			fmt.Fprintf(&sb, " %d", int(l.Var())+1)
		} else {
			fmt.Fprintf(&sb, " -%d", int(l.Var())+1)
		}
	}
	fmt.Println(sb.String())
}

// configBoolKeys, configIntKeys and configFloatKeys name the keys whose
// values Config.Set expects as bool, int64 and float64; every other key
// (restart_policy, polarity_mode, cl_clean_type) takes a plain string.
var configBoolKeys = map[string]bool{
	"do_probe": true, "do_elim": true, "do_vivify": true, "do_scc": true,
	"cache_on": true,
}

var configIntKeys = map[string]bool{
	"restart_first": true, "glue_history_short": true, "glue_history_long": true,
	"probe_budget": true, "elim_budget": true, "vivify_budget": true,
	"elim_var_limit": true, "cache_cutoff": true,
}

var configFloatKeys = map[string]bool{
	"restart_inc": true, "var_inc": true, "var_decay_mul": true,
	"var_decay_div": true, "clause_decay": true, "random_var_freq": true,
}

// parseConfigValue converts a -set value to the Go type Config.Set expects
// for that key (bool, int64, float64, or the raw string for enum keys).
func parseConfigValue(key, v string) any {
	switch {
	case configBoolKeys[key]:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return v
		}
		return b
	case configIntKeys[key]:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return v
		}
		return i
	case configFloatKeys[key]:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		return f
	default:
		return v
	}
}

func main() {
	cliCfg, err := parseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cliCfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cliCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cliCfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
