package sat

import (
	"fmt"
	"time"
)

// CleanType selects the ranking used by reduceDB (§4.6).
type CleanType uint8

const (
	CleanGlue CleanType = iota
	CleanSize
	CleanPropConfl
)

// Config is the closed configuration surface of §6. Every field has a
// conservative default matching the teacher's DefaultOptions plus the
// additional knobs the spec's inprocessing pipeline requires.
type Config struct {
	RestartPolicy    RestartPolicy
	RestartFirst     int64
	RestartInc       float64
	GlueHistoryShort int
	GlueHistoryLong  int

	VarInc       float64
	VarDecay     float64
	ClauseDecay  float64
	RandomVarFreq float64
	PolarityMode polarityMode

	DoProbe   bool
	DoElim    bool
	DoVivify  bool
	DoSCC     bool

	ProbeBudget  int64
	ElimBudget   int64
	VivifyBudget int64
	ElimVarLimit int

	CleanType CleanType

	CacheOn     bool
	CacheCutoff int

	PhaseSaving bool

	MaxConflicts int64
	Timeout      time.Duration

	Seed int64
}

// DefaultConfig mirrors the teacher's DefaultOptions, extended with defaults
// for every knob §6 adds.
var DefaultConfig = Config{
	RestartPolicy:    RestartGlue,
	RestartFirst:     100,
	RestartInc:       1.5,
	GlueHistoryShort: 50,
	GlueHistoryLong:  5000,

	VarInc:        1,
	VarDecay:      0.95,
	ClauseDecay:   0.999,
	RandomVarFreq: 0.02,
	PolarityMode:  PolarityAuto,

	DoProbe:  true,
	DoElim:   true,
	DoVivify: true,
	DoSCC:    true,

	ProbeBudget:  1_000_000,
	ElimBudget:   4_000_000,
	VivifyBudget: 1_000_000,
	ElimVarLimit: 1 << 30,

	CleanType: CleanGlue,

	CacheOn:     true,
	CacheCutoff: 2000,

	PhaseSaving: true,

	MaxConflicts: -1,
	Timeout:      -1,

	Seed: 1,
}

// Set implements the closed `set_configuration(k, v)` surface of §6. It
// returns an error naming the unknown key rather than silently ignoring it,
// since a typo'd config name must not be mistaken for acceptance.
func (c *Config) Set(name string, value any) error {
	switch name {
	case "restart_policy":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("restart_policy: expected string, got %T", value)
		}
		switch s {
		case "geometric":
			c.RestartPolicy = RestartGeometric
		case "glue":
			c.RestartPolicy = RestartGlue
		case "agility":
			c.RestartPolicy = RestartAgility
		default:
			return fmt.Errorf("restart_policy: unknown value %q", s)
		}
	case "restart_first":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("restart_first: %w", err)
		}
		c.RestartFirst = i
	case "restart_inc":
		f, err := asFloat64(value)
		if err != nil {
			return fmt.Errorf("restart_inc: %w", err)
		}
		c.RestartInc = f
	case "glue_history_short":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("glue_history_short: %w", err)
		}
		c.GlueHistoryShort = int(i)
	case "glue_history_long":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("glue_history_long: %w", err)
		}
		c.GlueHistoryLong = int(i)
	case "var_inc":
		f, err := asFloat64(value)
		if err != nil {
			return fmt.Errorf("var_inc: %w", err)
		}
		c.VarInc = f
	case "var_decay_mul", "var_decay_div":
		f, err := asFloat64(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		c.VarDecay = f
	case "clause_decay":
		f, err := asFloat64(value)
		if err != nil {
			return fmt.Errorf("clause_decay: %w", err)
		}
		c.ClauseDecay = f
	case "random_var_freq":
		f, err := asFloat64(value)
		if err != nil {
			return fmt.Errorf("random_var_freq: %w", err)
		}
		c.RandomVarFreq = f
	case "polarity_mode":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("polarity_mode: expected string, got %T", value)
		}
		switch s {
		case "true":
			c.PolarityMode = PolarityTrue
		case "false":
			c.PolarityMode = PolarityFalse
		case "random":
			c.PolarityMode = PolarityRandom
		case "saved":
			c.PolarityMode = PolaritySaved
		case "auto":
			c.PolarityMode = PolarityAuto
		default:
			return fmt.Errorf("polarity_mode: unknown value %q", s)
		}
	case "do_probe":
		b, err := asBool(value)
		if err != nil {
			return fmt.Errorf("do_probe: %w", err)
		}
		c.DoProbe = b
	case "do_elim":
		b, err := asBool(value)
		if err != nil {
			return fmt.Errorf("do_elim: %w", err)
		}
		c.DoElim = b
	case "do_vivify":
		b, err := asBool(value)
		if err != nil {
			return fmt.Errorf("do_vivify: %w", err)
		}
		c.DoVivify = b
	case "do_scc":
		b, err := asBool(value)
		if err != nil {
			return fmt.Errorf("do_scc: %w", err)
		}
		c.DoSCC = b
	case "probe_budget":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("probe_budget: %w", err)
		}
		c.ProbeBudget = i
	case "elim_budget":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("elim_budget: %w", err)
		}
		c.ElimBudget = i
	case "vivify_budget":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("vivify_budget: %w", err)
		}
		c.VivifyBudget = i
	case "elim_var_limit":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("elim_var_limit: %w", err)
		}
		c.ElimVarLimit = int(i)
	case "cl_clean_type":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cl_clean_type: expected string, got %T", value)
		}
		switch s {
		case "glue":
			c.CleanType = CleanGlue
		case "size":
			c.CleanType = CleanSize
		case "propconfl":
			c.CleanType = CleanPropConfl
		default:
			return fmt.Errorf("cl_clean_type: unknown value %q", s)
		}
	case "cache_on":
		b, err := asBool(value)
		if err != nil {
			return fmt.Errorf("cache_on: %w", err)
		}
		c.CacheOn = b
	case "cache_cutoff":
		i, err := asInt64(value)
		if err != nil {
			return fmt.Errorf("cache_cutoff: %w", err)
		}
		c.CacheCutoff = int(i)
	default:
		return fmt.Errorf("unknown configuration key %q", name)
	}
	return nil
}

func asInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected float, got %T", v)
	}
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}
