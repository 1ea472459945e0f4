// Package config loads memento configuration.
//
// A configuration file is YAML. It is decoded generically, unified with the
// embedded CUE schema (which supplies defaults and rejects out-of-range
// values), then decoded into Config. Command-line flags override file values.
//
// Example file:
//
//	db: ~/.memento/memento.db
//	owner: alice
//	timezone: America/Sao_Paulo
//	policy:
//	  name: fsrs
//	  fsrs:
//	    desired_retention: 0.85
//	    learning_steps: [1m, 10m]
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/memento/internal/policy"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalidConfig is returned for configuration that fails the schema or
// cannot be converted to runtime values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the validated configuration.
type Config struct {
	DB       string       `json:"db"`
	Owner    string       `json:"owner"`
	Timezone string       `json:"timezone"`
	Policy   PolicyConfig `json:"policy"`
}

// PolicyConfig selects and tunes the scheduling policy.
type PolicyConfig struct {
	Name string     `json:"name"`
	FSRS FSRSConfig `json:"fsrs"`
	SM2  SM2Config  `json:"sm2"`
}

// FSRSConfig mirrors policy.FSRSConfig with file-friendly types.
type FSRSConfig struct {
	DesiredRetention float64   `json:"desired_retention"`
	LearningSteps    []string  `json:"learning_steps"`
	RelearningSteps  []string  `json:"relearning_steps"`
	MaximumInterval  int       `json:"maximum_interval"`
	EnableFuzzing    bool      `json:"enable_fuzzing"`
	Weights          []float64 `json:"weights,omitempty"`
}

// SM2Config mirrors policy.SM2Config.
type SM2Config struct {
	InitialEase float64 `json:"initial_ease"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg, err := Parse(nil)
	if err != nil {
		// The embedded schema is compiled into the binary; a failure here is a
		// build defect.
		panic(fmt.Sprintf("config: default configuration: %v", err))
	}
	return cfg
}

// Load reads and validates the YAML file at path.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates YAML data against the schema and applies defaults.
// Empty data yields the defaults.
func Parse(data []byte) (Config, error) {
	raw := map[string]any{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config: compile schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if n := len(cfg.Policy.FSRS.Weights); n != 0 && n != 21 {
		return Config{}, fmt.Errorf("%w: policy.fsrs.weights needs 21 values, got %d", ErrInvalidConfig, n)
	}
	return cfg, nil
}

// PolicyConfig converts the file-level policy settings to policy.Config.
func (c Config) PolicyConfig() (policy.Config, error) {
	learning, err := parseSteps("learning_steps", c.Policy.FSRS.LearningSteps)
	if err != nil {
		return policy.Config{}, err
	}
	relearning, err := parseSteps("relearning_steps", c.Policy.FSRS.RelearningSteps)
	if err != nil {
		return policy.Config{}, err
	}

	fsrs := policy.FSRSConfig{
		DesiredRetention: c.Policy.FSRS.DesiredRetention,
		LearningSteps:    learning,
		RelearningSteps:  relearning,
		MaximumInterval:  c.Policy.FSRS.MaximumInterval,
		DisableFuzzing:   !c.Policy.FSRS.EnableFuzzing,
	}
	copy(fsrs.Weights[:], c.Policy.FSRS.Weights)

	return policy.Config{
		Name: c.Policy.Name,
		FSRS: fsrs,
		SM2:  policy.SM2Config{InitialEase: c.Policy.SM2.InitialEase},
	}, nil
}

// NewPolicy builds the configured scheduling policy.
func (c Config) NewPolicy() (policy.Policy, error) {
	pc, err := c.PolicyConfig()
	if err != nil {
		return nil, err
	}
	return policy.New(pc)
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return ParseLocation(c.Timezone)
}

// ParseLocation resolves an IANA zone name, "Local", "UTC", or a fixed
// offset written as "-03:00" or "+0530".
func ParseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC", "Z":
		return time.UTC, nil
	}

	if name[0] == '+' || name[0] == '-' {
		for _, layout := range []string{"-07:00", "-0700", "-07"} {
			if t, err := time.Parse(layout, name); err == nil {
				_, offset := t.Zone()
				return time.FixedZone("UTC"+name, offset), nil
			}
		}
		return nil, fmt.Errorf("%w: timezone offset %q", ErrInvalidConfig, name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// parseSteps always returns a non-nil slice so an empty list in the file
// means "no steps" rather than "use policy defaults".
func parseSteps(field string, steps []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(steps))
	for _, s := range steps {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("%w: policy.fsrs.%s: %v", ErrInvalidConfig, field, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: policy.fsrs.%s: %s must be positive", ErrInvalidConfig, field, s)
		}
		out = append(out, d)
	}
	return out, nil
}
