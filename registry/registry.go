// Package registry loads and validates the YAML run plan: which suites to
// run, in which mode, with which renderer, and optionally which subset of
// tests.
package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-litmus/reporting"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// Format selects the renderer for a planned suite run.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat converts a run-plan string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatHTML:
		return Format(s), nil
	case "":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want %q or %q)", s, FormatMarkdown, FormatHTML)
	}
}

// SuiteRun is one planned suite execution.
type SuiteRun struct {
	Name     string `yaml:"name"`
	Mode     string `yaml:"mode,omitempty"`
	Format   string `yaml:"format,omitempty"`
	LogLevel string `yaml:"loglevel,omitempty"`
	// Tests is an optional subset of 1-based test indices, in the order
	// they should run. Empty means all tests in registration order.
	Tests []int `yaml:"tests,omitempty"`
}

// Plan is the top-level run plan document.
type Plan struct {
	Suites []SuiteRun `yaml:"suites"`
}

// Registry manages the run plan and its configuration.
type Registry struct {
	config Config
	plan   *Plan
	mu     sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log      log.Logger
	PlanFile string
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.PlanFile == "" {
		return nil, fmt.Errorf("run plan file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config: cfg,
	}

	if err := r.loadPlan(cfg.PlanFile); err != nil {
		return nil, fmt.Errorf("failed to load run plan: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(suites)", len(r.plan.Suites))

	return r, nil
}

// loadPlan reads and validates the run plan document.
func (r *Registry) loadPlan(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	if err := validatePlan(&plan); err != nil {
		return fmt.Errorf("invalid run plan: %w", err)
	}

	r.plan = &plan
	return nil
}

// validatePlan checks every planned run for parseable fields and sane
// subset indices. Suite name resolution happens later, against whatever
// builders the application registered.
func validatePlan(plan *Plan) error {
	if len(plan.Suites) == 0 {
		return fmt.Errorf("run plan names no suites")
	}
	for i, run := range plan.Suites {
		if run.Name == "" {
			return fmt.Errorf("suite entry %d has no name", i)
		}
		if _, err := types.ParseMode(run.Mode); err != nil {
			return fmt.Errorf("suite %q: %w", run.Name, err)
		}
		if _, err := ParseFormat(run.Format); err != nil {
			return fmt.Errorf("suite %q: %w", run.Name, err)
		}
		if _, err := reporting.ParseLogLevel(run.LogLevel); err != nil {
			return fmt.Errorf("suite %q: %w", run.Name, err)
		}
		for _, idx := range run.Tests {
			if idx < 1 {
				return fmt.Errorf("suite %q: test index %d is not a 1-based index", run.Name, idx)
			}
		}
	}
	return nil
}

// Suites returns the planned suite runs.
func (r *Registry) Suites() []SuiteRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plan.Suites
}
