package litmus

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-litmus/flags"
)

// Config holds the application configuration
type Config struct {
	PlanPath    string        // Path to the YAML run plan
	LogDir      string        // Directory to store run artifacts
	RunInterval time.Duration // Interval between runs
	RunOnce     bool          // Indicates if the service should exit after one run
	Log         log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	planPath := ctx.String(flags.Plan.Name)
	if planPath == "" {
		return nil, errors.New("run plan file is required")
	}
	absPlanPath, err := filepath.Abs(planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for run plan '%s': %w", planPath, err)
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	return &Config{
		PlanPath:    absPlanPath,
		LogDir:      logDir,
		RunInterval: runInterval,
		RunOnce:     runOnce,
		Log:         log,
	}, nil
}
