package litmus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-litmus/exitcodes"
	"github.com/ethereum-optimism/infra/op-litmus/logging"
	"github.com/ethereum-optimism/infra/op-litmus/registry"
	"github.com/ethereum-optimism/infra/op-litmus/reporting"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// SuiteBuilder constructs a fresh suite for one planned run. Suites are
// rebuilt per run so interval mode never reuses run state.
type SuiteBuilder func() *TestSuite

// App runs planned suites, either once or periodically at the configured
// interval, and writes rendered reports as run artifacts.
type App struct {
	ctx        context.Context
	config     *Config
	version    string
	registry   *registry.Registry
	suites     map[string]SuiteBuilder
	fileLogger *logging.FileLogger
	tracer     trace.Tracer

	running atomic.Bool
	failed  atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New creates an App from config and the suites available to the plan.
func New(ctx context.Context, config *Config, version string, suites map[string]SuiteBuilder, shutdownCallback func(error)) (*App, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if len(suites) == 0 {
		return nil, errors.New("at least one suite builder is required")
	}

	config.Log.Debug("Creating app with config",
		"planPath", config.PlanPath,
		"logDir", config.LogDir,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	reg, err := registry.NewRegistry(registry.Config{
		Log:      config.Log,
		PlanFile: config.PlanPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	for _, run := range reg.Suites() {
		if _, ok := suites[run.Name]; !ok {
			return nil, fmt.Errorf("run plan names unknown suite %q", run.Name)
		}
	}

	fileLogger, err := logging.NewFileLogger(config.LogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	return &App{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		suites:           suites,
		fileLogger:       fileLogger,
		tracer:           otel.Tracer("op-litmus"),
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the plan, then either returns (run-once mode) or keeps
// re-running it at the configured interval until Stop.
func (a *App) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			a.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	a.ctx = ctx
	a.done = make(chan struct{})
	a.running.Store(true)

	if a.config.RunOnce {
		a.config.Log.Info("Starting op-litmus in run-once mode")
	} else {
		a.config.Log.Info("Starting op-litmus in continuous mode", "interval", a.config.RunInterval)
	}

	if err := a.runPlan(ctx); err != nil {
		if !IsAssertionFailure(err) {
			a.config.Log.Error("Runtime error running plan", "error", err)
			return NewRuntimeError(err)
		}
		// Throw mode stopped the plan at the first failing assertion. The
		// run is already marked failed; this is a test outcome, not a
		// runtime error.
		a.config.Log.Error("Plan stopped at first hard assertion failure", "error", err)
	}

	if a.config.RunOnce {
		a.config.Log.Info("Plan completed, exiting (run-once mode)")
		if a.failed.Load() {
			a.config.Log.Warn("Run-once plan completed with failures, returning exit code 1")
			return NewTestFailureError("one or more suites reported failed assertions")
		}
		go func() {
			a.shutdownCallback(nil)
		}()
		return nil
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.config.Log.Debug("Starting periodic plan runner goroutine", "interval", a.config.RunInterval)

		for {
			select {
			case <-time.After(a.config.RunInterval):
				if !a.running.Load() {
					a.config.Log.Debug("Service stopped, exiting periodic plan runner")
					return
				}
				a.config.Log.Info("Running periodic plan")
				if err := a.runPlan(a.ctx); err != nil {
					a.config.Log.Error("Error running periodic plan", "error", err)
				}

			case <-a.done:
				a.config.Log.Debug("Done signal received, stopping periodic plan runner")
				return

			case <-ctx.Done():
				a.config.Log.Debug("Context canceled, stopping periodic plan runner")
				a.running.Store(false)
				return
			}
		}
	}()
	a.config.Log.Debug("op-litmus started successfully")
	return nil
}

// Stop stops the op-litmus service.
func (a *App) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping op-litmus")

	if !a.running.Load() {
		a.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	a.running.Store(false)
	a.config.Log.Debug("Sending done signal to goroutines")
	close(a.done)

	a.config.Log.Info("op-litmus stopped successfully")
	return nil
}

// Stopped returns true if the service is stopped.
func (a *App) Stopped() bool {
	return !a.running.Load()
}

// Failed reports whether any suite run so far recorded a failure.
func (a *App) Failed() bool {
	return a.failed.Load()
}

// runPlan executes every planned suite run in plan order.
func (a *App) runPlan(ctx context.Context) error {
	for _, planned := range a.registry.Suites() {
		if err := a.runSuite(ctx, planned); err != nil {
			return err
		}
	}
	return nil
}

// runSuite executes one planned suite run and writes its artifacts.
func (a *App) runSuite(ctx context.Context, planned registry.SuiteRun) error {
	_, span := a.tracer.Start(ctx, "suite run "+planned.Name)
	defer span.End()

	builder := a.suites[planned.Name]
	suite := builder()

	// Plan fields were validated at registry load time.
	mode, err := types.ParseMode(planned.Mode)
	if err != nil {
		return err
	}
	format, err := registry.ParseFormat(planned.Format)
	if err != nil {
		return err
	}
	level, err := reporting.ParseLogLevel(planned.LogLevel)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var filename string
	factory := func() reporting.Reporter {
		switch format {
		case registry.FormatHTML:
			filename = logging.HTMLReportFilename
			return reporting.NewHTMLReporter(&buf)
		default:
			filename = logging.MarkdownReportFilename
			return reporting.NewMarkdownReporter(&buf, level)
		}
	}

	a.config.Log.Info("Running suite", "suite", planned.Name, "mode", mode, "format", format)

	var report *RunReport
	if len(planned.Tests) == 0 {
		report, err = suite.Run(factory, mode)
	} else {
		indices := make([]int, len(planned.Tests))
		for i, idx := range planned.Tests {
			indices[i] = idx - 1 // plan indices are 1-based
		}
		report, err = suite.RunSome(factory, indices, mode)
	}
	if err != nil {
		// A hard assertion failure under throw mode stops the whole plan.
		a.failed.Store(true)
		a.config.Log.Error("Suite run stopped at first failure", "suite", planned.Name, "error", err)
		return fmt.Errorf("suite %q: %w", planned.Name, err)
	}

	if path, werr := a.fileLogger.WriteReport(report.RunID, filename, buf.Bytes()); werr != nil {
		a.config.Log.Error("Failed to write report artifact", "suite", planned.Name, "error", werr)
	} else {
		a.config.Log.Info("Wrote report artifact", "suite", planned.Name, "path", path)
	}

	PrintResultsTable(report)

	if report.Failed() {
		a.failed.Store(true)
	}
	a.config.Log.Info("Suite run completed",
		"suite", planned.Name,
		"run_id", report.RunID,
		"passes", report.Total.Passes,
		"fails", report.Total.Fails,
		"aborted", report.Aborted)
	return nil
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (a *App) WaitForShutdown(ctx context.Context) error {
	a.config.Log.Debug("Waiting for all goroutines to terminate")

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.config.Log.Debug("All goroutines terminated successfully")
		return nil
	case <-ctx.Done():
		a.config.Log.Warn("Timed out waiting for goroutines to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}
