package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	litmus "github.com/ethereum-optimism/infra/op-litmus"
	"github.com/ethereum-optimism/infra/op-litmus/flags"
	"github.com/ethereum-optimism/infra/op-litmus/selfcheck"
	"github.com/ethereum-optimism/infra/op-litmus/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-litmus"
	app.Usage = "Test Suite Runner Service"
	app.Description = "op-litmus runs planned test suites and reports the results"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Check for typed runtime errors
			if litmus.IsRuntimeError(err) {
				// For runtime errors, use exit code 2
				cli.HandleExitCoder(cli.Exit(err.Error(), 2))
			} else if litmus.IsTestFailureError(err) {
				// For test failures, use exit code 1
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			} else {
				// For other unspecified errors, default to exit code 1
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			}
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	// Start CLI
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger, err := setupLogger(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return litmus.NewRuntimeError(fmt.Errorf("failed to set up logging: %w", err))
	}

	cfg, err := litmus.NewConfig(ctx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return litmus.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config",
		"planPath", cfg.PlanPath,
		"logDir", cfg.LogDir,
		"runInterval", cfg.RunInterval,
		"runOnce", cfg.RunOnce)

	runCtx, cancel := context.WithCancelCause(ctx.Context)
	defer cancel(nil)

	app, err := litmus.New(runCtx, cfg, Version, builders(), cancel)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return litmus.NewRuntimeError(fmt.Errorf("failed to create app: %w", err))
	}

	if err := app.Start(runCtx); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	<-runCtx.Done()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return litmus.NewRuntimeError(fmt.Errorf("failed to stop app: %w", err))
	}
	return app.WaitForShutdown(stopCtx)
}

// builders lists every suite the binary can run. Plans reference suites by
// these names.
func builders() map[string]litmus.SuiteBuilder {
	return map[string]litmus.SuiteBuilder{
		selfcheck.SuiteName: selfcheck.NewSuite,
	}
}

// setupLogger installs a terminal handler at the requested level as the
// global geth log handler.
func setupLogger(level string) (log.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "trace":
		lvl = log.LevelTrace
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "crit":
		lvl = log.LevelCrit
	default:
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stdout, lvl, true)
	log.SetDefault(log.NewLogger(handler))
	return log.New(), nil
}
