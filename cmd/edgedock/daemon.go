package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/edgedock/internal/daemon"
	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/hotkeys"
	"github.com/1broseidon/edgedock/internal/ipc"
	"github.com/1broseidon/edgedock/internal/platform"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/edgedock/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edgedock daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the auto-hide loop for the configured panel window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	policy, err := cfg.DecisionPolicy()
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}
	samplerKind, err := platform.ParseSamplerKind(cfg.Sampler)
	if err != nil {
		log.Fatalf("Invalid sampler: %v", err)
	}

	backend, err := platform.OpenLinuxBackend(cfg.Display, cfg.Window.Class, cfg.Window.Title, cfg.ScaleFactor)
	if err != nil {
		log.Fatalf("Failed to attach to panel window: %v", err)
	}
	defer backend.Close()

	logger.Info("edgedock daemon starting",
		"config", res.File,
		"policy", policy.Name(),
		"window", backend.WindowID(),
		"scale", backend.ScaleFactor(),
		"sampler", samplerKind)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	origin, err := daemon.Prepare(ctx, backend, daemon.StartupConfig{
		Policy:   policy.Name(),
		Geometry: cfg.Geometry(),
		Delay:    cfg.StartupDelay,
		Logger:   logger,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		log.Fatalf("Failed to place panel: %v", err)
	}

	machine := dock.NewEdgeStateMachine(policy, cfg.Geometry(), dock.Hidden)
	machine.Update(dock.Coordinate{}, false, origin)

	runner := daemon.NewRunner(daemon.RunnerConfig{
		Interval: cfg.ActivePolicy().Interval,
		Logger:   logger,
	}, machine, backend.Sampler(samplerKind), backend)

	ipcServer, err := ipc.NewServer(runner, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	if cfg.ToggleHotkey != "" {
		startToggleHotkey(ctx, cfg.Display, cfg.ToggleHotkey, runner, logger)
	}

	runner.Run(ctx)
	logger.Info("edgedock daemon stopped")
	return 0
}

// startToggleHotkey grabs the toggle key on its own connection. Failure only
// disables the hotkey.
func startToggleHotkey(ctx context.Context, display, keys string, runner *daemon.Runner, logger *slog.Logger) {
	handler, err := hotkeys.NewHandler(display, logger)
	if err != nil {
		logger.Warn("toggle hotkey disabled", "error", err)
		return
	}
	if err := handler.RegisterFunc(keys, func() {
		if err := runner.Toggle(); err != nil {
			logger.Warn("toggle failed", "error", err)
		}
	}); err != nil {
		handler.Close()
		logger.Warn("toggle hotkey disabled", "error", err)
		return
	}
	logger.Info("toggle hotkey registered", "keys", keys)

	go func() {
		defer handler.Close()
		handler.Run(ctx)
	}()
}
