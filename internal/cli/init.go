// Package cli provides process bootstrap shared by the binaries and the
// cobra command tree of cmd/spendlog.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"spendlog/internal/backend"
	"spendlog/internal/config"
	"spendlog/internal/log"
)

// SetupLogger builds a logger at the LOG_LEVEL threshold and installs it as
// the slog default.
func SetupLogger(level, component string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = component
	if out != nil {
		cfg.Output = out
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// Init loads configuration, sets up logging and exits the process when
// validate rejects the configuration.
func Init(component string, validate func(*config.Config) error) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, component, os.Stdout)
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// OpenBackend builds the configured ledger and optional publisher.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bcfg)
}
