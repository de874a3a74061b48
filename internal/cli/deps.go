package cli

import (
	"context"
	"io"
	"os"

	"spendlog/internal/config"
	"spendlog/internal/log"
	"spendlog/internal/services"
)

// Deps holds the side effects of the command tree so tests can replace them.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Exit   func(code int)
	// Service opens the expense service; the returned func releases it.
	Service func(ctx context.Context) (*services.ExpenseService, func() error, error)
}

// DefaultDeps returns the production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Exit:    os.Exit,
		Service: openService,
	}
}

var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}

// openService logs to stderr so command output stays clean on stdout.
func openService(ctx context.Context) (*services.ExpenseService, func() error, error) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, log.ComponentCLI, os.Stderr)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	res, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewExpenseService(res.Ledger, res.Publisher), res.Cleanup, nil
}
