package main

import (
	"context"
	"os"

	"spendlog/internal/cli"
)

// Version information injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
