package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendlog/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "spendlog",
	Short: "Log expenses in plain language",
	Long: `spendlog records expenses written as plain text and reports on them.

Usage:
  spendlog log <text>        Log an expense (e.g., spendlog log Spent $12.50 on lunch)
  spendlog summary           List expenses, most recent first
  spendlog totals            Show totals by category
  spendlog tips              Show saving tips
  spendlog ask <text>        Route a free-form request

Storage is chosen with DATA_BACKEND (memory, sqlite, postgres).`,
	SilenceUsage: true,
}

var logCmd = &cobra.Command{
	Use:   "log <text>",
	Short: "Log an expense from plain text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd.Context(), func(ctx context.Context, svc *services.ExpenseService) error {
			e, err := svc.LogExpense(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(deps.Stdout, services.FormatConfirmation(e))
			return nil
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List expenses, most recent first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd.Context(), func(ctx context.Context, svc *services.ExpenseService) error {
			out, err := svc.Summary(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(deps.Stdout, out)
			return nil
		})
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show totals by category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd.Context(), func(ctx context.Context, svc *services.ExpenseService) error {
			totals, err := svc.Totals(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(deps.Stdout, services.FormatTotals(totals))
			return nil
		})
	},
}

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show saving tips",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd.Context(), func(ctx context.Context, svc *services.ExpenseService) error {
			tips, err := svc.Tips(ctx)
			if err != nil {
				return err
			}
			for _, tip := range tips {
				_, _ = fmt.Fprintln(deps.Stdout, tip)
			}
			return nil
		})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Answer a free-form request (log, summary, totals or tips)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd.Context(), func(ctx context.Context, svc *services.ExpenseService) error {
			_, reply := svc.Respond(ctx, strings.Join(args, " "))
			_, _ = fmt.Fprintln(deps.Stdout, reply)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd, summaryCmd, totalsCmd, tipsCmd, askCmd)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"spendlog version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// withService opens the service, runs fn and reports failures as user
// messages on stderr with exit code 1.
func withService(ctx context.Context, fn func(context.Context, *services.ExpenseService) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := deps.Service(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}
	defer func() {
		if closeFn != nil {
			_ = closeFn()
		}
	}()

	if err := fn(ctx, svc); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, services.UserMessage(err))
		deps.Exit(1)
	}
}
