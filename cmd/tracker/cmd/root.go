// Package cmd provides CLI commands for tracker.
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/config"
	"tracker/internal/log"
)

var (
	envFile string
	debug   bool
	appCfg  *config.Config
	appLog  *log.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Record and summarise personal income and expenses",
	Long: `tracker keeps a personal ledger of income and expense transactions.

It supports:
- Adding, editing and deleting transactions
- Filtering by category, date range, title text and type
- Income, expense and per-category totals
- A local JSON API (serve) and an event consumer (watch)

Example:
  tracker add --title Groceries --amount 42.50 --category Food
  tracker list --category Food --start 2024-01-01
  tracker summary`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := cli.LoadEnvFileFrom(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
		} else {
			cli.LoadEnvFile()
		}

		cfg, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		if debug {
			cfg.LogLevel = "debug"
		}
		appCfg = cfg
		appLog = cli.SetupLogger(cfg.LogLevel)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(watchCmd)
}

// withApp bootstraps the ledger, runs fn and flushes on the way out.
func withApp(ctx context.Context, fn func(ctx context.Context, app *cli.App) error) error {
	app, err := cli.Bootstrap(ctx, appCfg, appLog)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	runErr := fn(ctx, app)
	if err := app.Close(context.WithoutCancel(ctx)); err != nil {
		appLog.ErrorContext(ctx, "Failed to close ledger", log.FieldError, err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// parsePosition converts a 1-based position argument into a ledger index.
func parsePosition(arg string) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || pos < 1 {
		return 0, fmt.Errorf("invalid position %q: expected a number starting at 1", arg)
	}
	return pos - 1, nil
}
