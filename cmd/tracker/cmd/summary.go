package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/core"
)

var summaryOutput string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expense and per-category totals",
	Long: `Show totals over the whole ledger: income, expenses, the balance
between them and the sum for every category.

Example:
  tracker summary --output yaml`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", formatTable, "output format: table, json or yaml")
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := validateFormat(summaryOutput); err != nil {
		return err
	}
	return withApp(cmd.Context(), func(ctx context.Context, app *cli.App) error {
		totals := core.ComputeTotals(app.Store.List())
		return renderSummary(cmd.OutOrStdout(), summaryOutput, newSummaryView(totals))
	})
}
