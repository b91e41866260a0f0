package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/core"
)

var (
	listFilter core.FilterInput
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, optionally filtered",
	Long: `List ledger transactions in insertion order with their positions.

Filters combine: a record is shown only when it matches every one given.
Positions always refer to the full ledger, so they can be passed to edit
and delete even when a filter is active.

Example:
  tracker list --category Food --start 2024-01-01 --end 2024-01-31
  tracker list --search coffee --output json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFilter.Category, "category", "", "only this category")
	listCmd.Flags().StringVar(&listFilter.StartDate, "start", "", "only on or after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFilter.EndDate, "end", "", "only on or before this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFilter.SearchText, "search", "", "only titles containing this text, case-insensitive")
	listCmd.Flags().StringVar(&listFilter.Type, "type", "", "only income or expense")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", formatTable, "output format: table, json or yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateFormat(listOutput); err != nil {
		return err
	}
	criteria, err := core.ParseFilterCriteria(listFilter)
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(ctx context.Context, app *cli.App) error {
		_, ledger := app.Store.Snapshot()
		return renderTransactions(cmd.OutOrStdout(), listOutput, rowsFor(ledger, core.Apply(ledger, criteria)))
	})
}
