package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/core"
)

var (
	addTitle    string
	addAmount   string
	addCategory string
	addDate     string
	addOutput   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a transaction to the ledger",
	Long: `Append a transaction to the end of the ledger.

The type (income or expense) follows from the category: Salary is
income, every other category is an expense.

Example:
  tracker add --title Rent --amount 850 --category Bills --date 2024-03-01`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "transaction title (required)")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "positive amount, dot or comma decimals (required)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "one of Food, Bills, Salary, Entertainment, Other (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&addOutput, "output", "o", formatTable, "output format: table, json or yaml")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := validateFormat(addOutput); err != nil {
		return err
	}
	date := addDate
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}
	tx, err := core.ParseTransactionInput(core.TransactionInput{
		Title:    addTitle,
		Amount:   addAmount,
		Category: addCategory,
		Date:     date,
	})
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(ctx context.Context, app *cli.App) error {
		saved, _, err := app.Session.Submit(ctx, tx)
		if err != nil {
			return err
		}
		return renderTransaction(cmd.OutOrStdout(), addOutput, newTransactionRow(app.Store.Len(), saved))
	})
}
