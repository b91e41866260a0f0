package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/core"
)

var (
	editTitle    string
	editAmount   string
	editCategory string
	editDate     string
	editOutput   string
)

var editCmd = &cobra.Command{
	Use:   "edit <position>",
	Short: "Replace the transaction at a position",
	Long: `Replace the transaction at the given 1-based position, as shown by list.

Fields that are not given keep their current value. The record keeps its
position and its ID.

Example:
  tracker edit 3 --amount 19.99
  tracker edit 1 --title "Monthly rent" --category Bills`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editAmount, "amount", "", "new amount")
	editCmd.Flags().StringVar(&editCategory, "category", "", "new category")
	editCmd.Flags().StringVar(&editDate, "date", "", "new date (YYYY-MM-DD)")
	editCmd.Flags().StringVarP(&editOutput, "output", "o", formatTable, "output format: table, json or yaml")
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := validateFormat(editOutput); err != nil {
		return err
	}
	index, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(ctx context.Context, app *cli.App) error {
		current, err := app.Store.At(index)
		if err != nil {
			return err
		}
		tx, err := core.ParseTransactionInput(editInput(current, cmd))
		if err != nil {
			return err
		}
		saved, err := app.Service.UpdateAt(ctx, index, tx)
		if err != nil {
			return err
		}
		return renderTransaction(cmd.OutOrStdout(), editOutput, newTransactionRow(index+1, saved))
	})
}

// editInput pre-populates the form from the current record and overlays the
// flags that were set.
func editInput(current core.Transaction, cmd *cobra.Command) core.TransactionInput {
	in := core.TransactionInput{
		Title:    current.Title,
		Amount:   current.Amount.String(),
		Category: current.Category.String(),
		Date:     current.Date.String(),
	}
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = editTitle
	}
	if flags.Changed("amount") {
		in.Amount = editAmount
	}
	if flags.Changed("category") {
		in.Category = editCategory
	}
	if flags.Changed("date") {
		in.Date = editDate
	}
	return in
}
