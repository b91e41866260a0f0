package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tracker/internal/cli"
	"tracker/internal/core"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <position>",
	Aliases: []string{"rm"},
	Short:   "Remove the transaction at a position",
	Long: `Remove the transaction at the given 1-based position, as shown by list.
Later transactions move up by one.

Example:
  tracker delete 2`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	index, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(ctx context.Context, app *cli.App) error {
		removed, err := app.Service.DeleteAt(ctx, index)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d %s %s (%s)\n",
			index+1, removed.Title, core.FormatAmount(removed.Amount), removed.Category)
		return err
	})
}
