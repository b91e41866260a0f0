package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracker/internal/core"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the transaction categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range core.Categories() {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", c, c.Type()); err != nil {
				return err
			}
		}
		return nil
	},
}
