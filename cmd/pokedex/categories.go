package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List available categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func runCategories(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cats, err := env.client.ListCategories(cmd.Context())
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	if jsonOutput {
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.Name
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"categories": names,
			"total":      len(names),
		})
	}

	out := cmd.OutOrStdout()
	if len(cats) == 0 {
		fmt.Fprintln(out, "No categories found.")
		return nil
	}
	for _, c := range cats {
		fmt.Fprintln(out, c.Name)
	}
	return nil
}
