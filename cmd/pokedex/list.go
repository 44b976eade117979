package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfield/pokedex/internal/catalog"
	"github.com/oakfield/pokedex/internal/storage"
)

var (
	listCategory  string
	listSearch    string
	listOfflineOK bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Long:  "Fetch the first page of the catalog, or serve the cached copy when offline. Optionally narrow by category and by a name substring.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "",
		"Show only members of this category")
	listCmd.Flags().StringVar(&listSearch, "search", "",
		"Show only names containing this substring")
	listCmd.Flags().BoolVar(&listOfflineOK, "offline-ok", false,
		"Exit successfully even when offline with no cached list")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ctrl := catalog.NewListController(env.client, storage.NewListCache(env.kv), catalog.ListOptions{
		PageSize: env.cfg.List.PageSize,
		Logger:   env.log,
	})

	ctx := cmd.Context()
	ctrl.Load(ctx)
	if listCategory != "" {
		ctrl.SelectCategory(ctx, listCategory)
	}
	if listSearch != "" {
		ctrl.Search(listSearch)
	}

	snap := ctrl.Snapshot()
	if snap.Err != "" && len(snap.Items) == 0 {
		if listOfflineOK && snap.Offline {
			fmt.Fprintln(cmd.OutOrStdout(), snap.Err)
			return nil
		}
		return fmt.Errorf("%s", snap.Err)
	}

	if jsonOutput {
		items := make([]map[string]any, len(snap.Items))
		for i, it := range snap.Items {
			items[i] = map[string]any{
				"name": it.Name,
				"url":  it.URL,
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"items":    items,
			"total":    len(items),
			"category": snap.ActiveCategory,
			"search":   snap.SearchText,
			"offline":  snap.Offline,
		})
	}

	out := cmd.OutOrStdout()
	if snap.Offline {
		fmt.Fprintln(out, "Offline: showing the last cached list.")
	}
	if snap.Err != "" {
		// Items exist, so the failure was a later step (e.g. category fetch).
		fmt.Fprintln(cmd.ErrOrStderr(), snap.Err)
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return nil
	}

	w := newTabWriter(out)
	fmt.Fprintln(w, "NAME\tURL")
	for _, it := range snap.Items {
		fmt.Fprintf(w, "%s\t%s\n", it.Name, it.URL)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d entries\n", len(snap.Items))

	return nil
}
