package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfield/pokedex/internal/catalog"
	"github.com/oakfield/pokedex/internal/storage"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage the favorites list",
	Long:  "List, add, and remove favorite entries. The list persists locally and survives restarts.",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite entries",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id|name|url>",
	Short: "Add an entry to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id|name>",
	Short: "Remove an entry from favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	recs := storage.NewFavorites(env.kv).List()

	if jsonOutput {
		items := make([]map[string]any, len(recs))
		for i, r := range recs {
			items[i] = map[string]any{
				"id":    r.ID,
				"name":  r.Name,
				"image": r.ImageURL(),
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"favorites": items,
			"total":     len(items),
		})
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}
	w := newTabWriter(out)
	fmt.Fprintln(w, "ID\tNAME\tIMAGE")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.ImageURL())
	}
	w.Flush()
	return nil
}

// runFavoritesAdd fetches the full record first so the stored favorite
// carries the id, canonical name, and sprite.
func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	favs := storage.NewFavorites(env.kv)
	ctrl := catalog.NewDetailController(env.client, favs, parseLookup(args[0]), env.log)
	ctrl.Load(cmd.Context())

	if ctrl.State() != catalog.StateLoaded {
		return fmt.Errorf("%s", ctrl.Err())
	}
	if ctrl.Favorite() == catalog.Favorited {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already a favorite.\n", ctrl.Detail().Name)
		return nil
	}
	if _, err := ctrl.ToggleFavorite(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites.\n", ctrl.Detail().Name)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	favs := storage.NewFavorites(env.kv)
	lookup := parseLookup(args[0])
	key := storage.FavoriteKey{ID: lookup.ID, Name: lookup.Name}

	if !favs.Contains(key) {
		return fmt.Errorf("not a favorite: %s", args[0])
	}
	favs.Remove(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites.\n", args[0])
	return nil
}
