package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakfield/pokedex/internal/catalog"
	"github.com/oakfield/pokedex/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <id|name|url>",
	Short: "Show one entry's full record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// parseLookup accepts whatever the user has on hand: a numeric id, a
// listing URL, or a name.
func parseLookup(arg string) catalog.Lookup {
	if id, err := strconv.Atoi(arg); err == nil && id > 0 {
		return catalog.Lookup{ID: id}
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return catalog.Lookup{URL: arg}
	}
	return catalog.Lookup{Name: strings.ToLower(arg)}
}

func runShow(cmd *cobra.Command, args []string) error {
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
	d := ctrl.Detail()

	types := make([]string, len(d.Types))
	for i, t := range d.Types {
		types[i] = t.Type.Name
	}

	if jsonOutput {
		stats := make([]map[string]any, len(d.Stats))
		for i, s := range d.Stats {
			stats[i] = map[string]any{
				"name":  s.Stat.Name,
				"value": s.BaseStat,
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":              d.ID,
			"name":            d.Name,
			"height_m":        d.HeightMeters(),
			"weight_kg":       d.WeightKilograms(),
			"base_experience": d.BaseExperience,
			"types":           types,
			"stats":           stats,
			"artwork":         d.Artwork(),
			"favorite":        ctrl.Favorite() == catalog.Favorited,
		})
	}

	out := cmd.OutOrStdout()
	w := newTabWriter(out)
	fmt.Fprintf(w, "ID\t%d\n", d.ID)
	fmt.Fprintf(w, "Name\t%s\n", d.Name)
	fmt.Fprintf(w, "Height\t%.1f m\n", d.HeightMeters())
	fmt.Fprintf(w, "Weight\t%.1f kg\n", d.WeightKilograms())
	fmt.Fprintf(w, "Base exp\t%d\n", d.BaseExperience)
	fmt.Fprintf(w, "Types\t%s\n", strings.Join(types, ", "))
	if ctrl.Favorite() == catalog.Favorited {
		fmt.Fprintf(w, "Favorite\tyes\n")
	}
	w.Flush()

	if len(d.Stats) > 0 {
		fmt.Fprintln(out, "\nStats:")
		sw := newTabWriter(out)
		for _, s := range d.Stats {
			fmt.Fprintf(sw, "  %s\t%d\n", s.Stat.Name, s.BaseStat)
		}
		sw.Flush()
	}

	if art := d.Artwork(); art != "" {
		fmt.Fprintf(out, "\nArtwork: %s\n", art)
	}
	return nil
}
