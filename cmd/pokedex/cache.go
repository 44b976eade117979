package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfield/pokedex/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the offline list cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cached snapshot's identity and age",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached list",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	info, ok := storage.NewListCache(env.kv).Info()

	if jsonOutput {
		if !ok {
			return printJSON(cmd.OutOrStdout(), map[string]any{"cached": false})
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"cached":      true,
			"snapshot_id": info.ID,
			"saved_at":    info.SavedAt,
			"items":       info.Count,
		})
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "No cached list.")
		return nil
	}
	w := newTabWriter(out)
	fmt.Fprintf(w, "Snapshot\t%s\n", info.ID)
	fmt.Fprintf(w, "Saved\t%s\n", info.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Items\t%d\n", info.Count)
	w.Flush()
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	storage.NewListCache(env.kv).Clear()
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}
