package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oakfield/pokedex/internal/config"
	"github.com/oakfield/pokedex/internal/pokeapi"
	"github.com/oakfield/pokedex/internal/storage"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:           "pokedex",
	Short:         "Pokedex - offline-friendly catalog browser",
	Long:          "Browse, search, and favorite catalog entries from the terminal, with an offline cache for the last fetched list.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(cacheCmd)
}

// appEnv bundles the per-invocation dependencies every command needs:
// config, logger, the open key-value store, and the remote client.
type appEnv struct {
	cfg    *config.Config
	log    *slog.Logger
	kv     *storage.KV
	client *pokeapi.Client
}

// newAppEnv loads configuration and opens the store. Callers must Close.
func newAppEnv() (*appEnv, error) {
	// A local .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	kv, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &appEnv{
		cfg:    cfg,
		log:    logger,
		kv:     kv,
		client: pokeapi.New(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)),
	}, nil
}

func (e *appEnv) Close() {
	if err := e.kv.Close(); err != nil {
		e.log.Error("store close error", "error", err)
	}
}

// newLogger builds the process logger from config. Logs go to stderr so
// command output stays pipeable.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
