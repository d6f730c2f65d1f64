// Package main is the entry point for the booksearch CLI.
//
// With no subcommand it runs the TUI. The search, subject, trending and
// history subcommands are one-shot versions of the same flows.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/config"
	"github.com/abelbrown/booksearch/internal/logging"
	"github.com/abelbrown/booksearch/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded by the root command's PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "booksearch",
	Short: "Search the Open Library catalog from the terminal",
	Long: `booksearch queries the Open Library catalog. Run it without arguments
for the interactive search screen, or use a subcommand for one-shot output.

Settings come from ~/.booksearch/config.json and BOOKSEARCH_* environment
variables, e.g. BOOKSEARCH_SEARCH_PAGE_SIZE=20.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
			loaded.Catalog.BaseURL = baseURL
		}
		cfg = loaded
		return nil
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.booksearch/config.json)")
	rootCmd.PersistentFlags().String("base-url", "", "catalog base URL (overrides config)")
}

// initCLILogging sends the global logger to stderr for one-shot commands.
func initCLILogging(cmd *cobra.Command) {
	if err := logging.InitWriter(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}

func newCatalogClient() *catalog.Client {
	return catalog.NewClient(catalog.Options{
		BaseURL:           cfg.Catalog.BaseURL,
		UserAgent:         cfg.Catalog.UserAgent,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		MaxRetries:        cfg.Catalog.MaxRetries,
	})
}

// openHistory opens the history database, or returns nil when history is
// disabled.
func openHistory() (*store.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.ResolvedDataDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.Open(cfg.DataPath("history.db"))
}

// withHistory runs fn against the history store. A disabled or unavailable
// store is skipped; failures are logged only.
func withHistory(fn func(st *store.Store) error) {
	st, err := openHistory()
	if err != nil {
		logging.Warn("history unavailable", "err", err)
		return
	}
	if st == nil {
		return
	}
	defer st.Close()
	if err := fn(st); err != nil {
		logging.Warn("history write failed", "err", err)
	}
}

// recordSearch writes a CLI search to history.
func recordSearch(query string, numFound int) {
	withHistory(func(st *store.Store) error {
		return st.RecordSearch(query, numFound, time.Now())
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
