package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/logging"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show works for every trending subject",
	Long: `Fetch the configured trending subjects concurrently and print each
subject's works. A subject that fails is reported and the rest still print.`,
	Args: cobra.NoArgs,
	RunE: runTrending,
}

func init() {
	trendingCmd.Flags().Int("limit", 0, "works per subject (default from config)")
	trendingCmd.Flags().Int("concurrency", 3, "subjects fetched at once")
	trendingCmd.Flags().Bool("json", false, "print subjects as JSON")
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	asJSON, _ := cmd.Flags().GetBool("json")

	initCLILogging(cmd)

	if limit <= 0 {
		limit = cfg.Subjects.WorkLimit
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	names := cfg.Subjects.Trending
	if len(names) == 0 {
		names = catalog.DefaultTrending
	}

	client := newCatalogClient()
	results := make([]catalog.SubjectResult, len(names))
	fetched := make([]bool, len(names))

	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, name := range names {
		g.Go(func() error {
			res, err := client.Subject(ctx, name, limit)
			if err != nil {
				logging.Warn("subject fetch failed", "subject", name, "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("subject %q: %w", name, err))
				mu.Unlock()
				return nil
			}
			results[i] = res
			fetched[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var ok []catalog.SubjectResult
	for i, res := range results {
		if fetched[i] {
			ok = append(ok, res)
		}
	}

	if asJSON {
		if ok == nil {
			ok = []catalog.SubjectResult{}
		}
		if err := writeJSON(cmd.OutOrStdout(), ok); err != nil {
			return err
		}
	} else {
		for _, res := range ok {
			printSubject(cmd, res)
		}
	}
	return errors.Join(errs...)
}
