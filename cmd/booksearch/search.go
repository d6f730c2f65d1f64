package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/logging"
	"github.com/abelbrown/booksearch/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search the catalog and print one page of results",
	Long: `Search the catalog for QUERY and print a page of matches.

--page jumps to a page (clamped to the last page). --all widens the
result to every row held on that page, the same as ctrl+t in the TUI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("page", 1, "page to show")
	searchCmd.Flags().Int("limit", 0, "page size (default from config)")
	searchCmd.Flags().Bool("all", false, "show every held row on one page")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Query        string         `json:"query"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"totalPages"`
	PageSize     int            `json:"pageSize"`
	TotalMatches int            `json:"totalMatches"`
	ShowAll      bool           `json:"showAll"`
	Start        int            `json:"start"`
	End          int            `json:"end"`
	Books        []catalog.Book `json:"books"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	asJSON, _ := cmd.Flags().GetBool("json")

	initCLILogging(cmd)

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("search: empty query")
	}
	if limit <= 0 {
		limit = cfg.Search.PageSize
	}

	client := newCatalogClient()
	ctrl := search.NewController(limit, cfg.Search.MaxScrollMarks)

	do := func(req search.Request) error {
		res, err := client.Search(cmd.Context(), req.Query, req.Offset, req.Limit)
		if err != nil {
			ctrl.Fail(req.Seq)
			return fmt.Errorf("search %q: %w", req.Query, err)
		}
		ctrl.Complete(req.Seq, res)
		return nil
	}

	req, _ := ctrl.QueryChanged(query)
	if err := do(req); err != nil {
		return err
	}
	recordSearch(query, ctrl.State().TotalMatches)

	if page > 1 {
		if req, ok := ctrl.GoToPage(page); ok {
			if err := do(req); err != nil {
				return err
			}
		}
	}
	if all {
		if req, ok := ctrl.ToggleShowAll(); ok {
			if err := do(req); err != nil {
				return err
			}
		}
	}

	st := ctrl.State()
	start, end := ctrl.VisibleRange()
	logging.Debug("search done", "query", query, "page", st.CurrentPage, "held", len(st.Results))

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, searchOutput{
			Query:        st.Query,
			Page:         st.CurrentPage,
			TotalPages:   st.TotalPages,
			PageSize:     st.PageSize,
			TotalMatches: st.TotalMatches,
			ShowAll:      st.ShowAll,
			Start:        start,
			End:          end,
			Books:        st.Results,
		})
	}

	if st.NoResults {
		fmt.Fprintln(out, "No results found")
		return nil
	}
	fmt.Fprintln(out, bookTable(st.Results, max(start, 1)))
	footer := fmt.Sprintf("Showing %d-%d of %d entries", start, end, ctrl.TotalEntries())
	if !st.ShowAll {
		footer += fmt.Sprintf(" · page %d/%d", st.CurrentPage, st.TotalPages)
	}
	fmt.Fprintln(out, mutedStyle.Render(footer))
	return nil
}
