package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of searches to show")
	historyCmd.Flags().Bool("clear", false, "delete all history")
	historyCmd.Flags().Bool("json", false, "print history as JSON")
	rootCmd.AddCommand(historyCmd)
}

type historyOutput struct {
	Searches        []store.HistoryEntry `json:"searches"`
	DistinctQueries int                  `json:"distinctQueries"`
	Subjects        []store.SubjectView  `json:"subjects"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	clearAll, _ := cmd.Flags().GetBool("clear")
	asJSON, _ := cmd.Flags().GetBool("json")

	initCLILogging(cmd)

	st, err := openHistory()
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("history is disabled (history.enabled = false)")
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if clearAll {
		if err := st.ClearHistory(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared")
		return nil
	}

	searches, err := st.RecentSearches(limit)
	if err != nil {
		return err
	}
	distinct, err := st.SearchCount()
	if err != nil {
		return err
	}
	subjects, err := st.SubjectViews()
	if err != nil {
		return err
	}
	if searches == nil {
		searches = []store.HistoryEntry{}
	}
	if subjects == nil {
		subjects = []store.SubjectView{}
	}

	if asJSON {
		return writeJSON(out, historyOutput{Searches: searches, DistinctQueries: distinct, Subjects: subjects})
	}

	if len(searches) == 0 && len(subjects) == 0 {
		fmt.Fprintln(out, "No history yet")
		return nil
	}
	if len(searches) > 0 {
		t := newTable("Query", "Matches", "Searches", "Last searched")
		for _, e := range searches {
			t.Row(e.Query, strconv.Itoa(e.NumFound), strconv.Itoa(e.Searches), e.LastSearched.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(out, t.String())
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d of %d remembered searches", len(searches), distinct)))
	}
	if len(subjects) > 0 {
		t := newTable("Subject", "Works", "Views", "Last viewed")
		for _, v := range subjects {
			t.Row(v.Name, strconv.Itoa(v.WorkCount), strconv.Itoa(v.Views), v.LastViewed.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(out, t.String())
	}
	return nil
}
