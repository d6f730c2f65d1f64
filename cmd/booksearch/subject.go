package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/store"
	"github.com/abelbrown/booksearch/internal/subject"
)

var subjectCmd = &cobra.Command{
	Use:   "subject NAME...",
	Short: "List works for a subject",
	Long: `List works filed under a catalog subject, e.g.

  booksearch subject harry potter`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubject,
}

func init() {
	subjectCmd.Flags().Int("limit", 0, "number of works (default from config)")
	subjectCmd.Flags().Bool("json", false, "print works as JSON")
	rootCmd.AddCommand(subjectCmd)
}

func runSubject(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	initCLILogging(cmd)

	if limit <= 0 {
		limit = cfg.Subjects.WorkLimit
	}

	ctrl := subject.NewController()
	req, ok := ctrl.Open(strings.Join(args, " "))
	if !ok {
		return errors.New("subject: empty name")
	}

	res, err := newCatalogClient().Subject(cmd.Context(), req.Name, limit)
	if err != nil {
		ctrl.Fail(req.Seq)
		return fmt.Errorf("subject %q: %w", req.Name, err)
	}
	ctrl.Complete(req.Seq, res.Works)
	recordSubject(req.Name, res.WorkCount)

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, res)
	}
	printSubject(cmd, res)
	return nil
}

func printSubject(cmd *cobra.Command, res catalog.SubjectResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(res.Name))
	if len(res.Works) == 0 {
		fmt.Fprintln(out, "No works found")
		return
	}
	fmt.Fprintln(out, bookTable(res.Works, 1))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d of %d works", len(res.Works), res.WorkCount)))
}

// recordSubject writes a subject visit to history. Failures are logged only.
func recordSubject(name string, workCount int) {
	withHistory(func(st *store.Store) error {
		return st.RecordSubjectView(name, workCount, time.Now())
	})
}
