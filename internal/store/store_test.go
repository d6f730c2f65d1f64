package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		st.ClearHistory()
		st.Close()
	})
	return st
}

func TestOpen(t *testing.T) {
	st := openTest(t)

	for _, table := range []string{"searches", "subject_views"} {
		var name string
		err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not created: %v", table, err)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := st.RecordSearch("dune", 42, now); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}
	st.Close()

	// reopening must keep the row and not fail on the existing schema
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	entries, err := st.RecentSearches(10)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "dune" {
		t.Errorf("unexpected entries after reopen: %+v", entries)
	}
}

func TestRecordSearchUpsert(t *testing.T) {
	st := openTest(t)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := st.RecordSearch("dune", 42, t0); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}
	if err := st.RecordSearch("dune", 43, t0.Add(time.Minute)); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}

	entries, err := st.RecentSearches(10)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Searches != 2 {
		t.Errorf("Searches = %d, want 2", e.Searches)
	}
	if e.NumFound != 43 {
		t.Errorf("NumFound = %d, want 43", e.NumFound)
	}
	if !e.LastSearched.Equal(t0.Add(time.Minute)) {
		t.Errorf("LastSearched = %v, want %v", e.LastSearched, t0.Add(time.Minute))
	}
}

func TestRecordSearchIgnoresBlank(t *testing.T) {
	st := openTest(t)

	if err := st.RecordSearch("   ", 0, time.Now()); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}
	n, err := st.SearchCount()
	if err != nil {
		t.Fatalf("SearchCount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("blank query should not be stored, count = %d", n)
	}
}

func TestRecentSearchesOrderAndLimit(t *testing.T) {
	st := openTest(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	queries := []string{"dune", "foundation", "hyperion", "neuromancer"}
	for i, q := range queries {
		if err := st.RecordSearch(q, i, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("RecordSearch(%q) failed: %v", q, err)
		}
	}
	// searching dune again makes it the most recent
	st.RecordSearch("dune", 42, base.Add(10*time.Hour))

	entries, err := st.RecentSearches(3)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	want := []string{"dune", "neuromancer", "hyperion"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, q := range want {
		if entries[i].Query != q {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Query, q)
		}
	}
}

func TestRecentSearchesEmpty(t *testing.T) {
	st := openTest(t)

	entries, err := st.RecentSearches(10)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestSubjectViews(t *testing.T) {
	st := openTest(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.RecordSubjectView("CSS", 100, now)
	st.RecordSubjectView("Harry Potter", 1234, now)
	st.RecordSubjectView("Harry Potter", 1235, now.Add(time.Minute))

	views, err := st.SubjectViews()
	if err != nil {
		t.Fatalf("SubjectViews failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Name != "Harry Potter" || views[0].Views != 2 || views[0].WorkCount != 1235 {
		t.Errorf("unexpected first view: %+v", views[0])
	}
}

func TestClearHistory(t *testing.T) {
	st := openTest(t)

	now := time.Now()
	st.RecordSearch("dune", 42, now)
	st.RecordSubjectView("CSS", 100, now)

	if err := st.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if n, _ := st.SearchCount(); n != 0 {
		t.Errorf("searches not cleared, count = %d", n)
	}
	if views, _ := st.SubjectViews(); len(views) != 0 {
		t.Errorf("subject views not cleared: %+v", views)
	}
}

func TestConcurrentAccess(t *testing.T) {
	st := openTest(t)

	now := time.Now()
	var wg sync.WaitGroup

	// testing.T methods are not goroutine-safe
	errCh := make(chan error, 20)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := st.RecordSearch(fmt.Sprintf("query-%d", n), n, now); err != nil {
				errCh <- fmt.Errorf("RecordSearch failed for writer %d: %v", n, err)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.RecentSearches(100); err != nil {
				errCh <- fmt.Errorf("RecentSearches failed: %v", err)
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}

	n, err := st.SearchCount()
	if err != nil {
		t.Fatalf("SearchCount failed: %v", err)
	}
	if n != 10 {
		t.Errorf("expected 10 searches, got %d", n)
	}
}
