package store

import (
	"fmt"
	"strings"
	"time"
)

// HistoryEntry is one remembered search.
type HistoryEntry struct {
	Query        string    `json:"query"`
	NumFound     int       `json:"numFound"`
	Searches     int       `json:"searches"`
	LastSearched time.Time `json:"lastSearched"`
}

// SubjectView is one remembered subject page visit.
type SubjectView struct {
	Name       string    `json:"name"`
	WorkCount  int       `json:"workCount"`
	Views      int       `json:"views"`
	LastViewed time.Time `json:"lastViewed"`
}

// RecordSearch upserts a settled search. Repeating a query bumps its count
// and refreshes num_found and the timestamp. Blank queries are ignored.
func (s *Store) RecordSearch(query string, numFound int, at time.Time) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO searches (query, num_found, searches, last_searched)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(query) DO UPDATE SET
			num_found = excluded.num_found,
			searches = searches.searches + 1,
			last_searched = excluded.last_searched
	`, query, numFound, at.UTC())
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit searches, most recent first.
// Thread-safe: acquires read lock.
func (s *Store) RecentSearches(limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT query, num_found, searches, last_searched
		FROM searches
		ORDER BY last_searched DESC, query ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Query, &e.NumFound, &e.Searches, &e.LastSearched); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordSubjectView upserts a visit to a subject page.
func (s *Store) RecordSubjectView(name string, workCount int, at time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO subject_views (name, work_count, views, last_viewed)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET
			work_count = excluded.work_count,
			views = subject_views.views + 1,
			last_viewed = excluded.last_viewed
	`, name, workCount, at.UTC())
	if err != nil {
		return fmt.Errorf("record subject view: %w", err)
	}
	return nil
}

// SubjectViews returns every visited subject, most viewed first.
func (s *Store) SubjectViews() ([]SubjectView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT name, work_count, views, last_viewed
		FROM subject_views
		ORDER BY views DESC, last_viewed DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query subject views: %w", err)
	}
	defer rows.Close()

	var views []SubjectView
	for rows.Next() {
		var v SubjectView
		if err := rows.Scan(&v.Name, &v.WorkCount, &v.Views, &v.LastViewed); err != nil {
			return nil, fmt.Errorf("scan subject view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// SearchCount returns how many distinct queries are remembered.
func (s *Store) SearchCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&n)
	return n, err
}

// ClearHistory forgets every search and subject visit.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM searches; DELETE FROM subject_views"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
