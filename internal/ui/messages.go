// Package ui provides the Bubble Tea TUI for booksearch.
package ui

import (
	"time"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/store"
)

// SearchCompleted is sent when a catalog search returns. Seq ties it to the
// request that produced it; stale sequences are dropped.
type SearchCompleted struct {
	Seq    uint64
	Query  string
	Offset int
	Limit  int
	Result catalog.SearchResult
	Dur    time.Duration
	Err    error
}

// SubjectLoaded is sent when a subject's works have been fetched.
type SubjectLoaded struct {
	Seq    uint64
	Name   string
	Result catalog.SubjectResult
	Dur    time.Duration
	Err    error
}

// HistoryLoaded carries recent searches from the store.
type HistoryLoaded struct {
	Entries []store.HistoryEntry
	Err     error
}

// HistoryRecorded is sent after a search or subject visit was written.
type HistoryRecorded struct {
	Err error
}

// Navigate switches routes. Subject is the navigation parameter for
// RouteSubject and ignored otherwise.
type Navigate struct {
	Route   Route
	Subject string
}

// inputSettled fires when the query input has been still for the debounce
// window. gen identifies the keystroke that scheduled it.
type inputSettled struct {
	gen   uint64
	value string
}
