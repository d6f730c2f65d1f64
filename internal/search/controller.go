// Package search holds the book-search controller.
//
// The Controller owns query and page state and decides which catalog request
// to make next. It does no I/O: every operation that needs data returns a
// Request, and the caller reports the outcome back through Complete or Fail.
// Each Request carries a sequence number; outcomes for anything but the most
// recently issued request are dropped, so a slow response can never overwrite
// the page the user moved on to.
package search

import (
	"iter"
	"slices"
	"strings"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/paging"
)

// DefaultPageSize is the page size a new Controller starts with.
const DefaultPageSize = 10

// ScrollMarkStart is the smallest page size offered by ScrollMarks.
const ScrollMarkStart = 10

// Request is one catalog search the caller should perform.
type Request struct {
	Seq    uint64
	Query  string
	Offset int
	Limit  int
}

// State is a snapshot of the controller's display state.
type State struct {
	Query        string
	CurrentPage  int
	PageSize     int
	TotalPages   int
	TotalMatches int
	Results      []catalog.Book
	Loading      bool
	NoResults    bool
	ShowAll      bool
}

// Controller drives paginated catalog searches. Not safe for concurrent use;
// the TUI only touches it from Update.
type Controller struct {
	state   State
	seq     uint64 // last issued
	markCap int
	pending Request
}

// NewController creates a Controller with the given page size. A
// non-positive size falls back to DefaultPageSize; a non-positive markCap
// falls back to paging.DefaultMarkCap.
func NewController(pageSize, markCap int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if markCap <= 0 {
		markCap = paging.DefaultMarkCap
	}
	return &Controller{
		state:   initialState(pageSize),
		markCap: markCap,
	}
}

func initialState(pageSize int) State {
	return State{
		CurrentPage: 1,
		PageSize:    pageSize,
		Results:     []catalog.Book{},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Results = slices.Clone(c.state.Results)
	if s.Results == nil {
		s.Results = []catalog.Book{}
	}
	return s
}

// QueryChanged handles a settled input value. It starts a fresh search at
// page one in page-size mode. A blank value clears the controller and
// returns ok=false.
func (c *Controller) QueryChanged(text string) (Request, bool) {
	if strings.TrimSpace(text) == "" {
		c.Clear()
		return Request{}, false
	}
	c.state.Query = text
	c.state.CurrentPage = 1
	c.state.ShowAll = false
	return c.Search(text, 0, c.state.PageSize), true
}

// Search marks the controller loading and returns the request to perform.
func (c *Controller) Search(query string, offset, limit int) Request {
	c.seq++
	c.state.Loading = true
	c.pending = Request{Seq: c.seq, Query: query, Offset: offset, Limit: limit}
	return c.pending
}

// Complete applies a successful response for seq. Returns false if seq is
// not the latest request, in which case nothing changes.
func (c *Controller) Complete(seq uint64, res catalog.SearchResult) bool {
	if !c.current(seq) {
		return false
	}
	books := res.Books
	if books == nil {
		books = []catalog.Book{}
	}
	c.state.Results = books
	c.state.TotalMatches = res.NumFound
	c.state.TotalPages = paging.TotalPages(res.NumFound, c.pending.Limit)
	c.state.NoResults = len(books) == 0
	c.state.Loading = false
	return true
}

// Fail applies a transport or parse failure for seq. The resulting state is
// the same as an empty result; logging the cause is the caller's job.
func (c *Controller) Fail(seq uint64) bool {
	if !c.current(seq) {
		return false
	}
	c.state.Results = []catalog.Book{}
	c.state.TotalMatches = 0
	c.state.TotalPages = 0
	c.state.NoResults = true
	c.state.Loading = false
	return true
}

func (c *Controller) current(seq uint64) bool {
	return c.state.Loading && seq == c.seq
}

// NextPage advances one page and leaves show-all mode. No-op on the last
// page.
func (c *Controller) NextPage() (Request, bool) {
	if c.state.CurrentPage >= c.state.TotalPages {
		return Request{}, false
	}
	c.state.ShowAll = false
	c.state.CurrentPage++
	return c.Search(c.state.Query, paging.Offset(c.state.CurrentPage, c.state.PageSize), c.state.PageSize), true
}

// PreviousPage goes back one page and leaves show-all mode. No-op on the
// first page.
func (c *Controller) PreviousPage() (Request, bool) {
	if c.state.CurrentPage <= 1 {
		return Request{}, false
	}
	c.state.ShowAll = false
	c.state.CurrentPage--
	return c.Search(c.state.Query, paging.Offset(c.state.CurrentPage, c.state.PageSize), c.state.PageSize), true
}

// GoToPage jumps to page, clamped to the known page range, and leaves
// show-all mode. No-op when the clamped page is already current or nothing
// has been searched.
func (c *Controller) GoToPage(page int) (Request, bool) {
	if c.state.Query == "" {
		return Request{}, false
	}
	page = paging.Clamp(page, c.state.TotalPages)
	if page == c.state.CurrentPage {
		return Request{}, false
	}
	c.state.ShowAll = false
	c.state.CurrentPage = page
	return c.Search(c.state.Query, paging.Offset(page, c.state.PageSize), c.state.PageSize), true
}

// ChangeLimit switches to a new page size and reloads the current page
// boundary. The current page is clamped to what the last-seen total allows
// at the new size. Show-all mode ends. Without a query only the size is
// recorded.
func (c *Controller) ChangeLimit(limit int) (Request, bool) {
	if limit <= 0 {
		return Request{}, false
	}
	c.state.ShowAll = false
	c.state.PageSize = limit
	if c.state.Query == "" {
		return Request{}, false
	}
	c.state.CurrentPage = paging.Clamp(c.state.CurrentPage, paging.TotalPages(c.state.TotalMatches, limit))
	return c.Search(c.state.Query, paging.Offset(c.state.CurrentPage, limit), limit), true
}

// ToggleShowAll flips show-all mode. Enabling refetches from offset 0 with a
// limit equal to the rows currently held, not the full match count. When
// nothing is held there is nothing to widen and no request is made.
// Disabling reloads the current page at the current page size.
func (c *Controller) ToggleShowAll() (Request, bool) {
	c.state.ShowAll = !c.state.ShowAll
	if c.state.ShowAll {
		if c.state.Query == "" || len(c.state.Results) == 0 {
			return Request{}, false
		}
		return c.Search(c.state.Query, 0, len(c.state.Results)), true
	}
	return c.ChangeLimit(c.state.PageSize)
}

// VisibleRange returns the 1-based (start, end) row indices on screen.
func (c *Controller) VisibleRange() (start, end int) {
	held := len(c.state.Results)
	if c.state.ShowAll {
		if held == 0 {
			return 0, 0
		}
		return 1, held
	}
	return paging.VisibleRange(c.state.CurrentPage, c.state.PageSize, held)
}

// TotalEntries is the entry count shown next to the visible range.
func (c *Controller) TotalEntries() int {
	if c.state.ShowAll {
		return len(c.state.Results)
	}
	return c.state.TotalPages * c.state.PageSize
}

// ScrollMarks yields the page sizes a user can pick, from ScrollMarkStart up
// to TotalPages*PageSize, bounded by the controller's mark cap.
func (c *Controller) ScrollMarks() iter.Seq[int] {
	return paging.ScrollMarks(ScrollMarkStart, c.state.TotalPages*c.state.PageSize, c.markCap)
}

// NextPageSize returns the scroll mark after the current page size.
func (c *Controller) NextPageSize() (int, bool) {
	return paging.NextMark(c.state.PageSize, ScrollMarkStart, c.state.TotalPages*c.state.PageSize, c.markCap)
}

// Clear resets the search state. The page size is kept. Any in-flight
// request becomes stale.
func (c *Controller) Clear() {
	c.seq++
	c.pending = Request{}
	c.state = initialState(c.state.PageSize)
}
