// Package paging holds the page arithmetic shared by the search controller,
// the TUI footer and the CLI.
package paging

import "iter"

// DefaultMarkCap bounds how many scroll marks ScrollMarks will ever yield.
const DefaultMarkCap = 200

// TotalPages returns ceil(total/size). A non-positive size yields 0 pages.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset returns the zero-based offset of the first row on a 1-based page.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}

// Clamp keeps page within [1, pages]. With no pages, page 1 is returned.
func Clamp(page, pages int) int {
	if pages < 1 || page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// VisibleRange returns the 1-based (start, end) indices shown on page when
// held rows of the page were returned. Both are absolute catalog row numbers:
// end is clamped to start-1+held, not to held itself, so page 2 of 10 with
// 10 rows held is (11, 20). Returns (0, 0) when nothing is held.
func VisibleRange(page, size, held int) (start, end int) {
	if held <= 0 || size <= 0 {
		return 0, 0
	}
	start = Offset(page, size) + 1
	end = page * size
	if last := start - 1 + held; last < end {
		end = last
	}
	return start, end
}

// ScrollMarks lazily yields start, start+1, ... up to upTo inclusive, stopping
// after limit values. Nothing is materialised; callers range over it.
func ScrollMarks(start, upTo, limit int) iter.Seq[int] {
	if limit <= 0 {
		limit = DefaultMarkCap
	}
	return func(yield func(int) bool) {
		n := 0
		for v := start; v <= upTo && n < limit; v++ {
			if !yield(v) {
				return
			}
			n++
		}
	}
}

// NextMark returns the mark after current in the ScrollMarks sequence,
// wrapping to the first mark. ok is false when the sequence is empty.
func NextMark(current, start, upTo, limit int) (next int, ok bool) {
	first, seen := 0, false
	for v := range ScrollMarks(start, upTo, limit) {
		if !seen {
			first, seen = v, true
		}
		if v > current {
			return v, true
		}
	}
	if !seen {
		return 0, false
	}
	return first, true
}
