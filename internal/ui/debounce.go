package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is how long the query input must stay unchanged before a
// search is issued.
const DefaultDebounce = 300 * time.Millisecond

// debouncer coalesces keystrokes into one settle message. Every Bump starts a
// new generation; only the tick carrying the latest generation counts, so at
// most one pending timer is ever live.
type debouncer struct {
	delay time.Duration
	gen   uint64
}

func newDebouncer(delay time.Duration) debouncer {
	if delay < 0 {
		delay = 0
	}
	return debouncer{delay: delay}
}

// Bump schedules an inputSettled for value and supersedes earlier ones.
func (d *debouncer) Bump(value string) tea.Cmd {
	d.gen++
	gen := d.gen
	if d.delay == 0 {
		return func() tea.Msg { return inputSettled{gen: gen, value: value} }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return inputSettled{gen: gen, value: value}
	})
}

// Cancel invalidates any pending tick.
func (d *debouncer) Cancel() {
	d.gen++
}

// Current reports whether msg came from the latest Bump.
func (d debouncer) Current(msg inputSettled) bool {
	return msg.gen == d.gen
}
