// Package subject holds the trending-subject browser controller.
package subject

import (
	"slices"
	"strings"

	"github.com/abelbrown/booksearch/internal/catalog"
)

// Request asks the caller to fetch the works for Name.
type Request struct {
	Seq  uint64
	Name string
}

// State is what the subject view renders.
type State struct {
	Name    string
	Works   []catalog.Book
	Loading bool
}

// Controller tracks the subject being browsed. Like search.Controller it does
// no I/O and drops outcomes for anything but the latest request.
type Controller struct {
	state State
	seq   uint64
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{state: State{Works: []catalog.Book{}}}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Works = slices.Clone(c.state.Works)
	if s.Works == nil {
		s.Works = []catalog.Book{}
	}
	return s
}

// Open switches to name and returns the fetch to perform. Any works from the
// previous subject are dropped immediately. A blank name returns ok=false.
func (c *Controller) Open(name string) (Request, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Request{}, false
	}
	c.seq++
	c.state = State{Name: name, Works: []catalog.Book{}, Loading: true}
	return Request{Seq: c.seq, Name: name}, true
}

// Complete fills in works for seq. Stale outcomes return false.
func (c *Controller) Complete(seq uint64, works []catalog.Book) bool {
	if !c.current(seq) {
		return false
	}
	if works == nil {
		works = []catalog.Book{}
	}
	c.state.Works = works
	c.state.Loading = false
	return true
}

// Fail empties the work list for seq.
func (c *Controller) Fail(seq uint64) bool {
	if !c.current(seq) {
		return false
	}
	c.state.Works = []catalog.Book{}
	c.state.Loading = false
	return true
}

// Close forgets the current subject; in-flight fetches become stale.
func (c *Controller) Close() {
	c.seq++
	c.state = State{Works: []catalog.Book{}}
}

func (c *Controller) current(seq uint64) bool {
	return c.state.Loading && seq == c.seq
}
