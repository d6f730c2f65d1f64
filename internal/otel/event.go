// Package otel records what booksearch does as typed JSONL events.
//
// A Logger serializes events off the caller's goroutine and can mirror them
// into a RingBuffer, which the TUI's debug overlay reads.
package otel

import (
	"encoding/json"
	"time"
)

// Level is event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is "<subsystem>.<action>".
type EventKind string

const (
	// Catalog search
	KindSearchStart    EventKind = "search.start"
	KindSearchComplete EventKind = "search.complete"
	KindSearchError    EventKind = "search.error"
	KindSearchStale    EventKind = "search.stale"
	KindSearchClear    EventKind = "search.clear"

	// Subject browsing
	KindSubjectStart    EventKind = "subject.start"
	KindSubjectComplete EventKind = "subject.complete"
	KindSubjectError    EventKind = "subject.error"
	KindSubjectStale    EventKind = "subject.stale"

	// History store
	KindHistoryError EventKind = "history.error"

	// UI
	KindKeyPress EventKind = "ui.key"
	KindNavigate EventKind = "ui.navigate"

	// Process lifecycle
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is one observability record. Only Kind is required; Time and
// SessionID are filled in by the Logger.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "search", "subject", "ui", "main"
	SessionID string         `json:"session_id,omitempty"`
	Seq       uint64         `json:"seq,omitempty"` // controller request sequence
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Query     string         `json:"query,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Offset    int            `json:"offset,omitempty"`
	Limit     int            `json:"limit,omitempty"`
	Count     int            `json:"count,omitempty"` // rows held
	Total     int            `json:"total,omitempty"` // matches reported by the catalog
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON writes Dur as fractional milliseconds.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	p := plain(e)
	if e.Dur > 0 {
		p.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(p)
}
