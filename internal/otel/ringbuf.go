package otel

import "sync"

// DefaultRingSize is used when NewRingBuffer is given a non-positive size.
const DefaultRingSize = 512

// RingBuffer keeps the most recent events in memory. Safe for concurrent use.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event
	pushed int // total pushes; the next slot is pushed % len(events)
}

// NewRingBuffer creates a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{events: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full. Extra is copied so the
// caller may keep mutating its map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		extra := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			extra[k] = v
		}
		e.Extra = extra
	}

	r.mu.Lock()
	r.events[r.pushed%len(r.events)] = e
	r.pushed++
	r.mu.Unlock()
}

// lenLocked returns how many slots hold events. Caller holds r.mu.
func (r *RingBuffer) lenLocked() int {
	return min(r.pushed, len(r.events))
}

// tailLocked copies the newest n events, oldest first. Caller holds r.mu.
func (r *RingBuffer) tailLocked(n int) []Event {
	out := make([]Event, n)
	size := len(r.events)
	first := r.pushed - n
	for i := range out {
		out[i] = r.events[(first+i)%size]
	}
	return out
}

// Snapshot returns every held event, oldest first, or nil when empty.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.lenLocked()
	if n == 0 {
		return nil
	}
	return r.tailLocked(n)
}

// Last returns the newest n events, oldest first. nil when n <= 0 or empty.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	held := r.lenLocked()
	if held == 0 {
		return nil
	}
	return r.tailLocked(min(n, held))
}

// Len returns the number of held events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lenLocked()
}

// Cap returns the ring capacity.
func (r *RingBuffer) Cap() int {
	return len(r.events)
}

// Stats counts held events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[EventKind]int)
	for _, e := range r.tailLocked(r.lenLocked()) {
		counts[e.Kind]++
	}
	return counts
}
