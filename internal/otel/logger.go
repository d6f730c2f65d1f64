package otel

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// queueSize bounds events waiting for the writer goroutine.
const queueSize = 2048

// record pairs the encoded line with the event itself so the ring keeps
// fields that are not serialized, like Dur.
type record struct {
	line []byte
	ev   Event
}

// Logger writes events as JSONL from a single background goroutine.
// Emit never blocks: when the queue is full the event is counted as dropped.
//
// The writer goroutine is the only user of sink. The ring pointer is
// swapped atomically so Emit and SetRingBuffer never share a lock.
type Logger struct {
	session string
	sink    io.Writer
	closer  io.Closer // non-nil when the Logger owns sink
	queue   chan record
	ring    atomic.Pointer[RingBuffer]
	dropped atomic.Uint64
	closed  atomic.Bool
	stopped chan struct{}
	once    sync.Once
}

// NewLogger starts a Logger writing to w. Close flushes and stops it.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		session: newSessionID(),
		sink:    w,
		queue:   make(chan record, queueSize),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// NewNullLogger returns a Logger that discards everything. Useful in tests
// and for CLI commands that only want the ring buffer.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// OpenFile appends events to path, creating parent directories as needed.
// Close also closes the file.
func OpenFile(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

func newSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (l *Logger) run() {
	defer close(l.stopped)
	for r := range l.queue {
		if _, err := l.sink.Write(r.line); err != nil {
			l.dropped.Add(1)
		}
		if rb := l.ring.Load(); rb != nil {
			rb.Push(r.ev)
		}
	}
}

// Emit queues e. Time is set if zero and SessionID is always overwritten.
// Calls racing with Close are dropped, never panic.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		// send on a queue closed between the check and the send
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}

	select {
	case l.queue <- record{line: append(line, '\n'), ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error event. A nil err is recorded with an empty message.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	e := Event{Level: LevelError, Kind: kind, Comp: comp}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SetRingBuffer mirrors every written event into rb. Pass nil to detach.
func (l *Logger) SetRingBuffer(rb *RingBuffer) {
	l.ring.Store(rb)
}

// SessionID identifies this process run in every event.
func (l *Logger) SessionID() string {
	return l.session
}

// Dropped reports how many events never reached the sink.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close drains queued events and stops the writer. Idempotent.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	var err error
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.queue)
		<-l.stopped

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "booksearch: %d events dropped during session %s\n", d, l.session)
		}
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}
