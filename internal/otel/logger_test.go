package otel

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindSearchStart, Level: LevelInfo, Comp: "search", Seq: 3, Query: "dune", Limit: 10})
	l.Close()

	lines := decodeLines(t, buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["kind"] != "search.start" || got["level"] != "info" || got["comp"] != "search" {
		t.Errorf("unexpected header fields: %v", got)
	}
	if got["seq"] != float64(3) || got["query"] != "dune" || got["limit"] != float64(10) {
		t.Errorf("unexpected search fields: %v", got)
	}
}

func TestEmitFillsTimeAndSession(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.Emit(Event{Kind: KindStartup, SessionID: "caller-supplied"})
	l.Close()
	after := time.Now()

	var ev Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Time.Before(before) || ev.Time.After(after) {
		t.Errorf("time %v not in [%v, %v]", ev.Time, before, after)
	}
	if ev.SessionID != l.SessionID() {
		t.Errorf("session_id = %q, want %q", ev.SessionID, l.SessionID())
	}
	if len(ev.SessionID) != 16 {
		t.Errorf("session_id should be 16 hex chars, got %q", ev.SessionID)
	}
}

func TestDurationInMilliseconds(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindSearchComplete, Dur: 250 * time.Millisecond})
	l.Close()

	lines := decodeLines(t, buf.String())
	if got := lines[0]["dur_ms"]; got != float64(250) {
		t.Errorf("dur_ms = %v, want 250", got)
	}
}

func TestOmitEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindStartup})
	l.Close()

	line := buf.String()
	for _, field := range []string{"dur_ms", "seq", "query", "subject", "offset", "limit", "count", "total", "err", "msg", "extra"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("field %q should be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Emit(Event{Kind: KindKeyPress, Comp: "ui"})
		}()
	}
	wg.Wait()
	l.Close()

	if n := len(decodeLines(t, buf.String())); n != 100 {
		t.Errorf("expected 100 lines, got %d", n)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Info(KindStartup, "main", "start")
	l.Info(KindShutdown, "main", "stop")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if n := len(decodeLines(t, buf.String())); n != 2 {
		t.Errorf("expected 2 lines, got %d", n)
	}
}

func TestEmitAfterCloseIsDropped(t *testing.T) {
	l := NewNullLogger()
	l.Close()
	l.Emit(Event{Kind: KindStartup})
	if l.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", l.Dropped())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Emit(Event{Kind: KindStartup})
	l.Error(KindError, "main", errors.New("boom"))
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestDropWhenQueueFull(t *testing.T) {
	bw := &blockingWriter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	l := NewLogger(bw)

	// the first event parks the writer goroutine inside Write
	l.Emit(Event{Kind: KindSearchStart})
	<-bw.started

	for i := 0; i < queueSize+10; i++ {
		l.Emit(Event{Kind: KindSearchStart})
	}
	if l.Dropped() == 0 {
		t.Error("expected drops with a full queue")
	}

	close(bw.release)
	l.Close()
}

type blockingWriter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.started)
		<-w.release
	})
	return len(p), nil
}

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Info(KindStartup, "main", "starting")
	l.Warn(KindSearchStale, "search", "dropped seq 4")
	l.Error(KindSearchError, "search", errors.New("catalog: status 503"))
	l.Error(KindError, "main", nil)
	l.Close()

	lines := decodeLines(t, buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	tests := []struct {
		level, kind, comp string
	}{
		{"info", "sys.startup", "main"},
		{"warn", "search.stale", "search"},
		{"error", "search.error", "search"},
		{"error", "sys.error", "main"},
	}
	for i, tt := range tests {
		got := lines[i]
		if got["level"] != tt.level || got["kind"] != tt.kind || got["comp"] != tt.comp {
			t.Errorf("line %d = %v, want level=%s kind=%s comp=%s", i, got, tt.level, tt.kind, tt.comp)
		}
	}
	if lines[2]["err"] != "catalog: status 503" {
		t.Errorf("err = %v", lines[2]["err"])
	}
	if _, ok := lines[3]["err"]; ok {
		t.Error("nil error should leave err empty")
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")

	for i := 0; i < 2; i++ {
		l, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		l.Info(KindStartup, "main", "run")
		if err := l.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := decodeLines(t, string(data))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines across runs, got %d", len(lines))
	}
	if lines[0]["session_id"] == lines[1]["session_id"] {
		t.Error("each run should get its own session id")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("event log permissions = %o, want 600", perm)
	}
}
