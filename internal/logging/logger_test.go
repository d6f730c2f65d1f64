package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		Close()
		Logger = nil
	})
}

func TestHelpersBeforeInit(t *testing.T) {
	reset(t)
	Logger = nil
	// must not panic
	Info("x")
	Debug("x")
	Warn("x")
	Error("x")
	if WithPrefix("ui") == nil {
		t.Error("WithPrefix should never return nil")
	}
}

func TestInitWriterLevel(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	if err := InitWriter(&buf, "warn"); err != nil {
		t.Fatalf("InitWriter: %v", err)
	}

	Info("quiet")
	Warn("loud", "query", "dune")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "query=dune") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestInitWriterBadLevel(t *testing.T) {
	reset(t)
	if err := InitWriter(&bytes.Buffer{}, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitFile(t *testing.T) {
	reset(t)
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(dir, ""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	WithPrefix("search").Error("request failed", "err", "timeout")
	Close()

	matches, err := filepath.Glob(filepath.Join(dir, "booksearch-*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"booksearch started", "request failed", "booksearch shutting down"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}
