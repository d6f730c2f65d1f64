package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/booksearch/internal/config"
	"github.com/abelbrown/booksearch/internal/otel"
)

// writeEvents logs evs through an otel.Logger into the data dir of the
// config at cfgPath.
func writeEvents(t *testing.T, cfgPath string, evs ...otel.Event) {
	t.Helper()
	c, err := config.Load(cfgPath)
	require.NoError(t, err)

	l, err := otel.OpenFile(c.DataPath("events.jsonl"))
	require.NoError(t, err)
	for _, ev := range evs {
		l.Emit(ev)
	}
	require.NoError(t, l.Close())
}

func sampleEvents() []otel.Event {
	return []otel.Event{
		{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main"},
		{Level: otel.LevelInfo, Kind: otel.KindSearchStart, Comp: "search", Seq: 1, Query: "dune", Limit: 10},
		{Level: otel.LevelInfo, Kind: otel.KindSearchComplete, Comp: "search", Seq: 1, Query: "dune", Count: 10, Total: 25, Dur: 40 * time.Millisecond},
		{Level: otel.LevelWarn, Kind: otel.KindSearchStale, Comp: "search", Seq: 2},
		{Level: otel.LevelError, Kind: otel.KindSubjectError, Comp: "subject", Seq: 1, Subject: "css", Err: "status 503"},
	}
}

func TestEventsMissingLog(t *testing.T) {
	_, err := execute(t, writeConfig(t, catalogServer(t)), "events")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no event log")
}

func TestEventsTail(t *testing.T) {
	cfgPath := writeConfig(t, catalogServer(t))
	writeEvents(t, cfgPath, sampleEvents()...)

	out, err := execute(t, cfgPath, "events", "--tail", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "search.stale")
	assert.Contains(t, lines[1], "subject.error")
	assert.Contains(t, lines[1], `subject="css"`)
	assert.Contains(t, lines[1], "err=status 503")
}

func TestEventsFilters(t *testing.T) {
	cfgPath := writeConfig(t, catalogServer(t))
	writeEvents(t, cfgPath, sampleEvents()...)

	out, err := execute(t, cfgPath, "events", "--kind", "search")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.NotContains(t, out, "sys.startup")

	out, err = execute(t, cfgPath, "events", "--level", "warn")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))

	out, err = execute(t, cfgPath, "events", "--comp", "search", "--seq", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "n=10/25")
	assert.Contains(t, out, "(40.0ms)")
}

func TestEventsRawJSON(t *testing.T) {
	cfgPath := writeConfig(t, catalogServer(t))
	writeEvents(t, cfgPath, sampleEvents()...)

	out, err := execute(t, cfgPath, "events", "--json", "--kind", "subject")
	require.NoError(t, err)
	line := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"kind":"subject.error"`)
}

func TestEventsStats(t *testing.T) {
	cfgPath := writeConfig(t, catalogServer(t))
	writeEvents(t, cfgPath, sampleEvents()...)

	out, err := execute(t, cfgPath, "events", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "search.complete")
	assert.Contains(t, out, "40.0")
	assert.Contains(t, out, "sys.startup")
}

func TestTailEventsSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"kind":"search.start","level":"info"}`+"\n"+
			"not json\n\n"+
			`{"kind":"search.complete","level":"info"}`+"\n"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines, err := tailEvents(f, 10, eventFilter{})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, otel.KindSearchComplete, lines[1].ev.Kind)
}
