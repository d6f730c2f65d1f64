package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/otel"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the JSONL event log",
	Long: `Print recent events from the event log the TUI writes to
<data_dir>/events.jsonl.

  booksearch events --kind search --level warn
  booksearch events --seq 12
  booksearch events --stats`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().Int("tail", 50, "number of matching events to show")
	eventsCmd.Flags().BoolP("follow", "f", false, "keep printing new events")
	eventsCmd.Flags().String("kind", "", "event kind prefix, e.g. search or subject.error")
	eventsCmd.Flags().String("level", "", "minimum level: debug, info, warn, error")
	eventsCmd.Flags().String("comp", "", "component name")
	eventsCmd.Flags().Uint64("seq", 0, "request sequence number")
	eventsCmd.Flags().Bool("stats", false, "summarise events per kind")
	eventsCmd.Flags().Bool("json", false, "print raw JSON lines")
	rootCmd.AddCommand(eventsCmd)
}

// eventFilter selects events by kind prefix, minimum level, component and seq.
type eventFilter struct {
	kind     string
	minLevel int
	comp     string
	seq      uint64
}

func levelRank(l otel.Level) int {
	switch l {
	case otel.LevelInfo:
		return 1
	case otel.LevelWarn:
		return 2
	case otel.LevelError:
		return 3
	default:
		return 0
	}
}

func (f eventFilter) match(ev otel.Event) bool {
	if f.kind != "" && !strings.HasPrefix(string(ev.Kind), f.kind) {
		return false
	}
	if levelRank(ev.Level) < f.minLevel {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	return f.seq == 0 || ev.Seq == f.seq
}

type eventLine struct {
	ev  otel.Event
	raw string
}

func parseEventLine(raw []byte) (otel.Event, bool) {
	var ev otel.Event
	if len(raw) == 0 || json.Unmarshal(raw, &ev) != nil {
		return ev, false
	}
	return ev, true
}

// tailEvents returns the last n events in r that match f. Malformed lines are
// skipped.
func tailEvents(r io.Reader, n int, f eventFilter) ([]eventLine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []eventLine
	for sc.Scan() {
		ev, ok := parseEventLine(sc.Bytes())
		if !ok || !f.match(ev) {
			continue
		}
		out = append(out, eventLine{ev: ev, raw: sc.Text()})
		if n > 0 && len(out) > n {
			out = out[1:]
		}
	}
	return out, sc.Err()
}

func formatEvent(ev otel.Event) string {
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-16s", ev.Time.Local().Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}
	if ev.Seq > 0 {
		parts = append(parts, fmt.Sprintf("#%d", ev.Seq))
	}
	if ev.Msg != "" {
		parts = append(parts, ev.Msg)
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Subject != "" {
		parts = append(parts, fmt.Sprintf("subject=%q", ev.Subject))
	}
	if ev.Limit > 0 {
		parts = append(parts, fmt.Sprintf("offset=%d limit=%d", ev.Offset, ev.Limit))
	}
	if ev.Count > 0 || ev.Total > 0 {
		parts = append(parts, fmt.Sprintf("n=%d/%d", ev.Count, ev.Total))
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.1fms)", ev.DurMs))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

type kindStats struct {
	count   int
	totalMs float64
	timed   int
}

func eventStats(lines []eventLine) string {
	byKind := map[otel.EventKind]*kindStats{}
	for _, l := range lines {
		s := byKind[l.ev.Kind]
		if s == nil {
			s = &kindStats{}
			byKind[l.ev.Kind] = s
		}
		s.count++
		if l.ev.DurMs > 0 {
			s.totalMs += l.ev.DurMs
			s.timed++
		}
	}

	kinds := make([]otel.EventKind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	t := newTable("Kind", "Count", "Avg ms")
	for _, k := range kinds {
		s := byKind[k]
		avg := "-"
		if s.timed > 0 {
			avg = fmt.Sprintf("%.1f", s.totalMs/float64(s.timed))
		}
		t.Row(string(k), strconv.Itoa(s.count), avg)
	}
	return t.String()
}

func runEvents(cmd *cobra.Command, args []string) error {
	tail, _ := cmd.Flags().GetInt("tail")
	follow, _ := cmd.Flags().GetBool("follow")
	kind, _ := cmd.Flags().GetString("kind")
	level, _ := cmd.Flags().GetString("level")
	comp, _ := cmd.Flags().GetString("comp")
	seq, _ := cmd.Flags().GetUint64("seq")
	stats, _ := cmd.Flags().GetBool("stats")
	rawJSON, _ := cmd.Flags().GetBool("json")

	filter := eventFilter{kind: kind, minLevel: levelRank(otel.Level(level)), comp: comp, seq: seq}

	path := cfg.DataPath("events.jsonl")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no event log at %s; run the TUI first", path)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	if stats {
		lines, err := tailEvents(f, 0, filter)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, eventStats(lines))
		return nil
	}

	emit := func(l eventLine) {
		if rawJSON {
			fmt.Fprintln(out, l.raw)
			return
		}
		fmt.Fprintln(out, formatEvent(l.ev))
	}

	lines, err := tailEvents(f, tail, filter)
	if err != nil {
		return err
	}
	for _, l := range lines {
		emit(l)
	}
	if !follow {
		return nil
	}

	ctx := cmd.Context()
	reader := bufio.NewReader(f)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var partial []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		partial = append(partial, chunk...)
		if err == nil {
			line := strings.TrimRight(string(partial), "\r\n")
			partial = partial[:0]
			if ev, ok := parseEventLine([]byte(line)); ok && filter.match(ev) {
				emit(eventLine{ev: ev, raw: line})
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
