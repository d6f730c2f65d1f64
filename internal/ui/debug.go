package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/booksearch/internal/otel"
)

// debugPanelChrome is the lines taken by DebugPanel's border (2) and
// vertical padding (2).
const debugPanelChrome = 4

// debugOverlay renders request counters and the newest events from ring.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	lines := []string{
		DebugHeaderStyle.Render("Requests"),
		fmt.Sprintf("  Searches:   %d started, %d complete, %d errors, %d stale",
			stats[otel.KindSearchStart], stats[otel.KindSearchComplete],
			stats[otel.KindSearchError], stats[otel.KindSearchStale]),
		fmt.Sprintf("  Subjects:   %d started, %d complete, %d errors, %d stale",
			stats[otel.KindSubjectStart], stats[otel.KindSubjectComplete],
			stats[otel.KindSubjectError], stats[otel.KindSubjectStale]),
		fmt.Sprintf("  History:    %d errors", stats[otel.KindHistoryError]),
		fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()),
		"",
		DebugHeaderStyle.Render("Recent Events"),
	}

	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), e.Kind)
		if e.Seq > 0 {
			line += fmt.Sprintf("  #%d", e.Seq)
		}
		switch {
		case e.Query != "":
			line += "  q=" + truncateRunes(e.Query, 24)
		case e.Subject != "":
			line += "  s=" + truncateRunes(e.Subject, 24)
		}
		if e.Dur > 0 {
			line += "  " + formatAge(e.Dur)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 30)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := min(80, width-4)
	panelWidth = max(panelWidth, 20)

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats d compactly. Negative durations from clock skew render
// as "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes cuts s to at most n runes, marking the cut with "…".
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+g") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
