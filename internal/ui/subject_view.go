package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// subjectChrome is the header, blank line and help bar on the subject route.
const subjectChrome = 4

func (a App) subjectView() string {
	st := a.subject.State()
	header := Title.Render("Subject: " + st.Name)

	var body string
	switch {
	case st.Loading:
		body = EmptyState.Render(a.spinner.View() + " Loading works...")
	case len(st.Works) == 0:
		body = EmptyState.Render("No works found")
	default:
		body = strings.Join(renderBooks(st.Works, 1, max(a.height-subjectChrome, 3), a.width), "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, a.help.View(a.subjectKeys))
}

func (a App) debugView() string {
	overlay := debugOverlay(a.cfg.Obs.Ring, a.width, a.height-1)
	if overlay == "" {
		overlay = EmptyState.Render("No event ring attached")
	}
	placed := lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay)
	return placed + "\n" + debugStatusBar(a.width)
}
