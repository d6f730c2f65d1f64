package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/booksearch/internal/catalog"
)

// searchChrome is the lines used on the search route by everything except
// the result rows: header, bordered input (3), footer, panels and help.
const searchChrome = 14

func (a App) searchView() string {
	header := Title.Render("booksearch") + "  " + MutedItem.Render("Open Library catalog")
	input := InputBar.Width(max(a.width-4, 20)).Render(a.input.View())

	sections := []string{header, input, a.renderResults()}
	if footer := a.renderFooter(); footer != "" {
		sections = append(sections, footer)
	}
	sections = append(sections,
		lipgloss.JoinHorizontal(lipgloss.Top, a.renderTrending(), a.renderHistory()),
		a.help.View(a.searchKeys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderResults() string {
	st := a.search.State()

	switch {
	case st.Loading:
		return EmptyState.Render(a.spinner.View() + " Searching for " + strconv.Quote(st.Query) + "...")
	case st.Query == "":
		return EmptyState.Render("Start typing to search the catalog")
	case st.NoResults:
		return EmptyState.Render("No results found")
	}

	start, _ := a.search.VisibleRange()
	rows := max(a.height-searchChrome, 3)
	lines := renderBooks(st.Results, start, rows, a.width)
	return strings.Join(lines, "\n")
}

// renderBooks renders up to rows numbered lines, first numbered start.
func renderBooks(books []catalog.Book, start, rows, width int) []string {
	titleWidth := max(width/2, 20)
	var lines []string
	for i, b := range books {
		if i == rows {
			lines = append(lines, MutedItem.Render(fmt.Sprintf("      … %d more", len(books)-rows)))
			break
		}
		lines = append(lines, ResultIndex.Render(strconv.Itoa(start+i)+".")+" "+
			ResultTitle.Render(truncateRunes(b.Title, titleWidth))+"  "+
			ResultMeta.Render(b.Author+" · "+b.PublishDate))
	}
	return lines
}

// renderFooter is the pagination line: visible range, total entries, page
// position and page size.
func (a App) renderFooter() string {
	st := a.search.State()
	if st.Query == "" || st.NoResults || st.Loading {
		return ""
	}

	start, end := a.search.VisibleRange()
	line := fmt.Sprintf("Showing %d-%d of %d entries", start, end, a.search.TotalEntries())
	if st.ShowAll {
		line += "  " + FooterBadge.Render("ALL")
	} else {
		line += fmt.Sprintf("  ·  page %d/%d  ·  %d per page", st.CurrentPage, st.TotalPages, st.PageSize)
	}
	line += fmt.Sprintf("  ·  %d matches", st.TotalMatches)
	return Footer.Render(line)
}

func (a App) renderTrending() string {
	lines := []string{PanelHeader.Render("Trending subjects")}
	for i, name := range a.trending {
		if a.focus == focusTrending && i == a.trendCursor {
			lines = append(lines, SelectedItem.Render("› "+name))
			continue
		}
		lines = append(lines, NormalItem.Render("  "+name))
	}

	style := Panel
	if a.focus == focusTrending {
		style = FocusedPanel
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (a App) renderHistory() string {
	if len(a.history) == 0 {
		return ""
	}
	lines := []string{PanelHeader.Render("Recent searches")}
	for _, h := range a.history {
		lines = append(lines, NormalItem.Render(truncateRunes(h.Query, 28))+" "+
			MutedItem.Render(fmt.Sprintf("%d hits ×%d", h.NumFound, h.Searches)))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
