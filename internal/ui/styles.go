package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
)

// Title style for the route header.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// InputBar wraps the query input.
var InputBar = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// ResultIndex style for the row number column.
var ResultIndex = lipgloss.NewStyle().
	Foreground(colorMuted).
	Width(5).
	Align(lipgloss.Right)

// ResultTitle style for book titles.
var ResultTitle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// ResultMeta style for author and year.
var ResultMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// EmptyState style for "No results found" and similar.
var EmptyState = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Italic(true).
	Padding(1, 2)

// Footer style for the pagination line.
var Footer = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// FooterBadge highlights a mode flag such as show-all.
var FooterBadge = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// Panel style for the trending and history side panels.
var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1).
	MarginRight(1)

// FocusedPanel is Panel when it has keyboard focus.
var FocusedPanel = Panel.
	BorderForeground(colorHighlight)

// PanelHeader style for panel titles.
var PanelHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// SelectedItem style for the highlighted panel row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// NormalItem style for other panel rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// MutedItem style for secondary panel text.
var MutedItem = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
