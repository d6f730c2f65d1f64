package ui

import "github.com/charmbracelet/bubbles/key"

// searchKeys are active on the search route.
type searchKeys struct {
	NextPage key.Binding
	PrevPage key.Binding
	PageSize key.Binding
	ShowAll  key.Binding
	Clear    key.Binding
	Trending key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Debug    key.Binding
	Quit     key.Binding
}

func defaultSearchKeys() searchKeys {
	return searchKeys{
		NextPage: key.NewBinding(key.WithKeys("pgdown", "ctrl+n"), key.WithHelp("pgdn", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("pgup", "ctrl+p"), key.WithHelp("pgup", "prev page")),
		PageSize: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "page size")),
		ShowAll:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show all")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Trending: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "trending")),
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Debug:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "debug")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.PageSize, k.ShowAll, k.Clear, k.Trending, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.PageSize, k.ShowAll},
		{k.Clear, k.Trending, k.Open, k.Debug, k.Quit},
	}
}

// subjectKeys are active on the subject route.
type subjectKeys struct {
	Home  key.Binding
	Debug key.Binding
	Quit  key.Binding
}

func defaultSubjectKeys() subjectKeys {
	return subjectKeys{
		Home:  key.NewBinding(key.WithKeys("esc", "h", "backspace"), key.WithHelp("esc/h", "back")),
		Debug: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "debug")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k subjectKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Debug, k.Quit}
}

func (k subjectKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
