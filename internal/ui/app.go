package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/logging"
	"github.com/abelbrown/booksearch/internal/otel"
	"github.com/abelbrown/booksearch/internal/search"
	"github.com/abelbrown/booksearch/internal/store"
	"github.com/abelbrown/booksearch/internal/subject"
)

// Route is the screen being shown.
type Route int

const (
	RouteSearch Route = iota
	RouteSubject
)

func (r Route) String() string {
	if r == RouteSubject {
		return "subject"
	}
	return "search"
}

type focusArea int

const (
	focusInput focusArea = iota
	focusTrending
)

// ObsConfig wires the event log into the UI. Both fields are optional.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig holds the App's collaborators. Every factory returns a tea.Cmd
// that does the I/O off the UI goroutine and reports back with a message;
// nil factories are skipped.
type AppConfig struct {
	Search        func(req search.Request) tea.Cmd
	Subject       func(req subject.Request) tea.Cmd
	RecordSearch  func(query string, numFound int) tea.Cmd
	RecordSubject func(name string, workCount int) tea.Cmd
	LoadHistory   func() tea.Cmd

	Obs ObsConfig

	PageSize       int
	MaxScrollMarks int
	Debounce       time.Duration
	Trending       []string
}

// App is the root Bubble Tea model.
// It never touches the network or the store directly; AppConfig's factories
// do, and their results arrive as messages.
type App struct {
	cfg AppConfig

	search  *search.Controller
	subject *subject.Controller

	input       textinput.Model
	spinner     spinner.Model
	help        help.Model
	searchKeys  searchKeys
	subjectKeys subjectKeys
	debounce    debouncer

	route       Route
	focus       focusArea
	trending    []string
	trendCursor int
	history     []store.HistoryEntry
	recordSeq   uint64 // search whose completion gets written to history

	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) App {
	ti := textinput.New()
	ti.Placeholder = "Search books by title, author or subject"
	ti.Prompt = "› "
	ti.PromptStyle = StatusBarKey
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusBarKey

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	trending := cfg.Trending
	if len(trending) == 0 {
		trending = catalog.DefaultTrending
	}

	return App{
		cfg:         cfg,
		search:      search.NewController(cfg.PageSize, cfg.MaxScrollMarks),
		subject:     subject.NewController(),
		input:       ti,
		spinner:     sp,
		help:        help.New(),
		searchKeys:  defaultSearchKeys(),
		subjectKeys: defaultSubjectKeys(),
		debounce:    newDebouncer(debounce),
		trending:    trending,
	}
}

// Init starts the cursor blink and spinner and loads search history.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.spinner.Tick}
	if a.cfg.LoadHistory != nil {
		cmds = append(cmds, a.cfg.LoadHistory())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.Width = max(msg.Width-10, 10)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case inputSettled:
		return a.handleSettled(msg)

	case SearchCompleted:
		return a.handleSearchCompleted(msg)

	case SubjectLoaded:
		return a.handleSubjectLoaded(msg)

	case HistoryLoaded:
		if msg.Err != nil {
			a.historyFailed("load", msg.Err)
			return a, nil
		}
		a.history = msg.Entries
		return a, nil

	case HistoryRecorded:
		if msg.Err != nil {
			a.historyFailed("record", msg.Err)
			return a, nil
		}
		if a.cfg.LoadHistory != nil {
			return a, a.cfg.LoadHistory()
		}
		return a, nil

	case Navigate:
		return a.navigate(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// cursor blink and other textinput internals
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) obs() *otel.Logger {
	return a.cfg.Obs.Logger
}

// handleKeyMsg routes keyboard input: global keys first, then the route.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes {
		a.obs().Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit
	case key.Matches(msg, a.searchKeys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil
	case a.debugVisible:
		if msg.Type == tea.KeyEsc {
			a.debugVisible = false
		}
		return a, nil
	}

	if a.route == RouteSubject {
		return a.handleSubjectKey(msg)
	}
	return a.handleSearchKey(msg)
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.searchKeys

	if a.focus == focusTrending {
		switch {
		case key.Matches(msg, k.Up):
			if a.trendCursor > 0 {
				a.trendCursor--
			}
			return a, nil
		case key.Matches(msg, k.Down):
			if a.trendCursor < len(a.trending)-1 {
				a.trendCursor++
			}
			return a, nil
		case key.Matches(msg, k.Open):
			if a.trendCursor < len(a.trending) {
				return a.navigate(Navigate{Route: RouteSubject, Subject: a.trending[a.trendCursor]})
			}
			return a, nil
		case key.Matches(msg, k.Trending), key.Matches(msg, k.Clear):
			a.focus = focusInput
			return a, a.input.Focus()
		}
	}

	switch {
	case key.Matches(msg, k.NextPage):
		if req, ok := a.search.NextPage(); ok {
			return a, a.startSearch(req)
		}
		return a, nil

	case key.Matches(msg, k.PrevPage):
		if req, ok := a.search.PreviousPage(); ok {
			return a, a.startSearch(req)
		}
		return a, nil

	case key.Matches(msg, k.PageSize):
		size, ok := a.search.NextPageSize()
		if !ok {
			return a, nil
		}
		if req, ok := a.search.ChangeLimit(size); ok {
			return a, a.startSearch(req)
		}
		return a, nil

	case key.Matches(msg, k.ShowAll):
		if req, ok := a.search.ToggleShowAll(); ok {
			return a, a.startSearch(req)
		}
		return a, nil

	case key.Matches(msg, k.Trending):
		a.focus = focusTrending
		a.input.Blur()
		return a, nil
	}

	if a.focus != focusInput {
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Clear):
		a.input.SetValue("")
		a.debounce.Cancel()
		a.search.Clear()
		a.recordSeq = 0
		a.obs().Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchClear, Comp: "search"})
		return a, nil

	case key.Matches(msg, k.Open):
		// search now instead of waiting out the debounce
		a.debounce.Cancel()
		return a.handleSettled(inputSettled{gen: a.debounce.gen, value: a.input.Value()})
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.debounce.Bump(a.input.Value()))
}

func (a App) handleSubjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.subjectKeys.Home):
		return a.navigate(Navigate{Route: RouteSearch})
	case key.Matches(msg, a.subjectKeys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

// handleSettled turns a settled input value into a first-page search.
func (a App) handleSettled(msg inputSettled) (tea.Model, tea.Cmd) {
	if !a.debounce.Current(msg) {
		return a, nil
	}
	req, ok := a.search.QueryChanged(msg.value)
	if !ok {
		a.recordSeq = 0
		return a, nil
	}
	a.recordSeq = req.Seq
	return a, a.startSearch(req)
}

func (a App) startSearch(req search.Request) tea.Cmd {
	a.obs().Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindSearchStart,
		Comp:   "search",
		Seq:    req.Seq,
		Query:  req.Query,
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if a.cfg.Search == nil {
		return nil
	}
	return a.cfg.Search(req)
}

func (a App) handleSearchCompleted(msg SearchCompleted) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !a.search.Fail(msg.Seq) {
			a.searchStale(msg)
			return a, nil
		}
		logging.Error("search failed", "query", msg.Query, "seq", msg.Seq, "err", msg.Err)
		a.obs().Emit(otel.Event{
			Level: otel.LevelError,
			Kind:  otel.KindSearchError,
			Comp:  "search",
			Seq:   msg.Seq,
			Query: msg.Query,
			Dur:   msg.Dur,
			Err:   msg.Err.Error(),
		})
		return a, nil
	}

	if !a.search.Complete(msg.Seq, msg.Result) {
		a.searchStale(msg)
		return a, nil
	}
	a.obs().Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindSearchComplete,
		Comp:   "search",
		Seq:    msg.Seq,
		Query:  msg.Query,
		Offset: msg.Offset,
		Limit:  msg.Limit,
		Count:  len(msg.Result.Books),
		Total:  msg.Result.NumFound,
		Dur:    msg.Dur,
	})

	if msg.Seq != a.recordSeq || a.cfg.RecordSearch == nil {
		return a, nil
	}
	a.recordSeq = 0
	return a, a.cfg.RecordSearch(msg.Query, msg.Result.NumFound)
}

func (a App) searchStale(msg SearchCompleted) {
	a.obs().Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchStale, Comp: "search", Seq: msg.Seq, Query: msg.Query})
}

func (a App) handleSubjectLoaded(msg SubjectLoaded) (tea.Model, tea.Cmd) {
	stale := otel.Event{Level: otel.LevelDebug, Kind: otel.KindSubjectStale, Comp: "subject", Seq: msg.Seq, Subject: msg.Name}

	if msg.Err != nil {
		if !a.subject.Fail(msg.Seq) {
			a.obs().Emit(stale)
			return a, nil
		}
		logging.Error("subject fetch failed", "subject", msg.Name, "err", msg.Err)
		a.obs().Emit(otel.Event{
			Level:   otel.LevelError,
			Kind:    otel.KindSubjectError,
			Comp:    "subject",
			Seq:     msg.Seq,
			Subject: msg.Name,
			Dur:     msg.Dur,
			Err:     msg.Err.Error(),
		})
		return a, nil
	}

	if !a.subject.Complete(msg.Seq, msg.Result.Works) {
		a.obs().Emit(stale)
		return a, nil
	}
	a.obs().Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindSubjectComplete,
		Comp:    "subject",
		Seq:     msg.Seq,
		Subject: msg.Name,
		Count:   len(msg.Result.Works),
		Total:   msg.Result.WorkCount,
		Dur:     msg.Dur,
	})

	if a.cfg.RecordSubject == nil {
		return a, nil
	}
	return a, a.cfg.RecordSubject(msg.Name, msg.Result.WorkCount)
}

func (a App) historyFailed(op string, err error) {
	logging.Warn("history "+op+" failed", "err", err)
	a.obs().Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindHistoryError, Comp: "store", Msg: op, Err: err.Error()})
}

// navigate switches routes. Opening a subject issues its fetch; going home
// drops whatever the subject view was waiting for.
func (a App) navigate(msg Navigate) (tea.Model, tea.Cmd) {
	switch msg.Route {
	case RouteSubject:
		req, ok := a.subject.Open(msg.Subject)
		if !ok {
			return a, nil
		}
		a.route = RouteSubject
		a.input.Blur()
		a.obs().Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindNavigate, Comp: "ui", Subject: req.Name, Msg: "subject"})
		a.obs().Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSubjectStart, Comp: "subject", Seq: req.Seq, Subject: req.Name})
		if a.cfg.Subject == nil {
			return a, nil
		}
		return a, a.cfg.Subject(req)

	default:
		a.subject.Close()
		a.route = RouteSearch
		a.focus = focusInput
		a.obs().Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindNavigate, Comp: "ui", Msg: "search"})
		return a, a.input.Focus()
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible {
		return a.debugView()
	}
	if a.route == RouteSubject {
		return a.subjectView()
	}
	return a.searchView()
}

// Route returns the active route.
func (a App) Route() Route {
	return a.route
}

// SearchState returns the search controller's state.
func (a App) SearchState() search.State {
	return a.search.State()
}

// SubjectState returns the subject controller's state.
func (a App) SubjectState() subject.State {
	return a.subject.State()
}
