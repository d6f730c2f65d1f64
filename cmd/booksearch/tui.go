package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/booksearch/internal/catalog"
	"github.com/abelbrown/booksearch/internal/logging"
	"github.com/abelbrown/booksearch/internal/otel"
	"github.com/abelbrown/booksearch/internal/search"
	"github.com/abelbrown/booksearch/internal/store"
	"github.com/abelbrown/booksearch/internal/subject"
	"github.com/abelbrown/booksearch/internal/ui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := logging.Init(cfg.DataPath("logs"), cfg.Log.Level); err != nil {
		return err
	}
	defer logging.Close()

	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	obsLog, err := otel.OpenFile(cfg.DataPath("events.jsonl"))
	if err != nil {
		logging.Warn("event log unavailable", "err", err)
		obsLog = otel.NewNullLogger()
	}
	obsLog.SetRingBuffer(ring)
	defer obsLog.Close()
	obsLog.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStartup,
		Comp:  "main",
		Extra: map[string]any{"version": version, "base_url": cfg.Catalog.BaseURL},
	})

	// History is optional; the search screen works without it.
	st, err := openHistory()
	if err != nil {
		logging.Warn("history disabled", "err", err)
		obsLog.Error(otel.KindHistoryError, "main", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	client := newCatalogClient()
	appCfg := ui.AppConfig{
		Search:         searchFactory(ctx, client),
		Subject:        subjectFactory(ctx, client, cfg.Subjects.WorkLimit),
		Obs:            ui.ObsConfig{Logger: obsLog, Ring: ring},
		PageSize:       cfg.Search.PageSize,
		MaxScrollMarks: cfg.Search.MaxScrollMarks,
		Debounce:       cfg.Debounce(),
		Trending:       cfg.Subjects.Trending,
	}
	if st != nil {
		appCfg.RecordSearch = recordSearchFactory(st)
		appCfg.RecordSubject = recordSubjectFactory(st)
		appCfg.LoadHistory = loadHistoryFactory(st, cfg.History.Limit)
	}

	p := tea.NewProgram(ui.NewApp(appCfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	obsLog.Info(otel.KindShutdown, "main", "exit")
	if runErr != nil {
		logging.Error("tui exited with error", "err", runErr)
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}

func searchFactory(ctx context.Context, client *catalog.Client) func(search.Request) tea.Cmd {
	return func(req search.Request) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			res, err := client.Search(ctx, req.Query, req.Offset, req.Limit)
			return ui.SearchCompleted{
				Seq:    req.Seq,
				Query:  req.Query,
				Offset: req.Offset,
				Limit:  req.Limit,
				Result: res,
				Dur:    time.Since(start),
				Err:    err,
			}
		}
	}
}

func subjectFactory(ctx context.Context, client *catalog.Client, limit int) func(subject.Request) tea.Cmd {
	return func(req subject.Request) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			res, err := client.Subject(ctx, req.Name, limit)
			return ui.SubjectLoaded{
				Seq:    req.Seq,
				Name:   req.Name,
				Result: res,
				Dur:    time.Since(start),
				Err:    err,
			}
		}
	}
}

func recordSearchFactory(st *store.Store) func(string, int) tea.Cmd {
	return func(query string, numFound int) tea.Cmd {
		return func() tea.Msg {
			return ui.HistoryRecorded{Err: st.RecordSearch(query, numFound, time.Now())}
		}
	}
}

func recordSubjectFactory(st *store.Store) func(string, int) tea.Cmd {
	return func(name string, workCount int) tea.Cmd {
		return func() tea.Msg {
			return ui.HistoryRecorded{Err: st.RecordSubjectView(name, workCount, time.Now())}
		}
	}
}

func loadHistoryFactory(st *store.Store, limit int) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			entries, err := st.RecentSearches(limit)
			return ui.HistoryLoaded{Entries: entries, Err: err}
		}
	}
}
