package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/markdown"
	"ainews/internal/news"
)

type viewMode int

const (
	tableView viewMode = iota
	dateView
	detailView
)

// Navigation messages
type goToDetailMsg struct {
	item *news.Article
}
type goToDateMsg struct{}
type goToTableMsg struct{}

// Store is the part of the article store the review UI reads and writes.
type Store interface {
	SelectByDate(ctx context.Context, date news.Date, label news.Label) ([]news.Article, error)
	SetSelected(ctx context.Context, url string, selected bool) error
}

// session carries what every page needs to talk to the store.
type session struct {
	ctx   context.Context
	store Store
	// exportDir is where the selection is written.
	exportDir string
	now       func() time.Time
}

type loadedMsg struct {
	date  news.Date
	items []news.Article
	err   error
}

type selectionMsg struct {
	url      string
	selected bool
	err      error
}

type exportedMsg struct {
	path  string
	count int
	err   error
}

func (s *session) load(date news.Date) tea.Cmd {
	return func() tea.Msg {
		items, err := s.store.SelectByDate(s.ctx, date, news.Relevant)
		return loadedMsg{date: date, items: items, err: err}
	}
}

func (s *session) setSelected(url string, selected bool) tea.Cmd {
	return func() tea.Msg {
		err := s.store.SetSelected(s.ctx, url, selected)
		return selectionMsg{url: url, selected: selected, err: err}
	}
}

func (s *session) export(date news.Date, items []news.Article) tea.Cmd {
	var selected []news.Article
	for _, a := range items {
		if a.Selected {
			selected = append(selected, a)
		}
	}
	return func() tea.Msg {
		if len(selected) == 0 {
			return exportedMsg{err: fmt.Errorf("%w for %s", markdown.ErrNothingToExport, date)}
		}
		path := fmt.Sprintf("ainews-%s.md", date)
		if s.exportDir != "" {
			path = s.exportDir + "/" + path
		}
		err := markdown.WriteFile(path, markdown.Report{Date: date, Generated: s.now(), Articles: selected})
		return exportedMsg{path: path, count: len(selected), err: err}
	}
}

type rootPage struct {
	viewMode   viewMode
	session    *session
	detailPage detailPage
	tablePage  tablePage
	datePage   datePage
	size       *tea.WindowSizeMsg
	err        error
}

func newRootPage(s *session, date news.Date, items []news.Article) rootPage {
	return rootPage{
		session:   s,
		tablePage: TablePage(s, date, items, 0, 10, 0),
		datePage:  DatePage(s, date),
	}
}

// Run opens the review UI on the AI-related articles of date. An unknown
// date means yesterday.
func Run(ctx context.Context, date news.Date, loadConfig config.ConfigLoad) error {
	appCfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !date.Known() {
		date = news.Today().AddDays(-1)
	}

	store, err := ainewsdb.OpenStore(ctx, appCfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed opening the ainews database: %w", err)
	}
	defer store.Close()

	rows, err := store.SelectByDate(ctx, date, news.Relevant)
	if err != nil {
		return fmt.Errorf("query failed while reading from the ainews database: %w", err)
	}

	s := &session{ctx: ctx, store: store, now: time.Now}
	p := tea.NewProgram(newRootPage(s, date, rows), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

func (m rootPage) Init() tea.Cmd {
	return nil
}

func (m rootPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.viewMode {
	case tableView:
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case detailView:
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case dateView:
		m.datePage, cmd = update[datePage](m.datePage, msg)
	}

	switch msg := msg.(type) {
	case goToDateMsg:
		m.viewMode = dateView
		m.datePage, cmd = update[datePage](m.datePage, msg)
	case goToTableMsg:
		m.viewMode = tableView
	case goToDetailMsg:
		m.viewMode = detailView
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case loadedMsg:
		if msg.err != nil {
			m.datePage.err = msg.err
			return m, nil
		}
		m.tablePage = TablePage(m.session, msg.date, msg.items, 0, 10, 0)
		if m.size != nil {
			m.tablePage, cmd = update[tablePage](m.tablePage, *m.size)
		}
		m.viewMode = tableView
	case tea.WindowSizeMsg:
		var cmds []tea.Cmd

		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
		cmds = append(cmds, cmd)

		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
		cmds = append(cmds, cmd)

		m.datePage, cmd = update[datePage](m.datePage, msg)
		cmds = append(cmds, cmd)

		m.size = &msg

		return m, tea.Batch(cmds...)
	}

	return m, cmd
}

func (m rootPage) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}

	switch m.viewMode {
	case detailView:
		return m.detailPage.View()
	case dateView:
		return m.datePage.View()
	case tableView:
		return m.tablePage.View()
	default:
		return "Unknown View"
	}
}

func update[T any](model tea.Model, msg tea.Msg) (T, tea.Cmd) {
	newModel, cmd := model.Update(msg)
	return newModel.(T), cmd
}
