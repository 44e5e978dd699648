package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews/internal/news"
)

type fakeStore struct {
	byDate   map[news.Date][]news.Article
	selected map[string]bool
	fail     error
}

func (f *fakeStore) SelectByDate(_ context.Context, date news.Date, label news.Label) ([]news.Article, error) {
	if label != news.Relevant {
		return nil, errors.New("unexpected label")
	}
	return f.byDate[date], nil
}

func (f *fakeStore) SetSelected(_ context.Context, url string, selected bool) error {
	if f.fail != nil {
		return f.fail
	}
	f.selected[url] = selected
	return nil
}

var (
	day      = news.NewDate(2024, time.January, 10)
	dayAfter = news.NewDate(2024, time.January, 11)
)

func newTestRoot(t *testing.T) (rootPage, *fakeStore) {
	t.Helper()
	store := &fakeStore{
		byDate: map[news.Date][]news.Article{
			day: {
				{URL: "https://www.bbc.com/a", Title: "AI tutors in schools", Summary: "Pilots expand", PublishedOn: day, Label: news.Relevant},
				{URL: "https://www.bbc.com/b", Title: "Chip export rules", PublishedOn: day, Label: news.Relevant},
			},
			dayAfter: {
				{URL: "https://www.bbc.com/c", Title: "Robot surgeons", PublishedOn: dayAfter, Label: news.Relevant},
			},
		},
		selected: map[string]bool{},
	}
	s := &session{
		ctx:       context.Background(),
		store:     store,
		exportDir: t.TempDir(),
		now:       func() time.Time { return time.Date(2024, time.January, 11, 9, 0, 0, 0, time.UTC) },
	}
	m := newRootPage(s, day, store.byDate[day])
	m = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return m, store
}

// send delivers msg and then every message produced by the returned
// commands. Batches and quit are dropped.
func send(t *testing.T, m rootPage, msg tea.Msg) rootPage {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		model, cmd := m.Update(next)
		m = model.(rootPage)
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case tea.BatchMsg, tea.QuitMsg, nil:
		default:
			queue = append(queue, out)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTableShowsDay(t *testing.T) {
	m, _ := newTestRoot(t)

	view := m.View()
	assert.Contains(t, view, "AI-related articles for 2024-01-10 (0 selected)")
	assert.Contains(t, view, "AI tutors in schools")
	assert.Contains(t, view, "[ ]")
}

func TestToggleSelection(t *testing.T) {
	m, store := newTestRoot(t)

	m = send(t, m, key("j"))
	m = send(t, m, key(" "))

	assert.Equal(t, map[string]bool{"https://www.bbc.com/b": true}, store.selected)
	assert.True(t, m.tablePage.items[1].Selected)
	assert.Contains(t, m.View(), "(1 selected)")

	m = send(t, m, key(" "))
	assert.False(t, store.selected["https://www.bbc.com/b"])
	assert.False(t, m.tablePage.items[1].Selected)
}

func TestToggleSelectionFailure(t *testing.T) {
	m, store := newTestRoot(t)
	store.fail = errors.New("database is locked")

	m = send(t, m, key(" "))

	assert.False(t, m.tablePage.items[0].Selected)
	assert.Contains(t, m.View(), "database is locked")
}

func TestDetailAndBack(t *testing.T) {
	m, _ := newTestRoot(t)

	m = send(t, m, key("enter"))
	require.Equal(t, detailView, m.viewMode)
	view := m.View()
	assert.Contains(t, view, "https://www.bbc.com/a")
	assert.Contains(t, view, "AI tutors in schools")

	m = send(t, m, key("esc"))
	assert.Equal(t, tableView, m.viewMode)
}

func TestChangeDate(t *testing.T) {
	m, _ := newTestRoot(t)

	m = send(t, m, key("2"))
	require.Equal(t, dateView, m.viewMode)
	assert.True(t, m.datePage.dateInput.Focused())

	m.datePage.dateInput.SetValue("2024-01-11")
	m = send(t, m, key("enter"))

	require.Equal(t, tableView, m.viewMode)
	assert.Equal(t, dayAfter, m.tablePage.date)
	require.Len(t, m.tablePage.items, 1)
	assert.Contains(t, m.View(), "Robot surgeons")
}

func TestChangeDateRejectsBadInput(t *testing.T) {
	m, _ := newTestRoot(t)
	m = send(t, m, key("2"))

	m.datePage.dateInput.SetValue("11/01/24")
	m = send(t, m, key("enter"))

	assert.Equal(t, dateView, m.viewMode)
	assert.Error(t, m.datePage.err)
	assert.Contains(t, m.View(), "expected YYYY-MM-DD")
}

func TestExportSelection(t *testing.T) {
	m, _ := newTestRoot(t)

	m = send(t, m, key("e"))
	assert.ErrorContains(t, m.tablePage.err, "nothing to export")

	m = send(t, m, key(" "))
	m = send(t, m, key("e"))
	require.NoError(t, m.tablePage.err)

	path := filepath.Join(m.session.exportDir, "ainews-2024-01-10.md")
	assert.Contains(t, m.View(), "Exported 1 articles to "+path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "AI tutors in schools")
	assert.NotContains(t, string(b), "Chip export rules")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Robot s...", truncateString("Robot surgeons", 10))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
	assert.Equal(t, "naï...", truncateString("naïve bayes", 6))
}
