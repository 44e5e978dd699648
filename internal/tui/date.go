package tui

import (
	"errors"
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ainews/internal/news"
)

// datePage picks the publication day shown in the table.
type datePage struct {
	session   *session
	current   news.Date
	width     int
	height    int
	err       error
	dateInput textinput.Model
}

func DatePage(s *session, current news.Date) datePage {
	return datePage{session: s, current: current, dateInput: initializeInput(current)}
}

func (m datePage) Init() tea.Cmd {
	return nil
}

func (m datePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if m.dateInput.Focused() {
				return m, m.loadDate()
			}
		}

		if msg.Type == tea.KeyTab {
			if !m.dateInput.Focused() {
				m.dateInput.Focus()
			}
		}
		switch msg.String() {
		case "esc":
			if m.dateInput.Focused() {
				m.dateInput.Blur()
			} else {
				return m, tea.Quit
			}
		case "1":
			if !m.dateInput.Focused() {
				return m, func() tea.Msg { return goToTableMsg{} }
			}
			fallthrough
		default:
			updated, cmd := m.dateInput.Update(msg)
			m.dateInput = updated
			return m, cmd
		}
	case goToDateMsg:
		m.err = nil
		m.dateInput.Focus()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func initializeInput(current news.Date) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = news.DateLayout
	input.CharLimit = len(news.DateLayout)
	input.Width = 20
	if current.Known() {
		input.SetValue(current.String())
	}

	return input
}

func (m *datePage) loadDate() tea.Cmd {
	value := strings.TrimSpace(m.dateInput.Value())
	if value == "" {
		m.err = errors.New("please enter a date")
		return nil
	}
	date, err := news.ParseDate(value)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.current = date
	return m.session.load(date)
}

func (m datePage) View() string {
	instructions := lipgloss.NewStyle().
		MarginTop(min(m.height/4, 10)).
		MarginBottom(2).
		Render("Enter the publication day (YYYY-MM-DD) to review")
	borderColor := lipgloss.Color("8")
	if m.dateInput.Focused() {
		borderColor = lipgloss.Color("15")
	}

	input := lipgloss.NewStyle().
		Width(24).
		AlignHorizontal(lipgloss.Left).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.dateInput.View())

	var helpInfo string
	if m.dateInput.Focused() {
		helpInfo = helpBar([]string{
			"Enter: load day",
			"Esc: unfocus date input",
		})
	} else {
		helpInfo = helpBar([]string{
			"1: go to table view",
			"Tab: focus date input",
			"Esc: quit ainews",
		})
	}

	var errLine string
	if m.err != nil {
		errLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		renderMenu(1, m.width),
		instructions,
		input,
		errLine,
		lipgloss.NewStyle().MarginTop(2).Render(helpInfo),
	)

	return pageLayout("Date", content)
}
