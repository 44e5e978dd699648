package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ainews/internal/news"
)

type tablePage struct {
	session *session
	date    news.Date
	items   []news.Article
	table   *table.Table
	status  string
	err     error

	ready        bool
	cursor       int
	currentPage  int
	totalPages   int
	tableWidth   int
	tableHeight  int
	markWidth    int
	titleWidth   int
	sourceWidth  int
	summaryWidth int
	pageSize     int
}

func TablePage(s *session, date news.Date, items []news.Article, cursor int, pageSize int, currentPage int) tablePage {
	return tablePage{
		session:     s,
		date:        date,
		items:       items,
		cursor:      cursor,
		pageSize:    pageSize,
		currentPage: currentPage,
		totalPages:  (len(items) + pageSize - 1) / pageSize,
	}
}

func (m tablePage) Init() tea.Cmd {
	return nil
}

// selected returns the index of the article under the cursor, or -1.
func (m tablePage) selected() int {
	i := m.currentPage*m.pageSize + m.cursor
	if i < 0 || i >= len(m.items) {
		return -1
	}
	return i
}

func (m tablePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "x":
			if i := m.selected(); i >= 0 {
				a := m.items[i]
				return m, m.session.setSelected(a.URL, !a.Selected)
			}
			return m, nil
		case "enter":
			if i := m.selected(); i >= 0 {
				item := m.items[i]
				return m, func() tea.Msg { return goToDetailMsg{item: &item} }
			}
			return m, nil
		case "e":
			m.status = "Exporting..."
			return m, m.session.export(m.date, m.items)
		case "2":
			return m, func() tea.Msg { return goToDateMsg{} }
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			} else if m.currentPage > 0 {
				// Move to previous page
				m.currentPage--
				m.cursor = m.pageSize - 1
			}
			m.updateTableRows()
			return m, nil
		case "j", "down":
			itemsOnCurrentPage := min(m.pageSize, len(m.items)-m.currentPage*m.pageSize)
			if m.cursor < itemsOnCurrentPage-1 {
				m.cursor++
			} else if m.currentPage < m.totalPages-1 {
				// Move to next page
				m.currentPage++
				m.cursor = 0
			}
			m.updateTableRows()
			return m, nil
		case "g":
			m.currentPage = 0
			m.cursor = 0
			m.updateTableRows()
			return m, nil
		case "G":
			if len(m.items) == 0 {
				return m, nil
			}
			m.currentPage = m.totalPages - 1
			lastPageItems := len(m.items) % m.pageSize
			if lastPageItems == 0 {
				lastPageItems = m.pageSize
			}
			m.cursor = lastPageItems - 1
			m.updateTableRows()
			return m, nil
		case "l": // Next page
			if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen // Force screen refresh to fix border rendering
			}
			return m, nil
		case "h": // Previous page
			if m.currentPage > 0 {
				m.currentPage--
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen
			}
			return m, nil
		}
	case selectionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		for i := range m.items {
			if m.items[i].URL == msg.url {
				m.items[i].Selected = msg.selected
			}
		}
		m.updateTableRows()
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			m.status = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Exported %d articles to %s", msg.count, msg.path)
		return m, nil
	case tea.WindowSizeMsg:
		m.tableWidth = msg.Width - 2
		m.tableHeight = msg.Height
		m.configureTable(msg.Width, msg.Height-4) // Leave room for borders/title
		m.ready = true

		return m, tea.ClearScreen
	}

	return m, nil
}

func (m tablePage) View() string {
	return m.renderTableView()
}

func (m tablePage) renderTableView() string {
	if !m.ready {
		return "...Loading"
	}

	menu := renderMenu(0, m.tableWidth)
	heading := lipgloss.NewStyle().Bold(true).Foreground(darkBlue()).
		Render(fmt.Sprintf("AI-related articles for %s (%d selected)", m.date, m.selectedCount()))

	if len(m.items) == 0 {
		return pageLayout("Articles", lipgloss.JoinVertical(lipgloss.Left, menu, heading,
			"No AI-related articles stored for this day",
			helpBar([]string{"2: change date", "q: quit"})))
	}

	helpInfo := helpBar([]string{
		"j/k: move",
		"l/h: page",
		"Space: select",
		"Enter: details",
		"e: export selection",
		"2: change date",
		"q: quit",
	})

	parts := []string{menu, heading, m.table.Render(), helpInfo}
	if line := m.statusLine(); line != "" {
		parts = append(parts, line)
	}
	return pageLayout("Articles", lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m tablePage) statusLine() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lightBlue()).Render(m.status)
	}
	return ""
}

func (m tablePage) selectedCount() int {
	n := 0
	for _, a := range m.items {
		if a.Selected {
			n++
		}
	}
	return n
}

func (m *tablePage) updateTableRows() {
	if len(m.items) == 0 {
		return
	}

	headers := []string{
		truncateString("Sel", m.markWidth),
		truncateString("Title", m.titleWidth),
		truncateString("Source", m.sourceWidth),
		truncateString("Summary", m.summaryWidth),
	}

	// Prepare rows - only show current page
	var rows [][]string
	startIdx := m.currentPage * m.pageSize
	endIdx := min(startIdx+m.pageSize, len(m.items))

	for i := startIdx; i < endIdx; i++ {
		item := m.items[i]
		title := item.Title
		if title == "" {
			title = "No title"
		}

		source := item.Source
		if source == "" {
			source = "Unknown source"
		}

		rows = append(rows, []string{
			checkbox(item.Selected),
			truncateString(title, m.titleWidth),
			truncateString(source, m.sourceWidth),
			truncateString(summaryPreview(item.Summary), m.summaryWidth),
		})
	}

	// Ensure cursor is within valid bounds for the current page
	itemsOnCurrentPage := len(rows)
	if itemsOnCurrentPage > 0 {
		if m.cursor >= itemsOnCurrentPage {
			m.cursor = itemsOnCurrentPage - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	}

	lightBlue := lightBlue()
	darkBlue := darkBlue()

	borderStyle := lipgloss.NewStyle().Foreground(darkBlue)

	headerStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(darkBlue).
		Align(lipgloss.Center)

	cursor := m.cursor
	m.table = table.New().
		Width(m.tableWidth).
		Border(lipgloss.ThickBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row == cursor {
				return lipgloss.NewStyle().
					Padding(0, 1).
					Background(lightBlue).
					Foreground(lipgloss.Color("0"))
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// configureTable sets up the table with dynamic column widths based on available space
func (m *tablePage) configureTable(width, height int) {
	if len(m.items) == 0 {
		return
	}

	// At least 5 rows, leave space for header, borders, and pagination info
	m.pageSize = max(5, height-6)
	m.totalPages = (len(m.items) + m.pageSize - 1) / m.pageSize

	if m.currentPage >= m.totalPages {
		m.currentPage = m.totalPages - 1
	}
	if m.currentPage < 0 {
		m.currentPage = 0
	}

	globalCursor := m.currentPage*m.pageSize + m.cursor
	if globalCursor >= len(m.items) {
		globalCursor = len(m.items) - 1
		m.currentPage = globalCursor / m.pageSize
		m.cursor = globalCursor % m.pageSize
	}

	m.markWidth = 3
	// 4 for borders, 3 chars padding per column
	borderPaddingWidth := 4 + (3 * 4)
	remainingWidth := width - m.markWidth - borderPaddingWidth

	m.titleWidth = remainingWidth * 45 / 100
	m.sourceWidth = remainingWidth * 15 / 100
	m.summaryWidth = remainingWidth * 40 / 100

	if m.titleWidth < 20 {
		m.titleWidth = 20
	}
	if m.sourceWidth < 12 {
		m.sourceWidth = 12
	}
	if m.summaryWidth < 25 {
		m.summaryWidth = 25
	}

	totalUsedWidth := m.markWidth + m.titleWidth + m.sourceWidth + m.summaryWidth + borderPaddingWidth
	if totalUsedWidth < width {
		unusedWidth := width - totalUsedWidth
		m.titleWidth += unusedWidth * 45 / 100
		m.sourceWidth += unusedWidth * 15 / 100
		m.summaryWidth += unusedWidth * 40 / 100
	}

	m.updateTableRows()
}
