package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"ainews/internal/news"
)

type detailPage struct {
	width        int
	height       int
	viewport     viewport.Model
	selectedItem *news.Article
}

func (m detailPage) Init() tea.Cmd {
	return nil
}

func (m detailPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, func() tea.Msg { return goToTableMsg{} }
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.height = msg.Height - 4
		if m.selectedItem != nil {
			m.viewport = setupViewport(m.width, m.height, m.selectedItem)
		}

		return m, nil
	case goToDetailMsg:
		m.selectedItem = msg.item
		m.viewport = setupViewport(m.width, m.height, m.selectedItem)

		return m, nil
	}

	return m, nil
}

func (m detailPage) View() string {
	if m.selectedItem == nil {
		return "No item selected"
	}

	title := m.selectedItem.Title
	if title == "" {
		title = "No title"
	}

	lightBlue := lightBlue()
	darkBlue := darkBlue()

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(darkBlue)

	titleStyle := lipgloss.NewStyle().
		Foreground(darkBlue).
		Bold(true).
		Align(lipgloss.Left).
		MarginBottom(1).
		Width(max(20, m.width-8))

	urlStyle := lipgloss.NewStyle().
		Foreground(lightBlue).
		Italic(true).
		MarginBottom(1).
		Width(max(20, m.width-8))

	metadataStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		MarginBottom(1)

	scrollStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Bold(true)

	source := m.selectedItem.Source
	if source == "" {
		source = "Unknown source"
	}
	metadata := fmt.Sprintf("Source: %s • Published: %s • %s",
		source, m.selectedItem.PublishedOn, checkbox(m.selectedItem.Selected)+" selected for export")

	scrollPercent := min(max(m.viewport.ScrollPercent(), 0), 1)
	scrollRendered := scrollStyle.Render(fmt.Sprintf("Scroll: %d%%", int(scrollPercent*100)))

	helpInfo := lipgloss.NewStyle().
		MarginTop(1).
		Render(helpBar([]string{"j/k: scroll", "g/G: top/bottom", "esc/q: back"}))

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		urlStyle.Render("URL: "+m.selectedItem.URL),
		metadataStyle.Render(metadata),
		m.viewport.View(),
		scrollRendered,
		helpInfo)

	return pageLayout(title, borderStyle.Render(content))
}

func setupViewport(width, height int, selectedItem *news.Article) viewport.Model {
	contentWidth := max(width, 20)
	// Leave space for title, URL, metadata, scroll info and help
	viewportHeight := max(height-10, 5)

	vp := viewport.New(contentWidth, viewportHeight)
	vp.SetContent(renderMarkdown(articleMarkdown(selectedItem), contentWidth))

	return vp
}

// renderMarkdown uses Glamour to render markdown content with terminal styling
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return "No content available"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle("dark"),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
