package tui

import (
	"fmt"
	"strings"

	"ainews/internal/news"
)

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

// summaryPreview flattens a summary onto one line.
func summaryPreview(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return "No summary"
	}
	return strings.Join(strings.Fields(summary), " ")
}

func articleMarkdown(a *news.Article) string {
	var b strings.Builder
	if a.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", a.Title)
	}
	if a.HasSummary() {
		b.WriteString(a.Summary)
	} else {
		b.WriteString("_No summary available._")
	}
	b.WriteString("\n\n")
	if !a.ClassifiedAt.IsZero() {
		fmt.Fprintf(&b, "Classified %s as **%s**.\n", a.ClassifiedAt.UTC().Format("2006-01-02 15:04"), a.Label)
	}
	return b.String()
}
