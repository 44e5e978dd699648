// Package markdown renders a day's selected articles as a Markdown document.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/news"
)

// Report is the export document for one publication day.
type Report struct {
	Date      news.Date
	Generated time.Time
	Articles  []news.Article
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"[", `\[`,
	"]", `\]`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

// Render returns the Markdown form of r. Articles keep the order given.
func Render(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# AI news for %s\n\n", r.Date)
	if !r.Generated.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n\n", r.Generated.UTC().Format("2006-01-02 15:04 MST"))
	}
	if len(r.Articles) == 0 {
		b.WriteString("No articles selected.\n")
		return b.String()
	}
	for i, a := range r.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, escaper.Replace(title))

		var meta []string
		if a.Source != "" {
			meta = append(meta, a.Source)
		}
		if a.PublishedOn.Known() {
			meta = append(meta, a.PublishedOn.String())
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " | "))
		}

		if a.HasSummary() {
			b.WriteString(escaper.Replace(strings.TrimSpace(a.Summary)))
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Read the article](<%s>)\n\n", a.URL)
	}
	return b.String()
}

// WriteFile renders r into path, creating parent directories as needed.
func WriteFile(path string, r Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(Render(r)), 0o644)
}

// Options selects what an export contains.
type Options struct {
	Date news.Date
	// Out is the destination file. Empty means ainews-<date>.md in the
	// working directory.
	Out string
	// All exports every relevant article of the day instead of the selection.
	All bool
	// URLs, when set, exports exactly these stored articles.
	URLs []string
}

// ErrNothingToExport is returned when no article matches the export options.
var ErrNothingToExport = errors.New("nothing to export")

// Export writes the export document chosen by opts and returns its path and
// the number of articles in it.
func Export(ctx context.Context, opts Options, loadConfig config.ConfigLoad) (string, int, error) {
	appCfg, err := loadConfig()
	if err != nil {
		return "", 0, err
	}
	date := opts.Date
	if !date.Known() {
		date = news.Today().AddDays(-1)
	}

	store, err := ainewsdb.OpenStore(ctx, appCfg.DatabasePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed opening the ainews database: %w", err)
	}
	defer store.Close()

	var articles []news.Article
	switch {
	case len(opts.URLs) > 0:
		articles, err = store.SelectByURLs(ctx, opts.URLs)
	case opts.All:
		articles, err = store.SelectByDate(ctx, date, news.Relevant)
	default:
		articles, err = store.SelectSelected(ctx, date)
	}
	if err != nil {
		return "", 0, err
	}
	if len(articles) == 0 {
		return "", 0, fmt.Errorf("%w for %s", ErrNothingToExport, date)
	}

	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("ainews-%s.md", date)
	}
	out = config.ExpandPath(out)
	if err := WriteFile(out, Report{Date: date, Generated: time.Now(), Articles: articles}); err != nil {
		return "", 0, fmt.Errorf("write export: %w", err)
	}
	return out, len(articles), nil
}
