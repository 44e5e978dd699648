package list

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/news"
)

// Run prints the AI-related articles published on date, followed by the
// label totals of the whole store.
func Run(ctx context.Context, date news.Date, loadConfig config.ConfigLoad) error {
	return Fprint(ctx, os.Stdout, date, loadConfig)
}

func Fprint(ctx context.Context, w io.Writer, date news.Date, loadConfig config.ConfigLoad) error {
	appCfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !date.Known() {
		date = news.Today().AddDays(-1)
	}

	dbPath := appCfg.DatabasePath
	if !fileExists(dbPath) {
		fmt.Fprintf(w, "ainews database not found at %s\n", dbPath)
		fmt.Fprintln(w, "Hint: Run 'ainews fetch' to create and populate the DB, or set database_path in ~/.config/ainews/config.yaml.")
		return nil
	}

	store, err := ainewsdb.OpenStore(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed opening the ainews database: %w", err)
	}
	defer store.Close()

	rows, err := store.SelectByDate(ctx, date, news.Relevant)
	if err != nil {
		return fmt.Errorf("query failed while reading from the ainews database: %w", err)
	}
	counts, err := store.CountByLabel(ctx)
	if err != nil {
		return fmt.Errorf("query failed while reading from the ainews database: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "No AI-related articles found for %s.\n", date)
	} else {
		fmt.Fprintf(w, "Found %d AI-related articles for %s:\n\n", len(rows), date)
	}

	for _, r := range rows {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		summary := r.Summary
		if summary == "" {
			summary = "No summary available."
		}
		if len(summary) > 400 {
			summary = summary[:400] + "..."
		}

		mark := " "
		if r.Selected {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, title)
		fmt.Fprintf(w, "URL: %s\n", r.URL)
		fmt.Fprintf(w, "Source: %s\n", r.Source)
		fmt.Fprintf(w, "Summary: %s\n", summary)
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}

	fmt.Fprintf(w, "\nStored: %d relevant, %d not relevant, %d unclassified\n",
		counts[news.Relevant], counts[news.NotRelevant], counts[news.Unclassified])
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
