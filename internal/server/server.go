package server

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/news"
	"ainews/internal/version"
)

type ListArticlesParams struct {
	Date           string  `json:"date"`
	Label          *string `json:"label,omitempty"`
	IncludeSummary bool    `json:"include_summary"`
}

type GetArticleParams struct {
	URL string `json:"url"`
}

// Item is the wire form of a stored article.
type Item struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	PublishedOn  string     `json:"published_on"`
	Source       string     `json:"source,omitempty"`
	Label        string     `json:"label"`
	Selected     bool       `json:"selected_for_export"`
	Summary      string     `json:"summary,omitempty"`
	Preview      string     `json:"summary_preview,omitempty"`
	ClassifiedAt *time.Time `json:"classified_at,omitempty"`
}

type handlers struct {
	loadConfig config.ConfigLoad
}

func Run(ctx context.Context, loadConfig config.ConfigLoad) error {
	server := mcp.NewServer(&mcp.Implementation{Name: "ainews", Version: version.Version}, nil)

	h := handlers{loadConfig: loadConfig}
	mcp.AddTool(server, &mcp.Tool{Name: "list_articles", Description: "List stored articles published on a day (YYYY-MM-DD), by default the AI-related ones"}, h.listArticles)
	mcp.AddTool(server, &mcp.Tool{Name: "get_article", Description: "Get one stored article by URL"}, h.getArticle)

	return server.Run(ctx, &mcp.StdioTransport{})
}

// Returns the articles of one day carrying the requested label
func (h handlers) listArticles(ctx context.Context, req *mcp.CallToolRequest, p ListArticlesParams) (*mcp.CallToolResult, any, error) {
	date := news.Today().AddDays(-1)
	if strings.TrimSpace(p.Date) != "" {
		d, err := news.ParseDate(p.Date)
		if err != nil {
			return nil, failure("Invalid date, expected YYYY-MM-DD", err, ""), nil
		}
		date = d
	}
	label := news.Relevant
	if p.Label != nil && strings.TrimSpace(*p.Label) != "" {
		l, err := news.ParseLabel(*p.Label)
		if err != nil {
			return nil, failure("Invalid label", err, ""), nil
		}
		label = l
	}

	store, errResp := h.open(ctx)
	if errResp != nil {
		return nil, errResp, nil
	}
	defer store.Close()

	rows, err := store.SelectByDate(ctx, date, label)
	if err != nil {
		return nil, failure("Query failed while reading from the ainews database", err, ""), nil
	}
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, serialize(r, p.IncludeSummary))
	}
	return nil, map[string]any{"date": date.String(), "label": string(label), "count": len(items), "items": items}, nil
}

func (h handlers) getArticle(ctx context.Context, req *mcp.CallToolRequest, p GetArticleParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(p.URL) == "" {
		return nil, map[string]any{"ok": false, "message": "url is required"}, nil
	}
	store, errResp := h.open(ctx)
	if errResp != nil {
		return nil, errResp, nil
	}
	defer store.Close()

	a, err := store.Get(ctx, strings.TrimSpace(p.URL))
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, map[string]any{"count": 0, "items": []Item{}}, nil
	}
	return nil, map[string]any{"count": 1, "items": []Item{serialize(*a, true)}}, nil
}

// open returns the store, or the response describing why it is unavailable.
func (h handlers) open(ctx context.Context) (*ainewsdb.Store, map[string]any) {
	appCfg, err := h.loadConfig()
	if err != nil {
		return nil, failure("Failed loading the ainews config", err, "")
	}
	dbPath := appCfg.DatabasePath
	if !fileExists(dbPath) {
		resp := failure(fmt.Sprintf("ainews database not found at %s", dbPath), nil, dbPath)
		resp["hint"] = "Run 'ainews fetch' to create/populate the DB, or set database_path in ~/.config/ainews/config.yaml."
		return nil, resp
	}
	store, err := ainewsdb.OpenStore(ctx, dbPath)
	if err != nil {
		return nil, failure("Failed opening the ainews database", err, dbPath)
	}
	return store, nil
}

func failure(message string, err error, dbPath string) map[string]any {
	m := map[string]any{"ok": false, "message": message}
	if err != nil {
		m["error"] = err.Error()
	}
	if dbPath != "" {
		m["db_path"] = dbPath
	}
	return m
}

// summary is restricted to 400 characters unless requested in full
func serialize(a news.Article, includeSummary bool) Item {
	it := Item{
		URL:         a.URL,
		Title:       a.Title,
		PublishedOn: a.PublishedOn.String(),
		Source:      a.Source,
		Label:       string(a.Label),
		Selected:    a.Selected,
	}
	if !a.ClassifiedAt.IsZero() {
		t := a.ClassifiedAt
		it.ClassifiedAt = &t
	}
	if includeSummary {
		it.Summary = a.Summary
	} else if len(a.Summary) > 400 {
		it.Preview = a.Summary[:400] + "..."
	} else {
		it.Preview = a.Summary
	}
	return it
}

// Check if a file exists, validating the p search path
func fileExists(p string) bool {
	if p == "" {
		return false
	}
	if _, err := os.Stat(p); err == nil {
		return true
	}
	return false
}
