package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/httpclient"
	"ainews/internal/logger"
	"ainews/internal/news"
	"ainews/internal/scrape"
)

func TestRunIngestsTargetDay(t *testing.T) {
	server := httptest.NewServer(createHandler())
	defer server.Close()

	databasePath := filepath.Join(t.TempDir(), "ainews.db")
	loader := func() (config.AppConfig, error) {
		c := config.Default()
		c.DatabasePath = databasePath
		c.Source.BaseURL = server.URL
		c.Source.AllowedHosts = nil
		c.Source.Sections = []config.Section{{Name: "Demo", URL: server.URL + "/section"}}
		c.Source.Default = "Demo"
		c.Log.File = filepath.Join(t.TempDir(), "ingest.log")
		return c, nil
	}
	opts := Options{Date: news.NewDate(2024, time.January, 10)}

	report, err := Run(t.Context(), opts, loader)
	require.NoError(t, err)
	assert.Equal(t, Report{Source: "Demo", Target: opts.Date, Parsed: 3, Matched: 2, Inserted: 2}, report)

	// A second run finds the same articles already stored.
	report, err = Run(t.Context(), opts, loader)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 2, report.Matched)

	assertDatabaseContent(t, t.Context(), databasePath, server.URL)
}

func TestRunWithExplicitURL(t *testing.T) {
	server := httptest.NewServer(createHandler())
	defer server.Close()

	databasePath := filepath.Join(t.TempDir(), "ainews.db")
	loader := func() (config.AppConfig, error) {
		c := config.Default()
		c.DatabasePath = databasePath
		return c, nil
	}

	report, err := Run(t.Context(), Options{
		URL:     server.URL + "/section",
		Source:  "Ad hoc",
		Date:    news.NewDate(2024, time.January, 11),
		LogFile: filepath.Join(t.TempDir(), "ingest.log"),
	}, loader)

	require.NoError(t, err)
	assert.Equal(t, "Ad hoc", report.Source)
	assert.Equal(t, 1, report.Inserted)
}

func TestRunUnknownSource(t *testing.T) {
	loader := config.Static(config.Default())

	_, err := Run(t.Context(), Options{Source: "Nope"}, loader)

	assert.ErrorContains(t, err, "unknown source")
}

func TestIngestNetworkFailureLeavesStoreUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	store, err := ainewsdb.OpenStore(t.Context(), filepath.Join(t.TempDir(), "ainews.db"))
	require.NoError(t, err)
	defer store.Close()
	parser, err := scrape.NewParser(scrape.Options{BaseURL: server.URL})
	require.NoError(t, err)
	ing := NewIngestor(httpclient.New(httpclient.Options{}), parser, store, logger.NewNop())

	_, err = ing.Ingest(t.Context(), config.Section{Name: "Demo", URL: server.URL}, news.NewDate(2024, time.January, 10))

	var netErr *httpclient.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)

	counts, err := store.CountByLabel(t.Context())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

type recordingStore struct {
	got []news.Article
}

func (r *recordingStore) InsertNew(_ context.Context, articles []news.Article) (int, error) {
	r.got = append(r.got, articles...)
	return len(articles), nil
}

type staticFetcher string

func (s staticFetcher) Fetch(context.Context, string) (string, error) {
	return string(s), nil
}

func TestIngestStampsSourceAndSkipsUnknownDates(t *testing.T) {
	parser, err := scrape.NewParser(scrape.Options{})
	require.NoError(t, err)
	store := &recordingStore{}
	markup := `<div data-indexcard="true"><a href="/a"><h2>Dated</h2></a><span data-testid="card-metadata-lastupdated">10 Jan 2024</span></div>
<div data-indexcard="true"><a href="/b"><h2>Undated</h2></a></div>`

	report, err := NewIngestor(staticFetcher(markup), parser, store, logger.NewNop()).
		Ingest(t.Context(), config.Section{Name: "BBC Innovation"}, news.NewDate(2024, time.January, 10))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	require.Len(t, store.got, 1)
	assert.Equal(t, "BBC Innovation", store.got[0].Source)
	assert.Equal(t, "https://www.bbc.com/a", store.got[0].URL)
}

// Serves a section page with three dated cards and one card without a link.
func createHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/section", sectionHandler)
	return mux
}

func sectionHandler(w http.ResponseWriter, r *http.Request) {
	pageContent := `<!DOCTYPE html>
<html><body>
  <div data-indexcard="true">
    <a href="/articles/1"><h2 data-testid="card-headline">Breaking News, language models learn to plan</h2></a>
    <p data-testid="card-description">Content 1</p>
    <span data-testid="card-metadata-lastupdated">10 Jan 2024</span>
  </div>
  <div data-indexcard="true">
    <a href="/articles/2"><h2 data-testid="card-headline">Breaking News, the spring that never came</h2></a>
    <span data-testid="card-metadata-lastupdated">10 January 2024</span>
  </div>
  <div data-indexcard="true">
    <a href="/articles/3"><h2 data-testid="card-headline">Breaking News, tomorrow's weather</h2></a>
    <p data-testid="card-description">Content 3</p>
    <span data-testid="card-metadata-lastupdated">11 Jan 2024</span>
  </div>
  <div data-indexcard="true">
    <h2 data-testid="card-headline">Promo without link</h2>
  </div>
</body></html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(pageContent))
}

func assertDatabaseContent(t *testing.T, ctx context.Context, databasePath, baseURL string) {
	t.Helper()
	store, err := ainewsdb.OpenStore(ctx, databasePath)
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.SelectUnclassified(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, r := range rows {
		assert.Equal(t, fmt.Sprintf("%s/articles/%d", baseURL, i+1), r.URL)
		assert.Equal(t, "Demo", r.Source)
		assert.Equal(t, "2024-01-10", r.PublishedOn.String())
	}
	assert.Equal(t, "Content 1", rows[0].Summary)
	assert.False(t, rows[1].HasSummary())
}
