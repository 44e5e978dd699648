package classify

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/news"
)

func TestRunClassifiesStoredArticles(t *testing.T) {
	calls := 0
	server := completionServer(t, http.StatusOK, "no", &calls)
	defer server.Close()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(dir, "ainews.db")
	cfg.AI = config.AIConfig{BaseUrl: server.URL + "/", APIKey: "test-key", Model: "test-model", MinIntervalMs: -1}

	ctx := context.Background()
	store, err := ainewsdb.OpenStore(ctx, cfg.DatabasePath)
	require.NoError(t, err)
	_, err = store.InsertNew(ctx, []news.Article{
		{URL: "https://www.bbc.com/news/articles/a", Title: "Football results", PublishedOn: news.NewDate(2024, time.January, 10)},
		{URL: "https://www.bbc.com/news/articles/b", Title: "Weather warning", PublishedOn: news.NewDate(2024, time.January, 10)},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	res, err := Run(ctx, filepath.Join(dir, "classify.log"), config.Static(cfg))

	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 2, NotRelevant: 2}, res)
	assert.Equal(t, 2, calls)

	store, err = ainewsdb.OpenStore(ctx, cfg.DatabasePath)
	require.NoError(t, err)
	defer store.Close()
	counts, err := store.CountByLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[news.NotRelevant])
}

func TestRunRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "ainews.db")

	_, err := Run(context.Background(), "", config.Static(cfg))

	assert.ErrorContains(t, err, "API key")
}
