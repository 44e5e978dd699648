package main

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews/internal/httpclient"
	"ainews/internal/news"
	"ainews/internal/scrape"
)

func TestSectionPageParses(t *testing.T) {
	now := time.Date(2024, time.January, 11, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(createHandler(func() time.Time { return now }))
	defer server.Close()

	markup, err := httpclient.New(httpclient.Options{}).Fetch(t.Context(), server.URL+"/innovation")
	require.NoError(t, err)

	var warnings []scrape.Warning
	parser, err := scrape.NewParser(scrape.Options{
		BaseURL:      server.URL,
		AllowedHosts: []string{"127.0.0.1"},
		Now:          func() time.Time { return now },
	})
	require.NoError(t, err)
	parser.OnWarning = func(w scrape.Warning) { warnings = append(warnings, w) }

	articles := slices.Collect(parser.Parse(markup))
	require.Len(t, articles, len(stories))
	assert.Empty(t, warnings)
	assert.Equal(t, server.URL+"/news/articles/1", articles[0].URL)
	assert.Equal(t, "2024-01-11", articles[0].PublishedOn.String())
	assert.False(t, articles[2].HasSummary())

	yesterday := slices.Collect(scrape.OnDate(parser.Parse(markup), news.NewDate(2024, time.January, 10)))
	require.Len(t, yesterday, 2)
	assert.Equal(t, stories[1].title, yesterday[0].Title)
	assert.Equal(t, stories[2].title, yesterday[1].Title)
}

func TestArticlesHandler(t *testing.T) {
	server := httptest.NewServer(createHandler(time.Now))
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/articles/2")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/news/articles/9")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
