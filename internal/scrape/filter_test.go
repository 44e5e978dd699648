package scrape

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews/internal/news"
)

func TestOnDateKeepsMatchingDay(t *testing.T) {
	p, _ := newTestParser(t)
	markup := `<div data-indexcard="true"><a href="/a"><h2>A</h2></a><span data-testid="card-metadata-lastupdated">2024-01-10</span></div>
<div data-indexcard="true"><a href="/b"><h2>B</h2></a><span data-testid="card-metadata-lastupdated">2024-01-11</span></div>`

	got := slices.Collect(OnDate(p.Parse(markup), news.NewDate(2024, time.January, 10)))

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
}

func TestOnDateExcludesUnknown(t *testing.T) {
	candidates := slices.Values([]news.Article{
		{URL: "https://www.bbc.com/x"},
		{URL: "https://www.bbc.com/y", PublishedOn: news.NewDate(2024, time.January, 10)},
	})

	assert.Empty(t, slices.Collect(OnDate(candidates, news.Date{})))

	got := slices.Collect(OnDate(candidates, news.NewDate(2024, time.January, 10)))
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.bbc.com/y", got[0].URL)
}
