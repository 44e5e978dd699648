package scrape

import (
	"iter"

	"ainews/internal/news"
)

// OnDate keeps the articles published on target. Articles with an unknown
// date never match.
func OnDate(candidates iter.Seq[news.Article], target news.Date) iter.Seq[news.Article] {
	return func(yield func(news.Article) bool) {
		for a := range candidates {
			if !a.PublishedOn.Equal(target) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}
