package classify

import (
	"context"
	"fmt"
	"strings"

	"ainews/internal/logger"
	"ainews/internal/news"
)

// Store is the part of the article store the batch driver needs.
type Store interface {
	SelectUnclassified(ctx context.Context) ([]news.Article, error)
	UpdateLabel(ctx context.Context, url string, relevant bool) error
}

// ArticleClassifier is satisfied by *Classifier.
type ArticleClassifier interface {
	Classify(ctx context.Context, title, summary string) (bool, error)
}

// Result summarises one classification batch.
type Result struct {
	Checked     int
	Relevant    int
	NotRelevant int
	Skipped     int
}

// ClassifyPending labels every unclassified article. Rate limits, transient
// failures and malformed answers skip the article and leave it unclassified.
// Any other classifier error, and every store error, ends the batch.
func ClassifyPending(ctx context.Context, store Store, classifier ArticleClassifier, log logger.Logger) (Result, error) {
	var res Result
	pending, err := store.SelectUnclassified(ctx)
	if err != nil {
		return res, err
	}
	log.Info("classifying articles", logger.Int("pending", len(pending)))

	for _, a := range pending {
		res.Checked++
		if strings.TrimSpace(a.Title) == "" {
			res.Skipped++
			log.Warn("skipping article without title", logger.String("url", a.URL))
			continue
		}

		relevant, err := classifier.Classify(ctx, a.Title, a.Summary)
		if err != nil {
			if Skippable(err) {
				res.Skipped++
				log.Warn("skipping article", logger.String("url", a.URL), logger.Error(err))
				continue
			}
			return res, fmt.Errorf("classify %s: %w", a.URL, err)
		}

		if err := store.UpdateLabel(ctx, a.URL, relevant); err != nil {
			return res, err
		}
		if relevant {
			res.Relevant++
		} else {
			res.NotRelevant++
		}
		log.Debug("classified article", logger.String("url", a.URL), logger.Bool("relevant", relevant))
	}

	log.Info("classification finished",
		logger.Int("checked", res.Checked),
		logger.Int("relevant", res.Relevant),
		logger.Int("not_relevant", res.NotRelevant),
		logger.Int("skipped", res.Skipped))
	return res, nil
}
