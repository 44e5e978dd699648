package ingest

import (
	"context"
	"fmt"
	"iter"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/httpclient"
	"ainews/internal/logger"
	"ainews/internal/news"
	"ainews/internal/scrape"
)

// Options allow overriding config values from CLI flags.
type Options struct {
	LogFile string
	// Source names a configured section; URL fetches an arbitrary page instead.
	Source string
	URL    string
	// Date is the publication day to keep. Unknown means yesterday (UTC).
	Date news.Date
}

// Report summarises one fetch cycle.
type Report struct {
	Source   string
	Target   news.Date
	Parsed   int
	Matched  int
	Inserted int
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Store interface {
	InsertNew(ctx context.Context, articles []news.Article) (int, error)
}

// Ingestor runs fetch, parse, date filter and insert for one section.
type Ingestor struct {
	fetcher Fetcher
	parser  *scrape.Parser
	store   Store
	log     logger.Logger
}

func NewIngestor(fetcher Fetcher, parser *scrape.Parser, store Store, log logger.Logger) *Ingestor {
	return &Ingestor{fetcher: fetcher, parser: parser, store: store, log: log}
}

// Ingest stores the articles of section published on target. A fetch
// failure returns before anything is written.
func (i *Ingestor) Ingest(ctx context.Context, section config.Section, target news.Date) (Report, error) {
	report := Report{Source: section.Name, Target: target}
	log := i.log.With(logger.String("source", section.Name), logger.Stringer("date", target))

	log.Info("fetching section", logger.String("url", section.URL))
	markup, err := i.fetcher.Fetch(ctx, section.URL)
	if err != nil {
		return report, err
	}

	candidates := counted(i.parser.Parse(markup), &report.Parsed)
	var matched []news.Article
	for a := range scrape.OnDate(candidates, target) {
		a.Source = section.Name
		matched = append(matched, a)
	}
	report.Matched = len(matched)
	log.Info("parsed section", logger.Int("parsed", report.Parsed), logger.Int("matched", report.Matched))

	report.Inserted, err = i.store.InsertNew(ctx, matched)
	if err != nil {
		return report, err
	}
	log.Info("ingest saved", logger.Int("inserted", report.Inserted), logger.Int("already_stored", report.Matched-report.Inserted))
	return report, nil
}

func counted[T any](seq iter.Seq[T], n *int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}

// Run executes a single fetch cycle using the loaded configuration.
func Run(ctx context.Context, opts Options, loadConfig config.ConfigLoad) (Report, error) {
	appCfg, err := loadConfig()
	if err != nil {
		return Report{}, err
	}
	log, err := appCfg.NewLogger(opts.LogFile)
	if err != nil {
		return Report{}, err
	}
	defer log.Sync()

	section, err := appCfg.ResolveSection(opts.Source, opts.URL)
	if err != nil {
		return Report{}, err
	}
	target := opts.Date
	if !target.Known() {
		target = news.Today().AddDays(-1)
	}

	// An explicit page resolves its own relative links and may link anywhere.
	baseURL, hosts := appCfg.Source.BaseURL, appCfg.Source.AllowedHosts
	if opts.URL != "" {
		baseURL, hosts = section.URL, nil
	}
	parser, err := scrape.NewParser(scrape.Options{
		Selectors:    appCfg.Source.Selectors,
		BaseURL:      baseURL,
		AllowedHosts: hosts,
		Logger:       log,
	})
	if err != nil {
		return Report{}, err
	}

	store, err := ainewsdb.OpenStore(ctx, appCfg.DatabasePath)
	if err != nil {
		return Report{}, fmt.Errorf("failed opening the ainews database: %w", err)
	}
	defer store.Close()

	fetcher := httpclient.New(httpclient.Options{
		Timeout:   appCfg.FetchTimeout(),
		UserAgent: appCfg.Source.UserAgent,
	})
	report, err := NewIngestor(fetcher, parser, store, log).Ingest(ctx, section, target)
	if err != nil {
		log.Error("ingest failed", logger.Error(err))
		return report, err
	}
	return report, nil
}
