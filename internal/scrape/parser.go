// Package scrape turns a section page into candidate articles and narrows them
// down to a single publication day.
package scrape

import (
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ainews/internal/logger"
	"ainews/internal/news"
)

// Warning describes a field that could not be extracted from a card. The
// card is still emitted with the field left empty or unknown.
type Warning struct {
	Index  int
	URL    string
	Field  string
	Text   string
	Reason string
}

func (w Warning) String() string {
	if w.Text != "" {
		return fmt.Sprintf("card %d (%s): %s %q: %s", w.Index, w.URL, w.Field, w.Text, w.Reason)
	}
	return fmt.Sprintf("card %d (%s): %s: %s", w.Index, w.URL, w.Field, w.Reason)
}

// Parser extracts articles using a fixed set of selectors.
type Parser struct {
	sel          Selectors
	base         *url.URL
	allowedHosts []string
	log          logger.Logger
	now          func() time.Time

	// OnWarning, when set, receives every per-card warning in addition to the log.
	OnWarning func(Warning)
}

// Options configures a Parser. Zero values fall back to the BBC defaults.
type Options struct {
	Selectors    Selectors
	BaseURL      string
	AllowedHosts []string
	Logger       logger.Logger
	// Now is the reference time for relative dates.
	Now func() time.Time
}

func NewParser(opts Options) (*Parser, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	hosts := make([]string, 0, len(opts.AllowedHosts))
	for _, h := range opts.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Parser{
		sel:          opts.Selectors.WithDefaults(),
		base:         base,
		allowedHosts: hosts,
		log:          opts.Logger,
		now:          opts.Now,
	}, nil
}

// Parse returns the articles found in markup in document order. The sequence
// is lazy and restartable: each range walks the document again and yields the
// same articles. Relative dates resolve against the time Parse was called.
func (p *Parser) Parse(markup string) iter.Seq[news.Article] {
	now := p.now()
	return func(yield func(news.Article) bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
		if err != nil {
			p.warn(Warning{Index: -1, Field: "document", Reason: err.Error()})
			return
		}
		seen := make(map[string]struct{})
		doc.Find(p.sel.Container).EachWithBreak(func(i int, card *goquery.Selection) bool {
			a, ok := p.extract(i, card, now, seen)
			if !ok {
				return true
			}
			return yield(a)
		})
	}
}

func (p *Parser) extract(i int, card *goquery.Selection, now time.Time, seen map[string]struct{}) (news.Article, bool) {
	link := card.Find(p.sel.Link).FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		return ok && strings.TrimSpace(href) != ""
	}).First()
	if link.Length() == 0 {
		p.log.Debug("skipping card without link", logger.Int("card", i))
		return news.Article{}, false
	}
	href, _ := link.Attr("href")
	articleURL, reason := p.resolve(href)
	if articleURL == "" {
		p.log.Debug("skipping card link", logger.Int("card", i), logger.String("href", href), logger.String("reason", reason))
		return news.Article{}, false
	}
	if _, dup := seen[articleURL]; dup {
		p.log.Debug("skipping duplicate url", logger.String("url", articleURL))
		return news.Article{}, false
	}
	seen[articleURL] = struct{}{}

	a := news.Article{URL: articleURL, Label: news.Unclassified}

	a.Title = firstText(link, p.sel.Headline)
	if a.Title == "" {
		a.Title = firstText(card, p.sel.Headline)
	}
	if a.Title == "" {
		p.warn(Warning{Index: i, URL: articleURL, Field: "headline", Reason: "not found"})
	}

	a.Summary = firstText(card, p.sel.Summary)

	dateText := p.dateText(card)
	if dateText == "" {
		p.warn(Warning{Index: i, URL: articleURL, Field: "date", Reason: "not found"})
		return a, true
	}
	a.PublishedOn = NormalizeDate(dateText, now)
	if !a.PublishedOn.Known() {
		p.warn(Warning{Index: i, URL: articleURL, Field: "date", Text: dateText, Reason: "unrecognised format"})
	}
	return a, true
}

// resolve turns href into an absolute article URL, or returns "" and the
// reason it was rejected.
func (p *Parser) resolve(href string) (string, string) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", "malformed"
	}
	u = p.base.ResolveReference(u)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "not http"
	}
	if !p.hostAllowed(u.Hostname()) {
		return "", "external host"
	}
	u.Fragment = ""
	return u.String(), ""
}

func (p *Parser) hostAllowed(host string) bool {
	if len(p.allowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, h := range p.allowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (p *Parser) dateText(card *goquery.Selection) string {
	for _, sel := range p.sel.Date {
		node := card.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if dt, ok := node.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return strings.TrimSpace(dt)
		}
		if text := cleanText(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

func (p *Parser) warn(w Warning) {
	p.log.Warn("parse warning", logger.String("field", w.Field), logger.String("url", w.URL), logger.String("text", w.Text), logger.String("reason", w.Reason))
	if p.OnWarning != nil {
		p.OnWarning(w)
	}
}

func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := cleanText(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(s, " "))
}
