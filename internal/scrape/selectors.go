package scrape

// Selectors maps the markup of a section page onto article fields. Headline,
// Summary and Date are tried in order and the first non-empty match wins.
type Selectors struct {
	Container string   `yaml:"container"`
	Link      string   `yaml:"link"`
	Headline  []string `yaml:"headline"`
	Summary   []string `yaml:"summary"`
	Date      []string `yaml:"date"`
}

const (
	DefaultBaseURL = "https://www.bbc.com"
	DefaultSection = "https://www.bbc.com/innovation"
)

// DefaultAllowedHosts keeps links on the publisher's own domains.
var DefaultAllowedHosts = []string{"bbc.com", "bbc.co.uk"}

// DefaultSelectors matches the BBC card layout.
func DefaultSelectors() Selectors {
	return Selectors{
		Container: `div[data-indexcard="true"]`,
		Link:      `a[href]`,
		Headline: []string{
			`h1[data-testid*="headline"], h2[data-testid*="headline"], h3[data-testid*="headline"]`,
			`h1, h2, h3`,
		},
		Summary: []string{
			`p[data-testid*="description"]`,
			`p`,
		},
		Date: []string{
			`span[data-testid="card-metadata-lastupdated"]`,
			`time`,
		},
	}
}

// WithDefaults fills any empty selector from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	d := DefaultSelectors()
	if s.Container == "" {
		s.Container = d.Container
	}
	if s.Link == "" {
		s.Link = d.Link
	}
	if len(s.Headline) == 0 {
		s.Headline = d.Headline
	}
	if len(s.Summary) == 0 {
		s.Summary = d.Summary
	}
	if len(s.Date) == 0 {
		s.Date = d.Date
	}
	return s
}
