// Package news holds the article record shared by the fetch, storage and
// classification stages.
package news

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and CLI representation of a Date.
const DateLayout = time.DateOnly

// Date is a calendar day in UTC. The zero value means the publication day
// could not be determined.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the UTC calendar day containing t.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string. The empty string yields the unknown date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Known() bool {
	return !d.t.IsZero()
}

// Equal reports whether both dates are known and fall on the same day.
// An unknown date is never equal to anything, itself included.
func (d Date) Equal(o Date) bool {
	return d.Known() && o.Known() && d.t.Equal(o.t)
}

func (d Date) AddDays(n int) Date {
	if !d.Known() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if !d.Known() {
		return "unknown"
	}
	return d.t.Format(DateLayout)
}

// Label is the classification state of an article.
type Label string

const (
	Unclassified Label = "unclassified"
	Relevant     Label = "relevant"
	NotRelevant  Label = "not_relevant"
)

// LabelFor maps a classifier verdict to a terminal label.
func LabelFor(relevant bool) Label {
	if relevant {
		return Relevant
	}
	return NotRelevant
}

func (l Label) Classified() bool {
	return l == Relevant || l == NotRelevant
}

func ParseLabel(s string) (Label, error) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case Unclassified:
		return Unclassified, nil
	case Relevant, "yes", "true":
		return Relevant, nil
	case NotRelevant, "no", "false":
		return NotRelevant, nil
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// Article is a single news item as scraped from a section page.
type Article struct {
	URL          string
	Title        string
	PublishedOn  Date
	Summary      string
	Source       string
	Label        Label
	Selected     bool
	AddedAt      time.Time
	ClassifiedAt time.Time
}

// HasSummary reports whether the article carries a non-blank summary.
func (a Article) HasSummary() bool {
	return strings.TrimSpace(a.Summary) != ""
}
