package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"ainews/internal/news"
)

// Years before this are parser noise, not publication dates.
const minYear = 1990

var (
	relativeExpr = regexp.MustCompile(`(\d+)\s*(mins?|minutes?|hrs?|hours?|days?|weeks?)\s+ago`)
	dayMonthExpr = regexp.MustCompile(`\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4}`)
	spaceExpr    = regexp.MustCompile(`\s+`)
)

// Day-first variants come before anything month-first: the default source is British.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-1-2 15:04:05",
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Layouts without a year; the year of the reference time is assumed.
var yearlessLayouts = []string{
	"2 Jan",
	"2 January",
	"Jan 2",
	"January 2",
}

// NormalizeDate converts the date text found on a card into a UTC calendar
// day. Relative phrases are resolved against now. Text that matches no known
// shape yields the unknown date.
func NormalizeDate(text string, now time.Time) news.Date {
	raw := strings.TrimSpace(spaceExpr.ReplaceAllString(text, " "))
	if raw == "" {
		return news.Date{}
	}
	now = now.UTC()
	lower := strings.ToLower(raw)

	switch {
	case lower == "now" || strings.Contains(lower, "just now") || lower == "today":
		return news.DateOf(now)
	case strings.Contains(lower, "yesterday"):
		return news.DateOf(now.AddDate(0, 0, -1))
	}

	if m := relativeExpr.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return news.Date{}
		}
		switch unit := m[2]; {
		case strings.HasPrefix(unit, "min"):
			return news.DateOf(now)
		case strings.HasPrefix(unit, "h"):
			return news.DateOf(now.Add(-time.Duration(n) * time.Hour))
		case strings.HasPrefix(unit, "day"):
			if n == 0 {
				n = 1
			}
			return news.DateOf(now.AddDate(0, 0, -n))
		case strings.HasPrefix(unit, "week"):
			return news.DateOf(now.AddDate(0, 0, -7*n))
		}
	}

	cleaned := strings.TrimPrefix(strings.TrimPrefix(raw, "Updated "), "Published ")
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return news.DateOf(t)
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return news.NewDate(now.Year(), t.Month(), t.Day())
		}
	}

	if m := dayMonthExpr.FindString(raw); m != "" {
		for _, layout := range []string{"2 Jan 2006", "2 January 2006"} {
			if t, err := time.Parse(layout, m); err == nil {
				return news.DateOf(t)
			}
		}
	}

	if t, err := dateparse.ParseIn(cleaned, time.UTC); err == nil && t.Year() >= minYear {
		return news.DateOf(t)
	}
	return news.Date{}
}
