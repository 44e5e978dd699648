package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, time.March, 1, 1, 30, 0, 0, time.UTC)

	tests := []struct {
		text string
		want string
	}{
		{"just now", "2024-03-01"},
		{"Today", "2024-03-01"},
		{"5 mins ago", "2024-03-01"},
		{"1 hr ago", "2024-03-01"},
		{"3 hrs ago", "2024-02-29"},
		{"Yesterday", "2024-02-29"},
		{"2 days ago", "2024-02-28"},
		{"0 days ago", "2024-02-29"},
		{"1 week ago", "2024-02-23"},
		{"Updated 4 hrs ago", "2024-02-29"},
		{"2024-01-10", "2024-01-10"},
		{"2024/01/10", "2024-01-10"},
		{"10.01.2024", "2024-01-10"},
		{"10/01/2024", "2024-01-10"},
		{"10 Jan 2024", "2024-01-10"},
		{"10 January 2024", "2024-01-10"},
		{"Jan 10, 2024", "2024-01-10"},
		{"2024-01-10T23:30:00Z", "2024-01-10"},
		{"2024-01-10T23:30:00-02:00", "2024-01-11"},
		{"Wed, 10 Jan 2024 09:00:00 GMT", "2024-01-10"},
		{"12 Feb", "2024-02-12"},
		{"Published on 10 Jan 2024 by staff", "2024-01-10"},
		{"", "unknown"},
		{"Technology", "unknown"},
		{"Sometime soon", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.text, now).String())
		})
	}
}

func TestNormalizeDateUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	now := time.Date(2024, time.March, 1, 20, 0, 0, 0, loc)

	assert.Equal(t, "2024-03-02", NormalizeDate("just now", now).String())
}
