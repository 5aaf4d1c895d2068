package pricing

import (
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var articleDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

// DateKey truncates ts to its UTC calendar date.
func DateKey(ts time.Time) string {
	return ts.UTC().Format(isoDate)
}

// ParseArticleDate turns a publication date or timestamp into the ISO date
// used as the lookup target. Plain YYYY-MM-DD values are taken as is.
func ParseArticleDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty article date")
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t.Format(isoDate), nil
	}
	for _, layout := range articleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateKey(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized article date %q", s)
}
