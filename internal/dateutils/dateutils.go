// Package dateutils provides date parsing shared by the normalizer. Bank
// exports disagree wildly on date formats, so parsing always walks an ordered
// format list, day-first formats ahead of month-first for UK data.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common layout constants.
const (
	LayoutISO      = "2006-01-02"
	LayoutUK       = "02/01/2006"
	LayoutUKDashed = "02-01-2006"
	LayoutUKDotted = "02.01.2006"
	LayoutUS       = "01/02/2006"
)

// GeneralFormats is the fallback list tried when a bank config's own formats
// all fail. Day-first layouts come first.
var GeneralFormats = []string{
	LayoutISO,
	LayoutUK,
	LayoutUKDashed,
	LayoutUKDotted,
	"2/1/2006",
	LayoutUS,
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2, 2006",
}

var spaceRun = regexp.MustCompile(`\s+`)

// Clean trims a date string and collapses internal whitespace.
func Clean(dateStr string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// Parse tries each layout in order and returns the first that matches, along
// with the layout used.
func Parse(dateStr string, layouts []string) (time.Time, string, error) {
	dateStr = Clean(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date string")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return DateOnly(t), layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %q", dateStr)
}

// ParseGeneral parses with the general fallback formats.
func ParseGeneral(dateStr string) (time.Time, string, error) {
	return Parse(dateStr, GeneralFormats)
}

// DateOnly truncates a time to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar day. The normalizer uses it as the
// documented fallback for unparsable dates.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// DaysApart returns the absolute number of whole days between two dates.
func DaysApart(a, b time.Time) int {
	d := DateOnly(a).Sub(DateOnly(b))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
