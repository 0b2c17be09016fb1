package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateWindow spans one UTC calendar day, from midnight to 23:59:59.999.
type dateWindow struct {
	start time.Time
	end   time.Time
	label string
}

// dateLayouts are the accepted specific-date expressions. Year-less
// layouts parse to year 0 and get the current year filled in.
var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"January 2",
	"Jan 2",
	"01/02/2006",
	"01/02",
}

var fourDigitYear = regexp.MustCompile(`\d{4}`)

// resolveTargetDate parses a caller-supplied date expression into a single
// UTC day window. A date that has already passed rolls forward one year,
// unless the input spelled out a 4-digit year: "Jan 1" asked in December
// means next January, "2025-01-01" means exactly that day.
func resolveTargetDate(input string, now time.Time) (dateWindow, error) {
	trimmed := strings.TrimSpace(input)

	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, trimmed)
		if err == nil {
			break
		}
	}
	if err != nil {
		return dateWindow{}, fmt.Errorf("unparseable date %q", input)
	}

	year := parsed.Year()
	if year == 0 {
		year = now.Year()
	}

	start := time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	if end.Before(now.UTC()) && !fourDigitYear.MatchString(trimmed) {
		start = start.AddDate(1, 0, 0)
		end = start.Add(24*time.Hour - time.Millisecond)
	}

	return dateWindow{
		start: start,
		end:   end,
		label: start.Format("January 02, 2006"),
	}, nil
}
