package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// weekdayCodes maps the single-letter weekday grammar. Thursday is R and
// Sunday is U so that every day has a distinct letter.
var weekdayCodes = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

var weekdayLetters = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "R",
	time.Friday:    "F",
	time.Saturday:  "S",
	time.Sunday:    "U",
}

// ParseWeekdays parses a token such as "MWF". Letters are case-insensitive
// and duplicates are ignored. The result is ordered Monday through Sunday.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: At least one weekday must be specified", ErrInvalidWeekday)
	}

	seen := make(map[time.Weekday]bool)
	for _, r := range strings.ToUpper(s) {
		wd, ok := weekdayCodes[r]
		if !ok {
			return nil, fmt.Errorf("%w: Invalid weekday character: '%c'", ErrInvalidWeekday, r)
		}
		seen[wd] = true
	}

	days := make([]time.Weekday, 0, len(seen))
	for wd := range seen {
		days = append(days, wd)
	}
	SortWeekdays(days)
	return days, nil
}

// FormatWeekdays is the inverse of ParseWeekdays.
func FormatWeekdays(days []time.Weekday) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(weekdayLetters[d])
	}
	return b.String()
}

// SortWeekdays orders days Monday first.
func SortWeekdays(days []time.Weekday) {
	slices.SortFunc(days, func(a, b time.Weekday) int {
		return mondayIndex(a) - mondayIndex(b)
	})
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
