package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"

	dateTimeSecondsLayout = "2006-01-02T15:04:05"
)

// ParseDate parses a YYYY-MM-DD token as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected date YYYY-MM-DD, got %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// ParseDateTime parses a YYYY-MM-DDThh:mm token (seconds optional) in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateTimeLayout, dateTimeSecondsLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expected date-time YYYY-MM-DDThh:mm, got %q", ErrInvalidFormat, s)
}

// FormatDate renders t's calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t in the literal grammar accepted by ParseDateTime.
// Seconds are only emitted when non-zero.
func FormatDateTime(t time.Time) string {
	if t.Second() != 0 {
		return t.Format(dateTimeSecondsLayout)
	}
	return t.Format(DateTimeLayout)
}

// DayBounds returns 00:00:00 and 23:59:59 of t's date in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, t.Location())
	return start, end
}

// SameDate reports whether a and b fall on the same calendar date in their
// own locations.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the number of calendar days from a's date to b's date.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
