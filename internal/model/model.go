package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the visibility of an event.
type Status string

const (
	StatusPublic  Status = "public"
	StatusPrivate Status = "private"
)

// ParseStatus parses a visibility token case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusPublic):
		return StatusPublic, nil
	case string(StatusPrivate):
		return StatusPrivate, nil
	}
	return "", fmt.Errorf("%w: status must be public or private, got %q", ErrInvalidEnum, s)
}

// Event is one calendar occurrence. Events are values: every edit produces
// a new Event and nothing holds a pointer into a calendar's storage.
//
// Start and End are expressed in the owning calendar's location. An all-day
// event spans 00:00:00 to 23:59:59 of a single date.
type Event struct {
	Subject     string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	Status      Status
	AllDay      bool

	// SeriesID is shared by all events generated by one recurring
	// creation. Empty for single events.
	SeriesID string
}

// Key is the natural identity of an event within one calendar.
type Key struct {
	Subject string
	Start   int64 // unix nanoseconds, so keys compare equal across locations
}

// NewEvent builds a public, non-series event and validates its fields.
func NewEvent(subject string, start, end time.Time) (Event, error) {
	ev := Event{
		Subject: subject,
		Start:   start,
		End:     end,
		Status:  StatusPublic,
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// NewAllDayEvent builds an event covering the whole of date's calendar day
// in date's location.
func NewAllDayEvent(subject string, date time.Time) (Event, error) {
	start, end := DayBounds(date)
	ev, err := NewEvent(subject, start, end)
	if err != nil {
		return Event{}, err
	}
	ev.AllDay = true
	return ev, nil
}

// Validate checks the subject and interval invariants.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("%w: subject must not be empty", ErrInvalidFormat)
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			FormatDateTime(e.End), FormatDateTime(e.Start))
	}
	return nil
}

// Key returns the (subject, start) identity of the event.
func (e Event) Key() Key {
	return KeyOf(e.Subject, e.Start)
}

// KeyOf builds the lookup key for a subject and start timestamp.
func KeyOf(subject string, start time.Time) Key {
	return Key{Subject: subject, Start: start.UnixNano()}
}

// Duration returns the length of the event.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Contains reports whether t falls within [Start, End], bounds included.
func (e Event) Contains(t time.Time) bool {
	return !t.Before(e.Start) && !t.After(e.End)
}

// Intersects reports whether the event overlaps the inclusive window
// [from, to].
func (e Event) Intersects(from, to time.Time) bool {
	return !e.End.Before(from) && !to.Before(e.Start)
}

// InSeries reports whether the event belongs to a recurring series.
func (e Event) InSeries() bool {
	return e.SeriesID != ""
}

// In returns a copy of the event with its timestamps expressed in loc.
func (e Event) In(loc *time.Location) Event {
	e.Start = e.Start.In(loc)
	e.End = e.End.In(loc)
	return e
}

// Availability is the result of an instant-in-time conflict query.
type Availability int

const (
	Free Availability = iota
	Busy
)

func (a Availability) String() string {
	if a == Busy {
		return "Busy"
	}
	return "Free"
}

// Recurrence describes how a series repeats: on the given weekdays starting
// at the anchor date, stopping after Count occurrences or after the Until
// date (inclusive). Exactly one termination rule is set.
type Recurrence struct {
	Weekdays []time.Weekday
	Count    int
	Until    time.Time
}

// Validate checks the weekday set and the termination rule against the
// series anchor.
func (r Recurrence) Validate(anchor time.Time) error {
	if len(r.Weekdays) == 0 {
		return fmt.Errorf("%w: At least one weekday must be specified", ErrInvalidWeekday)
	}
	hasUntil := !r.Until.IsZero()
	switch {
	case r.Count > 0 && hasUntil:
		return fmt.Errorf("%w: series takes either an occurrence count or an until date, not both", ErrInvalidRange)
	case r.Count < 0 || (r.Count == 0 && !hasUntil):
		return fmt.Errorf("%w: occurrence count must be at least 1", ErrInvalidRange)
	case hasUntil && DaysBetween(anchor, r.Until) < 0:
		return fmt.Errorf("%w: until date %s is before series start %s", ErrInvalidRange,
			FormatDate(r.Until), FormatDate(anchor))
	}
	return nil
}

// Occurrence is one generated instance of a series.
type Occurrence struct {
	Start time.Time
	End   time.Time
}
