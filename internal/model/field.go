package model

import (
	"fmt"
	"strings"
	"time"
)

// Field names one mutable attribute of an Event.
type Field int

const (
	FieldSubject Field = iota
	FieldDescription
	FieldLocation
	FieldStart
	FieldEnd
	FieldStatus
)

var fieldNames = map[Field]string{
	FieldSubject:     "subject",
	FieldDescription: "description",
	FieldLocation:    "location",
	FieldStart:       "start",
	FieldEnd:         "end",
	FieldStatus:      "status",
}

// ParseField resolves a property name case-insensitively.
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, fn := range fieldNames {
		if fn == n {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown property %q", ErrInvalidFormat, name)
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// IsTime reports whether the field holds a timestamp.
func (f Field) IsTime() bool {
	return f == FieldStart || f == FieldEnd
}

// Apply returns a copy of ev with exactly this field replaced by the value
// parsed from raw. Timestamps are parsed in loc. Apply does not check
// Start <= End; callers validate the result once all edits are applied.
func (f Field) Apply(ev Event, raw string, loc *time.Location) (Event, error) {
	switch f {
	case FieldSubject:
		if strings.TrimSpace(raw) == "" {
			return Event{}, fmt.Errorf("%w: subject must not be empty", ErrInvalidFormat)
		}
		ev.Subject = raw
	case FieldDescription:
		ev.Description = raw
	case FieldLocation:
		ev.Location = raw
	case FieldStart:
		t, err := ParseDateTime(raw, loc)
		if err != nil {
			return Event{}, err
		}
		ev.Start = t
		ev.AllDay = false
	case FieldEnd:
		t, err := ParseDateTime(raw, loc)
		if err != nil {
			return Event{}, err
		}
		ev.End = t
		ev.AllDay = false
	case FieldStatus:
		st, err := ParseStatus(raw)
		if err != nil {
			return Event{}, err
		}
		ev.Status = st
	default:
		return Event{}, fmt.Errorf("%w: unknown property %v", ErrInvalidFormat, f)
	}
	return ev, nil
}

// Reanchor moves this timestamp field of ev by days calendar days and sets
// its wall-clock time to that of clock. It is used when one edit value is
// fanned out across several occurrences of a series, so that each
// occurrence keeps its own date.
func (f Field) Reanchor(ev Event, days int, clock time.Time) Event {
	if !f.IsTime() {
		return ev
	}
	t := f.Get(ev)
	y, m, d := t.AddDate(0, 0, days).Date()
	moved := time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, t.Location())
	if f == FieldStart {
		ev.Start = moved
	} else {
		ev.End = moved
	}
	ev.AllDay = false
	return ev
}

// Get returns the timestamp held by a time field.
func (f Field) Get(ev Event) time.Time {
	if f == FieldEnd {
		return ev.End
	}
	return ev.Start
}
