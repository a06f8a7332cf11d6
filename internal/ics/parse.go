package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Read parses an iCalendar stream produced by Write back into events
// expressed in loc. It maps the fields Write emits and nothing more: UIDs,
// DTSTAMP and series identity are not reconstructed.
func Read(r io.Reader, loc *time.Location) ([]model.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}

	events := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	var out model.Event
	out.Status = model.StatusPublic

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Subject = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty(propertyClass); p != nil && strings.EqualFold(p.Value, "PRIVATE") {
		out.Status = model.StatusPrivate
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	endProp := ve.GetProperty(ical.ComponentPropertyDtEnd)
	if startProp == nil || endProp == nil {
		return out, fmt.Errorf("%w: VEVENT missing DTSTART or DTEND", model.ErrInvalidFormat)
	}

	start, err := parseICSTime(startProp.Value, loc)
	if err != nil {
		return out, err
	}
	end, err := parseICSTime(endProp.Value, loc)
	if err != nil {
		return out, err
	}

	// VALUE=DATE or no 'T' in the value -> all-day, with an exclusive end date.
	if !strings.Contains(startProp.Value, "T") {
		out.AllDay = true
		out.Start, _ = model.DayBounds(start)
		_, out.End = model.DayBounds(end.AddDate(0, 0, -1))
		return out, nil
	}

	out.Start = start
	out.End = end
	return out, nil
}

// parseICSTime parses the DATE and DATE-TIME forms Write produces.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty time value", model.ErrInvalidFormat)
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse("20060102T150405Z", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: parse %q: %v", model.ErrInvalidFormat, v, err)
		}
		return t.In(loc), nil
	}

	// Floating date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return parseIn("20060102T150405", v, loc)
	}

	// Date-only (all-day), e.g., 20250101
	return parseIn("20060102", v, loc)
}

func parseIn(layout, v string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse %q: %v", model.ErrInvalidFormat, v, err)
	}
	return t, nil
}
