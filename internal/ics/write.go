package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

const productName = "calengine"

// uidNamespace seeds the name-based UIDs so that exporting the same event
// twice yields the same UID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("calengine.invalid"))

// Source describes the calendar an export is taken from.
type Source struct {
	Name     string
	Location *time.Location
}

// EventUID returns the stable identifier of an event within a calendar.
func EventUID(calendarName string, ev model.Event) string {
	name := calendarName + "\x00" + ev.Subject + "\x00" + ev.Start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

// Write serializes events as an iCalendar stream, one VEVENT per event.
//
//   - Timed events carry DTSTART/DTEND as UTC stamps (YYYYMMDDThhmmssZ).
//   - All-day events use VALUE=DATE with an exclusive DTEND on the next day.
//   - Free-text values are passed raw; the encoder escapes TEXT properties.
//   - stamp is written as DTSTAMP on every event.
func Write(w io.Writer, src Source, events []model.Event, stamp time.Time) error {
	cal := ical.NewCalendarFor(productName)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(src.Name)
	if src.Location != nil {
		cal.SetXWRTimezone(src.Location.String())
	}

	for _, ev := range events {
		ve := cal.AddEvent(EventUID(src.Name, ev))
		ve.SetDtStampTime(stamp)

		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.Start.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}

		ve.SetProperty(ical.ComponentPropertySummary, ev.Subject)
		if ev.Description != "" {
			ve.SetProperty(ical.ComponentPropertyDescription, ev.Description)
		}
		if ev.Location != "" {
			ve.SetProperty(ical.ComponentPropertyLocation, ev.Location)
		}
		ve.SetProperty(propertyClass, classFor(ev.Status))
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

const propertyClass = ical.ComponentProperty("CLASS")

func classFor(s model.Status) string {
	if s == model.StatusPrivate {
		return "PRIVATE"
	}
	return "PUBLIC"
}
