package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

func TestExpandSeriesCount(t *testing.T) {
	// 2025-10-20 is a Monday.
	start := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	rec := model.Recurrence{
		Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Count:    6,
	}

	occ, err := ExpandSeries(rec, start, end)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 6 {
		t.Fatalf("got %d occurrences, want 6", len(occ))
	}

	wantDays := []int{20, 22, 24, 27, 29, 31}
	for i, o := range occ {
		if o.Start.Day() != wantDays[i] {
			t.Errorf("occurrence %d day = %d, want %d", i, o.Start.Day(), wantDays[i])
		}
		if o.Start.Hour() != 9 || o.End.Hour() != 10 {
			t.Errorf("occurrence %d window = %s-%s", i, o.Start.Format("15:04"), o.End.Format("15:04"))
		}
		if i > 0 && !o.Start.After(occ[i-1].Start) {
			t.Errorf("occurrence %d not strictly after previous", i)
		}
	}
}

func TestExpandSeriesSkipsAnchorOffPattern(t *testing.T) {
	// Sunday anchor, Tuesday-only rule.
	start := time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	rec := model.Recurrence{Weekdays: []time.Weekday{time.Tuesday}, Count: 2}

	occ, err := ExpandSeries(rec, start, end)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occ))
	}
	if occ[0].Start.Day() != 21 || occ[1].Start.Day() != 28 {
		t.Errorf("got days %d and %d, want 21 and 28", occ[0].Start.Day(), occ[1].Start.Day())
	}
}

func TestExpandSeriesUntilInclusive(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	until := time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC) // a Monday

	occ, err := ExpandSeries(model.Recurrence{Weekdays: []time.Weekday{time.Monday}, Until: until}, start, end)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2 (until date is inclusive)", len(occ))
	}
}

func TestExpandSeriesKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// DST ends on 2025-11-02.
	start := time.Date(2025, 10, 27, 9, 0, 0, 0, loc)
	end := time.Date(2025, 10, 27, 10, 0, 0, 0, loc)

	occ, err := ExpandSeries(model.Recurrence{Weekdays: []time.Weekday{time.Monday}, Count: 2}, start, end)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	for _, o := range occ {
		if o.Start.Hour() != 9 || o.End.Hour() != 10 {
			t.Errorf("occurrence %s: wall clock %s-%s, want 09:00-10:00",
				o.Start.Format("2006-01-02"), o.Start.Format("15:04"), o.End.Format("15:04"))
		}
	}
}

func TestExpandSeriesErrors(t *testing.T) {
	start := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		rec  model.Recurrence
		end  time.Time
		want error
	}{
		{"no weekdays", model.Recurrence{Count: 3}, end, model.ErrInvalidWeekday},
		{"zero count", model.Recurrence{Weekdays: []time.Weekday{time.Monday}}, end, model.ErrInvalidRange},
		{"until before anchor", model.Recurrence{Weekdays: []time.Weekday{time.Monday}, Until: start.AddDate(0, 0, -1)}, end, model.ErrInvalidRange},
		{"spans two days", model.Recurrence{Weekdays: []time.Weekday{time.Monday}, Count: 1}, start.AddDate(0, 0, 1), model.ErrInvalidRange},
		{"too many", model.Recurrence{Weekdays: []time.Weekday{time.Monday}, Count: defaultMaxOccurrencesPerSeries + 1}, end, model.ErrInvalidRange},
	}

	for _, tt := range tests {
		_, err := ExpandSeries(tt.rec, start, tt.end)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	timed := model.Event{
		Subject:     "Sync, weekly; team",
		Start:       time.Date(2025, 10, 24, 10, 0, 0, 0, loc),
		End:         time.Date(2025, 10, 24, 11, 30, 0, 0, loc),
		Description: "agenda:\nitem one, item two",
		Location:    "Room 4; floor 2",
		Status:      model.StatusPrivate,
	}
	allDay, err := model.NewAllDayEvent("Holiday", time.Date(2025, 10, 3, 0, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("all-day: %v", err)
	}

	var buf bytes.Buffer
	stamp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := Write(&buf, Source{Name: "Work", Location: loc}, []model.Event{timed, allDay}, stamp); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"BEGIN:VEVENT", "DTSTART:20251024T080000Z", `Sync\, weekly\; team`, "CLASS:PRIVATE", "VALUE=DATE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	got, err := Read(strings.NewReader(out), loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}

	for i, want := range []model.Event{timed, allDay} {
		g := got[i]
		if g.Subject != want.Subject || g.Description != want.Description ||
			g.Location != want.Location || g.Status != want.Status || g.AllDay != want.AllDay {
			t.Errorf("event %d = %+v, want %+v", i, g, want)
		}
		if !g.Start.Equal(want.Start) || !g.End.Equal(want.End) {
			t.Errorf("event %d interval = %s..%s, want %s..%s", i, g.Start, g.End, want.Start, want.End)
		}
	}
}

func TestEventUIDStable(t *testing.T) {
	ev := model.Event{Subject: "Sync", Start: time.Date(2025, 10, 24, 10, 0, 0, 0, time.UTC)}
	if EventUID("Work", ev) != EventUID("Work", ev) {
		t.Error("UID should be deterministic")
	}
	if EventUID("Work", ev) == EventUID("Home", ev) {
		t.Error("UID should depend on the calendar")
	}
}

func TestWriteEscapesTextOnce(t *testing.T) {
	ev := model.Event{
		Subject:     "Lunch, team",
		Start:       time.Date(2025, 10, 24, 12, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 10, 24, 13, 0, 0, 0, time.UTC),
		Description: "a\nb",
		Location:    `Room 4; back\office`,
		Status:      model.StatusPublic,
	}

	var buf bytes.Buffer
	if err := Write(&buf, Source{Name: "Work, home", Location: time.UTC}, []model.Event{ev}, ev.Start); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := make(map[string]bool)
	for _, l := range strings.Split(buf.String(), "\n") {
		lines[strings.TrimRight(l, "\r")] = true
	}
	for _, want := range []string{
		`SUMMARY:Lunch\, team`,
		`DESCRIPTION:a\nb`,
		`LOCATION:Room 4\; back\\office`,
		`X-WR-CALNAME:Work\, home`,
	} {
		if !lines[want] {
			t.Errorf("missing line %q in:\n%s", want, buf.String())
		}
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("parsed %d events, want 1", len(events))
	}
	tests := []struct {
		prop ical.ComponentProperty
		want string
	}{
		{ical.ComponentPropertySummary, ev.Subject},
		{ical.ComponentPropertyDescription, ev.Description},
		{ical.ComponentPropertyLocation, ev.Location},
	}
	for _, tt := range tests {
		p := events[0].GetProperty(tt.prop)
		if p == nil || p.Value != tt.want {
			t.Errorf("%s = %+v, want %q", tt.prop, p, tt.want)
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing dtend", "BEGIN:VCALENDAR\nVERSION:2.0\nBEGIN:VEVENT\nUID:x\nSUMMARY:Sync\nDTSTART:20251024T100000Z\nEND:VEVENT\nEND:VCALENDAR\n"},
		{"bad stamp", "BEGIN:VCALENDAR\nVERSION:2.0\nBEGIN:VEVENT\nUID:x\nSUMMARY:Sync\nDTSTART:2025-10-24\nDTEND:20251024T110000Z\nEND:VEVENT\nEND:VCALENDAR\n"},
		{"empty stamp", "BEGIN:VCALENDAR\nVERSION:2.0\nBEGIN:VEVENT\nUID:x\nSUMMARY:Sync\nDTSTART:\nDTEND:20251024T110000Z\nEND:VEVENT\nEND:VCALENDAR\n"},
	}
	for _, tt := range tests {
		_, err := Read(strings.NewReader(tt.in), time.UTC)
		if !errors.Is(err, model.ErrInvalidFormat) {
			t.Errorf("%s: err = %v, want ErrInvalidFormat", tt.name, err)
		}
	}
}
