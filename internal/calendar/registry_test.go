package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %q: %v", name, err)
	}
	return loc
}

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if _, err := r.AddCalendar("Work", "America/New_York"); err != nil {
		t.Fatalf("add Work: %v", err)
	}
	if _, err := r.AddCalendar("Home", "Europe/London"); err != nil {
		t.Fatalf("add Home: %v", err)
	}
	return r
}

func TestAddCalendarFirstBecomesActive(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.ActiveCalendar(); ok {
		t.Fatal("new registry should have no active calendar")
	}

	if _, err := r.AddCalendar("Work", "UTC"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := r.AddCalendar("Home", "UTC"); err != nil {
		t.Fatalf("add: %v", err)
	}
	active, ok := r.ActiveCalendar()
	if !ok || active.Name() != "Work" {
		t.Errorf("active = %v, want Work", active)
	}
}

func TestAddCalendarErrors(t *testing.T) {
	r := setupRegistry(t)

	if _, err := r.AddCalendar("Work", "UTC"); !errors.Is(err, model.ErrDuplicateCalendar) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := r.AddCalendar("Mars", "Mars/Olympus_Mons"); !errors.Is(err, model.ErrInvalidFormat) {
		t.Errorf("bad zone err = %v", err)
	}
	// Names are case-sensitive.
	if _, err := r.AddCalendar("work", "UTC"); err != nil {
		t.Errorf("case-distinct name: %v", err)
	}
	if got := r.CalendarNames(); len(got) != 3 || got[0] != "Home" || got[1] != "Work" || got[2] != "work" {
		t.Errorf("CalendarNames = %v", got)
	}
}

func TestUseCalendar(t *testing.T) {
	r := setupRegistry(t)

	if err := r.UseCalendar("Home"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := r.UseCalendar("Nonexistent"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	active, _ := r.ActiveCalendar()
	if active.Name() != "Home" {
		t.Errorf("active = %q after failed use, want Home", active.Name())
	}
}

func TestEditCalendarRenameKeepsEventsAndActive(t *testing.T) {
	r := setupRegistry(t)
	work, _ := r.Calendar("Work")
	start := time.Date(2025, 10, 24, 10, 0, 0, 0, work.Location())
	if _, err := work.CreateSingleEvent("Sync", start, start.Add(time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := r.EditCalendar("Work", "name", "Office"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := r.Calendar("Work"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("old name lookup err = %v", err)
	}
	office, err := r.Calendar("Office")
	if err != nil {
		t.Fatalf("new name lookup: %v", err)
	}
	if office != work || office.Name() != "Office" || office.Len() != 1 {
		t.Error("rename should keep the same calendar and its events")
	}
	active, _ := r.ActiveCalendar()
	if active != office {
		t.Error("active pointer should follow the rename")
	}

	if err := r.EditCalendar("Office", "name", "Home"); !errors.Is(err, model.ErrDuplicateCalendar) {
		t.Errorf("rename onto existing err = %v", err)
	}
	if err := r.EditCalendar("Nope", "name", "X"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing calendar err = %v", err)
	}
	if err := r.EditCalendar("Office", "color", "red"); !errors.Is(err, model.ErrInvalidFormat) {
		t.Errorf("unknown property err = %v", err)
	}
}

func TestEditCalendarTimezone(t *testing.T) {
	r := setupRegistry(t)
	if err := r.EditCalendar("Work", "timezone", "Asia/Tokyo"); err != nil {
		t.Fatalf("retime: %v", err)
	}
	tz, err := r.CalendarTimezone("Work")
	if err != nil || tz != "Asia/Tokyo" {
		t.Errorf("timezone = %q, %v", tz, err)
	}
	if err := r.EditCalendar("Work", "timezone", "Nowhere/City"); !errors.Is(err, model.ErrInvalidFormat) {
		t.Errorf("bad zone err = %v", err)
	}
}

func TestCopyEventAcrossZones(t *testing.T) {
	r := setupRegistry(t)
	work, _ := r.Calendar("Work")
	home, _ := r.Calendar("Home")

	start := time.Date(2025, 10, 24, 10, 0, 0, 0, work.Location())
	if _, err := work.CreateSingleEvent("Sync", start, start.Add(90*time.Minute)); err != nil {
		t.Fatalf("create: %v", err)
	}

	target := time.Date(2025, 10, 27, 9, 0, 0, 0, home.Location())
	cp, err := r.CopyEvent("Sync", start, "Home", target)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cp.Start.Location() != home.Location() || !cp.Start.Equal(target) {
		t.Errorf("copy start = %v, want %v", cp.Start, target)
	}
	if cp.Duration() != 90*time.Minute {
		t.Errorf("copy duration = %v, want 90m", cp.Duration())
	}
	if _, ok := home.Find("Sync", target); !ok {
		t.Error("copy not stored in target")
	}

	if _, err := r.CopyEvent("Sync", start, "Home", target); !errors.Is(err, model.ErrDuplicateEvent) {
		t.Errorf("second copy err = %v", err)
	}
	if _, err := r.CopyEvent("Sync", start, "Nowhere", target); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing target err = %v", err)
	}
	if _, err := r.CopyEvent("Nope", start, "Home", target); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing source err = %v", err)
	}
}

func TestCopyEventsOnConvertsZone(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddCalendar("NY", "America/New_York"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := r.AddCalendar("LA", "America/Los_Angeles"); err != nil {
		t.Fatalf("add: %v", err)
	}
	ny, _ := r.Calendar("NY")
	la, _ := r.Calendar("LA")

	start := time.Date(2025, 10, 24, 10, 0, 0, 0, ny.Location())
	if _, err := ny.CreateSingleEvent("Sync", start, start.Add(time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}

	copies, err := r.CopyEventsOn(start, "LA", time.Date(2025, 10, 30, 0, 0, 0, 0, la.Location()))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(copies) != 1 {
		t.Fatalf("copied %d events, want 1", len(copies))
	}
	got := copies[0]
	if got.Start.Day() != 30 || got.Start.Hour() != 7 {
		t.Errorf("copy start = %s, want 2025-10-30 07:00 in Los Angeles", got.Start)
	}
	if got.Duration() != time.Hour {
		t.Errorf("duration = %v", got.Duration())
	}
}

func TestCopyEventsBetweenKeepsSeriesGrouping(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddCalendar("A", "UTC"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := r.AddCalendar("B", "UTC"); err != nil {
		t.Fatalf("add: %v", err)
	}
	a, _ := r.Calendar("A")
	b, _ := r.Calendar("B")

	evs, err := a.CreateSeries(SeriesSpec{
		Subject: "Class",
		Start:   time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC),
		Recurrence: model.Recurrence{
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
			Count:    4,
		},
	})
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	from := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)
	copies, err := r.CopyEventsBetween(from, to, "B", time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(copies) != 2 {
		t.Fatalf("copied %d events, want 2", len(copies))
	}
	if copies[0].SeriesID == "" || copies[0].SeriesID != copies[1].SeriesID {
		t.Error("copied series members should share a series id")
	}
	if copies[0].SeriesID == evs[0].SeriesID {
		t.Error("copies should get a fresh series id")
	}
	if got := b.SeriesOccurrenceCount("Class", copies[0].Start); got != 2 {
		t.Errorf("target series count = %d, want 2", got)
	}
	if copies[0].Start.Day() != 3 || copies[1].Start.Day() != 5 {
		t.Errorf("copy days = %d, %d, want 3, 5", copies[0].Start.Day(), copies[1].Start.Day())
	}
}

func TestCopyEventsAtomic(t *testing.T) {
	r := setupRegistry(t)
	work, _ := r.Calendar("Work")
	home, _ := r.Calendar("Home")

	day := time.Date(2025, 10, 24, 0, 0, 0, 0, work.Location())
	for _, h := range []int{9, 13} {
		start := day.Add(time.Duration(h) * time.Hour)
		if _, err := work.CreateSingleEvent("Block", start, start.Add(time.Hour)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// Collides with the 13:00 New York block (18:00 London) once copied.
	clash := time.Date(2025, 10, 24, 18, 0, 0, 0, home.Location())
	if _, err := home.CreateSingleEvent("Block", clash, clash.Add(time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := r.CopyEventsOn(day, "Home", time.Date(2025, 10, 24, 0, 0, 0, 0, home.Location()))
	if !errors.Is(err, model.ErrDuplicateEvent) {
		t.Fatalf("err = %v, want ErrDuplicateEvent", err)
	}
	if home.Len() != 1 {
		t.Errorf("target Len = %d, want 1 (no partial copy)", home.Len())
	}
}

func TestCopyWithoutActiveCalendar(t *testing.T) {
	r := NewRegistry()
	_, err := r.CopyEventsOn(time.Now(), "X", time.Now())
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
