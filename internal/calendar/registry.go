package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Registry owns a set of uniquely named calendars and remembers which one
// is active. Names are case-sensitive.
type Registry struct {
	calendars map[string]*Calendar
	active    string
}

// NewRegistry returns an empty registry with no active calendar.
func NewRegistry() *Registry {
	return &Registry{calendars: make(map[string]*Calendar)}
}

// LoadLocation resolves an IANA zone name, reporting failures as
// ErrInvalidFormat.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: timezone must not be empty", model.ErrInvalidFormat)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", model.ErrInvalidFormat, name)
	}
	return loc, nil
}

// AddCalendar creates an empty calendar. The first calendar added becomes
// the active one.
func (r *Registry) AddCalendar(name, timezone string) (*Calendar, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: calendar name must not be empty", model.ErrInvalidFormat)
	}
	if _, ok := r.calendars[name]; ok {
		return nil, fmt.Errorf("%w: calendar %q already exists", model.ErrDuplicateCalendar, name)
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	c := New(name, loc)
	r.calendars[name] = c
	if len(r.calendars) == 1 {
		r.active = name
	}
	return c, nil
}

// Calendar returns the calendar called name.
func (r *Registry) Calendar(name string) (*Calendar, error) {
	c, ok := r.calendars[name]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %q does not exist", model.ErrNotFound, name)
	}
	return c, nil
}

// EditCalendar changes the name or timezone of a calendar. A rename keeps
// the calendar and its events and follows the active selection.
func (r *Registry) EditCalendar(name, property, value string) error {
	c, err := r.Calendar(name)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(property)) {
	case "name":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: calendar name must not be empty", model.ErrInvalidFormat)
		}
		if value == name {
			return nil
		}
		if _, ok := r.calendars[value]; ok {
			return fmt.Errorf("%w: calendar %q already exists", model.ErrDuplicateCalendar, value)
		}
		delete(r.calendars, name)
		c.name = value
		r.calendars[value] = c
		if r.active == name {
			r.active = value
		}
	case "timezone":
		loc, err := LoadLocation(value)
		if err != nil {
			return err
		}
		c.SetLocation(loc)
	default:
		return fmt.Errorf("%w: unknown calendar property %q (want name or timezone)", model.ErrInvalidFormat, property)
	}
	return nil
}

// UseCalendar makes name the active calendar. On failure the active
// calendar is unchanged.
func (r *Registry) UseCalendar(name string) error {
	if _, err := r.Calendar(name); err != nil {
		return err
	}
	r.active = name
	return nil
}

// ActiveCalendar returns the active calendar. The boolean is false when no
// calendar has been selected yet; that is a state, not an error.
func (r *Registry) ActiveCalendar() (*Calendar, bool) {
	c, ok := r.calendars[r.active]
	return c, ok
}

func (r *Registry) requireActive() (*Calendar, error) {
	c, ok := r.ActiveCalendar()
	if !ok {
		return nil, fmt.Errorf("%w: no active calendar; use 'use calendar --name <name>'", model.ErrNotFound)
	}
	return c, nil
}

// CalendarNames returns every calendar name in sorted order.
func (r *Registry) CalendarNames() []string {
	names := make([]string, 0, len(r.calendars))
	for n := range r.calendars {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// CalendarTimezone returns the zone name of a calendar.
func (r *Registry) CalendarTimezone(name string) (string, error) {
	c, err := r.Calendar(name)
	if err != nil {
		return "", err
	}
	return c.Location().String(), nil
}

// CopyEvent copies the active calendar's event at (subject, sourceStart)
// into target so that it starts at targetStart, keeping its duration. The
// copy is a single event even when the original belongs to a series.
func (r *Registry) CopyEvent(subject string, sourceStart time.Time, target string, targetStart time.Time) (model.Event, error) {
	src, err := r.requireActive()
	if err != nil {
		return model.Event{}, err
	}
	dst, err := r.Calendar(target)
	if err != nil {
		return model.Event{}, err
	}
	ev, err := src.lookup(subject, sourceStart, time.Time{})
	if err != nil {
		return model.Event{}, err
	}

	cp := ev.In(dst.Location())
	cp.Start = targetStart.In(dst.Location())
	cp.End = cp.Start.Add(ev.Duration())
	cp.SeriesID = ""
	cp.AllDay = ev.AllDay && isAllDaySpan(cp.Start, cp.End)

	if err := dst.insert([]model.Event{cp}, nil); err != nil {
		return model.Event{}, err
	}
	return cp, nil
}

// CopyEventsOn copies every event of the active calendar that intersects
// date into target, moving them to targetDate.
func (r *Registry) CopyEventsOn(date time.Time, target string, targetDate time.Time) ([]model.Event, error) {
	return r.CopyEventsBetween(date, date, target, targetDate)
}

// CopyEventsBetween copies every event of the active calendar intersecting
// the dates from..to (inclusive) into target. Each event is converted into
// the target zone and then moved by the number of days between from and
// targetFrom, so wall-clock times follow the target zone. Copied series
// members stay grouped under a fresh series id. Either every event is
// copied or none is.
func (r *Registry) CopyEventsBetween(from, to time.Time, target string, targetFrom time.Time) ([]model.Event, error) {
	src, err := r.requireActive()
	if err != nil {
		return nil, err
	}
	dst, err := r.Calendar(target)
	if err != nil {
		return nil, err
	}

	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	windowStart, _ := model.DayBounds(time.Date(fy, fm, fd, 0, 0, 0, 0, src.Location()))
	_, windowEnd := model.DayBounds(time.Date(ty, tm, td, 0, 0, 0, 0, src.Location()))
	sources, err := src.EventsInRange(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	days := model.DaysBetween(from, targetFrom)
	ids := make(map[string]string)
	rules := make(map[string]model.Recurrence)
	copies := make([]model.Event, 0, len(sources))

	for _, ev := range sources {
		cp := ev.In(dst.Location())
		cp.Start = cp.Start.AddDate(0, 0, days)
		cp.End = cp.Start.Add(ev.Duration())
		cp.AllDay = ev.AllDay && isAllDaySpan(cp.Start, cp.End)

		if ev.InSeries() {
			id, ok := ids[ev.SeriesID]
			if !ok {
				id = uuid.NewString()
				ids[ev.SeriesID] = id
				rule, _ := src.series.rule(ev.SeriesID)
				rule.Weekdays = slices.Clone(rule.Weekdays)
				if !rule.Until.IsZero() {
					rule.Until = rule.Until.AddDate(0, 0, days)
				}
				rules[id] = rule
			}
			cp.SeriesID = id
		}
		copies = append(copies, cp)
	}

	if err := dst.insert(copies, rules); err != nil {
		return nil, err
	}
	return copies, nil
}

func isAllDaySpan(start, end time.Time) bool {
	s, e := model.DayBounds(start)
	return start.Equal(s) && end.Equal(e)
}
