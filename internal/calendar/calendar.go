// Package calendar holds the in-memory calendar model: calendars owning
// single and recurring events, and the registry that owns calendars.
//
// Nothing in this package logs or prints. Failures are returned as errors
// wrapping the kinds declared in internal/model, and a failed mutation
// leaves the calendar exactly as it was.
package calendar

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/ics"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Calendar is a named collection of events in one time zone. No two events
// share the same (subject, start).
type Calendar struct {
	name   string
	loc    *time.Location
	events map[model.Key]model.Event
	series *seriesIndex
}

// New creates an empty calendar.
func New(name string, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{
		name:   name,
		loc:    loc,
		events: make(map[model.Key]model.Event),
		series: newSeriesIndex(),
	}
}

// Name returns the calendar's name.
func (c *Calendar) Name() string { return c.name }

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Len returns the number of stored events.
func (c *Calendar) Len() int { return len(c.events) }

// SetLocation moves the calendar to another zone. Events keep their
// instants; only their wall-clock rendering changes.
func (c *Calendar) SetLocation(loc *time.Location) {
	for k, ev := range c.events {
		c.events[k] = ev.In(loc)
	}
	c.loc = loc
}

// CreateSingleEvent adds a timed event.
func (c *Calendar) CreateSingleEvent(subject string, start, end time.Time) (model.Event, error) {
	ev, err := model.NewEvent(subject, start.In(c.loc), end.In(c.loc))
	if err != nil {
		return model.Event{}, err
	}
	if err := c.insert([]model.Event{ev}, nil); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// CreateAllDayEvent adds an event covering the whole of date.
func (c *Calendar) CreateAllDayEvent(subject string, date time.Time) (model.Event, error) {
	ev, err := model.NewAllDayEvent(subject, date.In(c.loc))
	if err != nil {
		return model.Event{}, err
	}
	if err := c.insert([]model.Event{ev}, nil); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// SeriesSpec describes a recurring creation. For all-day series only the
// date of Start is used.
type SeriesSpec struct {
	Subject    string
	Start      time.Time
	End        time.Time
	AllDay     bool
	Recurrence model.Recurrence
}

// CreateSeries expands spec into occurrences sharing a new series id and
// inserts all of them, or none if any occurrence collides with an existing
// event.
func (c *Calendar) CreateSeries(spec SeriesSpec) ([]model.Event, error) {
	start, end := spec.Start.In(c.loc), spec.End.In(c.loc)
	if spec.AllDay {
		start, end = model.DayBounds(start)
	}

	proto, err := model.NewEvent(spec.Subject, start, end)
	if err != nil {
		return nil, err
	}

	occ, err := ics.ExpandSeries(spec.Recurrence, start, end)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	events := make([]model.Event, 0, len(occ))
	for _, o := range occ {
		ev := proto
		ev.Start, ev.End = o.Start, o.End
		ev.AllDay = spec.AllDay
		ev.SeriesID = id
		events = append(events, ev)
	}

	rule := spec.Recurrence
	rule.Weekdays = slices.Clone(rule.Weekdays)
	if err := c.insert(events, map[string]model.Recurrence{id: rule}); err != nil {
		return nil, err
	}
	return events, nil
}

// Find returns the event with the given subject and start.
func (c *Calendar) Find(subject string, start time.Time) (model.Event, bool) {
	ev, ok := c.events[model.KeyOf(subject, start)]
	return ev, ok
}

func (c *Calendar) lookup(subject string, start, end time.Time) (model.Event, error) {
	ev, ok := c.Find(subject, start)
	if !ok || (!end.IsZero() && !ev.End.Equal(end)) {
		desc := model.FormatDateTime(start.In(c.loc))
		if !end.IsZero() {
			desc += " to " + model.FormatDateTime(end.In(c.loc))
		}
		return model.Event{}, fmt.Errorf("%w: no event %q at %s in calendar %q", model.ErrNotFound, subject, desc, c.name)
	}
	return ev, nil
}

// EditSingleEvent changes one field of the event identified by subject and
// start. A non-zero end must match the event's end as well.
func (c *Calendar) EditSingleEvent(subject string, field model.Field, start, end time.Time, value string) (model.Event, error) {
	ev, err := c.lookup(subject, start, end)
	if err != nil {
		return model.Event{}, err
	}
	out, err := c.edit(ev, []model.Event{ev}, field, value, false)
	if err != nil {
		return model.Event{}, err
	}
	return out[0], nil
}

// EditEventFrom changes one field of the single event identified by subject
// and start.
func (c *Calendar) EditEventFrom(subject string, field model.Field, start time.Time, value string) (model.Event, error) {
	return c.EditSingleEvent(subject, field, start, time.Time{}, value)
}

// EditSeriesFrom changes one field of the event at (subject, start) and of
// every later member of its series. An event outside any series is edited
// alone.
func (c *Calendar) EditSeriesFrom(subject string, field model.Field, start time.Time, value string) ([]model.Event, error) {
	anchor, err := c.lookup(subject, start, time.Time{})
	if err != nil {
		return nil, err
	}
	if !anchor.InSeries() {
		return c.edit(anchor, []model.Event{anchor}, field, value, false)
	}
	keys := c.series.membersFrom(anchor.SeriesID, anchor.Start)
	split := len(keys) < c.series.size(anchor.SeriesID)
	return c.edit(anchor, c.eventsFor(keys), field, value, split)
}

// EditSeries changes one field of every member of the series the event at
// (subject, start) belongs to. An event outside any series is edited alone.
func (c *Calendar) EditSeries(subject string, field model.Field, start time.Time, value string) ([]model.Event, error) {
	anchor, err := c.lookup(subject, start, time.Time{})
	if err != nil {
		return nil, err
	}
	if !anchor.InSeries() {
		return c.edit(anchor, []model.Event{anchor}, field, value, false)
	}
	return c.edit(anchor, c.eventsFor(c.series.members(anchor.SeriesID)), field, value, false)
}

func (c *Calendar) eventsFor(keys []model.Key) []model.Event {
	out := make([]model.Event, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.events[k])
	}
	return out
}

// edit applies value to field on every event in targets. The value is taken
// literally for anchor; for time fields the other targets move by the same
// number of days and take the same wall-clock time. When split is set and a
// start time changes, the edited events leave their series for a new one.
func (c *Calendar) edit(anchor model.Event, targets []model.Event, field model.Field, value string, split bool) ([]model.Event, error) {
	edited, err := field.Apply(anchor, value, c.loc)
	if err != nil {
		return nil, err
	}

	var days int
	var clock time.Time
	if field.IsTime() {
		clock = field.Get(edited)
		days = model.DaysBetween(field.Get(anchor), clock)
	}

	var rules map[string]model.Recurrence
	newID := ""
	if split && field == model.FieldStart && anchor.InSeries() {
		newID = uuid.NewString()
		rule, _ := c.series.rule(anchor.SeriesID)
		rule.Weekdays = slices.Clone(rule.Weekdays)
		if rule.Count > 0 {
			rule.Count = len(targets)
		}
		rules = map[string]model.Recurrence{newID: rule}
	}

	out := make([]model.Event, 0, len(targets))
	for _, ev := range targets {
		var next model.Event
		switch {
		case ev.Key() == anchor.Key():
			next = edited
		case field.IsTime():
			next = field.Reanchor(ev, days, clock)
		default:
			if next, err = field.Apply(ev, value, c.loc); err != nil {
				return nil, err
			}
		}
		if newID != "" {
			next.SeriesID = newID
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		out = append(out, next)
	}

	if err := c.replace(targets, out, rules); err != nil {
		return nil, err
	}
	return out, nil
}

// insert adds events after checking that none collides with a stored event
// or with another event in the batch. rules defines any new series ids.
func (c *Calendar) insert(events []model.Event, rules map[string]model.Recurrence) error {
	return c.replace(nil, events, rules)
}

// replace swaps old for updated in one step. Uniqueness is checked against
// every stored event outside old; on failure nothing changes.
func (c *Calendar) replace(old, updated []model.Event, rules map[string]model.Recurrence) error {
	leaving := make(map[model.Key]bool, len(old))
	for _, ev := range old {
		leaving[ev.Key()] = true
	}

	seen := make(map[model.Key]bool, len(updated))
	for _, ev := range updated {
		k := ev.Key()
		_, stored := c.events[k]
		if seen[k] || (stored && !leaving[k]) {
			return fmt.Errorf("%w: event %q at %s already exists in calendar %q",
				model.ErrDuplicateEvent, ev.Subject, model.FormatDateTime(ev.Start.In(c.loc)), c.name)
		}
		seen[k] = true
	}

	// Removing every member forgets the series, so keep the rules of the
	// series being rewritten.
	kept := make(map[string]model.Recurrence)
	for _, ev := range old {
		if _, ok := rules[ev.SeriesID]; ev.InSeries() && !ok {
			if rule, ok := c.series.rule(ev.SeriesID); ok {
				kept[ev.SeriesID] = rule
			}
		}
	}

	for _, ev := range old {
		k := ev.Key()
		delete(c.events, k)
		if ev.InSeries() {
			c.series.remove(ev.SeriesID, k)
		}
	}
	for id, rule := range rules {
		c.series.define(id, rule)
	}
	for _, ev := range updated {
		ev = ev.In(c.loc)
		k := ev.Key()
		c.events[k] = ev
		if ev.InSeries() {
			c.series.add(ev.SeriesID, k)
		}
	}
	for id, rule := range kept {
		if c.series.size(id) > 0 {
			c.series.define(id, rule)
		}
	}
	return nil
}

// EventsOnDate returns the events intersecting date's calendar day in this
// calendar's zone.
func (c *Calendar) EventsOnDate(date time.Time) []model.Event {
	y, m, d := date.Date()
	from, to := model.DayBounds(time.Date(y, m, d, 0, 0, 0, 0, c.loc))
	evs, _ := c.EventsInRange(from, to)
	return evs
}

// EventsInRange returns the events intersecting [from, to], both bounds
// inclusive, ordered by start and then subject.
func (c *Calendar) EventsInRange(from, to time.Time) ([]model.Event, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", model.ErrInvalidRange,
			model.FormatDateTime(to.In(c.loc)), model.FormatDateTime(from.In(c.loc)))
	}
	out := make([]model.Event, 0)
	for _, ev := range c.events {
		if ev.Intersects(from, to) {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

// IsBusy reports whether any event's [start, end] contains t.
func (c *Calendar) IsBusy(t time.Time) model.Availability {
	for _, ev := range c.events {
		if ev.Contains(t) {
			return model.Busy
		}
	}
	return model.Free
}

// AllEvents returns a sorted snapshot of every event.
func (c *Calendar) AllEvents() []model.Event {
	out := make([]model.Event, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev)
	}
	sortEvents(out)
	return out
}

// IsSeriesEvent reports whether the event at (subject, start) belongs to a
// series.
func (c *Calendar) IsSeriesEvent(subject string, start time.Time) bool {
	ev, ok := c.Find(subject, start)
	return ok && ev.InSeries()
}

// SeriesWeekdays returns the weekdays of the event's series, or nil.
func (c *Calendar) SeriesWeekdays(subject string, start time.Time) []time.Weekday {
	rule, ok := c.ruleOf(subject, start)
	if !ok {
		return nil
	}
	return slices.Clone(rule.Weekdays)
}

// SeriesUntil returns the until date of the event's series. The zero time
// means the series is count-bounded or the event is not in a series.
func (c *Calendar) SeriesUntil(subject string, start time.Time) time.Time {
	rule, _ := c.ruleOf(subject, start)
	return rule.Until
}

// SeriesOccurrenceCount returns how many events currently belong to the
// event's series, or 0.
func (c *Calendar) SeriesOccurrenceCount(subject string, start time.Time) int {
	ev, ok := c.Find(subject, start)
	if !ok || !ev.InSeries() {
		return 0
	}
	return c.series.size(ev.SeriesID)
}

func (c *Calendar) ruleOf(subject string, start time.Time) (model.Recurrence, bool) {
	ev, ok := c.Find(subject, start)
	if !ok || !ev.InSeries() {
		return model.Recurrence{}, false
	}
	return c.series.rule(ev.SeriesID)
}

func sortEvents(evs []model.Event) {
	slices.SortFunc(evs, func(a, b model.Event) int {
		if n := a.Start.Compare(b.Start); n != 0 {
			return n
		}
		return cmp.Compare(a.Subject, b.Subject)
	})
}
