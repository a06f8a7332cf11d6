package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/calendar"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/export"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// EventOptions configures the event command handlers.
type EventOptions struct {
	// ExportDir is the directory relative export file names resolve against.
	ExportDir string
	// Now returns the export timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewEventDispatcher returns the dispatcher for commands that operate on a
// single calendar.
func NewEventDispatcher(opts EventOptions) *Dispatcher[*calendar.Calendar] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return NewDispatcher(
		handle("create event", createEvent),
		handle("edit event", editEvent),
		handle("edit events", editEvents),
		handle("edit series", editSeries),
		handle("print events", printEvents),
		handle("show status", showStatus),
		handle("export", func(a *args, cal *calendar.Calendar, view View) error {
			return exportEvents(a, cal, view, opts)
		}),
	)
}

// create event <subject> from <start> to <end> [repeats ...]
// create event <subject> on <date> [repeats ...]
func createEvent(a *args, cal *calendar.Calendar, view View) error {
	subject, err := a.upTo("subject", "from", "on")
	if err != nil {
		return err
	}
	loc := cal.Location()

	var (
		start, end time.Time
		allDay     bool
	)
	switch {
	case a.peekIs("from"):
		a.pos++
		if start, err = nextDateTime(a, "start", loc); err != nil {
			return err
		}
		if err := a.expect("to"); err != nil {
			return err
		}
		if end, err = nextDateTime(a, "end", loc); err != nil {
			return err
		}
	case a.peekIs("on"):
		a.pos++
		if start, err = nextDate(a, "date", loc); err != nil {
			return err
		}
		allDay = true
	default:
		return a.errorf("expected from or on")
	}

	if a.done() {
		if allDay {
			ev, err := cal.CreateAllDayEvent(subject, start)
			if err != nil {
				return err
			}
			view.Message(fmt.Sprintf("Created all-day event %q on %s", ev.Subject, model.FormatDate(ev.Start)))
			return nil
		}
		ev, err := cal.CreateSingleEvent(subject, start, end)
		if err != nil {
			return err
		}
		view.Message(fmt.Sprintf("Created event %q from %s to %s", ev.Subject,
			model.FormatDateTime(ev.Start), model.FormatDateTime(ev.End)))
		return nil
	}

	rec, err := parseRepeats(a, loc)
	if err != nil {
		return err
	}
	evs, err := cal.CreateSeries(calendar.SeriesSpec{
		Subject:    subject,
		Start:      start,
		End:        end,
		AllDay:     allDay,
		Recurrence: rec,
	})
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Created series %q with %d occurrences on %s", subject, len(evs),
		model.FormatWeekdays(rec.Weekdays)))
	return nil
}

// repeats <weekdays> for <N> times | repeats <weekdays> until <date>
func parseRepeats(a *args, loc *time.Location) (model.Recurrence, error) {
	var rec model.Recurrence
	if err := a.expect("repeats"); err != nil {
		return rec, err
	}
	tok, err := a.next("weekdays")
	if err != nil {
		return rec, err
	}
	if rec.Weekdays, err = model.ParseWeekdays(tok); err != nil {
		return rec, err
	}

	switch {
	case a.peekIs("for"):
		a.pos++
		n, err := a.next("occurrence count")
		if err != nil {
			return rec, err
		}
		if rec.Count, err = strconv.Atoi(n); err != nil {
			return rec, a.errorf("occurrence count must be a number, got %q", n)
		}
		if rec.Count < 1 {
			return rec, fmt.Errorf("%w: occurrence count must be at least 1, got %d", model.ErrInvalidRange, rec.Count)
		}
		if err := a.expect("times"); err != nil {
			return rec, err
		}
	case a.peekIs("until"):
		a.pos++
		if rec.Until, err = nextDate(a, "until date", loc); err != nil {
			return rec, err
		}
	default:
		return rec, a.errorf("expected for <N> times or until <date>")
	}
	return rec, a.end()
}

// editTarget is the common "<property> <subject> from <start>" prefix of
// the edit commands.
type editTarget struct {
	field   model.Field
	subject string
	start   time.Time
}

func parseEditTarget(a *args, loc *time.Location) (editTarget, error) {
	var t editTarget
	prop, err := a.next("property")
	if err != nil {
		return t, err
	}
	if t.field, err = model.ParseField(prop); err != nil {
		return t, err
	}
	if t.subject, err = a.upTo("subject", "from"); err != nil {
		return t, err
	}
	if err := a.expect("from"); err != nil {
		return t, err
	}
	t.start, err = nextDateTime(a, "start", loc)
	return t, err
}

func parseWith(a *args) (string, error) {
	if err := a.expect("with"); err != nil {
		return "", err
	}
	return a.rest(), nil
}

// edit event <property> <subject> from <start> [to <end>] with <value>
func editEvent(a *args, cal *calendar.Calendar, view View) error {
	t, err := parseEditTarget(a, cal.Location())
	if err != nil {
		return err
	}
	var end time.Time
	if a.peekIs("to") {
		a.pos++
		if end, err = nextDateTime(a, "end", cal.Location()); err != nil {
			return err
		}
	}
	value, err := parseWith(a)
	if err != nil {
		return err
	}

	var ev model.Event
	if end.IsZero() {
		ev, err = cal.EditEventFrom(t.subject, t.field, t.start, value)
	} else {
		ev, err = cal.EditSingleEvent(t.subject, t.field, t.start, end, value)
	}
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Updated %s of event %q", t.field, ev.Subject))
	return nil
}

// edit events <property> <subject> from <start> with <value>
func editEvents(a *args, cal *calendar.Calendar, view View) error {
	return editMany(a, cal, view, cal.EditSeriesFrom)
}

// edit series <property> <subject> from <start> with <value>
func editSeries(a *args, cal *calendar.Calendar, view View) error {
	return editMany(a, cal, view, cal.EditSeries)
}

func editMany(a *args, cal *calendar.Calendar, view View,
	apply func(string, model.Field, time.Time, string) ([]model.Event, error)) error {
	t, err := parseEditTarget(a, cal.Location())
	if err != nil {
		return err
	}
	value, err := parseWith(a)
	if err != nil {
		return err
	}
	evs, err := apply(t.subject, t.field, t.start, value)
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Updated %s of %d event(s)", t.field, len(evs)))
	return nil
}

// print events on <date>
// print events from <start> to <end>
func printEvents(a *args, cal *calendar.Calendar, view View) error {
	loc := cal.Location()
	switch {
	case a.peekIs("on"):
		a.pos++
		date, err := nextDate(a, "date", loc)
		if err != nil {
			return err
		}
		if err := a.end(); err != nil {
			return err
		}
		view.Events("Events on "+model.FormatDate(date), cal.EventsOnDate(date))
		return nil
	case a.peekIs("from"):
		a.pos++
		from, err := nextBound(a, "start", loc, false)
		if err != nil {
			return err
		}
		if err := a.expect("to"); err != nil {
			return err
		}
		to, err := nextBound(a, "end", loc, true)
		if err != nil {
			return err
		}
		if err := a.end(); err != nil {
			return err
		}
		evs, err := cal.EventsInRange(from, to)
		if err != nil {
			return err
		}
		view.Events(fmt.Sprintf("Events from %s to %s", model.FormatDateTime(from), model.FormatDateTime(to)), evs)
		return nil
	}
	return a.errorf("expected on <date> or from <start> to <end>")
}

// show status on <date-time>
func showStatus(a *args, cal *calendar.Calendar, view View) error {
	if err := a.expect("on"); err != nil {
		return err
	}
	at, err := nextDateTime(a, "date-time", cal.Location())
	if err != nil {
		return err
	}
	if err := a.end(); err != nil {
		return err
	}
	view.Status(at, cal.IsBusy(at))
	return nil
}

// export <format> <filename>
func exportEvents(a *args, cal *calendar.Calendar, view View, opts EventOptions) error {
	name, err := a.next("format")
	if err != nil {
		return err
	}
	file, err := a.next("file name")
	if err != nil {
		return err
	}
	if err := a.end(); err != nil {
		return err
	}
	format, err := export.ParseFormat(name, file)
	if err != nil {
		return err
	}
	path, err := export.ToFile(format, opts.ExportDir, file, cal, opts.Now())
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Exported %d event(s) to %s", cal.Len(), path))
	return nil
}

func nextDate(a *args, what string, loc *time.Location) (time.Time, error) {
	tok, err := a.next(what)
	if err != nil {
		return time.Time{}, err
	}
	return model.ParseDate(tok, loc)
}

func nextDateTime(a *args, what string, loc *time.Location) (time.Time, error) {
	tok, err := a.next(what)
	if err != nil {
		return time.Time{}, err
	}
	return model.ParseDateTime(tok, loc)
}

// nextBound accepts a date-time or a bare date. A bare date means the start
// of that day, or its last second when endOfDay is set.
func nextBound(a *args, what string, loc *time.Location, endOfDay bool) (time.Time, error) {
	tok, err := a.next(what)
	if err != nil {
		return time.Time{}, err
	}
	if !strings.Contains(tok, "T") {
		d, err := model.ParseDate(tok, loc)
		if err != nil {
			return time.Time{}, err
		}
		s, e := model.DayBounds(d)
		if endOfDay {
			return e, nil
		}
		return s, nil
	}
	return model.ParseDateTime(tok, loc)
}
