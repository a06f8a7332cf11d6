package command

import (
	"fmt"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/calendar"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// NewCalendarDispatcher returns the dispatcher for calendar management and
// cross-calendar copy commands.
func NewCalendarDispatcher() *Dispatcher[*calendar.Registry] {
	return NewDispatcher(
		handle("create calendar", createCalendar),
		handle("edit calendar", editCalendar),
		handle("use calendar", useCalendar),
		handle("copy event", copyEvent),
		handle("copy events", copyEvents),
	)
}

// create calendar --name <name> --timezone <zone>
func createCalendar(a *args, reg *calendar.Registry, view View) error {
	f, err := a.flags()
	if err != nil {
		return err
	}
	if err := a.requireFlags(f, "name", "timezone"); err != nil {
		return err
	}
	cal, err := reg.AddCalendar(f["name"], f["timezone"])
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Created calendar %q (%s)", cal.Name(), cal.Location()))
	return nil
}

// edit calendar --name <name> --property <name|timezone> --value <value>
func editCalendar(a *args, reg *calendar.Registry, view View) error {
	f, err := a.flags()
	if err != nil {
		return err
	}
	if err := a.requireFlags(f, "name", "property", "value"); err != nil {
		return err
	}
	if err := reg.EditCalendar(f["name"], f["property"], f["value"]); err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Updated %s of calendar %q", f["property"], f["name"]))
	return nil
}

// use calendar --name <name>
func useCalendar(a *args, reg *calendar.Registry, view View) error {
	f, err := a.flags()
	if err != nil {
		return err
	}
	if err := a.requireFlags(f, "name"); err != nil {
		return err
	}
	if err := reg.UseCalendar(f["name"]); err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Using calendar %q", f["name"]))
	return nil
}

// copy event <subject> on <start> --target <calendar> to <start>
func copyEvent(a *args, reg *calendar.Registry, view View) error {
	src, err := activeLocation(reg)
	if err != nil {
		return err
	}
	subject, err := a.upTo("subject", "on")
	if err != nil {
		return err
	}
	if err := a.expect("on"); err != nil {
		return err
	}
	start, err := nextDateTime(a, "start", src)
	if err != nil {
		return err
	}
	target, dst, err := parseTarget(a, reg)
	if err != nil {
		return err
	}
	targetStart, err := nextDateTime(a, "target start", dst)
	if err != nil {
		return err
	}
	if err := a.end(); err != nil {
		return err
	}

	ev, err := reg.CopyEvent(subject, start, target, targetStart)
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Copied %q to calendar %q at %s", ev.Subject, target, model.FormatDateTime(ev.Start)))
	return nil
}

// copy events on <date> --target <calendar> to <date>
// copy events between <date> and <date> --target <calendar> to <date>
func copyEvents(a *args, reg *calendar.Registry, view View) error {
	src, err := activeLocation(reg)
	if err != nil {
		return err
	}

	var from, to time.Time
	switch {
	case a.peekIs("on"):
		a.pos++
		if from, err = nextDate(a, "date", src); err != nil {
			return err
		}
		to = from
	case a.peekIs("between"):
		a.pos++
		if from, err = nextDate(a, "start date", src); err != nil {
			return err
		}
		if err := a.expect("and"); err != nil {
			return err
		}
		if to, err = nextDate(a, "end date", src); err != nil {
			return err
		}
		if to.Before(from) {
			return fmt.Errorf("%w: end date %s is before start date %s", model.ErrInvalidRange,
				model.FormatDate(to), model.FormatDate(from))
		}
	default:
		return a.errorf("expected on <date> or between <date> and <date>")
	}

	target, dst, err := parseTarget(a, reg)
	if err != nil {
		return err
	}
	targetDate, err := nextDate(a, "target date", dst)
	if err != nil {
		return err
	}
	if err := a.end(); err != nil {
		return err
	}

	copies, err := reg.CopyEventsBetween(from, to, target, targetDate)
	if err != nil {
		return err
	}
	view.Message(fmt.Sprintf("Copied %d event(s) to calendar %q", len(copies), target))
	return nil
}

// parseTarget reads "--target <calendar> to" and returns the calendar name
// and its location.
func parseTarget(a *args, reg *calendar.Registry) (string, *time.Location, error) {
	if err := a.expect("--target"); err != nil {
		return "", nil, err
	}
	name, err := a.next("target calendar")
	if err != nil {
		return "", nil, err
	}
	cal, err := reg.Calendar(name)
	if err != nil {
		return "", nil, err
	}
	if err := a.expect("to"); err != nil {
		return "", nil, err
	}
	return name, cal.Location(), nil
}

func activeLocation(reg *calendar.Registry) (*time.Location, error) {
	cal, ok := reg.ActiveCalendar()
	if !ok {
		return nil, fmt.Errorf("%w: no active calendar; use 'use calendar --name <name>'", model.ErrNotFound)
	}
	return cal.Location(), nil
}
