package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

const (
	defaultMaxOccurrencesPerSeries = 5000
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// ExpandSeries turns a weekly recurrence anchored at start into concrete
// occurrences. start and end give the time-of-day window of every
// occurrence and must fall on the same date; the anchor date itself is only
// emitted when its weekday is part of the rule.
//
// The walk is a WEEKLY rule with BYDAY, bounded by COUNT or by an UNTIL at
// the last second of the until date, so an until date is inclusive.
func ExpandSeries(rec model.Recurrence, start, end time.Time) ([]model.Occurrence, error) {
	if err := rec.Validate(start); err != nil {
		return nil, err
	}
	if !model.SameDate(start, end) {
		return nil, fmt.Errorf("%w: series occurrences must start and end on the same day", model.ErrInvalidRange)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end is before start", model.ErrInvalidRange)
	}
	if rec.Count > defaultMaxOccurrencesPerSeries {
		return nil, fmt.Errorf("%w: a series may have at most %d occurrences", model.ErrInvalidRange, defaultMaxOccurrencesPerSeries)
	}

	opt := rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start,
		Wkst:    rrule.MO,
		Count:   rec.Count,
	}
	for _, wd := range rec.Weekdays {
		opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
	}
	if !rec.Until.IsZero() {
		y, m, d := rec.Until.Date()
		opt.Until = time.Date(y, m, d, 23, 59, 59, 0, start.Location())
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRange, err)
	}

	out := make([]model.Occurrence, 0)
	next := r.Iterator()
	for {
		occStart, ok := next()
		if !ok {
			break
		}
		if len(out) == defaultMaxOccurrencesPerSeries {
			return nil, fmt.Errorf("%w: a series may have at most %d occurrences", model.ErrInvalidRange, defaultMaxOccurrencesPerSeries)
		}
		occStart = occStart.In(start.Location())
		y, m, d := occStart.Date()
		occEnd := time.Date(y, m, d, end.Hour(), end.Minute(), end.Second(), 0, start.Location())
		out = append(out, model.Occurrence{Start: occStart, End: occEnd})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: recurrence produces no occurrences", model.ErrInvalidRange)
	}
	return out, nil
}
