package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

const (
	csvDateLayout        = "01/02/2006"
	csvTimeLayout        = "03:04 PM"
	csvTimeSecondsLayout = "03:04:05 PM"
)

var csvHeader = []string{
	"Subject",
	"Start Date",
	"Start Time",
	"End Date",
	"End Time",
	"All Day Event",
	"Description",
	"Location",
	"Private",
}

// WriteCSV writes one row per event under the header row. All-day rows
// leave both time columns empty.
func WriteCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			ev.Subject,
			ev.Start.Format(csvDateLayout),
			"",
			ev.End.Format(csvDateLayout),
			"",
			boolField(ev.AllDay),
			ev.Description,
			ev.Location,
			boolField(ev.Status == model.StatusPrivate),
		}
		if !ev.AllDay {
			row[2] = formatClock(ev.Start)
			row[4] = formatClock(ev.End)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows produced by WriteCSV back into events in loc. Times
// carry second precision; all-day rows get full-day bounds.
func ReadCSV(r io.Reader, loc *time.Location) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv: missing header", model.ErrInvalidFormat)
		}
		return nil, fmt.Errorf("%w: csv: %v", model.ErrInvalidFormat, err)
	}
	if !strings.EqualFold(header[0], csvHeader[0]) {
		return nil, fmt.Errorf("%w: csv: unexpected header %q", model.ErrInvalidFormat, header)
	}

	var events []model.Event
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", model.ErrInvalidFormat, err)
		}
		ev, err := parseRow(rec, loc)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRow(rec []string, loc *time.Location) (model.Event, error) {
	allDay, err := parseBool(rec[5])
	if err != nil {
		return model.Event{}, err
	}
	private, err := parseBool(rec[8])
	if err != nil {
		return model.Event{}, err
	}

	var ev model.Event
	if allDay {
		date, err := time.ParseInLocation(csvDateLayout, rec[1], loc)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: start date %q", model.ErrInvalidFormat, rec[1])
		}
		ev, err = model.NewAllDayEvent(rec[0], date)
		if err != nil {
			return model.Event{}, err
		}
	} else {
		start, err := parseStamp(rec[1], rec[2], loc)
		if err != nil {
			return model.Event{}, err
		}
		end, err := parseStamp(rec[3], rec[4], loc)
		if err != nil {
			return model.Event{}, err
		}
		ev, err = model.NewEvent(rec[0], start, end)
		if err != nil {
			return model.Event{}, err
		}
	}

	ev.Description = rec[6]
	ev.Location = rec[7]
	if private {
		ev.Status = model.StatusPrivate
	}
	return ev, nil
}

// formatClock writes seconds only when they are set.
func formatClock(t time.Time) string {
	if t.Second() != 0 {
		return t.Format(csvTimeSecondsLayout)
	}
	return t.Format(csvTimeLayout)
}

func parseStamp(date, clock string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{csvTimeLayout, csvTimeSecondsLayout} {
		if t, err := time.ParseInLocation(csvDateLayout+" "+layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q %q", model.ErrInvalidFormat, date, clock)
}

func boolField(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: expected True or False, got %q", model.ErrInvalidFormat, s)
	}
	return b, nil
}
