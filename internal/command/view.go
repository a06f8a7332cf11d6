package command

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// View receives the results of successful commands. Handlers never write
// errors to it; the controller reports those through Error.
type View interface {
	Message(msg string)
	Events(title string, events []model.Event)
	Status(at time.Time, a model.Availability)
	Error(msg string)
}

// TextView renders command results as plain text lines.
type TextView struct {
	w io.Writer
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

func (v *TextView) Message(msg string) {
	fmt.Fprintln(v.w, msg)
}

func (v *TextView) Events(title string, events []model.Event) {
	fmt.Fprintln(v.w, title)
	if len(events) == 0 {
		fmt.Fprintln(v.w, "  No events.")
		return
	}
	for _, ev := range events {
		fmt.Fprintln(v.w, "  "+FormatEvent(ev))
	}
}

func (v *TextView) Status(at time.Time, a model.Availability) {
	fmt.Fprintf(v.w, "%s at %s\n", a, model.FormatDateTime(at))
}

func (v *TextView) Error(msg string) {
	fmt.Fprintln(v.w, msg)
}

// FormatEvent renders one event as a single listing line, e.g.
//
//	- Sync: 2025-10-24T10:00 to 2025-10-24T11:00 at Room 4 [private]
func FormatEvent(ev model.Event) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(ev.Subject)
	b.WriteString(": ")
	if ev.AllDay {
		b.WriteString(model.FormatDate(ev.Start))
		b.WriteString(" (all day)")
	} else {
		b.WriteString(model.FormatDateTime(ev.Start))
		b.WriteString(" to ")
		b.WriteString(model.FormatDateTime(ev.End))
	}
	if ev.Location != "" {
		b.WriteString(" at ")
		b.WriteString(ev.Location)
	}
	if ev.Status == model.StatusPrivate {
		b.WriteString(" [private]")
	}
	return b.String()
}
