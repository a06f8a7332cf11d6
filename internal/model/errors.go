package model

import (
	"errors"
	"strings"
)

// Error kinds shared by the calendar domain and the command layer. Callers
// wrap them with context via fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrDuplicateCalendar = errors.New("duplicate calendar")
	ErrDuplicateEvent    = errors.New("duplicate event")
	ErrNotFound          = errors.New("not found")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidRange      = errors.New("invalid range")
	ErrInvalidWeekday    = errors.New("invalid weekday")
	ErrInvalidEnum       = errors.New("invalid value")
	ErrUnknownCommand    = errors.New("unknown command")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrDuplicateCalendar, "DuplicateCalendar"},
	{ErrDuplicateEvent, "DuplicateEvent"},
	{ErrNotFound, "NotFound"},
	{ErrInvalidFormat, "InvalidFormat"},
	{ErrInvalidRange, "InvalidRange"},
	{ErrInvalidWeekday, "InvalidWeekday"},
	{ErrInvalidEnum, "InvalidEnum"},
	{ErrUnknownCommand, "UnknownCommand"},
}

// Kind returns the error kind name of err, or "Error" if err does not wrap
// one of the sentinels above.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}

// Describe renders err as "<Kind>: <message>" without repeating the
// sentinel's own text. Errors of no known kind render as their message.
func Describe(err error) string {
	msg := err.Error()
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name + ": " + strings.TrimPrefix(msg, k.err.Error()+": ")
		}
	}
	return msg
}
