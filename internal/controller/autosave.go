package controller

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "github.com/Mike1ife/Calendar-Management-System-sub001/internal/log"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// AutosaveOptions describes a periodic export of the active calendar.
type AutosaveOptions struct {
	// Schedule is a cron-style schedule string (e.g. "*/15 * * * *") or a
	// descriptor such as "@every 10m". Empty disables autosave.
	Schedule string
	Format   string
	File     string
}

// StartAutosave runs an export of the active calendar on opts.Schedule
// until the returned stop function is called. Exports go through the same
// lock as Execute, so they never observe a half-applied command.
func (c *Controller) StartAutosave(opts AutosaveOptions) (stop func(), err error) {
	if opts.Schedule == "" {
		return func() {}, nil
	}

	sched := cron.New()
	if _, err := sched.AddFunc(opts.Schedule, func() { c.autosave(opts) }); err != nil {
		return nil, fmt.Errorf("%w: autosave schedule %q: %v", model.ErrInvalidFormat, opts.Schedule, err)
	}
	sched.Start()
	appLog.Info("autosave enabled", "schedule", opts.Schedule, "format", opts.Format, "file", opts.File)

	return func() {
		<-sched.Stop().Done()
	}, nil
}

func (c *Controller) autosave(opts AutosaveOptions) {
	line := fmt.Sprintf(`export %s "%s"`, opts.Format, opts.File)
	if err := c.executeWith(line, logView{}); err != nil {
		appLog.Error("autosave failed", err, "file", opts.File)
	}
}

// logView sends command output to the debug log instead of the terminal.
type logView struct{}

func (logView) Message(msg string) { appLog.Debug(msg) }

func (logView) Events(title string, events []model.Event) {
	appLog.Debug(title, "events", len(events))
}

func (logView) Status(at time.Time, a model.Availability) {
	appLog.Debug("status", "at", at, "availability", a)
}

func (logView) Error(string) {}
