// Package controller composes the calendar and event dispatchers behind a
// single Execute entry point and drives them from a line-oriented reader.
package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/calendar"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/command"
	appLog "github.com/Mike1ife/Calendar-Management-System-sub001/internal/log"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Mode selects how Run treats its input.
type Mode string

const (
	// ModeInteractive prompts before each line and keeps going after errors.
	ModeInteractive Mode = "interactive"
	// ModeHeadless reads a command file and reports every failed line.
	ModeHeadless Mode = "headless"
)

// ParseMode validates a -mode flag value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeInteractive, ModeHeadless:
		return m, nil
	}
	return "", fmt.Errorf("%w: mode must be interactive or headless, got %q", model.ErrInvalidEnum, s)
}

// Options configures a Controller.
type Options struct {
	Mode   Mode
	Prompt string
	// PromptOut receives the prompt in interactive mode. Nil disables it.
	PromptOut io.Writer
	Events    command.EventOptions
}

// Controller routes command lines to the calendar dispatcher first and
// falls back to the event dispatcher against the active calendar. Execute
// is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	reg       *calendar.Registry
	calendars *command.Dispatcher[*calendar.Registry]
	events    *command.Dispatcher[*calendar.Calendar]
	view      command.View
	opts      Options
}

func New(reg *calendar.Registry, view command.View, opts Options) *Controller {
	if opts.Mode == "" {
		opts.Mode = ModeInteractive
	}
	return &Controller{
		reg:       reg,
		calendars: command.NewCalendarDispatcher(),
		events:    command.NewEventDispatcher(opts.Events),
		view:      view,
		opts:      opts,
	}
}

// Execute runs one command line. Blank lines and lines starting with # are
// ignored. A failure is reported to the view as a single
// "Error: <Kind>: <message>" line and returned.
func (c *Controller) Execute(line string) error {
	return c.executeWith(line, c.view)
}

func (c *Controller) executeWith(line string, view command.View) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.execute(line, view)
	if err != nil {
		view.Error("Error: " + model.Describe(err))
		appLog.Info("command failed", "line", line, "kind", model.Kind(err), "err", err)
		return err
	}
	appLog.Debug("command ok", "line", line)
	return nil
}

func (c *Controller) execute(line string, view command.View) error {
	cmd, err := command.Parse(line)
	if err != nil {
		return err
	}
	if c.calendars.CanHandle(cmd) {
		return c.calendars.Execute(cmd, c.reg, view)
	}
	if !c.events.CanHandle(cmd) {
		return fmt.Errorf("%w: %q", model.ErrUnknownCommand, line)
	}
	cal, ok := c.reg.ActiveCalendar()
	if !ok {
		return fmt.Errorf("%w: no active calendar; use 'use calendar --name <name>'", model.ErrNotFound)
	}
	return c.events.Execute(cmd, cal, view)
}

// Run executes lines from r until EOF, an "exit" line or ctx is cancelled.
// In headless mode every failed line is collected and the aggregate is
// returned; in interactive mode errors are only reported to the view.
func (c *Controller) Run(ctx context.Context, r io.Reader) error {
	var result *multierror.Error
	sc := bufio.NewScanner(r)
	lineNo := 0

	for {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}
		c.prompt()
		if !sc.Scan() {
			break
		}
		lineNo++
		line := sc.Text()
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			appLog.Debug("exit requested", "line", lineNo)
			return result.ErrorOrNil()
		}
		if err := c.Execute(line); err != nil && c.opts.Mode == ModeHeadless {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}

	if err := sc.Err(); err != nil {
		return multierror.Append(result, fmt.Errorf("read commands: %w", err)).ErrorOrNil()
	}
	if c.opts.Mode == ModeHeadless {
		appLog.Warn("command file ended without exit", "lines", lineNo)
	}
	return result.ErrorOrNil()
}

func (c *Controller) prompt() {
	if c.opts.Mode != ModeInteractive || c.opts.PromptOut == nil {
		return
	}
	fmt.Fprint(c.opts.PromptOut, c.opts.Prompt)
}
