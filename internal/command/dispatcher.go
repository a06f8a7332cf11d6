package command

import (
	"fmt"
	"strings"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Handler executes one command shape against a target model.
type Handler[T any] interface {
	CanHandle(cmd Command) bool
	Execute(cmd Command, target T, view View) error
}

// Dispatcher routes a command to the first registered handler that accepts
// it. Handlers are tried in registration order, so a handler with a longer
// verb must be registered before one whose verb is its prefix.
type Dispatcher[T any] struct {
	handlers []Handler[T]
}

func NewDispatcher[T any](handlers ...Handler[T]) *Dispatcher[T] {
	return &Dispatcher[T]{handlers: handlers}
}

// Register appends h after the existing handlers.
func (d *Dispatcher[T]) Register(h Handler[T]) {
	d.handlers = append(d.handlers, h)
}

// CanHandle reports whether any handler accepts cmd.
func (d *Dispatcher[T]) CanHandle(cmd Command) bool {
	return d.find(cmd) != nil
}

// Execute runs cmd. It fails with ErrUnknownCommand when no handler
// accepts it.
func (d *Dispatcher[T]) Execute(cmd Command, target T, view View) error {
	h := d.find(cmd)
	if h == nil {
		return fmt.Errorf("%w: %q", model.ErrUnknownCommand, cmd.Line)
	}
	return h.Execute(cmd, target, view)
}

func (d *Dispatcher[T]) find(cmd Command) Handler[T] {
	for _, h := range d.handlers {
		if h.CanHandle(cmd) {
			return h
		}
	}
	return nil
}

// verbHandler accepts commands starting with a fixed sequence of words and
// hands the remaining tokens to run.
type verbHandler[T any] struct {
	verb []string
	run  func(a *args, target T, view View) error
}

func handle[T any](verb string, run func(a *args, target T, view View) error) Handler[T] {
	return verbHandler[T]{verb: strings.Fields(verb), run: run}
}

func (h verbHandler[T]) CanHandle(cmd Command) bool {
	return cmd.HasPrefix(h.verb...)
}

func (h verbHandler[T]) Execute(cmd Command, target T, view View) error {
	a := &args{
		verb:   strings.Join(h.verb, " "),
		tokens: cmd.Tokens[len(h.verb):],
	}
	return h.run(a, target, view)
}
