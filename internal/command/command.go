// Package command routes text commands to operations on the calendar
// model. Two dispatchers exist: one for calendar management against a
// Registry and one for event commands against a single Calendar.
package command

import (
	"fmt"
	"strings"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Command is one parsed input line.
type Command struct {
	Line   string
	Tokens []string
}

// Parse splits line into whitespace-separated tokens. A double-quoted span
// is one token with its quotes removed, so subjects may contain spaces.
func Parse(line string) (Command, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return Command{}, fmt.Errorf("%w: unterminated quote in %q", model.ErrInvalidFormat, line)
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return Command{Line: line, Tokens: tokens}, nil
}

// HasPrefix reports whether the command starts with the given words,
// compared case-insensitively.
func (c Command) HasPrefix(words ...string) bool {
	if len(c.Tokens) < len(words) {
		return false
	}
	for i, w := range words {
		if !strings.EqualFold(c.Tokens[i], w) {
			return false
		}
	}
	return true
}

// args is a cursor over the tokens that follow a command's verb.
type args struct {
	verb   string
	tokens []string
	pos    int
}

func (a *args) done() bool { return a.pos >= len(a.tokens) }

func (a *args) peekIs(word string) bool {
	return !a.done() && strings.EqualFold(a.tokens[a.pos], word)
}

func (a *args) atAny(words []string) bool {
	for _, w := range words {
		if a.peekIs(w) {
			return true
		}
	}
	return false
}

func (a *args) next(what string) (string, error) {
	if a.done() {
		return "", a.errorf("missing %s", what)
	}
	t := a.tokens[a.pos]
	a.pos++
	return t, nil
}

func (a *args) expect(word string) error {
	if !a.peekIs(word) {
		got := "end of command"
		if !a.done() {
			got = fmt.Sprintf("%q", a.tokens[a.pos])
		}
		return a.errorf("expected %q, got %s", word, got)
	}
	a.pos++
	return nil
}

// upTo joins tokens until one of the stop words (not consumed) or the end.
func (a *args) upTo(what string, stop ...string) (string, error) {
	start := a.pos
	for !a.done() && !a.atAny(stop) {
		a.pos++
	}
	if a.pos == start {
		return "", a.errorf("missing %s", what)
	}
	return strings.Join(a.tokens[start:a.pos], " "), nil
}

// rest joins every remaining token. An empty result is allowed.
func (a *args) rest() string {
	s := strings.Join(a.tokens[a.pos:], " ")
	a.pos = len(a.tokens)
	return s
}

func (a *args) end() error {
	if !a.done() {
		return a.errorf("unexpected %q", strings.Join(a.tokens[a.pos:], " "))
	}
	return nil
}

func (a *args) errorf(format string, v ...any) error {
	return fmt.Errorf("%w: %s: %s", model.ErrInvalidFormat, a.verb, fmt.Sprintf(format, v...))
}

// flags parses "--key value" pairs. Values may be quoted tokens.
func (a *args) flags() (map[string]string, error) {
	out := make(map[string]string)
	for !a.done() {
		key := a.tokens[a.pos]
		if !strings.HasPrefix(key, "--") || len(key) == 2 {
			return nil, a.errorf("expected --flag, got %q", key)
		}
		a.pos++
		val, err := a.next("value for " + key)
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(key[2:])] = val
	}
	return out, nil
}

func (a *args) requireFlags(got map[string]string, names ...string) error {
	for _, n := range names {
		if _, ok := got[n]; !ok {
			return a.errorf("missing --%s", n)
		}
	}
	return nil
}
