package calendar

import (
	"slices"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// seriesEntry is the recurrence rule a series was created with plus the
// keys of its current members.
type seriesEntry struct {
	rule    model.Recurrence
	members map[model.Key]struct{}
}

// seriesIndex maps a series id to its members so that scope edits only
// touch the series instead of scanning the whole calendar. It holds keys,
// never events; the calendar's event map stays the single owner.
type seriesIndex struct {
	entries map[string]*seriesEntry
}

func newSeriesIndex() *seriesIndex {
	return &seriesIndex{entries: make(map[string]*seriesEntry)}
}

// define registers a series id with its rule. Redefining keeps the members.
func (s *seriesIndex) define(id string, rule model.Recurrence) {
	if e, ok := s.entries[id]; ok {
		e.rule = rule
		return
	}
	s.entries[id] = &seriesEntry{rule: rule, members: make(map[model.Key]struct{})}
}

func (s *seriesIndex) add(id string, k model.Key) {
	e, ok := s.entries[id]
	if !ok {
		e = &seriesEntry{members: make(map[model.Key]struct{})}
		s.entries[id] = e
	}
	e.members[k] = struct{}{}
}

// remove drops k from the series and forgets the series once it is empty.
func (s *seriesIndex) remove(id string, k model.Key) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	delete(e.members, k)
	if len(e.members) == 0 {
		delete(s.entries, id)
	}
}

func (s *seriesIndex) rule(id string) (model.Recurrence, bool) {
	e, ok := s.entries[id]
	if !ok {
		return model.Recurrence{}, false
	}
	return e.rule, true
}

func (s *seriesIndex) size(id string) int {
	if e, ok := s.entries[id]; ok {
		return len(e.members)
	}
	return 0
}

// members returns the member keys of a series ordered by start.
func (s *seriesIndex) members(id string) []model.Key {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	keys := make([]model.Key, 0, len(e.members))
	for k := range e.members {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b model.Key) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return keys
}

// membersFrom returns the members starting at or after from.
func (s *seriesIndex) membersFrom(id string, from time.Time) []model.Key {
	all := s.members(id)
	cut := from.UnixNano()
	i, _ := slices.BinarySearchFunc(all, cut, func(k model.Key, t int64) int {
		switch {
		case k.Start < t:
			return -1
		case k.Start > t:
			return 1
		}
		return 0
	})
	return all[i:]
}
