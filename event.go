package probtex

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/njchilds90/probtex/symbolic"
)

// ============================================================
// Event — named atomic outcome
// ============================================================

// Event is a named atomic outcome. Descriptions are stored in Unicode NFC
// form, so "café" written with a combining accent equals the precomposed
// spelling.
type Event struct{ desc string }

func NewEvent(desc string) *Event { return &Event{desc: norm.NFC.String(desc)} }

func (e *Event) Desc() string      { return e.desc }
func (e *Event) String() string    { return e.desc }
func (e *Event) Children() []any   { return nil }
func (e *Event) nodeType() string  { return "event" }
func (e *Event) LaTeX(Mode) string { return `\text{` + symbolic.EscapeText(e.desc) + `}` }

func (e *Event) mapChildren(func(any) any) Displayable { return e }

// Equal reports whether e and o describe the same outcome.
func (e *Event) Equal(o *Event) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.desc == o.desc
}

func (e *Event) toJSON(*encoder) (map[string]interface{}, error) {
	return map[string]interface{}{"type": "event", "desc": e.desc}, nil
}

// asEvent converts strings to events and leaves everything else alone.
func asEvent(v any) any {
	if s, ok := v.(string); ok {
		return NewEvent(s)
	}
	return v
}

// ============================================================
// EventSet — deduplicated collection of events
// ============================================================

// EventSet is a finite set of events. Members keep the order in which they
// were first added; later duplicates are dropped.
type EventSet struct {
	events []*Event
	index  map[string]int
}

// NewEventSet builds a set from events or raw values. Values that are not
// events become events named by their string form; a definition is named by
// its symbol and any other node by its LaTeX. nil values become events with
// an empty description, which Validate reports.
func NewEventSet(items ...any) *EventSet {
	s := &EventSet{index: make(map[string]int, len(items))}
	for _, it := range items {
		s.add(toEvent(it))
	}
	return s
}

func toEvent(v any) *Event {
	if symbolic.IsNil(v) {
		return NewEvent("")
	}
	switch x := v.(type) {
	case *Event:
		if x == nil {
			return NewEvent("")
		}
		return x
	case string:
		return NewEvent(x)
	case *Definition:
		if x == nil {
			return NewEvent("")
		}
		if name := x.Name(); name != "" {
			return NewEvent(name)
		}
		return NewEvent(symbolic.Latex(x.lhs))
	case Displayable:
		return NewEvent(Render(x))
	case fmt.Stringer:
		return NewEvent(x.String())
	}
	return NewEvent(fmt.Sprint(v))
}

func (s *EventSet) add(e *Event) {
	if _, dup := s.index[e.desc]; dup {
		return
	}
	s.index[e.desc] = len(s.events)
	s.events = append(s.events, e)
}

// Len returns the number of distinct events.
func (s *EventSet) Len() int { return len(s.events) }

// Events returns the members in insertion order.
func (s *EventSet) Events() []*Event {
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// Contains reports whether the set has a member equal to v (an event or a
// description).
func (s *EventSet) Contains(v any) bool {
	_, ok := s.index[toEvent(v).desc]
	return ok
}

func (s *EventSet) LaTeX(m Mode) string {
	parts := make([]string, len(s.events))
	for i, e := range s.events {
		parts[i] = e.LaTeX(m)
	}
	return `\{` + strings.Join(parts, `,\;`) + `\}`
}

func (s *EventSet) Children() []any {
	out := make([]any, len(s.events))
	for i, e := range s.events {
		out[i] = e
	}
	return out
}

func (s *EventSet) mapChildren(fn func(any) any) Displayable {
	items := make([]any, len(s.events))
	for i, e := range s.events {
		items[i] = fn(e)
	}
	return NewEventSet(items...)
}

func (s *EventSet) nodeType() string { return "event_set" }

func (s *EventSet) toJSON(*encoder) (map[string]interface{}, error) {
	descs := make([]interface{}, len(s.events))
	for i, e := range s.events {
		descs[i] = e.desc
	}
	return map[string]interface{}{"type": "event_set", "events": descs}, nil
}
