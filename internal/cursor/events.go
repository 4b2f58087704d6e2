package cursor

import (
	"log"
	"sync"

	"github.com/navkit/navcursor/internal/document"
)

// EventType classifies engine notifications.
type EventType string

// EventFocusUpdated fires when the observer records a new marker holder. The
// event element is the newly focused element.
const EventFocusUpdated EventType = "focus-updated"

// Event carries an engine notification to listeners.
type Event struct {
	Type    EventType
	Element document.Element
}

// Listener receives engine events. Listener values are matched with == on
// removal, so implementations should be pointer types.
type Listener interface {
	HandleCursorEvent(Event)
}

type listenerEntry struct {
	typ      EventType
	listener Listener
}

// listenerRegistry is an ordered (type, listener) sequence. Insertion order
// is invocation order, duplicates are allowed, and removal takes the first
// entry matching both type and listener.
type listenerRegistry struct {
	mu      sync.Mutex
	entries []listenerEntry
}

func (r *listenerRegistry) add(typ EventType, l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, listenerEntry{typ: typ, listener: l})
}

func (r *listenerRegistry) remove(typ EventType, l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, entry := range r.entries {
		if entry.typ == typ && entry.listener == l {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// trigger synchronously invokes every listener registered for typ, in
// registration order. Each invocation is isolated so a panicking listener
// cannot starve the ones registered after it.
func (r *listenerRegistry) trigger(typ EventType, el document.Element) {
	r.mu.Lock()
	matched := make([]Listener, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.typ == typ {
			matched = append(matched, entry.listener)
		}
	}
	r.mu.Unlock()

	ev := Event{Type: typ, Element: el}
	for _, l := range matched {
		invoke(l, ev)
	}
}

func invoke(l Listener, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Cursor: %s listener panicked: %v", ev.Type, rec)
		}
	}()
	l.HandleCursorEvent(ev)
}
