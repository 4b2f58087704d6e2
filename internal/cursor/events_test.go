package cursor

import (
	"testing"

	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
	"github.com/navkit/navcursor/internal/memdoc"
)

type recordingListener struct {
	events []Event
}

func (r *recordingListener) HandleCursorEvent(ev Event) {
	r.events = append(r.events, ev)
}

type panickyListener struct{}

func (panickyListener) HandleCursorEvent(Event) {
	panic("listener blew up")
}

type orderListener struct {
	name string
	log  *[]string
}

func (o *orderListener) HandleCursorEvent(Event) {
	*o.log = append(*o.log, o.name)
}

func testElement() document.Element {
	doc := memdoc.New(600)
	return doc.NewNode("el", geometry.Rect{Width: 10, Height: 10})
}

func TestTriggerInvokesInRegistrationOrder(t *testing.T) {
	var reg listenerRegistry
	var order []string

	first := &orderListener{name: "first", log: &order}
	second := &orderListener{name: "second", log: &order}
	reg.add(EventFocusUpdated, first)
	reg.add(EventFocusUpdated, second)
	reg.add(EventFocusUpdated, first) // duplicates allowed

	reg.trigger(EventFocusUpdated, testElement())

	want := []string{"first", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("invocations = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("invocations = %v, want %v", order, want)
		}
	}
}

func TestRemoveMatchesExactTypeAndListener(t *testing.T) {
	var reg listenerRegistry
	rec := &recordingListener{}
	other := &recordingListener{}

	reg.add(EventFocusUpdated, rec)

	// Wrong listener value: nothing removed.
	reg.remove(EventFocusUpdated, other)
	reg.trigger(EventFocusUpdated, testElement())
	if len(rec.events) != 1 {
		t.Fatalf("listener removed by mismatched value, events=%d", len(rec.events))
	}

	// Exact match removes the first entry only.
	reg.add(EventFocusUpdated, rec)
	reg.remove(EventFocusUpdated, rec)
	reg.trigger(EventFocusUpdated, testElement())
	if len(rec.events) != 2 {
		t.Fatalf("expected one surviving registration, events=%d", len(rec.events))
	}
}

func TestRemoveNeverAddedIsNoop(t *testing.T) {
	var reg listenerRegistry
	// Must not panic or mutate anything.
	reg.remove(EventFocusUpdated, &recordingListener{})
	reg.remove(EventFocusUpdated, nil)
}

func TestPanickingListenerDoesNotStarveLaterOnes(t *testing.T) {
	var reg listenerRegistry
	rec := &recordingListener{}

	reg.add(EventFocusUpdated, panickyListener{})
	reg.add(EventFocusUpdated, rec)

	reg.trigger(EventFocusUpdated, testElement())

	if len(rec.events) != 1 {
		t.Fatalf("listener after the panicking one was skipped, events=%d", len(rec.events))
	}
}
