// Package cursor tracks which element of a host document carries the focus
// marker and keeps a synthetic cursor overlay aligned with that element's
// on-screen box, scrolling it into view and animating steady-state moves.
// It is built for remote-control style interfaces where focus jumps
// discretely between elements rather than following a pointer.
package cursor

import (
	"log"
	"sync"

	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
)

// Host bundles the document capabilities the engine consumes. A single value
// usually implements all four (memdoc.Document, x11.Adapter).
type Host interface {
	document.Tree
	document.Geometry
	document.Scroller
	document.Watcher
}

// Engine is the focus-resolution and placement state machine. One engine
// owns exactly one overlay and tracks at most one element. All methods are
// safe for concurrent use; host change callbacks and control calls are
// serialized on an internal mutex.
type Engine struct {
	mu       sync.Mutex
	host     Host
	marker   string
	overlay  *overlay
	observer *markerObserver

	phase   Phase
	frozen  bool
	tracked document.Element

	listeners listenerRegistry
}

// New creates an engine bound to the host's root subtree. marker is the
// class identifying the focused element; it doubles as the overlay's
// identifying class. The overlay starts styled and hidden; nothing happens
// until Start.
func New(host Host, surface document.Surface, marker string) *Engine {
	return &Engine{
		host:     host,
		marker:   marker,
		overlay:  newOverlay(surface, marker),
		observer: newMarkerObserver(host, host, marker),
	}
}

// Start attaches the overlay under the root, begins observing marker
// changes, and performs the initial placement. No-op unless the engine is
// freshly constructed.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseUninitialized {
		return
	}
	e.phase = PhaseStarted

	e.overlay.attach(e.host.Root())
	e.observer.observe(e.host.Root(), e.handleChange)
	e.focusLocked()

	log.Printf("Cursor: started tracking marker %q", e.marker)
}

// Stop detaches the overlay and disconnects observation. Terminal and
// idempotent; after Stop no further notifications fire.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseStopped {
		return
	}
	if e.phase == PhaseStarted {
		e.observer.disconnect()
		e.overlay.detach()
	}
	e.phase = PhaseStopped

	log.Println("Cursor: stopped")
}

// Freeze suppresses visual repositioning. Marker changes keep updating the
// tracked element (and keep firing focus-updated events) while frozen.
func (e *Engine) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return
	}
	e.frozen = true
	log.Println("Cursor: frozen")
}

// Resume clears the frozen flag and repositions once to the latest tracked
// target. No-op when not frozen.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.frozen {
		return
	}
	e.frozen = false
	log.Println("Cursor: resumed")

	if e.phase == PhaseStarted {
		e.focusLocked()
	}
}

// Focus repositions the cursor for the current tracked element, snapping
// from a cold or hidden state and gliding otherwise.
func (e *Engine) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseStarted {
		return
	}
	e.focusLocked()
}

// Place snaps the cursor onto the effective target without animation.
func (e *Engine) Place() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseStarted {
		return
	}
	e.placeLocked()
}

// Move glides the cursor onto the effective target with the animated
// transition.
func (e *Engine) Move() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseStarted {
		return
	}
	e.moveLocked()
}

// Cursor returns the overlay surface.
func (e *Engine) Cursor() document.Surface {
	return e.overlay.surface
}

// FocusedElement returns the currently tracked element. The reference may be
// stale; liveness is only re-checked when the cursor is positioned.
func (e *Engine) FocusedElement() document.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracked
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Frozen reports whether repositioning is currently suppressed.
func (e *Engine) Frozen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frozen
}

// Marker returns the focus-marker class the engine was bound to.
func (e *Engine) Marker() string {
	return e.marker
}

// AddEventListener registers l for events of the given type. Registration
// order is invocation order and duplicates are allowed.
func (e *Engine) AddEventListener(typ EventType, l Listener) {
	e.listeners.add(typ, l)
}

// RemoveEventListener removes the first registration matching both the type
// and the listener value. Removing a listener that was never added is a
// no-op.
func (e *Engine) RemoveEventListener(typ EventType, l Listener) {
	e.listeners.remove(typ, l)
}

// handleChange is the observer callback: target is the element that gained
// the marker, nil when the batch left no live holder.
func (e *Engine) handleChange(target document.Element) {
	e.mu.Lock()
	if e.phase != PhaseStarted {
		e.mu.Unlock()
		return
	}

	if target == nil {
		// The marker vanished; a stale cursor is worse than no cursor.
		e.overlay.hide()
		e.mu.Unlock()
		return
	}

	e.tracked = target
	if !e.frozen {
		e.focusLocked()
	}
	e.mu.Unlock()

	// Focus-updated is tied to marker-change detection, not to visual
	// repositioning, so it fires while frozen too. Fan out after releasing
	// the lock so listeners may call back into the engine.
	e.listeners.trigger(EventFocusUpdated, target)
}

// focusLocked dispatches between snapping and gliding: a missing tracked
// element or a hidden overlay means a cold start, which snaps to avoid a
// long glide in from the origin.
func (e *Engine) focusLocked() {
	if e.tracked == nil || !e.overlay.visible() {
		e.placeLocked()
		return
	}
	e.moveLocked()
}

// placeLocked positions the cursor instantly: transition suppressed for the
// duration, restored afterwards regardless of outcome.
func (e *Engine) placeLocked() {
	target := e.effectiveTarget()
	if target == nil {
		e.overlay.hide()
		return
	}

	restore := e.overlay.suppressTransition()
	e.positionLocked(target)

	// The marker may have moved on between resolution and placement; trust
	// the document, not the plan.
	if !e.host.HasMarker(target, e.marker) {
		e.overlay.hide()
	} else {
		e.overlay.show()
	}
	restore()
}

// moveLocked positions the cursor with the animated transition.
func (e *Engine) moveLocked() {
	target := e.effectiveTarget()
	if target == nil || !e.host.HasMarker(target, e.marker) {
		e.overlay.hide()
		return
	}

	e.overlay.show()
	e.positionLocked(target)
}

// positionLocked does the shared geometry work: compute the absolute rect,
// scroll the target to the vertical center of the viewport (horizontal
// offset untouched), then size and move the overlay.
func (e *Engine) positionLocked(target document.Element) {
	rect := geometry.FromViewport(e.host.ViewportRect(target), e.host.Offset())
	e.host.ScrollTo(geometry.CenterVertically(rect, e.host.ViewportHeight(), e.host.Offset()))
	e.overlay.setFrame(rect)
}

// effectiveTarget resolves the element to position against: the tracked
// reference when it is still attached, otherwise any live marker holder
// found by query. A detached-but-tracked element is never used directly.
func (e *Engine) effectiveTarget() document.Element {
	if e.isAttached(e.tracked) {
		return e.tracked
	}
	return e.host.FirstMarked(e.marker)
}

// isAttached walks the offset-parent chain and reports whether it terminates
// at the root container. Elements can be detached or hidden without any
// notification reaching the engine, so this is re-checked lazily at every
// use.
func (e *Engine) isAttached(el document.Element) bool {
	if el == nil {
		return false
	}
	root := e.host.Root()
	for cur := el; cur != nil; cur = e.host.OffsetParent(cur) {
		if cur == root {
			return true
		}
	}
	return false
}
