// Package document defines the host-capability interfaces the cursor engine
// runs against. A "document" is any externally owned tree of elements with
// on-screen geometry: a browser DOM, a widget tree, or a set of X11 windows.
// The engine never walks the tree itself; it asks these interfaces, which
// keeps it headless-testable against in-memory fakes.
package document

import "github.com/navkit/navcursor/internal/geometry"

// Element is a weak handle to a node in a host document. Hosts implement it
// with pointer types so handles compare with ==. A handle may go stale at any
// time (the host owns node lifetimes); consumers must re-validate liveness
// before use and never cache the result.
type Element interface {
	// ElementID returns a host-assigned identifier, used only for logging
	// and status reporting.
	ElementID() string
}

// Change is one record in a batched change notification. Records carry only
// the mutated element; whether that element currently holds the focus marker
// is re-checked by the consumer at delivery time, since the attribute may
// have changed again between mutation and callback.
type Change struct {
	Target Element
}

// Tree exposes marker and ancestry queries over the observed subtree.
type Tree interface {
	// Root returns the container the engine is bound to.
	Root() Element
	// HasMarker reports whether el currently carries the focus-marker class.
	HasMarker(el Element, marker string) bool
	// FirstMarked returns the first live element carrying the marker, or nil.
	FirstMarked(marker string) Element
	// OffsetParent returns el's rendering ancestor, or nil when the element
	// is detached or not rendered.
	OffsetParent(el Element) Element
}

// Geometry measures on-screen boxes. Values are fresh at each call; layout
// and scrolling change between calls, so results must never be cached.
type Geometry interface {
	// ViewportRect returns el's bounding box in viewport coordinates.
	ViewportRect(el Element) geometry.Rect
	// ViewportHeight returns the visible height used for scroll centering.
	ViewportHeight() int
}

// Scroller owns the viewport scroll position. ScrollTo is a fire-and-forget
// smooth scroll; there is no completion callback.
type Scroller interface {
	Offset() geometry.Point
	ScrollTo(p geometry.Point)
}

// Watcher delivers class-attribute change notifications for a subtree. The
// host batches mutations: several attribute changes may coalesce into a
// single callback, and the callback is asynchronous with respect to the
// mutations themselves. Watch returns a cancel function that stops all
// future deliveries; cancel is idempotent.
type Watcher interface {
	Watch(root Element, fn func(batch []Change)) (cancel func())
}

// Surface is the host-rendered overlay box the cursor controller drives.
// Implementations own the drawing; the controller owns the policy (when to
// show, where to move, whether to animate).
type Surface interface {
	// ApplyBaseStyle sets the overlay's identifying class and its fixed
	// positioning (absolute, anchored at the document origin).
	ApplyBaseStyle(class string)
	// AttachTo parents the overlay under the given container.
	AttachTo(root Element)
	// Detach removes the overlay from the document.
	Detach()
	// SetVisible toggles visibility. Hidden means removed from layout flow,
	// not merely transparent.
	SetVisible(visible bool)
	Visible() bool
	// SetSize resizes the overlay box.
	SetSize(width, height int)
	// MoveTo sets the overlay's translate transform in absolute document
	// coordinates.
	MoveTo(p geometry.Point)
	// SetAnimated enables or disables the movement transition.
	SetAnimated(animated bool)
	Animated() bool
	// BorderWidths returns the overlay's own top and left border thickness,
	// so the controller can align the visible box with the target's content
	// box instead of offsetting it by the border.
	BorderWidths() (top, left int)
}
