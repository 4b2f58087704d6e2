// Package memdoc is an in-memory document host. It implements every
// capability in internal/document and batches change notifications behind an
// explicit Flush, mimicking a host that coalesces mutations and delivers
// them asynchronously. It backs the engine tests and the interactive
// simulator; it is not safe for concurrent use.
package memdoc

import (
	"fmt"

	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
)

// Node is one element in the fake document. Rects are stored in absolute
// document coordinates; viewport coordinates are derived from the current
// scroll offset.
type Node struct {
	doc     *Document
	id      string
	classes map[string]struct{}
	rect    geometry.Rect
	parent  *Node
}

// ElementID implements document.Element.
func (n *Node) ElementID() string { return n.id }

// Rect returns the node's absolute rect.
func (n *Node) Rect() geometry.Rect { return n.rect }

// HasClass reports whether the node carries the class.
func (n *Node) HasClass(name string) bool {
	_, ok := n.classes[name]
	return ok
}

type watchEntry struct {
	root document.Element
	fn   func([]document.Change)
}

// Document is the fake host tree plus its viewport state.
type Document struct {
	root           *Node
	nodes          []*Node
	scroll         geometry.Point
	viewportHeight int

	pending   []document.Change
	watchers  map[int]watchEntry
	nextWatch int
}

// New creates a document with an attached root container.
func New(viewportHeight int) *Document {
	d := &Document{
		viewportHeight: viewportHeight,
		watchers:       make(map[int]watchEntry),
	}
	d.root = &Node{doc: d, id: "root", classes: make(map[string]struct{})}
	return d
}

// NewNode creates a node attached under the root, in document order.
func (d *Document) NewNode(id string, rect geometry.Rect) *Node {
	n := &Node{
		doc:     d,
		id:      id,
		classes: make(map[string]struct{}),
		rect:    rect,
		parent:  d.root,
	}
	d.nodes = append(d.nodes, n)
	return n
}

// AddClass adds a class to the node and queues a change record.
func (d *Document) AddClass(n *Node, name string) {
	n.classes[name] = struct{}{}
	d.pending = append(d.pending, document.Change{Target: n})
}

// RemoveClass removes a class from the node and queues a change record.
func (d *Document) RemoveClass(n *Node, name string) {
	delete(n.classes, name)
	d.pending = append(d.pending, document.Change{Target: n})
}

// SetRect updates the node's absolute rect without queuing a change record;
// pure layout shifts do not touch the class attribute.
func (d *Document) SetRect(n *Node, rect geometry.Rect) {
	n.rect = rect
}

// Detach removes the node from the rendering tree. The node keeps its
// classes; only its ancestor chain is severed, as happens when a host hides
// or removes a list entry.
func (d *Document) Detach(n *Node) {
	n.parent = nil
}

// Reattach puts the node back under the root.
func (d *Document) Reattach(n *Node) {
	n.parent = d.root
}

// Flush delivers all queued change records as one batch to every watcher,
// in observation order. No-op when nothing is queued.
func (d *Document) Flush() {
	if len(d.pending) == 0 {
		return
	}
	batch := d.pending
	d.pending = nil
	for _, w := range d.watchers {
		w.fn(batch)
	}
}

// Root implements document.Tree.
func (d *Document) Root() document.Element { return d.root }

// HasMarker implements document.Tree.
func (d *Document) HasMarker(el document.Element, marker string) bool {
	n, ok := el.(*Node)
	if !ok || n == nil {
		return false
	}
	return n.HasClass(marker)
}

// FirstMarked implements document.Tree. Only attached nodes qualify; a
// detached node still carrying the marker is invisible to subtree queries.
func (d *Document) FirstMarked(marker string) document.Element {
	for _, n := range d.nodes {
		if n.parent == nil {
			continue
		}
		if n.HasClass(marker) {
			return n
		}
	}
	return nil
}

// OffsetParent implements document.Tree.
func (d *Document) OffsetParent(el document.Element) document.Element {
	n, ok := el.(*Node)
	if !ok || n == nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// ViewportRect implements document.Geometry.
func (d *Document) ViewportRect(el document.Element) geometry.Rect {
	n, ok := el.(*Node)
	if !ok || n == nil {
		return geometry.Rect{}
	}
	return n.rect.Translate(-d.scroll.X, -d.scroll.Y)
}

// ViewportHeight implements document.Geometry.
func (d *Document) ViewportHeight() int { return d.viewportHeight }

// Offset implements document.Scroller.
func (d *Document) Offset() geometry.Point { return d.scroll }

// ScrollTo implements document.Scroller. The fake scrolls instantly; the
// real host animates, but neither reports completion.
func (d *Document) ScrollTo(p geometry.Point) { d.scroll = p }

// Watch implements document.Watcher.
func (d *Document) Watch(root document.Element, fn func([]document.Change)) (cancel func()) {
	id := d.nextWatch
	d.nextWatch++
	d.watchers[id] = watchEntry{root: root, fn: fn}
	return func() {
		delete(d.watchers, id)
	}
}

// Surface is an in-memory overlay implementing document.Surface. It records
// the mutations the cursor controller applies so tests can assert on the
// resulting geometry and visibility.
type Surface struct {
	borderTop  int
	borderLeft int

	class    string
	attached bool
	visible  bool
	animated bool
	size     geometry.Rect // width/height only
	pos      geometry.Point

	// MoveCount increments on every MoveTo, letting tests distinguish "no
	// repositioning happened" from "repositioned back to the same spot".
	MoveCount int
	// LastMoveAnimated records the animation setting in effect at the most
	// recent MoveTo, distinguishing snaps from glides.
	LastMoveAnimated bool
}

// NewSurface creates a hidden, non-animated surface with the given border
// thickness.
func NewSurface(borderTop, borderLeft int) *Surface {
	return &Surface{borderTop: borderTop, borderLeft: borderLeft}
}

func (s *Surface) ApplyBaseStyle(class string) { s.class = class }
func (s *Surface) AttachTo(document.Element)   { s.attached = true }
func (s *Surface) Detach()                     { s.attached = false }
func (s *Surface) SetVisible(visible bool)     { s.visible = visible }
func (s *Surface) Visible() bool               { return s.visible }
func (s *Surface) SetAnimated(animated bool)   { s.animated = animated }
func (s *Surface) Animated() bool              { return s.animated }
func (s *Surface) BorderWidths() (int, int)    { return s.borderTop, s.borderLeft }

func (s *Surface) SetSize(width, height int) {
	s.size.Width = width
	s.size.Height = height
}

func (s *Surface) MoveTo(p geometry.Point) {
	s.pos = p
	s.MoveCount++
	s.LastMoveAnimated = s.animated
}

// Class returns the identifying class applied at start.
func (s *Surface) Class() string { return s.class }

// Attached reports whether the surface is parented into the document.
func (s *Surface) Attached() bool { return s.attached }

// Bounds returns the surface's current translate position and size.
func (s *Surface) Bounds() geometry.Rect {
	return geometry.Rect{Left: s.pos.X, Top: s.pos.Y, Width: s.size.Width, Height: s.size.Height}
}

// String describes the surface state for test failure messages.
func (s *Surface) String() string {
	return fmt.Sprintf("surface{visible=%v animated=%v bounds=%+v moves=%d}",
		s.visible, s.animated, s.Bounds(), s.MoveCount)
}
