package x11

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
)

// Property changes arrive one X event at a time; changes landing within this
// window are coalesced into a single batch, mirroring how DOM-style hosts
// deliver mutation records.
const coalesceDelay = 10 * time.Millisecond

// Window is an element handle for a top-level client window. Handles are
// cached per window ID so the same window always yields the same pointer.
type Window struct {
	id xproto.Window
}

// ElementID implements document.Element.
func (w *Window) ElementID() string {
	return fmt.Sprintf("0x%08x", w.id)
}

// Adapter implements the cursor engine's document capabilities over a root
// X window and its top-level clients. The marker "class" is an X window
// property: a window carrying the property is the focused element.
type Adapter struct {
	conn   *Connection
	marker string

	mu         sync.Mutex
	handles    map[xproto.Window]*Window
	rootEl     *Window
	pending    []document.Change
	flushTimer *time.Timer
	watchFn    func([]document.Change)
	watching   bool
	listened   map[xproto.Window]bool
}

// NewAdapter wraps an X connection. marker is the property name that marks
// the focused window (config x11.marker_property).
func NewAdapter(conn *Connection, marker string) *Adapter {
	a := &Adapter{
		conn:     conn,
		marker:   marker,
		handles:  make(map[xproto.Window]*Window),
		listened: make(map[xproto.Window]bool),
	}
	a.rootEl = a.handle(conn.Root)
	return a
}

func (a *Adapter) handle(id xproto.Window) *Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	if w, ok := a.handles[id]; ok {
		return w
	}
	w := &Window{id: id}
	a.handles[id] = w
	return w
}

// Root implements document.Tree.
func (a *Adapter) Root() document.Element { return a.rootEl }

// HasMarker implements document.Tree: present marker property means focused.
func (a *Adapter) HasMarker(el document.Element, marker string) bool {
	w, ok := el.(*Window)
	if !ok || w == nil {
		return false
	}
	reply, err := xprop.GetProperty(a.conn.XUtil, w.id, marker)
	return err == nil && reply != nil && reply.Format != 0
}

// FirstMarked implements document.Tree, scanning the EWMH client list in
// stacking order.
func (a *Adapter) FirstMarked(marker string) document.Element {
	clients, err := ewmh.ClientListGet(a.conn.XUtil)
	if err != nil {
		return nil
	}
	for _, id := range clients {
		w := a.handle(id)
		if a.HasMarker(w, marker) {
			return w
		}
	}
	return nil
}

// OffsetParent implements document.Tree. A viewable client window renders
// directly under the root; anything destroyed or unmapped is detached.
func (a *Adapter) OffsetParent(el document.Element) document.Element {
	w, ok := el.(*Window)
	if !ok || w == nil || w == a.rootEl {
		return nil
	}
	attrs, err := xproto.GetWindowAttributes(a.conn.XUtil.Conn(), w.id).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return nil
	}
	return a.rootEl
}

// ViewportRect implements document.Geometry using fresh server round trips;
// window geometry changes under the window manager's feet.
func (a *Adapter) ViewportRect(el document.Element) geometry.Rect {
	w, ok := el.(*Window)
	if !ok || w == nil {
		return geometry.Rect{}
	}

	conn := a.conn.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(w.id)).Reply()
	if err != nil {
		return geometry.Rect{}
	}
	translate, err := xproto.TranslateCoordinates(conn, w.id, a.conn.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}
	}

	return geometry.Rect{
		Left:   int(translate.DstX),
		Top:    int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
}

// ViewportHeight implements document.Geometry.
func (a *Adapter) ViewportHeight() int {
	screen := a.conn.XUtil.Screen()
	if screen == nil {
		return 0
	}
	return int(screen.HeightInPixels)
}

// Offset implements document.Scroller. The desktop viewport is fixed.
func (a *Adapter) Offset() geometry.Point { return geometry.Point{} }

// ScrollTo implements document.Scroller as a no-op; X has no scrolling
// viewport to move.
func (a *Adapter) ScrollTo(geometry.Point) {}

// Watch implements document.Watcher. PropertyNotify must be selected per
// window, so the adapter listens on every current client and picks up new
// ones via MapNotify on the root.
func (a *Adapter) Watch(root document.Element, fn func([]document.Change)) (cancel func()) {
	xu := a.conn.XUtil

	a.mu.Lock()
	a.watchFn = fn
	a.watching = true
	a.mu.Unlock()

	// Without substructure events new windows go unwatched; existing ones
	// still work, so a Listen failure is not fatal.
	_ = xwindow.New(xu, a.conn.Root).Listen(xproto.EventMaskSubstructureNotify)

	if clients, err := ewmh.ClientListGet(xu); err == nil {
		for _, id := range clients {
			a.listenTo(id)
		}
	}

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		a.listenTo(ev.Window)
	}).Connect(xu, a.conn.Root)

	return func() {
		a.mu.Lock()
		a.watching = false
		if a.flushTimer != nil {
			a.flushTimer.Stop()
			a.flushTimer = nil
		}
		a.pending = nil
		a.mu.Unlock()
	}
}

func (a *Adapter) listenTo(id xproto.Window) {
	a.mu.Lock()
	if a.listened[id] {
		a.mu.Unlock()
		return
	}
	a.listened[id] = true
	a.mu.Unlock()

	xu := a.conn.XUtil
	if err := xwindow.New(xu, id).Listen(xproto.EventMaskPropertyChange); err != nil {
		return
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		a.onPropertyNotify(ev)
	}).Connect(xu, id)
}

func (a *Adapter) onPropertyNotify(ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(a.conn.XUtil, ev.Atom)
	if err != nil || name != a.marker {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.watching {
		return
	}
	a.pending = append(a.pending, document.Change{Target: a.handle(ev.Window)})
	if a.flushTimer == nil {
		a.flushTimer = time.AfterFunc(coalesceDelay, a.flush)
	}
}

func (a *Adapter) flush() {
	a.mu.Lock()
	batch := a.pending
	fn := a.watchFn
	watching := a.watching
	a.pending = nil
	a.flushTimer = nil
	a.mu.Unlock()

	if watching && fn != nil && len(batch) > 0 {
		fn(batch)
	}
}
