package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
)

// Surface renders the cursor as a rectangular border built from 4 thin
// override-redirect windows, so the framed window stays fully visible and
// interactive. It implements document.Surface.
//
// The controller hands over an origin already pulled back by the border
// widths, so the frame's outer edge starts exactly at that origin.
type Surface struct {
	conn      *Connection
	thickness int
	color     uint32

	top, bottom, left, right xproto.Window

	created  bool
	visible  bool
	animated bool
	class    string

	pos           geometry.Point
	width, height int
}

// NewSurface creates an unmapped border surface. thickness is the border
// width in pixels, color a 0xRRGGBB pixel value.
func NewSurface(conn *Connection, thickness int, color uint32) *Surface {
	if thickness < 1 {
		thickness = 1
	}
	return &Surface{conn: conn, thickness: thickness, color: color}
}

// ApplyBaseStyle implements document.Surface. X windows have no stylesheet;
// the class is recorded so callers can inspect what was applied.
func (s *Surface) ApplyBaseStyle(class string) { s.class = class }

// Class reports the style class applied to the surface.
func (s *Surface) Class() string { return s.class }

// AttachTo implements document.Surface by creating the border windows as
// children of the root.
func (s *Surface) AttachTo(root document.Element) {
	if s.created {
		return
	}
	if err := s.createWindows(); err != nil {
		return
	}
	s.created = true
	s.layout()
}

// Detach implements document.Surface, destroying the border windows.
func (s *Surface) Detach() {
	if !s.created {
		return
	}
	conn := s.conn.XUtil.Conn()
	for _, wid := range []xproto.Window{s.top, s.bottom, s.left, s.right} {
		if wid != 0 {
			xproto.DestroyWindow(conn, wid)
		}
	}
	s.top, s.bottom, s.left, s.right = 0, 0, 0, 0
	s.created = false
	s.visible = false
}

// SetVisible implements document.Surface by mapping or unmapping the bars.
func (s *Surface) SetVisible(v bool) {
	if v == s.visible {
		return
	}
	s.visible = v
	if !s.created {
		return
	}
	conn := s.conn.XUtil.Conn()
	for _, wid := range []xproto.Window{s.top, s.bottom, s.left, s.right} {
		if v {
			xproto.MapWindow(conn, wid)
		} else {
			xproto.UnmapWindow(conn, wid)
		}
	}
}

// Visible implements document.Surface.
func (s *Surface) Visible() bool { return s.visible }

// SetSize implements document.Surface. w and h are the framed content size;
// the bars extend beyond it by the border thickness.
func (s *Surface) SetSize(w, h int) {
	s.width, s.height = w, h
	s.layout()
}

// MoveTo implements document.Surface.
func (s *Surface) MoveTo(p geometry.Point) {
	s.pos = p
	s.layout()
}

// SetAnimated implements document.Surface. X windows reposition instantly;
// the flag is kept so a snap placement can suppress and restore it.
func (s *Surface) SetAnimated(v bool) { s.animated = v }

// Animated implements document.Surface.
func (s *Surface) Animated() bool { return s.animated }

// BorderWidths implements document.Surface.
func (s *Surface) BorderWidths() (top, left int) {
	return s.thickness, s.thickness
}

// layout reconfigures the 4 bars around the content rectangle.
func (s *Surface) layout() {
	if !s.created {
		return
	}

	x, y := s.pos.X, s.pos.Y
	w, h := s.width, s.height
	t := s.thickness

	s.updateWindow(s.top, x, y, w+2*t, t)
	s.updateWindow(s.bottom, x, y+t+h, w+2*t, t)
	s.updateWindow(s.left, x, y+t, t, h)
	s.updateWindow(s.right, x+t+w, y+t, t, h)
}

func (s *Surface) createWindows() error {
	var err error
	if s.top, err = s.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if s.bottom, err = s.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if s.left, err = s.createOverrideRedirectWindow(); err != nil {
		return err
	}
	if s.right, err = s.createOverrideRedirectWindow(); err != nil {
		return err
	}
	return nil
}

// createOverrideRedirectWindow creates a single bar window that bypasses the
// window manager.
func (s *Surface) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := s.conn.XUtil.Conn()
	screen := s.conn.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		s.conn.Root,
		0, 0, // positioned by layout
		1, 1,
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Value list order follows the bit positions of the mask (low to
		// high). CwBackPixel comes before CwOverrideRedirect, so it must
		// be first.
		[]uint32{s.color, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// updateWindow moves, resizes, and recolors one bar.
func (s *Surface) updateWindow(wid xproto.Window, x, y, width, height int) {
	conn := s.conn.XUtil.Conn()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // keep on top
		},
	)

	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{s.color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
