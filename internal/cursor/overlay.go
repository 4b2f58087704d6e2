package cursor

import (
	"github.com/navkit/navcursor/internal/document"
	"github.com/navkit/navcursor/internal/geometry"
)

// overlay is the controller for the engine's single cursor surface. The
// surface draws; the controller decides when it is shown, where it sits, and
// whether movement animates. Constructed hidden with its base style applied.
type overlay struct {
	surface document.Surface
}

func newOverlay(surface document.Surface, class string) *overlay {
	surface.ApplyBaseStyle(class)
	surface.SetVisible(false)
	return &overlay{surface: surface}
}

func (o *overlay) attach(root document.Element) {
	o.surface.AttachTo(root)
}

func (o *overlay) detach() {
	o.surface.Detach()
}

func (o *overlay) show()         { o.surface.SetVisible(true) }
func (o *overlay) hide()         { o.surface.SetVisible(false) }
func (o *overlay) visible() bool { return o.surface.Visible() }

// setFrame resizes the surface to the target rect and moves its translate
// transform to the rect's top-left, pulled back by the surface's own border
// so the visible box hugs the target instead of sitting inside-out by one
// border width.
func (o *overlay) setFrame(rect geometry.Rect) {
	o.surface.SetSize(rect.Width, rect.Height)
	borderTop, borderLeft := o.surface.BorderWidths()
	o.surface.MoveTo(geometry.Point{X: rect.Left - borderLeft, Y: rect.Top - borderTop})
}

// suppressTransition disables the movement animation and returns a restore
// function that puts back whatever setting was in effect before the call.
func (o *overlay) suppressTransition() (restore func()) {
	previous := o.surface.Animated()
	o.surface.SetAnimated(false)
	return func() {
		o.surface.SetAnimated(previous)
	}
}
