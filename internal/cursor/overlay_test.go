package cursor

import (
	"testing"

	"github.com/navkit/navcursor/internal/geometry"
	"github.com/navkit/navcursor/internal/memdoc"
)

func TestSuppressTransitionRoundTrips(t *testing.T) {
	for _, initial := range []bool{true, false} {
		surface := memdoc.NewSurface(1, 1)
		o := newOverlay(surface, "m")
		surface.SetAnimated(initial)

		restore := o.suppressTransition()
		if surface.Animated() {
			t.Fatal("transition must be off while suppressed")
		}
		restore()

		if surface.Animated() != initial {
			t.Fatalf("transition setting not restored: got %v, want %v", surface.Animated(), initial)
		}
	}
}

func TestSetFramePullsBackByBorder(t *testing.T) {
	surface := memdoc.NewSurface(4, 4)
	o := newOverlay(surface, "m")

	o.setFrame(geometry.Rect{Left: 100, Top: 200, Width: 50, Height: 25})

	got := surface.Bounds()
	want := geometry.Rect{Left: 96, Top: 196, Width: 50, Height: 25}
	if got != want {
		t.Fatalf("surface bounds = %+v, want %+v", got, want)
	}
}
