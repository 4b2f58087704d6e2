package geometry

// Point is a position in document coordinates.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle. The cursor engine uses two coordinate
// spaces: viewport coordinates (origin at the visible top-left corner) and
// absolute document coordinates (origin at the document top-left, independent
// of scrolling). A Rect does not know which space it is in; callers convert
// with FromViewport.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// FromViewport converts a viewport-space rect into absolute document
// coordinates by adding the current scroll offset.
func FromViewport(view Rect, scroll Point) Rect {
	return Rect{
		Left:   view.Left + scroll.X,
		Top:    view.Top + scroll.Y,
		Width:  view.Width,
		Height: view.Height,
	}
}

// Origin returns the rect's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Center returns the rect's center point.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns the rect shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Intersects reports whether two rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Left+other.Width &&
		r.Left+r.Width > other.Left &&
		r.Top < other.Top+other.Height &&
		r.Top+r.Height > other.Top
}

// Union returns the smallest rect covering all given rects. ok is false when
// the slice is empty.
func Union(rects []Rect) (union Rect, ok bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}

	minX := rects[0].Left
	minY := rects[0].Top
	maxX := rects[0].Left + rects[0].Width
	maxY := rects[0].Top + rects[0].Height

	for _, rect := range rects[1:] {
		if rect.Left < minX {
			minX = rect.Left
		}
		if rect.Top < minY {
			minY = rect.Top
		}
		if rect.Left+rect.Width > maxX {
			maxX = rect.Left + rect.Width
		}
		if rect.Top+rect.Height > maxY {
			maxY = rect.Top + rect.Height
		}
	}

	return Rect{
		Left:   minX,
		Top:    minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}, true
}

// CenterVertically returns the scroll offset that centers target vertically
// in a viewport of the given height, clamped at zero. The horizontal offset
// is passed through untouched.
func CenterVertically(target Rect, viewportHeight int, current Point) Point {
	y := target.Top - (viewportHeight-target.Height)/2
	if y < 0 {
		y = 0
	}
	return Point{X: current.X, Y: y}
}
