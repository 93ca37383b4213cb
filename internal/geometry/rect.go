// Package geometry holds the axis-aligned rectangle math used for hit testing
// and rubber-band selection.
package geometry

// HandleSize is the side length of the square resize handle anchored at the
// bottom-right corner of every shape.
const HandleSize = 10.0

// Point is a 2D coordinate in board space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect represents an axis-aligned rectangle anchored at its X/Y corner.
// Width and Height may be negative while a gesture is in progress; call
// Normalize before containment tests on such a rect.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ContainsPoint checks if a point is inside the rect. Both edges are inclusive.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Handle returns the resize handle square of the rect.
func (r Rect) Handle() Rect {
	return Rect{
		X:      r.X + r.Width - HandleSize,
		Y:      r.Y + r.Height - HandleSize,
		Width:  HandleSize,
		Height: HandleSize,
	}
}

// InResizeHandle checks if a point falls on the resize handle.
func (r Rect) InResizeHandle(x, y float64) bool {
	return r.Handle().ContainsPoint(x, y)
}

// WithinBounds reports whether r is fully enclosed by container.
// Touching edges count as enclosed, partial overlap does not.
func (r Rect) WithinBounds(container Rect) bool {
	return r.X >= container.X &&
		r.X+r.Width <= container.X+container.Width &&
		r.Y >= container.Y &&
		r.Y+r.Height <= container.Y+container.Height
}

// Normalize flips negative extents so X/Y is the top-left corner and both
// extents are non-negative. The enclosed area is unchanged.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Translate moves the rect by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Grow extends the rect's extents by d, keeping X/Y fixed.
func (r Rect) Grow(d Point) Rect {
	r.Width += d.X
	r.Height += d.Y
	return r
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
