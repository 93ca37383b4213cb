package geometry

// Affine represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Affine [6]float64

// Identity returns the identity matrix.
func Identity() Affine {
	return Affine{1, 0, 0, 1, 0, 0}
}

// TranslateBy returns a translation matrix.
func TranslateBy(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// ScaleBy returns a scale matrix.
func ScaleBy(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * other, which applies other first.
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyRect transforms a rectangle and returns its axis-aligned bounding box.
func (m Affine) ApplyRect(r Rect) Rect {
	p0 := m.Apply(Point{r.X, r.Y})
	p1 := m.Apply(Point{r.X + r.Width, r.Y})
	p2 := m.Apply(Point{r.X + r.Width, r.Y + r.Height})
	p3 := m.Apply(Point{r.X, r.Y + r.Height})

	minX := min(p0.X, p1.X, p2.X, p3.X)
	minY := min(p0.Y, p1.Y, p2.Y, p3.Y)
	maxX := max(p0.X, p1.X, p2.X, p3.X)
	maxY := max(p0.Y, p1.Y, p2.Y, p3.Y)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Fit returns the transform that scales src uniformly into dst, preserving
// aspect ratio and centering the result.
func Fit(src, dst Rect) Affine {
	if src.IsEmpty() || dst.IsEmpty() {
		return Identity()
	}
	scale := min(dst.Width/src.Width, dst.Height/src.Height)
	offX := dst.X + (dst.Width-src.Width*scale)/2
	offY := dst.Y + (dst.Height-src.Height*scale)/2
	return TranslateBy(offX, offY).Multiply(ScaleBy(scale, scale)).Multiply(TranslateBy(-src.X, -src.Y))
}
