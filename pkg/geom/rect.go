package geom

// Point is a position on the page in points.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Inset returns the rectangle shrunk by pad on all four sides. The result
// may have negative width or height when pad exceeds half the dimension;
// callers that need a floor apply their own.
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X + pad, Y: r.Y + pad, W: r.W - 2*pad, H: r.H - 2*pad}
}

// Margins are page margins in points.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// Uniform returns margins with the same value on all sides.
func Uniform(m float64) Margins {
	return Margins{Left: m, Right: m, Top: m, Bottom: m}
}

// Content returns the page rectangle remaining inside the margins for a
// page of the given size.
func (m Margins) Content(pageW, pageH float64) Rect {
	return Rect{
		X: m.Left,
		Y: m.Bottom,
		W: pageW - m.Left - m.Right,
		H: pageH - m.Top - m.Bottom,
	}
}
