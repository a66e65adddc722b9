package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Rect is an axis-aligned rectangle. Y grows downward, so Top is the
// smallest Y coordinate.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b Point) Rect {
	left, right := math.Min(a.X, b.X), math.Max(a.X, b.X)
	top, bottom := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left, Y: r.Bottom()},
	}
}

// Empty reports whether the rectangle has no positive area.
// NaN dimensions count as empty.
func (r Rect) Empty() bool { return !(r.Width > 0 && r.Height > 0) }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Intersects reports whether r and o overlap. Touching edges count as an
// overlap. Empty rectangles never intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	left := math.Max(r.Left, o.Left)
	right := math.Min(r.Right(), o.Right())
	if left > right {
		return false
	}
	top := math.Max(r.Top, o.Top)
	bottom := math.Min(r.Bottom(), o.Bottom())
	return top <= bottom
}

// Contains reports whether o lies entirely within r, edges included.
// An empty o is never contained.
func (r Rect) Contains(o Rect) bool {
	if o.Empty() {
		return false
	}
	return o.Left >= r.Left && o.Top >= r.Top &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies within r, edges included.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}
