package geom

import "math"

// ShapeKind discriminates the variants of [Shape].
type ShapeKind int

const (
	KindRect ShapeKind = iota
	KindPolygon
)

// String returns the lowercase kind name.
func (k ShapeKind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is an anchor region a label is associated with. Exactly one of Rect
// or Polygon is meaningful, selected by Kind.
type Shape struct {
	Kind    ShapeKind
	Rect    Rect
	Polygon Polygon
}

// RectShape wraps r as a Shape.
func RectShape(r Rect) Shape { return Shape{Kind: KindRect, Rect: r} }

// PolygonShape wraps p as a Shape.
func PolygonShape(p Polygon) Shape { return Shape{Kind: KindPolygon, Polygon: p} }

// PointShape is a zero-size rectangle at p, used for point markers.
func PointShape(p Point) Shape { return RectShape(Rect{Left: p.X, Top: p.Y}) }

// Centroid returns the rectangle centre or the polygon's area centroid.
func (s Shape) Centroid() Point {
	if s.Kind == KindPolygon {
		return s.Polygon.Centroid()
	}
	return s.Rect.Center()
}

// BoundingRect returns the shape's axis-aligned bounds.
func (s Shape) BoundingRect() Rect {
	if s.Kind == KindPolygon {
		return s.Polygon.BoundingRect()
	}
	return s.Rect
}

// Contains reports whether r lies fully inside the shape.
func (s Shape) Contains(r Rect) bool {
	switch s.Kind {
	case KindRect:
		return s.Rect.Contains(r)
	case KindPolygon:
		return s.Polygon.Contains(r)
	default:
		return false
	}
}

// Empty reports whether the shape cannot anchor a label. Zero-size
// rectangles are valid point anchors; polygons must enclose area.
func (s Shape) Empty() bool {
	switch s.Kind {
	case KindRect:
		r := s.Rect
		return r.Width < 0 || r.Height < 0 || math.IsNaN(r.Left) || math.IsNaN(r.Top)
	case KindPolygon:
		return s.Polygon.Degenerate()
	default:
		return true
	}
}
