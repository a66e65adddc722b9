package geom

import "math"

// Polygon is a simple polygon stored as a flat coordinate ring
// [x0, y0, x1, y1, ...]. The ring does not need to be closed; a repeated
// first vertex at the end is harmless. A trailing odd coordinate is ignored.
type Polygon struct {
	Points []float64 `json:"points" yaml:"points"`
}

// NewPolygon builds a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	flat := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	return Polygon{Points: flat}
}

// Len returns the number of vertices.
func (p Polygon) Len() int { return len(p.Points) / 2 }

// Vertex returns the i-th vertex.
func (p Polygon) Vertex(i int) Point {
	return Point{X: p.Points[2*i], Y: p.Points[2*i+1]}
}

// signedArea returns the shoelace sum before halving.
func (p Polygon) signedArea() float64 {
	n := p.Len()
	var sum float64
	for i := 0; i < n; i++ {
		a, b := p.Vertex(i), p.Vertex((i+1)%n)
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// Area returns the unsigned area enclosed by the ring.
func (p Polygon) Area() float64 { return math.Abs(p.signedArea() / 2) }

// Degenerate reports whether the polygon has fewer than three vertices or
// encloses no area.
func (p Polygon) Degenerate() bool {
	if p.Len() < 3 {
		return true
	}
	a := p.signedArea()
	return a == 0 || math.IsNaN(a)
}

// Centroid returns the area-weighted centroid computed with the shoelace
// formula. Degenerate polygons fall back to the centre of their bounding
// rectangle, and an empty polygon returns the origin.
func (p Polygon) Centroid() Point {
	n := p.Len()
	if p.Degenerate() {
		if n == 0 {
			return Point{}
		}
		return p.BoundingRect().Center()
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		a, b := p.Vertex(i), p.Vertex((i+1)%n)
		cross := a.X*b.Y - b.X*a.Y
		area += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	area *= 0.5
	cx /= 6 * area
	cy /= 6 * area
	return Point{X: cx, Y: cy}
}

// BoundingRect returns the axis-aligned bounds of the vertices.
func (p Polygon) BoundingRect() Rect {
	n := p.Len()
	if n == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := p.Vertex(i)
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// ContainsPoint reports whether pt is inside the polygon using an even-odd
// ray cast. Points exactly on an edge may land on either side.
func (p Polygon) ContainsPoint(pt Point) bool {
	n := p.Len()
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertex(i), p.Vertex(j)
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// Contains reports whether all four corners of r are inside the polygon.
func (p Polygon) Contains(r Rect) bool {
	if r.Empty() || p.Degenerate() {
		return false
	}
	for _, c := range r.Corners() {
		if !p.ContainsPoint(c) {
			return false
		}
	}
	return true
}
