package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func nearPoint(a, b Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func nearRect(a, b Rect) bool {
	return near(a.Left, b.Left) && near(a.Top, b.Top) && near(a.Width, b.Width) && near(a.Height, b.Height)
}

var (
	square   = NewPolygon(Point{0, 0}, Point{10, 0}, Point{10, 10}, Point{0, 10})
	triangle = NewPolygon(Point{0, 0}, Point{6, 0}, Point{0, 6})
	lShape   = NewPolygon(Point{0, 0}, Point{10, 0}, Point{10, 4}, Point{4, 4}, Point{4, 10}, Point{0, 10})
)

func TestPolygonCentroid(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want Point
	}{
		{name: "square", poly: square, want: Point{5, 5}},
		{name: "triangle", poly: triangle, want: Point{2, 2}},
		{
			name: "closed ring",
			poly: NewPolygon(Point{0, 0}, Point{10, 0}, Point{10, 10}, Point{0, 10}, Point{0, 0}),
			want: Point{5, 5},
		},
		{
			name: "clockwise",
			poly: NewPolygon(Point{0, 10}, Point{10, 10}, Point{10, 0}, Point{0, 0}),
			want: Point{5, 5},
		},
		{
			name: "two vertices falls back to bounds centre",
			poly: NewPolygon(Point{0, 0}, Point{4, 2}),
			want: Point{2, 1},
		},
		{name: "empty", poly: Polygon{}, want: Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Centroid(); !nearPoint(got, tt.want) {
				t.Errorf("Centroid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonBoundingRect(t *testing.T) {
	got := lShape.BoundingRect()
	want := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	if got != want {
		t.Errorf("BoundingRect() = %v, want %v", got, want)
	}
	if (Polygon{}).BoundingRect() != (Rect{}) {
		t.Error("empty polygon should have zero bounds")
	}
}

func TestPolygonArea(t *testing.T) {
	if got := square.Area(); got != 100 {
		t.Errorf("square Area() = %v, want 100", got)
	}
	if got := lShape.Area(); got != 64 {
		t.Errorf("L Area() = %v, want 64", got)
	}
}

func TestPolygonContains(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		rect Rect
		want bool
	}{
		{name: "inside square", poly: square, rect: Rect{2, 2, 3, 3}, want: true},
		{name: "crosses edge", poly: square, rect: Rect{8, 8, 5, 5}, want: false},
		{name: "outside", poly: square, rect: Rect{20, 20, 1, 1}, want: false},
		{name: "L arm", poly: lShape, rect: Rect{1, 1, 2, 2}, want: true},
		{name: "L notch", poly: lShape, rect: Rect{5, 5, 2, 2}, want: false},
		{name: "wide rect in lower arm", poly: lShape, rect: Rect{1, 1, 8, 2}, want: true},
		{name: "empty rect", poly: square, rect: Rect{2, 2, 0, 0}, want: false},
		{name: "degenerate polygon", poly: NewPolygon(Point{0, 0}, Point{10, 10}), rect: Rect{1, 1, 1, 1}, want: false},
		{name: "collinear polygon", poly: NewPolygon(Point{0, 0}, Point{5, 5}, Point{10, 10}), rect: Rect{1, 1, 1, 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Contains(tt.rect); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{name: "overlap", other: Rect{5, 5, 10, 10}, want: true},
		{name: "touching edge", other: Rect{10, 0, 5, 5}, want: true},
		{name: "disjoint horizontally", other: Rect{11, 0, 5, 5}, want: false},
		{name: "disjoint vertically", other: Rect{0, 10.5, 5, 5}, want: false},
		{name: "contained", other: Rect{2, 2, 1, 1}, want: true},
		{name: "empty", other: Rect{2, 2, 0, 0}, want: false},
		{name: "nan", other: Rect{2, 2, math.NaN(), 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("symmetric Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	base := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	if !base.Contains(Rect{0, 0, 10, 10}) {
		t.Error("rect should contain itself")
	}
	if base.Contains(Rect{-1, 0, 5, 5}) {
		t.Error("rect should not contain an overhanging rect")
	}
	if base.Contains(Rect{1, 1, 0, 0}) {
		t.Error("empty rect should never be contained")
	}
}

func TestShapeDispatch(t *testing.T) {
	r := RectShape(Rect{Left: 10, Top: 20, Width: 40, Height: 10})
	if got := r.Centroid(); got != (Point{30, 25}) {
		t.Errorf("rect Centroid() = %v", got)
	}
	if !r.Contains(Rect{12, 21, 5, 5}) {
		t.Error("rect shape should contain inner rect")
	}

	p := PolygonShape(triangle)
	if got := p.Centroid(); !nearPoint(got, Point{2, 2}) {
		t.Errorf("polygon Centroid() = %v", got)
	}
	if got := p.BoundingRect(); got != (Rect{0, 0, 6, 6}) {
		t.Errorf("polygon BoundingRect() = %v", got)
	}

	if PointShape(Point{1, 1}).Empty() {
		t.Error("point anchors are not empty")
	}
	if !PolygonShape(Polygon{}).Empty() {
		t.Error("empty polygon should be empty")
	}
	if !(Shape{Kind: ShapeKind(9)}).Empty() {
		t.Error("unknown kind should be empty")
	}
}

func TestTransform(t *testing.T) {
	tf := NewTransform(Point{10, 20}, Point{2, 4}, Point{5, -5})

	got := tf.Apply(Point{0, 0})
	if !nearPoint(got, Point{25, 75}) {
		t.Fatalf("Apply() = %v, want {25 75}", got)
	}

	back := tf.Inverse().Apply(got)
	if !nearPoint(back, Point{0, 0}) {
		t.Errorf("Inverse().Apply() = %v, want origin", back)
	}

	m := tf.Matrix()
	for _, p := range []Point{{0, 0}, {3, -7}, {148781.8, 196749.2}} {
		if a, b := tf.Apply(p), m.TransformPoint(p); math.Abs(a.X-b.X) > 1e-6 || math.Abs(a.Y-b.Y) > 1e-6 {
			t.Errorf("Matrix() disagrees with Apply at %v: %v vs %v", p, b, a)
		}
	}

	inv := m.Invert().TransformPoint(got)
	if !nearPoint(inv, Point{0, 0}) {
		t.Errorf("Matrix().Invert() = %v, want origin", inv)
	}
}

func TestTransformApplyRectFlips(t *testing.T) {
	tf := NewTransform(Point{}, Point{-1, 1}, Point{})
	got := tf.ApplyRect(Rect{Left: 2, Top: 3, Width: 4, Height: 5})
	want := Rect{Left: -6, Top: 3, Width: 4, Height: 5}
	if !nearRect(got, want) {
		t.Errorf("ApplyRect() = %v, want %v", got, want)
	}
}

func TestIdentityTransform(t *testing.T) {
	id := IdentityTransform()
	if !id.IsIdentity() {
		t.Error("IdentityTransform should report IsIdentity")
	}
	p := Point{148781.8289518388, 196749.2354017094}
	if got := id.Apply(p); got != p {
		t.Errorf("identity Apply() = %v, want %v", got, p)
	}
	if got := id.Inverse().Apply(p); got != p {
		t.Errorf("identity Inverse().Apply() = %v, want %v", got, p)
	}
}
