package placement

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

const tol = 1e-9

func nearRect(a, b geom.Rect) bool {
	return math.Abs(a.Left-b.Left) <= tol && math.Abs(a.Top-b.Top) <= tol &&
		math.Abs(a.Width-b.Width) <= tol && math.Abs(a.Height-b.Height) <= tol
}

func square(x0, y0, side float64) geom.Shape {
	return geom.PolygonShape(geom.NewPolygon(
		geom.Point{X: x0, Y: y0},
		geom.Point{X: x0 + side, Y: y0},
		geom.Point{X: x0 + side, Y: y0 + side},
		geom.Point{X: x0, Y: y0 + side},
	))
}

func point(x, y float64) geom.Shape { return geom.PointShape(geom.Point{X: x, Y: y}) }

func cand(text string, anchor geom.Shape, positions ...label.Position) label.Candidate {
	return label.Candidate{
		Text:        text,
		Size:        label.Size{Width: 40, Height: 10},
		Anchor:      anchor,
		Positions:   positions,
		InsideFill:  "#FFFFFF",
		OutsideFill: "#000000",
	}
}

var (
	view = label.Viewport{Width: 400, Height: 300}
	id   = geom.IdentityTransform()
)

func TestPositionRect(t *testing.T) {
	anchor := geom.Point{X: 148781.8289518388, Y: 196749.2354017094}
	size := label.Size{Width: 40, Height: 10}

	got := PositionRect(label.AboveLeft, anchor, size, DefaultOffset)
	want := geom.Rect{Left: 148737.57443421613, Top: 196736.6087917653, Width: 40, Height: 10}
	if !nearRect(got, want) {
		t.Errorf("AboveLeft = %+v, want %+v", got, want)
	}

	center := PositionRect(label.Center, anchor, size, DefaultOffset)
	above := PositionRect(label.Above, anchor, size, DefaultOffset)
	if d := center.Top - above.Top; math.Abs(d-(DefaultOffset+size.Height/2)) > tol {
		t.Errorf("Above moved top by %v, want %v", d, DefaultOffset+size.Height/2)
	}
	if above.Left != center.Left {
		t.Errorf("Above moved left: %v vs %v", above.Left, center.Left)
	}
}

func TestPositionRectAllSides(t *testing.T) {
	p := geom.Point{X: 100, Y: 100}
	size := label.Size{Width: 20, Height: 10}
	dx, dy := 5*math.Sin(45), 5*math.Cos(45)

	tests := []struct {
		pos  label.Position
		want geom.Rect
	}{
		{label.Center, geom.Rect{Left: 90, Top: 95, Width: 20, Height: 10}},
		{label.Above, geom.Rect{Left: 90, Top: 85, Width: 20, Height: 10}},
		{label.Below, geom.Rect{Left: 90, Top: 105, Width: 20, Height: 10}},
		{label.Left, geom.Rect{Left: 75, Top: 95, Width: 20, Height: 10}},
		{label.Right, geom.Rect{Left: 105, Top: 95, Width: 20, Height: 10}},
		{label.AboveLeft, geom.Rect{Left: 80 - dx, Top: 90 - dy, Width: 20, Height: 10}},
		{label.AboveRight, geom.Rect{Left: 100 + dx, Top: 90 - dy, Width: 20, Height: 10}},
		{label.BelowLeft, geom.Rect{Left: 80 - dx, Top: 100 + dy, Width: 20, Height: 10}},
		{label.BelowRight, geom.Rect{Left: 100 + dx, Top: 100 + dy, Width: 20, Height: 10}},
		{label.Position(42), geom.Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			if got := PositionRect(tt.pos, p, size, 5); !nearRect(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlaceCenterInside(t *testing.T) {
	recs := Place([]label.Candidate{cand("text", square(0, 0, 100), label.Center)}, view, id)
	r := recs[0]
	if !r.IsVisible {
		t.Fatal("not visible")
	}
	if want := (geom.Rect{Left: 30, Top: 45, Width: 40, Height: 10}); r.BoundingBox != want {
		t.Errorf("bbox = %+v, want %+v", r.BoundingBox, want)
	}
	if r.Fill != "#FFFFFF" {
		t.Errorf("fill = %q, want inside fill", r.Fill)
	}
	if r.Position != label.Center {
		t.Errorf("position = %v", r.Position)
	}
}

func TestPlaceCenterRequiresContainment(t *testing.T) {
	tests := []struct {
		name   string
		anchor geom.Shape
	}{
		{"point", point(100, 100)},
		{"small polygon", square(95, 95, 10)},
		{"small rect", geom.RectShape(geom.Rect{Left: 90, Top: 90, Width: 20, Height: 20})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Place([]label.Candidate{cand("x", tt.anchor, label.Center)}, view, id)
			if recs[0].IsVisible {
				t.Errorf("placed at %+v", recs[0].BoundingBox)
			}
		})
	}
}

func TestPlaceOutsideFill(t *testing.T) {
	recs := Place([]label.Candidate{cand("x", square(90, 90, 20), label.Above)}, view, id)
	if !recs[0].IsVisible {
		t.Fatal("not visible")
	}
	if recs[0].Fill != "#000000" {
		t.Errorf("fill = %q, want outside fill", recs[0].Fill)
	}
}

func TestPlaceConflicts(t *testing.T) {
	t.Run("same slot", func(t *testing.T) {
		recs := Place([]label.Candidate{
			cand("a", point(100, 100), label.Above),
			cand("b", point(100, 100), label.Above),
		}, view, id)
		if !recs[0].IsVisible || recs[1].IsVisible {
			t.Errorf("visibility = %v, %v; want true, false", recs[0].IsVisible, recs[1].IsVisible)
		}
	})

	t.Run("falls back to next position", func(t *testing.T) {
		recs := Place([]label.Candidate{
			cand("a", point(100, 100), label.Above),
			cand("b", point(100, 100), label.Above, label.Below),
		}, view, id)
		if !recs[1].IsVisible || recs[1].Position != label.Below {
			t.Errorf("second = %+v, want visible below", recs[1])
		}
	})

	t.Run("touching edges conflict", func(t *testing.T) {
		recs := Place([]label.Candidate{
			cand("a", point(50, 50), label.Right),
			cand("b", point(140, 50), label.Left),
		}, view, id)
		if got := recs[0].BoundingBox.Right(); got != 95 {
			t.Fatalf("first label ends at %v, want 95", got)
		}
		if recs[1].IsVisible {
			t.Errorf("touching label placed at %+v", recs[1].BoundingBox)
		}
	})

	t.Run("invisible records do not block", func(t *testing.T) {
		recs := Place([]label.Candidate{
			cand("a", point(100, 100), label.Above),
			cand("b", point(100, 100), label.Above),
			cand("c", point(100, 100), label.Below),
		}, view, id)
		if recs[1].IsVisible || !recs[2].IsVisible {
			t.Errorf("visibility = %v, %v", recs[1].IsVisible, recs[2].IsVisible)
		}
	})
}

func TestPlaceViewport(t *testing.T) {
	recs := Place([]label.Candidate{cand("x", point(2, 50), label.Left, label.Right)}, view, id)
	if recs[0].Position != label.Right {
		t.Errorf("position = %v, want right", recs[0].Position)
	}

	recs = Place([]label.Candidate{cand("x", point(2, 50), label.Left)}, view, id)
	if recs[0].IsVisible {
		t.Error("label placed outside viewport")
	}

	recs = Place([]label.Candidate{cand("x", point(2, 50), label.Left)}, label.Viewport{}, id)
	if !recs[0].IsVisible {
		t.Error("unbounded viewport rejected label")
	}

	big := cand("x", point(200, 150), label.Above)
	big.Size = label.Size{Width: 500, Height: 10}
	if recs := Place([]label.Candidate{big}, view, id); recs[0].IsVisible {
		t.Error("label wider than viewport placed")
	}
}

func TestPlaceDegenerate(t *testing.T) {
	noSize := cand("x", point(100, 100), label.Above)
	noSize.Size = label.Size{}
	nanSize := cand("x", point(100, 100), label.Above)
	nanSize.Size = label.Size{Width: math.NaN(), Height: 10}
	line := cand("x", geom.PolygonShape(geom.NewPolygon(geom.Point{X: 1, Y: 1}, geom.Point{X: 9, Y: 9})), label.Above)
	flat := cand("x", geom.PolygonShape(geom.NewPolygon(
		geom.Point{X: 0, Y: 0}, geom.Point{X: 5, Y: 5}, geom.Point{X: 10, Y: 10},
	)), label.Above)
	none := cand("x", point(100, 100))
	nanAnchor := cand("x", point(math.NaN(), 100), label.Above)

	tests := map[string]label.Candidate{
		"zero size":    noSize,
		"nan size":     nanSize,
		"two vertices": line,
		"zero area":    flat,
		"no positions": none,
		"nan anchor":   nanAnchor,
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			c.PointIndex = 7
			r := Place([]label.Candidate{c}, view, id)[0]
			if r.IsVisible || r.BoundingBox != (geom.Rect{}) || r.Fill != "" {
				t.Errorf("record = %+v, want invisible zero record", r)
			}
			if r.PointIndex != 7 || r.Text != "x" {
				t.Errorf("identity lost: %+v", r)
			}
		})
	}

	if got := Place(nil, view, id); len(got) != 0 {
		t.Errorf("Place(nil) = %v", got)
	}
}

func TestPlaceTransform(t *testing.T) {
	tf := geom.NewTransform(geom.Point{X: -1000, Y: -1000}, geom.Point{X: 2, Y: 2}, geom.Point{X: 10, Y: 10})
	anchor := square(1000, 1000, 100)

	center := Place([]label.Candidate{cand("a", anchor, label.Center)}, view, tf)[0]
	if want := (geom.Rect{Left: 90, Top: 105, Width: 40, Height: 10}); center.BoundingBox != want {
		t.Errorf("center bbox = %+v, want %+v", center.BoundingBox, want)
	}
	if center.Fill != "#FFFFFF" {
		t.Errorf("center fill = %q", center.Fill)
	}

	// The offset stays 5 screen units regardless of the scale.
	above := Place([]label.Candidate{cand("b", anchor, label.Above)}, view, tf)[0]
	if want := (geom.Rect{Left: 90, Top: 95, Width: 40, Height: 10}); above.BoundingBox != want {
		t.Errorf("above bbox = %+v, want %+v", above.BoundingBox, want)
	}

	// Above touches the centred label's top edge.
	both := Place([]label.Candidate{cand("a", anchor, label.Center), cand("b", anchor, label.Above)}, view, tf)
	if !both[0].IsVisible || both[1].IsVisible {
		t.Errorf("visibility = %v, %v; want true, false", both[0].IsVisible, both[1].IsVisible)
	}
}

func TestPlaceTransformContainment(t *testing.T) {
	// Native square of side 30 scaled x2 is 60 screen units wide, enough for
	// a 40 unit label; without the inverse mapping it would not fit.
	tf := geom.NewTransform(geom.Point{}, geom.Point{X: 2, Y: 2}, geom.Point{})
	recs := Place([]label.Candidate{cand("a", square(50, 50, 30), label.Center)}, view, tf)
	if !recs[0].IsVisible || recs[0].Fill != "#FFFFFF" {
		t.Errorf("record = %+v, want visible inside", recs[0])
	}
}

func TestWithOffset(t *testing.T) {
	recs := Place([]label.Candidate{cand("a", point(100, 100), label.Above)}, view, id, WithOffset(0))
	if got := recs[0].BoundingBox.Bottom(); got != 100 {
		t.Errorf("bottom = %v, want 100", got)
	}
	recs = Place([]label.Candidate{cand("a", point(100, 100), label.Above)}, view, id, WithOffset(-3))
	if got := recs[0].BoundingBox.Bottom(); got != 95 {
		t.Errorf("negative offset not ignored: bottom = %v", got)
	}
}

func randomScene(seed int64, n int) []label.Candidate {
	rng := rand.New(rand.NewSource(seed))
	cands := make([]label.Candidate, n)
	for i := range cands {
		x, y := rng.Float64()*400, rng.Float64()*300
		var anchor geom.Shape
		if rng.Intn(3) == 0 {
			anchor = square(x-30, y-30, 60)
		} else {
			anchor = point(x, y)
		}
		positions := label.DefaultPositions
		if anchor.Kind == geom.KindPolygon {
			positions = append([]label.Position{label.Center}, label.DefaultPositions...)
		}
		cands[i] = label.Candidate{
			Text:        fmt.Sprintf("p%d", i),
			Size:        label.Size{Width: 10 + rng.Float64()*50, Height: 8 + rng.Float64()*6},
			Anchor:      anchor,
			Positions:   positions,
			InsideFill:  "in",
			OutsideFill: "out",
			PointIndex:  i,
		}
	}
	return cands
}

func TestPlaceProperties(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			cands := randomScene(seed, 300)

			withGrid := Place(cands, view, id)
			linear := Place(cands, view, id, WithGrid(false))
			if !reflect.DeepEqual(withGrid, linear) {
				t.Fatal("grid and linear scan disagree")
			}
			if again := Place(cands, view, id); !reflect.DeepEqual(withGrid, again) {
				t.Fatal("not idempotent")
			}

			var visible []geom.Rect
			for i, r := range withGrid {
				if r.PointIndex != i {
					t.Fatalf("record %d out of order", i)
				}
				if !r.IsVisible {
					continue
				}
				if !view.Rect().Contains(r.BoundingBox) {
					t.Errorf("record %d leaves viewport: %+v", i, r.BoundingBox)
				}
				for _, v := range visible {
					if v.Intersects(r.BoundingBox) {
						t.Fatalf("record %d overlaps an earlier label", i)
					}
				}
				visible = append(visible, r.BoundingBox)
			}
			if len(visible) == 0 {
				t.Error("nothing placed")
			}
		})
	}
}

func TestGridOversize(t *testing.T) {
	g := newGrid(1)
	huge := geom.Rect{Left: 0, Top: 0, Width: 1000, Height: 1000}
	g.insert(huge)
	if len(g.oversize) != 1 {
		t.Fatalf("oversize = %v", g.oversize)
	}
	if !g.conflicts(geom.Rect{Left: 500, Top: 500, Width: 1, Height: 1}) {
		t.Error("oversize rect not found")
	}
	if g.conflicts(geom.Rect{Left: 2000, Top: 2000, Width: 1, Height: 1}) {
		t.Error("false conflict")
	}
}

func BenchmarkPlace(b *testing.B) {
	cands := randomScene(42, 2000)
	for _, grid := range []bool{true, false} {
		b.Run(fmt.Sprintf("grid=%v", grid), func(b *testing.B) {
			for range b.N {
				Place(cands, view, id, WithGrid(grid))
			}
		})
	}
}

func ExamplePlace() {
	cands := []label.Candidate{
		{Text: "a", Size: label.Size{Width: 20, Height: 10}, Anchor: point(50, 50), Positions: []label.Position{label.Above}},
		{Text: "b", Size: label.Size{Width: 20, Height: 10}, Anchor: point(52, 50), Positions: []label.Position{label.Above, label.Below}},
	}
	for _, r := range Place(cands, label.Viewport{Width: 100, Height: 100}, geom.IdentityTransform()) {
		fmt.Println(r.Text, r.IsVisible, r.Position, r.BoundingBox.Top)
	}
	// Output:
	// a true above 35
	// b true below 55
}

func TestCellSize(t *testing.T) {
	cands := []label.Candidate{
		{Size: label.Size{Width: 30, Height: 10}},
		{Size: label.Size{Width: 10, Height: 10}},
		{Size: label.Size{Width: -1, Height: 10}},
	}
	if got := cellSize(cands); got != 30 {
		t.Errorf("cellSize = %g, want 30", got)
	}
	if got := cellSize(nil); got != 0 {
		t.Errorf("cellSize(nil) = %g, want 0", got)
	}
}
