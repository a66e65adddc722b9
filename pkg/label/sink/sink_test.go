package sink

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

func testFrame() Frame {
	return Frame{
		Viewport:  label.Viewport{Width: 200, Height: 100},
		Transform: geom.NewTransform(geom.Point{}, geom.Point{X: 2, Y: 2}, geom.Point{X: 10, Y: 0}),
		Anchors: []Anchor{
			{Shape: geom.PointShape(geom.Point{X: 20, Y: 20})},
			{Shape: geom.PolygonShape(geom.NewPolygon(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, geom.Point{X: 0, Y: 10})), SeriesIndex: 1},
			{Shape: geom.RectShape(geom.Rect{Left: 50, Top: 5, Width: 10, Height: 5}), SeriesIndex: 2},
			{Shape: geom.PolygonShape(geom.NewPolygon(geom.Point{X: 1, Y: 1}))},
		},
		Records: []label.Record{
			{BoundingBox: geom.Rect{Left: 10, Top: 10, Width: 40, Height: 10}, Text: "a<b", Fill: "#fff", IsVisible: true, Position: label.Above},
			{Text: "hidden", SeriesIndex: 1, PointIndex: 4},
			{BoundingBox: geom.Rect{Left: 60, Top: 60, Width: 40, Height: 20}, Text: "top", SecondaryText: "bottom", IsVisible: true, Position: label.Right},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithBoxes(), WithHidden(), WithBackground("white")))

	for _, want := range []string{
		`viewBox="0 0 200.0 100.0"`,
		`transform="matrix(2 0 0 2 10 0)"`,
		`<circle class="marker" cx="50.00" cy="40.00"`,
		`<polygon points="0,0 10,0 0,10"`,
		`<rect x="50" y="5" width="10" height="5"`,
		`>a&lt;b</text>`,
		`data-position="above"`,
		`<tspan x="80.00">top</tspan>`,
		`class="label-box"`,
		`<!-- hidden: 1/4 -->`,
		`fill="white"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if strings.Contains(svg, ">hidden<") {
		t.Error("invisible label drawn")
	}
	if strings.Count(svg, "<polygon") != 1 {
		t.Error("degenerate polygon drawn")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGPalette(t *testing.T) {
	f := testFrame()
	svg := string(RenderSVG(f, WithPalette("red")))
	if strings.Contains(svg, DefaultPalette[1]) {
		t.Error("default palette used")
	}
	if strings.Count(svg, `fill="red"`) != 3 {
		t.Errorf("palette not applied to every anchor:\n%s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Viewport.Width != 200 || out.Visible != 2 || len(out.Records) != 3 {
		t.Errorf("output = %+v", out)
	}
	if out.Records[2].Position != label.Right {
		t.Errorf("position = %v, want right", out.Records[2].Position)
	}

	data, err = RenderJSON(testFrame(), WithVisibleOnly(), WithIndent())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(out.Records) != 2 {
		t.Errorf("visible only kept %d records", len(out.Records))
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("output not indented")
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(Frame{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"records":[]`) {
		t.Errorf("empty records not an array: %s", data)
	}
}

func TestRenderPNG(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	png, err := RenderPNG(context.Background(), testFrame(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("not a PNG")
	}
}
