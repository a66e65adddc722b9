package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

// DefaultPalette colours anchors by series index.
var DefaultPalette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1"}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontSize     float64
	fontFamily   string
	background   string
	palette      []string
	markerRadius float64
	boxes        bool
	hidden       bool
}

// WithFontSize sets the label font size.
func WithFontSize(size float64) SVGOption { return func(r *svgRenderer) { r.fontSize = size } }

// WithFontFamily sets the CSS font-family of labels.
func WithFontFamily(family string) SVGOption { return func(r *svgRenderer) { r.fontFamily = family } }

// WithBackground fills the viewport with a colour.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithPalette overrides the series colours.
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithMarkerRadius sets the radius of point anchors in screen units.
func WithMarkerRadius(radius float64) SVGOption { return func(r *svgRenderer) { r.markerRadius = radius } }

// WithBoxes outlines every label's bounding box.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

// WithHidden lists invisible records in an SVG comment.
func WithHidden() SVGOption { return func(r *svgRenderer) { r.hidden = true } }

// RenderSVG draws the frame's anchors and visible labels.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{
		fontSize:     12,
		fontFamily:   "Go, Helvetica, Arial, sans-serif",
		palette:      DefaultPalette,
		markerRadius: 3,
	}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.Viewport.Width, f.Viewport.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	r.renderAnchors(&buf, f)
	r.renderLabels(&buf, f.Records)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) color(series int) string {
	if series < 0 {
		series = -series
	}
	return r.palette[series%len(r.palette)]
}

func (r *svgRenderer) renderAnchors(buf *bytes.Buffer, f Frame) {
	if len(f.Anchors) == 0 {
		return
	}

	m := f.Transform.Matrix()
	fmt.Fprintf(buf, `  <g class="anchors" transform="matrix(%g %g %g %g %g %g)">`+"\n", m.A, m.D, m.B, m.E, m.C, m.F)
	var points []Anchor
	for _, a := range f.Anchors {
		switch {
		case a.Shape.Empty():
			continue
		case a.Shape.Kind == geom.KindPolygon:
			renderPolygon(buf, a.Shape.Polygon, r.color(a.SeriesIndex))
		case a.Shape.Rect.Empty():
			points = append(points, a)
		default:
			rc := a.Shape.Rect
			fmt.Fprintf(buf, `    <rect x="%g" y="%g" width="%g" height="%g" fill="%s" fill-opacity="0.6" vector-effect="non-scaling-stroke" stroke="#333" stroke-width="0.5"/>`+"\n",
				rc.Left, rc.Top, rc.Width, rc.Height, r.color(a.SeriesIndex))
		}
	}
	buf.WriteString("  </g>\n")

	for _, a := range points {
		p := f.Transform.Apply(a.Shape.Centroid())
		fmt.Fprintf(buf, `  <circle class="marker" cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`+"\n",
			p.X, p.Y, r.markerRadius, r.color(a.SeriesIndex))
	}
}

func renderPolygon(buf *bytes.Buffer, p geom.Polygon, color string) {
	pts := make([]string, p.Len())
	for i := range pts {
		v := p.Vertex(i)
		pts[i] = fmt.Sprintf("%g,%g", v.X, v.Y)
	}
	fmt.Fprintf(buf, `    <polygon points="%s" fill="%s" fill-opacity="0.6" vector-effect="non-scaling-stroke" stroke="#333" stroke-width="0.5"/>`+"\n",
		strings.Join(pts, " "), color)
}

func (r *svgRenderer) renderLabels(buf *bytes.Buffer, records []label.Record) {
	fmt.Fprintf(buf, `  <g class="labels" font-family="%s" font-size="%g" text-anchor="middle">`+"\n", escapeXML(r.fontFamily), r.fontSize)
	var hidden []string
	for _, rec := range records {
		if !rec.IsVisible {
			hidden = append(hidden, fmt.Sprintf("%d/%d", rec.SeriesIndex, rec.PointIndex))
			continue
		}
		b := rec.BoundingBox
		if r.boxes {
			fmt.Fprintf(buf, `    <rect class="label-box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#999" stroke-dasharray="2 2"/>`+"\n",
				b.Left, b.Top, b.Width, b.Height)
		}
		fill := rec.Fill
		if fill == "" {
			fill = "#222"
		}
		c := b.Center()
		if rec.SecondaryText == "" {
			fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" dominant-baseline="central" fill="%s" data-position="%s">%s</text>`+"\n",
				c.X, c.Y, escapeXML(fill), rec.Position, escapeXML(rec.Text))
			continue
		}
		q := b.Height / 4
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" dominant-baseline="central" fill="%s" data-position="%s"><tspan x="%.2f">%s</tspan><tspan x="%.2f" y="%.2f">%s</tspan></text>`+"\n",
			c.X, c.Y-q, escapeXML(fill), rec.Position, c.X, escapeXML(rec.Text), c.X, c.Y+q, escapeXML(rec.SecondaryText))
	}
	buf.WriteString("  </g>\n")

	if r.hidden && len(hidden) > 0 {
		fmt.Fprintf(buf, "  <!-- hidden: %s -->\n", strings.Join(hidden, " "))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
