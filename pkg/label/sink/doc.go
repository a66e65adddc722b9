// Package sink renders placed labels.
//
// A [Frame] bundles what a renderer needs: the viewport, the transform from
// anchor space to screen space, the anchors themselves and the records
// produced by the placement package.
//
//   - [RenderSVG] draws anchors and visible labels as a standalone SVG.
//   - [RenderJSON] exports the records with the viewport for other tools.
//   - [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert.
//
// Polygons and rectangles are drawn in their native space under a single
// SVG transform; point anchors are drawn as fixed-radius circles in screen
// space so they do not grow with the zoom level.
package sink

import (
	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

// Anchor is a shape to draw under the labels.
type Anchor struct {
	Shape       geom.Shape
	SeriesIndex int
}

// Frame is one rendered scene.
type Frame struct {
	Viewport  label.Viewport
	Transform geom.Transform
	Anchors   []Anchor
	Records   []label.Record
}
