// Package scene reads and writes scene documents: the chart description the
// CLI and HTTP API lay out.
//
// A scene carries the viewport, the transform from data space to screen
// space and one or more series of points. Every point has an optional value
// used for prioritising and exactly one anchor: a point (x/y), a rectangle or
// a polygon ring. Scenes are JSON or YAML; the format is chosen by file
// extension.
//
//	viewport: {width: 640, height: 480}
//	max_labels: 10
//	series:
//	  - name: revenue
//	    format: "%.1f"
//	    points:
//	      - {value: 12.5, x: 10, y: 200}
//	      - {value: null, x: 20, y: 180}
package scene

import (
	"fmt"

	"github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
	"github.com/matzehuels/datalabels/pkg/label/prioritize"
)

// Scene is a chart to label.
type Scene struct {
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Viewport  label.Viewport `json:"viewport" yaml:"viewport"`
	Transform *Transform     `json:"transform,omitempty" yaml:"transform,omitempty"`
	Axis      *Axis          `json:"axis,omitempty" yaml:"axis,omitempty"`

	// MaxLabels is the label budget per series. Zero leaves it to the
	// caller's default.
	MaxLabels int `json:"max_labels,omitempty" yaml:"max_labels,omitempty"`

	// Offset overrides the anchor-to-label gap. Nil leaves it to the
	// caller's default; zero is a valid gap.
	Offset *float64 `json:"offset,omitempty" yaml:"offset,omitempty"`

	FontSize     float64  `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	MarkerRadius float64  `json:"marker_radius,omitempty" yaml:"marker_radius,omitempty"`
	Series       []Series `json:"series" yaml:"series"`
}

// Transform maps data coordinates to screen coordinates as
// (p + translate) * scale + post_translate.
type Transform struct {
	Translate     geom.Point  `json:"translate" yaml:"translate"`
	Scale         *geom.Point `json:"scale,omitempty" yaml:"scale,omitempty"`
	PostTranslate geom.Point  `json:"post_translate" yaml:"post_translate"`
}

// Axis is a linear value axis. It only affects how extrema are weighted.
type Axis struct {
	Domain [2]float64 `json:"domain" yaml:"domain"`
	Range  [2]float64 `json:"range" yaml:"range"`
}

// Series is one labelled data series.
type Series struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Format is the printf format turning a value into label text when a
	// point has no explicit text. Defaults to "%g".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Positions in preference order. Empty selects a default based on the
	// anchor kind.
	Positions   []string `json:"positions,omitempty" yaml:"positions,omitempty"`
	InsideFill  string   `json:"inside_fill,omitempty" yaml:"inside_fill,omitempty"`
	OutsideFill string   `json:"outside_fill,omitempty" yaml:"outside_fill,omitempty"`

	// MaxLabels overrides the scene budget for this series.
	MaxLabels int     `json:"max_labels,omitempty" yaml:"max_labels,omitempty"`
	Points    []Point `json:"points" yaml:"points"`
}

// Point is one data point and its anchor.
type Point struct {
	Value         *float64     `json:"value" yaml:"value"`
	Text          string       `json:"text,omitempty" yaml:"text,omitempty"`
	SecondaryText string       `json:"secondary_text,omitempty" yaml:"secondary_text,omitempty"`
	X             *float64     `json:"x,omitempty" yaml:"x,omitempty"`
	Y             *float64     `json:"y,omitempty" yaml:"y,omitempty"`
	Rect          *geom.Rect   `json:"rect,omitempty" yaml:"rect,omitempty"`
	Polygon       [][2]float64 `json:"polygon,omitempty" yaml:"polygon,omitempty"`
}

// GeomTransform returns the scene transform, or the identity.
func (s *Scene) GeomTransform() geom.Transform {
	if s.Transform == nil {
		return geom.IdentityTransform()
	}
	scale := geom.Point{X: 1, Y: 1}
	if s.Transform.Scale != nil {
		scale = *s.Transform.Scale
	}
	return geom.NewTransform(s.Transform.Translate, scale, s.Transform.PostTranslate)
}

// ValueAxis returns the prioritizer axis for the scene.
func (s *Scene) ValueAxis() prioritize.Axis {
	axis := prioritize.Axis{Width: s.Viewport.Width}
	if s.Axis != nil {
		axis.Scale = prioritize.Linear{Domain: s.Axis.Domain, Range: s.Axis.Range}
	}
	return axis
}

// Validate checks the scene for structural problems. It does not judge
// geometry: degenerate anchors are legal and simply stay unlabelled.
func (s *Scene) Validate() error {
	if err := errors.ValidateName(s.Name); err != nil {
		return err
	}
	if s.Viewport.Width < 0 || s.Viewport.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "viewport must not be negative")
	}
	if s.MaxLabels < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "max_labels must not be negative")
	}
	if s.Offset != nil && *s.Offset < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "offset must not be negative")
	}
	if s.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "font_size must not be negative")
	}
	if s.Transform != nil && s.Transform.Scale != nil && (s.Transform.Scale.X == 0 || s.Transform.Scale.Y == 0) {
		return errors.New(errors.ErrCodeInvalidScene, "transform scale must not be zero")
	}
	for i := range s.Series {
		if err := s.Series[i].validate(); err != nil {
			return errors.New(errors.GetCode(err), "series %d: %s", i, errors.UserMessage(err))
		}
	}
	return nil
}

func (s *Series) validate() error {
	if err := errors.ValidateName(s.Name); err != nil {
		return err
	}
	if err := errors.ValidateValueFormat(s.Format); err != nil {
		return err
	}
	if _, err := label.ParsePositions(s.Positions); err != nil {
		return errors.New(errors.ErrCodeInvalidPosition, "positions: %v", err)
	}
	for _, c := range []string{s.InsideFill, s.OutsideFill} {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	if s.MaxLabels < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "max_labels must not be negative")
	}
	for j, p := range s.Points {
		if _, err := p.Anchor(); err != nil {
			return errors.New(errors.ErrCodeInvalidScene, "point %d: %v", j, err)
		}
	}
	return nil
}

// Anchor returns the point's anchor shape. Exactly one of x/y, rect or
// polygon must be set.
func (p Point) Anchor() (geom.Shape, error) {
	set := 0
	if p.X != nil || p.Y != nil {
		set++
	}
	if p.Rect != nil {
		set++
	}
	if p.Polygon != nil {
		set++
	}
	if set != 1 {
		return geom.Shape{}, fmt.Errorf("need exactly one of x/y, rect or polygon, got %d", set)
	}

	switch {
	case p.Rect != nil:
		return geom.RectShape(*p.Rect), nil
	case p.Polygon != nil:
		pts := make([]geom.Point, len(p.Polygon))
		for i, v := range p.Polygon {
			pts[i] = geom.Point{X: v[0], Y: v[1]}
		}
		return geom.PolygonShape(geom.NewPolygon(pts...)), nil
	default:
		if p.X == nil || p.Y == nil {
			return geom.Shape{}, fmt.Errorf("point anchor needs both x and y")
		}
		return geom.PointShape(geom.Point{X: *p.X, Y: *p.Y}), nil
	}
}

// Text returns the point's label text, formatting the value when no text is
// given.
func (s *Series) Text(p Point) string {
	if p.Text != "" || p.Value == nil {
		return p.Text
	}
	format := s.Format
	if format == "" {
		format = "%g"
	}
	return fmt.Sprintf(format, *p.Value)
}
