package label

import (
	"math"

	"github.com/matzehuels/datalabels/pkg/geom"
)

// Size is the measured extent of a label's text in screen units.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Viewport is the screen area labels must stay inside.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect returns the viewport as a rectangle anchored at the origin.
func (v Viewport) Rect() geom.Rect {
	return geom.Rect{Width: v.Width, Height: v.Height}
}

// Candidate is one data point eligible to receive a label.
type Candidate struct {
	Text          string
	SecondaryText string
	Size          Size
	Anchor        geom.Shape
	Positions     []Position
	InsideFill    string
	OutsideFill   string
	SeriesIndex   int
	PointIndex    int

	// Value is the data value the prioritizer ranks on. Nil marks a
	// missing value.
	Value *float64
}

// Float returns a pointer to v, for building candidate values inline.
func Float(v float64) *float64 { return &v }

// Record is the outcome of placing one candidate. Invisible records carry a
// zero bounding box and no fill.
type Record struct {
	BoundingBox   geom.Rect `json:"bounding_box"`
	Text          string    `json:"text"`
	SecondaryText string    `json:"secondary_text,omitempty"`
	Fill          string    `json:"fill,omitempty"`
	IsVisible     bool      `json:"is_visible"`
	Position      Position  `json:"position"`
	SeriesIndex   int       `json:"series_index"`
	PointIndex    int       `json:"point_index"`
}

// CountVisible returns how many records were placed.
func CountVisible(records []Record) int {
	n := 0
	for _, r := range records {
		if r.IsVisible {
			n++
		}
	}
	return n
}
