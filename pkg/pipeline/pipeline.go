// Package pipeline runs the label pipeline shared by the CLI and the HTTP
// server: prioritize candidates per series, place them, render the result.
//
// # Stages
//
//  1. Prioritize: order each series' candidates and keep the first
//     2×max_labels of them
//  2. Layout: interleave the series by rank and run the placement engine
//  3. Render: write the placed labels as SVG, PNG, PDF or JSON
//
// A scene document is authoritative: values it sets (viewport, budget,
// offset, font size) win over [Options], which only fill what the scene
// leaves unset.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, sc, pipeline.Options{
//	    MaxLabels: 8,
//	    Formats:   []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	orders, err := runner.Prioritize(ctx, sc, opts)
//	layout, err := runner.Layout(ctx, sc, opts)
//	artifacts, err := runner.Render(ctx, sc, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datalabels/pkg/cache"
	"github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/label/measure"
	"github.com/matzehuels/datalabels/pkg/label/placement"
	"github.com/matzehuels/datalabels/pkg/label/sink"
)

// Defaults shared by the CLI, the config file and the HTTP API.
const (
	// DefaultMaxLabels is the per-series label budget. The prioritizer
	// attempts twice as many candidates.
	DefaultMaxLabels = 10

	DefaultOffset       = placement.DefaultOffset
	DefaultFontSize     = measure.DefaultFontSize
	DefaultMarkerRadius = 3.0

	// DefaultWidth and DefaultHeight size scenes without a viewport.
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Text measurers.
const (
	MeasurerFont     = "font"
	MeasurerEstimate = "estimate"
)

// DefaultMeasurer uses real font metrics.
const DefaultMeasurer = MeasurerFont

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidMeasurers is the set of supported text measurers.
var ValidMeasurers = map[string]bool{
	MeasurerFont:     true,
	MeasurerEstimate: true,
}

// Options configures a pipeline run. It is the body of HTTP requests, so
// every field a client may set carries a JSON tag.
type Options struct {
	// Layout options
	MaxLabels int      `json:"max_labels,omitempty"`
	Offset    *float64 `json:"offset,omitempty"`
	FontSize  float64  `json:"font_size,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Measurer  string   `json:"measurer,omitempty"`
	NoGrid    bool     `json:"no_grid,omitempty"` // linear conflict scan instead of the grid index
	Refresh   bool     `json:"refresh,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Background   string   `json:"background,omitempty"`
	MarkerRadius float64  `json:"marker_radius,omitempty"`
	Boxes        bool     `json:"boxes,omitempty"`
	ShowHidden   bool     `json:"show_hidden,omitempty"`
	VisibleOnly  bool     `json:"visible_only,omitempty"`
	Scale        float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger       *log.Logger      `json:"-"`
	TextMeasurer measure.Measurer `json:"-"` // overrides Measurer

	validated bool
}

// Result holds the outputs of a full run.
type Result struct {
	// SceneHash is the content hash of the scene document.
	SceneHash string

	// Layout is the placed labels, in the labels.json shape.
	Layout sink.Output

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats are counts and timings of a run.
type Stats struct {
	Series     int
	Points     int
	Attempted  int
	Visible    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact was cached
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that name is a known measurer.
func ValidateMeasurer(name string) error {
	if !ValidMeasurers[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid measurer: %q (must be one of: font, estimate)", name)
	}
	return nil
}

// ValidateAndSetDefaults checks and completes options for a full run.
// Calling it twice is the same as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.MaxLabels == 0 {
		o.MaxLabels = DefaultMaxLabels
	}
	if o.Offset == nil {
		off := float64(DefaultOffset)
		o.Offset = &off
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	switch {
	case o.MaxLabels < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_labels must not be negative, got %d", o.MaxLabels)
	case *o.Offset < 0:
		return errors.New(errors.ErrCodeInvalidInput, "offset must not be negative, got %g", *o.Offset)
	case o.FontSize < 0:
		return errors.New(errors.ErrCodeInvalidInput, "font_size must not be negative, got %g", o.FontSize)
	case o.Width < 0 || o.Height < 0:
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.MarkerRadius == 0 {
		o.MarkerRadius = DefaultMarkerRadius
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render and layout defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateColor(o.Background); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "background: %s", errors.UserMessage(err))
	}
	if o.MarkerRadius < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "marker_radius and scale must not be negative")
	}
	return nil
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		MaxLabels: o.MaxLabels,
		FontSize:  o.FontSize,
		Measurer:  o.Measurer,
		Width:     o.Width,
		Height:    o.Height,
	}
	if o.Offset != nil {
		k.Offset = *o.Offset
	}
	if o.TextMeasurer != nil {
		k.Measurer = fmt.Sprintf("%T", o.TextMeasurer)
	}
	return k
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:       format,
		Background:   o.Background,
		Boxes:        o.Boxes,
		VisibleOnly:  o.VisibleOnly,
		FontSize:     o.FontSize,
		MarkerRadius: o.MarkerRadius,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.ShowHidden && format != FormatJSON {
		// Hidden records only change the SVG family.
		k.Format += "+hidden"
	}
	return k
}
