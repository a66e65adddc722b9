package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/datalabels/pkg/pipeline"
)

// optionFlags binds pipeline options to command flags. Only flags the user
// set override the config file, so an unset flag never masks a config value.
type optionFlags struct {
	opts    pipeline.Options
	offset  float64
	formats string
	fs      *pflag.FlagSet
}

// addLayoutFlags registers the flags that change a layout.
func (f *optionFlags) addLayoutFlags(fs *pflag.FlagSet) {
	f.fs = fs
	fs.IntVarP(&f.opts.MaxLabels, "max-labels", "k", pipeline.DefaultMaxLabels, "label budget per series")
	fs.Float64Var(&f.offset, "offset", pipeline.DefaultOffset, "gap between anchor and label")
	fs.Float64Var(&f.opts.FontSize, "font-size", pipeline.DefaultFontSize, "label font size")
	fs.Float64Var(&f.opts.Width, "width", pipeline.DefaultWidth, "viewport width when the scene has none")
	fs.Float64Var(&f.opts.Height, "height", pipeline.DefaultHeight, "viewport height when the scene has none")
	fs.StringVar(&f.opts.Measurer, "measurer", pipeline.DefaultMeasurer, "text measurer: font (default), estimate")
	fs.BoolVar(&f.opts.NoGrid, "no-grid", false, "check conflicts with a linear scan")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
}

// addRenderFlags registers the flags that change rendered artifacts.
func (f *optionFlags) addRenderFlags(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	fs.StringVar(&f.opts.Background, "background", "", "background color")
	fs.Float64Var(&f.opts.MarkerRadius, "marker-radius", pipeline.DefaultMarkerRadius, "radius of point anchors")
	fs.BoolVar(&f.opts.Boxes, "boxes", false, "outline label bounding boxes")
	fs.BoolVar(&f.opts.ShowHidden, "show-hidden", false, "draw labels that could not be placed")
	fs.BoolVar(&f.opts.VisibleOnly, "visible-only", false, "omit hidden records from JSON output")
	fs.Float64Var(&f.opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
}

// apply copies every flag the user set onto base.
func (f *optionFlags) apply(base pipeline.Options) pipeline.Options {
	set := func(name string) bool { return f.fs != nil && f.fs.Changed(name) }

	if set("max-labels") {
		base.MaxLabels = f.opts.MaxLabels
	}
	if set("offset") {
		v := f.offset
		base.Offset = &v
	}
	if set("font-size") {
		base.FontSize = f.opts.FontSize
	}
	if set("width") {
		base.Width = f.opts.Width
	}
	if set("height") {
		base.Height = f.opts.Height
	}
	if set("measurer") {
		base.Measurer = f.opts.Measurer
	}
	if set("no-grid") {
		base.NoGrid = f.opts.NoGrid
	}
	if set("refresh") {
		base.Refresh = f.opts.Refresh
	}
	if set("format") {
		base.Formats = parseFormats(f.formats)
	}
	if set("background") {
		base.Background = f.opts.Background
	}
	if set("marker-radius") {
		base.MarkerRadius = f.opts.MarkerRadius
	}
	if set("boxes") {
		base.Boxes = f.opts.Boxes
	}
	if set("show-hidden") {
		base.ShowHidden = f.opts.ShowHidden
	}
	if set("visible-only") {
		base.VisibleOnly = f.opts.VisibleOnly
	}
	if set("scale") {
		base.Scale = f.opts.Scale
	}
	return base
}
