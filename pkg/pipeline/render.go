package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	dlerrors "github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// Render writes layout in every format of opts.Formats.
func Render(ctx context.Context, sc *scene.Scene, layout sink.Output, opts Options) (map[string][]byte, error) {
	if err := checkScene(sc); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	frame := Frame(sc, layout)
	svgOpts := buildSVGOptions(sc, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(frame, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, frame, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, frame, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(frame, buildJSONOptions(opts)...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, dlerrors.Wrap(dlerrors.ErrCodeUnsupported, err, "%s output needs rsvg-convert (librsvg)", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Frame pairs a layout with the anchors of its scene. Points whose anchor
// is invalid are left out.
func Frame(sc *scene.Scene, layout sink.Output) sink.Frame {
	f := sink.Frame{
		Viewport:  layout.Viewport,
		Transform: sc.GeomTransform(),
		Records:   layout.Records,
	}
	for i := range sc.Series {
		for _, p := range sc.Series[i].Points {
			shape, err := p.Anchor()
			if err != nil {
				continue
			}
			f.Anchors = append(f.Anchors, sink.Anchor{Shape: shape, SeriesIndex: i})
		}
	}
	return f
}

func buildSVGOptions(sc *scene.Scene, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithFontSize(fontSize(sc, opts)),
		sink.WithMarkerRadius(markerRadius(sc, opts)),
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Boxes {
		svgOpts = append(svgOpts, sink.WithBoxes())
	}
	if opts.ShowHidden {
		svgOpts = append(svgOpts, sink.WithHidden())
	}
	return svgOpts
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithIndent()}
	if opts.VisibleOnly {
		jsonOpts = append(jsonOpts, sink.WithVisibleOnly())
	}
	return jsonOpts
}
