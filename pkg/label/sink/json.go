package sink

import (
	"encoding/json"

	"github.com/matzehuels/datalabels/pkg/label"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	visibleOnly bool
	indent      bool
}

// WithVisibleOnly drops invisible records from the output.
func WithVisibleOnly() JSONOption { return func(r *jsonRenderer) { r.visibleOnly = true } }

// WithIndent pretty-prints the output.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Output is the JSON document written by [RenderJSON].
type Output struct {
	Viewport label.Viewport `json:"viewport"`
	Visible  int            `json:"visible"`
	Records  []label.Record `json:"records"`
}

// RenderJSON exports the frame's records.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := Output{
		Viewport: f.Viewport,
		Visible:  label.CountVisible(f.Records),
		Records:  make([]label.Record, 0, len(f.Records)),
	}
	for _, rec := range f.Records {
		if r.visibleOnly && !rec.IsVisible {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
