package placement

import (
	"math"

	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

// Option configures [Place].
type Option func(*options)

type options struct {
	offset float64
	grid   bool
}

// WithOffset sets the anchor-to-label gap in screen units. Negative values
// are ignored.
func WithOffset(offset float64) Option {
	return func(o *options) {
		if offset >= 0 {
			o.offset = offset
		}
	}
}

// WithGrid toggles the spatial index used for conflict tests. The result is
// the same either way; the grid only makes dense scenes faster.
func WithGrid(enabled bool) Option {
	return func(o *options) { o.grid = enabled }
}

// Place assigns a rectangle to each candidate in order and returns one record
// per candidate, in the same order.
//
// A viewport with a non-positive dimension does not bound placement. tf maps
// anchor coordinates to screen coordinates.
func Place(cands []label.Candidate, vp label.Viewport, tf geom.Transform, opts ...Option) []label.Record {
	o := options{offset: DefaultOffset, grid: true}
	for _, opt := range opts {
		opt(&o)
	}

	e := &engine{
		offset:  o.offset,
		view:    vp.Rect(),
		bounded: vp.Width > 0 && vp.Height > 0,
		tf:      tf,
		inv:     tf.Inverse(),
		placed:  &linear{},
	}
	if o.grid {
		if size := cellSize(cands); size > 0 {
			e.placed = newGrid(size)
		}
	}

	records := make([]label.Record, len(cands))
	for i, c := range cands {
		records[i] = e.place(c)
	}
	return records
}

type engine struct {
	offset  float64
	view    geom.Rect
	bounded bool
	tf, inv geom.Transform
	placed  index
}

func (e *engine) place(c label.Candidate) label.Record {
	rec := label.Record{
		Text:          c.Text,
		SecondaryText: c.SecondaryText,
		SeriesIndex:   c.SeriesIndex,
		PointIndex:    c.PointIndex,
	}
	if !c.Size.Valid() || c.Anchor.Empty() || len(c.Positions) == 0 {
		return rec
	}

	anchor := e.tf.Apply(c.Anchor.Centroid())
	if !finite(anchor.X) || !finite(anchor.Y) {
		return rec
	}

	for _, pos := range c.Positions {
		r := PositionRect(pos, anchor, c.Size, e.offset)
		if r.Empty() {
			continue
		}
		if e.bounded && !e.view.Contains(r) {
			continue
		}
		if e.placed.conflicts(r) {
			continue
		}
		inside := c.Anchor.Contains(e.inv.ApplyRect(r))
		if pos.RequiresContainment() && !inside {
			continue
		}

		e.placed.insert(r)
		rec.BoundingBox = r
		rec.Position = pos
		rec.IsVisible = true
		rec.Fill = c.OutsideFill
		if inside {
			rec.Fill = c.InsideFill
		}
		return rec
	}
	return rec
}

// cellSize is the mean width+height of the labels that can be placed.
func cellSize(cands []label.Candidate) float64 {
	var sum float64
	n := 0
	for _, c := range cands {
		if c.Size.Valid() {
			sum += c.Size.Width + c.Size.Height
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
