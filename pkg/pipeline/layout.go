package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/label"
	"github.com/matzehuels/datalabels/pkg/label/measure"
	"github.com/matzehuels/datalabels/pkg/label/placement"
	"github.com/matzehuels/datalabels/pkg/label/prioritize"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/observability"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// SeriesOrder is the priority order of one series.
type SeriesOrder struct {
	Series int    `json:"series"`
	Name   string `json:"name,omitempty"`
	Budget int    `json:"budget"`
	Order  []int  `json:"order"` // point indices, a permutation of the series
}

// Attempted returns the point indices handed to the placement engine.
func (s SeriesOrder) Attempted() []int {
	return s.Order[:prioritize.Budget(len(s.Order), s.Budget)]
}

// Prioritize returns the priority order of every series in sc.
func Prioritize(ctx context.Context, sc *scene.Scene, opts Options) ([]SeriesOrder, error) {
	if err := checkScene(sc); err != nil {
		return nil, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	axis := valueAxis(sc, opts)

	orders := make([]SeriesOrder, len(sc.Series))
	for i := range sc.Series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := &sc.Series[i]
		values := make([]*float64, len(s.Points))
		for j, p := range s.Points {
			values[j] = p.Value
		}
		k := sc.Budget(i, opts.MaxLabels)
		orders[i] = SeriesOrder{
			Series: i,
			Name:   s.Name,
			Budget: k,
			Order:  prioritize.Indices(values, k, axis),
		}
	}
	return orders, nil
}

// ComputeLayout prioritizes every series of sc and places the attempted
// candidates. Series are interleaved by rank so the most important label
// of each series is placed before the second of any.
func ComputeLayout(ctx context.Context, sc *scene.Scene, opts Options) (sink.Output, error) {
	if err := checkScene(sc); err != nil {
		return sink.Output{}, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return sink.Output{}, err
	}
	hooks := observability.Pipeline()
	m := textMeasurer(opts)
	fontSize := fontSize(sc, opts)
	axis := valueAxis(sc, opts)

	ranked := make([][]label.Candidate, len(sc.Series))
	for i := range sc.Series {
		if err := ctx.Err(); err != nil {
			return sink.Output{}, err
		}
		name := seriesName(sc, i)
		start := time.Now()
		hooks.OnPrioritizeStart(ctx, name, len(sc.Series[i].Points))

		cands, err := sc.Candidates(i, m, fontSize)
		if err != nil {
			return sink.Output{}, err
		}
		k := sc.Budget(i, opts.MaxLabels)
		ordered := prioritize.Order(cands, k, axis)
		ranked[i] = ordered[:prioritize.Budget(len(ordered), k)]

		hooks.OnPrioritizeComplete(ctx, name, len(ranked[i]), time.Since(start))
		opts.Logger.Debug("prioritized series",
			"series", name,
			"points", len(cands),
			"attempted", len(ranked[i]))
	}

	all := interleave(ranked)
	start := time.Now()
	hooks.OnPlaceStart(ctx, len(all))
	vp := viewport(sc, opts)
	records := placement.Place(all, vp, sc.GeomTransform(),
		placement.WithOffset(offset(sc, opts)),
		placement.WithGrid(!opts.NoGrid))
	visible := label.CountVisible(records)
	hooks.OnPlaceComplete(ctx, len(records), visible, time.Since(start))

	return sink.Output{Viewport: vp, Visible: visible, Records: records}, nil
}

// interleave merges per-series rankings round-robin: rank 0 of every
// series, then rank 1, and so on.
func interleave(ranked [][]label.Candidate) []label.Candidate {
	n, depth := 0, 0
	for _, r := range ranked {
		n += len(r)
		depth = max(depth, len(r))
	}
	out := make([]label.Candidate, 0, n)
	for rank := 0; rank < depth; rank++ {
		for _, r := range ranked {
			if rank < len(r) {
				out = append(out, r[rank])
			}
		}
	}
	return out
}

func checkScene(sc *scene.Scene) error {
	if sc == nil {
		return errors.New(errors.ErrCodeInvalidScene, "scene is required")
	}
	return nil
}

func seriesName(sc *scene.Scene, i int) string {
	if name := sc.Series[i].Name; name != "" {
		return name
	}
	return fmt.Sprintf("series-%d", i)
}

// viewport returns the scene viewport, or the options' size when the scene
// has none.
func viewport(sc *scene.Scene, opts Options) label.Viewport {
	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		return sc.Viewport
	}
	return label.Viewport{Width: opts.Width, Height: opts.Height}
}

func valueAxis(sc *scene.Scene, opts Options) prioritize.Axis {
	axis := sc.ValueAxis()
	axis.Width = viewport(sc, opts).Width
	return axis
}

func offset(sc *scene.Scene, opts Options) float64 {
	if sc.Offset != nil {
		return *sc.Offset
	}
	return *opts.Offset
}

func fontSize(sc *scene.Scene, opts Options) float64 {
	if sc.FontSize > 0 {
		return sc.FontSize
	}
	return opts.FontSize
}

func markerRadius(sc *scene.Scene, opts Options) float64 {
	if sc.MarkerRadius > 0 {
		return sc.MarkerRadius
	}
	return opts.MarkerRadius
}

// textMeasurer picks the measurer named by opts. The font measurer falls
// back to the estimator if the embedded font cannot be parsed.
func textMeasurer(opts Options) measure.Measurer {
	if opts.TextMeasurer != nil {
		return opts.TextMeasurer
	}
	if opts.Measurer == MeasurerEstimate {
		return measure.DefaultEstimator
	}
	f, err := measure.Default()
	if err != nil {
		opts.Logger.Warn("font unavailable, estimating text size", "err", err)
		return measure.DefaultEstimator
	}
	return f
}
