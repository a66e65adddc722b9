package scene

import (
	"github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
	"github.com/matzehuels/datalabels/pkg/label/measure"
)

// Defaults applied when a scene leaves a field unset.
const (
	DefaultInsideFill  = "#FFFFFF"
	DefaultOutsideFill = "#222222"
)

// areaPositions is the default for anchors with area: centred inside first,
// then around.
var areaPositions = append([]label.Position{label.Center}, label.DefaultPositions...)

// Candidates builds the label candidates of series index i, measuring each
// label with m at fontSize. Candidates are in point order.
func (s *Scene) Candidates(i int, m measure.Measurer, fontSize float64) ([]label.Candidate, error) {
	if i < 0 || i >= len(s.Series) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "series %d out of range", i)
	}
	series := &s.Series[i]

	positions, err := label.ParsePositions(series.Positions)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidPosition, "series %d: %v", i, err)
	}
	inside, outside := series.InsideFill, series.OutsideFill
	if inside == "" {
		inside = DefaultInsideFill
	}
	if outside == "" {
		outside = DefaultOutsideFill
	}

	cands := make([]label.Candidate, len(series.Points))
	for j, p := range series.Points {
		anchor, err := p.Anchor()
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidScene, "series %d point %d: %v", i, j, err)
		}
		text := series.Text(p)

		pos := positions
		if len(pos) == 0 {
			pos = defaultPositions(anchor)
		}

		cands[j] = label.Candidate{
			Text:          text,
			SecondaryText: p.SecondaryText,
			Size:          measure.Label(m, text, p.SecondaryText, fontSize),
			Anchor:        anchor,
			Positions:     pos,
			InsideFill:    inside,
			OutsideFill:   outside,
			SeriesIndex:   i,
			PointIndex:    j,
			Value:         p.Value,
		}
	}
	return cands, nil
}

func defaultPositions(anchor geom.Shape) []label.Position {
	if anchor.Kind == geom.KindPolygon || !anchor.Rect.Empty() {
		return areaPositions
	}
	return label.DefaultPositions
}

// Budget returns the label budget of series i, falling back to the scene
// budget and then to def.
func (s *Scene) Budget(i int, def int) int {
	if i >= 0 && i < len(s.Series) && s.Series[i].MaxLabels > 0 {
		return s.Series[i].MaxLabels
	}
	if s.MaxLabels > 0 {
		return s.MaxLabels
	}
	return def
}
