package placement

import (
	"math"

	"github.com/matzehuels/datalabels/pkg/geom"
	"github.com/matzehuels/datalabels/pkg/label"
)

// DefaultOffset is the gap between an anchor and its label in screen units.
const DefaultOffset = 5.0

// Diagonal positions split the offset between both axes so the corner of the
// label sits at roughly offset distance from the anchor. The angle is taken
// in radians; existing layouts depend on the resulting values.
var (
	diagX = math.Sin(45)
	diagY = math.Cos(45)
)

// PositionRect returns the screen rectangle of a label of the given size
// placed at pos relative to anchor. Unknown positions yield an empty
// rectangle.
func PositionRect(pos label.Position, anchor geom.Point, size label.Size, offset float64) geom.Rect {
	w, h := size.Width, size.Height
	r := geom.Rect{Width: w, Height: h}

	switch pos {
	case label.Center:
		r.Left, r.Top = anchor.X-w/2, anchor.Y-h/2
	case label.Above:
		r.Left, r.Top = anchor.X-w/2, anchor.Y-h-offset
	case label.Below:
		r.Left, r.Top = anchor.X-w/2, anchor.Y+offset
	case label.Left:
		r.Left, r.Top = anchor.X-w-offset, anchor.Y-h/2
	case label.Right:
		r.Left, r.Top = anchor.X+offset, anchor.Y-h/2
	case label.AboveLeft:
		r.Left, r.Top = anchor.X-offset*diagX-w, anchor.Y-offset*diagY-h
	case label.AboveRight:
		r.Left, r.Top = anchor.X+offset*diagX, anchor.Y-offset*diagY-h
	case label.BelowLeft:
		r.Left, r.Top = anchor.X-offset*diagX-w, anchor.Y+offset*diagY
	case label.BelowRight:
		r.Left, r.Top = anchor.X+offset*diagX, anchor.Y+offset*diagY
	default:
		return geom.Rect{}
	}
	return r
}
