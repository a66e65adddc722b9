package placement

import (
	"math"

	"github.com/matzehuels/datalabels/pkg/geom"
)

// maxCellSpan bounds how many cells one rectangle may be registered in.
// Larger rectangles are kept in a side list and always scanned.
const maxCellSpan = 64

// index answers "does r touch anything accepted so far".
type index interface {
	conflicts(r geom.Rect) bool
	insert(r geom.Rect)
}

// linear scans every accepted rectangle.
type linear struct{ rects []geom.Rect }

func (l *linear) conflicts(r geom.Rect) bool {
	for _, p := range l.rects {
		if p.Intersects(r) {
			return true
		}
	}
	return false
}

func (l *linear) insert(r geom.Rect) { l.rects = append(l.rects, r) }

type cell struct{ x, y int }

// grid buckets accepted rectangles into square cells. Edges are bucketed
// inclusively, so rectangles that only touch still share a cell.
type grid struct {
	size     float64
	rects    []geom.Rect
	cells    map[cell][]int
	oversize []int
}

func newGrid(size float64) *grid {
	return &grid{size: size, cells: make(map[cell][]int)}
}

// cellRange returns the inclusive cell bounds of r, or ok=false when r
// covers too many cells or has coordinates that cannot be bucketed.
func (g *grid) cellRange(r geom.Rect) (lo, hi cell, ok bool) {
	x0, x1 := math.Floor(r.Left/g.size), math.Floor(r.Right()/g.size)
	y0, y1 := math.Floor(r.Top/g.size), math.Floor(r.Bottom()/g.size)
	if (x1-x0+1)*(y1-y0+1) > maxCellSpan || math.IsNaN(x0+x1+y0+y1) ||
		math.Abs(x0) > math.MaxInt32 || math.Abs(x1) > math.MaxInt32 ||
		math.Abs(y0) > math.MaxInt32 || math.Abs(y1) > math.MaxInt32 {
		return cell{}, cell{}, false
	}
	return cell{int(x0), int(y0)}, cell{int(x1), int(y1)}, true
}

func (g *grid) conflicts(r geom.Rect) bool {
	for _, i := range g.oversize {
		if g.rects[i].Intersects(r) {
			return true
		}
	}

	lo, hi, ok := g.cellRange(r)
	if !ok {
		for _, p := range g.rects {
			if p.Intersects(r) {
				return true
			}
		}
		return false
	}
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for _, i := range g.cells[cell{x, y}] {
				if g.rects[i].Intersects(r) {
					return true
				}
			}
		}
	}
	return false
}

func (g *grid) insert(r geom.Rect) {
	i := len(g.rects)
	g.rects = append(g.rects, r)

	lo, hi, ok := g.cellRange(r)
	if !ok {
		g.oversize = append(g.oversize, i)
		return
	}
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			c := cell{x, y}
			g.cells[c] = append(g.cells[c], i)
		}
	}
}
