package prioritize

import (
	"cmp"
	"math"
	"slices"
)

// WeightThreshold is the smallest weight an extremum may carry. Lighter
// extrema are left unweighted.
const WeightThreshold = 0.015

// Kind classifies a point of the smoothed series.
type Kind int

const (
	Neither Kind = iota
	Minimum
	Maximum
)

func (k Kind) String() string {
	switch k {
	case Minimum:
		return "min"
	case Maximum:
		return "max"
	default:
		return "none"
	}
}

// Extremum is a local extremum of a series after relocation onto the raw
// values.
type Extremum struct {
	Index int
	Kind  Kind
	Value float64

	// Weight is nil when the extremum is too light to rank, or when it has
	// no neighbouring extrema at all. A nil weight is not the same as zero.
	Weight *float64
}

// Extrema detects local extrema on a smoothed copy of values, moves each one
// to the most extreme raw value within half a window of where it was found,
// and weights it against its neighbours.
//
// The result is sorted by index and includes the first and last points when
// they classify as extrema. Series with fewer than two present values have
// no extrema.
func Extrema(values []*float64, axis Axis) []Extremum {
	n := len(values)
	if n < 2 {
		return nil
	}

	window := WindowSize(n, axis.Width)
	found := detect(Smooth(values, window))
	if len(found) == 0 {
		return nil
	}
	found = relocate(found, values, (window-1)/2)

	hi, lo := globalIndices(values)
	weigh(found, axis, *values[hi], *values[lo], n)
	return found
}

// detect classifies every present point of s. Missing and out-of-range
// neighbours are ignored; a point with a single neighbour must beat it
// strictly.
func detect(s []*float64) []Extremum {
	var out []Extremum
	for i, v := range s {
		if v == nil {
			continue
		}
		var left, right *float64
		if i > 0 {
			left = s[i-1]
		}
		if i < len(s)-1 {
			right = s[i+1]
		}
		if k := classify(*v, left, right); k != Neither {
			out = append(out, Extremum{Index: i, Kind: k, Value: *v})
		}
	}
	return out
}

func classify(v float64, left, right *float64) Kind {
	switch {
	case left != nil && right != nil:
		if v >= *left && v > *right {
			return Maximum
		}
		if v <= *left && v < *right {
			return Minimum
		}
	case left != nil:
		if v > *left {
			return Maximum
		}
		if v < *left {
			return Minimum
		}
	case right != nil:
		if v > *right {
			return Maximum
		}
		if v < *right {
			return Minimum
		}
	}
	return Neither
}

// relocate moves each extremum to the most extreme raw value within radius
// of its detected index, without crossing its neighbours. Only a strict
// improvement moves it. Duplicates left by the move are dropped.
func relocate(found []Extremum, values []*float64, radius int) []Extremum {
	origin := make([]int, len(found))
	for k, e := range found {
		origin[k] = e.Index
	}

	last := len(values) - 1
	for k := range found {
		lo := max(origin[k]-radius, 0)
		if k > 0 {
			lo = max(lo, origin[k-1]+1)
		}
		hi := min(origin[k]+radius, last)
		if k < len(found)-1 {
			hi = min(hi, origin[k+1]-1)
		}

		best := origin[k]
		for j := lo; j <= hi; j++ {
			if values[j] == nil {
				continue
			}
			if found[k].Kind == Maximum && *values[j] > *values[best] ||
				found[k].Kind == Minimum && *values[j] < *values[best] {
				best = j
			}
		}
		found[k].Index = best
		found[k].Value = *values[best]
	}

	slices.SortStableFunc(found, func(a, b Extremum) int { return cmp.Compare(a.Index, b.Index) })
	return slices.CompactFunc(found, func(a, b Extremum) bool { return a.Index == b.Index })
}

// weigh assigns each extremum the mean weight of the edges to its chain
// neighbours. An edge averages the scaled value gap, relative to the global
// value range, with the index gap relative to the series length.
func weigh(chain []Extremum, axis Axis, hi, lo float64, n int) {
	span := math.Abs(axis.apply(hi) - axis.apply(lo))
	edge := func(a, b Extremum) float64 {
		var vw float64
		if span > 0 {
			vw = math.Abs(axis.apply(a.Value)-axis.apply(b.Value)) / span
		}
		iw := math.Abs(float64(a.Index-b.Index)) / float64(n-1)
		return (vw + iw) / 2
	}

	for k := range chain {
		var sum float64
		edges := 0
		if k > 0 {
			sum += edge(chain[k-1], chain[k])
			edges++
		}
		if k < len(chain)-1 {
			sum += edge(chain[k], chain[k+1])
			edges++
		}
		if edges == 0 {
			continue
		}
		if w := sum / float64(edges); w >= WeightThreshold {
			chain[k].Weight = &w
		}
	}
}

// globalIndices returns the first index of the largest and of the smallest
// present value, or -1 for both when nothing is present.
func globalIndices(values []*float64) (hi, lo int) {
	hi, lo = -1, -1
	for i, v := range values {
		if v == nil {
			continue
		}
		if hi < 0 || *v > *values[hi] {
			hi = i
		}
		if lo < 0 || *v < *values[lo] {
			lo = i
		}
	}
	return hi, lo
}
